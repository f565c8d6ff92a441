package device

import "fmt"

// ValidationError reports a mutation that would break a bounds or shape
// invariant. The store is unchanged when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func outOfRange(field string, value, lo, hi int) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf("%d is outside [%d, %d]", value, lo, hi)}
}

// UnknownEffectError reports a reference to an effect that is not registered.
type UnknownEffectError struct {
	Effect string
}

func (e *UnknownEffectError) Error() string {
	return fmt.Sprintf("unknown effect %q", e.Effect)
}

// InvalidOptionError reports an effect option that is not in the active
// effect's schema, carries a bad value, or targets an effect that is not
// currently active.
type InvalidOptionError struct {
	Effect  string
	Key     string
	Message string
}

func (e *InvalidOptionError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("effect %q: %s", e.Effect, e.Message)
	}
	return fmt.Sprintf("effect %q option %q: %s", e.Effect, e.Key, e.Message)
}
