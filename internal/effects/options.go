package effects

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Kind is the value type of an effect option.
type Kind string

const (
	KindBool Kind = "bool"
	KindInt  Kind = "int"
	KindEnum Kind = "enum"
)

// OptionSpec declares one effect option.
type OptionSpec struct {
	Key         string
	Kind        Kind
	Default     any
	Min, Max    int
	Choices     []string
	Description string
}

func (o OptionSpec) check() error {
	if o.Key == "" {
		return fmt.Errorf("option with empty key")
	}
	v, err := o.coerce(o.Default)
	if err != nil {
		return fmt.Errorf("option %q default: %w", o.Key, err)
	}
	if v != o.Default {
		return fmt.Errorf("option %q default %v is not canonical", o.Key, o.Default)
	}
	return nil
}

// coerce converts a decoded JSON or form value to the canonical Go type of
// the option: bool, int or string.
func (o OptionSpec) coerce(raw any) (any, error) {
	switch o.Kind {
	case KindBool:
		return toBool(raw)
	case KindInt:
		n, err := toInt(raw)
		if err != nil {
			return nil, err
		}
		if n < o.Min || n > o.Max {
			return nil, fmt.Errorf("%d is outside [%d, %d]", n, o.Min, o.Max)
		}
		return n, nil
	case KindEnum:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected one of %s, got %T", strings.Join(o.Choices, "|"), raw)
		}
		s = strings.ToLower(strings.TrimSpace(s))
		if !slices.Contains(o.Choices, s) {
			return nil, fmt.Errorf("%q is not one of %s", s, strings.Join(o.Choices, "|"))
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported option kind %q", o.Kind)
	}
}

func toBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "on", "yes":
			return true, nil
		case "false", "0", "off", "no":
			return false, nil
		}
		return false, fmt.Errorf("%q is not a boolean", v)
	case int:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case float64:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	}
	return false, fmt.Errorf("%v is not a boolean", raw)
}

func toInt(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		return int(v), nil
	case json.Number:
		n, err := strconv.Atoi(v.String())
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", v)
		}
		return n, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", v)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%v is not an integer", raw)
}
