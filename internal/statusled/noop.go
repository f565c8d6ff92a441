package statusled

import "log/slog"

// noop implements Controller for systems without a usable board LED.
type noop struct {
	logger *slog.Logger
}

func newNoop(logger *slog.Logger) *noop {
	return &noop{logger: logger}
}

// Set logs the request but performs no actual LED control
func (n *noop) Set(pattern Pattern) error {
	n.logger.Debug("Status LED not available (no-op)", "pattern", pattern)
	return nil
}

func (n *noop) Name() string {
	return ""
}
