package strip

import (
	"log/slog"
	"sync/atomic"
)

// noop implements Driver for hosts without a strip attached (demo mode).
type noop struct {
	logger *slog.Logger
	frames atomic.Uint64
}

func newNoop(logger *slog.Logger) *noop {
	return &noop{logger: logger}
}

// Write counts the frame and discards it.
func (n *noop) Write(frame Frame) error {
	if n.frames.Add(1)%500 == 1 {
		n.logger.Debug("Strip not attached, discarding frames (noop)",
			"leds", len(frame),
			"blank", frame.IsBlank())
	}
	return nil
}

func (n *noop) Close() error {
	return nil
}

func (n *noop) Name() string {
	return DriverNoop
}
