package logging

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// LogCallback receives every entry after it is stored in the history.
type LogCallback func(entry LogEntry)

// BufferHandler records log lines into the package History and forwards
// them to the registered LogCallback. Records logged before Initialize are
// dropped.
type BufferHandler struct {
	level slog.Leveler
	chain attrChain
}

// NewBufferHandler creates a handler feeding the package History.
func NewBufferHandler(level slog.Leveler) *BufferHandler {
	return &BufferHandler{level: level}
}

// Enabled implements slog.Handler.
func (h *BufferHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *BufferHandler) Handle(_ context.Context, r slog.Record) error {
	mutex.RLock()
	history, callback := logHistory, logCallback
	mutex.RUnlock()

	if history == nil {
		return nil
	}

	attrs := make(map[string]any)
	h.chain.each(r, func(groups []string, a slog.Attr) {
		flattenAttr(attrs, groups, a)
	})

	entry := history.Append(LogEntry{
		Timestamp:  r.Time,
		Level:      levelName(r.Level),
		Module:     h.chain.module(r),
		Message:    r.Message,
		Attributes: attrs,
	})

	if callback != nil {
		callback(entry)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *BufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &BufferHandler{level: h.level, chain: h.chain.with(attrs)}
}

// WithGroup implements slog.Handler.
func (h *BufferHandler) WithGroup(name string) slog.Handler {
	return &BufferHandler{level: h.level, chain: h.chain.group(name)}
}

// flattenAttr stores a into attrs under a dotted key, expanding groups.
func flattenAttr(attrs map[string]any, groups []string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		sub := append(append([]string(nil), groups...), a.Key)
		for _, ga := range v.Group() {
			flattenAttr(attrs, sub, ga)
		}
	case slog.KindTime:
		attrs[key] = v.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		attrs[key] = v.Duration().String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			attrs[key] = err.Error()
		} else {
			attrs[key] = v.Any()
		}
	default:
		attrs[key] = v.Any()
	}
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}

// levelRank maps a stored level name back to its slog level.
func levelRank(name string) slog.Level {
	if l := parseLevel(name); l != nil {
		return *l
	}
	return slog.LevelInfo
}
