package events

import "github.com/smazurov/lichtwerk/internal/device"

// Event type constants for kelindar/event.
const (
	TypeStateChanged uint32 = iota + 1
	TypeRenderModeChanged
	TypeHardwareError
	TypeHardwareRecovered
	TypeLogEntry
)

// Render modes carried by RenderModeChangedEvent.
const (
	ModeIdle      = "idle"
	ModeRendering = "rendering"
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// StateChangedEvent is published after every committed mutation.
type StateChangedEvent struct {
	State     device.State `json:"-"`
	Operation string       `json:"operation" example:"set_brightness" doc:"Mutation that produced this state"`
	Revision  uint64       `json:"revision" example:"42" doc:"Store revision after the mutation"`
	Timestamp string       `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for StateChangedEvent.
func (e StateChangedEvent) Type() uint32 { return TypeStateChanged }

// RenderModeChangedEvent is published when the render loop moves between
// idle and rendering.
type RenderModeChangedEvent struct {
	Mode      string `json:"mode" example:"rendering" doc:"Render mode: idle or rendering"`
	Effect    string `json:"effect" example:"rainbow" doc:"Active effect"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for RenderModeChangedEvent.
func (e RenderModeChangedEvent) Type() uint32 { return TypeRenderModeChanged }

// IsRendering reports whether the loop is producing effect frames.
func (e RenderModeChangedEvent) IsRendering() bool {
	return e.Mode == ModeRendering
}

// HardwareErrorEvent is published when a frame write fails.
// Only the first failure of a run is published.
type HardwareErrorEvent struct {
	Driver    string `json:"driver" example:"spi" doc:"Strip driver name"`
	Error     string `json:"error" example:"spi: transfer timed out" doc:"Driver error"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for HardwareErrorEvent.
func (e HardwareErrorEvent) Type() uint32 { return TypeHardwareError }

// HardwareRecoveredEvent is published on the first good frame after a
// HardwareErrorEvent.
type HardwareRecoveredEvent struct {
	Driver       string `json:"driver" example:"spi" doc:"Strip driver name"`
	FailedFrames uint64 `json:"failed_frames" example:"3" doc:"Frames lost during the outage"`
	Timestamp    string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for HardwareRecoveredEvent.
func (e HardwareRecoveredEvent) Type() uint32 { return TypeHardwareRecovered }

// LogEntryEvent represents a log entry for SSE streaming.
type LogEntryEvent struct {
	Seq        uint64         `json:"seq" example:"42" doc:"Monotonic sequence number for deduplication"`
	Timestamp  string         `json:"timestamp" example:"2025-01-09T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"render" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }
