package models

import (
	"encoding/json"
	"maps"

	"github.com/smazurov/lichtwerk/internal/device"
)

// Health and version models

type HealthData struct {
	Status      string `json:"status" example:"ok" doc:"Service status"`
	Message     string `json:"message" example:"API is healthy" doc:"Status message"`
	Driver      string `json:"driver" example:"spi" doc:"Strip driver in use"`
	DemoMode    bool   `json:"demo_mode" example:"false" doc:"True when no strip hardware is attached"`
	RenderMode  string `json:"render_mode" example:"rendering" doc:"Render loop mode: idle or rendering"`
	Frames      uint64 `json:"frames" example:"123456" doc:"Frames written since start"`
	FrameErrors uint64 `json:"frame_errors" example:"0" doc:"Frame writes that failed since start"`
	LastError   string `json:"last_error,omitempty" doc:"Most recent frame write error"`
	Dropped     uint64 `json:"dropped_events" example:"0" doc:"Events skipped by slow push subscribers"`
}

type HealthResponse struct {
	Body HealthData
}

type VersionData struct {
	Version   string `json:"version" example:"dev" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc1234" doc:"Git commit SHA"`
	BuildDate string `json:"build_date" example:"2024-12-15 14:30" doc:"Build timestamp"`
	GoVersion string `json:"go_version" example:"go1.21.0" doc:"Go compiler version"`
	Platform  string `json:"platform" example:"linux/arm64" doc:"Platform"`
}

type VersionResponse struct {
	Body VersionData
}

// Device state models

// StatusData is the wire form of the device state. Active effect options
// are also emitted flattened as "<effect>_<option>" (e.g. theater_rainbow).
type StatusData struct {
	Power         bool           `json:"power" example:"true" doc:"Whether the strip is on"`
	Color         device.Color   `json:"color" doc:"Base color"`
	Brightness    int            `json:"brightness" example:"100" doc:"Global brightness (0-255)"`
	Speed         int            `json:"speed" example:"50" doc:"Animation speed (1-100)"`
	Effect        string         `json:"effect" example:"theater" doc:"Active effect id"`
	EffectName    string         `json:"effect_name" example:"Theater" doc:"Display name of the active effect"`
	EffectOptions map[string]any `json:"effect_options" doc:"Options of the active effect"`
	LEDCount      int            `json:"led_count" example:"50" doc:"Number of LEDs on the strip"`
	Pin           int            `json:"pin" example:"18" doc:"Data pin of the strip"`
	Revision      uint64         `json:"revision" example:"42" doc:"Store revision of this snapshot; higher is newer"`
}

// MarshalJSON adds the flattened effect option fields.
func (s StatusData) MarshalJSON() ([]byte, error) {
	type plain StatusData
	base, err := json.Marshal(plain(s))
	if err != nil || len(s.EffectOptions) == 0 {
		return base, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for key, value := range s.EffectOptions {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		fields[s.Effect+"_"+key] = raw
	}
	return json.Marshal(fields)
}

// NewStatusData converts a device snapshot for the wire.
func NewStatusData(st device.State, effectName string) StatusData {
	opts := maps.Clone(map[string]any(st.EffectOptions))
	if opts == nil {
		opts = map[string]any{}
	}
	return StatusData{
		Power:         st.Power,
		Color:         st.Color,
		Brightness:    st.Brightness,
		Speed:         st.Speed,
		Effect:        st.Effect,
		EffectName:    effectName,
		EffectOptions: opts,
		LEDCount:      st.LEDCount,
		Pin:           st.Pin,
	}
}

type StatusResponse struct {
	Body StatusData
}

// Effect catalogue models

type EffectOptionData struct {
	Key         string   `json:"key" example:"rainbow" doc:"Option name"`
	Kind        string   `json:"kind" example:"bool" enum:"bool,int,enum" doc:"Value type"`
	Default     any      `json:"default" doc:"Value applied when the effect is selected"`
	Min         *int     `json:"min,omitempty" doc:"Lower bound for int options"`
	Max         *int     `json:"max,omitempty" doc:"Upper bound for int options"`
	Choices     []string `json:"choices,omitempty" doc:"Allowed values for enum options"`
	Description string   `json:"description,omitempty" doc:"What the option does"`
}

type EffectData struct {
	ID             string             `json:"id" example:"theater" doc:"Effect id"`
	Name           string             `json:"name" example:"Theater" doc:"Display name"`
	UsesColor      bool               `json:"uses_color" doc:"Effect renders the base color"`
	UsesBrightness bool               `json:"uses_brightness" doc:"Effect honors brightness"`
	UsesSpeed      bool               `json:"uses_speed" doc:"Effect honors speed"`
	Options        []EffectOptionData `json:"options" doc:"Effect-specific options"`
}

type EffectsData struct {
	Effects []EffectData `json:"effects" doc:"Effects in presentation order"`
	Count   int          `json:"count" example:"10" doc:"Number of effects"`
}

type EffectsResponse struct {
	Body EffectsData
}

// Log models

type LogEntryData struct {
	Seq        uint64         `json:"seq" example:"42" doc:"History sequence number"`
	Timestamp  string         `json:"timestamp" example:"2025-01-09T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"warn" doc:"Log level"`
	Module     string         `json:"module" example:"render" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

type LogsData struct {
	Entries []LogEntryData `json:"entries" doc:"Recent log entries, oldest first"`
	Count   int            `json:"count" example:"100" doc:"Number of entries returned"`
}

type LogsResponse struct {
	Body LogsData
}
