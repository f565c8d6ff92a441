package mqtt

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/smazurov/lichtwerk/internal/control"
	"github.com/smazurov/lichtwerk/internal/device"
)

const (
	stateOn  = "ON"
	stateOff = "OFF"
)

// LightState is the JSON-schema light state payload.
type LightState struct {
	State      string        `json:"state"`
	Brightness int           `json:"brightness"`
	ColorMode  string        `json:"color_mode"`
	Color      *device.Color `json:"color,omitempty"`
	Effect     string        `json:"effect"`
}

// NewLightState converts a device state for publishing.
func NewLightState(st device.State) LightState {
	s := stateOff
	if st.Power {
		s = stateOn
	}
	c := st.Color
	return LightState{
		State:      s,
		Brightness: st.Brightness,
		ColorMode:  "rgb",
		Color:      &c,
		Effect:     st.Effect,
	}
}

// LightCommand is a JSON-schema light command. Absent fields are unchanged.
type LightCommand struct {
	State      *string       `json:"state"`
	Brightness *int          `json:"brightness"`
	Color      *device.Color `json:"color"`
	Effect     *string       `json:"effect"`
}

// ParseLightCommand decodes a command payload into a control change.
func ParseLightCommand(payload []byte) (control.Change, error) {
	var cmd LightCommand
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return control.Change{}, fmt.Errorf("invalid light command: %w", err)
	}

	var change control.Change
	if cmd.State != nil {
		var on bool
		switch strings.ToUpper(*cmd.State) {
		case stateOn:
			on = true
		case stateOff:
		default:
			return control.Change{}, fmt.Errorf("invalid light state %q", *cmd.State)
		}
		change.Power = &on
	}
	change.Brightness = cmd.Brightness
	change.Color = cmd.Color
	change.Effect = cmd.Effect
	return change, nil
}

// ParseSpeed decodes a number command. Home Assistant may send "42.0".
// Finite values are clamped to the speed range before conversion.
func ParseSpeed(payload []byte) (int, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(payload)), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid speed %q: %w", payload, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid speed %q: not a finite number", payload)
	}
	v = math.Min(math.Max(v, device.MinSpeed), device.MaxSpeed)
	return int(v), nil
}
