package device

import (
	"fmt"
	"maps"
)

// Bounds for the mutable numeric fields of State.
const (
	MinChannel    = 0
	MaxChannel    = 255
	MinBrightness = 0
	MaxBrightness = 255
	MinSpeed      = 1
	MaxSpeed      = 100
)

// Defaults applied when no initial state is configured.
const (
	DefaultBrightness = 100
	DefaultSpeed      = 50
	DefaultEffect     = "solid"
)

// Color is an RGB triple with each channel in [MinChannel, MaxChannel].
type Color struct {
	R int `json:"r" toml:"r" example:"255" doc:"Red channel (0-255)"`
	G int `json:"g" toml:"g" example:"128" doc:"Green channel (0-255)"`
	B int `json:"b" toml:"b" example:"0" doc:"Blue channel (0-255)"`
}

// White is the power-on default color.
var White = Color{R: MaxChannel, G: MaxChannel, B: MaxChannel}

// Clamp returns c with every channel forced into range.
func (c Color) Clamp() Color {
	return Color{
		R: Clamp(c.R, MinChannel, MaxChannel),
		G: Clamp(c.G, MinChannel, MaxChannel),
		B: Clamp(c.B, MinChannel, MaxChannel),
	}
}

// Options holds effect-specific option values keyed by option name.
// Values are always canonical scalars: bool, int or string.
type Options map[string]any

// Clone returns a copy that shares nothing with o.
func (o Options) Clone() Options {
	if o == nil {
		return Options{}
	}
	return maps.Clone(o)
}

// Bool returns the named boolean option, or false if it is absent.
func (o Options) Bool(key string) bool {
	v, _ := o[key].(bool)
	return v
}

// Int returns the named integer option, or def if it is absent.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key].(int); ok {
		return v
	}
	return def
}

// String returns the named string option, or def if it is absent.
func (o Options) String(key, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}

// State is one consistent snapshot of the strip configuration.
type State struct {
	Power         bool
	Color         Color
	Brightness    int
	Speed         int
	Effect        string
	EffectOptions Options

	// Hardware identity, fixed at process start.
	LEDCount int
	Pin      int
}

// New returns the power-on state for a strip with the given identity.
func New(ledCount, pin int) State {
	return State{
		Power:         false,
		Color:         White,
		Brightness:    DefaultBrightness,
		Speed:         DefaultSpeed,
		Effect:        DefaultEffect,
		EffectOptions: Options{},
		LEDCount:      ledCount,
		Pin:           pin,
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	s.EffectOptions = s.EffectOptions.Clone()
	return s
}

// Validate reports the first bounds violation in s.
func (s State) Validate() error {
	channels := []struct {
		field string
		value int
	}{
		{"color.r", s.Color.R},
		{"color.g", s.Color.G},
		{"color.b", s.Color.B},
	}
	for _, ch := range channels {
		if ch.value < MinChannel || ch.value > MaxChannel {
			return outOfRange(ch.field, ch.value, MinChannel, MaxChannel)
		}
	}
	if s.Brightness < MinBrightness || s.Brightness > MaxBrightness {
		return outOfRange("brightness", s.Brightness, MinBrightness, MaxBrightness)
	}
	if s.Speed < MinSpeed || s.Speed > MaxSpeed {
		return outOfRange("speed", s.Speed, MinSpeed, MaxSpeed)
	}
	if s.Effect == "" {
		return &ValidationError{Field: "effect", Message: "must not be empty"}
	}
	if s.LEDCount <= 0 {
		return &ValidationError{Field: "led_count", Message: fmt.Sprintf("%d must be positive", s.LEDCount)}
	}
	return nil
}

// Clamp forces v into [lo, hi].
func Clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
