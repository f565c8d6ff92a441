package mqtt

import (
	"fmt"

	"github.com/smazurov/lichtwerk/internal/device"
	"github.com/smazurov/lichtwerk/internal/effects"
	"github.com/smazurov/lichtwerk/internal/version"
)

// HADiscoveryConfig is a Home Assistant MQTT discovery payload for the light
// and number platforms.
type HADiscoveryConfig struct {
	Device       HADiscoveryDevice `json:"device"`
	Name         string            `json:"name"`
	UniqueID     string            `json:"unique_id"`
	Platform     string            `json:"platform"`
	StateTopic   string            `json:"state_topic"`
	CommandTopic string            `json:"command_topic"`
	AvTopic      string            `json:"availability_topic"`
	Icon         string            `json:"icon,omitempty"`

	// light, JSON schema
	Schema              string   `json:"schema,omitempty"`
	Brightness          bool     `json:"brightness,omitempty"`
	BrightnessScale     int      `json:"brightness_scale,omitempty"`
	SupportedColorModes []string `json:"supported_color_modes,omitempty"`
	Effect              bool     `json:"effect,omitempty"`
	EffectList          []string `json:"effect_list,omitempty"`

	// number
	Min  int    `json:"min,omitempty"`
	Max  int    `json:"max,omitempty"`
	Step int    `json:"step,omitempty"`
	Mode string `json:"mode,omitempty"`
}

type HADiscoveryDevice struct {
	ID           []string `json:"identifiers"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Model        string   `json:"model,omitempty"`
	Name         string   `json:"name,omitempty"`
	Version      string   `json:"sw_version,omitempty"`
}

func haDevice(cfg Config, st device.State) HADiscoveryDevice {
	return HADiscoveryDevice{
		ID:           []string{"lichtwerk_" + cfg.NodeID},
		Manufacturer: "lichtwerk",
		Model:        modelName(st.LEDCount),
		Name:         "LED strip " + cfg.NodeID,
		Version:      version.Version,
	}
}

func modelName(ledCount int) string {
	return fmt.Sprintf("WS281x strip, %d LEDs", ledCount)
}

// LightDiscovery describes the strip as a JSON-schema RGB light whose effect
// list is the registry in presentation order.
func LightDiscovery(cfg Config, topics Topics, registry *effects.Registry, st device.State) HADiscoveryConfig {
	list := registry.List()
	ids := make([]string, 0, len(list))
	for _, d := range list {
		ids = append(ids, d.ID)
	}
	return HADiscoveryConfig{
		Device:              haDevice(cfg, st),
		Name:                "Strip",
		UniqueID:            "lichtwerk_" + cfg.NodeID + "_light",
		Platform:            "mqtt",
		StateTopic:          topics.LightState,
		CommandTopic:        topics.LightSet,
		AvTopic:             topics.Availability,
		Icon:                "mdi:led-strip-variant",
		Schema:              "json",
		Brightness:          true,
		BrightnessScale:     device.MaxBrightness,
		SupportedColorModes: []string{"rgb"},
		Effect:              true,
		EffectList:          ids,
	}
}

// SpeedDiscovery describes animation speed as a slider number.
func SpeedDiscovery(cfg Config, topics Topics, st device.State) HADiscoveryConfig {
	return HADiscoveryConfig{
		Device:       haDevice(cfg, st),
		Name:         "Animation speed",
		UniqueID:     "lichtwerk_" + cfg.NodeID + "_speed",
		Platform:     "mqtt",
		StateTopic:   topics.SpeedState,
		CommandTopic: topics.SpeedSet,
		AvTopic:      topics.Availability,
		Icon:         "mdi:speedometer",
		Min:          device.MinSpeed,
		Max:          device.MaxSpeed,
		Step:         1,
		Mode:         "slider",
	}
}
