package mqtt

import (
	"fmt"
	"os"
	"strings"
)

// Config configures the Home Assistant bridge.
type Config struct {
	Broker          string // e.g. tcp://localhost:1883
	Username        string
	Password        string
	BaseTopic       string
	DiscoveryPrefix string
	Discovery       bool
	// NodeID is the unique part of entity ids. Defaults to the hostname.
	NodeID string
}

// WithDefaults fills unset fields.
func (c Config) WithDefaults() Config {
	if c.BaseTopic == "" {
		c.BaseTopic = "lichtwerk"
	}
	if c.DiscoveryPrefix == "" {
		c.DiscoveryPrefix = "homeassistant"
	}
	if c.NodeID == "" {
		host, err := os.Hostname()
		if err != nil || host == "" {
			host = "strip"
		}
		c.NodeID = host
	}
	c.NodeID = sanitizeID(c.NodeID)
	return c
}

// sanitizeID keeps characters Home Assistant accepts in discovery topics.
func sanitizeID(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Topics are the bridge's MQTT topics.
type Topics struct {
	Availability string
	LightState   string
	LightSet     string
	SpeedState   string
	SpeedSet     string

	LightDiscovery string
	SpeedDiscovery string
}

// NewTopics derives every topic from cfg.
func NewTopics(cfg Config) Topics {
	base := cfg.BaseTopic
	return Topics{
		Availability:   base + "/bridge/state",
		LightState:     base + "/light/state",
		LightSet:       base + "/light/set",
		SpeedState:     base + "/speed/state",
		SpeedSet:       base + "/speed/set",
		LightDiscovery: fmt.Sprintf("%s/light/%s/light/config", cfg.DiscoveryPrefix, cfg.NodeID),
		SpeedDiscovery: fmt.Sprintf("%s/number/%s/speed/config", cfg.DiscoveryPrefix, cfg.NodeID),
	}
}
