package mqtt

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"

	"github.com/smazurov/lichtwerk/internal/control"
	"github.com/smazurov/lichtwerk/internal/device"
	"github.com/smazurov/lichtwerk/internal/events"
)

// Bridge connects the control service to Home Assistant over MQTT.
// Commands go through the same validation as HTTP mutations.
type Bridge struct {
	cfg     Config
	topics  Topics
	control *control.Service
	bus     *events.Bus
	client  Client
	logger  *slog.Logger

	mu          sync.Mutex
	unsubscribe func()

	stateMu   sync.Mutex
	published uint64
}

// NewBridge creates a bridge. If client is nil a paho client is built from
// cfg.
func NewBridge(cfg Config, svc *control.Service, bus *events.Bus, client Client, logger *slog.Logger) *Bridge {
	cfg = cfg.WithDefaults()
	b := &Bridge{
		cfg:     cfg,
		topics:  NewTopics(cfg),
		control: svc,
		bus:     bus,
		logger:  logger,
	}
	if client == nil {
		client = NewPahoClient(cfg, b.onConnect, logger)
	}
	b.client = client
	return b
}

// Topics returns the bridge's topics.
func (b *Bridge) Topics() Topics {
	return b.topics
}

// Start connects to the broker and begins mirroring state changes.
func (b *Bridge) Start() error {
	b.mu.Lock()
	b.unsubscribe = b.bus.Subscribe(func(e events.StateChangedEvent) {
		b.publishState(e.State, e.Revision, false)
	})
	b.mu.Unlock()

	if err := b.client.Connect(); err != nil {
		b.Stop()
		return err
	}
	b.logger.Info("MQTT bridge started", "broker", b.cfg.Broker, "base_topic", b.cfg.BaseTopic)
	return nil
}

// Stop publishes offline and disconnects.
func (b *Bridge) Stop() {
	b.mu.Lock()
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
	b.mu.Unlock()

	if err := b.client.Publish(b.topics.Availability, []byte(PayloadOffline), true); err != nil {
		b.logger.Debug("Failed to publish offline state", "error", err)
	}
	b.client.Disconnect()
	b.logger.Info("MQTT bridge stopped")
}

// onConnect runs after every (re)connect: announce, subscribe, publish state.
func (b *Bridge) onConnect() {
	status := b.control.Status()
	st := status.State

	if b.cfg.Discovery {
		b.publishJSON(b.topics.LightDiscovery, LightDiscovery(b.cfg, b.topics, b.control.Registry(), st), true)
		b.publishJSON(b.topics.SpeedDiscovery, SpeedDiscovery(b.cfg, b.topics, st), true)
	}

	for topic, handler := range map[string]Handler{
		b.topics.LightSet: b.handleLightCommand,
		b.topics.SpeedSet: b.handleSpeedCommand,
	} {
		if err := b.client.Subscribe(topic, handler); err != nil {
			b.logger.Error("Failed to subscribe", "topic", topic, "error", err)
		}
	}

	if err := b.client.Publish(b.topics.Availability, []byte(PayloadOnline), true); err != nil {
		b.logger.Warn("Failed to publish availability", "error", err)
	}
	b.publishState(st, status.Revision, true)
}

func (b *Bridge) handleLightCommand(topic string, payload []byte) {
	change, err := ParseLightCommand(payload)
	if err != nil {
		b.logger.Warn("Ignoring light command", "topic", topic, "error", err)
		return
	}
	if _, err := b.control.Apply(change); err != nil {
		b.logger.Warn("Light command rejected", "error", err)
		// Republish so Home Assistant drops its optimistic state.
		status := b.control.Status()
		b.publishState(status.State, status.Revision, true)
	}
}

func (b *Bridge) handleSpeedCommand(topic string, payload []byte) {
	speed, err := ParseSpeed(payload)
	if err != nil {
		b.logger.Warn("Ignoring speed command", "topic", topic, "error", err)
		return
	}
	if _, err := b.control.SetSpeed(speed); err != nil {
		b.logger.Warn("Speed command rejected", "error", err)
	}
}

// publishState publishes st unless a newer revision is already out. force
// republishes the same revision, e.g. to reset Home Assistant's optimistic
// state. States from late StateChangedEvents are skipped.
func (b *Bridge) publishState(st device.State, rev uint64, force bool) {
	b.stateMu.Lock()
	defer b.stateMu.Unlock()
	if rev < b.published || (rev == b.published && !force) {
		b.logger.Debug("Skipping stale state", "revision", rev, "published", b.published)
		return
	}
	b.published = rev

	b.publishJSON(b.topics.LightState, NewLightState(st), true)
	if err := b.client.Publish(b.topics.SpeedState, []byte(strconv.Itoa(st.Speed)), true); err != nil {
		b.logger.Debug("Failed to publish speed", "error", err)
	}
}

func (b *Bridge) publishJSON(topic string, v any, retain bool) {
	data, err := json.Marshal(v)
	if err != nil {
		b.logger.Error("Failed to marshal MQTT payload", "topic", topic, "error", err)
		return
	}
	if err := b.client.Publish(topic, data, retain); err != nil {
		b.logger.Warn("Failed to publish", "topic", topic, "error", err)
	}
}
