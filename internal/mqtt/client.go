// Package mqtt exposes the strip to Home Assistant as an MQTT JSON-schema
// light plus a speed number, with discovery and availability.
package mqtt

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	PayloadOnline  = "online"
	PayloadOffline = "offline"

	defaultConnectTimeout = 10 * time.Second
	defaultTokenTimeout   = 5 * time.Second
	defaultKeepAlive      = 60 * time.Second
	disconnectQuiesce     = 250 // milliseconds
)

// Handler receives an inbound message.
type Handler func(topic string, payload []byte)

// Client is the broker surface the bridge needs.
type Client interface {
	Connect() error
	Publish(topic string, payload []byte, retain bool) error
	Subscribe(topic string, handler Handler) error
	Disconnect()
}

// pahoClient implements Client with eclipse/paho.mqtt.golang.
type pahoClient struct {
	cli pahomqtt.Client
}

// NewPahoClient builds a client with an availability last will. onConnect
// runs after every (re)connect so subscriptions and retained state can be
// restored.
func NewPahoClient(cfg Config, onConnect func(), logger *slog.Logger) Client {
	topics := NewTopics(cfg)

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID("lichtwerk-" + cfg.NodeID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(time.Minute)
	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetKeepAlive(defaultKeepAlive)
	opts.SetWill(topics.Availability, PayloadOffline, 1, true)

	opts.SetOnConnectHandler(func(pahomqtt.Client) {
		logger.Info("Connected to MQTT broker", "broker", cfg.Broker)
		if onConnect != nil {
			onConnect()
		}
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		logger.Warn("MQTT connection lost", "error", err)
	})

	return &pahoClient{cli: pahomqtt.NewClient(opts)}
}

// Connect starts connecting. If the broker is not reachable in time the
// client keeps retrying in the background and OnConnect fires later.
func (c *pahoClient) Connect() error {
	token := c.cli.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("MQTT connect: %w", err)
	}
	return nil
}

func (c *pahoClient) Publish(topic string, payload []byte, retain bool) error {
	return wait(c.cli.Publish(topic, 1, retain, payload), defaultTokenTimeout, "publish")
}

func (c *pahoClient) Subscribe(topic string, handler Handler) error {
	return wait(c.cli.Subscribe(topic, 1, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	}), defaultTokenTimeout, "subscribe")
}

func (c *pahoClient) Disconnect() {
	c.cli.Disconnect(disconnectQuiesce)
}

func wait(token pahomqtt.Token, timeout time.Duration, op string) error {
	if !token.WaitTimeout(timeout) {
		return errors.New("MQTT " + op + " timed out")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("MQTT %s: %w", op, err)
	}
	return nil
}
