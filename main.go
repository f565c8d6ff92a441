package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smazurov/lichtwerk/cmd"
	"github.com/smazurov/lichtwerk/internal/api"
	"github.com/smazurov/lichtwerk/internal/config"
	"github.com/smazurov/lichtwerk/internal/control"
	"github.com/smazurov/lichtwerk/internal/device"
	"github.com/smazurov/lichtwerk/internal/effects"
	"github.com/smazurov/lichtwerk/internal/events"
	"github.com/smazurov/lichtwerk/internal/logging"
	"github.com/smazurov/lichtwerk/internal/mqtt"
	"github.com/smazurov/lichtwerk/internal/render"
	"github.com/smazurov/lichtwerk/internal/statusled"
	"github.com/smazurov/lichtwerk/internal/strip"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port       string `help:"Port to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`
	CORSOrigin string `help:"Allowed CORS origin" default:"*" toml:"server.cors_origin" env:"SERVER_CORS_ORIGIN"`

	// Strip hardware, read once at startup
	StripLEDCount   int    `help:"Number of LEDs on the strip" default:"50" toml:"strip.led_count" env:"STRIP_LED_COUNT"`
	StripPin        int    `help:"Data pin (informational for SPI)" default:"18" toml:"strip.pin" env:"STRIP_PIN"`
	StripDriver     string `help:"Strip driver (auto, spi, noop)" default:"auto" toml:"strip.driver" env:"STRIP_DRIVER"`
	StripSPIPort    string `help:"SPI port name, empty for the first available" default:"" toml:"strip.spi_port" env:"STRIP_SPI_PORT"`
	StripSPIFreqKHz int    `help:"SPI clock in kHz" default:"2500" toml:"strip.spi_freq_khz" env:"STRIP_SPI_FREQ_KHZ"`

	// Render loop
	RenderTickMs int `help:"Render tick period in milliseconds" default:"20" toml:"render.tick_ms" env:"RENDER_TICK_MS"`

	// Initial device state
	StatePower      bool   `help:"Power on at startup" default:"false" toml:"state.power" env:"STATE_POWER"`
	StateEffect     string `help:"Effect at startup" default:"solid" toml:"state.effect" env:"STATE_EFFECT"`
	StateBrightness int    `help:"Brightness at startup (0-255)" default:"100" toml:"state.brightness" env:"STATE_BRIGHTNESS"`
	StateSpeed      int    `help:"Speed at startup (1-100)" default:"50" toml:"state.speed" env:"STATE_SPEED"`
	StateColor      string `help:"Color at startup (#rrggbb or r,g,b)" default:"#ffffff" toml:"state.color" env:"STATE_COLOR"`

	// Home Assistant over MQTT
	MQTTEnabled         bool   `help:"Enable the MQTT bridge" default:"false" toml:"mqtt.enabled" env:"MQTT_ENABLED"`
	MQTTBroker          string `help:"MQTT broker URL" default:"tcp://localhost:1883" toml:"mqtt.broker" env:"MQTT_BROKER"`
	MQTTUsername        string `help:"MQTT username" default:"" toml:"mqtt.username" env:"MQTT_USERNAME"`
	MQTTPassword        string `help:"MQTT password" default:"" toml:"mqtt.password" env:"MQTT_PASSWORD"`
	MQTTBaseTopic       string `help:"MQTT base topic" default:"lichtwerk" toml:"mqtt.base_topic" env:"MQTT_BASE_TOPIC"`
	MQTTDiscoveryPrefix string `help:"Home Assistant discovery prefix" default:"homeassistant" toml:"mqtt.discovery_prefix" env:"MQTT_DISCOVERY_PREFIX"`
	MQTTDiscovery       bool   `help:"Publish Home Assistant discovery" default:"true" toml:"mqtt.discovery" env:"MQTT_DISCOVERY"`
	MQTTNodeID          string `help:"Node id for entity ids, defaults to the hostname" default:"" toml:"mqtt.node_id" env:"MQTT_NODE_ID"`

	// Features settings
	FeaturesStatusLED     bool   `help:"Mirror render state on a board LED" default:"false" toml:"features.status_led" env:"FEATURES_STATUS_LED"`
	FeaturesStatusLEDName string `help:"sysfs LED name, empty to detect from the board" default:"" toml:"features.status_led_name" env:"FEATURES_STATUS_LED_NAME"`

	// Observability settings
	ObsPrometheusEnabled bool `help:"Serve Prometheus metrics on /metrics" default:"true" toml:"obs.prometheus_enabled" env:"OBS_PROMETHEUS_ENABLED"`

	// Logging settings
	LoggingLevel     string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat    string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingAPI       string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP      string `help:"HTTP request logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
	LoggingControl   string `help:"Control service logging level" default:"info" toml:"logging.control" env:"LOGGING_CONTROL"`
	LoggingRender    string `help:"Render loop logging level" default:"info" toml:"logging.render" env:"LOGGING_RENDER"`
	LoggingStrip     string `help:"Strip driver logging level" default:"info" toml:"logging.strip" env:"LOGGING_STRIP"`
	LoggingMQTT      string `help:"MQTT bridge logging level" default:"info" toml:"logging.mqtt" env:"LOGGING_MQTT"`
	LoggingStatusLED string `help:"Status LED logging level" default:"info" toml:"logging.statusled" env:"LOGGING_STATUSLED"`
}

// initialState builds the startup state from options. Invalid values fall
// back to defaults with a warning rather than aborting.
func initialState(opts *Options, registry *effects.Registry, logger *slog.Logger) device.State {
	st := device.New(opts.StripLEDCount, opts.StripPin)
	st.Power = opts.StatePower
	st.Brightness = device.Clamp(opts.StateBrightness, device.MinBrightness, device.MaxBrightness)
	st.Speed = device.Clamp(opts.StateSpeed, device.MinSpeed, device.MaxSpeed)

	if opts.StateColor != "" {
		c, err := device.ParseColor(opts.StateColor)
		if err != nil {
			logger.Warn("Ignoring invalid initial color", "error", err)
		} else {
			st.Color = c
		}
	}

	effectOpts, err := registry.Validate(opts.StateEffect, nil)
	if err != nil {
		logger.Warn("Ignoring invalid initial effect", "effect", opts.StateEffect, "error", err)
		effectOpts, _ = registry.Validate(device.DefaultEffect, nil)
		st.Effect = device.DefaultEffect
	} else {
		st.Effect = opts.StateEffect
	}
	st.EffectOptions = effectOpts
	return st
}

func main() {
	var cli humacli.CLI

	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		// Create event bus for in-process event handling
		eventBus := events.New()

		// Initialize logging system
		loggingConfig := logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"api":       opts.LoggingAPI,
				"http":      opts.LoggingHTTP,
				"control":   opts.LoggingControl,
				"render":    opts.LoggingRender,
				"strip":     opts.LoggingStrip,
				"mqtt":      opts.LoggingMQTT,
				"statusled": opts.LoggingStatusLED,
			},
		}
		logging.Initialize(loggingConfig)

		// Forward recorded log entries to SSE clients
		logging.SetLogCallback(func(entry logging.LogEntry) {
			eventBus.Publish(events.LogEntryEvent{
				Seq:        entry.Seq,
				Timestamp:  entry.Timestamp.Format(time.RFC3339Nano),
				Level:      entry.Level,
				Module:     entry.Module,
				Message:    entry.Message,
				Attributes: entry.Attributes,
			})
		})

		logger := logging.GetLogger("main")

		registry := effects.Builtin()
		store, err := device.NewStore(initialState(opts, registry, logger), device.WithChecker(registry.CheckState))
		if err != nil {
			logger.Error("Invalid strip configuration", "error", err)
			os.Exit(1)
		}

		driver, err := strip.New(strip.Config{
			LEDCount:   opts.StripLEDCount,
			Pin:        opts.StripPin,
			Driver:     opts.StripDriver,
			SPIPort:    opts.StripSPIPort,
			SPIFreqKHz: opts.StripSPIFreqKHz,
		}, logging.GetLogger("strip"))
		if err != nil {
			logger.Error("Failed to open LED strip", "error", err)
			os.Exit(1)
		}

		loop := render.New(store, registry, driver, eventBus, render.Options{
			Interval: time.Duration(opts.RenderTickMs) * time.Millisecond,
		}, logging.GetLogger("render"))

		controlService := control.NewService(store, registry, eventBus, logging.GetLogger("control"))

		// Initialize status LED if enabled
		var ledManager *statusled.Manager
		if opts.FeaturesStatusLED {
			ledLogger := logging.GetLogger("statusled")
			ledController := statusled.New(statusled.Config{
				Enabled: true,
				LED:     opts.FeaturesStatusLEDName,
			}, ledLogger)
			ledManager = statusled.NewManager(ledController, eventBus, ledLogger)
		}

		var bridge *mqtt.Bridge
		if opts.MQTTEnabled {
			bridge = mqtt.NewBridge(mqtt.Config{
				Broker:          opts.MQTTBroker,
				Username:        opts.MQTTUsername,
				Password:        opts.MQTTPassword,
				BaseTopic:       opts.MQTTBaseTopic,
				DiscoveryPrefix: opts.MQTTDiscoveryPrefix,
				Discovery:       opts.MQTTDiscovery,
				NodeID:          opts.MQTTNodeID,
			}, controlService, eventBus, nil, logging.GetLogger("mqtt"))
		}

		apiOpts := &api.Options{
			Control:    controlService,
			EventBus:   eventBus,
			CORSOrigin: opts.CORSOrigin,
			StatusLED:  ledManager,
			DriverName: driver.Name(),
			DemoMode:   driver.Name() == strip.DriverNoop,
			RenderMode: func() string {
				if mode := loop.Mode(); mode != "" {
					return mode
				}
				return events.ModeIdle
			},
		}
		if opts.ObsPrometheusEnabled {
			apiOpts.PrometheusHandler = promhttp.Handler()
		}

		server := api.NewServer(apiOpts)

		// Re-apply logging levels when the config file changes
		watcher := config.NewConfigWatcher(opts.Config, config.LoadLogging, logging.GetLogger("config"))
		watcher.OnReload(func(cfg logging.Config) {
			logging.SetLevels(cfg)
			logger.Info("Logging levels reloaded", "level", cfg.Level)
		})

		renderCtx, stopRender := context.WithCancel(context.Background())
		var renderDone sync.WaitGroup

		hooks.OnStart(func() {
			renderDone.Add(1)
			go func() {
				defer renderDone.Done()
				if runErr := loop.Run(renderCtx); runErr != nil && !errors.Is(runErr, context.Canceled) {
					logger.Error("Render loop stopped", "error", runErr)
				}
			}()

			if ledManager != nil {
				ledManager.Start()
			}

			if bridge != nil {
				if startErr := bridge.Start(); startErr != nil {
					logger.Warn("Failed to start MQTT bridge", "error", startErr)
				}
			}

			if startErr := watcher.Start(); startErr != nil {
				logger.Warn("Config watcher disabled", "error", startErr)
			}

			if _, notifyErr := daemon.SdNotify(false, daemon.SdNotifyReady); notifyErr != nil {
				logger.Debug("sd_notify failed", "error", notifyErr)
			}

			logger.Info("Starting HTTP server", "port", opts.Port, "driver", driver.Name())
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}
			if stopErr := watcher.Stop(); stopErr != nil {
				logger.Debug("Error stopping config watcher", "error", stopErr)
			}
			if bridge != nil {
				bridge.Stop()
			}

			// The loop blanks the strip on its way out; close the driver after.
			stopRender()
			renderDone.Wait()
			if closeErr := driver.Close(); closeErr != nil {
				logger.Error("Error closing strip driver", "error", closeErr)
			}

			if ledManager != nil {
				ledManager.Stop()
			}
		})
	})

	cli.Root().Use = "lichtwerk"
	cli.Root().Short = "LED strip controller"

	cli.Root().AddCommand(cmd.CreateEffectsCmd())
	cli.Root().AddCommand(cmd.CreateStatusCmd())
	cli.Root().AddCommand(cmd.CreateSetCmd())
	cli.Root().AddCommand(cmd.CreateWatchCmd())
	cli.Root().AddCommand(cmd.CreateVersionCmd())

	// Run the CLI
	cli.Run()
}
