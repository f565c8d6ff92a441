// Package render runs the fixed-cadence loop that turns the current device
// state into strip frames.
package render

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/smazurov/lichtwerk/internal/device"
	"github.com/smazurov/lichtwerk/internal/effects"
	"github.com/smazurov/lichtwerk/internal/events"
	"github.com/smazurov/lichtwerk/internal/metrics"
	"github.com/smazurov/lichtwerk/internal/strip"
)

// DefaultInterval is the tick period when none is configured (50 fps).
const DefaultInterval = 20 * time.Millisecond

// Options configures a Loop.
type Options struct {
	Interval time.Duration
	// Rand seeds effect randomness. Nil uses a time-based source.
	Rand *rand.Rand
}

// Loop is the render loop. It owns the frame buffer and the active
// animator; Run must be called from a single goroutine.
type Loop struct {
	store    *device.Store
	registry *effects.Registry
	driver   strip.Driver
	bus      *events.Bus
	interval time.Duration
	rng      *rand.Rand
	logger   *slog.Logger

	frame    strip.Frame
	animator effects.Animator
	effect   string
	mode     atomic.Value // string
	blanked  bool

	failing      bool
	failedFrames uint64
}

// New creates a render loop. bus may be nil.
func New(store *device.Store, registry *effects.Registry, driver strip.Driver, bus *events.Bus, opts Options, logger *slog.Logger) *Loop {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		opts.Rand = rand.New(rand.NewPCG(seed, seed>>1))
	}

	l := &Loop{
		store:    store,
		registry: registry,
		driver:   driver,
		bus:      bus,
		interval: opts.Interval,
		rng:      opts.Rand,
		logger:   logger,
		frame:    strip.NewFrame(store.Read().LEDCount),
	}
	l.mode.Store("")
	return l
}

// Mode returns the current render mode, or "" before the first tick.
func (l *Loop) Mode() string {
	return l.mode.Load().(string)
}

// Run ticks until ctx is cancelled, then blanks the strip once.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Info("Render loop started",
		"driver", l.driver.Name(),
		"interval", l.interval,
		"leds", len(l.frame))

	l.tick()
	for {
		select {
		case <-ctx.Done():
			l.frame.Clear()
			if err := l.driver.Write(l.frame); err != nil {
				l.logger.Warn("Failed to blank strip on shutdown", "error", err)
			}
			l.logger.Info("Render loop stopped")
			return ctx.Err()
		case <-ticker.C:
			l.tick()
		}
	}
}

// tick renders and writes one frame. It reads the store exactly once and
// holds no lock while talking to the driver.
func (l *Loop) tick() {
	start := time.Now()
	st := l.store.Read()

	if !st.Power {
		l.setMode(events.ModeIdle, st.Effect)
		if l.blanked {
			return
		}
		l.frame.Clear()
		err := l.write(events.ModeIdle, start)
		l.blanked = err == nil
		return
	}

	l.setMode(events.ModeRendering, st.Effect)
	l.blanked = false

	if st.Effect != l.effect || l.animator == nil {
		anim, err := l.registry.NewAnimator(st.Effect, len(l.frame), l.rng)
		if err != nil {
			l.logger.Error("Cannot animate effect", "effect", st.Effect, "error", err)
			l.frame.Clear()
			_ = l.write(events.ModeRendering, start)
			return
		}
		l.animator = anim
		l.effect = st.Effect
		l.logger.Debug("Animator reset", "effect", st.Effect)
	}

	l.animator.Render(l.frame, effects.Input{
		Color:   st.Color,
		Options: st.EffectOptions,
		Step:    Step(st.Speed),
	})
	l.frame.Scale(uint8(device.Clamp(st.Brightness, device.MinBrightness, device.MaxBrightness)))
	_ = l.write(events.ModeRendering, start)
}

// Step converts a speed setting into per-tick phase advancement. The
// default speed advances by exactly one step.
func Step(speed int) float64 {
	speed = device.Clamp(speed, device.MinSpeed, device.MaxSpeed)
	return float64(speed) / float64(device.DefaultSpeed)
}

func (l *Loop) write(mode string, start time.Time) error {
	err := l.driver.Write(l.frame)
	metrics.RecordFrame(mode, time.Since(start), err)

	if err != nil {
		l.failedFrames++
		if !l.failing {
			l.failing = true
			l.logger.Warn("Strip write failed, continuing", "driver", l.driver.Name(), "error", err)
			l.publish(events.HardwareErrorEvent{
				Driver:    driverName(err, l.driver),
				Error:     err.Error(),
				Timestamp: time.Now().Format(time.RFC3339),
			})
		} else {
			l.logger.Debug("Strip write still failing", "failed_frames", l.failedFrames, "error", err)
		}
		return err
	}

	if l.failing {
		l.logger.Info("Strip writes recovered", "failed_frames", l.failedFrames)
		l.publish(events.HardwareRecoveredEvent{
			Driver:       l.driver.Name(),
			FailedFrames: l.failedFrames,
			Timestamp:    time.Now().Format(time.RFC3339),
		})
		l.failing = false
		l.failedFrames = 0
	}
	return nil
}

func (l *Loop) setMode(mode, effect string) {
	if l.Mode() == mode {
		return
	}
	l.mode.Store(mode)
	l.logger.Info("Render mode changed", "mode", mode, "effect", effect)
	l.publish(events.RenderModeChangedEvent{
		Mode:      mode,
		Effect:    effect,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (l *Loop) publish(ev events.Event) {
	if l.bus != nil {
		l.bus.Publish(ev)
	}
}

func driverName(err error, d strip.Driver) string {
	var hwErr *strip.HardwareError
	if errors.As(err, &hwErr) {
		return hwErr.Driver
	}
	return d.Name()
}
