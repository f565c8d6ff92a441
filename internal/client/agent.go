package client

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/smazurov/lichtwerk/internal/api/models"
	"github.com/smazurov/lichtwerk/internal/device"
)

// Defaults for Options.
const (
	DefaultDebounce     = 100 * time.Millisecond
	DefaultPollInterval = 2 * time.Second
)

// View is the agent's local picture of the controller.
type View struct {
	Power         bool
	Color         device.Color
	Brightness    int
	Speed         int
	Effect        string
	EffectName    string
	EffectOptions map[string]any
	LEDCount      int
	Pin           int

	// Connected follows the outcome of the most recent network call.
	Connected bool
	// Synced is set once a status read has succeeded.
	Synced bool
}

func (v View) clone() View {
	v.EffectOptions = maps.Clone(v.EffectOptions)
	return v
}

// Options configures an Agent. Zero values select the defaults.
type Options struct {
	Debounce     time.Duration
	PollInterval time.Duration
	CallTimeout  time.Duration
	// OnChange is called on the agent goroutine after every view change.
	OnChange func(View)
	Logger   *slog.Logger
}

// controlKey identifies an independently debounced or rolled back input.
type controlKey string

const (
	ctlPower      controlKey = "power"
	ctlColor      controlKey = "color"
	ctlBrightness controlKey = "brightness"
	ctlSpeed      controlKey = "speed"
	ctlEffect     controlKey = "effect"
	ctlOption     controlKey = "option:"
)

// pending is a debounced value waiting for its quiet period to pass.
type pending struct {
	timer *time.Timer
	value any
}

// Agent keeps a View in sync with a controller. All view mutations run on
// the goroutine started by Run; network calls run on helper goroutines and
// post their completions back.
type Agent struct {
	transport Transport
	opts      Options
	logger    *slog.Logger

	inbox chan func()
	done  chan struct{}

	// Owned by the Run goroutine.
	view         View
	pending      map[controlKey]*pending
	generation   map[controlKey]uint64
	pollInFlight bool
	ctx          context.Context

	mu        sync.RWMutex
	published View
}

// NewAgent creates an agent. Call Run to start it.
func NewAgent(transport Transport, opts Options) *Agent {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		transport:  transport,
		opts:       opts,
		logger:     logger,
		inbox:      make(chan func(), 64),
		done:       make(chan struct{}),
		pending:    make(map[controlKey]*pending),
		generation: make(map[controlKey]uint64),
	}
}

// View returns a copy of the current view. Safe from any goroutine.
func (a *Agent) View() View {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.published.clone()
}

// Run bootstraps the view with one status read, then polls until ctx is
// done.
func (a *Agent) Run(ctx context.Context) error {
	defer close(a.done)
	a.ctx = ctx

	ticker := time.NewTicker(a.opts.PollInterval)
	defer ticker.Stop()
	defer a.stopTimers()

	a.poll()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			a.poll()
		case fn := <-a.inbox:
			fn()
		}
	}
}

// post queues fn for the agent goroutine. It is dropped once Run returned.
func (a *Agent) post(fn func()) {
	select {
	case a.inbox <- fn:
	case <-a.done:
	}
}

// Poll requests an immediate status read. It is skipped if one is already
// in flight.
func (a *Agent) Poll() {
	a.post(a.poll)
}

// Continuous controls: applied locally at once, sent after the quiet period.

func (a *Agent) SetColor(c device.Color) {
	a.post(func() {
		a.view.Color = c.Clamp()
		a.debounce(ctlColor, a.view.Color)
	})
}

func (a *Agent) SetRed(v int)   { a.setChannel(func(c *device.Color) { c.R = v }) }
func (a *Agent) SetGreen(v int) { a.setChannel(func(c *device.Color) { c.G = v }) }
func (a *Agent) SetBlue(v int)  { a.setChannel(func(c *device.Color) { c.B = v }) }

func (a *Agent) setChannel(set func(*device.Color)) {
	a.post(func() {
		c := a.view.Color
		set(&c)
		a.view.Color = c.Clamp()
		a.debounce(ctlColor, a.view.Color)
	})
}

func (a *Agent) SetBrightness(level int) {
	a.post(func() {
		a.view.Brightness = device.Clamp(level, device.MinBrightness, device.MaxBrightness)
		a.debounce(ctlBrightness, a.view.Brightness)
	})
}

func (a *Agent) SetSpeed(speed int) {
	a.post(func() {
		a.view.Speed = device.Clamp(speed, device.MinSpeed, device.MaxSpeed)
		a.debounce(ctlSpeed, a.view.Speed)
	})
}

// Discrete controls: applied locally and sent at once, rolled back on
// failure.

func (a *Agent) SetPower(on bool) {
	a.post(func() {
		prev := a.view.Power
		a.view.Power = on
		a.send(ctlPower, func(ctx context.Context) error {
			_, err := a.transport.SetPower(ctx, on)
			return err
		}, func() { a.view.Power = prev })
	})
}

// SetEffect selects an effect. Local options are cleared until the server
// reports the new effect's defaults.
func (a *Agent) SetEffect(effectID string) {
	a.post(func() {
		prevEffect, prevName, prevOpts := a.view.Effect, a.view.EffectName, a.view.EffectOptions
		a.view.Effect = effectID
		a.view.EffectName = ""
		a.view.EffectOptions = map[string]any{}
		a.send(ctlEffect, func(ctx context.Context) error {
			_, err := a.transport.SetEffect(ctx, effectID)
			return err
		}, func() {
			a.view.Effect, a.view.EffectName, a.view.EffectOptions = prevEffect, prevName, prevOpts
		})
	})
}

// SetEffectOption sets an option of the active effect.
func (a *Agent) SetEffectOption(key string, value any) {
	a.post(func() {
		effectID := a.view.Effect
		prev, had := a.view.EffectOptions[key]
		opts := maps.Clone(a.view.EffectOptions)
		if opts == nil {
			opts = map[string]any{}
		}
		opts[key] = value
		a.view.EffectOptions = opts
		a.send(ctlOption+controlKey(key), func(ctx context.Context) error {
			_, err := a.transport.SetEffectOption(ctx, effectID, key, value)
			return err
		}, func() {
			restored := maps.Clone(a.view.EffectOptions)
			if restored == nil {
				restored = map[string]any{}
			}
			if had {
				restored[key] = prev
			} else {
				delete(restored, key)
			}
			a.view.EffectOptions = restored
		})
	})
}

// debounce records value as the latest input for ctl and restarts its quiet
// period. Must run on the agent goroutine.
func (a *Agent) debounce(ctl controlKey, value any) {
	a.generation[ctl]++
	gen := a.generation[ctl]

	p, ok := a.pending[ctl]
	if !ok {
		p = &pending{}
		a.pending[ctl] = p
	} else if p.timer != nil {
		p.timer.Stop()
	}
	p.value = value
	p.timer = time.AfterFunc(a.opts.Debounce, func() {
		a.post(func() { a.flush(ctl, gen) })
	})
	a.publish()
}

// flush sends the pending value of ctl unless a later input superseded it.
func (a *Agent) flush(ctl controlKey, gen uint64) {
	p, ok := a.pending[ctl]
	if !ok || a.generation[ctl] != gen {
		return
	}
	delete(a.pending, ctl)

	value := p.value
	a.call(string(ctl), func(ctx context.Context) error {
		var err error
		switch ctl {
		case ctlColor:
			_, err = a.transport.SetColor(ctx, value.(device.Color))
		case ctlBrightness:
			_, err = a.transport.SetBrightness(ctx, value.(int))
		case ctlSpeed:
			_, err = a.transport.SetSpeed(ctx, value.(int))
		}
		return err
	}, nil)
}

// send issues a discrete mutation. rollback runs on failure unless a later
// input on the same control has taken over.
func (a *Agent) send(ctl controlKey, fn func(context.Context) error, rollback func()) {
	a.generation[ctl]++
	gen := a.generation[ctl]
	a.publish()

	a.call(string(ctl), fn, func(err error) {
		if a.generation[ctl] != gen {
			return
		}
		a.logger.Warn("Mutation failed, rolling back", "control", ctl, "error", err)
		rollback()
	})
}

// call runs fn on a helper goroutine and records the outcome on the agent
// goroutine.
func (a *Agent) call(op string, fn func(context.Context) error, onError func(error)) {
	ctx := a.ctx
	go func() {
		callCtx, cancel := context.WithTimeout(ctx, a.opts.CallTimeout)
		defer cancel()
		err := fn(callCtx)

		a.post(func() {
			a.view.Connected = err == nil
			if err != nil {
				a.logger.Debug("Call failed", "op", op, "error", err)
				if onError != nil {
					onError(err)
				}
			}
			a.publish()
		})
	}()
}

// poll reads the status unless a read is already outstanding. A successful
// read replaces the whole view.
func (a *Agent) poll() {
	if a.pollInFlight {
		a.logger.Debug("Poll skipped, previous poll still in flight")
		return
	}
	a.pollInFlight = true

	ctx := a.ctx
	go func() {
		callCtx, cancel := context.WithTimeout(ctx, a.opts.CallTimeout)
		defer cancel()
		st, err := a.transport.Status(callCtx)

		a.post(func() {
			a.pollInFlight = false
			if err != nil {
				if a.view.Connected || !a.view.Synced {
					a.logger.Warn("Status poll failed", "error", err)
				}
				a.view.Connected = false
				a.publish()
				return
			}
			a.view = viewFromStatus(st)
			a.publish()
		})
	}()
}

func viewFromStatus(st models.StatusData) View {
	opts := maps.Clone(st.EffectOptions)
	if opts == nil {
		opts = map[string]any{}
	}
	return View{
		Power:         st.Power,
		Color:         st.Color,
		Brightness:    st.Brightness,
		Speed:         st.Speed,
		Effect:        st.Effect,
		EffectName:    st.EffectName,
		EffectOptions: opts,
		LEDCount:      st.LEDCount,
		Pin:           st.Pin,
		Connected:     true,
		Synced:        true,
	}
}

// publish makes the current view visible to View and OnChange.
func (a *Agent) publish() {
	snap := a.view.clone()

	a.mu.Lock()
	a.published = snap
	a.mu.Unlock()

	if a.opts.OnChange != nil {
		a.opts.OnChange(snap.clone())
	}
}

func (a *Agent) stopTimers() {
	for _, p := range a.pending {
		if p.timer != nil {
			p.timer.Stop()
		}
	}
}

// IsRejected reports whether err is a TransportError the server answered
// with a 4xx status.
func IsRejected(err error) bool {
	var terr *TransportError
	return errors.As(err, &terr) && terr.Rejected()
}
