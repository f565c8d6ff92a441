// Package control is the mutation and status surface over the device store.
// Every transport (HTTP, MQTT, CLI) goes through Service so validation and
// clamping rules are applied in one place.
package control

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/smazurov/lichtwerk/internal/device"
	"github.com/smazurov/lichtwerk/internal/effects"
	"github.com/smazurov/lichtwerk/internal/events"
	"github.com/smazurov/lichtwerk/internal/metrics"
)

// Operation names used in events, metrics and logs.
const (
	OpSetPower        = "set_power"
	OpSetColor        = "set_color"
	OpSetBrightness   = "set_brightness"
	OpSetSpeed        = "set_speed"
	OpSetEffect       = "set_effect"
	OpSetEffectOption = "set_effect_option"
	OpApply           = "apply"
)

// Status is a state snapshot plus fields derived for display. Revision is
// the store revision that produced the snapshot; a higher revision is always
// the newer state.
type Status struct {
	device.State
	EffectName string
	Revision   uint64
}

// Service applies validated mutations to the store.
type Service struct {
	store    *device.Store
	registry *effects.Registry
	bus      *events.Bus
	logger   *slog.Logger
}

// NewService creates a control service. bus may be nil.
func NewService(store *device.Store, registry *effects.Registry, bus *events.Bus, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		registry: registry,
		bus:      bus,
		logger:   logger,
	}
}

// Registry exposes the effect catalogue the service validates against.
func (s *Service) Registry() *effects.Registry {
	return s.registry
}

// Status returns the current state with its display name. It has no side
// effects.
func (s *Service) Status() Status {
	st, rev := s.store.Snapshot()
	status := s.Describe(st)
	status.Revision = rev
	return status
}

// Describe adds display fields to a snapshot, e.g. one carried by an event.
// The returned Status has no revision.
func (s *Service) Describe(st device.State) Status {
	name := DisplayName(st.Effect)
	if d, ok := s.registry.Get(st.Effect); ok {
		name = d.DisplayName
	}
	return Status{State: st, EffectName: name}
}

// DisplayName capitalizes an effect id for presentation: "meteor_adv"
// becomes "Meteor Adv".
func DisplayName(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// SetPower switches the strip on or off. Repeating a value is a no-op
// success.
func (s *Service) SetPower(on bool) (Status, error) {
	return s.apply(OpSetPower, func(st device.State) (device.State, error) {
		st.Power = on
		return st, nil
	})
}

// SetColor sets the base color. Out-of-range channels are clamped.
func (s *Service) SetColor(c device.Color) (Status, error) {
	return s.apply(OpSetColor, func(st device.State) (device.State, error) {
		st.Color = c.Clamp()
		return st, nil
	})
}

// SetBrightness sets the global brightness, clamped to its bounds.
func (s *Service) SetBrightness(level int) (Status, error) {
	return s.apply(OpSetBrightness, func(st device.State) (device.State, error) {
		st.Brightness = device.Clamp(level, device.MinBrightness, device.MaxBrightness)
		return st, nil
	})
}

// SetSpeed sets the animation speed, clamped to its bounds.
func (s *Service) SetSpeed(speed int) (Status, error) {
	return s.apply(OpSetSpeed, func(st device.State) (device.State, error) {
		st.Speed = device.Clamp(speed, device.MinSpeed, device.MaxSpeed)
		return st, nil
	})
}

// SetEffect switches the active effect. Options are reset to the new
// effect's schema defaults, never merged from the previous effect.
func (s *Service) SetEffect(effectID string) (Status, error) {
	return s.apply(OpSetEffect, func(st device.State) (device.State, error) {
		opts, err := s.registry.Validate(effectID, nil)
		if err != nil {
			return st, err
		}
		st.Effect = effectID
		st.EffectOptions = opts
		return st, nil
	})
}

// SetEffectOption sets one option of the active effect. effectID must name
// the active effect so a stale client cannot write options for an effect
// that is no longer running.
func (s *Service) SetEffectOption(effectID, key string, value any) (Status, error) {
	return s.apply(OpSetEffectOption, func(st device.State) (device.State, error) {
		if _, ok := s.registry.Get(effectID); !ok {
			return st, &device.UnknownEffectError{Effect: effectID}
		}
		if effectID != st.Effect {
			return st, &device.InvalidOptionError{
				Effect:  effectID,
				Key:     key,
				Message: fmt.Sprintf("effect is not active (active: %s)", st.Effect),
			}
		}
		proposed := map[string]any(st.EffectOptions.Clone())
		proposed[key] = value
		opts, err := s.registry.Validate(effectID, proposed)
		if err != nil {
			return st, err
		}
		st.EffectOptions = opts
		return st, nil
	})
}

// Change is a partial update applied atomically by Apply. Nil fields are
// left untouched.
type Change struct {
	Power      *bool
	Color      *device.Color
	Brightness *int
	Speed      *int
	Effect     *string
}

// Apply commits several field changes as one mutation, as Home Assistant
// sends them. An effect change resets options like SetEffect.
func (s *Service) Apply(c Change) (Status, error) {
	return s.apply(OpApply, func(st device.State) (device.State, error) {
		if c.Effect != nil && *c.Effect != st.Effect {
			opts, err := s.registry.Validate(*c.Effect, nil)
			if err != nil {
				return st, err
			}
			st.Effect = *c.Effect
			st.EffectOptions = opts
		}
		if c.Power != nil {
			st.Power = *c.Power
		}
		if c.Color != nil {
			st.Color = c.Color.Clamp()
		}
		if c.Brightness != nil {
			st.Brightness = device.Clamp(*c.Brightness, device.MinBrightness, device.MaxBrightness)
		}
		if c.Speed != nil {
			st.Speed = device.Clamp(*c.Speed, device.MinSpeed, device.MaxSpeed)
		}
		return st, nil
	})
}

func (s *Service) apply(op string, mutate device.Mutator) (Status, error) {
	st, rev, err := s.store.Update(mutate)
	status := s.Describe(st)
	status.Revision = rev
	if err != nil {
		metrics.RecordMutation(op, metrics.ResultRejected)
		s.logger.Info("Mutation rejected", "operation", op, "error", err)
		return status, err
	}

	metrics.RecordMutation(op, metrics.ResultOK)
	metrics.SetState(st.Power, st.Brightness, st.Speed)
	s.logger.Debug("State updated",
		"operation", op,
		"revision", rev,
		"power", st.Power,
		"effect", st.Effect,
		"brightness", st.Brightness,
		"speed", st.Speed)

	if s.bus != nil {
		s.bus.Publish(events.StateChangedEvent{
			State:     st,
			Operation: op,
			Revision:  rev,
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}
	return status, nil
}
