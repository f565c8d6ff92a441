// Package effects declares the effect catalogue: each effect's identity,
// the state fields it consumes, its option schema and its animator.
package effects

import (
	"fmt"
	"math/rand/v2"

	"github.com/smazurov/lichtwerk/internal/device"
)

// Descriptor is the static definition of one effect.
type Descriptor struct {
	ID          string
	DisplayName string

	UsesColor      bool
	UsesBrightness bool
	UsesSpeed      bool

	Options []OptionSpec

	// New builds fresh animation state for a strip of n LEDs.
	New func(n int, rng *rand.Rand) Animator
}

// Option returns the schema entry for key.
func (d Descriptor) Option(key string) (OptionSpec, bool) {
	for _, o := range d.Options {
		if o.Key == key {
			return o, true
		}
	}
	return OptionSpec{}, false
}

// Registry maps effect ids to descriptors. It is read-only after
// construction and safe for concurrent use.
type Registry struct {
	order []string
	byID  map[string]Descriptor
}

// NewRegistry builds a registry that lists effects in the given order.
func NewRegistry(descs ...Descriptor) (*Registry, error) {
	r := &Registry{byID: make(map[string]Descriptor, len(descs))}
	for _, d := range descs {
		if d.ID == "" {
			return nil, fmt.Errorf("effect with empty id")
		}
		if _, dup := r.byID[d.ID]; dup {
			return nil, fmt.Errorf("effect %q registered twice", d.ID)
		}
		if d.New == nil {
			return nil, fmt.Errorf("effect %q has no animator", d.ID)
		}
		for _, o := range d.Options {
			if err := o.check(); err != nil {
				return nil, fmt.Errorf("effect %q: %w", d.ID, err)
			}
		}
		r.order = append(r.order, d.ID)
		r.byID[d.ID] = d
	}
	return r, nil
}

// List returns every descriptor in presentation order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Get looks up an effect by id.
func (r *Registry) Get(id string) (Descriptor, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// Defaults returns the schema defaults for effectID, or nil if the effect
// is unknown.
func (r *Registry) Defaults(effectID string) device.Options {
	d, ok := r.byID[effectID]
	if !ok {
		return nil
	}
	opts := make(device.Options, len(d.Options))
	for _, o := range d.Options {
		opts[o.Key] = o.Default
	}
	return opts
}

// Validate checks proposed against the schema of effectID and returns the
// options in canonical form with defaults filled in for absent keys.
func (r *Registry) Validate(effectID string, proposed map[string]any) (device.Options, error) {
	d, ok := r.byID[effectID]
	if !ok {
		return nil, &device.UnknownEffectError{Effect: effectID}
	}

	for key := range proposed {
		if _, known := d.Option(key); !known {
			return nil, &device.InvalidOptionError{Effect: effectID, Key: key, Message: "not an option of this effect"}
		}
	}

	out := make(device.Options, len(d.Options))
	for _, spec := range d.Options {
		raw, given := proposed[spec.Key]
		if !given {
			out[spec.Key] = spec.Default
			continue
		}
		v, err := spec.coerce(raw)
		if err != nil {
			return nil, &device.InvalidOptionError{Effect: effectID, Key: spec.Key, Message: err.Error()}
		}
		out[spec.Key] = v
	}
	return out, nil
}

// CheckState is a device.Checker: the active effect must be registered and
// its options must be complete and canonical for that effect.
func (r *Registry) CheckState(st device.State) error {
	normalized, err := r.Validate(st.Effect, st.EffectOptions)
	if err != nil {
		return err
	}
	for key, want := range normalized {
		got, ok := st.EffectOptions[key]
		if !ok {
			return &device.InvalidOptionError{Effect: st.Effect, Key: key, Message: "missing"}
		}
		if got != want {
			return &device.InvalidOptionError{Effect: st.Effect, Key: key, Message: fmt.Sprintf("value %v is not canonical", got)}
		}
	}
	return nil
}

// NewAnimator builds fresh animation state for effectID.
func (r *Registry) NewAnimator(effectID string, ledCount int, rng *rand.Rand) (Animator, error) {
	d, ok := r.byID[effectID]
	if !ok {
		return nil, &device.UnknownEffectError{Effect: effectID}
	}
	return d.New(ledCount, rng), nil
}
