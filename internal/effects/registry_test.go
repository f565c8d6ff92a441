package effects

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/smazurov/lichtwerk/internal/device"
	"github.com/smazurov/lichtwerk/internal/strip"
)

func TestBuiltin_ListOrder(t *testing.T) {
	want := []string{Solid, Rainbow, Pulse, Breathe, Chase, Sparkle, Strobe, Theater, Meteor, MeteorAdv}

	got := Builtin().List()
	if len(got) != len(want) {
		t.Fatalf("List() returned %d effects, want %d", len(got), len(want))
	}
	for i, d := range got {
		if d.ID != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, d.ID, want[i])
		}
	}
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	d := Descriptor{ID: "x", New: func(int, *rand.Rand) Animator { return solid{} }}
	if _, err := NewRegistry(d, d); err == nil {
		t.Error("NewRegistry() accepted duplicate ids")
	}
}

func TestRegistry_Validate(t *testing.T) {
	reg := Builtin()

	tests := []struct {
		name     string
		effect   string
		proposed map[string]any
		want     device.Options
		wantKey  string
		unknown  bool
	}{
		{
			name:     "defaults filled",
			effect:   MeteorAdv,
			proposed: nil,
			want:     device.Options{OptionColorMode: ColorModeChanging, OptionMeteors: 4},
		},
		{
			name:     "numeric string coerced",
			effect:   MeteorAdv,
			proposed: map[string]any{OptionMeteors: "6"},
			want:     device.Options{OptionColorMode: ColorModeChanging, OptionMeteors: 6},
		},
		{
			name:     "json number coerced",
			effect:   MeteorAdv,
			proposed: map[string]any{OptionMeteors: float64(2), OptionColorMode: "Static"},
			want:     device.Options{OptionColorMode: ColorModeStatic, OptionMeteors: 2},
		},
		{
			name:     "boolean string normalized",
			effect:   Theater,
			proposed: map[string]any{OptionRainbow: "on"},
			want:     device.Options{OptionRainbow: true},
		},
		{
			name:     "effect without options",
			effect:   Solid,
			proposed: map[string]any{},
			want:     device.Options{},
		},
		{
			name:     "key outside schema",
			effect:   Theater,
			proposed: map[string]any{OptionColorMode: "static"},
			wantKey:  OptionColorMode,
		},
		{
			name:     "int above range",
			effect:   MeteorAdv,
			proposed: map[string]any{OptionMeteors: 9},
			wantKey:  OptionMeteors,
		},
		{
			name:     "enum not a choice",
			effect:   MeteorAdv,
			proposed: map[string]any{OptionColorMode: "rainbow"},
			wantKey:  OptionColorMode,
		},
		{
			name:     "bool garbage",
			effect:   Theater,
			proposed: map[string]any{OptionRainbow: "maybe"},
			wantKey:  OptionRainbow,
		},
		{
			name:    "unknown effect",
			effect:  "plasma",
			unknown: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.Validate(tt.effect, tt.proposed)

			switch {
			case tt.unknown:
				var uerr *device.UnknownEffectError
				if !errors.As(err, &uerr) {
					t.Fatalf("Validate() error = %v, want *UnknownEffectError", err)
				}
			case tt.wantKey != "":
				var oerr *device.InvalidOptionError
				if !errors.As(err, &oerr) {
					t.Fatalf("Validate() error = %v, want *InvalidOptionError", err)
				}
				if oerr.Key != tt.wantKey {
					t.Errorf("InvalidOptionError.Key = %q, want %q", oerr.Key, tt.wantKey)
				}
			default:
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				if len(got) != len(tt.want) {
					t.Fatalf("Validate() = %v, want %v", got, tt.want)
				}
				for k, v := range tt.want {
					if got[k] != v {
						t.Errorf("option %q = %v (%T), want %v (%T)", k, got[k], got[k], v, v)
					}
				}
			}
		})
	}
}

func TestRegistry_CheckState(t *testing.T) {
	reg := Builtin()

	st := device.New(30, 18)
	st.Effect = Theater
	st.EffectOptions = reg.Defaults(Theater)
	if err := reg.CheckState(st); err != nil {
		t.Fatalf("CheckState() on defaults error = %v", err)
	}

	st.EffectOptions = device.Options{}
	if err := reg.CheckState(st); err == nil {
		t.Error("CheckState() accepted missing option")
	}

	st.EffectOptions = device.Options{OptionRainbow: "true"}
	if err := reg.CheckState(st); err == nil {
		t.Error("CheckState() accepted non-canonical option value")
	}

	st.Effect = "plasma"
	st.EffectOptions = device.Options{}
	if err := reg.CheckState(st); err == nil {
		t.Error("CheckState() accepted unknown effect")
	}
}

func TestAnimators_RenderEveryEffect(t *testing.T) {
	reg := Builtin()
	rng := rand.New(rand.NewPCG(1, 2))

	for _, d := range reg.List() {
		t.Run(d.ID, func(t *testing.T) {
			anim, err := reg.NewAnimator(d.ID, 60, rng)
			if err != nil {
				t.Fatalf("NewAnimator() error = %v", err)
			}
			frame := strip.NewFrame(60)
			in := Input{Color: device.Color{R: 200, G: 40, B: 10}, Options: reg.Defaults(d.ID), Step: 1}

			lit := false
			for range 200 {
				anim.Render(frame, in)
				if len(frame) != 60 {
					t.Fatalf("animator resized frame to %d", len(frame))
				}
				if !frame.IsBlank() {
					lit = true
				}
			}
			if !lit {
				t.Error("effect never lit a pixel in 200 frames")
			}
		})
	}
}

func TestSolid_UsesColor(t *testing.T) {
	frame := strip.NewFrame(4)
	solid{}.Render(frame, Input{Color: device.Color{R: 1, G: 2, B: 3}, Step: 1})

	for i, p := range frame {
		if p != (strip.Pixel{R: 1, G: 2, B: 3}) {
			t.Errorf("pixel %d = %+v", i, p)
		}
	}
}

func TestRainbow_SpeedScalesPhase(t *testing.T) {
	slow, fast := &rainbow{}, &rainbow{}
	frame := strip.NewFrame(10)

	for range 10 {
		slow.Render(frame, Input{Step: 0.5})
		fast.Render(frame, Input{Step: 2})
	}
	if fast.offset <= slow.offset {
		t.Errorf("fast offset %v not ahead of slow offset %v", fast.offset, slow.offset)
	}
}

func TestTheater_RainbowOption(t *testing.T) {
	frame := strip.NewFrame(9)
	red := device.Color{R: 255}

	(&theater{}).Render(frame, Input{Color: red, Options: device.Options{OptionRainbow: false}, Step: 1})
	if frame[0] != (strip.Pixel{R: 255}) || frame[1] != strip.Off {
		t.Errorf("plain theater frame = %+v", frame)
	}

	(&theater{}).Render(frame, Input{Color: red, Options: device.Options{OptionRainbow: true}, Step: 1})
	if frame[0] == (strip.Pixel{R: 255}) || frame[0] == strip.Off {
		t.Errorf("rainbow theater pixel 0 = %+v, want a wheel color", frame[0])
	}
}
