package control

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/smazurov/lichtwerk/internal/device"
	"github.com/smazurov/lichtwerk/internal/effects"
	"github.com/smazurov/lichtwerk/internal/events"
)

func newTestService(t *testing.T, bus *events.Bus) *Service {
	t.Helper()
	reg := effects.Builtin()
	store, err := device.NewStore(device.New(50, 18), device.WithChecker(reg.CheckState))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return NewService(store, reg, bus, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestStatus_DefaultsAndDisplayName(t *testing.T) {
	svc := newTestService(t, nil)

	st := svc.Status()
	if st.Power || st.Effect != effects.Solid || st.Brightness != 100 || st.Speed != 50 {
		t.Errorf("unexpected initial state %+v", st.State)
	}
	if st.Color != device.White {
		t.Errorf("Color = %+v, want white", st.Color)
	}
	if st.EffectName != "Solid" {
		t.Errorf("EffectName = %q, want Solid", st.EffectName)
	}
}

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"solid":      "Solid",
		"meteor_adv": "Meteor Adv",
		"":           "",
	}
	for in, want := range tests {
		if got := DisplayName(in); got != want {
			t.Errorf("DisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSetColor_RoundTripAndClamp(t *testing.T) {
	svc := newTestService(t, nil)

	if _, err := svc.SetColor(device.Color{R: 10, G: 20, B: 30}); err != nil {
		t.Fatalf("SetColor() error = %v", err)
	}
	if got := svc.Status().Color; got != (device.Color{R: 10, G: 20, B: 30}) {
		t.Errorf("Color = %+v", got)
	}

	got, err := svc.SetColor(device.Color{R: 300, G: -5, B: 128})
	if err != nil {
		t.Fatalf("SetColor() error = %v", err)
	}
	if got.Color != (device.Color{R: 255, G: 0, B: 128}) {
		t.Errorf("clamped Color = %+v", got.Color)
	}
}

func TestSetBrightnessAndSpeed_Clamp(t *testing.T) {
	svc := newTestService(t, nil)

	tests := []struct {
		name string
		set  func() (Status, error)
		get  func(Status) int
		want int
	}{
		{"brightness high", func() (Status, error) { return svc.SetBrightness(999) }, func(s Status) int { return s.Brightness }, 255},
		{"brightness low", func() (Status, error) { return svc.SetBrightness(-1) }, func(s Status) int { return s.Brightness }, 0},
		{"speed high", func() (Status, error) { return svc.SetSpeed(101) }, func(s Status) int { return s.Speed }, 100},
		{"speed zero", func() (Status, error) { return svc.SetSpeed(0) }, func(s Status) int { return s.Speed }, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := tt.set()
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if got := tt.get(st); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSetPower_Idempotent(t *testing.T) {
	svc := newTestService(t, nil)

	for range 2 {
		st, err := svc.SetPower(true)
		if err != nil {
			t.Fatalf("SetPower(true) error = %v", err)
		}
		if !st.Power {
			t.Error("Power = false after SetPower(true)")
		}
	}
}

func TestSetEffect_ResetsOptionsToSchema(t *testing.T) {
	svc := newTestService(t, nil)

	if _, err := svc.SetEffect(effects.Theater); err != nil {
		t.Fatalf("SetEffect() error = %v", err)
	}
	if _, err := svc.SetEffectOption(effects.Theater, effects.OptionRainbow, true); err != nil {
		t.Fatalf("SetEffectOption() error = %v", err)
	}

	st, err := svc.SetEffect(effects.MeteorAdv)
	if err != nil {
		t.Fatalf("SetEffect() error = %v", err)
	}
	if _, leaked := st.EffectOptions[effects.OptionRainbow]; leaked {
		t.Error("theater option survived switch to meteor_adv")
	}
	if st.EffectOptions.String(effects.OptionColorMode, "") != effects.ColorModeChanging {
		t.Errorf("color_mode = %v, want default", st.EffectOptions[effects.OptionColorMode])
	}

	st, _ = svc.SetEffect(effects.Theater)
	if st.EffectOptions.Bool(effects.OptionRainbow) {
		t.Error("rainbow option merged back instead of reset")
	}
}

func TestSetEffect_Unknown(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.SetEffect("plasma")
	var uerr *device.UnknownEffectError
	if !errors.As(err, &uerr) {
		t.Fatalf("error = %v, want *UnknownEffectError", err)
	}
	if svc.Status().Effect != effects.Solid {
		t.Error("state changed after unknown effect")
	}
}

func TestSetEffectOption_MismatchedEffectRejected(t *testing.T) {
	svc := newTestService(t, nil)

	if _, err := svc.SetEffect(effects.Theater); err != nil {
		t.Fatalf("SetEffect() error = %v", err)
	}
	before := svc.Status()

	_, err := svc.SetEffectOption(effects.MeteorAdv, effects.OptionRainbow, true)
	var oerr *device.InvalidOptionError
	if !errors.As(err, &oerr) {
		t.Fatalf("error = %v, want *InvalidOptionError", err)
	}

	after := svc.Status()
	if after.Effect != effects.Theater || after.EffectOptions.Bool(effects.OptionRainbow) != before.EffectOptions.Bool(effects.OptionRainbow) {
		t.Errorf("state changed: before %+v after %+v", before.State, after.State)
	}
}

func TestSetEffectOption_CoercesValue(t *testing.T) {
	svc := newTestService(t, nil)
	if _, err := svc.SetEffect(effects.MeteorAdv); err != nil {
		t.Fatal(err)
	}

	st, err := svc.SetEffectOption(effects.MeteorAdv, effects.OptionMeteors, "6")
	if err != nil {
		t.Fatalf("SetEffectOption() error = %v", err)
	}
	if st.EffectOptions.Int(effects.OptionMeteors, 0) != 6 {
		t.Errorf("meteors = %v, want 6", st.EffectOptions[effects.OptionMeteors])
	}

	_, err = svc.SetEffectOption(effects.MeteorAdv, "bogus", 1)
	var oerr *device.InvalidOptionError
	if !errors.As(err, &oerr) || oerr.Key != "bogus" {
		t.Errorf("error = %v, want InvalidOptionError naming bogus", err)
	}
}

func TestConcurrentBrightnessAndSpeed(t *testing.T) {
	svc := newTestService(t, nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = svc.SetBrightness(50)
	}()
	go func() {
		defer wg.Done()
		_, _ = svc.SetSpeed(7)
	}()
	wg.Wait()

	st := svc.Status()
	if st.Brightness != 50 || st.Speed != 7 {
		t.Errorf("brightness=%d speed=%d, want 50 and 7", st.Brightness, st.Speed)
	}
}

func TestApply_Atomic(t *testing.T) {
	svc := newTestService(t, nil)
	on, bright, bad := true, 10, "plasma"

	if _, err := svc.Apply(Change{Power: &on, Brightness: &bright, Effect: &bad}); err == nil {
		t.Fatal("Apply() accepted unknown effect")
	}
	if st := svc.Status(); st.Power || st.Brightness != 100 {
		t.Errorf("partial apply leaked: %+v", st.State)
	}

	effect := effects.Rainbow
	st, err := svc.Apply(Change{Power: &on, Brightness: &bright, Effect: &effect})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !st.Power || st.Brightness != 10 || st.Effect != effects.Rainbow {
		t.Errorf("Apply() result %+v", st.State)
	}
}

func TestMutationPublishesStateChanged(t *testing.T) {
	bus := events.New()
	got := make(chan events.StateChangedEvent, 1)
	defer bus.Subscribe(func(e events.StateChangedEvent) { got <- e })()

	svc := newTestService(t, bus)
	if _, err := svc.SetSpeed(80); err != nil {
		t.Fatal(err)
	}

	select {
	case e := <-got:
		if e.Operation != OpSetSpeed || e.State.Speed != 80 {
			t.Errorf("event = %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("no StateChangedEvent")
	}
}

func TestConcurrentMutationsPublishCommitRevisions(t *testing.T) {
	const writers = 64

	bus := events.New()
	got := make(chan events.StateChangedEvent, writers)
	defer bus.Subscribe(func(e events.StateChangedEvent) { got <- e })()

	svc := newTestService(t, bus)

	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.SetBrightness(i + 1); err != nil {
				t.Errorf("SetBrightness(%d) error = %v", i+1, err)
			}
		}()
	}
	wg.Wait()

	seen := make(map[uint64]bool)
	var newest events.StateChangedEvent
	for range writers {
		select {
		case e := <-got:
			if seen[e.Revision] {
				t.Fatalf("revision %d published twice", e.Revision)
			}
			seen[e.Revision] = true
			if e.Revision > newest.Revision {
				newest = e
			}
		case <-time.After(time.Second):
			t.Fatalf("received %d of %d events", len(seen), writers)
		}
	}

	final := svc.Status()
	if final.Revision != writers {
		t.Errorf("Status().Revision = %d, want %d", final.Revision, writers)
	}
	if newest.Revision != final.Revision || newest.State.Brightness != final.Brightness {
		t.Errorf("newest event rev %d brightness %d, final rev %d brightness %d",
			newest.Revision, newest.State.Brightness, final.Revision, final.Brightness)
	}
}
