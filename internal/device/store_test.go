package device

import (
	"errors"
	"sync"
	"testing"
)

func TestNewStore_RejectsInvalidInitialState(t *testing.T) {
	st := New(50, 18)
	st.Speed = 0

	if _, err := NewStore(st); err == nil {
		t.Fatal("NewStore() accepted speed 0")
	}
}

func TestStore_ReadReturnsIsolatedCopy(t *testing.T) {
	st := New(50, 18)
	st.EffectOptions = Options{"rainbow": true}
	store, err := NewStore(st)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	snap := store.Read()
	snap.EffectOptions["rainbow"] = false
	snap.Brightness = 1

	again := store.Read()
	if !again.EffectOptions.Bool("rainbow") {
		t.Error("mutating a snapshot leaked into the store")
	}
	if again.Brightness != DefaultBrightness {
		t.Errorf("Brightness = %d, want %d", again.Brightness, DefaultBrightness)
	}
}

func TestStore_UpdateIsAllOrNothing(t *testing.T) {
	tests := []struct {
		name   string
		mutate Mutator
	}{
		{
			name: "brightness above bound",
			mutate: func(s State) (State, error) {
				s.Color = Color{R: 1, G: 2, B: 3}
				s.Brightness = MaxBrightness + 1
				return s, nil
			},
		},
		{
			name: "negative channel",
			mutate: func(s State) (State, error) {
				s.Power = true
				s.Color.G = -1
				return s, nil
			},
		},
		{
			name: "hardware identity change",
			mutate: func(s State) (State, error) {
				s.Power = true
				s.LEDCount = 300
				return s, nil
			},
		},
		{
			name: "mutator error",
			mutate: func(s State) (State, error) {
				s.Power = true
				return s, errors.New("boom")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(New(50, 18))
			if err != nil {
				t.Fatalf("NewStore() error = %v", err)
			}
			before := store.Read()

			if _, _, err := store.Update(tt.mutate); err == nil {
				t.Fatal("Update() succeeded, want error")
			}

			after := store.Read()
			if after.Power != before.Power || after.Color != before.Color || after.Brightness != before.Brightness {
				t.Errorf("state changed after failed update: before %+v, after %+v", before, after)
			}
			if store.Revision() != 0 {
				t.Errorf("Revision() = %d, want 0", store.Revision())
			}
		})
	}
}

func TestStore_UpdateBoundsFailureIsValidationError(t *testing.T) {
	store, _ := NewStore(New(50, 18))

	_, _, err := store.Update(func(s State) (State, error) {
		s.Speed = MaxSpeed + 5
		return s, nil
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Update() error = %v, want *ValidationError", err)
	}
	if verr.Field != "speed" {
		t.Errorf("Field = %q, want speed", verr.Field)
	}
}

func TestStore_CheckerRunsOnEveryCommit(t *testing.T) {
	deny := errors.New("denied")
	store, err := NewStore(New(50, 18), WithChecker(func(s State) error {
		if s.Effect == "forbidden" {
			return deny
		}
		return nil
	}))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	_, _, err = store.Update(func(s State) (State, error) {
		s.Effect = "forbidden"
		return s, nil
	})
	if !errors.Is(err, deny) {
		t.Fatalf("Update() error = %v, want %v", err, deny)
	}
	if got := store.Read().Effect; got != DefaultEffect {
		t.Errorf("Effect = %q, want %q", got, DefaultEffect)
	}
}

func TestStore_ConcurrentFieldUpdatesAreNotLost(t *testing.T) {
	store, _ := NewStore(New(50, 18))

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _, _ = store.Update(func(s State) (State, error) {
				s.Brightness = 50
				return s, nil
			})
		}()
		go func() {
			defer wg.Done()
			_, _, _ = store.Update(func(s State) (State, error) {
				s.Speed = 7
				return s, nil
			})
		}()
	}
	wg.Wait()

	got := store.Read()
	if got.Brightness != 50 || got.Speed != 7 {
		t.Errorf("got brightness=%d speed=%d, want 50 and 7", got.Brightness, got.Speed)
	}
	if store.Revision() != 200 {
		t.Errorf("Revision() = %d, want 200", store.Revision())
	}
}

func TestStore_UpdateReturnsCommitRevision(t *testing.T) {
	store, _ := NewStore(New(50, 18))

	for want := uint64(1); want <= 3; want++ {
		st, rev, err := store.Update(func(s State) (State, error) {
			s.Brightness = int(want)
			return s, nil
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if rev != want {
			t.Errorf("revision = %d, want %d", rev, want)
		}
		if st.Brightness != int(want) {
			t.Errorf("Brightness = %d, want %d", st.Brightness, want)
		}
	}

	_, rev, err := store.Update(func(s State) (State, error) {
		s.Speed = 0
		return s, nil
	})
	if err == nil {
		t.Fatal("Update() accepted speed 0")
	}
	if rev != 3 {
		t.Errorf("revision after rejected update = %d, want 3", rev)
	}

	snap, snapRev := store.Snapshot()
	if snapRev != 3 || snap.Brightness != 3 {
		t.Errorf("Snapshot() = brightness %d rev %d, want 3 and 3", snap.Brightness, snapRev)
	}
}

func TestColorClamp(t *testing.T) {
	got := Color{R: -20, G: 128, B: 900}.Clamp()
	want := Color{R: 0, G: 128, B: 255}
	if got != want {
		t.Errorf("Clamp() = %+v, want %+v", got, want)
	}
}
