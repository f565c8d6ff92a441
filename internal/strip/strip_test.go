package strip

import (
	"errors"
	"log/slog"
	"os"
	"testing"
)

func TestFrame_ScaleAndBlank(t *testing.T) {
	f := NewFrame(3)
	if !f.IsBlank() {
		t.Fatal("new frame is not blank")
	}

	f.Fill(Pixel{R: 255, G: 100, B: 0})
	f.Scale(51)

	want := Pixel{R: 51, G: 20, B: 0}
	for i, p := range f {
		if p != want {
			t.Errorf("pixel %d = %+v, want %+v", i, p, want)
		}
	}

	f.Clear()
	if !f.IsBlank() {
		t.Error("Clear() left lit pixels")
	}
}

func TestFrame_AppendRGB(t *testing.T) {
	f := Frame{{R: 1, G: 2, B: 3}, {R: 4, G: 5, B: 6}}
	got := f.AppendRGB(nil)
	want := []byte{1, 2, 3, 4, 5, 6}
	if string(got) != string(want) {
		t.Errorf("AppendRGB() = %v, want %v", got, want)
	}
}

func TestNew_Noop(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	d, err := New(Config{LEDCount: 10, Driver: DriverNoop}, logger)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if d.Name() != DriverNoop {
		t.Errorf("Name() = %q, want %q", d.Name(), DriverNoop)
	}
	if err := d.Write(NewFrame(10)); err != nil {
		t.Errorf("Write() error = %v", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestNew_RejectsBadConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero leds", Config{LEDCount: 0, Driver: DriverNoop}},
		{"unknown driver", Config{LEDCount: 10, Driver: "dmx"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg, logger); err == nil {
				t.Error("New() succeeded, want error")
			}
		})
	}
}

func TestHardwareError_Unwrap(t *testing.T) {
	cause := errors.New("spi timeout")
	err := error(&HardwareError{Driver: DriverSPI, Err: cause})
	if !errors.Is(err, cause) {
		t.Error("HardwareError does not unwrap to its cause")
	}
}
