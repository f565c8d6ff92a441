package device

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "#ff8000", want: Color{R: 255, G: 128, B: 0}},
		{in: "00FF7f", want: Color{R: 0, G: 255, B: 127}},
		{in: "10, 20,30", want: Color{R: 10, G: 20, B: 30}},
		{in: "300,-5,7", want: Color{R: 255, G: 0, B: 7}},
		{in: "#fff", wantErr: true},
		{in: "1,2", wantErr: true},
		{in: "red", wantErr: true},
		{in: "#gg0000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseColor(%q) = %+v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColor(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestColorString(t *testing.T) {
	if got := (Color{R: 255, G: 128, B: 0}).String(); got != "#ff8000" {
		t.Errorf("String() = %q, want #ff8000", got)
	}
}
