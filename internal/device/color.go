package device

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseColor reads "#rrggbb", "rrggbb" or "r,g,b". Decimal channels are
// clamped to range.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)

	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return Color{}, fmt.Errorf("color %q: want r,g,b", s)
		}
		var ch [3]int
		for i, p := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return Color{}, fmt.Errorf("color %q: %w", s, err)
			}
			ch[i] = v
		}
		return Color{R: ch[0], G: ch[1], B: ch[2]}.Clamp(), nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("color %q: want #rrggbb or r,g,b", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// String formats c as "#rrggbb".
func (c Color) String() string {
	c = c.Clamp()
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
