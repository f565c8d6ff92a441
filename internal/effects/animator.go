package effects

import (
	"math"

	"github.com/smazurov/lichtwerk/internal/device"
	"github.com/smazurov/lichtwerk/internal/strip"
)

// Input is everything an animator may read for one frame.
type Input struct {
	Color   device.Color
	Options device.Options
	// Step is the phase advancement for this frame; 1.0 at the default speed.
	Step float64
}

// Animator produces frames for one effect. Implementations keep their own
// animation state and are used from a single goroutine. Brightness is
// applied by the caller.
type Animator interface {
	Render(dst strip.Frame, in Input)
}

func pixel(c device.Color) strip.Pixel {
	c = c.Clamp()
	return strip.Pixel{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B)}
}

func dim(p strip.Pixel, level float64) strip.Pixel {
	level = math.Max(0, math.Min(1, level))
	return strip.Pixel{
		R: uint8(float64(p.R) * level),
		G: uint8(float64(p.G) * level),
		B: uint8(float64(p.B) * level),
	}
}

// wheel maps 0..255 around the red, green, blue color wheel.
func wheel(pos int) strip.Pixel {
	pos &= 0xff
	switch {
	case pos < 85:
		return strip.Pixel{R: uint8(pos * 3), G: uint8(255 - pos*3)}
	case pos < 170:
		pos -= 85
		return strip.Pixel{R: uint8(255 - pos*3), B: uint8(pos * 3)}
	default:
		pos -= 170
		return strip.Pixel{G: uint8(pos * 3), B: uint8(255 - pos*3)}
	}
}

// hue returns the fully saturated color at h degrees.
func hue(h float64) strip.Pixel {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	sector := h / 60
	x := 1 - math.Abs(math.Mod(sector, 2)-1)
	var r, g, b float64
	switch int(sector) {
	case 0:
		r, g = 1, x
	case 1:
		r, g = x, 1
	case 2:
		g, b = 1, x
	case 3:
		g, b = x, 1
	case 4:
		r, b = x, 1
	default:
		r, b = 1, x
	}
	return strip.Pixel{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255)}
}
