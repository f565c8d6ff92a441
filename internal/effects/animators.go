package effects

import (
	"math"
	"math/rand/v2"

	"github.com/smazurov/lichtwerk/internal/strip"
)

type solid struct{}

func (solid) Render(dst strip.Frame, in Input) {
	dst.Fill(pixel(in.Color))
}

type rainbow struct {
	offset float64
}

func (r *rainbow) Render(dst strip.Frame, in Input) {
	base := int(r.offset)
	for i := range dst {
		dst[i] = wheel(base + i)
	}
	r.offset = math.Mod(r.offset+0.5*in.Step, 256)
}

// oscillator ramps the whole strip between floor and full level.
type oscillator struct {
	floor, rate float64
	level       float64
	rising      bool
}

func newOscillator(floor, rate float64) *oscillator {
	return &oscillator{floor: floor, rate: rate, level: floor, rising: true}
}

func (o *oscillator) Render(dst strip.Frame, in Input) {
	dst.Fill(dim(pixel(in.Color), o.level))

	delta := o.rate * in.Step
	if o.rising {
		o.level += delta
	} else {
		o.level -= delta
	}
	if o.level >= 1 {
		o.level, o.rising = 1, false
	} else if o.level <= o.floor {
		o.level, o.rising = o.floor, true
	}
}

type chase struct {
	segment  int
	position float64
}

func newChase(n int) *chase {
	return &chase{segment: max(1, n/20)}
}

func (c *chase) Render(dst strip.Frame, in Input) {
	dst.Clear()
	if len(dst) == 0 {
		return
	}
	p := pixel(in.Color)
	start := int(c.position)
	for i := range c.segment {
		dst[(start+i)%len(dst)] = p
	}
	c.position = math.Mod(c.position+0.4*in.Step, float64(len(dst)))
}

type spark struct {
	index int
	level float64
}

type sparkle struct {
	rng     *rand.Rand
	density int
	sparks  []spark
}

func newSparkle(n int, rng *rand.Rand) Animator {
	return &sparkle{rng: rng, density: max(1, n/50)}
}

func (s *sparkle) Render(dst strip.Frame, in Input) {
	dst.Clear()
	p := pixel(in.Color)

	live := s.sparks[:0]
	for _, sp := range s.sparks {
		sp.level *= 0.9
		if sp.level > 0.01 && sp.index < len(dst) {
			dst[sp.index] = dim(p, sp.level)
			live = append(live, sp)
		}
	}
	s.sparks = live

	if len(dst) == 0 {
		return
	}
	chance := 0.5 * in.Step
	for range s.density {
		if s.rng.Float64() < chance {
			s.sparks = append(s.sparks, spark{index: s.rng.IntN(len(dst)), level: 1})
		}
	}
}

// strobe flashes for a quarter of each ten-step cycle.
type strobe struct {
	phase float64
}

func (s *strobe) Render(dst strip.Frame, in Input) {
	if s.phase < 2.5 {
		dst.Fill(pixel(in.Color))
	} else {
		dst.Clear()
	}
	s.phase = math.Mod(s.phase+in.Step, 10)
}

// theater lights every third pixel and walks the pattern along the strip.
type theater struct {
	offset float64
	hue    float64
}

func newTheater(int, *rand.Rand) Animator {
	return &theater{}
}

func (t *theater) Render(dst strip.Frame, in Input) {
	rainbowMode := in.Options.Bool(OptionRainbow)
	shift := int(t.offset)
	p := pixel(in.Color)
	for i := range dst {
		if (i+shift)%3 != 0 {
			dst[i] = strip.Off
			continue
		}
		if rainbowMode {
			dst[i] = wheel(int(t.hue) + i*256/max(1, len(dst)))
		} else {
			dst[i] = p
		}
	}
	t.offset = math.Mod(t.offset+0.2*in.Step, 3)
	t.hue = math.Mod(t.hue+in.Step, 256)
}
