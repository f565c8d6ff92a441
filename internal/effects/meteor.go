package effects

import (
	"math/rand/v2"

	"github.com/smazurov/lichtwerk/internal/strip"
)

type fallingStar struct {
	position float64
	velocity float64
	size     int
	trail    int
}

// meteor launches meteors from the start of the strip that leave a fading
// trail behind them.
type meteor struct {
	rng    *rand.Rand
	canvas strip.Frame
	stars  []fallingStar
}

func newMeteor(n int, rng *rand.Rand) Animator {
	return &meteor{rng: rng, canvas: strip.NewFrame(n)}
}

func (m *meteor) Render(dst strip.Frame, in Input) {
	for i, p := range m.canvas {
		m.canvas[i] = dim(p, 0.92)
	}

	if m.rng.Float64() < 0.1*in.Step {
		size := 5 + m.rng.IntN(8)
		m.stars = append(m.stars, fallingStar{
			velocity: 1 + 2*m.rng.Float64(),
			size:     size,
			trail:    size * 3,
		})
	}

	base := pixel(in.Color)
	n := len(m.canvas)
	live := m.stars[:0]
	for _, s := range m.stars {
		s.position += s.velocity * 0.5 * in.Step
		for i := range s.trail {
			at := int(s.position) - i
			if at < 0 || at >= n {
				continue
			}
			var level float64
			if i < s.size {
				level = 1 - float64(i)*0.05
			} else {
				tail := float64(i-s.size) / float64(s.trail-s.size)
				level = max(0.05, 0.8*(1-tail))
			}
			m.canvas[at] = dim(base, level)
		}
		if s.position < float64(n+s.trail) {
			live = append(live, s)
		}
	}
	m.stars = live

	copy(dst, m.canvas)
}

type bouncer struct {
	position float64
	hue      float64
	reverse  bool
	velocity float64
	size     int
}

// meteorAdv runs a fixed number of meteors that bounce between the strip
// ends, optionally drifting through the hue circle.
type meteorAdv struct {
	rng      *rand.Rand
	canvas   strip.Frame
	bouncers []bouncer
}

func newMeteorAdv(n int, rng *rand.Rand) Animator {
	return &meteorAdv{rng: rng, canvas: strip.NewFrame(n)}
}

func (m *meteorAdv) spawn(count int) {
	n := len(m.canvas)
	m.bouncers = make([]bouncer, count)
	for i := range m.bouncers {
		m.bouncers[i] = bouncer{
			position: float64(n) / float64(count) * float64(i),
			hue:      360 / float64(count) * float64(i),
			reverse:  i%2 == 0,
			velocity: 0.5 + 1.5*m.rng.Float64(),
			size:     4 + m.rng.IntN(5),
		}
	}
}

func (m *meteorAdv) Render(dst strip.Frame, in Input) {
	count := in.Options.Int(OptionMeteors, 4)
	if len(m.bouncers) != count {
		m.spawn(count)
	}
	changing := in.Options.String(OptionColorMode, ColorModeChanging) == ColorModeChanging

	for i, p := range m.canvas {
		if m.rng.Float64() > 0.2 {
			m.canvas[i] = dim(p, 0.85)
		}
	}

	n := float64(len(m.canvas))
	base := pixel(in.Color)
	for bi := range m.bouncers {
		b := &m.bouncers[bi]
		delta := b.velocity * in.Step
		if b.reverse {
			b.position -= delta
		} else {
			b.position += delta
		}
		if b.position < float64(b.size) {
			b.reverse, b.position = false, float64(b.size)
		} else if b.position >= n {
			b.reverse, b.position = true, n-1
		}

		color := base
		if changing {
			b.hue += 0.5 * in.Step
			if b.hue > 360 {
				b.hue -= 360
			}
			color = hue(b.hue)
		}

		for j := range b.size {
			at := int(b.position) - j
			if at < 0 || at >= len(m.canvas) {
				continue
			}
			head := dim(color, max(0.1, 1-float64(j)/float64(b.size)*0.5))
			old := m.canvas[at]
			m.canvas[at] = strip.Pixel{
				R: blend(head.R, old.R),
				G: blend(head.G, old.G),
				B: blend(head.B, old.B),
			}
		}
	}

	copy(dst, m.canvas)
}

func blend(next, prev uint8) uint8 {
	return uint8(float64(next)*0.75 + float64(prev)*0.25)
}
