package effects

import "math/rand/v2"

// Effect ids.
const (
	Solid     = "solid"
	Rainbow   = "rainbow"
	Pulse     = "pulse"
	Breathe   = "breathe"
	Chase     = "chase"
	Sparkle   = "sparkle"
	Strobe    = "strobe"
	Theater   = "theater"
	Meteor    = "meteor"
	MeteorAdv = "meteor_adv"
)

// Option keys and values.
const (
	OptionRainbow   = "rainbow"
	OptionColorMode = "color_mode"
	OptionMeteors   = "meteors"

	ColorModeStatic   = "static"
	ColorModeChanging = "changing"
)

// Builtin returns the registry of every effect the controller ships with.
func Builtin() *Registry {
	r, err := NewRegistry(builtinDescriptors()...)
	if err != nil {
		panic(err)
	}
	return r
}

func builtinDescriptors() []Descriptor {
	animated := func(id, name string, fn func(n int, rng *rand.Rand) Animator) Descriptor {
		return Descriptor{
			ID:             id,
			DisplayName:    name,
			UsesColor:      true,
			UsesBrightness: true,
			UsesSpeed:      true,
			New:            fn,
		}
	}

	theater := animated(Theater, "Theater", newTheater)
	theater.Options = []OptionSpec{{
		Key:         OptionRainbow,
		Kind:        KindBool,
		Default:     false,
		Description: "Cycle through the color wheel instead of the selected color",
	}}

	meteorAdv := animated(MeteorAdv, "Meteor Adv", newMeteorAdv)
	meteorAdv.Options = []OptionSpec{
		{
			Key:         OptionColorMode,
			Kind:        KindEnum,
			Default:     ColorModeChanging,
			Choices:     []string{ColorModeStatic, ColorModeChanging},
			Description: "Use the selected color or drift each meteor through the hue circle",
		},
		{
			Key:         OptionMeteors,
			Kind:        KindInt,
			Default:     4,
			Min:         1,
			Max:         8,
			Description: "Number of simultaneous meteors",
		},
	}

	return []Descriptor{
		{
			ID:             Solid,
			DisplayName:    "Solid",
			UsesColor:      true,
			UsesBrightness: true,
			New:            func(int, *rand.Rand) Animator { return solid{} },
		},
		{
			ID:             Rainbow,
			DisplayName:    "Rainbow",
			UsesBrightness: true,
			UsesSpeed:      true,
			New:            func(int, *rand.Rand) Animator { return &rainbow{} },
		},
		animated(Pulse, "Pulse", func(int, *rand.Rand) Animator { return newOscillator(0.1, 0.02) }),
		animated(Breathe, "Breathe", func(int, *rand.Rand) Animator { return newOscillator(0.05, 0.01) }),
		animated(Chase, "Chase", func(n int, _ *rand.Rand) Animator { return newChase(n) }),
		animated(Sparkle, "Sparkle", newSparkle),
		animated(Strobe, "Strobe", func(int, *rand.Rand) Animator { return &strobe{} }),
		theater,
		animated(Meteor, "Meteor", newMeteor),
		meteorAdv,
	}
}
