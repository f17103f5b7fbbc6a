// Package genome defines the immutable description of a bug: its combat stats,
// combat traits, and cosmetic traits, plus random generation and breeding.
package genome

import (
	"fmt"
	"math"

	"github.com/pthm-cable/bugfights/traits"
)

// Stat bounds and the soft cap on their sum.
const (
	StatMin = 10
	StatMax = 100
	StatCap = 350
)

// Color is an HSL base color. Hue is in degrees, saturation and lightness in [0,1].
type Color struct {
	Hue        float64 `json:"hue" yaml:"hue"`
	Saturation float64 `json:"saturation" yaml:"saturation"`
	Lightness  float64 `json:"lightness" yaml:"lightness"`
}

// Genome is one bug's stats and traits. It holds no references, so a copy is
// fully independent of the original.
type Genome struct {
	Bulk     int `json:"bulk" yaml:"bulk"`
	Speed    int `json:"speed" yaml:"speed"`
	Fury     int `json:"fury" yaml:"fury"`
	Instinct int `json:"instinct" yaml:"instinct"`

	Weapon   traits.Weapon   `json:"weapon" yaml:"weapon"`
	Defense  traits.Defense  `json:"defense" yaml:"defense"`
	Mobility traits.Mobility `json:"mobility" yaml:"mobility"`

	Abdomen  traits.AbdomenType `json:"abdomenType" yaml:"abdomen_type"`
	Thorax   traits.ThoraxType  `json:"thoraxType" yaml:"thorax_type"`
	Head     traits.HeadType    `json:"headType" yaml:"head_type"`
	Legs     traits.LegStyle    `json:"legStyle" yaml:"leg_style"`
	Eyes     traits.EyeStyle    `json:"eyeStyle" yaml:"eye_style"`
	Antennae traits.AntennaType `json:"antennaStyle" yaml:"antenna_style"`
	Texture  traits.TextureType `json:"textureType" yaml:"texture_type"`
	Wings    traits.WingType    `json:"wingType" yaml:"wing_type"`

	Color     Color   `json:"color" yaml:"color"`
	AccentHue float64 `json:"accentHue" yaml:"accent_hue"`
}

// StatTotal returns bulk+speed+fury+instinct.
func (g Genome) StatTotal() int {
	return g.Bulk + g.Speed + g.Fury + g.Instinct
}

// IsWinged reports whether the bug flies.
func (g Genome) IsWinged() bool { return g.Mobility == traits.Winged }

// IsWallcrawler reports whether the bug climbs walls.
func (g Genome) IsWallcrawler() bool { return g.Mobility == traits.Wallcrawler }

// Validate checks the invariants a loaded record must satisfy.
func (g Genome) Validate() error {
	for _, s := range []struct {
		name string
		v    int
	}{{"bulk", g.Bulk}, {"speed", g.Speed}, {"fury", g.Fury}, {"instinct", g.Instinct}} {
		if s.v < StatMin || s.v > StatMax {
			return fmt.Errorf("genome: %s %d out of range [%d,%d]", s.name, s.v, StatMin, StatMax)
		}
	}
	if total := g.StatTotal(); total > StatCap {
		return fmt.Errorf("genome: stat total %d exceeds cap %d", total, StatCap)
	}
	if (g.Wings == traits.WingsNone) == g.IsWinged() {
		return fmt.Errorf("genome: wing type %s inconsistent with mobility %s", g.Wings, g.Mobility)
	}
	return nil
}

// stats returns pointers to the four stats in a fixed order.
func (g *Genome) stats() [4]*int {
	return [4]*int{&g.Bulk, &g.Speed, &g.Fury, &g.Instinct}
}

// capStats rescales stats down so their sum is at most StatCap. Stats below
// the cap are left untouched. Rounding overshoot is removed one point at a
// time from the current largest stat.
func (g *Genome) capStats() {
	total := g.StatTotal()
	if total <= StatCap {
		return
	}

	scale := float64(StatCap) / float64(total)
	stats := g.stats()
	for _, s := range stats {
		*s = clampStat(int(math.Round(float64(*s) * scale)))
	}

	for g.StatTotal() > StatCap {
		largest := stats[0]
		for _, s := range stats[1:] {
			if *s > *largest {
				largest = s
			}
		}
		if *largest <= StatMin {
			break
		}
		*largest--
	}
}

func clampStat(v int) int {
	if v < StatMin {
		return StatMin
	}
	if v > StatMax {
		return StatMax
	}
	return v
}

// wrapHue maps any angle to [0,360).
func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// BlendHue returns the midpoint of two hues along the shortest arc of the
// color wheel, so BlendHue(350, 10) is 0 rather than 180.
func BlendHue(h1, h2 float64) float64 {
	d := wrapHue(h2-h1+180) - 180
	return wrapHue(h1 + d/2)
}
