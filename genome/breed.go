package genome

import (
	"math"
	"math/rand/v2"

	"github.com/pthm-cable/bugfights/traits"
)

// Breeding parameters.
const (
	breedStatJitter   = 10.0 // Child stat = parent mean ± this
	breedMutationRate = 0.05 // Chance a categorical trait is rerolled instead of inherited
)

// Breed produces a child from two parents. Stats are the parent mean plus
// uniform jitter, rescaled down only when they exceed the cap. Each trait is
// inherited from either parent with a small chance of mutation. The parents
// are passed by value and never modified.
func Breed(r *rand.Rand, a, b Genome) Genome {
	var child Genome

	as, bs, cs := a.stats(), b.stats(), child.stats()
	for i := range cs {
		mean := float64(*as[i]+*bs[i]) / 2
		jitter := (r.Float64()*2 - 1) * breedStatJitter
		*cs[i] = clampStat(int(math.Round(mean + jitter)))
	}
	child.capStats()

	child.Weapon = inherit(r, a.Weapon, b.Weapon, traits.NumWeapons)
	child.Defense = inherit(r, a.Defense, b.Defense, traits.NumDefenses)
	child.Mobility = inherit(r, a.Mobility, b.Mobility, traits.NumMobility)
	child.Abdomen = inherit(r, a.Abdomen, b.Abdomen, traits.NumAbdomens)
	child.Thorax = inherit(r, a.Thorax, b.Thorax, traits.NumThoraxes)
	child.Head = inherit(r, a.Head, b.Head, traits.NumHeads)
	child.Legs = inherit(r, a.Legs, b.Legs, traits.NumLegStyles)
	child.Eyes = inherit(r, a.Eyes, b.Eyes, traits.NumEyeStyles)
	child.Antennae = inherit(r, a.Antennae, b.Antennae, traits.NumAntennae)
	child.Texture = inherit(r, a.Texture, b.Texture, traits.NumTextures)
	child.Wings = inheritWings(r, a.Wings, b.Wings, child.IsWinged())

	child.Color = Color{
		Hue:        BlendHue(a.Color.Hue, b.Color.Hue),
		Saturation: (a.Color.Saturation + b.Color.Saturation) / 2,
		Lightness:  (a.Color.Lightness + b.Color.Lightness) / 2,
	}
	child.AccentHue = BlendHue(a.AccentHue, b.AccentHue)

	return child
}

// inherit picks one parent's value 50/50, or a uniform random value on mutation.
func inherit[T ~uint8](r *rand.Rand, a, b T, n int) T {
	if r.Float64() < breedMutationRate {
		return T(r.IntN(n))
	}
	if r.IntN(2) == 0 {
		return a
	}
	return b
}

// inheritWings keeps wing type consistent with mobility. Winged children
// prefer a real wing type from either parent.
func inheritWings(r *rand.Rand, a, b traits.WingType, winged bool) traits.WingType {
	if !winged {
		return traits.WingsNone
	}

	var candidates []traits.WingType
	for _, w := range []traits.WingType{a, b} {
		if w != traits.WingsNone {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) > 0 {
		return candidates[r.IntN(len(candidates))]
	}
	// Skip index 0 (none)
	return traits.WingType(1 + r.IntN(traits.NumWingTypes-1))
}
