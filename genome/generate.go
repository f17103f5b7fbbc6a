package genome

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pthm-cable/bugfights/traits"
)

// Stat distribution for freshly generated bugs.
const (
	statMean   = 55.0
	statStdDev = 20.0
)

// weighted is one candidate value whose selection weight depends on stats.
type weighted[T any] struct {
	value  T
	weight func(g *Genome) float64
}

func flat(w float64) func(*Genome) float64 {
	return func(*Genome) float64 { return w }
}

// pickWeighted samples one value proportionally to its weight.
func pickWeighted[T any](r *rand.Rand, g *Genome, options []weighted[T]) T {
	var total float64
	weights := make([]float64, len(options))
	for i, o := range options {
		w := o.weight(g)
		if w < 0 {
			w = 0
		}
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return options[r.IntN(len(options))].value
	}

	roll := r.Float64() * total
	for i, w := range weights {
		roll -= w
		if roll < 0 {
			return options[i].value
		}
	}
	return options[len(options)-1].value
}

// Visual trait weights. Stats bias the look of a bug: furious bugs skew
// triangular-headed and striped, bulky ones wide and plated, fast ones long-legged.
var (
	headWeights = []weighted[traits.HeadType]{
		{traits.HeadRound, flat(1)},
		{traits.HeadTriangular, func(g *Genome) float64 { return 0.5 + float64(g.Fury)/50 }},
		{traits.HeadSquare, func(g *Genome) float64 { return 0.5 + float64(g.Bulk)/60 }},
		{traits.HeadElongated, func(g *Genome) float64 { return 0.5 + float64(g.Speed)/60 }},
	}
	abdomenWeights = []weighted[traits.AbdomenType]{
		{traits.AbdomenRound, flat(1)},
		{traits.AbdomenOval, flat(1)},
		{traits.AbdomenSegmented, func(g *Genome) float64 { return 0.5 + float64(g.Instinct)/60 }},
		{traits.AbdomenBulbous, func(g *Genome) float64 { return 0.5 + float64(g.Bulk)/50 }},
		{traits.AbdomenTapered, func(g *Genome) float64 { return 0.5 + float64(g.Speed)/50 }},
	}
	thoraxWeights = []weighted[traits.ThoraxType]{
		{traits.ThoraxCompact, flat(1)},
		{traits.ThoraxElongated, func(g *Genome) float64 { return 0.5 + float64(g.Speed)/60 }},
		{traits.ThoraxWide, func(g *Genome) float64 { return 0.5 + float64(g.Bulk)/60 }},
		{traits.ThoraxArmored, func(g *Genome) float64 { return 0.3 + float64(g.Bulk)/80 }},
	}
	legWeights = []weighted[traits.LegStyle]{
		{traits.LegsStandard, flat(1.5)},
		{traits.LegsLong, func(g *Genome) float64 { return 0.5 + float64(g.Speed)/50 }},
		{traits.LegsShort, func(g *Genome) float64 { return 0.5 + float64(g.Bulk)/80 }},
		{traits.LegsSpindly, func(g *Genome) float64 { return 0.3 + float64(g.Instinct)/70 }},
		{traits.LegsThick, func(g *Genome) float64 { return 0.3 + float64(g.Bulk)/50 }},
	}
	eyeWeights = []weighted[traits.EyeStyle]{
		{traits.EyesCompound, func(g *Genome) float64 { return 0.5 + float64(g.Instinct)/50 }},
		{traits.EyesSimple, flat(1)},
		{traits.EyesStalked, flat(0.5)},
		{traits.EyesLarge, func(g *Genome) float64 { return 0.5 + float64(g.Instinct)/80 }},
	}
	antennaWeights = []weighted[traits.AntennaType]{
		{traits.AntennaStraight, flat(1)},
		{traits.AntennaCurved, flat(1)},
		{traits.AntennaClubbed, flat(0.5)},
		{traits.AntennaFeathered, func(g *Genome) float64 { return 0.3 + float64(g.Instinct)/80 }},
		{traits.AntennaNone, flat(0.4)},
	}
	textureWeights = []weighted[traits.TextureType]{
		{traits.TextureSmooth, flat(1)},
		{traits.TextureSpotted, flat(0.8)},
		{traits.TextureStriped, func(g *Genome) float64 { return 0.5 + float64(g.Fury)/80 }},
		{traits.TextureHairy, flat(0.5)},
		{traits.TexturePlated, func(g *Genome) float64 { return 0.3 + float64(g.Bulk)/70 }},
	}
	wingWeights = []weighted[traits.WingType]{
		{traits.WingsMembrane, flat(1)},
		{traits.WingsBeetle, func(g *Genome) float64 { return 0.5 + float64(g.Bulk)/60 }},
		{traits.WingsDragonfly, func(g *Genome) float64 { return 0.5 + float64(g.Speed)/50 }},
		{traits.WingsMoth, flat(0.7)},
	}
)

// palette holds realistic insect base colors.
var palette = []Color{
	{Hue: 25, Saturation: 0.55, Lightness: 0.25},  // chestnut beetle
	{Hue: 35, Saturation: 0.45, Lightness: 0.35},  // tan ant
	{Hue: 0, Saturation: 0.0, Lightness: 0.12},    // black beetle
	{Hue: 5, Saturation: 0.75, Lightness: 0.42},   // ladybird red
	{Hue: 45, Saturation: 0.85, Lightness: 0.50},  // wasp yellow
	{Hue: 95, Saturation: 0.45, Lightness: 0.35},  // mantis green
	{Hue: 140, Saturation: 0.60, Lightness: 0.30}, // jewel beetle green
	{Hue: 200, Saturation: 0.55, Lightness: 0.35}, // steel blue
	{Hue: 265, Saturation: 0.35, Lightness: 0.28}, // violet ground beetle
	{Hue: 15, Saturation: 0.30, Lightness: 0.20},  // dark roach brown
	{Hue: 60, Saturation: 0.25, Lightness: 0.45},  // khaki grasshopper
	{Hue: 180, Saturation: 0.50, Lightness: 0.30}, // teal scarab
}

// Generate creates a random genome. Stats are normally distributed and
// capped; visual traits are drawn with stat-dependent weights.
func Generate(r *rand.Rand) Genome {
	normal := distuv.Normal{Mu: statMean, Sigma: statStdDev, Src: r}

	var g Genome
	for _, s := range g.stats() {
		*s = clampStat(int(math.Round(normal.Rand())))
	}
	g.capStats()

	g.Weapon = traits.Weapon(r.IntN(traits.NumWeapons))
	g.Defense = traits.Defense(r.IntN(traits.NumDefenses))
	g.Mobility = traits.Mobility(r.IntN(traits.NumMobility))

	g.Head = pickWeighted(r, &g, headWeights)
	g.Abdomen = pickWeighted(r, &g, abdomenWeights)
	g.Thorax = pickWeighted(r, &g, thoraxWeights)
	g.Legs = pickWeighted(r, &g, legWeights)
	g.Eyes = pickWeighted(r, &g, eyeWeights)
	g.Antennae = pickWeighted(r, &g, antennaWeights)
	g.Texture = pickWeighted(r, &g, textureWeights)
	g.Wings = traits.WingsNone
	if g.IsWinged() {
		g.Wings = pickWeighted(r, &g, wingWeights)
	}

	base := palette[r.IntN(len(palette))]
	g.Color = Color{
		Hue:        wrapHue(base.Hue + (r.Float64()*2-1)*10),
		Saturation: clampUnit(base.Saturation + (r.Float64()*2-1)*0.05),
		Lightness:  clampUnit(base.Lightness + (r.Float64()*2-1)*0.05),
	}
	g.AccentHue = accentFor(r, g.Color.Hue)

	return g
}

// accentFor picks a hue 30-90 degrees away from base in either direction.
func accentFor(r *rand.Rand, base float64) float64 {
	offset := 30 + r.Float64()*60
	if r.IntN(2) == 0 {
		offset = -offset
	}
	return wrapHue(base + offset)
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
