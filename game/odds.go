package game

import (
	"math"

	"github.com/pthm-cable/bugfights/config"
	"github.com/pthm-cable/bugfights/genome"
	"github.com/pthm-cable/bugfights/traits"
)

// SideOdds are the betting odds for one fighter.
type SideOdds struct {
	Rating         float64 `json:"rating"`
	WinProbability float64 `json:"winProbability"` // Fair probability
	Implied        float64 `json:"implied"`        // Probability with the house edge
	Decimal        float64 `json:"decimal"`
	American       int     `json:"american"`
}

// Odds are the betting odds for a fight.
type Odds struct {
	Left  SideOdds `json:"left"`
	Right SideOdds `json:"right"`
}

// PowerRating sums the four stats plus flat bonuses for strong traits.
func PowerRating(g genome.Genome, c config.OddsConfig) float64 {
	r := float64(g.StatTotal())
	switch g.Weapon {
	case traits.Horn:
		r += c.Horn
	case traits.Stinger:
		r += c.Stinger
	}
	if g.Defense == traits.Shell {
		r += c.Shell
	}
	switch g.Mobility {
	case traits.Winged:
		r += c.Winged
	case traits.Wallcrawler:
		r += c.Wallcrawler
	}
	return r
}

// ComputeOdds converts the two ratings to probabilities, adds half the house
// edge to each side, and derives decimal and American odds.
func ComputeOdds(left, right genome.Genome, c config.OddsConfig) Odds {
	rl, rr := PowerRating(left, c), PowerRating(right, c)
	pl := 0.5
	if total := rl + rr; total > 0 {
		pl = rl / total
	}
	return Odds{
		Left:  sideOdds(rl, pl, c.HouseEdge),
		Right: sideOdds(rr, 1-pl, c.HouseEdge),
	}
}

func sideOdds(rating, p, edge float64) SideOdds {
	implied := math.Min(math.Max(p+edge/2, 0.01), 0.99)
	return SideOdds{
		Rating:         rating,
		WinProbability: p,
		Implied:        implied,
		Decimal:        1 / implied,
		American:       AmericanOdds(implied),
	}
}

// AmericanOdds converts a probability to moneyline odds: negative for
// favorites (p >= 0.5), positive for underdogs.
func AmericanOdds(p float64) int {
	if p >= 0.5 {
		return -int(math.Round(p / (1 - p) * 100))
	}
	return int(math.Round((1 - p) / p * 100))
}
