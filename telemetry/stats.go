package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// FightStats holds aggregated statistics for one finished fight.
type FightStats struct {
	Fight       int     `csv:"fight"`
	StartTick   int     `csv:"start_tick"`
	EndTick     int     `csv:"end_tick"`
	DurationSec float64 `csv:"duration_sec"`

	Left        string  `csv:"left"`
	Right       string  `csv:"right"`
	LeftWinProb float64 `csv:"left_win_prob"`
	Winner      int     `csv:"winner"` // 0 draw, 1 left, 2 right
	LeftHP      int     `csv:"left_hp"`
	RightHP     int     `csv:"right_hp"`
	LeftMaxHP   int     `csv:"left_max_hp"`
	RightMaxHP  int     `csv:"right_max_hp"`

	// Attacks
	Attacks int     `csv:"attacks"`
	Hits    int     `csv:"hits"`
	Misses  int     `csv:"misses"`
	Dodges  int     `csv:"dodges"`
	Crits   int     `csv:"crits"`
	HitRate float64 `csv:"hit_rate"`

	// Feints
	Feints         int `csv:"feints"`
	FeintsRead     int `csv:"feints_read"`
	FeintsBaited   int `csv:"feints_baited"`
	FeintsFlinched int `csv:"feints_flinched"`

	// Effects
	PoisonTicks int `csv:"poison_ticks"`
	Reflected   int `csv:"reflected"` // Toxic chip damage
	WallImpacts int `csv:"wall_impacts"`
	MaxWallStun int `csv:"max_wall_stun"`

	// Damage distribution over landed hits, poison ticks, and reflected damage
	DamageTotal int     `csv:"damage_total"`
	DamageLeft  int     `csv:"damage_left"`  // Dealt by the left fighter
	DamageRight int     `csv:"damage_right"` // Dealt by the right fighter
	DamageMean  float64 `csv:"damage_mean"`
	DamageStd   float64 `csv:"damage_std"`
	DamageP50   float64 `csv:"damage_p50"`
	DamageP90   float64 `csv:"damage_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDamageStats returns the mean, population std dev, median and p90 of damage values.
func ComputeDamageStats(values []float64) (mean, std, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s FightStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("fight", s.Fight),
		slog.Int("end_tick", s.EndTick),
		slog.Float64("duration_sec", s.DurationSec),
		slog.String("left", s.Left),
		slog.String("right", s.Right),
		slog.Int("winner", s.Winner),
		slog.Int("attacks", s.Attacks),
		slog.Int("hits", s.Hits),
		slog.Int("misses", s.Misses),
		slog.Int("dodges", s.Dodges),
		slog.Int("crits", s.Crits),
		slog.Float64("hit_rate", s.HitRate),
		slog.Int("feints", s.Feints),
		slog.Int("poison_ticks", s.PoisonTicks),
		slog.Int("wall_impacts", s.WallImpacts),
		slog.Int("damage_total", s.DamageTotal),
		slog.Float64("damage_mean", s.DamageMean),
		slog.Float64("damage_std", s.DamageStd),
	)
}

// LogStats logs the fight stats using slog.
func (s FightStats) LogStats() {
	slog.Info("fight",
		"fight", s.Fight,
		"end_tick", s.EndTick,
		"duration_sec", s.DurationSec,
		"left", s.Left,
		"right", s.Right,
		"left_win_prob", s.LeftWinProb,
		"winner", s.Winner,
		"left_hp", s.LeftHP,
		"right_hp", s.RightHP,
		"attacks", s.Attacks,
		"hits", s.Hits,
		"misses", s.Misses,
		"dodges", s.Dodges,
		"crits", s.Crits,
		"hit_rate", s.HitRate,
		"feints", s.Feints,
		"feints_read", s.FeintsRead,
		"feints_baited", s.FeintsBaited,
		"feints_flinched", s.FeintsFlinched,
		"poison_ticks", s.PoisonTicks,
		"wall_impacts", s.WallImpacts,
		"max_wall_stun", s.MaxWallStun,
		"damage_total", s.DamageTotal,
		"damage_mean", s.DamageMean,
		"damage_std", s.DamageStd,
		"damage_p90", s.DamageP90,
	)
}
