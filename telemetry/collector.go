// Package telemetry records per-fight statistics, notable fights, and
// simulation timing, and writes them out as CSV.
package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/bugfights/components"
)

// FightInfo describes a fight as it starts.
type FightInfo struct {
	Fight       int
	StartTick   int
	Left        string
	Right       string
	LeftWinProb float64
}

// FightResult describes how a fight ended.
type FightResult struct {
	EndTick    int
	Winner     int // 0 draw, 1 left, 2 right
	LeftHP     int
	RightHP    int
	LeftMaxHP  int
	RightMaxHP int
}

// Collector accumulates events within one fight and produces FightStats.
// It is reset at every fight start.
type Collector struct {
	tickSeconds float64
	output      *OutputManager
	detector    *BookmarkDetector
	logFights   bool

	info    FightInfo
	started bool

	// Event counters for the current fight
	attacks        int
	hits           int
	misses         int
	dodges         int
	crits          int
	feintsRead     int
	feintsBaited   int
	feintsFlinched int
	poisonTicks    int
	reflected      int
	wallImpacts    int
	maxWallStun    int
	damageBySide   [2]int
	damages        []float64

	fights int
	last   FightStats
	marks  []Bookmark

	snapshot func() any
}

// NewCollector creates a new fight collector.
// tickSeconds: seconds per tick (used for duration)
// output: CSV sink, may be nil
// logFights: log each finished fight via slog
func NewCollector(tickSeconds float64, output *OutputManager, logFights bool) *Collector {
	return &Collector{
		tickSeconds: tickSeconds,
		output:      output,
		detector:    NewBookmarkDetector(10),
		logFights:   logFights,
	}
}

// FightStarted resets the counters for a new fight.
func (c *Collector) FightStarted(info FightInfo) {
	c.info = info
	c.started = true
	c.attacks = 0
	c.hits = 0
	c.misses = 0
	c.dodges = 0
	c.crits = 0
	c.feintsRead = 0
	c.feintsBaited = 0
	c.feintsFlinched = 0
	c.poisonTicks = 0
	c.reflected = 0
	c.wallImpacts = 0
	c.maxWallStun = 0
	c.damageBySide = [2]int{}
	c.damages = c.damages[:0]
	c.marks = nil
}

// AttackResolved records a real attack.
func (c *Collector) AttackResolved(attacker components.Side, outcome components.AttackOutcome, damage int, crit bool) {
	c.attacks++
	switch outcome {
	case components.AttackHit:
		c.hits++
		c.recordDamage(attacker, damage)
		if crit {
			c.crits++
		}
	case components.AttackMiss:
		c.misses++
	case components.AttackDodge:
		c.dodges++
	}
}

// FeintResolved records a feint.
func (c *Collector) FeintResolved(_ components.Side, result components.FeintResult) {
	switch result {
	case components.FeintRead:
		c.feintsRead++
	case components.FeintDodgeBait:
		c.feintsBaited++
	case components.FeintFlinch:
		c.feintsFlinched++
	}
}

// PoisonTicked records poison damage, credited to the target's opponent.
func (c *Collector) PoisonTicked(target components.Side, damage int) {
	c.poisonTicks++
	c.recordDamage(target.Opposite(), damage)
}

// DamageReflected records toxic chip damage taken by an attacker, credited
// to the defender.
func (c *Collector) DamageReflected(target components.Side, damage int) {
	c.reflected += damage
	c.recordDamage(target.Opposite(), damage)
}

// WallImpact records a wall slam.
func (c *Collector) WallImpact(_ components.Side, impact components.WallImpact) {
	c.wallImpacts++
	if impact.StunApplied > c.maxWallStun {
		c.maxWallStun = impact.StunApplied
	}
}

func (c *Collector) recordDamage(by components.Side, damage int) {
	if int(by) < len(c.damageBySide) {
		c.damageBySide[by] += damage
	}
	c.damages = append(c.damages, float64(damage))
}

// FightEnded produces the fight's stats, writes and logs them, and checks for
// notable fights.
func (c *Collector) FightEnded(res FightResult) {
	var hitRate float64
	if c.attacks > 0 {
		hitRate = float64(c.hits) / float64(c.attacks)
	}
	mean, std, p50, p90 := ComputeDamageStats(c.damages)

	stats := FightStats{
		Fight:       c.info.Fight,
		StartTick:   c.info.StartTick,
		EndTick:     res.EndTick,
		DurationSec: float64(res.EndTick-c.info.StartTick) * c.tickSeconds,

		Left:        c.info.Left,
		Right:       c.info.Right,
		LeftWinProb: c.info.LeftWinProb,
		Winner:      res.Winner,
		LeftHP:      res.LeftHP,
		RightHP:     res.RightHP,
		LeftMaxHP:   res.LeftMaxHP,
		RightMaxHP:  res.RightMaxHP,

		Attacks: c.attacks,
		Hits:    c.hits,
		Misses:  c.misses,
		Dodges:  c.dodges,
		Crits:   c.crits,
		HitRate: hitRate,

		Feints:         c.feintsRead + c.feintsBaited + c.feintsFlinched,
		FeintsRead:     c.feintsRead,
		FeintsBaited:   c.feintsBaited,
		FeintsFlinched: c.feintsFlinched,

		PoisonTicks: c.poisonTicks,
		Reflected:   c.reflected,
		WallImpacts: c.wallImpacts,
		MaxWallStun: c.maxWallStun,

		DamageTotal: c.damageBySide[0] + c.damageBySide[1],
		DamageLeft:  c.damageBySide[components.Left],
		DamageRight: c.damageBySide[components.Right],
		DamageMean:  mean,
		DamageStd:   std,
		DamageP50:   p50,
		DamageP90:   p90,
	}

	c.fights++
	c.last = stats
	c.started = false

	if c.logFights {
		stats.LogStats()
	}
	if err := c.output.WriteFight(stats); err != nil {
		slog.Error("failed to write fight stats", "fight", stats.Fight, "error", err)
	}

	c.marks = c.detector.Check(stats)
	for _, bm := range c.marks {
		if c.logFights {
			bm.LogBookmark()
		}
		if err := c.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "fight", stats.Fight, "error", err)
		}
	}
	if len(c.marks) > 0 && c.snapshot != nil {
		name := fmt.Sprintf("fight_%05d_%s", stats.Fight, c.marks[0].Type)
		if err := c.output.WriteSnapshot(name, c.snapshot()); err != nil {
			slog.Error("failed to write snapshot", "fight", stats.Fight, "error", err)
		}
	}
}

// SetSnapshotSource registers the state captured when a fight is bookmarked.
func (c *Collector) SetSnapshotSource(fn func() any) {
	c.snapshot = fn
}

// Fights returns the number of fights recorded.
func (c *Collector) Fights() int {
	return c.fights
}

// Last returns the stats of the most recently finished fight.
func (c *Collector) Last() FightStats {
	return c.last
}

// Bookmarks returns the notable-fight markers raised by the last fight.
func (c *Collector) Bookmarks() []Bookmark {
	return c.marks
}

// InFight reports whether a fight has started and not yet ended.
func (c *Collector) InFight() bool {
	return c.started
}
