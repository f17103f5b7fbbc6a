package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/bugfights/components"
	"github.com/pthm-cable/bugfights/config"
	"github.com/pthm-cable/bugfights/fighter"
	"github.com/pthm-cable/bugfights/genome"
	"github.com/pthm-cable/bugfights/roster"
	"github.com/pthm-cable/bugfights/telemetry"
	"github.com/pthm-cable/bugfights/traits"
)

func init() {
	config.MustInit("")
}

// seqRand replays scripted rolls, then returns 0.99 forever.
type seqRand struct {
	vals []float64
	i    int
}

func (s *seqRand) Float64() float64 {
	if s.i >= len(s.vals) {
		return 0.99
	}
	v := s.vals[s.i]
	s.i++
	return v
}

// fakeRoster always pits its first two entries against each other.
type fakeRoster struct {
	entries   []roster.Entry
	selectErr error
	recordErr error
	wins      map[string]int
	losses    map[string]int
}

func newFakeRoster(a, b genome.Genome) *fakeRoster {
	return &fakeRoster{
		entries: []roster.Entry{
			{ID: "a", Name: "Alpha", Genome: a},
			{ID: "b", Name: "Bravo", Genome: b},
		},
		wins:   map[string]int{},
		losses: map[string]int{},
	}
}

func (f *fakeRoster) SelectFighters() (roster.Entry, roster.Entry, error) {
	if f.selectErr != nil {
		return roster.Entry{}, roster.Entry{}, f.selectErr
	}
	return f.entries[0], f.entries[1], nil
}

func (f *fakeRoster) RecordWin(id string) error {
	f.wins[id]++
	return f.recordErr
}

func (f *fakeRoster) RecordLoss(id string) error {
	f.losses[id]++
	return f.recordErr
}

func (f *fakeRoster) Entries() []roster.Entry {
	return append([]roster.Entry(nil), f.entries...)
}

// recorder is an Observer that keeps what it was told.
type recorder struct {
	started  int
	attacks  []components.AttackOutcome
	feints   []components.FeintResult
	poison   int
	reflect  int
	walls    []components.WallImpact
	finished []telemetry.FightResult
}

func (r *recorder) FightStarted(telemetry.FightInfo) { r.started++ }
func (r *recorder) AttackResolved(_ components.Side, o components.AttackOutcome, _ int, _ bool) {
	r.attacks = append(r.attacks, o)
}
func (r *recorder) FeintResolved(_ components.Side, res components.FeintResult) {
	r.feints = append(r.feints, res)
}
func (r *recorder) PoisonTicked(_ components.Side, d int)    { r.poison += d }
func (r *recorder) DamageReflected(_ components.Side, d int) { r.reflect += d }
func (r *recorder) WallImpact(_ components.Side, w components.WallImpact) {
	r.walls = append(r.walls, w)
}
func (r *recorder) FightEnded(res telemetry.FightResult) { r.finished = append(r.finished, res) }

func testGenome(w traits.Weapon, d traits.Defense, m traits.Mobility) genome.Genome {
	g := genome.Genome{
		Bulk:     50,
		Speed:    50,
		Fury:     50,
		Instinct: 50,
		Weapon:   w,
		Defense:  d,
		Mobility: m,
	}
	if m == traits.Winged {
		g.Wings = traits.WingType(1)
	}
	return g
}

func plainGenome() genome.Genome {
	return testGenome(traits.Mandibles, traits.NoDefense, traits.Ground)
}

func newTestSim(t *testing.T, a, b genome.Genome) (*Simulation, *recorder) {
	t.Helper()
	rec := &recorder{}
	s, err := New(config.Cfg(), newFakeRoster(a, b), Options{Seed: 1, Observer: rec})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, rec
}

// face places attacker and target 30 units apart on the X axis, each facing the other.
func face(s *Simulation) (a, t *fighter.Fighter) {
	a, t = s.fighters.Left, s.fighters.Right
	a.Pos = r3.Vec{X: 0}
	t.Pos = r3.Vec{X: 30}
	a.FacingAngle = 0
	t.FacingAngle = math.Pi
	return a, t
}

func TestProcessCombatDamage(t *testing.T) {
	// Rolls: feint, physical dodge, hit d100, dodge d100, d6, crit
	noFeint, noDodge, hitD100, dodgeD100, d6 := 0.9, 0.9, 0.8, 0.1, 0.5

	tests := []struct {
		name     string
		target   genome.Genome
		setup    func(a, t *fighter.Fighter)
		crit     float64
		wantDmg  int
		wantCrit bool
	}{
		{name: "base", target: plainGenome(), crit: 0.5, wantDmg: 14},
		{name: "crit", target: plainGenome(), crit: 0.05, wantDmg: 21, wantCrit: true},
		{
			name:   "x flank",
			target: plainGenome(),
			setup:  func(a, t *fighter.Fighter) { t.FacingAngle = 0 },
			crit:   0.5, wantDmg: 17,
		},
		{
			name:   "z flank",
			target: plainGenome(),
			setup: func(a, t *fighter.Fighter) {
				a.Pos = r3.Vec{X: 30, Z: -30}
				t.Pos = r3.Vec{X: 30}
				t.FacingAngle = math.Pi / 2
			},
			crit: 0.5, wantDmg: 16,
		},
		{
			name:   "height",
			target: plainGenome(),
			setup:  func(a, t *fighter.Fighter) { a.Pos.Y = 25 },
			crit:   0.5, wantDmg: 16,
		},
		{
			name:   "momentum",
			target: plainGenome(),
			setup:  func(a, t *fighter.Fighter) { a.Vel.X = a.Body.MaxSpeed },
			crit:   0.5, wantDmg: 18,
		},
		{name: "shell", target: testGenome(traits.Mandibles, traits.Shell, traits.Ground), crit: 0.5, wantDmg: 12},
		{
			name:   "stacked",
			target: plainGenome(),
			setup: func(a, t *fighter.Fighter) {
				a.Vel.X = a.Body.MaxSpeed
				t.FacingAngle = 0
			},
			crit: 0.05, wantDmg: 35, wantCrit: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, rec := newTestSim(t, plainGenome(), tt.target)
			a, tg := face(s)
			if tt.setup != nil {
				tt.setup(a, tg)
			}
			s.rng = &seqRand{vals: []float64{noFeint, noDodge, hitD100, dodgeD100, d6, tt.crit}}
			s.events = s.events[:0]

			s.processCombat(a, tg)

			if got := tg.MaxHP - tg.HP; got != tt.wantDmg {
				t.Errorf("damage = %d, want %d", got, tt.wantDmg)
			}
			if len(rec.attacks) != 1 || rec.attacks[0] != components.AttackHit {
				t.Fatalf("outcomes = %v, want one hit", rec.attacks)
			}
			hit := s.events[0]
			if hit.Type != EventHit || hit.Damage != tt.wantDmg || hit.IsCrit != tt.wantCrit {
				t.Errorf("hit event = %+v", hit)
			}
			if tg.Animation() != components.Hit || tg.StunTimer != hitStun || !tg.KnockedBack {
				t.Errorf("target state: anim=%v stun=%d knocked=%v", tg.Animation(), tg.StunTimer, tg.KnockedBack)
			}
			if a.AttackCooldown != 35 {
				t.Errorf("cooldown = %d, want 35", a.AttackCooldown)
			}
			if a.NoEngagementTimer != 0 || tg.NoEngagementTimer != 0 {
				t.Error("engagement timers should reset")
			}
		})
	}
}

func TestProcessCombatKnockback(t *testing.T) {
	s, _ := newTestSim(t, plainGenome(), plainGenome())
	a, tg := face(s)
	s.rng = &seqRand{vals: []float64{0.9, 0.9, 0.8, 0.1, 0.5, 0.5}}

	s.processCombat(a, tg)

	// (3 + 4*0) * mandibles 1.0 / mass 1.0, plus the vertical pop
	if math.Abs(tg.Vel.X-3) > 1e-9 || math.Abs(tg.Vel.Y-2) > 1e-9 {
		t.Errorf("knockback velocity = %+v, want (3, 2, 0)", tg.Vel)
	}
	if math.Abs(a.Stamina-(a.Body.MaxStamina-8)) > 1e-9 {
		t.Errorf("stamina = %v, want weapon cost deducted", a.Stamina)
	}
}

func TestProcessCombatMiss(t *testing.T) {
	s, rec := newTestSim(t, plainGenome(), plainGenome())
	a, tg := face(s)
	a.Vel.X = a.Body.MaxSpeed / 2
	s.rng = &seqRand{vals: []float64{0.9, 0.9, 0.0, 0.99}}

	s.processCombat(a, tg)

	if tg.HP != tg.MaxHP {
		t.Errorf("miss dealt damage: hp %d/%d", tg.HP, tg.MaxHP)
	}
	if len(rec.attacks) != 1 || rec.attacks[0] != components.AttackMiss {
		t.Fatalf("outcomes = %v, want miss", rec.attacks)
	}
	// round(5 + 10*0.5)
	if a.StunTimer != 10 || a.AIState != components.Stunned {
		t.Errorf("attacker stun = %d state %v, want 10 stunned", a.StunTimer, a.AIState)
	}
}

func TestProcessCombatPhysicalDodge(t *testing.T) {
	tests := []struct {
		name     string
		instinct int
		check    func(t *testing.T, tg *fighter.Fighter)
	}{
		{"backward scatter", 50, func(t *testing.T, tg *fighter.Fighter) {
			if tg.Vel.X <= 0 {
				t.Errorf("target should scatter away, vel %+v", tg.Vel)
			}
		}},
		{"sidestep", 90, func(t *testing.T, tg *fighter.Fighter) {
			if math.Abs(tg.Vel.Z) < 1 || math.Abs(tg.Vel.X) > 1e-9 {
				t.Errorf("target should step sideways, vel %+v", tg.Vel)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := plainGenome()
			target.Instinct = tt.instinct
			s, rec := newTestSim(t, plainGenome(), target)
			a, tg := face(s)
			a.Vel.X = a.Body.MaxSpeed
			s.rng = &seqRand{vals: []float64{0.9, 0.0}}

			s.processCombat(a, tg)

			if tg.HP != tg.MaxHP {
				t.Error("dodge dealt damage")
			}
			if len(rec.attacks) != 1 || rec.attacks[0] != components.AttackDodge {
				t.Fatalf("outcomes = %v, want dodge", rec.attacks)
			}
			// round(20 * 1 * (1 - 50/200))
			if a.StunTimer != 15 {
				t.Errorf("overshoot stun = %d, want 15", a.StunTimer)
			}
			if a.AttackCooldown != 35 {
				t.Errorf("cooldown = %d, want 35", a.AttackCooldown)
			}
			tt.check(t, tg)
		})
	}
}

func TestStunnedTargetCannotDodge(t *testing.T) {
	s, rec := newTestSim(t, plainGenome(), plainGenome())
	a, tg := face(s)
	tg.Stun(5)
	// No dodge roll is drawn: feint, hit d100, dodge d100, d6, crit
	s.rng = &seqRand{vals: []float64{0.9, 0.5, 0.5, 0.5, 0.5}}

	s.processCombat(a, tg)

	if len(rec.attacks) != 1 || rec.attacks[0] != components.AttackHit {
		t.Fatalf("outcomes = %v, want hit", rec.attacks)
	}
}

func TestProcessCombatFeint(t *testing.T) {
	tests := []struct {
		name         string
		rolls        []float64
		want         components.FeintResult
		wantCooldown int
		targetStun   int
	}{
		{"read", []float64{0.0, 0.1}, components.FeintRead, 50, 0},
		{"dodge bait", []float64{0.0, 0.9, 0.1}, components.FeintDodgeBait, 8, 0},
		{"flinch", []float64{0.0, 0.9, 0.9}, components.FeintFlinch, 15, flinchStun},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, rec := newTestSim(t, plainGenome(), plainGenome())
			a, tg := face(s)
			s.rng = &seqRand{vals: tt.rolls}
			s.events = s.events[:0]

			s.processCombat(a, tg)

			if len(rec.feints) != 1 || rec.feints[0] != tt.want {
				t.Fatalf("feints = %v, want %v", rec.feints, tt.want)
			}
			if len(rec.attacks) != 0 || tg.HP != tg.MaxHP {
				t.Error("feint must not attack or deal damage")
			}
			if a.AttackCooldown != tt.wantCooldown || a.FeintCooldown != feintCooldown {
				t.Errorf("cooldowns = %d/%d, want %d/%d", a.AttackCooldown, a.FeintCooldown, tt.wantCooldown, feintCooldown)
			}
			if tg.StunTimer != tt.targetStun {
				t.Errorf("target stun = %d, want %d", tg.StunTimer, tt.targetStun)
			}
			if math.Abs(a.Stamina-(a.Body.MaxStamina-feintCost)) > 1e-9 {
				t.Errorf("stamina = %v", a.Stamina)
			}
			if s.events[0].Type != EventFeint || s.events[0].Result != tt.want {
				t.Errorf("event = %+v", s.events[0])
			}
		})
	}
}

func TestProcessCombatEligibility(t *testing.T) {
	tests := []struct {
		name  string
		setup func(a, t *fighter.Fighter)
	}{
		{"out of range", func(a, t *fighter.Fighter) { t.Pos.X = 200 }},
		{"on cooldown", func(a, t *fighter.Fighter) { a.AttackCooldown = 5 }},
		{"stunned", func(a, t *fighter.Fighter) { a.Stun(5) }},
		{"mid animation", func(a, t *fighter.Fighter) { a.SetAnim(components.Hit, 5) }},
		{"dead target", func(a, t *fighter.Fighter) { t.TakeDamage(t.HP) }},
		{"no stamina", func(a, t *fighter.Fighter) { a.Stamina = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, rec := newTestSim(t, plainGenome(), plainGenome())
			a, tg := face(s)
			tt.setup(a, tg)
			a.NoEngagementTimer = 100
			s.rng = &seqRand{vals: []float64{0.9, 0.9, 0.8, 0.1, 0.5, 0.5}}

			s.processCombat(a, tg)

			if len(rec.attacks)+len(rec.feints) != 0 {
				t.Errorf("unexpected resolution: %v %v", rec.attacks, rec.feints)
			}
			if a.NoEngagementTimer != 100 {
				t.Error("engagement should not reset without an attempt")
			}
		})
	}
}

func TestFangsPoisonAndToxicReflect(t *testing.T) {
	s, rec := newTestSim(t,
		testGenome(traits.Fangs, traits.NoDefense, traits.Ground),
		testGenome(traits.Mandibles, traits.Toxic, traits.Ground))
	a, tg := face(s)
	// feint, dodge, hit, dodge, d6, crit, poison
	s.rng = &seqRand{vals: []float64{0.9, 0.9, 0.8, 0.1, 0.5, 0.5, 0.1}}

	s.processCombat(a, tg)

	if tg.Poisoned != poisonStacks {
		t.Errorf("poison stacks = %d, want %d", tg.Poisoned, poisonStacks)
	}
	if a.MaxHP-a.HP != toxicReflect || rec.reflect != toxicReflect {
		t.Errorf("reflected = %d (observer %d), want %d", a.MaxHP-a.HP, rec.reflect, toxicReflect)
	}
}

func TestPoisonTick(t *testing.T) {
	s, rec := newTestSim(t, plainGenome(), plainGenome())
	l := s.fighters.Left
	l.Poisoned = 1
	hp := l.HP

	s.tick = 29
	s.tickPoison()
	if l.HP != hp {
		t.Fatal("poison ticked off-second")
	}

	s.tick = 30
	s.tickPoison()
	if l.HP != hp-2 || l.Poisoned != 0 {
		t.Errorf("after tick: hp %d poisoned %d, want %d and 0", l.HP, l.Poisoned, hp-2)
	}
	if rec.poison != 2 {
		t.Errorf("observer poison = %d, want 2", rec.poison)
	}

	s.tick = 60
	s.tickPoison()
	if l.HP != hp-2 {
		t.Error("poison kept ticking after the last stack")
	}
}

func TestPoisonCanKill(t *testing.T) {
	s, _ := newTestSim(t, plainGenome(), plainGenome())
	s.phase = PhaseFighting
	r := s.fighters.Right
	r.HP = 2
	r.Poisoned = 3
	s.tick = 29
	s.fighters.Left.Pos.X = -250
	r.Pos.X = 250

	s.Update()

	if r.IsAlive() {
		t.Fatal("poison should kill")
	}
	if s.phase != PhaseVictory {
		t.Fatalf("phase = %v, want victory", s.phase)
	}
	if w, ok := s.Winner(); !ok || w != WinnerLeft {
		t.Errorf("winner = %d,%v want left", w, ok)
	}
}

func TestWallImpactEvent(t *testing.T) {
	s, rec := newTestSim(t, plainGenome(), plainGenome())
	l := s.fighters.Left
	s.events = s.events[:0]

	if stun := l.ApplyWallStun(12, components.WallLeft); stun != 36 {
		t.Fatalf("ApplyWallStun = %d, want 36", stun)
	}
	if w := l.LastWallImpact(); w == nil || w.StunApplied != 36 {
		t.Fatalf("LastWallImpact = %+v", w)
	}
	s.reportWallImpacts()

	if len(rec.walls) != 1 || rec.walls[0].StunApplied != 36 {
		t.Errorf("observer walls = %+v", rec.walls)
	}
	e := s.events[0]
	if e.Type != EventWallImpact || e.StunApplied != 36 || e.WallSide != components.WallLeft || e.Name != l.Name {
		t.Errorf("event = %+v", e)
	}
	if l.LastWallImpact() != nil {
		t.Error("impact should be consumed once reported")
	}
}

func TestStalemateForcedWithinOneTick(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fighter.Fighter)
	}{
		{"circling", func(f *fighter.Fighter) { f.SetAIState(components.Circling) }},
		{"retreating", func(f *fighter.Fighter) { f.SetAIState(components.Retreating) }},
		{"stunned", func(f *fighter.Fighter) { f.Stun(20) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSim(t, plainGenome(), plainGenome())
			s.phase = PhaseFighting
			l := s.fighters.Left
			tt.setup(l)
			l.NoEngagementTimer = 500

			s.Update()

			if l.AIState != components.Aggressive {
				t.Errorf("ai state = %v, want aggressive", l.AIState)
			}
		})
	}
}

func TestResolveCollision(t *testing.T) {
	t.Run("coincident", func(t *testing.T) {
		s, _ := newTestSim(t, plainGenome(), plainGenome())
		l, r := s.fighters.Left, s.fighters.Right
		l.Pos, r.Pos = r3.Vec{}, r3.Vec{}

		s.resolveCollision()

		if l.Pos.X >= 0 || r.Pos.X <= 0 {
			t.Errorf("positions = %v %v, want pushed apart along X", l.Pos, r.Pos)
		}
		if d := r.Pos.X - l.Pos.X; math.Abs(d-35) > 1e-9 {
			t.Errorf("separation = %v, want 35", d)
		}
		if l.Vel.X >= 0 || r.Vel.X <= 0 {
			t.Errorf("bounce = %v %v", l.Vel, r.Vel)
		}
	})

	t.Run("heavier moves less", func(t *testing.T) {
		heavy := plainGenome()
		heavy.Bulk = 100
		s, _ := newTestSim(t, plainGenome(), heavy)
		l, r := s.fighters.Left, s.fighters.Right
		l.Pos, r.Pos = r3.Vec{X: -5}, r3.Vec{X: 5}

		s.resolveCollision()

		if moveL, moveR := -5-l.Pos.X, r.Pos.X-5; moveR >= moveL {
			t.Errorf("heavy moved %v, light moved %v", moveR, moveL)
		}
	})

	t.Run("wall clinger pinned", func(t *testing.T) {
		s, _ := newTestSim(t, plainGenome(), plainGenome())
		l, r := s.fighters.Left, s.fighters.Right
		l.Pos, r.Pos = r3.Vec{X: -10}, r3.Vec{X: 10}
		l.OnWall = true

		s.resolveCollision()

		if l.Pos.X != -10 {
			t.Errorf("clinging fighter moved to %v", l.Pos)
		}
		if r.Pos.X-l.Pos.X < 35-1e-9 {
			t.Errorf("still overlapping: %v %v", l.Pos, r.Pos)
		}
	})
}

func TestCountdownToFight(t *testing.T) {
	s, rec := newTestSim(t, plainGenome(), plainGenome())
	cfg := config.Cfg()

	if s.Phase() != PhaseCountdown || s.FightNumber() != 1 {
		t.Fatalf("phase %v fight %d", s.Phase(), s.FightNumber())
	}
	if st := s.GetState(); st.Countdown != int(cfg.Sim.CountdownSeconds) {
		t.Errorf("countdown = %d, want %v", st.Countdown, cfg.Sim.CountdownSeconds)
	}

	var lines []string
	for i := 0; i < cfg.Derived.CountdownTicks-1; i++ {
		s.Update()
		for _, e := range s.Events() {
			if e.Type == EventCommentary {
				lines = append(lines, e.Text)
			}
		}
	}
	if s.Phase() != PhaseCountdown {
		t.Fatal("fight started early")
	}

	secs := int(cfg.Sim.CountdownSeconds)
	if len(lines) != secs {
		t.Fatalf("countdown lines = %q, want %d", lines, secs)
	}
	for i, line := range lines {
		if want := strconv.Itoa(secs-i) + "..."; line != want {
			t.Errorf("line %d = %q, want %q", i, line, want)
		}
	}

	s.Update()
	if s.Phase() != PhaseFighting || rec.started != 1 {
		t.Errorf("phase %v started %d, want fighting", s.Phase(), rec.started)
	}
}

func TestCountdownAnnouncesFirstSecond(t *testing.T) {
	s, _ := newTestSim(t, plainGenome(), plainGenome())

	s.Update()

	evs := s.Events()
	if len(evs) != 1 || evs[0].Type != EventCommentary {
		t.Fatalf("events = %+v, want one commentary line", evs)
	}
	if want := strconv.Itoa(int(config.Cfg().Sim.CountdownSeconds)) + "..."; evs[0].Text != want {
		t.Errorf("first line = %q, want %q", evs[0].Text, want)
	}
}

// runToVictory updates s until the fight ends or limit ticks pass, checking
// fighter bounds on every tick.
func runToVictory(t *testing.T, s *Simulation, limit int) {
	t.Helper()
	for i := 0; i < limit && s.Phase() != PhaseVictory; i++ {
		s.Update()
		for _, f := range []*fighter.Fighter{s.fighters.Left, s.fighters.Right} {
			if f.HP < 0 || f.HP > f.MaxHP {
				t.Fatalf("tick %d: hp out of range: %d/%d", s.Tick(), f.HP, f.MaxHP)
			}
			if math.IsNaN(f.Pos.X) || math.IsNaN(f.Pos.Y) || math.IsNaN(f.Pos.Z) {
				t.Fatalf("tick %d: NaN position", s.Tick())
			}
		}
	}
	if s.Phase() != PhaseVictory {
		t.Fatalf("fight did not finish within %d ticks", limit)
	}
}

func TestFightsTerminate(t *testing.T) {
	if testing.Short() {
		t.Skip("plays full fights")
	}

	// Ten minutes of sim time
	const limit = 30 * 60 * 10
	mobilities := []traits.Mobility{traits.Ground, traits.Winged, traits.Wallcrawler}
	seeds := []uint64{1, 2, 3}

	for _, lm := range mobilities {
		for _, rm := range mobilities {
			for _, seed := range seeds {
				for _, noStuck := range []bool{false, true} {
					name := fmt.Sprintf("%s vs %s seed %d stuck detector %v", lm, rm, seed, !noStuck)
					t.Run(name, func(t *testing.T) {
						a := testGenome(traits.Mandibles, traits.NoDefense, lm)
						b := testGenome(traits.Horn, traits.NoDefense, rm)
						b.Speed = 70
						s, err := New(config.Cfg(), newFakeRoster(a, b), Options{Seed: seed, DisableStuckDetector: noStuck})
						if err != nil {
							t.Fatalf("New: %v", err)
						}

						runToVictory(t, s, limit)

						if _, ok := s.Winner(); !ok {
							t.Fatal("victory without a decided result")
						}
					})
				}
			}
		}
	}
}

func TestFightResultIsRecorded(t *testing.T) {
	a := testGenome(traits.Mandibles, traits.NoDefense, traits.Ground)
	b := testGenome(traits.Horn, traits.NoDefense, traits.Ground)
	b.Speed = 70
	fr := newFakeRoster(a, b)
	rec := &recorder{}
	s, err := New(config.Cfg(), fr, Options{Seed: 1, Observer: rec})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	runToVictory(t, s, 30*60*10)

	w, ok := s.Winner()
	if !ok || (w != WinnerLeft && w != WinnerRight) {
		t.Fatalf("winner = %d,%v, want one side", w, ok)
	}
	winner, loser := "a", "b"
	if w == WinnerRight {
		winner, loser = "b", "a"
	}
	if fr.wins[winner] != 1 || fr.losses[loser] != 1 {
		t.Errorf("roster wins %v losses %v", fr.wins, fr.losses)
	}
	if len(rec.finished) != 1 || rec.finished[0].Winner != w {
		t.Errorf("observer results = %+v", rec.finished)
	}

	st := s.GetState()
	if st.Winner == nil || *st.Winner != w {
		t.Errorf("state winner = %v", st.Winner)
	}
	if st.BugRecords[w-1].Wins != 1 {
		t.Errorf("local records = %+v", st.BugRecords)
	}

	// The display window runs out and the next fight begins
	for i := 0; i < config.Cfg().Derived.VictoryTicks; i++ {
		s.Update()
	}
	if s.Phase() != PhaseCountdown || s.FightNumber() != 2 {
		t.Errorf("after victory: phase %v fight %d", s.Phase(), s.FightNumber())
	}
	if _, ok := s.Winner(); ok {
		t.Error("winner should clear for the next fight")
	}
}

func TestPerfTotalsEachFight(t *testing.T) {
	var now time.Time
	clock := func() time.Time {
		now = now.Add(time.Microsecond)
		return now
	}
	perf := telemetry.NewPerfCollector(30, clock)
	var fights []telemetry.FightPerf
	perf.OnFight(func(fp telemetry.FightPerf) { fights = append(fights, fp) })

	a := testGenome(traits.Mandibles, traits.NoDefense, traits.Ground)
	b := testGenome(traits.Horn, traits.NoDefense, traits.Ground)
	b.Speed = 70
	s, err := New(config.Cfg(), newFakeRoster(a, b), Options{Seed: 1, Perf: perf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	runToVictory(t, s, 30*60*10)

	if len(fights) != 1 {
		t.Fatalf("fight totals delivered = %d, want 1", len(fights))
	}
	fp := fights[0]
	if want := s.Tick() - s.fightStart + 1; fp.Fight != 1 || fp.Ticks != want {
		t.Errorf("fight %d ticks %d, want 1 and %d", fp.Fight, fp.Ticks, want)
	}
	for _, ph := range []telemetry.Phase{telemetry.PhaseAI, telemetry.PhasePhysics, telemetry.PhaseCombat, telemetry.PhasePoison, telemetry.PhaseLifecycle} {
		if fp.Phases[ph] <= 0 {
			t.Errorf("%s never timed", ph)
		}
	}
	if st := perf.Stats(); st.AvgTick <= 0 {
		t.Errorf("window stats = %+v", st)
	}
}

func TestHPNeverRecovers(t *testing.T) {
	s, _ := newTestSim(t, plainGenome(), plainGenome())
	s.phase = PhaseFighting
	l := s.fighters.Left
	l.TakeDamage(l.HP)

	for i := 0; i < 60; i++ {
		s.Update()
		if l.HP != 0 || l.IsAlive() {
			t.Fatalf("dead fighter revived at tick %d", i)
		}
	}
}

func TestDoubleKnockout(t *testing.T) {
	s, rec := newTestSim(t, plainGenome(), plainGenome())
	fr := s.roster.(*fakeRoster)
	s.phase = PhaseFighting
	s.fighters.Left.TakeDamage(1000)
	s.fighters.Right.TakeDamage(1000)

	s.Update()

	if w, ok := s.Winner(); !ok || w != WinnerDraw {
		t.Fatalf("winner = %d,%v want draw", w, ok)
	}
	if len(fr.wins)+len(fr.losses) != 0 {
		t.Error("draws must not be recorded")
	}
	if len(rec.finished) != 1 {
		t.Error("observer should see the draw")
	}
}

func TestRosterFailuresAreNotFatal(t *testing.T) {
	s, _ := newTestSim(t, plainGenome(), plainGenome())
	fr := s.roster.(*fakeRoster)
	fr.recordErr = errors.New("disk full")
	s.phase = PhaseFighting
	s.fighters.Right.TakeDamage(1000)

	s.Update()

	if s.Phase() != PhaseVictory {
		t.Fatalf("phase = %v", s.Phase())
	}
	if rec := s.GetState().BugRecords; rec[0].Wins != 1 || rec[1].Losses != 1 {
		t.Errorf("local records = %+v", rec)
	}
}

func TestSetupFailureRetries(t *testing.T) {
	fr := newFakeRoster(plainGenome(), plainGenome())
	fr.selectErr = roster.ErrNotEnoughBugs
	if _, err := New(config.Cfg(), fr, Options{}); !errors.Is(err, roster.ErrNotEnoughBugs) {
		t.Fatalf("New err = %v, want ErrNotEnoughBugs", err)
	}

	fr.selectErr = nil
	s, err := New(config.Cfg(), fr, Options{Seed: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.phase = PhaseFighting
	s.fighters.Right.TakeDamage(1000)
	s.Update()

	fr.selectErr = roster.ErrNotEnoughBugs
	for i := 0; i < config.Cfg().Derived.VictoryTicks+5; i++ {
		s.Update()
	}
	if s.Phase() != PhaseVictory || s.FightNumber() != 1 {
		t.Fatalf("phase %v fight %d, want stuck in victory", s.Phase(), s.FightNumber())
	}

	fr.selectErr = nil
	s.Update()
	if s.Phase() != PhaseCountdown || s.FightNumber() != 2 {
		t.Errorf("phase %v fight %d, want next countdown", s.Phase(), s.FightNumber())
	}
}

func TestEventsAreNotCumulative(t *testing.T) {
	s, _ := newTestSim(t, plainGenome(), plainGenome())
	if len(s.Events()) == 0 {
		t.Fatal("setup should announce the fight")
	}
	s.Update()
	for _, e := range s.Events() {
		if e.Type == EventCommentary && strings.HasPrefix(e.Text, "Fight #") {
			t.Error("previous tick's events leaked")
		}
	}
}

func TestGetStateJSON(t *testing.T) {
	s, _ := newTestSim(t, plainGenome(), testGenome(traits.Horn, traits.Shell, traits.Winged))

	st := s.GetState()
	st.Fighters[0].HP = -1
	if s.fighters.Left.HP < 0 {
		t.Fatal("state aliases the live fighter")
	}

	data, err := json.Marshal(s.GetState())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, key := range []string{"phase", "countdown", "tick", "fightNumber", "fighters", "bugs", "bugNames", "bugRecords", "odds", "events", "winner"} {
		if _, ok := out[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if out["phase"] != "countdown" || out["winner"] != nil {
		t.Errorf("phase %v winner %v", out["phase"], out["winner"])
	}
	if fs := out["fighters"].([]any); len(fs) != 2 {
		t.Errorf("fighters = %d", len(fs))
	}
	if len(s.GetRoster()) != 2 {
		t.Error("GetRoster should expose the roster")
	}
}

func TestEventJSON(t *testing.T) {
	draw := 0
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{"commentary", Event{Type: EventCommentary, Text: "hi", Color: "#fff"}, `{"type":"commentary","text":"hi","color":"#fff"}`},
		{"hit", Event{Type: EventHit, X: 1, Y: 2, Damage: 5, Attacker: "a", Target: "b"}, `{"type":"hit","x":1,"y":2,"damage":5,"attacker":"a","target":"b"}`},
		{"crit", Event{Type: EventHit, Damage: 9, IsCrit: true, Attacker: "a", Target: "b"}, `{"type":"hit","x":0,"y":0,"damage":9,"isCrit":true,"attacker":"a","target":"b"}`},
		{"feint", Event{Type: EventFeint, Attacker: "a", Target: "b", Result: components.FeintDodgeBait}, `{"type":"feint","x":0,"y":0,"attacker":"a","target":"b","result":"dodge-bait"}`},
		{"wall", Event{Type: EventWallImpact, Name: "a", Velocity: 12, WallSide: components.WallLeft, StunApplied: 36}, `{"type":"wallImpact","x":0,"y":0,"name":"a","velocity":12,"wallSide":"left","stunApplied":36}`},
		{"draw", Event{Type: EventFightEnd, Winner: &draw}, `{"type":"fightEnd","winner":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.event)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("got %s\nwant %s", data, tt.want)
			}
		})
	}

	if _, err := json.Marshal(Event{Type: "bogus"}); err == nil {
		t.Error("expected error for unknown event type")
	}
}

func TestOdds(t *testing.T) {
	c := config.Cfg().Odds

	t.Run("power rating", func(t *testing.T) {
		g := testGenome(traits.Horn, traits.Shell, traits.Winged)
		if r := PowerRating(g, c); r != 200+c.Horn+c.Shell+c.Winged {
			t.Errorf("rating = %v", r)
		}
	})

	t.Run("even match", func(t *testing.T) {
		o := ComputeOdds(plainGenome(), plainGenome(), c)
		if math.Abs(o.Left.WinProbability-0.5) > 1e-9 || math.Abs(o.Left.Implied-0.525) > 1e-9 {
			t.Errorf("left = %+v", o.Left)
		}
		if math.Abs(o.Left.Decimal-1/0.525) > 1e-9 || o.Left.American != -111 {
			t.Errorf("left = %+v", o.Left)
		}
		if o.Left != o.Right {
			t.Errorf("sides differ: %+v", o)
		}
	})

	t.Run("favorite", func(t *testing.T) {
		strong := plainGenome()
		strong.Bulk, strong.Fury = 100, 100
		o := ComputeOdds(strong, plainGenome(), c)
		if math.Abs(o.Left.WinProbability+o.Right.WinProbability-1) > 1e-9 {
			t.Error("fair probabilities should sum to 1")
		}
		if o.Left.American >= 0 || o.Right.American <= 0 {
			t.Errorf("american = %d / %d", o.Left.American, o.Right.American)
		}
		if math.Abs(o.Left.Implied+o.Right.Implied-1-c.HouseEdge) > 1e-9 {
			t.Error("implied probabilities should carry the house edge")
		}
	})

	amer := []struct {
		p    float64
		want int
	}{
		{0.5, -100},
		{0.8, -400},
		{0.25, 300},
		{0.4, 150},
	}
	for _, tt := range amer {
		if got := AmericanOdds(tt.p); got != tt.want {
			t.Errorf("AmericanOdds(%v) = %d, want %d", tt.p, got, tt.want)
		}
	}
}

func TestPickLine(t *testing.T) {
	s, _ := newTestSim(t, plainGenome(), plainGenome())
	s.rng = rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		line := s.pickLine(koLines, "Alpha", "Bravo")
		if strings.Contains(line, "{") || !strings.Contains(line, "Alpha") {
			t.Fatalf("bad line %q", line)
		}
	}
	s.rng = &seqRand{vals: []float64{0.999999}}
	if line := s.pickLine(hitLines, "a", "b"); line == "" {
		t.Error("top of range should still pick a line")
	}
}
