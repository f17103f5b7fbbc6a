// Package game runs the fight loop: match phases, the per-tick cascade over
// both fighters, combat resolution, and betting odds.
package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/pthm-cable/bugfights/components"
	"github.com/pthm-cable/bugfights/config"
	"github.com/pthm-cable/bugfights/fighter"
	"github.com/pthm-cable/bugfights/roster"
	"github.com/pthm-cable/bugfights/telemetry"
)

// Phase is the match orchestration state.
type Phase uint8

const (
	PhaseCountdown Phase = iota
	PhaseFighting
	PhaseVictory
)

var phaseNames = []string{"countdown", "fighting", "victory"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Winner values reported at the end of a fight.
const (
	WinnerDraw  = 0
	WinnerLeft  = 1
	WinnerRight = 2
)

// Roster is the collaborator that supplies fighters and records results.
// Recording must not block; failures are logged, never fatal.
type Roster interface {
	SelectFighters() (roster.Entry, roster.Entry, error)
	RecordWin(id string) error
	RecordLoss(id string) error
	Entries() []roster.Entry
}

// Pair is the two fighters of the current match.
type Pair struct {
	Left  *fighter.Fighter
	Right *fighter.Fighter
}

// Get returns the fighter on the given side.
func (p Pair) Get(s components.Side) *fighter.Fighter {
	if s == components.Left {
		return p.Left
	}
	return p.Right
}

// Options configures a Simulation.
type Options struct {
	// Seed seeds the internal random source. Zero picks a random seed.
	Seed uint64
	// Rand replaces the internal random source entirely.
	Rand fighter.Rand
	// Observer receives fight events; nil disables it.
	Observer Observer
	// Perf times the phases of each tick and totals each fight; nil disables it.
	Perf *telemetry.PerfCollector
	// DisableStuckDetector turns off the anti-softlock burst.
	DisableStuckDetector bool
}

// Simulation sequences fights forever: countdown, fighting, victory, repeat.
// It is not safe for concurrent use; exactly one Update runs at a time and
// GetState is called between updates.
type Simulation struct {
	cfg      *config.Config
	arena    fighter.Arena
	roster   Roster
	rng      fighter.Rand
	observer Observer
	perf     *telemetry.PerfCollector

	stuckDetector bool

	phase          Phase
	tick           int
	fightNumber    int
	countdownTicks int
	victoryTimer   int
	winner         int
	hasWinner      bool
	fightStart     int

	fighters Pair
	bugs     [2]roster.Entry // Indexed by components.Side
	odds     Odds

	events []Event
}

// New creates a simulation and sets up its first fight.
func New(cfg *config.Config, r Roster, opts Options) (*Simulation, error) {
	rng := opts.Rand
	if rng == nil {
		seed := opts.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	obs := opts.Observer
	if obs == nil {
		obs = nopObserver{}
	}

	s := &Simulation{
		cfg:           cfg,
		arena:         fighter.ArenaFromConfig(cfg.Arena),
		roster:        r,
		rng:           rng,
		observer:      obs,
		perf:          opts.Perf,
		stuckDetector: !opts.DisableStuckDetector,
	}
	if err := s.setupFight(); err != nil {
		return nil, fmt.Errorf("setting up first fight: %w", err)
	}
	return s, nil
}

// Update advances the simulation by one tick. Events from the previous tick
// are discarded.
func (s *Simulation) Update() {
	s.events = s.events[:0]
	s.tick++

	s.perf.StartTick()
	switch s.phase {
	case PhaseCountdown:
		s.updateCountdown()
	case PhaseFighting:
		s.updateFighting()
	case PhaseVictory:
		s.updateVictory()
	}
	s.perf.EndTick()
}

// Phase returns the current phase.
func (s *Simulation) Phase() Phase { return s.phase }

// Tick returns the number of updates run so far.
func (s *Simulation) Tick() int { return s.tick }

// FightNumber returns the number of the current fight, starting at 1.
func (s *Simulation) FightNumber() int { return s.fightNumber }

// Fighters returns the live fighter pair.
func (s *Simulation) Fighters() Pair { return s.fighters }

// Winner returns the last fight's winner and whether one has been decided.
func (s *Simulation) Winner() (int, bool) { return s.winner, s.hasWinner }

// Odds returns the current fight's odds.
func (s *Simulation) Odds() Odds { return s.odds }

// Events returns this tick's events. The slice is reused by the next Update.
func (s *Simulation) Events() []Event { return s.events }
