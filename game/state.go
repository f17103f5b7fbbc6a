package game

import (
	"github.com/pthm-cable/bugfights/fighter"
	"github.com/pthm-cable/bugfights/genome"
	"github.com/pthm-cable/bugfights/roster"
)

// Record is a bug's win/loss tally.
type Record struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// State is the full per-tick snapshot handed to renderers and transports.
// Slices are indexed left, right.
type State struct {
	Phase       Phase              `json:"phase"`
	Countdown   int                `json:"countdown"` // Whole seconds remaining
	Tick        int                `json:"tick"`
	FightNumber int                `json:"fightNumber"`
	Fighters    []fighter.Snapshot `json:"fighters"`
	Bugs        []genome.Genome    `json:"bugs"`
	BugNames    []string           `json:"bugNames"`
	BugRecords  []Record           `json:"bugRecords"`
	Odds        Odds               `json:"odds"`
	Events      []Event            `json:"events"`
	Winner      *int               `json:"winner"` // Nil until the fight is decided
}

// GetState returns a snapshot of the simulation. It does not mutate state
// and shares no memory with it.
func (s *Simulation) GetState() State {
	rate := s.cfg.Sim.TickRate
	st := State{
		Phase:       s.phase,
		Countdown:   (s.countdownTicks + rate - 1) / rate,
		Tick:        s.tick,
		FightNumber: s.fightNumber,
		Fighters:    []fighter.Snapshot{s.fighters.Left.Snapshot(), s.fighters.Right.Snapshot()},
		Bugs:        []genome.Genome{s.bugs[0].Genome, s.bugs[1].Genome},
		BugNames:    []string{s.bugs[0].Name, s.bugs[1].Name},
		BugRecords: []Record{
			{Wins: s.bugs[0].Wins, Losses: s.bugs[0].Losses},
			{Wins: s.bugs[1].Wins, Losses: s.bugs[1].Losses},
		},
		Odds:   s.odds,
		Events: make([]Event, len(s.events)),
	}
	copy(st.Events, s.events)
	if s.hasWinner {
		w := s.winner
		st.Winner = &w
	}
	return st
}

// GetRoster returns the full roster for out-of-band display.
func (s *Simulation) GetRoster() []roster.Entry {
	return s.roster.Entries()
}
