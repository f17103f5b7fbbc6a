package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/bugfights/components"
	"github.com/pthm-cable/bugfights/fighter"
	"github.com/pthm-cable/bugfights/roster"
	"github.com/pthm-cable/bugfights/telemetry"
)

// setupFight picks the next pair from the roster and enters the countdown.
// On error the previous fight's state is left untouched.
func (s *Simulation) setupFight() error {
	a, b, err := s.roster.SelectFighters()
	if err != nil {
		return fmt.Errorf("selecting fighters: %w", err)
	}
	if a.ID == b.ID {
		return fmt.Errorf("roster returned the same bug %s twice", a.ID)
	}

	left := fighter.New(a.Genome, components.Left, a.Name, s.arena)
	right := fighter.New(b.Genome, components.Right, b.Name, s.arena)
	left.StuckDetector = s.stuckDetector
	right.StuckDetector = s.stuckDetector

	s.fighters = Pair{Left: left, Right: right}
	s.bugs = [2]roster.Entry{a, b}
	s.odds = ComputeOdds(a.Genome, b.Genome, s.cfg.Odds)

	s.fightNumber++
	s.phase = PhaseCountdown
	s.countdownTicks = s.cfg.Derived.CountdownTicks
	s.victoryTimer = 0
	s.winner = WinnerDraw
	s.hasWinner = false

	slog.Info("fight scheduled",
		"fight", s.fightNumber,
		"left", a.Name,
		"right", b.Name,
		"left_win_prob", s.odds.Left.WinProbability,
	)
	s.commentary(fmt.Sprintf("Fight #%d: %s vs %s!", s.fightNumber, a.Name, b.Name), colorAnnounce)
	return nil
}

// updateCountdown announces each remaining second, then starts the fight.
func (s *Simulation) updateCountdown() {
	s.perf.StartPhase(telemetry.PhaseLifecycle)
	if rate := s.cfg.Sim.TickRate; s.countdownTicks > 0 && s.countdownTicks%rate == 0 {
		s.commentary(fmt.Sprintf("%d...", s.countdownTicks/rate), colorCountdown)
	}
	s.countdownTicks--
	if s.countdownTicks <= 0 {
		s.startFight()
	}
}

func (s *Simulation) startFight() {
	s.countdownTicks = 0
	s.phase = PhaseFighting
	s.fightStart = s.tick
	s.perf.BeginFight(s.fightNumber)
	s.commentary("FIGHT!", colorAnnounce)
	s.observer.FightStarted(telemetry.FightInfo{
		Fight:       s.fightNumber,
		StartTick:   s.tick,
		Left:        s.fighters.Left.Name,
		Right:       s.fighters.Right.Name,
		LeftWinProb: s.odds.Left.WinProbability,
	})
}

// checkFightEnd ends the fight once either fighter is dead.
func (s *Simulation) checkFightEnd() {
	l, r := s.fighters.Left, s.fighters.Right
	switch {
	case !l.IsAlive() && !r.IsAlive():
		s.endFight(WinnerDraw)
	case !r.IsAlive():
		s.endFight(WinnerLeft)
	case !l.IsAlive():
		s.endFight(WinnerRight)
	}
}

// endFight records the result and enters the victory display. Roster
// failures are logged; the local records already reflect the outcome.
func (s *Simulation) endFight(winner int) {
	s.phase = PhaseVictory
	s.victoryTimer = s.cfg.Derived.VictoryTicks
	s.winner = winner
	s.hasWinner = true
	s.perf.EndFight()

	if winner != WinnerDraw {
		ws := components.Side(winner - 1)
		w, l := &s.bugs[ws], &s.bugs[ws.Opposite()]
		w.Wins++
		l.Losses++
		if err := s.roster.RecordWin(w.ID); err != nil {
			slog.Warn("failed to record win", "fight", s.fightNumber, "id", w.ID, "error", err)
		}
		if err := s.roster.RecordLoss(l.ID); err != nil {
			slog.Warn("failed to record loss", "fight", s.fightNumber, "id", l.ID, "error", err)
		}
		s.fighters.Get(ws).Celebrate()
		s.commentary(s.pickLine(koLines, w.Name, l.Name), colorKO)
	} else {
		s.commentary("DOUBLE KNOCKOUT! Nobody walks away from this one.", colorKO)
	}

	w := winner
	s.emit(Event{Type: EventFightEnd, Winner: &w})

	l, r := s.fighters.Left, s.fighters.Right
	slog.Info("fight ended",
		"fight", s.fightNumber,
		"winner", winner,
		"ticks", s.tick-s.fightStart,
		"left_hp", l.HP,
		"right_hp", r.HP,
	)
	s.observer.FightEnded(telemetry.FightResult{
		EndTick:    s.tick,
		Winner:     winner,
		LeftHP:     l.HP,
		RightHP:    r.HP,
		LeftMaxHP:  l.MaxHP,
		RightMaxHP: r.MaxHP,
	})
}

// updateVictory keeps the bodies moving during the display window, then sets
// up the next fight. A failed setup is retried on the next tick.
func (s *Simulation) updateVictory() {
	s.perf.StartPhase(telemetry.PhasePhysics)
	for _, f := range []*fighter.Fighter{s.fighters.Left, s.fighters.Right} {
		f.UpdateState()
		f.UpdatePhysics()
		f.TakeWallImpact()
	}

	s.perf.StartPhase(telemetry.PhaseLifecycle)
	if s.victoryTimer > 0 {
		s.victoryTimer--
	}
	if s.victoryTimer > 0 {
		return
	}
	if err := s.setupFight(); err != nil {
		slog.Error("failed to set up next fight", "fight", s.fightNumber+1, "error", err)
	}
}
