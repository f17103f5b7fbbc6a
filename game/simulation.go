package game

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/bugfights/fighter"
	"github.com/pthm-cable/bugfights/telemetry"
)

// Collision and poison constants
const (
	collisionBounce = 0.5 // Outward speed added to each fighter on overlap
	poisonDamage    = 2
)

// updateFighting runs one tick of the fight cascade.
func (s *Simulation) updateFighting() {
	l, r := s.fighters.Left, s.fighters.Right

	s.perf.StartPhase(telemetry.PhasePhysics)
	l.UpdateState()
	r.UpdateState()
	l.UpdatePhysics()
	r.UpdatePhysics()
	s.reportWallImpacts()
	s.resolveCollision()

	s.perf.StartPhase(telemetry.PhaseAI)
	l.UpdateDrives()
	r.UpdateDrives()
	l.UpdateAI(r, s.rng)
	r.UpdateAI(l, s.rng)

	// Alternate who swings first so neither side wins every simultaneous exchange
	s.perf.StartPhase(telemetry.PhaseCombat)
	if s.tick%2 == 0 {
		s.processCombat(l, r)
		s.processCombat(r, l)
	} else {
		s.processCombat(r, l)
		s.processCombat(l, r)
	}

	s.perf.StartPhase(telemetry.PhasePoison)
	s.tickPoison()

	s.perf.StartPhase(telemetry.PhaseLifecycle)
	s.checkFightEnd()
}

// reportWallImpacts turns wall slams recorded during physics into events.
func (s *Simulation) reportWallImpacts() {
	for _, f := range []*fighter.Fighter{s.fighters.Left, s.fighters.Right} {
		w := f.TakeWallImpact()
		if w == nil {
			continue
		}
		s.emit(Event{
			Type:        EventWallImpact,
			X:           w.X,
			Y:           w.Y,
			Name:        w.Name,
			Velocity:    w.Velocity,
			WallSide:    w.WallSide,
			StunApplied: w.StunApplied,
		})
		s.observer.WallImpact(f.Side, *w)
		s.commentary(s.pickLine(wallLines, w.Name, ""), colorWall)
	}
}

// resolveCollision pushes overlapping fighters apart in the XZ plane, split by
// inverse mass. A fighter clinging to a wall does not move.
func (s *Simulation) resolveCollision() {
	a, b := s.fighters.Left, s.fighters.Right

	minDist := (a.Size() + b.Size()) / 2
	dx := b.Pos.X - a.Pos.X
	dz := b.Pos.Z - a.Pos.Z
	dist := math.Hypot(dx, dz)
	if dist >= minDist {
		return
	}

	// Coincident centers: push left fighter toward -X, right toward +X
	n := r3.Vec{X: 1}
	if dist > 1e-6 {
		n = r3.Vec{X: dx / dist, Z: dz / dist}
	}

	ia, ib := 1/a.Body.Mass, 1/b.Body.Mass
	if a.OnWall {
		ia = 0
	}
	if b.OnWall {
		ib = 0
	}
	total := ia + ib
	if total == 0 {
		return
	}

	overlap := minDist - dist
	a.Displace(r3.Scale(-overlap*ia/total, n))
	b.Displace(r3.Scale(overlap*ib/total, n))

	if ia > 0 {
		a.Nudge(r3.Scale(-collisionBounce, n))
	}
	if ib > 0 {
		b.Nudge(r3.Scale(collisionBounce, n))
	}
}

// tickPoison applies one stack of poison per second of sim time.
func (s *Simulation) tickPoison() {
	if s.tick%s.cfg.Sim.TickRate != 0 {
		return
	}
	for _, f := range []*fighter.Fighter{s.fighters.Left, s.fighters.Right} {
		if f.Poisoned <= 0 || !f.IsAlive() {
			continue
		}
		f.Poisoned--
		killed := f.TakeDamage(poisonDamage)
		s.emit(Event{
			Type:     EventHit,
			X:        f.Pos.X,
			Y:        f.Pos.Y,
			Damage:   poisonDamage,
			IsPoison: true,
			Attacker: s.fighters.Get(f.Side.Opposite()).Name,
			Target:   f.Name,
		})
		s.observer.PoisonTicked(f.Side, poisonDamage)
		if killed {
			s.commentary(s.pickLine(poisonKOLines, f.Name, ""), colorPoison)
		}
	}
}
