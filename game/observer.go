package game

import (
	"github.com/pthm-cable/bugfights/components"
	"github.com/pthm-cable/bugfights/telemetry"
)

// Observer receives fight events as they happen. It is reset by FightStarted
// at the start of every fight. telemetry.Collector implements it.
type Observer interface {
	FightStarted(telemetry.FightInfo)
	AttackResolved(attacker components.Side, outcome components.AttackOutcome, damage int, crit bool)
	FeintResolved(attacker components.Side, result components.FeintResult)
	PoisonTicked(target components.Side, damage int)
	DamageReflected(target components.Side, damage int)
	WallImpact(side components.Side, impact components.WallImpact)
	FightEnded(telemetry.FightResult)
}

type nopObserver struct{}

func (nopObserver) FightStarted(telemetry.FightInfo)                                    {}
func (nopObserver) AttackResolved(components.Side, components.AttackOutcome, int, bool) {}
func (nopObserver) FeintResolved(components.Side, components.FeintResult)               {}
func (nopObserver) PoisonTicked(components.Side, int)                                   {}
func (nopObserver) DamageReflected(components.Side, int)                                {}
func (nopObserver) WallImpact(components.Side, components.WallImpact)                   {}
func (nopObserver) FightEnded(telemetry.FightResult)                                    {}

var _ Observer = (*telemetry.Collector)(nil)
