package fighter

import (
	"github.com/pthm-cable/bugfights/components"
)

// UpdateState advances timers, animation relaxation, and stamina regeneration.
// It runs first in each tick, before physics.
func (f *Fighter) UpdateState() {
	dec := func(v *int) {
		if *v > 0 {
			*v--
		}
	}

	f.StateTimer++
	dec(&f.AttackCooldown)
	dec(&f.FeintCooldown)
	dec(&f.FlashTimer)
	dec(&f.WallStunTimer)

	if f.StunTimer > 0 {
		f.StunTimer--
		if f.StunTimer == 0 && f.IsAlive() {
			f.AIState = components.Aggressive
			f.StateTimer = 0
		}
	}

	if f.KnockbackTimer > 0 {
		f.KnockbackTimer--
		if f.KnockbackTimer == 0 {
			f.KnockedBack = false
		}
	}

	switch f.Anim {
	case components.Death:
		f.DeathTimer++
	case components.Victory:
		f.VictoryTimer++
	default:
		if f.AnimTimer > 0 {
			f.AnimTimer--
			if f.AnimTimer == 0 {
				f.Anim = components.Idle
			}
		}
	}

	// Squash and lunge relax toward rest
	f.SquashX += (1 - f.SquashX) * 0.2
	f.SquashY += (1 - f.SquashY) * 0.2
	f.LungeX *= 0.8
	f.LungeY *= 0.8

	if !f.IsAlive() {
		return
	}

	f.NoEngagementTimer++
	f.regenStamina()
}

// regenStamina restores stamina while the fighter is on the ground.
// Flight and wall clinging drain stamina instead; see the locomotion upkeep.
func (f *Fighter) regenStamina() {
	if !f.Flying && !f.OnWall {
		regen := staminaRegenBase + float64(f.Genome.Speed)*staminaRegenPerSpeed
		if f.AIState == components.Aggressive {
			regen *= 0.5
		}
		f.Stamina += regen
	}
	f.Stamina = clamp(f.Stamina, 0, f.Body.MaxStamina)

	if f.Exhausted && f.Stamina > f.Body.MaxStamina*recoveredFraction {
		f.Exhausted = false
	}
}

// Spend deducts stamina, reporting false without change if there is not enough.
func (f *Fighter) Spend(cost float64) bool {
	if f.Stamina < cost {
		return false
	}
	f.Stamina -= cost
	return true
}
