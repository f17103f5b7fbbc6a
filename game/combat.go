package game

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/bugfights/components"
	"github.com/pthm-cable/bugfights/fighter"
	"github.com/pthm-cable/bugfights/traits"
)

// Feint constants
const (
	feintCost           = 3.0
	feintCooldown       = 60
	feintBaseChance     = 0.08
	feintCautionWeight  = 0.1
	feintReadPenalty    = 15 // Added to the base cooldown when a feint is read
	feintBaitCooldown   = 8
	feintFlinchCooldown = 15
	flinchStun          = 12
)

// Attack constants
const (
	maxDodgeChance   = 0.6
	smartDodgeInst   = 60 // Instinct needed to dodge sideways instead of backward
	overshootStun    = 20.0
	missStunBase     = 5.0
	missStunMomentum = 10.0
	hitStun          = 8

	momentumBonus = 0.35
	diveBonus     = 1.3
	heightBonus   = 1.15
	heightMin     = 20.0
	flankXBonus   = 1.25
	flankZBonus   = 1.15
	flankMinAxis  = 0.3
	critBonus     = 1.5

	knockbackBase     = 3.0
	knockbackMomentum = 4.0
	knockbackLift     = 2.0
	shellKnockback    = 0.6
	movingVulnerable  = 1.2

	poisonChance   = 0.3
	poisonStacks   = 3
	poisonMaxStack = 9
	toxicReflect   = 2

	attackAnimTicks = 10
	feintAnimTicks  = 8
	hitAnimTicks    = 10
)

// baseCooldown is the attack cooldown after any attack or feint resolution.
func baseCooldown(f *fighter.Fighter) int {
	return int(20 + 1500/float64(f.Genome.Speed+50))
}

// processCombat lets attacker a try a feint or an attack on target t.
func (s *Simulation) processCombat(a, t *fighter.Fighter) {
	if !a.CanAct() || !t.IsAlive() {
		return
	}
	if r3.Norm(r3.Sub(t.Pos, a.Pos)) > a.AttackRange(t) {
		return
	}

	feintChance := feintBaseChance + float64(a.Genome.Instinct)/500 + feintCautionWeight*a.Drives.Caution
	if a.FeintCooldown == 0 && a.Stamina >= feintCost && fighter.Chance(s.rng, feintChance) {
		a.ResetEngagement()
		t.ResetEngagement()
		s.executeFeint(a, t)
		return
	}

	if !a.Spend(traits.WeaponStaminaCost(a.Genome.Weapon)) {
		return
	}
	a.ResetEngagement()
	t.ResetEngagement()

	m := a.Momentum()
	lunge := 8 + 12*m
	a.SetAnim(components.Attack, attackAnimTicks)
	a.LungeX = math.Cos(a.FacingAngle) * lunge
	a.LungeY = math.Sin(a.FacingAngle) * lunge
	a.AttackCooldown = baseCooldown(a)

	// Physical dodge first; a stunned target cannot move out of the way
	if !t.IsStunned() {
		chance := float64(t.Genome.Instinct) / 200 * (1 - 0.5*m)
		if t.Flying {
			chance += 0.1
		}
		if t.Genome.Defense == traits.Camouflage {
			chance += 0.1
		}
		if fighter.Chance(s.rng, math.Min(chance, maxDodgeChance)) {
			s.physicalDodge(a, t, m)
			return
		}
	}

	// Fallback contest
	hitRoll := float64(fighter.Roll(s.rng, 100) + a.Genome.Speed)
	dodgeRoll := float64(fighter.Roll(s.rng, 100)) + float64(t.Genome.Instinct)*0.5
	if t.Flying {
		dodgeRoll += 10
	}
	if t.IsStunned() {
		dodgeRoll -= 30
	}
	if hitRoll <= dodgeRoll {
		a.Stun(int(math.Round(missStunBase + missStunMomentum*m)))
		s.observer.AttackResolved(a.Side, components.AttackMiss, 0, false)
		s.commentary(s.pickLine(missLines, a.Name, t.Name), colorMiss)
		return
	}

	damage, crit := s.rollDamage(a, t, m)
	s.applyHit(a, t, m, damage, crit)
}

// rollDamage computes hit damage. Multipliers stack in a fixed order:
// momentum, dive, height, X flank, Z flank, then shell reduction, then crit.
func (s *Simulation) rollDamage(a, t *fighter.Fighter, m float64) (int, bool) {
	dmg := float64((a.Genome.Bulk+a.Genome.Fury)/10 + fighter.Roll(s.rng, 6))

	dmg *= 1 + momentumBonus*m
	if a.Diving && a.IsFlyer() {
		dmg *= diveBonus
	}
	if a.Pos.Y-t.Pos.Y > heightMin {
		dmg *= heightBonus
	}

	// Flanking: attacker on the side the target is facing away from
	rel := r3.Sub(a.Pos, t.Pos)
	fx, fz := math.Cos(t.FacingAngle), math.Sin(t.FacingAngle)
	if math.Abs(fx) > flankMinAxis && rel.X*fx < 0 {
		dmg *= flankXBonus
	}
	if math.Abs(fz) > flankMinAxis && rel.Z*fz < 0 {
		dmg *= flankZBonus
	}

	if t.Genome.Defense == traits.Shell {
		dmg -= math.Floor(float64(t.Genome.Bulk) / 20)
	}

	crit := fighter.Chance(s.rng, float64(a.Genome.Fury)/500)
	if crit {
		dmg *= critBonus
	}

	damage := int(math.Floor(dmg))
	if damage < 1 {
		damage = 1
	}
	return damage, crit
}

// applyHit applies damage, stun, knockback, and weapon and defense effects.
func (s *Simulation) applyHit(a, t *fighter.Fighter, m float64, damage int, crit bool) {
	targetMomentum := t.Momentum()

	t.TakeDamage(damage)
	t.SetAnim(components.Hit, hitAnimTicks)
	if t.IsAlive() {
		t.Stun(hitStun)
	}

	kb := (knockbackBase + knockbackMomentum*m) * traits.WeaponKnockback(a.Genome.Weapon) / t.Body.Mass
	if t.Genome.Defense == traits.Shell {
		kb *= shellKnockback
	}
	if targetMomentum > 0.5 {
		kb *= movingVulnerable
	}
	dir := pushDirection(a, t)
	t.ApplyImpulse(r3.Add(r3.Scale(kb, dir), r3.Vec{Y: knockbackLift}))

	s.emit(Event{
		Type:     EventHit,
		X:        t.Pos.X,
		Y:        t.Pos.Y,
		Damage:   damage,
		IsCrit:   crit,
		Attacker: a.Name,
		Target:   t.Name,
	})
	s.observer.AttackResolved(a.Side, components.AttackHit, damage, crit)

	poisoned := a.Genome.Weapon == traits.Fangs && t.IsAlive() && fighter.Chance(s.rng, poisonChance)
	if poisoned {
		t.Poisoned = min(t.Poisoned+poisonStacks, poisonMaxStack)
	}

	if crit {
		s.commentary(s.pickLine(critLines, a.Name, t.Name), colorCrit)
	} else {
		s.commentary(s.pickLine(hitLines, a.Name, t.Name), colorHit)
	}
	if poisoned {
		s.commentary(s.pickLine(poisonLines, a.Name, t.Name), colorPoison)
	}

	if t.Genome.Defense == traits.Toxic && a.IsAlive() {
		a.TakeDamage(toxicReflect)
		s.emit(Event{
			Type:     EventHit,
			X:        a.Pos.X,
			Y:        a.Pos.Y,
			Damage:   toxicReflect,
			IsPoison: true,
			Attacker: t.Name,
			Target:   a.Name,
		})
		s.observer.DamageReflected(a.Side, toxicReflect)
		s.commentary(s.pickLine(toxicLines, a.Name, t.Name), colorPoison)
	}

	a.OnLandedHit()
	t.OnTookHit()
}

// physicalDodge moves the target out of the way and makes the attacker
// overshoot. No damage is dealt.
func (s *Simulation) physicalDodge(a, t *fighter.Fighter, m float64) {
	evade(t, a)

	dir := pushDirection(a, t)
	a.Nudge(r3.Scale(a.Body.MaxSpeed*m, dir))
	a.Stun(int(math.Round(overshootStun * m * (1 - float64(a.Genome.Instinct)/200))))

	s.observer.AttackResolved(a.Side, components.AttackDodge, 0, false)
	s.commentary(s.pickLine(dodgeLines, a.Name, t.Name), colorDodge)
}

// evade gives t an impulse away from a. High-instinct bugs step sideways
// toward open space; others scatter backward.
func evade(t, a *fighter.Fighter) {
	dir := pushDirection(a, t)
	if t.Genome.Instinct >= smartDodgeInst {
		side := r3.Vec{X: -dir.Z, Z: dir.X}
		// Prefer the side facing the arena center
		if side.X*t.Pos.X+side.Z*t.Pos.Z > 0 {
			side = r3.Scale(-1, side)
		}
		t.Nudge(r3.Scale(t.Body.MaxSpeed*2, side))
		return
	}
	t.Nudge(r3.Add(r3.Scale(t.Body.MaxSpeed*1.5, dir), r3.Vec{Y: 1}))
}

// pushDirection is the planar unit vector from a toward t. Coincident
// fighters use a's facing.
func pushDirection(a, t *fighter.Fighter) r3.Vec {
	dx, dz := t.Pos.X-a.Pos.X, t.Pos.Z-a.Pos.Z
	d := math.Hypot(dx, dz)
	if d < 1e-6 {
		return r3.Vec{X: math.Cos(a.FacingAngle), Z: math.Sin(a.FacingAngle)}
	}
	return r3.Vec{X: dx / d, Z: dz / d}
}

// executeFeint resolves a fake attack. Feints never deal damage.
func (s *Simulation) executeFeint(a, t *fighter.Fighter) {
	a.Spend(feintCost)
	a.FeintCooldown = feintCooldown
	a.SetAnim(components.Feint, feintAnimTicks)

	var result components.FeintResult
	var lines []string
	switch {
	case fighter.Chance(s.rng, float64(t.Genome.Instinct)/150):
		result = components.FeintRead
		a.AttackCooldown = baseCooldown(a) + feintReadPenalty
		lines = feintReadLines
	case fighter.Chance(s.rng, 0.5):
		result = components.FeintDodgeBait
		evade(t, a)
		a.AttackCooldown = feintBaitCooldown
		lines = feintBaitLines
	default:
		result = components.FeintFlinch
		t.Stun(flinchStun)
		a.AttackCooldown = feintFlinchCooldown
		lines = feintFlinchLines
	}

	s.emit(Event{
		Type:     EventFeint,
		X:        t.Pos.X,
		Y:        t.Pos.Y,
		Attacker: a.Name,
		Target:   t.Name,
		Result:   result,
	})
	s.observer.FeintResolved(a.Side, result)
	s.commentary(s.pickLine(lines, a.Name, t.Name), colorFeint)
}
