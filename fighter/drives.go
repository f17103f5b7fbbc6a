package fighter

import (
	"github.com/pthm-cable/bugfights/components"
)

// baselineAggression is the resting aggression, weighted by fury.
func (f *Fighter) baselineAggression() float64 {
	return 0.3 + float64(f.Genome.Fury)/200
}

// baselineCaution is the resting caution: instinct raises it, fury lowers it.
func (f *Fighter) baselineCaution() float64 {
	return 0.2 + float64(f.Genome.Instinct)/250 - float64(f.Genome.Fury)/500
}

// StalemateForced reports whether the stalemate breaker has taken over the AI.
func (f *Fighter) StalemateForced() bool {
	return f.NoEngagementTimer >= stalemateForceTicks
}

// UpdateDrives drifts drives toward their baselines and applies exhaustion and
// stalemate pressure. Past the force threshold the fighter is made aggressive
// even mid-stun; the stun timer still holds it in place until it runs out.
func (f *Fighter) UpdateDrives() {
	if !f.IsAlive() {
		return
	}

	f.Drives.Aggression = drift(f.Drives.Aggression, f.baselineAggression())
	f.Drives.Caution = drift(f.Drives.Caution, f.baselineCaution())

	if f.Stamina < f.Body.MaxStamina*exhaustionFraction {
		f.Drives.Caution += exhaustionCautionGain
		f.Drives.Aggression -= exhaustionAggressionCut
	}

	if f.NoEngagementTimer > stalematePressureTicks {
		f.Drives.Aggression += stalematePressure
		f.Drives.Caution -= stalematePressure
	}

	f.Drives.Clamp()

	if f.StalemateForced() {
		f.SetAIState(components.Aggressive)
	}
}

// drift moves v one step toward target without overshooting.
func drift(v, target float64) float64 {
	switch {
	case v < target:
		return min(v+driveDrift, target)
	case v > target:
		return max(v-driveDrift, target)
	}
	return v
}

// OnLandedHit makes the attacker bolder.
func (f *Fighter) OnLandedHit() {
	f.Drives.Aggression += 0.05
	f.Drives.Caution -= 0.02
	f.Drives.Clamp()
}

// OnTookHit makes the target warier, more so when badly hurt.
func (f *Fighter) OnTookHit() {
	f.Drives.Caution += 0.04
	f.Drives.Aggression -= 0.02
	if f.MaxHP > 0 && float64(f.HP) < float64(f.MaxHP)*emergencyHPFraction {
		f.Drives.Caution += 0.04
	}
	f.Drives.Clamp()
}

// ResetEngagement records that the fighter committed to an attack or feint.
func (f *Fighter) ResetEngagement() {
	f.NoEngagementTimer = 0
}
