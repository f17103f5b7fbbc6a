package fighter

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/bugfights/components"
)

// UpdateAI turns toward the opponent, picks a state, and steers.
// Stunned or knocked-back fighters only turn.
func (f *Fighter) UpdateAI(opp View, r Rand) {
	if !f.IsAlive() {
		return
	}

	op := opp.Position()
	if dx, dz := op.X-f.Pos.X, op.Z-f.Pos.Z; dx != 0 || dz != 0 {
		target := math.Atan2(dz, dx)
		f.FacingAngle += angleDiff(f.FacingAngle, target) * facingSmoothing
	}

	if f.StunTimer > 0 || f.KnockedBack {
		f.move.Upkeep(f)
		f.sanitize()
		return
	}

	dist := planarDistance(f.Pos, op)
	reach := f.AttackRange(opp)

	if !f.checkStuck(op, dist, reach) && !f.StalemateForced() {
		f.chooseState(opp, dist, reach, r)
	}

	switch f.AIState {
	case components.Circling:
		f.move.Circling(f, opp, r)
	case components.Retreating:
		f.move.Retreating(f, opp, r)
	default:
		f.move.Aggressive(f, opp, r)
	}

	f.move.Upkeep(f)
	f.sanitize()
}

// checkStuck fires a forward burst when a grounded fighter has stalled out of
// reach for too long. Returns true if it fired.
func (f *Fighter) checkStuck(op r3.Vec, dist, reach float64) bool {
	if !f.StuckDetector {
		f.StuckTimer = 0
		return false
	}
	if !f.Grounded || f.OnWall || f.PlanarSpeed() >= stuckSpeed || dist <= reach {
		f.StuckTimer = 0
		return false
	}

	f.StuckTimer++
	if f.StuckTimer <= stuckTicks {
		return false
	}

	dir, _ := f.toward(op)
	f.Nudge(r3.Scale(f.Body.MaxSpeed*stuckBurst, dir))
	f.SetAIState(components.Aggressive)
	f.StuckTimer = 0
	return true
}

// chooseState evaluates transitions in priority order. The first two are
// emergency escapes; the rest require a minimum dwell in the current state.
func (f *Fighter) chooseState(opp View, dist, reach float64, r Rand) {
	hpFrac := 1.0
	if f.MaxHP > 0 {
		hpFrac = float64(f.HP) / float64(f.MaxHP)
	}

	// Cornered escape
	if f.AIState != components.Retreating &&
		f.StateTimer >= minStateDwell &&
		f.distanceToNearestWall() < f.arena.WallProximity &&
		f.Genome.Instinct >= corneredInstinct &&
		(dist < reach*1.5 || hpFrac < 0.5) &&
		Chance(r, corneredChance) {
		f.SetAIState(components.Retreating)
		return
	}

	// Emergency retreat ignores dwell
	if f.AIState != components.Retreating &&
		hpFrac < emergencyHPFraction &&
		f.Drives.Caution > emergencyCaution &&
		(f.IsFlyer() || f.IsWallcrawler()) &&
		Chance(r, emergencyChance) {
		f.SetAIState(components.Retreating)
		return
	}

	if f.StateTimer < minStateDwell {
		return
	}

	switch {
	case dist < reach*1.5:
		if f.AIState != components.Aggressive && Chance(r, f.Drives.Aggression*0.1) {
			f.SetAIState(components.Aggressive)
		}
	case dist < farRange:
		if f.AIState != components.Circling && f.StateTimer > circleDwell && Chance(r, f.Drives.Caution*0.05) {
			f.SetAIState(components.Circling)
			op := opp.Position()
			f.CircleAngle = math.Atan2(f.Pos.Z-op.Z, f.Pos.X-op.X)
			if Chance(r, 0.5) {
				f.CircleDir = -f.CircleDir
			}
		}
	default:
		threshold := farDwellBase - farDwellAggression*f.Drives.Aggression
		if f.AIState != components.Aggressive && float64(f.StateTimer) > threshold {
			f.SetAIState(components.Aggressive)
		}
	}
}
