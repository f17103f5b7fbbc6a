package fighter

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/bugfights/components"
	"github.com/pthm-cable/bugfights/traits"
)

// Locomotion is the per-mobility steering strategy. One is chosen when the
// fighter is built and never changes.
type Locomotion interface {
	Mobility() traits.Mobility

	// Per-state steering. Each consults the opponent's current position.
	Aggressive(f *Fighter, opp View, r Rand)
	Circling(f *Fighter, opp View, r Rand)
	Retreating(f *Fighter, opp View, r Rand)

	// Upkeep runs after steering: stamina drain and forced landings.
	Upkeep(f *Fighter)

	// GravityScale multiplies arena gravity for this tick.
	GravityScale(f *Fighter) float64

	// CanAttachWall reports whether touching a wall should cling instead of bounce.
	CanAttachWall(f *Fighter) bool
}

func locomotionFor(m traits.Mobility) Locomotion {
	switch m {
	case traits.Winged:
		return flyerMover{}
	case traits.Wallcrawler:
		return crawlerMover{}
	default:
		return groundMover{}
	}
}

// steer eases planar velocity toward desired. Airborne ground bugs have little control.
func (f *Fighter) steer(desired r3.Vec) {
	resp := steerResponse
	if !f.Grounded && !f.Flying {
		resp *= 0.2
	}
	f.Vel.X += (desired.X - f.Vel.X) * resp
	f.Vel.Z += (desired.Z - f.Vel.Z) * resp
}

// steerVertical eases vertical velocity toward vy.
func (f *Fighter) steerVertical(vy float64) {
	f.Vel.Y += (vy - f.Vel.Y) * steerResponse
}

// fallbackDir is the push used when two positions coincide.
func (f *Fighter) fallbackDir() r3.Vec {
	if f.Side == components.Left {
		return r3.Vec{X: 1}
	}
	return r3.Vec{X: -1}
}

// toward returns the planar unit vector and distance to a point.
func (f *Fighter) toward(p r3.Vec) (r3.Vec, float64) {
	return planarDirection(f.Pos, p, f.fallbackDir())
}

// orbitPoint advances the circle phase and returns the point on the orbit.
func (f *Fighter) orbitPoint(opp View, radius float64) r3.Vec {
	f.CircleAngle += circleAngularSpeed * f.CircleDir
	c := opp.Position()
	return r3.Vec{
		X: c.X + math.Cos(f.CircleAngle)*radius,
		Y: c.Y,
		Z: c.Z + math.Sin(f.CircleAngle)*radius,
	}
}

// orbitRadius keeps circling inside close range so the aggression roll can fire.
func (f *Fighter) orbitRadius(opp View) float64 {
	return f.AttackRange(opp) * 1.3
}

// retreatVelocity flees the opponent, sliding along the wall when backed up to one.
func (f *Fighter) retreatVelocity(opp View, speed float64) r3.Vec {
	dir, _ := f.toward(opp.Position())
	away := r3.Scale(-1, dir)
	if f.distanceToNearestWall() < f.arena.WallProximity {
		// Slide sideways out of the corner, away from the arena edge
		tangent := r3.Vec{X: -dir.Z * f.CircleDir, Z: dir.X * f.CircleDir}
		center, _ := f.toward(r3.Vec{})
		away = r3.Add(r3.Scale(0.3, away), r3.Add(tangent, r3.Scale(0.5, center)))
		if n := r3.Norm(away); n > 1e-6 {
			away = r3.Scale(1/n, away)
		}
	}
	return r3.Scale(speed, away)
}

// --- Ground ---

type groundMover struct{}

func (groundMover) Mobility() traits.Mobility { return traits.Ground }

func (groundMover) Aggressive(f *Fighter, opp View, r Rand) {
	dir, dist := f.toward(opp.Position())
	speed := f.Body.MaxSpeed * (0.6 + 0.4*f.Drives.Aggression)
	f.steer(r3.Scale(speed, dir))

	if !f.Grounded {
		return
	}
	reach := f.AttackRange(opp)
	switch {
	case dist > reach && dist < pounceRange && Chance(r, pounceChance*f.Drives.Aggression):
		if f.Jump(0.6) {
			f.Nudge(r3.Scale(f.Body.MaxSpeed*0.5, dir))
			f.SquashX, f.SquashY = 1.2, 0.8
		}
	case opp.Position().Y-f.Pos.Y > groundJumpHeightDiff && dist < reach*1.5 && Chance(r, groundJumpChance):
		f.Jump(1)
	}
}

func (groundMover) Circling(f *Fighter, opp View, _ Rand) {
	target := f.orbitPoint(opp, f.orbitRadius(opp))
	dir, _ := f.toward(target)
	f.steer(r3.Scale(f.Body.MaxSpeed*0.7, dir))
}

func (groundMover) Retreating(f *Fighter, opp View, _ Rand) {
	f.steer(f.retreatVelocity(opp, f.Body.MaxSpeed*0.8))
}

func (groundMover) Upkeep(*Fighter) {}

func (groundMover) GravityScale(*Fighter) float64 { return 1 }

func (groundMover) CanAttachWall(*Fighter) bool { return false }

// --- Flyer ---

type flyerMover struct{}

func (flyerMover) Mobility() traits.Mobility { return traits.Winged }

// takeoff lifts a grounded flyer that has the stamina for it.
func (flyerMover) takeoff(f *Fighter) bool {
	if f.Flying {
		return true
	}
	if f.Exhausted || f.Stamina < f.Body.MaxStamina*takeoffFraction {
		return false
	}
	if !f.Grounded {
		return false
	}
	f.Flying = true
	f.Grounded = false
	f.Vel.Y = f.Body.JumpPower * 0.5
	f.SquashX, f.SquashY = 0.85, 1.2
	return true
}

func (m flyerMover) Aggressive(f *Fighter, opp View, r Rand) {
	if !m.takeoff(f) {
		groundMover{}.Aggressive(f, opp, r)
		return
	}
	op := opp.Position()
	dir, dist := f.toward(op)
	reach := f.AttackRange(opp)

	if f.Diving {
		f.steer(r3.Scale(f.Body.MaxSpeed*1.2, dir))
		f.Vel.Y = -diveSpeed
		return
	}
	if dist < reach*1.5 && f.Pos.Y > op.Y+10 {
		f.Diving = true
		f.Vel.Y = -diveSpeed
		f.SquashX, f.SquashY = 0.8, 1.25
		return
	}
	f.steer(r3.Scale(f.Body.MaxSpeed, dir))
	f.steerVertical(clamp((op.Y+flyerCruiseHeight-f.Pos.Y)*0.05, -f.Body.MaxSpeed, f.Body.MaxSpeed))
}

func (m flyerMover) Circling(f *Fighter, opp View, r Rand) {
	if !m.takeoff(f) {
		groundMover{}.Circling(f, opp, r)
		return
	}
	f.Diving = false
	target := f.orbitPoint(opp, f.orbitRadius(opp))
	dir, _ := f.toward(target)
	f.steer(r3.Scale(f.Body.MaxSpeed*0.8, dir))
	f.steerVertical(clamp((target.Y+flyerOrbitHeight-f.Pos.Y)*0.05, -f.Body.MaxSpeed, f.Body.MaxSpeed))
}

func (m flyerMover) Retreating(f *Fighter, opp View, r Rand) {
	if !m.takeoff(f) {
		groundMover{}.Retreating(f, opp, r)
		return
	}
	f.Diving = false
	f.steer(f.retreatVelocity(opp, f.Body.MaxSpeed))
	high := f.arena.Height * 0.7
	f.steerVertical(clamp((high-f.Pos.Y)*0.05, -f.Body.MaxSpeed, f.Body.MaxSpeed))
}

func (flyerMover) Upkeep(f *Fighter) {
	if !f.Flying {
		return
	}
	f.Stamina -= flightDrain
	if f.Stamina < f.Body.MaxStamina*exhaustedFraction {
		f.Flying = false
		f.Diving = false
		f.Exhausted = true
	}
	f.Stamina = clamp(f.Stamina, 0, f.Body.MaxStamina)
}

func (flyerMover) GravityScale(f *Fighter) float64 {
	if f.Flying && f.arena.Gravity > 0 {
		return flyerGravity / f.arena.Gravity
	}
	return 1
}

func (flyerMover) CanAttachWall(*Fighter) bool { return false }

// --- Wallcrawler ---

type crawlerMover struct{}

func (crawlerMover) Mobility() traits.Mobility { return traits.Wallcrawler }

// climb moves along the wall toward a point, in the two axes the wall allows.
func (crawlerMover) climb(f *Fighter, target r3.Vec, speed float64) {
	dy := target.Y - f.Pos.Y
	var da float64
	switch f.WallSide {
	case components.WallLeft, components.WallRight:
		da = target.Z - f.Pos.Z
	default:
		da = target.X - f.Pos.X
	}
	n := math.Hypot(dy, da)
	if n < 1e-6 {
		f.Vel = r3.Vec{}
		return
	}
	vy := dy / n * speed
	va := da / n * speed
	f.Vel.Y += (vy - f.Vel.Y) * steerResponse
	switch f.WallSide {
	case components.WallLeft, components.WallRight:
		f.Vel.Z += (va - f.Vel.Z) * steerResponse
	default:
		f.Vel.X += (va - f.Vel.X) * steerResponse
	}
}

// seekWall heads for the nearest wall at ground level.
func (crawlerMover) seekWall(f *Fighter, speed float64) {
	_, p := f.nearestWall()
	dir, _ := f.toward(p)
	f.steer(r3.Scale(speed, dir))
}

// pounce leaps off the wall at the opponent.
func (crawlerMover) pounce(f *Fighter, opp View) bool {
	dir, _ := f.toward(opp.Position())
	if !f.Jump(0.8) {
		return false
	}
	f.Nudge(r3.Scale(f.Body.MaxSpeed*1.5, dir))
	f.SquashX, f.SquashY = 1.25, 0.8
	return true
}

func (m crawlerMover) Aggressive(f *Fighter, opp View, r Rand) {
	if !f.OnWall {
		groundMover{}.Aggressive(f, opp, r)
		return
	}
	op := opp.Position()
	dist := planarDistance(f.Pos, op)
	if dist < pounceRange && Chance(r, pounceChance+f.Drives.Aggression*0.05) && m.pounce(f, opp) {
		return
	}
	// Track the opponent along the wall, climbing down when they are out of leap range
	y := op.Y + 10
	if dist >= pounceRange {
		y = 0
	}
	m.climb(f, r3.Vec{X: op.X, Y: y, Z: op.Z}, f.Body.MaxSpeed*0.8)
	if f.Pos.Y <= 1 {
		f.Detach()
	}
}

func (m crawlerMover) Circling(f *Fighter, opp View, r Rand) {
	if f.OnWall {
		op := opp.Position()
		m.climb(f, r3.Vec{X: op.X, Y: f.arena.Height * 0.3, Z: op.Z}, f.Body.MaxSpeed*0.6)
		return
	}
	if f.distanceToNearestWall() < farRange && !f.Exhausted {
		m.seekWall(f, f.Body.MaxSpeed*0.7)
		return
	}
	groundMover{}.Circling(f, opp, r)
}

func (m crawlerMover) Retreating(f *Fighter, opp View, r Rand) {
	if f.OnWall {
		op := opp.Position()
		m.climb(f, r3.Vec{X: f.Pos.X - (op.X - f.Pos.X), Y: f.arena.Height * 0.6, Z: f.Pos.Z - (op.Z - f.Pos.Z)}, f.Body.MaxSpeed*0.7)
		return
	}
	if !f.Exhausted {
		m.seekWall(f, f.Body.MaxSpeed*0.8)
		return
	}
	groundMover{}.Retreating(f, opp, r)
}

func (crawlerMover) Upkeep(f *Fighter) {
	if !f.OnWall {
		return
	}
	f.Stamina -= wallClingDrain
	if f.Stamina < f.Body.MaxStamina*exhaustedFraction {
		f.Exhausted = true
		f.Detach()
	}
	f.Stamina = clamp(f.Stamina, 0, f.Body.MaxStamina)
}

func (crawlerMover) GravityScale(*Fighter) float64 { return 1 }

func (crawlerMover) CanAttachWall(f *Fighter) bool {
	return f.IsAlive() &&
		!f.OnWall &&
		f.wasGrounded &&
		!f.Exhausted &&
		!f.KnockedBack &&
		f.Stamina > f.Body.MaxStamina*wallAttachFraction
}
