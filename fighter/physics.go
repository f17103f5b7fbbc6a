package fighter

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/bugfights/components"
	"github.com/pthm-cable/bugfights/traits"
)

// UpdatePhysics integrates one tick of motion and resolves arena collisions.
// Dead fighters run a reduced pass until they settle on the floor.
func (f *Fighter) UpdatePhysics() {
	if !f.IsAlive() {
		f.updateDeadPhysics()
		return
	}
	if f.OnWall {
		f.updateWallPhysics()
		return
	}

	f.wasGrounded = f.Grounded

	// Gravity (reduced while flying under power)
	f.Vel.Y -= f.arena.Gravity * f.move.GravityScale(f)

	f.Pos = r3.Add(f.Pos, f.Vel)

	// The AI steers velocity directly; passive friction only applies when
	// the fighter is not in control of its own motion.
	if f.KnockedBack || f.StunTimer > 0 {
		if f.wasGrounded {
			f.Vel.X *= groundFriction
			f.Vel.Z *= groundFriction
		} else {
			f.Vel.X *= airDrag
			f.Vel.Z *= airDrag
		}
	}

	f.collideArena()
	f.sanitize()
}

// updateWallPhysics moves a clinging fighter along its wall. Gravity does not apply.
func (f *Fighter) updateWallPhysics() {
	r := f.Body.SpriteSize / 2

	f.Pos.Y += f.Vel.Y
	switch f.WallSide {
	case components.WallLeft, components.WallRight:
		f.Pos.Z += f.Vel.Z
		f.Vel.X = 0
	case components.WallFront, components.WallBack:
		f.Pos.X += f.Vel.X
		f.Vel.Z = 0
	}
	f.Vel.Y *= 0.9

	f.Pos.Y = clamp(f.Pos.Y, 0, f.arena.Height-r)
	f.Pos.X = clamp(f.Pos.X, f.arena.MinX+r, f.arena.MaxX-r)
	f.Pos.Z = clamp(f.Pos.Z, f.arena.MinZ+r, f.arena.MaxZ-r)
	f.Grounded = f.Pos.Y <= 0
	f.wasGrounded = f.Grounded

	f.sanitize()
}

// updateDeadPhysics lets a corpse fall and settle with heavy damping.
func (f *Fighter) updateDeadPhysics() {
	if f.OnWall {
		f.Detach()
	}
	f.Flying = false
	f.Diving = false

	f.Vel.Y -= f.arena.Gravity
	f.Pos = r3.Add(f.Pos, f.Vel)

	if f.Grounded {
		f.Vel.X *= groundFriction
		f.Vel.Z *= groundFriction
	} else {
		f.Vel.X *= airDrag
		f.Vel.Z *= airDrag
	}

	r := f.Body.SpriteSize / 2
	f.Grounded = false
	if f.Pos.Y <= 0 {
		f.Pos.Y = 0
		if f.Vel.Y < -1 {
			f.Vel.Y = -f.Vel.Y * deadBounce
		} else {
			f.Vel.Y = 0
			f.Grounded = true
		}
	}
	if f.Pos.Y > f.arena.Height-r {
		f.Pos.Y = f.arena.Height - r
		f.Vel.Y = -math.Abs(f.Vel.Y) * deadBounce
	}
	if f.Pos.X < f.arena.MinX+r {
		f.Pos.X = f.arena.MinX + r
		f.Vel.X = math.Abs(f.Vel.X) * deadBounce
	}
	if f.Pos.X > f.arena.MaxX-r {
		f.Pos.X = f.arena.MaxX - r
		f.Vel.X = -math.Abs(f.Vel.X) * deadBounce
	}
	if f.Pos.Z < f.arena.MinZ+r {
		f.Pos.Z = f.arena.MinZ + r
		f.Vel.Z = math.Abs(f.Vel.Z) * deadBounce
	}
	if f.Pos.Z > f.arena.MaxZ-r {
		f.Pos.Z = f.arena.MaxZ - r
		f.Vel.Z = -math.Abs(f.Vel.Z) * deadBounce
	}
	f.sanitize()
}

// collideArena resolves the six arena boundaries.
func (f *Fighter) collideArena() {
	r := f.Body.SpriteSize / 2
	f.Grounded = false

	// Floor
	if f.Pos.Y <= 0 {
		f.Pos.Y = 0
		impact := -f.Vel.Y
		switch {
		case f.Flying && impact > 0:
			f.Vel.Y = impact*flyerBounce + f.arena.Gravity
		case impact > bounceMinSpeed:
			f.Vel.Y = impact * floorBounce
		default:
			f.Vel.Y = 0
			f.Grounded = true
		}
		if f.Diving {
			f.Diving = false
		}
	}

	// Ceiling
	if f.Pos.Y > f.arena.Height-r {
		f.Pos.Y = f.arena.Height - r
		if f.Vel.Y > 0 {
			damping := wallBounce
			if f.Flying {
				damping = flyerBounce
			}
			f.Vel.Y = -f.Vel.Y * damping
		}
	}

	// Side walls
	if f.Pos.X < f.arena.MinX+r {
		f.Pos.X = f.arena.MinX + r
		f.hitWall(components.WallLeft, -f.Vel.X)
	} else if f.Pos.X > f.arena.MaxX-r {
		f.Pos.X = f.arena.MaxX - r
		f.hitWall(components.WallRight, f.Vel.X)
	}
	if f.OnWall {
		return
	}
	if f.Pos.Z < f.arena.MinZ+r {
		f.Pos.Z = f.arena.MinZ + r
		f.hitWall(components.WallBack, -f.Vel.Z)
	} else if f.Pos.Z > f.arena.MaxZ-r {
		f.Pos.Z = f.arena.MaxZ - r
		f.hitWall(components.WallFront, f.Vel.Z)
	}
}

// hitWall handles contact with a vertical wall. speed is the velocity
// component into the wall (positive when moving toward it).
func (f *Fighter) hitWall(side components.WallSide, speed float64) {
	if speed <= 0 {
		return
	}

	if f.move.CanAttachWall(f) {
		f.attach(side)
		return
	}

	switch side {
	case components.WallLeft, components.WallRight:
		f.Vel.X = -f.Vel.X * wallBounce
	case components.WallFront, components.WallBack:
		f.Vel.Z = -f.Vel.Z * wallBounce
	}

	if f.KnockedBack && speed > wallStunMinSpeed {
		f.ApplyWallStun(speed, side)
	}
}

// attach clings to a wall, zeroing motion into it.
func (f *Fighter) attach(side components.WallSide) {
	f.OnWall = true
	f.WallSide = side
	f.Grounded = false
	f.Flying = false
	f.Diving = false
	f.Vel = r3.Vec{}
	f.SquashX, f.SquashY = 0.8, 1.2
}

// Detach releases the wall, stepping one unit away from it.
func (f *Fighter) Detach() {
	if !f.OnWall {
		return
	}
	n := wallNormal(f.WallSide)
	f.Pos = r3.Add(f.Pos, n)
	f.OnWall = false
	f.WallSide = components.NoWall
}

// wallNormal points from a wall into the arena.
func wallNormal(side components.WallSide) r3.Vec {
	switch side {
	case components.WallLeft:
		return r3.Vec{X: 1}
	case components.WallRight:
		return r3.Vec{X: -1}
	case components.WallBack:
		return r3.Vec{Z: 1}
	case components.WallFront:
		return r3.Vec{Z: -1}
	}
	return r3.Vec{}
}

// ApplyWallStun stuns a fighter that slammed into a wall. Duration scales with
// impact speed: wallcrawlers and shells absorb some of it, flyers take more.
// The impact is recorded for the simulation to report.
func (f *Fighter) ApplyWallStun(impactVelocity float64, side components.WallSide) int {
	mult := 1.0
	if f.IsWallcrawler() {
		mult *= 0.5
	}
	if f.Genome.Defense == traits.Shell {
		mult *= 0.7
	}
	if f.IsFlyer() {
		mult *= 1.3
	}

	stun := int(math.Round(impactVelocity * wallStunPerSpeed * mult))
	if stun > wallStunMax {
		stun = wallStunMax
	}
	if stun < 0 {
		stun = 0
	}

	f.WallStunTimer = stun
	f.Stun(stun)
	f.FlashTimer = 6
	f.SquashX, f.SquashY = 0.6, 1.3
	f.lastWallImpact = &components.WallImpact{
		X:           f.Pos.X,
		Y:           f.Pos.Y,
		Name:        f.Name,
		Velocity:    impactVelocity,
		WallSide:    side,
		StunApplied: stun,
	}
	return stun
}

// Jump launches the fighter. power in (0,1] scales both impulse and cost.
// Jumping off a wall also pushes away from it. Returns false if the fighter
// cannot jump right now.
func (f *Fighter) Jump(power float64) bool {
	power = clamp(power, 0, 1)
	cost := jumpStaminaCost * power
	if !f.IsAlive() || power == 0 || f.Stamina < cost || !(f.Grounded || f.OnWall) {
		return false
	}

	f.Stamina -= cost
	f.Vel.Y = f.Body.JumpPower * power
	if f.OnWall {
		n := wallNormal(f.WallSide)
		f.Vel = r3.Add(f.Vel, r3.Scale(wallJumpPush*power, n))
		f.Detach()
	}
	f.Grounded = false
	f.SquashX, f.SquashY = 0.8, 1.3
	return true
}

// Displace shifts the fighter's position, keeping it inside the arena walls.
// Used to separate overlapping fighters.
func (f *Fighter) Displace(d r3.Vec) {
	r := f.Body.SpriteSize / 2
	f.Pos = r3.Add(f.Pos, d)
	f.Pos.X = clamp(f.Pos.X, f.arena.MinX+r, f.arena.MaxX-r)
	f.Pos.Z = clamp(f.Pos.Z, f.arena.MinZ+r, f.arena.MaxZ-r)
	f.Pos.Y = clamp(f.Pos.Y, 0, f.arena.Height-r)
	f.sanitize()
}

// sanitize replaces any NaN or infinite component so a bad frame cannot
// corrupt the rest of the match.
func (f *Fighter) sanitize() {
	fix := func(v *float64) {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = 0
		}
	}
	fix(&f.Pos.X)
	fix(&f.Pos.Y)
	fix(&f.Pos.Z)
	fix(&f.Vel.X)
	fix(&f.Vel.Y)
	fix(&f.Vel.Z)
	fix(&f.FacingAngle)
}

// distanceToNearestWall returns the planar distance to the closest side wall.
func (f *Fighter) distanceToNearestWall() float64 {
	return math.Min(
		math.Min(f.Pos.X-f.arena.MinX, f.arena.MaxX-f.Pos.X),
		math.Min(f.Pos.Z-f.arena.MinZ, f.arena.MaxZ-f.Pos.Z),
	)
}

// nearestWall returns the closest side wall and the point on it level with the fighter.
func (f *Fighter) nearestWall() (components.WallSide, r3.Vec) {
	side := components.WallLeft
	best := f.Pos.X - f.arena.MinX
	point := r3.Vec{X: f.arena.MinX, Z: f.Pos.Z}

	if d := f.arena.MaxX - f.Pos.X; d < best {
		best, side, point = d, components.WallRight, r3.Vec{X: f.arena.MaxX, Z: f.Pos.Z}
	}
	if d := f.Pos.Z - f.arena.MinZ; d < best {
		best, side, point = d, components.WallBack, r3.Vec{X: f.Pos.X, Z: f.arena.MinZ}
	}
	if d := f.arena.MaxZ - f.Pos.Z; d < best {
		side, point = components.WallFront, r3.Vec{X: f.Pos.X, Z: f.arena.MaxZ}
	}
	return side, point
}
