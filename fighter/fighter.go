// Package fighter holds the per-match combat, physics, and AI state of one bug.
package fighter

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/bugfights/components"
	"github.com/pthm-cable/bugfights/config"
	"github.com/pthm-cable/bugfights/genome"
	"github.com/pthm-cable/bugfights/traits"
)

// Rand is the random source consulted by AI and combat. *rand.Rand satisfies
// it; tests substitute scripted sequences.
type Rand interface {
	Float64() float64
}

// Chance reports whether a roll falls under p.
func Chance(r Rand, p float64) bool {
	return r.Float64() < p
}

// Roll returns a die roll in [1, sides].
func Roll(r Rand, sides int) int {
	n := int(r.Float64()*float64(sides)) + 1
	if n > sides {
		n = sides
	}
	return n
}

// Arena is the axis-aligned box fighters move inside.
type Arena struct {
	MinX, MaxX    float64
	MinZ, MaxZ    float64
	Height        float64
	Gravity       float64
	WallProximity float64
}

// ArenaFromConfig centers the arena on the origin with its floor at y=0.
func ArenaFromConfig(c config.ArenaConfig) Arena {
	return Arena{
		MinX:          -c.Width / 2,
		MaxX:          c.Width / 2,
		MinZ:          -c.Depth / 2,
		MaxZ:          c.Depth / 2,
		Height:        c.Height,
		Gravity:       c.Gravity,
		WallProximity: c.WallProximity,
	}
}

// View is the read-only part of a fighter its opponent's AI may observe.
type View interface {
	Position() r3.Vec
	Velocity() r3.Vec
	Facing() float64
	Size() float64
	IsAlive() bool
	Animation() components.AnimState
}

// Fighter wraps a genome with the mutable state of one match.
type Fighter struct {
	Genome genome.Genome
	Name   string
	Side   components.Side
	Body   components.Body

	arena Arena
	move  Locomotion

	// Spatial state
	Pos         r3.Vec
	Vel         r3.Vec
	FacingAngle float64 // Radians in the XZ plane; 0 faces +X
	Grounded    bool
	OnWall      bool
	WallSide    components.WallSide

	// Vitals
	HP       int
	MaxHP    int
	Stamina  float64
	Poisoned int // Remaining poison stacks

	// Behavior
	AIState           components.AIState
	Drives            components.Drives
	StateTimer        int // Ticks spent in the current AI state
	StunTimer         int
	WallStunTimer     int
	AttackCooldown    int
	FeintCooldown     int
	NoEngagementTimer int
	StuckTimer        int
	StuckDetector     bool
	CircleAngle       float64
	CircleDir         float64

	// Mobility flags
	Flying         bool
	Diving         bool
	Exhausted      bool // Forced landing or wall drop until stamina recovers
	KnockedBack    bool
	KnockbackTimer int

	// Animation (derived, serialized for renderers)
	Anim         components.AnimState
	AnimTimer    int
	SquashX      float64
	SquashY      float64
	LungeX       float64
	LungeY       float64
	FlashTimer   int
	DeathTimer   int
	VictoryTimer int

	wasGrounded    bool
	lastWallImpact *components.WallImpact
}

// New creates a fighter at its side's spawn point, facing the center.
func New(g genome.Genome, side components.Side, name string, arena Arena) *Fighter {
	body := components.BodyFromGenome(g)
	f := &Fighter{
		Genome:        g,
		Name:          name,
		Side:          side,
		Body:          body,
		arena:         arena,
		move:          locomotionFor(g.Mobility),
		MaxHP:         int(math.Round(body.MaxHP)),
		Stamina:       body.MaxStamina,
		Grounded:      true,
		wasGrounded:   true,
		AIState:       components.Aggressive,
		StuckDetector: true,
		CircleDir:     1,
		SquashX:       1,
		SquashY:       1,
	}
	f.HP = f.MaxHP
	f.Drives = components.Drives{
		Aggression: f.baselineAggression(),
		Caution:    f.baselineCaution(),
	}
	f.Drives.Clamp()

	if side == components.Left {
		f.Pos = r3.Vec{X: arena.MinX + spawnInset}
		f.FacingAngle = 0
	} else {
		f.Pos = r3.Vec{X: arena.MaxX - spawnInset}
		f.FacingAngle = math.Pi
		f.CircleDir = -1
	}
	return f
}

// Position returns the fighter's base position.
func (f *Fighter) Position() r3.Vec { return f.Pos }

// Velocity returns the fighter's velocity.
func (f *Fighter) Velocity() r3.Vec { return f.Vel }

// Facing returns the facing angle in radians.
func (f *Fighter) Facing() float64 { return f.FacingAngle }

// Size returns the sprite size.
func (f *Fighter) Size() float64 { return f.Body.SpriteSize }

// IsAlive reports whether hp is above zero.
func (f *Fighter) IsAlive() bool { return f.HP > 0 }

// Animation returns the visual state.
func (f *Fighter) Animation() components.AnimState { return f.Anim }

// FacingRight reports whether the fighter faces the +X half-plane.
func (f *Fighter) FacingRight() bool { return math.Cos(f.FacingAngle) >= 0 }

// Mobility returns the locomotion variant selected at construction.
func (f *Fighter) Mobility() traits.Mobility { return f.move.Mobility() }

// IsFlyer reports whether the fighter has wings.
func (f *Fighter) IsFlyer() bool { return f.move.Mobility() == traits.Winged }

// IsWallcrawler reports whether the fighter can cling to walls.
func (f *Fighter) IsWallcrawler() bool { return f.move.Mobility() == traits.Wallcrawler }

// PlanarSpeed is the speed in the XZ plane.
func (f *Fighter) PlanarSpeed() float64 {
	return math.Hypot(f.Vel.X, f.Vel.Z)
}

// Momentum is planar speed normalized by max speed, clamped to [0,1].
func (f *Fighter) Momentum() float64 {
	if f.Body.MaxSpeed <= 0 {
		return 0
	}
	return clamp(f.PlanarSpeed()/f.Body.MaxSpeed, 0, 1)
}

// AttackRange returns the reach between this fighter and an opponent.
func (f *Fighter) AttackRange(opp View) float64 {
	return components.AttackRange(f.Body.SpriteSize, opp.Size())
}

// CanAct reports whether the fighter is able to start an attack or feint.
func (f *Fighter) CanAct() bool {
	return f.IsAlive() &&
		f.Anim == components.Idle &&
		f.AttackCooldown == 0 &&
		f.StunTimer == 0
}

// IsStunned reports whether a stun is active.
func (f *Fighter) IsStunned() bool { return f.StunTimer > 0 }

// SetAIState switches state and resets the dwell timer.
func (f *Fighter) SetAIState(s components.AIState) {
	if f.AIState == s {
		return
	}
	f.AIState = s
	f.StateTimer = 0
}

// Stun applies a stun of at least the given length.
func (f *Fighter) Stun(ticks int) {
	if ticks <= 0 {
		return
	}
	if ticks > f.StunTimer {
		f.StunTimer = ticks
	}
	f.AIState = components.Stunned
}

// SetAnim starts an animation that returns to idle after ticks.
func (f *Fighter) SetAnim(s components.AnimState, ticks int) {
	if f.Anim == components.Death || f.Anim == components.Victory {
		return
	}
	f.Anim = s
	f.AnimTimer = ticks
}

// TakeDamage lowers hp, flooring at zero. Returns true if this killed the fighter.
func (f *Fighter) TakeDamage(amount int) bool {
	if amount <= 0 || !f.IsAlive() {
		return false
	}
	f.HP -= amount
	f.FlashTimer = 6
	if f.HP <= 0 {
		f.HP = 0
		f.die()
		return true
	}
	return false
}

// die switches to the terminal death state.
func (f *Fighter) die() {
	f.Anim = components.Death
	f.AnimTimer = 0
	f.Flying = false
	f.Diving = false
	f.LungeX, f.LungeY = 0, 0
	f.StunTimer = 0
}

// Celebrate puts a surviving fighter into the victory animation.
func (f *Fighter) Celebrate() {
	if !f.IsAlive() {
		return
	}
	f.Anim = components.Victory
	f.AnimTimer = 0
	f.VictoryTimer = 0
}

// ApplyImpulse adds velocity and marks the fighter knocked back.
func (f *Fighter) ApplyImpulse(v r3.Vec) {
	f.Vel = r3.Add(f.Vel, v)
	if f.OnWall {
		f.Detach()
	}
	f.KnockedBack = true
	f.KnockbackTimer = knockbackTicks
	f.Diving = false
	f.sanitize()
}

// Nudge adds velocity without knockback, for dodges and jukes.
func (f *Fighter) Nudge(v r3.Vec) {
	f.Vel = r3.Add(f.Vel, v)
	f.sanitize()
}

// LastWallImpact returns the most recent wall slam, or nil.
func (f *Fighter) LastWallImpact() *components.WallImpact {
	return f.lastWallImpact
}

// TakeWallImpact returns the pending wall slam and clears it.
func (f *Fighter) TakeWallImpact() *components.WallImpact {
	w := f.lastWallImpact
	f.lastWallImpact = nil
	return w
}
