// Package components defines the small value types shared by fighters and the
// simulation: sides, wall sides, AI and animation states.
package components

import "fmt"

// Side is the arena half a fighter spawns on.
type Side uint8

const (
	Left Side = iota
	Right
)

// AIState is the behavioral state of a fighter. Exactly one is active.
type AIState uint8

const (
	Aggressive AIState = iota // Default: close distance and attack
	Circling                  // Orbit the opponent at medium range
	Retreating                // Back away, break contact
	Stunned                   // Incapacitated while StunTimer > 0
)

// AnimState is the visual action a fighter is showing. It is derived state
// consumed by renderers; gameplay only reads Idle and Death.
type AnimState uint8

const (
	Idle AnimState = iota
	Attack
	Feint
	Hit
	Death
	Victory
)

// WallSide identifies one of the four vertical arena walls.
type WallSide uint8

const (
	NoWall WallSide = iota
	WallLeft
	WallRight
	WallFront
	WallBack
)

var (
	sideNames      = []string{"left", "right"}
	aiStateNames   = []string{"aggressive", "circling", "retreating", "stunned"}
	animStateNames = []string{"idle", "attack", "feint", "hit", "death", "victory"}
	wallSideNames  = []string{"", "left", "right", "front", "back"}
)

func (s Side) String() string      { return lookup(sideNames, int(s)) }
func (s AIState) String() string   { return lookup(aiStateNames, int(s)) }
func (s AnimState) String() string { return lookup(animStateNames, int(s)) }
func (w WallSide) String() string  { return lookup(wallSideNames, int(w)) }

func (s Side) MarshalText() ([]byte, error)      { return []byte(s.String()), nil }
func (s AIState) MarshalText() ([]byte, error)   { return []byte(s.String()), nil }
func (s AnimState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (w WallSide) MarshalText() ([]byte, error)  { return []byte(w.String()), nil }

// ParseWallSide converts a wall name back to a WallSide.
func ParseWallSide(s string) (WallSide, error) {
	for i, n := range wallSideNames {
		if i > 0 && n == s {
			return WallSide(i), nil
		}
	}
	return NoWall, fmt.Errorf("components: unknown wall side %q", s)
}

func lookup(names []string, i int) string {
	if i >= 0 && i < len(names) {
		return names[i]
	}
	return "unknown"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Left {
		return Right
	}
	return Left
}

// AttackOutcome is how a real attack resolved.
type AttackOutcome uint8

const (
	AttackHit   AttackOutcome = iota
	AttackMiss                // Lost the hit/dodge roll
	AttackDodge               // Target physically evaded
)

// FeintResult is how a feint resolved against its target.
type FeintResult uint8

const (
	FeintRead      FeintResult = iota // Target saw through it
	FeintDodgeBait                    // Target juked the fake
	FeintFlinch                       // Target briefly stunned
)

var (
	attackOutcomeNames = []string{"hit", "miss", "dodge"}
	feintResultNames   = []string{"read", "dodge-bait", "flinch"}
)

func (o AttackOutcome) String() string { return lookup(attackOutcomeNames, int(o)) }
func (r FeintResult) String() string   { return lookup(feintResultNames, int(r)) }

func (o AttackOutcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }
func (r FeintResult) MarshalText() ([]byte, error)   { return []byte(r.String()), nil }
