package components

import (
	"github.com/pthm-cable/bugfights/genome"
	"github.com/pthm-cable/bugfights/traits"
)

// Body holds the physical properties derived from a genome.
type Body struct {
	MaxHP      float64
	MaxStamina float64
	SpriteSize float64 // Full width of the sprite; half of it is the collision radius
	Mass       float64
	MaxSpeed   float64 // Units per tick
	JumpPower  float64
}

// BodyFromGenome derives body properties from stats and leg style.
func BodyFromGenome(g genome.Genome) Body {
	bulk := float64(g.Bulk)
	speed := float64(g.Speed)
	return Body{
		MaxHP:      50 + bulk*1.5,
		MaxStamina: 50 + bulk*0.5,
		SpriteSize: 20 + bulk*0.3,
		Mass:       0.5 + bulk/100,
		MaxSpeed:   1 + speed/25,
		JumpPower:  (8 + speed/20) * traits.LegJumpMultiplier(g.Legs),
	}
}

// AttackRange is the reach between two bugs: half their combined sprite sizes plus a margin.
func AttackRange(sizeA, sizeB float64) float64 {
	return (sizeA+sizeB)/2 + 15
}
