package fighter

import (
	"github.com/pthm-cable/bugfights/components"
)

// Snapshot is the serialized per-tick view of a fighter for renderers.
type Snapshot struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
	VZ float64 `json:"vz"`

	HP         int     `json:"hp"`
	MaxHP      int     `json:"maxHp"`
	Stamina    float64 `json:"stamina"`
	MaxStamina float64 `json:"maxStamina"`
	Poisoned   int     `json:"poisoned"`

	State       components.AnimState `json:"state"`
	AIState     components.AIState   `json:"aiState"`
	FacingAngle float64              `json:"facingAngle"`
	FacingRight bool                 `json:"facingRight"`
	OnWall      bool                 `json:"onWall"`
	WallSide    components.WallSide  `json:"wallSide"`
	Grounded    bool                 `json:"grounded"`

	SquashX    float64 `json:"squashX"`
	SquashY    float64 `json:"squashY"`
	LungeX     float64 `json:"lungeX"`
	LungeY     float64 `json:"lungeY"`
	FlashTimer int     `json:"flashTimer"`

	Drives     components.Drives `json:"drives"`
	SpriteSize float64           `json:"spriteSize"`

	DeathTimer   int `json:"deathTimer"`
	VictoryTimer int `json:"victoryTimer"`

	IsKnockedBack bool `json:"isKnockedBack"`
	IsFlying      bool `json:"isFlying"`
	IsWallcrawler bool `json:"isWallcrawler"`
	IsDiving      bool `json:"isDiving"`
	StunTimer     int  `json:"stunTimer"`
}

// Snapshot copies the renderable state.
func (f *Fighter) Snapshot() Snapshot {
	return Snapshot{
		X:  f.Pos.X,
		Y:  f.Pos.Y,
		Z:  f.Pos.Z,
		VX: f.Vel.X,
		VY: f.Vel.Y,
		VZ: f.Vel.Z,

		HP:         f.HP,
		MaxHP:      f.MaxHP,
		Stamina:    f.Stamina,
		MaxStamina: f.Body.MaxStamina,
		Poisoned:   f.Poisoned,

		State:       f.Anim,
		AIState:     f.AIState,
		FacingAngle: f.FacingAngle,
		FacingRight: f.FacingRight(),
		OnWall:      f.OnWall,
		WallSide:    f.WallSide,
		Grounded:    f.Grounded,

		SquashX:    f.SquashX,
		SquashY:    f.SquashY,
		LungeX:     f.LungeX,
		LungeY:     f.LungeY,
		FlashTimer: f.FlashTimer,

		Drives:     f.Drives,
		SpriteSize: f.Body.SpriteSize,

		DeathTimer:   f.DeathTimer,
		VictoryTimer: f.VictoryTimer,

		IsKnockedBack: f.KnockedBack,
		IsFlying:      f.Flying,
		IsWallcrawler: f.IsWallcrawler(),
		IsDiving:      f.Diving,
		StunTimer:     f.StunTimer,
	}
}
