package components

// Drives are the adaptive scalars steering AI transitions. Both live in [0,1].
type Drives struct {
	Aggression float64 `json:"aggression"`
	Caution    float64 `json:"caution"`
}

// Drive limits. A fighter can never become fully passive.
const (
	MinAggression = 0.15
	MaxCaution    = 0.85
)

// Clamp enforces the drive floor and ceiling.
func (d *Drives) Clamp() {
	d.Aggression = clamp(d.Aggression, MinAggression, 1)
	d.Caution = clamp(d.Caution, 0, MaxCaution)
}

// WallImpact records a knocked-back fighter slamming into a wall.
type WallImpact struct {
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Name        string   `json:"name"`
	Velocity    float64  `json:"velocity"`
	WallSide    WallSide `json:"wallSide"`
	StunApplied int      `json:"stunApplied"`
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
