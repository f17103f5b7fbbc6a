// Package traits defines the categorical genome traits of a bug.
package traits

import "fmt"

// Weapon determines attack stamina cost, knockback, and special effects.
type Weapon uint8

const (
	Mandibles Weapon = iota
	Stinger
	Fangs   // Chance to poison
	Pincers
	Horn
)

// Defense modifies how incoming attacks land.
type Defense uint8

const (
	Shell      Defense = iota // Flat damage reduction, knockback resistance
	NoDefense                 // Serialized as "none"
	Toxic                     // Reflects chip damage to attackers
	Camouflage                // Easier physical dodges
)

// Mobility selects the locomotion model used by a fighter.
type Mobility uint8

const (
	Ground Mobility = iota
	Winged
	Wallcrawler
)

// Cosmetic traits. These only affect flavor names and rendering.
type (
	AbdomenType uint8
	ThoraxType  uint8
	HeadType    uint8
	LegStyle    uint8
	EyeStyle    uint8
	AntennaType uint8
	TextureType uint8
	WingType    uint8
)

const (
	AbdomenRound AbdomenType = iota
	AbdomenOval
	AbdomenSegmented
	AbdomenBulbous
	AbdomenTapered
)

const (
	ThoraxCompact ThoraxType = iota
	ThoraxElongated
	ThoraxWide
	ThoraxArmored
)

const (
	HeadRound HeadType = iota
	HeadTriangular
	HeadSquare
	HeadElongated
)

const (
	LegsStandard LegStyle = iota
	LegsLong
	LegsShort
	LegsSpindly
	LegsThick
)

const (
	EyesCompound EyeStyle = iota
	EyesSimple
	EyesStalked
	EyesLarge
)

const (
	AntennaStraight AntennaType = iota
	AntennaCurved
	AntennaClubbed
	AntennaFeathered
	AntennaNone
)

const (
	TextureSmooth TextureType = iota
	TextureSpotted
	TextureStriped
	TextureHairy
	TexturePlated
)

const (
	WingsNone WingType = iota
	WingsMembrane
	WingsBeetle
	WingsDragonfly
	WingsMoth
)

var (
	weaponNames   = []string{"mandibles", "stinger", "fangs", "pincers", "horn"}
	defenseNames  = []string{"shell", "none", "toxic", "camouflage"}
	mobilityNames = []string{"ground", "winged", "wallcrawler"}
	abdomenNames  = []string{"round", "oval", "segmented", "bulbous", "tapered"}
	thoraxNames   = []string{"compact", "elongated", "wide", "armored"}
	headNames     = []string{"round", "triangular", "square", "elongated"}
	legNames      = []string{"standard", "long", "short", "spindly", "thick"}
	eyeNames      = []string{"compound", "simple", "stalked", "large"}
	antennaNames  = []string{"straight", "curved", "clubbed", "feathered", "none"}
	textureNames  = []string{"smooth", "spotted", "striped", "hairy", "plated"}
	wingNames     = []string{"none", "membrane", "beetle", "dragonfly", "moth"}
)

// Counts of each trait's values, used for uniform picks.
const (
	NumWeapons   = 5
	NumDefenses  = 4
	NumMobility  = 3
	NumAbdomens  = 5
	NumThoraxes  = 4
	NumHeads     = 4
	NumLegStyles = 5
	NumEyeStyles = 4
	NumAntennae  = 5
	NumTextures  = 5
	NumWingTypes = 5
)

func name[T ~uint8](names []string, v T) string {
	if int(v) < len(names) {
		return names[v]
	}
	return "unknown"
}

func parse[T ~uint8](kind string, names []string, text []byte) (T, error) {
	s := string(text)
	for i, n := range names {
		if n == s {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("traits: unknown %s %q", kind, s)
}

func (w Weapon) String() string      { return name(weaponNames, w) }
func (d Defense) String() string     { return name(defenseNames, d) }
func (m Mobility) String() string    { return name(mobilityNames, m) }
func (a AbdomenType) String() string { return name(abdomenNames, a) }
func (t ThoraxType) String() string  { return name(thoraxNames, t) }
func (h HeadType) String() string    { return name(headNames, h) }
func (l LegStyle) String() string    { return name(legNames, l) }
func (e EyeStyle) String() string    { return name(eyeNames, e) }
func (a AntennaType) String() string { return name(antennaNames, a) }
func (t TextureType) String() string { return name(textureNames, t) }
func (w WingType) String() string    { return name(wingNames, w) }

// MarshalText implementations let records serialize trait names instead of indices.

func (w Weapon) MarshalText() ([]byte, error)      { return []byte(w.String()), nil }
func (d Defense) MarshalText() ([]byte, error)     { return []byte(d.String()), nil }
func (m Mobility) MarshalText() ([]byte, error)    { return []byte(m.String()), nil }
func (a AbdomenType) MarshalText() ([]byte, error) { return []byte(a.String()), nil }
func (t ThoraxType) MarshalText() ([]byte, error)  { return []byte(t.String()), nil }
func (h HeadType) MarshalText() ([]byte, error)    { return []byte(h.String()), nil }
func (l LegStyle) MarshalText() ([]byte, error)    { return []byte(l.String()), nil }
func (e EyeStyle) MarshalText() ([]byte, error)    { return []byte(e.String()), nil }
func (a AntennaType) MarshalText() ([]byte, error) { return []byte(a.String()), nil }
func (t TextureType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }
func (w WingType) MarshalText() ([]byte, error)    { return []byte(w.String()), nil }

func (w *Weapon) UnmarshalText(b []byte) (err error) {
	*w, err = parse[Weapon]("weapon", weaponNames, b)
	return err
}

func (d *Defense) UnmarshalText(b []byte) (err error) {
	*d, err = parse[Defense]("defense", defenseNames, b)
	return err
}

func (m *Mobility) UnmarshalText(b []byte) (err error) {
	*m, err = parse[Mobility]("mobility", mobilityNames, b)
	return err
}

func (a *AbdomenType) UnmarshalText(b []byte) (err error) {
	*a, err = parse[AbdomenType]("abdomen", abdomenNames, b)
	return err
}

func (t *ThoraxType) UnmarshalText(b []byte) (err error) {
	*t, err = parse[ThoraxType]("thorax", thoraxNames, b)
	return err
}

func (h *HeadType) UnmarshalText(b []byte) (err error) {
	*h, err = parse[HeadType]("head", headNames, b)
	return err
}

func (l *LegStyle) UnmarshalText(b []byte) (err error) {
	*l, err = parse[LegStyle]("leg style", legNames, b)
	return err
}

func (e *EyeStyle) UnmarshalText(b []byte) (err error) {
	*e, err = parse[EyeStyle]("eye style", eyeNames, b)
	return err
}

func (a *AntennaType) UnmarshalText(b []byte) (err error) {
	*a, err = parse[AntennaType]("antenna", antennaNames, b)
	return err
}

func (t *TextureType) UnmarshalText(b []byte) (err error) {
	*t, err = parse[TextureType]("texture", textureNames, b)
	return err
}

func (w *WingType) UnmarshalText(b []byte) (err error) {
	*w, err = parse[WingType]("wing type", wingNames, b)
	return err
}

// WeaponStaminaCost is the stamina spent on a real attack.
func WeaponStaminaCost(w Weapon) float64 {
	switch w {
	case Mandibles:
		return 8
	case Stinger:
		return 6
	case Fangs:
		return 5
	case Pincers:
		return 7
	case Horn:
		return 10
	default:
		return 8
	}
}

// WeaponKnockback is the knockback multiplier applied on a hit.
func WeaponKnockback(w Weapon) float64 {
	switch w {
	case Mandibles:
		return 1.0
	case Stinger:
		return 0.7
	case Fangs:
		return 0.6
	case Pincers:
		return 1.2
	case Horn:
		return 1.6
	default:
		return 1.0
	}
}

// LegJumpMultiplier scales jump power by leg style.
func LegJumpMultiplier(l LegStyle) float64 {
	switch l {
	case LegsLong:
		return 1.2
	case LegsSpindly:
		return 1.1
	case LegsShort:
		return 0.85
	case LegsThick:
		return 0.9
	default:
		return 1.0
	}
}
