package genome

import (
	"math/rand/v2"

	"github.com/pthm-cable/bugfights/traits"
)

var namePrefixes = map[traits.Weapon][]string{
	traits.Mandibles: {"Crusher", "Gnasher", "Chomper", "Grinder"},
	traits.Stinger:   {"Needle", "Lancer", "Prickle", "Spike"},
	traits.Fangs:     {"Venom", "Biter", "Viper", "Sipper"},
	traits.Pincers:   {"Clamp", "Snapper", "Pinch", "Vise"},
	traits.Horn:      {"Ram", "Tusk", "Charger", "Gore"},
}

var nameSuffixes = map[traits.AbdomenType][]string{
	traits.AbdomenRound:     {"Ball", "Bean", "Button", "Pebble"},
	traits.AbdomenOval:      {"Egg", "Pod", "Seed", "Shell"},
	traits.AbdomenSegmented: {"Coil", "Chain", "Stack", "Links"},
	traits.AbdomenBulbous:   {"Belly", "Bulb", "Barrel", "Tank"},
	traits.AbdomenTapered:   {"Dart", "Spire", "Wisp", "Arrow"},
}

// Name generates a flavor name from weapon and abdomen. It has no effect on
// gameplay.
func (g Genome) Name(r *rand.Rand) string {
	prefixes := namePrefixes[g.Weapon]
	suffixes := nameSuffixes[g.Abdomen]
	if len(prefixes) == 0 || len(suffixes) == 0 {
		return "Bug"
	}
	return prefixes[r.IntN(len(prefixes))] + " " + suffixes[r.IntN(len(suffixes))]
}
