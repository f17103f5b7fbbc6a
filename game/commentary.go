package game

import (
	"strings"
)

// Commentary colors
const (
	colorAnnounce  = "#ffd700"
	colorCountdown = "#ffffff"
	colorHit       = "#ff6644"
	colorCrit      = "#ff2222"
	colorMiss      = "#aaaaaa"
	colorDodge     = "#66ccff"
	colorFeint     = "#cc88ff"
	colorWall      = "#ff9900"
	colorPoison    = "#88ff44"
	colorKO        = "#ff0000"
)

// Lines use {a} for the acting bug and {b} for the other one.
var (
	hitLines = []string{
		"{a} lands a solid blow on {b}!",
		"{a} connects!",
		"{b} takes a hit from {a}!",
		"Clean strike by {a}!",
	}
	critLines = []string{
		"CRITICAL HIT! {a} tears into {b}!",
		"Devastating strike from {a}!",
		"{b} reels from a brutal critical!",
	}
	missLines = []string{
		"{a} swings and misses!",
		"{b} slips away from {a}'s attack!",
		"Whiff! {a} hits nothing but air.",
	}
	dodgeLines = []string{
		"{b} dodges! {a} overshoots!",
		"What reflexes! {b} evades {a}!",
		"{a} lunges at empty space as {b} sidesteps!",
	}
	feintReadLines = []string{
		"{b} reads the feint from {a}.",
		"{b} isn't fooled by {a}'s fake!",
	}
	feintBaitLines = []string{
		"{a} fakes and {b} jumps at shadows!",
		"{b} bites on the feint from {a}!",
	}
	feintFlinchLines = []string{
		"{b} flinches at {a}'s feint!",
		"{a} fakes out {b} completely!",
	}
	poisonLines = []string{
		"{b} is poisoned by {a}'s fangs!",
		"Venom courses through {b}!",
	}
	toxicLines = []string{
		"{a} recoils from {b}'s toxic hide!",
	}
	wallLines = []string{
		"{a} SLAMS into the wall!",
		"{a} crashes into the wall!",
		"Ouch! {a} hits the wall hard!",
	}
	poisonKOLines = []string{
		"The venom claims {a}!",
		"{a} succumbs to poison!",
	}
	koLines = []string{
		"K.O.! {a} defeats {b}!",
		"{a} is victorious over {b}!",
		"{b} goes down! {a} wins!",
	}
)

// pickLine chooses a random line and fills in the names.
func (s *Simulation) pickLine(lines []string, a, b string) string {
	i := int(s.rng.Float64() * float64(len(lines)))
	if i >= len(lines) {
		i = len(lines) - 1
	}
	return strings.NewReplacer("{a}", a, "{b}", b).Replace(lines[i])
}
