package genome

import (
	"encoding/json"
	"math"
	"math/rand/v2"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/bugfights/traits"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func checkStats(t *testing.T, g Genome) {
	t.Helper()
	for _, v := range []int{g.Bulk, g.Speed, g.Fury, g.Instinct} {
		if v < StatMin || v > StatMax {
			t.Fatalf("stat %d out of range in %+v", v, g)
		}
	}
	if g.StatTotal() > StatCap {
		t.Fatalf("stat total %d exceeds cap", g.StatTotal())
	}
}

func checkWings(t *testing.T, g Genome) {
	t.Helper()
	if (g.Wings == traits.WingsNone) != (g.Mobility != traits.Winged) {
		t.Fatalf("wing type %s inconsistent with mobility %s", g.Wings, g.Mobility)
	}
}

func TestGenerateInvariants(t *testing.T) {
	r := newRand(1)
	for i := 0; i < 2000; i++ {
		g := Generate(r)
		checkStats(t, g)
		checkWings(t, g)
		if err := g.Validate(); err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if g.Color.Hue < 0 || g.Color.Hue >= 360 || g.AccentHue < 0 || g.AccentHue >= 360 {
			t.Fatalf("hue out of range: %v / %v", g.Color.Hue, g.AccentHue)
		}
	}
}

func TestBreedInvariants(t *testing.T) {
	r := newRand(2)
	for i := 0; i < 2000; i++ {
		a, b := Generate(r), Generate(r)
		child := Breed(r, a, b)
		checkStats(t, child)
		checkWings(t, child)
	}
}

func TestBreedDoesNotInflateWeakParents(t *testing.T) {
	r := newRand(3)
	weak := Genome{Bulk: 20, Speed: 20, Fury: 20, Instinct: 20, Wings: traits.WingsNone}
	for i := 0; i < 500; i++ {
		child := Breed(r, weak, weak)
		// Mean 20 ± 10 jitter per stat, never scaled up toward the cap
		if child.StatTotal() > 4*30 {
			t.Fatalf("child stat total %d inflated beyond jitter", child.StatTotal())
		}
	}
}

func TestBreedLeavesParentsUntouched(t *testing.T) {
	r := newRand(4)
	a, b := Generate(r), Generate(r)
	aCopy, bCopy := a, b
	_ = Breed(r, a, b)
	if a != aCopy || b != bCopy {
		t.Error("Breed modified a parent")
	}
}

func TestCapStats(t *testing.T) {
	tests := []struct {
		name string
		in   Genome
	}{
		{"all max", Genome{Bulk: 100, Speed: 100, Fury: 100, Instinct: 100}},
		{"lopsided", Genome{Bulk: 100, Speed: 100, Fury: 100, Instinct: 60}},
		{"just over", Genome{Bulk: 88, Speed: 88, Fury: 88, Instinct: 88}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.in
			g.capStats()
			if g.StatTotal() > StatCap {
				t.Errorf("total %d > %d", g.StatTotal(), StatCap)
			}
			if g.StatTotal() < StatCap-4 {
				t.Errorf("total %d rescaled too far below cap", g.StatTotal())
			}
		})
	}

	under := Genome{Bulk: 50, Speed: 50, Fury: 50, Instinct: 50}
	under.capStats()
	if under.StatTotal() != 200 {
		t.Errorf("stats under the cap changed: total %d", under.StatTotal())
	}
}

func TestBlendHue(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{10, 350, 0},
		{350, 10, 0},
		{0, 90, 45},
		{90, 0, 45},
		{300, 60, 0},
		{170, 190, 180},
	}

	for _, tt := range tests {
		got := BlendHue(tt.a, tt.b)
		// Compare on the circle so 359.999 matches 0
		diff := math.Abs(math.Mod(got-tt.want+540, 360) - 180)
		if diff > 1e-9 {
			t.Errorf("BlendHue(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRecordRoundTrip(t *testing.T) {
	g := Generate(newRand(5))

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	var fromJSON Genome
	if err := json.Unmarshal(data, &fromJSON); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if fromJSON != g {
		t.Errorf("json round trip mismatch:\n got %+v\nwant %+v", fromJSON, g)
	}

	data, err = yaml.Marshal(g)
	if err != nil {
		t.Fatalf("yaml.Marshal: %v", err)
	}
	var fromYAML Genome
	if err := yaml.Unmarshal(data, &fromYAML); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if fromYAML != g {
		t.Errorf("yaml round trip mismatch:\n got %+v\nwant %+v", fromYAML, g)
	}
}

func TestName(t *testing.T) {
	r := newRand(6)
	g := Genome{Weapon: traits.Horn, Abdomen: traits.AbdomenTapered}
	name := g.Name(r)
	if name == "" || name == "Bug" {
		t.Errorf("unexpected name %q", name)
	}
}
