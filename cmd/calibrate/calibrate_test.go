package main

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/bugfights/config"
	"github.com/pthm-cable/bugfights/game"
	"github.com/pthm-cable/bugfights/genome"
	"github.com/pthm-cable/bugfights/traits"
)

func init() {
	config.MustInit("")
}

func bug(w traits.Weapon) genome.Genome {
	return genome.Genome{
		Bulk:     50,
		Speed:    50,
		Fury:     50,
		Instinct: 50,
		Weapon:   w,
		Defense:  traits.NoDefense,
		Mobility: traits.Ground,
	}
}

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector(config.Cfg().Odds)
	def := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-9 {
			t.Errorf("%s: %v != %v", pv.Specs[i].Name, back[i], def[i])
		}
	}
	if def[0] != config.Cfg().Odds.Horn {
		t.Errorf("horn default = %v", def[0])
	}
}

func TestParamVectorClampAndApply(t *testing.T) {
	pv := NewParamVector(config.Cfg().Odds)
	var c config.OddsConfig
	pv.Apply(&c, []float64{1000, -1000, 5, 6, 7})

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"horn clamped high", c.Horn, pv.Specs[0].Max},
		{"stinger clamped low", c.Stinger, pv.Specs[1].Min},
		{"shell", c.Shell, 5},
		{"winged", c.Winged, 6},
		{"wallcrawler", c.Wallcrawler, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestEvaluatorRewardsPredictiveBonuses(t *testing.T) {
	// Horned bugs won every recorded fight, from either side
	samples := []Sample{
		{Left: bug(traits.Horn), Right: bug(traits.Mandibles), Winner: game.WinnerLeft},
		{Left: bug(traits.Mandibles), Right: bug(traits.Horn), Winner: game.WinnerRight},
		{Left: bug(traits.Horn), Right: bug(traits.Mandibles), Winner: game.WinnerLeft},
	}
	base := config.Cfg().Odds
	pv := NewParamVector(base)
	e := NewEvaluator(pv, base, samples)

	low := []float64{-40, base.Stinger, base.Shell, base.Winged, base.Wallcrawler}
	high := []float64{80, base.Stinger, base.Shell, base.Winged, base.Wallcrawler}
	if e.Evaluate(high) >= e.Evaluate(low) {
		t.Errorf("brier high=%v low=%v, want high < low", e.Evaluate(high), e.Evaluate(low))
	}
	if got := e.Accuracy(high); got != 1 {
		t.Errorf("accuracy = %v, want 1", got)
	}
	if got := e.Accuracy(low); got != 0 {
		t.Errorf("accuracy with negative bonus = %v, want 0", got)
	}
}

func TestEvaluatorEvenMatch(t *testing.T) {
	base := config.Cfg().Odds
	e := NewEvaluator(NewParamVector(base), base, []Sample{
		{Left: bug(traits.Mandibles), Right: bug(traits.Mandibles), Winner: game.WinnerRight},
	})
	def := NewParamVector(base).DefaultVector()
	if got := e.Evaluate(def); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("brier = %v, want 0.25", got)
	}
	if got := e.Accuracy(def); got != 0.5 {
		t.Errorf("accuracy = %v, want 0.5", got)
	}

	empty := NewEvaluator(NewParamVector(base), base, nil)
	if got := empty.Evaluate(def); got != 0.25 {
		t.Errorf("empty brier = %v", got)
	}
}

func TestRunSeedRecordsDecidedFights(t *testing.T) {
	samples, err := runSeed(config.Cfg(), 11, 2, 30*60*30)
	if err != nil {
		t.Fatalf("runSeed: %v", err)
	}
	if len(samples) == 0 || len(samples) > 2 {
		t.Fatalf("samples = %d, want 1 or 2", len(samples))
	}
	for i, s := range samples {
		if s.Winner != game.WinnerLeft && s.Winner != game.WinnerRight {
			t.Errorf("sample %d winner = %d", i, s.Winner)
		}
		if err := s.Left.Validate(); err != nil {
			t.Errorf("sample %d left genome: %v", i, err)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{59, "0m59s"},
		{125, "2m05s"},
		{3725, "1h02m05s"},
	}
	for _, tt := range tests {
		if got := formatDuration(time.Duration(tt.secs) * time.Second); got != tt.want {
			t.Errorf("formatDuration(%ds) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}
