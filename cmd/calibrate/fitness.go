package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/pthm-cable/bugfights/config"
	"github.com/pthm-cable/bugfights/game"
	"github.com/pthm-cable/bugfights/genome"
	"github.com/pthm-cable/bugfights/roster"
)

// Sample is one decided fight.
type Sample struct {
	Left   genome.Genome
	Right  genome.Genome
	Winner int // game.WinnerLeft or game.WinnerRight
}

// CollectSamples runs one headless simulation per seed in parallel and
// returns every decided fight. Draws carry no signal for the odds and are
// skipped.
func CollectSamples(cfg *config.Config, seeds []uint64, fights, maxTicks int) ([]Sample, error) {
	results := make([][]Sample, len(seeds))
	errs := make([]error, len(seeds))
	var wg sync.WaitGroup

	for i, seed := range seeds {
		wg.Add(1)
		go func(idx int, s uint64) {
			defer wg.Done()
			results[idx], errs[idx] = runSeed(cfg, s, fights, maxTicks)
		}(i, seed)
	}
	wg.Wait()

	var all []Sample
	for i, r := range results {
		if errs[i] != nil {
			return nil, fmt.Errorf("seed %d: %w", seeds[i], errs[i])
		}
		all = append(all, r...)
	}
	return all, nil
}

// runSeed plays fights until it has the requested number of results or runs
// out of ticks.
func runSeed(cfg *config.Config, seed uint64, fights, maxTicks int) ([]Sample, error) {
	bugs, err := roster.New(cfg.Roster, 0, rand.New(rand.NewPCG(seed, seed^0x5bd1e995)), nil)
	if err != nil {
		return nil, err
	}
	sim, err := game.New(cfg, bugs, game.Options{Seed: seed})
	if err != nil {
		return nil, err
	}

	samples := make([]Sample, 0, fights)
	recorded := 0
	for len(samples) < fights && sim.Tick() < maxTicks {
		sim.Update()
		if sim.Phase() != game.PhaseVictory || sim.FightNumber() == recorded {
			continue
		}
		recorded = sim.FightNumber()
		w, _ := sim.Winner()
		if w == game.WinnerDraw {
			continue
		}
		st := sim.GetState()
		samples = append(samples, Sample{Left: st.Bugs[0], Right: st.Bugs[1], Winner: w})
	}
	return samples, nil
}

// Evaluator scores odds parameters against recorded fights.
type Evaluator struct {
	params  *ParamVector
	base    config.OddsConfig
	samples []Sample
}

// NewEvaluator creates an evaluator over a fixed sample set.
func NewEvaluator(params *ParamVector, base config.OddsConfig, samples []Sample) *Evaluator {
	return &Evaluator{params: params, base: base, samples: samples}
}

// Odds returns the base odds config with raw parameter values applied.
func (e *Evaluator) Odds(raw []float64) config.OddsConfig {
	c := e.base
	e.params.Apply(&c, raw)
	return c
}

// Evaluate returns the Brier score of the left-side win probability over all
// samples (lower = better). An empty sample set scores 0.25, the score of a
// coin flip.
func (e *Evaluator) Evaluate(raw []float64) float64 {
	if len(e.samples) == 0 {
		return 0.25
	}
	c := e.Odds(raw)
	var sum float64
	for _, s := range e.samples {
		p := game.ComputeOdds(s.Left, s.Right, c).Left.WinProbability
		y := 0.0
		if s.Winner == game.WinnerLeft {
			y = 1
		}
		sum += (p - y) * (p - y)
	}
	return sum / float64(len(e.samples))
}

// Accuracy returns the fraction of samples the favorite won. Even matchups
// count as half right.
func (e *Evaluator) Accuracy(raw []float64) float64 {
	if len(e.samples) == 0 {
		return math.NaN()
	}
	c := e.Odds(raw)
	var right float64
	for _, s := range e.samples {
		p := game.ComputeOdds(s.Left, s.Right, c).Left.WinProbability
		switch {
		case p == 0.5:
			right += 0.5
		case (p > 0.5) == (s.Winner == game.WinnerLeft):
			right++
		}
	}
	return right / float64(len(e.samples))
}
