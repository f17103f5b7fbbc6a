// Package main tunes the odds trait bonuses with CMA-ES so that quoted win
// probabilities match how simulated fights actually turn out.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/bugfights/config"
)

// evalRow is one line of calibrate_log.csv.
type evalRow struct {
	Eval        int     `csv:"eval"`
	Brier       float64 `csv:"brier"`
	Horn        float64 `csv:"horn"`
	Stinger     float64 `csv:"stinger"`
	Shell       float64 `csv:"shell"`
	Winged      float64 `csv:"winged"`
	Wallcrawler float64 `csv:"wallcrawler"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	fights := flag.Int("fights", 200, "Decided fights to record per seed")
	maxTicks := flag.Int("max-ticks", 5000000, "Tick cap per seed")
	seeds := flag.Int("seeds", 4, "Number of parallel seeds")
	maxEvals := flag.Int("max-evals", 300, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if *outputDir == "" {
		fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fatal("failed to create output directory", "error", err)
	}

	if err := config.Init(*configPath); err != nil {
		fatal("failed to load config", "error", err)
	}
	baseCfg := config.Cfg()

	evalSeeds := make([]uint64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = uint64(i*1000 + 42)
	}

	fmt.Printf("Simulating %d fights on each of %d seeds...\n", *fights, *seeds)
	startTime := time.Now()
	samples, err := CollectSamples(baseCfg, evalSeeds, *fights, *maxTicks)
	if err != nil {
		fatal("failed to collect fights", "error", err)
	}
	fmt.Printf("Recorded %d decided fights in %s\n", len(samples), formatDuration(time.Since(startTime)))

	params := NewParamVector(baseCfg.Odds)
	evaluator := NewEvaluator(params, baseCfg.Odds, samples)
	defaults := params.DefaultVector()
	fmt.Printf("Baseline: brier=%.5f accuracy=%.3f\n", evaluator.Evaluate(defaults), evaluator.Accuracy(defaults))

	dim := params.Dim()
	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	var rows []evalRow
	bestFitness := evaluator.Evaluate(defaults)
	bestParams := defaults

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			rows = append(rows, evalRow{
				Eval:        len(rows) + 1,
				Brier:       fitness,
				Horn:        raw[0],
				Stinger:     raw[1],
				Shell:       raw[2],
				Winged:      raw[3],
				Wallcrawler: raw[4],
			})
			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = raw
			}
			if n := len(rows); n%25 == 0 {
				fmt.Printf("Eval %d/%d: brier=%.5f (best=%.5f)\n", n, *maxEvals, fitness, bestFitness)
			}
			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.2,
		Population:   popSize,
	}

	if _, err := optimize.Minimize(problem, params.Normalize(defaults), settings, method); err != nil {
		slog.Warn("optimization ended", "error", err)
	}

	fmt.Printf("\nCalibration complete after %d evaluations\n", len(rows))
	fmt.Printf("Best: brier=%.5f accuracy=%.3f\n", bestFitness, evaluator.Accuracy(bestParams))
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.2f\n", spec.Path, bestParams[i])
	}

	logPath := filepath.Join(*outputDir, "calibrate_log.csv")
	f, err := os.Create(logPath)
	if err != nil {
		fatal("failed to create log file", "error", err)
	}
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		slog.Error("failed to write evaluation log", "error", err)
	}
	f.Close()

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		fatal("failed to reload config", "error", err)
	}
	params.Apply(&bestCfg.Odds, bestParams)
	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		slog.Error("failed to write best config", "error", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}

func fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}
