package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/bugfights/config"
	"github.com/pthm-cable/bugfights/game"
	"github.com/pthm-cable/bugfights/roster"
	"github.com/pthm-cable/bugfights/server"
	"github.com/pthm-cable/bugfights/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	addr := flag.String("addr", "", "Listen address (empty = use config)")
	headless := flag.Bool("headless", false, "Run as fast as possible without the spectator server")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = time-based)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot (empty = use config)")
	rosterPath := flag.String("roster", "", "Roster file (empty = use config)")
	perfEvery := flag.Int("perf-every", 0, "Log timing stats every N ticks and per fight (0 = off)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *outputDir != "" {
		cfg.Telemetry.OutputDir = *outputDir
	}
	if *rosterPath != "" {
		cfg.Roster.Path = *rosterPath
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = uint64(time.Now().UnixNano())
	}

	if err := run(cfg, rngSeed, *headless, *maxTicks, *perfEvery); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, seed uint64, headless bool, maxTicks, perfEvery int) error {
	output, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
	if err != nil {
		return err
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Warn("failed to write config snapshot", "error", err)
	}

	var store roster.Store
	if cfg.Roster.Path != "" {
		store = &roster.FileStore{Path: cfg.Roster.Path}
	}
	bugs, err := roster.New(cfg.Roster, cfg.Derived.SaveDebounce, rand.New(rand.NewPCG(seed, seed+1)), store)
	if err != nil {
		return err
	}
	defer bugs.Close()

	collector := telemetry.NewCollector(cfg.Derived.TickSeconds, output, cfg.Telemetry.LogFights)
	var perf *telemetry.PerfCollector
	if perfEvery > 0 {
		perf = telemetry.NewPerfCollector(cfg.Sim.TickRate, nil)
		perf.OnFight(func(fp telemetry.FightPerf) {
			slog.Info("fight perf", "perf", fp)
			if err := output.WriteFightPerf(fp); err != nil {
				slog.Warn("failed to write fight perf", "error", err)
			}
		})
	}

	sim, err := game.New(cfg, bugs, game.Options{
		Seed:     seed,
		Observer: collector,
		Perf:     perf,
	})
	if err != nil {
		return err
	}
	collector.SetSnapshotSource(func() any { return sim.GetState() })

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting simulation",
		"seed", seed,
		"headless", headless,
		"max_ticks", maxTicks,
		"roster", bugs.Len(),
	)

	step := func() bool {
		sim.Update()
		tick := sim.Tick()
		if perfEvery > 0 && tick%perfEvery == 0 {
			stats := perf.Stats()
			stats.LogStats()
			if err := output.WritePerf(stats, tick); err != nil {
				slog.Warn("failed to write perf stats", "error", err)
			}
		}
		if maxTicks > 0 && tick >= maxTicks {
			slog.Info("max ticks reached", "tick", tick, "fights", collector.Fights())
			return false
		}
		return true
	}

	if headless {
		for ctx.Err() == nil && step() {
		}
		return nil
	}

	srv := server.New(cfg.Server, bugs)
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("server shutdown failed", "error", err)
		}
	}()

	ticker := time.NewTicker(cfg.Derived.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("shutting down", "tick", sim.Tick())
			return nil
		case err := <-errc:
			return err
		case <-ticker.C:
			if !step() {
				return nil
			}
			srv.Tick(sim.Tick(), func() any { return sim.GetState() })
		}
	}
}
