// Command resortsim runs the ski resort foot traffic simulation.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/api"
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/economy"
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/engine"
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/entropy"
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/persistence"
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/resort"
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/tuning"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("resortsim — ski resort traffic flow simulation")

	seed := entropy.ResolveSeed(envInt64("RESORTSIM_SEED", 42))
	dbPath := envString("RESORTSIM_DB", "data/resort.db")
	apiPort := int(envInt64("RESORTSIM_PORT", 8080))
	visitorTarget := int(envInt64("RESORTSIM_VISITORS", 120))

	// ── Tuning ────────────────────────────────────────────────────────
	cfg := tuning.Default()
	if path := os.Getenv("RESORTSIM_TUNING"); path != "" {
		loaded, err := tuning.Load(path)
		if err != nil {
			slog.Error("failed to load tuning", "path", path, "error", err)
			os.Exit(1)
		}
		cfg = loaded
		slog.Info("tuning loaded", "path", path)
	}

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll("data", 0755)
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	// ── Terrain (always regenerated — deterministic from seed) ────────
	terrainCfg := resort.DefaultTerrainConfig()
	terrainCfg.Seed = entropy.SubSeed(seed, 1)
	terrain := resort.NewTerrain(terrainCfg)

	// ── Simulation ────────────────────────────────────────────────────
	eco := economy.NewDayCycle(visitorTarget, cfg.LodgeBasePrice)
	sim := engine.NewSimulation(&cfg, eco, seed)
	sim.AddBaseSpawn(resort.Vec3{
		X: 0,
		Y: terrain.HeightAt(0, terrainCfg.Extent*0.8),
		Z: terrainCfg.Extent * 0.8,
	}, "Base Village")

	// ── Load or Generate Infrastructure ───────────────────────────────
	trails, lifts, loadErr := db.LoadInfrastructure()
	if loadErr == nil && (len(trails) > 0 || len(lifts) > 0) {
		slog.Info("found saved resort, loading...")
		var maxID resort.EntityID
		for _, l := range lifts {
			sim.AddLift(l)
			if l.ID > maxID {
				maxID = l.ID
			}
		}
		for _, t := range trails {
			sim.AddTrail(t)
			if t.ID > maxID {
				maxID = t.ID
			}
		}
		sim.SetNextEntityID(maxID + 1)
		if tickStr, err := db.GetMeta("last_tick"); err == nil {
			if t, err := strconv.ParseUint(tickStr, 10, 64); err == nil {
				sim.LastTick = t
			}
		}
		slog.Info("resort restored", "layout", resort.DescribeLayout(lifts, trails),
			"tick", sim.LastTick, "sim_time", engine.SimTime(sim.LastTick))
	} else {
		slog.Info("no saved resort found, generating demo layout...")
		genCfg := resort.DefaultGenConfig()
		genCfg.Seed = entropy.SubSeed(seed, 2)
		genLifts, genTrails := resort.GenerateDemoResort(terrain, genCfg, sim.NextEntityID)
		for _, l := range genLifts {
			sim.AddLift(l)
		}
		for _, t := range genTrails {
			sim.AddTrail(t)
		}
		slog.Info("demo resort generated", "layout", resort.DescribeLayout(genLifts, genTrails))
		if err := db.SaveResortState(sim); err != nil {
			slog.Error("initial save failed", "error", err)
		}
	}

	g := sim.Graph()
	slog.Info("traversal graph ready", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	// ── Batch Mode ────────────────────────────────────────────────────
	// RESORTSIM_DAYS=n simulates n full days and exits: useful for
	// balancing runs and layout experiments.
	if days := int(envInt64("RESORTSIM_DAYS", 0)); days > 0 {
		for i := 0; i < days; i++ {
			stats := sim.RunDay(sim.CurrentTick())
			if err := db.SaveDayStats(stats); err != nil {
				slog.Error("day stats save failed", "error", err)
			}
		}
		if err := db.SaveResortState(sim); err != nil {
			slog.Error("final save failed", "error", err)
		}
		fmt.Printf("Simulated %d days. Final rate multiplier %.2f.\n",
			days, eco.VisitorRateMultiplier)
		return
	}

	// ── Real-Time Mode ────────────────────────────────────────────────
	eng := engine.NewEngine()
	eng.Tick = sim.LastTick
	eng.Speed = 1

	eng.OnTick = sim.TickMinute
	eng.OnHour = func(tick uint64) {
		// Spread the day's arrival target over the operating hours.
		perHour := eco.TodaysVisitors() * engine.TicksPerSimHour / engine.TicksPerSimDay
		sim.SpawnArrivals(perHour)
	}
	eng.OnDay = func(tick uint64) {
		avg := sim.AverageSatisfaction()
		sim.TickDay(tick)
		eco.RecordDaySatisfaction(avg)
		if err := db.SaveResortState(sim); err != nil {
			slog.Error("daily save failed", "error", err)
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	adminKey := os.Getenv("RESORTSIM_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("RESORTSIM_ADMIN_KEY not set — admin POST endpoints will be disabled")
	}

	apiServer := &api.Server{
		Sim:      sim,
		Eng:      eng,
		DB:       db,
		Port:     apiPort,
		AdminKey: adminKey,
	}
	apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("\nResort is open: %d lifts, %d trails.\n", len(sim.Lifts), len(sim.Trails))
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", apiPort)
	if sim.LastTick > 0 {
		fmt.Printf("Resuming from tick %d (%s)\n", sim.LastTick, engine.SimTime(sim.LastTick))
	}
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	// Final save on shutdown.
	slog.Info("final save...")
	if err := db.SaveResortState(sim); err != nil {
		slog.Error("final save failed", "error", err)
	}

	fmt.Println("Simulation stopped. Resort state saved.")
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}
