// Command industrysim runs the civilian logistics and defense engine against
// a generated galaxy, saving its state to SQLite.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/civic-industry/internal/config"
	"github.com/talgya/civic-industry/internal/engine"
	"github.com/talgya/civic-industry/internal/industry"
	"github.com/talgya/civic-industry/internal/persistence"
	"github.com/talgya/civic-industry/internal/telemetry"
	"github.com/talgya/civic-industry/internal/world"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config overriding the embedded defaults")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	slog.Info("civic industry engine", "controllers", len(cfg.Controllers), "planets", cfg.Galaxy.Planets)

	// ── Database ──────────────────────────────────────────────────────
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
		slog.Error("failed to create data directory", "error", err)
		os.Exit(1)
	}
	db, err := persistence.Open(cfg.Database.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.Database.Path)

	// ── Load or Generate ──────────────────────────────────────────────
	var (
		galaxy      *world.Galaxy
		controllers []*industry.Controller
		startTick   uint64
	)

	if db.HasState() {
		slog.Info("found saved state, loading...")
		seed := storedSeed(db, cfg.Galaxy.Seed)

		var loadErr error
		galaxy, startTick, loadErr = db.LoadSnapshot()
		if loadErr != nil {
			slog.Error("failed to load galaxy snapshot", "error", loadErr)
			os.Exit(1)
		}
		controllers, loadErr = db.LoadControllers(uint64(seed))
		if loadErr != nil {
			slog.Error("failed to load controllers", "error", loadErr)
			os.Exit(1)
		}
		if last := db.LastTick(); last > startTick {
			startTick = last
		}
		if len(controllers) == 0 {
			slog.Warn("saved state has no controllers, rebuilding from config")
			controllers = newControllers(cfg, galaxy, seed)
		}

		slog.Info("state restored",
			"tick", startTick,
			"controllers", len(controllers),
			"entities", humanize.Comma(int64(len(galaxy.Entities))),
		)
	} else {
		slog.Info("no saved state found, generating new galaxy...")
		seed := cfg.Galaxy.Seed
		if seed == 0 {
			seed = rand.Int63()
		}
		galaxy = world.Generate(world.GenConfig{
			Planets:        cfg.Galaxy.Planets,
			Seed:           seed,
			WormholeRadius: cfg.Galaxy.WormholeRadius,
			Spacing:        cfg.Galaxy.Spacing,
		})
		controllers = newControllers(cfg, galaxy, seed)
		if err := db.SaveMeta(persistence.MetaSeed, strconv.FormatInt(seed, 10)); err != nil {
			slog.Error("failed to save seed", "error", err)
		}

		owners := world.OwnerCounts(galaxy)
		slog.Info("galaxy generated",
			"seed", seed,
			"planets", len(galaxy.Planets),
			"player_planets", owners[world.FactionPlayer],
			"hostile_planets", owners[world.FactionHostile],
			"entities", humanize.Comma(int64(len(galaxy.Entities))),
		)
	}

	// ── Simulation ────────────────────────────────────────────────────
	sim := engine.NewSimulation(galaxy, nil, controllers)
	sim.LastTick = startTick

	// Save on fresh generation only (loaded state is already saved).
	if startTick == 0 {
		if err := db.SaveState(sim, galaxy); err != nil {
			slog.Error("initial save failed", "error", err)
		}
	}

	// ── Telemetry ─────────────────────────────────────────────────────
	var out *telemetry.OutputManager
	if cfg.Telemetry.Enabled {
		out, err = telemetry.NewOutputManager(cfg.Telemetry.Dir)
		if err != nil {
			slog.Warn("telemetry disabled", "error", err)
			out = nil
		}
		if err := out.WriteConfig(cfg); err != nil {
			slog.Warn("failed to write telemetry config", "error", err)
		}
	}
	defer out.Close()

	eng := engine.NewEngine()
	eng.Tick = startTick
	eng.Speed = cfg.Engine.Speed
	eng.Interval = cfg.Engine.Interval
	eng.PlanEvery = cfg.Engine.PlanEvery
	eng.SummaryEvery = cfg.Engine.SummaryEvery
	eng.SaveEvery = cfg.Engine.SaveEvery

	eng.OnTick = func(tick uint64) {
		sim.Tick(tick)
		galaxy.Advance()
		sim.NotifyDestroyed(galaxy.DrainDestroyed()...)
	}
	eng.OnPlan = func(tick uint64) {
		sim.Plan(tick)
		if err := out.WriteCycle(telemetry.CycleRecords(tick, sim.Controllers)); err != nil {
			slog.Warn("telemetry write failed", "error", err)
		}
	}
	eng.OnSummary = sim.LogSummary
	eng.OnSave = func(tick uint64) {
		save(db, sim, galaxy, cfg.Database.KeepSnapshots)
	}

	// ── Start ─────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if startTick > 0 {
		fmt.Printf("Resuming from tick %s\n", humanize.Comma(int64(startTick)))
	}
	fmt.Println("Starting engine... (Ctrl+C to stop)")

	eng.Run(ctx)
	stop()

	slog.Info("final save...")
	save(db, sim, galaxy, cfg.Database.KeepSnapshots)

	fmt.Println("Engine stopped. State saved.")
}

// newControllers builds one controller per configured faction. A home planet
// of 0 picks the first planet owned by the patron faction.
func newControllers(cfg *config.Config, g *world.Galaxy, seed int64) []*industry.Controller {
	out := make([]*industry.Controller, 0, len(cfg.Controllers))
	for i, cc := range cfg.Controllers {
		home := world.PlanetID(cc.HomePlanet)
		if home == world.NoPlanet {
			home = firstPlanetOwnedBy(g, world.FactionPlayer)
		}
		if _, ok := g.Planet(home); !ok {
			slog.Warn("controller home planet not found, skipping", "faction", cc.Faction, "home", home)
			continue
		}
		c := industry.NewController(world.FactionID(cc.Faction), world.FactionID(cc.RaiderFaction), home, uint64(seed)+uint64(i))
		c.CostIntensity = cc.CostIntensity
		out = append(out, c)
	}
	return out
}

func firstPlanetOwnedBy(g *world.Galaxy, f world.FactionID) world.PlanetID {
	for _, id := range g.PlanetIDs() {
		if p, ok := g.Planet(id); ok && p.Owner == f {
			return id
		}
	}
	return world.NoPlanet
}

func storedSeed(db *persistence.DB, fallback int64) int64 {
	v, err := db.GetMeta(persistence.MetaSeed)
	if err != nil {
		return fallback
	}
	seed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("bad seed in world_meta", "value", v)
		return fallback
	}
	return seed
}

func save(db *persistence.DB, sim *engine.Simulation, g *world.Galaxy, keep int) {
	if err := db.SaveState(sim, g); err != nil {
		slog.Error("save failed", "error", err)
		return
	}
	if keep <= 0 {
		return
	}
	pruned, err := db.PruneSnapshots(keep)
	if err != nil {
		slog.Warn("snapshot prune failed", "error", err)
		return
	}
	if pruned > 0 {
		slog.Debug("pruned snapshots", "count", pruned)
	}
}
