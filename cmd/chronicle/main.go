// Command chronicle runs the tick-driven historical world simulation.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talgya/mini-world/internal/api"
	"github.com/talgya/mini-world/internal/applicator"
	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/domains/actions"
	"github.com/talgya/mini-world/internal/domains/conflicts"
	"github.com/talgya/mini-world/internal/domains/craft"
	"github.com/talgya/mini-world/internal/domains/crime"
	"github.com/talgya/mini-world/internal/domains/cultures"
	"github.com/talgya/mini-world/internal/domains/disease"
	"github.com/talgya/mini-world/internal/domains/economy"
	"github.com/talgya/mini-world/internal/domains/environment"
	"github.com/talgya/mini-world/internal/domains/politics"
	"github.com/talgya/mini-world/internal/domains/settlements"
	"github.com/talgya/mini-world/internal/llm"
	"github.com/talgya/mini-world/internal/persistence"
	"github.com/talgya/mini-world/internal/queue"
	"github.com/talgya/mini-world/internal/scheduler"
	"github.com/talgya/mini-world/internal/simcore"
	"github.com/talgya/mini-world/internal/simworld"
	"github.com/talgya/mini-world/internal/weather"
	"github.com/talgya/mini-world/internal/worldgen"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Chronicle — tick-driven historical world simulation")

	seed := int64(42)
	dbPath := "data/chronicle.db"
	apiPort := 8090

	os.MkdirAll("data", 0755)
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	var w *simworld.World
	if db.HasWorldState() {
		slog.Info("found saved world state, loading...")
		w = simworld.New(1, seed)
		if err := db.LoadWorld(w); err != nil {
			slog.Error("failed to load world", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Info("no saved state found, generating new world...")
		w = worldgen.Generate(worldgen.DefaultConfig())
		if err := db.SaveWorld(w); err != nil {
			slog.Error("initial save failed", "error", err)
		}
	}

	runID, err := db.RunID()
	if err != nil {
		slog.Error("failed to mint run id", "error", err)
		os.Exit(1)
	}
	slog.Info("world ready",
		"run_id", runID,
		"regions", len(w.Regions), "settlements", len(w.Settlements),
		"factions", len(w.Factions), "persons", len(w.Persons),
		"armies", len(w.Armies), "clock", w.Clock.String())

	// ── LLM narration client ─────────────────────────────────────────
	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")
	llmClient := llm.NewClient(anthropicKey)
	if llmClient != nil {
		slog.Info("LLM narration client enabled (Haiku)")
	} else {
		slog.Warn("ANTHROPIC_API_KEY not set — narration disabled")
	}

	// ── Weather client (feeds the environment domain) ────────────────
	weatherKey := os.Getenv("WEATHER_API_KEY")
	weatherLoc := os.Getenv("WEATHER_LOCATION")
	weatherClient := weather.NewClient(weatherKey, weatherLoc)
	if weatherClient != nil {
		slog.Info("weather client enabled", "location", weatherLoc)
	} else {
		slog.Info("WEATHER_API_KEY not set — environment events carry no live weather flavor")
	}

	// ── Wire the pipeline ─────────────────────────────────────────────
	cmdQueue := queue.New[commands.Command]()
	reactiveQueue := queue.New[commands.ReactiveEvent]()
	sched := scheduler.New()

	conflicts.New(w, cmdQueue).Register(sched)
	politics.New(w, cmdQueue, reactiveQueue).Register(sched)
	economy.New(w, cmdQueue).Register(sched)
	crime.New(w, cmdQueue).Register(sched)
	settlements.New(w, cmdQueue).Register(sched)
	cultures.New(w, cmdQueue).Register(sched)
	disease.New(w, cmdQueue).Register(sched)
	craft.New(w, cmdQueue).Register(sched)
	environment.New(w, cmdQueue, weatherClient).Register(sched)
	actions.New(w, cmdQueue).Register(sched)

	app := applicator.New(cmdQueue, reactiveQueue, seed)
	core := &simcore.Core{World: w, Scheduler: sched, Applicator: app}

	// ── Read-only HTTP API ────────────────────────────────────────────
	apiServer := &api.Server{
		World: w,
		DB:    db,
		LLM:   llmClient,
		Port:  apiPort,
	}
	apiServer.Start()

	// ── Run: one tick per second, auto-saving every simulated year ───
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	fmt.Printf("\nChronicle is running: %d regions, %d settlements, %d factions.\n",
		len(w.Regions), len(w.Settlements), len(w.Factions))
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", apiPort)
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

run:
	for {
		select {
		case <-stop:
			slog.Info("received shutdown signal")
			break run
		case <-ticker.C:
			if err := core.AdvanceOneTick(); err != nil {
				slog.Error("tick failed, stopping", "error", err)
				break run
			}
			if w.Clock.IsYearStart() {
				slog.Info("year boundary", "clock", w.Clock.String())
				if err := db.SaveWorld(w); err != nil {
					slog.Error("periodic save failed", "error", err)
				}
			}
		}
	}

	slog.Info("final save...")
	if err := db.SaveWorld(w); err != nil {
		slog.Error("final save failed", "error", err)
	}
	fmt.Println("Simulation stopped. World state saved.")
}
