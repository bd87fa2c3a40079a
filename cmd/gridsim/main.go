package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gridsim/server/internal/component"
	"github.com/gridsim/server/internal/config"
	"github.com/gridsim/server/internal/core/event"
	coresys "github.com/gridsim/server/internal/core/system"
	"github.com/gridsim/server/internal/data"
	"github.com/gridsim/server/internal/scripting"
	"github.com/gridsim/server/internal/system"
	"github.com/gridsim/server/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("GRIDSIM_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.Info("starting",
		zap.String("server", cfg.Server.Name),
		zap.Duration("tick_rate", cfg.Sim.TickRate),
		zap.Float64("cell_size", cfg.Grid.CellSize))

	// 3. Load scenario tables
	scenario, err := data.LoadScenario(cfg.Scenario.Path)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	log.Info("scenario loaded",
		zap.String("path", cfg.Scenario.Path),
		zap.Int("archetypes", scenario.Count()),
		zap.Int("actors", scenario.TotalActors()))

	// 4. Init Lua steering engine
	luaEngine, err := scripting.NewEngine(cfg.Scenario.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()

	// 5. Build world state over the spatial partition
	ws, err := world.NewState(cfg.Grid.Spatial(), log)
	if err != nil {
		return fmt.Errorf("world state: %w", err)
	}

	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	spawned, err := spawnActors(ws, scenario, rng)
	if err != nil {
		return fmt.Errorf("spawn actors: %w", err)
	}
	log.Info("actors spawned", zap.Int("count", spawned), zap.Int64("seed", seed))

	// Proximity traffic is the main observable; keep it on debug.
	event.Subscribe(ws.Bus, func(ev event.ProximityEnter) {
		log.Debug("proximity enter",
			zap.Uint64("observer", uint64(ev.Observer)),
			zap.Uint64("subject", uint64(ev.Subject)))
	})
	event.Subscribe(ws.Bus, func(ev event.ProximityLeave) {
		log.Debug("proximity leave",
			zap.Uint64("observer", uint64(ev.Observer)),
			zap.Uint64("subject", uint64(ev.Subject)))
	})

	// 6. Register tick systems
	runner := coresys.NewRunner()
	runner.Register(system.NewEventDispatchSystem(ws))
	runner.Register(system.NewMovementSystem(ws, luaEngine, cfg.Grid.Spatial().Bounds, cfg.Sim.SteerInterval, log))
	runner.Register(system.NewVisibilitySystem(ws, cfg.Sim.VisibilityInterval))
	runner.Register(system.NewStatsSystem(ws, cfg.Sim.StatsInterval, log))
	runner.Register(system.NewCleanupSystem(ws))

	// 7. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Sim.TickRate)
	defer ticker.Stop()

	log.Info("game loop running", zap.Duration("tick", cfg.Sim.TickRate))

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Sim.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			st := ws.Grid.Stats()
			log.Info("final grid occupancy",
				zap.Int("actors", ws.ActorCount()),
				zap.Int("total_cells", st.TotalCells),
				zap.Int("occupied_cells", st.OccupiedCells))
			return nil
		}
	}
}

// spawnActors creates actor instances from the scenario templates.
func spawnActors(ws *world.State, scenario *data.Scenario, rng *rand.Rand) (int, error) {
	total := 0
	var spawnErr error
	scenario.Each(func(t *data.ArchetypeTemplate) {
		if spawnErr != nil {
			return
		}
		for i := 0; i < t.Count; i++ {
			x := t.SpawnX
			y := t.SpawnY
			if t.SpawnSpread > 0 {
				x += (rng.Float64()*2 - 1) * t.SpawnSpread
				y += (rng.Float64()*2 - 1) * t.SpawnSpread
			}
			heading := rng.Float64() * 2 * math.Pi
			motion := component.Motion{
				VX:    math.Cos(heading) * t.Speed,
				VY:    math.Sin(heading) * t.Speed,
				Speed: t.Speed,
			}
			if _, err := ws.Spawn(t.Name, x, y, motion, t.PerceptionRadius); err != nil {
				spawnErr = err
				return
			}
			total++
		}
	})
	return total, spawnErr
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
