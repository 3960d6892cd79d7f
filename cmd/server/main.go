package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"

	"burrowverse/internal/adapter/ambience"
	denmemory "burrowverse/internal/adapter/den/memory"
	gridstatic "burrowverse/internal/adapter/grid/static"
	httpadapter "burrowverse/internal/adapter/http"
	"burrowverse/internal/adapter/journal/zstdlog"
	metricsinmem "burrowverse/internal/adapter/metrics/inmemory"
	"burrowverse/internal/adapter/path/bfs"
	gormrepo "burrowverse/internal/adapter/repo/gorm"
	memrepo "burrowverse/internal/adapter/repo/memory"
	"burrowverse/internal/adapter/stream/ws"
	"burrowverse/internal/adapter/telemetry/csvstats"
	"burrowverse/internal/app/behavior"
	"burrowverse/internal/app/observe"
	"burrowverse/internal/app/population"
	"burrowverse/internal/app/ports"
	"burrowverse/internal/app/registry"
	"burrowverse/internal/app/replay"
	"burrowverse/internal/app/status"
	"burrowverse/internal/app/turn"
	"burrowverse/internal/config"
	"burrowverse/internal/domain/creature"
	"burrowverse/internal/domain/grid"
)

func main() {
	cfg := mustLoadConfig()
	logger := buildLogger(cfg.Logging.Level)

	ctx, cancel := signalContext()
	defer cancel()

	runs, moves, events, tiles, denStates, txManager := mustBuildRepos(ctx, logger)
	record := mustLoadRun(ctx, runs, cfg, logger)

	dens := denmemory.NewDirectory(cfg.Dens.StoredFoodRestore)
	denCells := make([]grid.Cell, 0, len(cfg.Dens.Sites))
	for _, site := range cfg.Dens.Sites {
		if err := dens.Add(denmemory.DenSpec{ID: site.ID, X: site.X, Y: site.Y, Capacity: site.Capacity}); err != nil {
			log.Fatalf("den layout: %v", err)
		}
		denCells = append(denCells, grid.Cell{X: site.X, Y: site.Y})
	}
	if stored, err := denStates.List(ctx, cfg.RunID); err != nil {
		logger.Warn("den state restore failed", slog.Any("err", err))
	} else {
		dens.Restore(stored)
	}

	g := gridstatic.NewProvider(ctx, gridstatic.Config{
		Width:    cfg.Grid.Width,
		Height:   cfg.Grid.Height,
		CellSize: cfg.Grid.CellSize,
		Seed:     record.Seed,
		DenCells: denCells,
		Tiles:    tiles,
		RunID:    cfg.RunID,
		Logger:   logger,
	})

	reg := registry.New(g, dens)
	params, err := cfg.SpeciesParams()
	if err != nil {
		log.Fatalf("species params: %v", err)
	}
	forageCount := seedForage(reg, g.Tiles(), params)

	metrics := metricsinmem.NewRecorder()
	turnUC := &turn.UseCase{
		TxManager: txManager,
		RunRepo:   runs,
		MoveRepo:  moves,
		EventRepo: events,
		Registry:  reg,
		Engine: &behavior.Engine{
			Registry:        reg,
			Grid:            g,
			Path:            bfs.New(),
			Dens:            dens,
			Inventory:       dens,
			WorkerBonusRate: creature.DefaultWorkerBonusRate,
			RNG:             rand.New(rand.NewSource(record.Seed)),
			Logger:          logger,
			Now:             time.Now,
		},
		Grid:    g,
		Metrics: metrics,
		Logger:  logger,
		Now:     time.Now,
		RunID:   cfg.RunID,
	}
	turnUC.Resume(record.Turn)

	visibility := &ambience.Visibility{
		Registry:   reg,
		Dens:       dens,
		FullRadius: cfg.Ambience.FullRadius,
		DenRadius:  cfg.Ambience.DenRadius,
	}
	audio := &ambience.AudioCue{Registry: reg, DangerRadius: cfg.Ambience.DangerRadius}
	stream := ws.NewServer(cfg.RunID, g, turnUC, logger)
	stream.AllowRemote = cfg.Server.AllowRemoteStream
	defer stream.Close()

	observers := []ports.TurnObserver{
		visibility,
		audio,
		&denmemory.Flusher{Dir: dens, Repo: denStates, Logger: logger},
		stream,
	}
	if cfg.Output.DataDir != "" {
		journal := zstdlog.New(filepath.Join(cfg.Output.DataDir, "journal"), logger, nil)
		defer journal.Close()
		observers = append(observers, journal)

		stats, err := csvstats.NewRecorder(filepath.Join(cfg.Output.DataDir, "telemetry"), logger)
		if err != nil {
			log.Fatalf("telemetry recorder: %v", err)
		}
		defer stats.Close()
		observers = append(observers, stats)
	}
	turnUC.Observers = observers

	popUC := &population.UseCase{
		Registry:  reg,
		Dens:      dens,
		EventRepo: events,
		Turns:     turnUC,
		Params:    params,
		Logger:    logger,
		Now:       time.Now,
	}
	placed, err := popUC.Seed(ctx, cfg.RunID, seedSpawns(cfg.Spawns))
	if err != nil {
		log.Fatalf("seed population: %v", err)
	}

	h := httpadapter.Handler{
		TurnUC:       turnUC,
		PopulationUC: popUC,
		ObserveUC:    &observe.UseCase{Registry: reg, Grid: g, Turns: turnUC, Logger: logger},
		StatusUC: &status.UseCase{
			Registry: reg,
			RunRepo:  runs,
			Turns:    turnUC,
			Metrics:  metrics,
			Audio:    audio,
			Sight:    visibility,
		},
		ReplayUC: replay.UseCase{Events: events},
		Metrics:  metrics,
		RunID:    cfg.RunID,
		APIKey:   cfg.Server.APIKey,
	}

	startStreamListener(ctx, cfg.Server.StreamAddr, stream, logger)

	s := server.Default(server.WithHostPorts(cfg.Server.HTTPAddr))
	h.RegisterRoutes(s)

	logger.Info("server up",
		slog.String("run_id", cfg.RunID),
		slog.Uint64("turn", record.Turn),
		slog.Int("agents", placed),
		slog.Int("forage_nodes", forageCount),
		slog.String("http", cfg.Server.HTTPAddr),
		slog.String("stream", cfg.Server.StreamAddr),
	)
	s.Spin()
}

func mustLoadConfig() *config.Config {
	cfg, err := config.Load(strings.TrimSpace(os.Getenv("BURROWVERSE_CONFIG")))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("validate config: %v", err)
	}
	return cfg
}

// applyEnvOverrides lets deploy environments replace addresses, seed,
// key and data directory without editing the YAML.
func applyEnvOverrides(cfg *config.Config) {
	cfg.RunID = strEnv("BURROWVERSE_RUN_ID", cfg.RunID)
	cfg.Seed = int64Env("BURROWVERSE_SEED", cfg.Seed)
	cfg.Server.HTTPAddr = strEnv("BURROWVERSE_HTTP_ADDR", cfg.Server.HTTPAddr)
	cfg.Server.StreamAddr = strEnv("BURROWVERSE_STREAM_ADDR", cfg.Server.StreamAddr)
	cfg.Server.APIKey = strEnv("BURROWVERSE_API_KEY", cfg.Server.APIKey)
	cfg.Output.DataDir = strEnv("BURROWVERSE_DATA_DIR", cfg.Output.DataDir)
}

func buildLogger(level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(level)}))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func mustBuildRepos(ctx context.Context, logger *slog.Logger) (ports.RunRepository, ports.MoveExecutionRepository, ports.TurnEventRepository, ports.TileRepository, ports.DenStateRepository, ports.TxManager) {
	dsn := strings.TrimSpace(os.Getenv("BURROWVERSE_DB_DSN"))
	if dsn == "" {
		logger.Info("no BURROWVERSE_DB_DSN, using in-memory repositories")
		store := memrepo.NewStore()
		return memrepo.NewRunRepo(store), memrepo.NewMoveExecutionRepo(store), memrepo.NewTurnEventRepo(store), memrepo.NewTileRepo(store), memrepo.NewDenStateRepo(store), memrepo.NewTxManager(store)
	}

	db, err := gormrepo.OpenPostgres(dsn)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	migrations := strEnv("BURROWVERSE_MIGRATIONS_DIR", "./migrations")
	if err := gormrepo.ApplyMigrations(ctx, db, migrations); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}
	return gormrepo.NewRunRepo(db), gormrepo.NewMoveExecutionRepo(db), gormrepo.NewTurnEventRepo(db), gormrepo.NewTileRepo(db), gormrepo.NewDenStateRepo(db), gormrepo.NewTxManager(db)
}

// mustLoadRun fetches or creates the run record. An existing record's
// seed wins over the configured one so a resumed run keeps its terrain.
func mustLoadRun(ctx context.Context, runs ports.RunRepository, cfg *config.Config, logger *slog.Logger) ports.RunRecord {
	record, err := runs.Get(ctx, cfg.RunID)
	if err == nil {
		if record.Seed != cfg.Seed {
			logger.Warn("configured seed ignored, run already sealed",
				slog.String("run_id", cfg.RunID),
				slog.Int64("run_seed", record.Seed),
				slog.Int64("config_seed", cfg.Seed))
		}
		return record
	}
	if !errors.Is(err, ports.ErrNotFound) {
		log.Fatalf("load run %s: %v", cfg.RunID, err)
	}
	record = ports.RunRecord{RunID: cfg.RunID, Seed: cfg.Seed, Version: 1}
	if err := runs.Create(ctx, record); err != nil {
		log.Fatalf("create run %s: %v", cfg.RunID, err)
	}
	return record
}

// seedForage scatters nodes over scrub tiles, one per three by cell
// hash, alternating the resource kinds prey and workers eat. Restore
// values track the consuming species' tunables.
func seedForage(reg *registry.Registry, tiles []grid.Tile, params map[creature.Species]creature.SpeciesParams) int {
	seedRestore := params[creature.SpeciesRabbit].ForageRestore
	grainRestore := params[creature.SpeciesPackRat].ForageRestore
	placed := 0
	for _, t := range tiles {
		if t.Kind != grid.TileScrub {
			continue
		}
		if (t.X*7+t.Y*13)%3 != 0 {
			continue
		}
		resource, restore := creature.ItemSeed, seedRestore
		if placed%2 == 1 {
			resource, restore = creature.ItemGrain, grainRestore
		}
		reg.AddForage(grid.Cell{X: t.X, Y: t.Y}, resource, restore, creature.DefaultForageRegrowTurns)
		placed++
	}
	return placed
}

func seedSpawns(spawns []config.SeedSpawn) []population.SeedSpawn {
	out := make([]population.SeedSpawn, 0, len(spawns))
	for _, s := range spawns {
		out = append(out, population.SeedSpawn{
			Species:   s.Species,
			X:         s.X,
			Y:         s.Y,
			Count:     s.Count,
			HomeDenID: s.HomeDenID,
		})
	}
	return out
}

func startStreamListener(ctx context.Context, addr string, stream *ws.Server, logger *slog.Logger) {
	if addr == "" {
		logger.Info("stream listener disabled")
		return
	}
	mux := http.NewServeMux()
	stream.Register(mux)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("stream listener failed", slog.Any("err", err))
		}
	}()
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

func strEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func int64Env(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
