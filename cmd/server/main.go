package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
	"sync"
	"time"

	"resurgent/internal/adapter/content/yamlcontent"
	staticguides "resurgent/internal/adapter/guides/static"
	httpadapter "resurgent/internal/adapter/http"
	metricsinmem "resurgent/internal/adapter/metrics/inmemory"
	gormrepo "resurgent/internal/adapter/repo/gorm"
	"resurgent/internal/adapter/repo/memory"
	sqliterepo "resurgent/internal/adapter/repo/sqlite"
	"resurgent/internal/adapter/snapshotfile"
	"resurgent/internal/adapter/world/mock"
	"resurgent/internal/adapter/world/noise"
	"resurgent/internal/app/action"
	"resurgent/internal/app/auth"
	"resurgent/internal/app/autoadvance"
	"resurgent/internal/app/catalog"
	"resurgent/internal/app/day"
	"resurgent/internal/app/observe"
	"resurgent/internal/app/ports"
	"resurgent/internal/app/replay"
	"resurgent/internal/app/shared/gamerun"
	"resurgent/internal/app/snapshot"
	"resurgent/internal/app/status"
	"resurgent/internal/config"
	"resurgent/internal/domain/city"
	"resurgent/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/google/uuid"
)

func main() {
	cfg, err := config.Load(os.Getenv("RESURGENT_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	content := city.DefaultContent()
	if cfg.Content != "" {
		content, err = yamlcontent.Load(cfg.Content)
		if err != nil {
			log.Fatalf("load content: %v", err)
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := newLockedRand(seed)
	sim := city.Simulator{
		Rand:    rng,
		Content: content,
		Seeder:  buildSeeder(cfg.MapSeeder, seed, rng),
		NewID:   uuid.NewString,
		Now:     time.Now,
	}

	store := mustBuildStorage(cfg, logger)
	defer store.close()

	kpiRecorder := metricsinmem.NewRecorder()
	runner := gamerun.Runner{
		TxManager: store.tx,
		StateRepo: store.states,
		EventRepo: store.events,
		Metrics:   kpiRecorder,
		Now:       time.Now,
	}
	creator := auth.CreateGameUseCase{
		Credentials: store.creds,
		StateRepo:   store.states,
		EventRepo:   store.events,
		TxManager:   store.tx,
		Sim:         sim,
		Now:         time.Now,
	}
	dayUC := day.UseCase{Runner: runner, Sim: sim}

	auto := autoadvance.NewRunner(context.Background(), dayUC, logger)
	defer auto.Close()

	guidesRoot := resolveGuidesRoot(cfg.GuidesRoot)
	h := httpadapter.Handler{
		CreateUC:  creator,
		AuthUC:    auth.VerifyUseCase{Credentials: store.creds},
		StatusUC:  status.UseCase{StateRepo: store.states, Auto: auto},
		ObserveUC: observe.UseCase{StateRepo: store.states},
		ActionUC:  action.UseCase{Runner: runner, Sim: sim},
		DayUC:     dayUC,
		ReplayUC:  replay.UseCase{StateRepo: store.states, EventRepo: store.events},
		SnapshotUC: snapshot.UseCase{
			StateRepo: store.states,
			Codec:     snapshotfile.Codec{},
			Creator:   creator,
			Sim:       sim,
		},
		CatalogUC:    catalog.UseCase{Content: content, Guides: staticguides.Provider{Root: guidesRoot}},
		Auto:         auto,
		AutoInterval: cfg.AutoInterval(),
		KPI:          kpiRecorder,
		CORSOrigins:  cfg.CORSOrigins,
	}

	s := server.Default(server.WithHostPorts(cfg.Addr))
	h.RegisterRoutes(s)

	log.Printf("resurgent server listening on %s (storage=%s seeder=%s guides=%s)", cfg.Addr, cfg.Storage, cfg.MapSeeder, guidesRoot)
	s.Spin()
}

type storage struct {
	states ports.GameStateRepository
	events ports.EventRepository
	creds  ports.GameCredentialRepository
	tx     ports.TxManager
	close  func()
}

func mustBuildStorage(cfg config.Config, logger *slog.Logger) storage {
	switch cfg.Storage {
	case config.StoragePostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		db, err := gormrepo.OpenPostgres(ctx, cfg.DBDSN, gormrepo.Options{MaxOpenConns: 16, PingAttempts: 10})
		if err != nil {
			log.Fatalf("open postgres: %v", err)
		}
		if err := gormrepo.ApplyMigrations(ctx, db, cfg.MigrationsDir); err != nil {
			log.Fatalf("apply migrations: %v", err)
		}
		return storage{
			states: gormrepo.NewGameStateRepo(db),
			events: gormrepo.NewEventRepo(db),
			creds:  gormrepo.NewGameCredentialRepo(db),
			tx:     gormrepo.NewTxManager(db),
			close: func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}
	case config.StorageSQLite:
		db, err := sqliterepo.Open(cfg.SQLitePath, logger)
		if err != nil {
			log.Fatalf("open sqlite: %v", err)
		}
		states := sqliterepo.NewGameStateRepo(db)
		last, err := states.LastGame(context.Background())
		switch {
		case err == nil:
			log.Printf("last saved game %s is on day %d", last.GameID, last.Day)
		case errors.Is(err, ports.ErrNotFound):
		default:
			// A damaged save must not keep the server down; new games still work.
			log.Printf("load last game: %v (starting without it)", err)
		}
		return storage{
			states: states,
			events: sqliterepo.NewEventRepo(db),
			creds:  sqliterepo.NewGameCredentialRepo(db),
			tx:     sqliterepo.NewTxManager(db),
			close:  func() { _ = db.Close() },
		}
	default:
		store := memory.NewStore()
		return storage{
			states: memory.NewGameStateRepo(store),
			events: memory.NewEventRepo(store),
			creds:  memory.NewGameCredentialRepo(store),
			tx:     memory.NewTxManager(store),
			close:  func() {},
		}
	}
}

func buildSeeder(kind string, seed int64, rng city.Rand) world.Seeder {
	switch kind {
	case config.SeederNoise:
		return noise.NewSeeder(noise.DefaultConfig(seed))
	case config.SeederFixed:
		return mock.Seeder{Zombies: 2, Resources: 8}
	default:
		return world.UniformSeeder{Rand: rng}
	}
}

// resolveGuidesRoot prefers the configured directory, then ./docs/guides when
// it exists next to the binary's working directory.
func resolveGuidesRoot(configured string) string {
	if root := strings.TrimSpace(configured); root != "" {
		return root
	}
	if st, err := os.Stat("./docs/guides"); err == nil && st.IsDir() {
		return "./docs/guides"
	}
	return "./guides"
}

// lockedRand lets concurrent requests and the auto-advance loop share one
// seeded source.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func newLockedRand(seed int64) *lockedRand {
	return &lockedRand{r: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}
