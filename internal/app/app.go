package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/courtledger/courtledger/internal/config"
	"github.com/courtledger/courtledger/internal/domain/drift"
	"github.com/courtledger/courtledger/internal/domain/feed"
	"github.com/courtledger/courtledger/internal/domain/game"
	"github.com/courtledger/courtledger/internal/domain/runreport"
	"github.com/courtledger/courtledger/internal/domain/teamgame"
	"github.com/courtledger/courtledger/internal/infrastructure/repository/memory"
	"github.com/courtledger/courtledger/internal/infrastructure/repository/postgres"
	"github.com/courtledger/courtledger/internal/interfaces/httpapi"
	"github.com/courtledger/courtledger/internal/platform/logging"
	"github.com/courtledger/courtledger/internal/usecase"
)

// MemoryDBURL selects the seeded in-memory repositories instead of
// postgres, for local runs without a database.
const MemoryDBURL = "memory"

// App wires the repositories and services behind every entrypoint.
type App struct {
	Config config.Config
	Logger *logging.Logger

	Games     game.Repository
	TeamGames teamgame.Repository
	Drift     drift.Repository
	Reports   runreport.Repository

	Pipeline *usecase.PipelineService
	DriftSvc *usecase.DriftService

	db *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	a := &App{Config: cfg, Logger: logger}

	var (
		feedRepo     feed.Repository
		overrideRepo game.OverrideRepository
	)
	if cfg.DBURL == MemoryDBURL {
		feedRepo = memory.NewFeedRepository(
			memory.SeedGameLogRows(),
			memory.SeedBoxScoreTeamRows(),
			memory.SeedLegacyGameRows(),
		)
		overrideRepo = memory.NewOverrideRepository(memory.SeedOverrides())
		a.Games = memory.NewGameRepository()
		a.TeamGames = memory.NewTeamGameRepository()
		a.Drift = memory.NewDriftRepository()
		a.Reports = memory.NewRunReportRepository()
	} else {
		db, err := openDB(cfg.DBURL, cfg.DBDisablePreparedBinary)
		if err != nil {
			return nil, err
		}
		a.db = db
		feedRepo = postgres.NewFeedRepository(db)
		overrideRepo = postgres.NewOverrideRepository(db)
		a.Games = postgres.NewGameRepository(db)
		a.TeamGames = postgres.NewTeamGameRepository(db)
		a.Drift = postgres.NewDriftRepository(db)
		a.Reports = postgres.NewRunReportRepository(db)
	}

	reconcileThresholds := usecase.ReconcileThresholds{
		PointsTolerance:   cfg.Engine.PointsTolerance,
		RegulationMinutes: cfg.Engine.RegulationMinutes,
		OvertimeMinutes:   cfg.Engine.OvertimeMinutes,
		MinutesTolerance:  cfg.Engine.MinutesTolerance,
	}
	driftThresholds := usecase.DriftThresholds{
		MajorMeanShift:  cfg.Engine.MajorMeanShift,
		MajorPSI:        cfg.Engine.MajorPSI,
		BaselineSeasons: cfg.Engine.BaselineSeasons,
		Workers:         cfg.Engine.DriftWorkers,
	}

	a.DriftSvc = usecase.NewDriftService(a.Drift, driftThresholds, cfg.Engine.DriftMetrics, logger)
	a.Pipeline = usecase.NewPipelineService(
		usecase.NewNormalizeService(feedRepo, logger),
		usecase.NewIdentityService(logger),
		usecase.NewAttributeService(overrideRepo, logger),
		usecase.NewReconcileService(reconcileThresholds, logger),
		usecase.NewImputeService(logger),
		a.DriftSvc,
		a.Games,
		a.TeamGames,
		a.Reports,
		logger,
	)

	return a, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// NewHTTPServer builds the read-only inspection server.
func (a *App) NewHTTPServer() (*http.Server, error) {
	handler := httpapi.NewHandler(a.Reports, a.Drift, a.Logger)
	router := httpapi.NewRouter(handler, a.Logger)

	server := &http.Server{
		Addr:         a.Config.HTTPAddr,
		Handler:      router,
		ReadTimeout:  a.Config.ReadTimeout,
		WriteTimeout: a.Config.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
