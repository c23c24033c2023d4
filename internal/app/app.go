package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/league-scheduler-api/internal/repository"
	"github.com/noah-isme/league-scheduler-api/internal/scheduling"
	"github.com/noah-isme/league-scheduler-api/internal/service"
	"github.com/noah-isme/league-scheduler-api/pkg/cache"
	"github.com/noah-isme/league-scheduler-api/pkg/config"
	"github.com/noah-isme/league-scheduler-api/pkg/database"
)

// App owns the connections and services shared by the HTTP server and the CLI.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	DB      *sqlx.DB
	Redis   *redis.Client
	Metrics *service.MetricsService

	Pairings  *service.PairingService
	Schedule  *service.ScheduleService
	AutoBuild *service.AutoBuildService
	Standings *service.StandingsService
	Brackets  *service.BracketService
}

// New connects to Postgres and, when caching is enabled, Redis. A Redis
// failure disables the view cache instead of aborting startup.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Logger: logger, DB: db, Metrics: service.NewMetricsService()}

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, view cache disabled", zap.Error(err))
		} else {
			a.Redis = client
			cacheRepo = repository.NewCacheRepository(client)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, a.Metrics, cfg.Cache.StandingsTTL, logger, cacheRepo != nil)

	pairingRepo := repository.NewPairingRepository(db)
	gameRepo := repository.NewGameRepository(db)
	timeslotRepo := repository.NewTimeslotRepository(db)
	leagueRepo := repository.NewLeagueRepository(db)
	validate := validator.New()

	a.Pairings = service.NewPairingService(pairingRepo, gameRepo, leagueRepo, db, validate, logger)
	a.Schedule = service.NewScheduleService(gameRepo, pairingRepo, leagueRepo, timeslotRepo, db, cacheSvc, a.Metrics, validate, logger)
	a.AutoBuild = service.NewAutoBuildService(gameRepo, pairingRepo, leagueRepo, timeslotRepo, db, cacheSvc, a.Metrics, service.AutoBuildConfig{
		Shifter:             scheduling.YearShifter{Min: cfg.Scheduler.YearShiftMin, Max: cfg.Scheduler.YearShiftMax},
		IncludeBracketGames: cfg.Scheduler.IncludeBracketGames,
	}, validate, logger)
	a.Standings = service.NewStandingsService(leagueRepo, gameRepo, cacheSvc, cfg.Scheduler.WinLossSports, logger)
	a.Brackets = service.NewBracketService(leagueRepo, gameRepo, cacheSvc, logger)

	return a, nil
}

// HTTPServer wraps the router in a server bound to the configured port.
func (a *App) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Config.Port),
		Handler:           NewRouter(a),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * time.Minute,
	}
}

// Close releases the database and cache connections.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn("close redis", zap.Error(err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Warn("close postgres", zap.Error(err))
		}
	}
}
