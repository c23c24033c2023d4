package app

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/noah-isme/league-scheduler-api/internal/handler"
	"github.com/noah-isme/league-scheduler-api/internal/middleware"
	"github.com/noah-isme/league-scheduler-api/pkg/config"
	"github.com/noah-isme/league-scheduler-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/league-scheduler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/league-scheduler-api/pkg/middleware/requestid"
)

// NewRouter mounts every endpoint on a gin engine.
func NewRouter(a *App) *gin.Engine {
	if a.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(a.Logger))
	r.Use(corsmiddleware.New(a.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(a.Metrics))

	checks := map[string]handler.ReadinessCheck{"postgres": a.DB.PingContext}
	if a.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() }
	}
	metricsHandler := handler.NewMetricsHandler(a.Metrics, checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if a.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	pairings := handler.NewPairingHandler(a.Pairings)
	schedule := handler.NewScheduleHandler(a.Schedule)
	autoBuild := handler.NewAutoBuildHandler(a.AutoBuild)
	results := handler.NewStandingsHandler(a.Standings, a.Brackets)

	api := r.Group(a.Config.APIPrefix)
	api.Use(middleware.ResponseMeta())

	api.POST("/pairings/round-robin", pairings.AddRoundRobin)
	api.POST("/pairings/elimination", pairings.AddElimination)
	api.POST("/pairings", pairings.Create)
	api.PUT("/pairings/:id", pairings.Update)
	api.DELETE("/pairings/:id", pairings.Delete)

	api.GET("/divisions/:id/pairings", pairings.ListByDivision)
	api.POST("/divisions/:id/auto-schedule", schedule.AutoSchedule)
	api.GET("/divisions/:id/grid", schedule.Grid)
	api.GET("/divisions/:id/grid/export", schedule.ExportGrid)

	api.POST("/games/:id/move", schedule.MoveGame)
	api.PUT("/games/:id/score", schedule.UpdateScore)

	api.POST("/auto-build/analyze", autoBuild.Analyze)
	api.POST("/auto-build/execute", autoBuild.Execute)

	api.DELETE("/jobs/:id/pairings/:poolSize", pairings.DeleteBlock)
	api.DELETE("/jobs/:id/games", autoBuild.Undo)
	api.GET("/jobs/:id/standings", results.Standings)
	api.GET("/jobs/:id/brackets", results.Brackets)

	return r
}
