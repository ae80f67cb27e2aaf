package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/favouruzodinma/academixsuite-sub000/api/swagger"
	"github.com/favouruzodinma/academixsuite-sub000/internal/handler"
	"github.com/favouruzodinma/academixsuite-sub000/internal/middleware"
	"github.com/favouruzodinma/academixsuite-sub000/internal/repository"
	"github.com/favouruzodinma/academixsuite-sub000/internal/service"
	"github.com/favouruzodinma/academixsuite-sub000/pkg/cache"
	"github.com/favouruzodinma/academixsuite-sub000/pkg/config"
	"github.com/favouruzodinma/academixsuite-sub000/pkg/database"
	"github.com/favouruzodinma/academixsuite-sub000/pkg/logger"
	corsmiddleware "github.com/favouruzodinma/academixsuite-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/favouruzodinma/academixsuite-sub000/pkg/middleware/requestid"
)

// @title AcademixSuite Timetable API
// @version 1.0.0
// @description Multi-tenant timetable period assignment and conflict detection service
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, load summaries uncached", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	metricsSvc := service.NewMetricsService()

	loadRepo := repository.NewTeacherLoadRepository(db)
	periodRepo := repository.NewPeriodRepository(db, loadRepo, metricsSvc)
	academicRepo := repository.NewAcademicRepository(db)
	directoryRepo := repository.NewTeacherDirectoryRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	periodSvc := service.NewPeriodService(periodRepo, academicRepo, cacheRepo, validate, logr)
	loadSvc := service.NewTeacherLoadService(loadRepo, directoryRepo, cacheRepo, metricsSvc, cfg.Timetable.DefaultMaxWeeklyPeriods, cfg.Timetable.LoadCacheTTL, logr)
	generatorSvc := service.NewGeneratorService(cfg.Timetable.GeneratorEnabled, logr)

	periodHandler := handler.NewPeriodHandler(periodSvc)
	timetableHandler := handler.NewTimetableHandler(periodSvc, generatorSvc)
	loadHandler := handler.NewTeacherLoadHandler(loadSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.Tenant(cfg.JWT.Secret))
	{
		api.GET("/periods", periodHandler.List)
		api.POST("/periods", periodHandler.Create)
		api.GET("/periods/:id", periodHandler.Get)
		api.PUT("/periods/:id", periodHandler.Update)
		api.DELETE("/periods/:id", periodHandler.Delete)

		api.GET("/teachers/:id/load", loadHandler.Get)

		api.POST("/timetable/copy", timetableHandler.Copy)
		api.POST("/timetable/generate", timetableHandler.Generate)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
