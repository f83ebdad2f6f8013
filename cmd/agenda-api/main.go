package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/teamagenda/agenda-api/api/swagger"
	"github.com/teamagenda/agenda-api/internal/handler"
	"github.com/teamagenda/agenda-api/internal/middleware"
	"github.com/teamagenda/agenda-api/internal/models"
	"github.com/teamagenda/agenda-api/internal/repository"
	"github.com/teamagenda/agenda-api/internal/schedule"
	"github.com/teamagenda/agenda-api/internal/service"
	"github.com/teamagenda/agenda-api/pkg/cache"
	"github.com/teamagenda/agenda-api/pkg/config"
	"github.com/teamagenda/agenda-api/pkg/database"
	"github.com/teamagenda/agenda-api/pkg/logger"
	corsmiddleware "github.com/teamagenda/agenda-api/pkg/middleware/cors"
	reqidmiddleware "github.com/teamagenda/agenda-api/pkg/middleware/requestid"
)

// @title Team Agenda API
// @version 1.0.0
// @description Scheduling backend for the team agenda board
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	grid, err := buildGrid(cfg.Schedule)
	if err != nil {
		logr.Sugar().Fatalw("invalid schedule configuration", "error", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, agenda cache disabled", "error", err)
		redisClient = nil
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	eventRepo := repository.NewEventRepository(db)
	noveltyRepo := repository.NewNoveltyRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Agenda.CacheTTL, logr, cfg.Agenda.CacheEnabled && redisClient != nil)

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "agenda-api",
	})
	userSvc := service.NewUserService(userRepo, nil, logr)
	agendaSvc := service.NewAgendaService(userRepo, taskRepo, eventRepo, cacheSvc, metricsSvc, grid, cfg.Agenda.CacheTTL, logr)
	taskSvc := service.NewTaskService(taskRepo, userRepo, agendaSvc, nil, logr)
	eventSvc := service.NewEventService(eventRepo, agendaSvc, nil, logr)
	noveltySvc := service.NewNoveltyService(noveltyRepo, nil, logr)
	exportSvc := service.NewExportService(agendaSvc, nil, nil, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	taskHandler := handler.NewTaskHandler(taskSvc)
	eventHandler := handler.NewEventHandler(eventSvc)
	noveltyHandler := handler.NewNoveltyHandler(noveltySvc)
	agendaHandler := handler.NewAgendaHandler(agendaSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.POST("/password", middleware.JWT(authSvc), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	managers := middleware.ManagersOnly()

	users := protected.Group("/users")
	{
		users.GET("", userHandler.List)
		users.GET("/:id", middleware.RBAC(middleware.SelfRole, string(models.RoleOwner), string(models.RoleAdmin)), userHandler.Get)
		users.POST("", managers, userHandler.Create)
		users.PUT("/:id", managers, userHandler.Update)
		users.PUT("/:id/work-week", middleware.RBAC(middleware.SelfRole, string(models.RoleOwner), string(models.RoleAdmin)), userHandler.UpdateWorkWeek)
		users.DELETE("/:id", middleware.RequireRoles(models.RoleOwner), userHandler.Delete)
	}

	tasks := protected.Group("/tasks")
	{
		tasks.GET("", taskHandler.List)
		tasks.GET("/:id", taskHandler.Get)
		tasks.POST("", managers, taskHandler.Create)
		tasks.PUT("/bulk", managers, taskHandler.UpsertMany)
		tasks.PUT("/:id", managers, taskHandler.Update)
		tasks.PATCH("/:id/status", taskHandler.UpdateStatus)
		tasks.PATCH("/:id/reassign", managers, taskHandler.Reassign)
		tasks.DELETE("/:id", managers, taskHandler.Delete)
	}

	events := protected.Group("/events")
	{
		events.GET("", eventHandler.List)
		events.GET("/:id", eventHandler.Get)
		events.POST("", managers, eventHandler.Create)
		events.PUT("/:id", managers, eventHandler.Update)
		events.DELETE("/:id", managers, eventHandler.Delete)
	}

	novelties := protected.Group("/novelties")
	{
		novelties.GET("", noveltyHandler.List)
		novelties.GET("/active", noveltyHandler.Active)
		novelties.GET("/:id", noveltyHandler.Get)
		novelties.POST("", managers, noveltyHandler.Create)
		novelties.PUT("/bulk", managers, noveltyHandler.UpsertMany)
		novelties.PUT("/:id", managers, noveltyHandler.Update)
		novelties.POST("/:id/dismiss", noveltyHandler.Dismiss)
		novelties.DELETE("/:id", managers, noveltyHandler.Delete)
	}

	agenda := protected.Group("/agenda")
	{
		agenda.GET("/grid", agendaHandler.Grid)
		agenda.GET("/day", agendaHandler.Day)
		agenda.POST("/day", agendaHandler.DayWithWidths)
		agenda.GET("/week", agendaHandler.Week)
		agenda.GET("/navigate", agendaHandler.Navigate)
	}

	protected.GET("/export/week", exportHandler.Week)
	protected.GET("/system/status", managers, metricsHandler.Status)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// buildGrid turns the parsed schedule configuration into the timeline
// geometry the composer works with.
func buildGrid(cfg config.ScheduleConfig) (schedule.GridConfig, error) {
	grid := schedule.GridConfig{
		StartHour:       cfg.StartHour,
		EndHour:         cfg.EndHour,
		SlotDuration:    cfg.SlotDuration,
		SlotHeight:      cfg.SlotHeight,
		CollapsedHeight: cfg.CollapsedHeight,
	}
	for _, window := range cfg.Shifts {
		start, err := models.ParseClock(window.Start)
		if err != nil {
			return schedule.GridConfig{}, fmt.Errorf("shift %s: %w", window.Name, err)
		}
		end, err := models.ParseClock(window.End)
		if err != nil {
			return schedule.GridConfig{}, fmt.Errorf("shift %s: %w", window.Name, err)
		}
		grid.Shifts = append(grid.Shifts, schedule.Shift{Name: window.Name, Start: start, End: end})
	}
	if len(grid.Shifts) == 0 {
		grid.Shifts = schedule.DefaultGridConfig().Shifts
	}
	return grid, nil
}
