package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go-clinic-panel/internal/api"
	"go-clinic-panel/internal/auth"
	"go-clinic-panel/internal/config"
	"go-clinic-panel/internal/database"
	"go-clinic-panel/internal/handlers"
	"go-clinic-panel/internal/middleware"
	"go-clinic-panel/internal/panel"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	logger := config.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	config.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	persist, err := openStorage(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("token storage unavailable")
	}

	hub := handlers.NewHub()
	go hub.Run(ctx)

	var opts []api.Option
	if cfg.APITimeout > 0 {
		opts = append(opts, api.WithTimeout(cfg.APITimeout))
	}
	app, err := panel.New(ctx, cfg.BackendURL, persist, api.Notifiers{hub, api.LogNotifier{Log: logger}}, opts...)
	if err != nil {
		logger.WithError(err).Fatal("failed to build panel")
	}
	handlers.Setup(app, hub, cfg)

	// A session that survived a restart gets its lists back in the background.
	if app.LoggedIn(ctx) {
		go func() {
			if err := app.RefreshAll(ctx); err != nil {
				config.LogError(logger, "main", "main", "initial refresh", nil, err)
			}
		}()
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", handlers.Login)
	r.POST("/logout", handlers.Logout)

	routes := r.Group("/api")
	routes.Use(middleware.RequireSession(app.Tokens))
	{
		routes.GET("/session", handlers.GetSession)
		routes.GET("/events", handlers.Events)

		routes.GET("/analytics/personnel", handlers.GetPersonnelReport)
		routes.GET("/analytics/visits", handlers.GetVisitReport)
		routes.GET("/analytics/inventory", handlers.GetInventoryReport)
		routes.GET("/analytics/personnel/export", handlers.ExportPersonnelReport)
		routes.GET("/analytics/visits/export", handlers.ExportVisitReport)
		routes.GET("/analytics/inventory/export", handlers.ExportInventoryReport)
		routes.GET("/analytics/filters", handlers.GetFilters)
		routes.PUT("/analytics/filters/:tab", handlers.SetFilter)
		routes.PUT("/analytics/tab", handlers.SetActiveTab)

		routes.GET("/:entity", handlers.GetEntities)
		routes.POST("/:entity", handlers.CreateEntity)
		routes.PUT("/:entity", handlers.UpdateEntity)
		routes.DELETE("/:entity/:id", handlers.DeleteEntity)

		admin := routes.Group("/")
		admin.Use(middleware.RequireAdmin(app.Store))
		{
			admin.POST("/ask", handlers.AskAI)
		}
	}

	// SPA: static assets plus index.html for every unknown path.
	r.Static("/assets", filepath.Join(cfg.WebDir, "assets"))
	r.NoRoute(func(c *gin.Context) {
		c.File(filepath.Join(cfg.WebDir, "index.html"))
	})

	logger.WithField("port", cfg.Port).Info("panel gateway starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("server failed to start")
	}
}

// openStorage picks where tokens and the current user are kept.
func openStorage(ctx context.Context, cfg *config.Config) (auth.Storage, error) {
	switch cfg.TokenStorage {
	case "redis":
		rdb, err := auth.ConnectRedis(ctx, cfg.RedisAddress)
		if err != nil {
			return nil, err
		}
		return auth.NewRedisStorage(rdb, "clinic-panel:"), nil
	case "mysql":
		db, err := database.Connect(cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		return database.NewKVStorage(db), nil
	default:
		return auth.NewMemoryStorage(), nil
	}
}
