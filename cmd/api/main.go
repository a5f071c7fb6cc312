package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"internhub/internal/config"
	"internhub/internal/database"
	"internhub/internal/middleware"
	"internhub/internal/modules/admin"
	"internhub/internal/modules/application"
	"internhub/internal/modules/storage"
	jwtsvc "internhub/internal/pkg/jwt"
	"internhub/internal/pkg/response"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	gormDB, err := database.Gorm(db)
	if err != nil {
		log.Fatal().Err(err).Msg("gorm init failed")
	}

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	store := storage.NewStore(cfg.UploadDir, cfg.PublicBaseURL, log)
	storageHandler := storage.NewHandler(store)

	appRepo := application.NewRepository(db)
	appService := application.NewService(appRepo, store, log)
	appHandler := application.NewHandler(appService)

	adminRepo := admin.NewRepository(gormDB)
	adminService := admin.NewService(adminRepo, appRepo, j)
	adminHandler := admin.NewHandler(adminService)

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS())

	r.Static(storage.StaticURLBase, cfg.UploadDir)

	r.GET("/health", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "DATABASE_ERROR", "Database unreachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		application.RegisterRoutes(v1, appHandler)
		storage.RegisterRoutes(v1, storageHandler)
		admin.RegisterPublicRoutes(v1, adminHandler)

		protected := v1.Group("/")
		protected.Use(middleware.AdminAuth(j))
		admin.RegisterProtectedRoutes(protected, adminHandler)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Drain in-flight requests and release the pool on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown was not clean")
	}
}
