// Package main provides the entry point for the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	appConfig "github.com/teamlance/engagements/internal/config"
	"github.com/teamlance/engagements/internal/database/database"
	"github.com/teamlance/engagements/internal/database/migrate"
	"github.com/teamlance/engagements/internal/health"
	"github.com/teamlance/engagements/internal/middleware"
	"github.com/teamlance/engagements/internal/notify"
	"github.com/teamlance/engagements/pkg/logger"

	bidRouter "github.com/teamlance/engagements/internal/bid/router"
	cancellationRouter "github.com/teamlance/engagements/internal/cancellation/router"
	projectRouter "github.com/teamlance/engagements/internal/project/router"
	requirementRouter "github.com/teamlance/engagements/internal/requirement/router"
	rosterRouter "github.com/teamlance/engagements/internal/roster/router"
)

func main() {
	cfg, err := appConfig.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zapLogger, err := logger.NewWithConfig(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	db, err := database.New()
	if err != nil {
		zapLogger.Fatalw("failed to connect to database", "error", err)
	}
	defer func() {
		if closeErr := database.Close(db); closeErr != nil {
			zapLogger.Errorw("failed to close database connection", "error", closeErr)
		}
	}()

	if err := migrate.Migrate(db); err != nil {
		zapLogger.Fatalw("failed to apply migrations", "error", err)
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(middleware.Logger(zapLogger))
	r.Use(middleware.Recovery(zapLogger))

	dispatcher := notify.NewLogging(zapLogger)

	projectRouter.RegisterRoutes(r, db, zapLogger, dispatcher)
	bidRouter.RegisterRoutes(r, db, zapLogger, dispatcher)
	rosterRouter.RegisterRoutes(r, db, zapLogger, dispatcher)
	cancellationRouter.RegisterRoutes(r, db, zapLogger, dispatcher)
	requirementRouter.RegisterRoutes(r, db, zapLogger, dispatcher)

	healthHandler := health.New(db, zapLogger)
	r.GET("/health", healthHandler.Check)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zapLogger.Infow("starting server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatalw("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Infow("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Errorw("forced shutdown", "error", err)
	}
}
