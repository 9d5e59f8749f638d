package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"island-npc-engine/backend/pkg/config"
	"island-npc-engine/backend/pkg/di"
	"island-npc-engine/backend/pkg/logger"
	"island-npc-engine/backend/pkg/router"
	"island-npc-engine/backend/shared/observability"
)

func main() {
	cfg := config.New()

	// Initialize structured logger
	logConfig := logger.DefaultConfig()
	logConfig.Level = cfg.Logging.Level
	logConfig.JSON = cfg.Logging.Format != "text"

	log := logger.New(logConfig)
	logger.SetGlobal(log)

	log.Info("Starting NPC engine", "env", cfg.Server.Env, "seed", cfg.World.Seed)

	// Database is optional; without it named save slots are disabled
	db, err := config.NewDB()
	if err != nil {
		log.Warn("Running without database, save slots disabled", "error", err)
		db = nil
	}

	// Initialize dependency injection container
	container, err := di.New(db, cfg, log)
	if err != nil {
		log.LogError(err, "Failed to initialize dependency container")
		os.Exit(1)
	}

	// Metrics exposed on the Prometheus side port
	mp := observability.SetupPrometheusMetrics()
	metrics, err := observability.NewMetrics(mp)
	if err != nil {
		log.LogError(err, "Failed to register metrics")
		os.Exit(1)
	}
	container.Metrics = metrics

	// Initialize and setup router
	r := router.New(container)
	r.SetupRoutes()

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r.Engine,
	}

	// Start the server in a goroutine
	go func() {
		log.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogError(err, "Server failed to start")
			os.Exit(1)
		}
	}()

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal
	<-quit
	log.Info("Shutting down server...")

	// Create a deadline to wait for
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown the server
	if err := srv.Shutdown(ctx); err != nil {
		log.LogError(err, "Server forced to shutdown")
	}

	log.Info("Server exited gracefully")
}
