package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"airport-ops/tarmac/internal/api"
	"airport-ops/tarmac/internal/config"
	"airport-ops/tarmac/internal/jobs"
	"airport-ops/tarmac/internal/logging"
	"airport-ops/tarmac/internal/metrics"
	"airport-ops/tarmac/internal/routes"
	"airport-ops/tarmac/internal/workers"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// @title Tarmac API
// @version 1.0
// @description Flight pairing and lifecycle backend for airport operations.
// @host localhost:8080
// @BasePath /
func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Tarmac starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// /metrics serves the default registry
	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	deps, err := api.InitDependencies(ctx, cfg, metricsReg)
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err.Error())
	}
	defer deps.Close()

	upSince := time.Now()
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.RegisterRoutes(cfg, deps, metricsReg, upSince),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logging.Info("Server starting", "port", cfg.Port, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logging.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	jobs.InitializeJobs(deps.Repo.Airports, deps.Repo.Airlines, deps.Services.Directory).Start(gctx, g, cfg.ReferenceCacheTTL)

	// The audit workers only exist when events go to the redis stream
	if deps.Services.Stream != nil {
		workers.InitWorkers(deps.Services.Stream, deps.Repo.FlightLogs, metricsReg).Start(gctx, g, 2)
		logging.Info("Flight log workers started")
	}

	if err := g.Wait(); err != nil {
		logging.Error("Server stopped with error", "error", err.Error())
		return
	}
	logging.Info("Server stopped")
}
