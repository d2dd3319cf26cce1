package main

import (
	"context"
	"database/sql"
	"drone-dispatch-service/internal/adapters/cache"
	"drone-dispatch-service/internal/adapters/referencedata"
	"drone-dispatch-service/internal/adapters/repositories"
	"drone-dispatch-service/internal/api"
	"drone-dispatch-service/internal/config"
	"drone-dispatch-service/internal/geo"
	"drone-dispatch-service/internal/logger"
	"drone-dispatch-service/internal/platform/db"
	"drone-dispatch-service/internal/ports"
	"drone-dispatch-service/internal/services"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// main is the application composition root.
// It wires the configured reference data source behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync(logr)
	zap.ReplaceGlobals(logr)

	var conn *sql.DB
	if cfg.ReferenceSource == config.SourceSQL || cfg.RouteCache {
		conn, err = openDB(cfg)
		if err != nil {
			logr.Fatal("failed to open database", zap.Error(err))
		}
		defer conn.Close()
	}

	source, err := openSource(cfg, conn, logr)
	if err != nil {
		logr.Fatal("failed to open reference data source", zap.Error(err))
	}

	store := services.NewReferenceStore(source, cfg.ReferenceTTL, logr)

	// Warm the store so the first request does not pay for the fetch.
	// The server still starts if the source is down; requests retry the load.
	warmCtx, cancelWarm := context.WithTimeout(context.Background(), 30*time.Second)
	if ref, err := store.Snapshot(warmCtx); err != nil {
		logr.Warn("initial reference data load failed", zap.Error(err))
	} else {
		logr.Info("reference data loaded",
			zap.String("source", cfg.ReferenceSource),
			zap.Int("drones", len(ref.Drones)),
			zap.Int("service_points", len(ref.ServicePoints)),
			zap.Int("restricted_areas", len(ref.RestrictedAreas)),
		)
	}
	cancelWarm()

	geoCfg := cfg.Geo()
	var finder services.PathFinder = geo.NewPathfinder(geoCfg)
	if cfg.RouteCache {
		finder = services.NewCachedFinder(finder, cache.NewSQLRouteCache(conn, cfg.DBDriver), geoCfg, logr)
		logr.Info("route cache enabled", zap.String("driver", cfg.DBDriver))
	}
	planner := services.NewPlanner(finder, geoCfg,
		services.WithWorkers(cfg.PlannerWorkers),
		services.WithLogger(logr),
	)

	router := api.NewRouter(api.Deps{
		Ref:            store,
		Planner:        planner,
		Finder:         finder,
		Geo:            geoCfg,
		AllowedOrigins: cfg.AllowedOrigins,
		Log:            logr,
	})

	// Write timeout leaves room for large batches with many detours.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logr.Info("server started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("server forced to shutdown", zap.Error(err))
		return
	}
	logr.Info("server exited gracefully")
}

// openSource builds the configured reference data source.
func openSource(cfg *config.Config, conn *sql.DB, logr *zap.Logger) (ports.ReferenceDataSource, error) {
	switch cfg.ReferenceSource {
	case config.SourceHTTP:
		return referencedata.NewClient(cfg.ILPEndpoint, logr)
	case config.SourceFile:
		return referencedata.NewFileSource(cfg.ReferenceFile), nil
	case config.SourceSQL:
		return repositories.NewSQLReferenceRepository(conn, cfg.DBDriver), nil
	default:
		return nil, fmt.Errorf("unknown reference source %q", cfg.ReferenceSource)
	}
}

// openDB opens the SQL store and makes sure its schema exists.
func openDB(cfg *config.Config) (*sql.DB, error) {
	conn, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := repositories.InitSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
