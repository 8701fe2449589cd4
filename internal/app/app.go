package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/chrissnell/cropclimate/internal/controllers/restserver"
	"github.com/chrissnell/cropclimate/internal/database"
	"github.com/chrissnell/cropclimate/internal/log"
	"github.com/chrissnell/cropclimate/internal/metrics"
	"github.com/chrissnell/cropclimate/internal/storage/climatedb"
	"github.com/chrissnell/cropclimate/pkg/config"
)

// App represents the main application
type App struct {
	cfg     *config.ConfigData
	version string
}

// New creates a new application instance
func New(cfg *config.ConfigData, version string) *App {
	return &App{
		cfg:     cfg,
		version: version,
	}
}

// Run connects to the database, serves HTTP and blocks until shutdown. The
// connection pool is closed only after the server has drained.
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	metrics.BuildInfo.WithLabelValues(a.version).Set(1)

	source, err := climatedb.ParseSource(a.cfg.Analytics.QuerySource)
	if err != nil {
		return err
	}
	bands, err := climatedb.Preset(a.cfg.Analytics.ExtremePreset)
	if err != nil {
		return err
	}
	log.Warnw("extreme-condition bands in use; the two historical band sets disagree",
		"preset", a.cfg.Analytics.ExtremePreset,
		"pollution", bands.Pollution.String(),
		"temperature", bands.Temperature.String(),
		"precipitation", bands.Precipitation.String(),
	)

	log.Infof("using database %s", a.cfg.Database.Redacted())
	db, err := database.Connect(ctx, a.cfg.Database.DSN(), database.DefaultConnectWait)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Errorf("error closing database pool: %v", err)
		}
		log.Info("database pool closed")
	}()

	repo := climatedb.New(db, source, bands)
	log.Infow("analytics repository ready", "source", source)

	monitor := database.NewHealthMonitor(repo.Ping, database.DefaultHealthInterval)
	monitor.Start(ctx, &wg)

	rest, err := restserver.NewController(ctx, &wg, a.cfg.Server, repo)
	if err != nil {
		return fmt.Errorf("error creating REST server: %w", err)
	}
	rest.SetHealthReporter(monitor)
	if err := rest.StartController(); err != nil {
		return err
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
