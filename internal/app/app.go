// Package app wires configuration into the running beacon service.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/wxbeacon/wxbeacon/internal/archive"
	"github.com/wxbeacon/wxbeacon/internal/beacon"
	"github.com/wxbeacon/wxbeacon/internal/constants"
	"github.com/wxbeacon/wxbeacon/internal/engine"
	"github.com/wxbeacon/wxbeacon/internal/log"
	"github.com/wxbeacon/wxbeacon/internal/units"
	"github.com/wxbeacon/wxbeacon/pkg/config"
)

// App represents the main application
type App struct {
	cfg    *config.ConfigData
	logger *zap.SugaredLogger
}

// New creates a new application instance
func New(cfg *config.ConfigData, logger *zap.SugaredLogger) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
	}
}

// Run starts the beacon service and blocks until shutdown. Everything
// process-wide (unit preference, station location, archive binding) is
// resolved here, once; the per-event handler only reads it.
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prefs := units.Resolve(units.Options{
		System:      a.cfg.Units.UnitSystem,
		Temperature: a.cfg.Units.Temperature,
		Pressure:    a.cfg.Units.Pressure,
		Speed:       a.cfg.Units.Speed,
		Rain:        a.cfg.Units.Rain,
	})

	location := beacon.ResolveLocation(a.cfg.Beacon.Lat, a.cfg.Beacon.Lon,
		a.cfg.Station.Latitude, a.cfg.Station.Longitude)

	tz := time.Local
	if a.cfg.Beacon.Timezone != "" {
		var err error
		tz, err = time.LoadLocation(a.cfg.Beacon.Timezone)
		if err != nil {
			return fmt.Errorf("unknown timezone %q: %w", a.cfg.Beacon.Timezone, err)
		}
	}

	store, err := archive.New(archive.Settings{
		Driver:           a.cfg.Archive.Driver,
		Path:             a.cfg.Archive.Path,
		ConnectionString: a.cfg.Archive.ConnectionString,
		Table:            a.cfg.Archive.Table,
	})
	if err != nil {
		return fmt.Errorf("unable to open archive: %w", err)
	}
	defer store.Close()

	// Startup precondition: an archive below the minimum supported
	// schema aborts initialization.
	if err := store.CheckSchema(); err != nil {
		return err
	}

	calc := beacon.NewCalculator(prefs, store, a.cfg.Beacon.DaylightSavingAware, tz)
	enc, err := beacon.NewEncoder(location, a.cfg.Beacon.Symbol, a.cfg.Beacon.Note, a.cfg.Beacon.Output)
	if err != nil {
		return err
	}
	handler := beacon.NewHandler(calc, enc)

	binding := a.cfg.Beacon.Binding
	kind, err := engine.KindFromBinding(binding)
	if err != nil {
		log.Errorf("falling back to loop binding: %v", err)
		kind = engine.NewLoopPacket
	}

	eng := engine.New()
	eng.Bind(kind, handler.HandleEvent)

	log.Infof("version %s", constants.Version)
	log.Infof("using lat=%s lon=%s", location.Lat, location.Lon)
	log.Infof("using note=%s", a.cfg.Beacon.Note)
	log.Infof("using symbol=%s", a.cfg.Beacon.Symbol)
	for _, g := range units.Groups {
		if target, ok := prefs.Target(g); ok {
			log.Infof("using %s unit %s", g, target)
		} else {
			log.Infof("using native %s units", g)
		}
	}
	log.Infof("output will be saved to '%s' on every %s", a.cfg.Beacon.Output, kind)

	poller := engine.NewPoller(store, eng, kind, a.cfg.Archive.PollInterval)
	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Run(ctx)
	}()

	log.Info("beacon service started")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

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
