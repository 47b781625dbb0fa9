package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/rtsloco/internal/ai"
	"github.com/udisondev/rtsloco/internal/config"
	"github.com/udisondev/rtsloco/internal/db"
	"github.com/udisondev/rtsloco/internal/metrics"
)

// saveTimeout bounds the final snapshot save after the run context is cancelled.
const saveTimeout = 10 * time.Second

func main() {
	resume := flag.String("resume", "", "session id to resume from saved snapshots")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, *resume); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, resume string) error {
	cfgPath := config.Path()
	cfg, err := config.LoadSimulation(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel, _ := config.ParseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("locosim starting",
		"config", cfgPath,
		"frame_rate", cfg.Simulation.FrameRate,
		"units", len(cfg.Units))

	session := uuid.New()
	if resume != "" {
		session, err = uuid.Parse(resume)
		if err != nil {
			return fmt.Errorf("parsing session id %q: %w", resume, err)
		}
		if !cfg.Database.Enabled {
			return errors.New("--resume requires database.enabled")
		}
	}

	var repo snapshotStore
	if cfg.Database.Enabled {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")
		repo = database.Snapshots()
	}

	reg := prometheus.NewRegistry()
	var observer ai.Observer
	if cfg.Metrics.Enabled {
		collector, err := metrics.NewCollector(reg)
		if err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}
		observer = collector
	}

	sim, err := newSimulation(cfg, session, observer)
	if err != nil {
		return err
	}
	defer sim.shutdown()

	if resume != "" {
		err = sim.resume(ctx, repo)
	} else {
		err = sim.spawn()
	}
	if err != nil {
		return err
	}

	if err := sim.loop(ctx, cfg.Metrics, reg); err != nil {
		return err
	}

	if repo != nil {
		saveCtx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := sim.save(saveCtx, repo); err != nil {
			return err
		}
	}

	slog.Info("locosim stopped", "frames", sim.mgr.Steps(), "session", session)
	return nil
}

// loop runs the tick manager, plus the metrics endpoint when enabled, until
// ctx is cancelled or the frame budget is spent.
func (s *simulation) loop(ctx context.Context, mc config.MetricsConfig, gatherer prometheus.Gatherer) error {
	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		defer stop()
		err := s.mgr.Start(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if mc.Enabled {
		g.Go(func() error {
			slog.Info("metrics listening", "address", mc.Address)
			return metrics.Serve(gctx, mc.Address, gatherer)
		})
	}

	return g.Wait()
}
