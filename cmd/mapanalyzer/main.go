package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/geomap/internal/config"
	"github.com/udisondev/geomap/internal/db"
	"github.com/udisondev/geomap/internal/snapshot"
	"github.com/udisondev/geomap/internal/terrain"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfgPath := config.Path()
	cfg, err := config.LoadAnalyzer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	paths := args
	if len(paths) == 0 {
		paths = cfg.Snapshots
	}
	if len(paths) == 0 {
		return fmt.Errorf("no snapshots given: pass files as arguments or list them in %s", cfgPath)
	}
	slog.Info("mapanalyzer starting",
		"config", cfgPath,
		"snapshots", len(paths),
		"concurrency", cfg.Concurrency,
		"automatic_path_update", cfg.AutomaticPathUpdate)

	var store *db.AnalysisRepository
	if cfg.Database.Enabled {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()

		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")
		store = database.Analyses()
	}

	reports := make([]report, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := analyze(path, cfg)
			if err != nil {
				return err
			}
			if store != nil {
				if _, err := store.Save(gctx, r.analysis); err != nil {
					return fmt.Errorf("storing %s: %w", path, err)
				}
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range reports {
		r.log()
	}
	return nil
}

// report is the outcome of one snapshot.
type report struct {
	path          string
	analysis      db.Analysis
	startingFound bool
}

func (r report) log() {
	a := r.analysis
	blocked := 0
	for _, c := range a.Connectors {
		if c.Blocked {
			blocked++
		}
	}
	slog.Info("map analysed",
		"path", r.path,
		"name", a.Name,
		"size", fmt.Sprintf("%dx%d", a.TileWidth, a.TileHeight),
		"areas", len(a.Areas),
		"connectors", len(a.Connectors),
		"blocked_connectors", blocked,
		"bases", len(a.Bases),
		"lakes", a.Lakes,
		"starting_bases_found", r.startingFound,
		"fingerprint", a.Fingerprint[:12])
}

// analyze builds a terrain map from one snapshot file. Each call owns its
// map, so calls may run concurrently.
func analyze(path string, cfg config.Analyzer) (report, error) {
	snap, err := snapshot.Load(path)
	if err != nil {
		return report{}, err
	}
	in, err := snap.Input()
	if err != nil {
		return report{}, fmt.Errorf("snapshot %s: %w", path, err)
	}

	m, err := terrain.New(in, cfg.Terrain)
	if err != nil {
		return report{}, fmt.Errorf("analysing %s: %w", path, err)
	}
	if cfg.AutomaticPathUpdate {
		m.EnableAutomaticPathUpdate()
	}

	r := report{path: path}
	if cfg.FindStartingBases && len(in.StartingLocations) > 0 {
		r.startingFound = m.FindBasesForStartingLocations()
		if !r.startingFound {
			slog.Warn("some starting locations have no base", "path", path)
		}
	}
	if cfg.Terrain.StrictInvariants {
		if err := m.CheckInvariants(); err != nil {
			return report{}, fmt.Errorf("checking %s: %w", path, err)
		}
	}

	name := snap.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	r.analysis = db.NewAnalysis(name, snapshot.Fingerprint(in), m)
	return r, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
