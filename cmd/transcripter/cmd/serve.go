package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/transcripter/transcripter/internal/config"
	"github.com/transcripter/transcripter/internal/index"
	"github.com/transcripter/transcripter/internal/search"
	"github.com/transcripter/transcripter/internal/web"
)

func newServeCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search API and keep the index fresh",
		Long: `Start the HTTP search API and re-run indexing at the configured
interval. Edits to the sources file are picked up without a restart.

Endpoints:
  GET /search?q=<query>     free-text transcript search
  GET /indexed_documents    stored document summary
  GET /healthz              liveness probe`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), once)
		},
	}

	cmd.Flags().BoolVar(&once, "index-once", false,
		"Run a single indexing pass at startup instead of the periodic loop")

	return cmd
}

func runServe(ctx context.Context, once bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st := openStore(cfg)
	defer st.Close()

	if !st.CheckSearchModule(ctx) {
		slog.Warn("search backend has no full-text module; queries will return no results",
			slog.String("host", cfg.Redis.Host))
	}

	src, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	ix := newIndexer(cfg, src, st)

	server, err := web.New(web.Config{Addr: cfg.Server.Addr}, search.New(st), st)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := &indexLoop{cfg: cfg, indexer: ix}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return server.Run(ctx)
	})
	group.Go(func() error {
		return loop.run(ctx, once)
	})
	if cfg.SourcesFile != "" {
		group.Go(func() error {
			return config.WatchSources(ctx, cfg.SourcesFile, loop.reload)
		})
	}

	return group.Wait()
}

// indexLoop re-runs the indexer periodically, picking up reloaded sources
// between runs.
type indexLoop struct {
	cfg     *config.Config
	indexer *index.Indexer

	mu       sync.Mutex
	sources  config.Sources
	interval time.Duration
	loaded   bool
}

func (l *indexLoop) current() (config.Sources, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.loaded {
		l.sources = l.cfg.Sources
		l.interval = l.cfg.Indexing.Interval()
		l.loaded = true
	}
	return l.sources, l.interval
}

// reload re-reads the sources file. Invoked by the file watcher; the next
// tick uses the new entries.
func (l *indexLoop) reload() {
	sources, indexing, err := l.cfg.ReloadSources()
	if err != nil {
		slog.Error("reloading sources failed", slog.String("error", err.Error()))
		return
	}
	l.mu.Lock()
	l.sources = sources
	l.interval = indexing.Interval()
	l.loaded = true
	l.mu.Unlock()
	slog.Info("sources reloaded",
		slog.Int("playlists", len(sources.Playlists)),
		slog.Int("channels", len(sources.Channels)),
		slog.Int("videos", len(sources.Videos)))
}

func (l *indexLoop) run(ctx context.Context, once bool) error {
	l.runPass(ctx)
	if once {
		return nil
	}

	for {
		_, interval := l.current()
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
			l.runPass(ctx)
		}
	}
}

func (l *indexLoop) runPass(ctx context.Context) {
	sources, _ := l.current()
	start := time.Now()
	results, err := l.indexer.Run(ctx, sources)
	if err != nil {
		slog.Error("indexing pass failed", slog.String("error", err.Error()))
		return
	}
	slog.Info("indexing pass finished",
		slog.Int("entries", len(results)),
		slog.Duration("elapsed", time.Since(start)))
}
