// Package cmd provides the CLI commands for transcripter.
package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/transcripter/transcripter/internal/config"
	"github.com/transcripter/transcripter/internal/index"
	"github.com/transcripter/transcripter/internal/logging"
	"github.com/transcripter/transcripter/internal/source"
	"github.com/transcripter/transcripter/internal/store"
	"github.com/transcripter/transcripter/pkg/version"
)

var (
	debugMode      bool
	sourcesPath    string
	loggingCleanup func()
)

// NewRootCmd creates the root command for the transcripter CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcripter",
		Short: "Index and search YouTube video transcripts",
		Long: `Transcripter fetches transcripts for configured YouTube playlists,
channels, and videos, chunks them into time-coded documents, and serves
free-text search over the result.

Run 'transcripter index' for a one-off pass, or 'transcripter serve' for
the HTTP API with periodic re-indexing.`,
		Version:      version.Version,
		SilenceUsage: true,
	}

	cmd.SetVersionTemplate("transcripter version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false,
		"Enable debug logging to ~/.transcripter/logs/")
	cmd.PersistentFlags().StringVarP(&sourcesPath, "config", "c", "",
		"Path to the sources file (default: "+config.DefaultSourcesFile+")")

	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = stopLogging

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func startLogging(_ *cobra.Command, _ []string) error {
	cfg := logging.DefaultConfig()
	if debugMode {
		cfg = logging.DebugConfig()
	}
	logger, cleanup, err := logging.Setup(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	return nil
}

func stopLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig reads env plus the sources file given by --config.
func loadConfig() (*config.Config, error) {
	return config.Load(sourcesPath)
}

// openStore connects to the search backend described by cfg.
func openStore(cfg *config.Config) *store.Store {
	return store.New(store.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Index:    cfg.Redis.Index,
	})
}

// openSource creates the YouTube source from the configured API key.
func openSource(ctx context.Context, cfg *config.Config) (source.Source, error) {
	if cfg.YouTube.APIKey == "" {
		return nil, fmt.Errorf("YOUTUBE_API_KEY is not set")
	}
	return source.NewYouTube(ctx, cfg.YouTube.APIKey)
}

// newIndexer wires an Indexer from the loaded configuration.
func newIndexer(cfg *config.Config, src source.Source, st *store.Store) *index.Indexer {
	return index.New(index.Config{
		Source:    src,
		Store:     st,
		ChunkSize: cfg.Indexing.ChunkSize,
		LockPath:  index.DefaultLockPath(),
	})
}
