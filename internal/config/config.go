// Package config loads transcripter configuration from the environment and
// the YAML sources file. Backend credentials come from env (optionally via a
// .env file); the set of playlists, channels, and videos to index comes from
// YAML.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/transcripter/transcripter/internal/errors"
	"github.com/transcripter/transcripter/internal/transcript"
)

// DefaultSourcesFile is the sources file looked up when none is given.
const DefaultSourcesFile = "indexing-config.yml"

// DefaultIndexingInterval is the pause between indexing runs in serve mode.
const DefaultIndexingInterval = time.Hour

// Config is the complete transcripter configuration.
type Config struct {
	Redis    RedisConfig
	YouTube  YouTubeConfig
	Server   ServerConfig
	Sources  Sources
	Indexing Indexing

	// SourcesFile is the path the Sources section was loaded from.
	// Empty when no file existed and defaults were used.
	SourcesFile string
}

// RedisConfig holds the search backend connection settings.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	Index    string
}

// YouTubeConfig holds the video source credentials.
type YouTubeConfig struct {
	APIKey string
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr string
}

// Sources lists what to index. Absent sections are explicit empty lists,
// never nil-with-meaning.
type Sources struct {
	Playlists []string `yaml:"playlists"`
	Channels  []string `yaml:"channels"`
	Videos    []string `yaml:"videos"`
}

// Empty reports whether nothing is configured for indexing.
func (s Sources) Empty() bool {
	return len(s.Playlists) == 0 && len(s.Channels) == 0 && len(s.Videos) == 0
}

// Indexing holds the indexing policy knobs.
type Indexing struct {
	// IntervalSeconds is the pause between runs in serve mode.
	IntervalSeconds int `yaml:"interval"`
	// ChunkSize is the number of raw segments merged per chunk.
	ChunkSize int `yaml:"chunk_size"`
}

// Interval returns the indexing interval as a duration.
func (i Indexing) Interval() time.Duration {
	if i.IntervalSeconds <= 0 {
		return DefaultIndexingInterval
	}
	return time.Duration(i.IntervalSeconds) * time.Second
}

// sourcesFile mirrors the YAML layout of the sources file.
type sourcesFile struct {
	Sources  Sources  `yaml:"sources"`
	Indexing Indexing `yaml:"indexing"`
}

// Load builds the configuration. A .env file in the working directory is
// honored when present; real environment variables win over it. sourcesPath
// may be empty, in which case DefaultSourcesFile is tried and an absent file
// falls back to empty sources.
func Load(sourcesPath string) (*Config, error) {
	// Missing .env is fine; env vars may be set directly.
	_ = godotenv.Load()

	cfg := &Config{
		Redis: RedisConfig{
			Host:     envString("REDIS_HOST", "localhost"),
			Password: envString("REDIS_PASSWORD", ""),
			Index:    envString("REDIS_INDEX", "video_index"),
		},
		YouTube: YouTubeConfig{
			APIKey: envString("YOUTUBE_API_KEY", ""),
		},
		Server: ServerConfig{
			Addr: envString("TRANSCRIPTER_HTTP_ADDR", ":8080"),
		},
	}

	var err error
	if cfg.Redis.Port, err = envInt("REDIS_PORT", 6379); err != nil {
		return nil, err
	}
	if cfg.Redis.DB, err = envInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	if err := cfg.loadSources(sourcesPath); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadSources reads the YAML sources file and fills defaults.
func (c *Config) loadSources(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultSourcesFile
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if explicit {
			return errors.New(errors.ErrCodeConfigNotFound,
				fmt.Sprintf("sources file %s not found", path), err)
		}
		c.applySourceDefaults()
		return nil
	}
	if err != nil {
		return errors.ConfigError("reading sources file", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return errors.ConfigError(fmt.Sprintf("parsing %s", path), err)
	}

	c.Sources = file.Sources
	c.Indexing = file.Indexing
	c.SourcesFile = path
	c.applySourceDefaults()
	return nil
}

// applySourceDefaults normalizes absent sections to explicit empty values.
func (c *Config) applySourceDefaults() {
	if c.Sources.Playlists == nil {
		c.Sources.Playlists = []string{}
	}
	if c.Sources.Channels == nil {
		c.Sources.Channels = []string{}
	}
	if c.Sources.Videos == nil {
		c.Sources.Videos = []string{}
	}
	if c.Indexing.ChunkSize <= 0 {
		c.Indexing.ChunkSize = transcript.DefaultChunkSize
	}
	if c.Indexing.IntervalSeconds <= 0 {
		c.Indexing.IntervalSeconds = int(DefaultIndexingInterval / time.Second)
	}
}

// ReloadSources re-reads the sources file, returning the fresh sections.
// Used by the serve loop when the file changes on disk.
func (c *Config) ReloadSources() (Sources, Indexing, error) {
	fresh := &Config{}
	if err := fresh.loadSources(c.SourcesFile); err != nil {
		return Sources{}, Indexing{}, err
	}
	return fresh.Sources, fresh.Indexing, nil
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.ConfigError(fmt.Sprintf("%s must be an integer, got %q", key, v), err)
	}
	return n, nil
}
