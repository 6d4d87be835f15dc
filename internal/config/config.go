package config

//go:generate go run ../../tools/schema-generator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PipelineConfig controls caption normalization.
type PipelineConfig struct {
	// GroupSize is the number of caption blocks merged into one grouped entry.
	GroupSize int `yaml:"group_size,omitempty"`
	// Profile is the cleaning strictness: "full" or "minimal".
	Profile string `yaml:"profile,omitempty"`
	// Mode is the transcript rendering: "flattened" or "grouped".
	Mode string `yaml:"mode,omitempty"`
}

// FetchConfig controls how captions and metadata are retrieved.
type FetchConfig struct {
	// Language is the preferred caption language code.
	Language string `yaml:"language,omitempty"`
	// AutoGenerated allows falling back to automatic captions.
	AutoGenerated bool `yaml:"auto_generated"`
	// Backend is "ytdlp" (default) or "web".
	Backend string `yaml:"backend,omitempty"`
	// YtDlpPath overrides the yt-dlp binary looked up on PATH.
	YtDlpPath string `yaml:"ytdlp_path,omitempty"`
	// Timeout bounds a single HTTP request.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// WorkerConfig controls batch processing.
type WorkerConfig struct {
	MaxConcurrent   int  `yaml:"max_concurrent,omitempty"`
	MaxRetries      int  `yaml:"max_retries,omitempty"`
	RateLimitPerMin int  `yaml:"rate_limit_per_min,omitempty"`
	NoAsync         bool `yaml:"no_async,omitempty"`
}

// CacheConfig controls the fetch result cache. An empty RedisURL keeps the
// cache in memory only.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	RedisURL   string        `yaml:"redis_url,omitempty"`
	TTL        time.Duration `yaml:"ttl,omitempty"`
	MaxEntries int           `yaml:"max_entries,omitempty"`
}

// OutputConfig controls where transcripts are written.
type OutputConfig struct {
	Dir string `yaml:"dir,omitempty"`
	// JSON also writes <video_id>/scrap_result.json next to the text file.
	JSON bool `yaml:"json,omitempty"`
	// Header prefixes the transcript file with the video metadata block.
	Header bool `yaml:"header"`
}

// Config holds the full application configuration.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline,omitempty"`
	Fetch    FetchConfig    `yaml:"fetch,omitempty"`
	Worker   WorkerConfig   `yaml:"worker,omitempty"`
	Cache    CacheConfig    `yaml:"cache,omitempty"`
	Output   OutputConfig   `yaml:"output,omitempty"`
}

// Default returns a Config with hardcoded defaults.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			GroupSize: 3,
			Profile:   "full",
			Mode:      "flattened",
		},
		Fetch: FetchConfig{
			Language:      "ko",
			AutoGenerated: true,
			Backend:       "ytdlp",
			Timeout:       30 * time.Second,
		},
		Worker: WorkerConfig{
			MaxConcurrent:   3,
			MaxRetries:      3,
			RateLimitPerMin: 30,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        15 * time.Minute,
			MaxEntries: 256,
		},
		Output: OutputConfig{
			Dir:    "output",
			Header: true,
		},
	}
}

// Load reads a YAML config file over the defaults. A missing file is not an
// error and yields Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
