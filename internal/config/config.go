// Package config loads the settings shared by the MCP server and the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/image-compress-mcp/internal/imaging"
)

// DefaultPath is read when no config path is given and the file exists.
const DefaultPath = "image-compress.yaml"

// Environment overrides, applied after the config file.
const (
	EnvLogLevel  = "IMAGE_MCP_LOG_LEVEL"
	EnvOutputDir = "IMAGE_MCP_OUTPUT_DIR"
)

// Config represents the application configuration
type Config struct {
	LogLevel    string          `yaml:"log_level"`
	Compression imaging.Options `yaml:"compression"`
	Output      OutputConfig    `yaml:"output"`
	Watch       WatchConfig     `yaml:"watch"`
	Download    DownloadConfig  `yaml:"download"`
}

// OutputConfig says where compressed files are written.
type OutputConfig struct {
	// Dir is the output directory; empty means next to the source.
	Dir    string `yaml:"dir"`
	Suffix string `yaml:"suffix"`
	// DatedDirs is a date layout such as "yyyy-mm-dd". When set, output
	// goes into a sub-directory of Dir named by the current date.
	DatedDirs string `yaml:"dated_dirs"`
}

type WatchConfig struct {
	Debounce   time.Duration `yaml:"debounce"`
	Extensions []string      `yaml:"extensions"`
}

type DownloadConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	Dir     string        `yaml:"dir"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		LogLevel:    "info",
		Compression: imaging.DefaultOptions(),
		Output: OutputConfig{
			Suffix: "_compressed",
		},
		Watch: WatchConfig{
			Debounce:   500 * time.Millisecond,
			Extensions: []string{"jpg", "jpeg", "png", "gif", "bmp", "tiff", "webp"},
		},
		Download: DownloadConfig{
			Timeout: 30 * time.Second,
			Dir:     ".",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path, a
// .env file in the working directory and the environment, in that order.
// An empty path reads DefaultPath if it exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultPath); err == nil {
			path = DefaultPath
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.Output.Dir = v
	}
}

// Validate checks the configured values
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info":
	default:
		return fmt.Errorf("log_level must be debug or info, got %q", c.LogLevel)
	}
	if q := c.Compression.Quality; q < 0 || q > 1 {
		return fmt.Errorf("compression.quality must be within 0-1, got %v", q)
	}
	if c.Compression.MaxPixels < 0 || c.Compression.TilePixels < 0 {
		return fmt.Errorf("compression pixel limits must not be negative")
	}
	if c.Compression.Background != "" {
		if _, err := imaging.ParseBackground(c.Compression.Background); err != nil {
			return fmt.Errorf("compression.background: %w", err)
		}
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if c.Download.Timeout < 0 {
		return fmt.Errorf("download.timeout must not be negative")
	}
	return nil
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

// WatchesExt reports whether files with extension ext (no dot, any case)
// are picked up by the watcher.
func (c *Config) WatchesExt(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, e := range c.Watch.Extensions {
		if strings.ToLower(strings.TrimPrefix(e, ".")) == ext {
			return true
		}
	}
	return false
}
