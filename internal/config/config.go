// Package config loads incgraph settings using Viper with TOML as the file
// format.
//
// Configuration is read from .incgraph.toml in the project root unless an
// explicit file is given. Every key can be overridden through the
// environment with the INCGRAPH_ prefix (e.g. INCGRAPH_MAX_FILE_SIZE).
// A missing file is not an error: defaults apply.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "incgraph"
	// FileName is the per-project config file name.
	FileName = ".incgraph.toml"

	defaultMaxFileSize = 1_000_000 // 1 MB
	defaultCacheSize   = 4096
)

// ErrConfigNotFound is returned when an explicitly requested config file
// does not exist.
var ErrConfigNotFound = errors.New("config file not found")

type (
	// External maps a header to a predefined library component.
	External struct {
		// Header is matched case-insensitively against include targets.
		Header    string `mapstructure:"header" toml:"header"`
		Component string `mapstructure:"component" toml:"component"`
	}

	// Config holds every tunable used by a reload.
	Config struct {
		// Blacklist entries exclude a root-relative path prefix or an exact
		// file or directory name from discovery.
		Blacklist []string `mapstructure:"blacklist" toml:"blacklist"`
		// KnownHeaders extends the built-in list of system headers that are
		// never reported as unknown.
		KnownHeaders []string `mapstructure:"known_headers" toml:"known_headers"`
		// Externals extends the built-in predefined external components.
		Externals        []External `mapstructure:"externals" toml:"externals"`
		RespectGitignore bool       `mapstructure:"respect_gitignore" toml:"respect_gitignore"`
		// MaxFileSize skips files larger than this many bytes.
		MaxFileSize int `mapstructure:"max_file_size" toml:"max_file_size"`
		// Workers bounds the number of concurrent file scans.
		Workers int `mapstructure:"workers" toml:"workers"`
		// CacheSize is the number of scanned files kept between reloads.
		CacheSize int `mapstructure:"cache_size" toml:"cache_size"`
	}

	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific file when set.
		ConfigFilePath string
		// ProjectRoot is searched for FileName when ConfigFilePath is empty.
		ProjectRoot string
	}
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Blacklist:        []string{},
		KnownHeaders:     []string{},
		Externals:        []External{},
		RespectGitignore: true,
		MaxFileSize:      defaultMaxFileSize,
		Workers:          runtime.GOMAXPROCS(0),
		CacheSize:        defaultCacheSize,
	}
}

// Load reads configuration from the requested source.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	defaults := Default()
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("blacklist", defaults.Blacklist)
	v.SetDefault("known_headers", defaults.KnownHeaders)
	v.SetDefault("respect_gitignore", defaults.RespectGitignore)
	v.SetDefault("max_file_size", defaults.MaxFileSize)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("cache_size", defaults.CacheSize)

	path := opts.ConfigFilePath
	if path != "" {
		if !fileExists(path) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
	} else if opts.ProjectRoot != "" {
		if candidate := filepath.Join(opts.ProjectRoot, FileName); fileExists(candidate) {
			path = candidate
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks constraints the file format cannot express.
func (c *Config) Validate() error {
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size must be positive, got %d", c.MaxFileSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}
	for i, e := range c.Externals {
		if strings.TrimSpace(e.Header) == "" || strings.TrimSpace(e.Component) == "" {
			return fmt.Errorf("externals[%d]: header and component are required", i)
		}
	}
	return nil
}

// ExternalRegistry returns the predefined external components keyed by
// lower-cased header. Configured entries override the built-in ones.
func (c *Config) ExternalRegistry() map[string]string {
	reg := make(map[string]string, len(defaultExternals)+len(c.Externals))
	for _, e := range defaultExternals {
		reg[strings.ToLower(e.Header)] = e.Component
	}
	for _, e := range c.Externals {
		reg[strings.ToLower(e.Header)] = e.Component
	}
	return reg
}

// KnownHeaderSet returns the built-in system headers plus configured ones.
func (c *Config) KnownHeaderSet() map[string]struct{} {
	set := make(map[string]struct{}, len(standardHeaders)+len(c.KnownHeaders))
	for _, h := range standardHeaders {
		set[h] = struct{}{}
	}
	for _, h := range c.KnownHeaders {
		set[h] = struct{}{}
	}
	return set
}

// Encode renders cfg as TOML, suitable for writing a starter file.
func Encode(cfg *Config) (string, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	return string(data), nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
