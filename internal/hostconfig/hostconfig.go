// Package hostconfig loads and persists the sorex CLI's host-side
// configuration: where the .sorex index lives, default search behavior,
// and cache/watch tuning. This is configuration ABOUT running the engine,
// distinct from anything baked into the .sorex file itself.
package hostconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// SearchConfig controls default query behavior.
type SearchConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxQueryLen  int `yaml:"max_query_len"`
}

// CacheConfig controls the in-memory loaded-layer cache.
type CacheConfig struct {
	MaxLayers int `yaml:"max_layers"`
}

// WatchConfig controls filesystem-watch-triggered index reloads.
type WatchConfig struct {
	Enabled       bool          `yaml:"enabled"`
	DebounceDelay time.Duration `yaml:"debounce_delay"`
}

// Config is the full host configuration, loaded from .sorex.yaml at a
// project root (or from defaults if absent).
type Config struct {
	IndexPath string       `yaml:"index_path"`
	Search    SearchConfig `yaml:"search"`
	Cache     CacheConfig  `yaml:"cache"`
	Watch     WatchConfig  `yaml:"watch"`
}

// FileName is the config file's name at a project root.
const FileName = ".sorex.yaml"

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		IndexPath: "index.sorex",
		Search: SearchConfig{
			DefaultLimit: 10,
			MaxQueryLen:  200,
		},
		Cache: CacheConfig{MaxLayers: 4},
		Watch: WatchConfig{Enabled: true, DebounceDelay: 300 * time.Millisecond},
	}
}

// Load reads FileName from dir, falling back to Default() if it does not
// exist. A present-but-malformed file is an error.
func Load(dir string) (*Config, error) {
	cfg := Default()
	path := filepath.Join(dir, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Write serializes cfg to FileName under dir, using a file lock so
// concurrent sorex invocations (e.g. a watch-triggered rebuild racing a
// manual edit) never interleave writes.
func Write(dir string, cfg *Config) error {
	path := filepath.Join(dir, FileName)
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock config: %w", err)
	}
	defer lock.Unlock()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ResolveIndexPath returns the absolute path to the configured .sorex
// file, resolved relative to dir.
func (c *Config) ResolveIndexPath(dir string) string {
	if filepath.IsAbs(c.IndexPath) {
		return c.IndexPath
	}
	return filepath.Join(dir, c.IndexPath)
}

// FindProjectRoot walks upward from startDir looking for FileName,
// returning startDir itself if none is found up to the filesystem root.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return filepath.Abs(startDir)
		}
		dir = parent
	}
}
