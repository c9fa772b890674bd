// Package config loads barcut's settings from .barcut.yaml, BARCUT_*
// environment variables and bound CLI flags.
package config

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/piwi3910/barcut/internal/model"
	"github.com/piwi3910/barcut/internal/project"
	"github.com/spf13/viper"
)

// ServerConfig holds HTTP transport settings.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// EngineConfig holds planner defaults and limits.
type EngineConfig struct {
	MaxPieces   int     `mapstructure:"max_pieces"`
	Algorithm   string  `mapstructure:"algorithm"`
	DefaultKerf float64 `mapstructure:"default_kerf"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type ArchiveConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type InventoryConfig struct {
	Path string `mapstructure:"path"`
}

type ReportConfig struct {
	Title string `mapstructure:"title"`
}

// Config holds all runtime configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Log       LogConfig       `mapstructure:"log"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	Inventory InventoryConfig `mapstructure:"inventory"`
	Report    ReportConfig    `mapstructure:"report"`
}

// SetDefaults registers the built-in default of every key.
func SetDefaults() {
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.max_body_bytes", 1<<20)
	viper.SetDefault("server.read_timeout", 10*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("engine.max_pieces", model.DefaultMaxPieces)
	viper.SetDefault("engine.algorithm", string(model.AlgorithmFirstFit))
	viper.SetDefault("engine.default_kerf", 3.0)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "~/.barcut/logs/barcut.log")
	viper.SetDefault("archive.enabled", false)
	viper.SetDefault("archive.path", "~/.barcut/archive.db")
	viper.SetDefault("inventory.path", "~/.barcut/inventory.json")
	viper.SetDefault("report.title", "Cutting Report")
}

// Init points viper at the config file and the environment. An explicit
// cfgFile wins over the search path of "." and the home directory.
// A missing config file is not an error.
func Init(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".barcut")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("BARCUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			return nil
		}
		return err
	}
	return nil
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	SetDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Log.File = project.ExpandHome(cfg.Log.File)
	cfg.Archive.Path = project.ExpandHome(cfg.Archive.Path)
	cfg.Inventory.Path = project.ExpandHome(cfg.Inventory.Path)
	return cfg, nil
}

// Settings converts the engine section into planner settings. An unknown
// algorithm name falls back to first-fit decreasing.
func (c Config) Settings() model.CutSettings {
	s := model.DefaultSettings()
	if algo, err := model.ParseAlgorithm(c.Engine.Algorithm); err == nil {
		s.Algorithm = algo
	}
	s.KerfWidth = c.Engine.DefaultKerf
	s.MaxPieces = c.Engine.MaxPieces
	return s
}

// Snapshot holds the current Config and swaps it atomically on reload.
type Snapshot struct {
	cur atomic.Pointer[Config]

	mu        sync.Mutex
	listeners []func(Config)
}

// NewSnapshot wraps an initial config.
func NewSnapshot(cfg Config) *Snapshot {
	s := &Snapshot{}
	s.cur.Store(&cfg)
	return s
}

// Get returns the current config.
func (s *Snapshot) Get() Config {
	return *s.cur.Load()
}

// Set replaces the config and notifies listeners.
func (s *Snapshot) Set(cfg Config) {
	s.cur.Store(&cfg)

	s.mu.Lock()
	listeners := append([]func(Config){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(cfg)
	}
}

// OnChange registers fn to run after every Set.
func (s *Snapshot) OnChange(fn func(Config)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Watch reloads the snapshot whenever the config file changes on disk.
// Reload failures are passed to onError and keep the previous config.
func Watch(s *Snapshot, onError func(error)) {
	viper.OnConfigChange(func(fsnotify.Event) {
		cfg, err := Load()
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		s.Set(cfg)
	})
	viper.WatchConfig()
}
