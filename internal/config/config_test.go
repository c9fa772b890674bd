package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/piwi3910/barcut/internal/model"
	"github.com/spf13/viper"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Server.Addr", cfg.Server.Addr, ":8080"},
		{"Server.MaxBodyBytes", cfg.Server.MaxBodyBytes, int64(1 << 20)},
		{"Server.ReadTimeout", cfg.Server.ReadTimeout, 10 * time.Second},
		{"Server.WriteTimeout", cfg.Server.WriteTimeout, 30 * time.Second},
		{"Engine.MaxPieces", cfg.Engine.MaxPieces, 10000},
		{"Engine.Algorithm", cfg.Engine.Algorithm, "ffd"},
		{"Engine.DefaultKerf", cfg.Engine.DefaultKerf, 3.0},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Archive.Enabled", cfg.Archive.Enabled, false},
		{"Report.Title", cfg.Report.Title, "Cutting Report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}

	if filepath.Base(cfg.Inventory.Path) != "inventory.json" || cfg.Inventory.Path[0] == '~' {
		t.Errorf("inventory path not expanded: %q", cfg.Inventory.Path)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetViper()
	t.Setenv("BARCUT_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("BARCUT_ENGINE_MAX_PIECES", "250")
	t.Setenv("BARCUT_ENGINE_ALGORITHM", "bfd")

	if err := Init(""); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Engine.MaxPieces != 250 {
		t.Errorf("Engine.MaxPieces = %d", cfg.Engine.MaxPieces)
	}
	if cfg.Settings().Algorithm != model.AlgorithmBestFit {
		t.Errorf("Settings().Algorithm = %q", cfg.Settings().Algorithm)
	}
}

func TestInit_ConfigFile(t *testing.T) {
	resetViper()
	path := filepath.Join(t.TempDir(), "barcut.yaml")
	src := "engine:\n  default_kerf: 1.5\n  algorithm: ga\nserver:\n  read_timeout: 2s\narchive:\n  enabled: true\n  path: /tmp/plans.db\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Init(path); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Engine.DefaultKerf != 1.5 {
		t.Errorf("DefaultKerf = %v, want 1.5", cfg.Engine.DefaultKerf)
	}
	if cfg.Server.ReadTimeout != 2*time.Second {
		t.Errorf("ReadTimeout = %v, want 2s", cfg.Server.ReadTimeout)
	}
	if !cfg.Archive.Enabled || cfg.Archive.Path != "/tmp/plans.db" {
		t.Errorf("unexpected archive config: %+v", cfg.Archive)
	}

	s := cfg.Settings()
	if s.Algorithm != model.AlgorithmGenetic || s.KerfWidth != 1.5 || s.MaxPieces != 10000 {
		t.Errorf("unexpected settings: %+v", s)
	}
}

func TestInit_MissingExplicitFile(t *testing.T) {
	resetViper()
	if err := Init(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestSettings_UnknownAlgorithm(t *testing.T) {
	cfg := Config{Engine: EngineConfig{Algorithm: "guillotine", DefaultKerf: 2, MaxPieces: 5}}
	if got := cfg.Settings().Algorithm; got != model.AlgorithmFirstFit {
		t.Errorf("expected fallback to ffd, got %q", got)
	}
}

func TestSnapshot_SetNotifies(t *testing.T) {
	snap := NewSnapshot(Config{Engine: EngineConfig{MaxPieces: 10}})

	var seen int
	snap.OnChange(func(c Config) { seen = c.Engine.MaxPieces })
	snap.Set(Config{Engine: EngineConfig{MaxPieces: 20}})

	if snap.Get().Engine.MaxPieces != 20 {
		t.Errorf("Get() = %d, want 20", snap.Get().Engine.MaxPieces)
	}
	if seen != 20 {
		t.Errorf("listener saw %d, want 20", seen)
	}
}
