package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestFullWorkflow(t *testing.T) {
	tmp := t.TempDir()

	// 1. Write default config
	cfgPath := filepath.Join(tmp, "strmsync", "config.toml")
	if err := WriteDefault(cfgPath); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	// 2. Set required env vars (t.Setenv auto-restores on cleanup)
	t.Setenv("XTREAM_URL", "http://panel.test:8080")
	t.Setenv("XTREAM_USERNAME", "user")
	t.Setenv("XTREAM_PASSWORD", "pass")

	// 3. Load with validation
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// 4. Verify env substitution worked
	if cfg.Provider.Password != "pass" {
		t.Errorf("expected password substituted, got %q", cfg.Provider.Password)
	}
	if cfg.Plex != nil {
		t.Errorf("expected plex disabled by default, got %+v", cfg.Plex)
	}

	// 5. Verify values carried into the sync options
	opts := cfg.SyncOptions()
	if opts.Policy.FullSyncInterval != 168*time.Hour {
		t.Errorf("expected weekly full sync, got %s", opts.Policy.FullSyncInterval)
	}
	if opts.Concurrency() != 5 {
		t.Errorf("expected concurrency 5, got %d", opts.Concurrency())
	}
}
