package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.Currency != "INR" {
		t.Errorf("currency = %q, want INR", cfg.General.Currency)
	}
	if cfg.General.DefaultMonths != 12 {
		t.Errorf("default months = %d, want 12", cfg.General.DefaultMonths)
	}
	if cfg.Server.Addr != ":8085" {
		t.Errorf("server addr = %q, want :8085", cfg.Server.Addr)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.General.Currency = "USD"
	cfg.General.DataFile = "/tmp/txns.json"
	cfg.Server.Addr = ":9000"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.General.Currency != "USD" {
		t.Errorf("currency = %q, want USD", got.General.Currency)
	}
	if got.General.DataFile != "/tmp/txns.json" {
		t.Errorf("data file = %q", got.General.DataFile)
	}
	if got.Server.Addr != ":9000" {
		t.Errorf("addr = %q, want :9000", got.Server.Addr)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "spendcast")
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(path, "config.toml"), []byte("not [valid toml"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestMarketAPIKeyEnvWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Market.APIKey = "from-config"
	t.Setenv("SPENDCAST_MARKET_KEY", "from-env")
	if got := MarketAPIKey(cfg); got != "from-env" {
		t.Errorf("key = %q, want env value", got)
	}
	t.Setenv("SPENDCAST_MARKET_KEY", "")
	if got := MarketAPIKey(cfg); got != "from-config" {
		t.Errorf("key = %q, want config value", got)
	}
}
