package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kod.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if time.Duration(cfg.Cooldown) != 15*time.Minute {
		t.Errorf("Cooldown = %v", time.Duration(cfg.Cooldown))
	}
	if cfg.XPModel != "kingdom" || cfg.DailyPolicy != "produce" {
		t.Errorf("models = %q / %q", cfg.XPModel, cfg.DailyPolicy)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
listen_addr: ":9999"
cooldown: 5m
day_interval: 1h
tax_rate: 0.1
xp_model: unit
daily_policy: spawn
world_seed: 42
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":9999" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if time.Duration(cfg.Cooldown) != 5*time.Minute {
		t.Errorf("Cooldown = %v", time.Duration(cfg.Cooldown))
	}
	if time.Duration(cfg.DayInterval) != time.Hour {
		t.Errorf("DayInterval = %v", time.Duration(cfg.DayInterval))
	}
	// Keys absent from the file keep their defaults.
	if cfg.DBPath != "data/kod.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}

	ec := cfg.Engine()
	if ec.TaxRate != 0.1 || ec.XPModel != "unit" || ec.DailyPolicy != "spawn" || ec.WorldSeed != 42 {
		t.Errorf("engine config = %+v", ec)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, `db_path: from-file.db`)
	t.Setenv("KOD_DB_PATH", "from-env.db")
	t.Setenv("KOD_RANDOM_ORG_KEY", "secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "from-env.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.RandomOrgKey != "secret" {
		t.Errorf("RandomOrgKey = %q", cfg.RandomOrgKey)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"xp model", "xp_model: heroic", "xp_model"},
		{"daily policy", "daily_policy: feast", "daily_policy"},
		{"tax rate", "tax_rate: 1.5", "tax_rate"},
		{"duration", "cooldown: soon", "duration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load error = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load should fail on a missing explicit config path")
	}
}
