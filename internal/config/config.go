// Package config loads server settings from an optional YAML file with
// environment overrides. Secrets (the random.org key) come from the
// environment only.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/madeofmoss/KoD/internal/engine"
)

// Duration is a time.Duration that unmarshals from YAML strings like "15m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config holds everything the server needs to boot.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	DBPath     string `yaml:"db_path"`

	MoveInterval Duration `yaml:"move_interval"`
	DayInterval  Duration `yaml:"day_interval"`

	Cooldown      Duration `yaml:"cooldown"`
	ChoiceTimeout Duration `yaml:"choice_timeout"`
	TaxRate       float64  `yaml:"tax_rate"`
	BankRetention float64  `yaml:"bank_retention"`
	XPModel       string   `yaml:"xp_model"`
	DailyPolicy   string   `yaml:"daily_policy"`
	DailyAttempts int      `yaml:"daily_attempts"`
	WorldSeed     int64    `yaml:"world_seed"`

	// RandomOrgKey enables the random.org entropy pool. Environment only.
	RandomOrgKey string `yaml:"-"`
}

// Default returns the config the server runs with when no file is given.
func Default() Config {
	ec := engine.DefaultConfig()
	return Config{
		ListenAddr:    ":8080",
		DBPath:        "data/kod.db",
		MoveInterval:  Duration(time.Minute),
		DayInterval:   Duration(24 * time.Hour),
		Cooldown:      Duration(ec.Cooldown),
		ChoiceTimeout: Duration(ec.ChoiceTimeout),
		TaxRate:       ec.TaxRate,
		BankRetention: ec.BankRetention,
		XPModel:       ec.XPModel,
		DailyPolicy:   ec.DailyPolicy,
		DailyAttempts: ec.DailyAttempts,
		WorldSeed:     ec.WorldSeed,
	}
}

// Load builds the config: defaults, then the YAML file at path (skipped when
// path is empty), then environment variables. A .env file in the working
// directory is read into the environment first.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("KOD_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("KOD_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("KOD_WORLD_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.WorldSeed = seed
		}
	}
	c.RandomOrgKey = os.Getenv("KOD_RANDOM_ORG_KEY")
}

func (c *Config) validate() error {
	switch c.XPModel {
	case engine.XPModelKingdom, engine.XPModelUnit:
	default:
		return fmt.Errorf("xp_model %q: must be %q or %q",
			c.XPModel, engine.XPModelKingdom, engine.XPModelUnit)
	}
	switch c.DailyPolicy {
	case engine.DailyPolicyProduce, engine.DailyPolicySpawn:
	default:
		return fmt.Errorf("daily_policy %q: must be %q or %q",
			c.DailyPolicy, engine.DailyPolicyProduce, engine.DailyPolicySpawn)
	}
	if c.TaxRate < 0 || c.TaxRate > 1 {
		return fmt.Errorf("tax_rate %v: must be in [0, 1]", c.TaxRate)
	}
	if c.BankRetention < 0 || c.BankRetention > 1 {
		return fmt.Errorf("bank_retention %v: must be in [0, 1]", c.BankRetention)
	}
	return nil
}

// Engine converts the loaded settings into engine tunables.
func (c *Config) Engine() engine.Config {
	return engine.Config{
		Cooldown:      time.Duration(c.Cooldown),
		ChoiceTimeout: time.Duration(c.ChoiceTimeout),
		TaxRate:       c.TaxRate,
		BankRetention: c.BankRetention,
		XPModel:       c.XPModel,
		DailyPolicy:   c.DailyPolicy,
		DailyAttempts: c.DailyAttempts,
		WorldSeed:     c.WorldSeed,
	}
}
