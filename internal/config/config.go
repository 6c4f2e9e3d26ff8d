// Package config provides Viper-based configuration loading for the
// gauntlet tools.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is "stdout", "stderr", or a file path. Empty means stderr.
	Output string `mapstructure:"output"`
}

// ContentConfig holds the YAML content directories. An empty directory
// skips that content type.
type ContentConfig struct {
	Classes    string `mapstructure:"classes"`
	Items      string `mapstructure:"items"`
	Affixes    string `mapstructure:"affixes"`
	Effigies   string `mapstructure:"effigies"`
	Warrants   string `mapstructure:"warrants"`
	Conditions string `mapstructure:"conditions"`
}

// Under returns a ContentConfig with every directory rooted at root.
func (c ContentConfig) Under(root string) ContentConfig {
	join := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, p)
	}
	return ContentConfig{
		Classes:    join(c.Classes),
		Items:      join(c.Items),
		Affixes:    join(c.Affixes),
		Effigies:   join(c.Effigies),
		Warrants:   join(c.Warrants),
		Conditions: join(c.Conditions),
	}
}

// CombatConfig holds the tuning constants every new character receives.
type CombatConfig struct {
	StaggerThreshold float64 `mapstructure:"stagger_threshold"`
	StaggerDecay     float64 `mapstructure:"stagger_decay"`
	GuardMultiplier  float64 `mapstructure:"guard_multiplier"`
	GuardPersistence float64 `mapstructure:"guard_persistence"`
}

// SessionConfig holds per-session limits.
type SessionConfig struct {
	StashSlots int `mapstructure:"stash_slots"`
	FeedSize   int `mapstructure:"feed_size"`
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Content  ContentConfig  `mapstructure:"content"`
	Combat   CombatConfig   `mapstructure:"combat"`
	Session  SessionConfig  `mapstructure:"session"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateCombat(c.Combat); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSession(c.Session); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateCombat(c CombatConfig) error {
	var errs []string
	if c.StaggerThreshold <= 0 {
		errs = append(errs, fmt.Sprintf("combat.stagger_threshold must be > 0, got %v", c.StaggerThreshold))
	}
	if c.StaggerDecay < 0 {
		errs = append(errs, fmt.Sprintf("combat.stagger_decay must be >= 0, got %v", c.StaggerDecay))
	}
	if c.GuardMultiplier < 0 {
		errs = append(errs, fmt.Sprintf("combat.guard_multiplier must be >= 0, got %v", c.GuardMultiplier))
	}
	if c.GuardPersistence < 0 || c.GuardPersistence > 1 {
		errs = append(errs, fmt.Sprintf("combat.guard_persistence must be in [0, 1], got %v", c.GuardPersistence))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSession(s SessionConfig) error {
	var errs []string
	if s.StashSlots < 0 {
		errs = append(errs, fmt.Sprintf("session.stash_slots must be >= 0, got %d", s.StashSlots))
	}
	if s.FeedSize < 1 {
		errs = append(errs, fmt.Sprintf("session.feed_size must be >= 1, got %d", s.FeedSize))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with GAUNTLET_ prefix
	v.SetEnvPrefix("GAUNTLET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "gauntlet")
	v.SetDefault("database.password", "gauntlet")
	v.SetDefault("database.name", "gauntlet")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("content.classes", "content/classes")
	v.SetDefault("content.items", "content/items")
	v.SetDefault("content.affixes", "content/affixes")
	v.SetDefault("content.effigies", "content/effigies")
	v.SetDefault("content.warrants", "content/warrants")
	v.SetDefault("content.conditions", "content/conditions")

	v.SetDefault("combat.stagger_threshold", 100)
	v.SetDefault("combat.stagger_decay", 3)
	v.SetDefault("combat.guard_multiplier", 0.5)
	v.SetDefault("combat.guard_persistence", 0)

	v.SetDefault("session.stash_slots", 40)
	v.SetDefault("session.feed_size", 64)
}
