package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gravitas-games/stockpile/internal/quickstack"
	"github.com/gravitas-games/stockpile/pkg/inventory"
)

// Config holds all server configuration
type Config struct {
	Server     ServerConfig           `yaml:"server"`
	JWT        JWTConfig              `yaml:"jwt"`
	Redis      RedisConfig            `yaml:"redis"`
	Session    SessionConfig          `yaml:"session"`
	Log        LogConfig              `yaml:"log"`
	QuickStack QuickStackConfig       `yaml:"quick_stack"`
	Items      []inventory.ItemDetails `yaml:"items"`
}

// ServerConfig holds server-specific settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// JWTConfig holds JWT authentication settings
type JWTConfig struct {
	Issuer              string `yaml:"issuer"`
	PublicKeyURL        string `yaml:"public_key_url"`
	PublicKeyRefreshHrs int    `yaml:"public_key_refresh_hours"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Address         string `yaml:"address"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	BlacklistPrefix string `yaml:"blacklist_prefix"`
	LockPrefix      string `yaml:"lock_prefix"`
}

// SessionConfig holds game session settings
type SessionConfig struct {
	MaxPlayers    int `yaml:"max_players"`
	InventorySize int `yaml:"inventory_size"`
	// SeedSampleBase places the sample containers around the origin.
	SeedSampleBase bool `yaml:"seed_sample_base"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// QuickStackConfig holds quick stack settings. Unset kind switches default
// to true.
type QuickStackConfig struct {
	Range               int              `yaml:"range"` // hex tiles around the player
	LockTTL             time.Duration    `yaml:"lock_ttl"`
	PickLowestFirst     bool             `yaml:"pick_lowest_first"`
	ConsiderChests      *bool            `yaml:"consider_chests"`
	ConsiderColdStorage *bool            `yaml:"consider_cold_storage"`
	ConsiderSilos       *bool            `yaml:"consider_silos"`
	ConsiderCargoHolds  *bool            `yaml:"consider_cargo_holds"`
	ExcludeKinds        []inventory.Kind `yaml:"exclude_kinds"`
}

// Eligibility resolves the kind switches into an allocator config.
func (q QuickStackConfig) Eligibility() *quickstack.Config {
	cfg := quickstack.DefaultConfig()
	set := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	set(&cfg.ConsiderChests, q.ConsiderChests)
	set(&cfg.ConsiderColdStorage, q.ConsiderColdStorage)
	set(&cfg.ConsiderSilos, q.ConsiderSilos)
	set(&cfg.ConsiderCargoHolds, q.ConsiderCargoHolds)
	cfg.ExcludeKinds = append([]inventory.Kind(nil), q.ExcludeKinds...)
	return cfg
}

// PickOrder returns the configured source pick order.
func (q QuickStackConfig) PickOrder() quickstack.PickOrder {
	if q.PickLowestFirst {
		return quickstack.PickLowestFirst
	}
	return quickstack.PickHighestFirst
}

// Registry builds the item catalog. An empty items section falls back to the
// sample catalog.
func (c *Config) Registry() (*inventory.Registry, error) {
	if len(c.Items) == 0 {
		return inventory.SampleCatalog(), nil
	}
	reg := inventory.NewRegistry()
	for _, item := range c.Items {
		if err := reg.RegisterDetails(item); err != nil {
			return nil, fmt.Errorf("item %q: %w", item.ID, err)
		}
	}
	return reg, nil
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults if not provided
	if cfg.JWT.PublicKeyRefreshHrs == 0 {
		cfg.JWT.PublicKeyRefreshHrs = 24
	}
	if cfg.Redis.BlacklistPrefix == "" {
		cfg.Redis.BlacklistPrefix = "blacklist:"
	}
	if cfg.Redis.LockPrefix == "" {
		cfg.Redis.LockPrefix = "quickstack:lock:"
	}
	if cfg.Session.MaxPlayers == 0 {
		cfg.Session.MaxPlayers = 100
	}
	if cfg.Session.InventorySize == 0 {
		cfg.Session.InventorySize = 36
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.QuickStack.Range == 0 {
		cfg.QuickStack.Range = 3
	}
	if cfg.QuickStack.LockTTL == 0 {
		cfg.QuickStack.LockTTL = 2 * time.Second
	}
	if cfg.QuickStack.Range < 0 {
		return nil, fmt.Errorf("quick_stack.range must not be negative, got %d", cfg.QuickStack.Range)
	}

	return &cfg, nil
}
