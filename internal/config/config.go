package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"bowling-game/internal/ids"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverBolt     = "bolt"
)

type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	// Debug logging and gin debug mode
	Debug bool `envconfig:"DEBUG" default:"false"`

	// Storage backend: memory, postgres, sqlite or bolt
	StoreDriver string `envconfig:"STORE_DRIVER" default:"memory"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"bowling.db"`
	BoltPath    string `envconfig:"BOLT_PATH" default:"bowling.bolt"`

	// Number of players kept in the lookup cache, 0 disables it
	PlayerCacheSize int `envconfig:"PLAYER_CACHE_SIZE" default:"1024"`

	// sequence (game-1, game-2, ...) or uuid
	IDStrategy string `envconfig:"ID_STRATEGY" default:"sequence"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing the config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory, DriverSQLite, DriverBolt:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s store driver", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}

	switch c.IDStrategy {
	case ids.StrategySequence, ids.StrategyUUID:
	default:
		return fmt.Errorf("unknown id strategy %q", c.IDStrategy)
	}

	if c.PlayerCacheSize < 0 {
		return fmt.Errorf("player cache size must not be negative, got %d", c.PlayerCacheSize)
	}
	return nil
}
