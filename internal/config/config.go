package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the server runtime configuration. Values come from an
// optional config file with environment variables layered on top
// (prefix LAH, dots replaced by underscores).
type Config struct {
	Addr           string `mapstructure:"addr"`
	GameConfigPath string `mapstructure:"game_config_path"`
	LogLevel       string `mapstructure:"log_level"`

	DatabaseDSN string `mapstructure:"database_dsn"`
	PoolSize    int    `mapstructure:"pool_size"`

	TickPeriodMS         int  `mapstructure:"tick_period_ms"`
	RandomizeSpawnPoints bool `mapstructure:"randomize_spawn_points"`
	RetirementTimeMS     int  `mapstructure:"retirement_time_ms"`
}

// TickPeriod converts the configured period to a duration. Zero means
// the loop runs in manual mode and only advances on explicit requests.
func (c Config) TickPeriod() time.Duration {
	return time.Duration(c.TickPeriodMS) * time.Millisecond
}

// RetirementTime converts the configured idle cutoff to a duration.
// Zero keeps the world default.
func (c Config) RetirementTime() time.Duration {
	return time.Duration(c.RetirementTimeMS) * time.Millisecond
}

// Load reads configuration from path (optional) and the environment.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("addr", ":8080")
	v.SetDefault("game_config_path", "config/game.json")
	v.SetDefault("log_level", "info")
	v.SetDefault("database_dsn", "")
	v.SetDefault("pool_size", 8)
	v.SetDefault("tick_period_ms", 50)
	v.SetDefault("randomize_spawn_points", false)
	v.SetDefault("retirement_time_ms", 0)

	v.SetEnvPrefix("LAH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.GameConfigPath == "" {
		return fmt.Errorf("game_config_path must not be empty")
	}
	if c.PoolSize <= 0 {
		return fmt.Errorf("pool_size must be positive, got %d", c.PoolSize)
	}
	if c.TickPeriodMS < 0 {
		return fmt.Errorf("tick_period_ms must not be negative, got %d", c.TickPeriodMS)
	}
	if c.RetirementTimeMS < 0 {
		return fmt.Errorf("retirement_time_ms must not be negative, got %d", c.RetirementTimeMS)
	}
	return nil
}
