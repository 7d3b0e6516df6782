// Package config loads process settings from the environment and game rules
// from a YAML file.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/rpg-workshop/internal/errors"
)

// Config holds the process settings read from the environment
type Config struct {
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RulesPath string `env:"RULES_PATH"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogFile   string `env:"LOG_FILE"`

	// SimulationTTL is how long the last run of an entity is kept
	SimulationTTL time.Duration `env:"SIMULATION_TTL" envDefault:"1h"`

	// MaxTrials bounds a single simulation request
	MaxTrials int `env:"MAX_TRIALS" envDefault:"100000"`

	// MaxLevelHistory caps stored level-up records per character; 0 keeps all
	MaxLevelHistory int `env:"MAX_LEVEL_HISTORY" envDefault:"50"`
}

// Load reads Config from the process environment
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads Config from the given variables instead of the process environment
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "parse env")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges that env tags cannot express
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("REDIS_ADDR", c.RedisAddr, vb)

	switch c.LogFormat {
	case "text", "json":
	default:
		vb.InvalidField("LOG_FORMAT", "must be text or json")
	}

	if c.SimulationTTL <= 0 {
		vb.InvalidField("SIMULATION_TTL", "must be positive")
	}
	if c.MaxTrials < 1 {
		vb.InvalidField("MAX_TRIALS", "must be at least 1")
	}
	if c.MaxLevelHistory < 0 {
		vb.InvalidField("MAX_LEVEL_HISTORY", "must not be negative")
	}

	return vb.Build()
}
