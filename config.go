package calo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/xraph/calo/sim"
	"github.com/xraph/calo/types"
)

// Config is the environment-driven configuration of an Engine.
type Config struct {
	AreaM2         float64          `env:"CALO_AREA_M2" envDefault:"1"`
	LogLevel       string           `env:"CALO_LOG_LEVEL" envDefault:"info"`
	DisableMigrate bool             `env:"CALO_DISABLE_MIGRATE"`
	Sim            sim.SampleConfig `envPrefix:"CALO_SIM_"`
}

// LoadConfig reads Config from the process environment.
func LoadConfig() (Config, error) {
	return parseConfig(env.Options{})
}

// LoadConfigFrom reads Config from the given variables instead of the
// process environment.
func LoadConfigFrom(vars map[string]string) (Config, error) {
	return parseConfig(env.Options{Environment: vars})
}

func parseConfig(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("%w: %w", types.ErrConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the engine settings and the nested scan settings.
func (c Config) Validate() error {
	if !(c.AreaM2 > 0) {
		return types.Invalid("area_m2", "must be > 0, got %v", c.AreaM2)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return c.Sim.Validate()
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, types.Invalid("log_level", "unknown level %q", c.LogLevel)
	}
	return lvl, nil
}

// Options converts the configuration into engine options. The logger, when
// non-nil, is filtered to the configured level.
func (c Config) Options(handler slog.Handler) []Option {
	opts := []Option{WithArea(c.AreaM2)}
	if handler != nil {
		lvl, err := c.Level()
		if err != nil {
			lvl = slog.LevelInfo
		}
		opts = append(opts, WithLogger(slog.New(levelHandler{level: lvl, Handler: handler})))
	}
	if c.DisableMigrate {
		opts = append(opts, WithoutMigrate())
	}
	return opts
}

// levelHandler drops records below level.
type levelHandler struct {
	level slog.Leveler
	slog.Handler
}

func (h levelHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= h.level.Level() && h.Handler.Enabled(ctx, l)
}

func (h levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return levelHandler{level: h.level, Handler: h.Handler.WithAttrs(attrs)}
}

func (h levelHandler) WithGroup(name string) slog.Handler {
	return levelHandler{level: h.level, Handler: h.Handler.WithGroup(name)}
}
