package calo_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/calo"
	"github.com/xraph/calo/design"
	"github.com/xraph/calo/report"
	"github.com/xraph/calo/store/memory"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := calo.LoadConfigFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, 1.0, cfg.AreaM2)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DisableMigrate)
	assert.Equal(t, "gamma", cfg.Sim.Particle)
	assert.Equal(t, 300, cfg.Sim.Events)
	assert.Equal(t, 100, cfg.Sim.EventsPerCall)
	assert.Equal(t, 0.2, cfg.Sim.LayerThicknessCm)
}

func TestLoadConfigFromVars(t *testing.T) {
	cfg, err := calo.LoadConfigFrom(map[string]string{
		"CALO_AREA_M2":         "0.25",
		"CALO_LOG_LEVEL":       "debug",
		"CALO_DISABLE_MIGRATE": "true",
		"CALO_SIM_PARTICLE":    "pi+",
		"CALO_SIM_EVENTS":      "50",
		"CALO_SIM_WORKERS":     "4",
		"CALO_SIM_SEED":        "42",
	})
	require.NoError(t, err)

	assert.Equal(t, 0.25, cfg.AreaM2)
	assert.True(t, cfg.DisableMigrate)
	assert.Equal(t, "pi+", cfg.Sim.Particle)
	assert.Equal(t, 50, cfg.Sim.Events)
	assert.Equal(t, 4, cfg.Sim.Workers)
	assert.Equal(t, int64(42), cfg.Sim.Seed)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoadConfigRejects(t *testing.T) {
	cases := map[string]map[string]string{
		"zero area":      {"CALO_AREA_M2": "0"},
		"not a number":   {"CALO_AREA_M2": "wide"},
		"unknown level":  {"CALO_LOG_LEVEL": "loud"},
		"inverted range": {"CALO_SIM_E_MIN_GEV": "50", "CALO_SIM_E_MAX_GEV": "10"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := calo.LoadConfigFrom(vars)
			assert.ErrorIs(t, err, calo.ErrConfiguration)
		})
	}
}

func TestConfigOptions(t *testing.T) {
	cfg, err := calo.LoadConfigFrom(map[string]string{
		"CALO_AREA_M2":   "0.5",
		"CALO_LOG_LEVEL": "warn",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	e := calo.New(memory.New(), cfg.Options(slog.NewTextHandler(&buf, nil))...)
	ctx := context.Background()
	require.NoError(t, e.Start(ctx))
	defer e.Stop()

	assert.Equal(t, 0.5, e.AreaM2())

	_, err = e.BuildDefault(ctx, "quiet", design.Sampling, nil)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "design built")

	_, err = e.BuildDefault(ctx, "quiet", design.Sampling, nil)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "design build failed")

	list, err := e.ListReports(ctx, report.ListOpts{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
