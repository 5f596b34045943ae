package extension

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/calo"
	"github.com/xraph/calo/material"
)

func TestMergeConfigurations(t *testing.T) {
	yaml := Config{AreaM2: 0.25, Prices: map[string]float64{material.Lead: 30}}
	prog := Config{
		DisableMigrate: true,
		AreaM2:         4,
		Prices:         map[string]float64{material.Lead: 10, material.Iron: 5},
	}

	got := mergeConfigurations(yaml, prog)
	assert.True(t, got.DisableMigrate)
	assert.Equal(t, 0.25, got.AreaM2)
	assert.Equal(t, map[string]float64{material.Lead: 30, material.Iron: 5}, got.Prices)

	got = mergeConfigurations(Config{}, Config{})
	assert.Equal(t, calo.DefaultAreaM2, got.AreaM2)
	assert.False(t, got.DisableMigrate)
}

func TestPriceOverrides(t *testing.T) {
	base := material.Default()
	cat, err := priceOverrides(base, map[string]float64{material.Lead: 99, material.Iron: 1})
	require.NoError(t, err)

	pb, err := cat.Lookup(material.Lead)
	require.NoError(t, err)
	assert.Equal(t, 99.0, pb.Price)

	orig, err := base.Lookup(material.Lead)
	require.NoError(t, err)
	assert.NotEqual(t, 99.0, orig.Price)

	_, err = priceOverrides(base, map[string]float64{material.Lead: -1})
	assert.ErrorIs(t, err, calo.ErrConfiguration)
}

func TestBuildEngineOpts(t *testing.T) {
	e := New(WithArea(0.5), WithPrice(material.Iron, 2), WithDisableMigrate())
	e.config = mergeWithDefaults(e.config)

	opts, err := e.buildEngineOpts()
	require.NoError(t, err)
	assert.Len(t, opts, 3)

	eng := calo.New(nil, opts...)
	assert.Equal(t, 0.5, eng.AreaM2())
	fe, err := eng.Catalog().Lookup(material.Iron)
	require.NoError(t, err)
	assert.Equal(t, 2.0, fe.Price)

	e = New(WithPrice(material.Iron, -1))
	_, err = e.buildEngineOpts()
	assert.Error(t, err)
}
