package geometry_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/calo/geometry"
	"github.com/xraph/calo/material"
	"github.com/xraph/calo/types"
)

func newStack(t *testing.T, opts ...geometry.Option) *geometry.Descriptor {
	t.Helper()
	d, err := geometry.New(0.25, opts...)
	require.NoError(t, err)
	require.NoError(t, d.AddLayer(1.0, material.Lead, false))
	require.NoError(t, d.AddLayer(0.5, material.Polystyrene, true))
	require.NoError(t, d.AddLayer(2.0, material.Iron, false))
	require.NoError(t, d.AddLayer(0.5, material.Polystyrene, true))
	return d
}

func TestNewRejectsBadArea(t *testing.T) {
	for _, area := range []float64{0, -1, math.Inf(1), math.NaN()} {
		_, err := geometry.New(area)
		assert.ErrorIs(t, err, types.ErrConfiguration, "area %v", area)
	}
}

func TestAddLayerValidation(t *testing.T) {
	d, err := geometry.New(1, geometry.WithCatalog(material.Default()))
	require.NoError(t, err)

	tests := []struct {
		name      string
		thickness float64
		material  string
		wantErr   error
	}{
		{"zero thickness", 0, material.Iron, types.ErrConfiguration},
		{"negative thickness", -0.1, material.Iron, types.ErrConfiguration},
		{"nan thickness", math.NaN(), material.Iron, types.ErrConfiguration},
		{"inf thickness", math.Inf(1), material.Iron, types.ErrConfiguration},
		{"empty material", 1, "", types.ErrConfiguration},
		{"unknown material", 1, "G4_KRYPTONITE", material.ErrUnknownMaterial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := d.AddLayer(tt.thickness, tt.material, false)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Equal(t, 0, d.Len(), "rejected layers are never appended")
}

func TestUnknownMaterialRejectedByDefault(t *testing.T) {
	d, err := geometry.New(1)
	require.NoError(t, err)
	assert.ErrorIs(t, d.AddLayer(1, "G4_KRYPTONITE", false), material.ErrUnknownMaterial)
	assert.NoError(t, d.AddLayer(1, material.Iron, false))

	d, err = geometry.New(1, geometry.WithCatalog(nil))
	require.NoError(t, err)
	assert.ErrorIs(t, d.AddLayer(1, "G4_KRYPTONITE", false), material.ErrUnknownMaterial)

	custom, err := material.Default().WithProps("G4_KRYPTONITE", 1, 10)
	require.NoError(t, err)
	custom, err = custom.WithPrice("G4_KRYPTONITE", 1)
	require.NoError(t, err)
	d, err = geometry.New(1, geometry.WithCatalog(custom))
	require.NoError(t, err)
	assert.NoError(t, d.AddLayer(1, "G4_KRYPTONITE", false))
	assert.Equal(t, 1, d.Len())

	_, err = geometry.FromLayers(1, []geometry.Layer{{Thickness: 1, Material: "G4_KRYPTONITE"}})
	assert.ErrorIs(t, err, material.ErrUnknownMaterial)
}

func TestDerivedViews(t *testing.T) {
	d := newStack(t)

	assert.Equal(t, 4, d.Len())
	assert.Equal(t, 0.25, d.AreaM2())
	assert.Equal(t, 4.0, d.TotalLength())
	assert.Equal(t, []float64{0, 1, 1.5, 3.5, 4}, d.Edges())
	assert.Equal(t, []int{1, 3}, d.SensitiveIndices())

	l, ok := d.Layer(2)
	require.True(t, ok)
	assert.Equal(t, geometry.Layer{Thickness: 2, Material: material.Iron}, l)
	_, ok = d.Layer(4)
	assert.False(t, ok)
	_, ok = d.Layer(-1)
	assert.False(t, ok)
}

func TestLayersReturnsCopy(t *testing.T) {
	d := newStack(t)
	layers := d.Layers()
	layers[0].Thickness = 99

	l, _ := d.Layer(0)
	assert.Equal(t, 1.0, l.Thickness)
	assert.Equal(t, 4.0, d.TotalLength())
}

func TestLayerAt(t *testing.T) {
	d := newStack(t)

	tests := []struct {
		z      float64
		want   int
		wantOK bool
	}{
		{0, 0, true},
		{0.99, 0, true},
		{1.0, 1, true},
		{1.49, 1, true},
		{1.5, 2, true},
		{3.6, 3, true},
		{4.0, 3, true},
		{4.01, 0, false},
		{-0.01, 0, false},
		{math.NaN(), 0, false},
	}
	for _, tt := range tests {
		got, ok := d.LayerAt(tt.z)
		assert.Equal(t, tt.wantOK, ok, "z=%v", tt.z)
		if tt.wantOK {
			assert.Equal(t, tt.want, got, "z=%v", tt.z)
		}
	}

	empty, err := geometry.New(1)
	require.NoError(t, err)
	_, ok := empty.LayerAt(0)
	assert.False(t, ok)
}

func TestReport(t *testing.T) {
	rows := newStack(t).Report()
	require.Len(t, rows, 4)

	assert.Equal(t, geometry.ReportRow{
		Index: 2, Material: material.Iron, Thickness: 2,
		ZStart: 1.5, ZEnd: 3.5, ZCenter: 2.5,
	}, rows[2])
	assert.True(t, rows[3].Sensitive)
	assert.Equal(t, 4.0, rows[3].ZEnd)
}

func TestFromLayers(t *testing.T) {
	src := newStack(t)
	d, err := geometry.FromLayers(src.AreaM2(), src.Layers(), geometry.WithCatalog(material.Default()))
	require.NoError(t, err)
	assert.Equal(t, src.Layers(), d.Layers())

	_, err = geometry.FromLayers(1, []geometry.Layer{{Thickness: 0, Material: material.Iron}})
	assert.ErrorIs(t, err, types.ErrConfiguration)
}
