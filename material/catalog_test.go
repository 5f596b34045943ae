package material_test

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/calo/material"
	"github.com/xraph/calo/types"
)

func TestDefaultCatalog(t *testing.T) {
	cat := material.Default()

	tests := []struct {
		material string
		want     material.Props
	}{
		{material.Polystyrene, material.Props{Price: 0, X0: 42.4, LambdaI: 77.0}},
		{material.Lead, material.Props{Price: 300, X0: 0.56, LambdaI: 17.1}},
		{material.Iron, material.Props{Price: 50, X0: 1.76, LambdaI: 16.8}},
		{material.LeadTungstate, material.Props{Price: 30000, X0: 0.89, LambdaI: 20.7}},
	}
	for _, tt := range tests {
		t.Run(tt.material, func(t *testing.T) {
			got, err := cat.Lookup(tt.material)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Len(t, cat.Materials(), 7)
}

func TestLookupUnknown(t *testing.T) {
	_, err := material.Default().Lookup("G4_UNOBTAINIUM")
	require.Error(t, err)
	assert.True(t, errors.Is(err, material.ErrUnknownMaterial))

	var empty material.Catalog
	_, err = empty.Lookup(material.Iron)
	assert.ErrorIs(t, err, material.ErrUnknownMaterial)
}

func TestPartialEntryIsUnknown(t *testing.T) {
	cat, err := material.Default().WithPrice("G4_Al", 40)
	require.NoError(t, err)

	_, err = cat.Lookup("G4_Al")
	assert.ErrorIs(t, err, material.ErrUnknownMaterial, "price without X0/λI must not resolve")
	assert.False(t, cat.Has("G4_Al"))

	cat, err = cat.WithProps("G4_Al", 8.9, 39.7)
	require.NoError(t, err)
	got, err := cat.Lookup("G4_Al")
	require.NoError(t, err)
	assert.Equal(t, material.Props{Price: 40, X0: 8.9, LambdaI: 39.7}, got)
}

func TestOverridesReturnNewValue(t *testing.T) {
	base := material.Default()

	cheaper, err := base.WithPrice(material.Lead, 150)
	require.NoError(t, err)
	denser, err := base.WithProps(material.Lead, 0.5, 17.0)
	require.NoError(t, err)

	orig, _ := base.Lookup(material.Lead)
	assert.Equal(t, 300.0, orig.Price, "receiver must be untouched")
	assert.Equal(t, 0.56, orig.X0)

	p, _ := cheaper.Lookup(material.Lead)
	assert.Equal(t, 150.0, p.Price)
	assert.Equal(t, 0.56, p.X0)

	p, _ = denser.Lookup(material.Lead)
	assert.Equal(t, 300.0, p.Price)
	assert.Equal(t, 0.5, p.X0)
}

func TestOverrideValidation(t *testing.T) {
	cat := material.Default()

	_, err := cat.WithPrice(material.Lead, -1)
	assert.ErrorIs(t, err, types.ErrConfiguration)
	_, err = cat.WithPrice("", 1)
	assert.ErrorIs(t, err, types.ErrConfiguration)
	_, err = cat.WithProps(material.Lead, 0, 17)
	assert.ErrorIs(t, err, types.ErrConfiguration)
	_, err = cat.WithProps(material.Lead, 0.5, math.NaN())
	assert.ErrorIs(t, err, types.ErrConfiguration)

	_, err = cat.WithPrice(material.Polystyrene, 0)
	assert.NoError(t, err, "zero price is valid")
}

func TestNewValidatesEntries(t *testing.T) {
	tests := []struct {
		name  string
		props material.Props
	}{
		{"negative price", material.Props{Price: -5, X0: 1, LambdaI: 1}},
		{"NaN price", material.Props{Price: math.NaN(), X0: 1, LambdaI: 1}},
		{"infinite price", material.Props{Price: math.Inf(1), X0: 1, LambdaI: 1}},
		{"zero X0", material.Props{Price: 1, X0: 0, LambdaI: 1}},
		{"negative lambda", material.Props{Price: 1, X0: 1, LambdaI: -2}},
		{"NaN lambda", material.Props{Price: 1, X0: 1, LambdaI: math.NaN()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := material.New(map[string]material.Props{
				material.Iron: {Price: 50, X0: 1.76, LambdaI: 16.8},
				"X":           tt.props,
			})
			assert.ErrorIs(t, err, types.ErrConfiguration)
		})
	}

	_, err := material.New(map[string]material.Props{"": {Price: 1, X0: 1, LambdaI: 1}})
	assert.ErrorIs(t, err, types.ErrConfiguration)

	cat, err := material.New(map[string]material.Props{"X": {Price: 0, X0: 2, LambdaI: 10}})
	require.NoError(t, err, "zero price is valid")
	assert.True(t, cat.Has("X"))
}

func TestHandleOverridesAffectSubsequentLookups(t *testing.T) {
	h := material.NewHandle(material.Default())
	snap := h.Snapshot()

	require.NoError(t, h.SetPrice(material.Iron, 75))
	require.NoError(t, h.SetProps(material.Iron, 1.8, 17.0))

	p, err := h.Lookup(material.Iron)
	require.NoError(t, err)
	assert.Equal(t, material.Props{Price: 75, X0: 1.8, LambdaI: 17.0}, p)

	old, err := snap.Lookup(material.Iron)
	require.NoError(t, err)
	assert.Equal(t, 50.0, old.Price, "snapshot taken before the override keeps old values")

	assert.ErrorIs(t, h.SetPrice(material.Iron, -5), types.ErrConfiguration)
	p, _ = h.Lookup(material.Iron)
	assert.Equal(t, 75.0, p.Price, "failed override leaves the handle unchanged")

	h.Replace(material.Catalog{})
	_, err = h.Lookup(material.Iron)
	assert.ErrorIs(t, err, material.ErrUnknownMaterial)
}

func TestHandleConcurrentAccess(t *testing.T) {
	h := material.NewHandle(material.Default())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = h.SetPrice(material.Copper, float64(800+i))
		}(i)
		go func() {
			defer wg.Done()
			_, _ = h.Lookup(material.Copper)
		}()
	}
	wg.Wait()

	p, err := h.Lookup(material.Copper)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p.Price, 800.0)
}

func TestAreaHelpers(t *testing.T) {
	assert.InDelta(t, 0.25, material.AreaRect(50, 50), 1e-15)
	assert.InDelta(t, math.Pi*0.01, material.AreaCylinder(10), 1e-15)
}

func TestCost(t *testing.T) {
	c, err := material.Cost(material.Default(), material.Lead, 2.0, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 300.0, c)

	_, err = material.Cost(material.Default(), "nope", 1, 1)
	assert.ErrorIs(t, err, material.ErrUnknownMaterial)
}
