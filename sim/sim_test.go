package sim_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/xraph/calo/design"
	"github.com/xraph/calo/geometry"
	"github.com/xraph/calo/material"
	"github.com/xraph/calo/sim"
	"github.com/xraph/calo/types"
)

var quiet = sim.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

// fakeBridge returns one hit per event at z = event index in mm, with the
// beam energy as the deposit.
type fakeBridge struct {
	mu    sync.Mutex
	calls []sim.Request
	fail  func(sim.Request) error
}

func (f *fakeBridge) Simulate(ctx context.Context, req sim.Request) ([]sim.Hit, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if f.fail != nil {
		if err := f.fail(req); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hits := make([]sim.Hit, req.Events)
	for i := range hits {
		hits[i] = sim.Hit{Event: i, EdepMeV: req.EnergyMeV, ZMM: float64(i)}
	}
	return hits, nil
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name                  string
		n, perCall, maxChunks int
		want                  []int
	}{
		{"even split", 300, 100, 10, []int{100, 100, 100}},
		{"capped", 1050, 100, 10, []int{105, 105, 105, 105, 105, 105, 105, 105, 105, 105}},
		{"remainder first", 7, 3, 10, []int{3, 2, 2}},
		{"single call", 42, 100, 10, []int{42}},
		{"per call floor", 3, 0, 10, []int{1, 1, 1}},
		{"no cap", 5, 1, 0, []int{1, 1, 1, 1, 1}},
		{"empty", 0, 100, 10, nil},
		{"negative", -3, 100, 10, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sim.Plan(tt.n, tt.perCall, tt.maxChunks)
			assert.Equal(t, tt.want, got)

			sum := 0
			for _, c := range got {
				sum += c
			}
			assert.Equal(t, max(0, tt.n), sum)
		})
	}
}

func TestRunSample(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := &fakeBridge{}
	cfg := sim.DefaultSampleConfig()
	cfg.Events = 250
	cfg.Seed = 7
	cfg.Workers = 4

	s, err := sim.RunSample(context.Background(), b, cfg, quiet)
	require.NoError(t, err)

	require.Len(t, s.Chunks, 3)
	assert.Equal(t, []int{84, 83, 83}, []int{s.Chunks[0].Events, s.Chunks[1].Events, s.Chunks[2].Events})
	require.Len(t, s.Hits, 250)
	assert.Len(t, b.calls, 3)
	assert.Equal(t, 0.2, s.LayerThicknessCm)
	assert.Equal(t, "gamma", s.Particle)

	offset := 0
	for i, ch := range s.Chunks {
		assert.Equal(t, i, ch.Index)
		assert.Equal(t, ch.Events, ch.Hits)
		assert.GreaterOrEqual(t, ch.EnergyMeV, 1000.0)
		assert.LessOrEqual(t, ch.EnergyMeV, 100000.0)
		for j := 0; j < ch.Events; j++ {
			h := s.Hits[offset+j]
			assert.Equal(t, i, h.Chunk)
			assert.Equal(t, j, h.Event)
			assert.Equal(t, ch.EnergyMeV, h.EnergyMeV)
			assert.Equal(t, ch.EnergyMeV, h.EdepMeV)
		}
		offset += ch.Events
	}
}

func TestRunSampleEnergiesIndependentOfWorkers(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := sim.DefaultSampleConfig()
	cfg.Events = 1000
	cfg.Seed = 99

	cfg.Workers = 1
	serial, err := sim.RunSample(context.Background(), &fakeBridge{}, cfg, quiet)
	require.NoError(t, err)

	cfg.Workers = 8
	parallel, err := sim.RunSample(context.Background(), &fakeBridge{}, cfg, quiet)
	require.NoError(t, err)

	assert.Equal(t, serial.Chunks, parallel.Chunks)
	assert.Equal(t, serial.Hits, parallel.Hits)

	cfg.Seed = 100
	other, err := sim.RunSample(context.Background(), &fakeBridge{}, cfg, quiet)
	require.NoError(t, err)
	assert.NotEqual(t, serial.Chunks[0].EnergyMeV, other.Chunks[0].EnergyMeV)
}

func TestRunSampleFixedEnergy(t *testing.T) {
	cfg := sim.DefaultSampleConfig()
	cfg.EMinGeV, cfg.EMaxGeV = 10, 10
	b := &fakeBridge{}

	_, err := sim.RunSample(context.Background(), b, cfg, quiet)
	require.NoError(t, err)
	for _, req := range b.calls {
		assert.Equal(t, 10000.0, req.EnergyMeV)
		assert.Equal(t, 1, req.Threads)
		assert.Equal(t, "gamma", req.Particle)
	}
}

func TestRunSampleBridgeFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	boom := errors.New("geant4 crashed")
	b := &fakeBridge{fail: func(req sim.Request) error {
		if req.Events == 83 {
			return boom
		}
		return nil
	}}
	cfg := sim.DefaultSampleConfig()
	cfg.Events = 250
	cfg.Workers = 2

	s, err := sim.RunSample(context.Background(), b, cfg, quiet)
	require.Error(t, err)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, sim.ErrBridge)
	assert.ErrorIs(t, err, boom)
}

func TestRunSampleCanceled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.RunSample(ctx, &fakeBridge{}, sim.DefaultSampleConfig(), quiet)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunSampleNoEvents(t *testing.T) {
	b := &fakeBridge{}
	cfg := sim.DefaultSampleConfig()
	cfg.Events = 0

	s, err := sim.RunSample(context.Background(), b, cfg, quiet)
	require.NoError(t, err)
	assert.Empty(t, s.Hits)
	assert.Empty(t, s.Chunks)
	assert.Empty(t, b.calls)
}

func TestSampleConfigValidate(t *testing.T) {
	mutations := map[string]func(*sim.SampleConfig){
		"no particle":    func(c *sim.SampleConfig) { c.Particle = "" },
		"negative count": func(c *sim.SampleConfig) { c.Events = -1 },
		"negative emin":  func(c *sim.SampleConfig) { c.EMinGeV = -1 },
		"inverted range": func(c *sim.SampleConfig) { c.EMinGeV, c.EMaxGeV = 50, 10 },
		"bad threads":    func(c *sim.SampleConfig) { c.Threads = -2 },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			cfg := sim.DefaultSampleConfig()
			mutate(&cfg)
			_, err := sim.RunSample(context.Background(), &fakeBridge{}, cfg, quiet)
			assert.ErrorIs(t, err, types.ErrConfiguration)
		})
	}
}

func TestGeometryCodec(t *testing.T) {
	res, err := design.DefaultTripletConfig().Build(material.Default(), 0.25)
	require.NoError(t, err)

	data, err := sim.EncodeGeometry(res.Geometry)
	require.NoError(t, err)
	again, err := sim.EncodeGeometry(res.Geometry)
	require.NoError(t, err)
	assert.Equal(t, data, again)

	d, err := sim.DecodeGeometry(data, geometry.WithCatalog(material.Default()))
	require.NoError(t, err)
	assert.Equal(t, res.Geometry.Layers(), d.Layers())
	assert.Equal(t, 0.25, d.AreaM2())
	assert.Equal(t, 200.0, d.TotalLength())
}

func TestDecodeGeometryRejects(t *testing.T) {
	_, err := sim.DecodeGeometry([]byte{0xff})
	assert.Error(t, err)

	v2, err := cbor.Marshal(map[int]any{1: 2, 2: 1.0})
	require.NoError(t, err)
	_, err = sim.DecodeGeometry(v2)
	assert.ErrorContains(t, err, "unsupported version")

	bad, err := cbor.Marshal(map[int]any{
		1: sim.GeometryFormatVersion,
		2: 1.0,
		3: []map[int]any{{1: 0.0, 2: material.Iron, 3: false}},
	})
	require.NoError(t, err)
	_, err = sim.DecodeGeometry(bad)
	assert.ErrorIs(t, err, types.ErrConfiguration)
}

func TestDepthProfile(t *testing.T) {
	hits := []sim.Hit{
		{ZMM: 10, EdepMeV: 1},
		{ZMM: 11, EdepMeV: 3},
		{ZMM: 12.5, EdepMeV: 4},
		{ZMM: 14.9, EdepMeV: 2},
		{ZMM: 15, EdepMeV: 6},
		{ZMM: 19, EdepMeV: 10},
	}
	p, skipped, err := sim.DepthProfile(hits, 0.2)
	require.NoError(t, err)
	assert.Zero(t, skipped)

	assert.Equal(t, []int{2, 1, 2, 0, 1}, p.Counts)
	assert.Equal(t, []float64{4, 4, 8, 0, 10}, p.Sums)
	assert.Equal(t, []float64{2, 4, 4, 0, 10}, p.Means)

	empty, _, err := sim.DepthProfile(nil, 0.2)
	require.NoError(t, err)
	assert.Empty(t, empty.Means)

	_, _, err = sim.DepthProfile(hits, 0)
	assert.ErrorIs(t, err, types.ErrConfiguration)
}

func TestDepthProfileSkipsNonFiniteDepths(t *testing.T) {
	hits := []sim.Hit{
		{ZMM: 1, EdepMeV: 2},
		{ZMM: math.NaN(), EdepMeV: 5},
		{ZMM: 2, EdepMeV: 4},
		{ZMM: math.Inf(1), EdepMeV: 7},
		{ZMM: math.Inf(-1), EdepMeV: 9},
	}
	p, skipped, err := sim.DepthProfile(hits, 0.2)
	require.NoError(t, err)
	assert.Equal(t, 3, skipped)
	assert.Equal(t, []int{2}, p.Counts)
	assert.Equal(t, []float64{6}, p.Sums)

	none, skipped, err := sim.DepthProfile([]sim.Hit{{ZMM: math.NaN()}}, 0.2)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	assert.Empty(t, none.Counts)
}

func TestDepthProfileRejectsUnboundedRange(t *testing.T) {
	hits := []sim.Hit{{ZMM: 0, EdepMeV: 1}, {ZMM: 1e12, EdepMeV: 1}}
	_, _, err := sim.DepthProfile(hits, 0.2)
	assert.ErrorIs(t, err, types.ErrConfiguration)

	// Exactly at the bound is still accepted.
	edge := []sim.Hit{{ZMM: 0}, {ZMM: float64(sim.MaxDepthBins-1) * 2}}
	p, _, err := sim.DepthProfile(edge, 0.2)
	require.NoError(t, err)
	assert.Len(t, p.Counts, sim.MaxDepthBins)
}

func TestLayerProfile(t *testing.T) {
	d, err := geometry.New(1)
	require.NoError(t, err)
	require.NoError(t, d.AddLayer(1.0, material.Lead, false))
	require.NoError(t, d.AddLayer(0.5, material.Polystyrene, true))
	require.NoError(t, d.AddLayer(2.0, material.Iron, false))

	hits := []sim.Hit{
		{ZMM: -100, EdepMeV: 1},
		{ZMM: -95, EdepMeV: 3},
		{ZMM: -88, EdepMeV: 5},
		{ZMM: -70, EdepMeV: 7},
		{ZMM: -67, EdepMeV: 9},
		{ZMM: -200, EdepMeV: 11},
	}
	p, outside := sim.LayerProfile(hits, d, -100)

	assert.Equal(t, 1, outside)
	assert.Equal(t, []int{2, 1, 2}, p.Counts)
	assert.Equal(t, []float64{4, 5, 16}, p.Sums)
	assert.Equal(t, []float64{2, 5, 8}, p.Means)
}

func TestRawHits(t *testing.T) {
	s := &sim.Sample{Hits: []sim.SampledHit{{Hit: sim.Hit{Event: 3, ZMM: 1}, Chunk: 1, EnergyMeV: 5}}}
	assert.Equal(t, []sim.Hit{{Event: 3, ZMM: 1}}, s.RawHits())
}
