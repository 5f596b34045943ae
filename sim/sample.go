package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xraph/calo/types"
)

// SampleConfig describes a parametric energy scan. Beam energies are
// drawn uniformly in [EMinGeV, EMaxGeV], one per chunk. Workers bounds the
// number of concurrent bridge calls. LayerThicknessCm is carried to
// DepthProfile as the default bin width.
type SampleConfig struct {
	Particle         string  `json:"particle" env:"PARTICLE" envDefault:"gamma"`
	Events           int     `json:"events" env:"EVENTS" envDefault:"300"`
	EMinGeV          float64 `json:"e_min_gev" env:"E_MIN_GEV" envDefault:"1"`
	EMaxGeV          float64 `json:"e_max_gev" env:"E_MAX_GEV" envDefault:"100"`
	EventsPerCall    int     `json:"events_per_call" env:"EVENTS_PER_CALL" envDefault:"100"`
	MaxChunks        int     `json:"max_chunks" env:"MAX_CHUNKS" envDefault:"10"`
	Threads          int     `json:"threads" env:"THREADS" envDefault:"1"`
	Workers          int     `json:"workers" env:"WORKERS" envDefault:"1"`
	Seed             int64   `json:"seed" env:"SEED"`
	LayerThicknessCm float64 `json:"layer_thickness_cm" env:"LAYER_THICKNESS_CM" envDefault:"0.2"`
}

// DefaultSampleConfig returns a 300-event photon scan from 1 to 100 GeV in
// chunks of 100 events.
func DefaultSampleConfig() SampleConfig {
	return SampleConfig{
		Particle:         "gamma",
		Events:           300,
		EMinGeV:          1,
		EMaxGeV:          100,
		EventsPerCall:    100,
		MaxChunks:        10,
		Threads:          1,
		Workers:          1,
		LayerThicknessCm: 0.2,
	}
}

// Validate checks the scan parameters.
func (c SampleConfig) Validate() error {
	switch {
	case c.Particle == "":
		return types.Invalid("particle", "is empty")
	case c.Events < 0:
		return types.Invalid("events", "must be >= 0, got %d", c.Events)
	case c.EMinGeV < 0 || math.IsNaN(c.EMinGeV) || math.IsInf(c.EMinGeV, 0):
		return types.Invalid("e_min_gev", "must be a finite value >= 0, got %v", c.EMinGeV)
	case !(c.EMaxGeV >= c.EMinGeV) || math.IsInf(c.EMaxGeV, 0):
		return types.Invalid("e_max_gev", "must be finite and >= e_min_gev, got %v", c.EMaxGeV)
	case c.Threads < 0:
		return types.Invalid("threads", "must be >= 0, got %d", c.Threads)
	case c.LayerThicknessCm < 0:
		return types.Invalid("layer_thickness_cm", "must be >= 0, got %v", c.LayerThicknessCm)
	}
	return nil
}

// Chunk records one bridge call.
type Chunk struct {
	Index     int     `json:"index"`
	Events    int     `json:"events"`
	EnergyMeV float64 `json:"energy_mev"`
	Hits      int     `json:"hits"`
}

// SampledHit is a hit tagged with the chunk it came from and that chunk's
// beam energy.
type SampledHit struct {
	Hit
	Chunk     int     `json:"chunk"`
	EnergyMeV float64 `json:"e_mev"`
}

// Sample is the concatenated output of a scan, in chunk order.
type Sample struct {
	Particle         string       `json:"particle"`
	Chunks           []Chunk      `json:"chunks"`
	Hits             []SampledHit `json:"hits"`
	LayerThicknessCm float64      `json:"layer_thickness_cm"`
}

// Option configures RunSample.
type Option func(*runner)

// WithLogger sets the logger used for per-chunk progress.
func WithLogger(logger *slog.Logger) Option {
	return func(r *runner) { r.logger = logger }
}

type runner struct {
	logger *slog.Logger
}

// RunSample plans cfg.Events into chunks, draws one beam energy per chunk
// from a source seeded with cfg.Seed, and calls b for each chunk with at
// most cfg.Workers calls in flight. The first failing chunk cancels the
// rest. Energies depend only on the seed and the plan, never on the
// completion order of the workers.
func RunSample(ctx context.Context, b Bridge, cfg SampleConfig, opts ...Option) (*Sample, error) {
	r := &runner{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	plan := Plan(cfg.Events, cfg.EventsPerCall, cfg.MaxChunks)
	out := &Sample{
		Particle:         cfg.Particle,
		Chunks:           make([]Chunk, len(plan)),
		LayerThicknessCm: cfg.LayerThicknessCm,
	}

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible beam energies, not security
	for i, n := range plan {
		eGeV := cfg.EMinGeV + rng.Float64()*(cfg.EMaxGeV-cfg.EMinGeV)
		out.Chunks[i] = Chunk{Index: i, Events: n, EnergyMeV: eGeV * 1000.0}
	}

	results := make([][]Hit, len(plan))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cfg.Workers))

	for i := range out.Chunks {
		ch := out.Chunks[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			r.logger.Info("simulating chunk",
				"chunk", ch.Index+1,
				"chunks", len(plan),
				"particle", cfg.Particle,
				"energy_gev", ch.EnergyMeV/1000.0,
				"events", ch.Events,
				"threads", cfg.Threads,
			)

			hits, err := b.Simulate(gctx, Request{
				Particle:  cfg.Particle,
				EnergyMeV: ch.EnergyMeV,
				Events:    ch.Events,
				Threads:   cfg.Threads,
			})
			if err != nil {
				return fmt.Errorf("%w: chunk %d: %w", ErrBridge, ch.Index, err)
			}
			results[ch.Index] = hits

			r.logger.Debug("chunk done",
				"chunk", ch.Index+1,
				"hits", len(hits),
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, hits := range results {
		total += len(hits)
	}
	out.Hits = make([]SampledHit, 0, total)
	for i, hits := range results {
		out.Chunks[i].Hits = len(hits)
		for _, h := range hits {
			out.Hits = append(out.Hits, SampledHit{Hit: h, Chunk: i, EnergyMeV: out.Chunks[i].EnergyMeV})
		}
	}
	return out, nil
}
