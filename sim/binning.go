package sim

import (
	"math"

	"github.com/xraph/calo/geometry"
	"github.com/xraph/calo/types"
)

// Profile is an energy histogram along depth. Means holds the mean
// deposit per hit in each bin, zero for empty bins.
type Profile struct {
	Sums   []float64 `json:"sums_mev"`
	Counts []int     `json:"counts"`
	Means  []float64 `json:"means_mev"`
}

func newProfile(n int) Profile {
	return Profile{Sums: make([]float64, n), Counts: make([]int, n), Means: make([]float64, n)}
}

func (p *Profile) fill(bin int, edep float64) {
	p.Sums[bin] += edep
	p.Counts[bin]++
}

func (p *Profile) finish() {
	for i, c := range p.Counts {
		if c > 0 {
			p.Means[i] = p.Sums[i] / float64(c)
		}
	}
}

// MaxDepthBins bounds the histogram DepthProfile will allocate.
const MaxDepthBins = 1 << 16

// DepthProfile bins hits into uniform slices of sliceCm along z, counting
// from the shallowest hit. Hits with a non-finite z are skipped and counted
// in the second return value. A z range needing more than MaxDepthBins
// slices is a configuration error.
func DepthProfile(hits []Hit, sliceCm float64) (Profile, int, error) {
	if !(sliceCm > 0) || math.IsInf(sliceCm, 0) {
		return Profile{}, 0, types.Invalid("slice_cm", "must be a finite value > 0, got %v", sliceCm)
	}

	dz := sliceCm * 10.0
	z0, z1 := math.Inf(1), math.Inf(-1)
	skipped := 0
	for _, h := range hits {
		if !finite(h.ZMM) {
			skipped++
			continue
		}
		z0 = math.Min(z0, h.ZMM)
		z1 = math.Max(z1, h.ZMM)
	}
	if skipped == len(hits) {
		return Profile{}, skipped, nil
	}

	span := math.Floor((z1 - z0) / dz)
	if !(span < MaxDepthBins) {
		return Profile{}, skipped, types.Invalid("slice_cm",
			"z range %v mm needs more than %d slices of %v cm", z1-z0, MaxDepthBins, sliceCm)
	}

	p := newProfile(int(span) + 1)
	for _, h := range hits {
		if !finite(h.ZMM) {
			continue
		}
		p.fill(int(math.Floor((h.ZMM-z0)/dz)), h.EdepMeV)
	}
	p.finish()
	return p, skipped, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// LayerProfile bins hits into the layers of d. zFrontMM is the z of the
// front face of the first layer in the bridge's frame. Hits outside the
// stack are skipped and counted in the second return value.
func LayerProfile(hits []Hit, d *geometry.Descriptor, zFrontMM float64) (Profile, int) {
	p := newProfile(d.Len())
	outside := 0
	for _, h := range hits {
		i, ok := d.LayerAt((h.ZMM - zFrontMM) / 10.0)
		if !ok {
			outside++
			continue
		}
		p.fill(i, h.EdepMeV)
	}
	p.finish()
	return p, outside
}

// RawHits strips the chunk tags from the sample's hits.
func (s *Sample) RawHits() []Hit {
	out := make([]Hit, len(s.Hits))
	for i, h := range s.Hits {
		out[i] = h.Hit
	}
	return out
}
