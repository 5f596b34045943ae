// Package geometry describes a one-dimensional layered calorimeter: a
// transverse area and an ordered, append-only sequence of slabs stacked
// along the depth axis. Order is the physical stacking order and drives
// depth binning downstream.
//
// Every layer's material must resolve in a catalog. Descriptors check
// against material.Default unless WithCatalog supplies another one.
package geometry

import (
	"math"
	"sort"

	"github.com/xraph/calo/material"
	"github.com/xraph/calo/types"
)

// Layer is one slab of the stack. It is immutable once appended.
type Layer struct {
	Thickness float64 `json:"thickness_cm"`
	Material  string  `json:"material"`
	Sensitive bool    `json:"sensitive"`
}

// Option configures a Descriptor.
type Option func(*Descriptor)

// WithCatalog sets the catalog AddLayer resolves materials against. A nil
// catalog keeps the built-in one.
func WithCatalog(l material.Lookuper) Option {
	return func(d *Descriptor) {
		if l != nil {
			d.catalog = l
		}
	}
}

// Descriptor is a single detector design. The zero value is not usable;
// construct with New.
type Descriptor struct {
	areaM2  float64
	layers  []Layer
	catalog material.Lookuper
}

// New creates an empty descriptor with the given transverse area in m².
func New(areaM2 float64, opts ...Option) (*Descriptor, error) {
	if !finitePositive(areaM2) {
		return nil, types.Invalid("area_m2", "must be a finite value > 0, got %v", areaM2)
	}
	d := &Descriptor{areaM2: areaM2, catalog: material.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// AddLayer appends a slab. Non-positive or non-finite thickness is a
// configuration error. A material the catalog cannot resolve fails with
// material.ErrUnknownMaterial. On error the descriptor is unchanged.
func (d *Descriptor) AddLayer(thicknessCm float64, mat string, sensitive bool) error {
	if !finitePositive(thicknessCm) {
		return types.Invalid("thickness_cm", "layer %d: must be a finite value > 0, got %v", len(d.layers), thicknessCm)
	}
	if mat == "" {
		return types.Invalid("material", "layer %d: identifier is empty", len(d.layers))
	}
	if _, err := d.catalog.Lookup(mat); err != nil {
		return err
	}
	d.layers = append(d.layers, Layer{Thickness: thicknessCm, Material: mat, Sensitive: sensitive})
	return nil
}

// AreaM2 returns the transverse area.
func (d *Descriptor) AreaM2() float64 { return d.areaM2 }

// Len returns the number of layers.
func (d *Descriptor) Len() int { return len(d.layers) }

// Layer returns the i-th layer in stacking order.
func (d *Descriptor) Layer(i int) (Layer, bool) {
	if i < 0 || i >= len(d.layers) {
		return Layer{}, false
	}
	return d.layers[i], true
}

// Layers returns a copy of the layer sequence.
func (d *Descriptor) Layers() []Layer {
	out := make([]Layer, len(d.layers))
	copy(out, d.layers)
	return out
}

// TotalLength is the running sum of layer thicknesses in stacking order.
func (d *Descriptor) TotalLength() float64 {
	var sum float64
	for _, l := range d.layers {
		sum += l.Thickness
	}
	return sum
}

// Edges returns the Len()+1 layer boundaries along depth, starting at 0.
// Edges()[Len()] == TotalLength().
func (d *Descriptor) Edges() []float64 {
	edges := make([]float64, len(d.layers)+1)
	for i, l := range d.layers {
		edges[i+1] = edges[i] + l.Thickness
	}
	return edges
}

// SensitiveIndices returns the indices of the sensitive layers in order.
func (d *Descriptor) SensitiveIndices() []int {
	var out []int
	for i, l := range d.layers {
		if l.Sensitive {
			out = append(out, i)
		}
	}
	return out
}

// LayerAt returns the index of the layer containing depth z (cm). Each
// layer owns the half-open interval [start, end); the far face of the last
// layer belongs to it as well.
func (d *Descriptor) LayerAt(z float64) (int, bool) {
	edges := d.Edges()
	n := len(d.layers)
	if n == 0 || math.IsNaN(z) || z < 0 || z > edges[n] {
		return 0, false
	}
	i := sort.Search(n, func(i int) bool { return edges[i+1] > z })
	if i == n {
		i = n - 1
	}
	return i, true
}

// ReportRow is the positional view of one layer.
type ReportRow struct {
	Index     int     `json:"index"`
	Material  string  `json:"material"`
	Thickness float64 `json:"thickness_cm"`
	Sensitive bool    `json:"sensitive"`
	ZStart    float64 `json:"z_start_cm"`
	ZEnd      float64 `json:"z_end_cm"`
	ZCenter   float64 `json:"z_center_cm"`
}

// Report projects the stack into per-layer depth positions.
func (d *Descriptor) Report() []ReportRow {
	edges := d.Edges()
	rows := make([]ReportRow, len(d.layers))
	for i, l := range d.layers {
		rows[i] = ReportRow{
			Index:     i,
			Material:  l.Material,
			Thickness: l.Thickness,
			Sensitive: l.Sensitive,
			ZStart:    edges[i],
			ZEnd:      edges[i+1],
			ZCenter:   0.5 * (edges[i] + edges[i+1]),
		}
	}
	return rows
}

// FromLayers rebuilds a descriptor from a stored layer sequence, applying
// the same validation as AddLayer.
func FromLayers(areaM2 float64, layers []Layer, opts ...Option) (*Descriptor, error) {
	d, err := New(areaM2, opts...)
	if err != nil {
		return nil, err
	}
	for _, l := range layers {
		if err := d.AddLayer(l.Thickness, l.Material, l.Sensitive); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
