// Package report holds the persisted record of a built design: its layer
// stack, derived specs and the cost summary of that build alone.
package report

import (
	"github.com/xraph/calo/cost"
	"github.com/xraph/calo/design"
	"github.com/xraph/calo/geometry"
	"github.com/xraph/calo/id"
	"github.com/xraph/calo/types"
)

type Report struct {
	types.Entity
	ID        id.ReportID        `json:"id"`
	Name      string             `json:"name"`
	Variant   design.Variant     `json:"variant"`
	AreaM2    float64            `json:"area_m2"`
	Layers    []geometry.Layer   `json:"layers"`
	Specs     map[string]float64 `json:"specs"`
	Cost      cost.Summary       `json:"cost"`
	TotalCost types.Money        `json:"total_cost"`
	Metadata  map[string]string  `json:"metadata,omitempty"`
}

// Geometry rebuilds the descriptor from the stored layers. Materials
// resolve against the built-in catalog unless geometry.WithCatalog is given.
func (r *Report) Geometry(opts ...geometry.Option) (*geometry.Descriptor, error) {
	return geometry.FromLayers(r.AreaM2, r.Layers, opts...)
}

// TotalLength is the summed depth of the stored layers.
func (r *Report) TotalLength() float64 {
	var sum float64
	for _, l := range r.Layers {
		sum += l.Thickness
	}
	return sum
}

type ListOpts struct {
	Variant design.Variant
	Limit   int
	Offset  int
}
