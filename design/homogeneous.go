package design

import (
	"math"

	"github.com/xraph/calo/geometry"
	"github.com/xraph/calo/material"
	"github.com/xraph/calo/types"
)

// HomogeneousConfig builds a single-material ECAL of TotalX0 radiation
// lengths cut into Slices equal sensitive slices, followed by the HCAL.
// X0Cm is the radiation length of EcalMaterial in cm; zero takes it from
// the catalog.
type HomogeneousConfig struct {
	TotalX0      float64    `json:"total_x0"`
	X0Cm         float64    `json:"x0_cm"`
	Slices       int        `json:"slices"`
	EcalMaterial string     `json:"ecal_material"`
	HCAL         HCALConfig `json:"hcal"`
}

// DefaultHomogeneousConfig is a 26 X0 PbWO4 ECAL in 30 slices followed by
// front, mid and back Fe/scintillator sections.
func DefaultHomogeneousConfig() HomogeneousConfig {
	return HomogeneousConfig{
		TotalX0:      26.0,
		X0Cm:         0.89,
		Slices:       30,
		EcalMaterial: material.LeadTungstate,
		HCAL: HCALConfig{
			Absorber:        material.Iron,
			Active:          material.Polystyrene,
			ActiveSensitive: true,
			Sections: []Grading{
				{Name: "front", Pairs: 16, AbsorberCm: 0.8, ActiveCm: 0.8},
				{Name: "mid", Pairs: 32, AbsorberCm: 1.2, ActiveCm: 0.6},
				{Name: "back", Pairs: 47, AbsorberCm: 1.5, ActiveCm: 0.5},
			},
		},
	}
}

func (c HomogeneousConfig) Variant() Variant { return Homogeneous }

func (c HomogeneousConfig) Validate() error {
	if !finitePositive(c.TotalX0) {
		return types.Invalid("total_x0", "must be a finite value > 0, got %v", c.TotalX0)
	}
	if c.X0Cm < 0 || math.IsNaN(c.X0Cm) || math.IsInf(c.X0Cm, 0) {
		return types.Invalid("x0_cm", "must be 0 or a finite value > 0, got %v", c.X0Cm)
	}
	if c.Slices < 1 {
		return types.Invalid("slices", "must be >= 1, got %d", c.Slices)
	}
	if c.EcalMaterial == "" {
		return types.Invalid("ecal_material", "identifier is empty")
	}
	return c.HCAL.Validate()
}

func (c HomogeneousConfig) Build(cat material.Lookuper, areaM2 float64) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	st, err := newStack(cat, areaM2, c.EcalMaterial, c.HCAL.Absorber, c.HCAL.Active)
	if err != nil {
		return nil, err
	}

	x0 := c.X0Cm
	if x0 == 0 {
		p, err := cat.Lookup(c.EcalMaterial)
		if err != nil {
			return nil, err
		}
		x0 = p.X0
	}

	var specs Specs
	specs.EcalLenCm = c.TotalX0 * x0
	specs.EcalSliceCm = specs.EcalLenCm / float64(c.Slices)

	slice := geometry.Layer{Thickness: specs.EcalSliceCm, Material: c.EcalMaterial, Sensitive: true}
	if err := st.repeat(c.Slices, []geometry.Layer{slice}); err != nil {
		return nil, err
	}
	if specs.EcalLambda, specs.EcalX0, err = slabUnits(cat, c.EcalMaterial, specs.EcalLenCm); err != nil {
		return nil, err
	}

	if err := st.hcal(c.HCAL, &specs); err != nil {
		return nil, err
	}

	specs.Params = map[string]float64{
		"total_x0_target": c.TotalX0,
		"x0_cm":           x0,
		"ecal_slices":     float64(c.Slices),
	}
	c.HCAL.params(specs.Params)
	return st.result(Homogeneous, specs), nil
}
