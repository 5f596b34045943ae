package design

import (
	"math"

	"github.com/xraph/calo/cost"
	"github.com/xraph/calo/geometry"
	"github.com/xraph/calo/material"
	"github.com/xraph/calo/types"
)

// TripletConfig builds an ECAL of Periods × [absorber, sensitive
// scintillator, dense scintillating absorber], an optional sensitive
// scintillator end-cap, the HCAL, and finally one non-sensitive HCAL
// absorber shim bringing the stack to TargetLengthCm.
//
// EndCap appends one extra sensitive scintillator slab after the triplets
// so two passive layers never meet at the ECAL/HCAL boundary.
// TargetLengthCm of zero disables the shim.
type TripletConfig struct {
	Periods        int        `json:"ecal_periods"`
	PbCm           float64    `json:"pb_cm"`
	ScCm           float64    `json:"sc_cm"`
	PbWO4Cm        float64    `json:"pbwo4_cm"`
	EndCap         bool       `json:"scint_endcap"`
	EcalPb         string     `json:"ecal_pb"`
	EcalScint      string     `json:"ecal_scint"`
	EcalPbWO4      string     `json:"ecal_pbwo4"`
	HCAL           HCALConfig `json:"hcal"`
	TargetLengthCm float64    `json:"target_total_len_cm"`
}

// DefaultTripletConfig is 60 × [Pb 0.15, Sc 0.20, PbWO4 0.10] with an
// end-cap, a thin-Fe transition, mid and back sections, shimmed to 200 cm.
func DefaultTripletConfig() TripletConfig {
	return TripletConfig{
		Periods:   60,
		PbCm:      0.15,
		ScCm:      0.20,
		PbWO4Cm:   0.10,
		EndCap:    true,
		EcalPb:    material.Lead,
		EcalScint: material.Polystyrene,
		EcalPbWO4: material.LeadTungstate,
		HCAL: HCALConfig{
			Absorber:        material.Iron,
			Active:          material.Polystyrene,
			ActiveSensitive: true,
			Sections: []Grading{
				{Name: "trans", Pairs: 8, AbsorberCm: 0.3, ActiveCm: 1.2},
				{Name: "mid", Pairs: 24, AbsorberCm: 1.0, ActiveCm: 0.7},
				{Name: "back", Pairs: 50, AbsorberCm: 1.5, ActiveCm: 0.5},
			},
		},
		TargetLengthCm: 200.0,
	}
}

func (c TripletConfig) Variant() Variant { return Triplet }

func (c TripletConfig) Validate() error {
	if c.Periods < 1 {
		return types.Invalid("ecal_periods", "must be >= 1, got %d", c.Periods)
	}
	for _, s := range []struct {
		field string
		slab  Slab
	}{
		{"ecal_pb", Slab{Material: c.EcalPb, Thickness: c.PbCm}},
		{"ecal_scint", Slab{Material: c.EcalScint, Thickness: c.ScCm}},
		{"ecal_pbwo4", Slab{Material: c.EcalPbWO4, Thickness: c.PbWO4Cm}},
	} {
		if err := s.slab.validate(s.field); err != nil {
			return err
		}
	}
	if c.TargetLengthCm < 0 || math.IsNaN(c.TargetLengthCm) || math.IsInf(c.TargetLengthCm, 0) {
		return types.Invalid("target_total_len_cm", "must be 0 or a finite value > 0, got %v", c.TargetLengthCm)
	}
	return c.HCAL.Validate()
}

func (c TripletConfig) triplet() []geometry.Layer {
	return []geometry.Layer{
		{Thickness: c.PbCm, Material: c.EcalPb},
		{Thickness: c.ScCm, Material: c.EcalScint, Sensitive: true},
		{Thickness: c.PbWO4Cm, Material: c.EcalPbWO4},
	}
}

func (c TripletConfig) Build(cat material.Lookuper, areaM2 float64) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	st, err := newStack(cat, areaM2, c.EcalPb, c.EcalScint, c.EcalPbWO4, c.HCAL.Absorber, c.HCAL.Active)
	if err != nil {
		return nil, err
	}

	period := c.triplet()
	if err := st.repeat(c.Periods, period); err != nil {
		return nil, err
	}

	specs := Specs{
		EcalLenCm:   float64(c.Periods) * (c.PbCm + c.ScCm + c.PbWO4Cm),
		EcalSliceCm: c.ScCm,
	}
	for _, l := range period {
		lam, x0, err := slabUnits(cat, l.Material, l.Thickness)
		if err != nil {
			return nil, err
		}
		specs.EcalLambda += float64(c.Periods) * lam
		specs.EcalX0 += float64(c.Periods) * x0
	}

	if c.EndCap {
		if err := st.repeat(1, []geometry.Layer{{Thickness: c.ScCm, Material: c.EcalScint, Sensitive: true}}); err != nil {
			return nil, err
		}
		lam, x0, err := slabUnits(cat, c.EcalScint, c.ScCm)
		if err != nil {
			return nil, err
		}
		specs.EcalLenCm += c.ScCm
		specs.EcalLambda += lam
		specs.EcalX0 += x0
	}

	if err := st.hcal(c.HCAL, &specs); err != nil {
		return nil, err
	}

	if c.TargetLengthCm > 0 {
		if err := st.shim(c.HCAL.Absorber, c.TargetLengthCm, &specs); err != nil {
			return nil, err
		}
	}
	specs.TotalLenCm = st.geo.TotalLength()

	specs.Params = map[string]float64{
		"ecal_periods":        float64(c.Periods),
		"pb_cm":               c.PbCm,
		"sc_cm":               c.ScCm,
		"pbwo4_cm":            c.PbWO4Cm,
		"scint_endcap":        boolParam(c.EndCap),
		"target_total_len_cm": c.TargetLengthCm,
	}
	c.HCAL.params(specs.Params)
	return st.result(Triplet, specs), nil
}

// shim appends one passive absorber slab covering the gap between the
// built stack and target. Shortfalls within ShimTolerance are ignored; a
// stack already longer than target by more than that is rejected.
func (s *stack) shim(absorber string, target float64, specs *Specs) error {
	built := s.geo.TotalLength()
	shortfall := target - built

	switch {
	case shortfall > ShimTolerance:
	case shortfall < -ShimTolerance:
		return types.Invalid("target_total_len_cm",
			"target %v cm is shorter than the built stack of %v cm", target, built)
	default:
		return nil
	}

	t := shimThickness(built, target)
	if err := s.geo.AddLayer(t, absorber, false); err != nil {
		return err
	}
	s.events = append(s.events, cost.Event{Material: absorber, Thickness: t, Count: 1})

	lam, x0, err := slabUnits(s.cat, absorber, t)
	if err != nil {
		return err
	}
	specs.ShimCm = t
	specs.HcalLenCm += t
	specs.HcalLambda += lam
	specs.TotalLambda += lam
	specs.TotalX0 += x0
	return nil
}

// shimThickness returns t with built+t == target in float64. target-built
// is exact whenever built lies within a factor of two of target; otherwise
// t is nudged by a few ulps until the sum lands on target.
func shimThickness(built, target float64) float64 {
	t := target - built
	for range 8 {
		sum := built + t
		if sum == target {
			break
		}
		if sum < target {
			t = math.Nextafter(t, math.Inf(1))
		} else {
			t = math.Nextafter(t, math.Inf(-1))
		}
	}
	return t
}

func boolParam(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
