package design

import "github.com/xraph/calo/material"

// SamplingConfig builds a two-material sampling ECAL of Pairs ×
// [absorber, sensitive active] followed by the HCAL, whose first section
// acts as a transition from the ECAL material step.
type SamplingConfig struct {
	Pairs        int        `json:"ecal_pairs"`
	AbsorberCm   float64    `json:"absorber_cm"`
	ActiveCm     float64    `json:"active_cm"`
	EcalAbsorber string     `json:"ecal_absorber"`
	EcalActive   string     `json:"ecal_active"`
	HCAL         HCALConfig `json:"hcal"`
}

// DefaultSamplingConfig is a 60 × (0.20 Pb + 0.20 Sc) ECAL followed by a
// thin-Fe transition and mid and back Fe/scintillator sections, about
// 198.6 cm in total.
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Pairs:        60,
		AbsorberCm:   0.20,
		ActiveCm:     0.20,
		EcalAbsorber: material.Lead,
		EcalActive:   material.Polystyrene,
		HCAL: HCALConfig{
			Absorber:        material.Iron,
			Active:          material.Polystyrene,
			ActiveSensitive: true,
			Sections: []Grading{
				{Name: "trans", Pairs: 18, AbsorberCm: 0.5, ActiveCm: 1.0},
				{Name: "mid", Pairs: 28, AbsorberCm: 1.0, ActiveCm: 0.7},
				{Name: "back", Pairs: 50, AbsorberCm: 1.5, ActiveCm: 0.5},
			},
		},
	}
}

func (c SamplingConfig) Variant() Variant { return Sampling }

func (c SamplingConfig) Validate() error {
	if err := c.ecal().Validate(); err != nil {
		return err
	}
	return c.HCAL.Validate()
}

func (c SamplingConfig) ecal() Section {
	return Section{
		Name:            "ecal",
		Periods:         c.Pairs,
		Absorber:        Slab{Material: c.EcalAbsorber, Thickness: c.AbsorberCm},
		Active:          Slab{Material: c.EcalActive, Thickness: c.ActiveCm},
		ActiveSensitive: true,
	}
}

func (c SamplingConfig) Build(cat material.Lookuper, areaM2 float64) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	st, err := newStack(cat, areaM2, c.EcalAbsorber, c.EcalActive, c.HCAL.Absorber, c.HCAL.Active)
	if err != nil {
		return nil, err
	}

	ecal := c.ecal()
	if err := ecal.AppendTo(st.geo); err != nil {
		return nil, err
	}
	st.events = append(st.events, ecal.Events()...)

	es, err := ecal.Spec(cat)
	if err != nil {
		return nil, err
	}
	specs := Specs{
		EcalLenCm:   es.LengthCm,
		EcalSliceCm: c.ActiveCm,
		EcalLambda:  es.Lambda,
		EcalX0:      es.X0,
	}

	if err := st.hcal(c.HCAL, &specs); err != nil {
		return nil, err
	}

	specs.Params = map[string]float64{
		"ecal_pairs":     float64(c.Pairs),
		"pb_per_pair_cm": c.AbsorberCm,
		"sc_per_pair_cm": c.ActiveCm,
	}
	c.HCAL.params(specs.Params)
	return st.result(Sampling, specs), nil
}
