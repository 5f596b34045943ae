package design

import (
	"math"

	"github.com/xraph/calo/cost"
	"github.com/xraph/calo/geometry"
	"github.com/xraph/calo/material"
	"github.com/xraph/calo/types"
)

// Slab is a material and a thickness in cm.
type Slab struct {
	Material  string  `json:"material"`
	Thickness float64 `json:"thickness_cm"`
}

func (s Slab) validate(field string) error {
	if s.Material == "" {
		return types.Invalid(field+".material", "identifier is empty")
	}
	if !finitePositive(s.Thickness) {
		return types.Invalid(field+".thickness_cm", "must be a finite value > 0, got %v", s.Thickness)
	}
	return nil
}

// Section is a periodic block of Periods × [absorber, active]. The absorber
// is never sensitive; the active slab is sensitive when ActiveSensitive is set.
type Section struct {
	Name            string `json:"name"`
	Periods         int    `json:"periods"`
	Absorber        Slab   `json:"absorber"`
	Active          Slab   `json:"active"`
	ActiveSensitive bool   `json:"active_sensitive"`
}

// Validate checks the period count and both slabs.
func (s Section) Validate() error {
	if s.Periods < 1 {
		return types.Invalid(s.field("periods"), "must be >= 1, got %d", s.Periods)
	}
	if err := s.Absorber.validate(s.field("absorber")); err != nil {
		return err
	}
	return s.Active.validate(s.field("active"))
}

func (s Section) field(name string) string {
	if s.Name == "" {
		return name
	}
	return s.Name + "." + name
}

// Length is the closed-form depth n × (t_abs + t_act).
func (s Section) Length() float64 {
	return float64(s.Periods) * (s.Absorber.Thickness + s.Active.Thickness)
}

// Lambda is the closed-form interaction-length budget
// n × (t_abs/λ_abs + t_act/λ_act).
func (s Section) Lambda(cat material.Lookuper) (float64, error) {
	abs, act, err := s.props(cat)
	if err != nil {
		return 0, err
	}
	return float64(s.Periods) * (s.Absorber.Thickness/abs.LambdaI + s.Active.Thickness/act.LambdaI), nil
}

// X0Units is the closed-form radiation-length budget
// n × (t_abs/X0_abs + t_act/X0_act).
func (s Section) X0Units(cat material.Lookuper) (float64, error) {
	abs, act, err := s.props(cat)
	if err != nil {
		return 0, err
	}
	return float64(s.Periods) * (s.Absorber.Thickness/abs.X0 + s.Active.Thickness/act.X0), nil
}

func (s Section) props(cat material.Lookuper) (material.Props, material.Props, error) {
	abs, err := cat.Lookup(s.Absorber.Material)
	if err != nil {
		return material.Props{}, material.Props{}, err
	}
	act, err := cat.Lookup(s.Active.Material)
	if err != nil {
		return material.Props{}, material.Props{}, err
	}
	return abs, act, nil
}

// Events returns the ledger records equivalent to appending the section.
func (s Section) Events() []cost.Event {
	return []cost.Event{
		{Material: s.Absorber.Material, Thickness: s.Absorber.Thickness, Count: s.Periods},
		{Material: s.Active.Material, Thickness: s.Active.Thickness, Count: s.Periods},
	}
}

// AppendTo appends the section's layers to d in stacking order.
func (s Section) AppendTo(d *geometry.Descriptor) error {
	if err := s.Validate(); err != nil {
		return err
	}
	for range s.Periods {
		if err := d.AddLayer(s.Absorber.Thickness, s.Absorber.Material, false); err != nil {
			return err
		}
		if err := d.AddLayer(s.Active.Thickness, s.Active.Material, s.ActiveSensitive); err != nil {
			return err
		}
	}
	return nil
}

// SectionSpec is the derived budget of one built section.
type SectionSpec struct {
	Name     string  `json:"name"`
	Periods  int     `json:"periods"`
	LengthCm float64 `json:"length_cm"`
	Lambda   float64 `json:"lambda"`
	X0       float64 `json:"x0"`
}

// Spec evaluates the closed forms against cat.
func (s Section) Spec(cat material.Lookuper) (SectionSpec, error) {
	lam, err := s.Lambda(cat)
	if err != nil {
		return SectionSpec{}, err
	}
	x0, err := s.X0Units(cat)
	if err != nil {
		return SectionSpec{}, err
	}
	return SectionSpec{Name: s.Name, Periods: s.Periods, LengthCm: s.Length(), Lambda: lam, X0: x0}, nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
