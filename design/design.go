// Package design assembles complete ECAL+HCAL calorimeter stacks.
//
// Three variants share a graded HCAL made of Section blocks and differ in
// the ECAL: a homogeneous sliced crystal (Homogeneous), a two-material
// sampling stack (Sampling), and a triplet stack with an optional end-cap
// and a length-targeting shim (Triplet).
//
// Builders are pure. They return the geometry, its derived Specs and the
// ledger Events describing every appended slab; the caller decides whether
// and where to fold those events. Identical inputs and an identical catalog
// produce identical results. On error the partial result is discarded and
// nil is returned.
package design

import (
	"sort"
	"strings"

	"github.com/xraph/calo/cost"
	"github.com/xraph/calo/geometry"
	"github.com/xraph/calo/material"
	"github.com/xraph/calo/types"
)

// ShimTolerance is the shortfall, in cm, below which no shim is appended.
const ShimTolerance = 1e-6

// Variant names a design family.
type Variant string

const (
	Homogeneous Variant = "homogeneous"
	Sampling    Variant = "sampling"
	Triplet     Variant = "triplet"
)

// Variants lists every known variant.
var Variants = []Variant{Homogeneous, Sampling, Triplet}

// ParseVariant accepts a variant name or its letter (a, b, c), case-insensitive.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "homogeneous", "a":
		return Homogeneous, nil
	case "sampling", "b":
		return Sampling, nil
	case "triplet", "c":
		return Triplet, nil
	default:
		return "", types.Invalid("variant", "unknown variant %q", s)
	}
}

// Builder is implemented by every variant configuration.
type Builder interface {
	Variant() Variant
	Validate() error
	Build(cat material.Lookuper, areaM2 float64) (*Result, error)
}

// Default returns the default configuration of v.
func Default(v Variant) (Builder, error) {
	switch v {
	case Homogeneous:
		return DefaultHomogeneousConfig(), nil
	case Sampling:
		return DefaultSamplingConfig(), nil
	case Triplet:
		return DefaultTripletConfig(), nil
	default:
		return nil, types.Invalid("variant", "unknown variant %q", v)
	}
}

// Result is the output of a successful build.
type Result struct {
	Variant  Variant
	Geometry *geometry.Descriptor
	Specs    Specs
	Events   []cost.Event
}

// Specs is the derived specification record of a design. HCAL figures
// include the shim when one was appended.
type Specs struct {
	Variant     Variant            `json:"variant"`
	EcalLenCm   float64            `json:"ecal_len_cm"`
	EcalSliceCm float64            `json:"ecal_slice_cm"`
	EcalLambda  float64            `json:"ecal_lambda"`
	EcalX0      float64            `json:"ecal_x0"`
	Sections    []SectionSpec      `json:"sections"`
	HcalLenCm   float64            `json:"hcal_len_cm"`
	HcalLambda  float64            `json:"hcal_lambda"`
	TotalLenCm  float64            `json:"total_len_cm"`
	TotalLambda float64            `json:"total_lambda"`
	TotalX0     float64            `json:"total_x0"`
	ShimCm      float64            `json:"shim_cm"`
	Params      map[string]float64 `json:"params,omitempty"`
}

// Map flattens the specs into the keyed form consumed by depth binning and
// persistence. Per-section entries are "<name>_len_cm" and "<name>_lambda";
// echoed parameters are merged in last.
func (s Specs) Map() map[string]float64 {
	m := map[string]float64{
		"ecal_len_cm":   s.EcalLenCm,
		"ecal_slice_cm": s.EcalSliceCm,
		"ecal_lambda":   s.EcalLambda,
		"ecal_x0":       s.EcalX0,
		"hcal_len_cm":   s.HcalLenCm,
		"hcal_lambda":   s.HcalLambda,
		"total_len_cm":  s.TotalLenCm,
		"total_lambda":  s.TotalLambda,
		"total_x0":      s.TotalX0,
		"shim_cm":       s.ShimCm,
	}
	for _, sec := range s.Sections {
		m[sec.Name+"_len_cm"] = sec.LengthCm
		m[sec.Name+"_lambda"] = sec.Lambda
	}
	for k, v := range s.Params {
		m[k] = v
	}
	return m
}

// Grading is one graded HCAL block: Pairs × [absorber, active].
type Grading struct {
	Name       string  `json:"name"`
	Pairs      int     `json:"pairs"`
	AbsorberCm float64 `json:"absorber_cm"`
	ActiveCm   float64 `json:"active_cm"`
}

// HCALConfig is the graded hadronic section shared by every variant.
type HCALConfig struct {
	Absorber        string    `json:"absorber"`
	Active          string    `json:"active"`
	ActiveSensitive bool      `json:"active_sensitive"`
	Sections        []Grading `json:"sections"`
}

// Validate checks every grading block. Names must be unique and distinct
// from the reserved ECAL prefixes.
func (h HCALConfig) Validate() error {
	if len(h.Sections) == 0 {
		return types.Invalid("hcal.sections", "at least one section is required")
	}
	seen := make(map[string]bool, len(h.Sections))
	for i, sec := range h.Sections {
		switch {
		case sec.Name == "":
			return types.Invalid("hcal.sections", "section %d has no name", i)
		case sec.Name == "ecal" || sec.Name == "hcal" || sec.Name == "total":
			return types.Invalid("hcal.sections", "section name %q is reserved", sec.Name)
		case seen[sec.Name]:
			return types.Invalid("hcal.sections", "duplicate section name %q", sec.Name)
		}
		seen[sec.Name] = true
	}
	for _, s := range h.sections() {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (h HCALConfig) sections() []Section {
	out := make([]Section, len(h.Sections))
	for i, g := range h.Sections {
		out[i] = Section{
			Name:            g.Name,
			Periods:         g.Pairs,
			Absorber:        Slab{Material: h.Absorber, Thickness: g.AbsorberCm},
			Active:          Slab{Material: h.Active, Thickness: g.ActiveCm},
			ActiveSensitive: h.ActiveSensitive,
		}
	}
	return out
}

func (h HCALConfig) params(into map[string]float64) {
	for _, g := range h.Sections {
		into[g.Name+"_pairs"] = float64(g.Pairs)
		into[g.Name+"_abs_cm"] = g.AbsorberCm
		into[g.Name+"_act_cm"] = g.ActiveCm
	}
}

// stack couples a descriptor under construction with the events that
// mirror it.
type stack struct {
	cat    material.Lookuper
	geo    *geometry.Descriptor
	events []cost.Event
}

func newStack(cat material.Lookuper, areaM2 float64, materials ...string) (*stack, error) {
	if cat == nil {
		return nil, types.Invalid("catalog", "is nil")
	}
	if err := requireMaterials(cat, materials...); err != nil {
		return nil, err
	}
	geo, err := geometry.New(areaM2, geometry.WithCatalog(cat))
	if err != nil {
		return nil, err
	}
	return &stack{cat: cat, geo: geo}, nil
}

// repeat appends n copies of the period and records one event per slab.
func (s *stack) repeat(n int, period []geometry.Layer) error {
	for range n {
		for _, l := range period {
			if err := s.geo.AddLayer(l.Thickness, l.Material, l.Sensitive); err != nil {
				return err
			}
		}
	}
	for _, l := range period {
		s.events = append(s.events, cost.Event{Material: l.Material, Thickness: l.Thickness, Count: n})
	}
	return nil
}

// hcal appends the graded sections and fills the HCAL and total specs.
func (s *stack) hcal(h HCALConfig, specs *Specs) error {
	for _, sec := range h.sections() {
		if err := sec.AppendTo(s.geo); err != nil {
			return err
		}
		s.events = append(s.events, sec.Events()...)

		ss, err := sec.Spec(s.cat)
		if err != nil {
			return err
		}
		specs.Sections = append(specs.Sections, ss)
		specs.HcalLenCm += ss.LengthCm
		specs.HcalLambda += ss.Lambda
		specs.TotalX0 += ss.X0
	}
	specs.TotalLenCm = specs.EcalLenCm + specs.HcalLenCm
	specs.TotalLambda = specs.EcalLambda + specs.HcalLambda
	specs.TotalX0 += specs.EcalX0
	return nil
}

func (s *stack) result(v Variant, specs Specs) *Result {
	specs.Variant = v
	return &Result{Variant: v, Geometry: s.geo, Specs: specs, Events: s.events}
}

// requireMaterials fails on the first unknown material, in sorted order,
// before anything is built.
func requireMaterials(cat material.Lookuper, materials ...string) error {
	sorted := append([]string(nil), materials...)
	sort.Strings(sorted)
	for _, m := range sorted {
		if _, err := cat.Lookup(m); err != nil {
			return err
		}
	}
	return nil
}

func slabUnits(cat material.Lookuper, mat string, thickness float64) (lambda, x0 float64, err error) {
	p, err := cat.Lookup(mat)
	if err != nil {
		return 0, 0, err
	}
	return thickness / p.LambdaI, thickness / p.X0, nil
}
