// Package material holds the material catalog: unit price per (cm·m²),
// radiation length X0 and nuclear interaction length λI for every material
// identifier a geometry may reference.
//
// A Catalog is an immutable value. Overrides (WithPrice, WithProps) return a
// new Catalog and leave the receiver untouched, so two builders holding
// different catalogs never interfere. Callers that need a shared mutable
// table use a Handle, which swaps catalog values under a lock; values read
// before an override are not recomputed.
package material

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/xraph/calo/types"
)

// Built-in material identifiers (Geant4 NIST names).
const (
	Polystyrene   = "G4_POLYSTYRENE"
	Lead          = "G4_Pb"
	Iron          = "G4_Fe"
	Tungsten      = "G4_W"
	Copper        = "G4_Cu"
	Brass         = "G4_BRASS"
	LeadTungstate = "G4_PbWO4"
)

// ErrUnknownMaterial is returned when a material identifier has no price or
// no X0/λI entry. It is never defaulted.
var ErrUnknownMaterial = errors.New("material: unknown material")

// Props is the full catalog entry for one material.
type Props struct {
	Price   float64 `json:"price_chf_per_cm_m2"` // CHF per cm of thickness per m² of area
	X0      float64 `json:"x0_cm"`
	LambdaI float64 `json:"lambda_i_cm"`
}

// Lookuper resolves a material identifier to its catalog entry.
// Both Catalog and *Handle implement it.
type Lookuper interface {
	Lookup(material string) (Props, error)
}

type physics struct {
	x0      float64
	lambdaI float64
}

// Catalog maps material identifiers to Props. The zero value is an empty
// catalog in which every lookup fails.
type Catalog struct {
	prices  map[string]float64
	physics map[string]physics
}

// Default returns the built-in price list and physical constants.
func Default() Catalog {
	return build(map[string]Props{
		Polystyrene:   {Price: 0.0, X0: 42.4, LambdaI: 77.0},
		Lead:          {Price: 300.0, X0: 0.56, LambdaI: 17.1},
		Iron:          {Price: 50.0, X0: 1.76, LambdaI: 16.8},
		Tungsten:      {Price: 6000.0, X0: 0.35, LambdaI: 9.6},
		Copper:        {Price: 800.0, X0: 1.43, LambdaI: 15.3},
		Brass:         {Price: 200.0, X0: 1.50, LambdaI: 15.0}, // approx
		LeadTungstate: {Price: 30000.0, X0: 0.89, LambdaI: 20.7},
	})
}

// New builds a Catalog from complete entries. The map is copied. Every
// entry must carry a finite price >= 0 and finite X0 and λI > 0.
func New(entries map[string]Props) (Catalog, error) {
	for _, m := range sortedKeys(entries) {
		p := entries[m]
		if m == "" {
			return Catalog{}, types.Invalid("material", "identifier is empty")
		}
		if !validPrice(p.Price) {
			return Catalog{}, types.Invalid(m+".price", "must be a finite value >= 0, got %v", p.Price)
		}
		if !positive(p.X0) {
			return Catalog{}, types.Invalid(m+".x0_cm", "must be a finite value > 0, got %v", p.X0)
		}
		if !positive(p.LambdaI) {
			return Catalog{}, types.Invalid(m+".lambda_i_cm", "must be a finite value > 0, got %v", p.LambdaI)
		}
	}
	return build(entries), nil
}

func build(entries map[string]Props) Catalog {
	c := Catalog{
		prices:  make(map[string]float64, len(entries)),
		physics: make(map[string]physics, len(entries)),
	}
	for m, p := range entries {
		c.prices[m] = p.Price
		c.physics[m] = physics{x0: p.X0, lambdaI: p.LambdaI}
	}
	return c
}

// Lookup returns the entry for material. It fails with ErrUnknownMaterial
// when either the price or the physical constants are missing.
func (c Catalog) Lookup(material string) (Props, error) {
	price, ok := c.prices[material]
	if !ok {
		return Props{}, fmt.Errorf("%w: %q has no price", ErrUnknownMaterial, material)
	}
	ph, ok := c.physics[material]
	if !ok {
		return Props{}, fmt.Errorf("%w: %q has no X0/λI entry", ErrUnknownMaterial, material)
	}
	return Props{Price: price, X0: ph.x0, LambdaI: ph.lambdaI}, nil
}

// Has reports whether material resolves to a complete entry.
func (c Catalog) Has(material string) bool {
	_, err := c.Lookup(material)
	return err == nil
}

// Materials returns the identifiers with complete entries, sorted.
func (c Catalog) Materials() []string {
	out := make([]string, 0, len(c.prices))
	for m := range c.prices {
		if _, ok := c.physics[m]; ok {
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out
}

// WithPrice returns a copy of c with the unit price of material set,
// creating the price entry if absent.
func (c Catalog) WithPrice(material string, chfPerCmM2 float64) (Catalog, error) {
	if material == "" {
		return c, types.Invalid("material", "identifier is empty")
	}
	if !validPrice(chfPerCmM2) {
		return c, types.Invalid("price", "must be a finite value >= 0, got %v", chfPerCmM2)
	}

	prices := make(map[string]float64, len(c.prices)+1)
	for k, v := range c.prices {
		prices[k] = v
	}
	prices[material] = chfPerCmM2
	return Catalog{prices: prices, physics: c.physics}, nil
}

// WithProps returns a copy of c with X0 and λI of material set, creating the
// entry if absent.
func (c Catalog) WithProps(material string, x0Cm, lambdaICm float64) (Catalog, error) {
	if material == "" {
		return c, types.Invalid("material", "identifier is empty")
	}
	if !positive(x0Cm) {
		return c, types.Invalid("x0_cm", "must be a finite value > 0, got %v", x0Cm)
	}
	if !positive(lambdaICm) {
		return c, types.Invalid("lambda_i_cm", "must be a finite value > 0, got %v", lambdaICm)
	}

	ph := make(map[string]physics, len(c.physics)+1)
	for k, v := range c.physics {
		ph[k] = v
	}
	ph[material] = physics{x0: x0Cm, lambdaI: lambdaICm}
	return Catalog{prices: c.prices, physics: ph}, nil
}

func sortedKeys(entries map[string]Props) []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func validPrice(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
