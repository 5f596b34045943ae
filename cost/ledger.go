// Package cost accumulates the material budget of one or more calorimeter
// builds: per-material length, cost, X0 units and λI units.
//
// Catalog values are read at the moment of accumulation. An override made
// through a material.Handle after an Add leaves the already accumulated
// amounts as they were; only later additions see the new values.
package cost

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/xraph/calo/id"
	"github.com/xraph/calo/material"
	"github.com/xraph/calo/types"
)

// Event is one (material, thickness, count) record emitted by a builder.
// Folding it into a ledger is equivalent to Add(Material, Thickness, Count).
type Event struct {
	Material  string  `json:"material"`
	Thickness float64 `json:"thickness_cm"`
	Count     int     `json:"count"`
}

// Component is a single slab of a repeating period.
type Component struct {
	Material  string  `json:"material"`
	Thickness float64 `json:"thickness_cm"`
}

// Pair is an absorber plus active period.
type Pair struct {
	Absorber Component `json:"absorber"`
	Active   Component `json:"active"`
}

type accum struct {
	length float64
	cost   float64
	x0     float64
	lambda float64
	props  material.Props
}

type entry struct {
	material string
	length   float64
	props    material.Props
}

// Ledger is a caller-owned accumulator. It is safe for concurrent use and
// never mutates the catalog it reads from.
type Ledger struct {
	id      id.LedgerID
	areaM2  float64
	catalog material.Lookuper

	mu    sync.Mutex
	lines map[string]*accum
}

// New creates an empty ledger pricing slabs of the given transverse area.
func New(areaM2 float64, catalog material.Lookuper) (*Ledger, error) {
	if !(areaM2 > 0) || math.IsInf(areaM2, 0) {
		return nil, types.Invalid("area_m2", "must be a finite value > 0, got %v", areaM2)
	}
	if catalog == nil {
		return nil, types.Invalid("catalog", "is nil")
	}
	return &Ledger{
		id:      id.NewLedgerID(),
		areaM2:  areaM2,
		catalog: catalog,
		lines:   make(map[string]*accum),
	}, nil
}

// ID returns the ledger identity.
func (l *Ledger) ID() id.LedgerID { return l.id }

// AreaM2 returns the transverse area used for pricing.
func (l *Ledger) AreaM2() float64 { return l.areaM2 }

// Catalog returns the catalog the ledger resolves materials against.
func (l *Ledger) Catalog() material.Lookuper { return l.catalog }

// Add accumulates count slabs of material, each thickness cm thick.
// A count below one, a non-positive thickness or an unknown material is
// rejected before anything is accumulated.
func (l *Ledger) Add(mat string, thicknessCm float64, count int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, err := l.prepare(mat, thicknessCm, count)
	if err != nil {
		return err
	}
	l.apply(e)
	return nil
}

// AddPair accumulates count absorber+active periods. Both slabs are
// resolved before either is accumulated.
func (l *Ledger) AddPair(p Pair, count int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	abs, err := l.prepare(p.Absorber.Material, p.Absorber.Thickness, count)
	if err != nil {
		return err
	}
	act, err := l.prepare(p.Active.Material, p.Active.Thickness, count)
	if err != nil {
		return err
	}
	l.apply(abs, act)
	return nil
}

// AddPeriod accumulates count repetitions of the period, one component at
// a time in period order.
func (l *Ledger) AddPeriod(period []Component, count int) error {
	if count < 1 {
		return types.Invalid("count", "must be >= 1, got %d", count)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	one := make([]entry, len(period))
	for i, c := range period {
		e, err := l.prepare(c.Material, c.Thickness, 1)
		if err != nil {
			return fmt.Errorf("period component %d: %w", i, err)
		}
		one[i] = e
	}
	for range count {
		l.apply(one...)
	}
	return nil
}

// Record folds builder events into the ledger. Either every event is
// accumulated or, on the first invalid one, none is.
func (l *Ledger) Record(events ...Event) error {
	return l.RecordFrom(l.catalog, events...)
}

// RecordFrom is Record with materials resolved against cat instead of the
// ledger's own catalog, typically a snapshot the events were built from.
func (l *Ledger) RecordFrom(cat material.Lookuper, events ...Event) error {
	if cat == nil {
		return types.Invalid("catalog", "is nil")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]entry, len(events))
	for i, ev := range events {
		e, err := resolve(cat, ev.Material, ev.Thickness, ev.Count)
		if err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		entries[i] = e
	}
	l.apply(entries...)
	return nil
}

// prepare validates one addition and resolves its catalog values.
// Caller must hold l.mu.
func (l *Ledger) prepare(mat string, thicknessCm float64, count int) (entry, error) {
	return resolve(l.catalog, mat, thicknessCm, count)
}

func resolve(cat material.Lookuper, mat string, thicknessCm float64, count int) (entry, error) {
	if count < 1 {
		return entry{}, types.Invalid("count", "must be >= 1, got %d", count)
	}
	if !(thicknessCm > 0) || math.IsInf(thicknessCm, 0) {
		return entry{}, types.Invalid("thickness_cm", "must be a finite value > 0, got %v", thicknessCm)
	}
	props, err := cat.Lookup(mat)
	if err != nil {
		return entry{}, err
	}
	return entry{material: mat, length: thicknessCm * float64(count), props: props}, nil
}

// Caller must hold l.mu.
func (l *Ledger) apply(entries ...entry) {
	for _, e := range entries {
		a, ok := l.lines[e.material]
		if !ok {
			a = &accum{}
			l.lines[e.material] = a
		}
		a.length += e.length
		a.cost += e.length * l.areaM2 * e.props.Price
		a.x0 += e.length / e.props.X0
		a.lambda += e.length / e.props.LambdaI
		a.props = e.props
	}
}

// Summary returns a snapshot of the current state. It is a pure read.
func (l *Ledger) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()

	mats := make([]string, 0, len(l.lines))
	for m := range l.lines {
		mats = append(mats, m)
	}
	sort.Strings(mats)

	s := Summary{
		LedgerID: l.id,
		AreaM2:   l.areaM2,
		Lines:    make([]Line, 0, len(mats)),
	}
	for _, m := range mats {
		a := l.lines[m]
		s.Lines = append(s.Lines, Line{
			Material:  m,
			LengthCm:  a.length,
			CostCHF:   a.cost,
			X0:        a.x0,
			LambdaI:   a.lambda,
			PriceCHF:  a.props.Price,
			X0Cm:      a.props.X0,
			LambdaICm: a.props.LambdaI,
		})
	}
	s.total()
	return s
}
