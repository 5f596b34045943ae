// Package calo describes layered sampling calorimeters and keeps a material
// ledger of what they cost.
//
// A design is an ordered stack of slabs along the beam axis: an
// electromagnetic section (ECAL) followed by a graded hadronic section
// (HCAL). Each slab is a thickness of one material and is either passive
// absorber or sensitive scintillator. From the stack calo derives total
// depth, interaction lengths (λI), radiation lengths (X0) and the material
// cost at a given transverse area.
//
// # Quick Start
//
//	import (
//	    "github.com/xraph/calo"
//	    "github.com/xraph/calo/design"
//	    "github.com/xraph/calo/store/memory"
//	)
//
//	e := calo.New(memory.New(), calo.WithArea(0.36))
//	if err := e.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer e.Stop()
//
//	r, err := e.Build(ctx, "triplet-200cm", design.DefaultTripletConfig(), nil)
//
// # Core Concepts
//
// The material catalog maps a material name to its price in CHF per cm of
// thickness per m² of area, its radiation length X0 and its nuclear
// interaction length λI. Catalogs are immutable values; overrides go
// through a Handle and only affect later lookups:
//
//	e.SetPrice(ctx, material.Lead, 25)
//
// Builders are pure. They return the geometry, the derived specs and the
// ledger events for every slab. The engine prices each build on its own
// ledger and can additionally fold it into a shared one:
//
//	total, _ := e.NewLedger()
//	e.Build(ctx, "a", design.DefaultHomogeneousConfig(), total)
//	e.Build(ctx, "b", design.DefaultSamplingConfig(), total)
//	total.Summary().WriteText(os.Stdout, "")
//
// Costs are computed in float64 CHF and rounded once into Money (integer
// centimes) on the report.
//
// # Simulation
//
// Package sim defines the contract of an external transport bridge, plans
// event chunks, runs energy scans concurrently and bins the returned hits
// along depth or per layer.
//
// # TypeID
//
// Reports and ledgers use TypeID identifiers:
//
//	dsgn_01h2xcejqtf2nbrexx3vqjhp41  // Report ID
//	ldgr_01h2xcejqtf2nbrexx3vqjhp41  // Ledger ID
package calo
