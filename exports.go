package calo

import (
	"github.com/xraph/calo/design"
	"github.com/xraph/calo/geometry"
	"github.com/xraph/calo/report"
	"github.com/xraph/calo/types"
)

// Re-export common types for convenience so users don't have to import the
// sub-packages for everyday use.

// Money is re-exported from types package.
type Money = types.Money

// Entity is re-exported from types package.
type Entity = types.Entity

// Layer is re-exported from geometry package.
type Layer = geometry.Layer

// Variant is re-exported from design package.
type Variant = design.Variant

// Report is re-exported from report package.
type Report = report.Report

// Design variants.
const (
	Homogeneous = design.Homogeneous
	Sampling    = design.Sampling
	Triplet     = design.Triplet
)

// Re-export Money constructors
var (
	CHF  = types.CHF
	Zero = types.Zero
	Sum  = types.Sum
)

// Re-export Entity constructor
var NewEntity = types.NewEntity
