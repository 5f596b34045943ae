// Package observability provides a metrics plugin for calo that records
// build counts, stack depth and cost distributions through a MetricFactory.
package observability

import (
	"context"
	"errors"

	"github.com/xraph/calo/design"
	"github.com/xraph/calo/material"
	"github.com/xraph/calo/plugin"
	"github.com/xraph/calo/report"
	"github.com/xraph/calo/types"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin              = (*MetricsExtension)(nil)
	_ plugin.OnInit              = (*MetricsExtension)(nil)
	_ plugin.OnDesignBuilt       = (*MetricsExtension)(nil)
	_ plugin.OnBuildFailed       = (*MetricsExtension)(nil)
	_ plugin.OnReportDeleted     = (*MetricsExtension)(nil)
	_ plugin.OnCatalogOverridden = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide design metrics.
// Register it as a calo plugin to track builds automatically.
type MetricsExtension struct {
	factory MetricFactory

	// Build metrics
	DesignsBuilt  Counter
	BuildsFailed  Counter
	ConfigErrors  Counter
	UnknownMats   Counter
	VariantBuilds map[design.Variant]Counter

	// Stack metrics
	StackLengthCm Histogram
	StackLambda   Histogram
	StackX0       Histogram
	StackLayers   Histogram
	DesignCostCHF Histogram

	// Report metrics
	ReportsDeleted Counter

	// Catalog metrics
	CatalogOverrides Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	variants := make(map[design.Variant]Counter, len(design.Variants))
	for _, v := range design.Variants {
		variants[v] = factory.Counter("calo.design." + string(v) + ".built")
	}

	return &MetricsExtension{
		factory: factory,

		DesignsBuilt:  factory.Counter("calo.design.built"),
		BuildsFailed:  factory.Counter("calo.design.failed"),
		ConfigErrors:  factory.Counter("calo.design.config_errors"),
		UnknownMats:   factory.Counter("calo.design.unknown_material"),
		VariantBuilds: variants,

		StackLengthCm: factory.Histogram("calo.stack.length_cm"),
		StackLambda:   factory.Histogram("calo.stack.lambda_i"),
		StackX0:       factory.Histogram("calo.stack.x0"),
		StackLayers:   factory.Histogram("calo.stack.layers"),
		DesignCostCHF: factory.Histogram("calo.design.cost_chf"),

		ReportsDeleted: factory.Counter("calo.report.deleted"),

		CatalogOverrides: factory.Counter("calo.catalog.overrides"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	return nil
}

// ──────────────────────────────────────────────────
// Design hooks
// ──────────────────────────────────────────────────

// OnDesignBuilt implements plugin.OnDesignBuilt.
func (m *MetricsExtension) OnDesignBuilt(_ context.Context, r *report.Report) error {
	m.DesignsBuilt.Inc()
	if c, ok := m.VariantBuilds[r.Variant]; ok {
		c.Inc()
	}
	m.StackLengthCm.Observe(r.TotalLength())
	m.StackLayers.Observe(float64(len(r.Layers)))
	m.StackLambda.Observe(r.Specs["total_lambda"])
	m.StackX0.Observe(r.Specs["total_x0"])
	m.DesignCostCHF.Observe(r.Cost.TotalCostCHF)
	return nil
}

// OnBuildFailed implements plugin.OnBuildFailed.
func (m *MetricsExtension) OnBuildFailed(_ context.Context, _ string, _ design.Variant, err error) error {
	m.BuildsFailed.Inc()
	switch {
	case errors.Is(err, material.ErrUnknownMaterial):
		m.UnknownMats.Inc()
	case errors.Is(err, types.ErrConfiguration):
		m.ConfigErrors.Inc()
	}
	return nil
}

// OnReportDeleted implements plugin.OnReportDeleted.
func (m *MetricsExtension) OnReportDeleted(_ context.Context, _ string) error {
	m.ReportsDeleted.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Catalog hooks
// ──────────────────────────────────────────────────

// OnCatalogOverridden implements plugin.OnCatalogOverridden.
func (m *MetricsExtension) OnCatalogOverridden(_ context.Context, _ string, _ material.Props) error {
	m.CatalogOverrides.Inc()
	return nil
}
