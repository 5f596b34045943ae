// Package plugin provides an extensible plugin system for calo.
// Plugins can hook into engine lifecycle events to extend functionality.
package plugin

import (
	"context"

	"github.com/xraph/calo/design"
	"github.com/xraph/calo/material"
	"github.com/xraph/calo/report"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the engine starts. e is the *calo.Engine.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, e interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Design hooks
// ──────────────────────────────────────────────────

// OnDesignBuilt is called after a design was built and its report saved.
type OnDesignBuilt interface {
	Plugin
	OnDesignBuilt(ctx context.Context, r *report.Report) error
}

// OnBuildFailed is called when a build or its save was rejected.
type OnBuildFailed interface {
	Plugin
	OnBuildFailed(ctx context.Context, name string, variant design.Variant, err error) error
}

// OnReportDeleted is called when a stored report is removed.
type OnReportDeleted interface {
	Plugin
	OnReportDeleted(ctx context.Context, reportID string) error
}

// ──────────────────────────────────────────────────
// Catalog hooks
// ──────────────────────────────────────────────────

// OnCatalogOverridden is called after a material entry was replaced on the
// engine's catalog handle.
type OnCatalogOverridden interface {
	Plugin
	OnCatalogOverridden(ctx context.Context, material string, props material.Props) error
}
