// Package audithook bridges calo lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import an
// audit backend directly. Callers inject a RecorderFunc adapter at wiring
// time.
package audithook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xraph/calo/design"
	"github.com/xraph/calo/material"
	"github.com/xraph/calo/plugin"
	"github.com/xraph/calo/report"
	"github.com/xraph/calo/types"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin              = (*Extension)(nil)
	_ plugin.OnDesignBuilt       = (*Extension)(nil)
	_ plugin.OnBuildFailed       = (*Extension)(nil)
	_ plugin.OnReportDeleted     = (*Extension)(nil)
	_ plugin.OnCatalogOverridden = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges calo lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Design hooks
// ──────────────────────────────────────────────────

// OnDesignBuilt implements plugin.OnDesignBuilt.
func (e *Extension) OnDesignBuilt(ctx context.Context, r *report.Report) error {
	return e.record(ctx, ActionDesignBuilt, SeverityInfo, OutcomeSuccess,
		ResourceReport, r.ID.String(), CategoryDesign, nil,
		"name", r.Name,
		"variant", string(r.Variant),
		"layers", len(r.Layers),
		"total_length_cm", r.TotalLength(),
		"total_cost", r.TotalCost.String(),
	)
}

// OnBuildFailed implements plugin.OnBuildFailed.
func (e *Extension) OnBuildFailed(ctx context.Context, name string, variant design.Variant, err error) error {
	// Rejected input is the caller's problem, anything else is ours.
	severity := SeverityError
	if errors.Is(err, types.ErrConfiguration) || errors.Is(err, material.ErrUnknownMaterial) {
		severity = SeverityWarning
	}
	return e.record(ctx, ActionBuildFailed, severity, OutcomeFailure,
		ResourceDesign, name, CategoryDesign, err,
		"variant", string(variant),
	)
}

// OnReportDeleted implements plugin.OnReportDeleted.
func (e *Extension) OnReportDeleted(ctx context.Context, reportID string) error {
	return e.record(ctx, ActionReportDeleted, SeverityInfo, OutcomeSuccess,
		ResourceReport, reportID, CategoryDesign, nil,
	)
}

// ──────────────────────────────────────────────────
// Catalog hooks
// ──────────────────────────────────────────────────

// OnCatalogOverridden implements plugin.OnCatalogOverridden.
func (e *Extension) OnCatalogOverridden(ctx context.Context, mat string, props material.Props) error {
	return e.record(ctx, ActionCatalogOverridden, SeverityWarning, OutcomeSuccess,
		ResourceMaterial, mat, CategoryCatalog, nil,
		"price_chf_per_cm_m2", props.Price,
		"x0_cm", props.X0,
		"lambda_i_cm", props.LambdaI,
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
