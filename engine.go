package calo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/calo/cost"
	"github.com/xraph/calo/design"
	"github.com/xraph/calo/id"
	"github.com/xraph/calo/material"
	"github.com/xraph/calo/plugin"
	"github.com/xraph/calo/report"
	"github.com/xraph/calo/sim"
	"github.com/xraph/calo/store"
	"github.com/xraph/calo/types"
)

// DefaultAreaM2 is the transverse area used when none is configured.
const DefaultAreaM2 = 1.0

// Engine builds designs against a shared catalog handle, prices them,
// persists the resulting reports and notifies plugins.
type Engine struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger
	catalog *material.Handle
	areaM2  float64
	migrate bool
}

// New creates a new Engine. A nil store is allowed; builds are then
// returned without being persisted and report lookups fail with ErrNoStore.
func New(s store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:   s,
		plugins: plugin.NewRegistry(),
		logger:  slog.Default(),
		catalog: material.NewHandle(material.Default()),
		areaM2:  DefaultAreaM2,
		migrate: true,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Option configures an Engine instance.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
		e.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Engine) {
		_ = e.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithCatalog replaces the built-in material catalog.
func WithCatalog(c material.Catalog) Option {
	return func(e *Engine) {
		e.catalog = material.NewHandle(c)
	}
}

// WithArea sets the transverse area in m² used by every build and ledger.
func WithArea(areaM2 float64) Option {
	return func(e *Engine) {
		e.areaM2 = areaM2
	}
}

// WithoutMigrate skips store migration in Start.
func WithoutMigrate() Option {
	return func(e *Engine) {
		e.migrate = false
	}
}

// Start migrates the store and initializes plugins.
func (e *Engine) Start(ctx context.Context) error {
	if !(e.areaM2 > 0) {
		return types.Invalid("area_m2", "must be > 0, got %v", e.areaM2)
	}

	if e.store != nil && e.migrate {
		if err := e.store.Migrate(ctx); err != nil {
			return err
		}
	}

	e.plugins.EmitInit(ctx, e)

	e.logger.Info("calo engine started",
		"area_m2", e.areaM2,
		"materials", len(e.catalog.Snapshot().Materials()),
		"plugins", e.plugins.Count(),
	)
	return nil
}

// Stop notifies plugins and closes the store.
func (e *Engine) Stop() error {
	e.plugins.EmitShutdown(context.Background())

	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// AreaM2 returns the configured transverse area.
func (e *Engine) AreaM2() float64 { return e.areaM2 }

// Plugins returns the plugin registry.
func (e *Engine) Plugins() *plugin.Registry { return e.plugins }

// ──────────────────────────────────────────────────
// Catalog
// ──────────────────────────────────────────────────

// Catalog returns the engine's catalog handle. Overrides through it apply
// to subsequent builds and ledger additions only.
func (e *Engine) Catalog() *material.Handle { return e.catalog }

// SetPrice overrides the unit price of a material.
func (e *Engine) SetPrice(ctx context.Context, mat string, chfPerCmM2 float64) error {
	if err := e.catalog.SetPrice(mat, chfPerCmM2); err != nil {
		return err
	}
	e.catalogChanged(ctx, mat)
	return nil
}

// SetMaterialProps overrides the radiation and interaction lengths of a
// material.
func (e *Engine) SetMaterialProps(ctx context.Context, mat string, x0Cm, lambdaICm float64) error {
	if err := e.catalog.SetProps(mat, x0Cm, lambdaICm); err != nil {
		return err
	}
	e.catalogChanged(ctx, mat)
	return nil
}

func (e *Engine) catalogChanged(ctx context.Context, mat string) {
	snap := e.catalog.Snapshot()
	props, err := snap.Lookup(mat)
	if err != nil {
		// Only one half of the entry is set so far.
		e.logger.Info("material partially overridden", "material", mat)
		return
	}
	e.logger.Info("material overridden",
		"material", mat,
		"price_chf_per_cm_m2", props.Price,
		"x0_cm", props.X0,
		"lambda_i_cm", props.LambdaI,
	)
	e.plugins.EmitCatalogOverridden(ctx, mat, props)
}

// ──────────────────────────────────────────────────
// Ledgers and builds
// ──────────────────────────────────────────────────

// NewLedger returns a cost ledger bound to the engine's area and catalog
// handle. It may be shared across builds and goroutines.
func (e *Engine) NewLedger() (*cost.Ledger, error) {
	return cost.New(e.areaM2, e.catalog)
}

// Build runs b against a snapshot of the catalog, prices the result on its
// own ledger, persists it under name and notifies plugins. When shared is
// non-nil the build's events are also folded into it. A shared ledger from
// NewLedger is folded against the same snapshot as the report, so overrides
// landing mid-build never split the two; any other ledger uses its own
// catalog. On error nothing is persisted, shared is left untouched and no
// report is returned.
func (e *Engine) Build(ctx context.Context, name string, b design.Builder, shared *cost.Ledger) (*report.Report, error) {
	start := time.Now()

	r, err := e.build(ctx, name, b, shared)
	if err != nil {
		variant := design.Variant("")
		if b != nil {
			variant = b.Variant()
		}
		e.logger.Warn("design build failed",
			"name", name,
			"variant", variant,
			"error", err,
		)
		e.plugins.EmitBuildFailed(ctx, name, variant, err)
		return nil, err
	}

	e.logger.Info("design built",
		"name", r.Name,
		"id", r.ID.String(),
		"variant", r.Variant,
		"layers", len(r.Layers),
		"total_length_cm", r.TotalLength(),
		"total_cost", r.TotalCost.String(),
		"elapsed", time.Since(start),
	)
	e.plugins.EmitDesignBuilt(ctx, r)
	return r, nil
}

func (e *Engine) build(ctx context.Context, name string, b design.Builder, shared *cost.Ledger) (*report.Report, error) {
	if name == "" {
		return nil, types.Invalid("name", "is empty")
	}
	if b == nil {
		return nil, types.Invalid("builder", "is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cat := e.catalog.Snapshot()
	res, err := b.Build(cat, e.areaM2)
	if err != nil {
		return nil, fmt.Errorf("build %s %q: %w", b.Variant(), name, err)
	}

	own, err := cost.New(e.areaM2, cat)
	if err != nil {
		return nil, err
	}
	if err := own.Record(res.Events...); err != nil {
		return nil, fmt.Errorf("price %q: %w", name, err)
	}
	summary := own.Summary()

	r := &report.Report{
		Entity:    types.NewEntity(),
		ID:        id.NewReportID(),
		Name:      name,
		Variant:   res.Variant,
		AreaM2:    e.areaM2,
		Layers:    res.Geometry.Layers(),
		Specs:     res.Specs.Map(),
		Cost:      summary,
		TotalCost: summary.CostMoney(),
	}

	if e.store != nil {
		if err := e.store.CreateReport(ctx, r); err != nil {
			return nil, fmt.Errorf("save %q: %w", name, err)
		}
	}

	if shared != nil {
		fold := shared.Catalog()
		if h, ok := fold.(*material.Handle); ok && h == e.catalog {
			fold = cat
		}
		if err := shared.RecordFrom(fold, res.Events...); err != nil {
			e.rollback(ctx, r)
			return nil, fmt.Errorf("fold %q into ledger %s: %w", name, shared.ID(), err)
		}
	}

	return r, nil
}

func (e *Engine) rollback(ctx context.Context, r *report.Report) {
	if e.store == nil {
		return
	}
	if err := e.store.DeleteReport(ctx, r.ID); err != nil {
		e.logger.Error("failed to remove report after ledger rejection",
			"id", r.ID.String(),
			"error", err,
		)
	}
}

// BuildDefault builds the default configuration of variant v.
func (e *Engine) BuildDefault(ctx context.Context, name string, v design.Variant, shared *cost.Ledger) (*report.Report, error) {
	b, err := design.Default(v)
	if err != nil {
		e.plugins.EmitBuildFailed(ctx, name, v, err)
		return nil, err
	}
	return e.Build(ctx, name, b, shared)
}

// ──────────────────────────────────────────────────
// Reports
// ──────────────────────────────────────────────────

// GetReport retrieves a report by ID.
func (e *Engine) GetReport(ctx context.Context, reportID id.ReportID) (*report.Report, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}
	return e.store.GetReport(ctx, reportID)
}

// GetReportByName retrieves a report by its unique name.
func (e *Engine) GetReportByName(ctx context.Context, name string) (*report.Report, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}
	return e.store.GetReportByName(ctx, name)
}

// ListReports lists stored reports, newest first.
func (e *Engine) ListReports(ctx context.Context, opts report.ListOpts) ([]*report.Report, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}
	return e.store.ListReports(ctx, opts)
}

// DeleteReport removes a stored report.
func (e *Engine) DeleteReport(ctx context.Context, reportID id.ReportID) error {
	if e.store == nil {
		return ErrNoStore
	}
	if err := e.store.DeleteReport(ctx, reportID); err != nil {
		return err
	}
	e.logger.Info("report deleted", "id", reportID.String())
	e.plugins.EmitReportDeleted(ctx, reportID.String())
	return nil
}

// ──────────────────────────────────────────────────
// Simulation
// ──────────────────────────────────────────────────

// Sample runs an energy scan through b using the engine's logger.
func (e *Engine) Sample(ctx context.Context, b sim.Bridge, cfg sim.SampleConfig) (*sim.Sample, error) {
	return sim.RunSample(ctx, b, cfg, sim.WithLogger(e.logger))
}
