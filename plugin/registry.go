package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/xraph/calo/design"
	"github.com/xraph/calo/material"
	"github.com/xraph/calo/report"
)

// DefaultHookTimeout bounds each hook call.
const DefaultHookTimeout = 5 * time.Second

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger
	timeout time.Duration

	// Type-cached plugin lists for efficient dispatch
	onInit              []OnInit
	onShutdown          []OnShutdown
	onDesignBuilt       []OnDesignBuilt
	onBuildFailed       []OnBuildFailed
	onReportDeleted     []OnReportDeleted
	onCatalogOverridden []OnCatalogOverridden
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:  slog.Default(),
		timeout: DefaultHookTimeout,
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// WithTimeout sets the per-hook timeout.
func (r *Registry) WithTimeout(d time.Duration) *Registry {
	if d > 0 {
		r.timeout = d
	}
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnDesignBuilt); ok {
		r.onDesignBuilt = append(r.onDesignBuilt, v)
	}
	if v, ok := p.(OnBuildFailed); ok {
		r.onBuildFailed = append(r.onBuildFailed, v)
	}
	if v, ok := p.(OnReportDeleted); ok {
		r.onReportDeleted = append(r.onReportDeleted, v)
	}
	if v, ok := p.(OnCatalogOverridden); ok {
		r.onCatalogOverridden = append(r.onCatalogOverridden, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", implementedInterfaces(p),
	)

	return nil
}

var hookTypes = []struct {
	name string
	typ  reflect.Type
}{
	{"OnInit", reflect.TypeOf((*OnInit)(nil)).Elem()},
	{"OnShutdown", reflect.TypeOf((*OnShutdown)(nil)).Elem()},
	{"OnDesignBuilt", reflect.TypeOf((*OnDesignBuilt)(nil)).Elem()},
	{"OnBuildFailed", reflect.TypeOf((*OnBuildFailed)(nil)).Elem()},
	{"OnReportDeleted", reflect.TypeOf((*OnReportDeleted)(nil)).Elem()},
	{"OnCatalogOverridden", reflect.TypeOf((*OnCatalogOverridden)(nil)).Elem()},
}

// implementedInterfaces returns the hook names implemented by the plugin.
func implementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)
	for _, h := range hookTypes {
		if v.Implements(h.typ) {
			interfaces = append(interfaces, h.name)
		}
	}
	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, engine interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, "OnInit", p.Name(), func() error {
			return p.OnInit(ctx, engine)
		})
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, "OnShutdown", p.Name(), func() error {
			return p.OnShutdown(ctx)
		})
	}
}

// EmitDesignBuilt emits a design built event.
func (r *Registry) EmitDesignBuilt(ctx context.Context, rep *report.Report) {
	r.mu.RLock()
	plugins := r.onDesignBuilt
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, "OnDesignBuilt", p.Name(), func() error {
			return p.OnDesignBuilt(ctx, rep)
		})
	}
}

// EmitBuildFailed emits a build failed event.
func (r *Registry) EmitBuildFailed(ctx context.Context, name string, variant design.Variant, buildErr error) {
	r.mu.RLock()
	plugins := r.onBuildFailed
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, "OnBuildFailed", p.Name(), func() error {
			return p.OnBuildFailed(ctx, name, variant, buildErr)
		})
	}
}

// EmitReportDeleted emits a report deleted event.
func (r *Registry) EmitReportDeleted(ctx context.Context, reportID string) {
	r.mu.RLock()
	plugins := r.onReportDeleted
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, "OnReportDeleted", p.Name(), func() error {
			return p.OnReportDeleted(ctx, reportID)
		})
	}
}

// EmitCatalogOverridden emits a catalog overridden event.
func (r *Registry) EmitCatalogOverridden(ctx context.Context, mat string, props material.Props) {
	r.mu.RLock()
	plugins := r.onCatalogOverridden
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, "OnCatalogOverridden", p.Name(), func() error {
			return p.OnCatalogOverridden(ctx, mat, props)
		})
	}
}

func (r *Registry) dispatch(ctx context.Context, hook, pluginName string, fn func() error) {
	if err := r.callWithTimeout(ctx, pluginName, fn); err != nil {
		r.logger.Warn("plugin "+hook+" failed",
			"plugin", pluginName,
			"error", err,
		)
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block a build.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
