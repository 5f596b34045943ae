// Package extension provides the Forge extension adapter for calo.
//
// It implements the forge.Extension interface to integrate the calo engine
// into a Forge application with DI registration and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.calo" or "calo" keys.
package extension

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/xraph/calo"
	"github.com/xraph/calo/material"
	"github.com/xraph/calo/store"
	"github.com/xraph/calo/store/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "calo"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Layered calorimeter geometry and material ledger"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts calo as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *calo.Engine
	store      store.Store
	engineOpts []calo.Option
}

// New creates a new calo Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying calo engine.
// This is nil until Register is called.
func (e *Extension) Engine() *calo.Engine { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}

	opts, err := e.buildEngineOpts()
	if err != nil {
		return err
	}
	e.engine = calo.New(e.store, opts...)

	return vessel.Provide(fapp.Container(), func() (*calo.Engine, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("calo: extension not initialized")
	}

	if err := e.engine.Start(ctx); err != nil {
		return err
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("calo: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildEngineOpts constructs calo.Option values from the resolved config.
func (e *Extension) buildEngineOpts() ([]calo.Option, error) {
	opts := make([]calo.Option, 0, len(e.engineOpts)+3)

	opts = append(opts, calo.WithArea(e.config.AreaM2))

	if len(e.config.Prices) > 0 {
		cat, err := priceOverrides(material.Default(), e.config.Prices)
		if err != nil {
			return nil, err
		}
		opts = append(opts, calo.WithCatalog(cat))
	}

	if e.config.DisableMigrate {
		opts = append(opts, calo.WithoutMigrate())
	}

	// Append any pass-through engine options.
	opts = append(opts, e.engineOpts...)

	return opts, nil
}

// priceOverrides applies prices to base in material-name order.
func priceOverrides(base material.Catalog, prices map[string]float64) (material.Catalog, error) {
	names := make([]string, 0, len(prices))
	for name := range prices {
		names = append(names, name)
	}
	sort.Strings(names)

	cat := base
	for _, name := range names {
		next, err := cat.WithPrice(name, prices[name])
		if err != nil {
			return material.Catalog{}, fmt.Errorf("calo: price override for %q: %w", name, err)
		}
		cat = next
	}
	return cat, nil
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("calo: configuration is required but not found in config files; " +
				"ensure 'extensions.calo' or 'calo' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("calo: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("area_m2", e.config.AreaM2),
		forge.F("price_overrides", len(e.config.Prices)),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.calo" first (namespaced pattern).
	if cm.IsSet("extensions.calo") {
		if err := cm.Bind("extensions.calo", &cfg); err == nil {
			e.Logger().Debug("calo: loaded config from file",
				forge.F("key", "extensions.calo"),
			)
			return cfg, true
		}
		e.Logger().Warn("calo: failed to bind extensions.calo config",
			forge.F("error", "bind failed"),
		)
	}

	// Try short "calo" key.
	if cm.IsSet("calo") {
		if err := cm.Bind("calo", &cfg); err == nil {
			e.Logger().Debug("calo: loaded config from file",
				forge.F("key", "calo"),
			)
			return cfg, true
		}
		e.Logger().Warn("calo: failed to bind calo config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.AreaM2 == 0 {
		cfg.AreaM2 = defaults.AreaM2
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic values fill gaps.
func mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	if yamlConfig.AreaM2 == 0 && programmaticConfig.AreaM2 != 0 {
		yamlConfig.AreaM2 = programmaticConfig.AreaM2
	}

	// Prices: YAML entries win per material.
	if len(programmaticConfig.Prices) > 0 {
		merged := make(map[string]float64, len(programmaticConfig.Prices)+len(yamlConfig.Prices))
		for k, v := range programmaticConfig.Prices {
			merged[k] = v
		}
		for k, v := range yamlConfig.Prices {
			merged[k] = v
		}
		yamlConfig.Prices = merged
	}

	// Fill remaining zeros with defaults.
	return mergeWithDefaults(yamlConfig)
}
