package extension

import (
	"github.com/xraph/calo"
	"github.com/xraph/calo/plugin"
	"github.com/xraph/calo/store"
)

// Option configures the calo Forge extension.
type Option func(*Extension)

// WithStore sets the store for the calo engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithEngineOption passes a calo.Option through to the underlying engine.
func WithEngineOption(opt calo.Option) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, opt)
	}
}

// WithPlugin registers a calo plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, calo.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithArea sets the transverse area in m².
func WithArea(areaM2 float64) Option {
	return func(e *Extension) { e.config.AreaM2 = areaM2 }
}

// WithPrice overrides the unit price of one material.
func WithPrice(material string, chfPerCmM2 float64) Option {
	return func(e *Extension) {
		if e.config.Prices == nil {
			e.config.Prices = make(map[string]float64)
		}
		e.config.Prices[material] = chfPerCmM2
	}
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}
