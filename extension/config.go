package extension

import "github.com/xraph/calo"

// Config holds the calo extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.calo" or "calo" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// AreaM2 is the transverse area every design is priced at (default: 1).
	AreaM2 float64 `json:"area_m2" mapstructure:"area_m2" yaml:"area_m2"`

	// Prices overrides catalog unit prices in CHF per cm per m², keyed by
	// material name.
	Prices map[string]float64 `json:"prices" mapstructure:"prices" yaml:"prices"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		AreaM2: calo.DefaultAreaM2,
	}
}
