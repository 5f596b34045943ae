package audithook

// Action constants for audit events.
const (
	// Design actions
	ActionDesignBuilt = "design.built"
	ActionBuildFailed = "design.failed"

	// Report actions
	ActionReportDeleted = "report.deleted"

	// Catalog actions
	ActionCatalogOverridden = "catalog.overridden"
)

// Resource constants for audit events.
const (
	ResourceReport   = "report"
	ResourceDesign   = "design"
	ResourceMaterial = "material"
)

// Category constants for audit events.
const (
	CategoryDesign  = "design"
	CategoryCatalog = "catalog"
)

// Severity levels for audit events.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
