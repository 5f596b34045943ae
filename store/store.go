package store

import (
	"context"

	"github.com/xraph/calo/id"
	"github.com/xraph/calo/report"
)

// Store is the unified storage interface for all calo entities.
type Store interface {
	// Report methods
	CreateReport(ctx context.Context, r *report.Report) error
	GetReport(ctx context.Context, reportID id.ReportID) (*report.Report, error)
	GetReportByName(ctx context.Context, name string) (*report.Report, error)
	ListReports(ctx context.Context, opts report.ListOpts) ([]*report.Report, error)
	DeleteReport(ctx context.Context, reportID id.ReportID) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

var _ report.Store = Store(nil)
