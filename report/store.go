package report

import (
	"context"

	"github.com/xraph/calo/id"
)

// Store persists design reports. Names are unique.
type Store interface {
	CreateReport(ctx context.Context, r *Report) error
	GetReport(ctx context.Context, reportID id.ReportID) (*Report, error)
	GetReportByName(ctx context.Context, name string) (*Report, error)
	ListReports(ctx context.Context, opts ListOpts) ([]*Report, error)
	DeleteReport(ctx context.Context, reportID id.ReportID) error
}
