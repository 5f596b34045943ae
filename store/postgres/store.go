package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/calo"
	"github.com/xraph/calo/id"
	"github.com/xraph/calo/report"
	calostore "github.com/xraph/calo/store"
)

// compile-time interface check
var _ calostore.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("calo/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("%w: calo/postgres: %w", calo.ErrMigrationFailed, err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Report Store ====================

func (s *Store) CreateReport(ctx context.Context, r *report.Report) error {
	m, err := toReportModel(r)
	if err != nil {
		return fmt.Errorf("calo/postgres: encode report: %w", err)
	}
	if _, err := s.pg.NewInsert(m).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return calo.ErrReportExists
		}
		return err
	}
	return nil
}

func (s *Store) GetReport(ctx context.Context, reportID id.ReportID) (*report.Report, error) {
	m := new(reportModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", reportID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, calo.ErrReportNotFound
		}
		return nil, err
	}
	return fromReportModel(m)
}

func (s *Store) GetReportByName(ctx context.Context, name string) (*report.Report, error) {
	m := new(reportModel)
	err := s.pg.NewSelect(m).
		Where("name = $1", name).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, calo.ErrReportNotFound
		}
		return nil, err
	}
	return fromReportModel(m)
}

func (s *Store) ListReports(ctx context.Context, opts report.ListOpts) ([]*report.Report, error) {
	var models []reportModel
	q := s.pg.NewSelect(&models)

	if opts.Variant != "" {
		q = q.Where("variant = $1", string(opts.Variant))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at DESC, id DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*report.Report, len(models))
	for i := range models {
		r, err := fromReportModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = r
	}
	return result, nil
}

func (s *Store) DeleteReport(ctx context.Context, reportID id.ReportID) error {
	res, err := s.pg.NewDelete((*reportModel)(nil)).
		Where("id = $1", reportID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return calo.ErrReportNotFound
	}
	return nil
}

// ==================== Helpers ====================

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "SQLSTATE 23505")
}
