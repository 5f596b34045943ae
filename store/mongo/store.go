package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/calo"
	"github.com/xraph/calo/id"
	"github.com/xraph/calo/report"
	calostore "github.com/xraph/calo/store"
)

// Collection name constants.
const (
	colReports = "calo_reports"
)

// compile-time interface check
var _ calostore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all calo collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("%w: calo/mongo: %s indexes: %w", calo.ErrMigrationFailed, col, err)
		}
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
	m := toReportModel(r)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return calo.ErrReportExists
		}
		return fmt.Errorf("calo/mongo: create report: %w", err)
	}
	return nil
}

func (s *Store) GetReport(ctx context.Context, reportID id.ReportID) (*report.Report, error) {
	var m reportModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": reportID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, calo.ErrReportNotFound
		}
		return nil, fmt.Errorf("calo/mongo: get report: %w", err)
	}
	return fromReportModel(&m)
}

func (s *Store) GetReportByName(ctx context.Context, name string) (*report.Report, error) {
	var m reportModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"name": name}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, calo.ErrReportNotFound
		}
		return nil, fmt.Errorf("calo/mongo: get report by name: %w", err)
	}
	return fromReportModel(&m)
}

func (s *Store) ListReports(ctx context.Context, opts report.ListOpts) ([]*report.Report, error) {
	var models []reportModel

	filter := bson.M{}
	if opts.Variant != "" {
		filter["variant"] = string(opts.Variant)
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("calo/mongo: list reports: %w", err)
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
	res, err := s.mdb.NewDelete((*reportModel)(nil)).
		Filter(bson.M{"_id": reportID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("calo/mongo: delete report: %w", err)
	}
	if res.DeletedCount() == 0 {
		return calo.ErrReportNotFound
	}
	return nil
}

// ==================== Helpers ====================

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all calo collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colReports: {
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "variant", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}
}
