// Package memory is an in-process store.Store used by tests and by the
// command-line runs that do not need persistence.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/xraph/calo"
	"github.com/xraph/calo/id"
	"github.com/xraph/calo/report"
	"github.com/xraph/calo/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	// Report storage
	reports map[string]*report.Report
	byName  map[string]string

	closed bool
}

func New() *Store {
	return &Store{
		reports: make(map[string]*report.Report),
		byName:  make(map[string]string),
	}
}

// Report Store implementation
func (s *Store) CreateReport(_ context.Context, r *report.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return calo.ErrStoreClosed
	}
	if _, exists := s.reports[r.ID.String()]; exists {
		return calo.ErrAlreadyExists
	}
	if _, taken := s.byName[r.Name]; taken {
		return calo.ErrReportExists
	}
	s.reports[r.ID.String()] = r
	s.byName[r.Name] = r.ID.String()
	return nil
}

func (s *Store) GetReport(_ context.Context, reportID id.ReportID) (*report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.reports[reportID.String()]; ok {
		return r, nil
	}
	return nil, calo.ErrReportNotFound
}

func (s *Store) GetReportByName(_ context.Context, name string) (*report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if key, ok := s.byName[name]; ok {
		return s.reports[key], nil
	}
	return nil, calo.ErrReportNotFound
}

// ListReports returns reports newest first, matching the SQL backends.
func (s *Store) ListReports(_ context.Context, opts report.ListOpts) ([]*report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*report.Report, 0, len(s.reports))
	for _, r := range s.reports {
		if opts.Variant == "" || r.Variant == opts.Variant {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID.String() > result[j].ID.String()
	})

	// Apply limit/offset. Negative values count as zero.
	start := min(max(opts.Offset, 0), len(result))
	end := len(result)
	if opts.Limit > 0 {
		end = min(start+opts.Limit, len(result))
	}

	return result[start:end], nil
}

func (s *Store) DeleteReport(_ context.Context, reportID id.ReportID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reports[reportID.String()]
	if !ok {
		return calo.ErrReportNotFound
	}
	delete(s.byName, r.Name)
	delete(s.reports, reportID.String())
	return nil
}

// Store management
func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return calo.ErrStoreClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
