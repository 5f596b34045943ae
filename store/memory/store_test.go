package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/calo"
	"github.com/xraph/calo/design"
	"github.com/xraph/calo/geometry"
	"github.com/xraph/calo/id"
	"github.com/xraph/calo/material"
	"github.com/xraph/calo/report"
	"github.com/xraph/calo/store/memory"
	"github.com/xraph/calo/types"
)

func newReport(name string, v design.Variant, created time.Time) *report.Report {
	return &report.Report{
		Entity:  types.Entity{CreatedAt: created, UpdatedAt: created},
		ID:      id.NewReportID(),
		Name:    name,
		Variant: v,
		AreaM2:  1,
		Layers: []geometry.Layer{
			{Thickness: 1.5, Material: material.Iron},
			{Thickness: 0.5, Material: material.Polystyrene, Sensitive: true},
		},
		Specs:     map[string]float64{"total_len_cm": 2},
		TotalCost: types.CHF(1234),
	}
}

func TestReportCRUD(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Ping(ctx))

	r := newReport("first", design.Sampling, time.Now())
	require.NoError(t, s.CreateReport(ctx, r))

	got, err := s.GetReport(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r, got)
	assert.Equal(t, 2.0, got.TotalLength())

	got, err = s.GetReportByName(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)

	assert.ErrorIs(t, s.CreateReport(ctx, r), calo.ErrAlreadyExists)
	assert.ErrorIs(t, s.CreateReport(ctx, newReport("first", design.Triplet, time.Now())), calo.ErrReportExists)

	require.NoError(t, s.DeleteReport(ctx, r.ID))
	_, err = s.GetReport(ctx, r.ID)
	assert.ErrorIs(t, err, calo.ErrReportNotFound)
	_, err = s.GetReportByName(ctx, "first")
	assert.ErrorIs(t, err, calo.ErrReportNotFound)
	assert.ErrorIs(t, s.DeleteReport(ctx, r.ID), calo.ErrReportNotFound)

	// The name is free again.
	require.NoError(t, s.CreateReport(ctx, newReport("first", design.Triplet, time.Now())))
}

func TestListReports(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	variants := []design.Variant{design.Homogeneous, design.Sampling, design.Triplet, design.Sampling, design.Sampling}
	for i, v := range variants {
		r := newReport(string(rune('a'+i)), v, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, s.CreateReport(ctx, r))
	}

	tests := []struct {
		name string
		opts report.ListOpts
		want []string
	}{
		{"all newest first", report.ListOpts{}, []string{"e", "d", "c", "b", "a"}},
		{"by variant", report.ListOpts{Variant: design.Sampling}, []string{"e", "d", "b"}},
		{"limit", report.ListOpts{Limit: 2}, []string{"e", "d"}},
		{"offset", report.ListOpts{Offset: 3}, []string{"b", "a"}},
		{"page", report.ListOpts{Variant: design.Sampling, Limit: 1, Offset: 1}, []string{"d"}},
		{"past the end", report.ListOpts{Offset: 10}, []string{}},
		{"negative offset", report.ListOpts{Offset: -2, Limit: 1}, []string{"e"}},
		{"negative limit", report.ListOpts{Limit: -1, Offset: 4}, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := s.ListReports(ctx, tt.opts)
			require.NoError(t, err)
			names := make([]string, len(list))
			for i, r := range list {
				names[i] = r.Name
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestClosedStore(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Ping(ctx), calo.ErrStoreClosed)
	assert.ErrorIs(t, s.CreateReport(ctx, newReport("x", design.Triplet, time.Now())), calo.ErrStoreClosed)
}

func TestReportGeometry(t *testing.T) {
	r := newReport("geo", design.Triplet, time.Now())
	d, err := r.Geometry(geometry.WithCatalog(material.Default()))
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, []int{1}, d.SensitiveIndices())

	r.Layers = append(r.Layers, geometry.Layer{Thickness: 1, Material: "unobtainium"})
	_, err = r.Geometry(geometry.WithCatalog(material.Default()))
	assert.ErrorIs(t, err, material.ErrUnknownMaterial)
}
