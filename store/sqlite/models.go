package sqlite

import (
	"encoding/json"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/calo/cost"
	"github.com/xraph/calo/design"
	"github.com/xraph/calo/geometry"
	"github.com/xraph/calo/id"
	"github.com/xraph/calo/report"
	"github.com/xraph/calo/types"
)

// ==================== Report models ====================

type reportModel struct {
	grove.BaseModel `grove:"table:calo_reports"`

	ID            string    `grove:"id,pk"`
	Name          string    `grove:"name"`
	Variant       string    `grove:"variant"`
	AreaM2        float64   `grove:"area_m2"`
	TotalLengthCm float64   `grove:"total_length_cm"`
	TotalCost     int64     `grove:"total_cost"`
	Currency      string    `grove:"currency"`
	Layers        string    `grove:"layers"`
	Specs         string    `grove:"specs"`
	Cost          string    `grove:"cost"`
	Metadata      string    `grove:"metadata"`
	CreatedAt     time.Time `grove:"created_at"`
	UpdatedAt     time.Time `grove:"updated_at"`
}

func toReportModel(r *report.Report) (*reportModel, error) {
	layers, err := json.Marshal(r.Layers)
	if err != nil {
		return nil, err
	}
	specs, err := json.Marshal(r.Specs)
	if err != nil {
		return nil, err
	}
	summary, err := json.Marshal(r.Cost)
	if err != nil {
		return nil, err
	}
	metadata, _ := json.Marshal(r.Metadata) //nolint:errcheck // map[string]string always marshals

	return &reportModel{
		ID:            r.ID.String(),
		Name:          r.Name,
		Variant:       string(r.Variant),
		AreaM2:        r.AreaM2,
		TotalLengthCm: r.TotalLength(),
		TotalCost:     r.TotalCost.Amount,
		Currency:      r.TotalCost.Currency,
		Layers:        string(layers),
		Specs:         string(specs),
		Cost:          string(summary),
		Metadata:      string(metadata),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}, nil
}

func fromReportModel(m *reportModel) (*report.Report, error) {
	reportID, err := id.ParseReportID(m.ID)
	if err != nil {
		return nil, err
	}

	var layers []geometry.Layer
	if err := json.Unmarshal([]byte(m.Layers), &layers); err != nil {
		return nil, err
	}
	var specs map[string]float64
	if err := json.Unmarshal([]byte(m.Specs), &specs); err != nil {
		return nil, err
	}
	var summary cost.Summary
	if err := json.Unmarshal([]byte(m.Cost), &summary); err != nil {
		return nil, err
	}
	var metadata map[string]string
	if m.Metadata != "" {
		_ = json.Unmarshal([]byte(m.Metadata), &metadata) //nolint:errcheck // best-effort
	}

	return &report.Report{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:        reportID,
		Name:      m.Name,
		Variant:   design.Variant(m.Variant),
		AreaM2:    m.AreaM2,
		Layers:    layers,
		Specs:     specs,
		Cost:      summary,
		TotalCost: types.Money{Amount: m.TotalCost, Currency: m.Currency},
		Metadata:  metadata,
	}, nil
}
