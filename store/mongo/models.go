package mongo

import (
	"fmt"
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

	ID            string             `grove:"id,pk"           bson:"_id"`
	Name          string             `grove:"name"            bson:"name"`
	Variant       string             `grove:"variant"         bson:"variant"`
	AreaM2        float64            `grove:"area_m2"         bson:"area_m2"`
	TotalLengthCm float64            `grove:"total_length_cm" bson:"total_length_cm"`
	TotalCost     int64              `grove:"total_cost"      bson:"total_cost"`
	Currency      string             `grove:"currency"        bson:"currency"`
	Layers        []layerModel       `grove:"layers"          bson:"layers"`
	Specs         map[string]float64 `grove:"specs"           bson:"specs"`
	Cost          summaryModel       `grove:"cost"            bson:"cost"`
	Metadata      map[string]string  `grove:"metadata"        bson:"metadata,omitempty"`
	CreatedAt     time.Time          `grove:"created_at"      bson:"created_at"`
	UpdatedAt     time.Time          `grove:"updated_at"      bson:"updated_at"`
}

type layerModel struct {
	ThicknessCm float64 `bson:"thickness_cm"`
	Material    string  `bson:"material"`
	Sensitive   bool    `bson:"sensitive"`
}

type summaryModel struct {
	LedgerID      string      `bson:"ledger_id"`
	AreaM2        float64     `bson:"area_m2"`
	Lines         []lineModel `bson:"lines"`
	TotalLengthCm float64     `bson:"total_length_cm"`
	TotalCostCHF  float64     `bson:"total_cost_chf"`
	TotalX0       float64     `bson:"total_x0"`
	TotalLambdaI  float64     `bson:"total_lambda_i"`
}

type lineModel struct {
	Material  string  `bson:"material"`
	LengthCm  float64 `bson:"length_cm"`
	CostCHF   float64 `bson:"cost_chf"`
	X0        float64 `bson:"x0"`
	LambdaI   float64 `bson:"lambda_i"`
	PriceCHF  float64 `bson:"price_chf"`
	X0Cm      float64 `bson:"x0_cm"`
	LambdaICm float64 `bson:"lambda_i_cm"`
}

func toReportModel(r *report.Report) *reportModel {
	layers := make([]layerModel, len(r.Layers))
	for i, l := range r.Layers {
		layers[i] = layerModel{ThicknessCm: l.Thickness, Material: l.Material, Sensitive: l.Sensitive}
	}

	lines := make([]lineModel, len(r.Cost.Lines))
	for i, l := range r.Cost.Lines {
		lines[i] = lineModel{
			Material:  l.Material,
			LengthCm:  l.LengthCm,
			CostCHF:   l.CostCHF,
			X0:        l.X0,
			LambdaI:   l.LambdaI,
			PriceCHF:  l.PriceCHF,
			X0Cm:      l.X0Cm,
			LambdaICm: l.LambdaICm,
		}
	}

	var ledgerID string
	if !r.Cost.LedgerID.IsNil() {
		ledgerID = r.Cost.LedgerID.String()
	}

	return &reportModel{
		ID:            r.ID.String(),
		Name:          r.Name,
		Variant:       string(r.Variant),
		AreaM2:        r.AreaM2,
		TotalLengthCm: r.TotalLength(),
		TotalCost:     r.TotalCost.Amount,
		Currency:      r.TotalCost.Currency,
		Layers:        layers,
		Specs:         r.Specs,
		Cost: summaryModel{
			LedgerID:      ledgerID,
			AreaM2:        r.Cost.AreaM2,
			Lines:         lines,
			TotalLengthCm: r.Cost.TotalLengthCm,
			TotalCostCHF:  r.Cost.TotalCostCHF,
			TotalX0:       r.Cost.TotalX0,
			TotalLambdaI:  r.Cost.TotalLambdaI,
		},
		Metadata:  r.Metadata,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func fromReportModel(m *reportModel) (*report.Report, error) {
	reportID, err := id.ParseReportID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse report id %q: %w", m.ID, err)
	}

	var ledgerID id.LedgerID
	if m.Cost.LedgerID != "" {
		ledgerID, err = id.ParseLedgerID(m.Cost.LedgerID)
		if err != nil {
			return nil, fmt.Errorf("parse ledger id %q: %w", m.Cost.LedgerID, err)
		}
	}

	layers := make([]geometry.Layer, len(m.Layers))
	for i, l := range m.Layers {
		layers[i] = geometry.Layer{Thickness: l.ThicknessCm, Material: l.Material, Sensitive: l.Sensitive}
	}

	lines := make([]cost.Line, len(m.Cost.Lines))
	for i, l := range m.Cost.Lines {
		lines[i] = cost.Line{
			Material:  l.Material,
			LengthCm:  l.LengthCm,
			CostCHF:   l.CostCHF,
			X0:        l.X0,
			LambdaI:   l.LambdaI,
			PriceCHF:  l.PriceCHF,
			X0Cm:      l.X0Cm,
			LambdaICm: l.LambdaICm,
		}
	}

	return &report.Report{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:      reportID,
		Name:    m.Name,
		Variant: design.Variant(m.Variant),
		AreaM2:  m.AreaM2,
		Layers:  layers,
		Specs:   m.Specs,
		Cost: cost.Summary{
			LedgerID:      ledgerID,
			AreaM2:        m.Cost.AreaM2,
			Lines:         lines,
			TotalLengthCm: m.Cost.TotalLengthCm,
			TotalCostCHF:  m.Cost.TotalCostCHF,
			TotalX0:       m.Cost.TotalX0,
			TotalLambdaI:  m.Cost.TotalLambdaI,
		},
		TotalCost: types.Money{Amount: m.TotalCost, Currency: m.Currency},
		Metadata:  m.Metadata,
	}, nil
}
