package cost

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xraph/calo/id"
	"github.com/xraph/calo/types"
)

// Line is the accumulated budget of one material. PriceCHF, X0Cm and
// LambdaICm are the catalog values used by the most recent accumulation.
type Line struct {
	Material  string  `json:"material"`
	LengthCm  float64 `json:"total_cm"`
	CostCHF   float64 `json:"total_cost_chf"`
	X0        float64 `json:"total_x0"`
	LambdaI   float64 `json:"total_lambda_i"`
	PriceCHF  float64 `json:"price_chf_per_cm_m2"`
	X0Cm      float64 `json:"x0_cm"`
	LambdaICm float64 `json:"lambda_i_cm"`
}

// Summary is a point-in-time snapshot of a Ledger. Lines are sorted by
// material; the totals are the sums of the lines in that order.
type Summary struct {
	LedgerID      id.LedgerID `json:"ledger_id"`
	AreaM2        float64     `json:"area_m2"`
	Lines         []Line      `json:"by_material"`
	TotalLengthCm float64     `json:"total_length_cm"`
	TotalCostCHF  float64     `json:"total_cost_chf"`
	TotalX0       float64     `json:"total_x0"`
	TotalLambdaI  float64     `json:"total_lambda_i"`
}

func (s *Summary) total() {
	s.TotalLengthCm, s.TotalCostCHF, s.TotalX0, s.TotalLambdaI = 0, 0, 0, 0
	for _, ln := range s.Lines {
		s.TotalLengthCm += ln.LengthCm
		s.TotalCostCHF += ln.CostCHF
		s.TotalX0 += ln.X0
		s.TotalLambdaI += ln.LambdaI
	}
}

// Line returns the line for material.
func (s Summary) Line(material string) (Line, bool) {
	for _, ln := range s.Lines {
		if ln.Material == material {
			return ln, true
		}
	}
	return Line{}, false
}

// CostMoney returns the total cost rounded to centimes.
func (s Summary) CostMoney() types.Money {
	return types.FromMajor(s.TotalCostCHF, types.CurrencyCHF)
}

// WriteText writes a fixed-width breakdown of the summary to w.
func (s Summary) WriteText(w io.Writer, title string) error {
	if title == "" {
		title = "Cost breakdown (with X0 & λI)"
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "=== %s (area = %.4f m^2) ===\n", title, s.AreaM2)
	for _, ln := range s.Lines {
		fmt.Fprintf(&b, "%15s: %7.2f cm | %6.2f X0 | %6.2f λI | %8.2f CHF/(cm·m²) -> %10.2f CHF   (X0=%.3f cm, λI=%.2f cm)\n",
			ln.Material, ln.LengthCm, ln.X0, ln.LambdaI, ln.PriceCHF, ln.CostCHF, ln.X0Cm, ln.LambdaICm)
	}
	b.WriteString(strings.Repeat("-", 78))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "TOTAL length: %.2f cm\n", s.TotalLengthCm)
	fmt.Fprintf(&b, "TOTAL X0:     %.2f\n", s.TotalX0)
	fmt.Fprintf(&b, "TOTAL λI:     %.2f\n", s.TotalLambdaI)
	fmt.Fprintf(&b, "TOTAL cost:   %.2f CHF\n", s.TotalCostCHF)

	_, err := w.Write(b.Bytes())
	return err
}
