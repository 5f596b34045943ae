// Package types provides common value types used across calo.
package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Money is a monetary value in the smallest currency unit.
// Arithmetic is integer-only; float costs from the ledger are rounded once
// at the boundary via FromMajor.
//
// Examples:
//   - CHF(4900) = CHF 49.00 (4900 centimes)
//   - EUR(19900) = €199.00
type Money struct {
	Amount   int64  `json:"amount"`   // Smallest unit (centimes, cents)
	Currency string `json:"currency"` // ISO 4217 lowercase
}

// CurrencyCHF is the currency of the built-in material price list.
const CurrencyCHF = "chf"

// CHF creates a Money value in Swiss francs (centimes).
func CHF(centimes int64) Money { return Money{Amount: centimes, Currency: CurrencyCHF} }

// EUR creates a Money value in Euros (cents).
func EUR(cents int64) Money { return Money{Amount: cents, Currency: "eur"} }

// USD creates a Money value in US Dollars (cents).
func USD(cents int64) Money { return Money{Amount: cents, Currency: "usd"} }

// Zero returns a zero Money value in the specified currency.
func Zero(currency string) Money { return Money{Amount: 0, Currency: strings.ToLower(currency)} }

// FromMajor converts an amount expressed in major units (francs, euros) to
// Money, rounding half away from zero to the nearest minor unit.
func FromMajor(amount float64, currency string) Money {
	currency = strings.ToLower(currency)
	scale := math.Pow10(currencyDecimals(currency))
	return Money{Amount: int64(math.Round(amount * scale)), Currency: currency}
}

// Add adds two Money values. Panics if currencies don't match.
func (m Money) Add(other Money) Money {
	m.assertSameCurrency(other)
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}
}

// Subtract subtracts another Money value. Panics if currencies don't match.
func (m Money) Subtract(other Money) Money {
	m.assertSameCurrency(other)
	return Money{Amount: m.Amount - other.Amount, Currency: m.Currency}
}

// Multiply multiplies the Money by a quantity.
func (m Money) Multiply(qty int64) Money {
	return Money{Amount: m.Amount * qty, Currency: m.Currency}
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool { return m.Amount == 0 }

// IsPositive returns true if the amount is greater than zero.
func (m Money) IsPositive() bool { return m.Amount > 0 }

// Equal returns true if both Money values are equal (same amount and currency).
func (m Money) Equal(other Money) bool {
	return m.Amount == other.Amount && m.Currency == other.Currency
}

// FormatMajor returns the major unit string without currency symbol,
// e.g. "49.00" for CHF(4900).
func (m Money) FormatMajor() string {
	decimals := currencyDecimals(m.Currency)
	if decimals == 0 {
		return fmt.Sprintf("%d", m.Amount)
	}

	divisor := int64(1)
	for i := 0; i < decimals; i++ {
		divisor *= 10
	}

	isNegative := m.Amount < 0
	absAmount := m.Amount
	if isNegative {
		absAmount = -absAmount
	}

	format := fmt.Sprintf("%%d.%%0%dd", decimals)
	result := fmt.Sprintf(format, absAmount/divisor, absAmount%divisor)

	if isNegative {
		return "-" + result
	}
	return result
}

// String returns a human-readable string with currency symbol,
// e.g. "CHF 49.00".
func (m Money) String() string {
	return currencySymbol(m.Currency) + m.FormatMajor()
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Display  string `json:"display"`
	}{
		Amount:   m.Amount,
		Currency: m.Currency,
		Display:  m.String(),
	})
}

func (m Money) assertSameCurrency(other Money) {
	if m.Currency != other.Currency {
		panic(fmt.Sprintf("money: currency mismatch: %s != %s", m.Currency, other.Currency))
	}
}

func currencySymbol(currency string) string {
	symbols := map[string]string{
		"usd": "$",
		"eur": "€",
		"gbp": "£",
		"chf": "CHF ",
		"jpy": "¥",
	}
	if sym, ok := symbols[strings.ToLower(currency)]; ok {
		return sym
	}
	return strings.ToUpper(currency) + " "
}

func currencyDecimals(currency string) int {
	switch strings.ToLower(currency) {
	case "jpy", "krw", "clp":
		return 0
	default:
		return 2
	}
}

// Sum calculates the sum of multiple Money values. All must have the same
// currency; an empty input yields CHF zero.
func Sum(values ...Money) Money {
	if len(values) == 0 {
		return Zero(CurrencyCHF)
	}

	result := values[0]
	for i := 1; i < len(values); i++ {
		result = result.Add(values[i])
	}
	return result
}
