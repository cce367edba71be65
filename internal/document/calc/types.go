// Package calc implements the bill/invoice recalculation engine: line
// normalization, GST splitting, the duty/charge fold and final rounding.
// It is pure; persistence and presentation live elsewhere.
package calc

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// DocumentType selects which calculation pipeline applies.
type DocumentType string

const (
	DocumentTypeSale     DocumentType = "SALE"
	DocumentTypePurchase DocumentType = "PURCHASE"
)

// TaxMode determines how aggregate GST splits across components.
type TaxMode string

const (
	TaxModeIntraState TaxMode = "intra_state" // CGST + SGST
	TaxModeInterState TaxMode = "inter_state" // IGST
)

// AdjustmentKind decides the sign of an adjustment's contribution.
type AdjustmentKind string

const (
	AdjustmentKindCharge    AdjustmentKind = "CHARGE"
	AdjustmentKindDeduction AdjustmentKind = "DEDUCTION"
)

// AdjustmentMethod selects how an adjustment's raw amount is computed.
type AdjustmentMethod string

const (
	AdjustmentMethodPercentage AdjustmentMethod = "percentage"
	AdjustmentMethodFixed      AdjustmentMethod = "fixed"
	AdjustmentMethodHybrid     AdjustmentMethod = "hybrid"
)

// AdjustmentBase selects what a percentage adjustment applies to.
type AdjustmentBase string

const (
	AdjustmentBaseSubtotal     AdjustmentBase = "subtotal"
	AdjustmentBaseRunningTotal AdjustmentBase = "running_total"
)

// TaxRates is the rate set offered by the line editor. The engine accepts
// any rate; the closed set is a UI constraint only.
var TaxRates = []float64{0, 5, 12, 18, 28}

// Amount is a float64 that tolerates malformed JSON input: numbers, quoted
// numbers, empty strings and nulls all decode, anything unparseable becomes
// zero. Form fields arrive in all of these shapes.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	raw := string(data)
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		*a = 0
		return nil
	}
	*a = Amount(parsed)
	return nil
}

// Float returns the coerced value, mapping NaN and infinities to zero.
func (a Amount) Float() float64 {
	v := float64(a)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Line is one purchasable or sellable entry on a document.
// TaxableAmount and LineTotal are derived on every recalculation and are
// never a source of truth.
type Line struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	HSNCode        string `json:"hsn_code"`
	Quantity       Amount `json:"qty"`
	Unit           string `json:"unit"`
	Rate           Amount `json:"rate"`
	TaxRatePercent Amount `json:"tax_rate"`

	TaxableAmount float64 `json:"taxable_amount"`
	LineTotal     float64 `json:"amount"`
}

// NewBlankLine returns the default row added by the line editor.
func NewBlankLine() Line {
	return Line{
		ID:       uuid.NewString(),
		Quantity: 1,
		Unit:     "PCS",
	}
}

// Adjustment is a duty/charge ledger line cloned from a master definition
// into a document. Amount is the signed contribution derived by the fold.
type Adjustment struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Kind        AdjustmentKind   `json:"kind"`
	Method      AdjustmentMethod `json:"method"`
	Rate        Amount           `json:"rate"`
	FixedAmount Amount           `json:"fixed_amount"`
	ApplyOn     AdjustmentBase   `json:"apply_on"`

	Amount float64 `json:"amount"`
}

// Draft is the mutable calculation state of a bill or invoice: header
// parameters, line items, adjustments and the derived aggregates.
type Draft struct {
	Type    DocumentType `json:"type"`
	TaxMode TaxMode      `json:"tax_mode"`

	Items       []Line       `json:"items"`
	Adjustments []Adjustment `json:"adjustments,omitempty"`

	// Tax totals. For sale documents these hold the manual override values
	// on input; ResetTaxes forces re-derivation from the line items.
	CGSTTotal  Amount `json:"total_cgst"`
	SGSTTotal  Amount `json:"total_sgst"`
	IGSTTotal  Amount `json:"total_igst"`
	ResetTaxes bool   `json:"reset_taxes,omitempty"`

	// Purchase-only fixed charges, applied after tax in this order.
	CommissionRate   Amount  `json:"commission_rate"`
	CommissionAmount float64 `json:"commission_amount"`
	LaborCharges     Amount  `json:"labor_charges"`
	MarketFee        Amount  `json:"market_fee"`

	TaxableTotal float64 `json:"total_taxable"`
	TaxTotal     float64 `json:"total_tax"`
	RoundOff     float64 `json:"round_off"`
	GrandTotal   float64 `json:"grand_total"`
}
