package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(qty, rate, taxRate float64) Line {
	return Line{
		ID:             "line-1",
		Name:           "Widget",
		Quantity:       Amount(qty),
		Unit:           "PCS",
		Rate:           Amount(rate),
		TaxRatePercent: Amount(taxRate),
	}
}

func TestRecalculateIntraStateSplit(t *testing.T) {
	d := Recalculate(Draft{
		Type:       DocumentTypeSale,
		TaxMode:    TaxModeIntraState,
		Items:      []Line{line(2, 100, 18)},
		ResetTaxes: true,
	})

	assert.Equal(t, 200.0, d.TaxableTotal)
	assert.Equal(t, 36.0, d.TaxTotal)
	assert.Equal(t, Amount(18), d.CGSTTotal)
	assert.Equal(t, Amount(18), d.SGSTTotal)
	assert.Equal(t, Amount(0), d.IGSTTotal)
	assert.Equal(t, 236.0, d.GrandTotal)
	assert.Equal(t, 0.0, d.RoundOff)

	assert.Equal(t, 200.0, d.Items[0].TaxableAmount)
	assert.Equal(t, 236.0, d.Items[0].LineTotal)
}

func TestRecalculateInterStateSplit(t *testing.T) {
	d := Recalculate(Draft{
		Type:       DocumentTypeSale,
		TaxMode:    TaxModeInterState,
		Items:      []Line{line(2, 100, 18)},
		ResetTaxes: true,
	})

	assert.Equal(t, Amount(0), d.CGSTTotal)
	assert.Equal(t, Amount(0), d.SGSTTotal)
	assert.Equal(t, Amount(36), d.IGSTTotal)
	assert.Equal(t, 236.0, d.GrandTotal)
}

func TestRecalculatePurchasePipeline(t *testing.T) {
	d := Recalculate(Draft{
		Type:           DocumentTypePurchase,
		TaxMode:        TaxModeIntraState,
		Items:          []Line{line(2, 100, 18)},
		CommissionRate: 2,
		LaborCharges:   10,
		MarketFee:      5,
	})

	assert.Equal(t, 200.0, d.TaxableTotal)
	assert.Equal(t, 36.0, d.TaxTotal)
	assert.Equal(t, 4.0, d.CommissionAmount)
	assert.Equal(t, 255.0, d.GrandTotal)
	assert.Equal(t, 0.0, d.RoundOff)
}

func TestRecalculateSubtotalPercentageChargeRoundsOnce(t *testing.T) {
	d := Recalculate(Draft{
		Type:    DocumentTypeSale,
		TaxMode: TaxModeIntraState,
		Items:   []Line{line(1, 333.33, 0)},
		Adjustments: []Adjustment{{
			ID:      "adj-1",
			Name:    "Handling",
			Kind:    AdjustmentKindCharge,
			Method:  AdjustmentMethodPercentage,
			Rate:    5,
			ApplyOn: AdjustmentBaseSubtotal,
		}},
		ResetTaxes: true,
	})

	assert.Equal(t, 333.33, d.TaxableTotal)
	assert.Equal(t, 16.6665, d.Adjustments[0].Amount)
	assert.Equal(t, 350.0, d.GrandTotal)
	assert.InDelta(t, 0.0035, d.RoundOff, 1e-12)
}

func TestRecalculateManualOverrideKeptThenReset(t *testing.T) {
	base := Draft{
		Type:      DocumentTypeSale,
		TaxMode:   TaxModeIntraState,
		Items:     []Line{line(2, 100, 18)},
		CGSTTotal: 20,
		SGSTTotal: 20,
	}

	// Direct tax edit without a structural change keeps the typed values.
	d := Recalculate(base)
	assert.Equal(t, Amount(20), d.CGSTTotal)
	assert.Equal(t, Amount(20), d.SGSTTotal)
	assert.Equal(t, 40.0, d.TaxTotal)
	assert.Equal(t, 240.0, d.GrandTotal)

	// A structural edit re-derives the split from the items.
	d.Items = append(d.Items, line(1, 50, 18))
	d.ResetTaxes = true
	d = Recalculate(d)
	assert.Equal(t, Amount(22.5), d.CGSTTotal)
	assert.Equal(t, Amount(22.5), d.SGSTTotal)
	assert.Equal(t, 45.0, d.TaxTotal)
	assert.False(t, d.ResetTaxes)
}

func TestRecalculateIdempotent(t *testing.T) {
	first := Recalculate(Draft{
		Type:    DocumentTypeSale,
		TaxMode: TaxModeInterState,
		Items:   []Line{line(3, 99.99, 12), line(1, 0.5, 5)},
		Adjustments: []Adjustment{
			{ID: "a", Name: "Freight", Kind: AdjustmentKindCharge, Method: AdjustmentMethodFixed, FixedAmount: 25},
			{ID: "b", Name: "Discount", Kind: AdjustmentKindDeduction, Method: AdjustmentMethodPercentage, Rate: 10, ApplyOn: AdjustmentBaseRunningTotal},
		},
		ResetTaxes: true,
	})
	second := Recalculate(first)

	assert.Equal(t, first, second)
}

func TestRecalculatePurchaseAlwaysResplits(t *testing.T) {
	// Purchase ignores any manually held totals.
	d := Recalculate(Draft{
		Type:      DocumentTypePurchase,
		TaxMode:   TaxModeInterState,
		Items:     []Line{line(2, 100, 18)},
		CGSTTotal: 99,
		SGSTTotal: 99,
		IGSTTotal: 1,
	})

	assert.Equal(t, Amount(0), d.CGSTTotal)
	assert.Equal(t, Amount(0), d.SGSTTotal)
	assert.Equal(t, Amount(36), d.IGSTTotal)
}

func TestFoldOrderMatters(t *testing.T) {
	charge := Adjustment{ID: "c", Name: "Fee", Kind: AdjustmentKindCharge, Method: AdjustmentMethodFixed, FixedAmount: 100}
	discount := Adjustment{ID: "d", Name: "Discount", Kind: AdjustmentKindDeduction, Method: AdjustmentMethodPercentage, Rate: 10, ApplyOn: AdjustmentBaseRunningTotal}

	items := []Line{line(1, 1000, 0)}

	chargeFirst := Recalculate(Draft{
		Type: DocumentTypeSale, Items: items,
		Adjustments: []Adjustment{charge, discount},
		ResetTaxes:  true,
	})
	discountFirst := Recalculate(Draft{
		Type: DocumentTypeSale, Items: items,
		Adjustments: []Adjustment{discount, charge},
		ResetTaxes:  true,
	})

	// 1000 + 100 = 1100, then -10% = 990 versus 1000 - 10% = 900, then +100 = 1000.
	assert.Equal(t, 990.0, chargeFirst.GrandTotal)
	assert.Equal(t, 1000.0, discountFirst.GrandTotal)
}

func TestDeductionSignForcedByKind(t *testing.T) {
	d := Recalculate(Draft{
		Type:  DocumentTypeSale,
		Items: []Line{line(1, 500, 0)},
		Adjustments: []Adjustment{{
			ID: "d", Name: "Discount",
			Kind:        AdjustmentKindDeduction,
			Method:      AdjustmentMethodFixed,
			FixedAmount: -50, // stored sign must be ignored
		}},
		ResetTaxes: true,
	})

	assert.Equal(t, -50.0, d.Adjustments[0].Amount)
	assert.Equal(t, 450.0, d.GrandTotal)
}

func TestHybridMethodCombinesRateAndFixed(t *testing.T) {
	d := Recalculate(Draft{
		Type:  DocumentTypeSale,
		Items: []Line{line(1, 200, 0)},
		Adjustments: []Adjustment{{
			ID: "h", Name: "Levy",
			Kind:        AdjustmentKindCharge,
			Method:      AdjustmentMethodHybrid,
			Rate:        5,
			FixedAmount: 7,
			ApplyOn:     AdjustmentBaseSubtotal,
		}},
		ResetTaxes: true,
	})

	// 5% of 200 plus 7.
	assert.Equal(t, 17.0, d.Adjustments[0].Amount)
	assert.Equal(t, 217.0, d.GrandTotal)
}

func TestTaxSplitSumsToTaxTotal(t *testing.T) {
	for _, mode := range []TaxMode{TaxModeIntraState, TaxModeInterState} {
		d := Recalculate(Draft{
			Type:       DocumentTypeSale,
			TaxMode:    mode,
			Items:      []Line{line(3, 123.45, 18), line(2, 9.99, 5)},
			ResetTaxes: true,
		})
		sum := d.CGSTTotal.Float() + d.SGSTTotal.Float() + d.IGSTTotal.Float()
		assert.InDelta(t, d.TaxTotal, sum, 1e-9, "mode %s", mode)
	}
}

func TestRoundingHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		rate       float64
		grandTotal float64
	}{
		{100.50, 101}, // exact half rounds up
		{100.49, 100},
		{100.51, 101},
	}
	for _, tc := range cases {
		d := Recalculate(Draft{
			Type:       DocumentTypeSale,
			Items:      []Line{line(1, tc.rate, 0)},
			ResetTaxes: true,
		})
		assert.Equal(t, tc.grandTotal, d.GrandTotal, "rate %.2f", tc.rate)
	}
}

func TestEmptyItemsSumToZero(t *testing.T) {
	d := Recalculate(Draft{Type: DocumentTypePurchase})

	assert.Equal(t, 0.0, d.TaxableTotal)
	assert.Equal(t, 0.0, d.TaxTotal)
	assert.Equal(t, 0.0, d.GrandTotal)
	assert.Empty(t, d.Items)
}

func TestTaxModeNormalization(t *testing.T) {
	require.Equal(t, TaxModeInterState, NormalizeTaxMode("Inter-State"))
	require.Equal(t, TaxModeInterState, NormalizeTaxMode(" INTER_STATE "))
	require.Equal(t, TaxModeIntraState, NormalizeTaxMode(""))
	require.Equal(t, TaxModeIntraState, NormalizeTaxMode("garbage"))
}

func TestRecalculateSaleDropsPurchaseFields(t *testing.T) {
	d := Recalculate(Draft{
		Type:             DocumentTypeSale,
		TaxMode:          TaxModeIntraState,
		Items:            []Line{line(2, 100, 18)},
		CommissionRate:   2,
		CommissionAmount: 4,
		LaborCharges:     30,
		MarketFee:        15,
		ResetTaxes:       true,
	})

	assert.Equal(t, Amount(0), d.CommissionRate)
	assert.Equal(t, 0.0, d.CommissionAmount)
	assert.Equal(t, Amount(0), d.LaborCharges)
	assert.Equal(t, Amount(0), d.MarketFee)
	assert.Equal(t, 236.0, d.GrandTotal)
}
