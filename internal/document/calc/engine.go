package calc

import (
	"strings"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Recalculate derives every aggregate of a draft from its items, tax mode
// and adjustments. It is total (malformed numeric input becomes zero) and
// idempotent: recalculating an already consistent draft changes nothing.
//
// Purchase drafts always re-derive the tax split and run the fixed
// commission/labor/market-fee pipeline. Sale drafts keep the manually held
// CGST/SGST/IGST values unless ResetTaxes is set, then run the configurable
// adjustment fold.
func Recalculate(d Draft) Draft {
	d.TaxMode = NormalizeTaxMode(d.TaxMode)

	items, taxable, lineTax := normalizeLines(d.Items)
	d.Items = items

	var cgst, sgst, igst decimal.Decimal
	if d.Type == DocumentTypePurchase || d.ResetTaxes {
		cgst, sgst, igst = splitTax(d.TaxMode, lineTax)
	} else {
		cgst = decimal.NewFromFloat(d.CGSTTotal.Float())
		sgst = decimal.NewFromFloat(d.SGSTTotal.Float())
		igst = decimal.NewFromFloat(d.IGSTTotal.Float())
	}
	taxTotal := cgst.Add(sgst).Add(igst)

	running := taxable.Add(taxTotal)
	if d.Type == DocumentTypePurchase {
		commission := taxable.Mul(decimal.NewFromFloat(d.CommissionRate.Float())).Div(oneHundred)
		labor := decimal.NewFromFloat(d.LaborCharges.Float())
		fee := decimal.NewFromFloat(d.MarketFee.Float())
		running = running.Add(commission).Add(labor).Add(fee)
		d.CommissionAmount = commission.InexactFloat64()
	} else {
		d.Adjustments, running = foldAdjustments(d.Adjustments, taxable, running)
		// The fixed pipeline fields belong to purchases only; a stray value
		// in a sale payload must not persist.
		d.CommissionRate = 0
		d.CommissionAmount = 0
		d.LaborCharges = 0
		d.MarketFee = 0
	}

	rounded := running.Round(0)

	d.CGSTTotal = Amount(cgst.InexactFloat64())
	d.SGSTTotal = Amount(sgst.InexactFloat64())
	d.IGSTTotal = Amount(igst.InexactFloat64())
	d.TaxableTotal = taxable.InexactFloat64()
	d.TaxTotal = taxTotal.InexactFloat64()
	// Stored exact; two-decimal signed display is a formatting concern.
	d.RoundOff = rounded.Sub(running).InexactFloat64()
	d.GrandTotal = rounded.InexactFloat64()
	d.ResetTaxes = false

	return d
}

// normalizeLines recomputes the derived fields of every line and returns
// the taxable and tax sums. All lines are renormalized on each pass because
// the aggregates depend on the full set.
func normalizeLines(items []Line) ([]Line, decimal.Decimal, decimal.Decimal) {
	out := make([]Line, len(items))
	taxable := decimal.Zero
	tax := decimal.Zero

	for i, item := range items {
		qty := decimal.NewFromFloat(item.Quantity.Float())
		rate := decimal.NewFromFloat(item.Rate.Float())
		taxRate := decimal.NewFromFloat(item.TaxRatePercent.Float())

		lineTaxable := qty.Mul(rate)
		lineTax := lineTaxable.Mul(taxRate).Div(oneHundred)

		item.TaxableAmount = lineTaxable.InexactFloat64()
		item.LineTotal = lineTaxable.Add(lineTax).InexactFloat64()
		out[i] = item

		taxable = taxable.Add(lineTaxable)
		tax = tax.Add(lineTax)
	}

	return out, taxable, tax
}

// splitTax divides aggregate tax across GST components per the tax mode.
func splitTax(mode TaxMode, tax decimal.Decimal) (cgst, sgst, igst decimal.Decimal) {
	if mode == TaxModeInterState {
		return decimal.Zero, decimal.Zero, tax
	}
	half := tax.Div(decimal.NewFromInt(2))
	return half, half, decimal.Zero
}

// foldAdjustments applies the adjustment list as a strict left-to-right
// fold over the running total. Order is significant: a running_total
// percentage sees every adjustment applied before it.
func foldAdjustments(adjustments []Adjustment, taxable, running decimal.Decimal) ([]Adjustment, decimal.Decimal) {
	out := make([]Adjustment, len(adjustments))

	for i, adj := range adjustments {
		base := running
		if normalizeBase(adj.ApplyOn) == AdjustmentBaseSubtotal {
			base = taxable
		}

		rate := decimal.NewFromFloat(adj.Rate.Float())
		fixed := decimal.NewFromFloat(adj.FixedAmount.Float())

		var raw decimal.Decimal
		switch normalizeMethod(adj.Method) {
		case AdjustmentMethodPercentage:
			raw = base.Mul(rate).Div(oneHundred)
		case AdjustmentMethodFixed:
			raw = fixed
		default:
			raw = base.Mul(rate).Div(oneHundred).Add(fixed)
		}

		// Kind alone decides the sign; the stored value's sign is ignored.
		signed := raw.Abs()
		if normalizeKind(adj.Kind) == AdjustmentKindDeduction {
			signed = signed.Neg()
		}

		running = running.Add(signed)
		adj.Amount = signed.InexactFloat64()
		out[i] = adj
	}

	return out, running
}

// NormalizeTaxMode maps any spelling of the inter-state mode to its
// canonical form; everything else is intra-state.
func NormalizeTaxMode(mode TaxMode) TaxMode {
	switch TaxMode(strings.ToLower(strings.TrimSpace(string(mode)))) {
	case TaxModeInterState, "inter-state":
		return TaxModeInterState
	default:
		return TaxModeIntraState
	}
}

func normalizeKind(kind AdjustmentKind) AdjustmentKind {
	if strings.EqualFold(strings.TrimSpace(string(kind)), string(AdjustmentKindDeduction)) {
		return AdjustmentKindDeduction
	}
	return AdjustmentKindCharge
}

func normalizeMethod(method AdjustmentMethod) AdjustmentMethod {
	switch AdjustmentMethod(strings.ToLower(strings.TrimSpace(string(method)))) {
	case AdjustmentMethodPercentage:
		return AdjustmentMethodPercentage
	case AdjustmentMethodFixed:
		return AdjustmentMethodFixed
	default:
		return AdjustmentMethodHybrid
	}
}

func normalizeBase(base AdjustmentBase) AdjustmentBase {
	if strings.EqualFold(strings.TrimSpace(string(base)), string(AdjustmentBaseSubtotal)) {
		return AdjustmentBaseSubtotal
	}
	return AdjustmentBaseRunningTotal
}
