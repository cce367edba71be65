// Package render produces printable PDF documents from persisted bills
// and invoices. Amounts and dates follow the configured display settings.
package render

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	marotoconfig "github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	appconfig "github.com/saralbooks/saralbooks/internal/config"
	"github.com/saralbooks/saralbooks/internal/document/calc"
	documentdomain "github.com/saralbooks/saralbooks/internal/document/domain"
	"github.com/saralbooks/saralbooks/internal/format"
)

type Renderer interface {
	Render(ctx context.Context, doc *documentdomain.Response) (io.Reader, error)
}

type pdfRenderer struct {
	settings *appconfig.SettingsHolder
}

func New(settings *appconfig.SettingsHolder) Renderer {
	return &pdfRenderer{settings: settings}
}

func (r *pdfRenderer) Render(ctx context.Context, doc *documentdomain.Response) (io.Reader, error) {
	f := format.New(r.settings.Get())

	title := "Tax Invoice"
	partyLabel := "Bill to"
	if doc.Type == calc.DocumentTypePurchase {
		title = "Purchase Bill"
		partyLabel = "Supplier"
	}

	cfg := marotoconfig.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, title, props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(16,
		col.New(6).Add(
			text.New("Number: "+doc.Number, props.Text{Top: 0}),
			text.New("Date: "+f.Date(doc.DocDate), props.Text{Top: 4}),
			text.New("Status: "+doc.Status, props.Text{Top: 8}),
		),
		col.New(6),
	)

	m.AddRow(30,
		col.New(6).Add(
			text.New(partyLabel, props.Text{Style: fontstyle.Bold}),
			text.New(doc.PartyName, props.Text{Top: 5}),
			text.New(doc.PartyAddress, props.Text{Top: 9}),
			text.New("GSTIN: "+doc.PartyGSTIN, props.Text{Top: 18}),
		),
		col.New(6),
	)

	m.AddRow(10,
		text.NewCol(4, "Item", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "HSN", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Rate", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range doc.Items {
		qty := fmt.Sprintf("%g %s", item.Quantity.Float(), item.Unit)
		m.AddRow(8,
			text.NewCol(4, item.Name, props.Text{Size: 9}),
			text.NewCol(2, item.HSNCode, props.Text{Size: 9}),
			text.NewCol(2, qty, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, f.Amount(item.Rate.Float()), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, f.Amount(item.LineTotal), props.Text{Size: 9, Align: align.Right}),
		)
	}

	addTotal := func(label, value string, bold bool) {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		m.AddRow(7,
			col.New(8),
			text.NewCol(2, label, props.Text{Size: 9, Style: style}),
			text.NewCol(2, value, props.Text{Size: 9, Style: style, Align: align.Right}),
		)
	}

	addTotal("Taxable", f.Amount(doc.TaxableTotal), false)
	if doc.TaxMode == calc.TaxModeInterState {
		addTotal("IGST", f.Amount(doc.IGSTTotal.Float()), false)
	} else {
		addTotal("CGST", f.Amount(doc.CGSTTotal.Float()), false)
		addTotal("SGST", f.Amount(doc.SGSTTotal.Float()), false)
	}

	if doc.Type == calc.DocumentTypePurchase {
		if doc.CommissionAmount != 0 {
			addTotal("Commission", f.Amount(doc.CommissionAmount), false)
		}
		if doc.LaborCharges.Float() != 0 {
			addTotal("Labor", f.Amount(doc.LaborCharges.Float()), false)
		}
		if doc.MarketFee.Float() != 0 {
			addTotal("Market fee", f.Amount(doc.MarketFee.Float()), false)
		}
	} else {
		for _, adj := range doc.Adjustments {
			if adj.Amount == 0 {
				continue
			}
			addTotal(adj.Name, f.Amount(adj.Amount), false)
		}
	}

	addTotal("Round off", f.SignedRoundOff(doc.RoundOff), false)
	addTotal("Grand total", f.Amount(doc.GrandTotal), true)

	if doc.Note != "" {
		m.AddRow(14,
			text.NewCol(12, doc.Note, props.Text{Size: 8, Top: 4}),
		)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(out.GetBytes()), nil
}
