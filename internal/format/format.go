// Package format renders amounts and dates for document presentation.
// Settings are passed in explicitly; nothing here is read from globals.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/saralbooks/saralbooks/internal/config"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const isoDate = "2006-01-02"

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

type Formatter struct {
	settings config.DisplaySettings
	printer  *message.Printer
}

func New(settings config.DisplaySettings) *Formatter {
	tag, err := language.Parse(settings.Locale)
	if err != nil {
		tag = language.English
	}
	return &Formatter{
		settings: settings,
		printer:  message.NewPrinter(tag),
	}
}

// Amount renders a currency amount with symbol and locale grouping.
func (f *Formatter) Amount(value float64) string {
	symbol, ok := currencySymbols[strings.ToUpper(f.settings.Currency)]
	if !ok {
		symbol = f.settings.Currency + " "
	}
	return f.printer.Sprintf("%s%v", symbol,
		number.Decimal(value, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Date renders an ISO date (yyyy-mm-dd) in the configured display format.
// Malformed input is returned unchanged, matching lenient form behavior.
func (f *Formatter) Date(iso string) string {
	t, err := time.Parse(isoDate, strings.TrimSpace(iso))
	if err != nil {
		return iso
	}
	switch f.settings.DateFormat {
	case "MM/DD/YYYY":
		return t.Format("01/02/2006")
	case "YYYY-MM-DD":
		return t.Format(isoDate)
	default:
		return t.Format("02/01/2006")
	}
}

// ParseInputDate turns a typed display date (d/m/y, d-m-y or d.m.y, two or
// four digit year) back into ISO form. Returns false when the input does not
// resolve to a real calendar date.
func (f *Formatter) ParseInputDate(input string) (string, bool) {
	parts := strings.FieldsFunc(strings.TrimSpace(input), func(r rune) bool {
		return r == '/' || r == '-' || r == '.'
	})
	if len(parts) != 3 {
		return "", false
	}

	day, month, year := parts[0], parts[1], parts[2]
	if f.settings.DateFormat == "MM/DD/YYYY" {
		day, month = month, day
	} else if f.settings.DateFormat == "YYYY-MM-DD" {
		day, year = year, day
	}

	if len(year) == 2 {
		year = fmt.Sprintf("%d", time.Now().Year()/100) + year
	}

	iso := fmt.Sprintf("%s-%s-%s", year, pad2(month), pad2(day))
	if _, err := time.Parse(isoDate, iso); err != nil {
		return "", false
	}
	return iso, true
}

func pad2(v string) string {
	if len(v) == 1 {
		return "0" + v
	}
	return v
}

// SignedRoundOff renders the round-off correction with an explicit sign.
func (f *Formatter) SignedRoundOff(value float64) string {
	if value >= 0 {
		return fmt.Sprintf("+%.2f", value)
	}
	return fmt.Sprintf("%.2f", value)
}
