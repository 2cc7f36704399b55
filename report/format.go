package report

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Documents print amounts with Indian digit grouping (12,34,567).
var inr = message.NewPrinter(language.MustParse("en-IN"))

// FormatAmount renders a rounded amount as "₹ 12,34,567". All document totals
// are whole units by the time they reach a report, so no decimals are shown.
func FormatAmount(d decimal.Decimal) string {
	return inr.Sprintf("₹ %v", number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(0)))
}

// FormatPercent renders a percentage without trailing zeros, e.g. "18%".
func FormatPercent(d decimal.Decimal) string {
	return d.String() + "%"
}
