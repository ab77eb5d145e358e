package cli

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MoneyFormatter renders amounts with locale-aware digit grouping and a fixed
// currency symbol. It only affects display; stored amounts are untouched.
type MoneyFormatter struct {
	printer *message.Printer
	symbol  string
}

// NewMoneyFormatter creates a formatter for the given locale and symbol.
func NewMoneyFormatter(locale language.Tag, symbol string) *MoneyFormatter {
	return &MoneyFormatter{
		printer: message.NewPrinter(locale),
		symbol:  symbol,
	}
}

// Format renders d with two decimals, e.g. "$1,234.50" or "-$12.00".
func (f *MoneyFormatter) Format(d decimal.Decimal) string {
	s := f.symbol + f.printer.Sprintf("%.2f", d.Abs().Round(2).InexactFloat64())
	if d.Round(2).IsNegative() {
		return "-" + s
	}
	return s
}

// Percent renders d as a percentage with one decimal.
func (f *MoneyFormatter) Percent(d decimal.Decimal) string {
	return f.printer.Sprintf("%.1f%%", d.Round(1).InexactFloat64())
}
