// Package money converts between stored cents, decimal amounts and the
// user-facing currency text. All monetary arithmetic in the module goes
// through decimal.Decimal; float64 appears only for percentages.
package money

import (
	"strings"

	apperrors "spendwise/internal/errors"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// DefaultSymbol is used by Format.
const DefaultSymbol = "$"

var hundred = decimal.NewFromInt(100)

// FromCents converts a stored amount in cents to a decimal.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// ToCents rounds d half away from zero to two places and returns cents.
func ToCents(d decimal.Decimal) int64 {
	return d.Round(2).Mul(hundred).IntPart()
}

// Parse reads a user-entered amount such as "12.34", "$1,234.50" or "1000".
// The amount must be strictly positive.
func Parse(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, DefaultSymbol)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Zero, apperrors.ErrInvalidAmount
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInvalidAmount, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, apperrors.ErrInvalidAmount
	}
	return d.Round(2), nil
}

// Format renders d with the default symbol, e.g. "$1,234.50".
func Format(d decimal.Decimal) string {
	return FormatWith(DefaultSymbol, d)
}

// FormatWith renders d with the given currency symbol and thousands
// separators. Negative amounts render as "-$12.00".
func FormatWith(symbol string, d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	d = d.Round(2)
	whole := d.IntPart()
	frac := d.Sub(decimal.NewFromInt(whole)).Mul(hundred).IntPart()

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(symbol)
	b.WriteString(humanize.Comma(whole))
	b.WriteByte('.')
	if frac < 10 {
		b.WriteByte('0')
	}
	b.WriteString(decimal.NewFromInt(frac).String())
	return b.String()
}

// FormatCents is Format over a stored cents value.
func FormatCents(cents int64) string {
	return Format(FromCents(cents))
}

// Percent returns part ÷ whole × 100 as a float, or 0 when whole is not
// positive.
func Percent(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Div(whole).Mul(hundred).InexactFloat64()
}
