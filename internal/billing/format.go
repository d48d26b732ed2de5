package billing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Vebses/GeoAdmin-sub000/internal/model"
)

// Placeholder rendered for an absent amount.
const amountPlaceholder = "—"

// FormatAmount renders an amount for on-screen display: exactly two decimals,
// the currency's symbol in its canonical position and its canonical locale's
// separators. USD and EUR put the symbol first with en-US separators; GEL
// puts the lari sign after the amount with ka-GE separators. A nil amount
// formats as a placeholder dash, never an error.
func FormatAmount(amount *decimal.Decimal, currency string) string {
	if amount == nil {
		return amountPlaceholder
	}
	sign := ""
	a := *amount
	if a.IsNegative() {
		sign = "-"
		a = a.Neg()
	}
	switch currency {
	case model.CurrencyUSD:
		return sign + "$" + group(a, ",", ".")
	case model.CurrencyEUR:
		return sign + "€" + group(a, ",", ".")
	case model.CurrencyGEL:
		return sign + group(a, " ", ",") + " ₾"
	default:
		// Unknown code — code suffix keeps the output unambiguous.
		return sign + group(a, ",", ".") + " " + currency
	}
}

// FormatDocumentAmount renders an amount for the PDF document: plain
// two-decimal number with a literal currency-code suffix ("115.50 EUR").
// The divergence from on-screen display is intentional and long-standing.
func FormatDocumentAmount(amount decimal.Decimal, currency string) string {
	return amount.StringFixed(2) + " " + currency
}

// group formats with two decimals, a thousands separator and a decimal mark.
func group(a decimal.Decimal, thousands, dec string) string {
	s := a.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(thousands)
		}
		b.WriteRune(d)
	}
	b.WriteString(dec)
	b.WriteString(fracPart)
	return b.String()
}
