package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func amt(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestFormatAmount_SymbolPlacement(t *testing.T) {
	assert.Equal(t, "$1,234.56", FormatAmount(amt("1234.56"), "USD"))
	assert.Equal(t, "€115.50", FormatAmount(amt("115.50"), "EUR"))
	assert.Equal(t, "1 234,56 ₾", FormatAmount(amt("1234.56"), "GEL"))
}

func TestFormatAmount_NilIsPlaceholder(t *testing.T) {
	assert.Equal(t, "—", FormatAmount(nil, "USD"))
	assert.Equal(t, "—", FormatAmount(nil, ""))
}

func TestFormatAmount_TwoDecimalsAlways(t *testing.T) {
	assert.Equal(t, "$7.00", FormatAmount(amt("7"), "USD"))
	assert.Equal(t, "€0.50", FormatAmount(amt("0.5"), "EUR"))
}

func TestFormatAmount_Grouping(t *testing.T) {
	assert.Equal(t, "$1,234,567.89", FormatAmount(amt("1234567.89"), "USD"))
	assert.Equal(t, "$123.45", FormatAmount(amt("123.45"), "USD"))
	assert.Equal(t, "-$1,000.00", FormatAmount(amt("-1000"), "USD"))
}

func TestFormatAmount_UnknownCurrencyFallsBackToCode(t *testing.T) {
	assert.Equal(t, "1,234.56 CHF", FormatAmount(amt("1234.56"), "CHF"))
}

func TestFormatDocumentAmount_CodeSuffix(t *testing.T) {
	assert.Equal(t, "115.50 EUR", FormatDocumentAmount(dec("115.50"), "EUR"))
	assert.Equal(t, "0.00 GEL", FormatDocumentAmount(decimal.Zero, "GEL"))
}
