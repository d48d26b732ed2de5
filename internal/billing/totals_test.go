package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vebses/GeoAdmin-sub000/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func items(rows ...[2]string) []model.InvoiceItem {
	// rows are {quantity, unit_price} pairs encoded as strings for readability
	out := make([]model.InvoiceItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.InvoiceItem{
			Quantity:  int(dec(r[0]).IntPart()),
			UnitPrice: dec(r[1]),
		})
	}
	return out
}

func TestComputeTotals_Scenario(t *testing.T) {
	// 2×50.00 + 1×25.50 − franchise 10.00
	got := ComputeTotals(items([2]string{"2", "50.00"}, [2]string{"1", "25.50"}), dec("10.00"))

	assert.True(t, dec("125.50").Equal(got.Subtotal), "subtotal = %s", got.Subtotal)
	assert.True(t, dec("115.50").Equal(got.Total), "total = %s", got.Total)
}

func TestComputeTotals_FranchiseExceedsSubtotal_FloorsAtZero(t *testing.T) {
	got := ComputeTotals(items([2]string{"2", "50.00"}, [2]string{"1", "25.50"}), dec("200.00"))

	assert.True(t, dec("125.50").Equal(got.Subtotal))
	assert.True(t, got.Total.IsZero(), "total must floor at zero, got %s", got.Total)
	assert.False(t, got.Total.IsNegative())
}

func TestComputeTotals_NoItems(t *testing.T) {
	got := ComputeTotals(nil, dec("50.00"))

	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.Total.IsZero())
}

func TestComputeTotals_ZeroFranchise(t *testing.T) {
	got := ComputeTotals(items([2]string{"3", "10.10"}), decimal.Zero)

	assert.True(t, dec("30.30").Equal(got.Subtotal))
	assert.True(t, got.Subtotal.Equal(got.Total))
}

func TestLineTotal(t *testing.T) {
	assert.True(t, dec("151.50").Equal(LineTotal(3, dec("50.50"))))
	assert.True(t, LineTotal(5, decimal.Zero).IsZero())
}

func TestRecalculate_RewritesDerivedFields(t *testing.T) {
	inv := &model.Invoice{
		FranchiseAmount: dec("10.00"),
		Items: []model.InvoiceItem{
			{Quantity: 2, UnitPrice: dec("50.00"), Total: dec("999.99")}, // stale stored total
			{Quantity: 1, UnitPrice: dec("25.50")},
		},
	}

	Recalculate(inv)

	require.Len(t, inv.Items, 2)
	assert.True(t, dec("100.00").Equal(inv.Items[0].Total))
	assert.True(t, dec("25.50").Equal(inv.Items[1].Total))
	assert.True(t, dec("125.50").Equal(inv.Subtotal))
	assert.True(t, dec("115.50").Equal(inv.Total))
}

func TestRecalculate_QuantityChangeOnlyAffectsOwnItem(t *testing.T) {
	inv := &model.Invoice{
		Items: []model.InvoiceItem{
			{Quantity: 1, UnitPrice: dec("10.00")},
			{Quantity: 1, UnitPrice: dec("20.00")},
		},
	}
	Recalculate(inv)
	before := inv.Items[1].Total

	inv.Items[0].Quantity = 7
	Recalculate(inv)

	assert.True(t, dec("70.00").Equal(inv.Items[0].Total))
	assert.True(t, before.Equal(inv.Items[1].Total), "other item's total must not change")
}
