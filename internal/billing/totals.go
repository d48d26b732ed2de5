// Package billing holds the pure money arithmetic of the invoicing core:
// line totals, invoice totals and locale-aware amount formatting.
// Nothing in this package touches the database or the clock.
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/Vebses/GeoAdmin-sub000/internal/model"
)

// Totals is the output of ComputeTotals.
type Totals struct {
	Subtotal decimal.Decimal
	Total    decimal.Decimal
}

// LineTotal returns quantity × unit price.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// ComputeTotals derives an invoice's subtotal and total from its current line
// items and franchise amount. Each item's own total is recomputed from
// quantity and unit price — the stored Total column is never trusted here.
// The franchise may exceed the subtotal; the total floors at zero.
func ComputeTotals(items []model.InvoiceItem, franchise decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(LineTotal(it.Quantity, it.UnitPrice))
	}
	total := subtotal.Sub(franchise)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Totals{Subtotal: subtotal, Total: total}
}

// Recalculate rewrites the derived fields of an invoice in place: every
// item's total and the invoice subtotal/total. Callers persist the result
// inside the same transaction as the item mutation.
func Recalculate(inv *model.Invoice) {
	for i := range inv.Items {
		inv.Items[i].Total = LineTotal(inv.Items[i].Quantity, inv.Items[i].UnitPrice)
	}
	t := ComputeTotals(inv.Items, inv.FranchiseAmount)
	inv.Subtotal = t.Subtotal
	inv.Total = t.Total
}
