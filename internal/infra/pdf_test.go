package infra

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vebses/GeoAdmin-sub000/internal/apierror"
	"github.com/Vebses/GeoAdmin-sub000/internal/model"
)

func renderFixture() (*model.Invoice, *model.Company, *model.Partner, *model.Case) {
	iban := "GE29TB7777777700003333"
	bank := "TBC Bank"
	swift := "TBCBGE22"
	email := "claims@eurotravel.example"

	inv := &model.Invoice{
		ID:            uuid.MustParse("7b7e7a3e-4a7e-4a3e-8a3e-7b7e7a3e4a7e"),
		InvoiceNumber: "INV-000042",
		Status:        model.InvoiceStatusDraft,
		Currency:      model.CurrencyEUR,
		Language:      model.LangEN,
		Subtotal:      decimal.RequireFromString("125.50"),
		FranchiseAmount: decimal.RequireFromString("10.00"),
		Total:         decimal.RequireFromString("115.50"),
		Items: []model.InvoiceItem{
			{Description: "Consultation", Quantity: 2, UnitPrice: decimal.RequireFromString("50.00"), Total: decimal.RequireFromString("100.00")},
			{Description: "Transport", Quantity: 1, UnitPrice: decimal.RequireFromString("25.50"), Total: decimal.RequireFromString("25.50")},
		},
		CreatedAt: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
	}
	sender := &model.Company{
		LegalName: "GeoMed Assistance LLC",
		BankName:  &bank,
		BankCode:  &swift,
		IBANEUR:   &iban,
	}
	recipient := &model.Partner{
		LegalName: "Euro Travel Insurance AG",
		Type:      "insurer",
		Email:     &email,
	}
	kase := &model.Case{
		Number:      "GA-2025-0412",
		PatientName: "Hans Mueller",
	}
	return inv, sender, recipient, kase
}

func TestRenderInvoicePDFIsDeterministic(t *testing.T) {
	inv, sender, recipient, kase := renderFixture()

	first, err := RenderInvoicePDF(inv, sender, recipient, kase, model.LangEN, SenderAssets{}, RenderOptions{})
	require.NoError(t, err)
	second, err := RenderInvoicePDF(inv, sender, recipient, kase, model.LangEN, SenderAssets{}, RenderOptions{})
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.Equal(t, first, second, "same invoice must render byte-identical documents")
}

func TestRenderInvoicePDFProducesValidHeader(t *testing.T) {
	inv, sender, recipient, kase := renderFixture()

	data, err := RenderInvoicePDF(inv, sender, recipient, kase, model.LangEN, SenderAssets{}, RenderOptions{})
	require.NoError(t, err)
	require.Greater(t, len(data), 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderInvoicePDFGeorgianWithoutFontStillRenders(t *testing.T) {
	inv, sender, recipient, kase := renderFixture()

	// Without a UTF-8 font the Georgian glyphs degrade through the cp1252
	// translator, but the document must still come out.
	data, err := RenderInvoicePDF(inv, sender, recipient, kase, model.LangKA, SenderAssets{}, RenderOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestRenderInvoicePDFMissingPartiesRejected(t *testing.T) {
	inv, sender, recipient, kase := renderFixture()

	var missing *apierror.MissingEntityError

	_, err := RenderInvoicePDF(nil, sender, recipient, kase, model.LangEN, SenderAssets{}, RenderOptions{})
	require.ErrorAs(t, err, &missing)

	_, err = RenderInvoicePDF(inv, nil, recipient, kase, model.LangEN, SenderAssets{}, RenderOptions{})
	require.ErrorAs(t, err, &missing)

	_, err = RenderInvoicePDF(inv, sender, nil, kase, model.LangEN, SenderAssets{}, RenderOptions{})
	require.ErrorAs(t, err, &missing)

	_, err = RenderInvoicePDF(inv, sender, recipient, nil, model.LangEN, SenderAssets{}, RenderOptions{})
	require.ErrorAs(t, err, &missing)
}

func TestDocumentFileName(t *testing.T) {
	assert.Equal(t, "Invoice-INV-000042.pdf", DocumentFileName(model.LangEN, "INV-000042"))
	assert.Equal(t, "ინვოისი-INV-000042.pdf", DocumentFileName(model.LangKA, "INV-000042"))
	// Unsafe runes in the number are replaced, never passed through.
	assert.Equal(t, "Invoice-INV-2025-01.pdf", DocumentFileName(model.LangEN, "INV/2025\\01"))
}
