package infra

// pdf.go — invoice document rendering using go-pdf/fpdf.
// Produces a single A4 page: sender block (logo or initials placeholder),
// title/number/date/case block, bill-to + patient columns, line-item table
// with a distinct franchise row, totals, bank details for the invoice's
// currency, and a signature/stamp row.
//
// Output is byte-for-byte deterministic for identical inputs: the PDF
// creation and modification dates are pinned to the invoice's own created_at,
// so the same (invoice, sender, recipient, case, language, assets) tuple
// always renders to identical bytes.

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-pdf/fpdf"

	"github.com/Vebses/GeoAdmin-sub000/internal/apierror"
	"github.com/Vebses/GeoAdmin-sub000/internal/billing"
	"github.com/Vebses/GeoAdmin-sub000/internal/i18n"
	"github.com/Vebses/GeoAdmin-sub000/internal/model"
)

// RenderOptions tunes the renderer. FontPath is an optional UTF-8 TTF with
// Georgian glyph coverage; when empty the built-in Helvetica is used and
// non-Latin label text is transliterated by fpdf's cp1252 translator.
type RenderOptions struct {
	FontPath string
}

const (
	pageMargin = 15.0
	contentW   = 180.0 // A4 width 210 − 2×15
)

// RenderInvoicePDF lays out the invoice document and returns its bytes.
// Missing optional sender/recipient fields degrade to placeholders; a nil
// invoice, sender, recipient or case is a MissingEntityError.
func RenderInvoicePDF(
	inv *model.Invoice,
	sender *model.Company,
	recipient *model.Partner,
	caseData *model.Case,
	lang string,
	assets SenderAssets,
	opts RenderOptions,
) ([]byte, error) {
	switch {
	case inv == nil:
		return nil, apierror.MissingEntity("invoice", "")
	case sender == nil:
		return nil, apierror.MissingEntity("sender company", "")
	case recipient == nil:
		return nil, apierror.MissingEntity("recipient partner", "")
	case caseData == nil:
		return nil, apierror.MissingEntity("case", "")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	// Determinism: no wall-clock timestamps in the output.
	pdf.SetCreationDate(inv.CreatedAt.UTC())
	pdf.SetModificationDate(inv.CreatedAt.UTC())

	font := "Helvetica"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(s) }
	if opts.FontPath != "" {
		font = "docfont"
		pdf.AddUTF8Font(font, "", opts.FontPath)
		pdf.AddUTF8Font(font, "B", opts.FontPath)
		pdf.AddUTF8Font(font, "I", opts.FontPath)
		text = func(s string) string { return s }
	}
	label := func(key string) string { return text(i18n.Label(lang, key)) }

	pdf.AddPage()

	// ── Sender block (top left) ──────────────────────────────────────────────
	logoBottom := drawLogo(pdf, font, text, sender, assets.Logo)

	pdf.SetXY(pageMargin, logoBottom+2)
	pdf.SetFont(font, "B", 11)
	pdf.CellFormat(110, 5.5, text(sender.LegalName), "", 1, "L", false, 0, "")
	pdf.SetFont(font, "", 8)
	pdf.SetTextColor(90, 90, 90)
	if v := deref(sender.TaxID); v != "" {
		pdf.CellFormat(110, 4, text(i18n.Label(lang, i18n.KeyTaxID)+": "+v), "", 1, "L", false, 0, "")
	}
	if v := deref(sender.Address); v != "" {
		pdf.CellFormat(110, 4, text(v), "", 1, "L", false, 0, "")
	}
	if contact := joinNonEmpty(" · ", deref(sender.Email), deref(sender.Phone)); contact != "" {
		pdf.CellFormat(110, 4, text(contact), "", 1, "L", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	senderBottom := pdf.GetY()

	// ── Invoice title block (top right) ──────────────────────────────────────
	pdf.SetXY(pageMargin+110, pageMargin)
	pdf.SetFont(font, "B", 16)
	pdf.CellFormat(70, 8, label(i18n.KeyInvoice), "", 2, "R", false, 0, "")
	pdf.SetFont(font, "", 9)
	pdf.CellFormat(70, 5, text(i18n.Label(lang, i18n.KeyInvoiceNo)+": "+inv.InvoiceNumber), "", 2, "R", false, 0, "")
	pdf.CellFormat(70, 5, text(i18n.Label(lang, i18n.KeyDate)+": "+inv.CreatedAt.Format("02.01.2006")), "", 2, "R", false, 0, "")
	pdf.CellFormat(70, 5, text(i18n.Label(lang, i18n.KeyCaseRef)+": "+caseData.Number), "", 2, "R", false, 0, "")
	titleBottom := pdf.GetY()

	y := senderBottom
	if titleBottom > y {
		y = titleBottom
	}
	y += 6

	// ── Parties: bill-to and patient columns ─────────────────────────────────
	pdf.SetXY(pageMargin, y)
	pdf.SetFont(font, "B", 9)
	pdf.CellFormat(90, 5, label(i18n.KeyBillTo), "B", 0, "L", false, 0, "")
	pdf.SetX(pageMargin + 95)
	pdf.CellFormat(85, 5, label(i18n.KeyPatient), "B", 1, "L", false, 0, "")

	pdf.SetFont(font, "", 9)
	partyY := pdf.GetY() + 1
	pdf.SetXY(pageMargin, partyY)
	pdf.CellFormat(90, 4.5, text(recipient.LegalName), "", 2, "L", false, 0, "")
	pdf.SetFont(font, "", 8)
	pdf.SetTextColor(90, 90, 90)
	if v := deref(recipient.TaxID); v != "" {
		pdf.CellFormat(90, 4, text(i18n.Label(lang, i18n.KeyTaxID)+": "+v), "", 2, "L", false, 0, "")
	}
	if v := deref(recipient.Address); v != "" {
		pdf.CellFormat(90, 4, text(v), "", 2, "L", false, 0, "")
	}
	leftBottom := pdf.GetY()

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont(font, "", 9)
	pdf.SetXY(pageMargin+95, partyY)
	pdf.CellFormat(85, 4.5, text(caseData.PatientName), "", 2, "L", false, 0, "")
	pdf.SetFont(font, "", 8)
	pdf.SetTextColor(90, 90, 90)
	if v := deref(caseData.PatientPersonalID); v != "" {
		pdf.CellFormat(85, 4, text(i18n.Label(lang, i18n.KeyPatientID)+": "+v), "", 2, "L", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	rightBottom := pdf.GetY()

	y = leftBottom
	if rightBottom > y {
		y = rightBottom
	}
	y += 6

	// ── Line-item table ──────────────────────────────────────────────────────
	const (
		colIdx    = 10.0
		colDesc   = 90.0
		colQty    = 15.0
		colUnit   = 32.5
		colAmount = 32.5
	)

	pdf.SetXY(pageMargin, y)
	pdf.SetFont(font, "B", 8)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(colIdx, 6, "#", "B", 0, "C", true, 0, "")
	pdf.CellFormat(colDesc, 6, label(i18n.KeyDescription), "B", 0, "L", true, 0, "")
	pdf.CellFormat(colQty, 6, label(i18n.KeyQty), "B", 0, "C", true, 0, "")
	pdf.CellFormat(colUnit, 6, label(i18n.KeyUnitPrice), "B", 0, "R", true, 0, "")
	pdf.CellFormat(colAmount, 6, label(i18n.KeyAmount), "B", 1, "R", true, 0, "")

	pdf.SetFont(font, "", 8)
	for i, item := range inv.Items {
		desc := item.Description
		if len([]rune(desc)) > 58 {
			desc = string([]rune(desc)[:57]) + "…"
		}
		pdf.CellFormat(colIdx, 5.5, fmt.Sprintf("%d", i+1), "", 0, "C", false, 0, "")
		pdf.CellFormat(colDesc, 5.5, text(desc), "", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, 5.5, fmt.Sprintf("%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(colUnit, 5.5, billing.FormatDocumentAmount(item.UnitPrice, inv.Currency), "", 0, "R", false, 0, "")
		pdf.CellFormat(colAmount, 5.5, billing.FormatDocumentAmount(item.Total, inv.Currency), "", 1, "R", false, 0, "")
	}

	// Franchise deduction row — visually distinct from service rows.
	if inv.FranchiseAmount.IsPositive() {
		pdf.SetFont(font, "I", 8)
		pdf.SetFillColor(250, 246, 235)
		pdf.CellFormat(colIdx, 5.5, "", "T", 0, "C", true, 0, "")
		pdf.CellFormat(colDesc+colQty+colUnit, 5.5, label(i18n.KeyFranchise), "T", 0, "L", true, 0, "")
		pdf.CellFormat(colAmount, 5.5, "-"+billing.FormatDocumentAmount(inv.FranchiseAmount, inv.Currency), "T", 1, "R", true, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(pageMargin, pdf.GetY(), pageMargin+contentW, pdf.GetY())
	pdf.Ln(2)

	// ── Totals block (right-aligned) ─────────────────────────────────────────
	totalsLabelW := contentW - colAmount - 40
	pdf.SetFont(font, "", 9)
	pdf.SetX(pageMargin + 40)
	pdf.CellFormat(totalsLabelW, 5, label(i18n.KeySubtotal), "", 0, "R", false, 0, "")
	pdf.CellFormat(colAmount, 5, billing.FormatDocumentAmount(inv.Subtotal, inv.Currency), "", 1, "R", false, 0, "")
	if inv.FranchiseAmount.IsPositive() {
		pdf.SetX(pageMargin + 40)
		pdf.CellFormat(totalsLabelW, 5, label(i18n.KeyFranchise), "", 0, "R", false, 0, "")
		pdf.CellFormat(colAmount, 5, "-"+billing.FormatDocumentAmount(inv.FranchiseAmount, inv.Currency), "", 1, "R", false, 0, "")
	}
	pdf.SetFont(font, "B", 10)
	pdf.SetX(pageMargin + 40)
	pdf.CellFormat(totalsLabelW, 6, label(i18n.KeyTotal), "T", 0, "R", false, 0, "")
	pdf.CellFormat(colAmount, 6, billing.FormatDocumentAmount(inv.Total, inv.Currency), "T", 1, "R", false, 0, "")

	pdf.Ln(8)

	// ── Bank details ─────────────────────────────────────────────────────────
	pdf.SetFont(font, "B", 9)
	pdf.CellFormat(contentW, 5, label(i18n.KeyBankDetails), "B", 1, "L", false, 0, "")
	pdf.SetFont(font, "", 8)
	if v := deref(sender.BankName); v != "" {
		pdf.CellFormat(contentW, 4.5, text(i18n.Label(lang, i18n.KeyBank)+": "+v), "", 1, "L", false, 0, "")
	}
	if v := deref(sender.BankCode); v != "" {
		pdf.CellFormat(contentW, 4.5, text(i18n.Label(lang, i18n.KeySwift)+": "+v), "", 1, "L", false, 0, "")
	}
	// Exactly one account number is shown: the one matching the currency.
	if iban := sender.IBANFor(inv.Currency); iban != "" {
		pdf.CellFormat(contentW, 4.5, text(i18n.Label(lang, i18n.KeyIBAN)+" ("+inv.Currency+"): "+iban), "", 1, "L", false, 0, "")
	}

	// ── Signature / stamp row (bottom) ───────────────────────────────────────
	sigY := 250.0
	drawSignatureBox(pdf, font, pageMargin, sigY, label(i18n.KeySignature), assets.Signature, "sig")
	drawSignatureBox(pdf, font, pageMargin+100, sigY, label(i18n.KeyStamp), assets.Stamp, "stamp")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &apierror.RenderError{Err: err}
	}
	return buf.Bytes(), nil
}

// drawLogo embeds the logo image, or draws an initials placeholder when the
// asset is absent. Returns the y coordinate below the drawn block.
func drawLogo(pdf *fpdf.Fpdf, font string, text func(string) string, sender *model.Company, logo Asset) float64 {
	const logoH = 18.0
	if logo.Present() {
		opt := fpdf.ImageOptions{ImageType: logo.Format, ReadDpi: false}
		pdf.RegisterImageOptionsReader("sender-logo", opt, bytes.NewReader(logo.Data))
		pdf.ImageOptions("sender-logo", pageMargin, pageMargin, 0, logoH, false, opt, 0, "")
		return pageMargin + logoH
	}
	// Initials in a bordered square, same footprint as the logo.
	pdf.SetDrawColor(160, 160, 160)
	pdf.Rect(pageMargin, pageMargin, logoH, logoH, "D")
	pdf.SetFont(font, "B", 14)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(pageMargin, pageMargin+logoH/2-3)
	pdf.CellFormat(logoH, 6, text(initials(sender.LegalName)), "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(0, 0, 0)
	return pageMargin + logoH
}

// drawSignatureBox draws one labeled signature/stamp area, embedding the
// image when present and leaving the box empty otherwise.
func drawSignatureBox(pdf *fpdf.Fpdf, font string, x, y float64, caption string, img Asset, name string) {
	const boxW, boxH = 60.0, 22.0
	if img.Present() {
		opt := fpdf.ImageOptions{ImageType: img.Format, ReadDpi: false}
		pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(img.Data))
		pdf.ImageOptions(name, x, y, 0, boxH, false, opt, 0, "")
	}
	pdf.SetDrawColor(120, 120, 120)
	pdf.Line(x, y+boxH+2, x+boxW, y+boxH+2)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetFont(font, "", 7)
	pdf.SetTextColor(110, 110, 110)
	pdf.SetXY(x, y+boxH+3)
	pdf.CellFormat(boxW, 4, caption, "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// initials derives a 1–2 letter placeholder from a legal name.
func initials(name string) string {
	var out []rune
	for _, w := range strings.Fields(name) {
		r := []rune(w)[0]
		if !unicode.IsLetter(r) {
			continue
		}
		out = append(out, unicode.ToUpper(r))
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

// DocumentFileName builds the download name for a rendered invoice:
// "<LocalizedPrefix>-<sanitized-invoice-number>.pdf". Path separators and
// other unsafe runes in the number are replaced with dashes.
func DocumentFileName(lang, invoiceNumber string) string {
	prefix := i18n.Label(lang, i18n.KeyFilePrefix)
	sanitized := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' || r == '-' {
			return r
		}
		return '-'
	}, invoiceNumber)
	return prefix + "-" + sanitized + ".pdf"
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
