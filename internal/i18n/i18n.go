// Package i18n holds the label tables for invoice documents and the default
// email templates. Only "en" and "ka" are supported; lookup is total — a key
// missing from the requested language falls back to the English text, and a
// key missing everywhere renders as the key itself. Some Georgian entries
// deliberately reuse the English text (SWIFT, IBAN); that asymmetry matches
// the documents the business has always issued and is kept as-is.
package i18n

import "fmt"

// Label keys used by the document renderer and composer.
const (
	KeyInvoice     = "invoice"
	KeyInvoiceNo   = "invoice_no"
	KeyDate        = "date"
	KeyCaseRef     = "case_ref"
	KeyBillTo      = "bill_to"
	KeyPatient     = "patient"
	KeyPatientID   = "patient_id"
	KeyTaxID       = "tax_id"
	KeyDescription = "description"
	KeyQty         = "qty"
	KeyUnitPrice   = "unit_price"
	KeyAmount      = "amount"
	KeySubtotal    = "subtotal"
	KeyFranchise   = "franchise"
	KeyTotal       = "total"
	KeyBankDetails = "bank_details"
	KeyBank        = "bank"
	KeySwift       = "swift"
	KeyIBAN        = "iban"
	KeySignature   = "signature"
	KeyStamp       = "stamp"
	KeyFilePrefix  = "file_prefix"
)

var labels = map[string]map[string]string{
	"en": {
		KeyInvoice:     "INVOICE",
		KeyInvoiceNo:   "Invoice No.",
		KeyDate:        "Date",
		KeyCaseRef:     "Case",
		KeyBillTo:      "Bill To",
		KeyPatient:     "Patient",
		KeyPatientID:   "Personal ID",
		KeyTaxID:       "Tax ID",
		KeyDescription: "Description",
		KeyQty:         "Qty",
		KeyUnitPrice:   "Unit Price",
		KeyAmount:      "Amount",
		KeySubtotal:    "Subtotal",
		KeyFranchise:   "Franchise",
		KeyTotal:       "Total",
		KeyBankDetails: "Bank Details",
		KeyBank:        "Bank",
		KeySwift:       "SWIFT",
		KeyIBAN:        "IBAN",
		KeySignature:   "Signature",
		KeyStamp:       "Stamp",
		KeyFilePrefix:  "Invoice",
	},
	"ka": {
		KeyInvoice:     "ინვოისი",
		KeyInvoiceNo:   "ინვოისის ნომერი",
		KeyDate:        "თარიღი",
		KeyCaseRef:     "ქეისი",
		KeyBillTo:      "მიმღები",
		KeyPatient:     "პაციენტი",
		KeyPatientID:   "პირადი ნომერი",
		KeyTaxID:       "საიდენტიფიკაციო კოდი",
		KeyDescription: "აღწერა",
		KeyQty:         "რაოდ.",
		KeyUnitPrice:   "ერთ. ფასი",
		KeyAmount:      "თანხა",
		KeySubtotal:    "ჯამი",
		KeyFranchise:   "ფრანშიზა",
		KeyTotal:       "სულ გადასახდელი",
		KeyBankDetails: "საბანკო რეკვიზიტები",
		KeyBank:        "ბანკი",
		// swift and iban intentionally absent — they render in English.
		KeySignature:  "ხელმოწერა",
		KeyStamp:      "ბეჭედი",
		KeyFilePrefix: "ინვოისი",
	},
}

// Label looks a key up for the given language with fallback to English.
func Label(lang, key string) string {
	if tbl, ok := labels[lang]; ok {
		if v, ok := tbl[key]; ok {
			return v
		}
	}
	if v, ok := labels["en"][key]; ok {
		return v
	}
	return key
}

// DefaultSubject generates the stock email subject for an invoice. An empty
// invoiceNumber selects the number-free variant used by the wizard's prefill
// preview, where no number has been reserved yet.
func DefaultSubject(lang, invoiceNumber, caseNumber string) string {
	if lang == "ka" {
		if invoiceNumber == "" {
			return fmt.Sprintf("ინვოისი — ქეისი %s", caseNumber)
		}
		return fmt.Sprintf("ინვოისი %s — ქეისი %s", invoiceNumber, caseNumber)
	}
	if invoiceNumber == "" {
		return fmt.Sprintf("Invoice — Case %s", caseNumber)
	}
	return fmt.Sprintf("Invoice %s — Case %s", invoiceNumber, caseNumber)
}

// DefaultBody generates the stock email body for an invoice.
func DefaultBody(lang, caseNumber, patientName, senderName string) string {
	if lang == "ka" {
		return fmt.Sprintf(
			"გამარჯობა,\n\nგიგზავნით ინვოისს ქეისზე %s (პაციენტი: %s).\nინვოისი თან ერთვის PDF ფორმატში.\n\nპატივისცემით,\n%s",
			caseNumber, patientName, senderName)
	}
	return fmt.Sprintf(
		"Hello,\n\nPlease find attached the invoice for case %s (patient: %s).\nThe invoice is attached as a PDF document.\n\nKind regards,\n%s",
		caseNumber, patientName, senderName)
}
