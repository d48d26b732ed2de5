package dto

// ─── Send / preview ──────────────────────────────────────────────────────────

type SendInvoiceRequest struct {
	Email    string   `json:"email"     validate:"omitempty,email"`
	CCEmails []string `json:"cc_emails" validate:"omitempty,dive,email"`
	Subject  *string  `json:"subject"`
	Body     *string  `json:"body"`
}

// AttachmentDescriptor lists one attachment for the send dialog — name and
// type only, no bytes.
type AttachmentDescriptor struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	// Source: "invoice_pdf" | "patient_docs" | "original_docs" | "medical_docs"
	Source string `json:"source"`
}

type PreviewResponse struct {
	To          string                 `json:"to"`
	CC          []string               `json:"cc"`
	Subject     string                 `json:"subject"`
	Body        string                 `json:"body"`
	Attachments []AttachmentDescriptor `json:"attachments"`
}

type SendResultResponse struct {
	SendEventID string `json:"send_event_id"`
	Status      string `json:"status"`
	SendCount   int    `json:"send_count"`
}

// ─── Ledger ──────────────────────────────────────────────────────────────────

type SendEventResponse struct {
	ID           string   `json:"id"`
	InvoiceID    string   `json:"invoice_id"`
	Email        string   `json:"email"`
	CCEmails     []string `json:"cc_emails"`
	Subject      string   `json:"subject"`
	Status       string   `json:"status"`
	IsResend     bool     `json:"is_resend"`
	OpenedAt     *string  `json:"opened_at"`
	ClickedAt    *string  `json:"clicked_at"`
	ErrorMessage *string  `json:"error_message"`
	CreatedAt    string   `json:"created_at"`
}

// ─── Provider webhook ────────────────────────────────────────────────────────

// DeliveryCallbackRequest is the transactional-email provider's webhook body.
type DeliveryCallbackRequest struct {
	SendID string `json:"send_id" validate:"required,uuid"`
	// Event: "delivered" | "bounced" | "opened" | "clicked"
	Event      string  `json:"event" validate:"required,oneof=delivered bounced opened clicked"`
	OccurredAt *string `json:"occurred_at"`
	Reason     *string `json:"reason"`
}
