package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type InvoiceItemRequest struct {
	Description string          `json:"description" validate:"required"`
	Quantity    int             `json:"quantity"    validate:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price"  validate:"min=0"`
}

// PrefillFilter backs wizard step 1 → 2: given the chosen case, recipient and
// currency, the server suggests line items from matching case actions.
type PrefillFilter struct {
	CaseID      string `form:"case_id"      validate:"required,uuid"`
	RecipientID string `form:"recipient_id" validate:"required,uuid"`
	SenderID    string `form:"sender_id"    validate:"required,uuid"`
	Currency    string `form:"currency"     validate:"required,oneof=GEL USD EUR"`
	Language    string `form:"language"     validate:"omitempty,oneof=en ka"`
}

type CreateInvoiceRequest struct {
	CaseID      string `json:"case_id"      validate:"required,uuid"`
	RecipientID string `json:"recipient_id" validate:"required,uuid"`
	SenderID    string `json:"sender_id"    validate:"required,uuid"`
	Currency    string `json:"currency"     validate:"required,oneof=GEL USD EUR"`
	Language    string `json:"language"     validate:"omitempty,oneof=en ka"`

	// Items may be omitted — the service then pre-populates them from the
	// case's actions executed by the chosen recipient, same as the wizard.
	Items           []InvoiceItemRequest `json:"items" validate:"omitempty,dive"`
	FranchiseAmount decimal.Decimal      `json:"franchise_amount" validate:"min=0"`

	RecipientEmail *string `json:"recipient_email" validate:"omitempty,email"`
	EmailSubject   *string `json:"email_subject"`
	EmailBody      *string `json:"email_body"`

	AttachPatientDocs  bool `json:"attach_patient_docs"`
	AttachOriginalDocs bool `json:"attach_original_docs"`
	AttachMedicalDocs  bool `json:"attach_medical_docs"`
}

type UpdateInvoiceRequest struct {
	Language        *string              `json:"language" validate:"omitempty,oneof=en ka"`
	Items           []InvoiceItemRequest `json:"items"    validate:"omitempty,dive"`
	FranchiseAmount *decimal.Decimal     `json:"franchise_amount" validate:"omitempty,min=0"`

	RecipientEmail *string `json:"recipient_email" validate:"omitempty,email"`
	EmailSubject   *string `json:"email_subject"`
	EmailBody      *string `json:"email_body"`

	AttachPatientDocs  *bool `json:"attach_patient_docs"`
	AttachOriginalDocs *bool `json:"attach_original_docs"`
	AttachMedicalDocs  *bool `json:"attach_medical_docs"`
}

type MarkPaidRequest struct {
	PaymentReference *string `json:"payment_reference"`
}

type InvoiceFilter struct {
	Status      string `form:"status"       validate:"omitempty,oneof=draft unpaid paid cancelled"`
	CaseID      string `form:"case_id"      validate:"omitempty,uuid"`
	RecipientID string `form:"recipient_id" validate:"omitempty,uuid"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

type InvoiceResponse struct {
	ID            string `json:"id"`
	InvoiceNumber string `json:"invoice_number"`
	Status        string `json:"status"`
	Currency      string `json:"currency"`
	Language      string `json:"language"`

	Subtotal        decimal.Decimal `json:"subtotal"`
	FranchiseAmount decimal.Decimal `json:"franchise_amount"`
	Total           decimal.Decimal `json:"total"`
	// TotalDisplay is the on-screen formatted total (symbol placement per currency).
	TotalDisplay string `json:"total_display"`

	RecipientEmail *string `json:"recipient_email"`
	EmailSubject   string  `json:"email_subject"`
	EmailBody      string  `json:"email_body"`

	AttachPatientDocs  bool `json:"attach_patient_docs"`
	AttachOriginalDocs bool `json:"attach_original_docs"`
	AttachMedicalDocs  bool `json:"attach_medical_docs"`

	PaidAt           *string `json:"paid_at"`
	PaymentReference *string `json:"payment_reference"`
	SendCount        int     `json:"send_count"`
	LastSentAt       *string `json:"last_sent_at"`

	CaseID        string `json:"case_id"`
	CaseNumber    string `json:"case_number,omitempty"`
	SenderID      string `json:"sender_id"`
	SenderName    string `json:"sender_name,omitempty"`
	RecipientID   string `json:"recipient_id"`
	RecipientName string `json:"recipient_name,omitempty"`

	Items     []InvoiceItemResponse `json:"items"`
	CreatedAt string                `json:"created_at"`
}

type InvoiceListResponse struct {
	Data  []InvoiceResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type PrefillResponse struct {
	Items          []InvoiceItemRequest `json:"items"`
	RecipientEmail *string              `json:"recipient_email"`
	EmailSubject   string               `json:"email_subject"`
	EmailBody      string               `json:"email_body"`
}
