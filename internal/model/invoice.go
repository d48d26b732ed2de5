package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice statuses. Lifecycle: draft → unpaid → paid, cancelled reachable
// from draft or unpaid only.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusUnpaid    = "unpaid"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// Supported invoice currencies. All line items and totals of one invoice are
// expressed in a single currency, fixed at creation.
const (
	CurrencyGEL = "GEL"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
)

// Supported document/email languages.
const (
	LangEN = "en"
	LangKA = "ka"
)

// Invoice is a billing document issued against one Case, from one sender
// Company to one recipient Partner. Subtotal and Total are derived — they
// always equal billing.ComputeTotals over the current items and franchise.
// Soft-deleted (never hard-removed) so the send ledger stays intact.
type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceNumber string    `gorm:"uniqueIndex;not null"`
	Status        string    `gorm:"type:varchar(20);not null;default:'draft'"`
	Currency      string    `gorm:"type:varchar(3);not null"`
	Language      string    `gorm:"type:varchar(2);not null;default:'en'"`

	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	FranchiseAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	RecipientEmail *string
	EmailSubject   string `gorm:"type:text;not null;default:''"`
	EmailBody      string `gorm:"type:text;not null;default:''"`

	AttachPatientDocs  bool `gorm:"not null;default:false"`
	AttachOriginalDocs bool `gorm:"not null;default:false"`
	AttachMedicalDocs  bool `gorm:"not null;default:false"`

	PaidAt           *time.Time
	PaymentReference *string

	SendCount  int `gorm:"not null;default:0"`
	LastSentAt *time.Time

	CaseID      uuid.UUID `gorm:"type:uuid;index;not null"`
	SenderID    uuid.UUID `gorm:"type:uuid;index;not null"`
	RecipientID uuid.UUID `gorm:"type:uuid;index;not null"`

	Case      *Case    `gorm:"foreignKey:CaseID"`
	Sender    *Company `gorm:"foreignKey:SenderID"`
	Recipient *Partner `gorm:"foreignKey:RecipientID"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Sends []SendEvent   `gorm:"foreignKey:InvoiceID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Editable reports whether line items / totals may still be mutated.
// Paid and cancelled invoices are frozen.
func (i *Invoice) Editable() bool {
	return i.Status == InvoiceStatusDraft || i.Status == InvoiceStatusUnpaid
}

// Sendable reports whether the invoice may still be emailed.
func (i *Invoice) Sendable() bool {
	return i.Status != InvoiceStatusCancelled
}

// InvoiceItem is one billable row, owned exclusively by its invoice.
// Total is derived: quantity × unit price, never independently editable.
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Description string          `gorm:"type:text;not null"`
	Quantity    int             `gorm:"not null;default:1"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Position    int             `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
