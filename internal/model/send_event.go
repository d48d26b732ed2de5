package model

import (
	"time"

	"github.com/google/uuid"
)

// Send event statuses. pending is only ever transient; a persisted event is
// sent or failed, and provider callbacks may move sent → delivered/bounced.
const (
	SendStatusPending   = "pending"
	SendStatusSent      = "sent"
	SendStatusDelivered = "delivered"
	SendStatusBounced   = "bounced"
	SendStatusFailed    = "failed"
)

// SendEvent records one attempt to email an invoice. The ledger per invoice
// is append-only: after creation only Status, OpenedAt, ClickedAt and
// ErrorMessage may change, and only via provider callbacks.
type SendEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null"`

	Email string `gorm:"not null"`
	// CCEmails is a comma-joined list; empty string means no CC.
	CCEmails string `gorm:"type:text;not null;default:''"`
	Subject  string `gorm:"type:text;not null"`
	Body     string `gorm:"type:text;not null"`

	Status   string `gorm:"type:varchar(20);not null;default:'pending'"`
	IsResend bool   `gorm:"not null;default:false"`

	ProviderMessageID *string
	OpenedAt          *time.Time
	ClickedAt         *time.Time
	ErrorMessage      *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
