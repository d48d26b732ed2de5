package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CaseAction is one billable service performed on a case by an executor
// partner. It carries three independently-currencied cost pairs; the invoice
// wizard reads the service pair when pre-populating line items.
// Read-only from the invoicing core's perspective.
type CaseAction struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaseID     uuid.UUID `gorm:"type:uuid;index;not null"`
	ExecutorID uuid.UUID `gorm:"type:uuid;index;not null"`

	ServiceName        string `gorm:"not null"`
	ServiceDescription *string

	ServiceCost        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ServiceCurrency    string          `gorm:"type:varchar(3);not null;default:'GEL'"`
	AssistanceCost     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AssistanceCurrency string          `gorm:"type:varchar(3);not null;default:'GEL'"`
	CommissionCost     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CommissionCurrency string          `gorm:"type:varchar(3);not null;default:'GEL'"`

	Executor *Partner `gorm:"foreignKey:ExecutorID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
