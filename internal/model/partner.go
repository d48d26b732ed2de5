package model

import (
	"time"

	"github.com/google/uuid"
)

// Partner is an external organization: a case's client, insurer or service
// executor, or an invoice's recipient.
// Type: "client" | "insurer" | "executor"
type Partner struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LegalName string    `gorm:"index;not null"`
	TaxID     *string   `gorm:"type:varchar(30);column:tax_id"`
	Type      string    `gorm:"type:varchar(20);not null"`
	Email     *string
	Phone     *string
	Address   *string
	Country   *string
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
