package model

import (
	"time"

	"github.com/google/uuid"
)

// Case is a patient-service record — the billing context for invoices.
// The invoicing core reads it but never mutates it.
type Case struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Number            string    `gorm:"uniqueIndex;not null"`
	PatientName       string    `gorm:"not null"`
	PatientPersonalID *string
	Status            string `gorm:"type:varchar(20);not null;default:'open'"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
