package model

import (
	"time"

	"github.com/google/uuid"
)

// Company is one of the firm's own legal entities — the sender side of every
// invoice. The three IBAN fields are distinct per currency; the document
// renderer shows exactly the one matching the invoice's currency.
type Company struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LegalName string    `gorm:"not null"`
	TaxID     *string   `gorm:"type:varchar(30);column:tax_id"`
	Email     *string
	Phone     *string
	Address   *string

	BankName *string
	// BankCode is the SWIFT/BIC code shown in the bank-details block.
	BankCode *string
	IBANGEL  *string `gorm:"column:iban_gel"`
	IBANUSD  *string `gorm:"column:iban_usd"`
	IBANEUR  *string `gorm:"column:iban_eur"`

	LogoURL      *string
	SignatureURL *string
	StampURL     *string

	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IBANFor returns the account number for the given invoice currency,
// or an empty string when the company has none for it.
func (c *Company) IBANFor(currency string) string {
	var p *string
	switch currency {
	case CurrencyGEL:
		p = c.IBANGEL
	case CurrencyUSD:
		p = c.IBANUSD
	case CurrencyEUR:
		p = c.IBANEUR
	}
	if p == nil {
		return ""
	}
	return *p
}
