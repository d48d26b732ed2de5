package dto

import "github.com/shopspring/decimal"

// Read-only views of the invoicing core's collaborators. Full CRUD for these
// entities lives in the back-office application, not here.

type CaseResponse struct {
	ID                string  `json:"id"`
	Number            string  `json:"number"`
	PatientName       string  `json:"patient_name"`
	PatientPersonalID *string `json:"patient_personal_id"`
	Status            string  `json:"status"`
	CreatedAt         string  `json:"created_at"`
}

type CaseActionResponse struct {
	ID                 string          `json:"id"`
	CaseID             string          `json:"case_id"`
	ExecutorID         string          `json:"executor_id"`
	ExecutorName       string          `json:"executor_name,omitempty"`
	ServiceName        string          `json:"service_name"`
	ServiceDescription *string         `json:"service_description"`
	ServiceCost        decimal.Decimal `json:"service_cost"`
	ServiceCurrency    string          `json:"service_currency"`
	AssistanceCost     decimal.Decimal `json:"assistance_cost"`
	AssistanceCurrency string          `json:"assistance_currency"`
	CommissionCost     decimal.Decimal `json:"commission_cost"`
	CommissionCurrency string          `json:"commission_currency"`
}

type PartnerResponse struct {
	ID        string  `json:"id"`
	LegalName string  `json:"legal_name"`
	TaxID     *string `json:"tax_id"`
	Type      string  `json:"type"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	Country   *string `json:"country"`
	Active    bool    `json:"active"`
}

type CompanyResponse struct {
	ID        string  `json:"id"`
	LegalName string  `json:"legal_name"`
	TaxID     *string `json:"tax_id"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	BankName  *string `json:"bank_name"`
	BankCode  *string `json:"bank_code"`
	IBANGEL   *string `json:"iban_gel"`
	IBANUSD   *string `json:"iban_usd"`
	IBANEUR   *string `json:"iban_eur"`
	Active    bool    `json:"active"`
}
