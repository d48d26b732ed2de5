package service

// The headless two-step invoice wizard.
// Step 1 (SelectParties) loads and validates the case, recipient and sender,
// and pre-populates line items from the case's actions executed by the chosen
// recipient. Step 2 (FillDetails) overrides items and email fields. Submit
// reserves an invoice number and produces the model ready for persistence.
// No UI state leaks in here, so the whole flow is testable without a browser.

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Vebses/GeoAdmin-sub000/internal/apierror"
	"github.com/Vebses/GeoAdmin-sub000/internal/billing"
	"github.com/Vebses/GeoAdmin-sub000/internal/dto"
	"github.com/Vebses/GeoAdmin-sub000/internal/i18n"
	"github.com/Vebses/GeoAdmin-sub000/internal/model"
	"github.com/Vebses/GeoAdmin-sub000/internal/repository"
)

type invoiceBuilder struct {
	cases     repository.CaseRepository
	partners  repository.PartnerRepository
	companies repository.CompanyRepository
	actions   repository.CaseActionRepository
	invoices  repository.InvoiceRepository

	kase      *model.Case
	sender    *model.Company
	recipient *model.Partner
	currency  string
	language  string

	inv model.Invoice
}

func newInvoiceBuilder(
	cases repository.CaseRepository,
	partners repository.PartnerRepository,
	companies repository.CompanyRepository,
	actions repository.CaseActionRepository,
	invoices repository.InvoiceRepository,
) *invoiceBuilder {
	return &invoiceBuilder{
		cases:     cases,
		partners:  partners,
		companies: companies,
		actions:   actions,
		invoices:  invoices,
	}
}

// SelectParties is wizard step 1. It resolves all three parties and pre-fills
// line items from the case actions whose executor is the chosen recipient and
// whose service cost is in the invoice's currency. The suggested items stay
// freely editable in step 2.
func (b *invoiceBuilder) SelectParties(ctx context.Context, caseID, recipientID, senderID uuid.UUID, currency, language string) error {
	if language == "" {
		language = model.LangEN
	}

	var err error
	if b.kase, err = b.cases.FindByID(ctx, caseID); err != nil {
		return wrapNotFound(err, "case", caseID)
	}
	if b.recipient, err = b.partners.FindByID(ctx, recipientID); err != nil {
		return wrapNotFound(err, "recipient partner", recipientID)
	}
	if b.sender, err = b.companies.FindByID(ctx, senderID); err != nil {
		return wrapNotFound(err, "sender company", senderID)
	}
	b.currency = currency
	b.language = language

	acts, err := b.actions.ListByCaseAndExecutor(ctx, caseID, recipientID)
	if err != nil {
		return err
	}

	b.inv = model.Invoice{
		Status:      model.InvoiceStatusDraft,
		Currency:    currency,
		Language:    language,
		CaseID:      caseID,
		SenderID:    senderID,
		RecipientID: recipientID,
	}
	if b.recipient.Email != nil && *b.recipient.Email != "" {
		email := *b.recipient.Email
		b.inv.RecipientEmail = &email
	}
	for _, a := range acts {
		if a.ServiceCurrency != currency {
			continue
		}
		b.inv.Items = append(b.inv.Items, model.InvoiceItem{
			Description: actionDescription(a),
			Quantity:    1,
			UnitPrice:   a.ServiceCost,
		})
	}
	return nil
}

// FillDetails is wizard step 2. A nil items slice keeps the pre-populated
// suggestions; a non-nil slice replaces them wholesale.
func (b *invoiceBuilder) FillDetails(req dto.CreateInvoiceRequest) {
	if req.Items != nil {
		b.inv.Items = itemsFromRequests(req.Items)
	}
	b.inv.FranchiseAmount = req.FranchiseAmount

	if req.RecipientEmail != nil {
		b.inv.RecipientEmail = req.RecipientEmail
	}
	b.inv.AttachPatientDocs = req.AttachPatientDocs
	b.inv.AttachOriginalDocs = req.AttachOriginalDocs
	b.inv.AttachMedicalDocs = req.AttachMedicalDocs

	if req.EmailSubject != nil {
		b.inv.EmailSubject = *req.EmailSubject
	}
	if req.EmailBody != nil {
		b.inv.EmailBody = *req.EmailBody
	}
}

// Submit reserves the invoice number, fills generated defaults for any email
// field the caller left empty, recomputes totals and persists the draft.
func (b *invoiceBuilder) Submit(ctx context.Context) (*model.Invoice, error) {
	number, err := b.invoices.NextInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}
	b.inv.InvoiceNumber = number

	if b.inv.EmailSubject == "" {
		b.inv.EmailSubject = i18n.DefaultSubject(b.language, number, b.kase.Number)
	}
	if b.inv.EmailBody == "" {
		b.inv.EmailBody = i18n.DefaultBody(b.language, b.kase.Number, b.kase.PatientName, b.sender.LegalName)
	}

	for i := range b.inv.Items {
		b.inv.Items[i].Position = i
	}
	billing.Recalculate(&b.inv)

	if err := b.invoices.Create(ctx, &b.inv); err != nil {
		return nil, err
	}
	return &b.inv, nil
}

// prefill exposes step 1's suggestions without persisting anything.
func (b *invoiceBuilder) prefill() *dto.PrefillResponse {
	resp := &dto.PrefillResponse{
		RecipientEmail: b.inv.RecipientEmail,
		EmailSubject:   i18n.DefaultSubject(b.language, "", b.kase.Number),
		EmailBody:      i18n.DefaultBody(b.language, b.kase.Number, b.kase.PatientName, b.sender.LegalName),
		Items:          []dto.InvoiceItemRequest{},
	}
	for _, it := range b.inv.Items {
		resp.Items = append(resp.Items, dto.InvoiceItemRequest{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return resp
}

// actionDescription composes a line-item description from a case action's
// service name and optional description.
func actionDescription(a model.CaseAction) string {
	if a.ServiceDescription != nil && *a.ServiceDescription != "" {
		return strings.TrimSpace(a.ServiceName + ": " + *a.ServiceDescription)
	}
	return a.ServiceName
}

func wrapNotFound(err error, entity string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.MissingEntity(entity, id.String())
	}
	return err
}
