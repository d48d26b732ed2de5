package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Vebses/GeoAdmin-sub000/internal/apierror"
	"github.com/Vebses/GeoAdmin-sub000/internal/billing"
	"github.com/Vebses/GeoAdmin-sub000/internal/dto"
	"github.com/Vebses/GeoAdmin-sub000/internal/i18n"
	"github.com/Vebses/GeoAdmin-sub000/internal/model"
	"github.com/Vebses/GeoAdmin-sub000/internal/repository"
)

type InvoiceService interface {
	// Prefill runs wizard step 1 without persisting: suggested items from
	// the case's actions, default recipient email, subject and body.
	Prefill(ctx context.Context, filter dto.PrefillFilter) (*dto.PrefillResponse, error)
	Create(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error)
	MarkPaid(ctx context.Context, id uuid.UUID, req dto.MarkPaidRequest) (*dto.InvoiceResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter dto.InvoiceFilter) (*dto.InvoiceListResponse, error)
}

type invoiceService struct {
	invoices  repository.InvoiceRepository
	cases     repository.CaseRepository
	partners  repository.PartnerRepository
	companies repository.CompanyRepository
	actions   repository.CaseActionRepository
}

func NewInvoiceService(
	invoices repository.InvoiceRepository,
	cases repository.CaseRepository,
	partners repository.PartnerRepository,
	companies repository.CompanyRepository,
	actions repository.CaseActionRepository,
) InvoiceService {
	return &invoiceService{
		invoices:  invoices,
		cases:     cases,
		partners:  partners,
		companies: companies,
		actions:   actions,
	}
}

func (s *invoiceService) builder() *invoiceBuilder {
	return newInvoiceBuilder(s.cases, s.partners, s.companies, s.actions, s.invoices)
}

func (s *invoiceService) Prefill(ctx context.Context, filter dto.PrefillFilter) (*dto.PrefillResponse, error) {
	caseID, recipientID, senderID, err := parseParties(filter.CaseID, filter.RecipientID, filter.SenderID)
	if err != nil {
		return nil, err
	}
	b := s.builder()
	if err := b.SelectParties(ctx, caseID, recipientID, senderID, filter.Currency, filter.Language); err != nil {
		return nil, err
	}
	return b.prefill(), nil
}

func (s *invoiceService) Create(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	caseID, recipientID, senderID, err := parseParties(req.CaseID, req.RecipientID, req.SenderID)
	if err != nil {
		return nil, err
	}

	b := s.builder()
	if err := b.SelectParties(ctx, caseID, recipientID, senderID, req.Currency, req.Language); err != nil {
		return nil, err
	}
	b.FillDetails(req)

	inv, err := b.Submit(ctx)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("invoice_id", inv.ID.String()).
		Str("invoice_number", inv.InvoiceNumber).
		Str("currency", inv.Currency).
		Msg("invoice created")

	return s.respond(ctx, inv.ID)
}

func (s *invoiceService) Get(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	return s.respond(ctx, id)
}

func (s *invoiceService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := s.findInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if !inv.Editable() {
		return nil, apierror.StateConflict("invoice %s is %s and can no longer be edited", inv.InvoiceNumber, inv.Status)
	}

	// Language first: the stored subject/body are regenerated in the new
	// language only while they still equal the old language's generated
	// defaults. A manually edited field is never overwritten.
	if req.Language != nil && *req.Language != inv.Language {
		s.switchLanguage(inv, *req.Language)
	}

	if req.Items != nil {
		items := itemsFromRequests(req.Items)
		inv.Items = inv.Items[:0]
		for i, it := range items {
			it.Position = i
			it.InvoiceID = inv.ID
			inv.Items = append(inv.Items, it)
		}
	}
	if req.FranchiseAmount != nil {
		inv.FranchiseAmount = *req.FranchiseAmount
	}
	if req.RecipientEmail != nil {
		inv.RecipientEmail = req.RecipientEmail
	}
	if req.EmailSubject != nil {
		inv.EmailSubject = *req.EmailSubject
	}
	if req.EmailBody != nil {
		inv.EmailBody = *req.EmailBody
	}
	if req.AttachPatientDocs != nil {
		inv.AttachPatientDocs = *req.AttachPatientDocs
	}
	if req.AttachOriginalDocs != nil {
		inv.AttachOriginalDocs = *req.AttachOriginalDocs
	}
	if req.AttachMedicalDocs != nil {
		inv.AttachMedicalDocs = *req.AttachMedicalDocs
	}

	billing.Recalculate(inv)

	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	return s.respond(ctx, id)
}

// switchLanguage updates Language and regenerates any email field that still
// carries the previous language's generated default.
func (s *invoiceService) switchLanguage(inv *model.Invoice, lang string) {
	caseNumber, patientName, senderName := "", "", ""
	if inv.Case != nil {
		caseNumber = inv.Case.Number
		patientName = inv.Case.PatientName
	}
	if inv.Sender != nil {
		senderName = inv.Sender.LegalName
	}

	oldSubject := i18n.DefaultSubject(inv.Language, inv.InvoiceNumber, caseNumber)
	oldBody := i18n.DefaultBody(inv.Language, caseNumber, patientName, senderName)

	if inv.EmailSubject == oldSubject {
		inv.EmailSubject = i18n.DefaultSubject(lang, inv.InvoiceNumber, caseNumber)
	}
	if inv.EmailBody == oldBody {
		inv.EmailBody = i18n.DefaultBody(lang, caseNumber, patientName, senderName)
	}
	inv.Language = lang
}

func (s *invoiceService) MarkPaid(ctx context.Context, id uuid.UUID, req dto.MarkPaidRequest) (*dto.InvoiceResponse, error) {
	inv, err := s.findInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != model.InvoiceStatusUnpaid {
		return nil, apierror.StateConflict("invoice %s is %s, only unpaid invoices can be marked paid", inv.InvoiceNumber, inv.Status)
	}

	now := nowUTC()
	inv.Status = model.InvoiceStatusPaid
	inv.PaidAt = &now
	inv.PaymentReference = req.PaymentReference

	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}

	log.Info().Str("invoice_number", inv.InvoiceNumber).Msg("invoice marked paid")
	return s.respond(ctx, id)
}

func (s *invoiceService) Cancel(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	inv, err := s.findInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != model.InvoiceStatusDraft && inv.Status != model.InvoiceStatusUnpaid {
		return nil, apierror.StateConflict("invoice %s is %s and cannot be cancelled", inv.InvoiceNumber, inv.Status)
	}

	inv.Status = model.InvoiceStatusCancelled
	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}

	log.Info().Str("invoice_number", inv.InvoiceNumber).Msg("invoice cancelled")
	return s.respond(ctx, id)
}

// Delete soft-deletes: the row and its send ledger survive for audit.
func (s *invoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findInvoice(ctx, id); err != nil {
		return err
	}
	return s.invoices.SoftDelete(ctx, id)
}

func (s *invoiceService) List(ctx context.Context, filter dto.InvoiceFilter) (*dto.InvoiceListResponse, error) {
	invs, total, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.InvoiceListResponse{
		Data:  make([]dto.InvoiceResponse, 0, len(invs)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range invs {
		resp.Data = append(resp.Data, *invoiceToResponse(&invs[i]))
	}
	return resp, nil
}

func (s *invoiceService) findInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.MissingEntity("invoice", id.String())
		}
		return nil, err
	}
	return inv, nil
}

func (s *invoiceService) respond(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	inv, err := s.findInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	return invoiceToResponse(inv), nil
}

func itemsFromRequests(reqs []dto.InvoiceItemRequest) []model.InvoiceItem {
	if reqs == nil {
		return nil
	}
	items := make([]model.InvoiceItem, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, model.InvoiceItem{
			Description: r.Description,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
		})
	}
	return items
}

func parseParties(caseID, recipientID, senderID string) (uuid.UUID, uuid.UUID, uuid.UUID, error) {
	cid, err := uuid.Parse(caseID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, apierror.Validation("case_id", "must be a valid uuid")
	}
	rid, err := uuid.Parse(recipientID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, apierror.Validation("recipient_id", "must be a valid uuid")
	}
	sid, err := uuid.Parse(senderID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, apierror.Validation("sender_id", "must be a valid uuid")
	}
	return cid, rid, sid, nil
}
