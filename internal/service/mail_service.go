package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Vebses/GeoAdmin-sub000/internal/apierror"
	"github.com/Vebses/GeoAdmin-sub000/internal/dto"
	"github.com/Vebses/GeoAdmin-sub000/internal/infra"
	"github.com/Vebses/GeoAdmin-sub000/internal/model"
	"github.com/Vebses/GeoAdmin-sub000/internal/repository"
)

// Attachment source categories, also used as webhook/API identifiers.
const (
	SourceInvoicePDF   = "invoice_pdf"
	SourcePatientDocs  = "patient_docs"
	SourceOriginalDocs = "original_docs"
	SourceMedicalDocs  = "medical_docs"
)

// CaseDocumentStore is the boundary to the external document storage that
// holds per-case uploaded files. List returns name/type descriptors for the
// send dialog; Fetch returns the bytes to attach.
type CaseDocumentStore interface {
	List(ctx context.Context, caseID uuid.UUID, category string) ([]dto.AttachmentDescriptor, error)
	Fetch(ctx context.Context, caseID uuid.UUID, category string) ([]infra.Attachment, error)
}

// noDocuments is the store used when no document backend is configured:
// invoices still send, just without case-document bundles.
type noDocuments struct{}

func (noDocuments) List(context.Context, uuid.UUID, string) ([]dto.AttachmentDescriptor, error) {
	return nil, nil
}
func (noDocuments) Fetch(context.Context, uuid.UUID, string) ([]infra.Attachment, error) {
	return nil, nil
}

func NewNoDocumentStore() CaseDocumentStore { return noDocuments{} }

type MailService interface {
	// RenderDocument produces the invoice PDF. lang overrides the invoice's
	// stored language when non-empty.
	RenderDocument(ctx context.Context, id uuid.UUID, lang string) (data []byte, filename string, err error)
	// ComposePreview returns the send dialog's pre-filled email: resolved
	// recipient, stored subject/body and the attachment list, without
	// rendering or sending anything heavy.
	ComposePreview(ctx context.Context, id uuid.UUID) (*dto.PreviewResponse, error)
	Send(ctx context.Context, id uuid.UUID, req dto.SendInvoiceRequest) (*dto.SendResultResponse, error)
	ListSends(ctx context.Context, invoiceID uuid.UUID) ([]dto.SendEventResponse, error)
	// ApplyDeliveryCallback applies one provider webhook event to the send
	// ledger. Safe to replay: a repeated event leaves the row unchanged.
	ApplyDeliveryCallback(ctx context.Context, req dto.DeliveryCallbackRequest) error
}

type mailService struct {
	invoices   repository.InvoiceRepository
	sends      repository.SendEventRepository
	transport  infra.EmailTransport
	breaker    *infra.CircuitBreaker
	assets     *infra.AssetFetcher
	docs       CaseDocumentStore
	from       string
	renderOpts infra.RenderOptions
}

func NewMailService(
	invoices repository.InvoiceRepository,
	sends repository.SendEventRepository,
	transport infra.EmailTransport,
	breaker *infra.CircuitBreaker,
	assets *infra.AssetFetcher,
	docs CaseDocumentStore,
	from string,
	renderOpts infra.RenderOptions,
) MailService {
	if docs == nil {
		docs = NewNoDocumentStore()
	}
	return &mailService{
		invoices:   invoices,
		sends:      sends,
		transport:  transport,
		breaker:    breaker,
		assets:     assets,
		docs:       docs,
		from:       from,
		renderOpts: renderOpts,
	}
}

func (s *mailService) RenderDocument(ctx context.Context, id uuid.UUID, lang string) ([]byte, string, error) {
	inv, err := s.findInvoice(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if lang == "" {
		lang = inv.Language
	}

	var sa infra.SenderAssets
	if inv.Sender != nil {
		sa = s.assets.FetchSenderAssets(ctx, inv.Sender.LogoURL, inv.Sender.SignatureURL, inv.Sender.StampURL)
	}
	data, err := infra.RenderInvoicePDF(inv, inv.Sender, inv.Recipient, inv.Case, lang, sa, s.renderOpts)
	if err != nil {
		return nil, "", err
	}
	return data, infra.DocumentFileName(lang, inv.InvoiceNumber), nil
}

func (s *mailService) ComposePreview(ctx context.Context, id uuid.UUID) (*dto.PreviewResponse, error) {
	inv, err := s.findInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &dto.PreviewResponse{
		To:      resolveRecipient(inv),
		CC:      []string{},
		Subject: inv.EmailSubject,
		Body:    inv.EmailBody,
		Attachments: []dto.AttachmentDescriptor{{
			Name:        infra.DocumentFileName(inv.Language, inv.InvoiceNumber),
			ContentType: "application/pdf",
			Source:      SourceInvoicePDF,
		}},
	}

	for _, cat := range enabledCategories(inv) {
		descs, err := s.docs.List(ctx, inv.CaseID, cat)
		if err != nil {
			log.Warn().Err(err).Str("category", cat).Msg("document store listing failed, omitting from preview")
			continue
		}
		resp.Attachments = append(resp.Attachments, descs...)
	}
	return resp, nil
}

func (s *mailService) Send(ctx context.Context, id uuid.UUID, req dto.SendInvoiceRequest) (*dto.SendResultResponse, error) {
	inv, err := s.findInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if !inv.Sendable() {
		return nil, apierror.StateConflict("invoice %s is cancelled and cannot be sent", inv.InvoiceNumber)
	}

	to := req.Email
	if to == "" {
		to = resolveRecipient(inv)
	}
	if to == "" {
		return nil, apierror.Validation("email", "no recipient email: the invoice and its recipient partner both have none")
	}

	subject := inv.EmailSubject
	if req.Subject != nil {
		subject = *req.Subject
	}
	body := inv.EmailBody
	if req.Body != nil {
		body = *req.Body
	}

	attachments, err := s.buildAttachments(ctx, inv)
	if err != nil {
		return nil, err
	}

	ev := &model.SendEvent{
		InvoiceID: inv.ID,
		Email:     to,
		CCEmails:  strings.Join(req.CCEmails, ","),
		Subject:   subject,
		Body:      body,
		IsResend:  inv.SendCount > 0,
	}

	msg := infra.OutboundEmail{
		From:        s.from,
		To:          to,
		CC:          req.CCEmails,
		Subject:     subject,
		Body:        body,
		Attachments: attachments,
	}

	var messageID string
	sendErr := s.breaker.Execute(func() error {
		var err error
		messageID, err = s.transport.Send(ctx, msg)
		return err
	})

	if sendErr != nil {
		errMsg := sendErr.Error()
		ev.Status = model.SendStatusFailed
		ev.ErrorMessage = &errMsg
		if appendErr := s.sends.Append(ctx, ev); appendErr != nil {
			log.Error().Err(appendErr).Str("invoice_id", inv.ID.String()).Msg("recording failed send event")
		}
		log.Warn().Err(sendErr).
			Str("invoice_number", inv.InvoiceNumber).
			Str("to", to).
			Msg("invoice send failed")
		return nil, apierror.Transport(sendErr)
	}

	ev.Status = model.SendStatusSent
	if messageID != "" {
		ev.ProviderMessageID = &messageID
	}
	if err := s.sends.AppendAndCount(ctx, ev, nowUTC()); err != nil {
		return nil, err
	}

	log.Info().
		Str("invoice_number", inv.InvoiceNumber).
		Str("to", to).
		Bool("is_resend", ev.IsResend).
		Msg("invoice sent")

	return &dto.SendResultResponse{
		SendEventID: ev.ID.String(),
		Status:      ev.Status,
		SendCount:   inv.SendCount + 1,
	}, nil
}

func (s *mailService) ListSends(ctx context.Context, invoiceID uuid.UUID) ([]dto.SendEventResponse, error) {
	if _, err := s.findInvoice(ctx, invoiceID); err != nil {
		return nil, err
	}
	evs, err := s.sends.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SendEventResponse, 0, len(evs))
	for i := range evs {
		resp = append(resp, *sendEventToResponse(&evs[i]))
	}
	return resp, nil
}

func (s *mailService) ApplyDeliveryCallback(ctx context.Context, req dto.DeliveryCallbackRequest) error {
	sendID, err := uuid.Parse(req.SendID)
	if err != nil {
		return apierror.Validation("send_id", "must be a valid uuid")
	}

	ev, err := s.sends.FindByID(ctx, sendID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.StateConflict("provider callback references unknown send event %s", req.SendID)
		}
		return err
	}

	occurred := nowUTC()
	if req.OccurredAt != nil {
		if t, err := time.Parse(time.RFC3339, *req.OccurredAt); err == nil {
			occurred = t.UTC()
		}
	}

	var upd repository.DeliveryUpdate
	switch req.Event {
	case "delivered":
		if ev.Status != model.SendStatusDelivered {
			status := model.SendStatusDelivered
			upd.Status = &status
		}
	case "bounced":
		if ev.Status != model.SendStatusBounced {
			status := model.SendStatusBounced
			upd.Status = &status
			upd.ErrorMessage = req.Reason
		}
	case "opened":
		// First open wins; replays keep the original timestamp.
		if ev.OpenedAt == nil {
			upd.OpenedAt = &occurred
		}
	case "clicked":
		if ev.ClickedAt == nil {
			upd.ClickedAt = &occurred
		}
	default:
		return apierror.Validation("event", "must be one of delivered, bounced, opened, clicked")
	}

	if upd == (repository.DeliveryUpdate{}) {
		return nil
	}
	if err := s.sends.UpdateDelivery(ctx, sendID, upd); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.StateConflict("provider callback references unknown send event %s", req.SendID)
		}
		return err
	}

	log.Info().
		Str("send_id", req.SendID).
		Str("event", req.Event).
		Msg("delivery callback applied")
	return nil
}

func (s *mailService) buildAttachments(ctx context.Context, inv *model.Invoice) ([]infra.Attachment, error) {
	var sa infra.SenderAssets
	if inv.Sender != nil {
		sa = s.assets.FetchSenderAssets(ctx, inv.Sender.LogoURL, inv.Sender.SignatureURL, inv.Sender.StampURL)
	}
	pdfData, err := infra.RenderInvoicePDF(inv, inv.Sender, inv.Recipient, inv.Case, inv.Language, sa, s.renderOpts)
	if err != nil {
		return nil, err
	}

	attachments := []infra.Attachment{{
		Name:        infra.DocumentFileName(inv.Language, inv.InvoiceNumber),
		ContentType: "application/pdf",
		Data:        pdfData,
	}}

	for _, cat := range enabledCategories(inv) {
		files, err := s.docs.Fetch(ctx, inv.CaseID, cat)
		if err != nil {
			// The invoice itself still goes out; missing bundles are logged,
			// not fatal.
			log.Warn().Err(err).Str("category", cat).Msg("document store fetch failed, sending without bundle")
			continue
		}
		attachments = append(attachments, files...)
	}
	return attachments, nil
}

func (s *mailService) findInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.MissingEntity("invoice", id.String())
		}
		return nil, err
	}
	return inv, nil
}

// resolveRecipient picks the destination address: the invoice-level override
// first, then the recipient partner's email.
func resolveRecipient(inv *model.Invoice) string {
	if inv.RecipientEmail != nil && *inv.RecipientEmail != "" {
		return *inv.RecipientEmail
	}
	if inv.Recipient != nil && inv.Recipient.Email != nil {
		return *inv.Recipient.Email
	}
	return ""
}

func enabledCategories(inv *model.Invoice) []string {
	var cats []string
	if inv.AttachPatientDocs {
		cats = append(cats, SourcePatientDocs)
	}
	if inv.AttachOriginalDocs {
		cats = append(cats, SourceOriginalDocs)
	}
	if inv.AttachMedicalDocs {
		cats = append(cats, SourceMedicalDocs)
	}
	return cats
}
