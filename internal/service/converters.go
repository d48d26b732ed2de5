package service

import (
	"strings"
	"time"

	"github.com/Vebses/GeoAdmin-sub000/internal/billing"
	"github.com/Vebses/GeoAdmin-sub000/internal/dto"
	"github.com/Vebses/GeoAdmin-sub000/internal/model"
)

func nowUTC() time.Time { return time.Now().UTC() }

func timeStr(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func timePtrStr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := timeStr(*t)
	return &s
}

func invoiceToResponse(inv *model.Invoice) *dto.InvoiceResponse {
	total := inv.Total
	resp := &dto.InvoiceResponse{
		ID:            inv.ID.String(),
		InvoiceNumber: inv.InvoiceNumber,
		Status:        inv.Status,
		Currency:      inv.Currency,
		Language:      inv.Language,

		Subtotal:        inv.Subtotal,
		FranchiseAmount: inv.FranchiseAmount,
		Total:           inv.Total,
		TotalDisplay:    billing.FormatAmount(&total, inv.Currency),

		RecipientEmail: inv.RecipientEmail,
		EmailSubject:   inv.EmailSubject,
		EmailBody:      inv.EmailBody,

		AttachPatientDocs:  inv.AttachPatientDocs,
		AttachOriginalDocs: inv.AttachOriginalDocs,
		AttachMedicalDocs:  inv.AttachMedicalDocs,

		PaidAt:           timePtrStr(inv.PaidAt),
		PaymentReference: inv.PaymentReference,
		SendCount:        inv.SendCount,
		LastSentAt:       timePtrStr(inv.LastSentAt),

		CaseID:      inv.CaseID.String(),
		SenderID:    inv.SenderID.String(),
		RecipientID: inv.RecipientID.String(),

		Items:     make([]dto.InvoiceItemResponse, 0, len(inv.Items)),
		CreatedAt: timeStr(inv.CreatedAt),
	}
	if inv.Case != nil {
		resp.CaseNumber = inv.Case.Number
	}
	if inv.Sender != nil {
		resp.SenderName = inv.Sender.LegalName
	}
	if inv.Recipient != nil {
		resp.RecipientName = inv.Recipient.LegalName
	}
	for _, it := range inv.Items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:          it.ID.String(),
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		})
	}
	return resp
}

func sendEventToResponse(ev *model.SendEvent) *dto.SendEventResponse {
	return &dto.SendEventResponse{
		ID:           ev.ID.String(),
		InvoiceID:    ev.InvoiceID.String(),
		Email:        ev.Email,
		CCEmails:     splitCC(ev.CCEmails),
		Subject:      ev.Subject,
		Status:       ev.Status,
		IsResend:     ev.IsResend,
		OpenedAt:     timePtrStr(ev.OpenedAt),
		ClickedAt:    timePtrStr(ev.ClickedAt),
		ErrorMessage: ev.ErrorMessage,
		CreatedAt:    timeStr(ev.CreatedAt),
	}
}

func splitCC(cc string) []string {
	if cc == "" {
		return []string{}
	}
	return strings.Split(cc, ",")
}
