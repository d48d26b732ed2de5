package repository

import (
	"context"
	"time"

	"github.com/Vebses/GeoAdmin-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeliveryUpdate carries the only fields a provider callback may change on an
// existing send event.
type DeliveryUpdate struct {
	Status       *string
	OpenedAt     *time.Time
	ClickedAt    *time.Time
	ErrorMessage *string
}

type SendEventRepository interface {
	// Append persists one send event without touching invoice counters.
	// Used for failed sends.
	Append(ctx context.Context, ev *model.SendEvent) error
	// AppendAndCount persists a successful send event and, in the same
	// transaction, bumps the invoice's send_count atomically
	// (send_count = send_count + 1), sets last_sent_at, and promotes a draft
	// invoice to unpaid. Concurrent callers each get their own increment.
	AppendAndCount(ctx context.Context, ev *model.SendEvent, sentAt time.Time) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SendEvent, error)
	// ListByInvoice returns the full ledger oldest-first.
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.SendEvent, error)
	// UpdateDelivery applies a provider callback to delivery fields only.
	// Returns gorm.ErrRecordNotFound for an unknown send id.
	UpdateDelivery(ctx context.Context, id uuid.UUID, upd DeliveryUpdate) error
}

type sendEventRepo struct{ db *gorm.DB }

func NewSendEventRepository(db *gorm.DB) SendEventRepository {
	return &sendEventRepo{db: db}
}

func (r *sendEventRepo) Append(ctx context.Context, ev *model.SendEvent) error {
	return r.db.WithContext(ctx).Create(ev).Error
}

func (r *sendEventRepo) AppendAndCount(ctx context.Context, ev *model.SendEvent, sentAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ev).Error; err != nil {
			return err
		}
		res := tx.Model(&model.Invoice{}).
			Where("id = ?", ev.InvoiceID).
			Updates(map[string]interface{}{
				"send_count":   gorm.Expr("send_count + 1"),
				"last_sent_at": sentAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		// First successful send promotes a draft invoice to unpaid.
		return tx.Model(&model.Invoice{}).
			Where("id = ? AND status = ?", ev.InvoiceID, model.InvoiceStatusDraft).
			Update("status", model.InvoiceStatusUnpaid).Error
	})
}

func (r *sendEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SendEvent, error) {
	var ev model.SendEvent
	err := r.db.WithContext(ctx).First(&ev, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *sendEventRepo) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.SendEvent, error) {
	var events []model.SendEvent
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}

func (r *sendEventRepo) UpdateDelivery(ctx context.Context, id uuid.UUID, upd DeliveryUpdate) error {
	fields := map[string]interface{}{}
	if upd.Status != nil {
		fields["status"] = *upd.Status
	}
	if upd.OpenedAt != nil {
		fields["opened_at"] = *upd.OpenedAt
	}
	if upd.ClickedAt != nil {
		fields["clicked_at"] = *upd.ClickedAt
	}
	if upd.ErrorMessage != nil {
		fields["error_message"] = *upd.ErrorMessage
	}
	if len(fields) == 0 {
		// Idempotent no-op, but the send must still exist.
		var ev model.SendEvent
		return r.db.WithContext(ctx).Select("id").First(&ev, "id = ?", id).Error
	}
	res := r.db.WithContext(ctx).Model(&model.SendEvent{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
