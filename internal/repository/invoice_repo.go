package repository

import (
	"context"
	"fmt"

	"github.com/Vebses/GeoAdmin-sub000/internal/dto"
	"github.com/Vebses/GeoAdmin-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepository interface {
	Create(ctx context.Context, inv *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	// Update persists scalar fields and replaces line items atomically.
	Update(ctx context.Context, inv *model.Invoice) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter dto.InvoiceFilter) ([]model.Invoice, int64, error)
	// NextInvoiceNumber reserves the next number from the DB sequence.
	NextInvoiceNumber(ctx context.Context) (string, error)
}

type invoiceRepo struct{ db *gorm.DB }

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) Create(ctx context.Context, inv *model.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *invoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, created_at ASC") }).
		Preload("Case").
		Preload("Sender").
		Preload("Recipient").
		First(&inv, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepo) Update(ctx context.Context, inv *model.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Replace the item set wholesale — items are owned by the invoice.
		if err := tx.Where("invoice_id = ?", inv.ID).Delete(&model.InvoiceItem{}).Error; err != nil {
			return err
		}
		for i := range inv.Items {
			inv.Items[i].ID = uuid.Nil
			inv.Items[i].InvoiceID = inv.ID
			inv.Items[i].Position = i
		}
		if len(inv.Items) > 0 {
			if err := tx.Create(&inv.Items).Error; err != nil {
				return err
			}
		}
		return tx.Omit("Items", "Case", "Sender", "Recipient", "Sends").Save(inv).Error
	})
}

func (r *invoiceRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Invoice{}, "id = ?", id).Error
}

func (r *invoiceRepo) List(ctx context.Context, filter dto.InvoiceFilter) ([]model.Invoice, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Invoice{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CaseID != "" {
		q = q.Where("case_id = ?", filter.CaseID)
	}
	if filter.RecipientID != "" {
		q = q.Where("recipient_id = ?", filter.RecipientID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoices []model.Invoice
	err := q.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, created_at ASC") }).
		Preload("Case").
		Preload("Sender").
		Preload("Recipient").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&invoices).Error
	return invoices, total, err
}

func (r *invoiceRepo) NextInvoiceNumber(ctx context.Context) (string, error) {
	var n int64
	err := r.db.WithContext(ctx).Raw("SELECT nextval('invoice_number_seq')").Scan(&n).Error
	if err != nil {
		return "", fmt.Errorf("invoice number sequence: %w", err)
	}
	return fmt.Sprintf("INV-%06d", n), nil
}
