package repository

import (
	"context"

	"github.com/Vebses/GeoAdmin-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PartnerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Partner, error)
	List(ctx context.Context, partnerType string, page, limit int) ([]model.Partner, int64, error)
}

type partnerRepo struct{ db *gorm.DB }

func NewPartnerRepository(db *gorm.DB) PartnerRepository {
	return &partnerRepo{db: db}
}

func (r *partnerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Partner, error) {
	var p model.Partner
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *partnerRepo) List(ctx context.Context, partnerType string, page, limit int) ([]model.Partner, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Partner{})
	if partnerType != "" {
		q = q.Where("type = ?", partnerType)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var partners []model.Partner
	err := q.Order("legal_name ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&partners).Error
	return partners, total, err
}
