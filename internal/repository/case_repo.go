package repository

import (
	"context"

	"github.com/Vebses/GeoAdmin-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CaseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Case, error)
	List(ctx context.Context, page, limit int) ([]model.Case, int64, error)
}

type caseRepo struct{ db *gorm.DB }

func NewCaseRepository(db *gorm.DB) CaseRepository {
	return &caseRepo{db: db}
}

func (r *caseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Case, error) {
	var c model.Case
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caseRepo) List(ctx context.Context, page, limit int) ([]model.Case, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Case{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var cases []model.Case
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&cases).Error
	return cases, total, err
}

// ── Case actions ──────────────────────────────────────────────────────────────

type CaseActionRepository interface {
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]model.CaseAction, error)
	// ListByCaseAndExecutor is the wizard's pre-population query.
	ListByCaseAndExecutor(ctx context.Context, caseID, executorID uuid.UUID) ([]model.CaseAction, error)
}

type caseActionRepo struct{ db *gorm.DB }

func NewCaseActionRepository(db *gorm.DB) CaseActionRepository {
	return &caseActionRepo{db: db}
}

func (r *caseActionRepo) ListByCase(ctx context.Context, caseID uuid.UUID) ([]model.CaseAction, error) {
	var actions []model.CaseAction
	err := r.db.WithContext(ctx).
		Preload("Executor").
		Where("case_id = ?", caseID).
		Order("created_at ASC").
		Find(&actions).Error
	return actions, err
}

func (r *caseActionRepo) ListByCaseAndExecutor(ctx context.Context, caseID, executorID uuid.UUID) ([]model.CaseAction, error) {
	var actions []model.CaseAction
	err := r.db.WithContext(ctx).
		Where("case_id = ? AND executor_id = ?", caseID, executorID).
		Order("created_at ASC").
		Find(&actions).Error
	return actions, err
}
