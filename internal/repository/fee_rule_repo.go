package repository

import (
	"context"
	"time"

	"tourportal/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeeRuleRepository interface {
	Create(ctx context.Context, rule *model.FeeRule) error
	Update(ctx context.Context, rule *model.FeeRule) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.FeeRule, error)
	ListAll(ctx context.Context) ([]model.FeeRule, error)
	ListActiveCommerce(ctx context.Context, at time.Time) ([]model.FeeRule, error)
}

type feeRuleRepository struct {
	db *gorm.DB
}

func NewFeeRuleRepository(db *gorm.DB) FeeRuleRepository {
	return &feeRuleRepository{db: db}
}

func (r *feeRuleRepository) Create(ctx context.Context, rule *model.FeeRule) error {
	return GetDB(ctx, r.db).Create(rule).Error
}

func (r *feeRuleRepository) Update(ctx context.Context, rule *model.FeeRule) error {
	return GetDB(ctx, r.db).Save(rule).Error
}

func (r *feeRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.FeeRule{}).Error
}

func (r *feeRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.FeeRule, error) {
	var rule model.FeeRule
	if err := GetDB(ctx, r.db).First(&rule, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

// ListAll returns every rule of every status, newest window first. Used by the
// admin catalog so draft and inactive rules stay reviewable before publication.
func (r *feeRuleRepository) ListAll(ctx context.Context) ([]model.FeeRule, error) {
	var rules []model.FeeRule
	if err := GetDB(ctx, r.db).Order("effective_from DESC").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// ListActiveCommerce returns active rules of the commerce subset whose
// effective window covers the given instant.
func (r *feeRuleRepository) ListActiveCommerce(ctx context.Context, at time.Time) ([]model.FeeRule, error) {
	var rules []model.FeeRule
	err := GetDB(ctx, r.db).
		Where("status = ?", model.FeeRuleStatusActive).
		Where("fee_type IN ?", []string{
			model.FeeTypeEnvironmental,
			model.FeeTypeBusinessCommission,
			model.FeeTypeEventCommission,
		}).
		Where("effective_from <= ? AND (effective_to IS NULL OR effective_to >= ?)", at, at).
		Order("effective_from DESC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}
