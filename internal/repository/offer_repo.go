package repository

import (
	"context"
	"strings"

	"tourportal/internal/model"
	"tourportal/internal/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OfferRepository gives access to business offers. Every listing method takes
// the caller's BusinessScope; there is deliberately no unscoped variant.
type OfferRepository interface {
	Create(ctx context.Context, offer *model.Offer) error
	Update(ctx context.Context, offer *model.Offer) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Offer, error)
	ListScoped(ctx context.Context, sc scope.BusinessScope, page, limit int, search string) ([]model.Offer, int64, error)
	ListPublished(ctx context.Context, page, limit int, search string) ([]model.Offer, int64, error)
}

type offerRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) Create(ctx context.Context, offer *model.Offer) error {
	return GetDB(ctx, r.db).Create(offer).Error
}

func (r *offerRepository) Update(ctx context.Context, offer *model.Offer) error {
	return GetDB(ctx, r.db).Save(offer).Error
}

func (r *offerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Offer{}).Error
}

func (r *offerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	var offer model.Offer
	if err := GetDB(ctx, r.db).Preload("Business").First(&offer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *offerRepository) ListScoped(ctx context.Context, sc scope.BusinessScope, page, limit int, search string) ([]model.Offer, int64, error) {
	var offers []model.Offer
	var total int64

	db := sc.Apply(GetDB(ctx, r.db).Model(&model.Offer{}), "business_id")
	if search != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Business").Order("created_at desc").Offset(offset).Limit(limit).Find(&offers).Error; err != nil {
		return nil, 0, err
	}

	return offers, total, nil
}

// ListPublished is the public storefront view: active offers of published
// businesses only, no ownership scope involved.
func (r *offerRepository) ListPublished(ctx context.Context, page, limit int, search string) ([]model.Offer, int64, error) {
	var offers []model.Offer
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Offer{}).
		Joins("JOIN businesses ON businesses.id = offers.business_id").
		Where("offers.status = ? AND businesses.status = ?", model.OfferStatusActive, model.StatusPublished)
	if search != "" {
		db = db.Where("LOWER(offers.name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Business").Order("offers.created_at desc").Offset(offset).Limit(limit).Find(&offers).Error; err != nil {
		return nil, 0, err
	}

	return offers, total, nil
}
