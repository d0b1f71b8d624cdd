package repository

import (
	"context"
	"strings"

	"tourportal/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BusinessRepository interface {
	Create(ctx context.Context, business *model.Business) error
	Update(ctx context.Context, business *model.Business) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Business, error)
	List(ctx context.Context, page, limit int, search, status string) ([]model.Business, int64, error)
	ListOwnedBy(ctx context.Context, ownerID uuid.UUID) ([]model.Business, error)
}

type businessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) Create(ctx context.Context, business *model.Business) error {
	return GetDB(ctx, r.db).Create(business).Error
}

func (r *businessRepository) Update(ctx context.Context, business *model.Business) error {
	return GetDB(ctx, r.db).Save(business).Error
}

func (r *businessRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Business{}).Error
}

func (r *businessRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Business, error) {
	var business model.Business
	if err := GetDB(ctx, r.db).First(&business, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) List(ctx context.Context, page, limit int, search, status string) ([]model.Business, int64, error) {
	var businesses []model.Business
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Business{})
	if search != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&businesses).Error; err != nil {
		return nil, 0, err
	}

	return businesses, total, nil
}

func (r *businessRepository) ListOwnedBy(ctx context.Context, ownerID uuid.UUID) ([]model.Business, error) {
	var businesses []model.Business
	if err := GetDB(ctx, r.db).
		Where("owner_user_id = ?", ownerID).
		Order("created_at desc").
		Find(&businesses).Error; err != nil {
		return nil, err
	}
	return businesses, nil
}
