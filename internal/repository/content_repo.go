package repository

import (
	"context"
	"strings"

	"tourportal/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttractionRepository interface {
	Create(ctx context.Context, attraction *model.Attraction) error
	Update(ctx context.Context, attraction *model.Attraction) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Attraction, error)
	List(ctx context.Context, page, limit int, search, status string) ([]model.Attraction, int64, error)
}

type attractionRepository struct {
	db *gorm.DB
}

func NewAttractionRepository(db *gorm.DB) AttractionRepository {
	return &attractionRepository{db: db}
}

func (r *attractionRepository) Create(ctx context.Context, attraction *model.Attraction) error {
	return GetDB(ctx, r.db).Create(attraction).Error
}

func (r *attractionRepository) Update(ctx context.Context, attraction *model.Attraction) error {
	return GetDB(ctx, r.db).Save(attraction).Error
}

func (r *attractionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Attraction{}).Error
}

func (r *attractionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Attraction, error) {
	var attraction model.Attraction
	if err := GetDB(ctx, r.db).First(&attraction, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &attraction, nil
}

func (r *attractionRepository) List(ctx context.Context, page, limit int, search, status string) ([]model.Attraction, int64, error) {
	var attractions []model.Attraction
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Attraction{})
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
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&attractions).Error; err != nil {
		return nil, 0, err
	}

	return attractions, total, nil
}

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	List(ctx context.Context, page, limit int, search, status string) ([]model.Event, int64, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return GetDB(ctx, r.db).Create(event).Error
}

func (r *eventRepository) Update(ctx context.Context, event *model.Event) error {
	return GetDB(ctx, r.db).Save(event).Error
}

func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Event{}).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var event model.Event
	if err := GetDB(ctx, r.db).First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context, page, limit int, search, status string) ([]model.Event, int64, error) {
	var events []model.Event
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Event{})
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
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}
