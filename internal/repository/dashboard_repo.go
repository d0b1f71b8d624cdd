package repository

import (
	"context"
	"sort"
	"time"

	"tourportal/internal/model"

	"gorm.io/gorm"
)

// StatusCount is a per-status tally for one module.
type StatusCount struct {
	Status string `gorm:"column:status" json:"status"`
	Count  int64  `gorm:"column:count" json:"count"`
}

// ModerationItem is one draft record awaiting review, regardless of module.
type ModerationItem struct {
	Module    string    `json:"module"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DashboardRepository backs the read-only reporting views. Content counts are
// global; commerce figures go through the scoped order repository instead.
type DashboardRepository interface {
	StatusCounts(ctx context.Context, entity interface{}) ([]StatusCount, error)
	ModerationQueue(ctx context.Context, limit int) ([]ModerationItem, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) StatusCounts(ctx context.Context, entity interface{}) ([]StatusCount, error) {
	var counts []StatusCount
	err := GetDB(ctx, r.db).Model(entity).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// ModerationQueue unions draft records across every content module, sorted
// strictly descending by updated_at. One query per module keeps the SQL
// portable; the merge happens here.
func (r *dashboardRepository) ModerationQueue(ctx context.Context, limit int) ([]ModerationItem, error) {
	db := GetDB(ctx, r.db)
	var items []ModerationItem

	var businesses []model.Business
	if err := db.Where("status = ?", model.StatusDraft).Find(&businesses).Error; err != nil {
		return nil, err
	}
	for _, b := range businesses {
		items = append(items, ModerationItem{
			Module: model.ModuleBusiness, ID: b.ID.String(), Name: b.Name,
			Status: b.Status, UpdatedAt: b.UpdatedAt,
		})
	}

	var offers []model.Offer
	if err := db.Where("status = ?", model.OfferStatusDraft).Find(&offers).Error; err != nil {
		return nil, err
	}
	for _, o := range offers {
		items = append(items, ModerationItem{
			Module: model.ModuleOffer, ID: o.ID.String(), Name: o.Name,
			Status: o.Status, UpdatedAt: o.UpdatedAt,
		})
	}

	var attractions []model.Attraction
	if err := db.Where("status = ?", model.StatusDraft).Find(&attractions).Error; err != nil {
		return nil, err
	}
	for _, a := range attractions {
		items = append(items, ModerationItem{
			Module: model.ModuleAttraction, ID: a.ID.String(), Name: a.Name,
			Status: a.Status, UpdatedAt: a.UpdatedAt,
		})
	}

	var events []model.Event
	if err := db.Where("status = ?", model.StatusDraft).Find(&events).Error; err != nil {
		return nil, err
	}
	for _, e := range events {
		items = append(items, ModerationItem{
			Module: model.ModuleEvent, ID: e.ID.String(), Name: e.Name,
			Status: e.Status, UpdatedAt: e.UpdatedAt,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
