package repository

import (
	"context"
	"time"

	"tourportal/internal/model"

	"gorm.io/gorm"
)

// AuditFilter narrows an audit listing.
type AuditFilter struct {
	Module string
	Action string
}

// PageViewBucket is a per-day rollup of visitor page views.
type PageViewBucket struct {
	Day   string `gorm:"column:day" json:"day"`
	Count int64  `gorm:"column:count" json:"count"`
}

// AuditRepository is append-only from the application's point of view: rows
// are written and read, never updated or deleted.
type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, filter AuditFilter, page, limit int) ([]model.AuditLog, int64, error)
	CountPageViews(ctx context.Context, from, to time.Time) (int64, error)
	PageViewSeries(ctx context.Context, from, to time.Time) ([]PageViewBucket, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, filter AuditFilter, page, limit int) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	var total int64

	db := GetDB(ctx, r.db).Model(&model.AuditLog{})
	if filter.Module != "" {
		db = db.Where("module = ?", filter.Module)
	}
	if filter.Action != "" {
		db = db.Where("action = ?", filter.Action)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Actor").Order("created_at desc").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// CountPageViews counts visitor_page view rows in the half-open range [from, to).
// Page views have no owner, so no scope filter applies here.
func (r *auditRepository) CountPageViews(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.AuditLog{}).
		Where("module = ? AND action = ?", model.ModuleVisitorPage, model.AuditActionView).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}

// PageViewSeries buckets page views per day. Bucketing happens in Go to stay
// portable across the postgres production driver and the sqlite test driver.
func (r *auditRepository) PageViewSeries(ctx context.Context, from, to time.Time) ([]PageViewBucket, error) {
	var stamps []time.Time
	err := GetDB(ctx, r.db).Model(&model.AuditLog{}).
		Where("module = ? AND action = ?", model.ModuleVisitorPage, model.AuditActionView).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at").
		Pluck("created_at", &stamps).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	var days []string
	for _, ts := range stamps {
		day := ts.UTC().Format("2006-01-02")
		if _, seen := counts[day]; !seen {
			days = append(days, day)
		}
		counts[day]++
	}

	buckets := make([]PageViewBucket, 0, len(days))
	for _, day := range days {
		buckets = append(buckets, PageViewBucket{Day: day, Count: counts[day]})
	}
	return buckets, nil
}
