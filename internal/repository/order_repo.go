package repository

import (
	"context"
	"strings"
	"time"

	"tourportal/internal/model"
	"tourportal/internal/scope"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderFilter narrows an order listing. Search matches customer name,
// reference number and order type case-insensitively; an invalid status means
// "all statuses".
type OrderFilter struct {
	Search string
	Status string
}

// CompletedAggregate is the revenue rollup consumed by the fee engine.
type CompletedAggregate struct {
	OrderCount int64
	Revenue    decimal.Decimal
}

// OrderRepository gives access to orders. Listing and aggregation always take
// the caller's BusinessScope so an unscoped commerce query cannot be written.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	Update(ctx context.Context, order *model.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListScoped(ctx context.Context, sc scope.BusinessScope, filter OrderFilter, page, limit int) ([]model.Order, int64, error)
	ListCreatedBy(ctx context.Context, userID uuid.UUID, filter OrderFilter, page, limit int) ([]model.Order, int64, error)
	CompletedTotals(ctx context.Context, sc scope.BusinessScope, from, to time.Time) (CompletedAggregate, error)
	CountByStatus(ctx context.Context, sc scope.BusinessScope) (map[string]int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Save(order).Error
}

func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Order{}).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := GetDB(ctx, r.db).
		Preload("Business").
		Preload("Product").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListScoped(ctx context.Context, sc scope.BusinessScope, filter OrderFilter, page, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	db := sc.Apply(GetDB(ctx, r.db).Model(&model.Order{}), "business_id")

	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		db = db.Where(
			"LOWER(customer_name) LIKE ? OR LOWER(reference_no) LIKE ? OR LOWER(order_type) LIKE ?",
			term, term, term,
		)
	}
	if model.ValidOrderStatus(filter.Status) {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Business").
		Preload("Product").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// ListCreatedBy is the visitor self-service view: only orders created by the
// given principal, regardless of business scope.
func (r *orderRepository) ListCreatedBy(ctx context.Context, userID uuid.UUID, filter OrderFilter, page, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Order{}).Where("created_by = ?", userID)

	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		db = db.Where(
			"LOWER(customer_name) LIKE ? OR LOWER(reference_no) LIKE ? OR LOWER(order_type) LIKE ?",
			term, term, term,
		)
	}
	if model.ValidOrderStatus(filter.Status) {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Business").
		Preload("Product").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// CompletedTotals sums completed orders inside the half-open range [from, to).
func (r *orderRepository) CompletedTotals(ctx context.Context, sc scope.BusinessScope, from, to time.Time) (CompletedAggregate, error) {
	var row struct {
		Count   int64
		Revenue string
	}

	db := sc.Apply(GetDB(ctx, r.db).Model(&model.Order{}), "business_id").
		Select("COUNT(*) as count, COALESCE(CAST(SUM(total_amount) AS TEXT), '0') as revenue").
		Where("status = ?", model.OrderStatusCompleted).
		Where("created_at >= ? AND created_at < ?", from, to)

	if err := db.Scan(&row).Error; err != nil {
		return CompletedAggregate{}, err
	}

	revenue, err := decimal.NewFromString(row.Revenue)
	if err != nil {
		revenue = decimal.Zero
	}

	return CompletedAggregate{OrderCount: row.Count, Revenue: revenue}, nil
}

func (r *orderRepository) CountByStatus(ctx context.Context, sc scope.BusinessScope) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}

	db := sc.Apply(GetDB(ctx, r.db).Model(&model.Order{}), "business_id").
		Select("status, COUNT(*) as count").
		Group("status")

	if err := db.Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
