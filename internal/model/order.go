package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order lifecycle states. pending -> {confirmed, cancelled},
// confirmed -> {in_progress, cancelled}, in_progress -> {completed, cancelled},
// completed and cancelled are terminal.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Order type constants
const (
	OrderTypeProduct = "product"
	OrderTypeBooking = "booking"
)

// Order represents a visitor purchase or booking against a business offer.
// Ownership is transitive through BusinessID.
type Order struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"business_id"`
	Business           *Business       `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
	ProductID          *uuid.UUID      `gorm:"type:uuid;index" json:"product_id"` // Nullable: administrative orders may be free-form
	Product            *Offer          `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	OrderType          string          `gorm:"type:varchar(20);not null" json:"order_type"` // product, booking
	ReferenceNo        string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"reference_no"`
	CustomerName       string          `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerContact    string          `gorm:"type:varchar(255)" json:"customer_contact"`
	Quantity           int             `gorm:"type:int;not null" json:"quantity"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalAmount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status             string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CancellationReason *string         `gorm:"type:text" json:"cancellation_reason"`
	ScheduledAt        *time.Time      `json:"scheduled_at"`
	CreatedBy          *uuid.UUID      `gorm:"type:uuid;index" json:"created_by"`
	UpdatedBy          *uuid.UUID      `gorm:"type:uuid" json:"updated_by"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// ValidOrderStatus reports whether s is a known lifecycle state.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusInProgress,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// ValidOrderType reports whether s is a known order type.
func ValidOrderType(s string) bool {
	return s == OrderTypeProduct || s == OrderTypeBooking
}
