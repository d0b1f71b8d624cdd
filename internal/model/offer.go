package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Offer status constants
const (
	OfferStatusDraft    = "draft"
	OfferStatusActive   = "active"
	OfferStatusInactive = "inactive"
)

// Offer is a product or bookable service sold by a business. Scope is
// inherited from the parent business.
type Offer struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"business_id"`
	Business    *Business       `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	IsService   bool            `gorm:"not null;default:false" json:"is_service"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	ImagePath   string          `gorm:"type:varchar(500)" json:"image_path"`
	Status      string          `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"` // draft, active, inactive
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (o *Offer) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// ValidOfferStatus reports whether s is a known offer status.
func ValidOfferStatus(s string) bool {
	switch s {
	case OfferStatusDraft, OfferStatusActive, OfferStatusInactive:
		return true
	}
	return false
}
