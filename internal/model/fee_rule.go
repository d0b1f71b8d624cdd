package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FeeType enum constants
const (
	FeeTypeEnvironmental      = "environmental_fee"
	FeeTypeBusinessCommission = "business_commission"
	FeeTypeEventCommission    = "event_commission"
	FeeTypeAdPromotion        = "ad_promotion_fee"
)

// Charge basis constants
const (
	ChargeBasisFixed   = "fixed"
	ChargeBasisPercent = "percent"
)

// FeeRule status constants
const (
	FeeRuleStatusDraft    = "draft"
	FeeRuleStatusActive   = "active"
	FeeRuleStatusInactive = "inactive"
	FeeRuleStatusArchived = "archived"
)

// FeeRule is a configured charge definition with temporal validity. Estimates
// derived from a rule are never stored, so edits only affect future reads.
type FeeRule struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	FeeType       string           `gorm:"type:varchar(50);not null;index" json:"fee_type"`
	ChargeBasis   string           `gorm:"type:varchar(20);not null" json:"charge_basis"`      // fixed, percent
	Amount        decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"amount"`          // fixed amount or percent value (5 = 5%)
	MinimumAmount *decimal.Decimal `gorm:"type:decimal(12,2)" json:"minimum_amount"`           // optional floor
	Status        string           `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	EffectiveFrom time.Time        `gorm:"type:date;not null;index" json:"effective_from"`
	EffectiveTo   *time.Time       `gorm:"type:date;index" json:"effective_to"` // Nullable = open-ended
	Description   string           `gorm:"type:text" json:"description"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (f *FeeRule) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// ValidFeeType reports whether s is a known fee type.
func ValidFeeType(s string) bool {
	switch s {
	case FeeTypeEnvironmental, FeeTypeBusinessCommission, FeeTypeEventCommission, FeeTypeAdPromotion:
		return true
	}
	return false
}

// ValidChargeBasis reports whether s is a known charge basis.
func ValidChargeBasis(s string) bool {
	return s == ChargeBasisFixed || s == ChargeBasisPercent
}

// ValidFeeRuleStatus reports whether s is a known rule status.
func ValidFeeRuleStatus(s string) bool {
	switch s {
	case FeeRuleStatusDraft, FeeRuleStatusActive, FeeRuleStatusInactive, FeeRuleStatusArchived:
		return true
	}
	return false
}

// CommerceFeeType reports whether the type belongs to the owner-facing
// commerce fee subset evaluated in fee summaries.
func CommerceFeeType(s string) bool {
	switch s {
	case FeeTypeEnvironmental, FeeTypeBusinessCommission, FeeTypeEventCommission:
		return true
	}
	return false
}
