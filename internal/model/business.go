package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Publication status shared by businesses and content records
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Business represents a local business listed on the portal. A business is
// owned by exactly one business_owner user, or unowned when managed centrally.
type Business struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerUserID *uuid.UUID `gorm:"type:uuid;index" json:"owner_user_id"` // Nullable: centrally managed listings have no owner
	Owner       *User      `gorm:"foreignKey:OwnerUserID" json:"owner,omitempty"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Address     string     `gorm:"type:varchar(500)" json:"address"`
	Contact     string     `gorm:"type:varchar(255)" json:"contact"`
	ImagePath   string     `gorm:"type:varchar(500)" json:"image_path"`
	Status      string     `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"` // draft, published, archived
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// ValidBusinessStatus reports whether s is a known publication status.
// Transitions are free-form, but every change must still be audited.
func ValidBusinessStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}
