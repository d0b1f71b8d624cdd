package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a portal principal: staff, business owner or visitor account.
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone     string         `gorm:"type:varchar(20)" json:"phone"`
	Password  string         `gorm:"type:varchar(255);not null" json:"-"`   // Omit password from JSON requests/responses
	Role      string         `gorm:"type:varchar(50);not null" json:"role"` // super_admin, content_admin, business_owner, visitor
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete
}

// BeforeCreate assigns the UUID client-side so the sqlite test driver works too.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
