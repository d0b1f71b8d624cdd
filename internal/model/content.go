package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attraction is a municipal point of interest published by content admins.
// Content records have no per-owner scope.
type Attraction struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Address     string    `gorm:"type:varchar(500)" json:"address"`
	ImagePath   string    `gorm:"type:varchar(500)" json:"image_path"`
	Status      string    `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"` // draft, published, archived
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (a *Attraction) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Event is a scheduled municipal event (festival, market, exhibition).
type Event struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Venue       string     `gorm:"type:varchar(500)" json:"venue"`
	ImagePath   string     `gorm:"type:varchar(500)" json:"image_path"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Status      string     `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"` // draft, published, archived
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
