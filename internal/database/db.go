package database

import (
	"log"

	"tourportal/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// Migrate runs auto-migration for all portal models. Exported so tests can
// prepare an in-memory database with the same schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Business{},
		&model.Offer{},
		&model.Order{},
		&model.FeeRule{},
		&model.AuditLog{},
		&model.Attraction{},
		&model.Event{},
	)
}
