package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit action constants
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
	AuditActionView   = "view"
)

// Audit module names. Entities may be hard-deleted while their audit history
// persists, so TargetID is a plain string with no foreign key.
const (
	ModuleBusiness    = "business"
	ModuleOffer       = "offer"
	ModuleOrder       = "order"
	ModuleFeeRule     = "fee_rule"
	ModuleAttraction  = "attraction"
	ModuleEvent       = "event"
	ModuleUser        = "user"
	ModuleVisitorPage = "visitor_page"
)

// AuditLog is the append-only trail of who changed what, with full before and
// after snapshots. Rows are never updated or deleted by the application.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID    *uuid.UUID `gorm:"type:uuid;index" json:"actor_id"` // Nullable: guest and system actions carry no actor
	Actor      *User      `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Action     string     `gorm:"type:varchar(20);not null;index" json:"action"` // create, update, delete, view
	Module     string     `gorm:"type:varchar(50);not null;index" json:"module"`
	TargetID   *string    `gorm:"type:varchar(100);index" json:"target_id"`
	BeforeJSON *string    `gorm:"type:jsonb" json:"before_json"` // Full attribute snapshot, not just changed fields
	AfterJSON  *string    `gorm:"type:jsonb" json:"after_json"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
