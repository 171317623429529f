package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog captures auditable events triggered by any authenticated actor.
type ActivityLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	CompanyID  uint              `gorm:"not null;index" json:"company_id"`
	ActorID    uint              `gorm:"not null;index" json:"actor_id"`
	ActorRole  string            `gorm:"size:32;not null" json:"actor_role"`
	Action     string            `gorm:"size:64;not null;index" json:"action"`
	Status     string            `gorm:"size:16;not null" json:"status"`
	EntityType string            `gorm:"size:64;not null" json:"entity_type"`
	EntityID   *uint             `json:"entity_id"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time         `json:"created_at"`
}

const (
	ActivityStatusSuccess = "success"
	ActivityStatusFailure = "failure"
)
