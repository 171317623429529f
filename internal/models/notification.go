package models

import "time"

// Notification is an in-app message addressed to a single user.
type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CompanyID   uint      `gorm:"not null;index" json:"company_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Type        string    `gorm:"size:64;not null" json:"type"`
	Title       string    `gorm:"size:255" json:"title"`
	Message     string    `gorm:"type:text" json:"message"`
	TemplateRef string    `gorm:"size:64" json:"template_ref"`
	Read        bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
