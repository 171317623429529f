package models

import (
	"strings"
	"time"
)

// Role identifies what a user is allowed to do inside their tenant.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleTeamLead Role = "teamlead"
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
)

// ParseRole normalises free-form role claims such as "Team Lead" or "HR".
func ParseRole(value string) Role {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(normalized)
	switch normalized {
	case "employee", "staff":
		return RoleEmployee
	case "teamlead", "lead":
		return RoleTeamLead
	case "hr", "humanresources":
		return RoleHR
	case "admin", "superadmin":
		return RoleAdmin
	default:
		return Role(normalized)
	}
}

// User is a directory entry within a company.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CompanyID    uint      `gorm:"not null;index" json:"company_id"`
	DepartmentID *uint     `gorm:"index" json:"department_id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex" json:"email"`
	Role         Role      `gorm:"size:16;not null;index" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Department groups employees under a team lead.
type Department struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CompanyID  uint      `gorm:"not null;index" json:"company_id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	TeamLeadID *uint     `json:"team_lead_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
