package dto

// SeedDepartment describes a department to upsert.
type SeedDepartment struct {
	ID         uint   `json:"id" validate:"required"`
	Name       string `json:"name" validate:"required,max=255"`
	TeamLeadID *uint  `json:"team_lead_id"`
}

// SeedUser describes a directory user to upsert.
type SeedUser struct {
	ID           uint   `json:"id" validate:"required"`
	DepartmentID *uint  `json:"department_id"`
	Name         string `json:"name" validate:"required,max=255"`
	Email        string `json:"email" validate:"required,email"`
	Role         string `json:"role" validate:"required"`
}

// DirectorySeedRequest upserts departments and users for one tenant.
type DirectorySeedRequest struct {
	CompanyID   uint             `json:"company_id" validate:"required"`
	Departments []SeedDepartment `json:"departments" validate:"omitempty,dive"`
	Users       []SeedUser       `json:"users" validate:"omitempty,dive"`
}

// DirectorySeedResponse reports how many rows were written.
type DirectorySeedResponse struct {
	Departments int64 `json:"departments"`
	Users       int64 `json:"users"`
}
