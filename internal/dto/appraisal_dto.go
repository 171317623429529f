package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/hris-go-api/internal/appraisal"
	"github.com/noah-isme/hris-go-api/internal/models"
)

// legacyNoStatusChange is the status literal older clients send to mean "leave the status alone".
const legacyNoStatusChange = "update"

// ObjectiveInput describes an objective inside a create payload or a full objective set.
type ObjectiveInput struct {
	ID          string `json:"id" validate:"omitempty,max=64"`
	Description string `json:"description" validate:"required,min=1,max=1000"`
	Marks       int    `json:"marks" validate:"min=0,max=100"`
}

// AppraisalCreateRequest issues a new appraisal cycle for every employee of a department.
type AppraisalCreateRequest struct {
	Title        string           `json:"title" validate:"required,min=1,max=255"`
	Period       string           `json:"period" validate:"required,min=1,max=64"`
	DueDate      time.Time        `json:"due_date" validate:"required"`
	DepartmentID uint             `json:"department_id"`
	TeamLeadID   uint             `json:"team_lead_id"`
	Objectives   []ObjectiveInput `json:"objectives" validate:"required,min=1,dive"`
}

// ObjectiveScoreInput is a scoped edit to one objective, matched by id.
type ObjectiveScoreInput struct {
	ID               string   `json:"id" validate:"required,max=64"`
	EmployeeScore    *float64 `json:"employee_score"`
	EmployeeComments *string  `json:"employee_comments" validate:"omitempty,max=4000"`
	TeamLeadScore    *float64 `json:"team_lead_score"`
	TeamLeadComments *string  `json:"team_lead_comments" validate:"omitempty,max=4000"`
}

// AppraisalUpdateRequest is the shared partial update payload of every role.
type AppraisalUpdateRequest struct {
	Title          *string               `json:"title" validate:"omitempty,min=1,max=255"`
	Period         *string               `json:"period" validate:"omitempty,min=1,max=64"`
	DueDate        *time.Time            `json:"due_date"`
	Status         *string               `json:"status" validate:"omitempty,max=32"`
	RevisionReason *string               `json:"revision_reason" validate:"omitempty,max=4000"`
	ObjectiveSet   []ObjectiveInput      `json:"objective_set" validate:"omitempty,dive"`
	Objectives     []ObjectiveScoreInput `json:"objectives" validate:"omitempty,dive"`
	HRAdjustments  *models.HRAdjustments `json:"hr_adjustments"`
}

// AppraisalListRequest carries listing query parameters.
type AppraisalListRequest struct {
	Status   string
	Page     int
	PageSize int
}

// ReviewTrailResponse serializes one review decision.
type ReviewTrailResponse struct {
	ReviewerID uint      `json:"reviewer_id"`
	Role       string    `json:"role"`
	Action     string    `json:"action"`
	Date       time.Time `json:"date"`
}

// AppraisalResponse serializes an appraisal record.
type AppraisalResponse struct {
	ID             uint                  `json:"id"`
	Title          string                `json:"title"`
	EmployeeID     uint                  `json:"employee_id"`
	TeamLeadID     uint                  `json:"team_lead_id"`
	DepartmentID   uint                  `json:"department_id"`
	Period         string                `json:"period"`
	DueDate        time.Time             `json:"due_date"`
	Objectives     []models.Objective    `json:"objectives"`
	TotalScore     models.TotalScore     `json:"total_score"`
	HRAdjustments  models.HRAdjustments  `json:"hr_adjustments"`
	Status         string                `json:"status"`
	ReviewLevel    string                `json:"review_level"`
	RevisionReason string                `json:"revision_reason,omitempty"`
	ReviewTrail    []ReviewTrailResponse `json:"review_trail"`
	Version        int                   `json:"version"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// AppraisalListResponse wraps a paginated appraisal listing.
type AppraisalListResponse struct {
	Items      []AppraisalResponse `json:"items"`
	Pagination PaginationMeta      `json:"pagination"`
}

// AppraisalSummaryResponse counts the caller's visible records per status.
type AppraisalSummaryResponse struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

// BulkCreateFailure reports why one employee's record could not be issued.
type BulkCreateFailure struct {
	EmployeeID uint   `json:"employee_id"`
	Reason     string `json:"reason"`
}

// AppraisalBulkCreateResponse reports the per-employee outcome of a bulk creation.
type AppraisalBulkCreateResponse struct {
	Created []AppraisalResponse `json:"created"`
	Failed  []BulkCreateFailure `json:"failed"`
}

// ToObjectives converts inputs into fresh objectives, assigning ids where missing.
func ToObjectives(inputs []ObjectiveInput) []models.Objective {
	if inputs == nil {
		return nil
	}

	objectives := make([]models.Objective, 0, len(inputs))
	for _, input := range inputs {
		id := strings.TrimSpace(input.ID)
		if id == "" {
			id = uuid.NewString()
		}
		objectives = append(objectives, models.Objective{
			ID:          id,
			Description: strings.TrimSpace(input.Description),
			Marks:       input.Marks,
		})
	}
	return objectives
}

// ToPatch converts the payload into a domain patch. The legacy "update" status literal is
// treated as an absent status.
func (r AppraisalUpdateRequest) ToPatch() appraisal.Patch {
	patch := appraisal.Patch{
		Title:          r.Title,
		Period:         r.Period,
		DueDate:        r.DueDate,
		RevisionReason: r.RevisionReason,
		ObjectiveSet:   ToObjectives(r.ObjectiveSet),
		HRAdjustments:  r.HRAdjustments,
	}

	if r.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*r.Status))
		if status != "" && status != legacyNoStatusChange {
			value := models.AppraisalStatus(status)
			patch.Status = &value
		}
	}

	if len(r.Objectives) > 0 {
		patch.Objectives = make([]appraisal.ObjectivePatch, 0, len(r.Objectives))
		for _, input := range r.Objectives {
			patch.Objectives = append(patch.Objectives, appraisal.ObjectivePatch{
				ID:               strings.TrimSpace(input.ID),
				EmployeeScore:    input.EmployeeScore,
				EmployeeComments: input.EmployeeComments,
				TeamLeadScore:    input.TeamLeadScore,
				TeamLeadComments: input.TeamLeadComments,
			})
		}
	}

	return patch
}

// NewAppraisalResponse converts an appraisal model into a DTO.
func NewAppraisalResponse(record models.Appraisal) AppraisalResponse {
	objectives := make([]models.Objective, len(record.Objectives))
	copy(objectives, record.Objectives)

	trail := make([]ReviewTrailResponse, 0, len(record.ReviewTrail))
	for _, entry := range record.ReviewTrail {
		trail = append(trail, ReviewTrailResponse{
			ReviewerID: entry.ReviewerID,
			Role:       string(entry.Role),
			Action:     string(entry.Action),
			Date:       entry.Date,
		})
	}

	return AppraisalResponse{
		ID:             record.ID,
		Title:          record.Title,
		EmployeeID:     record.EmployeeID,
		TeamLeadID:     record.TeamLeadID,
		DepartmentID:   record.DepartmentID,
		Period:         record.Period,
		DueDate:        record.DueDate,
		Objectives:     objectives,
		TotalScore:     record.TotalScore,
		HRAdjustments:  record.HRAdjustments,
		Status:         string(record.Status),
		ReviewLevel:    string(record.ReviewLevel),
		RevisionReason: record.RevisionReason,
		ReviewTrail:    trail,
		Version:        record.Version,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}
}

// NewAppraisalResponseSlice converts a slice of models into DTOs.
func NewAppraisalResponseSlice(records []models.Appraisal) []AppraisalResponse {
	out := make([]AppraisalResponse, 0, len(records))
	for _, record := range records {
		out = append(out, NewAppraisalResponse(record))
	}
	return out
}

// EvidenceResponse describes a stored evidence file and the updated appraisal.
type EvidenceResponse struct {
	ObjectiveID string            `json:"objective_id"`
	URL         string            `json:"url"`
	FileName    string            `json:"file_name"`
	MimeType    string            `json:"mime_type"`
	SizeBytes   int64             `json:"size_bytes"`
	Checksum    string            `json:"checksum"`
	Appraisal   AppraisalResponse `json:"appraisal"`
}
