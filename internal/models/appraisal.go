package models

import (
	"fmt"
	"io"
	"time"

	"gorm.io/datatypes"
)

// AppraisalStatus captures where an appraisal record sits in its lifecycle.
type AppraisalStatus string

const (
	// AppraisalStatusPending is the initial state of every issued record.
	AppraisalStatusPending AppraisalStatus = "pending"
	// AppraisalStatusSubmitted marks a record handed in for review.
	AppraisalStatusSubmitted AppraisalStatus = "submitted"
	// AppraisalStatusNeedsRevision marks a record sent back for rework.
	AppraisalStatusNeedsRevision AppraisalStatus = "needs_revision"
	// AppraisalStatusSentToEmployee marks a record returned to the employee for input.
	AppraisalStatusSentToEmployee AppraisalStatus = "sent_to_employee"
	// AppraisalStatusApproved is terminal: both review levels approved.
	AppraisalStatusApproved AppraisalStatus = "approved"
	// AppraisalStatusRejected is terminal: a reviewer rejected the record.
	AppraisalStatusRejected AppraisalStatus = "rejected"
)

// IsClosed reports whether the status is terminal.
func (s AppraisalStatus) IsClosed() bool {
	return s == AppraisalStatusApproved || s == AppraisalStatusRejected
}

// ReviewLevel names the stage currently empowered to approve or reject.
type ReviewLevel string

const (
	ReviewLevelTeamLead ReviewLevel = "teamlead"
	ReviewLevelHR       ReviewLevel = "hr"
)

// ReviewAction is the decision recorded in the review trail.
type ReviewAction string

const (
	ReviewActionApproved ReviewAction = "approved"
	ReviewActionRejected ReviewAction = "rejected"
)

// Objective is a single weighted scoring criterion inside an appraisal.
type Objective struct {
	ID               string  `json:"id"`
	Description      string  `json:"description"`
	Marks            int     `json:"marks"`
	EmployeeScore    float64 `json:"employee_score"`
	TeamLeadScore    float64 `json:"team_lead_score"`
	FinalScore       float64 `json:"final_score"`
	EmployeeComments string  `json:"employee_comments"`
	TeamLeadComments string  `json:"team_lead_comments"`
	Evidence         string  `json:"evidence"`
}

// TotalScore holds the three derived totals of an appraisal.
type TotalScore struct {
	Employee float64 `gorm:"not null;default:0" json:"employee"`
	TeamLead float64 `gorm:"not null;default:0" json:"team_lead"`
	Final    float64 `gorm:"not null;default:0" json:"final"`
}

// HRAdjustments are the fixed-delta flags only HR may toggle.
type HRAdjustments struct {
	Innovation   bool `gorm:"not null;default:false" json:"innovation"`
	Commendation bool `gorm:"not null;default:false" json:"commendation"`
	Query        bool `gorm:"not null;default:false" json:"query"`
	MajorError   bool `gorm:"not null;default:false" json:"major_error"`
}

// Appraisal is the per-employee, per-cycle performance record.
type Appraisal struct {
	ID             uint                           `gorm:"primaryKey" json:"id"`
	CompanyID      uint                           `gorm:"not null;index;uniqueIndex:idx_appraisal_cycle,priority:1" json:"company_id"`
	Title          string                         `gorm:"size:255;not null" json:"title"`
	EmployeeID     uint                           `gorm:"not null;index;uniqueIndex:idx_appraisal_cycle,priority:2" json:"employee_id"`
	TeamLeadID     uint                           `gorm:"not null;index" json:"team_lead_id"`
	DepartmentID   uint                           `gorm:"not null;index" json:"department_id"`
	Period         string                         `gorm:"size:64;not null;uniqueIndex:idx_appraisal_cycle,priority:3" json:"period"`
	DueDate        time.Time                      `gorm:"not null" json:"due_date"`
	Objectives     datatypes.JSONSlice[Objective] `json:"objectives"`
	TotalScore     TotalScore                     `gorm:"embedded;embeddedPrefix:total_" json:"total_score"`
	HRAdjustments  HRAdjustments                  `gorm:"embedded;embeddedPrefix:hr_" json:"hr_adjustments"`
	Status         AppraisalStatus                `gorm:"size:32;not null;index" json:"status"`
	ReviewLevel    ReviewLevel                    `gorm:"size:16;not null;index" json:"review_level"`
	RevisionReason string                         `gorm:"type:text" json:"revision_reason"`
	Version        int                            `gorm:"not null;default:1" json:"version"`
	ReviewTrail    []ReviewTrailEntry             `gorm:"foreignKey:AppraisalID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"review_trail"`
	CreatedAt      time.Time                      `json:"created_at"`
	UpdatedAt      time.Time                      `json:"updated_at"`
}

// ObjectiveByID returns the index of the objective with the given id, or -1.
func (a Appraisal) ObjectiveByID(id string) int {
	for i, objective := range a.Objectives {
		if objective.ID == id {
			return i
		}
	}
	return -1
}

// HasTrailEntry reports whether the review trail contains an entry for role, optionally narrowed by action.
func (a Appraisal) HasTrailEntry(role Role, action ReviewAction) bool {
	for _, entry := range a.ReviewTrail {
		if entry.Role != role {
			continue
		}
		if action == "" || entry.Action == action {
			return true
		}
	}
	return false
}

// ReviewTrailEntry is one append-only decision on an appraisal.
type ReviewTrailEntry struct {
	ID          uint         `gorm:"primaryKey" json:"-"`
	AppraisalID uint         `gorm:"not null;index" json:"-"`
	ReviewerID  uint         `gorm:"not null" json:"reviewer_id"`
	Role        Role         `gorm:"size:16;not null;index" json:"role"`
	Action      ReviewAction `gorm:"size:16;not null" json:"action"`
	Date        time.Time    `gorm:"not null" json:"date"`
}

// EvidenceObject describes a validated evidence file ready to be persisted by a storage backend.
type EvidenceObject struct {
	CompanyID   uint
	AppraisalID uint
	ObjectiveID string
	FileName    string
	MimeType    string
	Checksum    string
	Body        io.Reader
}

// Key returns the storage path for the evidence, scoped by tenant and appraisal.
func (o EvidenceObject) Key() string {
	return fmt.Sprintf("companies/%d/appraisals/%d/%s", o.CompanyID, o.AppraisalID, o.ObjectiveID)
}
