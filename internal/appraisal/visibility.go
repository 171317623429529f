package appraisal

import (
	"strings"

	"github.com/noah-isme/hris-go-api/internal/models"
)

// StatusAll is the status query value that removes status narrowing.
const StatusAll = "all"

// Viewer is the authenticated caller a listing is resolved for.
type Viewer struct {
	ID        uint
	Role      models.Role
	CompanyID uint
}

// TrailMatch selects review trail entries by role and, optionally, action.
type TrailMatch struct {
	Role   models.Role
	Action models.ReviewAction
}

// Filter describes the records a viewer may list. The zero value of each field means
// "unrestricted" except CompanyID, which always applies.
type Filter struct {
	CompanyID        uint
	EmployeeID       *uint
	TeamLeadID       *uint
	ReviewLevel      *models.ReviewLevel
	Statuses         []models.AppraisalStatus
	RequireTrail     *TrailMatch
	ExcludeTrailRole models.Role
	// Empty short-circuits the filter to match nothing.
	Empty bool
}

// ActivityFilter resolves the activity view of viewer, narrowed by an optional status.
func ActivityFilter(viewer Viewer, status string) Filter {
	filter := Filter{CompanyID: viewer.CompanyID}

	switch viewer.Role {
	case models.RoleAdmin:
	case models.RoleHR:
		level := models.ReviewLevelHR
		filter.ReviewLevel = &level
		filter.Statuses = []models.AppraisalStatus{models.AppraisalStatusSubmitted, models.AppraisalStatusNeedsRevision}
		filter.RequireTrail = &TrailMatch{Role: models.RoleTeamLead, Action: models.ReviewActionApproved}
		filter.ExcludeTrailRole = models.RoleHR
	case models.RoleTeamLead:
		id := viewer.ID
		filter.TeamLeadID = &id
	case models.RoleEmployee:
		id := viewer.ID
		filter.EmployeeID = &id
	default:
		filter.Empty = true
	}

	return filter.narrow(status)
}

// QueueFilter resolves the approval queue of viewer. The status defaults to pending and the
// review level is pinned to the viewer's role; roles other than teamlead and hr see nothing.
func QueueFilter(viewer Viewer, status string) Filter {
	filter := Filter{CompanyID: viewer.CompanyID}

	switch viewer.Role {
	case models.RoleTeamLead:
		level := models.ReviewLevelTeamLead
		id := viewer.ID
		filter.ReviewLevel = &level
		filter.TeamLeadID = &id
	case models.RoleHR:
		level := models.ReviewLevelHR
		filter.ReviewLevel = &level
		filter.ExcludeTrailRole = models.RoleHR
	default:
		filter.Empty = true
		return filter
	}

	if strings.TrimSpace(status) == "" {
		status = string(models.AppraisalStatusPending)
	}
	return filter.narrow(status)
}

func (f Filter) narrow(status string) Filter {
	status = strings.ToLower(strings.TrimSpace(status))
	if f.Empty || status == "" || status == StatusAll {
		return f
	}

	wanted := models.AppraisalStatus(status)
	if len(f.Statuses) == 0 {
		f.Statuses = []models.AppraisalStatus{wanted}
		return f
	}
	for _, allowed := range f.Statuses {
		if allowed == wanted {
			f.Statuses = []models.AppraisalStatus{wanted}
			return f
		}
	}
	f.Empty = true
	return f
}

// Matches evaluates the filter against a record with its review trail loaded.
func (f Filter) Matches(record models.Appraisal) bool {
	if f.Empty || record.CompanyID != f.CompanyID {
		return false
	}
	if f.EmployeeID != nil && record.EmployeeID != *f.EmployeeID {
		return false
	}
	if f.TeamLeadID != nil && record.TeamLeadID != *f.TeamLeadID {
		return false
	}
	if f.ReviewLevel != nil && record.ReviewLevel != *f.ReviewLevel {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, status := range f.Statuses {
			if record.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.RequireTrail != nil && !record.HasTrailEntry(f.RequireTrail.Role, f.RequireTrail.Action) {
		return false
	}
	if f.ExcludeTrailRole != "" && record.HasTrailEntry(f.ExcludeTrailRole, "") {
		return false
	}
	return true
}

// CanAccess reports whether viewer may read or update a single record.
func CanAccess(viewer Viewer, record models.Appraisal) bool {
	if record.CompanyID != viewer.CompanyID {
		return false
	}
	switch viewer.Role {
	case models.RoleAdmin, models.RoleHR:
		return true
	case models.RoleTeamLead:
		return record.TeamLeadID == viewer.ID
	case models.RoleEmployee:
		return record.EmployeeID == viewer.ID
	default:
		return false
	}
}
