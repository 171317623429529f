package appraisal

import (
	"fmt"
	"math"
	"time"

	"github.com/noah-isme/hris-go-api/internal/models"
)

// ObjectivePatch is a scoped edit to one objective, matched by ID.
type ObjectivePatch struct {
	ID               string
	EmployeeScore    *float64
	EmployeeComments *string
	TeamLeadScore    *float64
	TeamLeadComments *string
}

// Patch is a partial update to an appraisal. Nil fields are left untouched.
type Patch struct {
	Title          *string
	Period         *string
	DueDate        *time.Time
	Status         *models.AppraisalStatus
	RevisionReason *string
	// ObjectiveSet replaces the whole objective list when non-nil.
	ObjectiveSet  []models.Objective
	Objectives    []ObjectivePatch
	HRAdjustments *models.HRAdjustments
}

// MergeStrategy applies the part of a patch a single role is entitled to change.
type MergeStrategy interface {
	Role() models.Role
	MergeObjective(dst *models.Objective, patch ObjectivePatch)
	MergeRecord(dst *models.Appraisal, patch Patch)
}

type employeeMerge struct{}

func (employeeMerge) Role() models.Role { return models.RoleEmployee }

func (employeeMerge) MergeObjective(dst *models.Objective, patch ObjectivePatch) {
	if patch.EmployeeScore != nil {
		dst.EmployeeScore = *patch.EmployeeScore
	}
	if patch.EmployeeComments != nil {
		dst.EmployeeComments = *patch.EmployeeComments
	}
}

func (employeeMerge) MergeRecord(*models.Appraisal, Patch) {}

type teamLeadMerge struct{}

func (teamLeadMerge) Role() models.Role { return models.RoleTeamLead }

func (teamLeadMerge) MergeObjective(dst *models.Objective, patch ObjectivePatch) {
	if patch.TeamLeadScore != nil {
		dst.TeamLeadScore = *patch.TeamLeadScore
	}
	if patch.TeamLeadComments != nil {
		dst.TeamLeadComments = *patch.TeamLeadComments
	}
}

func (teamLeadMerge) MergeRecord(*models.Appraisal, Patch) {}

type hrMerge struct{}

func (hrMerge) Role() models.Role { return models.RoleHR }

func (hrMerge) MergeObjective(*models.Objective, ObjectivePatch) {}

func (hrMerge) MergeRecord(dst *models.Appraisal, patch Patch) {
	if patch.HRAdjustments != nil {
		dst.HRAdjustments = *patch.HRAdjustments
	}
}

// baseMerge serves roles that may only touch the shared top-level fields.
type baseMerge struct {
	role models.Role
}

func (b baseMerge) Role() models.Role { return b.role }

func (baseMerge) MergeObjective(*models.Objective, ObjectivePatch) {}

func (baseMerge) MergeRecord(*models.Appraisal, Patch) {}

// StrategyFor selects the merge strategy for role.
func StrategyFor(role models.Role) MergeStrategy {
	switch role {
	case models.RoleEmployee:
		return employeeMerge{}
	case models.RoleTeamLead:
		return teamLeadMerge{}
	case models.RoleHR:
		return hrMerge{}
	default:
		return baseMerge{role: role}
	}
}

var updatableStatuses = map[models.AppraisalStatus]struct{}{
	models.AppraisalStatusPending:        {},
	models.AppraisalStatusSubmitted:      {},
	models.AppraisalStatusNeedsRevision:  {},
	models.AppraisalStatusSentToEmployee: {},
}

// UpdatableStatus reports whether status may be set through a partial update.
func UpdatableStatus(status models.AppraisalStatus) bool {
	_, ok := updatableStatuses[status]
	return ok
}

// CanReplaceObjectives reports whether role may submit a full objective set.
func CanReplaceObjectives(role models.Role) bool {
	return role == models.RoleTeamLead || role == models.RoleHR || role == models.RoleAdmin
}

// Apply merges patch into current on behalf of role and returns the next record state with
// recomputed totals. current is never modified; on error nothing of the patch is applied.
func Apply(current models.Appraisal, role models.Role, patch Patch) (models.Appraisal, error) {
	if current.Status.IsClosed() {
		return models.Appraisal{}, ErrAppraisalClosed
	}
	if patch.Status != nil && !UpdatableStatus(*patch.Status) {
		return models.Appraisal{}, fmt.Errorf("%w: %q", ErrInvalidStatus, *patch.Status)
	}

	strategy := StrategyFor(role)
	next := current
	next.Objectives = cloneObjectives(current.Objectives)
	next.ReviewTrail = append([]models.ReviewTrailEntry(nil), current.ReviewTrail...)

	if patch.ObjectiveSet != nil {
		if !CanReplaceObjectives(role) {
			return models.Appraisal{}, fmt.Errorf("%w: role %q cannot replace objectives", ErrForbidden, role)
		}
		if err := ValidateObjectiveSet(patch.ObjectiveSet); err != nil {
			return models.Appraisal{}, err
		}
		next.Objectives = replaceObjectives(next.Objectives, patch.ObjectiveSet)
	}

	if patch.Title != nil {
		next.Title = *patch.Title
	}
	if patch.Period != nil {
		next.Period = *patch.Period
	}
	if patch.DueDate != nil {
		next.DueDate = *patch.DueDate
	}
	if patch.Status != nil {
		next.Status = *patch.Status
	}
	if patch.RevisionReason != nil {
		next.RevisionReason = *patch.RevisionReason
	}

	for _, objectivePatch := range patch.Objectives {
		idx := next.ObjectiveByID(objectivePatch.ID)
		if idx < 0 {
			continue
		}
		strategy.MergeObjective(&next.Objectives[idx], objectivePatch)
	}
	strategy.MergeRecord(&next, patch)

	if err := validateScores(next.Objectives); err != nil {
		return models.Appraisal{}, err
	}

	Recompute(&next, strategy.Role())
	return next, nil
}

// replaceObjectives installs the new set, carrying over the scoring state of ids that survive.
// Carried scores are capped at the objective's new marks.
func replaceObjectives(current []models.Objective, set []models.Objective) []models.Objective {
	byID := make(map[string]models.Objective, len(current))
	for _, objective := range current {
		byID[objective.ID] = objective
	}

	out := make([]models.Objective, 0, len(set))
	for _, incoming := range set {
		objective := models.Objective{
			ID:          incoming.ID,
			Description: incoming.Description,
			Marks:       incoming.Marks,
		}
		if existing, ok := byID[incoming.ID]; ok && incoming.ID != "" {
			limit := float64(incoming.Marks)
			objective.EmployeeScore = math.Min(existing.EmployeeScore, limit)
			objective.TeamLeadScore = math.Min(existing.TeamLeadScore, limit)
			objective.FinalScore = math.Min(existing.FinalScore, limit)
			objective.EmployeeComments = existing.EmployeeComments
			objective.TeamLeadComments = existing.TeamLeadComments
			objective.Evidence = existing.Evidence
		}
		out = append(out, objective)
	}
	return out
}

func validateScores(objectives []models.Objective) error {
	for _, objective := range objectives {
		limit := float64(objective.Marks)
		for _, score := range []float64{objective.EmployeeScore, objective.TeamLeadScore} {
			if score < 0 || score > limit {
				return fmt.Errorf("%w: objective %q score %.2f exceeds %d marks", ErrInvalidScore, objective.ID, score, objective.Marks)
			}
		}
	}
	return nil
}

func cloneObjectives(objectives []models.Objective) []models.Objective {
	if objectives == nil {
		return nil
	}
	out := make([]models.Objective, len(objectives))
	copy(out, objectives)
	return out
}
