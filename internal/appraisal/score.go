package appraisal

import "github.com/noah-isme/hris-go-api/internal/models"

// Fixed HR adjustment deltas applied on top of the team lead total.
const (
	InnovationDelta   = 3.0
	CommendationDelta = 3.0
	QueryDelta        = -4.0
	MajorErrorDelta   = -15.0
)

// AdjustmentDelta sums the deltas of every flag that is set.
func AdjustmentDelta(adj models.HRAdjustments) float64 {
	var delta float64
	if adj.Innovation {
		delta += InnovationDelta
	}
	if adj.Commendation {
		delta += CommendationDelta
	}
	if adj.Query {
		delta += QueryDelta
	}
	if adj.MajorError {
		delta += MajorErrorDelta
	}
	return delta
}

// Aggregate derives the three totals from the objectives.
//
// The final total follows the acting role: a team lead's total becomes the working final,
// HR's final is the team lead total plus the adjustment deltas recomputed from scratch, and
// any other role leaves previousFinal untouched.
func Aggregate(objectives []models.Objective, role models.Role, adj models.HRAdjustments, previousFinal float64) models.TotalScore {
	totals := models.TotalScore{Final: previousFinal}
	for _, objective := range objectives {
		totals.Employee += objective.EmployeeScore
		totals.TeamLead += objective.TeamLeadScore
	}

	switch role {
	case models.RoleTeamLead:
		totals.Final = totals.TeamLead
	case models.RoleHR:
		totals.Final = totals.TeamLead + AdjustmentDelta(adj)
	}

	return totals
}

// Recompute refreshes the totals of record in place for the given acting role.
// Reviewer roles also mirror each objective's team lead score into its final score.
func Recompute(record *models.Appraisal, role models.Role) {
	if role == models.RoleTeamLead || role == models.RoleHR {
		for i := range record.Objectives {
			record.Objectives[i].FinalScore = record.Objectives[i].TeamLeadScore
		}
	}
	record.TotalScore = Aggregate(record.Objectives, role, record.HRAdjustments, record.TotalScore.Final)
}
