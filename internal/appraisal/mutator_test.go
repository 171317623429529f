package appraisal_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hris-go-api/internal/appraisal"
	"github.com/noah-isme/hris-go-api/internal/models"
)

func TestApplyEmployeeCannotTouchTeamLeadFields(t *testing.T) {
	current := sampleRecord()
	current.Objectives[0].TeamLeadScore = 12

	next, err := appraisal.Apply(current, models.RoleEmployee, appraisal.Patch{
		Objectives: []appraisal.ObjectivePatch{{
			ID:               "obj-1",
			EmployeeScore:    ptr(33.0),
			EmployeeComments: ptr("shipped on time"),
			TeamLeadScore:    ptr(40.0),
			TeamLeadComments: ptr("sneaky"),
		}},
		HRAdjustments: &models.HRAdjustments{Innovation: true},
	})
	require.NoError(t, err)

	require.Equal(t, 33.0, next.Objectives[0].EmployeeScore)
	require.Equal(t, "shipped on time", next.Objectives[0].EmployeeComments)
	require.Equal(t, 12.0, next.Objectives[0].TeamLeadScore)
	require.Empty(t, next.Objectives[0].TeamLeadComments)
	require.False(t, next.HRAdjustments.Innovation)
	require.Equal(t, 33.0, next.TotalScore.Employee)
	require.Equal(t, 12.0, next.TotalScore.TeamLead)
	require.Equal(t, 0.0, next.TotalScore.Final)
}

func TestApplyTeamLeadScoresBecomeFinal(t *testing.T) {
	current := sampleRecord()

	next, err := appraisal.Apply(current, models.RoleTeamLead, appraisal.Patch{
		Objectives: []appraisal.ObjectivePatch{
			{ID: "obj-1", TeamLeadScore: ptr(40.0), EmployeeScore: ptr(1.0)},
			{ID: "obj-2", TeamLeadScore: ptr(35.0)},
			{ID: "obj-3", TeamLeadScore: ptr(25.0), TeamLeadComments: ptr("great")},
			{ID: "unknown", TeamLeadScore: ptr(10.0)},
		},
		Status: ptr(models.AppraisalStatusSubmitted),
	})
	require.NoError(t, err)

	require.Equal(t, 100.0, next.TotalScore.TeamLead)
	require.Equal(t, 100.0, next.TotalScore.Final)
	require.Equal(t, 0.0, next.TotalScore.Employee)
	require.Equal(t, models.AppraisalStatusSubmitted, next.Status)
	require.Len(t, next.Objectives, 3)
	require.Equal(t, "great", next.Objectives[2].TeamLeadComments)
}

func TestApplyHRSetsAdjustmentsAndIgnoresObjectiveScores(t *testing.T) {
	current := sampleRecord()
	current.Objectives[0].TeamLeadScore = 30
	current.Objectives[1].TeamLeadScore = 30
	current.Objectives[2].TeamLeadScore = 20
	current.TotalScore = models.TotalScore{TeamLead: 80, Final: 80}

	next, err := appraisal.Apply(current, models.RoleHR, appraisal.Patch{
		HRAdjustments: &models.HRAdjustments{Innovation: true, Query: true},
		Objectives:    []appraisal.ObjectivePatch{{ID: "obj-1", TeamLeadScore: ptr(0.0)}},
	})
	require.NoError(t, err)
	require.Equal(t, 30.0, next.Objectives[0].TeamLeadScore)
	require.Equal(t, 79.0, next.TotalScore.Final)

	cleared, err := appraisal.Apply(next, models.RoleHR, appraisal.Patch{HRAdjustments: &models.HRAdjustments{}})
	require.NoError(t, err)
	require.Equal(t, 80.0, cleared.TotalScore.Final)
}

func TestApplyDoesNotModifyCurrentRecord(t *testing.T) {
	current := sampleRecord()

	_, err := appraisal.Apply(current, models.RoleEmployee, appraisal.Patch{
		Objectives: []appraisal.ObjectivePatch{{ID: "obj-1", EmployeeScore: ptr(10.0)}},
	})
	require.NoError(t, err)
	require.Equal(t, 0.0, current.Objectives[0].EmployeeScore)
}

func TestApplyRejectsInvalidObjectiveSetAtomically(t *testing.T) {
	current := sampleRecord()

	_, err := appraisal.Apply(current, models.RoleTeamLead, appraisal.Patch{
		Title:        ptr("renamed"),
		ObjectiveSet: []models.Objective{{ID: "obj-1", Marks: 60}, {ID: "obj-9", Marks: 30}},
	})
	require.ErrorIs(t, err, appraisal.ErrScoreBudget)
	require.Equal(t, "H1 review", current.Title)
}

func TestApplyObjectiveSetKeepsScoresOfSurvivingObjectives(t *testing.T) {
	current := sampleRecord()
	current.Objectives[0].EmployeeScore = 20
	current.Objectives[0].TeamLeadScore = 25

	next, err := appraisal.Apply(current, models.RoleTeamLead, appraisal.Patch{
		ObjectiveSet: []models.Objective{
			{ID: "obj-1", Description: "Delivery", Marks: 50},
			{ID: "obj-4", Description: "Mentoring", Marks: 50},
		},
	})
	require.NoError(t, err)
	require.Len(t, next.Objectives, 2)
	require.Equal(t, 20.0, next.Objectives[0].EmployeeScore)
	require.Equal(t, 25.0, next.Objectives[0].TeamLeadScore)
	require.Equal(t, 0.0, next.Objectives[1].TeamLeadScore)
	require.Equal(t, 25.0, next.TotalScore.TeamLead)
}

func TestApplyObjectiveSetCapsCarriedScoresAtNewMarks(t *testing.T) {
	current := sampleRecord()
	current.Objectives[0].EmployeeScore = 35
	current.Objectives[0].TeamLeadScore = 38

	next, err := appraisal.Apply(current, models.RoleTeamLead, appraisal.Patch{
		ObjectiveSet: []models.Objective{
			{ID: "obj-1", Description: "Delivery", Marks: 20},
			{ID: "obj-4", Description: "Mentoring", Marks: 80},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 20.0, next.Objectives[0].EmployeeScore)
	require.Equal(t, 20.0, next.Objectives[0].TeamLeadScore)
	require.Equal(t, 20.0, next.TotalScore.TeamLead)
}

func TestApplyEmployeeCannotReplaceObjectiveSet(t *testing.T) {
	_, err := appraisal.Apply(sampleRecord(), models.RoleEmployee, appraisal.Patch{ObjectiveSet: sampleObjectives()})
	require.ErrorIs(t, err, appraisal.ErrNotAuthorized)
}

func TestApplyStatusAllowList(t *testing.T) {
	for _, status := range []models.AppraisalStatus{
		models.AppraisalStatusPending,
		models.AppraisalStatusSubmitted,
		models.AppraisalStatusNeedsRevision,
		models.AppraisalStatusSentToEmployee,
	} {
		next, err := appraisal.Apply(sampleRecord(), models.RoleTeamLead, appraisal.Patch{Status: ptr(status)})
		require.NoError(t, err)
		require.Equal(t, status, next.Status)
	}

	for _, status := range []models.AppraisalStatus{models.AppraisalStatusApproved, models.AppraisalStatusRejected, "archived"} {
		_, err := appraisal.Apply(sampleRecord(), models.RoleHR, appraisal.Patch{Status: ptr(status)})
		require.ErrorIs(t, err, appraisal.ErrInvalidStatus)
	}
}

func TestApplyCopiesRevisionReasonRegardlessOfStatus(t *testing.T) {
	next, err := appraisal.Apply(sampleRecord(), models.RoleHR, appraisal.Patch{RevisionReason: ptr("missing evidence")})
	require.NoError(t, err)
	require.Equal(t, "missing evidence", next.RevisionReason)
	require.Equal(t, models.AppraisalStatusPending, next.Status)
}

func TestApplyRejectsScoresAboveMarks(t *testing.T) {
	_, err := appraisal.Apply(sampleRecord(), models.RoleEmployee, appraisal.Patch{
		Objectives: []appraisal.ObjectivePatch{{ID: "obj-3", EmployeeScore: ptr(26.0)}},
	})
	require.ErrorIs(t, err, appraisal.ErrInvalidScore)

	_, err = appraisal.Apply(sampleRecord(), models.RoleTeamLead, appraisal.Patch{
		Objectives: []appraisal.ObjectivePatch{{ID: "obj-3", TeamLeadScore: ptr(-1.0)}},
	})
	require.ErrorIs(t, err, appraisal.ErrInvalidScore)
}

func TestApplyRejectsClosedRecords(t *testing.T) {
	for _, status := range []models.AppraisalStatus{models.AppraisalStatusApproved, models.AppraisalStatusRejected} {
		current := sampleRecord()
		current.Status = status
		_, err := appraisal.Apply(current, models.RoleHR, appraisal.Patch{Title: ptr("late edit")})
		require.ErrorIs(t, err, appraisal.ErrAppraisalClosed)
	}
}

func TestStrategyForIsSelectedByRole(t *testing.T) {
	require.Equal(t, models.RoleEmployee, appraisal.StrategyFor(models.RoleEmployee).Role())
	require.Equal(t, models.RoleTeamLead, appraisal.StrategyFor(models.RoleTeamLead).Role())
	require.Equal(t, models.RoleHR, appraisal.StrategyFor(models.RoleHR).Role())
	require.Equal(t, models.RoleAdmin, appraisal.StrategyFor(models.RoleAdmin).Role())
}
