package appraisal_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hris-go-api/internal/appraisal"
	"github.com/noah-isme/hris-go-api/internal/models"
)

func scoredObjectives() []models.Objective {
	objectives := sampleObjectives()
	objectives[0].EmployeeScore, objectives[0].TeamLeadScore = 35, 30
	objectives[1].EmployeeScore, objectives[1].TeamLeadScore = 30, 28
	objectives[2].EmployeeScore, objectives[2].TeamLeadScore = 20, 22
	return objectives
}

func TestAggregateSumsEmployeeAndTeamLeadScores(t *testing.T) {
	totals := appraisal.Aggregate(scoredObjectives(), models.RoleEmployee, models.HRAdjustments{}, 0)
	require.Equal(t, 85.0, totals.Employee)
	require.Equal(t, 80.0, totals.TeamLead)
	require.Equal(t, 0.0, totals.Final)
}

func TestAggregateTeamLeadFinalMirrorsTeamLeadTotal(t *testing.T) {
	totals := appraisal.Aggregate(scoredObjectives(), models.RoleTeamLead, models.HRAdjustments{Innovation: true}, 12)
	require.Equal(t, 80.0, totals.Final)
}

func TestAggregateHRAppliesAdjustmentDeltas(t *testing.T) {
	adj := models.HRAdjustments{Innovation: true, Commendation: true, Query: true, MajorError: true}
	totals := appraisal.Aggregate(scoredObjectives(), models.RoleHR, adj, 80)
	require.Equal(t, 80.0+3+3-4-15, totals.Final)
}

func TestAggregateEmployeeKeepsPreviousFinal(t *testing.T) {
	totals := appraisal.Aggregate(scoredObjectives(), models.RoleEmployee, models.HRAdjustments{MajorError: true}, 77)
	require.Equal(t, 77.0, totals.Final)

	admin := appraisal.Aggregate(scoredObjectives(), models.RoleAdmin, models.HRAdjustments{}, 64)
	require.Equal(t, 64.0, admin.Final)
}

func TestAggregateHRFinalIsNotCumulativeAcrossToggles(t *testing.T) {
	objectives := scoredObjectives()
	once := appraisal.Aggregate(objectives, models.RoleHR, models.HRAdjustments{MajorError: true}, 0)

	final := 0.0
	for _, flag := range []bool{true, false, true} {
		final = appraisal.Aggregate(objectives, models.RoleHR, models.HRAdjustments{MajorError: flag}, final).Final
	}
	require.Equal(t, once.Final, final)
}

func TestRecomputeIsIdempotent(t *testing.T) {
	record := sampleRecord()
	record.Objectives = scoredObjectives()

	appraisal.Recompute(&record, models.RoleTeamLead)
	first := record.TotalScore
	appraisal.Recompute(&record, models.RoleTeamLead)

	require.Equal(t, first, record.TotalScore)
	require.Equal(t, 30.0, record.Objectives[0].FinalScore)
}
