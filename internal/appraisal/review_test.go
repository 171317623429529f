package appraisal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hris-go-api/internal/appraisal"
	"github.com/noah-isme/hris-go-api/internal/models"
)

var reviewTime = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func submittedRecord() models.Appraisal {
	record := sampleRecord()
	record.Status = models.AppraisalStatusSubmitted
	return record
}

func TestApproveAtTeamLeadEscalatesWithoutChangingStatus(t *testing.T) {
	current := submittedRecord()

	transition, err := appraisal.Approve(current, appraisal.Reviewer{ID: 20, Role: models.RoleTeamLead}, reviewTime)
	require.NoError(t, err)

	require.Equal(t, appraisal.OutcomeEscalated, transition.Outcome)
	require.Equal(t, models.ReviewLevelTeamLead, transition.Level)
	require.Equal(t, models.ReviewLevelHR, transition.Record.ReviewLevel)
	require.Equal(t, models.AppraisalStatusSubmitted, transition.Record.Status)
	require.Len(t, transition.Record.ReviewTrail, 1)
	require.Equal(t, models.ReviewTrailEntry{
		AppraisalID: 7,
		ReviewerID:  20,
		Role:        models.RoleTeamLead,
		Action:      models.ReviewActionApproved,
		Date:        reviewTime,
	}, transition.Entry)
	require.Empty(t, current.ReviewTrail)
}

func TestApproveAtHRIsTerminal(t *testing.T) {
	escalated, err := appraisal.Approve(submittedRecord(), appraisal.Reviewer{ID: 20, Role: models.RoleTeamLead}, reviewTime)
	require.NoError(t, err)

	final, err := appraisal.Approve(escalated.Record, appraisal.Reviewer{ID: 90, Role: models.RoleHR}, reviewTime)
	require.NoError(t, err)
	require.Equal(t, appraisal.OutcomeApproved, final.Outcome)
	require.Equal(t, models.AppraisalStatusApproved, final.Record.Status)
	require.Len(t, final.Record.ReviewTrail, 2)

	_, err = appraisal.Approve(final.Record, appraisal.Reviewer{ID: 90, Role: models.RoleHR}, reviewTime)
	require.ErrorIs(t, err, appraisal.ErrAlreadyReviewed)
	_, err = appraisal.Reject(final.Record, appraisal.Reviewer{ID: 90, Role: models.RoleHR}, reviewTime)
	require.ErrorIs(t, err, appraisal.ErrAlreadyReviewed)
}

func TestRejectAlwaysClosesAsRejected(t *testing.T) {
	atTeamLead, err := appraisal.Reject(submittedRecord(), appraisal.Reviewer{ID: 20, Role: models.RoleTeamLead}, reviewTime)
	require.NoError(t, err)
	require.Equal(t, models.AppraisalStatusRejected, atTeamLead.Record.Status)
	require.Equal(t, models.ReviewLevelTeamLead, atTeamLead.Record.ReviewLevel)

	atHR := submittedRecord()
	atHR.Status = models.AppraisalStatusNeedsRevision
	atHR.ReviewLevel = models.ReviewLevelHR
	rejected, err := appraisal.Reject(atHR, appraisal.Reviewer{ID: 90, Role: models.RoleHR}, reviewTime)
	require.NoError(t, err)
	require.Equal(t, appraisal.OutcomeRejected, rejected.Outcome)
	require.Equal(t, models.AppraisalStatusRejected, rejected.Record.Status)

	_, err = appraisal.Reject(rejected.Record, appraisal.Reviewer{ID: 90, Role: models.RoleHR}, reviewTime)
	require.ErrorIs(t, err, appraisal.ErrAlreadyReviewed)
}

func TestReviewRequiresAwaitingStatus(t *testing.T) {
	for _, status := range []models.AppraisalStatus{models.AppraisalStatusPending, models.AppraisalStatusSentToEmployee} {
		record := sampleRecord()
		record.Status = status
		_, err := appraisal.Approve(record, appraisal.Reviewer{ID: 20, Role: models.RoleTeamLead}, reviewTime)
		require.ErrorIs(t, err, appraisal.ErrAlreadyReviewed)
	}
}

func TestReviewRequiresRoleMatchingLevel(t *testing.T) {
	_, err := appraisal.Approve(submittedRecord(), appraisal.Reviewer{ID: 90, Role: models.RoleHR}, reviewTime)
	require.ErrorIs(t, err, appraisal.ErrNotAuthorized)

	atHR := submittedRecord()
	atHR.ReviewLevel = models.ReviewLevelHR
	_, err = appraisal.Reject(atHR, appraisal.Reviewer{ID: 20, Role: models.RoleTeamLead}, reviewTime)
	require.ErrorIs(t, err, appraisal.ErrNotAuthorized)

	_, err = appraisal.Approve(submittedRecord(), appraisal.Reviewer{ID: 1, Role: models.RoleAdmin}, reviewTime)
	require.ErrorIs(t, err, appraisal.ErrNotAuthorized)
}

func TestReviewRequiresAssignedTeamLead(t *testing.T) {
	_, err := appraisal.Approve(submittedRecord(), appraisal.Reviewer{ID: 21, Role: models.RoleTeamLead}, reviewTime)
	require.ErrorIs(t, err, appraisal.ErrNotAuthorized)
}
