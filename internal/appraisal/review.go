package appraisal

import (
	"fmt"
	"time"

	"github.com/noah-isme/hris-go-api/internal/models"
)

// Reviewer is the actor taking an approve or reject decision.
type Reviewer struct {
	ID   uint
	Role models.Role
}

// Outcome describes what a review decision did to the record.
type Outcome string

const (
	// OutcomeEscalated means the team lead approved and the record now awaits HR.
	OutcomeEscalated Outcome = "escalated"
	// OutcomeApproved means HR approved and the record is closed.
	OutcomeApproved Outcome = "approved"
	// OutcomeRejected means a reviewer rejected and the record is closed.
	OutcomeRejected Outcome = "rejected"
)

// Transition is the result of a review decision.
type Transition struct {
	Record  models.Appraisal
	Entry   models.ReviewTrailEntry
	Outcome Outcome
	// Level is the review level the decision was taken at.
	Level models.ReviewLevel
}

// LevelRole maps a review level to the role empowered to act at it.
func LevelRole(level models.ReviewLevel) (models.Role, bool) {
	switch level {
	case models.ReviewLevelTeamLead:
		return models.RoleTeamLead, true
	case models.ReviewLevelHR:
		return models.RoleHR, true
	default:
		return "", false
	}
}

// AwaitingReview reports whether a record in status accepts approve/reject decisions.
func AwaitingReview(status models.AppraisalStatus) bool {
	return status == models.AppraisalStatusSubmitted || status == models.AppraisalStatusNeedsRevision
}

// Approve records an approval. At the team lead level the record escalates to HR with its
// status unchanged; at the HR level the record becomes approved.
func Approve(current models.Appraisal, reviewer Reviewer, now time.Time) (Transition, error) {
	return decide(current, reviewer, models.ReviewActionApproved, now)
}

// Reject records a rejection, which closes the record at either level.
func Reject(current models.Appraisal, reviewer Reviewer, now time.Time) (Transition, error) {
	return decide(current, reviewer, models.ReviewActionRejected, now)
}

func decide(current models.Appraisal, reviewer Reviewer, action models.ReviewAction, now time.Time) (Transition, error) {
	if !AwaitingReview(current.Status) {
		return Transition{}, ErrAlreadyReviewed
	}

	role, ok := LevelRole(current.ReviewLevel)
	if !ok || reviewer.Role != role {
		return Transition{}, fmt.Errorf("%w: role %q cannot review at level %q", ErrForbidden, reviewer.Role, current.ReviewLevel)
	}
	if role == models.RoleTeamLead && reviewer.ID != current.TeamLeadID {
		return Transition{}, fmt.Errorf("%w: reviewer is not the assigned team lead", ErrForbidden)
	}

	entry := models.ReviewTrailEntry{
		AppraisalID: current.ID,
		ReviewerID:  reviewer.ID,
		Role:        reviewer.Role,
		Action:      action,
		Date:        now.UTC(),
	}

	next := current
	next.ReviewTrail = append(append([]models.ReviewTrailEntry(nil), current.ReviewTrail...), entry)

	var outcome Outcome
	switch {
	case action == models.ReviewActionRejected:
		next.Status = models.AppraisalStatusRejected
		outcome = OutcomeRejected
	case current.ReviewLevel == models.ReviewLevelTeamLead:
		next.ReviewLevel = models.ReviewLevelHR
		outcome = OutcomeEscalated
	default:
		next.Status = models.AppraisalStatusApproved
		outcome = OutcomeApproved
	}

	return Transition{Record: next, Entry: entry, Outcome: outcome, Level: current.ReviewLevel}, nil
}
