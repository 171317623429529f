package appraisal

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of them.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrNotAuthorized = errors.New("not authorized")
	ErrConflict      = errors.New("conflict")
	ErrDependency    = errors.New("dependency failure")
)

var (
	// ErrScoreBudget indicates an objective set whose marks do not sum to the budget.
	ErrScoreBudget = fmt.Errorf("%w: score budget violated", ErrValidation)
	// ErrInvalidStatus indicates a status outside the update allow-list.
	ErrInvalidStatus = fmt.Errorf("%w: status not allowed", ErrValidation)
	// ErrInvalidScore indicates a score outside [0, marks] of its objective.
	ErrInvalidScore = fmt.Errorf("%w: score out of range", ErrValidation)
	// ErrAppraisalNotFound indicates the record does not exist for the caller's tenant.
	ErrAppraisalNotFound = fmt.Errorf("%w: appraisal", ErrNotFound)
	// ErrForbidden indicates the caller may not act on the record.
	ErrForbidden = fmt.Errorf("%w: insufficient permissions", ErrNotAuthorized)
	// ErrAlreadyReviewed indicates the record is not awaiting a review decision.
	ErrAlreadyReviewed = fmt.Errorf("%w: appraisal already reviewed", ErrConflict)
	// ErrAppraisalClosed indicates an update against an approved or rejected record.
	ErrAppraisalClosed = fmt.Errorf("%w: appraisal is closed", ErrConflict)
	// ErrVersionConflict indicates a concurrent writer changed the record first.
	ErrVersionConflict = fmt.Errorf("%w: appraisal was modified concurrently", ErrConflict)
	// ErrDuplicateAppraisal indicates a record already exists for the employee and period.
	ErrDuplicateAppraisal = fmt.Errorf("%w: appraisal already exists for period", ErrConflict)
	// ErrNotificationFailed indicates a required notification could not be delivered.
	ErrNotificationFailed = fmt.Errorf("%w: notification dispatch failed", ErrDependency)
)
