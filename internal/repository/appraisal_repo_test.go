package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hris-go-api/internal/appraisal"
	"github.com/noah-isme/hris-go-api/internal/models"
)

func newAppraisal(companyID, employeeID, leadID uint, period string) models.Appraisal {
	return models.Appraisal{
		CompanyID:    companyID,
		Title:        "Mid-year review",
		EmployeeID:   employeeID,
		TeamLeadID:   leadID,
		DepartmentID: 5,
		Period:       period,
		DueDate:      time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		Objectives: []models.Objective{
			{ID: "a", Description: "Delivery", Marks: 60},
			{ID: "b", Description: "Quality", Marks: 40},
		},
		Status:      models.AppraisalStatusPending,
		ReviewLevel: models.ReviewLevelTeamLead,
	}
}

func TestAppraisalRepositoryCreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAppraisalRepository(db)
	ctx := context.Background()

	record := newAppraisal(1, 30, 20, "2026-H1")
	require.NoError(t, repo.Create(ctx, &record))
	require.NotZero(t, record.ID)
	require.Equal(t, 1, record.Version)

	found, err := repo.FindByID(ctx, 1, record.ID)
	require.NoError(t, err)
	require.Len(t, found.Objectives, 2)
	require.Equal(t, "Delivery", found.Objectives[0].Description)

	_, err = repo.FindByID(ctx, 2, record.ID)
	require.ErrorIs(t, err, appraisal.ErrAppraisalNotFound)

	duplicate := newAppraisal(1, 30, 20, "2026-H1")
	require.ErrorIs(t, repo.Create(ctx, &duplicate), appraisal.ErrDuplicateAppraisal)

	otherTenant := newAppraisal(2, 30, 20, "2026-H1")
	require.NoError(t, repo.Create(ctx, &otherTenant))
}

func TestAppraisalRepositoryUpdateChecksVersion(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAppraisalRepository(db)
	ctx := context.Background()

	record := newAppraisal(1, 30, 20, "2026-H1")
	require.NoError(t, repo.Create(ctx, &record))

	stale := record
	record.Objectives[0].EmployeeScore = 50
	record.TotalScore.Employee = 50
	record.HRAdjustments.Innovation = true
	require.NoError(t, repo.Update(ctx, &record, 1))
	require.Equal(t, 2, record.Version)

	stale.Title = "overwritten"
	require.ErrorIs(t, repo.Update(ctx, &stale, 1), appraisal.ErrVersionConflict)

	found, err := repo.FindByID(ctx, 1, record.ID)
	require.NoError(t, err)
	require.Equal(t, 2, found.Version)
	require.Equal(t, "Mid-year review", found.Title)
	require.Equal(t, 50.0, found.Objectives[0].EmployeeScore)
	require.Equal(t, 50.0, found.TotalScore.Employee)
	require.True(t, found.HRAdjustments.Innovation)
}

func TestAppraisalRepositoryConcurrentUpdatesLoseExactlyOne(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAppraisalRepository(db)
	ctx := context.Background()

	record := newAppraisal(1, 30, 20, "2026-H1")
	require.NoError(t, repo.Create(ctx, &record))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			copyRecord := record
			errs[i] = repo.Update(ctx, &copyRecord, 1)
		}(i)
	}
	wg.Wait()

	conflicts := 0
	for _, err := range errs {
		if err != nil {
			require.ErrorIs(t, err, appraisal.ErrVersionConflict)
			conflicts++
		}
	}
	require.Equal(t, 1, conflicts)
}

func TestAppraisalRepositoryApplyReviewAppendsTrail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAppraisalRepository(db)
	ctx := context.Background()

	record := newAppraisal(1, 30, 20, "2026-H1")
	record.Status = models.AppraisalStatusSubmitted
	require.NoError(t, repo.Create(ctx, &record))

	transition, err := appraisal.Approve(record, appraisal.Reviewer{ID: 20, Role: models.RoleTeamLead}, time.Now())
	require.NoError(t, err)
	next := transition.Record
	entry := transition.Entry
	require.NoError(t, repo.ApplyReview(ctx, &next, &entry, record.Version))
	require.NotZero(t, entry.ID)

	found, err := repo.FindByID(ctx, 1, record.ID)
	require.NoError(t, err)
	require.Equal(t, models.ReviewLevelHR, found.ReviewLevel)
	require.Len(t, found.ReviewTrail, 1)
	require.Equal(t, models.RoleTeamLead, found.ReviewTrail[0].Role)

	replay := transition.Entry
	require.ErrorIs(t, repo.ApplyReview(ctx, &transition.Record, &replay, record.Version), appraisal.ErrVersionConflict)

	found, err = repo.FindByID(ctx, 1, record.ID)
	require.NoError(t, err)
	require.Len(t, found.ReviewTrail, 1)
}

func TestAppraisalRepositoryListAppliesVisibility(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAppraisalRepository(db)
	ctx := context.Background()

	ready := newAppraisal(1, 30, 20, "2026-H1")
	ready.Status = models.AppraisalStatusSubmitted
	ready.ReviewLevel = models.ReviewLevelHR
	require.NoError(t, repo.Create(ctx, &ready))
	require.NoError(t, db.Create(&models.ReviewTrailEntry{AppraisalID: ready.ID, ReviewerID: 20, Role: models.RoleTeamLead, Action: models.ReviewActionApproved, Date: time.Now()}).Error)

	actioned := newAppraisal(1, 31, 20, "2026-H1")
	actioned.Status = models.AppraisalStatusNeedsRevision
	actioned.ReviewLevel = models.ReviewLevelHR
	require.NoError(t, repo.Create(ctx, &actioned))
	require.NoError(t, db.Create(&models.ReviewTrailEntry{AppraisalID: actioned.ID, ReviewerID: 20, Role: models.RoleTeamLead, Action: models.ReviewActionApproved, Date: time.Now()}).Error)
	require.NoError(t, db.Create(&models.ReviewTrailEntry{AppraisalID: actioned.ID, ReviewerID: 90, Role: models.RoleHR, Action: models.ReviewActionRejected, Date: time.Now()}).Error)

	pending := newAppraisal(1, 32, 21, "2026-H1")
	require.NoError(t, repo.Create(ctx, &pending))

	foreign := newAppraisal(2, 30, 20, "2026-H1")
	foreign.Status = models.AppraisalStatusSubmitted
	foreign.ReviewLevel = models.ReviewLevelHR
	require.NoError(t, repo.Create(ctx, &foreign))

	hr := appraisal.Viewer{ID: 90, Role: models.RoleHR, CompanyID: 1}
	items, total, err := repo.List(ctx, AppraisalListFilter{Filter: appraisal.ActivityFilter(hr, "")})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	require.Equal(t, ready.ID, items[0].ID)
	require.Len(t, items[0].ReviewTrail, 1)

	admin := appraisal.Viewer{ID: 1, Role: models.RoleAdmin, CompanyID: 1}
	items, total, err = repo.List(ctx, AppraisalListFilter{Filter: appraisal.ActivityFilter(admin, "all"), Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, items, 1)

	lead := appraisal.Viewer{ID: 21, Role: models.RoleTeamLead, CompanyID: 1}
	items, _, err = repo.List(ctx, AppraisalListFilter{Filter: appraisal.QueueFilter(lead, "")})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, pending.ID, items[0].ID)

	employee := appraisal.Viewer{ID: 30, Role: models.RoleEmployee, CompanyID: 1}
	items, total, err = repo.List(ctx, AppraisalListFilter{Filter: appraisal.QueueFilter(employee, "")})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, items)

	counts, err := repo.CountByStatus(ctx, appraisal.ActivityFilter(admin, ""))
	require.NoError(t, err)
	require.ElementsMatch(t, []StatusCount{
		{Status: models.AppraisalStatusNeedsRevision, Total: 1},
		{Status: models.AppraisalStatusPending, Total: 1},
		{Status: models.AppraisalStatusSubmitted, Total: 1},
	}, counts)
}
