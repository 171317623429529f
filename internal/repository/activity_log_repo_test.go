package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hris-go-api/internal/models"
)

func TestActivityLogRepositoryFiltersByTenantAndStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityLogRepository(db)
	ctx := context.Background()

	entityID := uint(7)
	entries := []models.ActivityLog{
		{CompanyID: 1, ActorID: 20, ActorRole: "teamlead", Action: "appraisal.approve", Status: models.ActivityStatusSuccess, EntityType: "appraisal", EntityID: &entityID},
		{CompanyID: 1, ActorID: 90, ActorRole: "hr", Action: "appraisal.reject", Status: models.ActivityStatusFailure, EntityType: "appraisal", EntityID: &entityID},
		{CompanyID: 1, ActorID: 30, ActorRole: "employee", Action: "appraisal.update", Status: models.ActivityStatusSuccess, EntityType: "appraisal"},
		{CompanyID: 2, ActorID: 20, ActorRole: "teamlead", Action: "appraisal.approve", Status: models.ActivityStatusSuccess, EntityType: "appraisal"},
	}
	for i := range entries {
		require.NoError(t, repo.Create(ctx, &entries[i]))
	}

	items, total, err := repo.List(ctx, ActivityLogFilter{CompanyID: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, items, 3)

	items, total, err = repo.List(ctx, ActivityLogFilter{CompanyID: 1, Status: models.ActivityStatusFailure})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "appraisal.reject", items[0].Action)

	_, total, err = repo.List(ctx, ActivityLogFilter{CompanyID: 1, EntityID: &entityID, Page: 1, PageSize: 1})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
}

func TestActivityLogRepositoryFiltersByTimeWindow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityLogRepository(db)
	ctx := context.Background()

	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	for i, at := range []time.Time{day.Add(-time.Hour), day.Add(9 * time.Hour), day.Add(30 * time.Hour)} {
		entry := models.ActivityLog{
			CompanyID:  1,
			ActorID:    uint(20 + i),
			ActorRole:  "teamlead",
			Action:     "appraisal.approve",
			Status:     models.ActivityStatusSuccess,
			EntityType: "appraisal",
			CreatedAt:  at,
		}
		require.NoError(t, repo.Create(ctx, &entry))
	}

	until := day.AddDate(0, 0, 1)
	items, total, err := repo.List(ctx, ActivityLogFilter{CompanyID: 1, Since: &day, Until: &until})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, uint(21), items[0].ActorID)

	items, total, err = repo.List(ctx, ActivityLogFilter{CompanyID: 9})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, items)
}
