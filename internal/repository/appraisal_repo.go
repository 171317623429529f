package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/hris-go-api/internal/appraisal"
	"github.com/noah-isme/hris-go-api/internal/models"
)

// AppraisalListFilter pairs a visibility filter with pagination.
type AppraisalListFilter struct {
	appraisal.Filter
	Page     int
	PageSize int
}

// StatusCount is the number of records in one status.
type StatusCount struct {
	Status models.AppraisalStatus
	Total  int64
}

// AppraisalRepository persists appraisal records and their review trail.
type AppraisalRepository interface {
	Create(ctx context.Context, record *models.Appraisal) error
	FindByID(ctx context.Context, companyID, id uint) (models.Appraisal, error)
	List(ctx context.Context, filter AppraisalListFilter) ([]models.Appraisal, int64, error)
	CountByStatus(ctx context.Context, filter appraisal.Filter) ([]StatusCount, error)
	Update(ctx context.Context, record *models.Appraisal, expectedVersion int) error
	ApplyReview(ctx context.Context, record *models.Appraisal, entry *models.ReviewTrailEntry, expectedVersion int) error
}

type appraisalRepository struct {
	db *gorm.DB
}

// NewAppraisalRepository constructs a repository backed by GORM.
func NewAppraisalRepository(db *gorm.DB) AppraisalRepository {
	return &appraisalRepository{db: db}
}

func (r *appraisalRepository) Create(ctx context.Context, record *models.Appraisal) error {
	if record.Version == 0 {
		record.Version = 1
	}

	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return appraisal.ErrDuplicateAppraisal
	}
	return err
}

func (r *appraisalRepository) FindByID(ctx context.Context, companyID, id uint) (models.Appraisal, error) {
	var record models.Appraisal
	err := r.db.WithContext(ctx).
		Preload("ReviewTrail", orderTrail).
		Where("company_id = ?", companyID).
		First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Appraisal{}, appraisal.ErrAppraisalNotFound
		}
		return models.Appraisal{}, err
	}

	return record, nil
}

func (r *appraisalRepository) List(ctx context.Context, filter AppraisalListFilter) ([]models.Appraisal, int64, error) {
	if filter.Empty {
		return []models.Appraisal{}, 0, nil
	}

	query := applyVisibility(r.db.WithContext(ctx).Model(&models.Appraisal{}), filter.Filter)

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var records []models.Appraisal
	if err := query.
		Preload("ReviewTrail", orderTrail).
		Order("appraisals.created_at DESC").
		Order("appraisals.id DESC").
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *appraisalRepository) CountByStatus(ctx context.Context, filter appraisal.Filter) ([]StatusCount, error) {
	if filter.Empty {
		return []StatusCount{}, nil
	}

	var counts []StatusCount
	err := applyVisibility(r.db.WithContext(ctx).Model(&models.Appraisal{}), filter).
		Select("appraisals.status AS status, COUNT(*) AS total").
		Group("appraisals.status").
		Order("appraisals.status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *appraisalRepository) Update(ctx context.Context, record *models.Appraisal, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateVersioned(tx, record, expectedVersion)
	})
}

func (r *appraisalRepository) ApplyReview(ctx context.Context, record *models.Appraisal, entry *models.ReviewTrailEntry, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateVersioned(tx, record, expectedVersion); err != nil {
			return err
		}

		entry.AppraisalID = record.ID
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		if n := len(record.ReviewTrail); n > 0 {
			record.ReviewTrail[n-1].ID = entry.ID
			record.ReviewTrail[n-1].AppraisalID = record.ID
		}
		return nil
	})
}

func updateVersioned(tx *gorm.DB, record *models.Appraisal, expectedVersion int) error {
	now := time.Now().UTC()
	result := tx.Model(&models.Appraisal{}).
		Where("id = ? AND company_id = ? AND version = ?", record.ID, record.CompanyID, expectedVersion).
		Updates(map[string]interface{}{
			"title":           record.Title,
			"period":          record.Period,
			"due_date":        record.DueDate,
			"objectives":      record.Objectives,
			"total_employee":  record.TotalScore.Employee,
			"total_team_lead": record.TotalScore.TeamLead,
			"total_final":     record.TotalScore.Final,
			"hr_innovation":   record.HRAdjustments.Innovation,
			"hr_commendation": record.HRAdjustments.Commendation,
			"hr_query":        record.HRAdjustments.Query,
			"hr_major_error":  record.HRAdjustments.MajorError,
			"status":          record.Status,
			"review_level":    record.ReviewLevel,
			"revision_reason": record.RevisionReason,
			"version":         expectedVersion + 1,
			"updated_at":      now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return appraisal.ErrVersionConflict
	}

	record.Version = expectedVersion + 1
	record.UpdatedAt = now
	return nil
}

func orderTrail(db *gorm.DB) *gorm.DB {
	return db.Order("date ASC").Order("id ASC")
}

func applyVisibility(query *gorm.DB, filter appraisal.Filter) *gorm.DB {
	query = query.Where("appraisals.company_id = ?", filter.CompanyID)

	if filter.EmployeeID != nil {
		query = query.Where("appraisals.employee_id = ?", *filter.EmployeeID)
	}
	if filter.TeamLeadID != nil {
		query = query.Where("appraisals.team_lead_id = ?", *filter.TeamLeadID)
	}
	if filter.ReviewLevel != nil {
		query = query.Where("appraisals.review_level = ?", *filter.ReviewLevel)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("appraisals.status IN ?", filter.Statuses)
	}
	if filter.RequireTrail != nil {
		if filter.RequireTrail.Action != "" {
			query = query.Where("EXISTS (SELECT 1 FROM review_trail_entries rt WHERE rt.appraisal_id = appraisals.id AND rt.role = ? AND rt.action = ?)",
				filter.RequireTrail.Role, filter.RequireTrail.Action)
		} else {
			query = query.Where("EXISTS (SELECT 1 FROM review_trail_entries rt WHERE rt.appraisal_id = appraisals.id AND rt.role = ?)",
				filter.RequireTrail.Role)
		}
	}
	if filter.ExcludeTrailRole != "" {
		query = query.Where("NOT EXISTS (SELECT 1 FROM review_trail_entries rx WHERE rx.appraisal_id = appraisals.id AND rx.role = ?)",
			filter.ExcludeTrailRole)
	}

	return query
}
