package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/hris-go-api/internal/models"
)

// ActivityLogFilter narrows audit trail queries. CompanyID is mandatory; zero values elsewhere mean
// "any".
type ActivityLogFilter struct {
	Page       int
	PageSize   int
	CompanyID  uint
	ActorID    *uint
	Action     string
	Status     string
	EntityType string
	EntityID   *uint
	Since      *time.Time
	Until      *time.Time
}

func (f ActivityLogFilter) scopes() []func(*gorm.DB) *gorm.DB {
	scopes := []func(*gorm.DB) *gorm.DB{columnEquals("company_id", f.CompanyID)}
	if f.ActorID != nil {
		scopes = append(scopes, columnEquals("actor_id", *f.ActorID))
	}
	if f.EntityID != nil {
		scopes = append(scopes, columnEquals("entity_id", *f.EntityID))
	}
	for column, value := range map[string]string{"action": f.Action, "status": f.Status, "entity_type": f.EntityType} {
		if value != "" {
			scopes = append(scopes, columnEquals(column, value))
		}
	}
	if f.Since != nil {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("created_at >= ?", f.Since.UTC()) })
	}
	if f.Until != nil {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("created_at < ?", f.Until.UTC()) })
	}
	return scopes
}

func columnEquals(column string, value interface{}) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", value)
	}
}

func paginate(page, pageSize int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			return db
		}
		if page <= 0 {
			page = 1
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

// ActivityLogRepository is the append-only store behind the audit trail.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, filter ActivityLogFilter) ([]models.ActivityLog, int64, error)
}

type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository constructs the activity log repository.
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List returns one page of entries, newest first, plus the total across all pages.
func (r *activityLogRepository) List(ctx context.Context, filter ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.ActivityLog{}).Scopes(filter.scopes()...)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []models.ActivityLog{}, 0, nil
	}

	var entries []models.ActivityLog
	err := base.Session(&gorm.Session{}).
		Scopes(paginate(filter.Page, filter.PageSize)).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
