package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/hris-go-api/internal/models"
)

// ErrNotificationNotFound is returned when a notification does not exist or belongs to someone else.
var ErrNotificationNotFound = errors.New("notification not found")

const (
	defaultInboxPage = 50
	maxInboxPage     = 100
)

// NotificationRepository stores the in-app inbox of every user.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID uint) (models.Notification, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository constructs a repository backed by GORM.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func recipient(userID uint) func(*gorm.DB) *gorm.DB {
	return columnEquals("user_id", userID)
}

// ListByUser returns the newest notifications first.
func (r *notificationRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 || limit > maxInboxPage {
		limit = defaultInboxPage
	}
	offset = max(offset, 0)

	inbox := make([]models.Notification, 0, limit)
	err := r.db.WithContext(ctx).
		Scopes(recipient(userID)).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&inbox).Error
	return inbox, err
}

// MarkRead flips the read flag with a single guarded update. Marking an already read notification
// is a no-op that still returns it.
func (r *notificationRepository) MarkRead(ctx context.Context, id, userID uint) (models.Notification, error) {
	var notification models.Notification
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Notification{}).
			Scopes(recipient(userID)).
			Where("id = ? AND read = ?", id, false).
			Update("read", true).Error; err != nil {
			return err
		}
		return tx.Scopes(recipient(userID)).First(&notification, id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Notification{}, ErrNotificationNotFound
	}
	if err != nil {
		return models.Notification{}, err
	}
	return notification, nil
}
