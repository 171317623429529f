package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/hris-go-api/internal/dto"
	"github.com/noah-isme/hris-go-api/internal/models"
	"github.com/noah-isme/hris-go-api/internal/repository"
)

const systemActor = "system"

var (
	errActivityAction = errors.New("activity action is required")
	errActivityEntity = errors.New("activity entity type is required")
)

// ActivityEntry is one auditable event. A zero ActorID marks a system generated event.
type ActivityEntry struct {
	CompanyID  uint
	ActorID    uint
	ActorRole  string
	Action     string
	Status     string
	EntityType string
	EntityID   *uint
	Metadata   map[string]interface{}
}

// ActivityRecorder appends events to the audit trail.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error)
}

// ActivityService records and lists the per-tenant audit trail.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, companyID uint, req dto.ActivityListRequest) (dto.ActivityListResponse, error)
}

type activityService struct {
	repo   repository.ActivityLogRepository
	logger zerolog.Logger
}

// NewActivityService constructs the activity log service.
func NewActivityService(repo repository.ActivityLogRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		logger: logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error) {
	action := lowerTrim(entry.Action)
	if action == "" {
		return dto.ActivityResponse{}, errActivityAction
	}
	entity := lowerTrim(entry.EntityType)
	if entity == "" {
		return dto.ActivityResponse{}, errActivityEntity
	}

	role := systemActor
	if parsed := models.ParseRole(entry.ActorRole); parsed != "" {
		role = string(parsed)
	}
	status := models.ActivityStatusSuccess
	if lowerTrim(entry.Status) == models.ActivityStatusFailure {
		status = models.ActivityStatusFailure
	}

	record := models.ActivityLog{
		CompanyID:  entry.CompanyID,
		ActorID:    entry.ActorID,
		ActorRole:  role,
		Action:     action,
		Status:     status,
		EntityType: entity,
		EntityID:   entry.EntityID,
		Metadata:   redactMetadata(entry.Metadata),
	}
	if err := s.repo.Create(ctx, &record); err != nil {
		s.logger.Error().Err(err).Uint("company_id", record.CompanyID).Str("action", action).Msg("audit entry not persisted")
		return dto.ActivityResponse{}, err
	}

	return dto.NewActivityResponse(record), nil
}

func (s *activityService) List(ctx context.Context, companyID uint, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	page, pageSize := dto.NormalizePage(req.Page, req.PageSize)

	filter := repository.ActivityLogFilter{
		Page:       page,
		PageSize:   pageSize,
		CompanyID:  companyID,
		Action:     lowerTrim(req.Action),
		Status:     lowerTrim(req.Status),
		EntityType: lowerTrim(req.EntityType),
		Since:      req.From,
		Until:      req.To,
	}
	if req.ActorID > 0 {
		filter.ActorID = &req.ActorID
	}
	if req.EntityID > 0 {
		filter.EntityID = &req.EntityID
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	items := make([]dto.ActivityResponse, len(entries))
	for i := range entries {
		items[i] = dto.NewActivityResponse(entries[i])
	}

	return dto.ActivityListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(page, pageSize, total),
	}, nil
}

func lowerTrim(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// secretMarkers flag metadata keys whose values never reach the audit trail.
var secretMarkers = []string{"token", "password", "secret", "salary"}

// redactMetadata hides secrets, masks email addresses and walks nested maps.
func redactMetadata(metadata map[string]interface{}) datatypes.JSONMap {
	redacted := make(datatypes.JSONMap, len(metadata))
	for key, value := range metadata {
		redacted[key] = redactValue(strings.ToLower(key), value)
	}
	return redacted
}

func redactValue(key string, value interface{}) interface{} {
	for _, marker := range secretMarkers {
		if strings.Contains(key, marker) {
			return "***"
		}
	}
	switch v := value.(type) {
	case map[string]interface{}:
		return map[string]interface{}(redactMetadata(v))
	case string:
		if strings.Contains(key, "email") {
			return maskEmailAddress(v)
		}
		return v
	default:
		if strings.Contains(key, "email") {
			return "***"
		}
		return v
	}
}
