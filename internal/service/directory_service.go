package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hris-go-api/internal/models"
	"github.com/noah-isme/hris-go-api/internal/repository"
)

// ErrDepartmentHasNoLead indicates a department without an assigned team lead.
var ErrDepartmentHasNoLead = errors.New("department has no team lead")

// DirectoryService resolves users and departments for the appraisal engine.
type DirectoryService interface {
	GetUser(ctx context.Context, companyID, userID uint) (models.User, error)
	DepartmentRoster(ctx context.Context, companyID, departmentID uint) ([]models.User, error)
	UsersByRole(ctx context.Context, companyID uint, role models.Role) ([]models.User, error)
	DepartmentTeamLead(ctx context.Context, companyID, departmentID uint) (models.User, error)
	Invalidate(ctx context.Context, companyID uint) error
}

type directoryService struct {
	repo     repository.DirectoryRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewDirectoryService constructs a directory service with an optional redis roster cache.
func NewDirectoryService(repo repository.DirectoryRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DirectoryService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &directoryService{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "directory_service").Logger(),
	}
}

func (s *directoryService) GetUser(ctx context.Context, companyID, userID uint) (models.User, error) {
	return s.repo.FindUser(ctx, companyID, userID)
}

func (s *directoryService) DepartmentRoster(ctx context.Context, companyID, departmentID uint) ([]models.User, error) {
	key := fmt.Sprintf("directory:%d:department:%d", companyID, departmentID)
	return s.cachedUsers(ctx, companyID, key, func() ([]models.User, error) {
		return s.repo.ListUsers(ctx, repository.UserFilter{
			CompanyID:    companyID,
			DepartmentID: &departmentID,
			Role:         models.RoleEmployee,
		})
	})
}

func (s *directoryService) UsersByRole(ctx context.Context, companyID uint, role models.Role) ([]models.User, error) {
	key := fmt.Sprintf("directory:%d:role:%s", companyID, role)
	return s.cachedUsers(ctx, companyID, key, func() ([]models.User, error) {
		return s.repo.ListUsers(ctx, repository.UserFilter{CompanyID: companyID, Role: role})
	})
}

func (s *directoryService) DepartmentTeamLead(ctx context.Context, companyID, departmentID uint) (models.User, error) {
	department, err := s.repo.FindDepartment(ctx, companyID, departmentID)
	if err != nil {
		return models.User{}, err
	}
	if department.TeamLeadID == nil {
		return models.User{}, ErrDepartmentHasNoLead
	}
	return s.repo.FindUser(ctx, companyID, *department.TeamLeadID)
}

// Invalidate drops every cached roster of the company.
func (s *directoryService) Invalidate(ctx context.Context, companyID uint) error {
	if s.cache == nil {
		return nil
	}

	indexKey := directoryIndexKey(companyID)
	keys, err := s.cache.SMembers(ctx, indexKey).Result()
	if err != nil {
		return err
	}
	keys = append(keys, indexKey)
	return s.cache.Del(ctx, keys...).Err()
}

func (s *directoryService) cachedUsers(ctx context.Context, companyID uint, key string, load func() ([]models.User, error)) ([]models.User, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			var users []models.User
			if unmarshalErr := json.Unmarshal([]byte(cached), &users); unmarshalErr == nil {
				s.logger.Debug().Str("key", key).Msg("directory cache hit")
				return users, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read directory cache")
		}
	}

	users, err := load()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		payload, err := json.Marshal(users)
		if err == nil {
			pipe := s.cache.TxPipeline()
			pipe.Set(ctx, key, payload, s.cacheTTL)
			pipe.SAdd(ctx, directoryIndexKey(companyID), key)
			pipe.Expire(ctx, directoryIndexKey(companyID), s.cacheTTL)
			if _, err := pipe.Exec(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store directory cache")
			}
		}
	}

	return users, nil
}

func directoryIndexKey(companyID uint) string {
	return fmt.Sprintf("directory:%d:keys", companyID)
}
