package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hris-go-api/internal/appraisal"
	"github.com/noah-isme/hris-go-api/internal/dto"
	"github.com/noah-isme/hris-go-api/internal/models"
	"github.com/noah-isme/hris-go-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

// SeedService loads directory data for local environments and demos.
type SeedService interface {
	SeedDirectory(ctx context.Context, token string, req dto.DirectorySeedRequest) (dto.DirectorySeedResponse, error)
}

type seedService struct {
	repo      repository.DirectoryRepository
	directory DirectoryService
	validator *validator.Validate
	enabled   bool
	token     string
	logger    zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(repo repository.DirectoryRepository, directory DirectoryService, validate *validator.Validate, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		repo:      repo,
		directory: directory,
		validator: validate,
		enabled:   enabled,
		token:     token,
		logger:    logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) SeedDirectory(ctx context.Context, token string, req dto.DirectorySeedRequest) (dto.DirectorySeedResponse, error) {
	if !s.enabled {
		return dto.DirectorySeedResponse{}, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return dto.DirectorySeedResponse{}, ErrSeedUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.DirectorySeedResponse{}, fmt.Errorf("%w: %w", appraisal.ErrValidation, err)
	}

	departments := make([]models.Department, 0, len(req.Departments))
	for _, item := range req.Departments {
		departments = append(departments, models.Department{
			ID:         item.ID,
			CompanyID:  req.CompanyID,
			Name:       strings.TrimSpace(item.Name),
			TeamLeadID: item.TeamLeadID,
		})
	}

	users := make([]models.User, 0, len(req.Users))
	for _, item := range req.Users {
		role := models.ParseRole(item.Role)
		switch role {
		case models.RoleEmployee, models.RoleTeamLead, models.RoleHR, models.RoleAdmin:
		default:
			return dto.DirectorySeedResponse{}, fmt.Errorf("%w: unknown role %q for user %d", appraisal.ErrValidation, item.Role, item.ID)
		}
		users = append(users, models.User{
			ID:           item.ID,
			CompanyID:    req.CompanyID,
			DepartmentID: item.DepartmentID,
			Name:         strings.TrimSpace(item.Name),
			Email:        strings.ToLower(strings.TrimSpace(item.Email)),
			Role:         role,
		})
	}

	var response dto.DirectorySeedResponse
	if len(departments) > 0 {
		affected, err := s.repo.UpsertDepartments(ctx, departments)
		if err != nil {
			return dto.DirectorySeedResponse{}, err
		}
		response.Departments = affected
	}
	if len(users) > 0 {
		affected, err := s.repo.UpsertUsers(ctx, users)
		if err != nil {
			return dto.DirectorySeedResponse{}, err
		}
		response.Users = affected
	}

	if s.directory != nil {
		if err := s.directory.Invalidate(ctx, req.CompanyID); err != nil {
			s.logger.Warn().Err(err).Uint("company_id", req.CompanyID).Msg("failed to invalidate directory cache")
		}
	}

	s.logger.Info().
		Uint("company_id", req.CompanyID).
		Int64("departments", response.Departments).
		Int64("users", response.Users).
		Msg("directory seeded")
	return response, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(token))) == 1
}
