package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/hris-go-api/internal/models"
)

// ErrDirectoryEntryNotFound is returned when a user or department does not exist in the tenant.
var ErrDirectoryEntryNotFound = errors.New("directory entry not found")

// UserFilter narrows directory user lookups.
type UserFilter struct {
	CompanyID    uint
	DepartmentID *uint
	Role         models.Role
}

// DirectoryRepository reads and seeds the company directory.
type DirectoryRepository interface {
	FindUser(ctx context.Context, companyID, id uint) (models.User, error)
	FindDepartment(ctx context.Context, companyID, id uint) (models.Department, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]models.User, error)
	UpsertDepartments(ctx context.Context, departments []models.Department) (int64, error)
	UpsertUsers(ctx context.Context, users []models.User) (int64, error)
}

type directoryRepository struct {
	db *gorm.DB
}

// NewDirectoryRepository constructs a repository backed by GORM.
func NewDirectoryRepository(db *gorm.DB) DirectoryRepository {
	return &directoryRepository{db: db}
}

func (r *directoryRepository) FindUser(ctx context.Context, companyID, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("company_id = ?", companyID).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrDirectoryEntryNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *directoryRepository) FindDepartment(ctx context.Context, companyID, id uint) (models.Department, error) {
	var department models.Department
	if err := r.db.WithContext(ctx).Where("company_id = ?", companyID).First(&department, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Department{}, ErrDirectoryEntryNotFound
		}
		return models.Department{}, err
	}
	return department, nil
}

func (r *directoryRepository) ListUsers(ctx context.Context, filter UserFilter) ([]models.User, error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).Where("company_id = ?", filter.CompanyID)

	if filter.DepartmentID != nil {
		query = query.Where("department_id = ?", *filter.DepartmentID)
	}

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	var users []models.User
	if err := query.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (r *directoryRepository) UpsertDepartments(ctx context.Context, departments []models.Department) (int64, error) {
	if len(departments) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"company_id", "name", "team_lead_id", "updated_at"}),
	}).Create(&departments)

	return result.RowsAffected, result.Error
}

func (r *directoryRepository) UpsertUsers(ctx context.Context, users []models.User) (int64, error) {
	if len(users) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"company_id", "department_id", "name", "role", "updated_at"}),
	}).Create(&users)

	return result.RowsAffected, result.Error
}
