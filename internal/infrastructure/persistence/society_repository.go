package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/domain/shared"
	"github.com/societyos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSocietyRepository implements identity.SocietyRepository using GORM
type GormSocietyRepository struct {
	db *gorm.DB
}

// NewGormSocietyRepository creates a new GormSocietyRepository
func NewGormSocietyRepository(db *gorm.DB) *GormSocietyRepository {
	return &GormSocietyRepository{db: db}
}

// Save creates or updates a society
func (r *GormSocietyRepository) Save(ctx context.Context, society *identity.Society) error {
	model := models.SocietyModelFromDomain(society)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// SaveWithLock saves the society with optimistic locking
func (r *GormSocietyRepository) SaveWithLock(ctx context.Context, society *identity.Society) error {
	return runInTransaction(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		var current models.SocietyModel
		if err := tx.Select("version").Where("id = ?", society.GetID()).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// New record, just save
				model := models.SocietyModelFromDomain(society)
				return tx.Create(model).Error
			}
			return err
		}

		// Domain model already incremented the version
		expectedVersion := society.GetVersion() - 1
		if current.Version != expectedVersion {
			return shared.NewDomainError("VERSION_CONFLICT", "Society has been modified by another user")
		}

		model := models.SocietyModelFromDomain(society)
		result := tx.Model(model).
			Where("id = ? AND version = ?", society.GetID(), expectedVersion).
			Save(model)

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("VERSION_CONFLICT", "Society has been modified by another user")
		}
		return nil
	})
}

// FindByID finds a society by its ID
func (r *GormSocietyRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Society, error) {
	var model models.SocietyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a society by its unique code
func (r *GormSocietyRepository) FindByCode(ctx context.Context, code string) (*identity.Society, error) {
	var model models.SocietyModel
	if err := r.db.WithContext(ctx).
		Where("UPPER(code) = ?", strings.ToUpper(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns societies matching the status, paginated. An empty status
// matches all societies.
func (r *GormSocietyRepository) List(ctx context.Context, status identity.SocietyStatus, filter shared.Filter) (shared.Paginated[*identity.Society], error) {
	query := r.db.WithContext(ctx).Model(&models.SocietyModel{})

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ? OR city ILIKE ?", keyword, keyword, keyword)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*identity.Society]{}, err
	}

	sortField := ValidateSortField(filter.OrderBy, SocietySortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)

	var societyModels []models.SocietyModel
	if err := query.
		Order(fmt.Sprintf("%s %s", sortField, sortOrder)).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&societyModels).Error; err != nil {
		return shared.Paginated[*identity.Society]{}, err
	}

	societies := make([]*identity.Society, len(societyModels))
	for i := range societyModels {
		societies[i] = societyModels[i].ToDomain()
	}

	return shared.NewPaginated(societies, total, filter.Page, filter.PageSize), nil
}

// Count counts societies by status. An empty status counts all.
func (r *GormSocietyRepository) Count(ctx context.Context, status identity.SocietyStatus) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SocietyModel{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes a society by ID
func (r *GormSocietyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SocietyModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
