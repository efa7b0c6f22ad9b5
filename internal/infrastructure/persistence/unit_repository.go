package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/domain/shared"
	"github.com/societyos/backend/internal/infrastructure/persistence/datascope"
	"github.com/societyos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUnitRepository implements identity.UnitRepository using GORM
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GormUnitRepository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// Save creates or updates a unit. A duplicate (society, block, number)
// surfaces as ErrAlreadyExists.
func (r *GormUnitRepository) Save(ctx context.Context, unit *identity.Unit) error {
	model := models.UnitModelFromDomain(unit)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID finds a unit visible to the caller
func (r *GormUnitRepository) FindByID(ctx context.Context, access identity.AccessContext, id uuid.UUID) (*identity.Unit, error) {
	var model models.UnitModel
	if err := r.db.WithContext(ctx).
		Scopes(datascope.Scope(access, datascope.ResourceUnit)).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLabel finds a unit by its block and number within the caller's
// society
func (r *GormUnitRepository) FindByLabel(ctx context.Context, access identity.AccessContext, block, number string) (*identity.Unit, error) {
	var model models.UnitModel
	if err := r.db.WithContext(ctx).
		Scopes(datascope.Scope(access, datascope.ResourceUnit)).
		Where("UPPER(block) = ? AND number = ?", strings.ToUpper(strings.TrimSpace(block)), strings.TrimSpace(number)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns units visible to the caller, paginated
func (r *GormUnitRepository) List(ctx context.Context, access identity.AccessContext, filter shared.Filter) (shared.Paginated[*identity.Unit], error) {
	query := r.db.WithContext(ctx).Model(&models.UnitModel{}).
		Scopes(datascope.Scope(access, datascope.ResourceUnit))

	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where("block ILIKE ? OR number ILIKE ?", keyword, keyword)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*identity.Unit]{}, err
	}

	sortField := ValidateSortField(filter.OrderBy, UnitSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)

	var unitModels []models.UnitModel
	if err := query.
		Order(fmt.Sprintf("%s %s", sortField, sortOrder)).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&unitModels).Error; err != nil {
		return shared.Paginated[*identity.Unit]{}, err
	}

	units := make([]*identity.Unit, len(unitModels))
	for i := range unitModels {
		units[i] = unitModels[i].ToDomain()
	}

	return shared.NewPaginated(units, total, filter.Page, filter.PageSize), nil
}

// ListBySociety returns every unit in a society ordered by label. The
// billing cycle generator iterates this list; it is not paginated.
func (r *GormUnitRepository) ListBySociety(ctx context.Context, societyID uuid.UUID) ([]*identity.Unit, error) {
	var unitModels []models.UnitModel
	if err := r.db.WithContext(ctx).
		Where("society_id = ?", societyID).
		Order("block ASC, number ASC").
		Find(&unitModels).Error; err != nil {
		return nil, err
	}

	units := make([]*identity.Unit, len(unitModels))
	for i := range unitModels {
		units[i] = unitModels[i].ToDomain()
	}
	return units, nil
}

// Delete removes a unit visible to the caller
func (r *GormUnitRepository) Delete(ctx context.Context, access identity.AccessContext, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(datascope.Scope(access, datascope.ResourceUnit)).
		Delete(&models.UnitModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
