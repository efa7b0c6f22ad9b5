package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/societyos/backend/internal/domain/shared"
)

// UnitRepository defines the persistence contract for units
type UnitRepository interface {
	Save(ctx context.Context, unit *Unit) error
	FindByID(ctx context.Context, access AccessContext, id uuid.UUID) (*Unit, error)
	FindByLabel(ctx context.Context, access AccessContext, block, number string) (*Unit, error)
	List(ctx context.Context, access AccessContext, filter shared.Filter) (shared.Paginated[*Unit], error)
	ListBySociety(ctx context.Context, societyID uuid.UUID) ([]*Unit, error)
	Delete(ctx context.Context, access AccessContext, id uuid.UUID) error
}
