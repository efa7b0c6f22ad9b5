package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/societyos/backend/internal/domain/shared"
)

// SocietyRepository defines the persistence contract for societies
type SocietyRepository interface {
	Save(ctx context.Context, society *Society) error
	SaveWithLock(ctx context.Context, society *Society) error
	FindByID(ctx context.Context, id uuid.UUID) (*Society, error)
	FindByCode(ctx context.Context, code string) (*Society, error)
	List(ctx context.Context, status SocietyStatus, filter shared.Filter) (shared.Paginated[*Society], error)
	Count(ctx context.Context, status SocietyStatus) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
