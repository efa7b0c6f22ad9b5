package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/societyos/backend/internal/domain/shared"
)

// UserRepository defines the persistence contract for users
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	FindByID(ctx context.Context, access AccessContext, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, access AccessContext, filter shared.Filter) (shared.Paginated[*User], error)
	Delete(ctx context.Context, access AccessContext, id uuid.UUID) error
}
