package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoredUser(t *testing.T, repo *GormUserRepository, email string, role identity.Role, societyID *uuid.UUID) *identity.User {
	t.Helper()

	user, err := identity.NewUser(email, "s3cret-pass", "Test User", role, societyID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), user))
	return user
}

func TestUserRepositoryVisibility(t *testing.T) {
	db := setupSocietyTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	societyA := uuid.New()
	societyB := uuid.New()

	adminUser := newStoredUser(t, repo, "admin@greenmeadows.in", identity.RoleAdmin, &societyA)
	resident := newStoredUser(t, repo, "res@greenmeadows.in", identity.RoleResident, &societyA)
	foreign := newStoredUser(t, repo, "admin@silveroaks.in", identity.RoleAdmin, &societyB)
	newStoredUser(t, repo, "ops@platform.in", identity.RoleSuperAdmin, nil)

	t.Run("society admin sees own society", func(t *testing.T) {
		access := societyAccess(t, identity.RoleAdmin, societyA)

		page, err := repo.List(ctx, access, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)

		_, err = repo.FindByID(ctx, access, foreign.GetID())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("resident sees only self", func(t *testing.T) {
		access, err := identity.ResolveAccess(resident.GetID(), identity.RoleResident, &societyA)
		require.NoError(t, err)

		page, err := repo.List(ctx, access, shared.DefaultFilter())
		require.NoError(t, err)
		require.Equal(t, int64(1), page.Total)
		assert.Equal(t, resident.GetID(), page.Items[0].GetID())

		_, err = repo.FindByID(ctx, access, adminUser.GetID())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("platform operator sees everyone", func(t *testing.T) {
		page, err := repo.List(ctx, platformAccess(t), shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(4), page.Total)
	})

	t.Run("find by email ignores case", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "Admin@GreenMeadows.in")
		require.NoError(t, err)
		assert.Equal(t, adminUser.GetID(), found.GetID())
	})

	t.Run("duplicate email maps to already exists", func(t *testing.T) {
		dup, err := identity.NewUser("admin@greenmeadows.in", "other-pass", "Other", identity.RoleAccountant, &societyB)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("password round trip", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "res@greenmeadows.in")
		require.NoError(t, err)
		assert.True(t, found.VerifyPassword("s3cret-pass"))
		assert.False(t, found.VerifyPassword("wrong"))
	})
}
