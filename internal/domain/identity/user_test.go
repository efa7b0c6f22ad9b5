package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	societyID := uuid.New()

	t.Run("valid society user", func(t *testing.T) {
		user, err := NewUser("admin@greenmeadows.in", "s3cret-pass", "Asha Patel", RoleAdmin, &societyID)
		require.NoError(t, err)
		assert.Equal(t, "admin@greenmeadows.in", user.Email)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.True(t, user.VerifyPassword("s3cret-pass"))
		assert.False(t, user.VerifyPassword("wrong"))
	})

	t.Run("platform user without society", func(t *testing.T) {
		user, err := NewUser("ops@platform.in", "s3cret-pass", "Platform Ops", RoleSuperAdmin, nil)
		require.NoError(t, err)
		assert.Nil(t, user.SocietyID)
	})

	t.Run("platform role with society rejected", func(t *testing.T) {
		_, err := NewUser("ops@platform.in", "s3cret-pass", "Platform Ops", RoleSuperAdmin, &societyID)
		assert.Error(t, err)
	})

	t.Run("society role without society rejected", func(t *testing.T) {
		_, err := NewUser("r@x.in", "s3cret-pass", "Resident", RoleResident, nil)
		assert.Error(t, err)
	})

	t.Run("email is normalized", func(t *testing.T) {
		user, err := NewUser("  Admin@Example.COM ", "s3cret-pass", "Admin", RoleAdmin, &societyID)
		require.NoError(t, err)
		assert.Equal(t, "admin@example.com", user.Email)
	})

	t.Run("short password rejected", func(t *testing.T) {
		_, err := NewUser("a@b.in", "short", "Name", RoleAdmin, &societyID)
		assert.Error(t, err)
	})

	t.Run("bad email rejected", func(t *testing.T) {
		_, err := NewUser("not-an-email", "s3cret-pass", "Name", RoleAdmin, &societyID)
		assert.Error(t, err)
	})
}

func TestUserLockout(t *testing.T) {
	societyID := uuid.New()
	user, err := NewUser("acct@x.in", "s3cret-pass", "Accountant", RoleAccountant, &societyID)
	require.NoError(t, err)

	for range maxFailedAttempts {
		user.RecordFailedLogin()
	}

	assert.Equal(t, UserStatusLocked, user.Status)
	assert.NotNil(t, user.LockedUntil)
	assert.False(t, user.CanLogin())

	user.RecordLogin()
	assert.Equal(t, 0, user.FailedAttempts)
	assert.Nil(t, user.LockedUntil)

	user.Unlock()
	assert.True(t, user.CanLogin())
}

func TestUserCanLoginAfterLockExpiry(t *testing.T) {
	societyID := uuid.New()
	user, err := NewUser("acct@x.in", "s3cret-pass", "Accountant", RoleAccountant, &societyID)
	require.NoError(t, err)

	past := time.Now().Add(-time.Minute)
	user.Status = UserStatusLocked
	user.LockedUntil = &past
	assert.True(t, user.CanLogin(), "expired lock should allow login")
}

func TestUserChangePassword(t *testing.T) {
	societyID := uuid.New()
	user, err := NewUser("res@x.in", "old-password", "Resident", RoleResident, &societyID)
	require.NoError(t, err)

	assert.Error(t, user.ChangePassword("wrong-old", "new-password-1"))
	require.NoError(t, user.ChangePassword("old-password", "new-password-1"))
	assert.True(t, user.VerifyPassword("new-password-1"))
}

func TestUserAssignUnit(t *testing.T) {
	societyID := uuid.New()
	unitID := uuid.New()

	resident, err := NewUser("res@x.in", "s3cret-pass", "Resident", RoleResident, &societyID)
	require.NoError(t, err)
	require.NoError(t, resident.AssignUnit(unitID))
	require.NotNil(t, resident.UnitID)
	assert.Equal(t, unitID, *resident.UnitID)

	guard, err := NewUser("guard@x.in", "s3cret-pass", "Guard", RoleGuard, &societyID)
	require.NoError(t, err)
	assert.Error(t, guard.AssignUnit(unitID), "only residents can hold a unit")
}
