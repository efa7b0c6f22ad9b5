package datascope

import (
	"testing"

	"github.com/google/uuid"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type scopedRow struct {
	ID         string  `gorm:"primaryKey"`
	SocietyID  string  `gorm:"index"`
	ResidentID *string `gorm:"index"`
}

func (scopedRow) TableName() string {
	return "scoped_rows"
}

func setupScopeTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&scopedRow{}))
	return db
}

func seedRows(t *testing.T, db *gorm.DB, rows ...scopedRow) {
	t.Helper()
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}
}

func mustResolve(t *testing.T, role identity.Role, societyID *uuid.UUID) identity.AccessContext {
	t.Helper()
	access, err := identity.ResolveAccess(uuid.New(), role, societyID)
	require.NoError(t, err)
	return access
}

func TestScopeBySociety(t *testing.T) {
	db := setupScopeTestDB(t)
	societyA := uuid.New()
	societyB := uuid.New()

	seedRows(t, db,
		scopedRow{ID: "a1", SocietyID: societyA.String()},
		scopedRow{ID: "a2", SocietyID: societyA.String()},
		scopedRow{ID: "b1", SocietyID: societyB.String()},
	)

	t.Run("society role sees own society only", func(t *testing.T) {
		access := mustResolve(t, identity.RoleAdmin, &societyA)

		var rows []scopedRow
		err := db.Scopes(Scope(access, ResourceUnit)).Find(&rows).Error
		require.NoError(t, err)
		assert.Len(t, rows, 2)
		for _, r := range rows {
			assert.Equal(t, societyA.String(), r.SocietyID)
		}
	})

	t.Run("platform role sees all societies", func(t *testing.T) {
		access := mustResolve(t, identity.RoleSuperAdmin, nil)

		var count int64
		err := db.Model(&scopedRow{}).Scopes(Scope(access, ResourceUnit)).Count(&count).Error
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("zero-value context sees nothing", func(t *testing.T) {
		var count int64
		err := db.Model(&scopedRow{}).Scopes(Scope(identity.AccessContext{}, ResourceUnit)).Count(&count).Error
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("unknown resource panics", func(t *testing.T) {
		access := mustResolve(t, identity.RoleAdmin, &societyA)
		assert.Panics(t, func() {
			Scope(access, Resource("vehicle"))
		})
	})
}

func TestScopeResidentNarrowing(t *testing.T) {
	db := setupScopeTestDB(t)
	society := uuid.New()
	resident := uuid.New()
	other := uuid.New()

	residentStr := resident.String()
	otherStr := other.String()
	seedRows(t, db,
		scopedRow{ID: "mine", SocietyID: society.String(), ResidentID: &residentStr},
		scopedRow{ID: "theirs", SocietyID: society.String(), ResidentID: &otherStr},
	)

	access, err := identity.ResolveAccess(resident, identity.RoleResident, &society)
	require.NoError(t, err)

	t.Run("resident sees only own invoices", func(t *testing.T) {
		var rows []scopedRow
		err := db.Scopes(Scope(access, ResourceInvoice)).Find(&rows).Error
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "mine", rows[0].ID)
	})

	t.Run("resident sees all units in society", func(t *testing.T) {
		var count int64
		err := db.Model(&scopedRow{}).Scopes(Scope(access, ResourceUnit)).Count(&count).Error
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("accountant sees all invoices in society", func(t *testing.T) {
		accountant := mustResolve(t, identity.RoleAccountant, &society)

		var count int64
		err := db.Model(&scopedRow{}).Scopes(Scope(accountant, ResourceInvoice)).Count(&count).Error
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}
