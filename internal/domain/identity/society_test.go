package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSociety(t *testing.T) {
	t.Run("valid society starts pending", func(t *testing.T) {
		society, err := NewSociety("Green Meadows", "Pune", "Maharashtra")
		require.NoError(t, err)
		assert.Equal(t, SocietyStatusPending, society.Status)
		assert.Equal(t, "Green Meadows", society.Name)
		assert.Len(t, society.Code, 7)
		assert.Equal(t, "GRE", society.Code[:3])
		assert.Len(t, society.GetDomainEvents(), 1)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := NewSociety("", "Pune", "Maharashtra")
		assert.Error(t, err)
	})

	t.Run("short name still yields 3-letter prefix", func(t *testing.T) {
		society, err := NewSociety("Om", "Mumbai", "Maharashtra")
		require.NoError(t, err)
		assert.Equal(t, "OMX", society.Code[:3])
	})
}

func TestSocietyLifecycle(t *testing.T) {
	newPending := func(t *testing.T) *Society {
		society, err := NewSociety("Lake View Residency", "Bengaluru", "Karnataka")
		require.NoError(t, err)
		society.ClearDomainEvents()
		return society
	}

	t.Run("approve pending", func(t *testing.T) {
		society := newPending(t)
		require.NoError(t, society.Approve())
		assert.Equal(t, SocietyStatusActive, society.Status)
		assert.NotNil(t, society.ApprovedAt)
		assert.Len(t, society.GetDomainEvents(), 1)
	})

	t.Run("approve twice fails", func(t *testing.T) {
		society := newPending(t)
		require.NoError(t, society.Approve())
		assert.Error(t, society.Approve())
	})

	t.Run("suspend active", func(t *testing.T) {
		society := newPending(t)
		require.NoError(t, society.Approve())
		require.NoError(t, society.Suspend())
		assert.True(t, society.IsSuspended())
		assert.NotNil(t, society.SuspendedAt)
	})

	t.Run("suspend pending fails", func(t *testing.T) {
		society := newPending(t)
		assert.Error(t, society.Suspend())
	})

	t.Run("reactivate suspended", func(t *testing.T) {
		society := newPending(t)
		require.NoError(t, society.Approve())
		require.NoError(t, society.Suspend())
		require.NoError(t, society.Reactivate())
		assert.True(t, society.IsActive())
		assert.Nil(t, society.SuspendedAt)
	})

	t.Run("reactivate active fails", func(t *testing.T) {
		society := newPending(t)
		require.NoError(t, society.Approve())
		assert.Error(t, society.Reactivate())
	})
}

func TestSocietyUpdate(t *testing.T) {
	society, err := NewSociety("Palm Grove", "Chennai", "Tamil Nadu")
	require.NoError(t, err)

	t.Run("valid update", func(t *testing.T) {
		err := society.Update("Palm Grove Phase II", "12 Beach Road", "Chennai", "Tamil Nadu", "600041")
		require.NoError(t, err)
		assert.Equal(t, "Palm Grove Phase II", society.Name)
		assert.Equal(t, "600041", society.Pincode)
	})

	t.Run("bad pincode rejected", func(t *testing.T) {
		err := society.Update("Palm Grove", "", "Chennai", "Tamil Nadu", "60004")
		assert.Error(t, err)
	})
}
