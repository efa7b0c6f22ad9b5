package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-access-tokens",
		RefreshSecret:          "test-secret-key-for-refresh-tokens",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "societyos-test",
	})
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()
	societyID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID:    userID,
		Email:     "admin@greenmeadows.in",
		Role:      identity.RoleAdmin,
		SocietyID: &societyID,
	})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "admin@greenmeadows.in", claims.Email)
	assert.Equal(t, string(identity.RoleAdmin), claims.Role)
	assert.Equal(t, societyID.String(), claims.SocietyID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestTokenTypeMismatch(t *testing.T) {
	svc := newTestJWTService()
	societyID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID:    uuid.New(),
		Role:      identity.RoleAccountant,
		SocietyID: &societyID,
	})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.Error(t, err, "refresh token must not validate as access token")

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.Error(t, err, "access token must not validate as refresh token")
}

func TestValidateGarbageToken(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ValidateAccessToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredToken(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-access-tokens",
		AccessTokenExpiration:  -time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "societyos-test",
	})
	societyID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID:    uuid.New(),
		Role:      identity.RoleAdmin,
		SocietyID: &societyID,
	})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestRefreshTokenPair(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()
	societyID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID:    userID,
		Email:     "acct@x.in",
		Role:      identity.RoleAccountant,
		SocietyID: &societyID,
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshTokenPair(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, societyID.String(), claims.SocietyID)

	_, err = svc.RefreshTokenPair(pair.AccessToken)
	assert.Error(t, err, "access token cannot refresh")
}

func TestClaimsResolveAccess(t *testing.T) {
	svc := newTestJWTService()

	t.Run("society claims resolve scoped", func(t *testing.T) {
		societyID := uuid.New()
		pair, err := svc.GenerateTokenPair(GenerateTokenInput{
			UserID:    uuid.New(),
			Role:      identity.RoleResident,
			SocietyID: &societyID,
		})
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		access, err := claims.ResolveAccess()
		require.NoError(t, err)
		require.NotNil(t, access.SocietyID)
		assert.Equal(t, societyID, *access.SocietyID)
	})

	t.Run("platform claims resolve unscoped", func(t *testing.T) {
		pair, err := svc.GenerateTokenPair(GenerateTokenInput{
			UserID: uuid.New(),
			Role:   identity.RoleSuperAdmin,
		})
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		access, err := claims.ResolveAccess()
		require.NoError(t, err)
		assert.True(t, access.IsPlatform())
	})

	t.Run("society role without society fails resolution", func(t *testing.T) {
		claims := &Claims{
			UserID: uuid.New().String(),
			Role:   string(identity.RoleAdmin),
		}
		_, err := claims.ResolveAccess()
		assert.Error(t, err)
	})
}

func TestGetRemainingTTL(t *testing.T) {
	svc := newTestJWTService()
	societyID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID:    uuid.New(),
		Role:      identity.RoleAdmin,
		SocietyID: &societyID,
	})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	ttl := claims.GetRemainingTTL()
	assert.Greater(t, ttl, 10*time.Minute)
	assert.LessOrEqual(t, ttl, 15*time.Minute)
}
