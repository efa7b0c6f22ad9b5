package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/domain/shared"
	"github.com/societyos/backend/internal/infrastructure/auth"
	"github.com/societyos/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-that-is-long-enough!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "societyos-test",
	})
}

func newTestUser(t *testing.T, password string, role identity.Role, societyID *uuid.UUID) *identity.User {
	t.Helper()
	user, err := identity.NewUser("member@greenmeadows.in", password, "Test Member", role, societyID)
	require.NoError(t, err)
	return user
}

func TestAuthServiceLogin(t *testing.T) {
	societyID := uuid.New()

	t.Run("successful login returns token pair", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewAuthService(userRepo, newTestJWTService(), auth.NewInMemoryTokenBlacklist(), zap.NewNop())

		user := newTestUser(t, "correct-horse", identity.RoleAdmin, &societyID)
		userRepo.On("FindByEmail", mock.Anything, "member@greenmeadows.in").Return(user, nil)
		userRepo.On("Save", mock.Anything, user).Return(nil)

		result, err := svc.Login(context.Background(), LoginInput{
			Email:    "member@greenmeadows.in",
			Password: "correct-horse",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, user.GetID(), result.User.ID)
		assert.Equal(t, "ADMIN", result.User.Role)
		assert.NotNil(t, user.LastLoginAt)
		userRepo.AssertExpectations(t)
	})

	t.Run("access token resolves to a society-scoped context", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		jwtService := newTestJWTService()
		svc := NewAuthService(userRepo, jwtService, auth.NewInMemoryTokenBlacklist(), zap.NewNop())

		user := newTestUser(t, "correct-horse", identity.RoleAccountant, &societyID)
		userRepo.On("FindByEmail", mock.Anything, mock.Anything).Return(user, nil)
		userRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		result, err := svc.Login(context.Background(), LoginInput{
			Email:    "member@greenmeadows.in",
			Password: "correct-horse",
		})
		require.NoError(t, err)

		claims, err := jwtService.ValidateAccessToken(result.AccessToken)
		require.NoError(t, err)

		access, err := claims.ResolveAccess()
		require.NoError(t, err)
		assert.Equal(t, user.GetID(), access.UserID)
		assert.Equal(t, identity.RoleAccountant, access.Role)
		require.NotNil(t, access.SocietyID)
		assert.Equal(t, societyID, *access.SocietyID)
	})

	t.Run("wrong password records the failure", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewAuthService(userRepo, newTestJWTService(), auth.NewInMemoryTokenBlacklist(), zap.NewNop())

		user := newTestUser(t, "correct-horse", identity.RoleResident, &societyID)
		userRepo.On("FindByEmail", mock.Anything, mock.Anything).Return(user, nil)
		userRepo.On("Save", mock.Anything, user).Return(nil)

		_, err := svc.Login(context.Background(), LoginInput{
			Email:    "member@greenmeadows.in",
			Password: "wrong",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
		assert.Equal(t, 1, user.FailedAttempts)
	})

	t.Run("fifth failure locks the account", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewAuthService(userRepo, newTestJWTService(), auth.NewInMemoryTokenBlacklist(), zap.NewNop())

		user := newTestUser(t, "correct-horse", identity.RoleResident, &societyID)
		user.FailedAttempts = 4
		userRepo.On("FindByEmail", mock.Anything, mock.Anything).Return(user, nil)
		userRepo.On("Save", mock.Anything, user).Return(nil)

		_, err := svc.Login(context.Background(), LoginInput{
			Email:    "member@greenmeadows.in",
			Password: "wrong",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
		assert.Equal(t, identity.UserStatusLocked, user.Status)
	})

	t.Run("locked account rejects even the right password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewAuthService(userRepo, newTestJWTService(), auth.NewInMemoryTokenBlacklist(), zap.NewNop())

		user := newTestUser(t, "correct-horse", identity.RoleResident, &societyID)
		user.Status = identity.UserStatusLocked
		lockedUntil := time.Now().Add(20 * time.Minute)
		user.LockedUntil = &lockedUntil
		userRepo.On("FindByEmail", mock.Anything, mock.Anything).Return(user, nil)

		_, err := svc.Login(context.Background(), LoginInput{
			Email:    "member@greenmeadows.in",
			Password: "correct-horse",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewAuthService(userRepo, newTestJWTService(), auth.NewInMemoryTokenBlacklist(), zap.NewNop())

		userRepo.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		_, err := svc.Login(context.Background(), LoginInput{
			Email:    "nobody@greenmeadows.in",
			Password: "whatever1",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})
}

func TestAuthServiceLogout(t *testing.T) {
	societyID := uuid.New()
	userRepo := new(MockUserRepository)
	jwtService := newTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	svc := NewAuthService(userRepo, jwtService, blacklist, zap.NewNop())

	user := newTestUser(t, "correct-horse", identity.RoleAdmin, &societyID)
	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:    user.GetID(),
		Email:     user.Email,
		Role:      user.Role,
		SocietyID: user.SocietyID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), pair.AccessToken))

	claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	revoked, err := blacklist.IsBlacklisted(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuthServiceRefreshToken(t *testing.T) {
	societyID := uuid.New()

	t.Run("valid refresh issues a new pair", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		jwtService := newTestJWTService()
		svc := NewAuthService(userRepo, jwtService, auth.NewInMemoryTokenBlacklist(), zap.NewNop())

		user := newTestUser(t, "correct-horse", identity.RoleAdmin, &societyID)
		userRepo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

		pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
			UserID:    user.GetID(),
			Email:     user.Email,
			Role:      user.Role,
			SocietyID: user.SocietyID,
		})
		require.NoError(t, err)

		result, err := svc.RefreshToken(context.Background(), pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
	})

	t.Run("deactivated account cannot refresh", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		jwtService := newTestJWTService()
		svc := NewAuthService(userRepo, jwtService, auth.NewInMemoryTokenBlacklist(), zap.NewNop())

		user := newTestUser(t, "correct-horse", identity.RoleAdmin, &societyID)
		pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
			UserID:    user.GetID(),
			Email:     user.Email,
			Role:      user.Role,
			SocietyID: user.SocietyID,
		})
		require.NoError(t, err)

		require.NoError(t, user.Deactivate())
		userRepo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

		_, err = svc.RefreshToken(context.Background(), pair.RefreshToken)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_INACTIVE", domainErr.Code)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewAuthService(userRepo, newTestJWTService(), auth.NewInMemoryTokenBlacklist(), zap.NewNop())

		_, err := svc.RefreshToken(context.Background(), "not-a-token")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_INVALID", domainErr.Code)
	})
}
