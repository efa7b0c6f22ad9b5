package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/infrastructure/auth"
	"github.com/societyos/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-that-is-long-enough!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "societyos-test",
	})
}

func newAuthRouter(cfg AuthMiddlewareConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(cfg))
	r.GET("/protected", func(c *gin.Context) {
		access, ok := GetAccess(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": access.UserID.String(), "role": string(access.Role)})
	})
	r.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func issueToken(t *testing.T, jwtService *auth.JWTService, role identity.Role, societyID *uuid.UUID) string {
	t.Helper()
	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:    uuid.New(),
		Email:     "admin@green.example",
		Role:      role,
		SocietyID: societyID,
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := newTestJWTService()
	societyID := uuid.New()

	t.Run("valid token resolves an access context", func(t *testing.T) {
		cfg := AuthMiddlewareConfig{JWTService: jwtService}
		router := newAuthRouter(cfg)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, jwtService, identity.RoleAdmin, &societyID))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ADMIN")
	})

	t.Run("missing header yields 401", func(t *testing.T) {
		router := newAuthRouter(AuthMiddlewareConfig{JWTService: jwtService})

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})

	t.Run("garbage token yields TOKEN_INVALID", func(t *testing.T) {
		router := newAuthRouter(AuthMiddlewareConfig{JWTService: jwtService})

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_INVALID")
	})

	t.Run("revoked token yields TOKEN_REVOKED", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		cfg := AuthMiddlewareConfig{JWTService: jwtService, TokenBlacklist: blacklist}
		router := newAuthRouter(cfg)

		token := issueToken(t, jwtService, identity.RoleAdmin, &societyID)
		claims, err := jwtService.ValidateAccessToken(token)
		require.NoError(t, err)
		require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Hour))

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
	})

	t.Run("skip paths pass without a token", func(t *testing.T) {
		cfg := AuthMiddlewareConfig{JWTService: jwtService, SkipPaths: []string{"/health"}}
		router := newAuthRouter(cfg)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGuards(t *testing.T) {
	jwtService := newTestJWTService()
	societyID := uuid.New()

	newGuardedRouter := func(guard gin.HandlerFunc) *gin.Engine {
		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.Use(Auth(AuthMiddlewareConfig{JWTService: jwtService}))
		r.GET("/guarded", guard, func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return r
	}

	serve := func(router *gin.Engine, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("billing guard admits accountants", func(t *testing.T) {
		router := newGuardedRouter(RequireBillingAccess())
		w := serve(router, issueToken(t, jwtService, identity.RoleAccountant, &societyID))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("billing guard rejects residents", func(t *testing.T) {
		router := newGuardedRouter(RequireBillingAccess())
		w := serve(router, issueToken(t, jwtService, identity.RoleResident, &societyID))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("platform guard rejects society admins", func(t *testing.T) {
		router := newGuardedRouter(RequirePlatform())
		w := serve(router, issueToken(t, jwtService, identity.RoleAdmin, &societyID))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("platform guard admits operators", func(t *testing.T) {
		router := newGuardedRouter(RequirePlatform())
		w := serve(router, issueToken(t, jwtService, identity.RoleSuperAdmin, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("role guard matches exactly", func(t *testing.T) {
		router := newGuardedRouter(RequireRoles(identity.RoleGuard))
		w := serve(router, issueToken(t, jwtService, identity.RoleGuard, &societyID))
		assert.Equal(t, http.StatusOK, w.Code)

		w = serve(router, issueToken(t, jwtService, identity.RoleVendor, &societyID))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
