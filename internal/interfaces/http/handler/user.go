package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/societyos/backend/internal/application/identity"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/interfaces/http/dto"
	"github.com/societyos/backend/internal/interfaces/http/middleware"
)

// UserHandler handles member account HTTP requests
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes registers user routes
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users", middleware.RequireRoles(identity.RoleSuperAdmin, identity.RoleAdmin))
	{
		users.POST("", h.Create)
		users.GET("", h.List)
		users.GET("/:id", h.Get)
		users.POST("/:id/deactivate", h.Deactivate)
		users.POST("/:id/unlock", h.Unlock)
		users.POST("/:id/reset-password", h.ResetPassword)
	}
}

// CreateUserRequest is the user creation request body
type CreateUserRequest struct {
	SocietyID string `json:"society_id" binding:"omitempty,uuid"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone"`
	Role      string `json:"role" binding:"required"`
	UnitID    string `json:"unit_id" binding:"omitempty,uuid"`
}

// Create adds a member account to a society
func (h *UserHandler) Create(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	input := identityapp.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		Role:     identity.Role(req.Role),
	}
	if req.SocietyID != "" {
		sid, err := uuid.Parse(req.SocietyID)
		if err != nil {
			h.BadRequest(c, "Invalid society ID")
			return
		}
		input.SocietyID = &sid
	}
	if req.UnitID != "" {
		uid, err := uuid.Parse(req.UnitID)
		if err != nil {
			h.BadRequest(c, "Invalid unit ID")
			return
		}
		input.UnitID = &uid
	}

	user, err := h.userService.Create(c.Request.Context(), access, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, identityapp.NewUserInfo(user))
}

// Get returns one member account within the caller's visibility
func (h *UserHandler) Get(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), access, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, identityapp.NewUserInfo(user))
}

// List returns the caller's visible member accounts, paginated
func (h *UserHandler) List(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.userService.List(c.Request.Context(), access, listReq.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]identityapp.UserInfo, len(result.Items))
	for i, u := range result.Items {
		items[i] = identityapp.NewUserInfo(u)
	}
	Paginated(c, paginatedOf(items, result.Total, result.Page, result.PageSize))
}

// Deactivate disables a member account
func (h *UserHandler) Deactivate(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.userService.Deactivate(c.Request.Context(), access, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Account deactivated"})
}

// Unlock clears a lockout after repeated failed logins
func (h *UserHandler) Unlock(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.userService.Unlock(c.Request.Context(), access, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Account unlocked"})
}

// ResetPasswordRequest is the admin password reset request body
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ResetPassword sets a new password on a member account
func (h *UserHandler) ResetPassword(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), access, id, req.NewPassword); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Password reset"})
}
