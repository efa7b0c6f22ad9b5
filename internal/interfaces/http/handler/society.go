package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/societyos/backend/internal/application/identity"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/interfaces/http/dto"
	"github.com/societyos/backend/internal/interfaces/http/middleware"
)

// SocietyHandler handles society lifecycle HTTP requests
type SocietyHandler struct {
	BaseHandler
	societyService *identityapp.SocietyService
}

// NewSocietyHandler creates a new society handler
func NewSocietyHandler(societyService *identityapp.SocietyService) *SocietyHandler {
	return &SocietyHandler{societyService: societyService}
}

// RegisterRoutes registers society routes. Registration is open;
// lifecycle transitions are platform-only.
func (h *SocietyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	societies := rg.Group("/societies")
	{
		societies.POST("/register", h.Register)
		societies.GET("/:id", h.Get)
		societies.PUT("/:id", h.Update)

		platform := societies.Group("", middleware.RequirePlatform())
		{
			platform.GET("", h.List)
			platform.GET("/stats", h.Stats)
			platform.POST("/:id/approve", h.Approve)
			platform.POST("/:id/suspend", h.Suspend)
			platform.POST("/:id/reactivate", h.Reactivate)
		}
	}
}

// RegisterSocietyRequest is the society registration request body
type RegisterSocietyRequest struct {
	Name          string `json:"name" binding:"required"`
	City          string `json:"city" binding:"required"`
	State         string `json:"state" binding:"required"`
	AddressLine   string `json:"address_line"`
	Pincode       string `json:"pincode"`
	ContactName   string `json:"contact_name"`
	ContactPhone  string `json:"contact_phone"`
	ContactEmail  string `json:"contact_email"`
	AdminName     string `json:"admin_name" binding:"required"`
	AdminEmail    string `json:"admin_email" binding:"required,email"`
	AdminPassword string `json:"admin_password" binding:"required,min=8"`
}

// SocietyResponse is the society payload
type SocietyResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	AddressLine string `json:"address_line,omitempty"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode,omitempty"`
	TotalUnits  int    `json:"total_units"`
}

func newSocietyResponse(s *identity.Society) SocietyResponse {
	return SocietyResponse{
		ID:          s.GetID().String(),
		Code:        s.Code,
		Name:        s.Name,
		Status:      string(s.Status),
		AddressLine: s.AddressLine,
		City:        s.City,
		State:       s.State,
		Pincode:     s.Pincode,
		TotalUnits:  s.TotalUnits,
	}
}

// Register registers a new society in pending status together with
// its bootstrap administrator
func (h *SocietyHandler) Register(c *gin.Context) {
	var req RegisterSocietyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.societyService.Register(c.Request.Context(), identityapp.RegisterSocietyInput{
		Name:          req.Name,
		City:          req.City,
		State:         req.State,
		AddressLine:   req.AddressLine,
		Pincode:       req.Pincode,
		ContactName:   req.ContactName,
		ContactPhone:  req.ContactPhone,
		ContactEmail:  req.ContactEmail,
		AdminName:     req.AdminName,
		AdminEmail:    req.AdminEmail,
		AdminPassword: req.AdminPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, gin.H{
		"society": newSocietyResponse(result.Society),
		"admin":   identityapp.NewUserInfo(result.Admin),
	})
}

// Get returns one society within the caller's visibility
func (h *SocietyHandler) Get(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	society, err := h.societyService.Get(c.Request.Context(), access, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newSocietyResponse(society))
}

// UpdateSocietyRequest is the society update request body
type UpdateSocietyRequest struct {
	Name        string `json:"name" binding:"required"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
}

// Update updates a society's basic information
func (h *SocietyHandler) Update(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req UpdateSocietyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	society, err := h.societyService.Update(c.Request.Context(), access, id, identityapp.UpdateSocietyInput{
		Name:        req.Name,
		AddressLine: req.AddressLine,
		City:        req.City,
		State:       req.State,
		Pincode:     req.Pincode,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newSocietyResponse(society))
}

// List returns societies filtered by status, paginated
func (h *SocietyHandler) List(c *gin.Context) {
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
	status := identity.SocietyStatus(c.Query("status"))

	result, err := h.societyService.List(c.Request.Context(), access, status, listReq.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]SocietyResponse, len(result.Items))
	for i, s := range result.Items {
		items[i] = newSocietyResponse(s)
	}
	c.JSON(http.StatusOK, dto.Response{
		Success: true,
		Data:    items,
		Meta: &dto.Meta{
			Total:      result.Total,
			Page:       result.Page,
			PageSize:   result.PageSize,
			TotalPages: result.TotalPages,
		},
	})
}

// Stats counts societies by lifecycle status
func (h *SocietyHandler) Stats(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	stats, err := h.societyService.Stats(c.Request.Context(), access)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Approve activates a pending society
func (h *SocietyHandler) Approve(c *gin.Context) {
	h.transition(c, h.societyService.Approve)
}

// Suspend suspends an active society
func (h *SocietyHandler) Suspend(c *gin.Context) {
	h.transition(c, h.societyService.Suspend)
}

// Reactivate restores a suspended society
func (h *SocietyHandler) Reactivate(c *gin.Context) {
	h.transition(c, h.societyService.Reactivate)
}

func (h *SocietyHandler) transition(c *gin.Context, fn func(ctx context.Context, access identity.AccessContext, id uuid.UUID) (*identity.Society, error)) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	society, err := fn(c.Request.Context(), access, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newSocietyResponse(society))
}
