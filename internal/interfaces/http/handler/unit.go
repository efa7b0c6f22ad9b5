package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	identityapp "github.com/societyos/backend/internal/application/identity"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/interfaces/http/dto"
	"github.com/societyos/backend/internal/interfaces/http/middleware"
)

// UnitHandler handles unit HTTP requests
type UnitHandler struct {
	BaseHandler
	unitService *identityapp.UnitService
}

// NewUnitHandler creates a new unit handler
func NewUnitHandler(unitService *identityapp.UnitService) *UnitHandler {
	return &UnitHandler{unitService: unitService}
}

// RegisterRoutes registers unit routes
func (h *UnitHandler) RegisterRoutes(rg *gin.RouterGroup) {
	units := rg.Group("/units")
	{
		units.GET("", h.List)
		units.GET("/:id", h.Get)

		manage := units.Group("", middleware.RequireRoles(identity.RoleSuperAdmin, identity.RoleAdmin))
		{
			manage.POST("", h.Create)
			manage.PUT("/:id/charge", h.SetMaintenanceCharge)
			manage.PUT("/:id/owner", h.SetOwner)
			manage.POST("/:id/occupant", h.AssignOccupant)
			manage.DELETE("/:id/occupant", h.Vacate)
			manage.DELETE("/:id", h.Delete)
		}
	}
}

// CreateUnitRequest is the unit creation request body
type CreateUnitRequest struct {
	SocietyID         string          `json:"society_id" binding:"omitempty,uuid"`
	Block             string          `json:"block" binding:"required"`
	Number            string          `json:"number" binding:"required"`
	Type              string          `json:"type" binding:"required,oneof=flat villa shop"`
	AreaSqft          decimal.Decimal `json:"area_sqft"`
	MaintenanceCharge decimal.Decimal `json:"maintenance_charge"`
}

// UnitResponse is the unit payload
type UnitResponse struct {
	ID                string          `json:"id"`
	SocietyID         string          `json:"society_id"`
	Block             string          `json:"block"`
	Number            string          `json:"number"`
	Label             string          `json:"label"`
	Type              string          `json:"type"`
	AreaSqft          decimal.Decimal `json:"area_sqft"`
	MaintenanceCharge decimal.Decimal `json:"maintenance_charge"`
	Occupancy         string          `json:"occupancy"`
	OwnerID           *uuid.UUID      `json:"owner_id,omitempty"`
	OccupantID        *uuid.UUID      `json:"occupant_id,omitempty"`
}

func newUnitResponse(u *identity.Unit) UnitResponse {
	return UnitResponse{
		ID:                u.GetID().String(),
		SocietyID:         u.SocietyID.String(),
		Block:             u.Block,
		Number:            u.Number,
		Label:             u.Label(),
		Type:              string(u.Type),
		AreaSqft:          u.AreaSqft,
		MaintenanceCharge: u.MaintenanceCharge,
		Occupancy:         string(u.Occupancy),
		OwnerID:           u.OwnerID,
		OccupantID:        u.OccupantID,
	}
}

// Create adds a unit to a society
func (h *UnitHandler) Create(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	input := identityapp.CreateUnitInput{
		Block:             req.Block,
		Number:            req.Number,
		Type:              identity.UnitType(req.Type),
		AreaSqft:          req.AreaSqft,
		MaintenanceCharge: req.MaintenanceCharge,
	}
	if req.SocietyID != "" {
		sid, err := uuid.Parse(req.SocietyID)
		if err != nil {
			h.BadRequest(c, "Invalid society ID")
			return
		}
		input.SocietyID = &sid
	}

	unit, err := h.unitService.Create(c.Request.Context(), access, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, newUnitResponse(unit))
}

// Get returns one unit within the caller's visibility
func (h *UnitHandler) Get(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	unit, err := h.unitService.Get(c.Request.Context(), access, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newUnitResponse(unit))
}

// List returns the caller's visible units, paginated
func (h *UnitHandler) List(c *gin.Context) {
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

	result, err := h.unitService.List(c.Request.Context(), access, listReq.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]UnitResponse, len(result.Items))
	for i, u := range result.Items {
		items[i] = newUnitResponse(u)
	}
	Paginated(c, paginatedOf(items, result.Total, result.Page, result.PageSize))
}

// SetChargeRequest updates a unit's monthly maintenance charge
type SetChargeRequest struct {
	MaintenanceCharge decimal.Decimal `json:"maintenance_charge" binding:"required"`
}

// SetMaintenanceCharge updates the unit's monthly charge
func (h *UnitHandler) SetMaintenanceCharge(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req SetChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	unit, err := h.unitService.SetMaintenanceCharge(c.Request.Context(), access, id, req.MaintenanceCharge)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newUnitResponse(unit))
}

// SetOwnerRequest names the unit's owner
type SetOwnerRequest struct {
	OwnerID string `json:"owner_id" binding:"required,uuid"`
}

// SetOwner records the unit's owner
func (h *UnitHandler) SetOwner(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req SetOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	unit, err := h.unitService.SetOwner(c.Request.Context(), access, id, ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newUnitResponse(unit))
}

// AssignOccupantRequest places a resident in the unit
type AssignOccupantRequest struct {
	OccupantID string `json:"occupant_id" binding:"required,uuid"`
	Rented     bool   `json:"rented"`
}

// AssignOccupant places a resident in the unit
func (h *UnitHandler) AssignOccupant(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req AssignOccupantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	occupantID, err := uuid.Parse(req.OccupantID)
	if err != nil {
		h.BadRequest(c, "Invalid occupant ID")
		return
	}

	unit, err := h.unitService.AssignOccupant(c.Request.Context(), access, identityapp.AssignOccupantInput{
		UnitID:     id,
		OccupantID: occupantID,
		Rented:     req.Rented,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newUnitResponse(unit))
}

// Vacate clears the unit's occupant
func (h *UnitHandler) Vacate(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	unit, err := h.unitService.Vacate(c.Request.Context(), access, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newUnitResponse(unit))
}

// Delete removes a unit
func (h *UnitHandler) Delete(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.unitService.Delete(c.Request.Context(), access, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
