package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	billingapp "github.com/societyos/backend/internal/application/billing"
	"github.com/societyos/backend/internal/domain/billing"
	"github.com/societyos/backend/internal/interfaces/http/dto"
	"github.com/societyos/backend/internal/interfaces/http/middleware"
)

// PlatformInvoiceHandler handles platform subscription billing HTTP
// requests. The whole surface is platform-operator only.
type PlatformInvoiceHandler struct {
	BaseHandler
	platformService *billingapp.PlatformInvoiceService
}

// NewPlatformInvoiceHandler creates a new platform invoice handler
func NewPlatformInvoiceHandler(platformService *billingapp.PlatformInvoiceService) *PlatformInvoiceHandler {
	return &PlatformInvoiceHandler{platformService: platformService}
}

// RegisterRoutes registers platform billing routes
func (h *PlatformInvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	platform := rg.Group("/platform/invoices", middleware.RequirePlatform())
	{
		platform.POST("/cycle", h.GenerateMonthly)
		platform.GET("", h.List)
		platform.GET("/revenue", h.RevenueStats)
		platform.GET("/revenue/trend", h.MonthlyTrend)
		platform.GET("/revenue/top-societies", h.TopSocieties)
		platform.GET("/:id", h.Get)
		platform.POST("/:id/pay", h.Pay)
	}
}

// PlatformInvoiceResponse is the platform invoice payload
type PlatformInvoiceResponse struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	SocietyID     string          `json:"society_id"`
	SocietyCode   string          `json:"society_code"`
	Period        string          `json:"period"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	DueDate       time.Time       `json:"due_date"`
	PaidDate      *time.Time      `json:"paid_date,omitempty"`
}

func newPlatformInvoiceResponse(p *billing.PlatformInvoice) PlatformInvoiceResponse {
	return PlatformInvoiceResponse{
		ID:            p.GetID().String(),
		InvoiceNumber: p.InvoiceNumber,
		SocietyID:     p.SocietyID.String(),
		SocietyCode:   p.SocietyCode,
		Period:        p.Period,
		Amount:        p.Amount,
		Status:        string(p.Status),
		DueDate:       p.DueDate,
		PaidDate:      p.PaidDate,
	}
}

// GenerateMonthlyRequest names the period to bill
type GenerateMonthlyRequest struct {
	Period string `json:"period" binding:"required,period"`
}

// GenerateMonthly bills every active society for one period
func (h *PlatformInvoiceHandler) GenerateMonthly(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req GenerateMonthlyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	invoices, err := h.platformService.GenerateMonthly(c.Request.Context(), access, req.Period)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]PlatformInvoiceResponse, len(invoices))
	for i, inv := range invoices {
		items[i] = newPlatformInvoiceResponse(inv)
	}
	h.Created(c, gin.H{"invoices": items, "count": len(items)})
}

// Get returns one platform invoice
func (h *PlatformInvoiceHandler) Get(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	invoice, err := h.platformService.Get(c.Request.Context(), access, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newPlatformInvoiceResponse(invoice))
}

// List returns platform invoices, paginated
func (h *PlatformInvoiceHandler) List(c *gin.Context) {
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

	query := billing.PlatformInvoiceQuery{
		Filter: listReq.ToFilter(),
		Status: billing.InvoiceStatus(c.Query("status")),
		Period: c.Query("period"),
	}
	if societyID := c.Query("society_id"); societyID != "" {
		sid, err := uuid.Parse(societyID)
		if err != nil {
			h.BadRequest(c, "Invalid society ID")
			return
		}
		query.SocietyID = &sid
	}

	result, err := h.platformService.List(c.Request.Context(), access, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]PlatformInvoiceResponse, len(result.Items))
	for i, inv := range result.Items {
		items[i] = newPlatformInvoiceResponse(inv)
	}
	Paginated(c, paginatedOf(items, result.Total, result.Page, result.PageSize))
}

// PayPlatformRequest records a subscription payment
type PayPlatformRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// Pay records a subscription payment
func (h *PlatformInvoiceHandler) Pay(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req PayPlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	invoice, err := h.platformService.MarkPaid(c.Request.Context(), access, id, billing.PaymentMode(req.Mode))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newPlatformInvoiceResponse(invoice))
}

// RevenueStats summarizes subscription revenue
func (h *PlatformInvoiceHandler) RevenueStats(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	stats, err := h.platformService.RevenueStats(c.Request.Context(), access)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// MonthlyTrend returns the revenue trend over the last months
func (h *PlatformInvoiceHandler) MonthlyTrend(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	months := 6
	if v := c.Query("months"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 36 {
			h.BadRequest(c, "Invalid months")
			return
		}
		months = parsed
	}

	trend, err := h.platformService.MonthlyTrend(c.Request.Context(), access, months)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, trend)
}

// TopSocieties ranks societies by collected subscription revenue
func (h *PlatformInvoiceHandler) TopSocieties(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	limit := 10
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 100 {
			h.BadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	top, err := h.platformService.TopSocieties(c.Request.Context(), access, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, top)
}
