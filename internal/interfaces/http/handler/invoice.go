package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	billingapp "github.com/societyos/backend/internal/application/billing"
	"github.com/societyos/backend/internal/domain/billing"
	"github.com/societyos/backend/internal/interfaces/http/dto"
	"github.com/societyos/backend/internal/interfaces/http/middleware"
)

// InvoiceHandler handles invoice HTTP requests: cycle generation,
// payments, and per-period statistics
type InvoiceHandler struct {
	BaseHandler
	cycleService   *billingapp.BillingCycleService
	paymentService *billingapp.PaymentService
	statsService   *billingapp.StatsService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(
	cycleService *billingapp.BillingCycleService,
	paymentService *billingapp.PaymentService,
	statsService *billingapp.StatsService,
) *InvoiceHandler {
	return &InvoiceHandler{
		cycleService:   cycleService,
		paymentService: paymentService,
		statsService:   statsService,
	}
}

// RegisterRoutes registers invoice routes. Reads are open to every
// authenticated member; residents see only their own rows. Writes
// require billing access.
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.GET("", h.List)
		invoices.GET("/stats", h.Stats)
		invoices.GET("/:number", h.Get)

		manage := invoices.Group("", middleware.RequireBillingAccess())
		{
			manage.POST("/cycle", h.GenerateCycle)
			manage.POST("", h.CreateInvoice)
			manage.POST("/:number/pay", h.Pay)
			manage.POST("/:number/cancel", h.Cancel)
			manage.POST("/sweep-overdue", h.SweepOverdue)
		}
	}
}

// InvoiceResponse is the invoice payload
type InvoiceResponse struct {
	ID            string           `json:"id"`
	InvoiceNumber string           `json:"invoice_number"`
	SocietyID     string           `json:"society_id"`
	UnitID        string           `json:"unit_id"`
	UnitLabel     string           `json:"unit_label"`
	ResidentID    *uuid.UUID       `json:"resident_id,omitempty"`
	Period        string           `json:"period"`
	Amount        decimal.Decimal  `json:"amount"`
	Status        string           `json:"status"`
	DueDate       time.Time        `json:"due_date"`
	PaidDate      *time.Time       `json:"paid_date,omitempty"`
	PaymentMode   *billing.PaymentMode `json:"payment_mode,omitempty"`
}

func newInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            inv.GetID().String(),
		InvoiceNumber: inv.InvoiceNumber,
		SocietyID:     inv.SocietyID.String(),
		UnitID:        inv.UnitID.String(),
		UnitLabel:     inv.UnitLabel,
		ResidentID:    inv.ResidentID,
		Period:        inv.Period,
		Amount:        inv.Amount,
		Status:        string(inv.Status),
		DueDate:       inv.DueDate,
		PaidDate:      inv.PaidDate,
		PaymentMode:   inv.PaymentMode,
	}
}

// GenerateCycleRequest is the billing cycle request body
type GenerateCycleRequest struct {
	SocietyID   string          `json:"society_id" binding:"omitempty,uuid"`
	Period      string          `json:"period" binding:"required,period"`
	Block       string          `json:"block"`
	DueDate     *time.Time      `json:"due_date"`
	Maintenance decimal.Decimal `json:"maintenance"`
	Utility     decimal.Decimal `json:"utility"`
	LateFee     decimal.Decimal `json:"late_fee"`
}

// GenerateCycle raises one invoice per unit for the period. A cycle
// that already exists for the period is reported in the response so
// callers can warn about double billing.
func (h *InvoiceHandler) GenerateCycle(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req GenerateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	input := billingapp.GenerateCycleInput{
		Period:  req.Period,
		Block:   req.Block,
		DueDate: req.DueDate,
		Schedule: billingapp.ChargeSchedule{
			Maintenance: req.Maintenance,
			Utility:     req.Utility,
			LateFee:     req.LateFee,
		},
	}
	if req.SocietyID != "" {
		sid, err := uuid.Parse(req.SocietyID)
		if err != nil {
			h.BadRequest(c, "Invalid society ID")
			return
		}
		input.SocietyID = &sid
	}

	existed, err := h.cycleService.CycleExists(c.Request.Context(), access, input.SocietyID, req.Period)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	invoices, err := h.cycleService.GenerateCycle(c.Request.Context(), access, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		items[i] = newInvoiceResponse(inv)
	}
	h.Created(c, gin.H{
		"invoices":       items,
		"count":          len(items),
		"period_rebilled": existed,
	})
}

// CreateInvoiceRequest raises a single ad-hoc invoice
type CreateInvoiceRequest struct {
	SocietyID string          `json:"society_id" binding:"omitempty,uuid"`
	UnitID    string          `json:"unit_id" binding:"required,uuid"`
	Period    string          `json:"period" binding:"required,period"`
	Amount    decimal.Decimal `json:"amount"`
	DueDate   *time.Time      `json:"due_date"`
}

// CreateInvoice raises one ad-hoc invoice against a unit
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		h.BadRequest(c, "Invalid unit ID")
		return
	}
	input := billingapp.CreateInvoiceInput{
		UnitID:  unitID,
		Period:  req.Period,
		Amount:  req.Amount,
		DueDate: req.DueDate,
	}
	if req.SocietyID != "" {
		sid, err := uuid.Parse(req.SocietyID)
		if err != nil {
			h.BadRequest(c, "Invalid society ID")
			return
		}
		input.SocietyID = &sid
	}

	invoice, err := h.cycleService.CreateInvoice(c.Request.Context(), access, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, newInvoiceResponse(invoice))
}

// Get returns one invoice by number within the caller's visibility
func (h *InvoiceHandler) Get(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoice, err := h.paymentService.Get(c.Request.Context(), access, c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newInvoiceResponse(invoice))
}

// List returns the caller's visible invoices, paginated
func (h *InvoiceHandler) List(c *gin.Context) {
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

	query := billing.InvoiceQuery{
		Filter: listReq.ToFilter(),
		Status: billing.InvoiceStatus(c.Query("status")),
		Period: c.Query("period"),
	}
	if unitID := c.Query("unit_id"); unitID != "" {
		uid, err := uuid.Parse(unitID)
		if err != nil {
			h.BadRequest(c, "Invalid unit ID")
			return
		}
		query.UnitID = &uid
	}

	result, err := h.paymentService.List(c.Request.Context(), access, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]InvoiceResponse, len(result.Items))
	for i, inv := range result.Items {
		items[i] = newInvoiceResponse(inv)
	}
	Paginated(c, paginatedOf(items, result.Total, result.Page, result.PageSize))
}

// PayRequest records a payment against an invoice
type PayRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// Pay marks the invoice paid and appends the matching income entry
func (h *InvoiceHandler) Pay(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	invoice, entry, err := h.paymentService.MarkPaid(c.Request.Context(), access, billingapp.PayInvoiceInput{
		InvoiceNumber: c.Param("number"),
		Mode:          billing.PaymentMode(req.Mode),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"invoice":     newInvoiceResponse(invoice),
		"transaction": newTransactionResponse(entry),
	})
}

// CancelRequest voids an unpaid invoice
type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Cancel voids an unpaid invoice
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	invoice, err := h.paymentService.Cancel(c.Request.Context(), access, c.Param("number"), req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newInvoiceResponse(invoice))
}

// Stats returns the caller's billing aggregates across every period;
// a period query parameter narrows them to one month.
func (h *InvoiceHandler) Stats(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	stats, err := h.statsService.ComputeStats(c.Request.Context(), access, c.Query("period"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// SweepOverdueRequest names the society for platform callers
type SweepOverdueRequest struct {
	SocietyID string `json:"society_id" binding:"omitempty,uuid"`
}

// SweepOverdue flags pending invoices past due
func (h *InvoiceHandler) SweepOverdue(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req SweepOverdueRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		h.BadRequest(c, "Invalid request body")
		return
	}

	var societyID *uuid.UUID
	if req.SocietyID != "" {
		sid, err := uuid.Parse(req.SocietyID)
		if err != nil {
			h.BadRequest(c, "Invalid society ID")
			return
		}
		societyID = &sid
	}

	flagged, err := h.cycleService.SweepOverdue(c.Request.Context(), access, societyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"flagged": flagged})
}
