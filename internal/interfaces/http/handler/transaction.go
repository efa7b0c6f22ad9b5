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

// TransactionHandler handles cash ledger HTTP requests
type TransactionHandler struct {
	BaseHandler
	txnService   *billingapp.TransactionService
	statsService *billingapp.StatsService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(txnService *billingapp.TransactionService, statsService *billingapp.StatsService) *TransactionHandler {
	return &TransactionHandler{
		txnService:   txnService,
		statsService: statsService,
	}
}

// RegisterRoutes registers ledger routes
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	txns := rg.Group("/transactions")
	{
		txns.GET("", h.List)
		txns.GET("/summary", h.Summary)
		txns.GET("/:id", h.Get)

		manage := txns.Group("", middleware.RequireBillingAccess())
		{
			manage.POST("/income", h.RecordIncome)
			manage.POST("/expense", h.RecordExpense)
		}
	}
}

// TransactionResponse is the ledger entry payload
type TransactionResponse struct {
	ID          string          `json:"id"`
	SocietyID   string          `json:"society_id"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Mode        string          `json:"mode"`
	TxnDate     time.Time       `json:"txn_date"`
	ReferenceNo string          `json:"reference_no,omitempty"`
	Description string          `json:"description,omitempty"`
}

func newTransactionResponse(t *billing.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.GetID().String(),
		SocietyID:   t.SocietyID.String(),
		Type:        string(t.Type),
		Category:    t.Category,
		Amount:      t.Amount,
		Mode:        string(t.Mode),
		TxnDate:     t.TxnDate,
		ReferenceNo: t.ReferenceNo,
		Description: t.Description,
	}
}

// RecordTransactionRequest is the manual ledger entry request body
type RecordTransactionRequest struct {
	SocietyID   string          `json:"society_id" binding:"omitempty,uuid"`
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Mode        string          `json:"mode" binding:"required"`
	TxnDate     time.Time       `json:"txn_date"`
	ReferenceNo string          `json:"reference_no"`
	Description string          `json:"description"`
}

func (h *TransactionHandler) record(c *gin.Context, record func(*gin.Context, billingapp.RecordTransactionInput) (*billing.Transaction, error)) {
	var req RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	input := billingapp.RecordTransactionInput{
		Category:    req.Category,
		Amount:      req.Amount,
		Mode:        billing.PaymentMode(req.Mode),
		TxnDate:     req.TxnDate,
		ReferenceNo: req.ReferenceNo,
		Description: req.Description,
	}
	if req.SocietyID != "" {
		sid, err := uuid.Parse(req.SocietyID)
		if err != nil {
			h.BadRequest(c, "Invalid society ID")
			return
		}
		input.SocietyID = &sid
	}

	txn, err := record(c, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, newTransactionResponse(txn))
}

// RecordIncome appends a manual income entry
func (h *TransactionHandler) RecordIncome(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	h.record(c, func(c *gin.Context, input billingapp.RecordTransactionInput) (*billing.Transaction, error) {
		return h.txnService.RecordIncome(c.Request.Context(), access, input)
	})
}

// RecordExpense appends an expense entry
func (h *TransactionHandler) RecordExpense(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	h.record(c, func(c *gin.Context, input billingapp.RecordTransactionInput) (*billing.Transaction, error) {
		return h.txnService.RecordExpense(c.Request.Context(), access, input)
	})
}

// Get returns one ledger entry within the caller's visibility
func (h *TransactionHandler) Get(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	txn, err := h.txnService.Get(c.Request.Context(), access, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newTransactionResponse(txn))
}

// List returns ledger entries, paginated. A reference query returns
// entries tied to a document, typically an invoice number.
func (h *TransactionHandler) List(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if ref := c.Query("reference"); ref != "" {
		entries, err := h.txnService.FindByReference(c.Request.Context(), access, ref)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		items := make([]TransactionResponse, len(entries))
		for i, t := range entries {
			items[i] = newTransactionResponse(t)
		}
		h.Success(c, items)
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	query := billing.TransactionQuery{
		Filter:   listReq.ToFilter(),
		Type:     billing.TransactionType(c.Query("type")),
		Category: c.Query("category"),
	}

	result, err := h.txnService.List(c.Request.Context(), access, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]TransactionResponse, len(result.Items))
	for i, t := range result.Items {
		items[i] = newTransactionResponse(t)
	}
	Paginated(c, paginatedOf(items, result.Total, result.Page, result.PageSize))
}

// Summary returns the society's cash position over a date range. A
// missing range defaults to the current month.
func (h *TransactionHandler) Summary(c *gin.Context) {
	access, ok := getAccess(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var from, to time.Time
	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			h.BadRequest(c, "Invalid from date")
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			h.BadRequest(c, "Invalid to date")
			return
		}
		to = parsed
	}

	summary, err := h.statsService.CashPosition(c.Request.Context(), access, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
