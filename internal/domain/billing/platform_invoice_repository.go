package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyos/backend/internal/domain/shared"
)

// PlatformInvoiceQuery narrows platform invoice listings
type PlatformInvoiceQuery struct {
	shared.Filter
	Status    InvoiceStatus
	Period    string
	SocietyID *uuid.UUID
}

// PlatformRevenueStats summarizes subscription revenue across societies
type PlatformRevenueStats struct {
	TotalBilled  decimal.Decimal `json:"total_billed"`
	Collected    decimal.Decimal `json:"collected"`
	Outstanding  decimal.Decimal `json:"outstanding"`
	InvoiceCount int64           `json:"invoice_count"`
	PaidCount    int64           `json:"paid_count"`
}

// MonthlyRevenue is one point of the platform revenue trend
type MonthlyRevenue struct {
	Period    string          `json:"period"`
	Collected decimal.Decimal `json:"collected"`
	Billed    decimal.Decimal `json:"billed"`
}

// SocietyRevenue ranks a society by the revenue it generated
type SocietyRevenue struct {
	SocietyID   uuid.UUID       `json:"society_id"`
	SocietyCode string          `json:"society_code"`
	Collected   decimal.Decimal `json:"collected"`
}

// PlatformInvoiceRepository defines the persistence contract for
// platform subscription invoices. All operations are platform-only;
// enforcement happens in the application layer.
type PlatformInvoiceRepository interface {
	Save(ctx context.Context, invoice *PlatformInvoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*PlatformInvoice, error)
	List(ctx context.Context, query PlatformInvoiceQuery) (shared.Paginated[*PlatformInvoice], error)
	UpdatePaid(ctx context.Context, id uuid.UUID, fn func(*PlatformInvoice) error) (*PlatformInvoice, error)
	RevenueStats(ctx context.Context) (*PlatformRevenueStats, error)
	MonthlyTrend(ctx context.Context, months int) ([]MonthlyRevenue, error)
	TopSocieties(ctx context.Context, limit int) ([]SocietyRevenue, error)
}
