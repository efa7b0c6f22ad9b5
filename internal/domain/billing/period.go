package billing

import (
	"fmt"
	"time"

	"github.com/societyos/backend/internal/domain/shared"
)

// Period identifies one billing month. Invoices are raised per unit
// per period, and statistics are aggregated per period.
type Period struct {
	Year  int
	Month time.Month
}

// ParsePeriod parses a period in "YYYY-MM" form
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, shared.NewDomainError("INVALID_PERIOD", "Period must be in YYYY-MM format")
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

// PeriodOf returns the period containing the given time
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// IsZero returns true for the zero period
func (p Period) IsZero() bool {
	return p.Year == 0
}

// String returns the period in "YYYY-MM" form
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// YearMonth returns the compact "YYYYMM" form used in invoice numbers
func (p Period) YearMonth() string {
	return fmt.Sprintf("%04d%02d", p.Year, int(p.Month))
}

// Start returns the first instant of the period (UTC)
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant of the following period (exclusive bound)
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// DueDate returns the payment due date: the period start plus the
// society's grace days
func (p Period) DueDate(graceDays int) time.Time {
	return p.Start().AddDate(0, 0, graceDays)
}

// Next returns the following period
func (p Period) Next() Period {
	return PeriodOf(p.End())
}

// Previous returns the preceding period
func (p Period) Previous() Period {
	return PeriodOf(p.Start().AddDate(0, -1, 0))
}

// Before reports whether p is earlier than other
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}
