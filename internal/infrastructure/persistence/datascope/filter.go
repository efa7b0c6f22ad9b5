// Package datascope provides row-level visibility filtering for GORM queries.
//
// Every society-scoped table carries a society_id column. A caller's
// AccessContext decides which rows a query may see: platform operators see
// every society, society members see their own society only, and residents
// are further narrowed to their own records on personal resources. The
// filter fails closed: an access context without a society yields a query
// that matches nothing.
//
// Usage:
//
//	db.Scopes(datascope.Scope(access, datascope.ResourceInvoice)).Find(&invoices)
package datascope

import (
	"github.com/societyos/backend/internal/domain/identity"
	"gorm.io/gorm"
)

// Resource identifies a kind of scoped data for visibility decisions
type Resource string

const (
	ResourceUnit        Resource = "unit"
	ResourceUser        Resource = "user"
	ResourceInvoice     Resource = "invoice"
	ResourceTransaction Resource = "transaction"
)

// Scope returns a GORM scope that applies the caller's visibility for the
// given resource. The returned scope composes with any other query clauses.
// An unknown resource panics: scoping a table this package does not know
// about is a programming error, not a runtime condition.
func Scope(access identity.AccessContext, resource Resource) func(db *gorm.DB) *gorm.DB {
	switch resource {
	case ResourceUnit, ResourceUser, ResourceInvoice, ResourceTransaction:
	default:
		panic("datascope: unknown resource " + string(resource))
	}

	return func(db *gorm.DB) *gorm.DB {
		if access.Role.IsPlatform() {
			return db
		}

		if access.SocietyID == nil {
			// Society role (or zero-value context) without a society:
			// match nothing rather than leak cross-society rows.
			return DenyAll(db)
		}
		db = db.Where("society_id = ?", *access.SocietyID)

		if access.Role == identity.RoleResident {
			switch resource {
			case ResourceInvoice:
				db = db.Where("resident_id = ?", access.UserID)
			case ResourceUser:
				db = db.Where("id = ?", access.UserID)
			}
		}

		return db
	}
}

// UserScope returns the visibility scope for the users table. Users are not
// society aggregates (platform operators have no society), so the society
// column is nullable and residents only ever see their own account.
func UserScope(access identity.AccessContext) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if access.Role.IsPlatform() {
			return db
		}
		if access.SocietyID == nil {
			return DenyAll(db)
		}
		db = db.Where("society_id = ?", *access.SocietyID)
		if access.Role == identity.RoleResident {
			db = db.Where("id = ?", access.UserID)
		}
		return db
	}
}

// DenyAll returns a query that matches no rows. Used when the caller's
// context cannot be trusted to see anything.
func DenyAll(db *gorm.DB) *gorm.DB {
	return db.Where("1 = 0")
}

// CanSeeAcrossSocieties reports whether the access context is exempt from
// society filtering entirely.
func CanSeeAcrossSocieties(access identity.AccessContext) bool {
	return access.Role.IsPlatform()
}
