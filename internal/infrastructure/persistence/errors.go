package persistence

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateKeyErr reports whether err is a unique-index violation.
// GORM only translates driver errors when configured to, so the raw
// driver messages are matched as well.
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// PostgreSQL (error code 23505)
	if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
		return true
	}
	// SQLite, used by the in-memory test databases
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return true
	}
	return false
}

// isRetryableTxErr reports whether err is a transient transaction
// failure worth one re-run: a serialization failure (SQLSTATE 40001)
// or a deadlock (SQLSTATE 40P01).
func isRetryableTxErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 40001") ||
		strings.Contains(msg, "SQLSTATE 40P01") ||
		strings.Contains(msg, "could not serialize access") ||
		strings.Contains(msg, "deadlock detected")
}

// runInTransaction wraps db.Transaction and re-runs the function at
// most once when the first attempt fails with a retryable error. The
// callback must be safe to re-run from scratch; every transactional
// repository method here is.
func runInTransaction(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	err := db.Transaction(fn)
	if isRetryableTxErr(err) {
		err = db.Transaction(fn)
	}
	return err
}
