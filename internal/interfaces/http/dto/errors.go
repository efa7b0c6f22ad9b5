package dto

import "net/http"

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed fall back to 500.
var ErrorCodeHTTPStatus = map[string]int{
	// Authentication
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"TOKEN_ERROR":         http.StatusUnauthorized,
	"ACCOUNT_LOCKED":      http.StatusUnauthorized,
	"ACCOUNT_DEACTIVATED": http.StatusUnauthorized,
	"ACCOUNT_INACTIVE":    http.StatusUnauthorized,

	// Authorization
	"FORBIDDEN": http.StatusForbidden,

	// Resources
	"NOT_FOUND":                http.StatusNotFound,
	"ALREADY_EXISTS":           http.StatusConflict,
	"VERSION_CONFLICT":         http.StatusConflict,
	"ALREADY_PAID":             http.StatusConflict,
	"UNIT_OCCUPIED":            http.StatusConflict,
	"DUPLICATE_INVOICE_NUMBER": http.StatusConflict,

	// Input validation
	"INVALID_INPUT":        http.StatusBadRequest,
	"INVALID_NAME":         http.StatusBadRequest,
	"INVALID_EMAIL":        http.StatusBadRequest,
	"INVALID_PASSWORD":     http.StatusBadRequest,
	"INVALID_PHONE":        http.StatusBadRequest,
	"INVALID_ROLE":         http.StatusBadRequest,
	"INVALID_PINCODE":      http.StatusBadRequest,
	"INVALID_SOCIETY":      http.StatusBadRequest,
	"INVALID_UNIT":         http.StatusBadRequest,
	"INVALID_UNIT_TYPE":    http.StatusBadRequest,
	"INVALID_UNIT_LABEL":   http.StatusBadRequest,
	"INVALID_BLOCK":        http.StatusBadRequest,
	"INVALID_UNIT_NUMBER":  http.StatusBadRequest,
	"INVALID_CHARGE":       http.StatusBadRequest,
	"INVALID_AREA":         http.StatusBadRequest,
	"INVALID_USER":         http.StatusBadRequest,
	"INVALID_AMOUNT":       http.StatusBadRequest,
	"INVALID_PERIOD":       http.StatusBadRequest,
	"INVALID_DUE_DATE":     http.StatusBadRequest,
	"INVALID_PAYMENT_MODE": http.StatusBadRequest,
	"INVALID_CATEGORY":     http.StatusBadRequest,
	"INVALID_TXN_TYPE":     http.StatusBadRequest,
	"INVALID_REFERENCE":    http.StatusBadRequest,
	"MISSING_SOCIETY":      http.StatusBadRequest,

	// Business rules
	"INVALID_STATE":      http.StatusUnprocessableEntity,
	"SOCIETY_NOT_ACTIVE": http.StatusUnprocessableEntity,
	"SOCIETY_SUSPENDED":  http.StatusUnprocessableEntity,
	"NOT_DUE":            http.StatusUnprocessableEntity,

	// Infrastructure
	"INTERNAL":      http.StatusInternalServerError,
	"STORAGE_ERROR": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for a domain error code,
// defaulting to 500 for unmapped codes
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
