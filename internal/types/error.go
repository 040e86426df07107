package types

import "fmt"

// Error codes shared across the service. Handlers serialize these verbatim;
// nothing outside this package invents new codes ad hoc.
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeInvalidFilter        = "INVALID_FILTER"
	CodeRateLimitExceeded    = "RATE_LIMIT_EXCEEDED"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeAlreadyAuthenticated = "ALREADY_AUTHENTICATED"
	CodeEmailExists          = "EMAIL_EXISTS"
	CodeNotFound             = "NOT_FOUND"
	CodeCardNotFound         = "CARD_NOT_FOUND"
	CodeSetNotFound          = "SET_NOT_FOUND"
	CodeEntryNotFound        = "ENTRY_NOT_FOUND"
	CodeListNotFound         = "LIST_NOT_FOUND"
	CodeListLimitReached     = "LIST_LIMIT_REACHED"
	CodeCatalogUnavailable   = "CATALOG_UNAVAILABLE"
	CodeStatusUnavailable    = "STATUS_UNAVAILABLE"
	CodeInternal             = "INTERNAL_ERROR"
)

// AppError is the single typed error carried between the service layer and
// the handlers. Details holds optional structured context, typically a
// "fields" map for validation failures or "retryAfter" for rate limits.
type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"-"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAppError builds an AppError without details.
func NewAppError(code, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, Status: status}
}

// ValidationError builds a 400 VALIDATION_ERROR carrying a per-field map so
// callers can highlight offending inputs.
func ValidationError(message string, fields map[string]string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
		Status:  400,
		Details: map[string]interface{}{"fields": fields},
	}
}

// FilterError builds a 400 INVALID_FILTER with a per-field map.
func FilterError(message string, fields map[string]string) *AppError {
	return &AppError{
		Code:    CodeInvalidFilter,
		Message: message,
		Status:  400,
		Details: map[string]interface{}{"fields": fields},
	}
}

// RateLimitError builds a 429 carrying the seconds remaining in the window.
func RateLimitError(retryAfter int) *AppError {
	return &AppError{
		Code:    CodeRateLimitExceeded,
		Message: "Too many attempts, retry later",
		Status:  429,
		Details: map[string]interface{}{"retryAfter": retryAfter},
	}
}
