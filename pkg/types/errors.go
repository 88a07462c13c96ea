package types

import (
	"errors"
	"fmt"
)

// Validation failure kinds. Match with errors.Is.
var (
	ErrInvalidSymbol        = errors.New("invalid symbol")
	ErrInvalidSide          = errors.New("invalid side")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrInvalidPrice         = errors.New("invalid price")
	ErrInvalidChunkCount    = errors.New("invalid chunk count")
	ErrChunksExceedQuantity = errors.New("chunks exceed quantity")
	ErrInvalidInterval      = errors.New("invalid interval")
)

// ValidationError is returned when order input is rejected before any order is placed.
type ValidationError struct {
	Kind    error  // One of the Err* kinds above
	Field   string // Input field that failed
	Message string // Human-readable reason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(kind error, field string, format string, args ...any) *ValidationError {
	return &ValidationError{
		Kind:    kind,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsValidationError reports whether err carries a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// APIError represents an error response returned by the futures REST API.
type APIError struct {
	StatusCode int    `json:"-"`    // HTTP status
	Code       int    `json:"code"` // Exchange error code, e.g. -2019
	Message    string `json:"msg"`
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("API error (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
	}

	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// Known futures API error codes.
const (
	ErrCodeInsufficientMargin = -2019
	ErrCodeInvalidQuantity    = -1013 // Filter failure, e.g. LOT_SIZE or PRICE_FILTER
	ErrCodeInvalidSignature   = -1022
)
