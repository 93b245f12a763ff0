package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeTranscriptionFailed = "TRANSCRIPTION_FAILED"
	ErrCodeNoItemsDetected     = "NO_ITEMS_DETECTED"
	ErrCodeUntrustedRequest    = "UNTRUSTED_REQUEST"
	ErrCodeOrderNotFound       = "ORDER_NOT_FOUND"
	ErrCodeMenuItemNotFound    = "MENU_ITEM_NOT_FOUND"
	ErrCodeInvalidRequest      = "INVALID_REQUEST"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrTranscriptionFailed = NewDomainError(ErrCodeTranscriptionFailed, "Voice message could not be transcribed")
	ErrNoItemsDetected     = NewDomainError(ErrCodeNoItemsDetected, "No menu items detected in message")
	ErrUntrustedRequest    = NewDomainError(ErrCodeUntrustedRequest, "Request did not come from a trusted source")
	ErrOrderNotFound       = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrMenuItemNotFound    = NewDomainError(ErrCodeMenuItemNotFound, "Menu item not found")
)
