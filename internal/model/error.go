package model

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeEmptyOrder         = "EMPTY_ORDER"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeInvalidPrice       = "INVALID_PRICE"
	ErrCodeInvalidStatus      = "INVALID_STATUS"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeDuplicateUser      = "DUPLICATE_USER"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// DomainError carries a machine-readable code alongside the message so
// handlers can map business failures to HTTP statuses without string matching.
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
	ErrEmptyOrder         = NewDomainError(ErrCodeEmptyOrder, "Order must contain at least one item")
	ErrInvalidQuantity    = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidPrice       = NewDomainError(ErrCodeInvalidPrice, "Item price must not be negative")
	ErrMissingAddress     = NewDomainError(ErrCodeMissingField, "Delivery address is required")
	ErrInvalidStatus      = NewDomainError(ErrCodeInvalidStatus, "Unknown order status")
	ErrOrderNotFound      = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrUserNotFound       = NewDomainError(ErrCodeUserNotFound, "User not found")
	ErrDuplicateUser      = NewDomainError(ErrCodeDuplicateUser, "Username already exists")
	ErrInvalidCredentials = NewDomainError(ErrCodeInvalidCredentials, "Invalid username or password")
)
