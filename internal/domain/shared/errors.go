package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
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
	ErrNotFound              = NewDomainError("NOT_FOUND", "Asset record not found")
	ErrAlreadyExists         = NewDomainError("ALREADY_EXISTS", "Asset number already exists")
	ErrAlreadySettled        = NewDomainError("ALREADY_SETTLED", "Asset has already been settled")
	ErrTenureTooShort        = NewDomainError("TENURE_TOO_SHORT", "Invoice tenure is below the minimum of 20 days")
	ErrInvalidRecipient      = NewDomainError("INVALID_RECIPIENT", "Recipient identity must not be empty")
	ErrNotAuthorized         = NewDomainError("NOT_AUTHORIZED", "Caller is not the designated administrator")
	ErrArithmeticOverflow    = NewDomainError("ARITHMETIC_OVERFLOW", "Fixed-point arithmetic overflow")
	ErrInvalidAsset          = NewDomainError("INVALID_ASSET", "Asset is unknown to the exchange")
	ErrInsufficientAllowance = NewDomainError("INSUFFICIENT_ALLOWANCE", "Spender allowance does not cover the amount")
	ErrInsufficientBalance   = NewDomainError("INSUFFICIENT_BALANCE", "Account balance does not cover the amount")
	ErrTransferRejected      = NewDomainError("TRANSFER_REJECTED", "Recipient cannot receive asset transfers")
	ErrInvalidInput          = NewDomainError("INVALID_INPUT", "Invalid input provided")
)
