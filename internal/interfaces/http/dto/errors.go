package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the caller lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeAlreadySettled is used when mutating a settled asset
	ErrCodeAlreadySettled = "ERR_ALREADY_SETTLED"
	// ErrCodeTenureTooShort is used when the invoice tenure is below the floor
	ErrCodeTenureTooShort = "ERR_TENURE_TOO_SHORT"
	// ErrCodeInvalidRecipient is used for empty recipient identities
	ErrCodeInvalidRecipient = "ERR_INVALID_RECIPIENT"
	// ErrCodeArithmeticOverflow is used when a fixed-point computation overflows
	ErrCodeArithmeticOverflow = "ERR_ARITHMETIC_OVERFLOW"
	// ErrCodeInvalidAsset is used when the exchange does not know the asset
	ErrCodeInvalidAsset = "ERR_INVALID_ASSET"
	// ErrCodeInsufficientAllowance is used when the spender allowance is too small
	ErrCodeInsufficientAllowance = "ERR_INSUFFICIENT_ALLOWANCE"
	// ErrCodeInsufficientBalance is used when the account balance is too small
	ErrCodeInsufficientBalance = "ERR_INSUFFICIENT_BALANCE"
	// ErrCodeTransferRejected is used when the recipient cannot receive transfers
	ErrCodeTransferRejected = "ERR_TRANSFER_REJECTED"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeValidationFormat: http.StatusBadRequest,
	ErrCodeValidationRange:  http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeAlreadySettled:        http.StatusUnprocessableEntity,
	ErrCodeTenureTooShort:        http.StatusUnprocessableEntity,
	ErrCodeInvalidRecipient:      http.StatusUnprocessableEntity,
	ErrCodeArithmeticOverflow:    http.StatusUnprocessableEntity,
	ErrCodeInvalidAsset:          http.StatusUnprocessableEntity,
	ErrCodeInsufficientAllowance: http.StatusUnprocessableEntity,
	ErrCodeInsufficientBalance:   http.StatusUnprocessableEntity,
	ErrCodeTransferRejected:      http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to transport error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":              ErrCodeNotFound,
	"ALREADY_EXISTS":         ErrCodeAlreadyExists,
	"ALREADY_SETTLED":        ErrCodeAlreadySettled,
	"TENURE_TOO_SHORT":       ErrCodeTenureTooShort,
	"INVALID_RECIPIENT":      ErrCodeInvalidRecipient,
	"NOT_AUTHORIZED":         ErrCodeForbidden,
	"ARITHMETIC_OVERFLOW":    ErrCodeArithmeticOverflow,
	"INVALID_ASSET":          ErrCodeInvalidAsset,
	"INSUFFICIENT_ALLOWANCE": ErrCodeInsufficientAllowance,
	"INSUFFICIENT_BALANCE":   ErrCodeInsufficientBalance,
	"TRANSFER_REJECTED":      ErrCodeTransferRejected,
	"INVALID_INPUT":          ErrCodeInvalidInput,
}

// NormalizeErrorCode converts a domain error code to the transport format
// If the code is already in the transport format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
