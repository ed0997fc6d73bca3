package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 12000-12999: Problem registry errors

const (
	// ========== System & Common Errors (10000-10999) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalServerError ErrorCode = 10001
	InvalidParams       ErrorCode = 10002
	NotFound            ErrorCode = 10003

	// Store errors (10100-10199)
	StoreError ErrorCode = 10100

	// Validation errors (10300-10399)
	ValidationFailed   ErrorCode = 10300
	RequiredFieldEmpty ErrorCode = 10301

	// ========== Problem Registry Errors (12000-12999) ==========

	ProblemNotFound    ErrorCode = 12000
	InvalidStatusValue ErrorCode = 12001
)

// errorMessages maps error codes to their default English messages
var errorMessages = map[ErrorCode]string{
	// System & Common
	Success:             "Success",
	InternalServerError: "Something went wrong!",
	InvalidParams:       "Invalid parameters",
	NotFound:            "Route not found",

	// Store
	StoreError: "Store operation failed",

	// Validation
	ValidationFailed:   "Validation failed",
	RequiredFieldEmpty: "Please provide all required fields",

	// Problem registry
	ProblemNotFound:    "Problem not found",
	InvalidStatusValue: "Invalid status. Must be: open, in-progress, or resolved",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// HTTPStatus returns the recommended HTTP status code for the error code
func (c ErrorCode) HTTPStatus() int {
	switch {
	case c == Success:
		return 200
	case c == NotFound, c == ProblemNotFound:
		return 404
	case c >= 10300 && c < 10400: // Validation errors
		return 400
	case c == InvalidParams, c == InvalidStatusValue:
		return 400
	default:
		return 500
	}
}
