package errors

import "fmt"

// ErrorCode represents a todomd error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrFileTooLarge   ErrorCode = "FILE_TOO_LARGE"  // 413
	ErrEncoding       ErrorCode = "ENCODING_ERROR"  // 422
	ErrIO             ErrorCode = "IO_ERROR"        // 500
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// TodoError represents a structured error with code, status, and details.
// Content-shape problems (malformed lines, bad dates) are never errors;
// the parser degrades gracefully. Only the I/O and encoding boundary
// produces hard errors.
type TodoError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *TodoError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *TodoError {
	return &TodoError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a task or group that cannot be
// resolved from its reference.
func NewNotFound(kind, ref string) *TodoError {
	return &TodoError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", kind, ref),
		Details: map[string]any{"kind": kind, "ref": ref},
	}
}

// NewFileTooLarge creates a 413 error when the todo file exceeds the
// configured size limit.
func NewFileTooLarge(max, actual int64) *TodoError {
	return &TodoError{
		Code:    ErrFileTooLarge,
		Status:  413,
		Message: fmt.Sprintf("file exceeds maximum size: %d bytes (max %d)", actual, max),
		Details: map[string]any{"max_bytes": max, "actual_bytes": actual},
	}
}

// NewEncoding creates a 422 error for content that is not valid UTF-8 text.
func NewEncoding(msg string) *TodoError {
	return &TodoError{
		Code:    ErrEncoding,
		Status:  422,
		Message: msg,
	}
}

// NewIO creates a 500 error for an unreadable or unwritable file.
// Surfaced to the caller untouched; never retried.
func NewIO(op string, err error) *TodoError {
	return &TodoError{
		Code:    ErrIO,
		Status:  500,
		Message: fmt.Sprintf("%s: %v", op, err),
		Details: map[string]any{"op": op},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *TodoError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &TodoError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a TodoError with the given code.
func Is(err error, code ErrorCode) bool {
	if tErr, ok := err.(*TodoError); ok {
		return tErr.Code == code
	}
	return false
}
