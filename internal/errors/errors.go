package errors

import "fmt"

// ErrorCode represents a jotter error code.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"    // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"          // 404
	ErrNoCategories      ErrorCode = "NO_CATEGORIES"      // 412
	ErrUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT" // 400
	ErrArchiveConflict   ErrorCode = "ARCHIVE_CONFLICT"   // 409
	ErrInternal          ErrorCode = "INTERNAL"           // 500
)

// Error represents a structured error with code, status, and details.
type Error struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *Error {
	return &Error{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a note cannot be found.
func NewNotFound(id string) *Error {
	return &Error{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("note not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewNoCategories creates a 412 error for when the category list is empty.
// Creating a note requires at least one category to exist; keeping the
// category list non-empty is the caller's responsibility.
func NewNoCategories() *Error {
	return &Error{
		Code:    ErrNoCategories,
		Status:  412,
		Message: "no categories available; at least one category must exist",
	}
}

// NewUnsupportedFormat creates a 400 error for unknown export formats.
func NewUnsupportedFormat(format string) *Error {
	return &Error{
		Code:    ErrUnsupportedFormat,
		Status:  400,
		Message: fmt.Sprintf("unsupported export format: %q", format),
		Details: map[string]any{"format": format},
	}
}

// NewArchiveConflict creates a 409 error for archive restore collisions.
func NewArchiveConflict(id string) *Error {
	return &Error{
		Code:    ErrArchiveConflict,
		Status:  409,
		Message: fmt.Sprintf("note %q already exists; use mode:replace to overwrite", id),
		Details: map[string]any{"id": id},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *Error {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a jotter Error with the given code.
func Is(err error, code ErrorCode) bool {
	if jErr, ok := err.(*Error); ok {
		return jErr.Code == code
	}
	return false
}
