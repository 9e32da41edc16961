package errors

import (
	"fmt"
	"net/http"
)

var (
	// Session and tokens
	ErrInvalidSigningMethod = fmt.Errorf("unexpected token signing method")
	ErrInvalidToken         = fmt.Errorf("invalid session token")
	ErrSessionExpired       = fmt.Errorf("session expired")

	// Authentication / authorization
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUnauthorized       = fmt.Errorf("unauthorized")
	ErrForbidden          = fmt.Errorf("forbidden")
	ErrAccountLocked      = fmt.Errorf("account temporarily locked after too many failed attempts")

	// Context
	ErrIdentityNotFoundInContext = fmt.Errorf("session identity not found in request context")

	// Generic
	ErrNotFound = fmt.Errorf("record not found")

	// Workflow
	ErrInvalidTransition = fmt.Errorf("demande already decided")
	ErrMaterielConflict  = fmt.Errorf("materiel already assigned")
)

// HttpError carries the status code and user-facing message for a failure,
// plus the underlying error and any context worth logging.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}

// NewDuplicateKeyError is the 400 every unique-constraint violation maps to.
func NewDuplicateKeyError(message string, err error) *HttpError {
	return NewHttpError(http.StatusBadRequest, message, err, nil)
}

type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}
