package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Domain sentinels. Handlers match on these with errors.Is and decide how the
// failure is surfaced (flash message, redirect, not-found page, hard 403).
var (
	ErrDuplicateEmail = errors.New("email already registered")
	ErrUnknownEmail   = errors.New("unknown email")
	ErrBadCredentials = errors.New("bad credentials")
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrAuthRequired   = errors.New("authentication required")
	ErrValidation     = errors.New("invalid input")
	ErrMailTransport  = errors.New("mail transport failure")
)

// WebErr is an error carrying the HTTP status it should surface as.
type WebErr struct {
	StatusCode int
	err        error
	Cause      error
}

// implements error interface. this allows us to pass an instance of WebErr as
// an argument of type `error`
func (e *WebErr) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.err.Error(), e.Cause.Error())
	}
	return e.err.Error()
}

// this function allows us to do the following:
// err := &WebErr{StatusCode: ..., err: someSentinelError}
// errors.Is(err, someSentinelError) ==> evaluates to true
func (e *WebErr) Unwrap() error {
	return e.err
}

func New(statusCode int, sentinel error) *WebErr {
	return &WebErr{StatusCode: statusCode, err: sentinel}
}

func NotFound(entity string) *WebErr {
	return &WebErr{StatusCode: http.StatusNotFound, err: fmt.Errorf("%s %w", entity, ErrNotFound)}
}

func Forbidden() *WebErr {
	return &WebErr{StatusCode: http.StatusForbidden, err: ErrForbidden}
}

func AuthRequired() *WebErr {
	return &WebErr{StatusCode: http.StatusUnauthorized, err: ErrAuthRequired}
}

func Validation(reason string) *WebErr {
	return &WebErr{StatusCode: http.StatusBadRequest, err: fmt.Errorf("%w: %s", ErrValidation, reason)}
}

func DuplicateEmail() *WebErr {
	return &WebErr{StatusCode: http.StatusConflict, err: ErrDuplicateEmail}
}

func MailTransport(cause error) *WebErr {
	return &WebErr{StatusCode: http.StatusBadGateway, err: ErrMailTransport, Cause: cause}
}

// Database wraps a persistence failure, mapping gorm's record-not-found onto
// the domain's NotFound sentinel so callers match on one error family.
func Database(operation, entity string, cause error) *WebErr {
	if cause != nil && strings.Contains(cause.Error(), "record not found") {
		return NotFound(entity)
	}
	return &WebErr{
		StatusCode: http.StatusInternalServerError,
		err:        fmt.Errorf("failed to %s %s", operation, entity),
		Cause:      cause,
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
