package apierrors

import (
	"errors"
	"net/http"
)

var (
	// ErrDuplicateEmail is returned when the registration email is taken.
	ErrDuplicateEmail = errors.New("an account with this email already exists")
	// ErrInvalidCredentials deliberately covers both unknown email and
	// wrong password, so login cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrWrongPortal is returned when a valid login arrives through the
	// other role's portal.
	ErrWrongPortal = errors.New("access denied")
	// ErrForbidden is returned on role or assignment violations.
	ErrForbidden = errors.New("permission denied")
	// ErrNotFound is returned when a referenced resource does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrValidation is returned on missing or malformed input.
	ErrValidation = errors.New("invalid request")
)

// HTTPError carries a status code alongside the message sent to the UI.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates an HTTPError with an explicit message.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

// MapToHTTP maps domain errors to HTTP errors. Anything unrecognized is
// treated as a store fault.
func MapToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	switch {
	case errors.Is(err, ErrDuplicateEmail):
		return NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrWrongPortal):
		return NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
