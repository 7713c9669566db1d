package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserAlreadyExists is returned when registering an email that is taken.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrIncompleteRegistration is returned when a registration lacks a name, email or password.
	ErrIncompleteRegistration = errors.New("incomplete registration")
	// ErrPasswordTooLong is returned when a password exceeds what bcrypt can hash.
	ErrPasswordTooLong = errors.New("password too long")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnauthenticated is returned when a request carries no usable session.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidToken is returned when a session token is malformed, tampered or badly signed.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when a session token is past its expiration.
	ErrTokenExpired = errors.New("token expired")
	// ErrForbidden is returned when the session role does not allow an action.
	ErrForbidden = errors.New("forbidden")
	// ErrCarpoolNotFound is returned when a carpool offer is not found.
	ErrCarpoolNotFound = errors.New("carpool not found")
	// ErrInvalidCarpool is returned when carpool input fails validation.
	ErrInvalidCarpool = errors.New("invalid carpool offer")
	// ErrInvalidMessage is returned when a chat message is empty, too long or self-addressed.
	ErrInvalidMessage = errors.New("invalid message")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors (possibly wrapped) to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrCarpoolNotFound):
		return NewHTTPError(http.StatusNotFound, ErrCarpoolNotFound.Error(), "CARPOOL_NOT_FOUND")
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusConflict, ErrUserAlreadyExists.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenExpired):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthenticated.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	case errors.Is(err, ErrIncompleteRegistration), errors.Is(err, ErrPasswordTooLong):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_REGISTRATION")
	case errors.Is(err, ErrInvalidCarpool):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_CARPOOL")
	case errors.Is(err, ErrInvalidMessage):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_MESSAGE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
