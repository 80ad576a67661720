package errors

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrBadRequest           = errors.New("bad request")
	ErrInternalServer       = errors.New("internal server error")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token expired")
	ErrEmailNotVerified     = errors.New("email is not verified")
	ErrAccountDisabled      = errors.New("user account is disabled")
	ErrEmptyContent         = errors.New("message content is required")
	ErrSelfMessage          = errors.New("cannot send message to yourself")
	ErrReceiverNotFound     = errors.New("receiver not found")
	ErrListingNotFound      = errors.New("listing not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

type APIError struct {
	Message string `json:"error"`
	Code    int    `json:"code"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(message string, code int) *APIError {
	return &APIError{
		Message: message,
		Code:    code,
	}
}

func HTTPStatusFromError(err error) int {
	switch err {
	case ErrNotFound, ErrReceiverNotFound, ErrListingNotFound, ErrNotificationNotFound:
		return http.StatusNotFound
	case ErrUnauthorized, ErrInvalidToken, ErrTokenExpired, ErrEmailNotVerified, ErrAccountDisabled:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrBadRequest, ErrEmptyContent, ErrSelfMessage:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
