package dto

import (
	"errors"
	"net/http"

	"github.com/vidtube/vidtube_backend/internal/apperrors"
)

// Response is the success envelope every endpoint returns.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
}

// ErrorResponse is the failure envelope every endpoint returns.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// NewResponse builds a success envelope.
func NewResponse(statusCode int, data any, message string) Response {
	return Response{StatusCode: statusCode, Data: data, Message: message}
}

// NewErrorResponse builds a failure envelope.
func NewErrorResponse(statusCode int, message string) ErrorResponse {
	return ErrorResponse{StatusCode: statusCode, Message: message, Success: false}
}

// StatusFromError maps domain errors onto HTTP status codes. Unknown errors
// are treated as internal.
func StatusFromError(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
