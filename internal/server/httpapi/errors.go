package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"internship_service/internal/domain"
)

type apiError struct {
	Error apiErrorBody `json:"error"`
}

type apiErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Current string `json:"current_state,omitempty"`
}

func writeAPIError(c echo.Context, status int, body apiErrorBody) error {
	return c.JSON(status, apiError{Error: body})
}

// badRequest writes the error body and returns a non-nil error so callers can
// bail out; echo skips its own error rendering once the response is
// committed.
func badRequest(c echo.Context, message string) error {
	_ = writeAPIError(c, http.StatusBadRequest, apiErrorBody{Code: "bad_request", Message: message})
	return echo.ErrBadRequest
}

func unauthorized(c echo.Context, message string) error {
	_ = writeAPIError(c, http.StatusUnauthorized, apiErrorBody{Code: "unauthorized", Message: message})
	return echo.ErrUnauthorized
}

// writeError maps the core's typed errors onto HTTP statuses. Every blocked
// transition surfaces synchronously with its specific reason; nothing is
// coarsened into a generic failure except genuine internals.
func (h *Handler) writeError(c echo.Context, err error) error {
	var (
		validationErr    *domain.ValidationError
		notFoundErr      *domain.NotFoundError
		invalidStateErr  *domain.InvalidStateError
		authorizationErr *domain.AuthorizationError
	)

	switch {
	case errors.As(err, &validationErr):
		return writeAPIError(c, http.StatusBadRequest, apiErrorBody{
			Code:    "validation_error",
			Message: validationErr.Error(),
			Field:   validationErr.Field,
		})
	case errors.As(err, &authorizationErr):
		return writeAPIError(c, http.StatusForbidden, apiErrorBody{
			Code:    "forbidden",
			Message: authorizationErr.Error(),
		})
	case errors.As(err, &notFoundErr):
		return writeAPIError(c, http.StatusNotFound, apiErrorBody{
			Code:    "not_found",
			Message: notFoundErr.Error(),
		})
	case errors.As(err, &invalidStateErr):
		return writeAPIError(c, http.StatusConflict, apiErrorBody{
			Code:    "invalid_state",
			Message: invalidStateErr.Error(),
			Current: invalidStateErr.Current,
		})
	default:
		h.logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return writeAPIError(c, http.StatusInternalServerError, apiErrorBody{
			Code:    "internal_error",
			Message: "internal error",
		})
	}
}
