package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatwire/chatwire/internal/domain"
)

// ErrorResponse is the standard format for API error responses.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps domain errors to HTTP responses. Anything unexpected is a
// 500 with the detail kept out of the response body.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Code: "not_found", Message: "not found"})
	case errors.Is(err, domain.ErrNotAdmin):
		return c.JSON(http.StatusForbidden, ErrorResponse{Code: "not_admin", Message: "only admins may do this"})
	case errors.Is(err, domain.ErrNotMember):
		return c.JSON(http.StatusForbidden, ErrorResponse{Code: "not_member", Message: "not a member of this group"})
	case errors.Is(err, domain.ErrForbidden):
		return c.JSON(http.StatusForbidden, ErrorResponse{Code: "forbidden", Message: "operation not permitted"})
	default:
		slog.Error("Request failed", "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Code: "internal", Message: "internal server error"})
	}
}
