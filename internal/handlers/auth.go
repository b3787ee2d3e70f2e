package handlers

import (
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/chatwire/chatwire/internal/domain"
	"github.com/chatwire/chatwire/internal/middleware"
)

// AuthHandler manages the cookie session used by the API. Full credential
// handling is owned by an upstream identity service; this handler only
// establishes which known user a session belongs to.
type AuthHandler struct {
	users domain.UserRepository
}

func NewAuthHandler(users domain.UserRepository) *AuthHandler {
	return &AuthHandler{users: users}
}

// Login handles POST /api/auth/login. It binds the session to an existing
// user id.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.FindUserByID(c.Request().Context(), req.UserID)
	if err != nil {
		return writeError(c, err)
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Code: "not_found", Message: "unknown user"})
	}

	sess, err := session.Get(middleware.SessionName, c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "session error")
	}
	sess.Options.HttpOnly = true
	sess.Options.Path = "/"
	sess.Values[middleware.SessionUserKey] = user.ID
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "session error")
	}

	return c.JSON(http.StatusOK, user)
}

// Logout handles POST /api/auth/logout by expiring the session cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, err := session.Get(middleware.SessionName, c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "session error")
	}
	sess.Options.MaxAge = -1
	delete(sess.Values, middleware.SessionUserKey)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "session error")
	}
	return c.NoContent(http.StatusNoContent)
}
