package middleware

import (
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	// SessionName is the cookie session used for API authentication.
	SessionName = "chatwire_session"
	// SessionUserKey is the session value holding the caller's user id.
	SessionUserKey = "user_id"
	// UserContextKey is the echo context key the resolved user id is stored
	// under for downstream handlers.
	UserContextKey = "user_id"
)

// Auth resolves the caller identity from the cookie session before the core
// handlers run. Requests without a valid session get a 401; the realtime
// endpoint is not behind this middleware since identity arrives there via
// the register control event.
func Auth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := session.Get(SessionName, c)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
			}

			userID, ok := sess.Values[SessionUserKey].(string)
			if !ok || userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}

			c.Set(UserContextKey, userID)
			return next(c)
		}
	}
}

// CallerID returns the authenticated user id stored by Auth.
func CallerID(c echo.Context) string {
	userID, _ := c.Get(UserContextKey).(string)
	return userID
}
