package middleware

import (
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/moatalk/moatalk/internal/domain"
)

// UserContextKey is where Auth stores the resolved *domain.User on the echo
// context.
const UserContextKey = "user"

// SessionName is the cookie session holding the opaque session id.
const SessionName = "moatalk-session"

// SessionIDKey is the key inside the cookie session.
const SessionIDKey = "session_id"

// Auth protects routes that require authentication. It reads the opaque
// session id from the cookie session, resolves it to a user and stores the
// user in the context for downstream handlers.
func Auth(users domain.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := session.Get(SessionName, c)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
			}

			sessionID, _ := sess.Values[SessionIDKey].(string)
			if sessionID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
			}

			user, err := users.FindBySessionID(c.Request().Context(), sessionID)
			if err != nil {
				// Clear the stale cookie so the client stops presenting it.
				sess.Options.MaxAge = -1
				_ = sess.Save(c.Request(), c.Response())
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user placed in the context by Auth.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(UserContextKey).(*domain.User)
	return user, ok && user != nil
}
