package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/moatalk/moatalk/internal/domain"
	"github.com/moatalk/moatalk/internal/middleware"
)

// AuthHandler handles account creation and session lifecycle.
type AuthHandler struct {
	users domain.UserRepository
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users domain.UserRepository) *AuthHandler {
	return &AuthHandler{users: users}
}

// Register handles POST /register.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	logger := middleware.FromContext(c.Request().Context())
	user, err := h.users.Register(c.Request().Context(), req.Name, req.LoginID, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return echo.NewHTTPError(http.StatusConflict, "login id already taken")
		}
		logger.Error("Error creating user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create account")
	}

	if err := h.saveSession(c, user.SessionID); err != nil {
		logger.Error("Failed to save session after register", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not start session")
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login handles POST /login. A successful login rotates the server-side
// session id, invalidating sessions on other devices.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	logger := middleware.FromContext(c.Request().Context())
	user, err := h.users.Login(c.Request().Context(), req.LoginID, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			logger.Warn("Failed login attempt", "login_id", req.LoginID)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid login id or password")
		}
		logger.Error("Error during login", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not log in")
	}

	if err := h.saveSession(c, user.SessionID); err != nil {
		logger.Error("Failed to save session after login", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not start session")
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Logout handles POST /logout. It invalidates the server-side session id
// and expires the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	if user, ok := middleware.CurrentUser(c); ok {
		if err := h.users.ClearSession(c.Request().Context(), user.Seq); err != nil {
			middleware.FromContext(c.Request().Context()).Error("Failed to clear session", "userID", user.Seq, "error", err)
		}
	}

	sess, err := session.Get(middleware.SessionName, c)
	if err == nil {
		sess.Options.MaxAge = -1
		_ = sess.Save(c.Request(), c.Response())
	}
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /me, returning the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) saveSession(c echo.Context, sessionID string) error {
	sess, err := session.Get(middleware.SessionName, c)
	if err != nil {
		return err
	}
	sess.Options.Path = "/"
	sess.Options.MaxAge = 7 * 24 * 60 * 60
	sess.Options.HttpOnly = true
	sess.Options.SameSite = http.SameSiteLaxMode
	sess.Options.Secure = c.Request().TLS != nil
	sess.Values[middleware.SessionIDKey] = sessionID
	return sess.Save(c.Request(), c.Response())
}
