package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/parley-chat/parley/internal/domain"
)

// SessionName is the cookie session holding the logged-in username.
const SessionName = "session"

// AuthHandler handles login and logout.
type AuthHandler struct {
	users domain.UserRepository
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users domain.UserRepository) *AuthHandler {
	return &AuthHandler{users: users}
}

// Login finds or creates the user for the submitted username. Registration
// races on the same username are arbitrated by the store's unique index; the
// loser gets a 409.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "username is required"})
	}

	ctx := c.Request().Context()

	user, err := h.users.FindByUsername(ctx, req.Username)
	if err != nil {
		slog.Error("Failed to look up user", "username", req.Username, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not log you in"})
	}

	message := "Welcome back"
	if user == nil {
		user, err = h.users.Create(ctx, req.Username)
		if err != nil {
			if errors.Is(err, domain.ErrUsernameTaken) {
				return c.JSON(http.StatusConflict, ErrorResponse{Error: "username already taken"})
			}
			slog.Error("Failed to create user", "username", req.Username, "error", err)
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not create your account"})
		}
		message = "User registered"
	}

	h.saveSession(c, user.Username)

	return c.JSON(http.StatusOK, LoginResponse{Message: message, Username: user.Username})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, err := session.Get(SessionName, c)
	if err == nil {
		sess.Options.MaxAge = -1
		_ = sess.Save(c.Request(), c.Response())
	}
	return c.NoContent(http.StatusNoContent)
}

// saveSession records the username in the cookie session. Best-effort: a
// cookie failure must not fail the login response.
func (h *AuthHandler) saveSession(c echo.Context, username string) {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		slog.Warn("Failed to open session", "error", err)
		return
	}
	sess.Values["username"] = username
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		slog.Warn("Failed to save session", "error", err)
	}
}
