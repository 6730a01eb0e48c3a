package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parley-chat/parley/internal/handlers"
	"github.com/parley-chat/parley/internal/middleware"
)

// RegisterRoutes sets up the server-level routes. Module routes are mounted
// during Boot.
func (s *Server) RegisterRoutes() {
	authHandler := handlers.NewAuthHandler(s.deps.Users)
	rateLimiter := middleware.RateLimiter()

	s.E.POST("/login", authHandler.Login, rateLimiter)
	s.E.POST("/logout", authHandler.Logout)

	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
}
