package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// PresenceReader exposes the tracker's view of who is online.
type PresenceReader interface {
	Count() int
	Usernames() []string
}

// PresenceHandler serves the current presence snapshot.
type PresenceHandler struct {
	tracker PresenceReader
}

// NewPresenceHandler creates a new PresenceHandler.
func NewPresenceHandler(tracker PresenceReader) *PresenceHandler {
	return &PresenceHandler{tracker: tracker}
}

// Get returns the live connection count and the distinct usernames online.
func (h *PresenceHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, PresenceResponse{
		Count:     h.tracker.Count(),
		Usernames: h.tracker.Usernames(),
	})
}
