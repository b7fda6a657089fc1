package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"partyround/backend/internal/hub"
	"partyround/backend/internal/session"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
	Code  string `json:"code,omitempty" example:"LOBBY_NOT_FOUND"`
}

// Handler carries the dependencies shared by all HTTP handlers.
type Handler struct {
	svc *session.Service
	hub *hub.Hub

	// keepalive between SSE comment frames.
	keepalive time.Duration
}

// New creates the handler set.
func New(svc *session.Service, h *hub.Hub, keepalive time.Duration) *Handler {
	if keepalive <= 0 {
		keepalive = 15 * time.Second
	}
	return &Handler{svc: svc, hub: h, keepalive: keepalive}
}

// respondError translates a session error into its HTTP shape; anything else
// is a 500.
func respondError(c *gin.Context, err error) {
	if se, ok := session.AsError(err); ok {
		c.JSON(se.Status, ErrorResponse{Error: se.Message, Code: se.Code})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
