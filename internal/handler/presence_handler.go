package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HeartbeatInput struct {
	LobbyID      string `json:"lobby_id" binding:"required"`
	PlayerID     string `json:"player_id" binding:"required"`
	SessionToken string `json:"session_token"`
}

// Heartbeat godoc
// @Summary      Report client liveness
// @Description  Refreshes the player's lastSeenAt and re-activates them.
// @Description  Heartbeats are best-effort: mismatched state is ignored and
// @Description  never escalated to the caller.
// @Tags         presence
// @Accept       json
// @Param        input body HeartbeatInput true "Heartbeat"
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse "Malformed body"
// @Router       /presence/heartbeat [post]
func (h *Handler) Heartbeat(c *gin.Context) {
	var input HeartbeatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.svc.Heartbeat(input.LobbyID, input.PlayerID, input.SessionToken)
	c.Status(http.StatusNoContent)
}
