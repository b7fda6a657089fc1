package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type StartRoundInput struct {
	LobbyID string `json:"lobby_id" binding:"required"`
}

type LifeInput struct {
	PlayerID string `json:"player_id" binding:"required"`
	// Lives is a pointer so that 0 still binds.
	Lives *int `json:"lives" binding:"required" minimum:"0" maximum:"4"`
}

type FinishRoundInput struct {
	WinnerPlayerID string `json:"winner_player_id" binding:"required"`
}

// endregion

// StartRound godoc
// @Summary      Start the next round in a lobby
// @Description  Creates the round with the next number and seeds 4 lives for
// @Description  every player on the roster. Rejected while a round is running.
// @Tags         rounds
// @Accept       json
// @Produce      json
// @Param        input body StartRoundInput true "Lobby to start in"
// @Success      201 {object} session.RoundWithLives
// @Failure      404 {object} ErrorResponse "Lobby not found"
// @Failure      409 {object} ErrorResponse "A round is already running"
// @Router       /rounds/start [post]
func (h *Handler) StartRound(c *gin.Context) {
	var input StartRoundInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.svc.StartRound(input.LobbyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// CurrentRound godoc
// @Summary      Get a lobby's current round
// @Description  The round with the highest number, with its life states.
// @Tags         rounds
// @Produce      json
// @Param        id path string true "Lobby ID"
// @Success      200 {object} session.RoundWithLives
// @Failure      404 {object} ErrorResponse "Lobby or round not found"
// @Router       /lobbies/{id}/rounds/current [get]
func (h *Handler) CurrentRound(c *gin.Context) {
	result, err := h.svc.CurrentRound(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateLife godoc
// @Summary      Update a player's lives in a running round
// @Tags         rounds
// @Accept       json
// @Produce      json
// @Param        id    path string    true "Round ID"
// @Param        input body LifeInput true "Life update"
// @Success      200 {object} models.LifeState
// @Failure      400 {object} ErrorResponse "Lives outside 0..4"
// @Failure      404 {object} ErrorResponse "Round or player not found"
// @Failure      409 {object} ErrorResponse "Round is not running"
// @Router       /rounds/{id}/life [patch]
func (h *Handler) UpdateLife(c *gin.Context) {
	var input LifeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ls, err := h.svc.UpdateLife(c.Param("id"), input.PlayerID, *input.Lives)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ls)
}

// FinishRound godoc
// @Summary      Finish a running round
// @Description  Records the winner, increments their score and broadcasts the
// @Description  score snapshot to the lobby's subscribers.
// @Tags         rounds
// @Accept       json
// @Produce      json
// @Param        id    path string           true "Round ID"
// @Param        input body FinishRoundInput true "Winner"
// @Success      200 {object} session.FinishResult
// @Failure      404 {object} ErrorResponse "Round or winner not found"
// @Failure      409 {object} ErrorResponse "Round already finished"
// @Router       /rounds/{id}/finish [post]
func (h *Handler) FinishRound(c *gin.Context) {
	var input FinishRoundInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.svc.FinishRound(c.Request.Context(), c.Param("id"), input.WinnerPlayerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
