package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"partyround/backend/internal/session"
)

// region --- DTOs ---

type CreateLobbyInput struct {
	Name string `json:"name" binding:"required" example:"Alpha"`
}

type JoinInput struct {
	Name         string `json:"name" binding:"required" example:"Ada"`
	SessionToken string `json:"session_token" example:"b5c7..."`
}

// endregion

// CreateLobby godoc
// @Summary      Create a new lobby
// @Description  Creates a named lobby. Names are unique case-insensitively.
// @Tags         lobbies
// @Accept       json
// @Produce      json
// @Param        input body CreateLobbyInput true "Lobby Info"
// @Success      201  {object}  models.Lobby
// @Failure      400  {object}  ErrorResponse "Name outside length bounds"
// @Failure      409  {object}  ErrorResponse "Duplicate lobby name"
// @Router       /lobbies [post]
func (h *Handler) CreateLobby(c *gin.Context) {
	var input CreateLobbyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lobby, err := h.svc.CreateLobby(input.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lobby)
}

// ListLobbies godoc
// @Summary      List lobbies
// @Description  Returns all lobbies, newest first.
// @Tags         lobbies
// @Produce      json
// @Success      200 {array} models.Lobby
// @Router       /lobbies [get]
func (h *Handler) ListLobbies(c *gin.Context) {
	lobbies, err := h.svc.ListLobbies()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lobbies)
}

// GetLobby godoc
// @Summary      Get a lobby by ID
// @Description  Returns the lobby, its roster and its current round. Clients
// @Description  use this to resync after (re)connecting to the event stream.
// @Tags         lobbies
// @Produce      json
// @Param        id path string true "Lobby ID"
// @Success      200 {object} session.LobbyDetail
// @Failure      404 {object} ErrorResponse "Lobby not found"
// @Router       /lobbies/{id} [get]
func (h *Handler) GetLobby(c *gin.Context) {
	detail, err := h.svc.GetLobby(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// JoinOrRejoin godoc
// @Summary      Join a lobby or rejoin an existing identity
// @Description  Resolves (lobby, name, session token) to a player identity.
// @Description  A new name joins; an existing name rejoins, replacing the
// @Description  stored session token under the permissive policy.
// @Tags         lobbies
// @Accept       json
// @Produce      json
// @Param        id    path string    true "Lobby ID"
// @Param        input body JoinInput true "Join Info"
// @Success      200 {object} session.JoinResult "Rejoin"
// @Success      201 {object} session.JoinResult "Fresh join"
// @Failure      400 {object} ErrorResponse "Name outside length bounds"
// @Failure      404 {object} ErrorResponse "Lobby not found"
// @Failure      409 {object} ErrorResponse "Lobby full of active players"
// @Router       /lobbies/{id}/join-or-rejoin [post]
func (h *Handler) JoinOrRejoin(c *gin.Context) {
	var input JoinInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.svc.JoinOrRejoin(c.Param("id"), input.Name, input.SessionToken)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if result.Outcome == session.OutcomeJoin {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

// DeleteLobby godoc
// @Summary      Cascade-delete a lobby
// @Description  Removes the lobby with all its rounds, life states and
// @Description  scores; players are orphaned, not deleted. Deleting a missing
// @Description  lobby is success with deleted=false.
// @Tags         lobbies
// @Produce      json
// @Param        id path string true "Lobby ID"
// @Success      200 {object} session.DeleteSummary
// @Router       /lobbies/{id} [delete]
func (h *Handler) DeleteLobby(c *gin.Context) {
	summary, err := h.svc.DeleteLobbyByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// DeleteLobbyByName godoc
// @Summary      Cascade-delete a lobby by name
// @Description  Alias for DELETE /lobbies/{id} keyed by the lobby name.
// @Tags         lobbies
// @Produce      json
// @Param        name path string true "Lobby name"
// @Success      200 {object} session.DeleteSummary
// @Router       /lobbies/by-name/{name} [delete]
func (h *Handler) DeleteLobbyByName(c *gin.Context) {
	summary, err := h.svc.DeleteLobbyByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Leaderboard godoc
// @Summary      Get a lobby's leaderboard
// @Description  Cumulative point totals for the lobby's roster, highest first.
// @Tags         lobbies
// @Produce      json
// @Param        id path string true "Lobby ID"
// @Success      200 {array} session.ScoreEntry
// @Failure      404 {object} ErrorResponse "Lobby not found"
// @Router       /lobbies/{id}/leaderboard [get]
func (h *Handler) Leaderboard(c *gin.Context) {
	entries, err := h.svc.Leaderboard(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
