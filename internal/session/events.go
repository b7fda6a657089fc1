package session

import (
	"time"

	"partyround/backend/internal/models"
)

// SSE event names.
const (
	EventLobbyDeleted    = "lobby_deleted"
	EventRoundFinished   = "round_finished"
	EventPresenceChanged = "presence_changed"
)

// LobbyDeletedEvent is published on the lobby topic after a cascade delete.
type LobbyDeletedEvent struct {
	Type           string    `json:"type"`
	LobbyID        string    `json:"lobbyId"`
	LobbyName      string    `json:"lobbyName"`
	RemovedPlayers int       `json:"removedPlayers"`
	RemovedRounds  int       `json:"removedRounds"`
	PlayerIDs      []string  `json:"playerIds"`
	Timestamp      time.Time `json:"timestamp"`
}

// RoundFinishedEvent is published on the round topic with the post-win score
// snapshot so connected clients do not need an extra fetch.
type RoundFinishedEvent struct {
	Type    string       `json:"type"`
	LobbyID string       `json:"lobbyId"`
	RoundID string       `json:"roundId"`
	Round   models.Round `json:"round"`
	Scores  []ScoreEntry `json:"scores"`
}

// PresenceChangedEvent is published on the lobby topic when the sweeper flips
// a player inactive.
type PresenceChangedEvent struct {
	Type      string    `json:"type"`
	LobbyID   string    `json:"lobbyId"`
	PlayerID  string    `json:"playerId"`
	IsActive  bool      `json:"isActive"`
	Timestamp time.Time `json:"timestamp"`
}
