package store

import (
	"errors"

	"partyround/backend/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a uniqueness constraint is violated.
	ErrDuplicate = errors.New("duplicate record")
)

// Store is the record layer underneath the session state machine. It is
// deliberately dumb CRUD: atomicity of multi-record operations is provided by
// the caller's per-lobby locking, so implementations only need each call to be
// individually safe for concurrent use.
type Store interface {
	// Lobbies. NameKey lookups are by the lowercased, whitespace-normalized name.
	CreateLobby(l *models.Lobby) error
	GetLobby(id string) (*models.Lobby, error)
	FindLobbyByName(nameKey string) (*models.Lobby, error)
	ListLobbies() ([]models.Lobby, error)
	UpdateLobby(l *models.Lobby) error
	DeleteLobby(id string) error

	// Players. FindPlayerByName matches rows currently in the lobby, and
	// falls back to orphaned rows (nil LobbyID) whose LastLobbyID matches so
	// a rejoin can re-anchor an identity after a cascade delete.
	CreatePlayer(p *models.Player) error
	GetPlayer(id string) (*models.Player, error)
	FindPlayerByName(lobbyID, nameKey string) (*models.Player, error)
	PlayersInLobby(lobbyID string) ([]models.Player, error)
	CountActivePlayers(lobbyID string) (int, error)
	UpdatePlayer(p *models.Player) error

	// Rounds. CurrentRound returns the round with the highest number for the
	// lobby, or ErrNotFound if the lobby has never started one.
	CreateRound(r *models.Round) error
	GetRound(id string) (*models.Round, error)
	CurrentRound(lobbyID string) (*models.Round, error)
	UpdateRound(r *models.Round) error
	DeleteRoundsInLobby(lobbyID string) (int, error)

	// Life states, one per (round, player).
	CreateLifeState(ls *models.LifeState) error
	GetLifeState(roundID, playerID string) (*models.LifeState, error)
	LivesInRound(roundID string) ([]models.LifeState, error)
	UpdateLifeState(ls *models.LifeState) error

	// Scores. EnsureScore lazily creates a zero row; AddPoints never lets the
	// total go below zero.
	EnsureScore(playerID string) (*models.Score, error)
	AddPoints(playerID string, delta int) (*models.Score, error)
	ScoresForPlayers(playerIDs []string) ([]models.Score, error)
	DeleteScores(playerIDs []string) error
}
