package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"partyround/backend/internal/hub"
	"partyround/backend/internal/models"
	"partyround/backend/internal/store"
)

// LobbyDetail is the poll-to-resync view of one lobby: the row, its roster
// and the current round if any.
type LobbyDetail struct {
	Lobby        models.Lobby    `json:"lobby"`
	Players      []models.Player `json:"players"`
	CurrentRound *models.Round   `json:"current_round"`
}

// DeleteSummary reports what a cascade delete removed. Deleted=false means
// the lobby was already gone, which callers treat as success.
type DeleteSummary struct {
	Deleted        bool      `json:"deleted"`
	LobbyID        string    `json:"lobby_id,omitempty"`
	LobbyName      string    `json:"lobby_name,omitempty"`
	RemovedPlayers int       `json:"removed_players"`
	RemovedRounds  int       `json:"removed_rounds"`
	PlayerIDs      []string  `json:"player_ids,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// CreateLobby registers a new lobby. Names are whitespace-normalized and must
// be unique case-insensitively.
func (s *Service) CreateLobby(name string) (*models.Lobby, error) {
	normalized := normalizeName(name)
	if len(normalized) < minLobbyName || len(normalized) > maxLobbyName {
		return nil, errValidation(CodeUnknown,
			fmt.Sprintf("lobby name must be %d-%d characters", minLobbyName, maxLobbyName))
	}

	lobby := &models.Lobby{
		ID:        uuid.NewString(),
		Name:      normalized,
		NameKey:   nameKey(normalized),
		Status:    models.LobbyStatusOpen,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateLobby(lobby); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, errConflict(CodeDuplicateLobby, "a lobby with this name already exists")
		}
		return nil, err
	}

	s.log.Info("lobby created", zap.String("lobby_id", lobby.ID), zap.String("name", lobby.Name))
	return lobby, nil
}

// ListLobbies returns all lobbies, newest first.
func (s *Service) ListLobbies() ([]models.Lobby, error) {
	return s.store.ListLobbies()
}

// GetLobby returns one lobby with its roster and current round.
func (s *Service) GetLobby(id string) (*LobbyDetail, error) {
	lobby, err := s.store.GetLobby(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errNotFound(CodeLobbyNotFound, "lobby not found")
		}
		return nil, err
	}

	players, err := s.store.PlayersInLobby(lobby.ID)
	if err != nil {
		return nil, err
	}
	detail := &LobbyDetail{Lobby: *lobby, Players: players}

	round, err := s.store.CurrentRound(lobby.ID)
	if err == nil {
		detail.CurrentRound = round
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	return detail, nil
}

// DeleteLobbyByID cascade-deletes a lobby. Deleting a lobby that does not
// exist is reported as success with Deleted=false.
func (s *Service) DeleteLobbyByID(ctx context.Context, id string) (*DeleteSummary, error) {
	lobby, err := s.store.GetLobby(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &DeleteSummary{Deleted: false, Timestamp: time.Now()}, nil
		}
		return nil, err
	}
	return s.cascadeDelete(ctx, lobby.ID)
}

// DeleteLobbyByName is the name-based alias for DeleteLobbyByID.
func (s *Service) DeleteLobbyByName(ctx context.Context, name string) (*DeleteSummary, error) {
	lobby, err := s.store.FindLobbyByName(nameKey(normalizeName(name)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &DeleteSummary{Deleted: false, Timestamp: time.Now()}, nil
		}
		return nil, err
	}
	return s.cascadeDelete(ctx, lobby.ID)
}

func (s *Service) cascadeDelete(ctx context.Context, lobbyID string) (*DeleteSummary, error) {
	mu := s.locks.get(lobbyID)
	mu.Lock()

	// Re-read under the lock: a concurrent delete may have won.
	lobby, err := s.store.GetLobby(lobbyID)
	if err != nil {
		mu.Unlock()
		if errors.Is(err, store.ErrNotFound) {
			return &DeleteSummary{Deleted: false, Timestamp: time.Now()}, nil
		}
		return nil, err
	}

	players, err := s.store.PlayersInLobby(lobbyID)
	if err != nil {
		mu.Unlock()
		return nil, err
	}

	removedRounds, err := s.store.DeleteRoundsInLobby(lobbyID)
	if err != nil {
		mu.Unlock()
		return nil, err
	}

	playerIDs := make([]string, 0, len(players))
	for _, p := range players {
		playerIDs = append(playerIDs, p.ID)
	}
	if err := s.store.DeleteScores(playerIDs); err != nil {
		mu.Unlock()
		return nil, err
	}

	// Orphan the players rather than deleting them: the row is the identity
	// anchor, and LastLobbyID keeps the history.
	for _, p := range players {
		p.LobbyID = nil
		p.IsActive = false
		p.SessionToken = nil
		p.LastLobbyID = lobbyID
		if err := s.store.UpdatePlayer(&p); err != nil {
			mu.Unlock()
			return nil, err
		}
	}

	if err := s.store.DeleteLobby(lobbyID); err != nil {
		mu.Unlock()
		return nil, err
	}

	mu.Unlock()
	s.locks.forget(lobbyID)

	summary := &DeleteSummary{
		Deleted:        true,
		LobbyID:        lobby.ID,
		LobbyName:      lobby.Name,
		RemovedPlayers: len(players),
		RemovedRounds:  removedRounds,
		PlayerIDs:      playerIDs,
		Timestamp:      time.Now(),
	}

	s.boards.DropLobby(ctx, lobby.ID)
	s.hub.Publish(EventLobbyDeleted, LobbyDeletedEvent{
		Type:           "LOBBY_DELETED",
		LobbyID:        summary.LobbyID,
		LobbyName:      summary.LobbyName,
		RemovedPlayers: summary.RemovedPlayers,
		RemovedRounds:  summary.RemovedRounds,
		PlayerIDs:      summary.PlayerIDs,
		Timestamp:      summary.Timestamp,
	}, lobby.ID, hub.TopicLobby)

	s.log.Info("lobby cascade-deleted",
		zap.String("lobby_id", lobby.ID),
		zap.Int("removed_players", summary.RemovedPlayers),
		zap.Int("removed_rounds", summary.RemovedRounds))
	return summary, nil
}
