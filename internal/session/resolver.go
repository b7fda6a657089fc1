package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"partyround/backend/internal/models"
	"partyround/backend/internal/store"
)

// Join outcomes.
const (
	OutcomeJoin   = "join"
	OutcomeRejoin = "rejoin"
)

// JoinResult is the resolver's answer to a join-or-rejoin request.
type JoinResult struct {
	Outcome string        `json:"outcome"`
	Player  models.Player `json:"player"`
	// SessionToken is the token now bound to the identity: the caller's, or a
	// freshly generated one if the caller supplied none.
	SessionToken string `json:"session_token"`
	// SessionReplaced tells the client its token evicted a different session
	// that previously held this name, so the UI can warn.
	SessionReplaced bool `json:"session_replaced"`
	// LifeState is the player's snapshot from the lobby's current round, if
	// one exists, so a rejoining client can resume without an extra fetch.
	LifeState *models.LifeState `json:"life_state,omitempty"`
}

// JoinOrRejoin maps a (lobby, display name) pair plus an optional session
// token to a stable player identity. An existing row with the same normalized
// name is always a rejoin; whether the rejoin succeeds on a token mismatch
// depends on the configured policy.
func (s *Service) JoinOrRejoin(lobbyID, rawName, clientToken string) (*JoinResult, error) {
	if _, err := s.store.GetLobby(lobbyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errNotFound(CodeLobbyNotFound, "lobby not found")
		}
		return nil, err
	}

	name := normalizeName(rawName)
	if len(name) < minPlayerName || len(name) > maxPlayerName {
		return nil, errValidation(CodeUnknown,
			fmt.Sprintf("player name must be %d-%d characters", minPlayerName, maxPlayerName))
	}

	mu := s.locks.get(lobbyID)
	mu.Lock()
	defer mu.Unlock()

	// The lobby may have been cascade-deleted while we waited for the lock.
	if _, err := s.store.GetLobby(lobbyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errNotFound(CodeLobbyNotFound, "lobby not found")
		}
		return nil, err
	}

	token := clientToken
	if token == "" {
		token = uuid.NewString()
	}

	existing, err := s.store.FindPlayerByName(lobbyID, nameKey(name))
	switch {
	case errors.Is(err, store.ErrNotFound):
		return s.join(lobbyID, name, token)
	case err != nil:
		return nil, err
	default:
		return s.rejoin(lobbyID, existing, clientToken, token)
	}
}

func (s *Service) join(lobbyID, name, token string) (*JoinResult, error) {
	active, err := s.store.CountActivePlayers(lobbyID)
	if err != nil {
		return nil, err
	}
	if active >= s.opts.MaxPlayers {
		return nil, errConflict(CodeMaxPlayers, "lobby is full")
	}

	now := time.Now()
	player := &models.Player{
		ID:           uuid.NewString(),
		Name:         name,
		NameKey:      nameKey(name),
		LobbyID:      &lobbyID,
		JoinedAt:     now,
		IsActive:     true,
		SessionToken: &token,
		LastSeenAt:   now,
		LastLobbyID:  lobbyID,
	}
	if err := s.store.CreatePlayer(player); err != nil {
		return nil, err
	}
	if _, err := s.store.EnsureScore(player.ID); err != nil {
		return nil, err
	}

	s.log.Info("player joined",
		zap.String("lobby_id", lobbyID),
		zap.String("player_id", player.ID),
		zap.String("name", name))
	return &JoinResult{Outcome: OutcomeJoin, Player: *player, SessionToken: token}, nil
}

func (s *Service) rejoin(lobbyID string, player *models.Player, clientToken, token string) (*JoinResult, error) {
	replaced := player.SessionToken != nil && *player.SessionToken != token

	if s.opts.RejoinPolicy == PolicyStrict && player.SessionToken != nil {
		if clientToken == "" || clientToken != *player.SessionToken {
			if player.IsActive {
				return nil, errConflict(CodeNameActive, "name is held by an active session")
			}
			return nil, errConflict(CodeNameTaken, "name is taken")
		}
	}

	player.SessionToken = &token
	player.IsActive = true
	player.LastSeenAt = time.Now()
	player.LobbyID = &lobbyID
	player.LastLobbyID = lobbyID
	if err := s.store.UpdatePlayer(player); err != nil {
		return nil, err
	}
	if _, err := s.store.EnsureScore(player.ID); err != nil {
		return nil, err
	}

	result := &JoinResult{
		Outcome:         OutcomeRejoin,
		Player:          *player,
		SessionToken:    token,
		SessionReplaced: replaced,
	}

	if round, err := s.store.CurrentRound(lobbyID); err == nil {
		if ls, err := s.store.GetLifeState(round.ID, player.ID); err == nil {
			result.LifeState = ls
		}
	}

	s.log.Info("player rejoined",
		zap.String("lobby_id", lobbyID),
		zap.String("player_id", player.ID),
		zap.Bool("session_replaced", replaced))
	return result, nil
}
