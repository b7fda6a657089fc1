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

// RoundWithLives pairs a round with its life-state rows.
type RoundWithLives struct {
	Round models.Round       `json:"round"`
	Lives []models.LifeState `json:"lives"`
}

// FinishResult is the outcome of finishing a round: the finished round and
// the lobby's post-win score snapshot.
type FinishResult struct {
	Round  models.Round `json:"round"`
	Scores []ScoreEntry `json:"scores"`
}

// StartRound creates the lobby's next round and seeds a life state for every
// player currently on the roster. Only one round per lobby may run at a time.
func (s *Service) StartRound(lobbyID string) (*RoundWithLives, error) {
	lobby, err := s.store.GetLobby(lobbyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errNotFound(CodeLobbyNotFound, "lobby not found")
		}
		return nil, err
	}

	mu := s.locks.get(lobbyID)
	mu.Lock()
	defer mu.Unlock()

	lobby, err = s.store.GetLobby(lobbyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errNotFound(CodeLobbyNotFound, "lobby not found")
		}
		return nil, err
	}

	number := 1
	current, err := s.store.CurrentRound(lobbyID)
	switch {
	case err == nil:
		if current.State == models.RoundStateRunning {
			return nil, errConflict(CodeRoundRunning, "a round is already running in this lobby")
		}
		number = current.Number + 1
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	round := &models.Round{
		ID:        uuid.NewString(),
		LobbyID:   lobbyID,
		Number:    number,
		State:     models.RoundStateRunning,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateRound(round); err != nil {
		return nil, err
	}

	players, err := s.store.PlayersInLobby(lobbyID)
	if err != nil {
		return nil, err
	}
	lives := make([]models.LifeState, 0, len(players))
	for _, p := range players {
		ls := models.LifeState{
			ID:             uuid.NewString(),
			RoundID:        round.ID,
			PlayerID:       p.ID,
			LivesRemaining: models.MaxLives,
			UpdatedAt:      time.Now(),
		}
		if err := s.store.CreateLifeState(&ls); err != nil {
			return nil, err
		}
		if _, err := s.store.EnsureScore(p.ID); err != nil {
			return nil, err
		}
		lives = append(lives, ls)
	}

	lobby.Status = models.LobbyStatusActive
	if err := s.store.UpdateLobby(lobby); err != nil {
		return nil, err
	}

	s.log.Info("round started",
		zap.String("lobby_id", lobbyID),
		zap.String("round_id", round.ID),
		zap.Int("number", round.Number),
		zap.Int("players", len(players)))
	return &RoundWithLives{Round: *round, Lives: lives}, nil
}

// CurrentRound returns the lobby's current round (the one with the highest
// number) with its life states.
func (s *Service) CurrentRound(lobbyID string) (*RoundWithLives, error) {
	if _, err := s.store.GetLobby(lobbyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errNotFound(CodeLobbyNotFound, "lobby not found")
		}
		return nil, err
	}
	round, err := s.store.CurrentRound(lobbyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errNotFound(CodeRoundNotFound, "lobby has no rounds")
		}
		return nil, err
	}
	lives, err := s.store.LivesInRound(round.ID)
	if err != nil {
		return nil, err
	}
	return &RoundWithLives{Round: *round, Lives: lives}, nil
}

// UpdateLife sets a player's remaining lives in a running round. Out-of-range
// values and finished rounds leave prior state unchanged.
func (s *Service) UpdateLife(roundID, playerID string, lives int) (*models.LifeState, error) {
	if lives < 0 || lives > models.MaxLives {
		return nil, errValidation(CodeLivesRange,
			fmt.Sprintf("lives must be between 0 and %d", models.MaxLives))
	}

	round, err := s.store.GetRound(roundID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errNotFound(CodeRoundNotFound, "round not found")
		}
		return nil, err
	}

	mu := s.locks.get(round.LobbyID)
	mu.Lock()
	defer mu.Unlock()

	round, err = s.store.GetRound(roundID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errNotFound(CodeRoundNotFound, "round not found")
		}
		return nil, err
	}
	if round.State != models.RoundStateRunning {
		return nil, errConflict(CodeRoundFinished, "round is not running")
	}

	ls, err := s.store.GetLifeState(roundID, playerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Mid-round joiners have no life state until the next round starts.
			return nil, errNotFound(CodePlayerNotFound, "player has no life state in this round")
		}
		return nil, err
	}

	ls.LivesRemaining = lives
	ls.UpdatedAt = time.Now()
	if err := s.store.UpdateLifeState(ls); err != nil {
		return nil, err
	}
	return ls, nil
}

// FinishRound transitions a running round to finished, credits the winner
// with a point and broadcasts the updated score snapshot.
func (s *Service) FinishRound(ctx context.Context, roundID, winnerPlayerID string) (*FinishResult, error) {
	round, err := s.store.GetRound(roundID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errNotFound(CodeRoundNotFound, "round not found")
		}
		return nil, err
	}

	mu := s.locks.get(round.LobbyID)
	mu.Lock()

	round, err = s.store.GetRound(roundID)
	if err != nil {
		mu.Unlock()
		if errors.Is(err, store.ErrNotFound) {
			return nil, errNotFound(CodeRoundNotFound, "round not found")
		}
		return nil, err
	}
	if round.State == models.RoundStateFinished {
		mu.Unlock()
		return nil, errConflict(CodeRoundFinished, "round is already finished")
	}

	winner, err := s.store.GetPlayer(winnerPlayerID)
	if err != nil || winner.LobbyID == nil || *winner.LobbyID != round.LobbyID {
		mu.Unlock()
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		return nil, errNotFound(CodePlayerNotFound, "winner is not a player in this lobby")
	}

	now := time.Now()
	round.State = models.RoundStateFinished
	round.WinnerPlayerID = &winner.ID
	round.EndedAt = &now
	if err := s.store.UpdateRound(round); err != nil {
		mu.Unlock()
		return nil, err
	}

	total, err := s.store.AddPoints(winner.ID, 1)
	if err != nil {
		mu.Unlock()
		return nil, err
	}

	if lobby, err := s.store.GetLobby(round.LobbyID); err == nil {
		lobby.Status = models.LobbyStatusOpen
		if err := s.store.UpdateLobby(lobby); err != nil {
			mu.Unlock()
			return nil, err
		}
	}

	scores, err := s.scoreSnapshot(round.LobbyID)
	if err != nil {
		mu.Unlock()
		return nil, err
	}

	mu.Unlock()

	s.boards.RecordTotal(ctx, round.LobbyID, winner.ID, total.PointsTotal)
	s.hub.Publish(EventRoundFinished, RoundFinishedEvent{
		Type:    "ROUND_FINISHED",
		LobbyID: round.LobbyID,
		RoundID: round.ID,
		Round:   *round,
		Scores:  scores,
	}, round.LobbyID, hub.TopicRound)

	s.log.Info("round finished",
		zap.String("lobby_id", round.LobbyID),
		zap.String("round_id", round.ID),
		zap.String("winner_id", winner.ID))
	return &FinishResult{Round: *round, Scores: scores}, nil
}
