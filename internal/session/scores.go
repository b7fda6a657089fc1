package session

import (
	"errors"
	"sort"

	"partyround/backend/internal/models"
	"partyround/backend/internal/store"
)

// ScoreEntry is one row of a lobby's leaderboard.
type ScoreEntry struct {
	PlayerID    string `json:"player_id"`
	Name        string `json:"name"`
	PointsTotal int    `json:"points_total"`
}

// Leaderboard returns the lobby's scores, highest first.
func (s *Service) Leaderboard(lobbyID string) ([]ScoreEntry, error) {
	if _, err := s.store.GetLobby(lobbyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errNotFound(CodeLobbyNotFound, "lobby not found")
		}
		return nil, err
	}
	return s.scoreSnapshot(lobbyID)
}

// ScoreFor returns a player's score row, lazily creating it at zero.
func (s *Service) ScoreFor(playerID string) (*models.Score, error) {
	if _, err := s.store.GetPlayer(playerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errNotFound(CodePlayerNotFound, "player not found")
		}
		return nil, err
	}
	return s.store.EnsureScore(playerID)
}

// scoreSnapshot joins the lobby roster with the score ledger, sorted by
// points descending, then name for a stable display order.
func (s *Service) scoreSnapshot(lobbyID string) ([]ScoreEntry, error) {
	players, err := s.store.PlayersInLobby(lobbyID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(players))
	names := make(map[string]string, len(players))
	for _, p := range players {
		ids = append(ids, p.ID)
		names[p.ID] = p.Name
	}

	scores, err := s.store.ScoresForPlayers(ids)
	if err != nil {
		return nil, err
	}

	entries := make([]ScoreEntry, 0, len(scores))
	for _, sc := range scores {
		entries = append(entries, ScoreEntry{
			PlayerID:    sc.PlayerID,
			Name:        names[sc.PlayerID],
			PointsTotal: sc.PointsTotal,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].PointsTotal != entries[j].PointsTotal {
			return entries[i].PointsTotal > entries[j].PointsTotal
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}
