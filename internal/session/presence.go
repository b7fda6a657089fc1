package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"partyround/backend/internal/hub"
)

// Heartbeat refreshes a player's lastSeenAt and re-activates them. It is
// best-effort by contract: a heartbeat that no longer matches state (unknown
// player, wrong lobby, replaced session token) is silently ignored and the
// next attempt simply retries on its own schedule.
func (s *Service) Heartbeat(lobbyID, playerID, sessionToken string) {
	mu := s.locks.get(lobbyID)
	mu.Lock()
	defer mu.Unlock()

	player, err := s.store.GetPlayer(playerID)
	if err != nil {
		return
	}
	if player.LobbyID == nil || *player.LobbyID != lobbyID {
		return
	}
	if player.SessionToken != nil && sessionToken != "" && *player.SessionToken != sessionToken {
		s.log.Debug("ignoring heartbeat from replaced session",
			zap.String("lobby_id", lobbyID),
			zap.String("player_id", playerID))
		return
	}

	player.LastSeenAt = time.Now()
	player.IsActive = true
	if err := s.store.UpdatePlayer(player); err != nil {
		s.log.Warn("heartbeat update failed", zap.String("player_id", playerID), zap.Error(err))
	}
}

// RunSweeper periodically expires players whose heartbeats have stopped,
// freeing their capacity slots. It blocks until ctx is cancelled.
func (s *Service) RunSweeper(ctx context.Context) {
	if s.opts.SweepInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.opts.SweepInterval)
	defer ticker.Stop()

	s.log.Info("presence sweeper running",
		zap.Duration("interval", s.opts.SweepInterval),
		zap.Duration("ttl", s.opts.PresenceTTL))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(time.Now())
		}
	}
}

// SweepOnce flips every active player whose last heartbeat is older than the
// presence TTL to inactive and publishes a presence event per player.
func (s *Service) SweepOnce(now time.Time) {
	lobbies, err := s.store.ListLobbies()
	if err != nil {
		s.log.Warn("presence sweep: listing lobbies failed", zap.Error(err))
		return
	}

	for _, lobby := range lobbies {
		expired := s.sweepLobby(lobby.ID, now)
		for _, playerID := range expired {
			s.hub.Publish(EventPresenceChanged, PresenceChangedEvent{
				Type:      "PRESENCE_CHANGED",
				LobbyID:   lobby.ID,
				PlayerID:  playerID,
				IsActive:  false,
				Timestamp: now,
			}, lobby.ID, hub.TopicLobby)
		}
	}
}

func (s *Service) sweepLobby(lobbyID string, now time.Time) []string {
	mu := s.locks.get(lobbyID)
	mu.Lock()
	defer mu.Unlock()

	players, err := s.store.PlayersInLobby(lobbyID)
	if err != nil {
		s.log.Warn("presence sweep: listing players failed",
			zap.String("lobby_id", lobbyID), zap.Error(err))
		return nil
	}

	var expired []string
	for _, p := range players {
		if !p.IsActive || now.Sub(p.LastSeenAt) <= s.opts.PresenceTTL {
			continue
		}
		p.IsActive = false
		if err := s.store.UpdatePlayer(&p); err != nil {
			s.log.Warn("presence sweep: update failed",
				zap.String("player_id", p.ID), zap.Error(err))
			continue
		}
		expired = append(expired, p.ID)
		s.log.Info("player expired by presence sweep",
			zap.String("lobby_id", lobbyID),
			zap.String("player_id", p.ID),
			zap.Time("last_seen", p.LastSeenAt))
	}
	return expired
}
