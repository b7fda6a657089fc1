package leaderboard

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Mirror keeps a read-optimized copy of per-lobby score totals in a redis
// sorted set for external consumers. The in-process store stays the source of
// truth: every call here is best-effort and a failure only logs. A nil Mirror
// is valid and does nothing.
type Mirror struct {
	rdb *redis.Client
	log *zap.Logger
}

// NewMirror connects to redis at addr, or returns nil when addr is empty.
// Connection problems are reported but do not prevent startup.
func NewMirror(addr string, log *zap.Logger) *Mirror {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("leaderboard mirror: redis unreachable, updates will be dropped",
			zap.String("addr", addr), zap.Error(err))
	}
	return &Mirror{rdb: rdb, log: log}
}

func key(lobbyID string) string { return "lobby:" + lobbyID + ":leaderboard" }

// RecordTotal writes a player's new point total into the lobby's sorted set.
func (m *Mirror) RecordTotal(ctx context.Context, lobbyID, playerID string, total int) {
	if m == nil {
		return
	}
	err := m.rdb.ZAdd(ctx, key(lobbyID), redis.Z{
		Score:  float64(total),
		Member: playerID,
	}).Err()
	if err != nil {
		m.log.Warn("leaderboard mirror: ZADD failed",
			zap.String("lobby_id", lobbyID), zap.Error(err))
	}
}

// DropLobby removes a lobby's sorted set after a cascade delete.
func (m *Mirror) DropLobby(ctx context.Context, lobbyID string) {
	if m == nil {
		return
	}
	if err := m.rdb.Del(ctx, key(lobbyID)).Err(); err != nil {
		m.log.Warn("leaderboard mirror: DEL failed",
			zap.String("lobby_id", lobbyID), zap.Error(err))
	}
}
