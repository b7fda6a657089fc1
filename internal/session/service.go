package session

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"partyround/backend/internal/hub"
	"partyround/backend/internal/leaderboard"
	"partyround/backend/internal/store"
)

// Rejoin policies. Permissive lets any caller who knows the lobby and exact
// display name take over the identity; strict requires the stored session
// token to match.
const (
	PolicyPermissive = "permissive"
	PolicyStrict     = "strict"
)

const (
	defaultMaxPlayers    = 8
	defaultPresenceTTL   = 45 * time.Second
	defaultSweepInterval = 15 * time.Second

	minPlayerName = 2
	maxPlayerName = 18
	minLobbyName  = 2
	maxLobbyName  = 22
)

// Options tunes the coordinator's policy knobs.
type Options struct {
	MaxPlayers   int
	RejoinPolicy string
	// PresenceTTL is how long a player may go without a heartbeat before the
	// sweeper flips them inactive.
	PresenceTTL time.Duration
	// SweepInterval is how often the sweeper runs; zero or negative disables it.
	SweepInterval time.Duration
}

// Service owns the lobby/round/presence state machine. All mutations of a
// lobby happen under that lobby's mutex; event fan-out happens after the
// mutex is released.
type Service struct {
	store  store.Store
	hub    *hub.Hub
	boards *leaderboard.Mirror
	log    *zap.Logger
	opts   Options
	locks  *lobbyLocks
}

// NewService wires the state machine to its store, broadcaster and optional
// leaderboard mirror.
func NewService(st store.Store, h *hub.Hub, boards *leaderboard.Mirror, log *zap.Logger, opts Options) *Service {
	if opts.MaxPlayers <= 0 {
		opts.MaxPlayers = defaultMaxPlayers
	}
	if opts.RejoinPolicy == "" {
		opts.RejoinPolicy = PolicyPermissive
	}
	if opts.PresenceTTL <= 0 {
		opts.PresenceTTL = defaultPresenceTTL
	}
	if opts.SweepInterval == 0 {
		opts.SweepInterval = defaultSweepInterval
	}
	return &Service{
		store:  st,
		hub:    h,
		boards: boards,
		log:    log,
		opts:   opts,
		locks:  newLobbyLocks(),
	}
}

// normalizeName collapses runs of whitespace to a single space and trims.
func normalizeName(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// nameKey is the case-insensitive identity key for a normalized name.
func nameKey(normalized string) string {
	return strings.ToLower(normalized)
}
