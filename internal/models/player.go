package models

import "time"

// Player is an identity anchored to a display name within a lobby.
// The same person rejoining gets the same row as long as the normalized
// name matches. LobbyID goes nil when the lobby is cascade-deleted;
// LastLobbyID keeps the association for history.
type Player struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Name         string    `gorm:"size:64;not null" json:"name"`
	NameKey      string    `gorm:"size:64;index:idx_players_lobby_name" json:"-"`
	LobbyID      *string   `gorm:"size:36;index:idx_players_lobby_name" json:"lobby_id"`
	JoinedAt     time.Time `json:"joined_at"`
	IsActive     bool      `json:"is_active"`
	SessionToken *string   `gorm:"size:64" json:"-"`
	LastSeenAt   time.Time `json:"last_seen_at"`
	LastLobbyID  string    `gorm:"size:36" json:"last_lobby_id,omitempty"`
}
