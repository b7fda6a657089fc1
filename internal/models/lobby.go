package models

import "time"

// LobbyStatus tracks where a lobby is in its play session.
type LobbyStatus string

const (
	// LobbyStatusOpen means the lobby accepts joins and no round is running.
	LobbyStatusOpen LobbyStatus = "open"

	// LobbyStatusActive means a round is currently running.
	LobbyStatusActive LobbyStatus = "active"

	// LobbyStatusClosed is reserved for lobbies retired without deletion.
	LobbyStatusClosed LobbyStatus = "closed"
)

// Lobby is a named room grouping players for one continuous play session.
// Name uniqueness is case-insensitive and enforced through NameKey at creation.
type Lobby struct {
	ID        string      `gorm:"primaryKey;size:36" json:"id"`
	Name      string      `gorm:"size:255;not null" json:"name"`
	NameKey   string      `gorm:"size:255;uniqueIndex;not null" json:"-"`
	Status    LobbyStatus `gorm:"size:20;not null;default:'open'" json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}
