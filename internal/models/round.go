package models

import "time"

// RoundState is the lifecycle state of a round.
type RoundState string

const (
	RoundStateRunning  RoundState = "running"
	RoundStateFinished RoundState = "finished"
)

// Round is one play of the game within a lobby. Numbers are monotonic per
// lobby starting at 1; the round with the highest number is the current one.
type Round struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	LobbyID        string     `gorm:"size:36;index;not null" json:"lobby_id"`
	Number         int        `gorm:"not null" json:"number"`
	State          RoundState `gorm:"size:20;not null" json:"state"`
	WinnerPlayerID *string    `gorm:"size:36" json:"winner_player_id"`
	CreatedAt      time.Time  `json:"created_at"`
	EndedAt        *time.Time `json:"ended_at"`
}
