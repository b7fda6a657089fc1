package models

import "time"

// MaxLives is the number of lives every player is seeded with at round start.
const MaxLives = 4

// LifeState is a player's remaining lives within one specific round.
// One row per (round, player), created when the round starts. Players joining
// mid-round do not get a row until the next round starts.
type LifeState struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	RoundID        string    `gorm:"size:36;index:idx_lives_round_player;not null" json:"round_id"`
	PlayerID       string    `gorm:"size:36;index:idx_lives_round_player;not null" json:"player_id"`
	LivesRemaining int       `gorm:"not null" json:"lives_remaining"`
	UpdatedAt      time.Time `json:"updated_at"`
}
