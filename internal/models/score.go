package models

import "time"

// Score accumulates a player's point total across rounds. Created lazily on
// first reference, never decremented, removed only by lobby cascade delete.
type Score struct {
	PlayerID    string    `gorm:"primaryKey;size:36" json:"player_id"`
	PointsTotal int       `gorm:"not null;default:0" json:"points_total"`
	UpdatedAt   time.Time `json:"updated_at"`
}
