package models

import (
	"time"

	"gorm.io/datatypes"
)

// PlayerIdentifier maps a normalized player name to the stats-site
// identifier. The pipeline reads this table first and writes back IDs it
// discovers through the search endpoint.
type PlayerIdentifier struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PlayerKey string    `gorm:"uniqueIndex;not null" json:"player_key"`
	StatsID   string    `gorm:"not null" json:"stats_id"`
	Source    string    `gorm:"default:pfr" json:"source"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PlayerIdentifier) TableName() string {
	return "player_identifiers"
}

// PlayerTeam maps a normalized player name to their current team
// abbreviation. Maintained by the surrounding application; read-only here.
type PlayerTeam struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PlayerKey string    `gorm:"uniqueIndex;not null" json:"player_key"`
	Team      string    `gorm:"not null" json:"team"`
	Position  string    `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PlayerTeam) TableName() string {
	return "player_teams"
}

// GameLogSnapshot is an optional persisted copy of a fetched season log,
// kept so settlement and repeated runs can warm their caches without
// re-hitting the stats site. Raw holds the parsed games as JSON.
type GameLogSnapshot struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	StatsID   string         `gorm:"uniqueIndex:idx_log_snapshot;not null" json:"stats_id"`
	Season    int            `gorm:"uniqueIndex:idx_log_snapshot;not null" json:"season"`
	Raw       datatypes.JSON `json:"raw"`
	FetchedAt time.Time      `json:"fetched_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (GameLogSnapshot) TableName() string {
	return "game_log_snapshots"
}
