package models

import (
	"time"
)

// ScheduleEntry is one game on the weekly slate. The matchup string
// ("AWAY @ HOME") is the canonical source of opponent lookup; home/away must
// agree with it.
type ScheduleEntry struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Season   int       `gorm:"not null;index:idx_schedule_week" json:"season"`
	Week     int       `gorm:"not null;index:idx_schedule_week" json:"week"`
	Kickoff  time.Time `json:"kickoff"`
	HomeTeam string    `gorm:"not null" json:"home_team"`
	AwayTeam string    `gorm:"not null" json:"away_team"`
	Matchup  string    `gorm:"not null" json:"matchup"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (ScheduleEntry) TableName() string {
	return "schedule_entries"
}
