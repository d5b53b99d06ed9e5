package models

import "time"

type Match struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	HomeTeamID   uint      `gorm:"not null;index" json:"home_team_id"`
	HomeTeam     Team      `gorm:"foreignKey:HomeTeamID" json:"home_team"`
	AwayTeamID   uint      `gorm:"not null;index" json:"away_team_id"`
	AwayTeam     Team      `gorm:"foreignKey:AwayTeamID" json:"away_team"`
	Venue        string    `gorm:"size:255" json:"venue"`
	StartTime    time.Time `gorm:"not null;index" json:"start_time"`
	Status       string    `gorm:"size:20;not null;default:'UPCOMING'" json:"status"`
	WinnerTeamID *uint     `json:"winner_team_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	MatchStatusUpcoming  = "UPCOMING"
	MatchStatusLive      = "LIVE"
	MatchStatusCompleted = "COMPLETED"
)

func ValidMatchStatus(status string) bool {
	switch status {
	case MatchStatusUpcoming, MatchStatusLive, MatchStatusCompleted:
		return true
	}
	return false
}
