package models

import "time"

type Poll struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	MatchID     uint      `gorm:"not null;index" json:"match_id"`
	Question    string    `gorm:"type:text;not null" json:"question"`
	Status      string    `gorm:"size:20;not null;default:'ACTIVE';index" json:"status"`
	PollEndTime time.Time `gorm:"not null" json:"poll_end_time"`
	Options     []Option  `gorm:"foreignKey:PollID" json:"options,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	PollStatusActive  = "ACTIVE"
	PollStatusClosed  = "CLOSED"
	PollStatusSettled = "SETTLED"
)

// AcceptsVotes reports whether a vote submitted at now would be counted.
func (p *Poll) AcceptsVotes(now time.Time) bool {
	return p.Status == PollStatusActive && now.Before(p.PollEndTime)
}

type Option struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PollID    uint   `gorm:"not null;index" json:"poll_id"`
	Text      string `gorm:"size:500;not null" json:"text"`
	IsCorrect bool   `gorm:"not null;default:false" json:"is_correct"`
}
