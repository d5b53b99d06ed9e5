package models

import "time"

type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_vote_user_poll" json:"user_id"`
	PollID    uint      `gorm:"not null;uniqueIndex:idx_vote_user_poll;index" json:"poll_id"`
	OptionID  uint      `gorm:"not null;index" json:"option_id"`
	Points    int       `gorm:"not null;default:0" json:"points"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
