package models

import "time"

type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Username        string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash    string    `gorm:"size:255;not null" json:"-"`
	DisplayName     string    `gorm:"size:100" json:"display_name"`
	Role            string    `gorm:"size:10;not null;default:'USER'" json:"role"`
	FavouriteTeamID *uint     `gorm:"index" json:"favourite_team_id,omitempty"`
	Points          int       `gorm:"not null;default:0;index" json:"points"`
	Rank            *int      `gorm:"column:user_rank" json:"rank,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
