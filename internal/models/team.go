package models

import "time"

type Team struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name" yaml:"name"`
	ShortName string    `gorm:"size:10;uniqueIndex;not null" json:"short_name" yaml:"short_name"`
	LogoURL   string    `gorm:"size:500" json:"logo_url,omitempty" yaml:"logo_url"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
}
