package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusGood    Status = "good"
	StatusWarning Status = "warning"
	StatusBad     Status = "bad"
)

func (s Status) Valid() bool {
	switch s {
	case StatusGood, StatusWarning, StatusBad:
		return true
	}
	return false
}

type Client struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"not null;index" json:"user_id"`
	Name      string       `gorm:"not null" json:"name"`
	Phone     string       `json:"phone"`
	Notes     string       `json:"notes"`
	Status    Status       `gorm:"not null;default:good" json:"status"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
