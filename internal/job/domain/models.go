package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Job is a single logged service event. Amount is revenue and excludes
// the tip. ClientID is a weak reference: the client row may no longer
// exist.
type Job struct {
	ID          snowflake.ID                `gorm:"primaryKey" json:"id"`
	UserID      snowflake.ID                `gorm:"not null;index" json:"user_id"`
	ClientID    *snowflake.ID               `gorm:"index" json:"client_id,omitempty"`
	Amount      int64                       `gorm:"not null" json:"amount"`
	TipAmount   int64                       `gorm:"not null" json:"tip_amount"`
	Date        time.Time                   `gorm:"not null;index" json:"date"`
	Description string                      `json:"description"`
	Photos      datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"photos"`
	Rating      *int                        `json:"rating,omitempty"`
	Tags        datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"tags"`
	CreatedAt   time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
