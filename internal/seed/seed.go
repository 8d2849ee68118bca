package seed

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

const defaultUserDisplay = "Estilista"

// User is the owner row jobs, clients and settings hang off. The app
// never manages accounts itself, so the model stays minimal.
type User struct {
	ID          int64  `gorm:"primaryKey"`
	DisplayName string `gorm:"not null;default:''"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EnsureDefaultUser seeds the standalone-mode user so requests without a
// user header have an owner row to attach to.
func EnsureDefaultUser(db *gorm.DB, userID int64) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table("users").Where("id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		return tx.Exec(
			`INSERT INTO users (id, display_name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
			userID, defaultUserDisplay, now, now,
		).Error
	})
}
