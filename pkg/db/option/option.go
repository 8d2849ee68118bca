package option

import (
	"time"

	"github.com/estilistapro/estilista/pkg/db/pagination"
	"gorm.io/gorm"
)

// QueryOption mutates a gorm statement before execution.
type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type queryOptionFunc func(*gorm.DB) *gorm.DB

func (f queryOptionFunc) Apply(db *gorm.DB) *gorm.DB {
	return f(db)
}

// WithLimit caps the result set.
func WithLimit(limit int) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit)
	})
}

// WithOrder appends an ORDER BY clause.
func WithOrder(order string) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		if order == "" {
			return db
		}
		return db.Order(order)
	})
}

// ApplyPagination translates a cursor page into limit+keyset conditions.
// It fetches one extra row so callers can detect a next page.
func ApplyPagination(page pagination.Pagination) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		size := page.PageSize
		if size <= 0 {
			size = 10
		}

		if page.PageToken != "" {
			if cursor, err := pagination.DecodeCursor(page.PageToken); err == nil && cursor != nil {
				db = applyCursor(db, cursor)
			}
		}

		return db.Limit(size + 1)
	})
}

// applyCursor filters past the cursor position. Timestamps are parsed
// back so the driver binds them the same way it stored the columns. An
// unreadable cursor is ignored and the page starts from the top.
func applyCursor(db *gorm.DB, cursor *pagination.Cursor) *gorm.DB {
	if cursor.CreatedAt == "" || cursor.ID == "" {
		return db
	}
	createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
	if err != nil {
		return db
	}

	if cursor.Date != "" {
		date, err := time.Parse(time.RFC3339Nano, cursor.Date)
		if err != nil {
			return db
		}
		// Ordered by date desc, created_at desc, id desc: a row later in
		// that order can share the date, or the date and created_at.
		return db.Where(
			"(date < ?) OR (date = ? AND created_at < ?) OR (date = ? AND created_at = ? AND id < ?)",
			date, date, createdAt, date, createdAt, cursor.ID,
		)
	}

	return db.Where(
		"(created_at < ?) OR (created_at = ? AND id < ?)",
		createdAt, createdAt, cursor.ID,
	)
}
