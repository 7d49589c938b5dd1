// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"scholarsync/internal/database"
	"scholarsync/internal/models"

	"gorm.io/gorm"
)

// ErrInvalidCursor is returned when a pagination cursor names no row.
var ErrInvalidCursor = errors.New("invalid cursor")

// errToggleConflict signals that a concurrent request inserted the row a
// toggle was about to create; the toggle is retried once.
var errToggleConflict = errors.New("toggle conflict")

const toggleAttempts = 2

func readDB(primary *gorm.DB) *gorm.DB {
	if db := database.GetReadDB(); db != nil {
		return db
	}
	return primary
}

func publicUser(db *gorm.DB) *gorm.DB {
	return db.Select(models.UserPublicColumns)
}

func notFound(what, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, gorm.ErrRecordNotFound)
}

// splitPage trims the probe row fetched beyond limit and returns its id as
// the next cursor.
func splitPage[T any](rows []T, limit int, id func(T) string) ([]T, string) {
	if len(rows) <= limit {
		return rows, ""
	}
	return rows[:limit], id(rows[limit])
}

// newestFirst orders by (created_at, id) descending and, given a cursor id,
// keeps rows at or after that row in this order.
func newestFirst(db, q *gorm.DB, table, cursor string) (*gorm.DB, error) {
	if cursor != "" {
		var anchor struct {
			ID        string
			CreatedAt time.Time
		}
		err := db.Table(table).Select("id", "created_at").Where("id = ?", cursor).Take(&anchor).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCursor
		}
		if err != nil {
			return nil, err
		}
		q = q.Where("(created_at < ? OR (created_at = ? AND id <= ?))",
			anchor.CreatedAt, anchor.CreatedAt, anchor.ID)
	}
	return q.Order("created_at DESC").Order("id DESC"), nil
}

// likePattern builds a case-insensitive substring pattern for LIKE ... ESCAPE '\'.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

var activityTables = map[models.ActivityType]string{
	models.ActivityPost:            "posts",
	models.ActivityOffer:           "offers",
	models.ActivityEvent:           "events",
	models.ActivityPoll:            "polls",
	models.ActivityRadioSubmission: "radio_submissions",
}

var commentColumns = map[models.CommentModel]string{
	models.CommentOnPost:            "post_id",
	models.CommentOnOffer:           "offer_id",
	models.CommentOnEvent:           "event_id",
	models.CommentOnPoll:            "poll_id",
	models.CommentOnRadioSubmission: "radio_submission_id",
}

func interactionTable(m models.InteractionModel) string {
	if m == models.InteractOnComment {
		return "comments"
	}
	return activityTables[models.ActivityType(m)]
}

func rowExists(tx *gorm.DB, table, id string) (bool, error) {
	var n int64
	if err := tx.Table(table).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
