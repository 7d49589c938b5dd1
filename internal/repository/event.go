package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scholarsync/internal/models"
	"scholarsync/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventRepository covers event reads and the interest toggle. Events are
// created through ActivityRepository so they get a feed pointer.
type EventRepository interface {
	Calendar(ctx context.Context, start, end time.Time) ([]models.Event, error)
	GetDetail(ctx context.Context, id string) (*models.EventDetail, error)
	ToggleInterest(ctx context.Context, eventID, userID string) (bool, error)
	IsInterested(ctx context.Context, eventID, userID string) (bool, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// Calendar returns events lying entirely inside [start, end].
func (r *eventRepository) Calendar(ctx context.Context, start, end time.Time) ([]models.Event, error) {
	var events []models.Event
	err := readDB(r.db).WithContext(ctx).
		Where("starts_at >= ? AND ends_at <= ?", start, end).
		Order("starts_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}
	return events, nil
}

func (r *eventRepository) GetDetail(ctx context.Context, id string) (*models.EventDetail, error) {
	db := readDB(r.db).WithContext(ctx)

	var detail models.EventDetail
	if err := db.Preload("User", publicUser).Where("id = ?", id).Take(&detail.Event).Error; err != nil {
		return nil, err
	}

	counts := []struct {
		dest  *int64
		model any
		where string
		args  []any
	}{
		{&detail.Counts.Interested, &models.InterestedInEvent{}, "event_id = ?", []any{id}},
		{&detail.Counts.Comments, &models.Comment{}, "event_id = ?", []any{id}},
		{&detail.Counts.Interactions, &models.Interaction{}, "model = ? AND target_id = ?", []any{models.InteractOnEvent, id}},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Where(c.where, c.args...).Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("count event children: %w", err)
		}
	}
	detail.InterestedCount = int(detail.Counts.Interested)
	return &detail, nil
}

// ToggleInterest flips whether userID follows the event and returns the new
// state.
func (r *eventRepository) ToggleInterest(ctx context.Context, eventID, userID string) (bool, error) {
	var (
		interested bool
		err        error
	)
	for attempt := 0; attempt < toggleAttempts; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			ok, err := rowExists(tx, "events", eventID)
			if err != nil {
				return err
			}
			if !ok {
				return notFound("event", eventID)
			}

			res := tx.Where("event_id = ? AND user_id = ?", eventID, userID).Delete(&models.InterestedInEvent{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				interested = false
				return nil
			}

			row := models.InterestedInEvent{ID: models.NewID(), EventID: eventID, UserID: userID, CreatedAt: models.Now()}
			res = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errToggleConflict
			}
			interested = true
			return nil
		})
		if !errors.Is(err, errToggleConflict) {
			break
		}
	}
	if err != nil {
		return false, fmt.Errorf("toggle interest: %w", err)
	}

	outcome := observability.ToggleRemoved
	if interested {
		outcome = observability.ToggleCreated
	}
	observability.RecordToggle("event_interest", outcome)
	return interested, nil
}

func (r *eventRepository) IsInterested(ctx context.Context, eventID, userID string) (bool, error) {
	var n int64
	err := readDB(r.db).WithContext(ctx).Model(&models.InterestedInEvent{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check interest: %w", err)
	}
	return n > 0, nil
}
