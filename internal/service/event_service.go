package service

import (
	"context"
	"time"

	"scholarsync/internal/cache"
	"scholarsync/internal/models"
	"scholarsync/internal/repository"
)

// MaxCalendarWindow bounds event.calendar queries.
const MaxCalendarWindow = 366 * 24 * time.Hour

type EventService struct {
	events repository.EventRepository
	feed   *FeedService
	cache  *cache.Store
}

func NewEventService(events repository.EventRepository, feed *FeedService, store *cache.Store) *EventService {
	return &EventService{events: events, feed: feed, cache: store}
}

// Calendar lists events fully contained in [start, end].
func (s *EventService) Calendar(ctx context.Context, start, end time.Time) ([]models.CalendarEntry, error) {
	if start.IsZero() || end.IsZero() {
		return nil, models.NewValidationError("start and end are required")
	}
	if !start.Before(end) {
		return nil, models.NewValidationError("start must be before end")
	}
	if end.Sub(start) > MaxCalendarWindow {
		return nil, models.NewValidationError("calendar window must not exceed 366 days")
	}

	events, err := s.events.Calendar(ctx, start.UTC(), end.UTC())
	if err != nil {
		return nil, translate(err, "Event", "")
	}
	entries := make([]models.CalendarEntry, 0, len(events))
	for _, e := range events {
		entries = append(entries, models.CalendarEntry{
			Title:    e.Title,
			Start:    e.From,
			End:      e.To,
			Resource: models.CalendarResource{ID: e.ID, UserID: e.UserID},
		})
	}
	return entries, nil
}

// Create publishes an event to the feed.
func (s *EventService) Create(ctx context.Context, userID string, payload models.EventPayload) (*models.FeedItem, error) {
	return s.feed.Create(ctx, userID, models.CreateActivityRequest{
		Type:  models.ActivityEvent,
		Event: &payload,
	})
}

func (s *EventService) Get(ctx context.Context, id string) (*models.EventDetail, error) {
	detail, err := s.events.GetDetail(ctx, id)
	if err != nil {
		return nil, translate(err, "Event", id)
	}
	return detail, nil
}

// ToggleInterest flips the caller's interest and returns the new state.
func (s *EventService) ToggleInterest(ctx context.Context, eventID, userID string) (bool, error) {
	interested, err := s.events.ToggleInterest(ctx, eventID, userID)
	if err != nil {
		return false, translate(err, "Event", eventID)
	}
	touchActivity(ctx, s.cache, eventID)
	return interested, nil
}

func (s *EventService) IsInterested(ctx context.Context, eventID, userID string) (bool, error) {
	interested, err := s.events.IsInterested(ctx, eventID, userID)
	if err != nil {
		return false, translate(err, "Event", eventID)
	}
	return interested, nil
}
