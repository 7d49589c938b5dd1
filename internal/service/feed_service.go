package service

import (
	"context"
	"strings"

	"scholarsync/internal/cache"
	"scholarsync/internal/models"
	"scholarsync/internal/notifications"
	"scholarsync/internal/repository"
	"scholarsync/internal/validation"
)

type FeedService struct {
	activities repository.ActivityRepository
	cache      *cache.Store
	events     notifications.Publisher
	validator  *validation.Validator
}

// ListFeedInput selects one page of the feed.
type ListFeedInput struct {
	Limit   int
	Cursor  string
	Exclude string
	Type    models.ActivityType
}

func NewFeedService(
	activities repository.ActivityRepository,
	store *cache.Store,
	events notifications.Publisher,
	validator *validation.Validator,
) *FeedService {
	return &FeedService{
		activities: activities,
		cache:      store,
		events:     events,
		validator:  validator,
	}
}

// List returns one page of the feed. Unfiltered first pages are cached
// under the current feed generation.
func (s *FeedService) List(ctx context.Context, in ListFeedInput) (*models.FeedPage, error) {
	limit, err := pageLimit(in.Limit)
	if err != nil {
		return nil, err
	}
	in.Type = models.ActivityType(strings.ToUpper(string(in.Type)))
	if in.Type != "" && !in.Type.Valid() {
		return nil, models.NewValidationError("Invalid activity type")
	}

	query := repository.FeedQuery{Limit: limit, Cursor: in.Cursor, Exclude: in.Exclude, Type: in.Type}
	fetch := func(ctx context.Context) (*models.FeedPage, error) {
		page, err := s.activities.List(ctx, query)
		if err != nil {
			return nil, translate(err, "Activity", in.Cursor)
		}
		return page, nil
	}

	if in.Cursor != "" || in.Exclude != "" {
		return fetch(ctx)
	}

	var page *models.FeedPage
	key := cache.FeedPageKey(s.cache.Generation(ctx, cache.FeedGenerationKey), string(in.Type), limit)
	err = s.cache.Aside(ctx, key, &page, cache.FeedPageTTL, func(ctx context.Context) error {
		var err error
		page, err = fetch(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Get returns one feed item. The generation is read before the fetch so a
// concurrent touchActivity moves later reads past whatever this call stores.
func (s *FeedService) Get(ctx context.Context, id string) (*models.FeedItem, error) {
	var item *models.FeedItem
	key := cache.ActivityKey(id, s.cache.Generation(ctx, cache.ActivityGenerationKey(id)))
	err := s.cache.Aside(ctx, key, &item, cache.ActivityTTL, func(ctx context.Context) error {
		var err error
		item, err = s.activities.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, translate(err, "Activity", id)
	}
	return item, nil
}

// Create validates the payload that matches req.Type and stores it as a new
// activity authored by userID.
func (s *FeedService) Create(ctx context.Context, userID string, req models.CreateActivityRequest) (*models.FeedItem, error) {
	req.Type = models.ActivityType(strings.ToUpper(string(req.Type)))
	if !req.Type.Valid() {
		return nil, models.NewValidationError("Invalid activity type")
	}

	item, payload := buildItem(userID, req)
	if payload == nil {
		return nil, models.NewInvalidDataError("Payload does not match activity type " + string(req.Type))
	}
	if err := s.validator.Struct(payload); err != nil {
		return nil, invalid(err)
	}

	if err := s.activities.Create(ctx, item); err != nil {
		return nil, translate(err, string(req.Type), "")
	}
	s.cache.Bump(ctx, cache.FeedGenerationKey)
	s.events.Broadcast(ctx, notifications.Event{
		Type:    notifications.EventActivityCreated,
		Payload: map[string]any{"id": item.ID, "type": item.Type, "user_id": userID},
	})
	return item, nil
}

// buildItem maps the payload selected by req.Type onto a FeedItem. The
// returned payload is nil when the request does not carry it.
func buildItem(userID string, req models.CreateActivityRequest) (*models.FeedItem, any) {
	item := &models.FeedItem{Type: req.Type}
	var payload any

	switch req.Type {
	case models.ActivityPost:
		if p := req.Post; p != nil {
			payload = p
			item.Post = &models.Post{Title: p.Title, Content: p.Content, UserID: userID}
		}
	case models.ActivityOffer:
		if p := req.Offer; p != nil {
			payload = p
			item.Offer = &models.Offer{
				Title:       p.Title,
				Description: p.Description,
				Price:       p.Price,
				Condition:   p.Condition,
				Image:       p.Image,
				Category:    p.Category,
				UserID:      userID,
			}
		}
	case models.ActivityEvent:
		if p := req.Event; p != nil {
			payload = p
			item.Event = &models.Event{
				Title:       p.Title,
				Description: p.Description,
				Location:    p.Location,
				From:        p.From.UTC(),
				To:          p.To.UTC(),
				UserID:      userID,
			}
		}
	case models.ActivityPoll:
		if p := req.Poll; p != nil {
			payload = p
			poll := &models.Poll{Title: p.Title, Description: p.Description, UserID: userID}
			for _, title := range p.Options {
				poll.Options = append(poll.Options, models.Option{Title: title})
			}
			item.Poll = poll
		}
	case models.ActivityRadioSubmission:
		if p := req.RadioSubmission; p != nil {
			payload = p
			item.RadioSubmission = &models.RadioSubmission{Title: p.Title, Content: p.Content, Link: p.Link, UserID: userID}
		}
	}

	return item, payload
}

// Remove deletes an activity owned by userID.
func (s *FeedService) Remove(ctx context.Context, userID, id string) error {
	removed, err := s.activities.Remove(ctx, id, userID)
	if err != nil {
		return translate(err, "Activity", id)
	}
	touchActivity(ctx, s.cache, id)
	s.events.Broadcast(ctx, notifications.Event{
		Type:    notifications.EventActivityRemoved,
		Payload: map[string]any{"id": id, "type": removed},
	})
	return nil
}

// touchActivity orphans cached copies of an activity after it or one of its
// children changed.
func touchActivity(ctx context.Context, store *cache.Store, id string) {
	store.Bump(ctx, cache.ActivityGenerationKey(id))
	store.Bump(ctx, cache.FeedGenerationKey)
}
