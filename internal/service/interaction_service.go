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

type InteractionService struct {
	interactions repository.InteractionRepository
	cache        *cache.Store
	events       notifications.Publisher
	validator    *validation.Validator
}

func NewInteractionService(
	interactions repository.InteractionRepository,
	store *cache.Store,
	events notifications.Publisher,
	validator *validation.Validator,
) *InteractionService {
	return &InteractionService{interactions: interactions, cache: store, events: events, validator: validator}
}

func parseInteractionModel(raw string) (models.InteractionModel, error) {
	model := models.InteractionModel(strings.ToUpper(raw))
	if !model.Valid() {
		return "", models.NewValidationError("Invalid interaction model")
	}
	return model, nil
}

// Get returns reaction counts for a target. Anonymous reads are cached since
// they carry no per-user state.
func (s *InteractionService) Get(ctx context.Context, rawModel, targetID, userID string) (*models.InteractionSummary, error) {
	model, err := parseInteractionModel(rawModel)
	if err != nil {
		return nil, err
	}

	var summary *models.InteractionSummary
	fetch := func(ctx context.Context) error {
		var err error
		summary, err = s.interactions.Summary(ctx, model, targetID, userID)
		return err
	}

	if userID != "" {
		err = fetch(ctx)
	} else {
		err = s.cache.Aside(ctx, cache.ReactionsKey(string(model), targetID), &summary, cache.ReactionsTTL, fetch)
	}
	if err != nil {
		return nil, translate(err, string(model), targetID)
	}
	return summary, nil
}

// Interact toggles the caller's reaction and returns the resulting state,
// nil when the reaction was removed.
func (s *InteractionService) Interact(ctx context.Context, rawModel, targetID, userID string, req models.InteractRequest) (*models.MyReaction, error) {
	model, err := parseInteractionModel(rawModel)
	if err != nil {
		return nil, err
	}
	req.Type = models.ReactionType(strings.ToUpper(string(req.Type)))
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err)
	}

	mine, err := s.interactions.Toggle(ctx, model, targetID, userID, req.Type)
	if err != nil {
		return nil, translate(err, string(model), targetID)
	}
	s.cache.Invalidate(ctx, cache.ReactionsKey(string(model), targetID))

	payload := map[string]any{"model": model, "model_id": targetID}
	if summary, err := s.interactions.Summary(ctx, model, targetID, ""); err == nil {
		payload["counts"] = summary.Counts
	}
	s.events.Broadcast(ctx, notifications.Event{Type: notifications.EventInteractionUpdated, Payload: payload})
	return mine, nil
}
