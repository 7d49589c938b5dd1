package service

import (
	"context"

	"scholarsync/internal/cache"
	"scholarsync/internal/models"
	"scholarsync/internal/notifications"
	"scholarsync/internal/repository"
	"scholarsync/internal/validation"
)

type PollService struct {
	polls     repository.PollRepository
	cache     *cache.Store
	events    notifications.Publisher
	validator *validation.Validator
}

func NewPollService(
	polls repository.PollRepository,
	store *cache.Store,
	events notifications.Publisher,
	validator *validation.Validator,
) *PollService {
	return &PollService{polls: polls, cache: store, events: events, validator: validator}
}

// Options returns the poll's options with vote counts. Anonymous reads are
// cached.
func (s *PollService) Options(ctx context.Context, pollID, userID string) (*models.PollOptions, error) {
	var options *models.PollOptions
	fetch := func(ctx context.Context) error {
		var err error
		options, err = s.polls.Options(ctx, pollID, userID)
		return err
	}

	var err error
	if userID != "" {
		err = fetch(ctx)
	} else {
		err = s.cache.Aside(ctx, cache.PollOptionsKey(pollID), &options, cache.PollOptionsTTL, fetch)
	}
	if err != nil {
		return nil, translate(err, "Poll", pollID)
	}
	return options, nil
}

// Vote casts, moves or withdraws the caller's vote and returns the refreshed
// options.
func (s *PollService) Vote(ctx context.Context, pollID, userID string, req models.VoteRequest) (*models.PollOptions, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err)
	}
	if _, err := s.polls.Vote(ctx, pollID, req.OptionID, userID); err != nil {
		return nil, translate(err, "Option", req.OptionID)
	}
	s.cache.Invalidate(ctx, cache.PollOptionsKey(pollID))

	options, err := s.polls.Options(ctx, pollID, userID)
	if err != nil {
		return nil, translate(err, "Poll", pollID)
	}

	counts := make(map[string]int64, len(options.Options))
	for _, o := range options.Options {
		counts[o.ID] = o.Votes
	}
	s.events.Broadcast(ctx, notifications.Event{
		Type:    notifications.EventPollVoteUpdated,
		Payload: map[string]any{"poll_id": pollID, "counts": counts},
	})
	return options, nil
}
