package service

import (
	"context"
	"testing"

	"scholarsync/internal/models"
	"scholarsync/internal/notifications"
	"scholarsync/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollService_VoteTwiceWithdraws(t *testing.T) {
	store, _ := newStore(t)
	feed, _, db := newFeedService(t, store)
	events := &recordingPublisher{}
	svc := NewPollService(repository.NewPollRepository(db), store, events, newValidator())
	ctx := context.Background()

	item, err := feed.Create(ctx, "u1", models.CreateActivityRequest{
		Type: models.ActivityPoll,
		Poll: &models.PollPayload{Title: "Lunch?", Options: []string{"Pizza", "Sushi"}},
	})
	require.NoError(t, err)
	pizza, sushi := item.Poll.Options[0].ID, item.Poll.Options[1].ID

	anon, err := svc.Options(ctx, item.ID, "")
	require.NoError(t, err)
	require.Len(t, anon.Options, 2)
	assert.Nil(t, anon.MyVoteID)

	after, err := svc.Vote(ctx, item.ID, "u2", models.VoteRequest{OptionID: pizza})
	require.NoError(t, err)
	require.NotNil(t, after.MyVoteID)
	assert.Equal(t, pizza, *after.MyVoteID)
	assert.Equal(t, int64(1), after.Options[0].Votes)

	anon, err = svc.Options(ctx, item.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), anon.Options[0].Votes)

	after, err = svc.Vote(ctx, item.ID, "u2", models.VoteRequest{OptionID: sushi})
	require.NoError(t, err)
	assert.Equal(t, sushi, *after.MyVoteID)
	assert.Zero(t, after.Options[0].Votes)
	assert.Equal(t, int64(1), after.Options[1].Votes)

	after, err = svc.Vote(ctx, item.ID, "u2", models.VoteRequest{OptionID: sushi})
	require.NoError(t, err)
	assert.Nil(t, after.MyVoteID)
	assert.Zero(t, after.Options[1].Votes)

	assert.Len(t, events.types(), 3)
	last := events.last()
	assert.Equal(t, notifications.EventPollVoteUpdated, last.Type)
	payload := last.Payload.(map[string]any)
	assert.Equal(t, map[string]int64{pizza: 0, sushi: 0}, payload["counts"])
}

func TestPollService_Errors(t *testing.T) {
	feed, _, db := newFeedService(t, nil)
	svc := NewPollService(repository.NewPollRepository(db), nil, &recordingPublisher{}, newValidator())
	ctx := context.Background()

	first, err := feed.Create(ctx, "u1", models.CreateActivityRequest{
		Type: models.ActivityPoll,
		Poll: &models.PollPayload{Title: "One", Options: []string{"A", "B"}},
	})
	require.NoError(t, err)
	second, err := feed.Create(ctx, "u1", models.CreateActivityRequest{
		Type: models.ActivityPoll,
		Poll: &models.PollPayload{Title: "Two", Options: []string{"C", "D"}},
	})
	require.NoError(t, err)

	_, err = svc.Vote(ctx, first.ID, "u2", models.VoteRequest{OptionID: second.Poll.Options[0].ID})
	assertCode(t, err, models.CodeNotFound)

	_, err = svc.Vote(ctx, first.ID, "u2", models.VoteRequest{})
	assertCode(t, err, models.CodeValidation)

	_, err = svc.Options(ctx, "missing", "")
	assertCode(t, err, models.CodeNotFound)
}
