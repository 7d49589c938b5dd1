package service

import (
	"context"
	"testing"

	"scholarsync/internal/cache"
	"scholarsync/internal/models"
	"scholarsync/internal/notifications"
	"scholarsync/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func likeCount(summary *models.InteractionSummary, reaction models.ReactionType) int64 {
	for _, c := range summary.Counts {
		if c.Type == reaction {
			return c.Count
		}
	}
	return -1
}

func TestInteractionService_Toggle(t *testing.T) {
	store, _ := newStore(t)
	feed, _, db := newFeedService(t, store)
	events := &recordingPublisher{}
	svc := NewInteractionService(repository.NewInteractionRepository(db), store, events, newValidator())
	ctx := context.Background()

	item, err := feed.Create(ctx, "u1", postRequest("react"))
	require.NoError(t, err)

	anon, err := svc.Get(ctx, "post", item.ID, "")
	require.NoError(t, err)
	require.Len(t, anon.Counts, len(models.ReactionTypes))
	assert.Zero(t, likeCount(anon, models.ReactionLike))
	assert.Nil(t, anon.HasInteracted)

	mine, err := svc.Interact(ctx, "post", item.ID, "u2", models.InteractRequest{Type: "like"})
	require.NoError(t, err)
	require.NotNil(t, mine)
	assert.Equal(t, models.ReactionLike, mine.Type)

	anon, err = svc.Get(ctx, "POST", item.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), likeCount(anon, models.ReactionLike))

	own, err := svc.Get(ctx, "POST", item.ID, "u2")
	require.NoError(t, err)
	require.NotNil(t, own.HasInteracted)
	assert.Equal(t, models.ReactionLike, own.HasInteracted.Type)

	mine, err = svc.Interact(ctx, "POST", item.ID, "u2", models.InteractRequest{Type: models.ReactionWow})
	require.NoError(t, err)
	assert.Equal(t, models.ReactionWow, mine.Type)

	mine, err = svc.Interact(ctx, "POST", item.ID, "u2", models.InteractRequest{Type: models.ReactionWow})
	require.NoError(t, err)
	assert.Nil(t, mine)

	anon, err = svc.Get(ctx, "POST", item.ID, "")
	require.NoError(t, err)
	assert.Zero(t, likeCount(anon, models.ReactionLike))
	assert.Zero(t, likeCount(anon, models.ReactionWow))

	assert.Len(t, events.types(), 3)
	last := events.last()
	assert.Equal(t, notifications.EventInteractionUpdated, last.Type)
	payload, ok := last.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, item.ID, payload["model_id"])
	assert.Contains(t, payload, "counts")
}

func TestInteractionService_RejectsBadInput(t *testing.T) {
	_, _, db := newFeedService(t, cache.NewStore(nil))
	svc := NewInteractionService(repository.NewInteractionRepository(db), cache.NewStore(nil), &recordingPublisher{}, newValidator())
	ctx := context.Background()

	_, err := svc.Get(ctx, "NOTE", "x", "")
	assertCode(t, err, models.CodeValidation)

	_, err = svc.Interact(ctx, "NOTE", "x", "u1", models.InteractRequest{Type: models.ReactionLike})
	assertCode(t, err, models.CodeValidation)

	_, err = svc.Interact(ctx, "POST", "x", "u1", models.InteractRequest{Type: "MEH"})
	assertCode(t, err, models.CodeValidation)

	_, err = svc.Interact(ctx, "POST", "missing", "u1", models.InteractRequest{Type: models.ReactionLike})
	assertCode(t, err, models.CodeNotFound)
}
