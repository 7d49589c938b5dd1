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

func TestCommentService_CreateUpdatesCachedActivity(t *testing.T) {
	store, _ := newStore(t)
	feed, _, db := newFeedService(t, store)
	events := &recordingPublisher{}
	svc := NewCommentService(repository.NewCommentRepository(db), store, events, newValidator())
	ctx := context.Background()

	item, err := feed.Create(ctx, "u1", postRequest("discuss"))
	require.NoError(t, err)
	cached, err := feed.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Zero(t, cached.NumberOfComments)

	comment, err := svc.Create(ctx, "u2", models.CreateCommentRequest{Model: "post", ModelID: item.ID, Content: "nice"})
	require.NoError(t, err)
	assert.Equal(t, models.CommentOnPost, comment.Model)
	require.NotNil(t, comment.PostID)
	assert.Equal(t, item.ID, *comment.PostID)

	got, err := feed.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.NumberOfComments)

	assert.Equal(t, []string{notifications.EventCommentCreated}, events.types())
}

func TestCommentService_LateCacheFillAfterComment(t *testing.T) {
	store, _ := newStore(t)
	feed, _, db := newFeedService(t, store)
	svc := NewCommentService(repository.NewCommentRepository(db), store, &recordingPublisher{}, newValidator())
	ctx := context.Background()

	item, err := feed.Create(ctx, "u1", postRequest("race"))
	require.NoError(t, err)
	before, err := feed.Get(ctx, item.ID)
	require.NoError(t, err)

	// A reader picked its key and loaded the row before the comment landed.
	staleKey := cache.ActivityKey(item.ID, store.Generation(ctx, cache.ActivityGenerationKey(item.ID)))

	_, err = svc.Create(ctx, "u2", models.CreateCommentRequest{Model: "post", ModelID: item.ID, Content: "first"})
	require.NoError(t, err)

	// Its write-back arrives after the invalidation.
	require.NoError(t, store.SetJSON(ctx, staleKey, before, cache.ActivityTTL))

	got, err := feed.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.NumberOfComments)
}

func TestCommentService_CreateErrors(t *testing.T) {
	feed, _, db := newFeedService(t, cache.NewStore(nil))
	events := &recordingPublisher{}
	svc := NewCommentService(repository.NewCommentRepository(db), cache.NewStore(nil), events, newValidator())
	ctx := context.Background()

	item, err := feed.Create(ctx, "u1", postRequest("discuss"))
	require.NoError(t, err)

	tests := []struct {
		name string
		req  models.CreateCommentRequest
		code string
	}{
		{"missing target", models.CreateCommentRequest{Model: models.CommentOnPost, ModelID: "nope", Content: "hi"}, models.CodeNotFound},
		{"target of another model", models.CreateCommentRequest{Model: models.CommentOnPoll, ModelID: item.ID, Content: "hi"}, models.CodeNotFound},
		{"unknown model", models.CreateCommentRequest{Model: "NOTE", ModelID: item.ID, Content: "hi"}, models.CodeValidation},
		{"empty content", models.CreateCommentRequest{Model: models.CommentOnPost, ModelID: item.ID}, models.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "u2", tt.req)
			assertCode(t, err, tt.code)
		})
	}

	var n int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.Empty(t, events.types())
}

func TestCommentService_List(t *testing.T) {
	feed, _, db := newFeedService(t, cache.NewStore(nil))
	svc := NewCommentService(repository.NewCommentRepository(db), cache.NewStore(nil), &recordingPublisher{}, newValidator())
	ctx := context.Background()

	item, err := feed.Create(ctx, "u1", postRequest("discuss"))
	require.NoError(t, err)
	for _, content := range []string{"one", "two", "three"} {
		_, err := svc.Create(ctx, "u2", models.CreateCommentRequest{Model: models.CommentOnPost, ModelID: item.ID, Content: content})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, ListCommentsInput{Model: "post", ModelID: item.ID, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "one", page.Items[0].Content)
	require.NotEmpty(t, page.NextCursor)

	page, err = svc.List(ctx, ListCommentsInput{Model: models.CommentOnPost, ModelID: item.ID, Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "three", page.Items[0].Content)
	assert.Empty(t, page.NextCursor)

	_, err = svc.List(ctx, ListCommentsInput{Model: "NOTE", ModelID: item.ID})
	assertCode(t, err, models.CodeValidation)

	_, err = svc.List(ctx, ListCommentsInput{Model: models.CommentOnPost})
	assertCode(t, err, models.CodeValidation)
}
