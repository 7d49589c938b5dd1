package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"scholarsync/internal/models"
	"scholarsync/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createEvent(t *testing.T, db *gorm.DB, userID, title string, from, to time.Time) *models.FeedItem {
	t.Helper()
	item := &models.FeedItem{
		Type:  models.ActivityEvent,
		Event: &models.Event{Title: title, Location: "Aula", From: from, To: to, UserID: userID},
	}
	require.NoError(t, NewActivityRepository(db).Create(context.Background(), item))
	return item
}

func TestEventRepository_ToggleInterest(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "u1")
	start := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	event := createEvent(t, db, "u1", "Talk", start, start.Add(time.Hour))
	repo := NewEventRepository(db)
	ctx := context.Background()

	interested, err := repo.ToggleInterest(ctx, event.ID, "u2")
	require.NoError(t, err)
	assert.True(t, interested)

	is, err := repo.IsInterested(ctx, event.ID, "u2")
	require.NoError(t, err)
	assert.True(t, is)

	interested, err = repo.ToggleInterest(ctx, event.ID, "u2")
	require.NoError(t, err)
	assert.False(t, interested)

	is, err = repo.IsInterested(ctx, event.ID, "u2")
	require.NoError(t, err)
	assert.False(t, is)

	_, err = repo.ToggleInterest(ctx, "missing", "u2")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestEventRepository_Calendar(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "u1")
	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	inside := createEvent(t, db, "u1", "inside", march.Add(48*time.Hour), march.Add(50*time.Hour))
	createEvent(t, db, "u1", "overlapping", march.Add(-time.Hour), march.Add(time.Hour))
	createEvent(t, db, "u1", "later", march.AddDate(0, 2, 0), march.AddDate(0, 2, 1))

	events, err := NewEventRepository(db).Calendar(context.Background(), march, march.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, inside.ID, events[0].ID)
	assert.Equal(t, "inside", events[0].Title)
}

func TestEventRepository_GetDetail(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "u1")
	start := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	event := createEvent(t, db, "u1", "Fair", start, start.Add(8*time.Hour))
	repo := NewEventRepository(db)
	ctx := context.Background()

	_, err := repo.ToggleInterest(ctx, event.ID, "u2")
	require.NoError(t, err)
	_, err = repo.ToggleInterest(ctx, event.ID, "u3")
	require.NoError(t, err)
	c := &models.Comment{Content: "see you", UserID: "u2"}
	c.SetTarget(models.CommentOnEvent, event.ID)
	require.NoError(t, NewCommentRepository(db).Create(ctx, c))
	_, err = NewInteractionRepository(db).Toggle(ctx, models.InteractOnEvent, event.ID, "u3", models.ReactionLove)
	require.NoError(t, err)

	detail, err := repo.GetDetail(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fair", detail.Title)
	require.NotNil(t, detail.User)
	assert.Equal(t, "u1", detail.User.ID)
	assert.Equal(t, models.EventCounts{Interested: 2, Comments: 1, Interactions: 1}, detail.Counts)
	assert.Equal(t, 2, detail.InterestedCount)
	assert.Equal(t, 1, detail.NumberOfComments)

	_, err = repo.GetDetail(ctx, "missing")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
