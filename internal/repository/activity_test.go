package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"scholarsync/internal/models"
	"scholarsync/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func createPost(t *testing.T, repo ActivityRepository, userID, title string) *models.FeedItem {
	t.Helper()
	item := &models.FeedItem{
		Type: models.ActivityPost,
		Post: &models.Post{Title: title, Content: "content of " + title, UserID: userID},
	}
	require.NoError(t, repo.Create(context.Background(), item))
	return item
}

func feedIDs(items []models.FeedItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func TestActivityRepository_CreateAndGetPost(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "u1")
	repo := NewActivityRepository(db)
	ctx := context.Background()

	item := createPost(t, repo, "u1", "Hello")
	require.NotEmpty(t, item.ID)
	assert.Equal(t, item.ID, item.Post.ID)

	got, err := repo.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ActivityPost, got.Type)
	require.NotNil(t, got.Post)
	assert.Equal(t, "Hello", got.Post.Title)
	require.NotNil(t, got.Author)
	assert.Equal(t, "u1", got.Author.ID)
	assert.Equal(t, "User u1", got.Author.Name)
	assert.Empty(t, got.Author.Email)
	assert.Nil(t, got.Post.User)
	assert.Zero(t, got.NumberOfComments)
}

func TestActivityRepository_CreateEachType(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "u1")
	repo := NewActivityRepository(db)
	ctx := context.Background()

	from := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	items := []*models.FeedItem{
		{Type: models.ActivityOffer, Offer: &models.Offer{Title: "Desk", Price: 25.5, Condition: models.ConditionUsed, Category: "furniture", UserID: "u1"}},
		{Type: models.ActivityEvent, Event: &models.Event{Title: "Party", From: from, To: from.Add(3 * time.Hour), UserID: "u1"}},
		{Type: models.ActivityPoll, Poll: &models.Poll{Title: "Lunch?", UserID: "u1", Options: []models.Option{{Title: "Pizza"}, {Title: "Sushi"}}}},
		{Type: models.ActivityRadioSubmission, RadioSubmission: &models.RadioSubmission{Title: "Song", Link: "https://example.com/song", UserID: "u1"}},
	}
	for _, item := range items {
		require.NoError(t, repo.Create(ctx, item))
	}

	page, err := repo.List(ctx, FeedQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 4)
	assert.Empty(t, page.NextCursor)

	byType := map[models.ActivityType]models.FeedItem{}
	for _, item := range page.Items {
		byType[item.Type] = item
		require.NotNil(t, item.Author)
	}
	assert.Equal(t, 25.5, byType[models.ActivityOffer].Offer.Price)
	assert.True(t, byType[models.ActivityEvent].Event.From.Equal(from))
	require.Len(t, byType[models.ActivityPoll].Poll.Options, 2)
	assert.Equal(t, "Pizza", byType[models.ActivityPoll].Poll.Options[0].Title)
	assert.Equal(t, "https://example.com/song", byType[models.ActivityRadioSubmission].RadioSubmission.Link)
}

func TestActivityRepository_CreateWithoutPayload(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewActivityRepository(db)

	err := repo.Create(context.Background(), &models.FeedItem{Type: models.ActivityEvent})
	assert.Error(t, err)

	var n int64
	db.Model(&models.Activity{}).Count(&n)
	assert.Zero(t, n)
}

func TestActivityRepository_ListPagination(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "u1")
	repo := NewActivityRepository(db)
	ctx := context.Background()

	var created []string
	for i := 1; i <= 5; i++ {
		created = append(created, createPost(t, repo, "u1", fmt.Sprintf("post %d", i)).ID)
	}

	page, err := repo.List(ctx, FeedQuery{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{created[4], created[3]}, feedIDs(page.Items))
	assert.Equal(t, created[2], page.NextCursor)

	page, err = repo.List(ctx, FeedQuery{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	assert.Equal(t, []string{created[2], created[1]}, feedIDs(page.Items))
	assert.Equal(t, created[0], page.NextCursor)

	page, err = repo.List(ctx, FeedQuery{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	assert.Equal(t, []string{created[0]}, feedIDs(page.Items))
	assert.Empty(t, page.NextCursor)
}

func TestActivityRepository_ListTimestampTies(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "u1")
	repo := NewActivityRepository(db)

	same := models.Now()
	var ids []string
	for i := 0; i < 4; i++ {
		id := models.NewID()
		ids = append(ids, id)
		require.NoError(t, db.Create(&models.Activity{ID: id, Type: models.ActivityPost, CreatedAt: same}).Error)
		require.NoError(t, db.Create(&models.Post{ID: id, Title: "tie", Content: "tie", UserID: "u1", CreatedAt: same}).Error)
	}

	seen := map[string]bool{}
	cursor := ""
	for pages := 0; pages < 10; pages++ {
		page, err := repo.List(context.Background(), FeedQuery{Limit: 3, Cursor: cursor})
		require.NoError(t, err)
		for _, item := range page.Items {
			assert.False(t, seen[item.ID], "item %s returned twice", item.ID)
			seen[item.ID] = true
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}
	assert.Len(t, seen, len(ids))
}

func TestActivityRepository_ListFilters(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "u1")
	repo := NewActivityRepository(db)
	ctx := context.Background()

	first := createPost(t, repo, "u1", "first")
	second := createPost(t, repo, "u1", "second")
	offer := &models.FeedItem{Type: models.ActivityOffer, Offer: &models.Offer{Title: "Bike", Price: 10, Condition: models.ConditionNew, UserID: "u1"}}
	require.NoError(t, repo.Create(ctx, offer))

	page, err := repo.List(ctx, FeedQuery{Limit: 10, Type: models.ActivityPost})
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID, first.ID}, feedIDs(page.Items))

	page, err = repo.List(ctx, FeedQuery{Limit: 10, Exclude: second.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{offer.ID, first.ID}, feedIDs(page.Items))
}

func TestActivityRepository_UnknownCursor(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewActivityRepository(db)

	_, err := repo.List(context.Background(), FeedQuery{Limit: 10, Cursor: "missing"})
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestActivityRepository_DropsOrphanPointers(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "u1")
	repo := NewActivityRepository(db)
	ctx := context.Background()

	kept := createPost(t, repo, "u1", "kept")
	orphan := models.Activity{ID: models.NewID(), Type: models.ActivityEvent, CreatedAt: models.Now()}
	require.NoError(t, db.Create(&orphan).Error)

	page, err := repo.List(ctx, FeedQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{kept.ID}, feedIDs(page.Items))

	_, err = repo.Get(ctx, orphan.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestActivityRepository_Remove(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "owner")
	testutil.CreateUser(t, db, "other")
	repo := NewActivityRepository(db)
	comments := NewCommentRepository(db)
	interactions := NewInteractionRepository(db)
	ctx := context.Background()

	poll := &models.FeedItem{Type: models.ActivityPoll, Poll: &models.Poll{Title: "Q", UserID: "owner", Options: []models.Option{{Title: "A"}, {Title: "B"}}}}
	require.NoError(t, repo.Create(ctx, poll))

	comment := &models.Comment{Content: "hi", UserID: "other"}
	comment.SetTarget(models.CommentOnPoll, poll.ID)
	require.NoError(t, comments.Create(ctx, comment))
	_, err := interactions.Toggle(ctx, models.InteractOnPoll, poll.ID, "other", models.ReactionLike)
	require.NoError(t, err)
	_, err = interactions.Toggle(ctx, models.InteractOnComment, comment.ID, "owner", models.ReactionLove)
	require.NoError(t, err)
	_, err = NewPollRepository(db).Vote(ctx, poll.ID, poll.Poll.Options[0].ID, "other")
	require.NoError(t, err)

	t.Run("someone else's activity is not found", func(t *testing.T) {
		_, err := repo.Remove(ctx, poll.ID, "other")
		assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	})

	t.Run("owner removes everything", func(t *testing.T) {
		removed, err := repo.Remove(ctx, poll.ID, "owner")
		require.NoError(t, err)
		assert.Equal(t, models.ActivityPoll, removed)

		for _, model := range []any{&models.Activity{}, &models.Poll{}, &models.Option{}, &models.Vote{}, &models.Comment{}, &models.Interaction{}} {
			var n int64
			require.NoError(t, db.Model(model).Count(&n).Error)
			assert.Zero(t, n, "%T rows left", model)
		}
	})

	t.Run("missing activity", func(t *testing.T) {
		_, err := repo.Remove(ctx, poll.ID, "owner")
		assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	})
}

func TestActivityRepository_ListQueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewActivityRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "activities"`)).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.List(context.Background(), FeedQuery{Limit: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
