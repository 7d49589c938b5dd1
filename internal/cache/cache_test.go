package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Title string `json:"title"`
}

func newTestStore(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewStore(rdb)
}

func TestStore_AsideCachesAfterMiss(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()
	calls := 0
	fetch := func(dest *payload) func(context.Context) error {
		return func(context.Context) error {
			calls++
			dest.Title = "Hi"
			return nil
		}
	}

	var first payload
	require.NoError(t, store.Aside(ctx, ActivityKey("a1", 0), &first, time.Minute, fetch(&first)))
	assert.Equal(t, "Hi", first.Title)
	assert.True(t, mr.Exists(ActivityKey("a1", 0)))

	var second payload
	require.NoError(t, store.Aside(ctx, ActivityKey("a1", 0), &second, time.Minute, fetch(&second)))
	assert.Equal(t, "Hi", second.Title)
	assert.Equal(t, 1, calls)

	store.Invalidate(ctx, ActivityKey("a1", 0))
	assert.False(t, mr.Exists(ActivityKey("a1", 0)))
}

func TestStore_AsideDoesNotCacheErrors(t *testing.T) {
	mr, store := newTestStore(t)
	boom := errors.New("db down")

	var dest payload
	err := store.Aside(context.Background(), ActivityKey("x", 0), &dest, time.Minute, func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists(ActivityKey("x", 0)))
}

func TestStore_AsideSurvivesRedisOutage(t *testing.T) {
	mr, store := newTestStore(t)
	mr.Close()

	var dest payload
	err := store.Aside(context.Background(), ActivityKey("x", 0), &dest, time.Minute, func(context.Context) error {
		dest.Title = "from db"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "from db", dest.Title)
}

func TestStore_Disabled(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	assert.False(t, store.Enabled())
	found, err := store.GetJSON(ctx, "k", &payload{})
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, store.SetJSON(ctx, "k", payload{}, time.Minute))
	assert.Zero(t, store.Generation(ctx, FeedGenerationKey))
	assert.True(t, store.MarkOnce(ctx, UserSeenKey("u"), time.Minute))
	store.Bump(ctx, FeedGenerationKey)
	store.Invalidate(ctx, "k")
}

func TestStore_GenerationAndMarkOnce(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	assert.Zero(t, store.Generation(ctx, FeedGenerationKey))
	store.Bump(ctx, FeedGenerationKey)
	store.Bump(ctx, FeedGenerationKey)
	assert.Equal(t, int64(2), store.Generation(ctx, FeedGenerationKey))

	assert.True(t, store.MarkOnce(ctx, UserSeenKey("u1"), time.Minute))
	assert.False(t, store.MarkOnce(ctx, UserSeenKey("u1"), time.Minute))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "activity:abc:4", ActivityKey("abc", 4))
	assert.Equal(t, "activity:gen:abc", ActivityGenerationKey("abc"))
	assert.Equal(t, "feed:page:3:all:50", FeedPageKey(3, "", 50))
	assert.Equal(t, "feed:page:0:POLL:10", FeedPageKey(0, "POLL", 10))
	assert.Equal(t, "user:seen:u", UserSeenKey("u"))
	assert.Equal(t, "poll:p:options", PollOptionsKey("p"))
	assert.Equal(t, "reactions:POST:t", ReactionsKey("POST", "t"))
	assert.Equal(t, "activity", keyFamily(ActivityKey("z", 1)))
}

func TestOptions(t *testing.T) {
	opts, err := Options("redis://:secret@cache:6380/2")
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)

	opts, err = Options("localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)

	_, err = Options("redis://%zz")
	assert.Error(t, err)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := Connect(context.Background(), mr.Addr())
	require.NoError(t, err)
	_ = rdb.Close()

	addr := mr.Addr()
	mr.Close()
	_, err = Connect(context.Background(), addr)
	assert.Error(t, err)
}
