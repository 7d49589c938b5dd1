package cache

import (
	"fmt"
	"time"
)

const (
	ActivityKeyPrefix  = "activity:%s:%d"
	ActivityGenPrefix  = "activity:gen:%s"
	FeedPageKeyPrefix  = "feed:page:%d:%s:%d"
	FeedGenerationKey  = "feed:generation"
	UserSeenKeyPrefix  = "user:seen:%s"
	PollOptionsPrefix  = "poll:%s:options"
	ReactionsKeyPrefix = "reactions:%s:%s"
)

const (
	ActivityTTL    = 5 * time.Minute
	FeedPageTTL    = 30 * time.Second
	UserSeenTTL    = 10 * time.Minute
	PollOptionsTTL = time.Minute
	ReactionsTTL   = time.Minute
)

// ActivityKey caches one normalized feed item under the activity's own
// generation, so a read racing a write can only fill an already orphaned key.
func ActivityKey(id string, generation int64) string {
	return fmt.Sprintf(ActivityKeyPrefix, id, generation)
}

// ActivityGenerationKey versions the cached copies of one activity.
func ActivityGenerationKey(id string) string {
	return fmt.Sprintf(ActivityGenPrefix, id)
}

// FeedPageKey caches the first page of a feed listing. The generation is
// bumped on every feed write, which orphans all earlier page keys.
func FeedPageKey(generation int64, activityType string, limit int) string {
	if activityType == "" {
		activityType = "all"
	}
	return fmt.Sprintf(FeedPageKeyPrefix, generation, activityType, limit)
}

// UserSeenKey marks a session user as already upserted.
func UserSeenKey(userID string) string {
	return fmt.Sprintf(UserSeenKeyPrefix, userID)
}

// PollOptionsKey caches option vote counts for a poll.
func PollOptionsKey(pollID string) string {
	return fmt.Sprintf(PollOptionsPrefix, pollID)
}

// ReactionsKey caches reaction counts for a target.
func ReactionsKey(model, targetID string) string {
	return fmt.Sprintf(ReactionsKeyPrefix, model, targetID)
}
