package models

import "time"

// ActivityType discriminates the five kinds of feed content.
type ActivityType string

const (
	ActivityPost            ActivityType = "POST"
	ActivityOffer           ActivityType = "OFFER"
	ActivityEvent           ActivityType = "EVENT"
	ActivityPoll            ActivityType = "POLL"
	ActivityRadioSubmission ActivityType = "RADIO_SUBMISSION"
)

// ActivityTypes lists every activity type in a stable order.
var ActivityTypes = []ActivityType{
	ActivityPost, ActivityOffer, ActivityEvent, ActivityPoll, ActivityRadioSubmission,
}

// Valid reports whether t is a known activity type.
func (t ActivityType) Valid() bool {
	for _, known := range ActivityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Activity is the feed pointer row. The authoritative record lives in the
// type-specific table under the same ID.
type Activity struct {
	ID        string       `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Type      ActivityType `gorm:"type:varchar(32);not null;index" json:"type"`
	CreatedAt time.Time    `gorm:"not null;index" json:"created_at"`
}

// FeedItem is one normalized feed entry. Exactly one of the payload pointers
// is set, matching Type.
type FeedItem struct {
	ID               string       `json:"id"`
	Type             ActivityType `json:"type"`
	CreatedAt        time.Time    `json:"created_at"`
	Author           *User        `json:"author,omitempty"`
	NumberOfComments int          `json:"number_of_comments"`

	Post            *Post            `json:"post,omitempty"`
	Offer           *Offer           `json:"offer,omitempty"`
	Event           *Event           `json:"event,omitempty"`
	Poll            *Poll            `json:"poll,omitempty"`
	RadioSubmission *RadioSubmission `json:"radio_submission,omitempty"`
}

// OwnerID returns the author of whichever payload is set.
func (f *FeedItem) OwnerID() string {
	switch {
	case f.Post != nil:
		return f.Post.UserID
	case f.Offer != nil:
		return f.Offer.UserID
	case f.Event != nil:
		return f.Event.UserID
	case f.Poll != nil:
		return f.Poll.UserID
	case f.RadioSubmission != nil:
		return f.RadioSubmission.UserID
	}
	return ""
}

// FeedPage is a cursor-paginated slice of the feed.
type FeedPage struct {
	Items      []FeedItem `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}
