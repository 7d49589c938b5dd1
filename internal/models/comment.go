package models

import "time"

// CommentModel names the activity a comment belongs to.
type CommentModel string

const (
	CommentOnPost            CommentModel = "POST"
	CommentOnOffer           CommentModel = "OFFER"
	CommentOnEvent           CommentModel = "EVENT"
	CommentOnPoll            CommentModel = "POLL"
	CommentOnRadioSubmission CommentModel = "RADIO_SUBMISSION"
)

// Valid reports whether m is a commentable model.
func (m CommentModel) Valid() bool {
	return ActivityType(m).Valid()
}

// Comment is attached to exactly one activity, selected by Model.
type Comment struct {
	ID                string       `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Model             CommentModel `gorm:"type:varchar(32);not null" json:"model"`
	Content           string       `gorm:"type:text;not null" json:"content"`
	UserID            string       `gorm:"type:varchar(64);not null;index" json:"user_id"`
	User              *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PostID            *string      `gorm:"type:varchar(36);index" json:"post_id,omitempty"`
	OfferID           *string      `gorm:"type:varchar(36);index" json:"offer_id,omitempty"`
	EventID           *string      `gorm:"type:varchar(36);index" json:"event_id,omitempty"`
	PollID            *string      `gorm:"type:varchar(36);index" json:"poll_id,omitempty"`
	RadioSubmissionID *string      `gorm:"type:varchar(36);index" json:"radio_submission_id,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// SetTarget points the comment at modelID through the column matching m.
func (c *Comment) SetTarget(m CommentModel, modelID string) {
	c.Model = m
	id := modelID
	switch m {
	case CommentOnPost:
		c.PostID = &id
	case CommentOnOffer:
		c.OfferID = &id
	case CommentOnEvent:
		c.EventID = &id
	case CommentOnPoll:
		c.PollID = &id
	case CommentOnRadioSubmission:
		c.RadioSubmissionID = &id
	}
}

// CommentPage is a cursor-paginated slice of comments.
type CommentPage struct {
	Items      []Comment `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}
