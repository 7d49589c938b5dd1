package models

import "time"

// Poll is a single-choice question.
type Poll struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title            string    `gorm:"type:varchar(250);not null" json:"title"`
	Description      string    `gorm:"type:text" json:"description"`
	UserID           string    `gorm:"type:varchar(64);not null;index" json:"user_id"`
	User             *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Options          []Option  `gorm:"foreignKey:PollID" json:"options,omitempty"`
	NumberOfComments int       `gorm:"not null;default:0" json:"number_of_comments"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Option is one answer of a poll.
type Option struct {
	ID     string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PollID string `gorm:"type:varchar(36);not null;index" json:"poll_id"`
	Title  string `gorm:"type:varchar(250);not null" json:"title"`
	// Votes is not persisted; computed at query time
	Votes int64 `gorm:"-" json:"votes"`
}

// Vote is a user's choice. PollID is denormalized from the option so the
// store can enforce one vote per user per poll.
type Vote struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OptionID  string    `gorm:"type:varchar(36);not null;index" json:"option_id"`
	PollID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_votes_user_poll" json:"poll_id"`
	UserID    string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_votes_user_poll" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PollOptions is the option list with counts plus the caller's choice.
type PollOptions struct {
	Options  []Option `json:"options"`
	MyVoteID *string  `json:"my_vote_option_id"`
}
