package models

import "time"

// Event is a dated happening students can mark interest in.
type Event struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title            string    `gorm:"type:varchar(250);not null" json:"title"`
	Description      string    `gorm:"type:text" json:"description"`
	Location         string    `gorm:"type:varchar(250)" json:"location"`
	From             time.Time `gorm:"column:starts_at;not null;index" json:"from"`
	To               time.Time `gorm:"column:ends_at;not null;index" json:"to"`
	UserID           string    `gorm:"type:varchar(64);not null;index" json:"user_id"`
	User             *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	NumberOfComments int       `gorm:"not null;default:0" json:"number_of_comments"`
	// InterestedCount is not persisted; computed at query time
	InterestedCount int       `gorm:"-" json:"interested_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// InterestedInEvent records that a user follows an event.
type InterestedInEvent struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	EventID   string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_interest_event_user" json:"event_id"`
	UserID    string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_interest_event_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the table name readable.
func (InterestedInEvent) TableName() string {
	return "event_interests"
}

// EventCounts aggregates the child records of one event.
type EventCounts struct {
	Interested   int64 `json:"interested"`
	Comments     int64 `json:"comments"`
	Interactions int64 `json:"interactions"`
}

// EventDetail is an event together with its counts.
type EventDetail struct {
	Event
	Counts EventCounts `json:"counts"`
}

// CalendarEntry is the calendar-widget projection of an event.
type CalendarEntry struct {
	Title    string           `json:"title"`
	Start    time.Time        `json:"start"`
	End      time.Time        `json:"end"`
	Resource CalendarResource `json:"resource"`
}

// CalendarResource links a calendar entry back to its event.
type CalendarResource struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}
