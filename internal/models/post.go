package models

import "time"

// Post is a plain text activity.
type Post struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title            string    `gorm:"type:varchar(250);not null" json:"title"`
	Content          string    `gorm:"type:text;not null" json:"content"`
	UserID           string    `gorm:"type:varchar(64);not null;index" json:"user_id"`
	User             *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	NumberOfComments int       `gorm:"not null;default:0" json:"number_of_comments"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// RadioSubmission proposes a track for the student radio.
type RadioSubmission struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title            string    `gorm:"type:varchar(250);not null" json:"title"`
	Content          string    `gorm:"type:text" json:"content"`
	Link             string    `gorm:"type:text;not null" json:"link"`
	UserID           string    `gorm:"type:varchar(64);not null;index" json:"user_id"`
	User             *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	NumberOfComments int       `gorm:"not null;default:0" json:"number_of_comments"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
