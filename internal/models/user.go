// Package models contains data structures for the application's domain models.
package models

import "time"

// User is the local projection of an identity provider account. Only the
// public fields are serialized.
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name      string    `gorm:"type:varchar(255)" json:"name"`
	Image     string    `gorm:"type:text" json:"image"`
	Email     string    `gorm:"type:varchar(255);index" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// UserPublicColumns selects the fields exposed alongside authored content.
var UserPublicColumns = []string{"id", "name", "image"}
