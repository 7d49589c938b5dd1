package models

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a time-ordered UUIDv7 string, so ascending id order follows
// creation order.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Now returns the current UTC time at microsecond precision, matching what
// PostgreSQL stores.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
