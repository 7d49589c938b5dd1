package models

import "time"

// OfferCondition describes the state of a listed item.
type OfferCondition string

const (
	ConditionNew     OfferCondition = "NEW"
	ConditionUsed    OfferCondition = "USED"
	ConditionUnknown OfferCondition = "UNKNOWN"
)

// Valid reports whether c is a known condition.
func (c OfferCondition) Valid() bool {
	return c == ConditionNew || c == ConditionUsed || c == ConditionUnknown
}

// Offer is a marketplace listing.
type Offer struct {
	ID               string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title            string         `gorm:"type:varchar(250);not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	Price            float64        `gorm:"type:numeric(10,2);not null" json:"price"`
	Condition        OfferCondition `gorm:"type:varchar(16);not null;default:UNKNOWN" json:"condition"`
	Image            string         `gorm:"type:text" json:"image"`
	Category         string         `gorm:"type:varchar(100);index" json:"category"`
	UserID           string         `gorm:"type:varchar(64);not null;index" json:"user_id"`
	User             *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	NumberOfComments int            `gorm:"not null;default:0" json:"number_of_comments"`
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// OfferFilter narrows offer listings. Zero values mean "no constraint".
type OfferFilter struct {
	Title     string
	Category  string
	Condition OfferCondition
	MinPrice  *float64
	MaxPrice  *float64
}

// OfferPage is a cursor-paginated slice of offers.
type OfferPage struct {
	Items      []Offer `json:"items"`
	NextCursor string  `json:"next_cursor,omitempty"`
}
