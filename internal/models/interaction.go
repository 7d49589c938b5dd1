package models

import "time"

// InteractionModel names what a reaction targets.
type InteractionModel string

const (
	InteractOnPost    InteractionModel = "POST"
	InteractOnOffer   InteractionModel = "OFFER"
	InteractOnEvent   InteractionModel = "EVENT"
	InteractOnPoll    InteractionModel = "POLL"
	InteractOnComment InteractionModel = "COMMENT"
)

// Valid reports whether m accepts reactions.
func (m InteractionModel) Valid() bool {
	switch m {
	case InteractOnPost, InteractOnOffer, InteractOnEvent, InteractOnPoll, InteractOnComment:
		return true
	}
	return false
}

// ReactionType is one of the fixed emoji reactions.
type ReactionType string

const (
	ReactionLike  ReactionType = "LIKE"
	ReactionHaha  ReactionType = "HAHA"
	ReactionSad   ReactionType = "SAD"
	ReactionAngry ReactionType = "ANGRY"
	ReactionLove  ReactionType = "LOVE"
	ReactionWow   ReactionType = "WOW"
)

// ReactionTypes lists reactions in display order.
var ReactionTypes = []ReactionType{
	ReactionLike, ReactionHaha, ReactionSad, ReactionAngry, ReactionLove, ReactionWow,
}

// Valid reports whether r is a known reaction.
func (r ReactionType) Valid() bool {
	for _, known := range ReactionTypes {
		if r == known {
			return true
		}
	}
	return false
}

// Interaction is a user's reaction. TargetID mirrors whichever typed
// foreign key is set and backs the one-reaction-per-target constraint.
type Interaction struct {
	ID        string           `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Model     InteractionModel `gorm:"type:varchar(32);not null;uniqueIndex:idx_interactions_user_target,priority:2" json:"model"`
	Type      ReactionType     `gorm:"type:varchar(16);not null" json:"type"`
	UserID    string           `gorm:"type:varchar(64);not null;uniqueIndex:idx_interactions_user_target,priority:1" json:"user_id"`
	TargetID  string           `gorm:"type:varchar(36);not null;uniqueIndex:idx_interactions_user_target,priority:3;index" json:"target_id"`
	PostID    *string          `gorm:"type:varchar(36)" json:"post_id,omitempty"`
	OfferID   *string          `gorm:"type:varchar(36)" json:"offer_id,omitempty"`
	EventID   *string          `gorm:"type:varchar(36)" json:"event_id,omitempty"`
	PollID    *string          `gorm:"type:varchar(36)" json:"poll_id,omitempty"`
	CommentID *string          `gorm:"type:varchar(36)" json:"comment_id,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// SetTarget points the reaction at modelID through the column matching m.
func (i *Interaction) SetTarget(m InteractionModel, modelID string) {
	i.Model = m
	i.TargetID = modelID
	id := modelID
	switch m {
	case InteractOnPost:
		i.PostID = &id
	case InteractOnOffer:
		i.OfferID = &id
	case InteractOnEvent:
		i.EventID = &id
	case InteractOnPoll:
		i.PollID = &id
	case InteractOnComment:
		i.CommentID = &id
	}
}

// ReactionCount is the tally for one reaction type.
type ReactionCount struct {
	Type  ReactionType `json:"type"`
	Count int64        `json:"count"`
}

// MyReaction is the caller's current reaction.
type MyReaction struct {
	Type ReactionType `json:"type"`
}

// InteractionSummary is returned by interaction reads and toggles.
type InteractionSummary struct {
	Counts        []ReactionCount `json:"counts"`
	HasInteracted *MyReaction     `json:"has_interacted"`
}
