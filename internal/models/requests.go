package models

import "time"

// PostPayload is the body of a new post.
type PostPayload struct {
	Title   string `json:"title" validate:"required,max=250"`
	Content string `json:"content" validate:"required,max=5000"`
}

// OfferPayload is the body of a new marketplace offer.
type OfferPayload struct {
	Title       string         `json:"title" validate:"required,max=250"`
	Description string         `json:"description" validate:"max=5000"`
	Price       float64        `json:"price" validate:"gte=0,lt=100000000"`
	Condition   OfferCondition `json:"condition" validate:"required,oneof=NEW USED UNKNOWN"`
	Image       string         `json:"image" validate:"required,upload_url"`
	Category    string         `json:"category" validate:"required,max=100"`
}

// EventPayload is the body of a new event.
type EventPayload struct {
	Title       string    `json:"title" validate:"required,max=250"`
	Description string    `json:"description" validate:"max=5000"`
	Location    string    `json:"location" validate:"max=250"`
	From        time.Time `json:"from" validate:"required"`
	To          time.Time `json:"to" validate:"required,gtfield=From"`
}

// PollPayload is the body of a new poll.
type PollPayload struct {
	Title       string   `json:"title" validate:"required,max=250"`
	Description string   `json:"description" validate:"max=5000"`
	Options     []string `json:"options" validate:"required,min=2,max=10,dive,required,max=250"`
}

// RadioSubmissionPayload is the body of a new radio submission.
type RadioSubmissionPayload struct {
	Title   string `json:"title" validate:"required,max=250"`
	Content string `json:"content" validate:"max=5000"`
	Link    string `json:"link" validate:"required,web_url"`
}

// CreateActivityRequest carries the payload matching Type; the others are
// ignored.
type CreateActivityRequest struct {
	Type            ActivityType            `json:"type" validate:"required,oneof=POST OFFER EVENT POLL RADIO_SUBMISSION"`
	Post            *PostPayload            `json:"post"`
	Offer           *OfferPayload           `json:"offer"`
	Event           *EventPayload           `json:"event"`
	Poll            *PollPayload            `json:"poll"`
	RadioSubmission *RadioSubmissionPayload `json:"radio_submission"`
}

// CreateCommentRequest is the body of POST /api/comments.
type CreateCommentRequest struct {
	Model   CommentModel `json:"model" validate:"required,oneof=POST OFFER EVENT POLL RADIO_SUBMISSION"`
	ModelID string       `json:"model_id" validate:"required,max=64"`
	Content string       `json:"content" validate:"required,max=5000"`
}

// InteractRequest is the body of POST /api/interactions/:model/:modelId.
type InteractRequest struct {
	Type ReactionType `json:"type" validate:"required,oneof=LIKE HAHA SAD ANGRY LOVE WOW"`
}

// VoteRequest is the body of POST /api/polls/:id/votes.
type VoteRequest struct {
	OptionID string `json:"option_id" validate:"required,max=64"`
}

// QuizAnswerPayload is one candidate answer of a quiz section.
type QuizAnswerPayload struct {
	Answer    string `json:"answer" validate:"required,max=250"`
	IsCorrect bool   `json:"is_correct"`
}

// NoteSectionPayload is one section of a note as sent by clients. Index is
// accepted for compatibility and ignored.
type NoteSectionPayload struct {
	Type        SectionType         `json:"type" validate:"required,oneof=TEXT IMAGE VIDEO AUDIO FILE QUIZ"`
	Index       int                 `json:"index" validate:"gte=0,lte=24"`
	Subtitle    string              `json:"subtitle" validate:"max=250"`
	Content     string              `json:"content" validate:"max=5000"`
	File        string              `json:"file"`
	QuizAnswers []QuizAnswerPayload `json:"quiz_answers" validate:"dive"`
}

// NotePayload is the body of POST /api/notes.
type NotePayload struct {
	Title       string               `json:"title" validate:"required,max=250"`
	Description string               `json:"description" validate:"max=500"`
	Sections    []NoteSectionPayload `json:"sections" validate:"required,min=1,max=25,dive"`
}

// UpdateNoteRequest is the body of PUT /api/notes/:id. A missing sections
// key keeps the current sections.
type UpdateNoteRequest struct {
	Title       string               `json:"title" validate:"required,max=250"`
	Description string               `json:"description" validate:"max=500"`
	Sections    []NoteSectionPayload `json:"sections" validate:"omitempty,max=25,dive"`
}

// ReorderSectionsRequest is the body of PUT /api/notes/:id/sections/order.
type ReorderSectionsRequest struct {
	SectionIDs []string `json:"section_ids" validate:"required,min=1,max=25,dive,required"`
}
