package models

import "time"

// SectionType is the kind of content a note section holds.
type SectionType string

const (
	SectionText  SectionType = "TEXT"
	SectionImage SectionType = "IMAGE"
	SectionVideo SectionType = "VIDEO"
	SectionAudio SectionType = "AUDIO"
	SectionFile  SectionType = "FILE"
	SectionQuiz  SectionType = "QUIZ"
)

// Valid reports whether t is a known section type.
func (t SectionType) Valid() bool {
	switch t {
	case SectionText, SectionImage, SectionVideo, SectionAudio, SectionFile, SectionQuiz:
		return true
	}
	return false
}

// HasFile reports whether sections of this type reference an uploaded file.
func (t SectionType) HasFile() bool {
	switch t {
	case SectionImage, SectionVideo, SectionAudio, SectionFile:
		return true
	}
	return false
}

// Note is an authored study document.
type Note struct {
	ID          string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title       string        `gorm:"type:varchar(250);not null" json:"title"`
	Description string        `gorm:"type:varchar(500)" json:"description"`
	UserID      string        `gorm:"type:varchar(64);not null;index" json:"user_id"`
	User        *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Sections    []NoteSection `gorm:"foreignKey:NoteID" json:"sections,omitempty"`
	CreatedAt   time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NoteSection is one ordered block of a note. Index is contiguous from 0.
type NoteSection struct {
	ID          string       `gorm:"primaryKey;type:varchar(36)" json:"id"`
	NoteID      string       `gorm:"type:varchar(36);not null;index:idx_note_sections_order,priority:1" json:"note_id"`
	Type        SectionType  `gorm:"type:varchar(16);not null" json:"type"`
	Index       int          `gorm:"column:position;not null;index:idx_note_sections_order,priority:2" json:"index"`
	Subtitle    string       `gorm:"type:varchar(250)" json:"subtitle"`
	Content     string       `gorm:"type:text" json:"content"`
	File        string       `gorm:"type:text" json:"file,omitempty"`
	QuizAnswers []QuizAnswer `gorm:"foreignKey:SectionID" json:"quiz_answers,omitempty"`
}

// QuizAnswer is one candidate answer of a quiz section.
type QuizAnswer struct {
	ID        string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SectionID string `gorm:"type:varchar(36);not null;index" json:"section_id"`
	Answer    string `gorm:"type:varchar(250);not null" json:"answer"`
	IsCorrect bool   `gorm:"not null;default:false" json:"is_correct"`
}

// NotePage is a cursor-paginated slice of notes.
type NotePage struct {
	Items      []Note `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}
