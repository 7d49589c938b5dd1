package service

import (
	"context"
	"fmt"

	"scholarsync/internal/featureflags"
	"scholarsync/internal/models"
	"scholarsync/internal/repository"
	"scholarsync/internal/validation"
)

type NoteService struct {
	notes     repository.NoteRepository
	flags     *featureflags.Manager
	validator *validation.Validator
}

func NewNoteService(notes repository.NoteRepository, flags *featureflags.Manager, validator *validation.Validator) *NoteService {
	return &NoteService{notes: notes, flags: flags, validator: validator}
}

// checkQuizzes applies the quiz_require_correct flag.
func (s *NoteService) checkQuizzes(userID string, sections []models.NoteSectionPayload) error {
	if !s.flags.Enabled(featureflags.QuizRequireCorrect, userID) {
		return nil
	}
	for i, section := range sections {
		if section.Type == models.SectionQuiz && !validation.HasCorrectAnswer(section) {
			return models.NewValidationError(fmt.Sprintf("sections[%d] must mark at least one correct answer", i))
		}
	}
	return nil
}

// toSections converts payloads in order. Client indices are discarded; the
// repository numbers sections by position.
func toSections(payloads []models.NoteSectionPayload) []models.NoteSection {
	sections := make([]models.NoteSection, len(payloads))
	for i, p := range payloads {
		sections[i] = models.NoteSection{
			Type:     p.Type,
			Subtitle: p.Subtitle,
			Content:  p.Content,
			File:     p.File,
		}
		for _, a := range p.QuizAnswers {
			sections[i].QuizAnswers = append(sections[i].QuizAnswers, models.QuizAnswer{Answer: a.Answer, IsCorrect: a.IsCorrect})
		}
	}
	return sections
}

func (s *NoteService) Create(ctx context.Context, userID string, req models.NotePayload) (*models.Note, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err)
	}
	if err := s.checkQuizzes(userID, req.Sections); err != nil {
		return nil, err
	}

	note := &models.Note{
		Title:       req.Title,
		Description: req.Description,
		UserID:      userID,
		Sections:    toSections(req.Sections),
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, hide(ctx, err, "Note", "", "Error creating note")
	}
	return note, nil
}

func (s *NoteService) Get(ctx context.Context, id string) (*models.Note, error) {
	note, err := s.notes.Get(ctx, id)
	if err != nil {
		return nil, translate(err, "Note", id)
	}
	return note, nil
}

func (s *NoteService) List(ctx context.Context, limit int, cursor string) (*models.NotePage, error) {
	limit, err := pageLimit(limit)
	if err != nil {
		return nil, err
	}
	page, err := s.notes.List(ctx, limit, cursor)
	if err != nil {
		return nil, translate(err, "Note", cursor)
	}
	return page, nil
}

// Mine lists the caller's notes, newest first.
func (s *NoteService) Mine(ctx context.Context, userID string) ([]models.Note, error) {
	notes, err := s.notes.ListByUser(ctx, userID)
	if err != nil {
		return nil, translate(err, "Note", "")
	}
	return notes, nil
}

// Update edits an owned note. Sections are replaced only when the request
// carries them.
func (s *NoteService) Update(ctx context.Context, id, userID string, req models.UpdateNoteRequest) (*models.Note, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err)
	}
	if req.Sections != nil && len(req.Sections) == 0 {
		return nil, models.NewValidationError("sections must contain at least 1 entries")
	}
	if err := s.checkQuizzes(userID, req.Sections); err != nil {
		return nil, err
	}

	update := repository.NoteUpdate{Title: req.Title, Description: req.Description}
	if req.Sections != nil {
		update.Sections = toSections(req.Sections)
	}
	note, err := s.notes.Update(ctx, id, userID, update)
	if err != nil {
		return nil, hide(ctx, err, "Note", id, "Error updating note")
	}
	return note, nil
}

// Reorder renumbers an owned note's sections to follow req.SectionIDs.
func (s *NoteService) Reorder(ctx context.Context, id, userID string, req models.ReorderSectionsRequest) (*models.Note, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err)
	}
	note, err := s.notes.Reorder(ctx, id, userID, req.SectionIDs)
	if err != nil {
		return nil, hide(ctx, err, "Note", id, "Error updating note")
	}
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, id, userID string) error {
	if err := s.notes.Delete(ctx, id, userID); err != nil {
		return hide(ctx, err, "Note", id, "Error deleting note")
	}
	return nil
}
