package repository

import (
	"context"
	"errors"
	"fmt"

	"scholarsync/internal/database"
	"scholarsync/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInvalidOrder is returned when a reorder request is not a permutation of
// the note's sections.
var ErrInvalidOrder = errors.New("section order must list every section exactly once")

// NoteUpdate carries the editable fields of a note. A nil Sections leaves the
// sections untouched.
type NoteUpdate struct {
	Title       string
	Description string
	Sections    []models.NoteSection
}

// NoteRepository stores notes with their ordered sections.
type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	Get(ctx context.Context, id string) (*models.Note, error)
	List(ctx context.Context, limit int, cursor string) (*models.NotePage, error)
	ListByUser(ctx context.Context, userID string) ([]models.Note, error)
	Update(ctx context.Context, id, userID string, update NoteUpdate) (*models.Note, error)
	Reorder(ctx context.Context, id, userID string, sectionIDs []string) (*models.Note, error)
	Delete(ctx context.Context, id, userID string) error
}

type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

// Create writes the note, its sections and their quiz answers in one
// transaction. Section indices follow slice order.
func (r *noteRepository) Create(ctx context.Context, note *models.Note) error {
	note.ID = models.NewID()
	note.CreatedAt = models.Now()
	note.UpdatedAt = note.CreatedAt

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(note).Error; err != nil {
			return fmt.Errorf("create note: %w", err)
		}
		return insertSections(tx, note.ID, note.Sections)
	})
}

func insertSections(tx *gorm.DB, noteID string, sections []models.NoteSection) error {
	if len(sections) == 0 {
		return nil
	}
	var answers []models.QuizAnswer
	for i := range sections {
		s := &sections[i]
		s.ID = models.NewID()
		s.NoteID = noteID
		s.Index = i
		for j := range s.QuizAnswers {
			s.QuizAnswers[j].ID = models.NewID()
			s.QuizAnswers[j].SectionID = s.ID
		}
		answers = append(answers, s.QuizAnswers...)
	}
	if err := tx.Omit(clause.Associations).Create(&sections).Error; err != nil {
		return fmt.Errorf("create sections: %w", err)
	}
	if len(answers) > 0 {
		if err := tx.Create(&answers).Error; err != nil {
			return fmt.Errorf("create quiz answers: %w", err)
		}
	}
	return nil
}

func withSections(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User", publicUser).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Sections.QuizAnswers", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		})
}

func (r *noteRepository) Get(ctx context.Context, id string) (*models.Note, error) {
	return r.load(readDB(r.db).WithContext(ctx), id)
}

func (r *noteRepository) load(db *gorm.DB, id string) (*models.Note, error) {
	var note models.Note
	if err := withSections(db).Where("id = ?", id).Take(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// List pages through every note, newest first.
func (r *noteRepository) List(ctx context.Context, limit int, cursor string) (*models.NotePage, error) {
	db := readDB(r.db).WithContext(ctx)

	query, err := newestFirst(db, db.Model(&models.Note{}).Preload("User", publicUser), "notes", cursor)
	if err != nil {
		return nil, err
	}
	var notes []models.Note
	if err := query.Limit(limit + 1).Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	notes, next := splitPage(notes, limit, func(n models.Note) string { return n.ID })
	return &models.NotePage{Items: notes, NextCursor: next}, nil
}

func (r *noteRepository) ListByUser(ctx context.Context, userID string) ([]models.Note, error) {
	var notes []models.Note
	err := readDB(r.db).WithContext(ctx).
		Preload("User", publicUser).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("list user notes: %w", err)
	}
	return notes, nil
}

// owned locks the note when it belongs to userID; anything else is reported
// as not found.
func owned(tx *gorm.DB, id, userID string) (*models.Note, error) {
	var note models.Note
	err := database.ForUpdate(tx).Where("id = ? AND user_id = ?", id, userID).Take(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("note", id)
	}
	return &note, err
}

func (r *noteRepository) Update(ctx context.Context, id, userID string, update NoteUpdate) (*models.Note, error) {
	var result *models.Note
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		note, err := owned(tx, id, userID)
		if err != nil {
			return err
		}
		err = tx.Model(note).Updates(map[string]any{
			"title":       update.Title,
			"description": update.Description,
			"updated_at":  models.Now(),
		}).Error
		if err != nil {
			return err
		}
		if update.Sections != nil {
			if err := deleteSections(tx, id); err != nil {
				return err
			}
			if err := insertSections(tx, id, update.Sections); err != nil {
				return err
			}
		}
		result, err = r.load(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func deleteSections(tx *gorm.DB, noteID string) error {
	sectionIDs := tx.Model(&models.NoteSection{}).Select("id").Where("note_id = ?", noteID)
	if err := tx.Where("section_id IN (?)", sectionIDs).Delete(&models.QuizAnswer{}).Error; err != nil {
		return err
	}
	return tx.Where("note_id = ?", noteID).Delete(&models.NoteSection{}).Error
}

// Reorder assigns indices following sectionIDs, which must be a permutation
// of the note's section ids.
func (r *noteRepository) Reorder(ctx context.Context, id, userID string, sectionIDs []string) (*models.Note, error) {
	var result *models.Note
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := owned(tx, id, userID); err != nil {
			return err
		}

		var existing []string
		if err := tx.Model(&models.NoteSection{}).Where("note_id = ?", id).Pluck("id", &existing).Error; err != nil {
			return err
		}
		if !isPermutation(existing, sectionIDs) {
			return ErrInvalidOrder
		}

		for i, sectionID := range sectionIDs {
			err := tx.Model(&models.NoteSection{}).
				Where("id = ? AND note_id = ?", sectionID, id).
				Update("position", i).Error
			if err != nil {
				return err
			}
		}
		if err := tx.Model(&models.Note{}).Where("id = ?", id).Update("updated_at", models.Now()).Error; err != nil {
			return err
		}

		var err error
		result, err = r.load(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func isPermutation(have, want []string) bool {
	if len(have) != len(want) {
		return false
	}
	seen := make(map[string]bool, len(have))
	for _, id := range have {
		seen[id] = false
	}
	for _, id := range want {
		used, ok := seen[id]
		if !ok || used {
			return false
		}
		seen[id] = true
	}
	return true
}

func (r *noteRepository) Delete(ctx context.Context, id, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		note, err := owned(tx, id, userID)
		if err != nil {
			return err
		}
		if err := deleteSections(tx, id); err != nil {
			return err
		}
		return tx.Delete(note).Error
	})
}
