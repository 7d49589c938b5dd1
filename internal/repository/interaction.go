package repository

import (
	"context"
	"errors"
	"fmt"

	"scholarsync/internal/database"
	"scholarsync/internal/models"
	"scholarsync/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InteractionRepository reads and toggles emoji reactions.
type InteractionRepository interface {
	Summary(ctx context.Context, model models.InteractionModel, targetID, userID string) (*models.InteractionSummary, error)
	Toggle(ctx context.Context, model models.InteractionModel, targetID, userID string, reaction models.ReactionType) (*models.MyReaction, error)
}

type interactionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository creates a new InteractionRepository
func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

// Summary counts every reaction type on the target, zero-filled in display
// order, plus userID's own reaction when userID is set.
func (r *interactionRepository) Summary(ctx context.Context, model models.InteractionModel, targetID, userID string) (*models.InteractionSummary, error) {
	db := readDB(r.db).WithContext(ctx)

	var rows []struct {
		Type  models.ReactionType
		Count int64
	}
	err := db.Model(&models.Interaction{}).
		Select("type, COUNT(*) AS count").
		Where("model = ? AND target_id = ?", model, targetID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count interactions: %w", err)
	}

	byType := make(map[models.ReactionType]int64, len(rows))
	for _, row := range rows {
		byType[row.Type] = row.Count
	}
	summary := &models.InteractionSummary{Counts: make([]models.ReactionCount, 0, len(models.ReactionTypes))}
	for _, t := range models.ReactionTypes {
		summary.Counts = append(summary.Counts, models.ReactionCount{Type: t, Count: byType[t]})
	}

	if userID == "" {
		return summary, nil
	}
	var mine models.Interaction
	err = db.Select("type").
		Where("user_id = ? AND model = ? AND target_id = ?", userID, model, targetID).
		Take(&mine).Error
	switch {
	case err == nil:
		summary.HasInteracted = &models.MyReaction{Type: mine.Type}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("load own interaction: %w", err)
	}
	return summary, nil
}

// Toggle applies a reaction: none inserts it, the same type removes it, a
// different type replaces it. The result is the caller's reaction afterwards.
func (r *interactionRepository) Toggle(ctx context.Context, model models.InteractionModel, targetID, userID string, reaction models.ReactionType) (*models.MyReaction, error) {
	table := interactionTable(model)
	if table == "" {
		return nil, fmt.Errorf("interaction model %q has no table", model)
	}

	var (
		result  *models.MyReaction
		outcome string
		err     error
	)
	for attempt := 0; attempt < toggleAttempts; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			ok, err := rowExists(tx, table, targetID)
			if err != nil {
				return err
			}
			if !ok {
				return notFound(string(model), targetID)
			}

			var existing models.Interaction
			err = database.ForUpdate(tx).
				Where("user_id = ? AND model = ? AND target_id = ?", userID, model, targetID).
				Take(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				row := models.Interaction{ID: models.NewID(), Type: reaction, UserID: userID, CreatedAt: models.Now()}
				row.UpdatedAt = row.CreatedAt
				row.SetTarget(model, targetID)
				res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return errToggleConflict
				}
				result, outcome = &models.MyReaction{Type: reaction}, observability.ToggleCreated
				return nil
			case err != nil:
				return err
			case existing.Type == reaction:
				if err := tx.Delete(&existing).Error; err != nil {
					return err
				}
				result, outcome = nil, observability.ToggleRemoved
				return nil
			default:
				err := tx.Model(&existing).Updates(map[string]any{"type": reaction, "updated_at": models.Now()}).Error
				if err != nil {
					return err
				}
				result, outcome = &models.MyReaction{Type: reaction}, observability.ToggleReplaced
				return nil
			}
		})
		if !errors.Is(err, errToggleConflict) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("toggle interaction: %w", err)
	}
	observability.RecordToggle("interaction", outcome)
	return result, nil
}
