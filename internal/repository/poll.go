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

// PollRepository reads poll options and records votes.
type PollRepository interface {
	Options(ctx context.Context, pollID, userID string) (*models.PollOptions, error)
	Vote(ctx context.Context, pollID, optionID, userID string) (*string, error)
}

type pollRepository struct {
	db *gorm.DB
}

// NewPollRepository creates a new PollRepository
func NewPollRepository(db *gorm.DB) PollRepository {
	return &pollRepository{db: db}
}

// Options lists the poll's options with vote counts and userID's choice.
func (r *pollRepository) Options(ctx context.Context, pollID, userID string) (*models.PollOptions, error) {
	db := readDB(r.db).WithContext(ctx)

	ok, err := rowExists(db, "polls", pollID)
	if err != nil {
		return nil, fmt.Errorf("load poll: %w", err)
	}
	if !ok {
		return nil, notFound("poll", pollID)
	}

	var options []models.Option
	if err := db.Where("poll_id = ?", pollID).Order("id ASC").Find(&options).Error; err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}

	var tallies []struct {
		OptionID string
		Votes    int64
	}
	err = db.Model(&models.Vote{}).
		Select("option_id, COUNT(*) AS votes").
		Where("poll_id = ?", pollID).
		Group("option_id").
		Scan(&tallies).Error
	if err != nil {
		return nil, fmt.Errorf("count votes: %w", err)
	}
	votes := make(map[string]int64, len(tallies))
	for _, t := range tallies {
		votes[t.OptionID] = t.Votes
	}
	for i := range options {
		options[i].Votes = votes[options[i].ID]
	}

	result := &models.PollOptions{Options: options}
	if userID == "" {
		return result, nil
	}
	var mine models.Vote
	err = db.Select("option_id").Where("poll_id = ? AND user_id = ?", pollID, userID).Take(&mine).Error
	switch {
	case err == nil:
		result.MyVoteID = &mine.OptionID
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("load own vote: %w", err)
	}
	return result, nil
}

// Vote toggles userID's vote for optionID and returns the option the user
// has voted for afterwards, or nil.
func (r *pollRepository) Vote(ctx context.Context, pollID, optionID, userID string) (*string, error) {
	var (
		chosen  *string
		outcome string
		err     error
	)
	for attempt := 0; attempt < toggleAttempts; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var n int64
			if err := tx.Model(&models.Option{}).Where("id = ? AND poll_id = ?", optionID, pollID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return notFound("option", optionID)
			}

			var existing models.Vote
			err := database.ForUpdate(tx).Where("poll_id = ? AND user_id = ?", pollID, userID).Take(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				vote := models.Vote{ID: models.NewID(), OptionID: optionID, PollID: pollID, UserID: userID, CreatedAt: models.Now()}
				res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&vote)
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return errToggleConflict
				}
				chosen, outcome = &optionID, observability.ToggleCreated
				return nil
			case err != nil:
				return err
			case existing.OptionID == optionID:
				if err := tx.Delete(&existing).Error; err != nil {
					return err
				}
				chosen, outcome = nil, observability.ToggleRemoved
				return nil
			default:
				if err := tx.Model(&existing).Update("option_id", optionID).Error; err != nil {
					return err
				}
				chosen, outcome = &optionID, observability.ToggleReplaced
				return nil
			}
		})
		if !errors.Is(err, errToggleConflict) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("vote: %w", err)
	}
	observability.RecordToggle("poll_vote", outcome)
	return chosen, nil
}
