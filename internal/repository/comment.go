package repository

import (
	"context"
	"fmt"

	"scholarsync/internal/models"

	"gorm.io/gorm"
)

// CommentQuery selects one page of comments on an activity.
type CommentQuery struct {
	Model   models.CommentModel
	ModelID string
	Limit   int
	Cursor  string
}

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	List(ctx context.Context, q CommentQuery) (*models.CommentPage, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment and bumps the parent's comment counter in the
// same transaction. A missing parent yields gorm.ErrRecordNotFound.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	table, ok := activityTables[models.ActivityType(comment.Model)]
	if !ok {
		return fmt.Errorf("comment model %q has no table", comment.Model)
	}
	parentID := commentTarget(comment)

	comment.ID = models.NewID()
	comment.CreatedAt = models.Now()
	comment.UpdatedAt = comment.CreatedAt

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec("UPDATE "+table+" SET number_of_comments = number_of_comments + 1 WHERE id = ?", parentID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(string(comment.Model), parentID)
		}
		return tx.Omit("User").Create(comment).Error
	})
}

func commentTarget(c *models.Comment) string {
	for _, id := range []*string{c.PostID, c.OfferID, c.EventID, c.PollID, c.RadioSubmissionID} {
		if id != nil {
			return *id
		}
	}
	return ""
}

// List returns comments oldest first. The cursor is the id of the first
// comment of the page and is included.
func (r *commentRepository) List(ctx context.Context, q CommentQuery) (*models.CommentPage, error) {
	column, ok := commentColumns[q.Model]
	if !ok {
		return nil, fmt.Errorf("comment model %q has no column", q.Model)
	}

	query := readDB(r.db).WithContext(ctx).
		Preload("User", publicUser).
		Where(column+" = ?", q.ModelID)
	if q.Cursor != "" {
		query = query.Where("id >= ?", q.Cursor)
	}

	var comments []models.Comment
	if err := query.Order("id ASC").Limit(q.Limit + 1).Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	comments, next := splitPage(comments, q.Limit, func(c models.Comment) string { return c.ID })
	return &models.CommentPage{Items: comments, NextCursor: next}, nil
}
