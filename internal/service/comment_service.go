package service

import (
	"context"
	"strings"

	"scholarsync/internal/cache"
	"scholarsync/internal/models"
	"scholarsync/internal/notifications"
	"scholarsync/internal/repository"
	"scholarsync/internal/validation"
)

type CommentService struct {
	comments  repository.CommentRepository
	cache     *cache.Store
	events    notifications.Publisher
	validator *validation.Validator
}

func NewCommentService(
	comments repository.CommentRepository,
	store *cache.Store,
	events notifications.Publisher,
	validator *validation.Validator,
) *CommentService {
	return &CommentService{comments: comments, cache: store, events: events, validator: validator}
}

// ListCommentsInput selects one page of comments on an activity.
type ListCommentsInput struct {
	Model   models.CommentModel
	ModelID string
	Limit   int
	Cursor  string
}

func (s *CommentService) List(ctx context.Context, in ListCommentsInput) (*models.CommentPage, error) {
	limit, err := pageLimit(in.Limit)
	if err != nil {
		return nil, err
	}
	in.Model = models.CommentModel(strings.ToUpper(string(in.Model)))
	if !in.Model.Valid() {
		return nil, models.NewValidationError("Invalid comment model")
	}
	if in.ModelID == "" {
		return nil, models.NewValidationError("modelId is required")
	}

	page, err := s.comments.List(ctx, repository.CommentQuery{
		Model:   in.Model,
		ModelID: in.ModelID,
		Limit:   limit,
		Cursor:  in.Cursor,
	})
	if err != nil {
		return nil, translate(err, "Comment", in.Cursor)
	}
	return page, nil
}

// Create adds a comment and bumps the target's comment counter.
func (s *CommentService) Create(ctx context.Context, userID string, req models.CreateCommentRequest) (*models.Comment, error) {
	req.Model = models.CommentModel(strings.ToUpper(string(req.Model)))
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err)
	}

	comment := &models.Comment{Content: req.Content, UserID: userID}
	comment.SetTarget(req.Model, req.ModelID)
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, translate(err, string(req.Model), req.ModelID)
	}

	touchActivity(ctx, s.cache, req.ModelID)
	s.events.Broadcast(ctx, notifications.Event{
		Type: notifications.EventCommentCreated,
		Payload: map[string]any{
			"id":       comment.ID,
			"model":    req.Model,
			"model_id": req.ModelID,
			"user_id":  userID,
		},
	})
	return comment, nil
}
