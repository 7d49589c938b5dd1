// Package service holds the application logic between HTTP handlers and
// repositories: validation, caching, realtime events and error mapping.
package service

import (
	"context"
	"errors"
	"log/slog"

	"scholarsync/internal/middleware"
	"scholarsync/internal/models"
	"scholarsync/internal/repository"
	"scholarsync/internal/validation"

	"gorm.io/gorm"
)

// Paging bounds shared by every listing.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

func pageLimit(limit int) (int, error) {
	if limit == 0 {
		return DefaultPageLimit, nil
	}
	if limit < 1 || limit > MaxPageLimit {
		return 0, models.NewValidationError("limit must be between 1 and 100")
	}
	return limit, nil
}

// invalid turns a payload validation failure into a VALIDATION_ERROR.
func invalid(err error) error {
	var fe *validation.FieldError
	if errors.As(err, &fe) {
		return models.NewValidationError(fe.Error())
	}
	return models.NewValidationError("Invalid request payload")
}

// translate maps repository errors onto AppErrors. resource and id name the
// entity for NOT_FOUND messages.
func translate(err error, resource, id string) error {
	var appErr *models.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError(resource, id)
	case errors.Is(err, repository.ErrInvalidCursor):
		return models.NewValidationError("Invalid cursor")
	case errors.Is(err, repository.ErrInvalidOrder):
		return models.NewValidationError(repository.ErrInvalidOrder.Error())
	}
	return models.NewInternalError(err)
}

// hide logs an unexpected failure and replaces it with a generic message.
// Known errors pass through translate unchanged.
func hide(ctx context.Context, err error, resource, id, message string) error {
	mapped := translate(err, resource, id)
	var appErr *models.AppError
	if errors.As(mapped, &appErr) && appErr.Code != models.CodeInternal {
		return mapped
	}
	middleware.Logger.ErrorContext(ctx, message, slog.String("error", err.Error()))
	return models.NewOperationError(message, err)
}
