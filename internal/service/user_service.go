package service

import (
	"context"

	"scholarsync/internal/cache"
	"scholarsync/internal/middleware"
	"scholarsync/internal/models"
	"scholarsync/internal/repository"
)

// UserService mirrors identities from the identity provider into the users
// table so authored rows can reference them.
type UserService struct {
	users repository.UserRepository
	cache *cache.Store
}

func NewUserService(users repository.UserRepository, store *cache.Store) *UserService {
	return &UserService{users: users, cache: store}
}

// EnsureUser upserts the session's profile at most once per
// cache.UserSeenTTL when Redis is available, and on every call otherwise.
func (s *UserService) EnsureUser(ctx context.Context, session middleware.Session) error {
	if session.UserID == "" {
		return models.NewUnauthorizedError("Missing user")
	}
	if !s.cache.MarkOnce(ctx, cache.UserSeenKey(session.UserID), cache.UserSeenTTL) {
		return nil
	}
	err := s.users.Upsert(ctx, &models.User{
		ID:    session.UserID,
		Name:  session.Name,
		Image: session.Image,
		Email: session.Email,
	})
	if err != nil {
		s.cache.Invalidate(ctx, cache.UserSeenKey(session.UserID))
		return translate(err, "User", session.UserID)
	}
	return nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "User", id)
	}
	return user, nil
}
