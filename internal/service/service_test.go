package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"scholarsync/internal/cache"
	"scholarsync/internal/models"
	"scholarsync/internal/notifications"
	"scholarsync/internal/validation"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const uploadHost = "utfs.io"

// recordingPublisher keeps every broadcast for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []notifications.Event
}

func (p *recordingPublisher) Broadcast(_ context.Context, evt notifications.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, evt := range p.events {
		out[i] = evt.Type
	}
	return out
}

func (p *recordingPublisher) last() notifications.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

func newValidator() *validation.Validator {
	return validation.New([]string{uploadHost})
}

func newStore(t *testing.T) (*cache.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.NewStore(rdb), mr
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code, appErr.Message)
}

func TestPageLimit(t *testing.T) {
	tests := []struct {
		name  string
		in    int
		want  int
		error bool
	}{
		{"default", 0, DefaultPageLimit, false},
		{"minimum", 1, 1, false},
		{"maximum", 100, 100, false},
		{"too large", 101, 0, true},
		{"negative", -1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pageLimit(tt.in)
			if tt.error {
				assertCode(t, err, models.CodeValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil, "Note", "1"))

	appErr := models.NewUnauthorizedError("nope")
	assert.Same(t, appErr, translate(appErr, "Note", "1"))

	assertCode(t, translate(errors.New("boom"), "Note", "1"), models.CodeInternal)
}

func TestHide(t *testing.T) {
	err := hide(context.Background(), errors.New("disk full"), "Note", "", "Error creating note")
	assertCode(t, err, models.CodeInternal)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Error creating note", appErr.Message)

	err = hide(context.Background(), models.NewNotFoundError("Note", "n1"), "Note", "n1", "Error updating note")
	assertCode(t, err, models.CodeNotFound)
}
