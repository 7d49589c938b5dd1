// Package seed fills a database with realistic demo content for development
// and load testing.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"scholarsync/internal/database"
	"scholarsync/internal/middleware"
	"scholarsync/internal/models"

	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	NumUsers      int
	NumActivities int
	NumNotes      int
	// MaxComments and MaxReactions bound the engagement added per activity.
	MaxComments  int
	MaxReactions int
	// Seed makes runs repeatable; 0 is random.
	Seed        int64
	ShouldClean bool
}

// DefaultOptions returns a small but varied data set.
func DefaultOptions() Options {
	return Options{
		NumUsers:      20,
		NumActivities: 100,
		NumNotes:      15,
		MaxComments:   4,
		MaxReactions:  6,
	}
}

// Summary counts what a run created.
type Summary struct {
	Users      int
	Activities map[models.ActivityType]int
	Comments   int
	Reactions  int
	Votes      int
	Interested int
	Notes      int
}

// Seed populates db according to opts.
func Seed(ctx context.Context, db *gorm.DB, opts Options) (*Summary, error) {
	if opts.NumUsers <= 0 {
		return nil, errors.New("seed needs at least one user")
	}
	log := middleware.Logger.With(slog.String("component", "seed"))
	log.Info("seeding database",
		slog.Int("users", opts.NumUsers),
		slog.Int("activities", opts.NumActivities),
		slog.Int("notes", opts.NumNotes),
	)

	if opts.ShouldClean {
		if err := Clean(ctx, db); err != nil {
			return nil, fmt.Errorf("clean: %w", err)
		}
	}

	f := NewFactory(db, opts.Seed)
	sum := &Summary{Activities: make(map[models.ActivityType]int)}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u, err := f.CreateUser(ctx)
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
	}
	sum.Users = len(users)

	for i := 0; i < opts.NumActivities; i++ {
		kind := models.ActivityTypes[i%len(models.ActivityTypes)]
		author := users[f.faker.Number(0, len(users)-1)]
		item, err := f.CreateActivity(ctx, author.ID, kind)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", kind, err)
		}
		sum.Activities[kind]++

		if err := engage(ctx, f, item, author.ID, users, opts, sum); err != nil {
			return nil, err
		}
	}

	for i := 0; i < opts.NumNotes; i++ {
		author := users[f.faker.Number(0, len(users)-1)]
		if _, err := f.CreateNote(ctx, author.ID); err != nil {
			return nil, fmt.Errorf("create note: %w", err)
		}
		sum.Notes++
	}

	log.Info("seeding complete",
		slog.Int("comments", sum.Comments),
		slog.Int("reactions", sum.Reactions),
		slog.Int("votes", sum.Votes),
	)
	return sum, nil
}

// engage adds comments, reactions, votes and interest to a fresh item.
func engage(ctx context.Context, f *Factory, item *models.FeedItem, authorID string, users []*models.User, opts Options, sum *Summary) error {
	for n := f.faker.Number(0, max(opts.MaxComments, 0)); n > 0; n-- {
		if _, err := f.CreateComment(ctx, item, f.pick(users, authorID).ID); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		sum.Comments++
	}

	// Each user reacts at most once so toggles never cancel out.
	reactors := f.faker.Number(0, min(max(opts.MaxReactions, 0), len(users)))
	for _, u := range users[:reactors] {
		if err := f.React(ctx, item, u.ID); err != nil {
			return fmt.Errorf("react: %w", err)
		}
		if models.InteractionModel(item.Type).Valid() {
			sum.Reactions++
		}
	}

	switch {
	case item.Poll != nil:
		for _, u := range users[:reactors] {
			if err := f.Vote(ctx, item.Poll, u.ID); err != nil {
				return fmt.Errorf("vote: %w", err)
			}
			sum.Votes++
		}
	case item.Event != nil:
		for _, u := range users[:reactors] {
			if err := f.MarkInterested(ctx, item.ID, u.ID); err != nil {
				return fmt.Errorf("interest: %w", err)
			}
			sum.Interested++
		}
	}
	return nil
}

// Clean deletes every row owned by the application, children first.
func Clean(ctx context.Context, db *gorm.DB) error {
	middleware.Logger.Info("clearing existing data")
	all := database.PersistentModels()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := len(all) - 1; i >= 0; i-- {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(all[i]).Error; err != nil {
				return fmt.Errorf("clear %T: %w", all[i], err)
			}
		}
		return nil
	})
}
