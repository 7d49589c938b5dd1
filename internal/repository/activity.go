package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"scholarsync/internal/database"
	"scholarsync/internal/middleware"
	"scholarsync/internal/models"
	"scholarsync/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FeedQuery selects one page of the feed.
type FeedQuery struct {
	Limit   int
	Cursor  string
	Exclude string
	Type    models.ActivityType
}

// ActivityRepository stores feed activities: the pointer rows and the
// type-specific rows behind them.
type ActivityRepository interface {
	List(ctx context.Context, q FeedQuery) (*models.FeedPage, error)
	Get(ctx context.Context, id string) (*models.FeedItem, error)
	Create(ctx context.Context, item *models.FeedItem) error
	Remove(ctx context.Context, id, userID string) (models.ActivityType, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) List(ctx context.Context, q FeedQuery) (*models.FeedPage, error) {
	db := readDB(r.db).WithContext(ctx)

	query := db.Model(&models.Activity{})
	if q.Type != "" {
		query = query.Where("type = ?", q.Type)
	}
	if q.Exclude != "" {
		query = query.Where("id <> ?", q.Exclude)
	}
	query, err := newestFirst(db, query, "activities", q.Cursor)
	if err != nil {
		return nil, err
	}

	var pointers []models.Activity
	if err := query.Limit(q.Limit + 1).Find(&pointers).Error; err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	pointers, next := splitPage(pointers, q.Limit, func(a models.Activity) string { return a.ID })

	items, err := r.hydrate(ctx, pointers)
	if err != nil {
		return nil, err
	}
	return &models.FeedPage{Items: items, NextCursor: next}, nil
}

func (r *activityRepository) Get(ctx context.Context, id string) (*models.FeedItem, error) {
	var ptr models.Activity
	if err := readDB(r.db).WithContext(ctx).Where("id = ?", id).Take(&ptr).Error; err != nil {
		return nil, err
	}
	items, err := r.hydrate(ctx, []models.Activity{ptr})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, notFound("activity", id)
	}
	return &items[0], nil
}

// typeRows holds the type-specific rows of one page, keyed by id.
type typeRows struct {
	posts    map[string]*models.Post
	offers   map[string]*models.Offer
	events   map[string]*models.Event
	polls    map[string]*models.Poll
	radio    map[string]*models.RadioSubmission
	pointers map[models.ActivityType][]string
}

// hydrate loads the type rows for a page of pointers, one batched query per
// type, concurrently. Any failure fails the page. Pointers whose row is
// missing are dropped.
func (r *activityRepository) hydrate(ctx context.Context, pointers []models.Activity) (items []models.FeedItem, err error) {
	if len(pointers) == 0 {
		return []models.FeedItem{}, nil
	}

	ctx, end := observability.StartSpan(ctx, "feed.hydrate", attribute.Int("feed.pointers", len(pointers)))
	done := observability.TrackFanout()
	defer func() {
		done(err)
		end(err)
	}()

	rows := typeRows{pointers: make(map[models.ActivityType][]string)}
	for _, p := range pointers {
		rows.pointers[p.Type] = append(rows.pointers[p.Type], p.ID)
	}

	base := readDB(r.db)
	g, gctx := errgroup.WithContext(ctx)
	if ids := rows.pointers[models.ActivityPost]; len(ids) > 0 {
		g.Go(func() error {
			var err error
			rows.posts, err = loadByID[models.Post](base.WithContext(gctx), ids, func(p *models.Post) string { return p.ID })
			return err
		})
	}
	if ids := rows.pointers[models.ActivityOffer]; len(ids) > 0 {
		g.Go(func() error {
			var err error
			rows.offers, err = loadByID[models.Offer](base.WithContext(gctx), ids, func(o *models.Offer) string { return o.ID })
			return err
		})
	}
	if ids := rows.pointers[models.ActivityEvent]; len(ids) > 0 {
		g.Go(func() error {
			var err error
			rows.events, err = loadEvents(base.WithContext(gctx), ids)
			return err
		})
	}
	if ids := rows.pointers[models.ActivityPoll]; len(ids) > 0 {
		g.Go(func() error {
			var err error
			rows.polls, err = loadByID[models.Poll](base.WithContext(gctx).Preload("Options", func(db *gorm.DB) *gorm.DB {
				return db.Order("id ASC")
			}), ids, func(p *models.Poll) string { return p.ID })
			return err
		})
	}
	if ids := rows.pointers[models.ActivityRadioSubmission]; len(ids) > 0 {
		g.Go(func() error {
			var err error
			rows.radio, err = loadByID[models.RadioSubmission](base.WithContext(gctx), ids, func(s *models.RadioSubmission) string { return s.ID })
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load feed rows: %w", err)
	}

	items = make([]models.FeedItem, 0, len(pointers))
	for _, p := range pointers {
		item, ok := rows.item(p)
		if !ok {
			observability.FeedOrphans.WithLabelValues(string(p.Type)).Inc()
			middleware.Logger.WarnContext(ctx, "activity pointer without type row",
				slog.String("activity_id", p.ID), slog.String("type", string(p.Type)))
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func loadByID[T any](db *gorm.DB, ids []string, id func(*T) string) (map[string]*T, error) {
	var found []*T
	if err := db.Preload("User", publicUser).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	out := make(map[string]*T, len(found))
	for _, row := range found {
		out[id(row)] = row
	}
	return out, nil
}

func loadEvents(db *gorm.DB, ids []string) (map[string]*models.Event, error) {
	events, err := loadByID[models.Event](db, ids, func(e *models.Event) string { return e.ID })
	if err != nil {
		return nil, err
	}

	var counts []struct {
		EventID string
		N       int
	}
	err = db.Model(&models.InterestedInEvent{}).
		Select("event_id, COUNT(*) AS n").
		Where("event_id IN ?", ids).
		Group("event_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		if e, ok := events[c.EventID]; ok {
			e.InterestedCount = c.N
		}
	}
	return events, nil
}

func (rows typeRows) item(p models.Activity) (models.FeedItem, bool) {
	item := models.FeedItem{ID: p.ID, Type: p.Type, CreatedAt: p.CreatedAt}
	switch p.Type {
	case models.ActivityPost:
		row, ok := rows.posts[p.ID]
		if !ok {
			return item, false
		}
		item.Author, row.User = row.User, nil
		item.NumberOfComments = row.NumberOfComments
		item.Post = row
	case models.ActivityOffer:
		row, ok := rows.offers[p.ID]
		if !ok {
			return item, false
		}
		item.Author, row.User = row.User, nil
		item.NumberOfComments = row.NumberOfComments
		item.Offer = row
	case models.ActivityEvent:
		row, ok := rows.events[p.ID]
		if !ok {
			return item, false
		}
		item.Author, row.User = row.User, nil
		item.NumberOfComments = row.NumberOfComments
		item.Event = row
	case models.ActivityPoll:
		row, ok := rows.polls[p.ID]
		if !ok {
			return item, false
		}
		item.Author, row.User = row.User, nil
		item.NumberOfComments = row.NumberOfComments
		item.Poll = row
	case models.ActivityRadioSubmission:
		row, ok := rows.radio[p.ID]
		if !ok {
			return item, false
		}
		item.Author, row.User = row.User, nil
		item.NumberOfComments = row.NumberOfComments
		item.RadioSubmission = row
	default:
		return item, false
	}
	return item, true
}

// Create writes the pointer and the type row (and poll options) in one
// transaction. It assigns the shared ID and creation time to item.
func (r *activityRepository) Create(ctx context.Context, item *models.FeedItem) error {
	item.ID = models.NewID()
	item.CreatedAt = models.Now()

	row, err := prepareTypeRow(item)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ptr := models.Activity{ID: item.ID, Type: item.Type, CreatedAt: item.CreatedAt}
		if err := tx.Create(&ptr).Error; err != nil {
			return fmt.Errorf("create activity: %w", err)
		}
		if err := tx.Omit(clause.Associations).Create(row).Error; err != nil {
			return fmt.Errorf("create %s: %w", item.Type, err)
		}
		if item.Poll != nil && len(item.Poll.Options) > 0 {
			if err := tx.Create(&item.Poll.Options).Error; err != nil {
				return fmt.Errorf("create poll options: %w", err)
			}
		}
		return nil
	})
}

func prepareTypeRow(item *models.FeedItem) (any, error) {
	switch item.Type {
	case models.ActivityPost:
		if item.Post == nil {
			break
		}
		item.Post.ID, item.Post.CreatedAt = item.ID, item.CreatedAt
		return item.Post, nil
	case models.ActivityOffer:
		if item.Offer == nil {
			break
		}
		item.Offer.ID, item.Offer.CreatedAt = item.ID, item.CreatedAt
		return item.Offer, nil
	case models.ActivityEvent:
		if item.Event == nil {
			break
		}
		item.Event.ID, item.Event.CreatedAt = item.ID, item.CreatedAt
		return item.Event, nil
	case models.ActivityPoll:
		if item.Poll == nil {
			break
		}
		item.Poll.ID, item.Poll.CreatedAt = item.ID, item.CreatedAt
		for i := range item.Poll.Options {
			item.Poll.Options[i].ID = models.NewID()
			item.Poll.Options[i].PollID = item.ID
		}
		return item.Poll, nil
	case models.ActivityRadioSubmission:
		if item.RadioSubmission == nil {
			break
		}
		item.RadioSubmission.ID, item.RadioSubmission.CreatedAt = item.ID, item.CreatedAt
		return item.RadioSubmission, nil
	}
	return nil, fmt.Errorf("activity %q has no matching payload", item.Type)
}

// Remove deletes an activity owned by userID together with everything
// attached to it. Someone else's activity is reported as not found.
func (r *activityRepository) Remove(ctx context.Context, id, userID string) (models.ActivityType, error) {
	var removed models.ActivityType
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ptr models.Activity
		if err := database.ForUpdate(tx).Where("id = ?", id).Take(&ptr).Error; err != nil {
			return err
		}
		table, ok := activityTables[ptr.Type]
		if !ok {
			return notFound("activity", id)
		}

		var owned int64
		if err := tx.Table(table).Where("id = ? AND user_id = ?", id, userID).Count(&owned).Error; err != nil {
			return err
		}
		if owned == 0 {
			return notFound("activity", id)
		}

		if err := deleteActivityChildren(tx, ptr); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM "+table+" WHERE id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&ptr).Error; err != nil {
			return err
		}
		removed = ptr.Type
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", notFound("activity", id)
		}
		return "", fmt.Errorf("remove activity: %w", err)
	}
	return removed, nil
}

// deleteActivityChildren removes rows that reference the activity. The SQL
// schema cascades these too; doing it here keeps SQLite consistent.
func deleteActivityChildren(tx *gorm.DB, ptr models.Activity) error {
	column := commentColumns[models.CommentModel(ptr.Type)]
	commentIDs := tx.Model(&models.Comment{}).Select("id").Where(column+" = ?", ptr.ID)

	steps := []*gorm.DB{
		tx.Where("model = ? AND target_id IN (?)", models.InteractOnComment, commentIDs).Delete(&models.Interaction{}),
		tx.Where(column+" = ?", ptr.ID).Delete(&models.Comment{}),
	}
	if models.InteractionModel(ptr.Type).Valid() {
		steps = append(steps, tx.Where("model = ? AND target_id = ?", ptr.Type, ptr.ID).Delete(&models.Interaction{}))
	}
	switch ptr.Type {
	case models.ActivityEvent:
		steps = append(steps, tx.Where("event_id = ?", ptr.ID).Delete(&models.InterestedInEvent{}))
	case models.ActivityPoll:
		steps = append(steps,
			tx.Where("poll_id = ?", ptr.ID).Delete(&models.Vote{}),
			tx.Where("poll_id = ?", ptr.ID).Delete(&models.Option{}),
		)
	}
	for _, step := range steps {
		if step.Error != nil {
			return step.Error
		}
	}
	return nil
}
