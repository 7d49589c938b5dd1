package seed

import (
	"context"
	"fmt"
	"time"

	"scholarsync/internal/models"
	"scholarsync/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

var (
	offerCategories = []string{"Books", "Electronics", "Furniture", "Clothing", "Bikes", "Kitchen", "Tickets"}
	eventPlaces     = []string{"Main Library", "Student Union", "Room B-204", "Sports Hall", "Cafeteria", "Online"}
	pollSubjects    = []string{"exam week snacks", "the next study group topic", "where to hold the party", "best lecture this term"}
)

// Factory builds domain entities and persists them through the repositories,
// so seeded rows satisfy the same invariants as API writes.
type Factory struct {
	faker *gofakeit.Faker

	users        repository.UserRepository
	activities   repository.ActivityRepository
	comments     repository.CommentRepository
	interactions repository.InteractionRepository
	polls        repository.PollRepository
	events       repository.EventRepository
	notes        repository.NoteRepository
}

// NewFactory creates a Factory bound to db. A fixed seed makes generated
// content repeatable; 0 picks a random one.
func NewFactory(db *gorm.DB, seed int64) *Factory {
	return &Factory{
		faker:        gofakeit.New(seed),
		users:        repository.NewUserRepository(db),
		activities:   repository.NewActivityRepository(db),
		comments:     repository.NewCommentRepository(db),
		interactions: repository.NewInteractionRepository(db),
		polls:        repository.NewPollRepository(db),
		events:       repository.NewEventRepository(db),
		notes:        repository.NewNoteRepository(db),
	}
}

func (f *Factory) uploadURL(ext string) string {
	return fmt.Sprintf("https://utfs.io/f/%s.%s", f.faker.UUID(), ext)
}

// CreateUser persists a user as the identity provider would report it.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	id := f.faker.UUID()
	user := &models.User{
		ID:    "seed_" + id,
		Name:  f.faker.Name(),
		Email: f.faker.Email(),
		Image: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", id),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.users.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// BuildActivity returns an unsaved feed item of the given type authored by
// userID.
func (f *Factory) BuildActivity(userID string, kind models.ActivityType) *models.FeedItem {
	item := &models.FeedItem{Type: kind}
	switch kind {
	case models.ActivityPost:
		item.Post = &models.Post{
			Title:   f.faker.Sentence(6),
			Content: f.faker.Paragraph(2, 3, 10, "\n\n"),
			UserID:  userID,
		}
	case models.ActivityOffer:
		conditions := []models.OfferCondition{models.ConditionNew, models.ConditionUsed, models.ConditionUnknown}
		item.Offer = &models.Offer{
			Title:       f.faker.Sentence(3),
			Description: f.faker.Paragraph(1, 3, 8, " "),
			Price:       f.faker.Price(1, 500),
			Condition:   conditions[f.faker.Number(0, len(conditions)-1)],
			Image:       f.uploadURL("jpg"),
			Category:    f.faker.RandomString(offerCategories),
			UserID:      userID,
		}
	case models.ActivityEvent:
		from := time.Now().UTC().Truncate(time.Hour).
			Add(time.Duration(f.faker.Number(-14*24, 60*24)) * time.Hour)
		item.Event = &models.Event{
			Title:       f.faker.Sentence(4),
			Description: f.faker.Paragraph(1, 2, 10, " "),
			Location:    f.faker.RandomString(eventPlaces),
			From:        from,
			To:          from.Add(time.Duration(f.faker.Number(1, 6)) * time.Hour),
			UserID:      userID,
		}
	case models.ActivityPoll:
		poll := &models.Poll{
			Title:       "Vote on " + f.faker.RandomString(pollSubjects),
			Description: f.faker.Sentence(10),
			UserID:      userID,
		}
		for i := f.faker.Number(2, 5); i > 0; i-- {
			poll.Options = append(poll.Options, models.Option{Title: f.faker.Word()})
		}
		item.Poll = poll
	case models.ActivityRadioSubmission:
		item.RadioSubmission = &models.RadioSubmission{
			Title:   f.faker.Sentence(3),
			Content: f.faker.Sentence(12),
			Link:    f.faker.URL(),
			UserID:  userID,
		}
	}
	return item
}

// CreateActivity builds and persists a feed item.
func (f *Factory) CreateActivity(ctx context.Context, userID string, kind models.ActivityType) (*models.FeedItem, error) {
	item := f.BuildActivity(userID, kind)
	if err := f.activities.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// CreateComment comments on a feed item.
func (f *Factory) CreateComment(ctx context.Context, item *models.FeedItem, userID string) (*models.Comment, error) {
	comment := &models.Comment{Content: f.faker.Sentence(12), UserID: userID}
	comment.SetTarget(models.CommentModel(item.Type), item.ID)
	if err := f.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// React adds a random reaction from userID. Radio submissions take no
// reactions and are skipped.
func (f *Factory) React(ctx context.Context, item *models.FeedItem, userID string) error {
	model := models.InteractionModel(item.Type)
	if !model.Valid() {
		return nil
	}
	reaction := models.ReactionTypes[f.faker.Number(0, len(models.ReactionTypes)-1)]
	_, err := f.interactions.Toggle(ctx, model, item.ID, userID, reaction)
	return err
}

// Vote casts userID's vote on a random option of the poll.
func (f *Factory) Vote(ctx context.Context, poll *models.Poll, userID string) error {
	if len(poll.Options) == 0 {
		return nil
	}
	option := poll.Options[f.faker.Number(0, len(poll.Options)-1)]
	_, err := f.polls.Vote(ctx, poll.ID, option.ID, userID)
	return err
}

// MarkInterested flags userID as interested in the event.
func (f *Factory) MarkInterested(ctx context.Context, eventID, userID string) error {
	interested, err := f.events.IsInterested(ctx, eventID, userID)
	if err != nil || interested {
		return err
	}
	_, err = f.events.ToggleInterest(ctx, eventID, userID)
	return err
}

// BuildNote returns an unsaved note with a mix of section types, always
// starting with text and ending with a quiz.
func (f *Factory) BuildNote(userID string) *models.Note {
	note := &models.Note{
		Title:       f.faker.Sentence(4),
		Description: f.faker.Sentence(12),
		UserID:      userID,
	}
	note.Sections = append(note.Sections, models.NoteSection{
		Type:     models.SectionText,
		Subtitle: f.faker.Sentence(3),
		Content:  f.faker.Paragraph(2, 4, 12, "\n\n"),
	})

	media := []struct {
		kind models.SectionType
		ext  string
	}{
		{models.SectionImage, "png"},
		{models.SectionVideo, "mp4"},
		{models.SectionAudio, "mp3"},
		{models.SectionFile, "pdf"},
	}
	for i := f.faker.Number(0, 2); i > 0; i-- {
		m := media[f.faker.Number(0, len(media)-1)]
		note.Sections = append(note.Sections, models.NoteSection{
			Type:     m.kind,
			Subtitle: f.faker.Sentence(3),
			File:     f.uploadURL(m.ext),
		})
	}

	quiz := models.NoteSection{Type: models.SectionQuiz, Subtitle: f.faker.Question()}
	correct := f.faker.Number(0, 3)
	for i := 0; i < 4; i++ {
		quiz.QuizAnswers = append(quiz.QuizAnswers, models.QuizAnswer{
			Answer:    f.faker.Sentence(3),
			IsCorrect: i == correct,
		})
	}
	note.Sections = append(note.Sections, quiz)
	return note
}

// CreateNote builds and persists a note.
func (f *Factory) CreateNote(ctx context.Context, userID string) (*models.Note, error) {
	note := f.BuildNote(userID)
	if err := f.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// pick returns a random element other than skip when possible.
func (f *Factory) pick(users []*models.User, skip string) *models.User {
	u := users[f.faker.Number(0, len(users)-1)]
	if u.ID == skip && len(users) > 1 {
		for _, other := range users {
			if other.ID != skip {
				return other
			}
		}
	}
	return u
}
