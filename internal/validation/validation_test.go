package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"scholarsync/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadURL(t *testing.T) {
	t.Parallel()
	v := New([]string{"utfs.io", " UploadThing.com "})

	tests := []struct {
		name string
		url  string
		ok   bool
	}{
		{name: "allowed host", url: "https://utfs.io/f/abc.png", ok: true},
		{name: "subdomain", url: "https://cdn.uploadthing.com/x", ok: true},
		{name: "case insensitive", url: "https://UTFS.IO/f/abc", ok: true},
		{name: "other host", url: "https://evil.example/f/abc", ok: false},
		{name: "suffix trick", url: "https://notutfs.io/f/abc", ok: false},
		{name: "ftp scheme", url: "ftp://utfs.io/f/abc", ok: false},
		{name: "no host", url: "https:///abc", ok: false},
		{name: "garbage", url: "not a url", ok: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := v.UploadURL(tc.url)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}

	open := New(nil)
	assert.NoError(t, open.UploadURL("https://anything.example/x"))
	assert.Error(t, open.UploadURL("javascript:alert(1)"))
}

func validNote() models.NotePayload {
	return models.NotePayload{
		Title: "Thermodynamics",
		Sections: []models.NoteSectionPayload{
			{Type: models.SectionText, Content: "Entropy"},
			{Type: models.SectionAudio, File: "https://utfs.io/f/lecture.mp3"},
			{Type: models.SectionQuiz, QuizAnswers: []models.QuizAnswerPayload{{Answer: "yes"}, {Answer: "no"}}},
		},
	}
}

func TestStruct_Note(t *testing.T) {
	t.Parallel()
	v := New([]string{"utfs.io"})

	require.NoError(t, v.Struct(validNote()))

	tests := []struct {
		name   string
		mutate func(*models.NotePayload)
		field  string
		rule   string
	}{
		{"missing title", func(n *models.NotePayload) { n.Title = "" }, "title", "required"},
		{"long title", func(n *models.NotePayload) { n.Title = strings.Repeat("a", 251) }, "title", "max"},
		{"long description", func(n *models.NotePayload) { n.Description = strings.Repeat("a", 501) }, "description", "max"},
		{"no sections", func(n *models.NotePayload) { n.Sections = nil }, "sections", "required"},
		{"too many sections", func(n *models.NotePayload) {
			n.Sections = make([]models.NoteSectionPayload, 26)
			for i := range n.Sections {
				n.Sections[i].Type = models.SectionText
			}
		}, "sections", "max"},
		{"unknown type", func(n *models.NotePayload) { n.Sections[0].Type = "GIF" }, "sections[0].type", "oneof"},
		{"negative index", func(n *models.NotePayload) { n.Sections[0].Index = -1 }, "sections[0].index", "gte"},
		{"index past last section", func(n *models.NotePayload) { n.Sections[0].Index = 25 }, "sections[0].index", "lte"},
		{"file missing", func(n *models.NotePayload) { n.Sections[1].File = "" }, "sections[1].file", "required"},
		{"file not allow-listed", func(n *models.NotePayload) { n.Sections[1].File = "https://example.com/a.mp3" }, "sections[1].file", "upload_url"},
		{"one quiz answer", func(n *models.NotePayload) { n.Sections[2].QuizAnswers = n.Sections[2].QuizAnswers[:1] }, "sections[2].quiz_answers", "quiz_answers"},
		{"empty answer", func(n *models.NotePayload) { n.Sections[2].QuizAnswers[0].Answer = "" }, "sections[2].quiz_answers[0].answer", "required"},
		{"answers on text section", func(n *models.NotePayload) {
			n.Sections[0].QuizAnswers = []models.QuizAnswerPayload{{Answer: "a"}}
		}, "sections[0].quiz_answers", "excluded"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			note := validNote()
			tc.mutate(&note)

			err := v.Struct(note)
			var fe *FieldError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tc.field, fe.Field)
			assert.Equal(t, tc.rule, fe.Rule)
			assert.NotEmpty(t, fe.Error())
		})
	}
}

func TestStruct_ActivityPayloads(t *testing.T) {
	t.Parallel()
	v := New([]string{"utfs.io"})
	from := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		payload any
		ok      bool
	}{
		{"post", models.PostPayload{Title: "t", Content: "c"}, true},
		{"post without content", models.PostPayload{Title: "t"}, false},
		{"offer", models.OfferPayload{Title: "Bike", Price: 0, Condition: models.ConditionUsed, Image: "https://utfs.io/f/b.jpg", Category: "sport"}, true},
		{"offer negative price", models.OfferPayload{Title: "Bike", Price: -1, Condition: models.ConditionUsed, Image: "https://utfs.io/f/b.jpg", Category: "sport"}, false},
		{"offer bad condition", models.OfferPayload{Title: "Bike", Condition: "BROKEN", Image: "https://utfs.io/f/b.jpg", Category: "sport"}, false},
		{"offer foreign image", models.OfferPayload{Title: "Bike", Condition: models.ConditionNew, Image: "https://img.example/b.jpg", Category: "sport"}, false},
		{"event", models.EventPayload{Title: "e", From: from, To: from.Add(time.Hour)}, true},
		{"event ends before start", models.EventPayload{Title: "e", From: from, To: from.Add(-time.Hour)}, false},
		{"event equal bounds", models.EventPayload{Title: "e", From: from, To: from}, false},
		{"poll", models.PollPayload{Title: "p", Options: []string{"a", "b"}}, true},
		{"poll one option", models.PollPayload{Title: "p", Options: []string{"a"}}, false},
		{"poll eleven options", models.PollPayload{Title: "p", Options: strings.Split("a,b,c,d,e,f,g,h,i,j,k", ",")}, false},
		{"poll empty option", models.PollPayload{Title: "p", Options: []string{"a", ""}}, false},
		{"radio", models.RadioSubmissionPayload{Title: "r", Link: "https://music.example/track"}, true},
		{"radio bad link", models.RadioSubmissionPayload{Title: "r", Link: "music"}, false},
		{"comment", models.CreateCommentRequest{Model: models.CommentOnPoll, ModelID: "x", Content: "hi"}, true},
		{"comment on comment", models.CreateCommentRequest{Model: "COMMENT", ModelID: "x", Content: "hi"}, false},
		{"reaction", models.InteractRequest{Type: models.ReactionAngry}, true},
		{"unknown reaction", models.InteractRequest{Type: "MEH"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.payload)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestHasCorrectAnswer(t *testing.T) {
	t.Parallel()
	section := models.NoteSectionPayload{Type: models.SectionQuiz, QuizAnswers: []models.QuizAnswerPayload{{Answer: "a"}, {Answer: "b"}}}
	assert.False(t, HasCorrectAnswer(section))
	section.QuizAnswers[1].IsCorrect = true
	assert.True(t, HasCorrectAnswer(section))
}
