package database

import "scholarsync/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Activity{},
		&models.Post{},
		&models.Offer{},
		&models.Event{},
		&models.InterestedInEvent{},
		&models.Poll{},
		&models.Option{},
		&models.Vote{},
		&models.RadioSubmission{},
		&models.Comment{},
		&models.Interaction{},
		&models.Note{},
		&models.NoteSection{},
		&models.QuizAnswer{},
	}
}
