// Command main fills the database with demo content.
package main

import (
	"context"
	"flag"
	"log"

	"scholarsync/internal/config"
	"scholarsync/internal/database"
	"scholarsync/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	numActivities := flag.Int("activities", defaults.NumActivities, "Number of feed activities to create")
	numNotes := flag.Int("notes", defaults.NumNotes, "Number of notes to create")
	maxComments := flag.Int("comments", defaults.MaxComments, "Maximum comments per activity")
	maxReactions := flag.Int("reactions", defaults.MaxReactions, "Maximum reactions, votes and interest per activity")
	randSeed := flag.Int64("seed", 0, "Random seed for repeatable content (0 is random)")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sum, err := seed.Seed(context.Background(), db, seed.Options{
		NumUsers:      *numUsers,
		NumActivities: *numActivities,
		NumNotes:      *numNotes,
		MaxComments:   *maxComments,
		MaxReactions:  *maxReactions,
		Seed:          *randSeed,
		ShouldClean:   *shouldClean,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %v activities, %d notes", sum.Users, sum.Activities, sum.Notes)
}
