// Command devtoken mints a session token signed with the configured secret,
// for local API calls without the identity provider.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"scholarsync/internal/config"
	"scholarsync/internal/middleware"
)

func main() {
	userID := flag.String("user", "dev_user", "User ID placed in the token subject")
	name := flag.String("name", "Dev User", "Display name claim")
	email := flag.String("email", "dev@example.com", "Email claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	auth := middleware.NewAuthenticator(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	token, err := auth.Issue(middleware.Session{UserID: *userID, Name: *name, Email: *email}, *ttl)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(token)
}
