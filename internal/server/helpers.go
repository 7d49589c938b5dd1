package server

import (
	"errors"
	"strconv"
	"time"

	"scholarsync/internal/middleware"
	"scholarsync/internal/models"

	"github.com/gofiber/fiber/v2"
)

// respond writes err with the status matching its AppError code.
func respond(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		appErr = models.NewInternalError(err)
	}
	return models.RespondWithError(c, models.StatusForCode(appErr.Code), appErr)
}

// currentUserID returns the authenticated user. Routes behind Required always
// have one.
func currentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}

// optionalUserID returns the caller when a valid token was sent.
func optionalUserID(c *fiber.Ctx) string {
	if s, ok := middleware.SessionFrom(c); ok {
		return s.UserID
	}
	return ""
}

// bindJSON parses the request body into dest.
func bindJSON(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		return models.NewValidationError("Invalid request body")
	}
	return nil
}

// queryInt parses an optional integer query parameter; absent means 0.
func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.NewValidationError(key + " must be an integer")
	}
	return n, nil
}

// queryFloat parses an optional decimal query parameter.
func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, models.NewValidationError(key + " must be a number")
	}
	return &f, nil
}

// queryTime parses an RFC 3339 query parameter.
func queryTime(c *fiber.Ctx, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, models.NewValidationError(key + " is required")
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, models.NewValidationError(key + " must be an RFC 3339 timestamp")
	}
	return t, nil
}
