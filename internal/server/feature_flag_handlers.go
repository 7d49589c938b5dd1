package server

import "github.com/gofiber/fiber/v2"

// GetFeatureFlags returns the evaluated flags for the caller. Anonymous
// callers only see globally enabled flags.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"flags": s.featureFlags.Snapshot(optionalUserID(c)),
	})
}
