package server

import (
	"scholarsync/internal/models"
	"scholarsync/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFeed godoc
// @Summary List the activity feed
// @Tags feed
// @Produce json
// @Param limit query int false "Page size (1-100, default 50)"
// @Param cursor query string false "Cursor returned by the previous page"
// @Param exclude query string false "Activity id to leave out"
// @Param type query string false "Activity type filter"
// @Success 200 {object} models.FeedPage
// @Failure 400 {object} models.ErrorResponse
// @Router /feed [get]
func (s *Server) GetFeed(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return respond(c, err)
	}

	page, err := s.feedService.List(c.UserContext(), service.ListFeedInput{
		Limit:   limit,
		Cursor:  c.Query("cursor"),
		Exclude: c.Query("exclude"),
		Type:    models.ActivityType(c.Query("type")),
	})
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(page)
}

// GetActivity godoc
// @Summary Get one feed item
// @Tags feed
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} models.FeedItem
// @Failure 404 {object} models.ErrorResponse
// @Router /feed/{id} [get]
func (s *Server) GetActivity(c *fiber.Ctx) error {
	item, err := s.feedService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(item)
}

// CreateActivity godoc
// @Summary Publish an activity
// @Tags feed
// @Accept json
// @Produce json
// @Param request body models.CreateActivityRequest true "Activity"
// @Success 201 {object} map[string]string
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /feed [post]
func (s *Server) CreateActivity(c *fiber.Ctx) error {
	var req models.CreateActivityRequest
	if err := bindJSON(c, &req); err != nil {
		return respond(c, err)
	}

	item, err := s.feedService.Create(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": item.ID})
}

// RemoveActivity godoc
// @Summary Delete one of the caller's activities
// @Tags feed
// @Param id path string true "Activity ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /feed/{id} [delete]
func (s *Server) RemoveActivity(c *fiber.Ctx) error {
	if err := s.feedService.Remove(c.UserContext(), currentUserID(c), c.Params("id")); err != nil {
		return respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
