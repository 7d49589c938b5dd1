package server

import (
	"scholarsync/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetCalendar godoc
// @Summary Events inside a time window
// @Tags events
// @Produce json
// @Param start query string true "RFC 3339 window start"
// @Param end query string true "RFC 3339 window end"
// @Success 200 {array} models.CalendarEntry
// @Failure 400 {object} models.ErrorResponse
// @Router /events/calendar [get]
func (s *Server) GetCalendar(c *fiber.Ctx) error {
	start, err := queryTime(c, "start")
	if err != nil {
		return respond(c, err)
	}
	end, err := queryTime(c, "end")
	if err != nil {
		return respond(c, err)
	}

	entries, err := s.eventService.Calendar(c.UserContext(), start, end)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(entries)
}

// CreateEvent godoc
// @Summary Publish an event
// @Tags events
// @Accept json
// @Produce json
// @Param request body models.EventPayload true "Event"
// @Success 201 {object} map[string]string
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /events [post]
func (s *Server) CreateEvent(c *fiber.Ctx) error {
	var req models.EventPayload
	if err := bindJSON(c, &req); err != nil {
		return respond(c, err)
	}

	item, err := s.eventService.Create(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": item.ID})
}

// GetEvent godoc
// @Summary Get an event with its counts
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} models.EventDetail
// @Failure 404 {object} models.ErrorResponse
// @Router /events/{id} [get]
func (s *Server) GetEvent(c *fiber.Ctx) error {
	detail, err := s.eventService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(detail)
}

// ToggleInterest godoc
// @Summary Toggle the caller's interest in an event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /events/{id}/interest [post]
func (s *Server) ToggleInterest(c *fiber.Ctx) error {
	interested, err := s.eventService.ToggleInterest(c.UserContext(), c.Params("id"), currentUserID(c))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"interested": interested})
}

// GetInterest godoc
// @Summary Whether the caller follows an event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]bool
// @Security BearerAuth
// @Router /events/{id}/interest [get]
func (s *Server) GetInterest(c *fiber.Ctx) error {
	interested, err := s.eventService.IsInterested(c.UserContext(), c.Params("id"), currentUserID(c))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"interested": interested})
}
