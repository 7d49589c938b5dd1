package server

import (
	"scholarsync/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPollOptions godoc
// @Summary Poll options with vote counts
// @Tags polls
// @Produce json
// @Param id path string true "Poll ID"
// @Success 200 {object} models.PollOptions
// @Failure 404 {object} models.ErrorResponse
// @Router /polls/{id}/options [get]
func (s *Server) GetPollOptions(c *fiber.Ctx) error {
	options, err := s.pollService.Options(c.UserContext(), c.Params("id"), optionalUserID(c))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(options)
}

// Vote godoc
// @Summary Cast, move or withdraw the caller's vote
// @Tags polls
// @Accept json
// @Produce json
// @Param id path string true "Poll ID"
// @Param request body models.VoteRequest true "Vote"
// @Success 200 {object} models.PollOptions
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /polls/{id}/votes [post]
func (s *Server) Vote(c *fiber.Ctx) error {
	var req models.VoteRequest
	if err := bindJSON(c, &req); err != nil {
		return respond(c, err)
	}

	options, err := s.pollService.Vote(c.UserContext(), c.Params("id"), currentUserID(c), req)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(options)
}
