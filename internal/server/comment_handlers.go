package server

import (
	"scholarsync/internal/models"
	"scholarsync/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments godoc
// @Summary List comments on an activity
// @Tags comments
// @Produce json
// @Param model query string true "POST, OFFER, EVENT, POLL or RADIO_SUBMISSION"
// @Param modelId query string true "Activity ID"
// @Param limit query int false "Page size (1-100, default 50)"
// @Param cursor query string false "Cursor returned by the previous page"
// @Success 200 {object} models.CommentPage
// @Failure 400 {object} models.ErrorResponse
// @Router /comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return respond(c, err)
	}

	page, err := s.commentService.List(c.UserContext(), service.ListCommentsInput{
		Model:   models.CommentModel(c.Query("model")),
		ModelID: c.Query("modelId"),
		Limit:   limit,
		Cursor:  c.Query("cursor"),
	})
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(page)
}

// CreateComment godoc
// @Summary Comment on an activity
// @Tags comments
// @Accept json
// @Produce json
// @Param request body models.CreateCommentRequest true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req models.CreateCommentRequest
	if err := bindJSON(c, &req); err != nil {
		return respond(c, err)
	}

	comment, err := s.commentService.Create(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
