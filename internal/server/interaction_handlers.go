package server

import (
	"scholarsync/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetInteractions godoc
// @Summary Reaction counts for a target
// @Tags interactions
// @Produce json
// @Param model path string true "POST, OFFER, EVENT, POLL or COMMENT"
// @Param modelId path string true "Target ID"
// @Success 200 {object} models.InteractionSummary
// @Failure 400 {object} models.ErrorResponse
// @Router /interactions/{model}/{modelId} [get]
func (s *Server) GetInteractions(c *fiber.Ctx) error {
	summary, err := s.interactionService.Get(c.UserContext(), c.Params("model"), c.Params("modelId"), optionalUserID(c))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(summary)
}

// Interact godoc
// @Summary Toggle the caller's reaction
// @Description Sending the current reaction removes it; another type replaces it.
// @Tags interactions
// @Accept json
// @Produce json
// @Param model path string true "POST, OFFER, EVENT, POLL or COMMENT"
// @Param modelId path string true "Target ID"
// @Param request body models.InteractRequest true "Reaction"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /interactions/{model}/{modelId} [post]
func (s *Server) Interact(c *fiber.Ctx) error {
	var req models.InteractRequest
	if err := bindJSON(c, &req); err != nil {
		return respond(c, err)
	}

	mine, err := s.interactionService.Interact(c.UserContext(), c.Params("model"), c.Params("modelId"), currentUserID(c), req)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"reaction": mine})
}
