package server

import (
	"scholarsync/internal/models"
	"scholarsync/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetOffers godoc
// @Summary Search marketplace offers
// @Tags offers
// @Produce json
// @Param limit query int false "Page size (1-100, default 50)"
// @Param cursor query string false "Cursor returned by the previous page"
// @Param title query string false "Case-insensitive title substring"
// @Param category query string false "Case-insensitive category substring"
// @Param condition query string false "NEW, USED or UNKNOWN"
// @Param minPrice query number false "Inclusive lower price bound"
// @Param maxPrice query number false "Inclusive upper price bound"
// @Success 200 {object} models.OfferPage
// @Failure 400 {object} models.ErrorResponse
// @Router /offers [get]
func (s *Server) GetOffers(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return respond(c, err)
	}
	minPrice, err := queryFloat(c, "minPrice")
	if err != nil {
		return respond(c, err)
	}
	maxPrice, err := queryFloat(c, "maxPrice")
	if err != nil {
		return respond(c, err)
	}

	page, err := s.offerService.List(c.UserContext(), service.ListOffersInput{
		Limit:  limit,
		Cursor: c.Query("cursor"),
		Filter: models.OfferFilter{
			Title:     c.Query("title"),
			Category:  c.Query("category"),
			Condition: models.OfferCondition(c.Query("condition")),
			MinPrice:  minPrice,
			MaxPrice:  maxPrice,
		},
	})
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(page)
}
