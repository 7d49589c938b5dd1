package service

import (
	"context"
	"strings"

	"scholarsync/internal/models"
	"scholarsync/internal/repository"
)

type OfferService struct {
	offers repository.OfferRepository
}

func NewOfferService(offers repository.OfferRepository) *OfferService {
	return &OfferService{offers: offers}
}

// ListOffersInput selects one filtered page of offers.
type ListOffersInput struct {
	Limit  int
	Cursor string
	Filter models.OfferFilter
}

func (s *OfferService) List(ctx context.Context, in ListOffersInput) (*models.OfferPage, error) {
	limit, err := pageLimit(in.Limit)
	if err != nil {
		return nil, err
	}

	f := in.Filter
	f.Title = strings.TrimSpace(f.Title)
	f.Category = strings.TrimSpace(f.Category)
	f.Condition = models.OfferCondition(strings.ToUpper(string(f.Condition)))
	if f.Condition != "" && !f.Condition.Valid() {
		return nil, models.NewValidationError("condition must be one of: NEW USED UNKNOWN")
	}
	if (f.MinPrice != nil && *f.MinPrice < 0) || (f.MaxPrice != nil && *f.MaxPrice < 0) {
		return nil, models.NewValidationError("price bounds must not be negative")
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, models.NewValidationError("minPrice must not exceed maxPrice")
	}

	page, err := s.offers.List(ctx, f, limit, in.Cursor)
	if err != nil {
		return nil, translate(err, "Offer", in.Cursor)
	}
	return page, nil
}
