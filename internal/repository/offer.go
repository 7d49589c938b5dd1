package repository

import (
	"context"
	"fmt"

	"scholarsync/internal/models"

	"gorm.io/gorm"
)

// OfferRepository lists marketplace offers. Offers are created through
// ActivityRepository.
type OfferRepository interface {
	List(ctx context.Context, filter models.OfferFilter, limit int, cursor string) (*models.OfferPage, error)
}

type offerRepository struct {
	db *gorm.DB
}

// NewOfferRepository creates a new OfferRepository
func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) List(ctx context.Context, filter models.OfferFilter, limit int, cursor string) (*models.OfferPage, error) {
	db := readDB(r.db).WithContext(ctx)

	query := applyOfferFilter(db.Model(&models.Offer{}).Preload("User", publicUser), filter)
	query, err := newestFirst(db, query, "offers", cursor)
	if err != nil {
		return nil, err
	}

	var offers []models.Offer
	if err := query.Limit(limit + 1).Find(&offers).Error; err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	offers, next := splitPage(offers, limit, func(o models.Offer) string { return o.ID })
	return &models.OfferPage{Items: offers, NextCursor: next}, nil
}

func applyOfferFilter(q *gorm.DB, f models.OfferFilter) *gorm.DB {
	if f.Title != "" {
		q = q.Where(`LOWER(title) LIKE ? ESCAPE '\'`, likePattern(f.Title))
	}
	if f.Category != "" {
		q = q.Where(`LOWER(category) LIKE ? ESCAPE '\'`, likePattern(f.Category))
	}
	if f.Condition != "" {
		q = q.Where("condition = ?", f.Condition)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	return q
}
