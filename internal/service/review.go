package service

import (
	"context"

	"github.com/agstore/storefront/internal/models"
	"github.com/google/uuid"
)

// ReviewRepository is interface for interacting with review-related data
type ReviewRepository interface {
	// CreateReview inserts new review to database
	CreateReview(ctx context.Context, review *models.Review) (*models.Review, error)
	// GetReviewByID returns review by id
	GetReviewByID(ctx context.Context, id string) (*models.Review, error)
	// GetReviewsByProductID returns reviews of a product
	GetReviewsByProductID(ctx context.Context, productID string) ([]models.Review, error)
	// GetReviewsByEmail returns reviews written by a user
	GetReviewsByEmail(ctx context.Context, email string) ([]models.Review, error)
	// GetReviews returns all reviews
	GetReviews(ctx context.Context) ([]models.Review, error)
	// UpdateReview updates rating and comment of the review
	UpdateReview(ctx context.Context, review *models.Review) (*models.Review, error)
	// DeleteReview removes review by id
	DeleteReview(ctx context.Context, id string) error
}

// ReviewService implements ReviewService interface
type ReviewService struct {
	repo    ReviewRepository
	catalog CatalogStore
}

// NewReviewService creates new ReviewService instance
func NewReviewService(repo ReviewRepository, catalog CatalogStore) *ReviewService {
	return &ReviewService{
		repo:    repo,
		catalog: catalog,
	}
}

// Create stores a review for an existing product on behalf of the caller
func (rs *ReviewService) Create(ctx context.Context, payload *models.TokenPayload, productID string, rating int, comment string) (*models.Review, error) {
	if payload == nil {
		return nil, models.ErrNotAllowed
	}

	if rating < 1 || rating > 5 {
		return nil, models.ErrInvalidRating
	}

	if _, err := rs.catalog.GetProductByProductID(ctx, productID); err != nil {
		return nil, err
	}

	review := &models.Review{
		ID:        uuid.NewString(),
		Email:     payload.Email,
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
	}

	return rs.repo.CreateReview(ctx, review)
}

// ListForProduct returns reviews of a product that must exist
func (rs *ReviewService) ListForProduct(ctx context.Context, productID string) ([]models.Review, error) {
	if _, err := rs.catalog.GetProductByProductID(ctx, productID); err != nil {
		return nil, err
	}

	return rs.repo.GetReviewsByProductID(ctx, productID)
}

// ListOwn returns reviews written by the caller
func (rs *ReviewService) ListOwn(ctx context.Context, payload *models.TokenPayload) ([]models.Review, error) {
	if payload == nil {
		return nil, models.ErrNotAllowed
	}

	return rs.repo.GetReviewsByEmail(ctx, payload.Email)
}

// ListAll returns every review. Admin only.
func (rs *ReviewService) ListAll(ctx context.Context, payload *models.TokenPayload) ([]models.Review, error) {
	if !payload.IsAdmin() {
		return nil, models.ErrNotAllowed
	}

	return rs.repo.GetReviews(ctx)
}

// Update changes rating and comment of the caller's own review
func (rs *ReviewService) Update(ctx context.Context, payload *models.TokenPayload, id string, rating int, comment string) (*models.Review, error) {
	if payload == nil {
		return nil, models.ErrNotAllowed
	}

	if rating < 1 || rating > 5 {
		return nil, models.ErrInvalidRating
	}

	review, err := rs.repo.GetReviewByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if review.Email != payload.Email {
		return nil, models.ErrNotAllowed
	}

	review.Rating = rating
	review.Comment = comment

	return rs.repo.UpdateReview(ctx, review)
}

// Delete removes a review owned by the caller, or any review for admins
func (rs *ReviewService) Delete(ctx context.Context, payload *models.TokenPayload, id string) error {
	if payload == nil {
		return models.ErrNotAllowed
	}

	review, err := rs.repo.GetReviewByID(ctx, id)
	if err != nil {
		return err
	}

	if review.Email != payload.Email && !payload.IsAdmin() {
		return models.ErrNotAllowed
	}

	return rs.repo.DeleteReview(ctx, id)
}
