package repository

import (
	"context"
	"errors"

	"github.com/agstore/storefront/internal/models"
	"github.com/agstore/storefront/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const (
	insertReviewQuery = `
						INSERT INTO reviews (id, email, product_id, rating, comment)
						VALUES ($1, $2, $3, $4, $5)
						RETURNING created_at
`
	selectReviewByIDQuery = `
						SELECT id, email, product_id, rating, comment, created_at
						FROM reviews
						WHERE id = $1
`
	selectReviewsByProductIDQuery = `
						SELECT id, email, product_id, rating, comment, created_at
						FROM reviews
						WHERE product_id = $1
						ORDER BY created_at DESC
`
	selectReviewsByEmailQuery = `
						SELECT id, email, product_id, rating, comment, created_at
						FROM reviews
						WHERE email = $1
						ORDER BY created_at DESC
`
	selectReviewsQuery = `
						SELECT id, email, product_id, rating, comment, created_at
						FROM reviews
						ORDER BY created_at DESC
`
	updateReviewQuery = `
						UPDATE reviews
						SET rating = $2, comment = $3
						WHERE id = $1
						RETURNING id, email, product_id, rating, comment, created_at
`
	deleteReviewQuery = `
						DELETE FROM reviews
						WHERE id = $1
`
	deleteReviewsByEmailQuery = `
						DELETE FROM reviews
						WHERE email = $1
`
)

// ReviewRepository implements ReviewRepository interface
type ReviewRepository struct {
	db *postgres.DB
}

// NewReviewRepository creates new ReviewRepository instance
func NewReviewRepository(db *postgres.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// CreateReview inserts new review to database
func (rr *ReviewRepository) CreateReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	err := rr.db.QueryRow(ctx, insertReviewQuery,
		review.ID, review.Email, review.ProductID, review.Rating, review.Comment,
	).Scan(&review.CreatedAt)
	if err != nil {
		return nil, err
	}

	return review, nil
}

// GetReviewByID returns review by id
func (rr *ReviewRepository) GetReviewByID(ctx context.Context, id string) (*models.Review, error) {
	review := models.Review{}
	err := rr.db.QueryRow(ctx, selectReviewByIDQuery, id).Scan(
		&review.ID, &review.Email, &review.ProductID, &review.Rating, &review.Comment, &review.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &review, nil
}

// GetReviewsByProductID returns reviews of a product
func (rr *ReviewRepository) GetReviewsByProductID(ctx context.Context, productID string) ([]models.Review, error) {
	rows, err := rr.db.Query(ctx, selectReviewsByProductIDQuery, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReviews(rows)
}

// GetReviewsByEmail returns reviews written by a user
func (rr *ReviewRepository) GetReviewsByEmail(ctx context.Context, email string) ([]models.Review, error) {
	rows, err := rr.db.Query(ctx, selectReviewsByEmailQuery, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReviews(rows)
}

// GetReviews returns all reviews
func (rr *ReviewRepository) GetReviews(ctx context.Context) ([]models.Review, error) {
	rows, err := rr.db.Query(ctx, selectReviewsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReviews(rows)
}

// UpdateReview updates rating and comment of the review
func (rr *ReviewRepository) UpdateReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	updated := models.Review{}
	err := rr.db.QueryRow(ctx, updateReviewQuery, review.ID, review.Rating, review.Comment).Scan(
		&updated.ID, &updated.Email, &updated.ProductID, &updated.Rating, &updated.Comment, &updated.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &updated, nil
}

// DeleteReview removes review by id
func (rr *ReviewRepository) DeleteReview(ctx context.Context, id string) error {
	cmd, err := rr.db.Exec(ctx, deleteReviewQuery, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// DeleteReviewsByEmail removes all reviews written by the given user
func (rr *ReviewRepository) DeleteReviewsByEmail(ctx context.Context, email string) (int64, error) {
	cmd, err := rr.db.Exec(ctx, deleteReviewsByEmailQuery, email)
	if err != nil {
		return 0, err
	}

	return cmd.RowsAffected(), nil
}

func scanReviews(rows pgx.Rows) ([]models.Review, error) {
	reviews := []models.Review{}

	for rows.Next() {
		review := models.Review{}
		err := rows.Scan(&review.ID, &review.Email, &review.ProductID, &review.Rating, &review.Comment, &review.CreatedAt)
		if err != nil {
			continue
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reviews, nil
}
