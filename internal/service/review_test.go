package service

import (
	"context"
	"testing"

	"github.com/agstore/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReviewRepo struct {
	reviews map[string]*models.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[string]*models.Review{}}
}

func (f *fakeReviewRepo) CreateReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	f.reviews[review.ID] = review
	return review, nil
}

func (f *fakeReviewRepo) GetReviewByID(ctx context.Context, id string) (*models.Review, error) {
	review, ok := f.reviews[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	return review, nil
}

func (f *fakeReviewRepo) GetReviewsByProductID(ctx context.Context, productID string) ([]models.Review, error) {
	matched := []models.Review{}
	for _, review := range f.reviews {
		if review.ProductID == productID {
			matched = append(matched, *review)
		}
	}
	return matched, nil
}

func (f *fakeReviewRepo) GetReviewsByEmail(ctx context.Context, email string) ([]models.Review, error) {
	matched := []models.Review{}
	for _, review := range f.reviews {
		if review.Email == email {
			matched = append(matched, *review)
		}
	}
	return matched, nil
}

func (f *fakeReviewRepo) GetReviews(ctx context.Context) ([]models.Review, error) {
	reviews := []models.Review{}
	for _, review := range f.reviews {
		reviews = append(reviews, *review)
	}
	return reviews, nil
}

func (f *fakeReviewRepo) UpdateReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	if _, ok := f.reviews[review.ID]; !ok {
		return nil, models.ErrDataNotFound
	}
	f.reviews[review.ID] = review
	return review, nil
}

func (f *fakeReviewRepo) DeleteReview(ctx context.Context, id string) error {
	if _, ok := f.reviews[id]; !ok {
		return models.ErrDataNotFound
	}
	delete(f.reviews, id)
	return nil
}

func TestReviewService_Create(t *testing.T) {
	tests := []struct {
		name      string
		payload   *models.TokenPayload
		productID string
		rating    int
		wantErr   error
	}{
		{name: "valid_review", payload: customerPayload(), productID: "SKU1", rating: 4},
		{name: "anonymous_is_rejected", payload: nil, productID: "SKU1", rating: 4, wantErr: models.ErrNotAllowed},
		{name: "rating_below_range", payload: customerPayload(), productID: "SKU1", rating: 0, wantErr: models.ErrInvalidRating},
		{name: "rating_above_range", payload: customerPayload(), productID: "SKU1", rating: 6, wantErr: models.ErrInvalidRating},
		{name: "unknown_product", payload: customerPayload(), productID: "GHOST", rating: 4, wantErr: models.ErrDataNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeReviewRepo()
			svc := NewReviewService(repo, newTestCatalog())

			review, err := svc.Create(context.Background(), tt.payload, tt.productID, tt.rating, "good stuff")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.reviews)
				return
			}
			require.NoError(t, err)

			assert.NotEmpty(t, review.ID)
			assert.Equal(t, tt.payload.Email, review.Email)
			assert.Equal(t, tt.productID, review.ProductID)
			assert.Equal(t, tt.rating, review.Rating)
		})
	}
}

func TestReviewService_Update_OwnerOnly(t *testing.T) {
	repo := newFakeReviewRepo()
	svc := NewReviewService(repo, newTestCatalog())

	created, err := svc.Create(context.Background(), customerPayload(), "SKU1", 3, "fine")
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), customerPayload(), created.ID, 5, "grew on me")
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "grew on me", updated.Comment)

	// nobody edits someone else's review, admins included
	other := &models.TokenPayload{Email: "other@example.com", Role: models.RoleCustomer}
	_, err = svc.Update(context.Background(), other, created.ID, 1, "nope")
	assert.ErrorIs(t, err, models.ErrNotAllowed)

	_, err = svc.Update(context.Background(), adminPayload(), created.ID, 1, "nope")
	assert.ErrorIs(t, err, models.ErrNotAllowed)

	_, err = svc.Update(context.Background(), customerPayload(), created.ID, 9, "again")
	assert.ErrorIs(t, err, models.ErrInvalidRating)

	_, err = svc.Update(context.Background(), customerPayload(), "missing", 4, "gone")
	assert.ErrorIs(t, err, models.ErrDataNotFound)
}

func TestReviewService_Delete(t *testing.T) {
	tests := []struct {
		name    string
		payload *models.TokenPayload
		wantErr error
	}{
		{name: "owner_deletes_own", payload: customerPayload()},
		{name: "admin_deletes_any", payload: adminPayload()},
		{name: "other_customer_is_rejected", payload: &models.TokenPayload{Email: "other@example.com", Role: models.RoleCustomer}, wantErr: models.ErrNotAllowed},
		{name: "anonymous_is_rejected", payload: nil, wantErr: models.ErrNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeReviewRepo()
			svc := NewReviewService(repo, newTestCatalog())

			created, err := svc.Create(context.Background(), customerPayload(), "SKU1", 4, "good")
			require.NoError(t, err)

			err = svc.Delete(context.Background(), tt.payload, created.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, repo.reviews, 1)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, repo.reviews)
		})
	}
}

func TestReviewService_ListAll(t *testing.T) {
	repo := newFakeReviewRepo()
	svc := NewReviewService(repo, newTestCatalog())

	_, err := svc.Create(context.Background(), customerPayload(), "SKU1", 4, "good")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), customerPayload(), "SKU2", 2, "meh")
	require.NoError(t, err)

	all, err := svc.ListAll(context.Background(), adminPayload())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.ListAll(context.Background(), customerPayload())
	assert.ErrorIs(t, err, models.ErrNotAllowed)
}

func TestReviewService_ListForProduct(t *testing.T) {
	repo := newFakeReviewRepo()
	svc := NewReviewService(repo, newTestCatalog())

	_, err := svc.Create(context.Background(), customerPayload(), "SKU1", 4, "good")
	require.NoError(t, err)

	reviews, err := svc.ListForProduct(context.Background(), "SKU1")
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	_, err = svc.ListForProduct(context.Background(), "GHOST")
	assert.ErrorIs(t, err, models.ErrDataNotFound)
}
