package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/agstore/storefront/internal/logger"
	"github.com/agstore/storefront/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewService interface {
	// Create stores a review for an existing product on behalf of the caller
	Create(ctx context.Context, payload *models.TokenPayload, productID string, rating int, comment string) (*models.Review, error)
	// ListForProduct returns reviews of a product
	ListForProduct(ctx context.Context, productID string) ([]models.Review, error)
	// ListOwn returns reviews written by the caller
	ListOwn(ctx context.Context, payload *models.TokenPayload) ([]models.Review, error)
	// ListAll returns every review
	ListAll(ctx context.Context, payload *models.TokenPayload) ([]models.Review, error)
	// Update changes rating and comment of the caller's own review
	Update(ctx context.Context, payload *models.TokenPayload, id string, rating int, comment string) (*models.Review, error)
	// Delete removes a review owned by the caller, or any review for admins
	Delete(ctx context.Context, payload *models.TokenPayload, id string) error
}

// ReviewHandler represents HTTP handler for review-related requests
type ReviewHandler struct {
	svc ReviewService
}

// NewReviewHandler creates new ReviewHandler instance
func NewReviewHandler(svc ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

type reviewRequest struct {
	ProductID string `json:"productId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type reviewResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	ProductID string `json:"productId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"createdAt"`
}

func newReviewResponse(review *models.Review) reviewResponse {
	return reviewResponse{
		ID:        review.ID,
		Email:     review.Email,
		ProductID: review.ProductID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt.Format(time.RFC3339),
	}
}

func newReviewListResponse(reviews []models.Review) []reviewResponse {
	resp := make([]reviewResponse, 0, len(reviews))
	for i := range reviews {
		resp = append(resp, newReviewResponse(&reviews[i]))
	}
	return resp
}

type createReviewResponse struct {
	Message string         `json:"message"`
	Review  reviewResponse `json:"review"`
}

// CreateReview stores a review
// 201 — отзыв создан;
// 400 — неверный формат запроса;
// 403 — пользователь не аутентифицирован;
// 404 — товар не найден;
// 500 — внутренняя ошибка сервера.
func (rh *ReviewHandler) CreateReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok || payload == nil {
			writeMessage(w, http.StatusForbidden, "authentication required to create review")
			return
		}

		var req reviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "bad request")
			return
		}
		defer r.Body.Close()

		if req.ProductID == "" || req.Comment == "" {
			writeMessage(w, http.StatusBadRequest, "productId, rating, and comment are required")
			return
		}

		review, err := rh.svc.Create(r.Context(), payload, req.ProductID, req.Rating, req.Comment)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidRating):
				writeMessage(w, http.StatusBadRequest, "rating must be between 1 and 5")
			case errors.Is(err, models.ErrDataNotFound):
				writeMessage(w, http.StatusNotFound, "product not found")
			default:
				logger.Log.Error("create review", zap.Error(err))
				writeMessage(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, createReviewResponse{
			Message: "Review created successfully",
			Review:  newReviewResponse(review),
		})
	}
}

// ListProductReviews returns reviews of a product
// 200 — успешная обработка запроса;
// 404 — товар не найден;
// 500 — внутренняя ошибка сервера.
func (rh *ReviewHandler) ListProductReviews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := chi.URLParam(r, "productId")

		reviews, err := rh.svc.ListForProduct(r.Context(), productID)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				writeMessage(w, http.StatusNotFound, "product not found")
				return
			}
			logger.Log.Error("list product reviews", zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, newReviewListResponse(reviews))
	}
}

// ListOwnReviews returns reviews written by the caller
// 200 — успешная обработка запроса;
// 403 — пользователь не аутентифицирован;
// 500 — внутренняя ошибка сервера.
func (rh *ReviewHandler) ListOwnReviews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok || payload == nil {
			writeMessage(w, http.StatusForbidden, "authentication required")
			return
		}

		reviews, err := rh.svc.ListOwn(r.Context(), payload)
		if err != nil {
			logger.Log.Error("list own reviews", zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, newReviewListResponse(reviews))
	}
}

// ListAllReviews returns every review. Admin only.
// 200 — успешная обработка запроса;
// 403 — пользователь не администратор;
// 500 — внутренняя ошибка сервера.
func (rh *ReviewHandler) ListAllReviews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, _ := getAuthPayload(r.Context(), authPayloadKey)

		reviews, err := rh.svc.ListAll(r.Context(), payload)
		if err != nil {
			if errors.Is(err, models.ErrNotAllowed) {
				writeMessage(w, http.StatusForbidden, "admin access required")
				return
			}
			logger.Log.Error("list all reviews", zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, newReviewListResponse(reviews))
	}
}

type updateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type updateReviewResponse struct {
	Message string         `json:"message"`
	Review  reviewResponse `json:"review"`
}

// UpdateReview changes rating and comment of the caller's own review
// 200 — отзыв обновлён;
// 400 — неверный формат запроса;
// 403 — чужой отзыв;
// 404 — отзыв не найден;
// 500 — внутренняя ошибка сервера.
func (rh *ReviewHandler) UpdateReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok || payload == nil {
			writeMessage(w, http.StatusForbidden, "authentication required")
			return
		}

		var req updateReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "bad request")
			return
		}
		defer r.Body.Close()

		reviewID := chi.URLParam(r, "reviewId")

		review, err := rh.svc.Update(r.Context(), payload, reviewID, req.Rating, req.Comment)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidRating):
				writeMessage(w, http.StatusBadRequest, "rating must be between 1 and 5")
			case errors.Is(err, models.ErrNotAllowed):
				writeMessage(w, http.StatusForbidden, "you can only update your own reviews")
			case errors.Is(err, models.ErrDataNotFound):
				writeMessage(w, http.StatusNotFound, "review not found")
			default:
				logger.Log.Error("update review", zap.Error(err))
				writeMessage(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, updateReviewResponse{
			Message: "Review updated successfully",
			Review:  newReviewResponse(review),
		})
	}
}

// DeleteReview removes a review
// 200 — отзыв удалён;
// 403 — чужой отзыв;
// 404 — отзыв не найден;
// 500 — внутренняя ошибка сервера.
func (rh *ReviewHandler) DeleteReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok || payload == nil {
			writeMessage(w, http.StatusForbidden, "authentication required")
			return
		}

		reviewID := chi.URLParam(r, "reviewId")

		if err := rh.svc.Delete(r.Context(), payload, reviewID); err != nil {
			switch {
			case errors.Is(err, models.ErrNotAllowed):
				writeMessage(w, http.StatusForbidden, "you can only delete your own reviews")
			case errors.Is(err, models.ErrDataNotFound):
				writeMessage(w, http.StatusNotFound, "review not found")
			default:
				logger.Log.Error("delete review", zap.Error(err))
				writeMessage(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeMessage(w, http.StatusOK, "Review deleted successfully")
	}
}
