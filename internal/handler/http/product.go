package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/agstore/storefront/internal/logger"
	"github.com/agstore/storefront/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CatalogService interface {
	// Create adds a product to the catalog
	Create(ctx context.Context, payload *models.TokenPayload, product *models.Product) (*models.Product, error)
	// List returns all catalog products
	List(ctx context.Context) ([]models.Product, error)
	// GetProductByProductID returns a single product by product id
	GetProductByProductID(ctx context.Context, productID string) (*models.Product, error)
	// Search returns products matching query
	Search(ctx context.Context, query string) ([]models.Product, error)
	// Update replaces product fields
	Update(ctx context.Context, payload *models.TokenPayload, product *models.Product) (*models.Product, error)
	// Delete removes a product from the catalog
	Delete(ctx context.Context, payload *models.TokenPayload, productID string) error
}

// ProductHandler represents HTTP handler for catalog-related requests
type ProductHandler struct {
	svc CatalogService
}

// NewProductHandler creates new ProductHandler instance
func NewProductHandler(svc CatalogService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

type productRequest struct {
	ProductID     string   `json:"productId"`
	Name          string   `json:"name"`
	AltNames      []string `json:"altNames"`
	Description   string   `json:"description"`
	LabelledPrice float64  `json:"labelledPrice"`
	Price         float64  `json:"price"`
	Images        []string `json:"images"`
	Stock         int      `json:"stock"`
	IsAvailable   bool     `json:"isAvailable"`
}

type productResponse struct {
	ProductID     string   `json:"productId"`
	Name          string   `json:"name"`
	AltNames      []string `json:"altNames"`
	Description   string   `json:"description"`
	LabelledPrice float64  `json:"labelledPrice"`
	Price         float64  `json:"price"`
	Images        []string `json:"images"`
	Stock         int      `json:"stock"`
	IsAvailable   bool     `json:"isAvailable"`
}

func newProductResponse(product *models.Product) productResponse {
	return productResponse{
		ProductID:     product.ProductID,
		Name:          product.Name,
		AltNames:      product.AltNames,
		Description:   product.Description,
		LabelledPrice: product.LabelledPrice,
		Price:         product.Price,
		Images:        product.Images,
		Stock:         product.Stock,
		IsAvailable:   product.IsAvailable,
	}
}

func (req *productRequest) toModel() *models.Product {
	return &models.Product{
		ProductID:     req.ProductID,
		Name:          req.Name,
		AltNames:      req.AltNames,
		Description:   req.Description,
		LabelledPrice: req.LabelledPrice,
		Price:         req.Price,
		Images:        req.Images,
		Stock:         req.Stock,
		IsAvailable:   req.IsAvailable,
	}
}

// CreateProduct adds a product to the catalog
// 201 — товар создан;
// 400 — неверный формат запроса;
// 403 — пользователь не администратор;
// 409 — идентификатор товара уже занят;
// 500 — внутренняя ошибка сервера.
func (ph *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, _ := getAuthPayload(r.Context(), authPayloadKey)

		var req productRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "bad request")
			return
		}
		defer r.Body.Close()

		if req.ProductID == "" || req.Name == "" {
			writeMessage(w, http.StatusBadRequest, "productId and name are required")
			return
		}

		if _, err := ph.svc.Create(r.Context(), payload, req.toModel()); err != nil {
			switch {
			case errors.Is(err, models.ErrNotAllowed):
				writeMessage(w, http.StatusForbidden, "forbidden - you are not an admin")
			case errors.Is(err, models.ErrConflictData):
				writeMessage(w, http.StatusConflict, "product already exists")
			default:
				logger.Log.Error("create product", zap.Error(err))
				writeMessage(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeMessage(w, http.StatusCreated, "Product created successfully")
	}
}

// ListProducts returns all catalog products
// 200 — успешная обработка запроса;
// 500 — внутренняя ошибка сервера.
func (ph *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := ph.svc.List(r.Context())
		if err != nil {
			logger.Log.Error("list products", zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, newProductListResponse(products))
	}
}

// GetProduct returns a single product
// 200 — успешная обработка запроса;
// 404 — товар не найден;
// 500 — внутренняя ошибка сервера.
func (ph *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := chi.URLParam(r, "productId")

		product, err := ph.svc.GetProductByProductID(r.Context(), productID)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				writeMessage(w, http.StatusNotFound, "product not found")
				return
			}
			logger.Log.Error("get product", zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, newProductResponse(product))
	}
}

// SearchProducts returns products matching the query
// 200 — успешная обработка запроса;
// 500 — внутренняя ошибка сервера.
func (ph *ProductHandler) SearchProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := chi.URLParam(r, "query")

		products, err := ph.svc.Search(r.Context(), query)
		if err != nil {
			logger.Log.Error("search products", zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, newProductListResponse(products))
	}
}

type updateProductResponse struct {
	Message string          `json:"message"`
	Product productResponse `json:"product"`
}

// UpdateProduct replaces product fields
// 200 — товар обновлён;
// 400 — неверный формат запроса;
// 403 — пользователь не администратор;
// 404 — товар не найден;
// 500 — внутренняя ошибка сервера.
func (ph *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, _ := getAuthPayload(r.Context(), authPayloadKey)

		var req productRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "bad request")
			return
		}
		defer r.Body.Close()

		product := req.toModel()
		product.ProductID = chi.URLParam(r, "productId")

		updated, err := ph.svc.Update(r.Context(), payload, product)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrNotAllowed):
				writeMessage(w, http.StatusForbidden, "forbidden - you are not an admin")
			case errors.Is(err, models.ErrDataNotFound):
				writeMessage(w, http.StatusNotFound, "product not found")
			default:
				logger.Log.Error("update product", zap.Error(err))
				writeMessage(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, updateProductResponse{
			Message: "Product updated successfully",
			Product: newProductResponse(updated),
		})
	}
}

// DeleteProduct removes a product from the catalog
// 200 — товар удалён;
// 403 — пользователь не администратор;
// 404 — товар не найден;
// 500 — внутренняя ошибка сервера.
func (ph *ProductHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, _ := getAuthPayload(r.Context(), authPayloadKey)

		productID := chi.URLParam(r, "productId")

		if err := ph.svc.Delete(r.Context(), payload, productID); err != nil {
			switch {
			case errors.Is(err, models.ErrNotAllowed):
				writeMessage(w, http.StatusForbidden, "forbidden - you are not an admin")
			case errors.Is(err, models.ErrDataNotFound):
				writeMessage(w, http.StatusNotFound, "product not found")
			default:
				logger.Log.Error("delete product", zap.Error(err))
				writeMessage(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeMessage(w, http.StatusOK, "Product deleted successfully")
	}
}

func newProductListResponse(products []models.Product) []productResponse {
	resp := make([]productResponse, 0, len(products))
	for i := range products {
		resp = append(resp, newProductResponse(&products[i]))
	}
	return resp
}
