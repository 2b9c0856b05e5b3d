package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agstore/storefront/internal/handler/http/mocks"
	"github.com/agstore/storefront/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProductHandler_CreateProduct(t *testing.T) {
	tests := []struct {
		name           string
		token          *models.TokenPayload
		body           string
		setup          func(t *testing.T) *mocks.MockCatalogService
		wantStatusCode int
	}{
		{
			// 201 — товар создан.
			name: "valid_request_return_201",
			token: &models.TokenPayload{
				Email: "admin@example.com",
				Role:  models.RoleAdmin,
			},
			body: `{"productId":"SKU1","name":"Face Cream","labelledPrice":120,"price":100,"stock":10,"isAvailable":true}`,
			setup: func(t *testing.T) *mocks.MockCatalogService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockCatalogService(ctrl)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(&models.Product{
					ProductID: "SKU1",
					Name:      "Face Cream",
				}, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			// 400 — неверный формат запроса(нет идентификатора).
			name: "missing_product_id_return_400",
			token: &models.TokenPayload{
				Email: "admin@example.com",
				Role:  models.RoleAdmin,
			},
			body: `{"name":"Face Cream"}`,
			setup: func(t *testing.T) *mocks.MockCatalogService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockCatalogService(ctrl)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 403 — пользователь не администратор.
			name: "customer_request_return_403",
			token: &models.TokenPayload{
				Email: "jane@example.com",
				Role:  models.RoleCustomer,
			},
			body: `{"productId":"SKU1","name":"Face Cream"}`,
			setup: func(t *testing.T) *mocks.MockCatalogService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockCatalogService(ctrl)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, models.ErrNotAllowed).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusForbidden,
		},
		{
			// 409 — идентификатор товара уже занят.
			name: "duplicate_product_id_return_409",
			token: &models.TokenPayload{
				Email: "admin@example.com",
				Role:  models.RoleAdmin,
			},
			body: `{"productId":"SKU1","name":"Face Cream"}`,
			setup: func(t *testing.T) *mocks.MockCatalogService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockCatalogService(ctrl)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, models.ErrConflictData).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			// 500 — внутренняя ошибка сервера.
			name: "internal_error_return_500",
			token: &models.TokenPayload{
				Email: "admin@example.com",
				Role:  models.RoleAdmin,
			},
			body: `{"productId":"SKU1","name":"Face Cream"}`,
			setup: func(t *testing.T) *mocks.MockCatalogService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockCatalogService(ctrl)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, models.ErrInternalError).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "/api/products", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal("cannot create request", zap.Error(err))
			}

			w := httptest.NewRecorder()
			st := tt.setup(t)
			ctx := context.WithValue(req.Context(), authPayloadKey, tt.token)

			handler := NewProductHandler(st)
			h := handler.CreateProduct()
			h(w, req.WithContext(ctx))

			res := w.Result()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
			defer res.Body.Close()
		})
	}
}

func TestProductHandler_GetProduct(t *testing.T) {
	tests := []struct {
		name           string
		productID      string
		setup          func(t *testing.T) *mocks.MockCatalogService
		wantStatusCode int
		wantBody       *productResponse
	}{
		{
			// 200 — успешная обработка запроса.
			name:      "valid_request_return_200",
			productID: "SKU1",
			setup: func(t *testing.T) *mocks.MockCatalogService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockCatalogService(ctrl)
				svcMock.EXPECT().GetProductByProductID(gomock.Any(), gomock.Any()).Return(&models.Product{
					ProductID:     "SKU1",
					Name:          "Face Cream",
					AltNames:      []string{"cream"},
					Description:   "hydrating",
					LabelledPrice: 120,
					Price:         100,
					Images:        []string{"cream.png"},
					Stock:         10,
					IsAvailable:   true,
				}, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody: &productResponse{
				ProductID:     "SKU1",
				Name:          "Face Cream",
				AltNames:      []string{"cream"},
				Description:   "hydrating",
				LabelledPrice: 120,
				Price:         100,
				Images:        []string{"cream.png"},
				Stock:         10,
				IsAvailable:   true,
			},
		},
		{
			// 404 — товар не найден.
			name:      "unknown_product_return_404",
			productID: "GHOST",
			setup: func(t *testing.T) *mocks.MockCatalogService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockCatalogService(ctrl)
				svcMock.EXPECT().GetProductByProductID(gomock.Any(), gomock.Any()).Return(nil, models.ErrDataNotFound).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			// 500 — внутренняя ошибка сервера.
			name:      "internal_error_return_500",
			productID: "SKU1",
			setup: func(t *testing.T) *mocks.MockCatalogService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockCatalogService(ctrl)
				svcMock.EXPECT().GetProductByProductID(gomock.Any(), gomock.Any()).Return(nil, models.ErrInternalError).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, "/api/products/"+tt.productID, nil)
			if err != nil {
				t.Fatal("cannot create request", zap.Error(err))
			}

			w := httptest.NewRecorder()
			st := tt.setup(t)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("productId", tt.productID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)

			handler := NewProductHandler(st)
			h := handler.GetProduct()
			h(w, req.WithContext(ctx))

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
			resBody, err := io.ReadAll(res.Body)
			require.NoError(t, err)

			if tt.wantBody != nil {
				var got productResponse
				err = json.Unmarshal(resBody, &got)
				require.NoError(t, err)

				if diff := cmp.Diff(*tt.wantBody, got); diff != "" {
					t.Errorf("mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestProductHandler_DeleteProduct(t *testing.T) {
	tests := []struct {
		name           string
		token          *models.TokenPayload
		setup          func(t *testing.T) *mocks.MockCatalogService
		wantStatusCode int
	}{
		{
			// 200 — товар удалён.
			name: "valid_request_return_200",
			token: &models.TokenPayload{
				Email: "admin@example.com",
				Role:  models.RoleAdmin,
			},
			setup: func(t *testing.T) *mocks.MockCatalogService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockCatalogService(ctrl)
				svcMock.EXPECT().Delete(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			// 403 — пользователь не администратор.
			name: "customer_request_return_403",
			token: &models.TokenPayload{
				Email: "jane@example.com",
				Role:  models.RoleCustomer,
			},
			setup: func(t *testing.T) *mocks.MockCatalogService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockCatalogService(ctrl)
				svcMock.EXPECT().Delete(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.ErrNotAllowed).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusForbidden,
		},
		{
			// 404 — товар не найден.
			name: "unknown_product_return_404",
			token: &models.TokenPayload{
				Email: "admin@example.com",
				Role:  models.RoleAdmin,
			},
			setup: func(t *testing.T) *mocks.MockCatalogService {

				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockCatalogService(ctrl)
				svcMock.EXPECT().Delete(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.ErrDataNotFound).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodDelete, "/api/products/SKU1", nil)
			if err != nil {
				t.Fatal("cannot create request", zap.Error(err))
			}

			w := httptest.NewRecorder()
			st := tt.setup(t)
			ctx := context.WithValue(req.Context(), authPayloadKey, tt.token)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("productId", "SKU1")
			ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)

			handler := NewProductHandler(st)
			h := handler.DeleteProduct()
			h(w, req.WithContext(ctx))

			res := w.Result()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
			defer res.Body.Close()
		})
	}
}
