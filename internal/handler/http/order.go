package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/agstore/storefront/internal/logger"
	"github.com/agstore/storefront/internal/middleware"
	"github.com/agstore/storefront/internal/models"
	"github.com/agstore/storefront/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OrderService interface {
	// Create assembles and persists an order for the authenticated purchaser
	Create(ctx context.Context, payload *models.TokenPayload, params service.CreateOrderParams) (*models.Order, error)
	// ListForUser returns all orders for admins and the caller's own orders otherwise
	ListForUser(ctx context.Context, payload *models.TokenPayload) ([]models.Order, error)
	// UpdateStatus sets the status of an order
	UpdateStatus(ctx context.Context, payload *models.TokenPayload, orderID, status string) (*models.Order, error)
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type orderLineRequest struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

type createOrderRequest struct {
	Products []orderLineRequest `json:"products"`
	Name     string             `json:"name"`
	Phone    string             `json:"phone"`
	Address  string             `json:"address"`
}

type orderItemResponse struct {
	ProductID     string   `json:"productId"`
	Name          string   `json:"name"`
	AltNames      []string `json:"altNames"`
	Description   string   `json:"description"`
	Images        []string `json:"images"`
	LabelledPrice float64  `json:"labelledPrice"`
	Price         float64  `json:"price"`
	Quantity      int      `json:"quantity"`
}

type orderResponse struct {
	OrderID       string              `json:"orderId"`
	Email         string              `json:"email"`
	Name          string              `json:"name"`
	Phone         string              `json:"phone"`
	Address       string              `json:"address"`
	Status        string              `json:"status"`
	LabelledTotal float64             `json:"labelledTotal"`
	Total         float64             `json:"total"`
	Products      []orderItemResponse `json:"products"`
	Date          string              `json:"date"`
}

type createOrderResponse struct {
	Message string        `json:"message"`
	Order   orderResponse `json:"order"`
}

func newOrderResponse(order *models.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ProductID:     item.ProductID,
			Name:          item.Name,
			AltNames:      item.AltNames,
			Description:   item.Description,
			Images:        item.Images,
			LabelledPrice: item.LabelledPrice,
			Price:         item.Price,
			Quantity:      item.Quantity,
		})
	}

	return orderResponse{
		OrderID:       order.OrderID,
		Email:         order.Email,
		Name:          order.Name,
		Phone:         order.Phone,
		Address:       order.Address,
		Status:        order.Status,
		LabelledTotal: order.LabelledTotal,
		Total:         order.Total,
		Products:      items,
		Date:          order.CreatedAt.Format(time.RFC3339),
	}
}

// CreateOrder creates an order from the submitted cart
// 201 — заказ создан;
// 400 — неверный формат запроса;
// 403 — пользователь не аутентифицирован;
// 404 — товар не найден или недоступен;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		success := false
		defer func() { middleware.RecordOrderOperation("create", success) }()

		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok || payload == nil {
			writeMessage(w, http.StatusForbidden, "forbidden - no user found")
			return
		}

		var req createOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "bad request")
			return
		}
		defer r.Body.Close()

		if req.Phone == "" || req.Address == "" {
			writeMessage(w, http.StatusBadRequest, "phone and address are required")
			return
		}

		lines := make([]service.OrderLine, 0, len(req.Products))
		for _, p := range req.Products {
			lines = append(lines, service.OrderLine{ProductID: p.ProductID, Quantity: p.Qty})
		}

		order, err := oh.svc.Create(r.Context(), payload, service.CreateOrderParams{
			Name:    req.Name,
			Phone:   req.Phone,
			Address: req.Address,
			Lines:   lines,
		})
		if err != nil {
			switch {
			case errors.Is(err, models.ErrEmptyOrder), errors.Is(err, models.ErrInvalidQuantity):
				writeMessage(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, models.ErrDataNotFound), errors.Is(err, models.ErrProductUnavailable):
				writeMessage(w, http.StatusNotFound, err.Error())
			case errors.Is(err, models.ErrNotAllowed):
				writeMessage(w, http.StatusForbidden, "forbidden - no user found")
			default:
				logger.Log.Error("create order", zap.Error(err))
				writeMessage(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		success = true
		writeJSON(w, http.StatusCreated, createOrderResponse{
			Message: "Order created successfully",
			Order:   newOrderResponse(order),
		})
	}
}

// ListOrders returns orders visible to the caller
// 200 — успешная обработка запроса;
// 403 — пользователь не аутентифицирован;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		success := false
		defer func() { middleware.RecordOrderOperation("list", success) }()

		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok || payload == nil {
			writeMessage(w, http.StatusForbidden, "forbidden - authentication required")
			return
		}

		orders, err := oh.svc.ListForUser(r.Context(), payload)
		if err != nil {
			logger.Log.Error("list orders", zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "internal server error")
			return
		}

		resp := make([]orderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, newOrderResponse(&orders[i]))
		}

		success = true
		writeJSON(w, http.StatusOK, resp)
	}
}

type updateOrderStatusResponse struct {
	Message string        `json:"message"`
	Order   orderResponse `json:"order"`
}

// UpdateOrderStatus sets the status of an order
// 200 — статус обновлён;
// 400 — неверное значение статуса;
// 403 — пользователь не администратор;
// 404 — заказ не найден;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) UpdateOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		success := false
		defer func() { middleware.RecordOrderOperation("update_status", success) }()

		payload, _ := getAuthPayload(r.Context(), authPayloadKey)

		orderID := chi.URLParam(r, "orderId")
		status := chi.URLParam(r, "status")

		order, err := oh.svc.UpdateStatus(r.Context(), payload, orderID, status)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrNotAllowed):
				writeMessage(w, http.StatusForbidden, "forbidden - you are not an admin")
			case errors.Is(err, models.ErrInvalidStatus):
				writeMessage(w, http.StatusBadRequest, "invalid status")
			case errors.Is(err, models.ErrDataNotFound):
				writeMessage(w, http.StatusNotFound, "order not found")
			default:
				logger.Log.Error("update order status", zap.Error(err))
				writeMessage(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		success = true
		writeJSON(w, http.StatusOK, updateOrderStatusResponse{
			Message: "Order status updated successfully",
			Order:   newOrderResponse(order),
		})
	}
}
