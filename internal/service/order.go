package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/agstore/storefront/internal/logger"
	"github.com/agstore/storefront/internal/models"
	"go.uber.org/zap"
)

// orderIDDigits is the width of the numeric suffix of an order id.
const orderIDDigits = 5

// maxSequenceRetries bounds how many times order creation recomputes the id
// after losing a sequence race to a concurrent checkout.
const maxSequenceRetries = 3

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateOrder inserts the order and its line items atomically
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetLastOrder returns the most recently created order
	GetLastOrder(ctx context.Context) (*models.Order, error)
	// GetOrders returns all orders
	GetOrders(ctx context.Context) ([]models.Order, error)
	// GetOrdersByEmail returns orders of a single purchaser
	GetOrdersByEmail(ctx context.Context, email string) ([]models.Order, error)
	// UpdateOrderStatus sets the order status and returns the updated order
	UpdateOrderStatus(ctx context.Context, orderID, status string) (*models.Order, error)
}

// CatalogStore resolves product identifiers during order assembly
type CatalogStore interface {
	GetProductByProductID(ctx context.Context, productID string) (*models.Product, error)
}

// EventPublisher publishes order lifecycle events
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event models.OrderEvent) error
}

// OrderLine is a requested cart entry before resolution against the catalog.
type OrderLine struct {
	ProductID string
	Quantity  int
}

// CreateOrderParams carries a checkout request into the order service.
type CreateOrderParams struct {
	Name    string
	Phone   string
	Address string
	Lines   []OrderLine
}

// OrderService implements OrderService interface
type OrderService struct {
	repo      OrderRepository
	catalog   CatalogStore
	publisher EventPublisher
	prefix    string
}

// NewOrderService creates new OrderService instance. The publisher may be nil
// when event delivery is not configured.
func NewOrderService(repo OrderRepository, catalog CatalogStore, publisher EventPublisher, prefix string) *OrderService {
	return &OrderService{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		prefix:    prefix,
	}
}

// nextOrderID derives the identifier following lastOrderID. An empty
// lastOrderID yields the seed value (prefix + 00001).
func (os *OrderService) nextOrderID(lastOrderID string) (string, error) {
	if lastOrderID == "" {
		return fmt.Sprintf("%s%0*d", os.prefix, orderIDDigits, 1), nil
	}

	suffix := strings.TrimPrefix(lastOrderID, os.prefix)
	num, err := strconv.Atoi(suffix)
	if err != nil || suffix == lastOrderID {
		return "", fmt.Errorf("%w: %q", models.ErrMalformedOrderID, lastOrderID)
	}

	return fmt.Sprintf("%s%0*d", os.prefix, orderIDDigits, num+1), nil
}

// sequenceOrderID reads the most recent order and computes the next id
func (os *OrderService) sequenceOrderID(ctx context.Context) (string, error) {
	last, err := os.repo.GetLastOrder(ctx)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return os.nextOrderID("")
		}
		return "", err
	}

	return os.nextOrderID(last.OrderID)
}

// Create assembles and persists an order for the authenticated purchaser.
// Every requested line is resolved against the catalog and its price fields
// are frozen on the order; nothing is written if any line fails to resolve.
func (os *OrderService) Create(ctx context.Context, payload *models.TokenPayload, params CreateOrderParams) (*models.Order, error) {
	if payload == nil {
		return nil, models.ErrNotAllowed
	}
	if len(params.Lines) == 0 {
		return nil, models.ErrEmptyOrder
	}

	name := params.Name
	if name == "" {
		name = payload.FirstName + " " + payload.LastName
	}

	var total, labelledTotal float64
	items := make([]models.OrderItem, 0, len(params.Lines))

	for _, line := range params.Lines {
		if line.Quantity <= 0 {
			return nil, models.ErrInvalidQuantity
		}

		product, err := os.catalog.GetProductByProductID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				return nil, fmt.Errorf("%w: product %s", models.ErrDataNotFound, line.ProductID)
			}
			return nil, err
		}

		if !product.IsAvailable {
			return nil, fmt.Errorf("%w: product %s", models.ErrProductUnavailable, line.ProductID)
		}

		items = append(items, models.OrderItem{
			ProductID:     product.ProductID,
			Name:          product.Name,
			AltNames:      product.AltNames,
			Description:   product.Description,
			Images:        product.Images,
			LabelledPrice: product.LabelledPrice,
			Price:         product.Price,
			Quantity:      line.Quantity,
		})

		total += product.Price * float64(line.Quantity)
		labelledTotal += product.LabelledPrice * float64(line.Quantity)
	}

	order := &models.Order{
		Email:         payload.Email,
		Name:          name,
		Phone:         params.Phone,
		Address:       params.Address,
		Status:        models.OrderStatusPending,
		LabelledTotal: labelledTotal,
		Total:         total,
		Items:         items,
	}

	// Two concurrent checkouts can read the same last order and derive the
	// same id. The unique constraint on order_id rejects the loser, which
	// re-reads and retries.
	for attempt := 0; ; attempt++ {
		orderID, err := os.sequenceOrderID(ctx)
		if err != nil {
			return nil, err
		}
		order.OrderID = orderID

		created, err := os.repo.CreateOrder(ctx, order)
		if err == nil {
			os.publish(ctx, created, "created")
			return created, nil
		}
		if !errors.Is(err, models.ErrConflictData) || attempt >= maxSequenceRetries {
			return nil, err
		}
	}
}

// ListForUser returns all orders for admins and the caller's own orders otherwise
func (os *OrderService) ListForUser(ctx context.Context, payload *models.TokenPayload) ([]models.Order, error) {
	if payload == nil {
		return nil, models.ErrNotAllowed
	}

	if payload.IsAdmin() {
		return os.repo.GetOrders(ctx)
	}

	return os.repo.GetOrdersByEmail(ctx, payload.Email)
}

// UpdateStatus sets the status of an order. Admin only; any enumerated status
// may be set at any time, there is no transition graph.
func (os *OrderService) UpdateStatus(ctx context.Context, payload *models.TokenPayload, orderID, status string) (*models.Order, error) {
	if !payload.IsAdmin() {
		return nil, models.ErrNotAllowed
	}

	if !models.IsValidOrderStatus(status) {
		return nil, models.ErrInvalidStatus
	}

	order, err := os.repo.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}

	os.publish(ctx, order, "status_updated")

	return order, nil
}

// publish sends an order event; failures are logged and never surface.
func (os *OrderService) publish(ctx context.Context, order *models.Order, eventType string) {
	if os.publisher == nil {
		return
	}

	event := models.OrderEvent{
		OrderID:  order.OrderID,
		Email:    order.Email,
		Type:     eventType,
		Status:   order.Status,
		Total:    order.Total,
		Occurred: time.Now(),
	}

	if err := os.publisher.PublishOrderEvent(ctx, event); err != nil {
		logger.Log.Error("publish order event", zap.String("order", order.OrderID), zap.Error(err))
	}
}
