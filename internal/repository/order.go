package repository

import (
	"context"
	"errors"

	"github.com/agstore/storefront/internal/models"
	"github.com/agstore/storefront/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const (
	insertOrderQuery = `
						INSERT INTO orders (order_id, email, name, phone, address, status, labelled_total, total)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
						RETURNING id, created_at
`
	insertOrderItemQuery = `
						INSERT INTO order_items (order_ref, position, product_id, name, alt_names, description, images, labelled_price, price, quantity)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	selectLastOrderQuery = `
						SELECT id, order_id, email, name, phone, address, status, labelled_total, total, created_at
						FROM orders
						ORDER BY created_at DESC, id DESC
						LIMIT 1
`
	selectOrdersQuery = `
						SELECT id, order_id, email, name, phone, address, status, labelled_total, total, created_at
						FROM orders
						ORDER BY created_at DESC
`
	selectOrdersByEmailQuery = `
						SELECT id, order_id, email, name, phone, address, status, labelled_total, total, created_at
						FROM orders
						WHERE email = $1
						ORDER BY created_at DESC
`
	selectOrderItemsQuery = `
						SELECT product_id, name, alt_names, description, images, labelled_price, price, quantity
						FROM order_items
						WHERE order_ref = $1
						ORDER BY position
`
	updateOrderStatusQuery = `
						UPDATE orders
						SET status = $2
						WHERE order_id = $1
						RETURNING id, order_id, email, name, phone, address, status, labelled_total, total, created_at
`
	deleteOrdersByEmailQuery = `
						DELETE FROM orders
						WHERE email = $1
`
)

// OrderRepository implements OrderRepository interface
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder inserts the order and its line items in a single transaction.
// A colliding order id yields models.ErrConflictData and nothing is written.
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	tx, err := or.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, insertOrderQuery,
		order.OrderID, order.Email, order.Name, order.Phone, order.Address,
		order.Status, order.LabelledTotal, order.Total,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	for i, item := range order.Items {
		_, err = tx.Exec(ctx, insertOrderItemQuery,
			order.ID, i, item.ProductID, item.Name, item.AltNames, item.Description,
			item.Images, item.LabelledPrice, item.Price, item.Quantity,
		)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return order, nil
}

// GetLastOrder returns the most recently created order
func (or *OrderRepository) GetLastOrder(ctx context.Context) (*models.Order, error) {
	order := models.Order{}
	err := or.db.QueryRow(ctx, selectLastOrderQuery).Scan(
		&order.ID, &order.OrderID, &order.Email, &order.Name, &order.Phone, &order.Address,
		&order.Status, &order.LabelledTotal, &order.Total, &order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

// GetOrders returns all orders with their line items
func (or *OrderRepository) GetOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, selectOrdersQuery)
	if err != nil {
		return nil, err
	}

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}

	return or.attachItems(ctx, orders)
}

// GetOrdersByEmail returns orders of a single purchaser with their line items
func (or *OrderRepository) GetOrdersByEmail(ctx context.Context, email string) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, selectOrdersByEmailQuery, email)
	if err != nil {
		return nil, err
	}

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}

	return or.attachItems(ctx, orders)
}

// UpdateOrderStatus sets the order status and returns the updated order
func (or *OrderRepository) UpdateOrderStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	order := models.Order{}
	err := or.db.QueryRow(ctx, updateOrderStatusQuery, orderID, status).Scan(
		&order.ID, &order.OrderID, &order.Email, &order.Name, &order.Phone, &order.Address,
		&order.Status, &order.LabelledTotal, &order.Total, &order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	items, err := or.getItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

// DeleteOrdersByEmail removes all orders of the given purchaser.
// Line items go with them via the foreign key cascade.
func (or *OrderRepository) DeleteOrdersByEmail(ctx context.Context, email string) (int64, error) {
	cmd, err := or.db.Exec(ctx, deleteOrdersByEmailQuery, email)
	if err != nil {
		return 0, err
	}

	return cmd.RowsAffected(), nil
}

func (or *OrderRepository) attachItems(ctx context.Context, orders []models.Order) ([]models.Order, error) {
	for i := range orders {
		items, err := or.getItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (or *OrderRepository) getItems(ctx context.Context, orderRef uint64) ([]models.OrderItem, error) {
	rows, err := or.db.Query(ctx, selectOrderItemsQuery, orderRef)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}

	for rows.Next() {
		item := models.OrderItem{}
		err = rows.Scan(&item.ProductID, &item.Name, &item.AltNames, &item.Description,
			&item.Images, &item.LabelledPrice, &item.Price, &item.Quantity)
		if err != nil {
			continue
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func scanOrders(rows pgx.Rows) ([]models.Order, error) {
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order := models.Order{}
		err := rows.Scan(
			&order.ID, &order.OrderID, &order.Email, &order.Name, &order.Phone, &order.Address,
			&order.Status, &order.LabelledTotal, &order.Total, &order.CreatedAt,
		)
		if err != nil {
			continue
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
