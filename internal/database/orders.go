package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const getNextOrderNumber = `
SELECT COALESCE(MAX(CAST(SUBSTRING(order_number FROM '[0-9]+$') AS INTEGER)), 0) + 1
FROM orders
WHERE order_number LIKE $1 || '%'
`

// GetNextOrderNumber returns the next sequential counter for order numbers
// sharing the given date prefix (e.g. "ZQ-20260901-"). The counter restarts
// each day because the prefix changes. Callers must hold a transaction and
// retry on unique violations; concurrent readers can get the same MAX.
func (q *Queries) GetNextOrderNumber(ctx context.Context, prefix string) (int32, error) {
	var n int32
	err := q.db.QueryRow(ctx, getNextOrderNumber, prefix).Scan(&n)
	return n, err
}

const orderColumns = `id, order_number, order_type, status, customer_name,
customer_phone, table_number, delivery_address, notes, subtotal,
total_amount, created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.OrderType, &o.Status, &o.CustomerName,
		&o.CustomerPhone, &o.TableNumber, &o.DeliveryAddress, &o.Notes,
		&o.Subtotal, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

const createOrder = `
INSERT INTO orders (
	order_number, order_type, status, customer_name, customer_phone,
	table_number, delivery_address, notes, subtotal, total_amount
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + orderColumns

type CreateOrderParams struct {
	OrderNumber     string
	OrderType       string
	Status          string
	CustomerName    string
	CustomerPhone   pgtype.Text
	TableNumber     pgtype.Text
	DeliveryAddress pgtype.Text
	Notes           pgtype.Text
	Subtotal        pgtype.Numeric
	TotalAmount     pgtype.Numeric
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, createOrder,
		arg.OrderNumber, arg.OrderType, arg.Status, arg.CustomerName, arg.CustomerPhone,
		arg.TableNumber, arg.DeliveryAddress, arg.Notes, arg.Subtotal, arg.TotalAmount,
	))
}

const createOrderItem = `
INSERT INTO order_items (order_id, menu_item_id, title, quantity, unit_price, subtotal, image_url)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, order_id, menu_item_id, title, quantity, unit_price, subtotal, image_url
`

type CreateOrderItemParams struct {
	OrderID    uuid.UUID
	MenuItemID uuid.UUID
	Title      string
	Quantity   int32
	UnitPrice  pgtype.Numeric
	Subtotal   pgtype.Numeric
	ImageUrl   pgtype.Text
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	var it OrderItem
	err := q.db.QueryRow(ctx, createOrderItem,
		arg.OrderID, arg.MenuItemID, arg.Title, arg.Quantity, arg.UnitPrice, arg.Subtotal, arg.ImageUrl,
	).Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Title, &it.Quantity, &it.UnitPrice, &it.Subtotal, &it.ImageUrl)
	return it, err
}

const createOrderItemVariation = `
INSERT INTO order_item_variations (order_item_id, option_name, sort_order)
VALUES ($1, $2, $3)
RETURNING id, order_item_id, option_name, sort_order
`

type CreateOrderItemVariationParams struct {
	OrderItemID uuid.UUID
	OptionName  string
	SortOrder   int32
}

func (q *Queries) CreateOrderItemVariation(ctx context.Context, arg CreateOrderItemVariationParams) (OrderItemVariation, error) {
	var v OrderItemVariation
	err := q.db.QueryRow(ctx, createOrderItemVariation,
		arg.OrderItemID, arg.OptionName, arg.SortOrder,
	).Scan(&v.ID, &v.OrderItemID, &v.OptionName, &v.SortOrder)
	return v, err
}

const getOrder = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrder, id))
}

const getOrderByNumber = `
SELECT ` + orderColumns + `
FROM orders
WHERE order_number = $1
`

func (q *Queries) GetOrderByNumber(ctx context.Context, orderNumber string) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderByNumber, orderNumber))
}

const listOrders = `
SELECT ` + orderColumns + `
FROM orders
WHERE ($1::text IS NULL OR status = $1)
  AND ($2::text IS NULL OR order_type = $2)
  AND ($3::timestamptz IS NULL OR created_at >= $3)
  AND ($4::timestamptz IS NULL OR created_at < $4)
ORDER BY created_at DESC
LIMIT $5 OFFSET $6
`

type ListOrdersParams struct {
	Status    pgtype.Text
	OrderType pgtype.Text
	StartDate pgtype.Timestamptz
	EndDate   pgtype.Timestamptz
	Limit     int32
	Offset    int32
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrders,
		arg.Status, arg.OrderType, arg.StartDate, arg.EndDate, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

const listOrderItemsByOrder = `
SELECT id, order_id, menu_item_id, title, quantity, unit_price, subtotal, image_url
FROM order_items
WHERE order_id = $1
ORDER BY id
`

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItemsByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Title,
			&it.Quantity, &it.UnitPrice, &it.Subtotal, &it.ImageUrl); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

const listOrderItemVariationsByOrderItem = `
SELECT id, order_item_id, option_name, sort_order
FROM order_item_variations
WHERE order_item_id = $1
ORDER BY sort_order
`

func (q *Queries) ListOrderItemVariationsByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]OrderItemVariation, error) {
	rows, err := q.db.Query(ctx, listOrderItemVariationsByOrderItem, orderItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderItemVariation
	for rows.Next() {
		var v OrderItemVariation
		if err := rows.Scan(&v.ID, &v.OrderItemID, &v.OptionName, &v.SortOrder); err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

const updateOrderStatus = `
UPDATE orders
SET status = $1, updated_at = now()
WHERE id = $2 AND status = $3
RETURNING ` + orderColumns

type UpdateOrderStatusParams struct {
	Status     string
	ID         uuid.UUID
	FromStatus string
}

// UpdateOrderStatus performs a compare-and-set on the status column so a
// concurrent transition loses with pgx.ErrNoRows instead of clobbering.
func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderStatus, arg.Status, arg.ID, arg.FromStatus))
}

const cancelOrder = `
UPDATE orders
SET status = 'CANCELLED', updated_at = now()
WHERE id = $1 AND status NOT IN ('COMPLETED', 'CANCELLED')
RETURNING ` + orderColumns

func (q *Queries) CancelOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, cancelOrder, id))
}

// CountOrdersSince is used by the live-orders dashboard header.
const countOrdersSince = `
SELECT COUNT(*) FROM orders WHERE created_at >= $1
`

func (q *Queries) CountOrdersSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countOrdersSince, since).Scan(&n)
	return n, err
}
