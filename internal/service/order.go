// Package service holds the order checkout flow. Handlers validate and
// shape HTTP concerns; this package owns the transactional business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/zaiqa-kitchen/api/internal/cart"
	"github.com/zaiqa-kitchen/api/internal/database"
	"github.com/zaiqa-kitchen/api/internal/enum"
)

const maxOrderNumberRetries = 3

// Errors returned by the order service.
var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidOrderType    = errors.New("invalid order_type")
	ErrCustomerName        = errors.New("customer_name is required")
	ErrTableNumber         = errors.New("table_number is required for DINE_IN orders")
	ErrDeliveryAddress     = errors.New("delivery_address is required for DELIVERY orders")
	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed to create orders.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetNextOrderNumber(ctx context.Context, prefix string) (int32, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	CreateOrderItemVariation(ctx context.Context, arg database.CreateOrderItemVariationParams) (database.OrderItemVariation, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
// This allows the service to create store instances from transactions.
type NewOrderStore func(db database.DBTX) OrderStore

// CheckoutRequest is the validated input for turning a cart into an order.
type CheckoutRequest struct {
	SessionID       string
	OrderType       string
	CustomerName    string
	CustomerPhone   string
	TableNumber     string
	DeliveryAddress string
	Notes           string
}

// CheckoutResult is the full created order with its persisted lines.
type CheckoutResult struct {
	Order database.Order
	Items []OrderItemResult
}

// OrderItemResult is an order line with its flattened variation rows.
type OrderItemResult struct {
	Item       database.OrderItem
	Variations []database.OrderItemVariation
}

// OrderService turns cart sessions into persisted orders.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
	carts    cart.Repository
	now      func() time.Time
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore, carts cart.Repository) *OrderService {
	return &OrderService{pool: pool, newStore: newStore, carts: carts, now: time.Now}
}

// Checkout creates an order from the session's cart atomically, then clears
// the cart. Retries up to maxOrderNumberRetries times on order_number unique
// constraint violations (concurrent checkouts can read the same MAX).
func (s *OrderService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if err := validateCheckout(req); err != nil {
		return nil, err
	}

	c, err := s.carts.Get(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if len(c.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	var result *CheckoutResult
	var lastErr error
	for attempt := 0; attempt < maxOrderNumberRetries; attempt++ {
		result, err = s.checkoutTx(ctx, req, c)
		if err == nil {
			break
		}
		if isOrderNumberConflict(err) {
			lastErr = err
			continue
		}
		return nil, err
	}
	if result == nil {
		return nil, lastErr
	}

	// Cart clear is best-effort: the order exists, a stale cart only
	// inconveniences the customer.
	if err := s.carts.Delete(ctx, req.SessionID); err != nil {
		return result, nil
	}
	return result, nil
}

func validateCheckout(req CheckoutRequest) error {
	switch req.OrderType {
	case enum.OrderTypeDineIn, enum.OrderTypePickup, enum.OrderTypeDelivery:
	default:
		return ErrInvalidOrderType
	}
	if req.CustomerName == "" {
		return ErrCustomerName
	}
	if req.OrderType == enum.OrderTypeDineIn && req.TableNumber == "" {
		return ErrTableNumber
	}
	if req.OrderType == enum.OrderTypeDelivery && req.DeliveryAddress == "" {
		return ErrDeliveryAddress
	}
	return nil
}

// isOrderNumberConflict checks if the error is a unique constraint violation
// on the order number (pgconn error code 23505).
func isOrderNumberConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "orders_order_number_key"
	}
	return false
}

// checkoutTx executes the full order creation in a single transaction.
func (s *OrderService) checkoutTx(ctx context.Context, req CheckoutRequest, c cart.Cart) (*CheckoutResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	// Order numbers reset daily: ZQ-20260901-001, ZQ-20260901-002, ...
	prefix := s.now().Format("ZQ-20060102-")
	nextNum, err := store.GetNextOrderNumber(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("get next order number: %w", err)
	}
	orderNumber := fmt.Sprintf("%s%03d", prefix, nextNum)

	subtotal := c.Subtotal()
	// No tax or service charge yet; total tracks subtotal.
	totalAmount := subtotal

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		OrderNumber:     orderNumber,
		OrderType:       req.OrderType,
		Status:          enum.OrderStatusNew,
		CustomerName:    req.CustomerName,
		CustomerPhone:   textOrNull(req.CustomerPhone),
		TableNumber:     textOrNull(req.TableNumber),
		DeliveryAddress: textOrNull(req.DeliveryAddress),
		Notes:           textOrNull(req.Notes),
		Subtotal:        decimalToNumeric(subtotal),
		TotalAmount:     decimalToNumeric(totalAmount),
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	var itemResults []OrderItemResult
	for i, line := range c.Lines {
		itemID, err := parseLineItemID(line)
		if err != nil {
			return nil, fmt.Errorf("line[%d]: %w", i, err)
		}
		lineSubtotal := line.UnitPrice.Mul(decimal.NewFromInt32(line.Quantity))

		item, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
			OrderID:    order.ID,
			MenuItemID: itemID,
			Title:      line.Title,
			Quantity:   line.Quantity,
			UnitPrice:  decimalToNumeric(line.UnitPrice),
			Subtotal:   decimalToNumeric(lineSubtotal),
			ImageUrl:   textOrNull(line.ImageURL),
		})
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}

		var variations []database.OrderItemVariation
		for j, name := range line.Variations {
			v, err := store.CreateOrderItemVariation(ctx, database.CreateOrderItemVariationParams{
				OrderItemID: item.ID,
				OptionName:  name,
				SortOrder:   int32(j),
			})
			if err != nil {
				return nil, fmt.Errorf("create order item variation: %w", err)
			}
			variations = append(variations, v)
		}

		itemResults = append(itemResults, OrderItemResult{Item: item, Variations: variations})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &CheckoutResult{Order: order, Items: itemResults}, nil
}

// --- Helpers ---

func parseLineItemID(line cart.Line) (uuid.UUID, error) {
	id, err := uuid.Parse(line.MenuItemID)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid menu_item_id %q", line.MenuItemID)
	}
	return id, nil
}

func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
