package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/zaiqa-kitchen/api/internal/database"
	"github.com/zaiqa-kitchen/api/internal/enum"
	"github.com/zaiqa-kitchen/api/internal/notify"
	"github.com/zaiqa-kitchen/api/internal/service"
	"github.com/zaiqa-kitchen/api/internal/ws"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	Checkout(ctx context.Context, req service.CheckoutRequest) (*service.CheckoutResult, error)
}

// OrderStore defines the database methods needed by order read/update handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	ListOrderItemVariationsByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]database.OrderItemVariation, error)
	ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.Payment, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	CountOrdersSince(ctx context.Context, since time.Time) (int64, error)
}

// Broadcaster pushes order events to connected WebSocket clients.
// Satisfied by *ws.Hub; nil disables broadcasting.
type Broadcaster interface {
	BroadcastOrderEvent(orderNumber string, event ws.Event)
}

// Notifier dispatches new-order messages to the kitchen.
// Satisfied by *notify.WhatsAppNotifier; nil disables notifications.
type Notifier interface {
	NotifyNewOrder(summary notify.OrderSummary)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc      OrderServicer
	store    OrderStore
	hub      Broadcaster
	notifier Notifier
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer, store OrderStore, hub Broadcaster, notifier Notifier) *OrderHandler {
	return &OrderHandler{svc: svc, store: store, hub: hub, notifier: notifier}
}

// RegisterRoutes registers the admin order endpoints on the given Chi router.
// Expected to be mounted at /orders.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/stats", h.Stats)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Delete("/{id}", h.Cancel)
}

// RegisterPublicRoutes registers the storefront order endpoints.
func (h *OrderHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/orders", h.Create)
	r.Get("/orders/number/{number}", h.GetByNumber)
}

// --- Request / Response types ---

type createOrderRequest struct {
	SessionID       string `json:"session_id"`
	OrderType       string `json:"order_type"`
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	TableNumber     string `json:"table_number"`
	DeliveryAddress string `json:"delivery_address"`
	Notes           string `json:"notes"`
}

type updateOrderStatusRequest struct {
	Status     string `json:"status"`
	FromStatus string `json:"from_status"`
}

type orderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	OrderType       string              `json:"order_type"`
	Status          string              `json:"status"`
	CustomerName    string              `json:"customer_name"`
	CustomerPhone   *string             `json:"customer_phone"`
	TableNumber     *string             `json:"table_number"`
	DeliveryAddress *string             `json:"delivery_address"`
	Notes           *string             `json:"notes"`
	Subtotal        string              `json:"subtotal"`
	TotalAmount     string              `json:"total_amount"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Items           []orderItemResponse `json:"items,omitempty"`
	Payments        []paymentResponse   `json:"payments,omitempty"`
}

type orderItemResponse struct {
	ID         uuid.UUID `json:"id"`
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Title      string    `json:"title"`
	Quantity   int32     `json:"quantity"`
	UnitPrice  string    `json:"unit_price"`
	Subtotal   string    `json:"subtotal"`
	ImageURL   *string   `json:"image_url"`
	Variations []string  `json:"variations"`
}

type orderStatsResponse struct {
	OrdersToday int64 `json:"orders_today"`
}

func toOrderResponse(o database.Order) orderResponse {
	resp := orderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		OrderType:    o.OrderType,
		Status:       o.Status,
		CustomerName: o.CustomerName,
		Subtotal:     formatNumeric(o.Subtotal),
		TotalAmount:  formatNumeric(o.TotalAmount),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
	if o.CustomerPhone.Valid {
		resp.CustomerPhone = &o.CustomerPhone.String
	}
	if o.TableNumber.Valid {
		resp.TableNumber = &o.TableNumber.String
	}
	if o.DeliveryAddress.Valid {
		resp.DeliveryAddress = &o.DeliveryAddress.String
	}
	if o.Notes.Valid {
		resp.Notes = &o.Notes.String
	}
	return resp
}

func toOrderItemResponse(it database.OrderItem, variations []database.OrderItemVariation) orderItemResponse {
	resp := orderItemResponse{
		ID:         it.ID,
		MenuItemID: it.MenuItemID,
		Title:      it.Title,
		Quantity:   it.Quantity,
		UnitPrice:  formatNumeric(it.UnitPrice),
		Subtotal:   formatNumeric(it.Subtotal),
		Variations: make([]string, len(variations)),
	}
	if it.ImageUrl.Valid {
		resp.ImageURL = &it.ImageUrl.String
	}
	for i, v := range variations {
		resp.Variations[i] = v.OptionName
	}
	return resp
}

// orderEventPayload is the wire shape of order broadcasts.
type orderEventPayload struct {
	OrderNumber string `json:"order_number"`
	OrderType   string `json:"order_type"`
	Status      string `json:"status"`
	TotalAmount string `json:"total_amount"`
}

func (h *OrderHandler) broadcast(eventType string, o database.Order) {
	if h.hub == nil {
		return
	}
	event, err := ws.NewEvent(eventType, orderEventPayload{
		OrderNumber: o.OrderNumber,
		OrderType:   o.OrderType,
		Status:      o.Status,
		TotalAmount: formatNumeric(o.TotalAmount),
	})
	if err != nil {
		log.Printf("ERROR: marshal order event: %v", err)
		return
	}
	h.hub.BroadcastOrderEvent(o.OrderNumber, event)
}

// --- Status transitions ---

// allowedTransitions defines valid status transitions.
// Key is current status, value is the set of statuses it can transition to.
var allowedTransitions = map[string][]string{
	enum.OrderStatusNew:       {enum.OrderStatusPreparing, enum.OrderStatusCancelled},
	enum.OrderStatusPreparing: {enum.OrderStatusReady, enum.OrderStatusCancelled},
	enum.OrderStatusReady:     {enum.OrderStatusCompleted, enum.OrderStatusCancelled},
}

// validateStatusTransition checks if the transition from current to next is allowed.
func validateStatusTransition(current, next string) error {
	allowed, ok := allowedTransitions[current]
	if !ok {
		return fmt.Errorf("cannot transition from %s", current)
	}
	for _, s := range allowed {
		if s == next {
			return nil
		}
	}
	return fmt.Errorf("cannot transition from %s to %s", current, next)
}

// --- Handlers ---

// Create turns the session's cart into an order.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.SessionID == "" {
		req.SessionID = r.Header.Get(sessionHeader)
	}
	if req.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session_id is required"})
		return
	}

	result, err := h.svc.Checkout(r.Context(), service.CheckoutRequest{
		SessionID:       req.SessionID,
		OrderType:       req.OrderType,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		TableNumber:     req.TableNumber,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart),
			errors.Is(err, service.ErrInvalidOrderType),
			errors.Is(err, service.ErrCustomerName),
			errors.Is(err, service.ErrTableNumber),
			errors.Is(err, service.ErrDeliveryAddress):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: checkout: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	resp := toOrderResponse(result.Order)
	resp.Items = make([]orderItemResponse, len(result.Items))
	for i, it := range result.Items {
		resp.Items[i] = toOrderItemResponse(it.Item, it.Variations)
	}

	h.broadcast("order.created", result.Order)
	h.notifyNewOrder(result)

	writeJSON(w, http.StatusCreated, resp)
}

func (h *OrderHandler) notifyNewOrder(result *service.CheckoutResult) {
	if h.notifier == nil {
		return
	}
	o := result.Order
	summary := notify.OrderSummary{
		OrderNumber:   o.OrderNumber,
		OrderType:     o.OrderType,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone.String,
		TotalAmount:   numericToDecimal(o.TotalAmount),
		Lines:         make([]notify.OrderLine, len(result.Items)),
	}
	for i, it := range result.Items {
		variations := make([]string, len(it.Variations))
		for j, v := range it.Variations {
			variations[j] = v.OptionName
		}
		summary.Lines[i] = notify.OrderLine{
			Title:      it.Item.Title,
			Quantity:   it.Item.Quantity,
			Variations: variations,
		}
	}
	h.notifier.NotifyNewOrder(summary)
}

// GetByNumber returns an order by its public order number, for tracking.
func (h *OrderHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	order, err := h.store.GetOrderByNumber(r.Context(), number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order by number: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp, err := h.withItems(r.Context(), order)
	if err != nil {
		log.Printf("ERROR: load order items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// List returns orders, newest first, with optional filters:
// ?status=, ?order_type=, ?start_date=, ?end_date= (RFC3339), ?limit=, ?offset=.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	params := database.ListOrdersParams{Limit: 50}

	q := r.URL.Query()
	if s := q.Get("status"); s != "" {
		params.Status = pgtype.Text{String: s, Valid: true}
	}
	if s := q.Get("order_type"); s != "" {
		params.OrderType = pgtype.Text{String: s, Valid: true}
	}
	if s := q.Get("start_date"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start_date"})
			return
		}
		params.StartDate = pgtype.Timestamptz{Time: t, Valid: true}
	}
	if s := q.Get("end_date"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid end_date"})
			return
		}
		params.EndDate = pgtype.Timestamptz{Time: t, Valid: true}
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil || n < 1 || n > 200 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		params.Limit = int32(n)
	}
	if s := q.Get("offset"); s != "" {
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid offset"})
			return
		}
		params.Offset = int32(n)
	}

	orders, err := h.store.ListOrders(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Stats returns the order count since the kitchen's local midnight, shown
// in the live-orders dashboard header.
func (h *OrderHandler) Stats(w http.ResponseWriter, r *http.Request) {
	now := time.Now().In(kitchenLocation())
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	count, err := h.store.CountOrdersSince(r.Context(), midnight)
	if err != nil {
		log.Printf("ERROR: count orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, orderStatsResponse{OrdersToday: count})
}

// Get returns a single order with its items and payments.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp, err := h.withItems(r.Context(), order)
	if err != nil {
		log.Printf("ERROR: load order items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	payments, err := h.store.ListPaymentsByOrder(r.Context(), order.ID)
	if err != nil {
		log.Printf("ERROR: list payments: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	resp.Payments = make([]paymentResponse, len(payments))
	for i, p := range payments {
		resp.Payments[i] = toPaymentResponse(p)
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateStatus advances an order through the status state machine.
// from_status makes the compare-and-set explicit; when omitted it defaults
// to the order's current status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status is required"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	fromStatus := req.FromStatus
	if fromStatus == "" {
		fromStatus = order.Status
	}

	if err := validateStatusTransition(fromStatus, req.Status); err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}

	updated, err := h.store.UpdateOrderStatus(r.Context(), database.UpdateOrderStatusParams{
		Status:     req.Status,
		ID:         id,
		FromStatus: fromStatus,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// CAS lost: someone else moved the order first.
			writeJSON(w, http.StatusConflict, map[string]string{"error": "order status has changed, refresh and retry"})
			return
		}
		log.Printf("ERROR: update order status: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcast("order.status_updated", updated)

	writeJSON(w, http.StatusOK, toOrderResponse(updated))
}

// Cancel cancels an order unless it is already completed or cancelled.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	if _, err := h.store.GetOrder(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	order, err := h.store.CancelOrder(r.Context(), id)
	if err != nil {
		// The cancel UPDATE matches nothing when the order is already in a
		// terminal status, so ErrNoRows here means a state conflict.
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "order cannot be cancelled"})
			return
		}
		log.Printf("ERROR: cancel order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcast("order.cancelled", order)

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// --- Helpers ---

func (h *OrderHandler) withItems(ctx context.Context, order database.Order) (orderResponse, error) {
	resp := toOrderResponse(order)

	items, err := h.store.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return orderResponse{}, err
	}
	resp.Items = make([]orderItemResponse, len(items))
	for i, it := range items {
		variations, err := h.store.ListOrderItemVariationsByOrderItem(ctx, it.ID)
		if err != nil {
			return orderResponse{}, err
		}
		resp.Items[i] = toOrderItemResponse(it, variations)
	}
	return resp, nil
}
