package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/zaiqa-kitchen/api/internal/database"
	"github.com/zaiqa-kitchen/api/internal/enum"
)

// PaymentStore defines the database methods needed by payment handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type PaymentStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	CreatePayment(ctx context.Context, arg database.CreatePaymentParams) (database.Payment, error)
	ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.Payment, error)
	GetCompletedPaymentTotal(ctx context.Context, orderID uuid.UUID) (pgtype.Numeric, error)
}

// PaymentHandler handles payment endpoints.
type PaymentHandler struct {
	store PaymentStore
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(store PaymentStore) *PaymentHandler {
	return &PaymentHandler{store: store}
}

// RegisterRoutes registers payment endpoints on the given Chi router.
// Expected to be mounted at /orders alongside the order routes.
func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Post("/{id}/payments", h.Create)
	r.Get("/{id}/payments", h.List)
}

// --- Request / Response types ---

type createPaymentRequest struct {
	PaymentMethod   string `json:"payment_method"`
	Amount          string `json:"amount"`
	AmountReceived  string `json:"amount_received"`
	ReferenceNumber string `json:"reference_number"`
}

type paymentResponse struct {
	ID              uuid.UUID `json:"id"`
	OrderID         uuid.UUID `json:"order_id"`
	PaymentMethod   string    `json:"payment_method"`
	Amount          string    `json:"amount"`
	Status          string    `json:"status"`
	ReferenceNumber *string   `json:"reference_number"`
	AmountReceived  *string   `json:"amount_received"`
	ChangeAmount    *string   `json:"change_amount"`
	ProcessedAt     time.Time `json:"processed_at"`
}

func toPaymentResponse(p database.Payment) paymentResponse {
	resp := paymentResponse{
		ID:            p.ID,
		OrderID:       p.OrderID,
		PaymentMethod: p.PaymentMethod,
		Amount:        formatNumeric(p.Amount),
		Status:        p.Status,
		ProcessedAt:   p.ProcessedAt,
	}
	if p.ReferenceNumber.Valid {
		resp.ReferenceNumber = &p.ReferenceNumber.String
	}
	if p.AmountReceived.Valid {
		s := formatNumeric(p.AmountReceived)
		resp.AmountReceived = &s
	}
	if p.ChangeAmount.Valid {
		s := formatNumeric(p.ChangeAmount)
		resp.ChangeAmount = &s
	}
	return resp
}

// --- Handlers ---

// Create records a payment against an order. CASH payments settle
// immediately and compute change; ONLINE payments start PENDING until the
// gateway callback confirms them.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.PaymentMethod != enum.PaymentMethodCash && req.PaymentMethod != enum.PaymentMethodOnline {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment_method"})
		return
	}
	if req.Amount == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount is required"})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid amount"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if order.Status == enum.OrderStatusCancelled {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "order is cancelled"})
		return
	}

	// Reject overpayment relative to what is still owed.
	paid, err := h.store.GetCompletedPaymentTotal(r.Context(), orderID)
	if err != nil {
		log.Printf("ERROR: get completed payment total: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	outstanding := numericToDecimal(order.TotalAmount).Sub(numericToDecimal(paid))
	if amount.GreaterThan(outstanding) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount exceeds outstanding balance"})
		return
	}

	status := enum.PaymentStatusPending
	amountReceived := pgtype.Numeric{}
	changeAmount := pgtype.Numeric{}

	if req.PaymentMethod == enum.PaymentMethodCash {
		if req.AmountReceived == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount_received is required for CASH payments"})
			return
		}
		received, err := decimal.NewFromString(req.AmountReceived)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid amount_received"})
			return
		}
		if received.LessThan(amount) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount_received must be >= amount"})
			return
		}
		status = enum.PaymentStatusCompleted
		amountReceived = decimalToNumeric(received)
		changeAmount = decimalToNumeric(received.Sub(amount))
	}

	referenceNumber := pgtype.Text{}
	if req.ReferenceNumber != "" {
		referenceNumber = pgtype.Text{String: req.ReferenceNumber, Valid: true}
	}

	payment, err := h.store.CreatePayment(r.Context(), database.CreatePaymentParams{
		OrderID:         orderID,
		PaymentMethod:   req.PaymentMethod,
		Amount:          decimalToNumeric(amount),
		Status:          status,
		ReferenceNumber: referenceNumber,
		AmountReceived:  amountReceived,
		ChangeAmount:    changeAmount,
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: create payment: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toPaymentResponse(payment))
}

// List returns all payments for an order.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	payments, err := h.store.ListPaymentsByOrder(r.Context(), orderID)
	if err != nil {
		log.Printf("ERROR: list payments: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]paymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = toPaymentResponse(p)
	}

	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
