package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/zaiqa-kitchen/api/internal/database"
	"github.com/zaiqa-kitchen/api/internal/enum"
	"github.com/zaiqa-kitchen/api/internal/handler"
)

// --- Mock store ---

type mockPaymentStore struct {
	orders   map[uuid.UUID]database.Order
	payments map[uuid.UUID][]database.Payment
}

func newMockPaymentStore() *mockPaymentStore {
	return &mockPaymentStore{
		orders:   make(map[uuid.UUID]database.Order),
		payments: make(map[uuid.UUID][]database.Payment),
	}
}

func (m *mockPaymentStore) GetOrder(_ context.Context, id uuid.UUID) (database.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return database.Order{}, pgx.ErrNoRows
	}
	return o, nil
}

func (m *mockPaymentStore) CreatePayment(_ context.Context, arg database.CreatePaymentParams) (database.Payment, error) {
	p := database.Payment{
		ID:              uuid.New(),
		OrderID:         arg.OrderID,
		PaymentMethod:   arg.PaymentMethod,
		Amount:          arg.Amount,
		Status:          arg.Status,
		ReferenceNumber: arg.ReferenceNumber,
		AmountReceived:  arg.AmountReceived,
		ChangeAmount:    arg.ChangeAmount,
		ProcessedAt:     time.Now(),
	}
	m.payments[arg.OrderID] = append(m.payments[arg.OrderID], p)
	return p, nil
}

func (m *mockPaymentStore) ListPaymentsByOrder(_ context.Context, orderID uuid.UUID) ([]database.Payment, error) {
	return m.payments[orderID], nil
}

func (m *mockPaymentStore) GetCompletedPaymentTotal(_ context.Context, orderID uuid.UUID) (pgtype.Numeric, error) {
	total := pgtype.Numeric{}
	_ = total.Scan("0")
	for _, p := range m.payments[orderID] {
		if p.Status == enum.PaymentStatusCompleted {
			// Single completed payment is enough for these tests.
			return p.Amount, nil
		}
	}
	return total, nil
}

// --- Helpers ---

func setupPaymentRouter(store *mockPaymentStore) *chi.Mux {
	h := handler.NewPaymentHandler(store)
	r := chi.NewRouter()
	r.Route("/orders", h.RegisterRoutes)
	return r
}

func (m *mockPaymentStore) addOrder(total string) database.Order {
	var amount pgtype.Numeric
	_ = amount.Scan(total)
	o := database.Order{
		ID:           uuid.New(),
		OrderNumber:  "ZQ-20260901-001",
		OrderType:    enum.OrderTypePickup,
		Status:       enum.OrderStatusNew,
		CustomerName: "Ali Raza",
		Subtotal:     amount,
		TotalAmount:  amount,
	}
	m.orders[o.ID] = o
	return o
}

// --- Tests ---

func TestPaymentCreate_CashComputesChange(t *testing.T) {
	store := newMockPaymentStore()
	order := store.addOrder("1300.00")
	router := setupPaymentRouter(store)

	rr := doRequest(t, router, "POST", "/orders/"+order.ID.String()+"/payments", map[string]string{
		"payment_method":  "CASH",
		"amount":          "1300.00",
		"amount_received": "1500.00",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	resp := decodeObject(t, rr)
	if resp["status"] != enum.PaymentStatusCompleted {
		t.Errorf("status = %v, want COMPLETED", resp["status"])
	}
	if change, _ := resp["change_amount"].(string); change != "200.00" {
		t.Errorf("change_amount = %v, want 200.00", resp["change_amount"])
	}
}

func TestPaymentCreate_CashRequiresAmountReceived(t *testing.T) {
	store := newMockPaymentStore()
	order := store.addOrder("1300.00")
	router := setupPaymentRouter(store)

	rr := doRequest(t, router, "POST", "/orders/"+order.ID.String()+"/payments", map[string]string{
		"payment_method": "CASH",
		"amount":         "1300.00",
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestPaymentCreate_CashRejectsShortPayment(t *testing.T) {
	store := newMockPaymentStore()
	order := store.addOrder("1300.00")
	router := setupPaymentRouter(store)

	rr := doRequest(t, router, "POST", "/orders/"+order.ID.String()+"/payments", map[string]string{
		"payment_method":  "CASH",
		"amount":          "1300.00",
		"amount_received": "1000.00",
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestPaymentCreate_OnlineStartsPending(t *testing.T) {
	store := newMockPaymentStore()
	order := store.addOrder("1300.00")
	router := setupPaymentRouter(store)

	rr := doRequest(t, router, "POST", "/orders/"+order.ID.String()+"/payments", map[string]string{
		"payment_method":   "ONLINE",
		"amount":           "1300.00",
		"reference_number": "TXN-555",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	resp := decodeObject(t, rr)
	if resp["status"] != enum.PaymentStatusPending {
		t.Errorf("status = %v, want PENDING", resp["status"])
	}
	if ref, _ := resp["reference_number"].(string); ref != "TXN-555" {
		t.Errorf("reference_number = %v", resp["reference_number"])
	}
	if resp["change_amount"] != nil {
		t.Errorf("change_amount = %v, want null", resp["change_amount"])
	}
}

func TestPaymentCreate_RejectsOverpayment(t *testing.T) {
	store := newMockPaymentStore()
	order := store.addOrder("1300.00")
	router := setupPaymentRouter(store)

	rr := doRequest(t, router, "POST", "/orders/"+order.ID.String()+"/payments", map[string]string{
		"payment_method":  "CASH",
		"amount":          "2000.00",
		"amount_received": "2000.00",
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
}

func TestPaymentCreate_RejectsDoublePayment(t *testing.T) {
	store := newMockPaymentStore()
	order := store.addOrder("1300.00")
	router := setupPaymentRouter(store)

	first := doRequest(t, router, "POST", "/orders/"+order.ID.String()+"/payments", map[string]string{
		"payment_method":  "CASH",
		"amount":          "1300.00",
		"amount_received": "1300.00",
	})
	if first.Code != http.StatusCreated {
		t.Fatalf("first payment: %d; body: %s", first.Code, first.Body.String())
	}

	second := doRequest(t, router, "POST", "/orders/"+order.ID.String()+"/payments", map[string]string{
		"payment_method":  "CASH",
		"amount":          "1300.00",
		"amount_received": "1300.00",
	})
	if second.Code != http.StatusBadRequest {
		t.Fatalf("second payment: got %d, want %d", second.Code, http.StatusBadRequest)
	}
}

func TestPaymentCreate_CancelledOrderConflicts(t *testing.T) {
	store := newMockPaymentStore()
	order := store.addOrder("1300.00")
	order.Status = enum.OrderStatusCancelled
	store.orders[order.ID] = order
	router := setupPaymentRouter(store)

	rr := doRequest(t, router, "POST", "/orders/"+order.ID.String()+"/payments", map[string]string{
		"payment_method":  "CASH",
		"amount":          "1300.00",
		"amount_received": "1300.00",
	})

	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
}

func TestPaymentList(t *testing.T) {
	store := newMockPaymentStore()
	order := store.addOrder("1300.00")
	router := setupPaymentRouter(store)

	doRequest(t, router, "POST", "/orders/"+order.ID.String()+"/payments", map[string]string{
		"payment_method":  "CASH",
		"amount":          "1300.00",
		"amount_received": "1300.00",
	})

	rr := doRequest(t, router, "GET", "/orders/"+order.ID.String()+"/payments", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if resp := decodeList(t, rr); len(resp) != 1 {
		t.Errorf("got %d payments, want 1", len(resp))
	}
}
