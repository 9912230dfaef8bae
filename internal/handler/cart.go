package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/zaiqa-kitchen/api/internal/cart"
)

// sessionHeader carries the storefront session identifier. The frontend
// generates one per browser and sends it on every cart and checkout call.
const sessionHeader = "X-Session-ID"

// CartServicer defines the cart operations needed by cart handlers.
// Satisfied by *cart.Service; narrow interface for testability.
type CartServicer interface {
	Get(ctx context.Context, sessionID string) (cart.Cart, error)
	AddItem(ctx context.Context, sessionID string, req cart.AddItemRequest) (cart.Cart, error)
	RemoveLine(ctx context.Context, sessionID string, index int) (cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
	QuoteItem(ctx context.Context, req cart.AddItemRequest) (cart.Quote, error)
}

// CartHandler handles storefront cart endpoints.
type CartHandler struct {
	svc CartServicer
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(svc CartServicer) *CartHandler {
	return &CartHandler{svc: svc}
}

// RegisterRoutes registers cart endpoints on the given Chi router.
// Expected to be mounted at /cart.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Post("/items", h.AddItem)
	r.Delete("/items/{index}", h.RemoveLine)
	r.Delete("/", h.Clear)
	r.Post("/quote", h.Quote)
}

// --- Request / Response types ---

type addCartItemRequest struct {
	MenuItemID string                   `json:"menu_item_id"`
	Quantity   int32                    `json:"quantity"`
	SimpleIDs  []string                 `json:"simple_ids"`
	Categories []categorySelectionInput `json:"categories"`
}

type categorySelectionInput struct {
	CategoryID string   `json:"category_id"`
	OptionIDs  []string `json:"option_ids"`
}

func (req addCartItemRequest) toServiceRequest() cart.AddItemRequest {
	out := cart.AddItemRequest{
		MenuItemID: req.MenuItemID,
		Quantity:   req.Quantity,
		SimpleIDs:  req.SimpleIDs,
		Categories: make([]cart.CategorySelection, len(req.Categories)),
	}
	for i, c := range req.Categories {
		out.Categories[i] = cart.CategorySelection{
			CategoryID: c.CategoryID,
			OptionIDs:  c.OptionIDs,
		}
	}
	return out
}

type cartLineResponse struct {
	MenuItemID string   `json:"menu_item_id"`
	Title      string   `json:"title"`
	UnitPrice  string   `json:"unit_price"`
	Quantity   int32    `json:"quantity"`
	ImageURL   string   `json:"image_url,omitempty"`
	Variations []string `json:"variations"`
	Subtotal   string   `json:"subtotal"`
}

type cartResponse struct {
	Lines     []cartLineResponse `json:"lines"`
	Subtotal  string             `json:"subtotal"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func toCartResponse(c cart.Cart) cartResponse {
	lines := make([]cartLineResponse, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = cartLineResponse{
			MenuItemID: l.MenuItemID,
			Title:      l.Title,
			UnitPrice:  l.UnitPrice.StringFixed(2),
			Quantity:   l.Quantity,
			ImageURL:   l.ImageURL,
			Variations: l.Variations,
			Subtotal:   l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity)).StringFixed(2),
		}
	}
	return cartResponse{
		Lines:     lines,
		Subtotal:  c.Subtotal().StringFixed(2),
		UpdatedAt: c.UpdatedAt,
	}
}

// --- Handlers ---

// Get returns the session's cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing " + sessionHeader + " header"})
		return
	}

	c, err := h.svc.Get(r.Context(), sessionID)
	if err != nil {
		log.Printf("ERROR: get cart: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// AddItem re-validates and re-prices the requested selection against the
// live menu config, then appends or merges the line into the session cart.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing " + sessionHeader + " header"})
		return
	}

	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	c, err := h.svc.AddItem(r.Context(), sessionID, req.toServiceRequest())
	if err != nil {
		writeCartError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// RemoveLine removes the cart line at the given index.
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing " + sessionHeader + " header"})
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid line index"})
		return
	}

	c, err := h.svc.RemoveLine(r.Context(), sessionID, index)
	if err != nil {
		if errors.Is(err, cart.ErrLineNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "cart line not found"})
			return
		}
		log.Printf("ERROR: remove cart line: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// Clear empties the session's cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing " + sessionHeader + " header"})
		return
	}

	if err := h.svc.Clear(r.Context(), sessionID); err != nil {
		log.Printf("ERROR: clear cart: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Quote prices a selection without touching the cart. Validation failures
// come back in the quote body so the frontend can show them live.
func (h *CartHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	q, err := h.svc.QuoteItem(r.Context(), req.toServiceRequest())
	if err != nil {
		writeCartError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, q)
}

func writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrItemNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
	case errors.Is(err, cart.ErrInvalidItemID),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrOptionNotFound):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, cart.ErrOptionUnavailable),
		errors.Is(err, cart.ErrInvalidSelection):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		log.Printf("ERROR: cart operation: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
