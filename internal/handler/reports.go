package handler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/zaiqa-kitchen/api/internal/database"
)

// ReportsStore defines the database methods needed by report handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ReportsStore interface {
	GetDailySales(ctx context.Context, arg database.GetDailySalesParams) ([]database.GetDailySalesRow, error)
	GetTopItems(ctx context.Context, arg database.GetTopItemsParams) ([]database.GetTopItemsRow, error)
	GetOrderTypeSummary(ctx context.Context, arg database.GetOrderTypeSummaryParams) ([]database.GetOrderTypeSummaryRow, error)
	GetHourlySales(ctx context.Context, arg database.GetHourlySalesParams) ([]database.GetHourlySalesRow, error)
}

// ReportsHandler handles report endpoints.
type ReportsHandler struct {
	store ReportsStore
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(store ReportsStore) *ReportsHandler {
	return &ReportsHandler{store: store}
}

// RegisterRoutes registers report endpoints on the given Chi router.
// Expected to be mounted at /reports, admin only.
func (h *ReportsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/daily-sales", h.DailySales)
	r.Get("/top-items", h.TopItems)
	r.Get("/order-types", h.OrderTypeSummary)
	r.Get("/hourly-sales", h.HourlySales)
}

// --- Response types ---

type dailySalesResponse struct {
	Date         string `json:"date"`
	OrderCount   int64  `json:"order_count"`
	TotalRevenue string `json:"total_revenue"`
}

type topItemResponse struct {
	MenuItemID   uuid.UUID `json:"menu_item_id"`
	Title        string    `json:"title"`
	QuantitySold int64     `json:"quantity_sold"`
	TotalRevenue string    `json:"total_revenue"`
}

type orderTypeSummaryResponse struct {
	OrderType    string `json:"order_type"`
	OrderCount   int64  `json:"order_count"`
	TotalRevenue string `json:"total_revenue"`
}

type hourlySalesResponse struct {
	Hour         int32  `json:"hour"`
	OrderCount   int64  `json:"order_count"`
	TotalRevenue string `json:"total_revenue"`
}

// --- Handlers ---

// DailySales returns per-day sales totals for a given date range.
func (h *ReportsHandler) DailySales(w http.ResponseWriter, r *http.Request) {
	startDate, endDate, err := parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := h.store.GetDailySales(r.Context(), database.GetDailySalesParams{
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		log.Printf("ERROR: get daily sales: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]dailySalesResponse, len(rows))
	for i, row := range rows {
		date := "N/A"
		if row.SaleDate.Valid {
			date = row.SaleDate.Time.Format("2006-01-02")
		}
		resp[i] = dailySalesResponse{
			Date:         date,
			OrderCount:   row.OrderCount,
			TotalRevenue: formatNumeric(row.TotalRevenue),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// TopItems returns the best selling menu items by quantity and revenue.
func (h *ReportsHandler) TopItems(w http.ResponseWriter, r *http.Request) {
	startDate, endDate, err := parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}

	rows, err := h.store.GetTopItems(r.Context(), database.GetTopItemsParams{
		StartDate: startDate,
		EndDate:   endDate,
		Limit:     int32(limit),
	})
	if err != nil {
		log.Printf("ERROR: get top items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]topItemResponse, len(rows))
	for i, row := range rows {
		resp[i] = topItemResponse{
			MenuItemID:   row.MenuItemID,
			Title:        row.Title,
			QuantitySold: row.QuantitySold,
			TotalRevenue: formatNumeric(row.TotalRevenue),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// OrderTypeSummary returns a breakdown of sales by order type.
func (h *ReportsHandler) OrderTypeSummary(w http.ResponseWriter, r *http.Request) {
	startDate, endDate, err := parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := h.store.GetOrderTypeSummary(r.Context(), database.GetOrderTypeSummaryParams{
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		log.Printf("ERROR: get order type summary: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderTypeSummaryResponse, len(rows))
	for i, row := range rows {
		resp[i] = orderTypeSummaryResponse{
			OrderType:    row.OrderType,
			OrderCount:   row.OrderCount,
			TotalRevenue: formatNumeric(row.TotalRevenue),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// HourlySales returns sales per hour for peak hour analysis.
func (h *ReportsHandler) HourlySales(w http.ResponseWriter, r *http.Request) {
	startDate, endDate, err := parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := h.store.GetHourlySales(r.Context(), database.GetHourlySalesParams{
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		log.Printf("ERROR: get hourly sales: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]hourlySalesResponse, len(rows))
	for i, row := range rows {
		resp[i] = hourlySalesResponse{
			Hour:         row.Hour,
			OrderCount:   row.OrderCount,
			TotalRevenue: formatNumeric(row.TotalRevenue),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

// kitchenLocation returns the kitchen's local timezone. Falls back to a
// fixed UTC+5 offset when the tzdata name cannot be resolved.
func kitchenLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Karachi")
	if err != nil {
		return time.FixedZone("PKT", 5*3600)
	}
	return loc
}

// parseDateRange reads start_date / end_date query params (YYYY-MM-DD) in
// the kitchen's local timezone. Defaults to the last 30 days. The end date
// is exclusive at the following midnight so a single day covers a full day.
func parseDateRange(r *http.Request) (pgtype.Timestamptz, pgtype.Timestamptz, error) {
	const layout = "2006-01-02"

	loc := kitchenLocation()
	now := time.Now().In(loc)

	startDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -30)
	endDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			return pgtype.Timestamptz{}, pgtype.Timestamptz{}, fmt.Errorf("invalid start_date format: %w", err)
		}
		startDate = t
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			return pgtype.Timestamptz{}, pgtype.Timestamptz{}, fmt.Errorf("invalid end_date format: %w", err)
		}
		endDate = t.AddDate(0, 0, 1)
	}

	if !endDate.After(startDate) {
		return pgtype.Timestamptz{}, pgtype.Timestamptz{}, fmt.Errorf("end_date must not be before start_date")
	}

	return pgtype.Timestamptz{Time: startDate, Valid: true},
		pgtype.Timestamptz{Time: endDate, Valid: true},
		nil
}
