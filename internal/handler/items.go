package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/zaiqa-kitchen/api/internal/database"
	"github.com/zaiqa-kitchen/api/internal/enum"
	"github.com/zaiqa-kitchen/api/internal/variation"
)

// ItemStore defines the database methods needed by menu item handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ItemStore interface {
	ListMenuItems(ctx context.Context) ([]database.MenuItem, error)
	ListMenuItemsByCategory(ctx context.Context, categoryID uuid.UUID) ([]database.MenuItem, error)
	GetMenuItem(ctx context.Context, id uuid.UUID) (database.MenuItem, error)
	GetMenuCategory(ctx context.Context, id uuid.UUID) (database.MenuCategory, error)
	CreateMenuItem(ctx context.Context, arg database.CreateMenuItemParams) (database.MenuItem, error)
	UpdateMenuItem(ctx context.Context, arg database.UpdateMenuItemParams) (database.MenuItem, error)
	SoftDeleteMenuItem(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// ConfigBuilder resolves an item's variation config for the storefront.
// Satisfied by *catalog.Service.
type ConfigBuilder interface {
	BuildConfig(ctx context.Context, item database.MenuItem) (variation.Config, error)
}

// ItemHandler handles menu item endpoints.
type ItemHandler struct {
	store   ItemStore
	builder ConfigBuilder
	cache   CacheInvalidator
}

// NewItemHandler creates a new ItemHandler. cache may be nil.
func NewItemHandler(store ItemStore, builder ConfigBuilder, cache CacheInvalidator) *ItemHandler {
	return &ItemHandler{store: store, builder: builder, cache: cache}
}

// RegisterRoutes registers admin item CRUD endpoints on the given Chi router.
// Expected to be mounted at /items.
func (h *ItemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{itemID}", h.Get)
	r.Post("/", h.Create)
	r.Put("/{itemID}", h.Update)
	r.Delete("/{itemID}", h.Delete)
}

// RegisterPublicRoutes registers the storefront read endpoints.
func (h *ItemHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/items", h.List)
	r.Get("/items/{itemID}", h.Get)
	r.Get("/items/{itemID}/config", h.GetConfig)
}

// --- Request / Response types ---

type itemRequest struct {
	CategoryID              string `json:"category_id"`
	Name                    string `json:"name"`
	Description             string `json:"description"`
	BasePrice               string `json:"base_price"`
	DiscountPrice           string `json:"discount_price"`
	ImageURL                string `json:"image_url"`
	IsPlatter               bool   `json:"is_platter"`
	SimpleSelection         string `json:"simple_selection"`
	AllowMultipleCategories bool   `json:"allow_multiple_categories"`
	TotalMaxSelections      *int32 `json:"total_max_selections"`
	SortOrder               int32  `json:"sort_order"`
}

type itemResponse struct {
	ID                      uuid.UUID `json:"id"`
	CategoryID              uuid.UUID `json:"category_id"`
	Name                    string    `json:"name"`
	Description             *string   `json:"description"`
	BasePrice               string    `json:"base_price"`
	DiscountPrice           *string   `json:"discount_price"`
	ImageURL                *string   `json:"image_url"`
	IsPlatter               bool      `json:"is_platter"`
	SimpleSelection         *string   `json:"simple_selection"`
	AllowMultipleCategories bool      `json:"allow_multiple_categories"`
	TotalMaxSelections      *int32    `json:"total_max_selections"`
	SortOrder               int32     `json:"sort_order"`
	IsActive                bool      `json:"is_active"`
}

func toItemResponse(m database.MenuItem) itemResponse {
	resp := itemResponse{
		ID:                      m.ID,
		CategoryID:              m.CategoryID,
		Name:                    m.Name,
		BasePrice:               formatNumeric(m.BasePrice),
		IsPlatter:               m.IsPlatter,
		AllowMultipleCategories: m.AllowMultipleCategories,
		SortOrder:               m.SortOrder,
		IsActive:                m.IsActive,
	}
	if m.Description.Valid {
		resp.Description = &m.Description.String
	}
	if m.DiscountPrice.Valid {
		s := formatNumeric(m.DiscountPrice)
		resp.DiscountPrice = &s
	}
	if m.ImageUrl.Valid {
		resp.ImageURL = &m.ImageUrl.String
	}
	if m.SimpleSelection.Valid {
		resp.SimpleSelection = &m.SimpleSelection.String
	}
	if m.TotalMaxSelections.Valid {
		v := m.TotalMaxSelections.Int32
		resp.TotalMaxSelections = &v
	}
	return resp
}

// configResponse is the wire shape of a variation config. The storefront
// drives its whole customization UI off this document.
type configResponse struct {
	Simple                  []configOption   `json:"simple_variations"`
	SimpleSelection         string           `json:"simple_selection"`
	Categories              []configCategory `json:"variation_categories"`
	AllowMultipleCategories bool             `json:"allow_multiple_categories"`
	TotalMaxSelections      *int             `json:"total_max_selections"`
}

type configCategory struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Type          string         `json:"selection_type"`
	Required      bool           `json:"required"`
	MaxSelections *int           `json:"max_selections"`
	Options       []configOption `json:"options"`
}

type configOption struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Available bool   `json:"available"`
}

func toConfigResponse(cfg variation.Config) configResponse {
	resp := configResponse{
		Simple:                  toConfigOptions(cfg.Simple),
		SimpleSelection:         cfg.SimpleSelection,
		Categories:              make([]configCategory, len(cfg.Categories)),
		AllowMultipleCategories: cfg.AllowMultipleCategories,
		TotalMaxSelections:      cfg.TotalMaxSelections,
	}
	for i, c := range cfg.Categories {
		resp.Categories[i] = configCategory{
			ID:            c.ID,
			Name:          c.Name,
			Type:          c.Type,
			Required:      c.Required,
			MaxSelections: c.MaxSelections,
			Options:       toConfigOptions(c.Options),
		}
	}
	return resp
}

func toConfigOptions(opts []variation.Option) []configOption {
	out := make([]configOption, len(opts))
	for i, o := range opts {
		out[i] = configOption{
			ID:        o.ID,
			Name:      o.Name,
			Price:     o.Price.StringFixed(2),
			Available: o.Available,
		}
	}
	return out
}

// --- Helpers ---

func formatNumeric(n pgtype.Numeric) string {
	if !n.Valid {
		return ""
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return ""
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return ""
	}
	return d.StringFixed(2)
}

// invalidateCategoryOptions drops the cached option list keyed by the menu
// category's name. The cache key is the name, not the id, so the category
// row is looked up first.
func (h *ItemHandler) invalidateCategoryOptions(ctx context.Context, categoryID uuid.UUID) {
	if h.cache == nil {
		return
	}
	category, err := h.store.GetMenuCategory(ctx, categoryID)
	if err != nil {
		log.Printf("ERROR: get category for cache invalidation: %v", err)
		return
	}
	h.cache.Invalidate(ctx, category.Name)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

var errNegativePrice = errors.New("negative price")

func parsePrice(s string) (pgtype.Numeric, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return pgtype.Numeric{}, err
	}
	if d.IsNegative() {
		return pgtype.Numeric{}, errNegativePrice
	}
	var n pgtype.Numeric
	if err := n.Scan(d.String()); err != nil {
		return pgtype.Numeric{}, err
	}
	return n, nil
}

func isValidSelectionType(s string) bool {
	switch s {
	case enum.SelectionTypeSingle, enum.SelectionTypeMultiple:
		return true
	}
	return false
}

// itemParamsFromRequest validates and converts the shared request shape.
func itemParamsFromRequest(req itemRequest) (database.CreateMenuItemParams, string, bool) {
	var p database.CreateMenuItemParams

	if req.Name == "" {
		return p, "name is required", false
	}
	if req.CategoryID == "" {
		return p, "category_id is required", false
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return p, "invalid category_id", false
	}
	if req.BasePrice == "" {
		return p, "base_price is required", false
	}
	basePrice, err := parsePrice(req.BasePrice)
	if err != nil {
		if errors.Is(err, errNegativePrice) {
			return p, "base_price must be >= 0", false
		}
		return p, "invalid base_price", false
	}

	discountPrice := pgtype.Numeric{}
	if req.DiscountPrice != "" {
		discountPrice, err = parsePrice(req.DiscountPrice)
		if err != nil {
			if errors.Is(err, errNegativePrice) {
				return p, "discount_price must be >= 0", false
			}
			return p, "invalid discount_price", false
		}
	}

	if req.SimpleSelection != "" && !isValidSelectionType(req.SimpleSelection) {
		return p, "invalid simple_selection", false
	}

	desc := pgtype.Text{}
	if req.Description != "" {
		desc = pgtype.Text{String: req.Description, Valid: true}
	}
	imageURL := pgtype.Text{}
	if req.ImageURL != "" {
		imageURL = pgtype.Text{String: req.ImageURL, Valid: true}
	}
	simpleSelection := pgtype.Text{}
	if req.SimpleSelection != "" {
		simpleSelection = pgtype.Text{String: req.SimpleSelection, Valid: true}
	}
	totalMax := pgtype.Int4{}
	if req.TotalMaxSelections != nil {
		totalMax = pgtype.Int4{Int32: *req.TotalMaxSelections, Valid: true}
	}

	return database.CreateMenuItemParams{
		CategoryID:              categoryID,
		Name:                    req.Name,
		Description:             desc,
		BasePrice:               basePrice,
		DiscountPrice:           discountPrice,
		ImageUrl:                imageURL,
		IsPlatter:               req.IsPlatter,
		SimpleSelection:         simpleSelection,
		AllowMultipleCategories: req.AllowMultipleCategories,
		TotalMaxSelections:      totalMax,
		SortOrder:               req.SortOrder,
	}, "", true
}

// --- Handlers ---

// List returns active menu items, optionally filtered by ?category_id=.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		items []database.MenuItem
		err   error
	)
	if cid := r.URL.Query().Get("category_id"); cid != "" {
		categoryID, parseErr := uuid.Parse(cid)
		if parseErr != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category_id"})
			return
		}
		items, err = h.store.ListMenuItemsByCategory(r.Context(), categoryID)
	} else {
		items, err = h.store.ListMenuItems(r.Context())
	}
	if err != nil {
		log.Printf("ERROR: list items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]itemResponse, len(items))
	for i, m := range items {
		resp[i] = toItemResponse(m)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single menu item by ID.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	item, err := h.store.GetMenuItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
			return
		}
		log.Printf("ERROR: get item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

// GetConfig returns the item's resolved variation config.
func (h *ItemHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	item, err := h.store.GetMenuItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
			return
		}
		log.Printf("ERROR: get item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	cfg, err := h.builder.BuildConfig(r.Context(), item)
	if err != nil {
		log.Printf("ERROR: build item config: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toConfigResponse(cfg))
}

// Create adds a new menu item.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	params, msg, ok := itemParamsFromRequest(req)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	item, err := h.store.CreateMenuItem(r.Context(), params)
	if err != nil {
		if isForeignKeyViolation(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category_id"})
			return
		}
		log.Printf("ERROR: create item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	// Platter configs in category mode list the items of a menu category,
	// so any item write must drop that category's cached options.
	h.invalidateCategoryOptions(r.Context(), item.CategoryID)

	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

// Update modifies an existing menu item.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	params, msg, ok := itemParamsFromRequest(req)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	existing, err := h.store.GetMenuItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
			return
		}
		log.Printf("ERROR: get item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	item, err := h.store.UpdateMenuItem(r.Context(), database.UpdateMenuItemParams{
		CategoryID:              params.CategoryID,
		Name:                    params.Name,
		Description:             params.Description,
		BasePrice:               params.BasePrice,
		DiscountPrice:           params.DiscountPrice,
		ImageUrl:                params.ImageUrl,
		IsPlatter:               params.IsPlatter,
		SimpleSelection:         params.SimpleSelection,
		AllowMultipleCategories: params.AllowMultipleCategories,
		TotalMaxSelections:      params.TotalMaxSelections,
		SortOrder:               params.SortOrder,
		ID:                      id,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
			return
		}
		if isForeignKeyViolation(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category_id"})
			return
		}
		log.Printf("ERROR: update item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	// Moving an item between menu categories must drop both category keys.
	h.invalidateCategoryOptions(r.Context(), existing.CategoryID)
	if item.CategoryID != existing.CategoryID {
		h.invalidateCategoryOptions(r.Context(), item.CategoryID)
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

// Delete soft-deletes a menu item by setting is_active=false.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	item, err := h.store.GetMenuItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
			return
		}
		log.Printf("ERROR: get item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	_, err = h.store.SoftDeleteMenuItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
			return
		}
		log.Printf("ERROR: delete item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.invalidateCategoryOptions(r.Context(), item.CategoryID)

	w.WriteHeader(http.StatusNoContent)
}
