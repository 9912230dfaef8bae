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
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/zaiqa-kitchen/api/internal/database"
)

// VariationStore defines the database methods needed by variation handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type VariationStore interface {
	ListSimpleVariationsByItem(ctx context.Context, menuItemID uuid.UUID) ([]database.SimpleVariation, error)
	CreateSimpleVariation(ctx context.Context, arg database.CreateSimpleVariationParams) (database.SimpleVariation, error)
	UpdateSimpleVariation(ctx context.Context, arg database.UpdateSimpleVariationParams) (database.SimpleVariation, error)
	SoftDeleteSimpleVariation(ctx context.Context, arg database.SoftDeleteSimpleVariationParams) (uuid.UUID, error)

	ListVariationCategoriesByItem(ctx context.Context, menuItemID uuid.UUID) ([]database.VariationCategory, error)
	GetVariationCategory(ctx context.Context, arg database.GetVariationCategoryParams) (database.VariationCategory, error)
	CreateVariationCategory(ctx context.Context, arg database.CreateVariationCategoryParams) (database.VariationCategory, error)
	UpdateVariationCategory(ctx context.Context, arg database.UpdateVariationCategoryParams) (database.VariationCategory, error)
	SoftDeleteVariationCategory(ctx context.Context, arg database.SoftDeleteVariationCategoryParams) (uuid.UUID, error)

	ListVariationOptionsByCategory(ctx context.Context, variationCategoryID uuid.UUID) ([]database.VariationOption, error)
	CreateVariationOption(ctx context.Context, arg database.CreateVariationOptionParams) (database.VariationOption, error)
	UpdateVariationOption(ctx context.Context, arg database.UpdateVariationOptionParams) (database.VariationOption, error)
	SoftDeleteVariationOption(ctx context.Context, arg database.SoftDeleteVariationOptionParams) (uuid.UUID, error)
}

// VariationHandler handles the variation setup endpoints for a menu item:
// its simple variations, its variation categories, and the options inside
// each category.
type VariationHandler struct {
	store VariationStore
}

// NewVariationHandler creates a new VariationHandler.
func NewVariationHandler(store VariationStore) *VariationHandler {
	return &VariationHandler{store: store}
}

// RegisterRoutes registers variation endpoints on the given Chi router.
// Expected to be mounted inside an item-scoped subrouter: /items/{itemID}.
func (h *VariationHandler) RegisterRoutes(r chi.Router) {
	r.Route("/simple-variations", func(r chi.Router) {
		r.Get("/", h.ListSimple)
		r.Post("/", h.CreateSimple)
		r.Put("/{id}", h.UpdateSimple)
		r.Delete("/{id}", h.DeleteSimple)
	})
	r.Route("/variation-categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Post("/", h.CreateCategory)
		r.Put("/{id}", h.UpdateCategory)
		r.Delete("/{id}", h.DeleteCategory)
		r.Route("/{catID}/options", func(r chi.Router) {
			r.Get("/", h.ListOptions)
			r.Post("/", h.CreateOption)
			r.Put("/{id}", h.UpdateOption)
			r.Delete("/{id}", h.DeleteOption)
		})
	})
}

// --- Request / Response types ---

type simpleVariationRequest struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	IsAvailable *bool  `json:"is_available"`
	SortOrder   int32  `json:"sort_order"`
}

type simpleVariationResponse struct {
	ID          uuid.UUID `json:"id"`
	MenuItemID  uuid.UUID `json:"menu_item_id"`
	Name        string    `json:"name"`
	Price       string    `json:"price"`
	IsAvailable bool      `json:"is_available"`
	SortOrder   int32     `json:"sort_order"`
}

func toSimpleVariationResponse(v database.SimpleVariation) simpleVariationResponse {
	return simpleVariationResponse{
		ID:          v.ID,
		MenuItemID:  v.MenuItemID,
		Name:        v.Name,
		Price:       formatNumeric(v.Price),
		IsAvailable: v.IsAvailable,
		SortOrder:   v.SortOrder,
	}
}

type variationCategoryRequest struct {
	Name           string `json:"name"`
	SelectionType  string `json:"selection_type"`
	Required       bool   `json:"required"`
	MaxSelections  *int32 `json:"max_selections"`
	SourceCategory string `json:"source_category"`
	SortOrder      int32  `json:"sort_order"`
}

type variationCategoryResponse struct {
	ID             uuid.UUID `json:"id"`
	MenuItemID     uuid.UUID `json:"menu_item_id"`
	Name           string    `json:"name"`
	SelectionType  string    `json:"selection_type"`
	Required       bool      `json:"required"`
	MaxSelections  *int32    `json:"max_selections"`
	SourceCategory *string   `json:"source_category"`
	SortOrder      int32     `json:"sort_order"`
}

func toVariationCategoryResponse(c database.VariationCategory) variationCategoryResponse {
	resp := variationCategoryResponse{
		ID:            c.ID,
		MenuItemID:    c.MenuItemID,
		Name:          c.Name,
		SelectionType: c.SelectionType,
		Required:      c.Required,
		SortOrder:     c.SortOrder,
	}
	if c.MaxSelections.Valid {
		v := c.MaxSelections.Int32
		resp.MaxSelections = &v
	}
	if c.SourceCategory.Valid {
		resp.SourceCategory = &c.SourceCategory.String
	}
	return resp
}

type variationOptionRequest struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	IsAvailable *bool  `json:"is_available"`
	SortOrder   int32  `json:"sort_order"`
}

type variationOptionResponse struct {
	ID                  uuid.UUID `json:"id"`
	VariationCategoryID uuid.UUID `json:"variation_category_id"`
	Name                string    `json:"name"`
	Price               string    `json:"price"`
	IsAvailable         bool      `json:"is_available"`
	SortOrder           int32     `json:"sort_order"`
}

func toVariationOptionResponse(o database.VariationOption) variationOptionResponse {
	return variationOptionResponse{
		ID:                  o.ID,
		VariationCategoryID: o.VariationCategoryID,
		Name:                o.Name,
		Price:               formatNumeric(o.Price),
		IsAvailable:         o.IsAvailable,
		SortOrder:           o.SortOrder,
	}
}

// --- Helpers ---

func itemIDParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "itemID"))
	return id, err == nil
}

// verifyCategoryOwnership checks the variation category exists and belongs
// to the menu item in the URL, so option writes cannot cross item boundaries.
func (h *VariationHandler) verifyCategoryOwnership(w http.ResponseWriter, r *http.Request, itemID uuid.UUID) (uuid.UUID, bool) {
	catID, err := uuid.Parse(chi.URLParam(r, "catID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid variation category ID"})
		return uuid.UUID{}, false
	}

	_, err = h.store.GetVariationCategory(r.Context(), database.GetVariationCategoryParams{
		ID:         catID,
		MenuItemID: itemID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "variation category not found"})
			return uuid.UUID{}, false
		}
		log.Printf("ERROR: get variation category: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return uuid.UUID{}, false
	}
	return catID, true
}

func availableOrDefault(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}

// --- Simple variation handlers ---

// ListSimple returns the item's active simple variations.
func (h *VariationHandler) ListSimple(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	variations, err := h.store.ListSimpleVariationsByItem(r.Context(), itemID)
	if err != nil {
		log.Printf("ERROR: list simple variations: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]simpleVariationResponse, len(variations))
	for i, v := range variations {
		resp[i] = toSimpleVariationResponse(v)
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateSimple adds a simple variation to the item.
func (h *VariationHandler) CreateSimple(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	var req simpleVariationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Price == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price is required"})
		return
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		if errors.Is(err, errNegativePrice) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price must be >= 0"})
		} else {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price"})
		}
		return
	}

	v, err := h.store.CreateSimpleVariation(r.Context(), database.CreateSimpleVariationParams{
		MenuItemID:  itemID,
		Name:        req.Name,
		Price:       price,
		IsAvailable: availableOrDefault(req.IsAvailable),
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
			return
		}
		log.Printf("ERROR: create simple variation: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toSimpleVariationResponse(v))
}

// UpdateSimple modifies a simple variation scoped to the item.
func (h *VariationHandler) UpdateSimple(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid variation ID"})
		return
	}

	var req simpleVariationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Price == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price is required"})
		return
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		if errors.Is(err, errNegativePrice) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price must be >= 0"})
		} else {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price"})
		}
		return
	}

	v, err := h.store.UpdateSimpleVariation(r.Context(), database.UpdateSimpleVariationParams{
		Name:        req.Name,
		Price:       price,
		IsAvailable: availableOrDefault(req.IsAvailable),
		SortOrder:   req.SortOrder,
		ID:          id,
		MenuItemID:  itemID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "variation not found"})
			return
		}
		log.Printf("ERROR: update simple variation: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toSimpleVariationResponse(v))
}

// DeleteSimple soft-deletes a simple variation scoped to the item.
func (h *VariationHandler) DeleteSimple(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid variation ID"})
		return
	}

	_, err = h.store.SoftDeleteSimpleVariation(r.Context(), database.SoftDeleteSimpleVariationParams{
		ID:         id,
		MenuItemID: itemID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "variation not found"})
			return
		}
		log.Printf("ERROR: delete simple variation: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Variation category handlers ---

// ListCategories returns the item's active variation categories.
func (h *VariationHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	categories, err := h.store.ListVariationCategoriesByItem(r.Context(), itemID)
	if err != nil {
		log.Printf("ERROR: list variation categories: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]variationCategoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = toVariationCategoryResponse(c)
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateCategory adds a variation category to the item. A category either
// stores its own options or sources them live from a menu category
// (source_category), never both.
func (h *VariationHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	var req variationCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if !isValidSelectionType(req.SelectionType) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid selection_type"})
		return
	}

	maxSel := pgtype.Int4{}
	if req.MaxSelections != nil {
		if *req.MaxSelections < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "max_selections must be >= 1"})
			return
		}
		maxSel = pgtype.Int4{Int32: *req.MaxSelections, Valid: true}
	}
	sourceCategory := pgtype.Text{}
	if req.SourceCategory != "" {
		sourceCategory = pgtype.Text{String: req.SourceCategory, Valid: true}
	}

	c, err := h.store.CreateVariationCategory(r.Context(), database.CreateVariationCategoryParams{
		MenuItemID:     itemID,
		Name:           req.Name,
		SelectionType:  req.SelectionType,
		Required:       req.Required,
		MaxSelections:  maxSel,
		SourceCategory: sourceCategory,
		SortOrder:      req.SortOrder,
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
			return
		}
		log.Printf("ERROR: create variation category: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toVariationCategoryResponse(c))
}

// UpdateCategory modifies a variation category scoped to the item.
func (h *VariationHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid variation category ID"})
		return
	}

	var req variationCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if !isValidSelectionType(req.SelectionType) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid selection_type"})
		return
	}

	maxSel := pgtype.Int4{}
	if req.MaxSelections != nil {
		if *req.MaxSelections < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "max_selections must be >= 1"})
			return
		}
		maxSel = pgtype.Int4{Int32: *req.MaxSelections, Valid: true}
	}
	sourceCategory := pgtype.Text{}
	if req.SourceCategory != "" {
		sourceCategory = pgtype.Text{String: req.SourceCategory, Valid: true}
	}

	c, err := h.store.UpdateVariationCategory(r.Context(), database.UpdateVariationCategoryParams{
		Name:           req.Name,
		SelectionType:  req.SelectionType,
		Required:       req.Required,
		MaxSelections:  maxSel,
		SourceCategory: sourceCategory,
		SortOrder:      req.SortOrder,
		ID:             id,
		MenuItemID:     itemID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "variation category not found"})
			return
		}
		log.Printf("ERROR: update variation category: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toVariationCategoryResponse(c))
}

// DeleteCategory soft-deletes a variation category scoped to the item.
func (h *VariationHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid variation category ID"})
		return
	}

	_, err = h.store.SoftDeleteVariationCategory(r.Context(), database.SoftDeleteVariationCategoryParams{
		ID:         id,
		MenuItemID: itemID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "variation category not found"})
			return
		}
		log.Printf("ERROR: delete variation category: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Variation option handlers ---

// ListOptions returns the active options in a category owned by the item.
func (h *VariationHandler) ListOptions(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}
	catID, ok := h.verifyCategoryOwnership(w, r, itemID)
	if !ok {
		return
	}

	options, err := h.store.ListVariationOptionsByCategory(r.Context(), catID)
	if err != nil {
		log.Printf("ERROR: list variation options: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]variationOptionResponse, len(options))
	for i, o := range options {
		resp[i] = toVariationOptionResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateOption adds an option to a category owned by the item.
func (h *VariationHandler) CreateOption(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}
	catID, ok := h.verifyCategoryOwnership(w, r, itemID)
	if !ok {
		return
	}

	var req variationOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Price == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price is required"})
		return
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		if errors.Is(err, errNegativePrice) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price must be >= 0"})
		} else {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price"})
		}
		return
	}

	o, err := h.store.CreateVariationOption(r.Context(), database.CreateVariationOptionParams{
		VariationCategoryID: catID,
		Name:                req.Name,
		Price:               price,
		IsAvailable:         availableOrDefault(req.IsAvailable),
		SortOrder:           req.SortOrder,
	})
	if err != nil {
		log.Printf("ERROR: create variation option: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toVariationOptionResponse(o))
}

// UpdateOption modifies an option in a category owned by the item.
func (h *VariationHandler) UpdateOption(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}
	catID, ok := h.verifyCategoryOwnership(w, r, itemID)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid option ID"})
		return
	}

	var req variationOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Price == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price is required"})
		return
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		if errors.Is(err, errNegativePrice) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price must be >= 0"})
		} else {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price"})
		}
		return
	}

	o, err := h.store.UpdateVariationOption(r.Context(), database.UpdateVariationOptionParams{
		Name:                req.Name,
		Price:               price,
		IsAvailable:         availableOrDefault(req.IsAvailable),
		SortOrder:           req.SortOrder,
		ID:                  id,
		VariationCategoryID: catID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "option not found"})
			return
		}
		log.Printf("ERROR: update variation option: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toVariationOptionResponse(o))
}

// DeleteOption soft-deletes an option in a category owned by the item.
func (h *VariationHandler) DeleteOption(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}
	catID, ok := h.verifyCategoryOwnership(w, r, itemID)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid option ID"})
		return
	}

	_, err = h.store.SoftDeleteVariationOption(r.Context(), database.SoftDeleteVariationOptionParams{
		ID:                  id,
		VariationCategoryID: catID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "option not found"})
			return
		}
		log.Printf("ERROR: delete variation option: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
