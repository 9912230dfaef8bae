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
	"github.com/zaiqa-kitchen/api/internal/database"
)

// CategoryStore defines the database methods needed by category handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type CategoryStore interface {
	ListMenuCategories(ctx context.Context) ([]database.MenuCategory, error)
	GetMenuCategory(ctx context.Context, id uuid.UUID) (database.MenuCategory, error)
	CreateMenuCategory(ctx context.Context, arg database.CreateMenuCategoryParams) (database.MenuCategory, error)
	UpdateMenuCategory(ctx context.Context, arg database.UpdateMenuCategoryParams) (database.MenuCategory, error)
	SoftDeleteMenuCategory(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// CacheInvalidator drops cached option lists keyed by category name.
// Satisfied by *catalog.OptionCache; nil disables invalidation.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, categoryName string)
}

// CategoryHandler handles menu category CRUD endpoints.
type CategoryHandler struct {
	store CategoryStore
	cache CacheInvalidator
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(store CategoryStore, cache CacheInvalidator) *CategoryHandler {
	return &CategoryHandler{store: store, cache: cache}
}

// RegisterRoutes registers category CRUD endpoints on the given Chi router.
// Expected to be mounted at /categories.
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type categoryRequest struct {
	Name      string `json:"name"`
	SortOrder int32  `json:"sort_order"`
}

type categoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SortOrder int32     `json:"sort_order"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCategoryResponse(c database.MenuCategory) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		SortOrder: c.SortOrder,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// --- Handlers ---

// List returns all active menu categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListMenuCategories(r.Context())
	if err != nil {
		log.Printf("ERROR: list categories: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]categoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = toCategoryResponse(c)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single category by ID.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category ID"})
		return
	}

	category, err := h.store.GetMenuCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "category not found"})
			return
		}
		log.Printf("ERROR: get category: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toCategoryResponse(category))
}

// Create adds a new menu category.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	category, err := h.store.CreateMenuCategory(r.Context(), database.CreateMenuCategoryParams{
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		log.Printf("ERROR: create category: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toCategoryResponse(category))
}

// Update modifies an existing category.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category ID"})
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	existing, err := h.store.GetMenuCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "category not found"})
			return
		}
		log.Printf("ERROR: get category: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	category, err := h.store.UpdateMenuCategory(r.Context(), database.UpdateMenuCategoryParams{
		Name:      req.Name,
		SortOrder: req.SortOrder,
		ID:        id,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "category not found"})
			return
		}
		log.Printf("ERROR: update category: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	// Platter configs source option lists by category name; a rename must
	// drop both the old and new cache keys.
	if h.cache != nil {
		h.cache.Invalidate(r.Context(), existing.Name)
		if category.Name != existing.Name {
			h.cache.Invalidate(r.Context(), category.Name)
		}
	}

	writeJSON(w, http.StatusOK, toCategoryResponse(category))
}

// Delete soft-deletes a category by setting is_active=false.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category ID"})
		return
	}

	existing, err := h.store.GetMenuCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "category not found"})
			return
		}
		log.Printf("ERROR: get category: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	_, err = h.store.SoftDeleteMenuCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "category not found"})
			return
		}
		log.Printf("ERROR: delete category: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if h.cache != nil {
		h.cache.Invalidate(r.Context(), existing.Name)
	}

	w.WriteHeader(http.StatusNoContent)
}
