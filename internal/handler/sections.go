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

// SectionStore defines the database methods needed by storefront section
// handlers. Satisfied by *database.Queries; narrow interface for testability.
type SectionStore interface {
	ListStorefrontSections(ctx context.Context) ([]database.StorefrontSection, error)
	GetStorefrontSection(ctx context.Context, id uuid.UUID) (database.StorefrontSection, error)
	CreateStorefrontSection(ctx context.Context, arg database.CreateStorefrontSectionParams) (database.StorefrontSection, error)
	UpdateStorefrontSection(ctx context.Context, arg database.UpdateStorefrontSectionParams) (database.StorefrontSection, error)
	SoftDeleteStorefrontSection(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// SectionTxStore reorders sections inside one transaction so drag-and-drop
// never persists a half-applied ordering.
type SectionTxStore interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// SectionHandler handles storefront section endpoints.
type SectionHandler struct {
	store SectionStore
	pool  SectionTxStore
}

// NewSectionHandler creates a new SectionHandler.
func NewSectionHandler(store SectionStore, pool SectionTxStore) *SectionHandler {
	return &SectionHandler{store: store, pool: pool}
}

// RegisterRoutes registers admin section endpoints on the given Chi router.
// Expected to be mounted at /sections.
func (h *SectionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/order", h.Reorder)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// RegisterPublicRoutes registers the storefront-facing section list.
func (h *SectionHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/sections", h.List)
}

// --- Request / Response types ---

type sectionRequest struct {
	Title     string          `json:"title"`
	Kind      string          `json:"kind"`
	Layout    json.RawMessage `json:"layout"`
	SortOrder *int32          `json:"sort_order"`
}

type reorderRequest struct {
	SectionIDs []uuid.UUID `json:"section_ids"`
}

type sectionResponse struct {
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	Kind      string          `json:"kind"`
	Layout    json.RawMessage `json:"layout"`
	SortOrder int32           `json:"sort_order"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toSectionResponse(s database.StorefrontSection) sectionResponse {
	layout := json.RawMessage(s.Layout)
	if len(layout) == 0 {
		layout = json.RawMessage(`{}`)
	}
	return sectionResponse{
		ID:        s.ID,
		Title:     s.Title,
		Kind:      s.Kind,
		Layout:    layout,
		SortOrder: s.SortOrder,
		UpdatedAt: s.UpdatedAt,
	}
}

func validateSectionRequest(req sectionRequest) (string, bool) {
	if req.Title == "" {
		return "title is required", false
	}
	if req.Kind == "" {
		return "kind is required", false
	}
	if len(req.Layout) > 0 && !json.Valid(req.Layout) {
		return "layout must be a valid JSON document", false
	}
	return "", true
}

// --- Handlers ---

// List returns all active sections in display order.
func (h *SectionHandler) List(w http.ResponseWriter, r *http.Request) {
	sections, err := h.store.ListStorefrontSections(r.Context())
	if err != nil {
		log.Printf("ERROR: list sections: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]sectionResponse, len(sections))
	for i, s := range sections {
		resp[i] = toSectionResponse(s)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns one section by ID.
func (h *SectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid section ID"})
		return
	}

	section, err := h.store.GetStorefrontSection(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "section not found"})
			return
		}
		log.Printf("ERROR: get section: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toSectionResponse(section))
}

// Create adds a new storefront section.
func (h *SectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req sectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if msg, ok := validateSectionRequest(req); !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	layout := req.Layout
	if len(layout) == 0 {
		layout = json.RawMessage(`{}`)
	}

	var sortOrder int32
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}

	section, err := h.store.CreateStorefrontSection(r.Context(), database.CreateStorefrontSectionParams{
		Title:     req.Title,
		Kind:      req.Kind,
		Layout:    layout,
		SortOrder: sortOrder,
	})
	if err != nil {
		log.Printf("ERROR: create section: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toSectionResponse(section))
}

// Update modifies a section's title, kind, and layout document.
func (h *SectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid section ID"})
		return
	}

	var req sectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if msg, ok := validateSectionRequest(req); !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	layout := req.Layout
	if len(layout) == 0 {
		layout = json.RawMessage(`{}`)
	}

	section, err := h.store.UpdateStorefrontSection(r.Context(), database.UpdateStorefrontSectionParams{
		Title:  req.Title,
		Kind:   req.Kind,
		Layout: layout,
		ID:     id,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "section not found"})
			return
		}
		log.Printf("ERROR: update section: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toSectionResponse(section))
}

// Reorder applies a full drag-and-drop ordering. Every listed section gets
// its position from its index; all rows update in one transaction.
func (h *SectionHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.SectionIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "section_ids is required"})
		return
	}

	tx, err := h.pool.Begin(r.Context())
	if err != nil {
		log.Printf("ERROR: begin reorder tx: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	defer tx.Rollback(r.Context()) //nolint:errcheck

	qtx := database.New(tx)
	for i, id := range req.SectionIDs {
		if _, err := qtx.SetStorefrontSectionOrder(r.Context(), database.SetStorefrontSectionOrderParams{
			SortOrder: int32(i),
			ID:        id,
		}); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "section not found: " + id.String()})
				return
			}
			log.Printf("ERROR: reorder section: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
	}

	if err := tx.Commit(r.Context()); err != nil {
		log.Printf("ERROR: commit reorder tx: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	sections, err := h.store.ListStorefrontSections(r.Context())
	if err != nil {
		log.Printf("ERROR: list sections after reorder: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]sectionResponse, len(sections))
	for i, s := range sections {
		resp[i] = toSectionResponse(s)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Delete soft-deletes a section.
func (h *SectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid section ID"})
		return
	}

	if _, err := h.store.SoftDeleteStorefrontSection(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "section not found"})
			return
		}
		log.Printf("ERROR: delete section: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
