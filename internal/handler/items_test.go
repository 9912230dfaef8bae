package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/zaiqa-kitchen/api/internal/database"
	"github.com/zaiqa-kitchen/api/internal/handler"
	"github.com/zaiqa-kitchen/api/internal/variation"
)

// --- Mock store ---

type mockItemStore struct {
	items      map[uuid.UUID]database.MenuItem
	categories map[uuid.UUID]string // known category IDs and names, for FK and cache behavior
}

func newMockItemStore() *mockItemStore {
	return &mockItemStore{
		items:      make(map[uuid.UUID]database.MenuItem),
		categories: make(map[uuid.UUID]string),
	}
}

func (m *mockItemStore) ListMenuItems(_ context.Context) ([]database.MenuItem, error) {
	var result []database.MenuItem
	for _, it := range m.items {
		if it.IsActive {
			result = append(result, it)
		}
	}
	return result, nil
}

func (m *mockItemStore) ListMenuItemsByCategory(_ context.Context, categoryID uuid.UUID) ([]database.MenuItem, error) {
	var result []database.MenuItem
	for _, it := range m.items {
		if it.IsActive && it.CategoryID == categoryID {
			result = append(result, it)
		}
	}
	return result, nil
}

func (m *mockItemStore) GetMenuItem(_ context.Context, id uuid.UUID) (database.MenuItem, error) {
	it, ok := m.items[id]
	if !ok || !it.IsActive {
		return database.MenuItem{}, pgx.ErrNoRows
	}
	return it, nil
}

func (m *mockItemStore) GetMenuCategory(_ context.Context, id uuid.UUID) (database.MenuCategory, error) {
	name, ok := m.categories[id]
	if !ok {
		return database.MenuCategory{}, pgx.ErrNoRows
	}
	return database.MenuCategory{ID: id, Name: name, IsActive: true}, nil
}

func (m *mockItemStore) CreateMenuItem(_ context.Context, arg database.CreateMenuItemParams) (database.MenuItem, error) {
	if _, ok := m.categories[arg.CategoryID]; !ok {
		return database.MenuItem{}, &pgconn.PgError{Code: "23503"}
	}
	it := database.MenuItem{
		ID:                      uuid.New(),
		CategoryID:              arg.CategoryID,
		Name:                    arg.Name,
		Description:             arg.Description,
		BasePrice:               arg.BasePrice,
		DiscountPrice:           arg.DiscountPrice,
		ImageUrl:                arg.ImageUrl,
		IsPlatter:               arg.IsPlatter,
		SimpleSelection:         arg.SimpleSelection,
		AllowMultipleCategories: arg.AllowMultipleCategories,
		TotalMaxSelections:      arg.TotalMaxSelections,
		SortOrder:               arg.SortOrder,
		IsActive:                true,
	}
	m.items[it.ID] = it
	return it, nil
}

func (m *mockItemStore) UpdateMenuItem(_ context.Context, arg database.UpdateMenuItemParams) (database.MenuItem, error) {
	it, ok := m.items[arg.ID]
	if !ok || !it.IsActive {
		return database.MenuItem{}, pgx.ErrNoRows
	}
	if _, ok := m.categories[arg.CategoryID]; !ok {
		return database.MenuItem{}, &pgconn.PgError{Code: "23503"}
	}
	it.CategoryID = arg.CategoryID
	it.Name = arg.Name
	it.Description = arg.Description
	it.BasePrice = arg.BasePrice
	it.DiscountPrice = arg.DiscountPrice
	it.ImageUrl = arg.ImageUrl
	it.IsPlatter = arg.IsPlatter
	it.SimpleSelection = arg.SimpleSelection
	it.AllowMultipleCategories = arg.AllowMultipleCategories
	it.TotalMaxSelections = arg.TotalMaxSelections
	it.SortOrder = arg.SortOrder
	m.items[it.ID] = it
	return it, nil
}

func (m *mockItemStore) SoftDeleteMenuItem(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	it, ok := m.items[id]
	if !ok || !it.IsActive {
		return uuid.Nil, pgx.ErrNoRows
	}
	it.IsActive = false
	m.items[id] = it
	return id, nil
}

type stubConfigBuilder struct {
	cfg variation.Config
	err error
}

func (s *stubConfigBuilder) BuildConfig(_ context.Context, _ database.MenuItem) (variation.Config, error) {
	return s.cfg, s.err
}

// --- Helpers ---

func setupItemRouter(store *mockItemStore, builder handler.ConfigBuilder, cache handler.CacheInvalidator) *chi.Mux {
	h := handler.NewItemHandler(store, builder, cache)
	r := chi.NewRouter()
	r.Route("/items", func(r chi.Router) {
		h.RegisterRoutes(r)
		r.Get("/{itemID}/config", h.GetConfig)
	})
	return r
}

func itemBody(categoryID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"category_id": categoryID.String(),
		"name":        "Chicken Biryani",
		"base_price":  "500",
	}
}

// --- Tests ---

func TestItemCreate(t *testing.T) {
	store := newMockItemStore()
	categoryID := uuid.New()
	store.categories[categoryID] = "Rice & Biryani"
	router := setupItemRouter(store, &stubConfigBuilder{}, nil)

	rr := doRequest(t, router, "POST", "/items", itemBody(categoryID))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	resp := decodeObject(t, rr)
	if resp["name"] != "Chicken Biryani" {
		t.Errorf("name = %v", resp["name"])
	}
	if resp["base_price"] != "500.00" {
		t.Errorf("base_price = %v, want 500.00", resp["base_price"])
	}
}

func TestItemCreate_UnknownCategory(t *testing.T) {
	router := setupItemRouter(newMockItemStore(), &stubConfigBuilder{}, nil)

	rr := doRequest(t, router, "POST", "/items", itemBody(uuid.New()))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestItemCreate_Validation(t *testing.T) {
	store := newMockItemStore()
	categoryID := uuid.New()
	store.categories[categoryID] = "Rice & Biryani"
	router := setupItemRouter(store, &stubConfigBuilder{}, nil)

	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"missing name", func(b map[string]interface{}) { delete(b, "name") }},
		{"missing base_price", func(b map[string]interface{}) { delete(b, "base_price") }},
		{"negative base_price", func(b map[string]interface{}) { b["base_price"] = "-10" }},
		{"bad base_price", func(b map[string]interface{}) { b["base_price"] = "abc" }},
		{"bad simple_selection", func(b map[string]interface{}) { b["simple_selection"] = "triple" }},
		{"bad category_id", func(b map[string]interface{}) { b["category_id"] = "not-a-uuid" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := itemBody(categoryID)
			tt.mutate(body)

			rr := doRequest(t, router, "POST", "/items", body)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
			}
		})
	}
}

func TestItemList_FilterByCategory(t *testing.T) {
	store := newMockItemStore()
	cat1, cat2 := uuid.New(), uuid.New()
	store.categories[cat1] = "Mains"
	store.categories[cat2] = "Drinks"
	router := setupItemRouter(store, &stubConfigBuilder{}, nil)

	for _, cid := range []uuid.UUID{cat1, cat1, cat2} {
		body := itemBody(cid)
		if rr := doRequest(t, router, "POST", "/items", body); rr.Code != http.StatusCreated {
			t.Fatalf("seed item: %d", rr.Code)
		}
	}

	rr := doRequest(t, router, "GET", "/items?category_id="+cat1.String(), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if resp := decodeList(t, rr); len(resp) != 2 {
		t.Errorf("got %d items, want 2", len(resp))
	}
}

func TestItemDelete_ThenGetReturns404(t *testing.T) {
	store := newMockItemStore()
	categoryID := uuid.New()
	store.categories[categoryID] = "Rice & Biryani"
	router := setupItemRouter(store, &stubConfigBuilder{}, nil)

	rr := doRequest(t, router, "POST", "/items", itemBody(categoryID))
	id := decodeObject(t, rr)["id"].(string)

	if rr := doRequest(t, router, "DELETE", "/items/"+id, nil); rr.Code != http.StatusNoContent {
		t.Fatalf("delete status: got %d, want %d", rr.Code, http.StatusNoContent)
	}
	if rr := doRequest(t, router, "GET", "/items/"+id, nil); rr.Code != http.StatusNotFound {
		t.Fatalf("get after delete: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestItemGetConfig(t *testing.T) {
	store := newMockItemStore()
	categoryID := uuid.New()
	store.categories[categoryID] = "Rice & Biryani"

	maxSel := 2
	builder := &stubConfigBuilder{cfg: variation.Config{
		Simple: []variation.Option{
			{ID: "s1", Name: "Regular", Price: decimal.Zero, Available: true},
			{ID: "s2", Name: "Large", Price: decimal.NewFromInt(150), Available: true},
		},
		SimpleSelection: "single",
		Categories: []variation.Category{
			{
				ID:            "c1",
				Name:          "Mains",
				Type:          "multiple",
				Required:      true,
				MaxSelections: &maxSel,
				Options: []variation.Option{
					{ID: "o1", Name: "Karahi", Price: decimal.Zero, Available: true},
				},
			},
		},
		AllowMultipleCategories: true,
	}}
	router := setupItemRouter(store, builder, nil)

	rr := doRequest(t, router, "POST", "/items", itemBody(categoryID))
	id := decodeObject(t, rr)["id"].(string)

	rr = doRequest(t, router, "GET", "/items/"+id+"/config", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeObject(t, rr)
	simple, _ := resp["simple_variations"].([]interface{})
	if len(simple) != 2 {
		t.Fatalf("simple_variations len = %d, want 2", len(simple))
	}
	large := simple[1].(map[string]interface{})
	if large["price"] != "150.00" {
		t.Errorf("large price = %v, want 150.00", large["price"])
	}
	cats, _ := resp["variation_categories"].([]interface{})
	if len(cats) != 1 {
		t.Fatalf("variation_categories len = %d, want 1", len(cats))
	}
	mains := cats[0].(map[string]interface{})
	if mains["selection_type"] != "multiple" {
		t.Errorf("selection_type = %v, want multiple", mains["selection_type"])
	}
	if mains["max_selections"] != float64(2) {
		t.Errorf("max_selections = %v, want 2", mains["max_selections"])
	}
}

func TestItemCreate_InvalidatesCategoryOptions(t *testing.T) {
	store := newMockItemStore()
	categoryID := uuid.New()
	store.categories[categoryID] = "Deals"
	cache := &recordingInvalidator{}
	router := setupItemRouter(store, &stubConfigBuilder{}, cache)

	if rr := doRequest(t, router, "POST", "/items", itemBody(categoryID)); rr.Code != http.StatusCreated {
		t.Fatalf("create status: %d", rr.Code)
	}

	if len(cache.invalidated) != 1 || cache.invalidated[0] != "Deals" {
		t.Errorf("invalidated = %v, want [Deals]", cache.invalidated)
	}
}

func TestItemUpdate_MoveInvalidatesBothCategories(t *testing.T) {
	store := newMockItemStore()
	cat1, cat2 := uuid.New(), uuid.New()
	store.categories[cat1] = "Mains"
	store.categories[cat2] = "Drinks"
	cache := &recordingInvalidator{}
	router := setupItemRouter(store, &stubConfigBuilder{}, cache)

	rr := doRequest(t, router, "POST", "/items", itemBody(cat1))
	id := decodeObject(t, rr)["id"].(string)
	cache.invalidated = nil

	if rr := doRequest(t, router, "PUT", "/items/"+id, itemBody(cat2)); rr.Code != http.StatusOK {
		t.Fatalf("update status: %d; body: %s", rr.Code, rr.Body.String())
	}

	want := []string{"Mains", "Drinks"}
	if len(cache.invalidated) != 2 || cache.invalidated[0] != want[0] || cache.invalidated[1] != want[1] {
		t.Errorf("invalidated = %v, want %v", cache.invalidated, want)
	}
}

func TestItemDelete_InvalidatesCategoryOptions(t *testing.T) {
	store := newMockItemStore()
	categoryID := uuid.New()
	store.categories[categoryID] = "Deals"
	cache := &recordingInvalidator{}
	router := setupItemRouter(store, &stubConfigBuilder{}, cache)

	rr := doRequest(t, router, "POST", "/items", itemBody(categoryID))
	id := decodeObject(t, rr)["id"].(string)
	cache.invalidated = nil

	if rr := doRequest(t, router, "DELETE", "/items/"+id, nil); rr.Code != http.StatusNoContent {
		t.Fatalf("delete status: %d", rr.Code)
	}

	if len(cache.invalidated) != 1 || cache.invalidated[0] != "Deals" {
		t.Errorf("invalidated = %v, want [Deals]", cache.invalidated)
	}
}
