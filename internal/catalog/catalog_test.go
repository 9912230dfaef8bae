package catalog_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/zaiqa-kitchen/api/internal/catalog"
	"github.com/zaiqa-kitchen/api/internal/database"
	"github.com/zaiqa-kitchen/api/internal/enum"
)

// --- Mock store ---

type mockCatalogStore struct {
	items           map[uuid.UUID]database.MenuItem
	simple          map[uuid.UUID][]database.SimpleVariation
	categories      map[uuid.UUID][]database.VariationCategory
	options         map[uuid.UUID][]database.VariationOption
	itemsByCategory map[string][]database.MenuItem

	categoryNameLookups int
}

func newMockCatalogStore() *mockCatalogStore {
	return &mockCatalogStore{
		items:           make(map[uuid.UUID]database.MenuItem),
		simple:          make(map[uuid.UUID][]database.SimpleVariation),
		categories:      make(map[uuid.UUID][]database.VariationCategory),
		options:         make(map[uuid.UUID][]database.VariationOption),
		itemsByCategory: make(map[string][]database.MenuItem),
	}
}

func (m *mockCatalogStore) GetMenuItem(_ context.Context, id uuid.UUID) (database.MenuItem, error) {
	return m.items[id], nil
}

func (m *mockCatalogStore) ListSimpleVariationsByItem(_ context.Context, id uuid.UUID) ([]database.SimpleVariation, error) {
	return m.simple[id], nil
}

func (m *mockCatalogStore) ListVariationCategoriesByItem(_ context.Context, id uuid.UUID) ([]database.VariationCategory, error) {
	return m.categories[id], nil
}

func (m *mockCatalogStore) ListVariationOptionsByCategory(_ context.Context, id uuid.UUID) ([]database.VariationOption, error) {
	return m.options[id], nil
}

func (m *mockCatalogStore) ListMenuItemsByCategoryName(_ context.Context, name string) ([]database.MenuItem, error) {
	m.categoryNameLookups++
	return m.itemsByCategory[name], nil
}

func decimalFromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func testNumeric(t *testing.T, val string) pgtype.Numeric {
	t.Helper()
	var n pgtype.Numeric
	if err := n.Scan(val); err != nil {
		t.Fatalf("scan numeric %q: %v", val, err)
	}
	return n
}

// --- Tests ---

func TestBuildConfig_SimpleVariations(t *testing.T) {
	store := newMockCatalogStore()
	itemID := uuid.New()
	store.items[itemID] = database.MenuItem{
		ID:              itemID,
		Name:            "Chicken Karahi",
		BasePrice:       testNumeric(t, "500"),
		SimpleSelection: pgtype.Text{String: enum.SelectionTypeSingle, Valid: true},
	}
	store.simple[itemID] = []database.SimpleVariation{
		{ID: uuid.New(), MenuItemID: itemID, Name: "Small", Price: testNumeric(t, "0"), IsAvailable: true},
		{ID: uuid.New(), MenuItemID: itemID, Name: "Large", Price: testNumeric(t, "150"), IsAvailable: true},
	}

	svc := catalog.NewService(store, nil)
	cfg, err := svc.BuildConfig(context.Background(), store.items[itemID])
	if err != nil {
		t.Fatalf("BuildConfig: %v", err)
	}

	if len(cfg.Simple) != 2 {
		t.Fatalf("expected 2 simple variations, got %d", len(cfg.Simple))
	}
	if cfg.Simple[1].Name != "Large" || !cfg.Simple[1].Price.Equal(decimalFromInt(150)) {
		t.Errorf("large variation: got %+v", cfg.Simple[1])
	}
	if cfg.SimpleSelection != enum.SelectionTypeSingle {
		t.Errorf("selection type: got %s", cfg.SimpleSelection)
	}
}

func TestBuildConfig_EagerCategoryOptions(t *testing.T) {
	store := newMockCatalogStore()
	itemID := uuid.New()
	catID := uuid.New()
	store.items[itemID] = database.MenuItem{ID: itemID, Name: "BBQ Platter", IsPlatter: true}
	store.categories[itemID] = []database.VariationCategory{
		{
			ID: catID, MenuItemID: itemID, Name: "Extra Sauce",
			SelectionType: enum.SelectionTypeMultiple,
			MaxSelections: pgtype.Int4{Int32: 2, Valid: true},
		},
	}
	store.options[catID] = []database.VariationOption{
		{ID: uuid.New(), VariationCategoryID: catID, Name: "Garlic", Price: testNumeric(t, "50"), IsAvailable: true},
	}

	svc := catalog.NewService(store, nil)
	cfg, err := svc.BuildConfig(context.Background(), store.items[itemID])
	if err != nil {
		t.Fatalf("BuildConfig: %v", err)
	}

	if len(cfg.Categories) != 1 {
		t.Fatalf("expected 1 category, got %d", len(cfg.Categories))
	}
	cat := cfg.Categories[0]
	if cat.MaxSelections == nil || *cat.MaxSelections != 2 {
		t.Errorf("max selections: got %v", cat.MaxSelections)
	}
	if len(cat.Options) != 1 || !cat.Options[0].Price.Equal(decimalFromInt(50)) {
		t.Errorf("options: got %+v", cat.Options)
	}
}

func TestBuildConfig_LazyCategoryModeOptionsArePriceZero(t *testing.T) {
	store := newMockCatalogStore()
	itemID := uuid.New()
	catID := uuid.New()
	store.items[itemID] = database.MenuItem{ID: itemID, Name: "Family Platter", IsPlatter: true}
	store.categories[itemID] = []database.VariationCategory{
		{
			ID: catID, MenuItemID: itemID, Name: "Protein",
			SelectionType:  enum.SelectionTypeSingle,
			Required:       true,
			SourceCategory: pgtype.Text{String: "BBQ", Valid: true},
		},
	}
	store.itemsByCategory["BBQ"] = []database.MenuItem{
		{ID: uuid.New(), Name: "Chicken Tikka", BasePrice: testNumeric(t, "450")},
		{ID: uuid.New(), Name: "Beef Kebab", BasePrice: testNumeric(t, "600")},
	}

	svc := catalog.NewService(store, nil)
	cfg, err := svc.BuildConfig(context.Background(), store.items[itemID])
	if err != nil {
		t.Fatalf("BuildConfig: %v", err)
	}

	cat := cfg.Categories[0]
	if !cat.Required {
		t.Error("expected required category")
	}
	if len(cat.Options) != 2 {
		t.Fatalf("expected 2 lazy options, got %d", len(cat.Options))
	}
	// Category-mode sub-items cost nothing extra: folded into the platter
	// base price.
	for _, o := range cat.Options {
		if !o.Price.IsZero() {
			t.Errorf("option %s: price %s, want 0", o.Name, o.Price)
		}
	}
	if store.categoryNameLookups != 1 {
		t.Errorf("expected 1 category lookup, got %d", store.categoryNameLookups)
	}
}

func TestBasePrice_PrefersDiscountPrice(t *testing.T) {
	item := database.MenuItem{
		BasePrice:     testNumeric(t, "500"),
		DiscountPrice: testNumeric(t, "450"),
	}
	if got := catalog.BasePrice(item); !got.Equal(decimalFromInt(450)) {
		t.Errorf("base price: got %s, want 450", got)
	}

	item.DiscountPrice = pgtype.Numeric{}
	if got := catalog.BasePrice(item); !got.Equal(decimalFromInt(500)) {
		t.Errorf("base price: got %s, want 500", got)
	}
}
