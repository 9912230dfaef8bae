// Package catalog assembles variation.Config values for catalog items. It
// is the only place that talks to both the menu tables and the option
// cache; the variation engine itself never fetches anything.
package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/zaiqa-kitchen/api/internal/database"
	"github.com/zaiqa-kitchen/api/internal/enum"
	"github.com/zaiqa-kitchen/api/internal/variation"
)

// Store defines the database methods needed to build item configs.
// Satisfied by *database.Queries; narrow interface for testability.
type Store interface {
	GetMenuItem(ctx context.Context, id uuid.UUID) (database.MenuItem, error)
	ListSimpleVariationsByItem(ctx context.Context, menuItemID uuid.UUID) ([]database.SimpleVariation, error)
	ListVariationCategoriesByItem(ctx context.Context, menuItemID uuid.UUID) ([]database.VariationCategory, error)
	ListVariationOptionsByCategory(ctx context.Context, variationCategoryID uuid.UUID) ([]database.VariationOption, error)
	ListMenuItemsByCategoryName(ctx context.Context, name string) ([]database.MenuItem, error)
}

// Service resolves customization configs. cache may be nil, in which case
// every lookup goes to the database.
type Service struct {
	store Store
	cache *OptionCache
}

// NewService creates a catalog Service.
func NewService(store Store, cache *OptionCache) *Service {
	return &Service{store: store, cache: cache}
}

// BuildConfig assembles the full variation.Config for a menu item: eager
// simple variations, eager category options, and lazily resolved "category
// mode" options pulled from the live menu items of the source category
// (price 0, their cost is folded into the platter base price).
func (s *Service) BuildConfig(ctx context.Context, item database.MenuItem) (variation.Config, error) {
	cfg := variation.Config{
		SimpleSelection:         enum.SelectionTypeSingle,
		AllowMultipleCategories: item.AllowMultipleCategories,
	}
	if item.SimpleSelection.Valid {
		cfg.SimpleSelection = item.SimpleSelection.String
	}
	if item.TotalMaxSelections.Valid {
		n := int(item.TotalMaxSelections.Int32)
		cfg.TotalMaxSelections = &n
	}

	simple, err := s.store.ListSimpleVariationsByItem(ctx, item.ID)
	if err != nil {
		return variation.Config{}, fmt.Errorf("list simple variations: %w", err)
	}
	for _, sv := range simple {
		cfg.Simple = append(cfg.Simple, variation.Option{
			ID:        sv.ID.String(),
			Name:      sv.Name,
			Price:     numericToDecimal(sv.Price),
			Available: sv.IsAvailable,
		})
	}

	cats, err := s.store.ListVariationCategoriesByItem(ctx, item.ID)
	if err != nil {
		return variation.Config{}, fmt.Errorf("list variation categories: %w", err)
	}
	for _, vc := range cats {
		cat := variation.Category{
			ID:       vc.ID.String(),
			Name:     vc.Name,
			Type:     vc.SelectionType,
			Required: vc.Required,
		}
		if vc.MaxSelections.Valid {
			n := int(vc.MaxSelections.Int32)
			cat.MaxSelections = &n
		}

		opts, err := s.resolveOptions(ctx, vc)
		if err != nil {
			return variation.Config{}, err
		}
		cat.Options = opts
		cfg.Categories = append(cfg.Categories, cat)
	}

	return cfg, nil
}

// resolveOptions produces the option list for one category: from the live
// items of the source menu category when one is named, otherwise from the
// eagerly stored option rows.
func (s *Service) resolveOptions(ctx context.Context, vc database.VariationCategory) ([]variation.Option, error) {
	if vc.SourceCategory.Valid && vc.SourceCategory.String != "" {
		return s.optionsFromCategory(ctx, vc.SourceCategory.String)
	}

	rows, err := s.store.ListVariationOptionsByCategory(ctx, vc.ID)
	if err != nil {
		return nil, fmt.Errorf("list variation options: %w", err)
	}
	opts := make([]variation.Option, 0, len(rows))
	for _, o := range rows {
		opts = append(opts, variation.Option{
			ID:        o.ID.String(),
			Name:      o.Name,
			Price:     numericToDecimal(o.Price),
			Available: o.IsAvailable,
		})
	}
	return opts, nil
}

// optionsFromCategory resolves "category mode" options, consulting the
// cache first. These options carry price 0: a platter's protein choice is
// already priced into the platter.
func (s *Service) optionsFromCategory(ctx context.Context, categoryName string) ([]variation.Option, error) {
	if s.cache != nil {
		if opts, ok := s.cache.Get(ctx, categoryName); ok {
			return opts, nil
		}
	}

	items, err := s.store.ListMenuItemsByCategoryName(ctx, categoryName)
	if err != nil {
		return nil, fmt.Errorf("list items for category %q: %w", categoryName, err)
	}
	opts := make([]variation.Option, 0, len(items))
	for _, it := range items {
		opts = append(opts, variation.Option{
			ID:        it.ID.String(),
			Name:      it.Name,
			Price:     decimal.Zero,
			Available: true,
		})
	}

	if s.cache != nil {
		s.cache.Set(ctx, categoryName, opts)
	}
	return opts, nil
}

// BasePrice returns the price the customization session starts from: the
// discount price when one is set, the base price otherwise. The variation
// engine never sees the undiscounted value.
func BasePrice(item database.MenuItem) decimal.Decimal {
	if item.DiscountPrice.Valid {
		return numericToDecimal(item.DiscountPrice)
	}
	return numericToDecimal(item.BasePrice)
}

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
