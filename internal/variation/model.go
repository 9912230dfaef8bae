// Package variation implements the item customization engine: selection
// state for simple variations and grouped variation categories, price
// aggregation on top of an externally supplied base price, constraint
// validation, and flattening of selections into the display-name list the
// cart boundary stores.
//
// All state is in-memory and owned by a single customization session. The
// engine never fetches option lists itself; callers populate Config before
// handing it over (see internal/catalog).
package variation

import (
	"github.com/shopspring/decimal"
	"github.com/zaiqa-kitchen/api/internal/enum"
)

// Option is one selectable choice within a category or a simple variation
// list. Price is a non-negative delta applied on top of the item base price.
// Options are immutable once loaded from catalog configuration.
type Option struct {
	ID        string
	Name      string
	Price     decimal.Decimal
	Available bool
}

// Category is a named, grouped set of options with its own selection rule.
// A nil MaxSelections means unlimited.
type Category struct {
	ID            string
	Name          string
	Type          string // enum.SelectionTypeSingle or enum.SelectionTypeMultiple
	Required      bool
	MaxSelections *int
	Options       []Option
}

// Config is the full customization schema for one catalog item. Simple items
// populate Simple; platters populate Categories. The model permits both.
type Config struct {
	Simple          []Option
	SimpleSelection string // enum.SelectionTypeSingle or enum.SelectionTypeMultiple

	Categories []Category

	// AllowMultipleCategories is advisory: when false and more than one
	// category has a selection, validation emits a warning, never an error.
	AllowMultipleCategories bool

	// TotalMaxSelections caps selections across all groups. Nil means no cap.
	TotalMaxSelections *int
}

// Selected is a chosen option carrying a price snapshot taken at selection
// time, so a catalog price change mid-session cannot drift the total.
type Selected struct {
	OptionID   string
	OptionName string
	Price      decimal.Decimal
}

// Selections is the mutable per-session selection state. The zero value is
// structurally invalid; use NewSelections (or a Session) to get a usable one.
type Selections struct {
	Simple     []Selected
	Categories map[string][]Selected
}

// NewSelections returns an empty, structurally valid selection state.
func NewSelections() Selections {
	return Selections{
		Simple:     []Selected{},
		Categories: map[string][]Selected{},
	}
}

// category returns the config category with the given id, or nil.
func (c *Config) category(id string) *Category {
	for i := range c.Categories {
		if c.Categories[i].ID == id {
			return &c.Categories[i]
		}
	}
	return nil
}

// snapshot converts an Option into a Selected, capturing the current price.
func snapshot(opt Option) Selected {
	return Selected{
		OptionID:   opt.ID,
		OptionName: opt.Name,
		Price:      opt.Price,
	}
}

// selectionTypeOrDefault treats anything other than "multiple" as "single",
// matching how legacy configs with a missing type behaved.
func selectionTypeOrDefault(t string) string {
	if t == enum.SelectionTypeMultiple {
		return enum.SelectionTypeMultiple
	}
	return enum.SelectionTypeSingle
}
