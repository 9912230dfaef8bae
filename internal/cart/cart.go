// Package cart holds storefront cart sessions in Redis. A cart line is the
// boundary the variation engine flattens into: item id, title snapshot,
// unit price with variation deltas folded in, image reference, and the
// flattened variation display names. No structured variation data crosses
// this boundary.
package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Line is one cart entry.
type Line struct {
	MenuItemID string          `json:"menu_item_id"`
	Title      string          `json:"title"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int32           `json:"quantity"`
	ImageURL   string          `json:"image_url,omitempty"`
	Variations []string        `json:"variations"`
}

// Cart is one session's cart.
type Cart struct {
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subtotal sums unit price times quantity across all lines.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity)))
	}
	return total
}

// sameLine reports whether two lines are the same item with the same
// variation set, in which case quantities merge instead of duplicating.
func sameLine(a, b Line) bool {
	if a.MenuItemID != b.MenuItemID || len(a.Variations) != len(b.Variations) {
		return false
	}
	for i := range a.Variations {
		if a.Variations[i] != b.Variations[i] {
			return false
		}
	}
	return true
}
