package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// MenuCategory is a storefront menu section (Platters, BBQ, Drinks ...).
type MenuCategory struct {
	ID        uuid.UUID
	Name      string
	SortOrder int32
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MenuItem is one catalog entry. Platters (IsPlatter) customize through
// variation categories; plain items through simple variations. Variation
// schema knobs (SimpleSelection, AllowMultipleCategories,
// TotalMaxSelections) live on the item row.
type MenuItem struct {
	ID                      uuid.UUID
	CategoryID              uuid.UUID
	Name                    string
	Description             pgtype.Text
	BasePrice               pgtype.Numeric
	DiscountPrice           pgtype.Numeric
	ImageUrl                pgtype.Text
	IsPlatter               bool
	SimpleSelection         pgtype.Text
	AllowMultipleCategories bool
	TotalMaxSelections      pgtype.Int4
	SortOrder               int32
	IsActive                bool
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// SimpleVariation is a flat, ungrouped option attached directly to an item.
type SimpleVariation struct {
	ID          uuid.UUID
	MenuItemID  uuid.UUID
	Name        string
	Price       pgtype.Numeric
	IsAvailable bool
	SortOrder   int32
	IsActive    bool
}

// VariationCategory is a named option group on a platter item. When
// SourceCategory is set, its options are resolved lazily from the live menu
// items of that category (price 0); otherwise they come from eagerly stored
// VariationOption rows.
type VariationCategory struct {
	ID             uuid.UUID
	MenuItemID     uuid.UUID
	Name           string
	SelectionType  string
	Required       bool
	MaxSelections  pgtype.Int4
	SourceCategory pgtype.Text
	SortOrder      int32
	IsActive       bool
}

// VariationOption is one eagerly stored choice in a variation category.
type VariationOption struct {
	ID                  uuid.UUID
	VariationCategoryID uuid.UUID
	Name                string
	Price               pgtype.Numeric
	IsAvailable         bool
	SortOrder           int32
	IsActive            bool
}

// Order is one placed order.
type Order struct {
	ID              uuid.UUID
	OrderNumber     string
	OrderType       string
	Status          string
	CustomerName    string
	CustomerPhone   pgtype.Text
	TableNumber     pgtype.Text
	DeliveryAddress pgtype.Text
	Notes           pgtype.Text
	Subtotal        pgtype.Numeric
	TotalAmount     pgtype.Numeric
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem is one cart line persisted with an order. UnitPrice already
// includes the selected variation deltas; Title and ImageUrl are snapshots
// so menu edits never rewrite order history.
type OrderItem struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	MenuItemID uuid.UUID
	Title      string
	Quantity   int32
	UnitPrice  pgtype.Numeric
	Subtotal   pgtype.Numeric
	ImageUrl   pgtype.Text
}

// OrderItemVariation is one flattened variation name on an order item, kept
// in flatten order as a display/audit trail.
type OrderItemVariation struct {
	ID          uuid.UUID
	OrderItemID uuid.UUID
	OptionName  string
	SortOrder   int32
}

// Payment is one payment record against an order.
type Payment struct {
	ID              uuid.UUID
	OrderID         uuid.UUID
	PaymentMethod   string
	Amount          pgtype.Numeric
	Status          string
	ReferenceNumber pgtype.Text
	AmountReceived  pgtype.Numeric
	ChangeAmount    pgtype.Numeric
	ProcessedAt     time.Time
}

// StorefrontSection is one arrangeable block of the storefront home page.
// Layout is an opaque JSON document the admin panel round-trips.
type StorefrontSection struct {
	ID        uuid.UUID
	Title     string
	Kind      string
	Layout    []byte
	SortOrder int32
	IsActive  bool
	UpdatedAt time.Time
}

// User is an admin-panel account.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}
