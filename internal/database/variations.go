package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// --- Simple variations ---

const listSimpleVariationsByItem = `
SELECT id, menu_item_id, name, price, is_available, sort_order, is_active
FROM simple_variations
WHERE menu_item_id = $1 AND is_active = true
ORDER BY sort_order, name
`

func (q *Queries) ListSimpleVariationsByItem(ctx context.Context, menuItemID uuid.UUID) ([]SimpleVariation, error) {
	rows, err := q.db.Query(ctx, listSimpleVariationsByItem, menuItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SimpleVariation
	for rows.Next() {
		var v SimpleVariation
		if err := rows.Scan(&v.ID, &v.MenuItemID, &v.Name, &v.Price, &v.IsAvailable, &v.SortOrder, &v.IsActive); err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

const createSimpleVariation = `
INSERT INTO simple_variations (menu_item_id, name, price, is_available, sort_order)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, menu_item_id, name, price, is_available, sort_order, is_active
`

type CreateSimpleVariationParams struct {
	MenuItemID  uuid.UUID
	Name        string
	Price       pgtype.Numeric
	IsAvailable bool
	SortOrder   int32
}

func (q *Queries) CreateSimpleVariation(ctx context.Context, arg CreateSimpleVariationParams) (SimpleVariation, error) {
	var v SimpleVariation
	err := q.db.QueryRow(ctx, createSimpleVariation,
		arg.MenuItemID, arg.Name, arg.Price, arg.IsAvailable, arg.SortOrder,
	).Scan(&v.ID, &v.MenuItemID, &v.Name, &v.Price, &v.IsAvailable, &v.SortOrder, &v.IsActive)
	return v, err
}

const updateSimpleVariation = `
UPDATE simple_variations
SET name = $1, price = $2, is_available = $3, sort_order = $4
WHERE id = $5 AND menu_item_id = $6 AND is_active = true
RETURNING id, menu_item_id, name, price, is_available, sort_order, is_active
`

type UpdateSimpleVariationParams struct {
	Name        string
	Price       pgtype.Numeric
	IsAvailable bool
	SortOrder   int32
	ID          uuid.UUID
	MenuItemID  uuid.UUID
}

func (q *Queries) UpdateSimpleVariation(ctx context.Context, arg UpdateSimpleVariationParams) (SimpleVariation, error) {
	var v SimpleVariation
	err := q.db.QueryRow(ctx, updateSimpleVariation,
		arg.Name, arg.Price, arg.IsAvailable, arg.SortOrder, arg.ID, arg.MenuItemID,
	).Scan(&v.ID, &v.MenuItemID, &v.Name, &v.Price, &v.IsAvailable, &v.SortOrder, &v.IsActive)
	return v, err
}

const softDeleteSimpleVariation = `
UPDATE simple_variations
SET is_active = false
WHERE id = $1 AND menu_item_id = $2 AND is_active = true
RETURNING id
`

type SoftDeleteSimpleVariationParams struct {
	ID         uuid.UUID
	MenuItemID uuid.UUID
}

func (q *Queries) SoftDeleteSimpleVariation(ctx context.Context, arg SoftDeleteSimpleVariationParams) (uuid.UUID, error) {
	var out uuid.UUID
	err := q.db.QueryRow(ctx, softDeleteSimpleVariation, arg.ID, arg.MenuItemID).Scan(&out)
	return out, err
}

// --- Variation categories ---

const variationCategoryColumns = `id, menu_item_id, name, selection_type, required,
max_selections, source_category, sort_order, is_active`

const listVariationCategoriesByItem = `
SELECT ` + variationCategoryColumns + `
FROM variation_categories
WHERE menu_item_id = $1 AND is_active = true
ORDER BY sort_order, name
`

func (q *Queries) ListVariationCategoriesByItem(ctx context.Context, menuItemID uuid.UUID) ([]VariationCategory, error) {
	rows, err := q.db.Query(ctx, listVariationCategoriesByItem, menuItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []VariationCategory
	for rows.Next() {
		var c VariationCategory
		if err := rows.Scan(&c.ID, &c.MenuItemID, &c.Name, &c.SelectionType, &c.Required,
			&c.MaxSelections, &c.SourceCategory, &c.SortOrder, &c.IsActive); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const getVariationCategory = `
SELECT ` + variationCategoryColumns + `
FROM variation_categories
WHERE id = $1 AND menu_item_id = $2 AND is_active = true
`

type GetVariationCategoryParams struct {
	ID         uuid.UUID
	MenuItemID uuid.UUID
}

func (q *Queries) GetVariationCategory(ctx context.Context, arg GetVariationCategoryParams) (VariationCategory, error) {
	var c VariationCategory
	err := q.db.QueryRow(ctx, getVariationCategory, arg.ID, arg.MenuItemID).
		Scan(&c.ID, &c.MenuItemID, &c.Name, &c.SelectionType, &c.Required,
			&c.MaxSelections, &c.SourceCategory, &c.SortOrder, &c.IsActive)
	return c, err
}

const createVariationCategory = `
INSERT INTO variation_categories (
	menu_item_id, name, selection_type, required, max_selections,
	source_category, sort_order
)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + variationCategoryColumns

type CreateVariationCategoryParams struct {
	MenuItemID     uuid.UUID
	Name           string
	SelectionType  string
	Required       bool
	MaxSelections  pgtype.Int4
	SourceCategory pgtype.Text
	SortOrder      int32
}

func (q *Queries) CreateVariationCategory(ctx context.Context, arg CreateVariationCategoryParams) (VariationCategory, error) {
	var c VariationCategory
	err := q.db.QueryRow(ctx, createVariationCategory,
		arg.MenuItemID, arg.Name, arg.SelectionType, arg.Required,
		arg.MaxSelections, arg.SourceCategory, arg.SortOrder,
	).Scan(&c.ID, &c.MenuItemID, &c.Name, &c.SelectionType, &c.Required,
		&c.MaxSelections, &c.SourceCategory, &c.SortOrder, &c.IsActive)
	return c, err
}

const updateVariationCategory = `
UPDATE variation_categories
SET name = $1, selection_type = $2, required = $3, max_selections = $4,
    source_category = $5, sort_order = $6
WHERE id = $7 AND menu_item_id = $8 AND is_active = true
RETURNING ` + variationCategoryColumns

type UpdateVariationCategoryParams struct {
	Name           string
	SelectionType  string
	Required       bool
	MaxSelections  pgtype.Int4
	SourceCategory pgtype.Text
	SortOrder      int32
	ID             uuid.UUID
	MenuItemID     uuid.UUID
}

func (q *Queries) UpdateVariationCategory(ctx context.Context, arg UpdateVariationCategoryParams) (VariationCategory, error) {
	var c VariationCategory
	err := q.db.QueryRow(ctx, updateVariationCategory,
		arg.Name, arg.SelectionType, arg.Required, arg.MaxSelections,
		arg.SourceCategory, arg.SortOrder, arg.ID, arg.MenuItemID,
	).Scan(&c.ID, &c.MenuItemID, &c.Name, &c.SelectionType, &c.Required,
		&c.MaxSelections, &c.SourceCategory, &c.SortOrder, &c.IsActive)
	return c, err
}

const softDeleteVariationCategory = `
UPDATE variation_categories
SET is_active = false
WHERE id = $1 AND menu_item_id = $2 AND is_active = true
RETURNING id
`

type SoftDeleteVariationCategoryParams struct {
	ID         uuid.UUID
	MenuItemID uuid.UUID
}

func (q *Queries) SoftDeleteVariationCategory(ctx context.Context, arg SoftDeleteVariationCategoryParams) (uuid.UUID, error) {
	var out uuid.UUID
	err := q.db.QueryRow(ctx, softDeleteVariationCategory, arg.ID, arg.MenuItemID).Scan(&out)
	return out, err
}

// --- Variation options ---

const listVariationOptionsByCategory = `
SELECT id, variation_category_id, name, price, is_available, sort_order, is_active
FROM variation_options
WHERE variation_category_id = $1 AND is_active = true
ORDER BY sort_order, name
`

func (q *Queries) ListVariationOptionsByCategory(ctx context.Context, variationCategoryID uuid.UUID) ([]VariationOption, error) {
	rows, err := q.db.Query(ctx, listVariationOptionsByCategory, variationCategoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []VariationOption
	for rows.Next() {
		var o VariationOption
		if err := rows.Scan(&o.ID, &o.VariationCategoryID, &o.Name, &o.Price,
			&o.IsAvailable, &o.SortOrder, &o.IsActive); err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

const createVariationOption = `
INSERT INTO variation_options (variation_category_id, name, price, is_available, sort_order)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, variation_category_id, name, price, is_available, sort_order, is_active
`

type CreateVariationOptionParams struct {
	VariationCategoryID uuid.UUID
	Name                string
	Price               pgtype.Numeric
	IsAvailable         bool
	SortOrder           int32
}

func (q *Queries) CreateVariationOption(ctx context.Context, arg CreateVariationOptionParams) (VariationOption, error) {
	var o VariationOption
	err := q.db.QueryRow(ctx, createVariationOption,
		arg.VariationCategoryID, arg.Name, arg.Price, arg.IsAvailable, arg.SortOrder,
	).Scan(&o.ID, &o.VariationCategoryID, &o.Name, &o.Price, &o.IsAvailable, &o.SortOrder, &o.IsActive)
	return o, err
}

const updateVariationOption = `
UPDATE variation_options
SET name = $1, price = $2, is_available = $3, sort_order = $4
WHERE id = $5 AND variation_category_id = $6 AND is_active = true
RETURNING id, variation_category_id, name, price, is_available, sort_order, is_active
`

type UpdateVariationOptionParams struct {
	Name                string
	Price               pgtype.Numeric
	IsAvailable         bool
	SortOrder           int32
	ID                  uuid.UUID
	VariationCategoryID uuid.UUID
}

func (q *Queries) UpdateVariationOption(ctx context.Context, arg UpdateVariationOptionParams) (VariationOption, error) {
	var o VariationOption
	err := q.db.QueryRow(ctx, updateVariationOption,
		arg.Name, arg.Price, arg.IsAvailable, arg.SortOrder, arg.ID, arg.VariationCategoryID,
	).Scan(&o.ID, &o.VariationCategoryID, &o.Name, &o.Price, &o.IsAvailable, &o.SortOrder, &o.IsActive)
	return o, err
}

const softDeleteVariationOption = `
UPDATE variation_options
SET is_active = false
WHERE id = $1 AND variation_category_id = $2 AND is_active = true
RETURNING id
`

type SoftDeleteVariationOptionParams struct {
	ID                  uuid.UUID
	VariationCategoryID uuid.UUID
}

func (q *Queries) SoftDeleteVariationOption(ctx context.Context, arg SoftDeleteVariationOptionParams) (uuid.UUID, error) {
	var out uuid.UUID
	err := q.db.QueryRow(ctx, softDeleteVariationOption, arg.ID, arg.VariationCategoryID).Scan(&out)
	return out, err
}
