package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// --- Menu categories ---

const listMenuCategories = `
SELECT id, name, sort_order, is_active, created_at, updated_at
FROM menu_categories
WHERE is_active = true
ORDER BY sort_order, name
`

func (q *Queries) ListMenuCategories(ctx context.Context) ([]MenuCategory, error) {
	rows, err := q.db.Query(ctx, listMenuCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MenuCategory
	for rows.Next() {
		var c MenuCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const getMenuCategory = `
SELECT id, name, sort_order, is_active, created_at, updated_at
FROM menu_categories
WHERE id = $1 AND is_active = true
`

func (q *Queries) GetMenuCategory(ctx context.Context, id uuid.UUID) (MenuCategory, error) {
	var c MenuCategory
	err := q.db.QueryRow(ctx, getMenuCategory, id).
		Scan(&c.ID, &c.Name, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const createMenuCategory = `
INSERT INTO menu_categories (name, sort_order)
VALUES ($1, $2)
RETURNING id, name, sort_order, is_active, created_at, updated_at
`

type CreateMenuCategoryParams struct {
	Name      string
	SortOrder int32
}

func (q *Queries) CreateMenuCategory(ctx context.Context, arg CreateMenuCategoryParams) (MenuCategory, error) {
	var c MenuCategory
	err := q.db.QueryRow(ctx, createMenuCategory, arg.Name, arg.SortOrder).
		Scan(&c.ID, &c.Name, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const updateMenuCategory = `
UPDATE menu_categories
SET name = $1, sort_order = $2, updated_at = now()
WHERE id = $3 AND is_active = true
RETURNING id, name, sort_order, is_active, created_at, updated_at
`

type UpdateMenuCategoryParams struct {
	Name      string
	SortOrder int32
	ID        uuid.UUID
}

func (q *Queries) UpdateMenuCategory(ctx context.Context, arg UpdateMenuCategoryParams) (MenuCategory, error) {
	var c MenuCategory
	err := q.db.QueryRow(ctx, updateMenuCategory, arg.Name, arg.SortOrder, arg.ID).
		Scan(&c.ID, &c.Name, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const softDeleteMenuCategory = `
UPDATE menu_categories
SET is_active = false, updated_at = now()
WHERE id = $1 AND is_active = true
RETURNING id
`

func (q *Queries) SoftDeleteMenuCategory(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var out uuid.UUID
	err := q.db.QueryRow(ctx, softDeleteMenuCategory, id).Scan(&out)
	return out, err
}

// --- Menu items ---

const menuItemColumns = `id, category_id, name, description, base_price, discount_price,
image_url, is_platter, simple_selection, allow_multiple_categories,
total_max_selections, sort_order, is_active, created_at, updated_at`

func scanMenuItem(row interface{ Scan(...interface{}) error }) (MenuItem, error) {
	var m MenuItem
	err := row.Scan(
		&m.ID, &m.CategoryID, &m.Name, &m.Description, &m.BasePrice, &m.DiscountPrice,
		&m.ImageUrl, &m.IsPlatter, &m.SimpleSelection, &m.AllowMultipleCategories,
		&m.TotalMaxSelections, &m.SortOrder, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

const listMenuItems = `
SELECT ` + menuItemColumns + `
FROM menu_items
WHERE is_active = true
ORDER BY sort_order, name
`

func (q *Queries) ListMenuItems(ctx context.Context) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, listMenuItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

const listMenuItemsByCategory = `
SELECT ` + menuItemColumns + `
FROM menu_items
WHERE category_id = $1 AND is_active = true
ORDER BY sort_order, name
`

func (q *Queries) ListMenuItemsByCategory(ctx context.Context, categoryID uuid.UUID) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, listMenuItemsByCategory, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

const listMenuItemsByCategoryName = `
SELECT ` + menuItemColumns + `
FROM menu_items
WHERE is_active = true
  AND category_id = (SELECT id FROM menu_categories WHERE name = $1 AND is_active = true)
ORDER BY sort_order, name
`

// ListMenuItemsByCategoryName resolves the live items of a named menu
// category. Used to populate "category mode" platter option lists.
func (q *Queries) ListMenuItemsByCategoryName(ctx context.Context, name string) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, listMenuItemsByCategoryName, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

const getMenuItem = `
SELECT ` + menuItemColumns + `
FROM menu_items
WHERE id = $1 AND is_active = true
`

func (q *Queries) GetMenuItem(ctx context.Context, id uuid.UUID) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, getMenuItem, id))
}

const createMenuItem = `
INSERT INTO menu_items (
	category_id, name, description, base_price, discount_price, image_url,
	is_platter, simple_selection, allow_multiple_categories,
	total_max_selections, sort_order
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + menuItemColumns

type CreateMenuItemParams struct {
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
}

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, createMenuItem,
		arg.CategoryID, arg.Name, arg.Description, arg.BasePrice, arg.DiscountPrice,
		arg.ImageUrl, arg.IsPlatter, arg.SimpleSelection, arg.AllowMultipleCategories,
		arg.TotalMaxSelections, arg.SortOrder,
	))
}

const updateMenuItem = `
UPDATE menu_items
SET category_id = $1, name = $2, description = $3, base_price = $4,
    discount_price = $5, image_url = $6, is_platter = $7,
    simple_selection = $8, allow_multiple_categories = $9,
    total_max_selections = $10, sort_order = $11, updated_at = now()
WHERE id = $12 AND is_active = true
RETURNING ` + menuItemColumns

type UpdateMenuItemParams struct {
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
	ID                      uuid.UUID
}

func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, updateMenuItem,
		arg.CategoryID, arg.Name, arg.Description, arg.BasePrice, arg.DiscountPrice,
		arg.ImageUrl, arg.IsPlatter, arg.SimpleSelection, arg.AllowMultipleCategories,
		arg.TotalMaxSelections, arg.SortOrder, arg.ID,
	))
}

const softDeleteMenuItem = `
UPDATE menu_items
SET is_active = false, updated_at = now()
WHERE id = $1 AND is_active = true
RETURNING id
`

func (q *Queries) SoftDeleteMenuItem(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var out uuid.UUID
	err := q.db.QueryRow(ctx, softDeleteMenuItem, id).Scan(&out)
	return out, err
}
