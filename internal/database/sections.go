package database

import (
	"context"

	"github.com/google/uuid"
)

const sectionColumns = `id, title, kind, layout, sort_order, is_active, updated_at`

func scanSection(row interface{ Scan(...interface{}) error }) (StorefrontSection, error) {
	var s StorefrontSection
	err := row.Scan(&s.ID, &s.Title, &s.Kind, &s.Layout, &s.SortOrder, &s.IsActive, &s.UpdatedAt)
	return s, err
}

const listStorefrontSections = `
SELECT ` + sectionColumns + `
FROM storefront_sections
WHERE is_active = true
ORDER BY sort_order
`

func (q *Queries) ListStorefrontSections(ctx context.Context) ([]StorefrontSection, error) {
	rows, err := q.db.Query(ctx, listStorefrontSections)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sections []StorefrontSection
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

const getStorefrontSection = `
SELECT ` + sectionColumns + `
FROM storefront_sections
WHERE id = $1 AND is_active = true
`

func (q *Queries) GetStorefrontSection(ctx context.Context, id uuid.UUID) (StorefrontSection, error) {
	return scanSection(q.db.QueryRow(ctx, getStorefrontSection, id))
}

const createStorefrontSection = `
INSERT INTO storefront_sections (title, kind, layout, sort_order)
VALUES ($1, $2, $3, $4)
RETURNING ` + sectionColumns

type CreateStorefrontSectionParams struct {
	Title     string
	Kind      string
	Layout    []byte
	SortOrder int32
}

func (q *Queries) CreateStorefrontSection(ctx context.Context, arg CreateStorefrontSectionParams) (StorefrontSection, error) {
	return scanSection(q.db.QueryRow(ctx, createStorefrontSection,
		arg.Title, arg.Kind, arg.Layout, arg.SortOrder))
}

const updateStorefrontSection = `
UPDATE storefront_sections
SET title = $1, kind = $2, layout = $3, updated_at = now()
WHERE id = $4 AND is_active = true
RETURNING ` + sectionColumns

type UpdateStorefrontSectionParams struct {
	Title  string
	Kind   string
	Layout []byte
	ID     uuid.UUID
}

func (q *Queries) UpdateStorefrontSection(ctx context.Context, arg UpdateStorefrontSectionParams) (StorefrontSection, error) {
	return scanSection(q.db.QueryRow(ctx, updateStorefrontSection,
		arg.Title, arg.Kind, arg.Layout, arg.ID))
}

const setStorefrontSectionOrder = `
UPDATE storefront_sections
SET sort_order = $1, updated_at = now()
WHERE id = $2 AND is_active = true
RETURNING id
`

type SetStorefrontSectionOrderParams struct {
	SortOrder int32
	ID        uuid.UUID
}

// SetStorefrontSectionOrder writes one section's position. The handler
// applies the full drag-and-drop ordering in a transaction, one row each.
func (q *Queries) SetStorefrontSectionOrder(ctx context.Context, arg SetStorefrontSectionOrderParams) (uuid.UUID, error) {
	var out uuid.UUID
	err := q.db.QueryRow(ctx, setStorefrontSectionOrder, arg.SortOrder, arg.ID).Scan(&out)
	return out, err
}

const softDeleteStorefrontSection = `
UPDATE storefront_sections
SET is_active = false, updated_at = now()
WHERE id = $1 AND is_active = true
RETURNING id
`

func (q *Queries) SoftDeleteStorefrontSection(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var out uuid.UUID
	err := q.db.QueryRow(ctx, softDeleteStorefrontSection, id).Scan(&out)
	return out, err
}
