package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Report queries aggregate completed orders only; cancelled orders never
// count toward revenue.

const getDailySales = `
SELECT DATE(created_at) AS sale_date,
       COUNT(*) AS order_count,
       COALESCE(SUM(total_amount), 0) AS total_revenue
FROM orders
WHERE status = 'COMPLETED' AND created_at >= $1 AND created_at < $2
GROUP BY DATE(created_at)
ORDER BY sale_date
`

type GetDailySalesParams struct {
	StartDate pgtype.Timestamptz
	EndDate   pgtype.Timestamptz
}

type GetDailySalesRow struct {
	SaleDate     pgtype.Date
	OrderCount   int64
	TotalRevenue pgtype.Numeric
}

func (q *Queries) GetDailySales(ctx context.Context, arg GetDailySalesParams) ([]GetDailySalesRow, error) {
	rows, err := q.db.Query(ctx, getDailySales, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []GetDailySalesRow
	for rows.Next() {
		var r GetDailySalesRow
		if err := rows.Scan(&r.SaleDate, &r.OrderCount, &r.TotalRevenue); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const getTopItems = `
SELECT oi.menu_item_id,
       oi.title,
       SUM(oi.quantity) AS quantity_sold,
       COALESCE(SUM(oi.subtotal), 0) AS total_revenue
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
WHERE o.status = 'COMPLETED' AND o.created_at >= $1 AND o.created_at < $2
GROUP BY oi.menu_item_id, oi.title
ORDER BY quantity_sold DESC
LIMIT $3
`

type GetTopItemsParams struct {
	StartDate pgtype.Timestamptz
	EndDate   pgtype.Timestamptz
	Limit     int32
}

type GetTopItemsRow struct {
	MenuItemID   uuid.UUID
	Title        string
	QuantitySold int64
	TotalRevenue pgtype.Numeric
}

func (q *Queries) GetTopItems(ctx context.Context, arg GetTopItemsParams) ([]GetTopItemsRow, error) {
	rows, err := q.db.Query(ctx, getTopItems, arg.StartDate, arg.EndDate, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []GetTopItemsRow
	for rows.Next() {
		var r GetTopItemsRow
		if err := rows.Scan(&r.MenuItemID, &r.Title, &r.QuantitySold, &r.TotalRevenue); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const getOrderTypeSummary = `
SELECT order_type,
       COUNT(*) AS order_count,
       COALESCE(SUM(total_amount), 0) AS total_revenue
FROM orders
WHERE status = 'COMPLETED' AND created_at >= $1 AND created_at < $2
GROUP BY order_type
ORDER BY order_type
`

type GetOrderTypeSummaryParams struct {
	StartDate pgtype.Timestamptz
	EndDate   pgtype.Timestamptz
}

type GetOrderTypeSummaryRow struct {
	OrderType    string
	OrderCount   int64
	TotalRevenue pgtype.Numeric
}

func (q *Queries) GetOrderTypeSummary(ctx context.Context, arg GetOrderTypeSummaryParams) ([]GetOrderTypeSummaryRow, error) {
	rows, err := q.db.Query(ctx, getOrderTypeSummary, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []GetOrderTypeSummaryRow
	for rows.Next() {
		var r GetOrderTypeSummaryRow
		if err := rows.Scan(&r.OrderType, &r.OrderCount, &r.TotalRevenue); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const getHourlySales = `
SELECT CAST(EXTRACT(HOUR FROM created_at) AS INTEGER) AS hour,
       COUNT(*) AS order_count,
       COALESCE(SUM(total_amount), 0) AS total_revenue
FROM orders
WHERE status = 'COMPLETED' AND created_at >= $1 AND created_at < $2
GROUP BY hour
ORDER BY hour
`

type GetHourlySalesParams struct {
	StartDate pgtype.Timestamptz
	EndDate   pgtype.Timestamptz
}

type GetHourlySalesRow struct {
	Hour         int32
	OrderCount   int64
	TotalRevenue pgtype.Numeric
}

func (q *Queries) GetHourlySales(ctx context.Context, arg GetHourlySalesParams) ([]GetHourlySalesRow, error) {
	rows, err := q.db.Query(ctx, getHourlySales, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []GetHourlySalesRow
	for rows.Next() {
		var r GetHourlySalesRow
		if err := rows.Scan(&r.Hour, &r.OrderCount, &r.TotalRevenue); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
