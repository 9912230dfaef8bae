package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createPayment = `
INSERT INTO payments (
	order_id, payment_method, amount, status, reference_number,
	amount_received, change_amount
)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, order_id, payment_method, amount, status, reference_number,
          amount_received, change_amount, processed_at
`

type CreatePaymentParams struct {
	OrderID         uuid.UUID
	PaymentMethod   string
	Amount          pgtype.Numeric
	Status          string
	ReferenceNumber pgtype.Text
	AmountReceived  pgtype.Numeric
	ChangeAmount    pgtype.Numeric
}

func (q *Queries) CreatePayment(ctx context.Context, arg CreatePaymentParams) (Payment, error) {
	var p Payment
	err := q.db.QueryRow(ctx, createPayment,
		arg.OrderID, arg.PaymentMethod, arg.Amount, arg.Status,
		arg.ReferenceNumber, arg.AmountReceived, arg.ChangeAmount,
	).Scan(&p.ID, &p.OrderID, &p.PaymentMethod, &p.Amount, &p.Status,
		&p.ReferenceNumber, &p.AmountReceived, &p.ChangeAmount, &p.ProcessedAt)
	return p, err
}

const listPaymentsByOrder = `
SELECT id, order_id, payment_method, amount, status, reference_number,
       amount_received, change_amount, processed_at
FROM payments
WHERE order_id = $1
ORDER BY processed_at
`

func (q *Queries) ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]Payment, error) {
	rows, err := q.db.Query(ctx, listPaymentsByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var payments []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.PaymentMethod, &p.Amount, &p.Status,
			&p.ReferenceNumber, &p.AmountReceived, &p.ChangeAmount, &p.ProcessedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

const getCompletedPaymentTotal = `
SELECT COALESCE(SUM(amount), 0)
FROM payments
WHERE order_id = $1 AND status = 'COMPLETED'
`

// GetCompletedPaymentTotal returns the sum already paid against an order,
// used to reject over-payment.
func (q *Queries) GetCompletedPaymentTotal(ctx context.Context, orderID uuid.UUID) (pgtype.Numeric, error) {
	var total pgtype.Numeric
	err := q.db.QueryRow(ctx, getCompletedPaymentTotal, orderID).Scan(&total)
	return total, err
}
