package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/minshop/checkout/internal/domain/order"
)

var _ order.Repository = OrderRepository{}

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	q querier
}

// Create inserts an order and assigns the generated id.
func (r OrderRepository) Create(ctx context.Context, o *order.Order) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO orders (user_id, item_id, quantity, total_price, status)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		o.UserID, o.ItemID, o.Quantity, o.TotalPrice, o.Status,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("creating order for user %d: %w", o.UserID, err)
	}
	return nil
}

// Update persists the order status and cascade-persists the attached
// payment: inserted on first save, updated afterwards.
func (r OrderRepository) Update(ctx context.Context, o *order.Order) error {
	ct, err := r.q.Exec(ctx,
		`UPDATE orders SET status = $2 WHERE id = $1`, o.ID, o.Status)
	if err != nil {
		return fmt.Errorf("updating order %d: %w", o.ID, err)
	}
	if ct.RowsAffected() == 0 {
		return order.ErrNotFound
	}

	p := o.Payment
	if p == nil {
		return nil
	}
	if p.ID == 0 {
		err := r.q.QueryRow(ctx,
			`INSERT INTO payment (order_id, amount, status, transaction_id)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			p.OrderID, p.Amount, p.Status, p.TransactionID,
		).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("creating payment for order %d: %w", o.ID, err)
		}
		return nil
	}
	_, err = r.q.Exec(ctx,
		`UPDATE payment SET status = $2, transaction_id = $3 WHERE id = $1`,
		p.ID, p.Status, p.TransactionID)
	if err != nil {
		return fmt.Errorf("updating payment %d: %w", p.ID, err)
	}
	return nil
}

// GetByID loads the order and, when present, its payment.
func (r OrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	var o order.Order
	err := r.q.QueryRow(ctx,
		`SELECT id, user_id, item_id, quantity, total_price, status
		 FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.UserID, &o.ItemID, &o.Quantity, &o.TotalPrice, &o.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}

	var p order.Payment
	err = r.q.QueryRow(ctx,
		`SELECT id, amount, status, transaction_id
		 FROM payment WHERE order_id = $1`, id,
	).Scan(&p.ID, &p.Amount, &p.Status, &p.TransactionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &o, nil
		}
		return nil, fmt.Errorf("getting payment of order %d: %w", id, err)
	}
	o.AttachPayment(&p)
	return &o, nil
}
