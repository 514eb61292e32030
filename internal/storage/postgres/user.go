package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/minshop/checkout/internal/domain/user"
)

var _ user.Repository = UserRepository{}

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	q querier
}

// Create inserts a user and assigns the generated id.
func (r UserRepository) Create(ctx context.Context, u *user.User) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO users (email, name) VALUES ($1, $2) RETURNING id`,
		u.Email, u.Name,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("creating user %q: %w", u.Email, err)
	}
	return nil
}

// GetByID returns user.ErrNotFound when no row matches.
func (r UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var u user.User
	err := r.q.QueryRow(ctx,
		`SELECT id, email, name FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("getting user %d: %w", id, err)
	}
	return &u, nil
}

// Delete removes the user and everything it owns as explicit multi-row
// deletes: payments of the user's orders, the orders, the issued coupons,
// then the user row. Run it inside a transaction for atomicity.
func (r UserRepository) Delete(ctx context.Context, id int64) error {
	stmts := []string{
		`DELETE FROM payment WHERE order_id IN (SELECT id FROM orders WHERE user_id = $1)`,
		`DELETE FROM orders WHERE user_id = $1`,
		`DELETE FROM user_coupon WHERE user_id = $1`,
	}
	for _, stmt := range stmts {
		if _, err := r.q.Exec(ctx, stmt, id); err != nil {
			return fmt.Errorf("cascading delete for user %d: %w", id, err)
		}
	}
	ct, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting user %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}
