package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/minshop/checkout/internal/domain/coupon"
)

var (
	_ coupon.Repository           = CouponRepository{}
	_ coupon.UserCouponRepository = UserCouponRepository{}
)

// CouponRepository implements coupon.Repository backed by PostgreSQL.
type CouponRepository struct {
	q querier
}

// Create inserts a coupon definition and assigns the generated id.
func (r CouponRepository) Create(ctx context.Context, c *coupon.Coupon) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO coupon (name, kind, value) VALUES ($1, $2, $3) RETURNING id`,
		c.Name, c.Kind, c.Value,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("creating coupon %q: %w", c.Name, err)
	}
	return nil
}

// GetByID returns coupon.ErrNotFound when no row matches.
func (r CouponRepository) GetByID(ctx context.Context, id int64) (*coupon.Coupon, error) {
	var c coupon.Coupon
	err := r.q.QueryRow(ctx,
		`SELECT id, name, kind, value FROM coupon WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Kind, &c.Value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrNotFound
		}
		return nil, fmt.Errorf("getting coupon %d: %w", id, err)
	}
	return &c, nil
}

// UserCouponRepository implements coupon.UserCouponRepository backed by
// PostgreSQL.
type UserCouponRepository struct {
	q querier
}

// Create inserts an issued coupon and assigns the generated id.
func (r UserCouponRepository) Create(ctx context.Context, uc *coupon.UserCoupon) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO user_coupon (user_id, coupon_id, used)
		 VALUES ($1, $2, $3) RETURNING id`,
		uc.UserID, uc.CouponID, uc.Used,
	).Scan(&uc.ID)
	if err != nil {
		return fmt.Errorf("issuing coupon %d to user %d: %w", uc.CouponID, uc.UserID, err)
	}
	return nil
}

// GetByID returns coupon.ErrUserCouponNotFound when no row matches.
func (r UserCouponRepository) GetByID(ctx context.Context, id int64) (*coupon.UserCoupon, error) {
	var uc coupon.UserCoupon
	err := r.q.QueryRow(ctx,
		`SELECT id, user_id, coupon_id, used FROM user_coupon WHERE id = $1`, id,
	).Scan(&uc.ID, &uc.UserID, &uc.CouponID, &uc.Used)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrUserCouponNotFound
		}
		return nil, fmt.Errorf("getting user coupon %d: %w", id, err)
	}
	return &uc, nil
}

// MarkUsed burns the coupon with a guarded update. Zero rows affected means
// a concurrent transaction burned it first, or it was already spent; either
// way the caller gets coupon.ErrAlreadyUsed.
func (r UserCouponRepository) MarkUsed(ctx context.Context, id int64) error {
	ct, err := r.q.Exec(ctx,
		`UPDATE user_coupon SET used = TRUE WHERE id = $1 AND NOT used`, id)
	if err != nil {
		return fmt.Errorf("burning user coupon %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		var exists bool
		if err := r.q.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM user_coupon WHERE id = $1)`, id,
		).Scan(&exists); err != nil {
			return fmt.Errorf("checking user coupon %d: %w", id, err)
		}
		if !exists {
			return coupon.ErrUserCouponNotFound
		}
		return coupon.ErrAlreadyUsed
	}
	return nil
}
