// Package postgres implements storage.DB on PostgreSQL via pgx. The
// exclusive item lock is SELECT ... FOR UPDATE; the unit of work is a
// pgx transaction committed on nil return and rolled back on error.
package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minshop/checkout/db"
	"github.com/minshop/checkout/internal/domain/coupon"
	"github.com/minshop/checkout/internal/domain/item"
	"github.com/minshop/checkout/internal/domain/order"
	"github.com/minshop/checkout/internal/domain/user"
	"github.com/minshop/checkout/internal/storage"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same
// repository code serves auto-commit and transactional access.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPool creates a pgx connection pool for the given database URL.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	return pool, nil
}

// RunMigrations executes the embedded DDL schema against the pool.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, db.Schema)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

var _ storage.DB = (*DB)(nil)

// DB implements storage.DB over a pgx pool.
type DB struct {
	pool *pgxpool.Pool
	store
}

// NewDB creates a DB over the given pool.
func NewDB(pool *pgxpool.Pool) *DB {
	return &DB{pool: pool, store: store{q: pool}}
}

// InTx opens a transaction, hands a transaction-scoped Store to fn, and
// commits when fn returns nil. Any error rolls back everything: row locks
// taken via GetForUpdate release on either outcome.
func (d *DB) InTx(ctx context.Context, fn func(storage.Store) error) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(store{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	return nil
}

// store bundles repositories over one querier (pool or transaction).
type store struct {
	q querier
}

func (s store) Users() user.Repository                   { return UserRepository{q: s.q} }
func (s store) Items() item.Repository                   { return ItemRepository{q: s.q} }
func (s store) Coupons() coupon.Repository               { return CouponRepository{q: s.q} }
func (s store) UserCoupons() coupon.UserCouponRepository { return UserCouponRepository{q: s.q} }
func (s store) Orders() order.Repository                 { return OrderRepository{q: s.q} }
