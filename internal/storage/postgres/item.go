package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/minshop/checkout/internal/domain/item"
)

var _ item.Repository = ItemRepository{}

// ItemRepository implements item.Repository backed by PostgreSQL.
type ItemRepository struct {
	q querier
}

const itemColumns = `id, name, price, stock, status, category_id`

// Create inserts an item and assigns the generated id.
func (r ItemRepository) Create(ctx context.Context, it *item.Item) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO item (name, price, stock, status, category_id)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		it.Name, it.Price, it.Stock, it.Status, it.CategoryID,
	).Scan(&it.ID)
	if err != nil {
		return fmt.Errorf("creating item %q: %w", it.Name, err)
	}
	return nil
}

// GetByID returns item.ErrNotFound when no row matches.
func (r ItemRepository) GetByID(ctx context.Context, id int64) (*item.Item, error) {
	return r.get(ctx, `SELECT `+itemColumns+` FROM item WHERE id = $1`, id)
}

// GetForUpdate takes the exclusive row lock. A concurrent locker of the
// same item blocks here until this transaction commits or rolls back.
func (r ItemRepository) GetForUpdate(ctx context.Context, id int64) (*item.Item, error) {
	return r.get(ctx, `SELECT `+itemColumns+` FROM item WHERE id = $1 FOR UPDATE`, id)
}

func (r ItemRepository) get(ctx context.Context, sql string, id int64) (*item.Item, error) {
	var it item.Item
	err := r.q.QueryRow(ctx, sql, id).
		Scan(&it.ID, &it.Name, &it.Price, &it.Stock, &it.Status, &it.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, item.ErrNotFound
		}
		return nil, fmt.Errorf("getting item %d: %w", id, err)
	}
	return &it, nil
}

// UpdateStock persists the new stock counter.
func (r ItemRepository) UpdateStock(ctx context.Context, id int64, stock int) error {
	ct, err := r.q.Exec(ctx,
		`UPDATE item SET stock = $2 WHERE id = $1`, id, stock)
	if err != nil {
		return fmt.Errorf("updating stock of item %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return item.ErrNotFound
	}
	return nil
}
