package item

import (
	"context"

	"github.com/go-faster/errors"
)

// Status enumerates the sale lifecycle states of an item.
type Status string

const (
	// StatusAvailable marks an item as purchasable.
	StatusAvailable Status = "AVAILABLE"
	// StatusInactive marks an item as withdrawn from sale.
	StatusInactive Status = "INACTIVE"
)

var (
	// ErrNotFound is returned when a requested item does not exist.
	ErrNotFound = errors.New("item not found")
	// ErrInsufficientStock is returned when a stock decrease would drive
	// the counter below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Item represents a sellable product with a guarded stock counter.
// Price is expressed in minor currency units.
type Item struct {
	ID         int64
	Name       string
	Price      int64
	Stock      int
	Status     Status
	CategoryID *int64
}

// New creates an available item. Price and stock must be non-negative.
func New(name string, price int64, stock int) (*Item, error) {
	if price < 0 {
		return nil, errors.New("price must not be negative")
	}
	if stock < 0 {
		return nil, errors.New("stock must not be negative")
	}
	return &Item{
		Name:   name,
		Price:  price,
		Stock:  stock,
		Status: StatusAvailable,
	}, nil
}

// DecreaseStock reduces the stock counter by quantity. The counter never
// goes negative: a decrease that would is rejected with ErrInsufficientStock.
func (i *Item) DecreaseStock(quantity int) error {
	if quantity <= 0 {
		return errors.New("decrease quantity must be at least 1")
	}
	if i.Stock < quantity {
		return ErrInsufficientStock
	}
	i.Stock -= quantity
	return nil
}

// IncreaseStock raises the stock counter by quantity.
func (i *Item) IncreaseStock(quantity int) error {
	if quantity <= 0 {
		return errors.New("increase quantity must be at least 1")
	}
	i.Stock += quantity
	return nil
}

// Activate puts the item back on sale.
func (i *Item) Activate() { i.Status = StatusAvailable }

// Deactivate withdraws the item from sale.
func (i *Item) Deactivate() { i.Status = StatusInactive }

// Repository defines persistence operations for items.
type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	// GetForUpdate loads the item under an exclusive row lock. The lock is
	// held until the enclosing transaction commits or rolls back; callers
	// outside a transaction get plain read semantics.
	GetForUpdate(ctx context.Context, id int64) (*Item, error)
	// UpdateStock persists a new stock counter for the item.
	UpdateStock(ctx context.Context, id int64, stock int) error
}
