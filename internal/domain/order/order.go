package order

import (
	"context"

	"github.com/go-faster/errors"
)

// Status enumerates the order lifecycle states.
type Status string

const (
	// StatusCreated is the entry state of every order.
	StatusCreated Status = "CREATED"
	// StatusPaid is terminal: a paid order cannot be cancelled.
	StatusPaid Status = "PAID"
	// StatusCancelled is terminal: a cancelled order cannot be paid.
	StatusCancelled Status = "CANCELLED"
)

var (
	// ErrNotFound is returned when a requested order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrInvalidQuantity is returned for a non-positive order quantity.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrCancelled is returned when a cancelled order is marked paid.
	ErrCancelled = errors.New("cancelled order cannot be paid")
	// ErrAlreadyPaid is returned when a paid order is cancelled.
	ErrAlreadyPaid = errors.New("paid order cannot be cancelled")
)

// Order is a purchase of one item. TotalPrice snapshots the unit price at
// creation time and is never recomputed if the item price changes later.
// An order owns at most one Payment.
type Order struct {
	ID         int64
	UserID     int64
	ItemID     int64
	Quantity   int
	TotalPrice int64
	Status     Status
	Payment    *Payment
}

// New creates an order in StatusCreated for quantity units of an item at
// the given unit price.
func New(userID, itemID int64, quantity int, unitPrice int64) (*Order, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return &Order{
		UserID:     userID,
		ItemID:     itemID,
		Quantity:   quantity,
		TotalPrice: unitPrice * int64(quantity),
		Status:     StatusCreated,
	}, nil
}

// MarkPaid transitions the order to StatusPaid. Cancelled orders stay
// cancelled.
func (o *Order) MarkPaid() error {
	if o.Status == StatusCancelled {
		return ErrCancelled
	}
	o.Status = StatusPaid
	return nil
}

// Cancel transitions the order to StatusCancelled. Paid orders cannot be
// cancelled.
func (o *Order) Cancel() error {
	if o.Status == StatusPaid {
		return ErrAlreadyPaid
	}
	o.Status = StatusCancelled
	return nil
}

// AttachPayment wires the payment to this order so that a successful
// payment cascades the order to StatusPaid.
func (o *Order) AttachPayment(p *Payment) {
	o.Payment = p
	p.OrderID = o.ID
	p.order = o
}

// Repository defines persistence operations for orders.
//
// Update persists the order's status and cascade-persists the attached
// payment, inserting it on first save and updating it afterwards.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Update(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
}
