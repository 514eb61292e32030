package coupon

import (
	"context"

	"github.com/go-faster/errors"
)

// Kind enumerates the supported coupon discount strategies.
type Kind string

const (
	// KindFixed subtracts a fixed amount, capped at the bill.
	KindFixed Kind = "FIXED"
	// KindRate subtracts a percentage of the bill, rounded half-up.
	KindRate Kind = "RATE"
)

var (
	// ErrNotFound is returned when a requested coupon does not exist.
	ErrNotFound = errors.New("coupon not found")
	// ErrUserCouponNotFound is returned when a requested issued coupon
	// does not exist.
	ErrUserCouponNotFound = errors.New("user coupon not found")
	// ErrNotOwned is returned when a coupon is presented by a user other
	// than the one it was issued to.
	ErrNotOwned = errors.New("coupon not owned by user")
	// ErrAlreadyUsed is returned when an issued coupon is spent twice.
	ErrAlreadyUsed = errors.New("coupon already used")
)

// Coupon defines a discount. Value is a fixed amount in minor units for
// KindFixed and a percentage in [1, 100] for KindRate. Coupons are
// immutable after creation.
type Coupon struct {
	ID    int64
	Name  string
	Kind  Kind
	Value int64
}

// Fixed creates a fixed-amount coupon. Amount must be positive.
func Fixed(name string, amount int64) (*Coupon, error) {
	if amount <= 0 {
		return nil, errors.New("fixed discount amount must be at least 1")
	}
	return &Coupon{Name: name, Kind: KindFixed, Value: amount}, nil
}

// Rate creates a percentage coupon. Percent must be in [1, 100].
func Rate(name string, percent int64) (*Coupon, error) {
	if percent <= 0 || percent > 100 {
		return nil, errors.New("rate discount percent must be between 1 and 100")
	}
	return &Coupon{Name: name, Kind: KindRate, Value: percent}, nil
}

// CalculateDiscount computes the raw discount this coupon grants on the
// given price. The result is not clamped beyond each kind's own rule;
// callers clamp to the bill before applying it.
func (c *Coupon) CalculateDiscount(price int64) int64 {
	return discountFuncs[c.Kind](price, c.Value)
}

// Repository defines persistence operations for coupon definitions.
type Repository interface {
	Create(ctx context.Context, c *Coupon) error
	GetByID(ctx context.Context, id int64) (*Coupon, error)
}
