package coupon

import "context"

// UserCoupon links a coupon to the user it was issued to. The used flag
// transitions false to true exactly once and is never reversible except by
// rolling back the transaction that set it.
type UserCoupon struct {
	ID       int64
	UserID   int64
	CouponID int64
	Used     bool
}

// Issue creates an unused coupon grant for a user.
func Issue(userID, couponID int64) *UserCoupon {
	return &UserCoupon{UserID: userID, CouponID: couponID}
}

// Use marks the coupon spent. A second call fails with ErrAlreadyUsed.
func (uc *UserCoupon) Use() error {
	if uc.Used {
		return ErrAlreadyUsed
	}
	uc.Used = true
	return nil
}

// UserCouponRepository defines persistence operations for issued coupons.
type UserCouponRepository interface {
	Create(ctx context.Context, uc *UserCoupon) error
	GetByID(ctx context.Context, id int64) (*UserCoupon, error)
	// MarkUsed flips the used flag from false to true as a guarded update.
	// If the coupon is already burned, including by a concurrent
	// transaction that committed first, it returns ErrAlreadyUsed.
	MarkUsed(ctx context.Context, id int64) error
}
