package checkout

import (
	"github.com/minshop/checkout/internal/domain/coupon"
	"github.com/minshop/checkout/internal/domain/user"
)

// Validator holds the stateless pricing and coupon rules applied during
// order creation. All methods are pure functions over data the orchestrator
// has already loaded.
type Validator struct{}

// ValidateCouponOwnershipAndUsable checks that the presented coupon belongs
// to the acting user and has not been spent. A nil coupon passes: presenting
// no coupon is always valid.
func (Validator) ValidateCouponOwnershipAndUsable(u *user.User, uc *coupon.UserCoupon) error {
	if uc == nil {
		return nil
	}
	if uc.UserID != u.ID {
		return coupon.ErrNotOwned
	}
	if uc.Used {
		return coupon.ErrAlreadyUsed
	}
	return nil
}

// CalculateDiscount computes the coupon's discount on the original total,
// clamped to [0, originalTotal]. The per-kind calculation is not trusted to
// self-clamp.
func (Validator) CalculateDiscount(originalTotal int64, c *coupon.Coupon) int64 {
	if c == nil {
		return 0
	}
	d := c.CalculateDiscount(originalTotal)
	if d < 0 {
		return 0
	}
	return min(d, originalTotal)
}

// ComputeFinalAmount is originalTotal minus the discount, floored at zero.
func (Validator) ComputeFinalAmount(originalTotal, discount int64) int64 {
	return max(originalTotal-max(discount, 0), 0)
}

// ValidateClientAmount rejects any client-declared amount that deviates
// from the server-computed final amount.
func (Validator) ValidateClientAmount(serverAmount, clientAmount int64) error {
	if clientAmount != serverAmount {
		return &PriceTamperedError{ClientAmount: clientAmount, ServerAmount: serverAmount}
	}
	return nil
}

// ValidateApprovedAmount rejects a gateway approval whose amount deviates
// from the expected final amount. This defends against a compromised or
// buggy gateway.
func (Validator) ValidateApprovedAmount(approvedAmount, expectedAmount int64) error {
	if approvedAmount != expectedAmount {
		return &PaymentFailedError{Reason: "approved amount mismatch"}
	}
	return nil
}
