// Package checkout implements the order-creation workflow: stock locking,
// discount application, price-integrity checks, payment authorization, and
// the all-or-nothing transaction tying them together.
package checkout

import (
	"context"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/minshop/checkout/internal/domain/order"
	"github.com/minshop/checkout/internal/gateway"
	"github.com/minshop/checkout/internal/storage"
)

// CreateOrderRequest holds the input for creating an order. UserCouponID is
// optional; ClientPayAmount is the amount the client believes it will be
// charged and must match the server-computed final amount exactly.
type CreateOrderRequest struct {
	UserID          int64
	ItemID          int64
	Quantity        int
	UserCouponID    *int64
	ClientPayAmount int64
}

// Service is the single entry point for order creation. It owns the
// transaction boundary, the locked stock read, the mutation ordering, and
// rollback on failure.
type Service struct {
	db        storage.DB
	gateway   gateway.Gateway
	validator Validator
}

// NewService creates a checkout Service over the given storage backend and
// payment gateway.
func NewService(db storage.DB, gw gateway.Gateway) *Service {
	return &Service{db: db, gateway: gw}
}

// CreateOrder runs the whole workflow inside one transaction and returns
// the persisted order's id. Any failure rolls back everything: the stock
// decrement, the coupon burn, and the order and payment rows.
//
// The item row stays exclusively locked across the gateway call, so
// concurrent buyers of the same item serialize on it; buyers of other items
// are unaffected.
func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest) (int64, error) {
	if req.Quantity < 1 {
		return 0, ErrInvalidQuantity
	}

	var orderID int64
	err := s.db.InTx(ctx, func(st storage.Store) error {
		usr, err := st.Users().GetByID(ctx, req.UserID)
		if err != nil {
			return err
		}

		// Exclusive row lock: held until this transaction ends.
		it, err := st.Items().GetForUpdate(ctx, req.ItemID)
		if err != nil {
			return err
		}
		if err := it.DecreaseStock(req.Quantity); err != nil {
			return err
		}
		if err := st.Items().UpdateStock(ctx, it.ID, it.Stock); err != nil {
			return errors.Wrap(err, "update stock")
		}

		originalTotal := it.Price * int64(req.Quantity)

		var discount int64
		if req.UserCouponID != nil {
			uc, err := st.UserCoupons().GetByID(ctx, *req.UserCouponID)
			if err != nil {
				return err
			}
			if err := s.validator.ValidateCouponOwnershipAndUsable(usr, uc); err != nil {
				return err
			}
			c, err := st.Coupons().GetByID(ctx, uc.CouponID)
			if err != nil {
				return err
			}
			discount = s.validator.CalculateDiscount(originalTotal, c)

			// Burned here; a payment failure undoes it via rollback.
			if err := st.UserCoupons().MarkUsed(ctx, uc.ID); err != nil {
				return err
			}
		}

		finalAmount := s.validator.ComputeFinalAmount(originalTotal, discount)

		// Tamper check before anything reaches the gateway.
		if err := s.validator.ValidateClientAmount(finalAmount, req.ClientPayAmount); err != nil {
			return err
		}

		o, err := order.New(usr.ID, it.ID, req.Quantity, it.Price)
		if err != nil {
			return err
		}
		if err := st.Orders().Create(ctx, o); err != nil {
			return errors.Wrap(err, "create order")
		}

		// Free order fast path: no payment row, no gateway call.
		if finalAmount == 0 {
			if err := o.MarkPaid(); err != nil {
				return err
			}
			if err := st.Orders().Update(ctx, o); err != nil {
				return errors.Wrap(err, "update order")
			}
			orderID = o.ID
			return nil
		}

		p, err := order.PreparePayment(o, finalAmount)
		if err != nil {
			return err
		}
		o.AttachPayment(p)
		if err := st.Orders().Update(ctx, o); err != nil {
			return errors.Wrap(err, "save payment")
		}

		res, err := s.gateway.Authorize(ctx, finalAmount, strconv.FormatInt(o.ID, 10))
		if err != nil {
			return &PaymentFailedError{Reason: err.Error()}
		}
		if !res.Success {
			if err := p.MarkFailed(); err != nil {
				return err
			}
			reason := res.FailureReason
			if reason == "" {
				reason = "authorization declined"
			}
			return &PaymentFailedError{Reason: reason}
		}

		if err := s.validator.ValidateApprovedAmount(res.ApprovedAmount, finalAmount); err != nil {
			return err
		}
		if err := p.MarkSuccess(); err != nil {
			return err
		}
		p.TransactionID = res.TransactionID
		if err := st.Orders().Update(ctx, o); err != nil {
			return errors.Wrap(err, "finalize order")
		}

		orderID = o.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return orderID, nil
}

// GetOrder loads an order with its payment, if any.
func (s *Service) GetOrder(ctx context.Context, id int64) (*order.Order, error) {
	return s.db.Orders().GetByID(ctx, id)
}
