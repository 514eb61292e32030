package order

import (
	"github.com/go-faster/errors"
)

// PaymentStatus enumerates the payment settlement states.
type PaymentStatus string

const (
	// PaymentPending is the only entry state of a payment.
	PaymentPending PaymentStatus = "PENDING"
	// PaymentSuccess is terminal and forces the owning order to StatusPaid.
	PaymentSuccess PaymentStatus = "SUCCESS"
	// PaymentFailed marks a declined authorization.
	PaymentFailed PaymentStatus = "FAILED"
)

var (
	// ErrInvalidAmount is returned for a non-positive payment amount.
	ErrInvalidAmount = errors.New("payment amount must be at least 1")
	// ErrPaymentSettled is returned when a successful payment is marked
	// failed.
	ErrPaymentSettled = errors.New("successful payment cannot be marked failed")
)

// Payment settles exactly one order for the charged (post-discount) amount.
// TransactionID holds the gateway's reference once the payment succeeds.
type Payment struct {
	ID            int64
	OrderID       int64
	Amount        int64
	Status        PaymentStatus
	TransactionID string

	order *Order
}

// PreparePayment creates a pending payment for the order. The amount must
// be positive; free orders never get a payment.
func PreparePayment(o *Order, amount int64) (*Payment, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	p := &Payment{OrderID: o.ID, Amount: amount, Status: PaymentPending}
	return p, nil
}

// MarkSuccess settles the payment and cascades the attached order to
// StatusPaid. Settling an already successful payment is a no-op.
func (p *Payment) MarkSuccess() error {
	if p.Status == PaymentSuccess {
		return nil
	}
	p.Status = PaymentSuccess
	if p.order != nil {
		return p.order.MarkPaid()
	}
	return nil
}

// MarkFailed records a declined authorization. A payment that already
// succeeded cannot be failed.
func (p *Payment) MarkFailed() error {
	if p.Status == PaymentSuccess {
		return ErrPaymentSettled
	}
	p.Status = PaymentFailed
	return nil
}
