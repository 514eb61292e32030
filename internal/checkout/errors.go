package checkout

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrInvalidQuantity is returned for a non-positive requested quantity.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// PriceTamperedError indicates the client-declared pay amount does not
// match the server-computed final amount. It is raised before any gateway
// call, so a forged amount never reaches the payment processor.
type PriceTamperedError struct {
	ClientAmount int64
	ServerAmount int64
}

func (e *PriceTamperedError) Error() string {
	return fmt.Sprintf("pay amount mismatch: client=%d server=%d", e.ClientAmount, e.ServerAmount)
}

// PaymentFailedError indicates the gateway declined the authorization or
// approved an amount different from the one requested.
type PaymentFailedError struct {
	Reason string
}

func (e *PaymentFailedError) Error() string {
	return "payment failed: " + e.Reason
}
