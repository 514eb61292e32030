// Package gateway defines the payment authorization boundary and its
// simulated implementation.
package gateway

import "context"

// Result is the outcome of an authorization attempt. A declined
// authorization is a Result with Success=false, not an error: errors are
// reserved for the call itself failing.
type Result struct {
	Success        bool
	TransactionID  string
	ApprovedAmount int64
	FailureReason  string
}

// Approved builds a successful result for the given transaction and amount.
func Approved(transactionID string, amount int64) Result {
	return Result{Success: true, TransactionID: transactionID, ApprovedAmount: amount}
}

// Declined builds a failed result with the gateway's reason.
func Declined(reason string) Result {
	return Result{FailureReason: reason}
}

// Gateway authorizes a payment amount for an order reference.
type Gateway interface {
	Authorize(ctx context.Context, amount int64, orderRef string) (Result, error)
}
