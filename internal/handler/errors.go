package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/minshop/checkout/internal/checkout"
	"github.com/minshop/checkout/internal/domain/coupon"
	"github.com/minshop/checkout/internal/domain/item"
	"github.com/minshop/checkout/internal/domain/order"
	"github.com/minshop/checkout/internal/domain/user"
)

// writeDomainError maps a checkout failure to an HTTP status. Unknown
// errors become 500 with a generic message; the detail goes to the log.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		zctx.From(r.Context()).Error("order request failed", zap.Error(err))
		msg = "internal error"
	}
	h.writeError(w, r, status, msg)
}

// statusFor follows the mapping of the order API: missing references are
// 404, rejected input and coupon or tamper violations are 400, and stock
// or payment contention is 409.
func statusFor(err error) int {
	switch {
	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, item.ErrNotFound),
		errors.Is(err, coupon.ErrNotFound),
		errors.Is(err, coupon.ErrUserCouponNotFound),
		errors.Is(err, order.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, checkout.ErrInvalidQuantity),
		errors.Is(err, order.ErrInvalidQuantity),
		errors.Is(err, coupon.ErrNotOwned),
		errors.Is(err, coupon.ErrAlreadyUsed):
		return http.StatusBadRequest
	case errors.Is(err, item.ErrInsufficientStock):
		return http.StatusConflict
	}

	var tampered *checkout.PriceTamperedError
	if errors.As(err, &tampered) {
		return http.StatusBadRequest
	}
	var failed *checkout.PaymentFailedError
	if errors.As(err, &failed) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (h *Handler) writeError(w http.ResponseWriter, _ *http.Request, status int, msg string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Int(status)
	e.FieldStart("message")
	e.Str(msg)
	e.ObjEnd()
	h.writeJSON(w, status, e.Bytes())
}
