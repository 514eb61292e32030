package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/jx"

	"github.com/minshop/checkout/internal/checkout"
	"github.com/minshop/checkout/internal/domain/order"
)

// createOrder decodes the request, delegates to the checkout service, and
// responds with the new order id.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCreateOrder(r)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	orderID, err := h.checkout.CreateOrder(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("orderId")
	e.Int64(orderID)
	e.ObjEnd()
	h.writeJSON(w, http.StatusCreated, e.Bytes())
}

// decodeCreateOrder parses the create-order body. userCouponId may be
// absent or null; all other fields are required by the schema and
// re-checked inside the service.
func decodeCreateOrder(r *http.Request) (checkout.CreateOrderRequest, error) {
	var req checkout.CreateOrderRequest
	d := jx.Decode(r.Body, 512)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "userId":
			v, err := d.Int64()
			req.UserID = v
			return err
		case "itemId":
			v, err := d.Int64()
			req.ItemID = v
			return err
		case "quantity":
			v, err := d.Int()
			req.Quantity = v
			return err
		case "userCouponId":
			if d.Next() == jx.Null {
				return d.Null()
			}
			v, err := d.Int64()
			req.UserCouponID = &v
			return err
		case "payAmount":
			v, err := d.Int64()
			req.ClientPayAmount = v
			return err
		default:
			return d.Skip()
		}
	})
	return req, err
}

// getOrder returns an order with its payment snapshot, if any.
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid order id")
		return
	}

	o, err := h.checkout.GetOrder(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, encodeOrder(o))
}

func encodeOrder(o *order.Order) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(o.ID)
	e.FieldStart("userId")
	e.Int64(o.UserID)
	e.FieldStart("itemId")
	e.Int64(o.ItemID)
	e.FieldStart("quantity")
	e.Int(o.Quantity)
	e.FieldStart("totalPrice")
	e.Int64(o.TotalPrice)
	e.FieldStart("status")
	e.Str(string(o.Status))
	if p := o.Payment; p != nil {
		e.FieldStart("payment")
		e.ObjStart()
		e.FieldStart("id")
		e.Int64(p.ID)
		e.FieldStart("amount")
		e.Int64(p.Amount)
		e.FieldStart("status")
		e.Str(string(p.Status))
		if p.TransactionID != "" {
			e.FieldStart("transactionId")
			e.Str(p.TransactionID)
		}
		e.ObjEnd()
	}
	e.ObjEnd()
	return e.Bytes()
}
