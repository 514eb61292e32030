package memory

import (
	"context"

	"github.com/minshop/checkout/internal/domain/coupon"
	"github.com/minshop/checkout/internal/domain/item"
	"github.com/minshop/checkout/internal/domain/order"
	"github.com/minshop/checkout/internal/domain/user"
)

// Journal-aware reads: a row deleted in this transaction is gone, a row
// written in this transaction shadows the committed one.

func (t *tx) getUser(id int64) (user.User, bool) {
	if t.deleted[lockKey{tableUsers, id}] {
		return user.User{}, false
	}
	if v, ok := t.users[id]; ok {
		return v, true
	}
	t.db.mu.RLock()
	defer t.db.mu.RUnlock()
	v, ok := t.db.users[id]
	return v, ok
}

func (t *tx) getItem(id int64) (item.Item, bool) {
	if t.deleted[lockKey{tableItems, id}] {
		return item.Item{}, false
	}
	if v, ok := t.items[id]; ok {
		return v, true
	}
	t.db.mu.RLock()
	defer t.db.mu.RUnlock()
	v, ok := t.db.items[id]
	return v, ok
}

func (t *tx) getCoupon(id int64) (coupon.Coupon, bool) {
	if t.deleted[lockKey{tableCoupons, id}] {
		return coupon.Coupon{}, false
	}
	if v, ok := t.coupons[id]; ok {
		return v, true
	}
	t.db.mu.RLock()
	defer t.db.mu.RUnlock()
	v, ok := t.db.coupons[id]
	return v, ok
}

func (t *tx) getUserCoupon(id int64) (coupon.UserCoupon, bool) {
	if t.deleted[lockKey{tableUserCoupons, id}] {
		return coupon.UserCoupon{}, false
	}
	if v, ok := t.userCoupons[id]; ok {
		return v, true
	}
	t.db.mu.RLock()
	defer t.db.mu.RUnlock()
	v, ok := t.db.userCoupons[id]
	return v, ok
}

func (t *tx) getOrder(id int64) (orderRow, bool) {
	if t.deleted[lockKey{tableOrders, id}] {
		return orderRow{}, false
	}
	if v, ok := t.orders[id]; ok {
		return v, true
	}
	t.db.mu.RLock()
	defer t.db.mu.RUnlock()
	v, ok := t.db.orders[id]
	return v, ok
}

// getPaymentByOrder scans the journal first, then committed rows.
func (t *tx) getPaymentByOrder(orderID int64) (paymentRow, bool) {
	for _, p := range t.payments {
		if p.OrderID == orderID && !t.deleted[lockKey{tablePayments, p.ID}] {
			return p, true
		}
	}
	t.db.mu.RLock()
	defer t.db.mu.RUnlock()
	for _, p := range t.db.payments {
		if p.OrderID == orderID && !t.deleted[lockKey{tablePayments, p.ID}] {
			return p, true
		}
	}
	return paymentRow{}, false
}

// --- users ---

type userRepo struct{ t *tx }

func (r userRepo) Create(_ context.Context, u *user.User) error {
	u.ID = r.t.db.nextID()
	r.t.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id int64) (*user.User, error) {
	v, ok := r.t.getUser(id)
	if !ok {
		return nil, user.ErrNotFound
	}
	return &v, nil
}

// Delete is the explicit aggregate cascade: payments of the user's orders,
// the orders, the issued coupons, then the user row.
func (r userRepo) Delete(_ context.Context, id int64) error {
	t := r.t
	if _, ok := t.getUser(id); !ok {
		return user.ErrNotFound
	}

	orderIDs := make(map[int64]bool)
	collect := func(rows map[int64]orderRow) {
		for oid, row := range rows {
			if row.UserID == id && !t.deleted[lockKey{tableOrders, oid}] {
				orderIDs[oid] = true
			}
		}
	}
	t.db.mu.RLock()
	collect(t.db.orders)
	for pid, p := range t.db.payments {
		if orderIDs[p.OrderID] {
			t.deleted[lockKey{tablePayments, pid}] = true
		}
	}
	for ucid, uc := range t.db.userCoupons {
		if uc.UserID == id {
			t.deleted[lockKey{tableUserCoupons, ucid}] = true
		}
	}
	t.db.mu.RUnlock()
	collect(t.orders)
	for pid, p := range t.payments {
		if orderIDs[p.OrderID] {
			t.deleted[lockKey{tablePayments, pid}] = true
		}
	}
	for ucid, uc := range t.userCoupons {
		if uc.UserID == id {
			t.deleted[lockKey{tableUserCoupons, ucid}] = true
		}
	}
	for oid := range orderIDs {
		t.deleted[lockKey{tableOrders, oid}] = true
	}
	t.deleted[lockKey{tableUsers, id}] = true
	return nil
}

// --- items ---

type itemRepo struct{ t *tx }

func (r itemRepo) Create(_ context.Context, it *item.Item) error {
	it.ID = r.t.db.nextID()
	r.t.items[it.ID] = *it
	return nil
}

func (r itemRepo) GetByID(_ context.Context, id int64) (*item.Item, error) {
	v, ok := r.t.getItem(id)
	if !ok {
		return nil, item.ErrNotFound
	}
	return &v, nil
}

func (r itemRepo) GetForUpdate(_ context.Context, id int64) (*item.Item, error) {
	r.t.lockRow(tableItems, id)
	v, ok := r.t.getItem(id)
	if !ok {
		return nil, item.ErrNotFound
	}
	return &v, nil
}

func (r itemRepo) UpdateStock(_ context.Context, id int64, stock int) error {
	v, ok := r.t.getItem(id)
	if !ok {
		return item.ErrNotFound
	}
	v.Stock = stock
	r.t.items[id] = v
	return nil
}

// --- coupons ---

type couponRepo struct{ t *tx }

func (r couponRepo) Create(_ context.Context, c *coupon.Coupon) error {
	c.ID = r.t.db.nextID()
	r.t.coupons[c.ID] = *c
	return nil
}

func (r couponRepo) GetByID(_ context.Context, id int64) (*coupon.Coupon, error) {
	v, ok := r.t.getCoupon(id)
	if !ok {
		return nil, coupon.ErrNotFound
	}
	return &v, nil
}

type userCouponRepo struct{ t *tx }

func (r userCouponRepo) Create(_ context.Context, uc *coupon.UserCoupon) error {
	uc.ID = r.t.db.nextID()
	r.t.userCoupons[uc.ID] = *uc
	return nil
}

func (r userCouponRepo) GetByID(_ context.Context, id int64) (*coupon.UserCoupon, error) {
	v, ok := r.t.getUserCoupon(id)
	if !ok {
		return nil, coupon.ErrUserCouponNotFound
	}
	return &v, nil
}

// MarkUsed takes the row lock before re-reading, so two transactions racing
// for the same coupon serialize here and the loser sees the burned flag.
func (r userCouponRepo) MarkUsed(_ context.Context, id int64) error {
	r.t.lockRow(tableUserCoupons, id)
	v, ok := r.t.getUserCoupon(id)
	if !ok {
		return coupon.ErrUserCouponNotFound
	}
	if v.Used {
		return coupon.ErrAlreadyUsed
	}
	v.Used = true
	r.t.userCoupons[id] = v
	return nil
}

// --- orders ---

type orderRepo struct{ t *tx }

func (r orderRepo) Create(_ context.Context, o *order.Order) error {
	o.ID = r.t.db.nextID()
	r.t.orders[o.ID] = orderRow{
		ID:         o.ID,
		UserID:     o.UserID,
		ItemID:     o.ItemID,
		Quantity:   o.Quantity,
		TotalPrice: o.TotalPrice,
		Status:     o.Status,
	}
	return nil
}

func (r orderRepo) Update(_ context.Context, o *order.Order) error {
	row, ok := r.t.getOrder(o.ID)
	if !ok {
		return order.ErrNotFound
	}
	row.Status = o.Status
	r.t.orders[o.ID] = row

	if p := o.Payment; p != nil {
		if p.ID == 0 {
			p.ID = r.t.db.nextID()
		}
		r.t.payments[p.ID] = paymentRow{
			ID:            p.ID,
			OrderID:       p.OrderID,
			Amount:        p.Amount,
			Status:        p.Status,
			TransactionID: p.TransactionID,
		}
	}
	return nil
}

func (r orderRepo) GetByID(_ context.Context, id int64) (*order.Order, error) {
	row, ok := r.t.getOrder(id)
	if !ok {
		return nil, order.ErrNotFound
	}
	o := &order.Order{
		ID:         row.ID,
		UserID:     row.UserID,
		ItemID:     row.ItemID,
		Quantity:   row.Quantity,
		TotalPrice: row.TotalPrice,
		Status:     row.Status,
	}
	if p, ok := r.t.getPaymentByOrder(id); ok {
		o.AttachPayment(&order.Payment{
			ID:            p.ID,
			Amount:        p.Amount,
			Status:        p.Status,
			TransactionID: p.TransactionID,
		})
	}
	return o, nil
}
