package memory

import (
	"context"

	"github.com/minshop/checkout/internal/domain/coupon"
	"github.com/minshop/checkout/internal/domain/item"
	"github.com/minshop/checkout/internal/domain/order"
	"github.com/minshop/checkout/internal/domain/user"
	"github.com/minshop/checkout/internal/storage"
)

// Auto-commit adapters: each call runs in its own one-operation transaction.

type autoUsers struct{ d *DB }

func (a autoUsers) Create(ctx context.Context, u *user.User) error {
	return a.d.InTx(ctx, func(s storage.Store) error { return s.Users().Create(ctx, u) })
}

func (a autoUsers) GetByID(ctx context.Context, id int64) (u *user.User, err error) {
	err = a.d.InTx(ctx, func(s storage.Store) error {
		u, err = s.Users().GetByID(ctx, id)
		return err
	})
	return u, err
}

func (a autoUsers) Delete(ctx context.Context, id int64) error {
	return a.d.InTx(ctx, func(s storage.Store) error { return s.Users().Delete(ctx, id) })
}

type autoItems struct{ d *DB }

func (a autoItems) Create(ctx context.Context, it *item.Item) error {
	return a.d.InTx(ctx, func(s storage.Store) error { return s.Items().Create(ctx, it) })
}

func (a autoItems) GetByID(ctx context.Context, id int64) (it *item.Item, err error) {
	err = a.d.InTx(ctx, func(s storage.Store) error {
		it, err = s.Items().GetByID(ctx, id)
		return err
	})
	return it, err
}

// GetForUpdate outside a transaction has nothing to hold the lock for, so
// it degrades to a plain read.
func (a autoItems) GetForUpdate(ctx context.Context, id int64) (*item.Item, error) {
	return a.GetByID(ctx, id)
}

func (a autoItems) UpdateStock(ctx context.Context, id int64, stock int) error {
	return a.d.InTx(ctx, func(s storage.Store) error { return s.Items().UpdateStock(ctx, id, stock) })
}

type autoCoupons struct{ d *DB }

func (a autoCoupons) Create(ctx context.Context, c *coupon.Coupon) error {
	return a.d.InTx(ctx, func(s storage.Store) error { return s.Coupons().Create(ctx, c) })
}

func (a autoCoupons) GetByID(ctx context.Context, id int64) (c *coupon.Coupon, err error) {
	err = a.d.InTx(ctx, func(s storage.Store) error {
		c, err = s.Coupons().GetByID(ctx, id)
		return err
	})
	return c, err
}

type autoUserCoupons struct{ d *DB }

func (a autoUserCoupons) Create(ctx context.Context, uc *coupon.UserCoupon) error {
	return a.d.InTx(ctx, func(s storage.Store) error { return s.UserCoupons().Create(ctx, uc) })
}

func (a autoUserCoupons) GetByID(ctx context.Context, id int64) (uc *coupon.UserCoupon, err error) {
	err = a.d.InTx(ctx, func(s storage.Store) error {
		uc, err = s.UserCoupons().GetByID(ctx, id)
		return err
	})
	return uc, err
}

func (a autoUserCoupons) MarkUsed(ctx context.Context, id int64) error {
	return a.d.InTx(ctx, func(s storage.Store) error { return s.UserCoupons().MarkUsed(ctx, id) })
}

type autoOrders struct{ d *DB }

func (a autoOrders) Create(ctx context.Context, o *order.Order) error {
	return a.d.InTx(ctx, func(s storage.Store) error { return s.Orders().Create(ctx, o) })
}

func (a autoOrders) Update(ctx context.Context, o *order.Order) error {
	return a.d.InTx(ctx, func(s storage.Store) error { return s.Orders().Update(ctx, o) })
}

func (a autoOrders) GetByID(ctx context.Context, id int64) (o *order.Order, err error) {
	err = a.d.InTx(ctx, func(s storage.Store) error {
		o, err = s.Orders().GetByID(ctx, id)
		return err
	})
	return o, err
}
