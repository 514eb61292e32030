// Package storage defines the unit-of-work contract shared by the Postgres
// and in-memory backends.
package storage

import (
	"context"

	"github.com/minshop/checkout/internal/domain/coupon"
	"github.com/minshop/checkout/internal/domain/item"
	"github.com/minshop/checkout/internal/domain/order"
	"github.com/minshop/checkout/internal/domain/user"
)

// Store bundles the repositories that participate in one unit of work.
// All repositories obtained from the same Store observe the same
// transactional state.
type Store interface {
	Users() user.Repository
	Items() item.Repository
	Coupons() coupon.Repository
	UserCoupons() coupon.UserCouponRepository
	Orders() order.Repository
}

// DB is a Store running in auto-commit mode that can also open
// transaction-scoped Stores.
//
// InTx runs fn against a Store whose operations are atomic: the
// transaction commits when fn returns nil and rolls back when it returns
// an error. Row locks taken inside fn, such as item.Repository.GetForUpdate,
// are held until the transaction ends.
type DB interface {
	Store
	InTx(ctx context.Context, fn func(Store) error) error
}
