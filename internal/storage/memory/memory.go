// Package memory implements storage.DB in process. Row data lives in maps
// guarded by a store-wide RWMutex; exclusive row locks are plain mutexes
// keyed by table and id, held until the owning transaction ends. It backs
// the test suite and any run that has no database configured.
package memory

import (
	"context"
	"sync"

	"github.com/minshop/checkout/internal/domain/coupon"
	"github.com/minshop/checkout/internal/domain/item"
	"github.com/minshop/checkout/internal/domain/order"
	"github.com/minshop/checkout/internal/domain/user"
	"github.com/minshop/checkout/internal/storage"
)

type lockKey struct {
	table string
	id    int64
}

// DB is the in-memory backend. The zero value is not usable; call New.
type DB struct {
	mu          sync.RWMutex
	users       map[int64]user.User
	items       map[int64]item.Item
	coupons     map[int64]coupon.Coupon
	userCoupons map[int64]coupon.UserCoupon
	orders      map[int64]orderRow
	payments    map[int64]paymentRow

	seq int64 // guarded by mu

	lockMu   sync.Mutex
	rowLocks map[lockKey]*sync.Mutex
}

// orderRow and paymentRow mirror the relational shape: the payment is a
// separate row keyed by order id, reassembled into the aggregate on read.
type orderRow struct {
	ID         int64
	UserID     int64
	ItemID     int64
	Quantity   int
	TotalPrice int64
	Status     order.Status
}

type paymentRow struct {
	ID            int64
	OrderID       int64
	Amount        int64
	Status        order.PaymentStatus
	TransactionID string
}

var _ storage.DB = (*DB)(nil)

// New creates an empty in-memory store.
func New() *DB {
	return &DB{
		users:       make(map[int64]user.User),
		items:       make(map[int64]item.Item),
		coupons:     make(map[int64]coupon.Coupon),
		userCoupons: make(map[int64]coupon.UserCoupon),
		orders:      make(map[int64]orderRow),
		payments:    make(map[int64]paymentRow),
		rowLocks:    make(map[lockKey]*sync.Mutex),
	}
}

// rowLock returns the mutex for a row, creating it on first use.
func (d *DB) rowLock(table string, id int64) *sync.Mutex {
	d.lockMu.Lock()
	defer d.lockMu.Unlock()
	k := lockKey{table: table, id: id}
	l, ok := d.rowLocks[k]
	if !ok {
		l = &sync.Mutex{}
		d.rowLocks[k] = l
	}
	return l
}

// nextID allocates an identifier from the store-wide sequence.
func (d *DB) nextID() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	return d.seq
}

// InTx runs fn against a journaled view of the store. Writes stay in the
// journal until fn returns nil; any error discards them. Row locks taken
// inside fn are released when the transaction ends, after the journal is
// applied, so a blocked locker always proceeds against post-commit state.
func (d *DB) InTx(_ context.Context, fn func(storage.Store) error) error {
	t := newTx(d)
	defer t.release()

	if err := fn(t); err != nil {
		return err
	}
	t.commit()
	return nil
}

// tx is a transaction-scoped Store. A transaction locks a given row at
// most once; locking model matches a single SELECT ... FOR UPDATE per row.
type tx struct {
	db *DB

	users       map[int64]user.User
	items       map[int64]item.Item
	coupons     map[int64]coupon.Coupon
	userCoupons map[int64]coupon.UserCoupon
	orders      map[int64]orderRow
	payments    map[int64]paymentRow

	// deleted rows, by table then id
	deleted map[lockKey]bool

	locks []*sync.Mutex
}

var _ storage.Store = (*tx)(nil)

func newTx(d *DB) *tx {
	return &tx{
		db:          d,
		users:       make(map[int64]user.User),
		items:       make(map[int64]item.Item),
		coupons:     make(map[int64]coupon.Coupon),
		userCoupons: make(map[int64]coupon.UserCoupon),
		orders:      make(map[int64]orderRow),
		payments:    make(map[int64]paymentRow),
		deleted:     make(map[lockKey]bool),
	}
}

// lockRow acquires a row lock for the remainder of the transaction.
func (t *tx) lockRow(table string, id int64) {
	l := t.db.rowLock(table, id)
	l.Lock()
	t.locks = append(t.locks, l)
}

// commit applies the journal to the committed maps.
func (t *tx) commit() {
	d := t.db
	d.mu.Lock()
	defer d.mu.Unlock()

	for k := range t.deleted {
		switch k.table {
		case tableUsers:
			delete(d.users, k.id)
		case tableItems:
			delete(d.items, k.id)
		case tableCoupons:
			delete(d.coupons, k.id)
		case tableUserCoupons:
			delete(d.userCoupons, k.id)
		case tableOrders:
			delete(d.orders, k.id)
		case tablePayments:
			delete(d.payments, k.id)
		}
	}
	for id, v := range t.users {
		d.users[id] = v
	}
	for id, v := range t.items {
		d.items[id] = v
	}
	for id, v := range t.coupons {
		d.coupons[id] = v
	}
	for id, v := range t.userCoupons {
		d.userCoupons[id] = v
	}
	for id, v := range t.orders {
		d.orders[id] = v
	}
	for id, v := range t.payments {
		d.payments[id] = v
	}
}

// release drops all row locks. Safe to call after commit.
func (t *tx) release() {
	for _, l := range t.locks {
		l.Unlock()
	}
	t.locks = nil
}

const (
	tableUsers       = "users"
	tableItems       = "item"
	tableCoupons     = "coupon"
	tableUserCoupons = "user_coupon"
	tableOrders      = "orders"
	tablePayments    = "payment"
)

func (t *tx) Users() user.Repository                   { return userRepo{t} }
func (t *tx) Items() item.Repository                   { return itemRepo{t} }
func (t *tx) Coupons() coupon.Repository               { return couponRepo{t} }
func (t *tx) UserCoupons() coupon.UserCouponRepository { return userCouponRepo{t} }
func (t *tx) Orders() order.Repository                 { return orderRepo{t} }

// Auto-commit access: every repository call on the DB itself runs in its
// own single-operation transaction.

func (d *DB) Users() user.Repository                   { return autoUsers{d} }
func (d *DB) Items() item.Repository                   { return autoItems{d} }
func (d *DB) Coupons() coupon.Repository               { return autoCoupons{d} }
func (d *DB) UserCoupons() coupon.UserCouponRepository { return autoUserCoupons{d} }
func (d *DB) Orders() order.Repository                 { return autoOrders{d} }
