package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/minshop/checkout/internal/domain/coupon"
	"github.com/minshop/checkout/internal/domain/item"
	"github.com/minshop/checkout/internal/domain/order"
	"github.com/minshop/checkout/internal/domain/user"
	"github.com/minshop/checkout/internal/storage"
)

func TestInTx_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	db := New()

	it, err := item.New("Keyboard", 10_000, 5)
	require.NoError(t, err)
	require.NoError(t, db.Items().Create(ctx, it))

	t.Run("commit applies writes", func(t *testing.T) {
		err := db.InTx(ctx, func(s storage.Store) error {
			return s.Items().UpdateStock(ctx, it.ID, 3)
		})
		require.NoError(t, err)

		got, err := db.Items().GetByID(ctx, it.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Stock)
	})

	t.Run("error discards writes", func(t *testing.T) {
		boom := errors.New("boom")
		err := db.InTx(ctx, func(s storage.Store) error {
			if err := s.Items().UpdateStock(ctx, it.ID, 0); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		got, err := db.Items().GetByID(ctx, it.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Stock)
	})

	t.Run("reads inside tx see own writes", func(t *testing.T) {
		err := db.InTx(ctx, func(s storage.Store) error {
			if err := s.Items().UpdateStock(ctx, it.ID, 1); err != nil {
				return err
			}
			got, err := s.Items().GetByID(ctx, it.ID)
			if err != nil {
				return err
			}
			assert.Equal(t, 1, got.Stock)
			return errors.New("discard")
		})
		require.Error(t, err)
	})
}

func TestGetForUpdate_SerializesWriters(t *testing.T) {
	ctx := context.Background()
	db := New()

	it, err := item.New("Gadget", 100, 100)
	require.NoError(t, err)
	require.NoError(t, db.Items().Create(ctx, it))

	// each tx reads the stock under lock and writes a decrement; without the
	// row lock most decrements would be lost
	g := new(errgroup.Group)
	for range 100 {
		g.Go(func() error {
			return db.InTx(ctx, func(s storage.Store) error {
				cur, err := s.Items().GetForUpdate(ctx, it.ID)
				if err != nil {
					return err
				}
				return s.Items().UpdateStock(ctx, it.ID, cur.Stock-1)
			})
		})
	}
	require.NoError(t, g.Wait())

	got, err := db.Items().GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
}

func TestUserCoupons_MarkUsed(t *testing.T) {
	ctx := context.Background()
	db := New()

	c, err := coupon.Fixed("SAVE", 500)
	require.NoError(t, err)
	require.NoError(t, db.Coupons().Create(ctx, c))

	uc := coupon.Issue(1, c.ID)
	require.NoError(t, db.UserCoupons().Create(ctx, uc))

	require.NoError(t, db.UserCoupons().MarkUsed(ctx, uc.ID))

	err = db.UserCoupons().MarkUsed(ctx, uc.ID)
	require.ErrorIs(t, err, coupon.ErrAlreadyUsed)

	err = db.UserCoupons().MarkUsed(ctx, 999)
	require.ErrorIs(t, err, coupon.ErrUserCouponNotFound)
}

func TestUserCoupons_MarkUsed_Concurrent(t *testing.T) {
	ctx := context.Background()
	db := New()

	c, err := coupon.Fixed("ONCE", 500)
	require.NoError(t, err)
	require.NoError(t, db.Coupons().Create(ctx, c))
	uc := coupon.Issue(1, c.ID)
	require.NoError(t, db.UserCoupons().Create(ctx, uc))

	var (
		mu   sync.Mutex
		wins int
	)
	g := new(errgroup.Group)
	for range 50 {
		g.Go(func() error {
			err := db.InTx(ctx, func(s storage.Store) error {
				return s.UserCoupons().MarkUsed(ctx, uc.ID)
			})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return nil
			}
			if errors.Is(err, coupon.ErrAlreadyUsed) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 1, wins)
}

func TestOrders_UpdateCascadesPayment(t *testing.T) {
	ctx := context.Background()
	db := New()

	o, err := order.New(1, 2, 1, 9_000)
	require.NoError(t, err)
	require.NoError(t, db.Orders().Create(ctx, o))
	require.NotZero(t, o.ID)

	p, err := order.PreparePayment(o, 9_000)
	require.NoError(t, err)
	o.AttachPayment(p)
	require.NoError(t, db.Orders().Update(ctx, o))
	require.NotZero(t, p.ID)

	require.NoError(t, p.MarkSuccess())
	p.TransactionID = "VT-abc"
	require.NoError(t, db.Orders().Update(ctx, o))

	got, err := db.Orders().GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, got.Status)
	require.NotNil(t, got.Payment)
	assert.Equal(t, p.ID, got.Payment.ID)
	assert.Equal(t, order.PaymentSuccess, got.Payment.Status)
	assert.Equal(t, "VT-abc", got.Payment.TransactionID)
}

func TestUsers_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	db := New()

	u, err := user.New("gone@example.com", "Gone")
	require.NoError(t, err)
	require.NoError(t, db.Users().Create(ctx, u))

	c, err := coupon.Fixed("SAVE", 500)
	require.NoError(t, err)
	require.NoError(t, db.Coupons().Create(ctx, c))
	uc := coupon.Issue(u.ID, c.ID)
	require.NoError(t, db.UserCoupons().Create(ctx, uc))

	o, err := order.New(u.ID, 1, 1, 9_000)
	require.NoError(t, err)
	require.NoError(t, db.Orders().Create(ctx, o))
	p, err := order.PreparePayment(o, 9_000)
	require.NoError(t, err)
	o.AttachPayment(p)
	require.NoError(t, db.Orders().Update(ctx, o))

	require.NoError(t, db.Users().Delete(ctx, u.ID))

	_, err = db.Users().GetByID(ctx, u.ID)
	require.ErrorIs(t, err, user.ErrNotFound)
	_, err = db.Orders().GetByID(ctx, o.ID)
	require.ErrorIs(t, err, order.ErrNotFound)
	_, err = db.UserCoupons().GetByID(ctx, uc.ID)
	require.ErrorIs(t, err, coupon.ErrUserCouponNotFound)

	// the coupon definition itself survives
	_, err = db.Coupons().GetByID(ctx, c.ID)
	require.NoError(t, err)
}

func TestNotFoundErrors(t *testing.T) {
	ctx := context.Background()
	db := New()

	_, err := db.Users().GetByID(ctx, 1)
	require.ErrorIs(t, err, user.ErrNotFound)
	_, err = db.Items().GetByID(ctx, 1)
	require.ErrorIs(t, err, item.ErrNotFound)
	_, err = db.Coupons().GetByID(ctx, 1)
	require.ErrorIs(t, err, coupon.ErrNotFound)
	_, err = db.Orders().GetByID(ctx, 1)
	require.ErrorIs(t, err, order.ErrNotFound)
}
