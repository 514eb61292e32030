package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"

	"github.com/minshop/checkout/internal/domain/coupon"
	"github.com/minshop/checkout/internal/domain/item"
	"github.com/minshop/checkout/internal/domain/user"
	"github.com/minshop/checkout/internal/storage"
	"github.com/minshop/checkout/internal/storage/postgres"
)

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	db := postgres.NewDB(pool)

	return db.InTx(ctx, func(s storage.Store) error {
		u, err := seedUser(ctx, s)
		if err != nil {
			return errors.Wrap(err, "seed user")
		}
		if err := seedItems(ctx, s); err != nil {
			return errors.Wrap(err, "seed items")
		}
		if err := seedCoupons(ctx, s, u.ID); err != nil {
			return errors.Wrap(err, "seed coupons")
		}
		return nil
	})
}

func seedUser(ctx context.Context, s storage.Store) (*user.User, error) {
	u, err := user.New("demo@minshop.dev", "Demo User")
	if err != nil {
		return nil, err
	}
	if err := s.Users().Create(ctx, u); err != nil {
		return nil, err
	}

	slog.Info("created user", slog.Int64("id", u.ID), slog.String("email", u.Email))

	return u, nil
}

func seedItems(ctx context.Context, s storage.Store) error {
	seeds := []struct {
		name  string
		price int64
		stock int
	}{
		{"Mechanical Keyboard", 12_000, 50},
		{"USB-C Dock", 8_900, 30},
		{"Laptop Stand", 4_500, 100},
		{"Noise Cancelling Headphones", 29_900, 10},
	}

	for _, seed := range seeds {
		it, err := item.New(seed.name, seed.price, seed.stock)
		if err != nil {
			return err
		}
		if err := s.Items().Create(ctx, it); err != nil {
			return errors.Wrapf(err, "create item %q", seed.name)
		}

		slog.Info("created item",
			slog.Int64("id", it.ID),
			slog.String("name", it.Name),
			slog.Int64("price", it.Price),
			slog.Int("stock", it.Stock),
		)
	}

	return nil
}

func seedCoupons(ctx context.Context, s storage.Store, userID int64) error {
	fixed, err := coupon.Fixed("WELCOME1000", 1_000)
	if err != nil {
		return err
	}
	rate, err := coupon.Rate("SUMMER10", 10)
	if err != nil {
		return err
	}

	for _, c := range []*coupon.Coupon{fixed, rate} {
		if err := s.Coupons().Create(ctx, c); err != nil {
			return errors.Wrapf(err, "create coupon %q", c.Name)
		}

		uc := coupon.Issue(userID, c.ID)
		if err := s.UserCoupons().Create(ctx, uc); err != nil {
			return errors.Wrapf(err, "issue coupon %q", c.Name)
		}

		slog.Info("created coupon",
			slog.Int64("id", c.ID),
			slog.String("name", c.Name),
			slog.String("kind", string(c.Kind)),
			slog.Int64("user_coupon_id", uc.ID),
		)
	}

	return nil
}
