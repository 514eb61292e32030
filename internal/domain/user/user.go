package user

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested user does not exist.
var ErrNotFound = errors.New("user not found")

// User is the account that owns orders and issued coupons.
type User struct {
	ID    int64
	Email string
	Name  string
}

// New creates a user. Email must be unique; uniqueness is enforced by storage.
func New(email, name string) (*User, error) {
	if email == "" {
		return nil, errors.New("email must not be empty")
	}
	if name == "" {
		return nil, errors.New("name must not be empty")
	}
	return &User{Email: email, Name: name}, nil
}

// Repository defines persistence operations for users.
//
// Delete is the aggregate-root cascade: it removes the user's payments,
// orders, and issued coupons in the same unit of work before removing the
// user row itself.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	Delete(ctx context.Context, id int64) error
}
