package store

import (
	"context"
	"errors"

	"github.com/newsbrief/newsbrief/internal/model"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("duplicate email")
)

// Store is the user record store backing the API.
type Store interface {
	UserStore
	Close() error
}

type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	FindUserByEmail(ctx context.Context, email string) (model.User, error)
	UpdateUserPreferences(ctx context.Context, email string, preferences []string) error
}
