package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/newsbrief/newsbrief/internal/model"
	"github.com/newsbrief/newsbrief/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestUserLifecycle(t *testing.T) {
	st := newTestStore(t)

	user := model.User{
		ID:           "u-1",
		Name:         "Alice",
		Email:        "Alice@Example.com",
		PasswordHash: "hash",
		Preferences:  []string{"tech", "sports"},
		CreatedAt:    time.Now(),
	}
	if err := st.CreateUser(context.Background(), &user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := st.FindUserByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Fatalf("expected lowercased email, got %q", got.Email)
	}
	if len(got.Preferences) != 2 || got.Preferences[0] != "tech" {
		t.Fatalf("unexpected preferences: %v", got.Preferences)
	}

	if err := st.UpdateUserPreferences(context.Background(), "ALICE@example.com", []string{"science"}); err != nil {
		t.Fatalf("update preferences: %v", err)
	}
	got, _ = st.FindUserByEmail(context.Background(), "alice@example.com")
	if len(got.Preferences) != 1 || got.Preferences[0] != "science" {
		t.Fatalf("unexpected preferences after update: %v", got.Preferences)
	}
}

func TestDuplicateEmail(t *testing.T) {
	st := newTestStore(t)

	user := model.User{ID: "u-1", Name: "A", Email: "a@x.com", PasswordHash: "h", CreatedAt: time.Now()}
	if err := st.CreateUser(context.Background(), &user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	dup := model.User{ID: "u-2", Name: "B", Email: "A@X.COM", PasswordHash: "h", CreatedAt: time.Now()}
	if err := st.CreateUser(context.Background(), &dup); !errors.Is(err, store.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestFindUnknownUser(t *testing.T) {
	st := newTestStore(t)

	if _, err := st.FindUserByEmail(context.Background(), "nobody@x.com"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePreferencesUnknownUser(t *testing.T) {
	st := newTestStore(t)

	err := st.UpdateUserPreferences(context.Background(), "nobody@x.com", []string{"tech"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
