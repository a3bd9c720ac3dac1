// Command seed inserts demo users directly into the store for local
// development.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/newsbrief/newsbrief/internal/auth"
	"github.com/newsbrief/newsbrief/internal/model"
	"github.com/newsbrief/newsbrief/internal/store"
	"github.com/newsbrief/newsbrief/internal/store/sqlite"
)

var users = []struct {
	name        string
	email       string
	password    string
	preferences []string
}{
	{"Alice", "alice@example.com", "pw123456", []string{"tech", "science"}},
	{"Bob", "bob@example.com", "pw123456", []string{"sports"}},
	// Legacy single-string preference format, kept to exercise the
	// normalizer path end to end.
	{"Carol", "carol@example.com", "pw123456", []string{"business, politics"}},
	{"Dave", "dave@example.com", "pw123456", nil},
}

func main() {
	dbPath := flag.String("db", "newsbrief.db", "Database path")
	flag.Parse()

	st, err := sqlite.Open(*dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	for _, u := range users {
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			log.Fatalf("hash password for %s: %v", u.email, err)
		}
		user := model.User{
			ID:           uuid.NewString(),
			Name:         u.name,
			Email:        u.email,
			PasswordHash: hash,
			Preferences:  u.preferences,
			CreatedAt:    time.Now(),
		}
		if err := st.CreateUser(ctx, &user); err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				fmt.Printf("skip %s (already exists)\n", u.email)
				continue
			}
			log.Fatalf("create %s: %v", u.email, err)
		}
		fmt.Printf("created %s (%v)\n", u.email, u.preferences)
	}
}
