package model

import (
	"encoding/json"
	"time"
)

// User is a registered account with its saved news category preferences.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Preferences  []string
	CreatedAt    time.Time
}

// Article is a news article as returned by the upstream search API. The
// payload is passed through to API clients untouched, so no structure is
// imposed on it here.
type Article = json.RawMessage
