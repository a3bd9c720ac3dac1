package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	registered := map[string]bool{}
	mux.HandleFunc("/users/signup", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if registered[req.Email] {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"User with this email already exists","message":""}`))
			return
		}
		registered[req.Email] = true
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"User created successfully"}`))
	})
	mux.HandleFunc("/users/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Login successful","token":"tok-123"}`))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestSignupMapsDuplicate(t *testing.T) {
	ts := fakeAPI(t)
	c := New(ts.URL)

	if err := c.Signup("A", "a@x.com", "pw123456", nil); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := c.Signup("A", "a@x.com", "pw123456", nil); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginStoresToken(t *testing.T) {
	ts := fakeAPI(t)
	c := New(ts.URL)

	if err := c.Login("a@x.com", "pw123456"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if c.Token != "tok-123" {
		t.Fatalf("unexpected token %q", c.Token)
	}
}
