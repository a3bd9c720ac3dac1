package httpapp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/newsbrief/newsbrief/internal/auth"
	"github.com/newsbrief/newsbrief/internal/model"
	"github.com/newsbrief/newsbrief/internal/store"
)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if !s.allowRateLimit(w, r, "signup", s.cfg.RateLimits.SignupPerMinute) {
		return
	}

	var req struct {
		Name        string          `json:"name"`
		Email       string          `json:"email"`
		Password    string          `json:"password"`
		Preferences json.RawMessage `json:"preferences"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeValidationError(w, "request body must be valid JSON")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeValidationError(w, "name, email and password are required")
		return
	}

	// An absent or non-array preferences field is treated as empty rather
	// than rejected.
	preferences := []string{}
	if len(req.Preferences) > 0 {
		_ = json.Unmarshal(req.Preferences, &preferences)
		if preferences == nil {
			preferences = []string{}
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.log.Error("password hashing failed", zap.Error(err))
		writeInternalError(w)
		return
	}

	user := model.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Preferences:  preferences,
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateUser(r.Context(), &user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			writeError(w, http.StatusBadRequest, "User with this email already exists",
				"Please use a different email address or try logging in.")
			return
		}
		s.log.Error("signup failed", zap.String("email", user.Email), zap.Error(err))
		writeInternalError(w)
		return
	}

	s.log.Info("user registered", zap.String("email", user.Email), zap.String("user_id", user.ID))
	writeJSON(w, http.StatusCreated, map[string]any{"message": "User created successfully"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.allowRateLimit(w, r, "login", s.cfg.RateLimits.LoginPerMinute) {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeValidationError(w, "request body must be valid JSON")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeValidationError(w, "email and password are required")
		return
	}

	user, err := s.store.FindUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Same response as a wrong password so that login failures do
			// not leak which emails exist.
			writeInvalidCredentials(w)
			return
		}
		s.log.Error("login lookup failed", zap.Error(err))
		writeInternalError(w)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		writeInvalidCredentials(w)
		return
	}

	token, err := s.auth.IssueToken(user.Email)
	if err != nil {
		s.log.Error("token issue failed", zap.String("email", user.Email), zap.Error(err))
		writeInternalError(w)
		return
	}

	s.log.Info("user logged in", zap.String("email", user.Email))
	writeJSON(w, http.StatusOK, map[string]any{"message": "Login successful", "token": token})
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	email, ok := identityFrom(r.Context())
	if !ok {
		writeInternalError(w)
		return
	}

	user, err := s.store.FindUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeUserNotFound(w)
			return
		}
		s.log.Error("get preferences failed", zap.String("email", email), zap.Error(err))
		writeInternalError(w)
		return
	}

	preferences := user.Preferences
	if preferences == nil {
		preferences = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Preferences retrieved successfully",
		"preferences": preferences,
	})
}

func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	email, ok := identityFrom(r.Context())
	if !ok {
		writeInternalError(w)
		return
	}

	var req struct {
		Preferences json.RawMessage `json:"preferences"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeValidationError(w, "request body must be valid JSON")
		return
	}
	var preferences []string
	if len(req.Preferences) == 0 || json.Unmarshal(req.Preferences, &preferences) != nil || preferences == nil {
		writeValidationError(w, "preferences must be an array")
		return
	}

	if err := s.store.UpdateUserPreferences(r.Context(), email, preferences); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeUserNotFound(w)
			return
		}
		s.log.Error("update preferences failed", zap.String("email", email), zap.Error(err))
		writeInternalError(w)
		return
	}

	s.log.Info("preferences updated", zap.String("email", email), zap.Strings("preferences", preferences))
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Preferences updated successfully",
		"preferences": preferences,
	})
}

func writeInvalidCredentials(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "Invalid credentials",
		"Email or password is incorrect. Please try again.")
}
