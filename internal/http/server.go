package httpapp

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/newsbrief/newsbrief/internal/auth"
	"github.com/newsbrief/newsbrief/internal/config"
	"github.com/newsbrief/newsbrief/internal/news"
	"github.com/newsbrief/newsbrief/internal/rate"
	"github.com/newsbrief/newsbrief/internal/store"
)

type Server struct {
	store   store.Store
	auth    *auth.Service
	news    *news.Service
	limiter rate.Limiter
	cfg     config.Config
	log     *zap.Logger
}

func NewServer(st store.Store, authSvc *auth.Service, newsSvc *news.Service, limiter rate.Limiter, cfg config.Config, log *zap.Logger) *Server {
	return &Server{store: st, auth: authSvc, news: newsSvc, limiter: limiter, cfg: cfg, log: log}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.logRequest(w, r, s.route)
}

func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	segments := splitPath(r.URL.Path)

	switch {
	case len(segments) == 2 && segments[0] == "users" && segments[1] == "signup":
		if r.Method == http.MethodPost {
			s.handleSignup(w, r)
			return
		}
		methodNotAllowed(w)
		return
	case len(segments) == 2 && segments[0] == "users" && segments[1] == "login":
		if r.Method == http.MethodPost {
			s.handleLogin(w, r)
			return
		}
		methodNotAllowed(w)
		return
	case len(segments) == 2 && segments[0] == "users" && segments[1] == "preferences":
		switch r.Method {
		case http.MethodGet:
			s.withAuth(w, r, s.handleGetPreferences)
		case http.MethodPut:
			s.withAuth(w, r, s.handleUpdatePreferences)
		default:
			methodNotAllowed(w)
		}
		return
	case len(segments) == 1 && segments[0] == "news":
		if r.Method == http.MethodGet {
			s.withAuth(w, r, s.handleGetNews)
			return
		}
		methodNotAllowed(w)
		return
	}

	notFound(w)
}

func (s *Server) allowRateLimit(w http.ResponseWriter, r *http.Request, action string, limit int) bool {
	if limit <= 0 {
		return true
	}
	key := action + ":ip:" + s.clientIP(r)
	if ok, retry := s.limiter.Allow(key, limit); !ok {
		writeRateLimit(w, retry)
		return false
	}
	return true
}

func (s *Server) clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func readJSON(body io.ReadCloser, dest any) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	return dec.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, errTag, message string) {
	writeJSON(w, status, map[string]any{"error": errTag, "message": message})
}

func writeValidationError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, "Validation error", message)
}

func writeInternalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, "Internal server error",
		"Something went wrong. Please try again later.")
}

func writeUserNotFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "User not found",
		"The requested user does not exist.")
}

func writeRateLimit(w http.ResponseWriter, retry time.Duration) {
	w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())))
	writeError(w, http.StatusTooManyRequests, "Rate limit exceeded",
		"Too many requests. Please slow down and try again.")
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "Not found", "The requested resource does not exist.")
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed",
		"The requested method is not supported for this resource.")
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
