package httpapp

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

type ctxKey int

const identityKey ctxKey = 0

// identity is attached to every request by logRequest and filled in by
// withAuth once a token verifies, so the request log can report who made
// the call.
type identity struct {
	email string
}

// identityFrom returns the authenticated email attached by withAuth.
func identityFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(identityKey).(*identity)
	if !ok || id.email == "" {
		return "", false
	}
	return id.email, true
}

// withAuth verifies the Authorization header and attaches the token's email
// claim to the request context before calling next. The prefix check is
// case-sensitive with a single space, everything after it is the token.
func (s *Server) withAuth(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		s.log.Warn("authorization attempt failed",
			zap.String("path", r.URL.Path),
			zap.String("reason", "missing or malformed header"),
		)
		writeError(w, http.StatusUnauthorized, "Authorization header missing or malformed",
			"Please provide a valid Bearer token in the Authorization header.")
		return
	}

	token := header[len(bearerPrefix):]
	claims, err := s.auth.VerifyToken(token)
	if err != nil {
		s.log.Warn("token verification failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusUnauthorized, "Invalid or expired token",
			"Please log in again to get a fresh token.")
		return
	}

	s.log.Debug("token verified", zap.String("email", claims.Email))
	id, ok := r.Context().Value(identityKey).(*identity)
	if !ok {
		id = &identity{}
		r = r.WithContext(context.WithValue(r.Context(), identityKey, id))
	}
	id.email = claims.Email
	next(w, r)
}

// statusWriter captures the status code and body size for request logging.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// logRequest logs every request with a level chosen by status class.
func (s *Server) logRequest(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	start := time.Now()
	sw := &statusWriter{ResponseWriter: w}
	id := &identity{}
	r = r.WithContext(context.WithValue(r.Context(), identityKey, id))

	next(sw, r)

	email := id.email
	if email == "" {
		email = "anonymous"
	}
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", sw.status),
		zap.Duration("duration", time.Since(start)),
		zap.Int("bytes", sw.bytes),
		zap.String("ip", s.clientIP(r)),
		zap.String("user_agent", r.UserAgent()),
		zap.String("email", email),
	}
	switch {
	case sw.status >= 500:
		s.log.Error(r.Method+" "+r.URL.Path, fields...)
	case sw.status >= 400:
		s.log.Warn(r.Method+" "+r.URL.Path, fields...)
	default:
		s.log.Info(r.Method+" "+r.URL.Path, fields...)
	}
}
