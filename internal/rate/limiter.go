package rate

import (
	"sync"
	"time"
)

type Limiter interface {
	Allow(key string, limit int) (bool, time.Duration)
}

// MemoryLimiter is a fixed-window in-memory limiter keyed by caller-chosen
// strings (here: action + client IP). All keys share one window length.
type MemoryLimiter struct {
	mu     sync.Mutex
	window time.Duration
	store  map[string]*bucket
}

type bucket struct {
	count   int
	resetAt time.Time
}

func NewMemory(window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		window: window,
		store:  make(map[string]*bucket),
	}
}

// Allow records one request against key and reports whether it fits within
// limit for the current window, along with the time until the window resets.
func (m *MemoryLimiter) Allow(key string, limit int) (bool, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	b, ok := m.store[key]
	if !ok || now.After(b.resetAt) {
		b = &bucket{resetAt: now.Add(m.window)}
		m.store[key] = b
	}

	if b.count >= limit {
		return false, time.Until(b.resetAt)
	}

	b.count++
	return true, time.Until(b.resetAt)
}
