package ratelimit

import (
	"sync"
	"time"
)

// Result reports whether an attempt was admitted. RetryAfter is only set
// when Allowed is false and reflects the seconds remaining in the window.
type Result struct {
	Allowed    bool
	RetryAfter int
}

// Limiter bounds the rate of sensitive operations per key. Handlers depend
// on this interface so an externally-backed implementation can replace the
// in-memory one later.
type Limiter interface {
	Allow(key string, limit int, window time.Duration) Result
}

type windowState struct {
	start time.Time
	count int
}

// MemoryLimiter is a fixed-window counter keyed by string, process-local.
// Good enough to slow down abuse; it makes no cross-process guarantee.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*windowState
	now     func() time.Time
}

// NewMemoryLimiter creates a MemoryLimiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*windowState),
		now:     time.Now,
	}
}

// Allow consumes one slot for key within the current window. When the count
// reaches limit, further attempts are rejected until the window rolls over.
func (l *MemoryLimiter) Allow(key string, limit int, window time.Duration) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= window {
		l.windows[key] = &windowState{start: now, count: 1}
		return Result{Allowed: true}
	}

	if w.count >= limit {
		remaining := window - now.Sub(w.start)
		retryAfter := int(remaining / time.Second)
		if remaining%time.Second != 0 || retryAfter == 0 {
			retryAfter++
		}
		return Result{Allowed: false, RetryAfter: retryAfter}
	}

	w.count++
	return Result{Allowed: true}
}

// Prune drops expired windows. Callers may run it periodically; correctness
// does not depend on it since expired windows reset lazily on next use.
func (l *MemoryLimiter) Prune(window time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, w := range l.windows {
		if now.Sub(w.start) >= window {
			delete(l.windows, key)
		}
	}
}
