package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// LimiterStore hands out one rate.Limiter per key (chat id, requester id).
// Entries unused for longer than maxIdle are dropped by Cleanup.
type LimiterStore struct {
	limiters map[string]*limiterEntry
	mu       sync.Mutex
	r        rate.Limit
	burst    int
	maxIdle  time.Duration
}

func NewLimiterStore(r rate.Limit, burst int, maxIdle time.Duration) *LimiterStore {
	return &LimiterStore{
		limiters: make(map[string]*limiterEntry),
		r:        r,
		burst:    burst,
		maxIdle:  maxIdle,
	}
}

func (s *LimiterStore) GetLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, exists := s.limiters[key]; exists {
		entry.lastAccess = time.Now()
		return entry.limiter
	}
	limiter := rate.NewLimiter(s.r, s.burst)
	s.limiters[key] = &limiterEntry{limiter: limiter, lastAccess: time.Now()}
	return limiter
}

// Cleanup drops limiters idle longer than maxIdle.
func (s *LimiterStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.maxIdle)
	for key, entry := range s.limiters {
		if entry.lastAccess.Before(cutoff) {
			delete(s.limiters, key)
		}
	}
}
