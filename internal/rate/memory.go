package rate

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLimiter: mismo fixed window que RedisLimiter pero in-process.
// Para deploys single-node o dev sin Redis.
type MemoryLimiter struct {
	// mu serializa el increment-or-create: dos primeros hits concurrentes
	// de una ventana nueva no deben pisarse el contador.
	mu     sync.Mutex
	c      *gocache.Cache
	Max    int64
	Window time.Duration
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		c:      gocache.New(window, window),
		Max:    int64(max),
		Window: window,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := time.Now().UTC()
	winStart := now.Truncate(l.Window)
	bucketKey := fmt.Sprintf("%s:%d", key, winStart.Unix())

	l.mu.Lock()
	hits, err := l.c.IncrementInt64(bucketKey, 1)
	if err != nil {
		// la key no existe todavía en esta ventana
		hits = 1
		l.c.Set(bucketKey, int64(1), l.Window)
	}
	l.mu.Unlock()

	remaining := l.Max - hits
	if remaining < 0 {
		remaining = 0
	}
	res := Result{
		Allowed:     hits <= l.Max,
		Remaining:   remaining,
		CurrentHits: hits,
	}
	if !res.Allowed {
		res.RetryAfter = winStart.Add(l.Window).Sub(now)
	}
	return res, nil
}
