package rate

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	t.Parallel()
	l := NewMemoryLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		res, err := l.Allow(ctx, "login:1.2.3.4")
		if err != nil {
			t.Fatalf("Allow err: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("hit %d should be allowed", i)
		}
	}

	res, err := l.Allow(ctx, "login:1.2.3.4")
	if err != nil {
		t.Fatal(err)
	}
	if res.Allowed {
		t.Fatalf("4th hit must be blocked")
	}
	if res.RetryAfter <= 0 || res.RetryAfter > time.Minute {
		t.Fatalf("RetryAfter fuera de rango: %v", res.RetryAfter)
	}
}

func TestMemoryLimiter_ConcurrentFirstHits(t *testing.T) {
	t.Parallel()
	const max = 5
	const hits = 40
	l := NewMemoryLimiter(max, time.Minute)
	ctx := context.Background()

	// todos los hits caen en una ventana recién creada: ninguno se
	// puede perder en el increment-or-create
	var allowed int64
	var wg sync.WaitGroup
	for i := 0; i < hits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := l.Allow(ctx, "login:9.9.9.9")
			if err != nil {
				t.Errorf("Allow err: %v", err)
				return
			}
			if res.Allowed {
				atomic.AddInt64(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt64(&allowed); got != max {
		t.Fatalf("allowed = %d, want exactly %d", got, max)
	}
}

func TestMemoryLimiter_KeysIsolated(t *testing.T) {
	t.Parallel()
	l := NewMemoryLimiter(1, time.Minute)
	ctx := context.Background()

	if res, _ := l.Allow(ctx, "a"); !res.Allowed {
		t.Fatalf("first hit on a must pass")
	}
	if res, _ := l.Allow(ctx, "b"); !res.Allowed {
		t.Fatalf("first hit on b must pass")
	}
	if res, _ := l.Allow(ctx, "a"); res.Allowed {
		t.Fatalf("second hit on a must block")
	}
}
