package scheduler

import (
	"context"                   // Context for cancellation
	"dapptrack/internal/domain" // Importing domain models
	"dapptrack/internal/ledger" // Ledger client and snapshot
	"sync"                      // Mutex
	"sync/atomic"               // Atomic counters
	"testing"                   // Testing framework
	"time"                      // Timestamps and timeouts

	"github.com/alicebob/miniredis/v2" // In-memory Redis
	"github.com/redis/go-redis/v9"     // Redis client
)

type countingLoader struct {
	calls atomic.Int32
	delay time.Duration
}

func (l *countingLoader) LoadSnapshot(ctx context.Context) ledger.Snapshot {
	n := l.calls.Add(1)
	time.Sleep(l.delay)
	return ledger.Snapshot{
		Organizations: []domain.Organization{{ID: domain.U64(n), Name: "org"}},
		LoadedAt:      time.Now().UTC(),
	}
}

func TestCurrentUsesRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	loader := &countingLoader{}
	r := NewRefresher(loader, rdb)
	ctx := context.Background()

	first, cached := r.Current(ctx)
	if cached || len(first.Organizations) != 1 {
		t.Fatalf("first Current = %+v cached=%v", first, cached)
	}
	if !mr.Exists(SnapshotKey) {
		t.Fatal("snapshot was not written to redis")
	}
	second, cached := r.Current(ctx)
	if !cached || second.Organizations[0].ID != first.Organizations[0].ID {
		t.Fatalf("second Current = %+v cached=%v", second, cached)
	}
	if loader.calls.Load() != 1 {
		t.Fatalf("loads = %d, want 1", loader.calls.Load())
	}

	r.Invalidate(ctx)
	if mr.Exists(SnapshotKey) {
		t.Fatal("Invalidate left the key in redis")
	}
	if _, cached := r.Current(ctx); cached || loader.calls.Load() != 2 {
		t.Fatalf("after invalidate cached=%v loads=%d", cached, loader.calls.Load())
	}
}

func TestCurrentWithoutRedis(t *testing.T) {
	loader := &countingLoader{}
	r := NewRefresher(loader, nil)
	ctx := context.Background()
	r.Current(ctx)
	if _, cached := r.Current(ctx); !cached || loader.calls.Load() != 1 {
		t.Fatalf("cached=%v loads=%d", cached, loader.calls.Load())
	}
}

func TestConcurrentRefreshesCollapse(t *testing.T) {
	loader := &countingLoader{delay: 50 * time.Millisecond}
	r := NewRefresher(loader, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Refresh(context.Background())
		}()
	}
	wg.Wait()
	if n := loader.calls.Load(); n >= 8 {
		t.Fatalf("loads = %d, want concurrent refreshes to share a load", n)
	}
}

func TestSchedulerRejectsBadCronExpression(t *testing.T) {
	s := New("not a schedule", NewRefresher(&countingLoader{}, nil))
	if err := s.Start(); err == nil {
		t.Fatal("Start accepted an invalid cron spec")
	}
}

func TestSchedulerRuns(t *testing.T) {
	loader := &countingLoader{}
	s := New("@every 1s", NewRefresher(loader, nil))
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	deadline := time.Now().Add(3 * time.Second)
	for loader.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	s.Stop()
	if loader.calls.Load() == 0 {
		t.Fatal("scheduled refresh never ran")
	}
}
