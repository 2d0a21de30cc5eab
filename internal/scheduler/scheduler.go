// Package scheduler keeps the cached ledger snapshot fresh.
package scheduler

import (
	"context"                   // Context for cancellation
	"dapptrack/internal/ledger" // Ledger client and snapshot
	"dapptrack/internal/utils"  // Utility functions
	"sync"                      // Mutex
	"time"                      // Timestamps and timeouts

	"github.com/redis/go-redis/v9"   // Redis client
	"github.com/robfig/cron/v3"      // Cron scheduling
	"github.com/sirupsen/logrus"     // Structured logging
	"golang.org/x/sync/singleflight" // Collapse concurrent loads
)

const (
	// SnapshotKey is the Redis key holding the latest ledger snapshot.
	SnapshotKey = "ledger:snapshot"
	snapshotTTL = 5 * time.Minute // Outlives several refresh ticks
)

// Loader reads the whole ledger.
type Loader interface {
	LoadSnapshot(ctx context.Context) ledger.Snapshot
}

// Refresher loads ledger snapshots and shares them through Redis. Concurrent
// loads are collapsed into one.
type Refresher struct {
	loader Loader             // Ledger reader
	rdb    *redis.Client      // Shared cache, may be nil
	group  singleflight.Group // Collapses concurrent loads

	mu   sync.RWMutex     // Guards last
	last *ledger.Snapshot // In-memory copy when Redis is absent
}

// NewRefresher returns a Refresher. rdb may be nil.
func NewRefresher(loader Loader, rdb *redis.Client) *Refresher {
	return &Refresher{loader: loader, rdb: rdb}
}

// Refresh loads a fresh snapshot and stores it.
func (r *Refresher) Refresh(ctx context.Context) ledger.Snapshot {
	v, _, _ := r.group.Do(SnapshotKey, func() (any, error) {
		start := time.Now() // Measure load time
		snap := r.loader.LoadSnapshot(ctx)

		r.mu.Lock()
		r.last = &snap // Keep the latest copy in memory
		r.mu.Unlock()

		if err := utils.SetCache(ctx, r.rdb, SnapshotKey, snap, snapshotTTL); err != nil {
			logrus.WithError(err).Warn("Failed to cache ledger snapshot") // Serve it anyway
		}
		logrus.WithFields(logrus.Fields{
			"organizations": len(snap.Organizations),    // Organizations read
			"projects":      len(snap.Projects),         // Projects read
			"donations":     len(snap.Donations),        // Donations read
			"expenses":      len(snap.Expenses),         // Expenses read
			"took":          time.Since(start).String(), // Load duration
		}).Debug("Ledger snapshot refreshed")
		return snap, nil
	})
	return v.(ledger.Snapshot)
}

// Current returns the cached snapshot, loading one when none is cached.
// cached reports whether it came from Redis or memory.
func (r *Refresher) Current(ctx context.Context) (snap ledger.Snapshot, cached bool) {
	found, err := utils.GetCache(ctx, r.rdb, SnapshotKey, &snap)
	if err != nil {
		logrus.WithError(err).Warn("Failed to read cached ledger snapshot") // Fall back to memory or a fresh load
	}
	if found {
		return snap, true // Shared cache hit
	}
	r.mu.RLock()
	last := r.last
	r.mu.RUnlock()
	if last != nil && r.rdb == nil {
		return *last, true // Memory hit without Redis
	}
	return r.Refresh(ctx), false // Cache miss, load the chain
}

// Invalidate drops the cached snapshot so the next read loads the chain again.
func (r *Refresher) Invalidate(ctx context.Context) {
	r.mu.Lock()
	r.last = nil // Drop the memory copy too
	r.mu.Unlock()
	if err := utils.DeleteCache(ctx, r.rdb, SnapshotKey); err != nil {
		logrus.WithError(err).Warn("Failed to drop cached ledger snapshot")
	}
}

// Scheduler runs the refresh on a cron spec. A tick that fires while the
// previous refresh is still running is skipped.
type Scheduler struct {
	cron      *cron.Cron // Cron runner
	refresher *Refresher // Job target
	spec      string     // Cron expression
}

// New builds a Scheduler for spec, e.g. "@every 30s".
func New(spec string, refresher *Refresher) *Scheduler {
	logger := cron.PrintfLogger(logrus.StandardLogger()) // Cron logs through logrus
	return &Scheduler{
		cron:      cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
		refresher: refresher, // Job target
		spec:      spec,      // Cron expression
	}
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.refresher.Refresh(context.Background()) // Ticks are not tied to a request
	})
	if err != nil {
		return err // Bad cron expression
	}

	s.cron.Start()
	return nil
}

// Stop waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done() // Running job finished
}
