// internal/feed/follower.go

// Package feed bridges the append-only transcript files to the recomputation
// model: it polls for growth and hands subscribers a fresh snapshot plus the
// turns assembled from it. Assembly stays pure; all the waiting lives here.
package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/user/weft/internal/assemble"
	"github.com/user/weft/internal/types"
)

// Subscriber receives the full snapshot and its assembled turns whenever a
// watched session's transcript grows.
type Subscriber func(id types.SessionID, events []*types.Event, turns []*types.Turn)

// Follower polls transcripts and recomputes turns on growth. Recomputation
// is memoized by event count: an unchanged transcript never triggers a
// subscriber call. A weighted semaphore bounds how many sessions assemble
// concurrently.
type Follower struct {
	source    types.EventSource
	interval  time.Duration
	semaphore *semaphore.Weighted

	mu   sync.Mutex
	seen map[types.SessionID]int64
}

// NewFollower creates a Follower polling at the given interval with at most
// maxConcurrent simultaneous recomputations.
func NewFollower(source types.EventSource, interval time.Duration, maxConcurrent int64) *Follower {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Follower{
		source:    source,
		interval:  interval,
		semaphore: semaphore.NewWeighted(maxConcurrent),
		seen:      make(map[types.SessionID]int64),
	}
}

// Watch follows one session until the context is canceled. The subscriber is
// invoked once immediately if the transcript is non-empty, then again after
// each observed growth. Poll failures are logged and retried on the next
// tick; a transient store error never ends the watch.
func (f *Follower) Watch(ctx context.Context, id types.SessionID, sub Subscriber) error {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		if err := f.poll(ctx, id, sub); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("transcript poll failed", "session_id", id, "error", err)
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// WatchAll follows every session in the catalog, one goroutine per session,
// until the context is canceled.
func (f *Follower) WatchAll(ctx context.Context, catalog types.SessionCatalog, sub Subscriber) error {
	sessions, err := catalog.List(ctx)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for _, info := range sessions {
		wg.Add(1)
		go func(id types.SessionID) {
			defer wg.Done()
			if err := f.Watch(ctx, id, sub); err != nil && ctx.Err() == nil {
				slog.Error("session watch ended", "session_id", id, "error", err)
			}
		}(info.SessionID)
	}
	wg.Wait()
	return ctx.Err()
}

func (f *Follower) poll(ctx context.Context, id types.SessionID, sub Subscriber) error {
	count, err := f.source.Count(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 || count == f.lastSeen(id) {
		return nil
	}

	if err := f.semaphore.Acquire(ctx, 1); err != nil {
		return err
	}
	defer f.semaphore.Release(1)

	events, err := f.source.Snapshot(ctx, id)
	if err != nil {
		return err
	}
	f.markSeen(id, int64(len(events)))
	sub(id, events, assemble.Assemble(events))
	return nil
}

func (f *Follower) lastSeen(id types.SessionID) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen[id]
}

func (f *Follower) markSeen(id types.SessionID, n int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen[id] = n
}
