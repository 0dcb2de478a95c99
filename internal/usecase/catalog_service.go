package usecase

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/septicstore/backend/internal/domain"
)

// CatalogService owns the process-wide catalog snapshot. It is the only
// writer: Refresh rebuilds the snapshot from the feed and publishes it with
// a single atomic pointer swap, so readers always see a complete snapshot.
type CatalogService struct {
	source    domain.FeedSource
	snapshot  atomic.Pointer[domain.Snapshot]
	refreshMu sync.Mutex
}

// NewCatalogService creates a catalog service seeded with an empty snapshot
// so readers never observe nil before the first refresh completes.
func NewCatalogService(source domain.FeedSource) *CatalogService {
	s := &CatalogService{source: source}
	s.snapshot.Store(domain.EmptySnapshot())
	return s
}

// Current returns the latest fully-built snapshot. Never nil, never blocks.
func (s *CatalogService) Current() *domain.Snapshot {
	return s.snapshot.Load()
}

// Refresh rebuilds the snapshot from the feed. All-or-nothing: on any
// failure the previous snapshot stays live. A refresh already in progress
// is not queued behind, the call returns ErrRefreshInFlight instead.
func (s *CatalogService) Refresh(ctx context.Context) error {
	if !s.refreshMu.TryLock() {
		return domain.ErrRefreshInFlight
	}
	defer s.refreshMu.Unlock()

	started := time.Now()
	snapshot, err := s.source.FetchCatalog(ctx)
	if err != nil {
		log.Printf("[CATALOG] Refresh failed, keeping previous snapshot: %v", err)
		return err
	}

	s.snapshot.Store(snapshot)
	log.Printf("[CATALOG] Loaded %d categories and %d products in %s",
		len(snapshot.Categories), len(snapshot.Products), time.Since(started).Round(time.Millisecond))
	return nil
}

// RunPeriodic refreshes the catalog on the given interval until the context
// is cancelled. Meant to be run in its own goroutine from main.
func (s *CatalogService) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[CATALOG] Periodic refresh stopped: %v", ctx.Err())
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				// Already logged inside Refresh; next tick retries
				continue
			}
		}
	}
}
