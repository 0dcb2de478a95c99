package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/septicstore/backend/internal/domain"
)

// stubFeed is a FeedSource returning canned snapshots or errors
type stubFeed struct {
	snapshot *domain.Snapshot
	err      error
	calls    atomic.Int32

	// when set, FetchCatalog signals started and blocks until release closes
	started chan struct{}
	release chan struct{}
}

func (f *stubFeed) FetchCatalog(ctx context.Context) (*domain.Snapshot, error) {
	f.calls.Add(1)
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

func testSnapshot(ids ...string) *domain.Snapshot {
	snap := domain.EmptySnapshot()
	for _, id := range ids {
		snap.Products = append(snap.Products, domain.Product{ID: id, Name: "Pump " + id})
	}
	snap.FetchedAt = time.Now()
	return snap
}

func TestCatalogService_CurrentBeforeFirstRefresh(t *testing.T) {
	svc := NewCatalogService(&stubFeed{})

	current := svc.Current()
	if current == nil {
		t.Fatal("Current() = nil, want empty snapshot")
	}
	if len(current.Products) != 0 || len(current.Categories) != 0 {
		t.Errorf("initial snapshot not empty: %d products, %d categories",
			len(current.Products), len(current.Categories))
	}
}

func TestCatalogService_Refresh(t *testing.T) {
	t.Run("publishes the new snapshot on success", func(t *testing.T) {
		snap := testSnapshot("A", "B")
		svc := NewCatalogService(&stubFeed{snapshot: snap})

		if err := svc.Refresh(context.Background()); err != nil {
			t.Fatalf("Refresh() error = %v, want nil", err)
		}
		if got := svc.Current(); got != snap {
			t.Errorf("Current() = %p, want the published snapshot %p", got, snap)
		}
	})

	t.Run("keeps the previous snapshot on failure", func(t *testing.T) {
		feed := &stubFeed{snapshot: testSnapshot("A")}
		svc := NewCatalogService(feed)

		if err := svc.Refresh(context.Background()); err != nil {
			t.Fatalf("first Refresh() error = %v, want nil", err)
		}
		before := svc.Current()

		feed.snapshot = nil
		feed.err = errors.New("feed is down")
		if err := svc.Refresh(context.Background()); err == nil {
			t.Fatal("second Refresh() error = nil, want feed error")
		}

		if got := svc.Current(); got != before {
			t.Errorf("Current() changed after failed refresh")
		}
	})

	t.Run("rejects a refresh while one is in flight", func(t *testing.T) {
		feed := &stubFeed{
			snapshot: testSnapshot("A"),
			started:  make(chan struct{}, 1),
			release:  make(chan struct{}),
		}
		svc := NewCatalogService(feed)

		done := make(chan error, 1)
		go func() {
			done <- svc.Refresh(context.Background())
		}()

		<-feed.started
		if err := svc.Refresh(context.Background()); !errors.Is(err, domain.ErrRefreshInFlight) {
			t.Errorf("overlapping Refresh() error = %v, want ErrRefreshInFlight", err)
		}

		close(feed.release)
		if err := <-done; err != nil {
			t.Errorf("blocked Refresh() error = %v, want nil", err)
		}
	})
}

func TestCatalogService_RunPeriodic(t *testing.T) {
	feed := &stubFeed{snapshot: testSnapshot("A")}
	svc := NewCatalogService(feed)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		svc.RunPeriodic(ctx, 5*time.Millisecond)
		close(stopped)
	}()

	deadline := time.After(2 * time.Second)
	for feed.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("periodic refresh never fired twice")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("RunPeriodic did not stop on context cancellation")
	}
}
