package domain

import "context"

// FeedSource defines the interface for fetching and parsing the remote catalog feed
type FeedSource interface {
	FetchCatalog(ctx context.Context) (*Snapshot, error)
}

// SnapshotProvider defines the read side of the catalog: a handle that always
// yields the latest fully-built snapshot
type SnapshotProvider interface {
	Current() *Snapshot
}
