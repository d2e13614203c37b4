package ports

import (
	"context"

	"go.trai.ch/cirun/internal/core/domain"
)

// CacheStore saves and restores directory snapshots addressed by key.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache_store.go -destination=mocks/mock_cache_store.go -package=mocks
type CacheStore interface {
	// Restore extracts the snapshot matching spec into spec.Path.
	// The primary key is tried first, then the newest snapshot under the restore prefix.
	// A zero RestoreResult means nothing matched; that is not an error.
	Restore(ctx context.Context, spec domain.CacheSpec) (domain.RestoreResult, error)

	// Save snapshots spec.Path under the primary key.
	Save(ctx context.Context, spec domain.CacheSpec) error
}

// CacheStoreFactory builds the store for the configured backend.
type CacheStoreFactory interface {
	New(ctx context.Context, settings domain.CacheSettings) (CacheStore, error)
}
