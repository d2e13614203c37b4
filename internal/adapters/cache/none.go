package cache

import (
	"context"

	"go.trai.ch/cirun/internal/core/domain"
)

// NoneStore never finds a snapshot and discards saves.
type NoneStore struct{}

// NewNoneStore creates a new NoneStore.
func NewNoneStore() *NoneStore {
	return &NoneStore{}
}

// Restore always misses.
func (NoneStore) Restore(_ context.Context, _ domain.CacheSpec) (domain.RestoreResult, error) {
	return domain.RestoreResult{}, nil
}

// Save does nothing.
func (NoneStore) Save(_ context.Context, _ domain.CacheSpec) error {
	return nil
}
