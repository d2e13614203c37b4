package domain

import "time"

// CacheKind is the logical namespace of a cached directory.
type CacheKind string

const (
	// CacheNpm holds the npm download cache.
	CacheNpm CacheKind = "npm"
	// CacheCypress holds the Cypress test runner binary.
	CacheCypress CacheKind = "cypress"
)

// CacheSpec addresses one cached directory.
type CacheSpec struct {
	Kind CacheKind
	// Path is the directory that is snapshotted and restored.
	Path string
	// RestorePrefix matches any snapshot of the same kind and platform.
	RestorePrefix string
	// PrimaryKey is RestorePrefix followed by the lockfile hash.
	PrimaryKey string
}

// NewCacheSpec derives the keys for a cache of the given kind.
// Keys have the form "{kind}-{os}-{arch}-{lockHash}".
func NewCacheSpec(kind CacheKind, path string, platform Platform, lockHash string) CacheSpec {
	prefix := string(kind) + "-" + platform.String() + "-"
	return CacheSpec{
		Kind:          kind,
		Path:          path,
		RestorePrefix: prefix,
		PrimaryKey:    prefix + lockHash,
	}
}

// RestoreResult describes the outcome of a restore.
// MatchedKey is empty when nothing was restored.
type RestoreResult struct {
	MatchedKey string
}

// Hit reports whether the restored snapshot is an exact match for spec.
// A restore through the prefix warms the directory but still counts as a miss.
func (r RestoreResult) Hit(spec CacheSpec) bool {
	return r.MatchedKey != "" && r.MatchedKey == spec.PrimaryKey
}

// Restored reports whether any snapshot was extracted.
func (r RestoreResult) Restored() bool {
	return r.MatchedKey != ""
}

// CacheEntry is the metadata stored next to a snapshot.
type CacheEntry struct {
	Key       string    `json:"key,omitzero"`
	Kind      CacheKind `json:"kind,omitzero"`
	Size      int64     `json:"size,omitzero"`
	Checksum  string    `json:"checksum,omitzero"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}
