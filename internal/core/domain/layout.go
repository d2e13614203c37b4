package domain

import "path/filepath"

const (
	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "cirun.yaml"

	// DefaultLockfile is the dependency lockfile hashed into cache keys.
	DefaultLockfile = "package-lock.json"

	// CacheDirName is the directory under the user cache root holding snapshots.
	CacheDirName = "cirun"

	// SnapshotExt is the file extension of a snapshot archive.
	SnapshotExt = ".tar.zst"

	// MetadataExt is the file extension of snapshot metadata.
	MetadataExt = ".json"

	// CypressCacheEnv overrides the Cypress binary location.
	CypressCacheEnv = "CYPRESS_CACHE_FOLDER"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCacheDir returns the default snapshot directory of the local backend.
func DefaultCacheDir() string {
	return filepath.Join("~", ".cache", CacheDirName)
}
