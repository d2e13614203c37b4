// Package cache implements the snapshot stores backing the npm and Cypress caches.
package cache

import (
	"errors"
	"io"
	"os"
	"slices"
	"strings"

	"go.trai.ch/cirun/internal/adapters/archive"
	"go.trai.ch/cirun/internal/core/domain"
	"go.trai.ch/zerr"
)

// restoreFile verifies f against checksum and extracts it into dest.
// An empty checksum skips verification.
func restoreFile(f *os.File, checksum, dest string) error {
	if checksum != "" {
		got, _, err := archive.Checksum(f)
		if err != nil {
			return zerr.Wrap(err, domain.ErrCacheRestoreFailed.Error())
		}
		if got != checksum {
			err := zerr.With(domain.ErrChecksumMismatch, "expected", checksum)
			return zerr.With(err, "actual", got)
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return zerr.Wrap(err, domain.ErrCacheRestoreFailed.Error())
		}
	}

	return archive.Unpack(f, dest)
}

// packTemp archives src into a temporary file in dir.
// The caller owns the returned file and must remove it.
func packTemp(src, dir string) (f *os.File, entry domain.CacheEntry, err error) {
	info, err := os.Stat(src)
	if errors.Is(err, os.ErrNotExist) || (err == nil && !info.IsDir()) {
		return nil, entry, zerr.With(domain.ErrCachePathNotFound, "path", src)
	}
	if err != nil {
		return nil, entry, zerr.Wrap(err, domain.ErrCacheSaveFailed.Error())
	}

	f, err = os.CreateTemp(dir, "snapshot-*.tmp")
	if err != nil {
		return nil, entry, zerr.Wrap(err, domain.ErrCacheSaveFailed.Error())
	}

	checksum, size, err := archive.Pack(src, f)
	if err == nil {
		_, err = f.Seek(0, io.SeekStart)
	}
	if err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, entry, err
	}

	return f, domain.CacheEntry{Checksum: checksum, Size: size}, nil
}

// newest returns the most recently created entry, breaking ties by key.
func newest(entries []domain.CacheEntry) (domain.CacheEntry, bool) {
	if len(entries) == 0 {
		return domain.CacheEntry{}, false
	}
	return slices.MaxFunc(entries, func(a, b domain.CacheEntry) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	}), true
}
