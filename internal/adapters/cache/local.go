package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/cirun/internal/core/domain"
	"go.trai.ch/cirun/internal/core/ports"
	"go.trai.ch/zerr"
)

// LocalStore keeps snapshots as "<key>.tar.zst" with "<key>.json" metadata in a directory.
type LocalStore struct {
	dir    string
	logger ports.Logger
	now    func() time.Time
}

// NewLocalStore creates a store rooted at dir. The directory is created on first save.
func NewLocalStore(dir string, logger ports.Logger) *LocalStore {
	return &LocalStore{
		dir:    filepath.Clean(dir),
		logger: logger,
		now:    time.Now,
	}
}

// Restore implements ports.CacheStore.
func (s *LocalStore) Restore(ctx context.Context, spec domain.CacheSpec) (domain.RestoreResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.RestoreResult{}, err
	}

	entry, ok, err := s.readEntry(spec.PrimaryKey)
	if err != nil {
		return domain.RestoreResult{}, err
	}
	if !ok {
		entry, ok, err = s.findPrefix(spec.RestorePrefix)
		if err != nil || !ok {
			return domain.RestoreResult{}, err
		}
	}

	f, err := os.Open(s.snapshotPath(entry.Key))
	if err != nil {
		return domain.RestoreResult{}, zerr.With(zerr.Wrap(err, domain.ErrCacheRestoreFailed.Error()), "key", entry.Key)
	}
	defer f.Close() //nolint:errcheck // read-only

	if err := restoreFile(f, entry.Checksum, spec.Path); err != nil {
		return domain.RestoreResult{}, zerr.With(err, "key", entry.Key)
	}

	return domain.RestoreResult{MatchedKey: entry.Key}, nil
}

// Save implements ports.CacheStore. An existing snapshot for the primary key is kept.
func (s *LocalStore) Save(ctx context.Context, spec domain.CacheSpec) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, ok, err := s.readEntry(spec.PrimaryKey); err != nil {
		return err
	} else if ok {
		s.logger.Warn("cache entry " + spec.PrimaryKey + " already exists, skipping save")
		return nil
	}

	if err := os.MkdirAll(s.dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheSaveFailed.Error()), "path", s.dir)
	}

	tmp, entry, err := packTemp(spec.Path, s.dir)
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrCacheSaveFailed.Error())
	}
	if err := os.Rename(tmp.Name(), s.snapshotPath(spec.PrimaryKey)); err != nil {
		return zerr.Wrap(err, domain.ErrCacheSaveFailed.Error())
	}

	entry.Key = spec.PrimaryKey
	entry.Kind = spec.Kind
	entry.CreatedAt = s.now().UTC()
	return s.writeEntry(entry)
}

func (s *LocalStore) snapshotPath(key string) string {
	return filepath.Join(s.dir, key+domain.SnapshotExt)
}

func (s *LocalStore) metadataPath(key string) string {
	return filepath.Join(s.dir, key+domain.MetadataExt)
}

// readEntry loads the metadata for key. A missing entry is not an error.
func (s *LocalStore) readEntry(key string) (domain.CacheEntry, bool, error) {
	data, err := os.ReadFile(s.metadataPath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return domain.CacheEntry{}, false, nil
	}
	if err != nil {
		return domain.CacheEntry{}, false, zerr.With(zerr.Wrap(err, domain.ErrMetadataReadFailed.Error()), "key", key)
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return domain.CacheEntry{}, false, zerr.With(zerr.Wrap(err, domain.ErrMetadataReadFailed.Error()), "key", key)
	}
	if entry.Key == "" {
		entry.Key = key
	}
	return entry, true, nil
}

// writeEntry stores metadata atomically; it is written last so a visible entry always has its snapshot.
func (s *LocalStore) writeEntry(entry domain.CacheEntry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrMetadataWriteFailed.Error())
	}

	tmp, err := os.CreateTemp(s.dir, "metadata-*.tmp")
	if err != nil {
		return zerr.Wrap(err, domain.ErrMetadataWriteFailed.Error())
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, domain.ErrMetadataWriteFailed.Error())
	}
	if err := tmp.Chmod(domain.FilePerm); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, domain.ErrMetadataWriteFailed.Error())
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrMetadataWriteFailed.Error())
	}
	if err := os.Rename(tmp.Name(), s.metadataPath(entry.Key)); err != nil {
		return zerr.Wrap(err, domain.ErrMetadataWriteFailed.Error())
	}
	return nil
}

// findPrefix returns the newest entry whose key starts with prefix.
func (s *LocalStore) findPrefix(prefix string) (domain.CacheEntry, bool, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.CacheEntry{}, false, nil
	}
	if err != nil {
		return domain.CacheEntry{}, false, zerr.Wrap(err, domain.ErrCacheRestoreFailed.Error())
	}

	var candidates []domain.CacheEntry
	for _, de := range dirEntries {
		key, ok := strings.CutSuffix(de.Name(), domain.MetadataExt)
		if !ok || de.IsDir() || !strings.HasPrefix(key, prefix) {
			continue
		}
		entry, found, err := s.readEntry(key)
		if err != nil {
			return domain.CacheEntry{}, false, err
		}
		if found {
			candidates = append(candidates, entry)
		}
	}

	entry, ok := newest(candidates)
	return entry, ok, nil
}
