package cache_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cirun/internal/adapters/cache"
	"go.trai.ch/cirun/internal/core/domain"
	"go.trai.ch/cirun/internal/core/ports"
	"go.trai.ch/cirun/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

var _ ports.CacheStore = (*cache.LocalStore)(nil)

func newLocalStore(t *testing.T) (*cache.LocalStore, string, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	dir := filepath.Join(t.TempDir(), "store")
	return cache.NewLocalStore(dir, log), dir, log
}

func TestLocalStore_SaveAndRestoreExact(t *testing.T) {
	t.Parallel()

	store, dir, _ := newLocalStore(t)
	ctx := context.Background()

	src := fillDir(t, "v1")
	require.NoError(t, store.Save(ctx, spec(src, "abc")))

	assert.FileExists(t, filepath.Join(dir, "npm-linux-x64-abc.tar.zst"))
	assert.FileExists(t, filepath.Join(dir, "npm-linux-x64-abc.json"))

	dest := filepath.Join(t.TempDir(), "restored")
	res, err := store.Restore(ctx, spec(dest, "abc"))
	require.NoError(t, err)

	assert.Equal(t, "npm-linux-x64-abc", res.MatchedKey)
	assert.True(t, res.Hit(spec(dest, "abc")))
	assert.Equal(t, "v1", readData(t, dest))
}

func TestLocalStore_Metadata(t *testing.T) {
	t.Parallel()

	store, dir, _ := newLocalStore(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.SetNow(func() time.Time { return created })

	require.NoError(t, store.Save(context.Background(), spec(fillDir(t, "v1"), "abc")))

	data, err := os.ReadFile(filepath.Join(dir, "npm-linux-x64-abc.json"))
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"key": "npm-linux-x64-abc"`)
	assert.Contains(t, s, `"kind": "npm"`)
	assert.Contains(t, s, `"created_at": "2024-05-01T12:00:00Z"`)
	assert.Contains(t, s, `"checksum": "`)
}

func TestLocalStore_RestorePrefixPicksNewest(t *testing.T) {
	t.Parallel()

	store, _, _ := newLocalStore(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.SetNow(func() time.Time { return base })
	require.NoError(t, store.Save(ctx, spec(fillDir(t, "old"), "aaa")))
	store.SetNow(func() time.Time { return base.Add(time.Hour) })
	require.NoError(t, store.Save(ctx, spec(fillDir(t, "new"), "bbb")))

	dest := filepath.Join(t.TempDir(), "restored")
	want := spec(dest, "ccc")
	res, err := store.Restore(ctx, want)
	require.NoError(t, err)

	assert.Equal(t, "npm-linux-x64-bbb", res.MatchedKey)
	assert.True(t, res.Restored())
	assert.False(t, res.Hit(want), "a prefix match is a miss")
	assert.Equal(t, "new", readData(t, dest))
}

func TestLocalStore_RestoreIgnoresOtherPlatforms(t *testing.T) {
	t.Parallel()

	store, _, _ := newLocalStore(t)
	ctx := context.Background()

	mac := domain.NewCacheSpec(domain.CacheNpm, fillDir(t, "mac"), domain.NewPlatform("darwin", "arm64"), "abc")
	require.NoError(t, store.Save(ctx, mac))

	res, err := store.Restore(ctx, spec(t.TempDir(), "abc"))
	require.NoError(t, err)
	assert.False(t, res.Restored())
}

func TestLocalStore_RestoreMissingDir(t *testing.T) {
	t.Parallel()

	store, _, _ := newLocalStore(t)

	res, err := store.Restore(context.Background(), spec(t.TempDir(), "abc"))
	require.NoError(t, err)
	assert.Equal(t, domain.RestoreResult{}, res)
}

func TestLocalStore_SaveSkipsExisting(t *testing.T) {
	t.Parallel()

	store, _, log := newLocalStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, spec(fillDir(t, "first"), "abc")))

	log.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		assert.Contains(t, msg, "npm-linux-x64-abc already exists")
	})
	require.NoError(t, store.Save(ctx, spec(fillDir(t, "second"), "abc")))

	dest := filepath.Join(t.TempDir(), "restored")
	_, err := store.Restore(ctx, spec(dest, "abc"))
	require.NoError(t, err)
	assert.Equal(t, "first", readData(t, dest))
}

func TestLocalStore_SaveMissingPath(t *testing.T) {
	t.Parallel()

	store, _, _ := newLocalStore(t)

	err := store.Save(context.Background(), spec(filepath.Join(t.TempDir(), "missing"), "abc"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache path does not exist")
}

func TestLocalStore_SaveLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	store, dir, _ := newLocalStore(t)
	require.NoError(t, store.Save(context.Background(), spec(fillDir(t, "v1"), "abc")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover %s", e.Name())
	}
	assert.Len(t, entries, 2)
}

func TestLocalStore_RestoreChecksumMismatch(t *testing.T) {
	t.Parallel()

	store, dir, _ := newLocalStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, spec(fillDir(t, "v1"), "abc")))

	snapshot := filepath.Join(dir, "npm-linux-x64-abc.tar.zst")
	f, err := os.OpenFile(snapshot, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("garbage")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = store.Restore(ctx, spec(t.TempDir(), "abc"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot checksum mismatch")
}

func TestLocalStore_CorruptMetadata(t *testing.T) {
	t.Parallel()

	store, dir, _ := newLocalStore(t)
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "npm-linux-x64-abc.json"), []byte("{"), 0o600))

	_, err := store.Restore(context.Background(), spec(t.TempDir(), "abc"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read snapshot metadata")
}

func TestLocalStore_Cancelled(t *testing.T) {
	t.Parallel()

	store, _, _ := newLocalStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Restore(ctx, spec(t.TempDir(), "abc"))
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, store.Save(ctx, spec(t.TempDir(), "abc")), context.Canceled)
}

func TestNoneStore(t *testing.T) {
	t.Parallel()

	var store ports.CacheStore = cache.NewNoneStore()
	ctx := context.Background()

	res, err := store.Restore(ctx, spec(t.TempDir(), "abc"))
	require.NoError(t, err)
	assert.False(t, res.Restored())
	require.NoError(t, store.Save(ctx, spec("/does/not/matter", "abc")))
}
