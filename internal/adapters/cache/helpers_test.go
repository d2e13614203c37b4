package cache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/cirun/internal/core/domain"
)

var linux = domain.NewPlatform("linux", "amd64")

// fillDir creates a directory with a single file holding content.
func fillDir(t *testing.T, content string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "npm")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "_cacache"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_cacache", "data"), []byte(content), 0o600))
	return dir
}

func readData(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "_cacache", "data"))
	require.NoError(t, err)
	return string(data)
}

func spec(path, lockHash string) domain.CacheSpec {
	return domain.NewCacheSpec(domain.CacheNpm, path, linux, lockHash)
}
