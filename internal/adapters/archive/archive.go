// Package archive packs directories into zstd-compressed tarballs and extracts them again.
package archive

import (
	"archive/tar"
	"encoding/hex"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"go.trai.ch/cirun/internal/core/domain"
	"go.trai.ch/zerr"
	"lukechampine.com/blake3"
)

// checksumSize is the BLAKE3 digest length in bytes.
const checksumSize = 32

// Pack writes srcDir to w as a tar stream compressed with zstd.
// It returns the BLAKE3 checksum and size of the compressed bytes written.
func Pack(srcDir string, w io.Writer) (checksum string, size int64, err error) {
	digest := blake3.New(checksumSize, nil)
	counter := &countingWriter{}

	zw, err := zstd.NewWriter(io.MultiWriter(w, digest, counter))
	if err != nil {
		return "", 0, zerr.Wrap(err, domain.ErrArchiveFailed.Error())
	}
	tw := tar.NewWriter(zw)

	if err := filepath.WalkDir(srcDir, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		return addEntry(tw, srcDir, path, d)
	}); err != nil {
		_ = tw.Close()
		_ = zw.Close()
		return "", 0, zerr.With(zerr.Wrap(err, domain.ErrArchiveFailed.Error()), "path", srcDir)
	}

	if err := tw.Close(); err != nil {
		_ = zw.Close()
		return "", 0, zerr.Wrap(err, domain.ErrArchiveFailed.Error())
	}
	if err := zw.Close(); err != nil {
		return "", 0, zerr.Wrap(err, domain.ErrArchiveFailed.Error())
	}

	return hex.EncodeToString(digest.Sum(nil)), counter.n, nil
}

func addEntry(tw *tar.Writer, root, path string, d iofs.DirEntry) error {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return err
	}
	if rel == "." {
		return nil
	}

	info, err := d.Info()
	if err != nil {
		return err
	}

	var link string
	if info.Mode()&os.ModeSymlink != 0 {
		if link, err = os.Readlink(path); err != nil {
			return err
		}
	}

	hdr, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}
	hdr.Name = filepath.ToSlash(rel)
	if info.IsDir() {
		hdr.Name += "/"
	}
	hdr.Uid, hdr.Gid = 0, 0
	hdr.Uname, hdr.Gname = "", ""

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}

	if !info.Mode().IsRegular() {
		return nil
	}

	f, err := os.Open(path) //nolint:gosec // walking the cache directory
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck // read-only
	_, err = io.Copy(tw, f)
	return err
}

// Unpack extracts a stream produced by Pack into destDir.
// Entries and symlink targets resolving outside destDir are rejected.
func Unpack(r io.Reader, destDir string) error {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return zerr.Wrap(err, domain.ErrExtractFailed.Error())
	}
	defer zr.Close()

	root, err := filepath.Abs(destDir)
	if err != nil {
		return zerr.Wrap(err, domain.ErrExtractFailed.Error())
	}
	if err := os.MkdirAll(root, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "path", root)
	}

	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return zerr.Wrap(err, domain.ErrExtractFailed.Error())
		}

		if err := extractEntry(tr, hdr, root); err != nil {
			return err
		}
	}
}

func extractEntry(tr *tar.Reader, hdr *tar.Header, root string) error {
	target, err := securePath(root, hdr.Name)
	if err != nil {
		return err
	}

	fail := func(err error) error {
		return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "path", hdr.Name)
	}

	switch hdr.Typeflag {
	case tar.TypeDir:
		if err := os.MkdirAll(target, hdr.FileInfo().Mode().Perm()|0o700); err != nil {
			return fail(err)
		}

	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
			return fail(err)
		}
		_ = os.Remove(target)
		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, hdr.FileInfo().Mode().Perm()) //nolint:gosec // target checked by securePath
		if err != nil {
			return fail(err)
		}
		if _, err := io.Copy(out, tr); err != nil { //nolint:gosec // snapshots are produced by Pack
			_ = out.Close()
			return fail(err)
		}
		if err := out.Close(); err != nil {
			return fail(err)
		}

	case tar.TypeSymlink:
		linkTarget := hdr.Linkname
		if !filepath.IsAbs(linkTarget) {
			linkTarget = filepath.Join(filepath.Dir(target), linkTarget)
		}
		if !within(root, filepath.Clean(linkTarget)) {
			return zerr.With(domain.ErrIllegalPath, "path", hdr.Name+" -> "+hdr.Linkname)
		}
		if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
			return fail(err)
		}
		_ = os.Remove(target)
		if err := os.Symlink(hdr.Linkname, target); err != nil {
			return fail(err)
		}
	}

	return nil
}

// securePath joins name onto root and rejects results outside of root.
func securePath(root, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))
	if !within(root, target) {
		return "", zerr.With(domain.ErrIllegalPath, "path", name)
	}
	return target, nil
}

func within(root, path string) bool {
	return path == root || strings.HasPrefix(path, root+string(os.PathSeparator))
}

// Checksum returns the BLAKE3 checksum and size of everything read from r.
func Checksum(r io.Reader) (string, int64, error) {
	digest := blake3.New(checksumSize, nil)
	n, err := io.Copy(digest, r)
	if err != nil {
		return "", n, err
	}
	return hex.EncodeToString(digest.Sum(nil)), n, nil
}

type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}
