package cache

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.trai.ch/cirun/internal/core/domain"
	"go.trai.ch/cirun/internal/core/ports"
	"go.trai.ch/zerr"
)

// Object metadata keys. S3 lower-cases user metadata keys.
const (
	metaChecksum = "checksum"
	metaKind     = "kind"
)

const snapshotContentType = "application/zstd"

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	s3.HeadObjectAPIClient
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store keeps snapshots as "<prefix>/<key>.tar.zst" objects with the checksum in object metadata.
type S3Store struct {
	client S3API
	bucket string
	prefix string
	logger ports.Logger
}

// NewS3Store creates a store for bucket. Objects are placed under prefix.
func NewS3Store(client S3API, bucket, prefix string, logger ports.Logger) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger,
	}
}

// Restore implements ports.CacheStore.
func (s *S3Store) Restore(ctx context.Context, spec domain.CacheSpec) (domain.RestoreResult, error) {
	key := spec.PrimaryKey

	exists, err := s.exists(ctx, key)
	if err != nil {
		return domain.RestoreResult{}, err
	}
	if !exists {
		var ok bool
		key, ok, err = s.findPrefix(ctx, spec.RestorePrefix)
		if err != nil || !ok {
			return domain.RestoreResult{}, err
		}
	}

	if err := s.download(ctx, key, spec.Path); err != nil {
		return domain.RestoreResult{}, zerr.With(err, "key", key)
	}
	return domain.RestoreResult{MatchedKey: key}, nil
}

// Save implements ports.CacheStore. An existing object for the primary key is kept.
func (s *S3Store) Save(ctx context.Context, spec domain.CacheSpec) error {
	exists, err := s.exists(ctx, spec.PrimaryKey)
	if err != nil {
		return err
	}
	if exists {
		s.logger.Warn("cache entry " + spec.PrimaryKey + " already exists, skipping save")
		return nil
	}

	tmp, entry, err := packTemp(spec.Path, "")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // temporary
	defer tmp.Close()           //nolint:errcheck // read-only after packing

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.objectKey(spec.PrimaryKey)),
		Body:          tmp,
		ContentLength: aws.Int64(entry.Size),
		ContentType:   aws.String(snapshotContentType),
		Metadata: map[string]string{
			metaChecksum: entry.Checksum,
			metaKind:     string(spec.Kind),
		},
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheSaveFailed.Error()), "key", spec.PrimaryKey)
	}
	return nil
}

func (s *S3Store) objectKey(key string) string {
	return path.Join(s.prefix, key+domain.SnapshotExt)
}

func (s *S3Store) exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, zerr.With(zerr.Wrap(err, domain.ErrCacheRestoreFailed.Error()), "key", key)
}

// findPrefix returns the key of the most recently modified snapshot under prefix.
func (s *S3Store) findPrefix(ctx context.Context, prefix string) (string, bool, error) {
	listPrefix := s.objectKey(prefix)
	listPrefix = strings.TrimSuffix(listPrefix, domain.SnapshotExt)

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(listPrefix),
	})

	var (
		best     string
		bestTime time.Time
	)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return "", false, zerr.With(zerr.Wrap(err, domain.ErrCacheRestoreFailed.Error()), "prefix", prefix)
		}
		for _, obj := range page.Contents {
			name := path.Base(aws.ToString(obj.Key))
			key, ok := strings.CutSuffix(name, domain.SnapshotExt)
			if !ok {
				continue
			}
			modified := aws.ToTime(obj.LastModified)
			if best == "" || modified.After(bestTime) || (modified.Equal(bestTime) && key > best) {
				best, bestTime = key, modified
			}
		}
	}

	return best, best != "", nil
}

// download fetches the snapshot into a temporary file, then verifies and extracts it.
func (s *S3Store) download(ctx context.Context, key, dest string) error {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheRestoreFailed.Error())
	}
	defer out.Body.Close() //nolint:errcheck // drained below

	tmp, err := os.CreateTemp("", "snapshot-*.tmp")
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheRestoreFailed.Error())
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // temporary
	defer tmp.Close()           //nolint:errcheck // read-only after download

	if _, err := io.Copy(tmp, out.Body); err != nil {
		return zerr.Wrap(err, domain.ErrCacheRestoreFailed.Error())
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return zerr.Wrap(err, domain.ErrCacheRestoreFailed.Error())
	}

	return restoreFile(tmp, out.Metadata[metaChecksum], dest)
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
