package cache

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.trai.ch/cirun/internal/core/domain"
	"go.trai.ch/cirun/internal/core/ports"
	"go.trai.ch/zerr"
)

// Credentials for S3-compatible servers that are not configured through the AWS chain.
const (
	envAccessKeyID     = "CIRUN_S3_ACCESS_KEY_ID"
	envSecretAccessKey = "CIRUN_S3_SECRET_ACCESS_KEY"
)

var _ ports.CacheStoreFactory = (*Factory)(nil)

// Factory builds the store selected in the cache settings.
type Factory struct {
	logger ports.Logger
	getenv func(string) string
}

// NewFactory creates a new Factory.
func NewFactory(logger ports.Logger) *Factory {
	return &Factory{logger: logger, getenv: os.Getenv}
}

// New implements ports.CacheStoreFactory.
func (f *Factory) New(ctx context.Context, settings domain.CacheSettings) (ports.CacheStore, error) {
	switch settings.Backend {
	case domain.BackendLocal, "":
		return NewLocalStore(settings.Dir, f.logger), nil
	case domain.BackendNone:
		return NewNoneStore(), nil
	case domain.BackendS3:
		if settings.S3.Bucket == "" {
			return nil, domain.ErrMissingBucket
		}
		client, err := f.newS3Client(ctx, settings.S3)
		if err != nil {
			return nil, err
		}
		return NewS3Store(client, settings.S3.Bucket, settings.S3.Prefix, f.logger), nil
	default:
		return nil, zerr.With(domain.ErrUnknownBackend, "backend", settings.Backend)
	}
}

// newS3Client loads the default AWS configuration, overridden by the settings
// and by static credentials when both CIRUN_S3_* variables are set.
func (f *Factory) newS3Client(ctx context.Context, settings domain.S3Settings) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if settings.Region != "" {
		opts = append(opts, config.WithRegion(settings.Region))
	}

	accessKey, secretKey := f.getenv(envAccessKeyID), f.getenv(envSecretAccessKey)
	if accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load AWS configuration")
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if settings.Endpoint != "" {
			o.BaseEndpoint = aws.String(settings.Endpoint)
		}
		o.UsePathStyle = settings.PathStyle
	}), nil
}
