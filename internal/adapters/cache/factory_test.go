package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cirun/internal/adapters/cache"
	"go.trai.ch/cirun/internal/core/domain"
	"go.trai.ch/cirun/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestFactory_New(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		settings domain.CacheSettings
		want     any
		wantErr  string
	}{
		{
			name:     "default is local",
			settings: domain.CacheSettings{Dir: "/tmp/cirun"},
			want:     &cache.LocalStore{},
		},
		{
			name:     "local",
			settings: domain.CacheSettings{Backend: domain.BackendLocal, Dir: "/tmp/cirun"},
			want:     &cache.LocalStore{},
		},
		{
			name:     "none",
			settings: domain.CacheSettings{Backend: domain.BackendNone},
			want:     &cache.NoneStore{},
		},
		{
			name: "s3",
			settings: domain.CacheSettings{
				Backend: domain.BackendS3,
				S3: domain.S3Settings{
					Bucket:    "ci-cache",
					Region:    "eu-central-1",
					Endpoint:  "http://localhost:9000",
					PathStyle: true,
				},
			},
			want: &cache.S3Store{},
		},
		{
			name:     "s3 without bucket",
			settings: domain.CacheSettings{Backend: domain.BackendS3},
			wantErr:  "s3 cache backend requires a bucket",
		},
		{
			name:     "unknown",
			settings: domain.CacheSettings{Backend: "gcs"},
			wantErr:  "unknown cache backend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := cache.NewFactory(mocks.NewMockLogger(gomock.NewController(t)))
			f.SetGetenv(func(key string) string {
				switch key {
				case "CIRUN_S3_ACCESS_KEY_ID":
					return "minio"
				case "CIRUN_S3_SECRET_ACCESS_KEY":
					return "minio123"
				}
				return ""
			})

			store, err := f.New(context.Background(), tt.settings)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, store)
		})
	}
}
