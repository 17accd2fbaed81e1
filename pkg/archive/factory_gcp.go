//go:build gcp

package archive

import (
	"context"
	"fmt"
	"os"
)

func newGCSFromEnv(ctx context.Context) (Archiver, error) {
	bucket := os.Getenv(EnvGCSBucket)
	if bucket == "" {
		return nil, fmt.Errorf("%s is required for the gcs archive backend", EnvGCSBucket)
	}

	cfg := GCSConfig{
		Bucket: bucket,
		Prefix: os.Getenv(EnvGCSPrefix),
	}

	return NewGCS(ctx, cfg)
}
