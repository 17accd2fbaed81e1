package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables consumed by NewFromEnv.
const (
	EnvBackend    = "STATELINE_ARCHIVE"
	EnvDir        = "STATELINE_ARCHIVE_DIR"
	EnvS3Bucket   = "STATELINE_ARCHIVE_S3_BUCKET"
	EnvS3Region   = "STATELINE_ARCHIVE_S3_REGION"
	EnvS3Endpoint = "STATELINE_ARCHIVE_S3_ENDPOINT"
	EnvS3Prefix   = "STATELINE_ARCHIVE_S3_PREFIX"
	EnvGCSBucket  = "STATELINE_ARCHIVE_GCS_BUCKET"
	EnvGCSPrefix  = "STATELINE_ARCHIVE_GCS_PREFIX"
)

// NewFromEnv builds an archiver from environment configuration. An
// unset or "off" backend returns (nil, nil); callers treat a nil
// archiver as archiving disabled.
//
// For "fs", STATELINE_ARCHIVE_DIR overrides the default "data/archive"
// directory. For "s3", STATELINE_ARCHIVE_S3_BUCKET is required and the
// region falls back to AWS_REGION and then us-east-1. For "gcs",
// STATELINE_ARCHIVE_GCS_BUCKET is required and the binary must be
// built with -tags gcp.
func NewFromEnv(ctx context.Context) (Archiver, error) {
	switch backend := os.Getenv(EnvBackend); backend {
	case "", "off":
		return nil, nil
	case "fs":
		return newFileFromEnv()
	case "s3":
		return newS3FromEnv(ctx)
	case "gcs":
		return newGCSFromEnv(ctx)
	default:
		return nil, fmt.Errorf("unknown archive backend %q: supported backends are fs, s3, gcs, off", backend)
	}
}

func newFileFromEnv() (Archiver, error) {
	dir := os.Getenv(EnvDir)
	if dir == "" {
		dir = filepath.Join("data", "archive")
	}
	return NewFileArchive(dir)
}

func newS3FromEnv(ctx context.Context) (Archiver, error) {
	bucket := os.Getenv(EnvS3Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("%s is required for the s3 archive backend", EnvS3Bucket)
	}

	region := os.Getenv(EnvS3Region)
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}

	cfg := S3Config{
		Bucket:   bucket,
		Region:   region,
		Endpoint: os.Getenv(EnvS3Endpoint),
		Prefix:   os.Getenv(EnvS3Prefix),
	}

	return NewS3(ctx, cfg)
}
