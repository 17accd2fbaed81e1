package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Archive stores archived reports in an S3 bucket under
// "<prefix><run-id>.json".
type S3Archive struct {
	client *s3.Client
	bucket string
	prefix string
}

// S3Config holds connection settings for S3Archive.
type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string // Optional custom endpoint (for MinIO, LocalStack, etc.)
	Prefix   string // Optional key prefix
}

// NewS3 creates an S3-backed archive using the default AWS credential chain.
func NewS3(ctx context.Context, cfg S3Config) (*S3Archive, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	clientOpts := func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // Required for MinIO/LocalStack
		}
	}

	return &S3Archive{
		client: s3.NewFromConfig(awsCfg, clientOpts),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

func (s *S3Archive) key(runID string) string {
	return s.prefix + runID + ".json"
}

// Put uploads the payload, replacing any earlier archive of the run.
func (s *S3Archive) Put(ctx context.Context, runID string, payload []byte) (string, error) {
	if err := validateRunID(runID); err != nil {
		return "", err
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(runID)),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put failed for %s: %w", runID, err)
	}

	return Digest(payload), nil
}

// Get downloads the archived payload for a run.
func (s *S3Archive) Get(ctx context.Context, runID string) ([]byte, error) {
	if err := validateRunID(runID); err != nil {
		return nil, err
	}

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(runID)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: %s", ErrNotArchived, runID)
		}
		return nil, fmt.Errorf("s3 get failed for %s: %w", runID, err)
	}
	defer func() { _ = result.Body.Close() }()

	return io.ReadAll(result.Body)
}

// Exists reports whether a run has an archived payload.
func (s *S3Archive) Exists(ctx context.Context, runID string) (bool, error) {
	if err := validateRunID(runID); err != nil {
		return false, err
	}

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(runID)),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("s3 head failed for %s: %w", runID, err)
	}

	return true, nil
}

// Delete removes a run's archived payload.
func (s *S3Archive) Delete(ctx context.Context, runID string) error {
	if err := validateRunID(runID); err != nil {
		return err
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(runID)),
	})
	if err != nil {
		return fmt.Errorf("s3 delete failed for %s: %w", runID, err)
	}

	return nil
}
