//go:build gcp

package archive

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// GCSArchive stores archived reports in a GCS bucket under
// "<prefix><run-id>.json".
type GCSArchive struct {
	client *storage.Client
	bucket string
	prefix string
}

// GCSConfig holds connection settings for GCSArchive.
type GCSConfig struct {
	Bucket string
	Prefix string // Optional key prefix
}

// NewGCS creates a GCS-backed archive. Credentials come from ADC.
func NewGCS(ctx context.Context, cfg GCSConfig) (*GCSArchive, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSArchive{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

func (g *GCSArchive) object(runID string) *storage.ObjectHandle {
	return g.client.Bucket(g.bucket).Object(g.prefix + runID + ".json")
}

// Put uploads the payload, replacing any earlier archive of the run.
func (g *GCSArchive) Put(ctx context.Context, runID string, payload []byte) (string, error) {
	if err := validateRunID(runID); err != nil {
		return "", err
	}

	w := g.object(runID).NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := w.Write(payload); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs write failed for %s: %w", runID, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs close failed for %s: %w", runID, err)
	}

	return Digest(payload), nil
}

// Get downloads the archived payload for a run.
func (g *GCSArchive) Get(ctx context.Context, runID string) ([]byte, error) {
	if err := validateRunID(runID); err != nil {
		return nil, err
	}

	reader, err := g.object(runID).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotArchived, runID)
		}
		return nil, fmt.Errorf("gcs get failed for %s: %w", runID, err)
	}
	defer func() { _ = reader.Close() }()

	return io.ReadAll(reader)
}

// Exists reports whether a run has an archived payload.
func (g *GCSArchive) Exists(ctx context.Context, runID string) (bool, error) {
	if err := validateRunID(runID); err != nil {
		return false, err
	}

	_, err := g.object(runID).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("gcs attrs error: %w", err)
	}

	return true, nil
}

// Delete removes a run's archived payload.
func (g *GCSArchive) Delete(ctx context.Context, runID string) error {
	if err := validateRunID(runID); err != nil {
		return err
	}

	err := g.object(runID).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("gcs delete failed for %s: %w", runID, err)
	}

	return nil
}

// Close closes the underlying GCS client.
func (g *GCSArchive) Close() error {
	return g.client.Close()
}
