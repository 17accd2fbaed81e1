// Package archive persists rendered report exports for long-term
// retention, keyed by run ID. Backends cover the local filesystem, S3
// and GCS so archives can live wherever retention policy points.
package archive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotArchived is returned when no payload exists for a run ID.
var ErrNotArchived = errors.New("archived report not found")

// Archiver stores rendered report payloads keyed by run ID. Put returns
// the sha256 digest of the stored payload so callers can record it
// alongside the run. Re-archiving a run replaces the earlier payload.
type Archiver interface {
	Put(ctx context.Context, runID string, payload []byte) (string, error)
	Get(ctx context.Context, runID string) ([]byte, error)
	Exists(ctx context.Context, runID string) (bool, error)
	Delete(ctx context.Context, runID string) error
}

// Digest computes the content digest recorded for archived payloads.
func Digest(payload []byte) string {
	sum := sha256.Sum256(payload)
	return "sha256:" + hex.EncodeToString(sum[:])
}

// validateRunID rejects IDs that could escape the archive namespace.
func validateRunID(runID string) error {
	if runID == "" {
		return errors.New("empty run id")
	}
	if runID[0] == '.' {
		return fmt.Errorf("invalid run id %q", runID)
	}
	for _, r := range runID {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return fmt.Errorf("invalid run id %q", runID)
		}
	}
	return nil
}

// FileArchive keeps archived reports as JSON files under a base
// directory, one file per run.
type FileArchive struct {
	baseDir string
	mu      sync.RWMutex
}

// NewFileArchive creates the base directory if it does not exist.
func NewFileArchive(baseDir string) (*FileArchive, error) {
	//nolint:gosec // G301: 0755 keeps archives readable by operator tooling
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to ensure archive dir: %w", err)
	}
	return &FileArchive{baseDir: baseDir}, nil
}

func (f *FileArchive) path(runID string) string {
	return filepath.Join(f.baseDir, runID+".json")
}

// Put writes the payload to a temp file and renames it into place.
func (f *FileArchive) Put(ctx context.Context, runID string, payload []byte) (string, error) {
	if err := validateRunID(runID); err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	path := f.path(runID)
	tmpPath := path + ".tmp"
	//nolint:gosec // G306: 0644 is intentional for readable archive files
	if err := os.WriteFile(tmpPath, payload, 0644); err != nil {
		return "", fmt.Errorf("failed to write archive entry: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("failed to commit archive entry: %w", err)
	}

	return Digest(payload), nil
}

// Get returns the archived payload for a run.
func (f *FileArchive) Get(ctx context.Context, runID string) ([]byte, error) {
	if err := validateRunID(runID); err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.path(runID)) //nolint:gosec // run ID validated above
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotArchived, runID)
		}
		//nolint:wrapcheck // caller provides context
		return nil, err
	}
	return data, nil
}

// Exists reports whether a run has an archived payload.
func (f *FileArchive) Exists(ctx context.Context, runID string) (bool, error) {
	if err := validateRunID(runID); err != nil {
		return false, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	_, err := os.Stat(f.path(runID))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	//nolint:wrapcheck // caller provides context
	return false, err
}

// Delete removes a run's archived payload. Deleting a run that was
// never archived is not an error.
func (f *FileArchive) Delete(ctx context.Context, runID string) error {
	if err := validateRunID(runID); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(runID)); err != nil && !os.IsNotExist(err) {
		//nolint:wrapcheck // caller provides context
		return err
	}
	return nil
}
