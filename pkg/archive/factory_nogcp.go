//go:build !gcp

package archive

import (
	"context"
	"fmt"
)

func newGCSFromEnv(ctx context.Context) (Archiver, error) {
	return nil, fmt.Errorf("gcs archive backend is not enabled in this build (use -tags gcp)")
}
