package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// Key derives a deterministic cache key from its parts. Parts are serialized
// to canonical JSON before hashing, so map ordering and whitespace never
// affect the key.
func Key(parts ...any) (string, error) {
	payload, err := json.Marshal(parts)
	if err != nil {
		return "", fmt.Errorf("marshal key parts: %w", err)
	}
	canonical, err := jcs.Transform(payload)
	if err != nil {
		return "", fmt.Errorf("canonicalize key parts: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return "stateline:" + hex.EncodeToString(sum[:]), nil
}
