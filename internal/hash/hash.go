// Package hash computes content digests used as duplicate-equality keys.
package hash

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

// chunkSize bounds memory use while digesting; files are streamed, never
// loaded whole.
const chunkSize = 8 * 1024

// Digest computes the SHA-256 content hash of the file at path.
// Two files with equal digests are treated as byte-identical duplicates.
func Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for hashing: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
