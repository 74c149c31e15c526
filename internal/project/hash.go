package project

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// Digest is a SHA-256 content hash.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// IsZero reports whether d was never computed.
func (d Digest) IsZero() bool { return d == Digest{} }

// HashBytes hashes data.
func HashBytes(data []byte) Digest { return sha256.Sum256(data) }

// HashFile hashes the contents of path.
func HashFile(path string) (Digest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Digest{}, fmt.Errorf("hash %s: %w", path, err)
	}
	return HashBytes(data), nil
}
