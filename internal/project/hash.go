package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// HashContent returns the SHA-256 of b.
func HashContent(b []byte) Digest {
	return Digest(sha256.Sum256(b))
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports an unset digest.
func (d Digest) IsZero() bool {
	return d == Digest{}
}
