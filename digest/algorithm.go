// Package digest provides the fixed-width hash values the cracker searches for.
//
// Two algorithms are supported: MD5 (16 bytes) and SHA-256 (32 bytes). A Digest
// is a small value type with a total order chosen to match the device kernels:
// bytes are compared from the highest index down to index 0, so the CPU index
// and the GPU binary search agree on the layout of the target array.
package digest

import (
	"crypto/md5"
	"crypto/sha256"
	"fmt"
	"strings"
)

// Algorithm selects the hash function used for a run.
type Algorithm int

const (
	// MD5 produces 16-byte digests (32 hex characters).
	MD5 Algorithm = iota
	// SHA256 produces 32-byte digests (64 hex characters).
	SHA256
)

// Algorithms lists the accepted names, in flag-help order.
var Algorithms = []string{"sha256", "md5"}

// ParseAlgorithm maps a user-supplied name to an Algorithm.
// Matching is case-insensitive on the two known names.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(name) {
	case "md5":
		return MD5, nil
	case "sha256":
		return SHA256, nil
	}
	return 0, fmt.Errorf("unsupported algorithm %q (expected one of md5, sha256)", name)
}

// String returns the canonical lower-case name.
func (a Algorithm) String() string {
	if a == MD5 {
		return "md5"
	}
	return "sha256"
}

// Size returns the digest width in bytes: 16 for MD5, 32 for SHA-256.
func (a Algorithm) Size() int {
	if a == MD5 {
		return md5.Size
	}
	return sha256.Size
}

// HexLen returns the canonical hex-encoded length: 2·Size.
func (a Algorithm) HexLen() int {
	return 2 * a.Size()
}

// Sum hashes the concatenation saltedPrefix||candidate in one shot.
//
// Callers on the hot path should instead prepare a single buffer holding
// salt||prefix||digits and call SumBytes after rewriting the digit region;
// both produce identical results.
func (a Algorithm) Sum(saltedPrefix, candidate string) Digest {
	buf := make([]byte, 0, len(saltedPrefix)+len(candidate))
	buf = append(buf, saltedPrefix...)
	buf = append(buf, candidate...)
	return a.SumBytes(buf)
}

// SumBytes hashes an already-assembled input buffer.
func (a Algorithm) SumBytes(buf []byte) Digest {
	d := Digest{alg: a}
	if a == MD5 {
		sum := md5.Sum(buf)
		copy(d.data[:], sum[:])
	} else {
		d.data = sha256.Sum256(buf)
	}
	return d
}
