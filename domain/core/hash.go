package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// SeriesHash identifies an observation sequence by content.
type SeriesHash Hash

// NewSeriesHash creates a series hash from raw bytes
func NewSeriesHash(data []byte) SeriesHash { return SeriesHash(NewHash(data)) }

// String returns the string representation
func (h SeriesHash) String() string { return Hash(h).String() }

// ComputeSeriesHash hashes the exact bit pattern of every observation,
// so two series hash equal only when they are bitwise identical.
func ComputeSeriesHash(series []float64) SeriesHash {
	buf := make([]byte, 8*len(series))
	for i, v := range series {
		binary.BigEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return NewSeriesHash(buf)
}
