// Package common holds the minimal set of value types shared by every layer
// of the engine: fixed-size hashes and addresses, and a human-readable byte
// count used in logging.
package common

import (
	"encoding/hex"
	"fmt"
)

const (
	// HashLength is the expected length of a hash, in bytes.
	HashLength = 32
	// AddressLength is the expected length of an account address, in bytes.
	AddressLength = 20
)

// Hash represents a 32-byte Keccak256 hash: an account address hash, a
// storage slot hash, or a trie node hash.
type Hash [HashLength]byte

// BytesToHash sets b to hash, left-padding if it's shorter and truncating
// from the left if it's longer.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// Bytes returns a copy of the underlying hash bytes.
func (h Hash) Bytes() []byte { return h[:] }

// Hex returns the hex-encoded string of the hash, without a leading "0x".
func (h Hash) Hex() string { return hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

// IsZero reports whether h is the zero hash.
func (h Hash) IsZero() bool { return h == Hash{} }

// Cmp orders two hashes lexicographically by their byte representation.
func (h Hash) Cmp(other Hash) int {
	for i := range h {
		if h[i] != other[i] {
			if h[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// HexToHash decodes a hex string (without "0x") into a Hash, same as
// BytesToHash(mustDecode(s)). Malformed input decodes to the zero hash,
// matching go-ethereum's permissive common.HexToHash for use with
// compile-time constant strings.
func HexToHash(s string) Hash {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}
	}
	return BytesToHash(b)
}

// Address represents a 20-byte account address.
type Address [AddressLength]byte

// BytesToAddress sets b to an address, left-padding if it's shorter.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

func (a Address) Bytes() []byte { return a[:] }
func (a Address) Hex() string   { return hex.EncodeToString(a[:]) }
func (a Address) String() string { return a.Hex() }

// StorageSize is a byte count that prints with human-friendly units
// ("12.00MiB"), used only in logging.
type StorageSize float64

func (s StorageSize) String() string {
	switch {
	case s >= 1<<30:
		return fmt.Sprintf("%.2fGiB", s/(1<<30))
	case s >= 1<<20:
		return fmt.Sprintf("%.2fMiB", s/(1<<20))
	case s >= 1<<10:
		return fmt.Sprintf("%.2fKiB", s/(1<<10))
	default:
		return fmt.Sprintf("%.2fB", float64(s))
	}
}
