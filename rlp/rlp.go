// Package rlp implements the minimal slice of Ethereum's Recursive Length
// Prefix encoding the engine needs: encoding/decoding byte strings and lists
// of byte strings, used to serialize sparse-trie nodes before hashing and to
// parse the branch/extension/leaf nodes carried in a MultiProof. It is not a
// general-purpose RLP codec (no decoding into Go structs) — the domain only
// ever needs "string" and "list of strings" shapes for trie nodes, and
// fixed-size integer encoding for storage values.
package rlp

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

var (
	// ErrTruncated indicates the input ended before a declared length was
	// satisfied.
	ErrTruncated = errors.New("rlp: truncated input")
	// ErrExpectedList indicates a list was expected, but a string was found.
	ErrExpectedList = errors.New("rlp: expected list")
)

// EncodeBytes RLP-encodes a single byte string.
func EncodeBytes(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return []byte{b[0]}
	}
	return append(encodeLength(len(b), 0x80), b...)
}

// EncodeList RLP-encodes a list whose members are already RLP-encoded.
func EncodeList(items ...[]byte) []byte {
	var payload []byte
	for _, it := range items {
		payload = append(payload, it...)
	}
	return append(encodeLength(len(payload), 0xc0), payload...)
}

func encodeLength(n int, offset byte) []byte {
	if n < 56 {
		return []byte{offset + byte(n)}
	}
	lenBytes := intToMinimalBigEndian(n)
	return append([]byte{offset + 55 + byte(len(lenBytes))}, lenBytes...)
}

func intToMinimalBigEndian(n int) []byte {
	if n == 0 {
		return []byte{0}
	}
	var buf [8]byte
	i := 8
	for n > 0 {
		i--
		buf[i] = byte(n)
		n >>= 8
	}
	return buf[i:]
}

// EncodeFixedSize encodes a uint256 the way alloy_rlp::encode_fixed_size
// does in the reth original: trim leading zero bytes, then RLP-encode the
// remaining big-endian bytes as a string ("" for zero).
func EncodeFixedSize(v *uint256.Int) []byte {
	if v == nil || v.IsZero() {
		return EncodeBytes(nil)
	}
	b := v.Bytes() // big-endian, no leading zeros
	return EncodeBytes(b)
}

// Item is a decoded RLP value: either a byte string (List == nil) or a list
// of further Items (List != nil, Bytes == nil).
type Item struct {
	Bytes []byte
	List  []Item
}

// IsList reports whether the item is a list.
func (it Item) IsList() bool { return it.List != nil }

// Decode parses a single top-level RLP item from data, returning it and the
// number of bytes consumed.
func Decode(data []byte) (Item, int, error) {
	if len(data) == 0 {
		return Item{}, 0, ErrTruncated
	}
	b0 := data[0]
	switch {
	case b0 < 0x80:
		return Item{Bytes: data[0:1]}, 1, nil
	case b0 < 0xb8:
		n := int(b0 - 0x80)
		if len(data) < 1+n {
			return Item{}, 0, ErrTruncated
		}
		return Item{Bytes: data[1 : 1+n]}, 1 + n, nil
	case b0 < 0xc0:
		lenOfLen := int(b0 - 0xb7)
		n, consumed, err := readLength(data[1:], lenOfLen)
		if err != nil {
			return Item{}, 0, err
		}
		start := 1 + consumed
		if len(data) < start+n {
			return Item{}, 0, ErrTruncated
		}
		return Item{Bytes: data[start : start+n]}, start + n, nil
	case b0 < 0xf8:
		n := int(b0 - 0xc0)
		if len(data) < 1+n {
			return Item{}, 0, ErrTruncated
		}
		items, err := decodeListPayload(data[1 : 1+n])
		if err != nil {
			return Item{}, 0, err
		}
		return Item{List: items}, 1 + n, nil
	default:
		lenOfLen := int(b0 - 0xf7)
		n, consumed, err := readLength(data[1:], lenOfLen)
		if err != nil {
			return Item{}, 0, err
		}
		start := 1 + consumed
		if len(data) < start+n {
			return Item{}, 0, ErrTruncated
		}
		items, err := decodeListPayload(data[start : start+n])
		if err != nil {
			return Item{}, 0, err
		}
		return Item{List: items}, start + n, nil
	}
}

func readLength(data []byte, lenOfLen int) (n int, consumed int, err error) {
	if len(data) < lenOfLen {
		return 0, 0, ErrTruncated
	}
	for i := 0; i < lenOfLen; i++ {
		n = n<<8 | int(data[i])
	}
	return n, lenOfLen, nil
}

func decodeListPayload(payload []byte) ([]Item, error) {
	var items []Item
	for len(payload) > 0 {
		item, n, err := Decode(payload)
		if err != nil {
			return nil, fmt.Errorf("rlp: decoding list member: %w", err)
		}
		items = append(items, item)
		payload = payload[n:]
	}
	return items, nil
}

// DecodeList decodes data as a single top-level list and returns its
// members, erroring if data is a string instead.
func DecodeList(data []byte) ([]Item, error) {
	item, _, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if !item.IsList() {
		return nil, ErrExpectedList
	}
	return item.List, nil
}
