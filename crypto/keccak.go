// Package crypto provides the single hash primitive the engine needs:
// Keccak-256, pooled the way triedb/pathdb hashes trie nodes.
package crypto

import (
	"hash"
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/bnb-chain/stateroot-engine/common"
)

// KeccakState is a reusable Keccak-256 hasher, pooled to avoid re-allocating
// the sponge state on every call.
type KeccakState struct {
	sha hash.Hash
}

var keccakPool = sync.Pool{
	New: func() any {
		return &KeccakState{sha: sha3.NewLegacyKeccak256()}
	},
}

// NewKeccakState returns a KeccakState from the pool. Callers must call
// Release when done.
func NewKeccakState() *KeccakState {
	return keccakPool.Get().(*KeccakState)
}

// Release returns the state to the pool after resetting it.
func (k *KeccakState) Release() {
	k.sha.Reset()
	keccakPool.Put(k)
}

// Hash computes the Keccak-256 digest of data.
func (k *KeccakState) Hash(data ...[]byte) common.Hash {
	k.sha.Reset()
	for _, d := range data {
		k.sha.Write(d)
	}
	var out common.Hash
	k.sha.Sum(out[:0])
	return out
}

// Keccak256Hash computes the Keccak-256 digest of the concatenation of data,
// acquiring and releasing a pooled hasher. Use NewKeccakState directly in
// hot loops to avoid the pool round-trip per call.
func Keccak256Hash(data ...[]byte) common.Hash {
	st := NewKeccakState()
	defer st.Release()
	return st.Hash(data...)
}
