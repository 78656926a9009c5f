// Package stateroot implements the concurrent state-root computation
// engine: the message-driven pipeline that overlaps proof fetching with
// sparse-trie updates so the root is nearly computed by the time block
// execution finishes.
package stateroot

import (
	"github.com/bnb-chain/stateroot-engine/common"
	"github.com/bnb-chain/stateroot-engine/proof"
	"github.com/bnb-chain/stateroot-engine/state"
)

// Update is a SparseTrieUpdate: the (HashedState, MultiProof) pair the
// SparseTrieUpdater consumes from the sequencer (spec §3).
type Update struct {
	State *state.HashedState
	Proof *proof.MultiProof
}

// NewUpdate returns an empty update.
func NewUpdate() *Update {
	return &Update{State: state.NewHashedState(), Proof: proof.NewMultiProof()}
}

// IsEmpty reports whether the update carries neither state nor proof data.
func (u *Update) IsEmpty() bool {
	return u.State.IsEmpty() && u.Proof.IsEmpty()
}

// Extend merges other into u: state deltas merge via HashedState.Extend,
// proof nodes merge via MultiProof.Extend (last-writer-wins).
func (u *Update) Extend(other *Update) {
	u.State.Extend(other.State)
	u.Proof.Extend(other.Proof)
}

// TrieUpdates is the set of dirty trie nodes the SparseTrieUpdater produced
// for this block, handed back to the caller to persist — persistence
// itself is out of scope (spec §1 Non-goals); the engine only reports what
// changed.
type TrieUpdates struct {
	AccountNodes map[string][]byte
	StorageNodes map[common.Hash]map[string][]byte
}

// NewTrieUpdates returns an empty update set.
func NewTrieUpdates() *TrieUpdates {
	return &TrieUpdates{
		AccountNodes: make(map[string][]byte),
		StorageNodes: make(map[common.Hash]map[string][]byte),
	}
}
