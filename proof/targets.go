// Package proof defines the Merkle evidence types exchanged between the
// MultiProofManager and the SparseTrieUpdater: target sets describing what
// to prove, and the encoded proof nodes that satisfy them.
package proof

import (
	"github.com/bnb-chain/stateroot-engine/common"
	mapset "github.com/deckarep/golang-set/v2"
)

// Targets is a MultiProofTargets: which accounts need proving, and which of
// their storage slots. An account present with an empty slot set still
// demands the account proof — callers must use Add to register an account
// with no slots rather than leaving it absent.
type Targets struct {
	accounts map[common.Hash]mapset.Set[common.Hash]
}

// NewTargets returns an empty target set.
func NewTargets() *Targets {
	return &Targets{accounts: make(map[common.Hash]mapset.Set[common.Hash])}
}

// Add records that addr's account must be proven, and optionally that one
// of its storage slots must be proven too.
func (t *Targets) Add(addr common.Hash, slots ...common.Hash) {
	set, ok := t.accounts[addr]
	if !ok {
		set = mapset.NewThreadUnsafeSet[common.Hash]()
		t.accounts[addr] = set
	}
	for _, s := range slots {
		set.Add(s)
	}
}

// Len reports how many accounts carry targets.
func (t *Targets) Len() int { return len(t.accounts) }

// IsEmpty reports whether no account has a target at all.
func (t *Targets) IsEmpty() bool { return len(t.accounts) == 0 }

// Accounts returns the set of addresses with at least one target.
func (t *Targets) Accounts() []common.Hash {
	out := make([]common.Hash, 0, len(t.accounts))
	for a := range t.accounts {
		out = append(out, a)
	}
	return out
}

// Slots returns addr's target slot set, or nil if addr is not a target at
// all; an account added with no slots yields an empty, non-nil set.
func (t *Targets) Slots(addr common.Hash) mapset.Set[common.Hash] {
	return t.accounts[addr]
}

// Has reports whether addr is a target at all (with or without slots).
func (t *Targets) Has(addr common.Hash) bool {
	_, ok := t.accounts[addr]
	return ok
}

// Minus returns the subset of t not already present in fetched: accounts
// absent from fetched entirely, plus any slots of a shared account not yet
// in fetched's slot set. An account already fully covered (present in
// fetched with a slot superset) is dropped. Mirrors hashed_state.targets_minus
// (fetched_proof_targets) from the coordinator's dedup step.
func (t *Targets) Minus(fetched *Targets) *Targets {
	out := NewTargets()
	for addr, slots := range t.accounts {
		already, ok := fetched.accounts[addr]
		if !ok {
			out.accounts[addr] = slots.Clone()
			continue
		}
		remaining := slots.Difference(already)
		if remaining.Cardinality() > 0 {
			out.accounts[addr] = remaining
		}
	}
	return out
}

// Merge folds other into t in place, union-ing slot sets for shared
// accounts. Used to grow fetched_proof_targets with each new request.
func (t *Targets) Merge(other *Targets) {
	for addr, slots := range other.accounts {
		existing, ok := t.accounts[addr]
		if !ok {
			existing = mapset.NewThreadUnsafeSet[common.Hash]()
			t.accounts[addr] = existing
		}
		for _, slot := range slots.ToSlice() {
			existing.Add(slot)
		}
	}
}
