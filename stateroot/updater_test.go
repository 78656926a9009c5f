package stateroot

import (
	"testing"

	"github.com/bnb-chain/stateroot-engine/common"
	"github.com/bnb-chain/stateroot-engine/proof"
	"github.com/bnb-chain/stateroot-engine/state"
	strietrie "github.com/bnb-chain/stateroot-engine/trie"
)

// TestApplyBatchSelfDestructWritesDefaultedLeaf covers the spec §4.3 step 3
// regression: a self-destructed account (nil in HashedState.Accounts) must
// get a defaulted account leaf written, never an outright deletion - the
// account-trie root after self-destruct must equal writing
// state.NewAccount().Encode() at that address, not the empty-trie root.
func TestApplyBatchSelfDestructWritesDefaultedLeaf(t *testing.T) {
	trie := strietrie.NewStateTrie(common.Hash{}, strietrie.NoopProviderFactory{})
	u := NewSparseTrieUpdater(trie)

	addr := addrHash(1)
	batch := &Update{
		State: &state.HashedState{
			Accounts: map[common.Hash]*state.Account{addr: nil},
			Storages: map[common.Hash]*state.HashedStorage{},
		},
		Proof: proof.NewMultiProof(),
	}
	if err := u.ApplyBatch(batch); err != nil {
		t.Fatalf("ApplyBatch: %v", err)
	}

	got := trie.Root()
	if got == (common.Hash{}) {
		t.Fatal("self-destruct must not collapse the account trie back to empty: a defaulted leaf must remain")
	}

	want := strietrie.NewStateTrie(common.Hash{}, strietrie.NoopProviderFactory{})
	if err := want.UpdateAccount(addr, state.NewAccount().Encode()); err != nil {
		t.Fatalf("building expected trie: %v", err)
	}
	if got != want.Root() {
		t.Fatalf("root after self-destruct = %x, want %x (defaulted account leaf)", got, want.Root())
	}
}
