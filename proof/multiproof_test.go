package proof

import (
	"testing"

	"github.com/bnb-chain/stateroot-engine/common"
)

func TestMultiProofExtendLastWriterWins(t *testing.T) {
	base := NewMultiProof()
	base.AddAccountNode([]byte{1}, []byte("old"))
	base.AddStorageNode(h(1), []byte{2}, []byte("old-storage"))

	other := NewMultiProof()
	other.AddAccountNode([]byte{1}, []byte("new"))
	other.AddStorageNode(h(1), []byte{2}, []byte("new-storage"))
	other.AddAccountNode([]byte{9}, []byte("added"))

	base.Extend(other)

	if string(base.AccountSubtree[pathKey([]byte{1})]) != "new" {
		t.Fatal("Extend must let the other proof's node win on a shared path")
	}
	if string(base.AccountSubtree[pathKey([]byte{9})]) != "added" {
		t.Fatal("Extend must add nodes only present in the other proof")
	}
	if string(base.Storages[h(1)].Nodes[pathKey([]byte{2})]) != "new-storage" {
		t.Fatal("Extend must merge storage proofs, other winning on conflict")
	}
}

func TestMultiProofIsEmpty(t *testing.T) {
	mp := NewMultiProof()
	if !mp.IsEmpty() {
		t.Fatal("a fresh MultiProof must be empty")
	}
	mp.AddAccountNode([]byte{1}, []byte("x"))
	if mp.IsEmpty() {
		t.Fatal("a MultiProof with an account node must not be empty")
	}
}

func TestMultiProofReveal(t *testing.T) {
	mp := NewMultiProof()
	mp.AddAccountNode([]byte{1, 2}, []byte("account-node"))
	mp.AddStorageNode(h(3), []byte{4, 5}, []byte("storage-node"))

	var gotAccount, gotStorage bool
	err := mp.Reveal(
		func(path []byte, enc []byte) error {
			if string(enc) == "account-node" {
				gotAccount = true
			}
			return nil
		},
		func(addr common.Hash, path []byte, enc []byte) error {
			if addr == h(3) && string(enc) == "storage-node" {
				gotStorage = true
			}
			return nil
		},
	)
	if err != nil {
		t.Fatalf("Reveal: %v", err)
	}
	if !gotAccount || !gotStorage {
		t.Fatalf("Reveal did not visit both nodes: account=%v storage=%v", gotAccount, gotStorage)
	}
}
