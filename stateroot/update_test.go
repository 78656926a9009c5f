package stateroot

import (
	"testing"

	"github.com/bnb-chain/stateroot-engine/state"
)

func TestUpdateIsEmpty(t *testing.T) {
	u := NewUpdate()
	if !u.IsEmpty() {
		t.Fatal("a fresh Update must be empty")
	}
	u.State.Accounts[addrHash(1)] = &state.Account{Nonce: 1}
	if u.IsEmpty() {
		t.Fatal("an Update with a state delta must not be empty")
	}
}

func TestUpdateExtendMergesStateAndProof(t *testing.T) {
	u := NewUpdate()
	u.State.Accounts[addrHash(1)] = &state.Account{Nonce: 1}
	u.Proof.AddAccountNode([]byte{1}, []byte("node-a"))

	other := NewUpdate()
	other.State.Accounts[addrHash(2)] = &state.Account{Nonce: 2}
	other.Proof.AddAccountNode([]byte{2}, []byte("node-b"))

	u.Extend(other)

	if u.State.Accounts[addrHash(1)] == nil || u.State.Accounts[addrHash(2)] == nil {
		t.Fatalf("Extend must keep both accounts' state: %+v", u.State.Accounts)
	}
	if u.Proof.IsEmpty() {
		t.Fatal("Extend must merge proof nodes from both updates")
	}
}
