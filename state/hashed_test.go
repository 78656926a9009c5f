package state

import (
	"testing"

	"github.com/bnb-chain/stateroot-engine/common"
)

func acctHash(b byte) (h common.Hash) {
	h[31] = b
	return h
}

func TestHashedStorageExtendWipeWins(t *testing.T) {
	base := NewHashedStorage()
	base.Slots[acctHash(1)] = []byte("x")

	other := NewHashedStorage()
	other.Wiped = true
	other.Slots[acctHash(2)] = []byte("y")

	base.extend(other)
	if !base.Wiped {
		t.Fatal("extend with a wiping delta must set Wiped")
	}
	if string(base.Slots[acctHash(1)]) != "x" || string(base.Slots[acctHash(2)]) != "y" {
		t.Fatalf("extend must keep prior slots and layer new ones: %+v", base.Slots)
	}
}

func TestHashedStateExtendAccountOverwrites(t *testing.T) {
	s := NewHashedState()
	first := &Account{Nonce: 1}
	s.Accounts[acctHash(1)] = first

	other := NewHashedState()
	second := &Account{Nonce: 2}
	other.Accounts[acctHash(1)] = second

	s.Extend(other)
	if s.Accounts[acctHash(1)].Nonce != 2 {
		t.Fatalf("Extend must let the later delta win, got nonce %d", s.Accounts[acctHash(1)].Nonce)
	}
}

func TestHashedStateExtendMergesStorage(t *testing.T) {
	s := NewHashedState()
	hs := NewHashedStorage()
	hs.Slots[acctHash(1)] = []byte("a")
	s.Storages[acctHash(9)] = hs

	other := NewHashedState()
	ohs := NewHashedStorage()
	ohs.Slots[acctHash(2)] = []byte("b")
	other.Storages[acctHash(9)] = ohs

	s.Extend(other)
	merged := s.Storages[acctHash(9)]
	if len(merged.Slots) != 2 {
		t.Fatalf("merged storage has %d slots, want 2", len(merged.Slots))
	}
}

func TestHashedStateIsEmpty(t *testing.T) {
	s := NewHashedState()
	if !s.IsEmpty() {
		t.Fatal("a fresh HashedState must be empty")
	}
	s.Accounts[acctHash(1)] = nil
	if s.IsEmpty() {
		t.Fatal("a HashedState with a self-destruct entry must not be empty")
	}
}

func TestHashedStateTargetsCoversAccountsAndStorage(t *testing.T) {
	s := NewHashedState()
	s.Accounts[acctHash(1)] = &Account{Nonce: 1}
	hs := NewHashedStorage()
	hs.Slots[acctHash(10)] = []byte("v")
	s.Storages[acctHash(2)] = hs

	targets := s.Targets()
	if !targets.Has(acctHash(1)) {
		t.Fatal("an account write must demand an account proof")
	}
	if !targets.Has(acctHash(2)) {
		t.Fatal("a storage write must demand its account's proof too")
	}
	slots := targets.Slots(acctHash(2))
	if slots.Cardinality() != 1 || !slots.Contains(acctHash(10)) {
		t.Fatalf("storage targets = %v, want {acctHash(10)}", slots)
	}
}
