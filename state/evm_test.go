package state

import (
	"testing"

	"github.com/bnb-chain/stateroot-engine/common"
	"github.com/bnb-chain/stateroot-engine/crypto"
)

func addrAt(b byte) (a common.Address) {
	a[19] = b
	return a
}

func TestToHashedStateSkipsUntouchedAccounts(t *testing.T) {
	s := &EvmState{Accounts: []EvmAccount{{Address: addrAt(1)}}}
	hashed := s.ToHashedState()
	if !hashed.IsEmpty() {
		t.Fatalf("an account with no writes must be skipped, got %+v", hashed)
	}
}

func TestToHashedStateSelfDestructWipesStorage(t *testing.T) {
	s := &EvmState{Accounts: []EvmAccount{{Address: addrAt(1), Destroyed: true}}}
	hashed := s.ToHashedState()

	addrHash := crypto.Keccak256Hash(addrAt(1).Bytes())
	acct, ok := hashed.Accounts[addrHash]
	if !ok || acct != nil {
		t.Fatalf("a destroyed account must record a nil Account entry, got %v present=%v", acct, ok)
	}
	storage, ok := hashed.Storages[addrHash]
	if !ok || !storage.Wiped {
		t.Fatalf("a destroyed account must record a wiped HashedStorage, got %+v present=%v", storage, ok)
	}
}

func TestToHashedStateHashesStorageKeys(t *testing.T) {
	slot := common.HexToHash("aa")
	s := &EvmState{Accounts: []EvmAccount{{
		Address: addrAt(2),
		Storage: map[common.Hash][]byte{slot: []byte("value")},
	}}}
	hashed := s.ToHashedState()

	addrHash := crypto.Keccak256Hash(addrAt(2).Bytes())
	storage, ok := hashed.Storages[addrHash]
	if !ok {
		t.Fatalf("account storage missing from hashed state")
	}
	slotHash := crypto.Keccak256Hash(slot.Bytes())
	if string(storage.Slots[slotHash]) != "value" {
		t.Fatalf("storage value under hashed slot key = %q, want %q", storage.Slots[slotHash], "value")
	}
	if _, rawPresent := storage.Slots[slot]; rawPresent {
		t.Fatal("storage must be keyed by the hashed slot, not the raw key")
	}
}

func TestToHashedStateAccountWriteWithoutStorage(t *testing.T) {
	acct := NewAccount()
	acct.Nonce = 7
	s := &EvmState{Accounts: []EvmAccount{{Address: addrAt(3), Account: acct}}}
	hashed := s.ToHashedState()

	addrHash := crypto.Keccak256Hash(addrAt(3).Bytes())
	got, ok := hashed.Accounts[addrHash]
	if !ok || got == nil || got.Nonce != 7 {
		t.Fatalf("account entry = %+v present=%v, want nonce 7", got, ok)
	}
	if _, ok := hashed.Storages[addrHash]; ok {
		t.Fatal("an account write with no storage changes must not record a storage delta")
	}
}
