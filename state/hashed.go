package state

import "github.com/bnb-chain/stateroot-engine/common"

// HashedStorage is one account's storage delta: whether the slot namespace
// was wiped entirely (self-destruct or EIP-6780 partial wipe), plus the
// per-slot writes layered on top of that wipe.
type HashedStorage struct {
	Wiped bool
	Slots map[common.Hash][]byte // nil/empty value means "delete this slot"
}

// NewHashedStorage returns an empty, non-wiping storage delta.
func NewHashedStorage() *HashedStorage {
	return &HashedStorage{Slots: make(map[common.Hash][]byte)}
}

// IsEmpty reports whether the delta has no effect at all.
func (s *HashedStorage) IsEmpty() bool {
	return !s.Wiped && len(s.Slots) == 0
}

// extend merges other on top of s: other's Wiped flag (if set) wins, and
// other's slot writes are layered over s's.
func (s *HashedStorage) extend(other *HashedStorage) {
	if other.Wiped {
		s.Wiped = true
	}
	for k, v := range other.Slots {
		s.Slots[k] = v
	}
}

// HashedState is a post-transaction state delta keyed by hashed address:
// accounts (nil value means the account was destroyed) and storage slots.
// All keys are 32-byte hashes; insertion order carries no meaning (spec §3).
type HashedState struct {
	Accounts map[common.Hash]*Account
	Storages map[common.Hash]*HashedStorage
}

// NewHashedState returns an empty delta.
func NewHashedState() *HashedState {
	return &HashedState{
		Accounts: make(map[common.Hash]*Account),
		Storages: make(map[common.Hash]*HashedStorage),
	}
}

// IsEmpty reports whether the delta touches nothing.
func (s *HashedState) IsEmpty() bool {
	return len(s.Accounts) == 0 && len(s.Storages) == 0
}

// Extend merges other into s, account writes overwriting and storage deltas
// merging via HashedStorage.extend. Used both to batch multiple StateUpdate
// messages and to implement SparseTrieUpdate.extend (spec §3).
func (s *HashedState) Extend(other *HashedState) {
	for addr, acct := range other.Accounts {
		s.Accounts[addr] = acct
	}
	for addr, storage := range other.Storages {
		existing, ok := s.Storages[addr]
		if !ok {
			existing = NewHashedStorage()
			s.Storages[addr] = existing
		}
		existing.extend(storage)
	}
}
