package state

import (
	"github.com/bnb-chain/stateroot-engine/common"
	"github.com/bnb-chain/stateroot-engine/crypto"
)

// EvmAccount is one account's raw (unhashed) post-transaction state, the
// caller-provided form before the engine's own hashing step. Destroyed is
// the EVM-boundary "self-destructed this transaction" flag; when set,
// Account is ignored and the account is recorded as deleted.
type EvmAccount struct {
	Address   common.Address
	Destroyed bool
	Account   *Account
	// StorageWiped marks that the account's prior storage should be
	// discarded before Storage is applied (set alongside Destroyed, or for
	// an EIP-6780-style same-transaction storage reset).
	StorageWiped bool
	// Storage maps raw (unhashed) 32-byte storage keys to RLP-encodable
	// values; a nil/empty value deletes the slot.
	Storage map[common.Hash][]byte
}

// EvmState is the caller-provided, per-transaction state delta — the
// boundary type standing in for the EVM itself, which is out of scope (spec
// §1). The engine's only contact with it is the one-way conversion below.
type EvmState struct {
	Accounts []EvmAccount
}

// ToHashedState performs the Coordinator's "translate the EVM state to
// HashedState" step (spec §4.4): hash addresses and slot keys, skip
// accounts with no change at all, and record a nil Account plus a wiped
// HashedStorage for self-destructed accounts.
func (s *EvmState) ToHashedState() *HashedState {
	out := NewHashedState()
	for _, acct := range s.Accounts {
		if !acct.Destroyed && acct.Account == nil && len(acct.Storage) == 0 && !acct.StorageWiped {
			continue // untouched
		}
		addrHash := crypto.Keccak256Hash(acct.Address.Bytes())
		if acct.Destroyed {
			out.Accounts[addrHash] = nil
			out.Storages[addrHash] = &HashedStorage{Wiped: true, Slots: map[common.Hash][]byte{}}
			continue
		}
		if acct.Account != nil {
			out.Accounts[addrHash] = acct.Account
		}
		if acct.StorageWiped || len(acct.Storage) > 0 {
			hs := &HashedStorage{Wiped: acct.StorageWiped, Slots: make(map[common.Hash][]byte, len(acct.Storage))}
			for slot, val := range acct.Storage {
				hs.Slots[crypto.Keccak256Hash(slot.Bytes())] = val
			}
			out.Storages[addrHash] = hs
		}
	}
	return out
}
