package stateroot

import (
	"fmt"

	"github.com/bnb-chain/stateroot-engine/common"
	"github.com/bnb-chain/stateroot-engine/proof"
	"github.com/bnb-chain/stateroot-engine/state"
	strietrie "github.com/bnb-chain/stateroot-engine/trie"
	"github.com/bnb-chain/stateroot-engine/triedb"
)

// ReferenceRoot computes a state root synchronously and sequentially,
// applying deltas one at a time with no sequencer, no worker pool, and no
// batching. It exists purely to validate the concurrent engine's output
// against spec §8's "matches reference root" property; it is not the
// synchronous fallback mentioned in spec §5 for hosts with insufficient
// parallelism (that fallback is a caller responsibility, out of scope
// here), though it happens to share its shape.
func ReferenceRoot(config *triedb.Config, accountsRoot common.Hash, deltas []*state.EvmState) (common.Hash, error) {
	db := triedb.NewDatabase(config, 1<<20)
	trie := strietrie.NewStateTrie(accountsRoot, db)

	for i, delta := range deltas {
		hashed := delta.ToHashedState()
		targets := hashed.Targets()
		mp, err := ComputeMultiProof(config, targets)
		if err != nil {
			return common.Hash{}, fmt.Errorf("stateroot: reference proof for delta %d: %w", i, err)
		}
		if err := revealInto(trie, mp); err != nil {
			return common.Hash{}, fmt.Errorf("stateroot: reference reveal for delta %d: %w", i, err)
		}
		if err := applyState(trie, hashed); err != nil {
			return common.Hash{}, fmt.Errorf("stateroot: reference apply for delta %d: %w", i, err)
		}
	}
	return trie.Root(), nil
}

func revealInto(trie *strietrie.StateTrie, mp *proof.MultiProof) error {
	return mp.Reveal(
		func(path []byte, enc []byte) error {
			return trie.RevealAccountNode(strietrie.Nibbles(path), enc)
		},
		func(addr common.Hash, path []byte, enc []byte) error {
			return trie.RevealStorageNode(addr, strietrie.Nibbles(path), enc)
		},
	)
}

func applyState(trie *strietrie.StateTrie, s *state.HashedState) error {
	for addr, storage := range s.Storages {
		if storage.Wiped {
			trie.WipeStorage(addr)
		}
		for slot, value := range storage.Slots {
			if len(value) == 0 {
				if err := trie.RemoveStorageSlot(addr, slot); err != nil {
					return err
				}
				continue
			}
			if err := trie.UpdateStorageSlot(addr, slot, value); err != nil {
				return err
			}
		}
	}
	for addr, acct := range s.Accounts {
		if acct == nil {
			trie.WipeStorage(addr)
			if err := trie.UpdateAccount(addr, state.NewAccount().Encode()); err != nil {
				return err
			}
			continue
		}
		acct.StorageRoot = trie.StorageRoot(addr)
		if err := trie.UpdateAccount(addr, acct.Encode()); err != nil {
			return err
		}
	}
	return nil
}
