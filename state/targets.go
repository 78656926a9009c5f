package state

import (
	"github.com/bnb-chain/stateroot-engine/common"
	"github.com/bnb-chain/stateroot-engine/proof"
)

// Targets derives the MultiProofTargets this delta demands: every touched
// account (whether via an account write or a storage write) needs an
// account proof, plus a slot proof for every touched storage key.
func (s *HashedState) Targets() *proof.Targets {
	t := proof.NewTargets()
	for addr := range s.Accounts {
		t.Add(addr)
	}
	for addr, storage := range s.Storages {
		slots := make([]common.Hash, 0, len(storage.Slots))
		for slot := range storage.Slots {
			slots = append(slots, slot)
		}
		t.Add(addr, slots...)
	}
	return t
}
