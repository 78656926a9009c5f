package stateroot

import (
	"time"

	"github.com/bnb-chain/stateroot-engine/common"
	"github.com/bnb-chain/stateroot-engine/proof"
	"github.com/bnb-chain/stateroot-engine/state"
)

// Message is the sum type carried on the Coordinator's single inbound
// channel (spec §4.4). Each concrete type below implements it as a marker.
type Message interface{ isMessage() }

// PrefetchProofs speculatively requests proofs for targets the executor
// expects to touch soon, ahead of the StateUpdate that will need them.
type PrefetchProofs struct {
	Targets *proof.Targets
}

func (PrefetchProofs) isMessage() {}

// StateUpdate is a post-transaction state delta. Source is carried purely
// for logging/metrics (spec §4.4).
type StateUpdate struct {
	Source state.Source
	State  *state.EvmState
}

func (StateUpdate) isMessage() {}

// FinishedStateUpdates signals the executor has emitted every delta for
// this block.
type FinishedStateUpdates struct{}

func (FinishedStateUpdates) isMessage() {}

// EmptyProof is emitted synchronously by MultiProofManager.SpawnOrQueue
// when a request's targets were already fully covered: no worker runs, but
// the sequence still needs to flow through the sequencer like any other
// proof result.
type EmptyProof struct {
	Seq   uint64
	State *state.HashedState
}

func (EmptyProof) isMessage() {}

// ProofCalculated is a worker's successful result.
type ProofCalculated struct {
	Seq            uint64
	Update         *Update
	AccountTargets []common.Hash
	StorageTargets *proof.Targets
	Elapsed        time.Duration
}

func (ProofCalculated) isMessage() {}

// ProofCalculationError is a worker's failure result; fatal to the run.
type ProofCalculationError struct {
	Seq uint64
	Err error
}

func (ProofCalculationError) isMessage() {}

// RootCalculated is the SparseTrieUpdater's success result, sent once on
// channel closure.
type RootCalculated struct {
	Root        common.Hash
	TrieUpdates *TrieUpdates
	Iterations  int
}

func (RootCalculated) isMessage() {}

// RootCalculationError is the SparseTrieUpdater's failure result; fatal to
// the run.
type RootCalculationError struct {
	Err error
}

func (RootCalculationError) isMessage() {}
