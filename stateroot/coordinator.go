package stateroot

import (
	"errors"
	"fmt"
	"time"

	"github.com/bnb-chain/stateroot-engine/common"
	"github.com/bnb-chain/stateroot-engine/log"
	"github.com/bnb-chain/stateroot-engine/proof"
	"github.com/bnb-chain/stateroot-engine/state"
	strietrie "github.com/bnb-chain/stateroot-engine/trie"
	"github.com/bnb-chain/stateroot-engine/triedb"
)

// ErrChannelClosed is returned when the Coordinator's internal message
// channel closes with neither endpoint having signaled completion —
// impossible in correct use (spec §7).
var ErrChannelClosed = errors.New("stateroot: internal message channel closed unexpectedly")

// Outcome is Handle.Wait's successful result: the computed root, the dirty
// trie nodes to persist, and timing for metrics (spec §6).
type Outcome struct {
	Root             common.Hash
	TrieUpdates      *TrieUpdates
	TotalTime        time.Duration
	TimeFromLastUpdate time.Duration
}

// Handle is returned by Spawn: a blocking handle on one in-flight run.
type Handle struct {
	messages chan<- Message
	done     chan result
}

type result struct {
	outcome Outcome
	err     error
}

// MessageSender returns the channel used to deliver out-of-band messages
// such as PrefetchProofs (spec §6, "message_sender()").
func (h *Handle) MessageSender() chan<- Message { return h.messages }

// StateHook returns the callback the executor invokes after every
// transaction; cheap, non-blocking (buffered channel send), idempotent
// under retry since every StateUpdate send is independent (spec §6).
func (h *Handle) StateHook() func(state.Source, *state.EvmState) {
	return func(src state.Source, s *state.EvmState) {
		h.messages <- StateUpdate{Source: src, State: s}
	}
}

// Close emits FinishedStateUpdates, the drop-triggered end-of-input signal
// described in spec §9 ("the executor-facing sender emits
// FinishedStateUpdates when it is dropped"); Go has no destructors, so
// Close is the explicit substitute the caller must invoke exactly once.
func (h *Handle) Close() { h.messages <- FinishedStateUpdates{} }

// Wait blocks until the run completes and returns its outcome.
func (h *Handle) Wait() (Outcome, error) {
	r := <-h.done
	return r.outcome, r.err
}

// coordinator is the per-run orchestrator's mutable state (spec §4.4). A
// new one is constructed by Spawn for every run and dropped when it
// returns.
type coordinator struct {
	config  *triedb.Config
	factory strietrie.BlindedProviderFactory

	manager   *MultiProofManager
	sequencer *ProofSequencer

	fetched *proof.Targets

	updatesReceived        uint64
	prefetchProofsReceived uint64
	proofsProcessed        uint64
	updatesFinished        bool

	sparseTrieTx   chan *Update
	sparseTrieOpen bool
	updaterOut     chan Message

	firstUpdate time.Time
	lastUpdate  time.Time
}

// Spawn starts a run over config, per spec §6, on a worker pool of its own
// sized by PoolSize. accountsRoot is
// the pre-state account trie root the sparse trie starts blinded at.
// Returns ErrInsufficientParallelism if the host cannot support the
// engine's concurrency model.
func Spawn(config *triedb.Config, accountsRoot common.Hash) (*Handle, error) {
	if !HasEnoughParallelism() {
		return nil, ErrInsufficientParallelism
	}
	poolSize := PoolSize()
	manager, err := NewMultiProofManager(poolSize)
	if err != nil {
		return nil, err
	}

	db := triedb.NewDatabase(config, 8<<20)
	stateTrie := strietrie.NewStateTrie(accountsRoot, db)
	updater := NewSparseTrieUpdater(stateTrie)

	c := &coordinator{
		config:         config,
		factory:        db,
		manager:        manager,
		sequencer:      NewProofSequencer(),
		fetched:        proof.NewTargets(),
		sparseTrieTx:   make(chan *Update, 64),
		sparseTrieOpen: true,
		updaterOut:     make(chan Message, 1),
	}

	messages := make(chan Message, 256)
	done := make(chan result, 1)

	c.observeConfig(config)

	go updater.Run(c.sparseTrieTx, c.updaterOut)
	go c.run(messages, done, manager)

	return &Handle{messages: messages, done: done}, nil
}

// observeConfig logs and records histograms of config's shape once at run
// start: node/overlay/prefix-set counts, the Go analogue of root.rs's
// observe_config (SPEC_FULL.md §4 item 1).
func (c *coordinator) observeConfig(config *triedb.Config) {
	storageNodes := 0
	for _, m := range config.StorageNodes {
		storageNodes += len(m)
	}
	overlayStorages := 0
	for _, m := range config.OverlayStorages {
		overlayStorages += len(m)
	}
	prefixes := 0
	if config.Dirty != nil {
		prefixes = config.Dirty.Len()
	}
	log.Debug("stateroot: observed config",
		"account_nodes", len(config.AccountNodes),
		"storage_nodes", storageNodes,
		"overlay_accounts", len(config.OverlayAccounts),
		"overlay_storages", overlayStorages,
		"dirty_prefixes", prefixes,
	)
	defaultMetrics.ConfigNodeCount.Update(int64(len(config.AccountNodes) + storageNodes))
}

func (c *coordinator) run(messages chan Message, done chan result, manager *MultiProofManager) {
	defer manager.Release()
	start := time.Now()

	for {
		select {
		case msg, ok := <-messages:
			if !ok {
				done <- result{err: ErrChannelClosed}
				return
			}
			if outcome, err, finished := c.handle(msg, messages); finished {
				outcome.TotalTime = time.Since(start)
				if !c.lastUpdate.IsZero() {
					outcome.TimeFromLastUpdate = time.Since(c.lastUpdate)
				}
				done <- result{outcome: outcome, err: err}
				return
			}

		case msg := <-c.updaterOut:
			if outcome, err, finished := c.handleUpdaterMessage(msg); finished {
				outcome.TotalTime = time.Since(start)
				if !c.lastUpdate.IsZero() {
					outcome.TimeFromLastUpdate = time.Since(c.lastUpdate)
				}
				done <- result{outcome: outcome, err: err}
				return
			}
		}
	}
}

// handle processes one inbound Message, returning (outcome, err, true) only
// when the run is over (a fatal error). handle never itself observes
// RootCalculated/RootCalculationError — those arrive on the updater output
// channel and are processed by handleUpdaterMessage.
func (c *coordinator) handle(msg Message, messages chan<- Message) (Outcome, error, bool) {
	switch m := msg.(type) {
	case PrefetchProofs:
		c.handlePrefetch(m, messages)
	case StateUpdate:
		c.handleStateUpdate(m, messages)
	case FinishedStateUpdates:
		c.updatesFinished = true
		c.evaluateTermination()
	case EmptyProof:
		c.proofsProcessed++
		defaultMetrics.ProofsProcessed.Inc(1)
		c.deliver(m.Seq, &Update{State: m.State, Proof: proof.NewMultiProof()})
		c.evaluateTermination()
	case ProofCalculated:
		c.proofsProcessed++
		defaultMetrics.ProofsProcessed.Inc(1)
		c.manager.OnCalculationComplete()
		c.deliver(m.Seq, m.Update)
		c.evaluateTermination()
	case ProofCalculationError:
		return Outcome{}, fmt.Errorf("stateroot: proof calculation: %w", m.Err), true
	default:
		log.Warn("stateroot: unexpected message", "type", fmt.Sprintf("%T", msg))
	}
	return Outcome{}, nil, false
}

func (c *coordinator) handleUpdaterMessage(msg Message) (Outcome, error, bool) {
	switch m := msg.(type) {
	case RootCalculated:
		return Outcome{Root: m.Root, TrieUpdates: m.TrieUpdates}, nil, true
	case RootCalculationError:
		return Outcome{}, fmt.Errorf("stateroot: root calculation: %w", m.Err), true
	}
	return Outcome{}, nil, false
}

func (c *coordinator) handlePrefetch(m PrefetchProofs, messages chan<- Message) {
	c.prefetchProofsReceived++
	targets := m.Targets.Minus(c.fetched)
	c.fetched.Merge(targets)
	seq := c.sequencer.NextSequence()
	c.manager.SpawnOrQueue(&ProofRequest{
		Config:  c.config,
		Source:  proof.SourcePrefetch,
		State:   &Update{State: state.NewHashedState(), Proof: proof.NewMultiProof()},
		Targets: targets,
		Seq:     seq,
		Reply:   messages,
	})
}

func (c *coordinator) handleStateUpdate(m StateUpdate, messages chan<- Message) {
	now := time.Now()
	if c.firstUpdate.IsZero() {
		c.firstUpdate = now
	}
	c.lastUpdate = now
	c.updatesReceived++
	defaultMetrics.StateUpdates.Inc(1)

	hashed := m.State.ToHashedState()
	targets := hashed.Targets().Minus(c.fetched)
	c.fetched.Merge(targets)
	seq := c.sequencer.NextSequence()
	c.manager.SpawnOrQueue(&ProofRequest{
		Config:  c.config,
		Source:  proof.SourceStateUpdate,
		State:   &Update{State: hashed, Proof: proof.NewMultiProof()},
		Targets: targets,
		Seq:     seq,
		Reply:   messages,
	})
}

// deliver feeds seq/update through the sequencer and forwards any
// newly-ready contiguous run to the SparseTrieUpdater as one merged update
// (spec §4.4, handling EmptyProof/ProofCalculated step 3).
func (c *coordinator) deliver(seq uint64, update *Update) {
	ready := c.sequencer.AddProof(seq, update)
	if len(ready) == 0 || !c.sparseTrieOpen {
		return
	}
	merged := ready[0]
	for _, u := range ready[1:] {
		merged.Extend(u)
	}
	if !merged.IsEmpty() {
		c.sparseTrieTx <- merged
	}
}

// evaluateTermination closes sparseTrieTx exactly when spec §4.4's three
// conditions all hold, signaling end-of-input to the updater.
func (c *coordinator) evaluateTermination() {
	if !c.sparseTrieOpen {
		return
	}
	if c.updatesFinished &&
		c.proofsProcessed >= c.updatesReceived+c.prefetchProofsReceived &&
		!c.sequencer.HasPending() {
		c.sparseTrieOpen = false
		close(c.sparseTrieTx)
	}
}
