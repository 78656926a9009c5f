package stateroot

import (
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/bnb-chain/stateroot-engine/log"
	"github.com/bnb-chain/stateroot-engine/proof"
	"github.com/bnb-chain/stateroot-engine/triedb"
)

// ProofRequest is one request to compute (or skip) a multi-proof, carrying
// everything a worker needs and a reply channel for the result message
// (spec §4.2).
type ProofRequest struct {
	Config  *triedb.Config
	Source  proof.Source
	State   *Update
	Targets *proof.Targets
	Seq     uint64
	Reply   chan<- Message
}

// MultiProofManager runs up to maxConcurrent proof computations at once on
// a shared worker pool, queueing the rest FIFO. It is owned exclusively by
// the Coordinator goroutine: SpawnOrQueue and OnCalculationComplete are
// never called concurrently, so inflight and pending need no lock (spec
// §5, "owned exclusively ... no locking").
type MultiProofManager struct {
	pool          *ants.Pool
	maxConcurrent int
	inflight      int
	pending       []*ProofRequest
}

// NewMultiProofManager builds a manager over pool with max_concurrent =
// poolSize - 2, per spec §4.2. poolSize must leave at least one concurrent
// slot.
func NewMultiProofManager(poolSize int) (*MultiProofManager, error) {
	maxConcurrent := poolSize - 2
	if maxConcurrent < 1 {
		return nil, fmt.Errorf("stateroot: pool size %d leaves no room for concurrent proof workers", poolSize)
	}
	pool, err := ants.NewPool(poolSize, ants.WithPreAlloc(false))
	if err != nil {
		return nil, fmt.Errorf("stateroot: creating worker pool: %w", err)
	}
	return &MultiProofManager{pool: pool, maxConcurrent: maxConcurrent}, nil
}

// Release tears down the underlying worker pool. Safe to call once all
// requests have completed.
func (m *MultiProofManager) Release() {
	m.pool.Release()
}

// SpawnOrQueue implements spawn_or_queue (spec §4.2): an empty target set
// replies synchronously with EmptyProof and schedules no worker; otherwise
// the request runs immediately if a concurrency slot is free, or is
// appended to the FIFO queue.
func (m *MultiProofManager) SpawnOrQueue(req *ProofRequest) {
	if req.Targets.IsEmpty() {
		req.Reply <- EmptyProof{Seq: req.Seq, State: req.State.State}
		return
	}
	if m.inflight < m.maxConcurrent {
		m.dispatch(req)
		return
	}
	m.pending = append(m.pending, req)
}

// OnCalculationComplete implements on_calculation_complete: decrements
// inflight, and if the queue is non-empty, dequeues and schedules the next
// request. Must be called by the Coordinator upon observing a
// ProofCalculated message, never by the worker itself (spec §4.2); a
// ProofCalculationError ends the run instead.
func (m *MultiProofManager) OnCalculationComplete() {
	m.inflight--
	if len(m.pending) == 0 {
		return
	}
	next := m.pending[0]
	m.pending = m.pending[1:]
	m.dispatch(next)
}

func (m *MultiProofManager) dispatch(req *ProofRequest) {
	m.inflight++
	err := m.pool.Submit(func() { runProofWorker(req) })
	if err != nil {
		m.inflight--
		req.Reply <- ProofCalculationError{Seq: req.Seq, Err: fmt.Errorf("stateroot: submitting proof worker: %w", err)}
	}
}

func runProofWorker(req *ProofRequest) {
	start := time.Now()
	accounts := req.Targets.Accounts()
	defaultMetrics.ProofTargetCount.Update(int64(len(accounts)))
	mp, err := ComputeMultiProof(req.Config, req.Targets)
	elapsed := time.Since(start)
	defaultMetrics.ProofDuration.Update(elapsed.Microseconds())
	if err != nil {
		log.Debug("multiproof computation failed", "seq", req.Seq, "source", req.Source, "err", err)
		req.Reply <- ProofCalculationError{Seq: req.Seq, Err: err}
		return
	}
	update := &Update{State: req.State.State, Proof: mp}
	log.Trace("multiproof computed", "seq", req.Seq, "source", req.Source, "elapsed", elapsed)
	req.Reply <- ProofCalculated{
		Seq:            req.Seq,
		Update:         update,
		AccountTargets: accounts,
		StorageTargets: req.Targets,
		Elapsed:        elapsed,
	}
}
