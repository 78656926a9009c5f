package stateroot

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bnb-chain/stateroot-engine/common"
	"github.com/bnb-chain/stateroot-engine/proof"
	"github.com/bnb-chain/stateroot-engine/state"
	strietrie "github.com/bnb-chain/stateroot-engine/trie"
)

// sparseTrieIncrementalLevel is the trie depth below which
// SparseTrieUpdater recomputes hashes eagerly every batch; nodes at or
// above it are left dirty until the final root pass (spec §4.3).
const sparseTrieIncrementalLevel = 2

// SparseTrieUpdater owns the in-memory sparse state trie for the duration
// of one run. It is driven entirely by Run, which must execute on a single
// goroutine — the trie is never touched from anywhere else (spec §4.3,
// §5 "owned exclusively by the SparseTrieUpdater thread").
type SparseTrieUpdater struct {
	trie       *strietrie.StateTrie
	iterations int

	// accountNodes/storageNodes accumulate every dirty node's encoding
	// across the whole run, drained into a TrieUpdates at termination.
	accountNodes map[string][]byte
	storageNodes map[common.Hash]map[string][]byte
}

// NewSparseTrieUpdater wraps trie, the blinded sparse trie constructed from
// the run's TrieInput/Config snapshot.
func NewSparseTrieUpdater(trie *strietrie.StateTrie) *SparseTrieUpdater {
	return &SparseTrieUpdater{
		trie:         trie,
		accountNodes: make(map[string][]byte),
		storageNodes: make(map[common.Hash]map[string][]byte),
	}
}

// Run drains updates from in until it is closed, applying each batch via
// ApplyBatch, then sends exactly one RootCalculated or RootCalculationError
// to out. It is meant to run on its own goroutine, started by the
// Coordinator.
func (u *SparseTrieUpdater) Run(in <-chan *Update, out chan<- Message) {
	for batch := range drainBatches(in) {
		if err := u.ApplyBatch(batch); err != nil {
			out <- RootCalculationError{Err: err}
			return
		}
	}
	start := time.Now()
	root := u.trie.RootCollecting(u.accountNodes)
	defaultMetrics.FinalUpdateDur.Update(time.Since(start).Microseconds())
	defaultMetrics.Iterations.Update(int64(u.iterations))
	out <- RootCalculated{Root: root, TrieUpdates: u.trieUpdates(), Iterations: u.iterations}
}

// trieUpdates snapshots the accumulated dirty-node encodings into the
// public TrieUpdates shape, copying the per-owner storage maps so the
// caller can't mutate the updater's own accumulators.
func (u *SparseTrieUpdater) trieUpdates() *TrieUpdates {
	tu := NewTrieUpdates()
	for path, enc := range u.accountNodes {
		tu.AccountNodes[path] = enc
	}
	for owner, nodes := range u.storageNodes {
		copied := make(map[string][]byte, len(nodes))
		for path, enc := range nodes {
			copied[path] = enc
		}
		tu.StorageNodes[owner] = copied
	}
	return tu
}

// drainBatches relays from in to its output channel, coalescing every
// update currently available on in into one batch per receive, per spec
// §4.3 ("on each wake it drains all currently-available updates ... before
// processing"). The output channel closes when in closes.
func drainBatches(in <-chan *Update) <-chan *Update {
	out := make(chan *Update)
	go func() {
		defer close(out)
		for first := range in {
			batch := first
		drain:
			for {
				select {
				case next, ok := <-in:
					if !ok {
						break drain
					}
					batch.Extend(next)
				default:
					break drain
				}
			}
			out <- batch
		}
	}()
	return out
}

// ApplyBatch runs one reveal+mutate+hash pass: reveal, parallel per-account
// storage mutation, account updates, then incremental hashing below
// sparseTrieIncrementalLevel (spec §4.3, steps 1-4).
func (u *SparseTrieUpdater) ApplyBatch(batch *Update) error {
	u.iterations++
	start := time.Now()
	defer func() { defaultMetrics.SparseUpdateDur.Update(time.Since(start).Microseconds()) }()

	if err := u.reveal(batch.Proof); err != nil {
		return fmt.Errorf("stateroot: revealing proof: %w", err)
	}
	if err := u.updateStorages(batch.State); err != nil {
		return fmt.Errorf("stateroot: updating storage: %w", err)
	}
	if err := u.updateAccounts(batch.State); err != nil {
		return fmt.Errorf("stateroot: updating accounts: %w", err)
	}
	u.trie.CalculateBelowLevelCollecting(sparseTrieIncrementalLevel, u.accountNodes, u.storageNodes)
	return nil
}

func (u *SparseTrieUpdater) reveal(mp *proof.MultiProof) error {
	return mp.Reveal(
		func(path []byte, enc []byte) error {
			return u.trie.RevealAccountNode(strietrie.Nibbles(path), enc)
		},
		func(addr common.Hash, path []byte, enc []byte) error {
			return u.trie.RevealStorageNode(addr, strietrie.Nibbles(path), enc)
		},
	)
}

// updateStorages applies every account's storage delta on its own detached
// subtrie in parallel (spec §4.3 step 2), re-attaching each afterwards. A
// per-account error aborts the whole batch once every goroutine has
// finished, per errgroup semantics.
func (u *SparseTrieUpdater) updateStorages(s *state.HashedState) error {
	g := new(errgroup.Group)
	taken := make(map[common.Hash]*strietrie.SparseTrie, len(s.Storages))
	for addr, storage := range s.Storages {
		addr, storage := addr, storage
		sub := u.trie.TakeStorageTrie(addr)
		taken[addr] = sub
		g.Go(func() error {
			if storage.Wiped {
				sub.Wipe()
			}
			for slot, value := range storage.Slots {
				path := strietrie.UnpackNibbles(slot.Bytes())
				if len(value) == 0 {
					if err := sub.RemoveLeaf(path); err != nil {
						return err
					}
					continue
				}
				if err := sub.UpdateLeaf(path, value); err != nil {
					return err
				}
			}
			return nil
		})
	}
	err := g.Wait()
	for addr, sub := range taken {
		u.trie.InsertStorageTrie(addr, sub)
	}
	return err
}

// updateAccounts writes each account leaf after its storage root has been
// recomputed by updateStorages, which must run first (spec §4.3 step 3:
// "Serialisation relative to step 2 is required").
func (u *SparseTrieUpdater) updateAccounts(s *state.HashedState) error {
	for addr, acct := range s.Accounts {
		if acct == nil {
			// A self-destructed account still gets a defaulted leaf written,
			// never deleted (spec §4.3 step 3: "write account (defaulted if
			// absent) to the account trie").
			u.trie.WipeStorage(addr)
			if err := u.trie.UpdateAccount(addr, state.NewAccount().Encode()); err != nil {
				return err
			}
			continue
		}
		nodes, ok := u.storageNodes[addr]
		if !ok {
			nodes = make(map[string][]byte)
			u.storageNodes[addr] = nodes
		}
		acct.StorageRoot = u.trie.StorageRootCollecting(addr, nodes)
		if err := u.trie.UpdateAccount(addr, acct.Encode()); err != nil {
			return err
		}
	}
	return nil
}
