package stateroot

// ProofSequencer restores transaction order across out-of-order proof
// completions, so the SparseTrieUpdater observes updates in the order the
// executor produced them (spec §4.1). It has no concurrency of its own: the
// Coordinator is its sole, single-threaded owner.
type ProofSequencer struct {
	nextSequence  uint64
	nextToDeliver uint64
	pending       map[uint64]*Update
}

// NewProofSequencer returns an empty sequencer, sequences dense from zero.
func NewProofSequencer() *ProofSequencer {
	return &ProofSequencer{pending: make(map[uint64]*Update)}
}

// NextSequence returns the current counter value, then increments it.
func (s *ProofSequencer) NextSequence() uint64 {
	seq := s.nextSequence
	s.nextSequence++
	return seq
}

// AddProof records the update under seq and returns the longest contiguous
// run of updates starting at nextToDeliver that is now ready, advancing
// nextToDeliver by the length returned. A seq already delivered (seq <
// nextToDeliver) is silently ignored, per spec §4.1; see sequencer_debug.go
// for the debug-build assertion on this path.
func (s *ProofSequencer) AddProof(seq uint64, update *Update) []*Update {
	if seq < s.nextToDeliver {
		assertNoLateDuplicate(seq, s.nextToDeliver)
		return nil
	}
	s.pending[seq] = update

	var ready []*Update
	for {
		u, ok := s.pending[s.nextToDeliver]
		if !ok {
			break
		}
		ready = append(ready, u)
		delete(s.pending, s.nextToDeliver)
		s.nextToDeliver++
	}
	return ready
}

// HasPending reports whether any update is buffered waiting for an earlier
// sequence to arrive.
func (s *ProofSequencer) HasPending() bool {
	return len(s.pending) > 0
}
