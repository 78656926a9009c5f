package stateroot

import "github.com/bnb-chain/stateroot-engine/metrics"

// Metrics holds the histograms and counters spec §6 calls for: proof
// calculation duration and target counts, sparse-trie update and final
// update durations, and counts of state updates/proofs processed/
// iterations/config sizes. One instance is meant to live for the process,
// shared across runs, the same way the teacher's package-level meters in
// trie_prefetcher.go are registered once and reused.
type Metrics struct {
	ProofDuration     *metrics.Histogram
	ProofTargetCount  *metrics.Histogram
	SparseUpdateDur   *metrics.Histogram
	FinalUpdateDur    *metrics.Histogram
	StateUpdates      *metrics.Counter
	ProofsProcessed   *metrics.Counter
	Iterations        *metrics.Histogram
	ConfigNodeCount   *metrics.Histogram
}

// NewMetrics returns a fresh, zeroed Metrics set.
func NewMetrics() *Metrics {
	return &Metrics{
		ProofDuration:    metrics.NewHistogram(),
		ProofTargetCount: metrics.NewHistogram(),
		SparseUpdateDur:  metrics.NewHistogram(),
		FinalUpdateDur:   metrics.NewHistogram(),
		StateUpdates:     metrics.NewCounter(),
		ProofsProcessed:  metrics.NewCounter(),
		Iterations:       metrics.NewHistogram(),
		ConfigNodeCount:  metrics.NewHistogram(),
	}
}

// defaultMetrics is the process-wide instance every run records into,
// mirroring the teacher's package-level meter vars (disklayer.go's
// dirtyNodeHitMeter, cleanNodeHitDepthHist) rather than threading a
// *Metrics handle through every call in the pipeline.
var defaultMetrics = NewMetrics()
