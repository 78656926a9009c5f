package state

// Source tags the origin of a StateUpdate for logging/metrics, the
// evm_state change source identifying which transaction index produced it
// (spec §4.4: "source_tag identifies the transaction index").
type Source struct {
	// TxIndex is the index, within the block, of the transaction that
	// produced the update.
	TxIndex int
}
