//go:build !staterootdebug

package stateroot

// assertNoLateDuplicate is a no-op outside debug builds; see
// sequencer_debug.go.
func assertNoLateDuplicate(seq, nextToDeliver uint64) {}
