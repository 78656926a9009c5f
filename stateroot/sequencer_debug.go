//go:build staterootdebug

package stateroot

import "github.com/bnb-chain/stateroot-engine/log"

// assertNoLateDuplicate fires in debug builds (-tags staterootdebug) when a
// proof arrives for a sequence already delivered. The production path
// treats this as an intentional silent drop (spec §9 open question), but a
// late duplicate always means either a resubmission bug in the caller or a
// sequencer invariant violation, so debug builds surface it loudly instead
// of masking it.
func assertNoLateDuplicate(seq, nextToDeliver uint64) {
	log.Crit("proof sequencer: late duplicate", "seq", seq, "nextToDeliver", nextToDeliver)
}
