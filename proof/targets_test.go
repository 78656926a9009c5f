package proof

import (
	"testing"

	"github.com/bnb-chain/stateroot-engine/common"
)

func h(b byte) common.Hash {
	var out common.Hash
	out[31] = b
	return out
}

func TestTargetsAddAccountWithNoSlots(t *testing.T) {
	tg := NewTargets()
	tg.Add(h(1))
	if !tg.Has(h(1)) {
		t.Fatal("account added with no slots must still be a target")
	}
	if tg.IsEmpty() {
		t.Fatal("a target set with one account must not be empty")
	}
	if slots := tg.Slots(h(1)); slots == nil || slots.Cardinality() != 0 {
		t.Fatalf("Slots(h1) = %v, want empty set", slots)
	}
}

func TestTargetsAbsenceMeansNoProofNeeded(t *testing.T) {
	tg := NewTargets()
	if tg.Has(h(9)) {
		t.Fatal("an account never added must not be a target")
	}
}

func TestTargetsMinusDedup(t *testing.T) {
	fetched := NewTargets()
	fetched.Add(h(1), h(10))

	wanted := NewTargets()
	wanted.Add(h(1), h(10), h(11)) // account 1 partially covered
	wanted.Add(h(2))               // account 2 not covered at all

	remaining := wanted.Minus(fetched)

	if !remaining.Has(h(1)) {
		t.Fatal("account 1 still needs slot 11 proven")
	}
	slots := remaining.Slots(h(1))
	if slots.Cardinality() != 1 || !slots.Contains(h(11)) {
		t.Fatalf("remaining slots for account 1 = %v, want {h(11)}", slots)
	}
	if !remaining.Has(h(2)) {
		t.Fatal("account 2 was never fetched, must remain a target")
	}
}

func TestTargetsMinusFullyCoveredAccountDropped(t *testing.T) {
	fetched := NewTargets()
	fetched.Add(h(1), h(10), h(11))

	wanted := NewTargets()
	wanted.Add(h(1), h(10), h(11))

	remaining := wanted.Minus(fetched)
	if remaining.Has(h(1)) {
		t.Fatal("a fully-covered account must be dropped by Minus")
	}
	if !remaining.IsEmpty() {
		t.Fatal("Minus of a fully-covered request must be empty")
	}
}

func TestTargetsMinusAccountOnlyAlreadyFetchedDropped(t *testing.T) {
	fetched := NewTargets()
	fetched.Add(h(1)) // account-only proof already requested, no slots

	wanted := NewTargets()
	wanted.Add(h(1)) // same account-only request again

	remaining := wanted.Minus(fetched)
	if remaining.Has(h(1)) {
		t.Fatal("an account-only target already fetched must not be re-requested (spec §4.4 dedup)")
	}
	if !remaining.IsEmpty() {
		t.Fatal("Minus of an already-fetched account-only request must be empty")
	}
}

func TestTargetsMinusEmptySlotAccountNotAlreadyFetched(t *testing.T) {
	fetched := NewTargets()
	wanted := NewTargets()
	wanted.Add(h(5)) // account-only target, no slots

	remaining := wanted.Minus(fetched)
	if !remaining.Has(h(5)) {
		t.Fatal("an account-only target absent from fetched must still be requested")
	}
}

func TestTargetsMerge(t *testing.T) {
	fetched := NewTargets()
	fetched.Add(h(1), h(10))

	more := NewTargets()
	more.Add(h(1), h(11))
	more.Add(h(2))

	fetched.Merge(more)

	slots := fetched.Slots(h(1))
	if slots.Cardinality() != 2 || !slots.Contains(h(10)) || !slots.Contains(h(11)) {
		t.Fatalf("merged slots for account 1 = %v, want {h(10), h(11)}", slots)
	}
	if !fetched.Has(h(2)) {
		t.Fatal("Merge must add accounts absent from the receiver")
	}
}

func TestTargetsLenAndIsEmpty(t *testing.T) {
	tg := NewTargets()
	if !tg.IsEmpty() || tg.Len() != 0 {
		t.Fatal("a fresh Targets must be empty with length 0")
	}
	tg.Add(h(1))
	tg.Add(h(2))
	if tg.IsEmpty() || tg.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tg.Len())
	}
}
