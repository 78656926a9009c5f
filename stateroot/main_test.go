package stateroot

import (
	"os"
	"runtime"
	"testing"
)

// TestMain forces GOMAXPROCS high enough to satisfy HasEnoughParallelism
// regardless of how many logical CPUs the test host actually has - the
// engine's minimum-parallelism gate (spec §5) is a scheduler policy, not a
// hardware requirement, and GOMAXPROCS is the Go analogue of the
// available_parallelism() the original reasons about.
func TestMain(m *testing.M) {
	runtime.GOMAXPROCS(8)
	os.Exit(m.Run())
}
