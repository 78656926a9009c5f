package stateroot

import (
	"errors"
	"runtime"
)

// minParallelism is the floor below which the engine refuses to run: with
// fewer independent execution contexts available, contention and starvation
// eliminate any benefit over a synchronous fallback (spec §5).
const minParallelism = 5

// ErrInsufficientParallelism is returned by Spawn when the host has fewer
// than minParallelism logical CPUs available; callers must fall back to a
// synchronous root computation the engine does not itself implement.
var ErrInsufficientParallelism = errors.New("stateroot: fewer than 5 execution contexts available, use the synchronous fallback")

// PoolSize returns the worker-pool size the engine should use:
// max(GOMAXPROCS-2, 3), reserving two logical CPUs for the Coordinator and
// SparseTrieUpdater threads.
func PoolSize() int {
	return poolSizeFor(runtime.GOMAXPROCS(0))
}

func poolSizeFor(parallelism int) int {
	size := parallelism - 2
	if size < 3 {
		size = 3
	}
	return size
}

// HasEnoughParallelism reports whether the host has at least minParallelism
// logical CPUs available to run the engine.
func HasEnoughParallelism() bool {
	return runtime.GOMAXPROCS(0) >= minParallelism
}
