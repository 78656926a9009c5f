// Package triedb provides the read-only, shareable inputs the engine treats
// as external collaborators: the per-block trie input snapshot and a
// minimal blinded-node provider backed by an in-memory clean-node cache
// (spec §6, "Consistent database view"). The full multi-layer on-disk trie
// database (triedb/pathdb in the upstream project this was adapted from) is
// out of scope; this package only keeps enough of its clean-cache idiom to
// serve the engine's reads.
package triedb

import (
	"sort"

	"github.com/bnb-chain/stateroot-engine/common"
)

// PrefixSet records which trie-path prefixes are dirty for the current
// block, invalidating any cached node at or below those paths.
type PrefixSet struct {
	sorted []string
}

// NewPrefixSet builds a PrefixSet from an arbitrary set of path prefixes,
// sorting them once up front.
func NewPrefixSet(prefixes [][]byte) *PrefixSet {
	s := make([]string, len(prefixes))
	for i, p := range prefixes {
		s[i] = string(p)
	}
	sort.Strings(s)
	return &PrefixSet{sorted: s}
}

// Len returns how many prefixes are tracked, for observability (spec §6,
// "config sizes").
func (p *PrefixSet) Len() int {
	return len(p.sorted)
}

// Contains reports whether path is marked dirty, directly or via a dirty
// ancestor prefix. Linear scan over the sorted slice: the set is expected
// to be small relative to one block's total path space, so this trades a
// log-n lookup for simplicity over a trie index.
func (p *PrefixSet) Contains(path []byte) bool {
	s := string(path)
	for _, pre := range p.sorted {
		if len(pre) <= len(s) && s[:len(pre)] == pre {
			return true
		}
	}
	return false
}

// Config is the immutable, shareable per-block snapshot every worker reads
// from: cached clean nodes, an overlay of not-yet-persisted hashed state,
// and the dirty prefix set that invalidates parts of both. Workers hold it
// by pointer; nothing in the engine mutates it once built (spec §3,
// "TrieInput / Config").
type Config struct {
	AccountNodes    map[string][]byte
	StorageNodes    map[common.Hash]map[string][]byte
	OverlayAccounts map[common.Hash][]byte
	OverlayStorages map[common.Hash]map[common.Hash][]byte
	Dirty           *PrefixSet
}

// NewConfig returns an empty snapshot, the starting point for a block with
// no cached overlay (a cold run).
func NewConfig() *Config {
	return &Config{
		AccountNodes:    make(map[string][]byte),
		StorageNodes:    make(map[common.Hash]map[string][]byte),
		OverlayAccounts: make(map[common.Hash][]byte),
		OverlayStorages: make(map[common.Hash]map[common.Hash][]byte),
		Dirty:           NewPrefixSet(nil),
	}
}
