package proof

import (
	"sort"

	"github.com/bnb-chain/stateroot-engine/common"
)

// pathKey is a trie path-nibble prefix packed into a map key. Proof node
// maps are keyed this way rather than by Nibbles directly since Nibbles
// ([]byte) isn't itself comparable/hashable.
type pathKey string

// StorageProof is the Merkle evidence collected for one account's storage
// trie: path-prefix to encoded-node, same shape as the account trie's map.
type StorageProof struct {
	Nodes map[pathKey][]byte
}

func newStorageProof() *StorageProof {
	return &StorageProof{Nodes: make(map[pathKey][]byte)}
}

// MultiProof is the Merkle evidence for a Targets set: the account subtree
// nodes, plus one StorageProof per touched account.
type MultiProof struct {
	AccountSubtree map[pathKey][]byte
	Storages       map[common.Hash]*StorageProof
}

// NewMultiProof returns an empty proof, the zero value for a request whose
// targets were already fully covered (an EmptyProof).
func NewMultiProof() *MultiProof {
	return &MultiProof{
		AccountSubtree: make(map[pathKey][]byte),
		Storages:       make(map[common.Hash]*StorageProof),
	}
}

// AddAccountNode records an encoded node at path in the account trie.
func (p *MultiProof) AddAccountNode(path []byte, enc []byte) {
	p.AccountSubtree[pathKey(path)] = enc
}

// AddStorageNode records an encoded node at path in addr's storage trie.
func (p *MultiProof) AddStorageNode(addr common.Hash, path []byte, enc []byte) {
	sp, ok := p.Storages[addr]
	if !ok {
		sp = newStorageProof()
		p.Storages[addr] = sp
	}
	sp.Nodes[pathKey(path)] = enc
}

// IsEmpty reports whether the proof carries no evidence at all.
func (p *MultiProof) IsEmpty() bool {
	return len(p.AccountSubtree) == 0 && len(p.Storages) == 0
}

// Extend merges other into p, last-writer-wins on any path present in both.
func (p *MultiProof) Extend(other *MultiProof) {
	if other == nil {
		return
	}
	for k, v := range other.AccountSubtree {
		p.AccountSubtree[k] = v
	}
	for addr, sp := range other.Storages {
		existing, ok := p.Storages[addr]
		if !ok {
			existing = newStorageProof()
			p.Storages[addr] = existing
		}
		for k, v := range sp.Nodes {
			existing.Nodes[k] = v
		}
	}
}

// Reveal applies every node in the proof into trie, an adapter over
// trie.StateTrie's path-keyed reveal calls. Declared here (rather than on
// trie.StateTrie) to keep the trie package free of any notion of
// "multi-proof" as a concept. Within each trie, nodes are visited in order
// of increasing path length, so every ancestor is revealed before the nodes
// below it.
func (p *MultiProof) Reveal(reveal func(path []byte, enc []byte) error, revealStorage func(addr common.Hash, path []byte, enc []byte) error) error {
	byLength := func(nodes map[pathKey][]byte) []pathKey {
		keys := make([]pathKey, 0, len(nodes))
		for k := range nodes {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return len(keys[i]) < len(keys[j]) })
		return keys
	}
	for _, k := range byLength(p.AccountSubtree) {
		if err := reveal([]byte(k), p.AccountSubtree[k]); err != nil {
			return err
		}
	}
	for addr, sp := range p.Storages {
		for _, k := range byLength(sp.Nodes) {
			if err := revealStorage(addr, []byte(k), sp.Nodes[k]); err != nil {
				return err
			}
		}
	}
	return nil
}
