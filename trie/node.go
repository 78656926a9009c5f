package trie

import (
	"fmt"

	"github.com/bnb-chain/stateroot-engine/common"
	"github.com/bnb-chain/stateroot-engine/crypto"
	"github.com/bnb-chain/stateroot-engine/rlp"
)

// node is the sum type of everything that can sit at a trie path: an empty
// slot, a fully blinded subtree known only by hash, a branch ("full") node,
// a leaf/extension ("short") node, or a raw value.
type node interface {
	isNode()
}

// hashNode is a reference to a subtree that has not been revealed yet. Any
// traversal that needs to descend past a hashNode must first resolve it,
// either via an explicit Reveal call or via the blinded provider.
type hashNode common.Hash

func (hashNode) isNode() {}

// valueNode holds a leaf's raw value bytes (an RLP-encoded account, or a
// storage slot value).
type valueNode []byte

func (valueNode) isNode() {}

// shortNode represents both MPT leaves and extensions: it's a leaf when Val
// is a valueNode, an extension otherwise.
type shortNode struct {
	Key   Nibbles
	Val   node
	dirty bool
	hash  *common.Hash // cached hash, valid iff !dirty
}

func (*shortNode) isNode() {}

func (n *shortNode) isLeaf() bool {
	_, ok := n.Val.(valueNode)
	return ok
}

// fullNode is a 16-way branch plus an optional value at the branch itself
// (children[16]), matching Ethereum's MPT branch node shape.
type fullNode struct {
	Children [17]node
	dirty    bool
	hash     *common.Hash
}

func (*fullNode) isNode() {}

func markDirty(n node) {
	switch t := n.(type) {
	case *shortNode:
		t.dirty, t.hash = true, nil
	case *fullNode:
		t.dirty, t.hash = true, nil
	}
}

// encodeNode serializes n into the RLP shape used both for hashing and for
// the bytes carried across a MultiProof. Children of a fullNode/shortNode
// are always encoded as a reference to their hash — unlike real go-ethereum
// tries, short (<32 byte) subtrees are never inlined, which keeps decode
// unambiguous at the cost of some wasted space; the engine's subject matter
// is pipeline concurrency, not byte-for-byte MPT compatibility.
func encodeNode(n node) []byte {
	switch t := n.(type) {
	case nil:
		return rlp.EncodeBytes(nil)
	case hashNode:
		return rlp.EncodeBytes(common.Hash(t).Bytes())
	case valueNode:
		return rlp.EncodeBytes(t)
	case *shortNode:
		keyBytes := hexPrefixEncode(t.Key, t.isLeaf())
		var valEnc []byte
		if t.isLeaf() {
			valEnc = rlp.EncodeBytes([]byte(t.Val.(valueNode)))
		} else {
			valEnc = encodeChildRef(t.Val)
		}
		return rlp.EncodeList(rlp.EncodeBytes(keyBytes), valEnc)
	case *fullNode:
		items := make([][]byte, 17)
		for i := 0; i < 16; i++ {
			items[i] = encodeChildRef(t.Children[i])
		}
		if t.Children[16] == nil {
			items[16] = rlp.EncodeBytes(nil)
		} else {
			items[16] = rlp.EncodeBytes([]byte(t.Children[16].(valueNode)))
		}
		return rlp.EncodeList(items...)
	default:
		panic(fmt.Sprintf("trie: unknown node type %T", n))
	}
}

// encodeChildRef encodes a child as a hash reference: the hash of the
// child's own encoding if revealed, or the stored hash if still blinded.
func encodeChildRef(n node) []byte {
	if n == nil {
		return rlp.EncodeBytes(nil)
	}
	h := hashOf(n)
	return rlp.EncodeBytes(h.Bytes())
}

// collectDirty hashes n exactly as hashOf does, but additionally records the
// encoding of every dirty node it (re)computes into out, keyed by that
// node's packed path from the trie root. Pass a nil out to skip recording
// and fall back to hashOf's plain caching behavior.
func collectDirty(n node, prefix Nibbles, out map[string][]byte) common.Hash {
	if out == nil {
		return hashOf(n)
	}
	switch t := n.(type) {
	case nil:
		return common.Hash{}
	case hashNode:
		return common.Hash(t)
	case *shortNode:
		if !t.dirty && t.hash != nil {
			return *t.hash
		}
		if !t.isLeaf() {
			collectDirty(t.Val, append(prefix.Clone(), t.Key...), out)
		}
		enc := encodeNode(t)
		h := crypto.Keccak256Hash(enc)
		t.hash, t.dirty = &h, false
		out[string(prefix.Pack())] = enc
		return h
	case *fullNode:
		if !t.dirty && t.hash != nil {
			return *t.hash
		}
		for i := 0; i < 16; i++ {
			if t.Children[i] != nil {
				collectDirty(t.Children[i], append(prefix.Clone(), byte(i)), out)
			}
		}
		enc := encodeNode(t)
		h := crypto.Keccak256Hash(enc)
		t.hash, t.dirty = &h, false
		out[string(prefix.Pack())] = enc
		return h
	default:
		panic(fmt.Sprintf("trie: unknown node type %T", n))
	}
}

// hashOf returns the (possibly cached) hash of n, computing and caching it
// if necessary. Blinded nodes already carry their hash.
func hashOf(n node) common.Hash {
	switch t := n.(type) {
	case nil:
		return common.Hash{}
	case hashNode:
		return common.Hash(t)
	case *shortNode:
		if !t.dirty && t.hash != nil {
			return *t.hash
		}
		h := crypto.Keccak256Hash(encodeNode(t))
		t.hash, t.dirty = &h, false
		return h
	case *fullNode:
		if !t.dirty && t.hash != nil {
			return *t.hash
		}
		h := crypto.Keccak256Hash(encodeNode(t))
		t.hash, t.dirty = &h, false
		return h
	default:
		panic(fmt.Sprintf("trie: unknown node type %T", n))
	}
}

// decodeNode parses an encoded node back into the node sum type. Children
// are always decoded as hashNode placeholders, since encodeNode never
// inlines them.
func decodeNode(enc []byte) (node, error) {
	item, _, err := rlp.Decode(enc)
	if err != nil {
		return nil, fmt.Errorf("trie: decoding node: %w", err)
	}
	if !item.IsList() {
		if len(item.Bytes) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("trie: expected list-encoded node, got string")
	}
	switch len(item.List) {
	case 2:
		keyItem, valItem := item.List[0], item.List[1]
		path, terminating := hexPrefixDecode(keyItem.Bytes)
		if terminating {
			return &shortNode{Key: path, Val: valueNode(valItem.Bytes), dirty: true}, nil
		}
		return &shortNode{Key: path, Val: hashNode(common.BytesToHash(valItem.Bytes)), dirty: true}, nil
	case 17:
		fn := &fullNode{dirty: true}
		for i := 0; i < 16; i++ {
			if len(item.List[i].Bytes) == 0 {
				fn.Children[i] = nil
			} else {
				fn.Children[i] = hashNode(common.BytesToHash(item.List[i].Bytes))
			}
		}
		if len(item.List[16].Bytes) > 0 {
			fn.Children[16] = valueNode(item.List[16].Bytes)
		}
		return fn, nil
	default:
		return nil, fmt.Errorf("trie: node list has %d items, want 2 or 17", len(item.List))
	}
}
