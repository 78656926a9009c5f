package trie

import "github.com/bnb-chain/stateroot-engine/common"

// SparseTrie is a single Merkle-Patricia trie (the account trie, or one
// account's storage trie) that materializes only the paths revealed to it.
// It is owned exclusively by one goroutine at a time: the SparseTrieUpdater
// while attached to the state trie, or whichever goroutine currently holds
// it after TakeStorageTrie detaches it for parallel mutation.
type SparseTrie struct {
	root     node
	provider BlindedProvider
}

// NewSparseTrie creates a trie blinded at root (or empty, if root is the
// zero hash).
func NewSparseTrie(root common.Hash, provider BlindedProvider) *SparseTrie {
	t := &SparseTrie{provider: provider}
	if !root.IsZero() {
		t.root = hashNode(root)
	}
	return t
}

// Reveal splices a decoded proof node into the trie at path, replacing
// whatever blinded placeholder (or nothing, for the root) was there. Reveal
// does not validate that decoding enc reproduces the hash the parent
// expects; MultiProofs are assumed internally consistent, matching the
// "no bit-level compatibility required" note in spec §6.
func (t *SparseTrie) Reveal(path Nibbles, enc []byte) error {
	n, err := decodeNode(enc)
	if err != nil {
		return err
	}
	newRoot, err := graft(t.root, nil, path, n)
	if err != nil {
		return err
	}
	t.root = newRoot
	return nil
}

// graft walks from n down the nibbles of path and puts replacement where a
// blinded placeholder (or nothing) sits at its end; a node already revealed
// there is kept as it is. graft does not consult the provider: every node on
// the way must already have been revealed, which holds when a MultiProof's
// nodes are grafted ancestors first (MultiProof.Reveal visits them in order
// of path length, and a MultiProof includes every ancestor on the path to
// each of its leaves).
func graft(n node, prefix Nibbles, path Nibbles, replacement node) (node, error) {
	if len(path) == 0 {
		switch n.(type) {
		case nil, hashNode:
			return replacement, nil
		}
		return n, nil
	}
	switch t := n.(type) {
	case nil, hashNode:
		// Nothing revealed yet at this level and the target is deeper:
		// without the intermediate node we cannot continue the descent.
		// MultiProofs always carry every node on the path, so this
		// indicates the proof was incomplete.
		return nil, ErrBlind
	case *shortNode:
		if t.isLeaf() {
			return nil, ErrBlind // leaves have no deeper trie structure
		}
		if len(path) < len(t.Key) || !Nibbles(path[:len(t.Key)]).Equal(t.Key) {
			return nil, ErrBlind
		}
		child, err := graft(t.Val, append(prefix.Clone(), t.Key...), path[len(t.Key):], replacement)
		if err != nil {
			return nil, err
		}
		t.Val, t.dirty, t.hash = child, true, nil
		return t, nil
	case *fullNode:
		idx := path[0]
		child, err := graft(t.Children[idx], append(prefix.Clone(), idx), path[1:], replacement)
		if err != nil {
			return nil, err
		}
		t.Children[idx], t.dirty, t.hash = child, true, nil
		return t, nil
	default:
		return nil, ErrBlind
	}
}

func (t *SparseTrie) resolve(n node, prefix Nibbles) (node, error) {
	hn, ok := n.(hashNode)
	if !ok {
		return n, nil
	}
	if t.provider == nil {
		return nil, ErrBlind
	}
	enc, found, err := t.provider.Node(prefix)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrBlind
	}
	decoded, err := decodeNode(enc)
	if err != nil {
		return nil, err
	}
	_ = hn
	return decoded, nil
}

// UpdateLeaf sets the value at path, creating any intermediate nodes needed.
func (t *SparseTrie) UpdateLeaf(path Nibbles, value []byte) error {
	newRoot, err := t.insert(t.root, nil, path, valueNode(value))
	if err != nil {
		return err
	}
	t.root = newRoot
	return nil
}

func (t *SparseTrie) insert(n node, prefix Nibbles, path Nibbles, value node) (node, error) {
	n, err := t.resolve(n, prefix)
	if err != nil {
		return nil, err
	}
	switch cur := n.(type) {
	case nil:
		return &shortNode{Key: path.Clone(), Val: value, dirty: true}, nil

	case *shortNode:
		if cur.isLeaf() {
			if cur.Key.Equal(path) {
				return &shortNode{Key: cur.Key, Val: value, dirty: true}, nil
			}
			return t.splitShort(cur.Key, cur.Val, path, value)
		}
		// extension node
		cp := cur.Key.CommonPrefixLen(path)
		if cp == len(cur.Key) {
			child, err := t.insert(cur.Val, append(prefix.Clone(), cur.Key...), path[cp:], value)
			if err != nil {
				return nil, err
			}
			return &shortNode{Key: cur.Key, Val: child, dirty: true}, nil
		}
		return t.splitExtension(cur.Key, cur.Val, path, value, cp)

	case *fullNode:
		if len(path) == 0 {
			cur.Children[16], cur.dirty, cur.hash = value, true, nil
			return cur, nil
		}
		idx := path[0]
		child, err := t.insert(cur.Children[idx], append(prefix.Clone(), idx), path[1:], value)
		if err != nil {
			return nil, err
		}
		cur.Children[idx], cur.dirty, cur.hash = child, true, nil
		return cur, nil

	default:
		return nil, ErrBlind
	}
}

// splitShort handles inserting `newPath` alongside an existing leaf whose
// remaining key is oldKey (leaf value oldVal), forking a branch at their
// common prefix.
func (t *SparseTrie) splitShort(oldKey Nibbles, oldVal node, newPath Nibbles, newVal node) (node, error) {
	cp := oldKey.CommonPrefixLen(newPath)
	branch := &fullNode{dirty: true}
	placeBranchChild(branch, oldKey, cp, oldVal)
	placeBranchChild(branch, newPath, cp, newVal)
	if cp == 0 {
		return branch, nil
	}
	return &shortNode{Key: newPath[:cp].Clone(), Val: branch, dirty: true}, nil
}

func (t *SparseTrie) splitExtension(oldKey Nibbles, oldVal node, newPath Nibbles, newVal node, cp int) (node, error) {
	branch := &fullNode{dirty: true}
	if cp+1 == len(oldKey) {
		branch.Children[oldKey[cp]] = oldVal
	} else {
		branch.Children[oldKey[cp]] = &shortNode{Key: oldKey[cp+1:].Clone(), Val: oldVal, dirty: true}
	}
	placeBranchChild(branch, newPath, cp, newVal)
	if cp == 0 {
		return branch, nil
	}
	return &shortNode{Key: newPath[:cp].Clone(), Val: branch, dirty: true}, nil
}

func placeBranchChild(branch *fullNode, key Nibbles, cp int, val node) {
	if cp == len(key) {
		branch.Children[16] = val
		return
	}
	branch.Children[key[cp]] = &shortNode{Key: key[cp+1:].Clone(), Val: val, dirty: true}
}

// RemoveLeaf deletes the value at path, if present, collapsing any branch
// left with a single remaining child.
func (t *SparseTrie) RemoveLeaf(path Nibbles) error {
	newRoot, err := t.remove(t.root, nil, path)
	if err != nil {
		return err
	}
	t.root = newRoot
	return nil
}

func (t *SparseTrie) remove(n node, prefix Nibbles, path Nibbles) (node, error) {
	n, err := t.resolve(n, prefix)
	if err != nil {
		return nil, err
	}
	switch cur := n.(type) {
	case nil:
		return nil, nil

	case *shortNode:
		if cur.isLeaf() {
			if cur.Key.Equal(path) {
				return nil, nil
			}
			return cur, nil
		}
		if len(path) < len(cur.Key) || !Nibbles(path[:len(cur.Key)]).Equal(cur.Key) {
			return cur, nil
		}
		child, err := t.remove(cur.Val, append(prefix.Clone(), cur.Key...), path[len(cur.Key):])
		if err != nil {
			return nil, err
		}
		if child == nil {
			return nil, nil
		}
		if cs, ok := child.(*shortNode); ok {
			return &shortNode{Key: append(cur.Key.Clone(), cs.Key...), Val: cs.Val, dirty: true}, nil
		}
		return &shortNode{Key: cur.Key, Val: child, dirty: true}, nil

	case *fullNode:
		if len(path) == 0 {
			cur.Children[16] = nil
		} else {
			idx := path[0]
			child, err := t.remove(cur.Children[idx], append(prefix.Clone(), idx), path[1:])
			if err != nil {
				return nil, err
			}
			cur.Children[idx] = child
		}
		cur.dirty, cur.hash = true, nil
		return collapseFull(cur), nil

	default:
		return nil, ErrBlind
	}
}

func collapseFull(n *fullNode) node {
	count, only := 0, -1
	for i := 0; i < 17; i++ {
		if n.Children[i] != nil {
			count++
			only = i
		}
	}
	switch count {
	case 0:
		return nil
	case 1:
		if only == 16 {
			return &shortNode{Val: n.Children[16], dirty: true}
		}
		if cs, ok := n.Children[only].(*shortNode); ok {
			return &shortNode{Key: append(Nibbles{byte(only)}, cs.Key...), Val: cs.Val, dirty: true}
		}
		return &shortNode{Key: Nibbles{byte(only)}, Val: n.Children[only], dirty: true}
	default:
		return n
	}
}

// Root returns the trie's root hash, rehashing every dirty node and reusing
// the cached hash of every clean one.
func (t *SparseTrie) Root() common.Hash {
	return hashOf(t.root)
}

// RootCollecting is Root, but additionally records the encoding of every
// node it (re)hashes into out, keyed by that node's packed path — the
// dirty-node accounting behind the engine's TrieUpdates output.
func (t *SparseTrie) RootCollecting(out map[string][]byte) common.Hash {
	return collectDirty(t.root, nil, out)
}

// CalculateBelowLevel recomputes (and caches) hashes for every dirty node
// strictly deeper than level, leaving shallower nodes dirty for the final
// Root() call. See spec §4.3 for the rationale.
func (t *SparseTrie) CalculateBelowLevel(level int) {
	calcBelowLevel(t.root, nil, 0, level, nil)
}

// CalculateBelowLevelCollecting is CalculateBelowLevel, additionally
// recording the encoding of every node it hashes into out.
func (t *SparseTrie) CalculateBelowLevelCollecting(level int, out map[string][]byte) {
	calcBelowLevel(t.root, nil, 0, level, out)
}

func calcBelowLevel(n node, prefix Nibbles, depth, level int, out map[string][]byte) {
	switch t := n.(type) {
	case *shortNode:
		if !t.isLeaf() {
			calcBelowLevel(t.Val, append(prefix.Clone(), t.Key...), depth+len(t.Key), level, out)
		}
		if depth > level && t.dirty {
			if out != nil {
				collectDirty(t, prefix, out)
			} else {
				hashOf(t)
			}
		}
	case *fullNode:
		for i := 0; i < 16; i++ {
			if t.Children[i] != nil {
				calcBelowLevel(t.Children[i], append(prefix.Clone(), byte(i)), depth+1, level, out)
			}
		}
		if depth > level && t.dirty {
			if out != nil {
				collectDirty(t, prefix, out)
			} else {
				hashOf(t)
			}
		}
	}
}

// Wipe resets the trie to empty, used when a storage account is destroyed
// or its storage wiped.
func (t *SparseTrie) Wipe() {
	t.root = nil
}
