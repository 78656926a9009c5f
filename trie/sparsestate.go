package trie

import "github.com/bnb-chain/stateroot-engine/common"

// StateTrie composes the account trie with the per-account storage tries it
// references, mirroring reth's SparseStateTrie. Storage tries can be
// detached (TakeStorageTrie) for mutation off the owning goroutine and
// reattached (InsertStorageTrie) once done, which is how SparseTrieUpdater
// fans storage updates out across a pool without sharing a lock.
type StateTrie struct {
	accounts *SparseTrie
	storages map[common.Hash]*SparseTrie
	factory  BlindedProviderFactory
}

// NewStateTrie creates a state trie blinded at accountsRoot.
func NewStateTrie(accountsRoot common.Hash, factory BlindedProviderFactory) *StateTrie {
	if factory == nil {
		factory = NoopProviderFactory{}
	}
	return &StateTrie{
		accounts: NewSparseTrie(accountsRoot, factory.AccountNodeProvider()),
		storages: make(map[common.Hash]*SparseTrie),
		factory:  factory,
	}
}

// RevealAccountNode grafts a proof node into the account trie.
func (s *StateTrie) RevealAccountNode(path Nibbles, enc []byte) error {
	return s.accounts.Reveal(path, enc)
}

// RevealStorageNode grafts a proof node into addressHash's storage trie,
// creating an empty storage trie on first touch (see storageTrie); a proof
// node at the empty path becomes that trie's root.
func (s *StateTrie) RevealStorageNode(addressHash common.Hash, path Nibbles, enc []byte) error {
	st := s.storageTrie(addressHash)
	return st.Reveal(path, enc)
}

// storageTrie returns addressHash's storage trie, creating an empty one
// (blinded at the zero hash, revealed incrementally by subsequent proof
// nodes) if this is the first reference to that account's storage.
func (s *StateTrie) storageTrie(addressHash common.Hash) *SparseTrie {
	st, ok := s.storages[addressHash]
	if !ok {
		st = NewSparseTrie(common.Hash{}, s.factory.StorageNodeProvider(addressHash))
		s.storages[addressHash] = st
	}
	return st
}

// TakeStorageTrie detaches addressHash's storage trie for exclusive mutation
// by another goroutine, creating it first if necessary. The caller must
// return it via InsertStorageTrie before any other goroutine may touch it.
func (s *StateTrie) TakeStorageTrie(addressHash common.Hash) *SparseTrie {
	st := s.storageTrie(addressHash)
	delete(s.storages, addressHash)
	return st
}

// InsertStorageTrie reattaches a storage trie previously detached by
// TakeStorageTrie (or constructs the account's first one).
func (s *StateTrie) InsertStorageTrie(addressHash common.Hash, trie *SparseTrie) {
	s.storages[addressHash] = trie
}

// WipeStorage clears addressHash's storage trie entirely, for a destroyed
// or self-destructed account.
func (s *StateTrie) WipeStorage(addressHash common.Hash) {
	if st, ok := s.storages[addressHash]; ok {
		st.Wipe()
		return
	}
	s.storages[addressHash] = NewSparseTrie(common.Hash{}, s.factory.StorageNodeProvider(addressHash))
}

// UpdateAccount sets the RLP-encoded account value at its hashed address.
func (s *StateTrie) UpdateAccount(addressHash common.Hash, encodedAccount []byte) error {
	return s.accounts.UpdateLeaf(UnpackNibbles(addressHash.Bytes()), encodedAccount)
}

// RemoveAccount deletes an account leaf outright. Self-destructed accounts
// are not removed this way (spec §4.3 writes a defaulted leaf instead); this
// is a general-purpose primitive kept for callers that do want outright
// deletion.
func (s *StateTrie) RemoveAccount(addressHash common.Hash) error {
	return s.accounts.RemoveLeaf(UnpackNibbles(addressHash.Bytes()))
}

// UpdateStorageSlot sets a storage slot's value within addressHash's
// storage trie, creating an empty storage trie first if the account has
// none yet.
func (s *StateTrie) UpdateStorageSlot(addressHash, slotHash common.Hash, value []byte) error {
	return s.storageTrie(addressHash).UpdateLeaf(UnpackNibbles(slotHash.Bytes()), value)
}

// RemoveStorageSlot deletes a storage slot within addressHash's storage
// trie.
func (s *StateTrie) RemoveStorageSlot(addressHash, slotHash common.Hash) error {
	return s.storageTrie(addressHash).RemoveLeaf(UnpackNibbles(slotHash.Bytes()))
}

// StorageRoot returns addressHash's current storage root hash, the empty
// root hash (hash of an absent trie) if the account has no tracked storage.
func (s *StateTrie) StorageRoot(addressHash common.Hash) common.Hash {
	st, ok := s.storages[addressHash]
	if !ok {
		return common.Hash{}
	}
	return st.Root()
}

// StorageRootCollecting is StorageRoot, additionally recording the encoding
// of every storage node it (re)hashes into out, keyed by packed path.
func (s *StateTrie) StorageRootCollecting(addressHash common.Hash, out map[string][]byte) common.Hash {
	st, ok := s.storages[addressHash]
	if !ok {
		return common.Hash{}
	}
	return st.RootCollecting(out)
}

// CalculateBelowLevel recomputes and caches hashes below level across the
// account trie and every tracked storage trie, per spec §4.3. The
// SparseTrieUpdater calls the collecting variant below once per batch.
func (s *StateTrie) CalculateBelowLevel(level int) {
	s.accounts.CalculateBelowLevel(level)
	for _, st := range s.storages {
		st.CalculateBelowLevel(level)
	}
}

// CalculateBelowLevelCollecting is CalculateBelowLevel, additionally
// recording dirty node encodings into accountOut (account trie) and
// storageOut (per-owner storage tries, creating an entry on first write).
func (s *StateTrie) CalculateBelowLevelCollecting(level int, accountOut map[string][]byte, storageOut map[common.Hash]map[string][]byte) {
	s.accounts.CalculateBelowLevelCollecting(level, accountOut)
	for owner, st := range s.storages {
		out, ok := storageOut[owner]
		if !ok {
			out = make(map[string][]byte)
			storageOut[owner] = out
		}
		st.CalculateBelowLevelCollecting(level, out)
	}
}

// Root returns the account trie's root hash, the state root once every
// pending account update (with a correct storage root) has been applied.
func (s *StateTrie) Root() common.Hash {
	return s.accounts.Root()
}

// RootCollecting is Root, additionally recording the encoding of every
// account-trie node it (re)hashes into out, keyed by packed path.
func (s *StateTrie) RootCollecting(out map[string][]byte) common.Hash {
	return s.accounts.RootCollecting(out)
}
