package trie

import "github.com/bnb-chain/stateroot-engine/common"

// BlindedProvider is the read-only source of encoded trie nodes queried when
// the sparse trie encounters a path it hasn't revealed yet — the external
// collaborator described in spec §6 ("Consistent database view"). The trie
// storage and database cursor machinery behind it is explicitly out of
// scope for this engine; callers supply an implementation (triedb.Database
// hands out minimal in-memory ones, which Spawn uses).
type BlindedProvider interface {
	// Node returns the RLP encoding of the node at path, or ok=false if the
	// provider has nothing for it (in which case the trie reports ErrBlind).
	Node(path Nibbles) (enc []byte, ok bool, err error)
}

// BlindedProviderFactory hands out a BlindedProvider scoped to the account
// trie, or to one account's storage trie.
type BlindedProviderFactory interface {
	AccountNodeProvider() BlindedProvider
	StorageNodeProvider(addressHash common.Hash) BlindedProvider
}

// NoopProviderFactory never resolves anything; every blinded path not
// covered by an explicit Reveal fails with ErrBlind. Useful for tests that
// always reveal everything they touch via proofs.
type NoopProviderFactory struct{}

func (NoopProviderFactory) AccountNodeProvider() BlindedProvider                    { return noopProvider{} }
func (NoopProviderFactory) StorageNodeProvider(common.Hash) BlindedProvider { return noopProvider{} }

type noopProvider struct{}

func (noopProvider) Node(Nibbles) ([]byte, bool, error) { return nil, false, nil }
