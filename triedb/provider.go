package triedb

import (
	"github.com/VictoriaMetrics/fastcache"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/bnb-chain/stateroot-engine/common"
	"github.com/bnb-chain/stateroot-engine/metrics"
	strietrie "github.com/bnb-chain/stateroot-engine/trie"
)

var (
	cleanHitMeter  = metrics.NewMeter()
	cleanMissMeter = metrics.NewMeter()
	peekHitMeter   = metrics.NewMeter()
)

// revealedPeekSize bounds the process-wide LRU of recently-revealed storage
// nodes, kept across blocks so an account touched in consecutive blocks
// doesn't pay a full clean-cache miss for paths it just resolved.
const revealedPeekSize = 4096

// revealedPeek caches the most recently resolved storage-trie nodes, keyed
// by owner || packed path, independent of any one Database's Config or
// clean cache lifetime.
var revealedPeek = newPeekCache()

type peekCache struct {
	cache *lru.Cache[string, []byte]
}

func newPeekCache() *peekCache {
	c, err := lru.New[string, []byte](revealedPeekSize)
	if err != nil {
		// Only returns an error for a non-positive size, which revealedPeekSize never is.
		panic(err)
	}
	return &peekCache{cache: c}
}

// CleanCacheStats exposes the clean-node cache hit/miss counters, read by
// the engine's metrics reporting alongside the histograms in spec §6.
func CleanCacheStats() (hits, misses int64) {
	return cleanHitMeter.Count(), cleanMissMeter.Count()
}

// PeekCacheHits reports how many storage-node lookups were satisfied by the
// cross-block revealed-subtrie peek cache rather than a Config lookup.
func PeekCacheHits() int64 {
	return peekHitMeter.Count()
}

// Database is the read-only, consistent view the caller opens for one
// block: a Config snapshot plus the clean-node cache backing it, matching
// spec §6's "consistent database view" collaborator. It hands out scoped
// BlindedProviders for the account trie and for each account's storage
// trie.
type Database struct {
	config *Config
	clean  *fastcache.Cache
}

// NewDatabase wraps config with an in-memory clean-node cache of the given
// byte size, the same cache idiom the upstream pathdb disk layer uses to
// avoid re-decoding hot nodes (grounded on disklayer.go's fastcache.Cache
// field).
func NewDatabase(config *Config, cleanCacheSize int) *Database {
	if config == nil {
		config = NewConfig()
	}
	return &Database{config: config, clean: fastcache.New(cleanCacheSize)}
}

// AccountNodeProvider returns the BlindedProvider for the account trie.
func (d *Database) AccountNodeProvider() strietrie.BlindedProvider {
	return &nodeProvider{db: d, owner: nil}
}

// StorageNodeProvider returns the BlindedProvider for addressHash's storage
// trie.
func (d *Database) StorageNodeProvider(addressHash common.Hash) strietrie.BlindedProvider {
	owner := addressHash
	return &nodeProvider{db: d, owner: &owner}
}

// nodeProvider resolves a trie path against the clean cache first, then
// (for a storage trie only) the cross-block revealedPeek cache, falling back
// to the Config's node snapshot when both miss.
type nodeProvider struct {
	db    *Database
	owner *common.Hash // nil for the account trie, set for a storage trie
}

func (p *nodeProvider) cacheKey(path []byte) []byte {
	if p.owner == nil {
		return append([]byte{0}, path...)
	}
	key := make([]byte, 0, 1+common.HashLength+len(path))
	key = append(key, 1)
	key = append(key, p.owner.Bytes()...)
	key = append(key, path...)
	return key
}

func (p *nodeProvider) Node(path strietrie.Nibbles) ([]byte, bool, error) {
	packed := path.Pack()
	key := p.cacheKey(packed)
	if enc, found := p.db.clean.HasGet(nil, key); found {
		cleanHitMeter.Mark(1)
		return enc, true, nil
	}
	if p.owner != nil {
		if enc, found := revealedPeek.cache.Get(string(key)); found {
			peekHitMeter.Mark(1)
			p.db.clean.Set(key, enc)
			return enc, true, nil
		}
	}
	cleanMissMeter.Mark(1)

	var enc []byte
	var ok bool
	if p.owner == nil {
		enc, ok = p.db.config.AccountNodes[string(packed)]
	} else if nodes, present := p.db.config.StorageNodes[*p.owner]; present {
		enc, ok = nodes[string(packed)]
	}
	if !ok {
		return nil, false, nil
	}
	p.db.clean.Set(key, enc)
	if p.owner != nil {
		revealedPeek.cache.Add(string(key), enc)
	}
	return enc, true, nil
}
