package stateroot

import (
	"golang.org/x/sync/errgroup"

	"github.com/bnb-chain/stateroot-engine/common"
	"github.com/bnb-chain/stateroot-engine/proof"
	strietrie "github.com/bnb-chain/stateroot-engine/trie"
	"github.com/bnb-chain/stateroot-engine/triedb"
)

// ComputeMultiProof gathers the Merkle evidence for targets out of config's
// node snapshot: every cached node whose path is an ancestor of a target's
// full path belongs in its proof (the root-to-leaf path a verifier replays).
// Each account's storage proof is independent of every other, so they fan
// out across an errgroup — the "may itself parallelise internally" allowance
// in spec §5 — and are gathered back into one MultiProof afterwards.
func ComputeMultiProof(cfg *triedb.Config, targets *proof.Targets) (*proof.MultiProof, error) {
	result := proof.NewMultiProof()
	accounts := targets.Accounts()

	for _, addr := range accounts {
		path := strietrie.UnpackNibbles(addr.Bytes())
		for _, anc := range ancestorsOf(cfg.AccountNodes, path) {
			result.AddAccountNode(anc.path, anc.enc)
		}
	}

	type storageResult struct {
		addr  common.Hash
		nodes []ancestor
	}
	g := new(errgroup.Group)
	results := make([]storageResult, len(accounts))
	for i, addr := range accounts {
		i, addr := i, addr
		slots := targets.Slots(addr)
		if slots == nil || slots.Cardinality() == 0 {
			continue
		}
		g.Go(func() error {
			nodes, present := cfg.StorageNodes[addr]
			if !present {
				return nil
			}
			var gathered []ancestor
			for _, slot := range slots.ToSlice() {
				path := strietrie.UnpackNibbles(slot.Bytes())
				gathered = append(gathered, ancestorsOf(nodes, path)...)
			}
			results[i] = storageResult{addr: addr, nodes: gathered}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, r := range results {
		for _, anc := range r.nodes {
			result.AddStorageNode(r.addr, anc.path, anc.enc)
		}
	}
	return result, nil
}

type ancestor struct {
	path []byte
	enc  []byte
}

// ancestorsOf returns every entry in nodes whose key is a prefix of path,
// each once per call. No deduplication happens across calls: gathering for
// several paths can repeat a shared ancestor.
func ancestorsOf(nodes map[string][]byte, path strietrie.Nibbles) []ancestor {
	target := string(path)
	var out []ancestor
	for key, enc := range nodes {
		if len(key) <= len(target) && target[:len(key)] == key {
			out = append(out, ancestor{path: []byte(key), enc: enc})
		}
	}
	return out
}
