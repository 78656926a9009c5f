package trie

import "errors"

// ErrBlind is returned whenever an operation needs to descend through a
// trie path that has not been revealed by a proof and that the blinded
// provider (if any) could not resolve either. Per spec §7 this is always a
// sequencing bug upstream: the coordinator is supposed to guarantee the
// relevant proof was revealed before any mutation touches the path.
var ErrBlind = errors.New("trie: blind node: path not revealed")
