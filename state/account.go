// Package state defines the hashed state delta types the engine consumes:
// the canonical, hash-keyed form of an EVM state update (spec §3).
package state

import (
	"github.com/holiman/uint256"

	"github.com/bnb-chain/stateroot-engine/common"
	"github.com/bnb-chain/stateroot-engine/rlp"
)

// Account is the trie-encodable account record: nonce, balance, storage
// root, and code hash, matching go-ethereum's account leaf shape.
type Account struct {
	Nonce       uint64
	Balance     *uint256.Int
	StorageRoot common.Hash
	CodeHash    common.Hash
}

// EmptyCodeHash is the keccak256 hash of the empty byte string, the
// CodeHash of an account with no code.
var EmptyCodeHash = common.HexToHash("c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")

// EmptyRoot is the root hash of an empty trie, the StorageRoot of an
// account with no storage.
var EmptyRoot = common.HexToHash("56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421")

// NewAccount returns a freshly-created account with zero balance and no
// code or storage.
func NewAccount() *Account {
	return &Account{Balance: new(uint256.Int), StorageRoot: EmptyRoot, CodeHash: EmptyCodeHash}
}

// Encode returns the RLP encoding of the account leaf value.
func (a *Account) Encode() []byte {
	balance := a.Balance
	if balance == nil {
		balance = new(uint256.Int)
	}
	return rlp.EncodeList(
		rlp.EncodeFixedSize(new(uint256.Int).SetUint64(a.Nonce)),
		rlp.EncodeFixedSize(balance),
		rlp.EncodeBytes(a.StorageRoot.Bytes()),
		rlp.EncodeBytes(a.CodeHash.Bytes()),
	)
}
