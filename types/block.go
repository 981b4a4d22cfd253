// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package types

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/cielu/go-solana/common"
)

// Block is one ledger entry: a producer-signed batch of transactions
// chained to its parent by hash. BlockHash is a deterministic function of
// every other field except Signature (see ComputeHash) so the ledger can re-verify it on
// store_block without trusting the wire value.
type Block struct {
	ParentHash   common.Hash
	BlockHash    common.Hash
	Slot         common.Slot
	Transactions []*Transaction
	Timestamp    int64
	Producer     common.Address
	Signature    common.Signature
}

// ComputeHash recomputes BlockHash = H(parent_hash || slot || timestamp ||
// producer || tx_merkle(transactions)). The merkle root here is a simple
// sequential hash chain over each transaction's own Hash(), sufficient to
// bind the transaction set without a full merkle tree implementation.
func (b *Block) ComputeHash() common.Hash {
	h := sha256.New()
	h.Write(b.ParentHash.Bytes())
	var slotBuf [8]byte
	binary.LittleEndian.PutUint64(slotBuf[:], uint64(b.Slot))
	h.Write(slotBuf[:])
	var tsBuf [8]byte
	binary.LittleEndian.PutUint64(tsBuf[:], uint64(b.Timestamp))
	h.Write(tsBuf[:])
	h.Write(b.Producer.Bytes())
	h.Write(b.txMerkleRoot())
	return common.BytesToHash(h.Sum(nil))
}

// txMerkleRoot folds every transaction hash into a single running digest in
// order; an empty transaction set hashes to the zero-length sha256 sum.
func (b *Block) txMerkleRoot() []byte {
	h := sha256.New()
	for _, tx := range b.Transactions {
		txHash := tx.Hash()
		h.Write(txHash.Bytes())
	}
	return h.Sum(nil)
}

// VerifyHash reports whether BlockHash matches ComputeHash().
func (b *Block) VerifyHash() bool {
	return b.BlockHash == b.ComputeHash()
}

// IsGenesis reports whether this is the slot-0 root of the chain.
func (b *Block) IsGenesis() bool {
	return b.Slot == 0
}
