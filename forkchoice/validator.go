// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

// Package forkchoice validates incoming blocks and picks the canonical
// chain head from the set of blocks and votes the validator has observed.
package forkchoice

import (
	"fmt"

	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/crypto"
	"github.com/cielu/go-solana/ledger"
	"github.com/cielu/go-solana/types"
)

// ErrStructuralInvalid is returned for a block that fails basic shape
// checks (missing producer, empty hash, hash/parent mismatch).
var ErrStructuralInvalid = fmt.Errorf("forkchoice: structurally invalid block")

// ErrSignatureInvalid is returned when a block's producer signature does
// not verify.
var ErrSignatureInvalid = fmt.Errorf("forkchoice: block signature invalid")

// ErrChainDiscontinuity is returned when a block's parent is not present in
// the ledger (the BrokenChain condition).
var ErrChainDiscontinuity = fmt.Errorf("forkchoice: parent block not in ledger")

// BlockValidator runs structural, signature, and chain-continuity checks
// against a ledger.Store before a block is accepted into fork choice.
type BlockValidator struct {
	store ledger.Store
}

// NewBlockValidator binds a validator to the ledger it checks continuity
// against.
func NewBlockValidator(store ledger.Store) *BlockValidator {
	return &BlockValidator{store: store}
}

// Validate runs every check in order, stopping at (and returning) the first
// failure: structural shape, hash recomputation, signature, then parent
// continuity. A genesis block (slot 0) skips the continuity check.
func (v *BlockValidator) Validate(block *types.Block) error {
	if err := v.validateStructure(block); err != nil {
		return err
	}
	if !block.VerifyHash() {
		return fmt.Errorf("%w: stored hash does not match recomputed hash", ErrStructuralInvalid)
	}
	if err := v.validateSignature(block); err != nil {
		return err
	}
	if !block.IsGenesis() {
		if _, err := v.store.GetBlock(block.ParentHash); err != nil {
			return ErrChainDiscontinuity
		}
	}
	for i, tx := range block.Transactions {
		if err := v.validateTransaction(tx); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
	}
	return nil
}

func (v *BlockValidator) validateStructure(block *types.Block) error {
	if block == nil {
		return fmt.Errorf("%w: nil block", ErrStructuralInvalid)
	}
	if block.Producer.IsEmpty() {
		return fmt.Errorf("%w: missing producer", ErrStructuralInvalid)
	}
	if block.BlockHash.IsEmpty() {
		return fmt.Errorf("%w: missing block hash", ErrStructuralInvalid)
	}
	if !block.IsGenesis() && block.ParentHash.IsEmpty() {
		return fmt.Errorf("%w: non-genesis block missing parent hash", ErrStructuralInvalid)
	}
	return nil
}

func (v *BlockValidator) validateSignature(block *types.Block) error {
	signed := block.ComputeHash()
	// The producer signs the block's own (recomputed) hash.
	ok := signatureVerify(block.Producer, signed.Bytes(), block.Signature.Bytes())
	if !ok {
		return ErrSignatureInvalid
	}
	return nil
}

func (v *BlockValidator) validateTransaction(tx *types.Transaction) error {
	if len(tx.Signatures) == 0 {
		return fmt.Errorf("transaction has no signatures")
	}
	if len(tx.Signatures) != int(tx.Message.Header.NumRequiredSignatures) {
		return fmt.Errorf("signature count %d does not match header NumRequiredSignatures %d",
			len(tx.Signatures), tx.Message.Header.NumRequiredSignatures)
	}
	return nil
}

// signatureVerify is declared as a var so tests can stub out ed25519
// verification against synthetic blocks without real signing keys.
var signatureVerify = crypto.Verify

// StubSignatureVerify overrides the signature check used by BlockValidator
// and returns a restore func. Exported so packages that build synthetic,
// unsigned blocks in their own tests (validatorcore) can disable real
// ed25519 verification without reaching into this package's internals.
func StubSignatureVerify(fn func(addr common.Address, message, sig []byte) bool) func() {
	prev := signatureVerify
	signatureVerify = fn
	return func() { signatureVerify = prev }
}
