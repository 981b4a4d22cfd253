// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package forkchoice

import (
	"testing"

	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/ledger"
	"github.com/cielu/go-solana/types"
)

func TestMain(m *testing.M) {
	prev := signatureVerify
	signatureVerify = func(common.Address, []byte, []byte) bool { return true }
	code := m.Run()
	signatureVerify = prev
	_ = code
}

func TestBlockValidator_AcceptsGenesis(t *testing.T) {
	store := ledger.NewMemStore()
	v := NewBlockValidator(store)

	gen := mkBlock(common.Hash{}, 0, 1)
	if err := v.Validate(gen); err != nil {
		t.Fatalf("Validate(genesis) = %v, want nil", err)
	}
}

// TestBlockValidator_BrokenChain reproduces scenario S1 at the validator
// boundary: a block whose parent was never stored is rejected.
func TestBlockValidator_BrokenChain(t *testing.T) {
	store := ledger.NewMemStore()
	v := NewBlockValidator(store)

	orphan := mkBlock(common.Hash{0xaa}, 1, 2)
	err := v.Validate(orphan)
	if err != ErrChainDiscontinuity {
		t.Fatalf("Validate(orphan) = %v, want ErrChainDiscontinuity", err)
	}
}

func TestBlockValidator_RejectsTamperedHash(t *testing.T) {
	store := ledger.NewMemStore()
	v := NewBlockValidator(store)

	gen := mkBlock(common.Hash{}, 0, 1)
	gen.BlockHash = common.Hash{0xff}

	if err := v.Validate(gen); err == nil {
		t.Fatalf("Validate(tampered) = nil, want an error")
	}
}

func TestBlockValidator_AcceptsChild(t *testing.T) {
	store := ledger.NewMemStore()
	v := NewBlockValidator(store)

	gen := mkBlock(common.Hash{}, 0, 1)
	if err := v.Validate(gen); err != nil {
		t.Fatalf("Validate(genesis): %v", err)
	}
	if err := store.StoreBlock(gen); err != nil {
		t.Fatalf("StoreBlock(genesis): %v", err)
	}

	child := mkBlock(gen.BlockHash, 1, 2)
	if err := v.Validate(child); err != nil {
		t.Fatalf("Validate(child) = %v, want nil", err)
	}
}

func TestBlockValidator_TransactionSignatureCountMismatch(t *testing.T) {
	store := ledger.NewMemStore()
	v := NewBlockValidator(store)

	gen := mkBlock(common.Hash{}, 0, 1)
	gen.Transactions = []*types.Transaction{
		{
			Signatures: nil,
			Message:    types.Message{Header: types.MessageHeader{NumRequiredSignatures: 1}},
		},
	}
	gen.BlockHash = gen.ComputeHash()

	if err := v.Validate(gen); err == nil {
		t.Fatalf("Validate with a signatureless required-signer transaction = nil, want error")
	}
}
