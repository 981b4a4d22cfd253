// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package ledger

import (
	"testing"

	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/types"
)

func genesisBlock() *types.Block {
	b := &types.Block{
		Slot:      0,
		Timestamp: 1000,
		Producer:  common.Address{1},
	}
	b.BlockHash = b.ComputeHash()
	return b
}

func childBlock(parent *types.Block) *types.Block {
	b := &types.Block{
		ParentHash: parent.BlockHash,
		Slot:       parent.Slot + 1,
		Timestamp:  parent.Timestamp + 1,
		Producer:   common.Address{1},
	}
	b.BlockHash = b.ComputeHash()
	return b
}

func TestMemStore_LedgerContinuity(t *testing.T) {
	s := NewMemStore()

	gen := genesisBlock()
	if err := s.StoreBlock(gen); err != nil {
		t.Fatalf("store genesis: %v", err)
	}

	b1 := childBlock(gen)
	if err := s.StoreBlock(b1); err != nil {
		t.Fatalf("store b1: %v", err)
	}

	b2 := childBlock(b1)
	if err := s.StoreBlock(b2); err != nil {
		t.Fatalf("store b2: %v", err)
	}

	latest, err := s.GetLatestSlot()
	if err != nil || latest != 2 {
		t.Fatalf("GetLatestSlot = %v, %v; want 2, nil", latest, err)
	}

	chain, err := s.GetBlockChain(b2.BlockHash, 10)
	if err != nil {
		t.Fatalf("GetBlockChain: %v", err)
	}
	if len(chain) != 3 {
		t.Fatalf("GetBlockChain returned %d blocks, want 3", len(chain))
	}
	if chain[0].BlockHash != b2.BlockHash || chain[2].BlockHash != gen.BlockHash {
		t.Fatalf("GetBlockChain order wrong: %+v", chain)
	}

	ok, err := s.IsChainConsistent()
	if err != nil || !ok {
		t.Fatalf("IsChainConsistent = %v, %v; want true, nil", ok, err)
	}
}

// TestMemStore_BrokenChain reproduces scenario S1: a block whose parent hash
// does not resolve to any stored block must be rejected with ErrBrokenChain
// and must not mutate the store.
func TestMemStore_BrokenChain(t *testing.T) {
	s := NewMemStore()

	gen := genesisBlock()
	if err := s.StoreBlock(gen); err != nil {
		t.Fatalf("store genesis: %v", err)
	}

	orphan := &types.Block{
		ParentHash: common.Hash{0xff},
		Slot:       1,
		Timestamp:  2000,
		Producer:   common.Address{2},
	}
	orphan.BlockHash = orphan.ComputeHash()

	err := s.StoreBlock(orphan)
	if err != ErrBrokenChain {
		t.Fatalf("StoreBlock(orphan) = %v, want ErrBrokenChain", err)
	}

	if _, err := s.GetBlock(orphan.BlockHash); err != ErrNotFound {
		t.Fatalf("orphan block should not have been stored, got err=%v", err)
	}
	latest, err := s.GetLatestSlot()
	if err != nil || latest != 0 {
		t.Fatalf("GetLatestSlot after rejected orphan = %v, %v; want 0, nil", latest, err)
	}
}

func TestMemStore_SlotOccupied(t *testing.T) {
	s := NewMemStore()
	gen := genesisBlock()
	if err := s.StoreBlock(gen); err != nil {
		t.Fatalf("store genesis: %v", err)
	}

	b1 := childBlock(gen)
	if err := s.StoreBlock(b1); err != nil {
		t.Fatalf("store b1: %v", err)
	}

	competing := &types.Block{
		ParentHash: gen.BlockHash,
		Slot:       1,
		Timestamp:  9999,
		Producer:   common.Address{3},
	}
	competing.BlockHash = competing.ComputeHash()

	if err := s.StoreBlock(competing); err != ErrSlotOccupied {
		t.Fatalf("StoreBlock(competing) = %v, want ErrSlotOccupied", err)
	}
}

func TestMemStore_CompactLedger(t *testing.T) {
	s := NewMemStore()
	gen := genesisBlock()
	_ = s.StoreBlock(gen)
	b1 := childBlock(gen)
	_ = s.StoreBlock(b1)
	b2 := childBlock(b1)
	_ = s.StoreBlock(b2)

	removed, err := s.CompactLedger(b2.BlockHash)
	if err != nil {
		t.Fatalf("CompactLedger: %v", err)
	}
	if removed != 0 {
		t.Fatalf("CompactLedger removed=%d, want 0 (all 3 blocks reachable from head)", removed)
	}

	if _, err := s.GetBlock(gen.BlockHash); err != nil {
		t.Fatalf("genesis should still be reachable: %v", err)
	}
}

func TestMemStore_EmptyChainLookup(t *testing.T) {
	s := NewMemStore()
	chain, err := s.GetBlockChain(common.Hash{}, 0)
	if err != nil {
		t.Fatalf("GetBlockChain with limit 0: %v", err)
	}
	if len(chain) != 0 {
		t.Fatalf("GetBlockChain with limit 0 returned %d entries, want 0", len(chain))
	}
}
