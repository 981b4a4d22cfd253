// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package validatorcore

import (
	"testing"

	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/eventbus"
	"github.com/cielu/go-solana/forkchoice"
	"github.com/cielu/go-solana/ledger"
	"github.com/cielu/go-solana/types"
)

func stubSignatureVerify() func() {
	restoreBlock := forkchoice.StubSignatureVerify(func(addr common.Address, message, sig []byte) bool {
		return true
	})
	restoreVote := types.StubVoteSignatureVerify(func(addr common.Address, message, sig []byte) bool {
		return true
	})
	return func() {
		restoreBlock()
		restoreVote()
	}
}

func mkBlock(parent common.Hash, slot common.Slot, producer byte) *types.Block {
	b := &types.Block{
		ParentHash: parent,
		Slot:       slot,
		Timestamp:  int64(slot) * 100,
		Producer:   common.Address{producer},
	}
	b.BlockHash = b.ComputeHash()
	return b
}

func newTestOrchestrator(t *testing.T) (*Orchestrator, *types.Block) {
	t.Helper()
	restoreVerify := stubSignatureVerify()
	t.Cleanup(restoreVerify)

	store := ledger.NewMemStore()
	o := NewOrchestrator(store, nil)
	gen := mkBlock(common.Hash{}, 0, 1)
	if err := o.Initialize(gen); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := o.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return o, gen
}

func TestOrchestrator_LifecycleOrdering(t *testing.T) {
	store := ledger.NewMemStore()
	o := NewOrchestrator(store, nil)

	if err := o.Start(); err == nil {
		t.Fatalf("Start before Initialize should fail")
	}
	if err := o.Initialize(nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := o.Initialize(nil); err == nil {
		t.Fatalf("double Initialize should fail")
	}
	if err := o.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := o.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if o.State() != StateStopped {
		t.Fatalf("State() = %s, want stopped", o.State())
	}
}

func TestOrchestrator_ProcessBlockUpdatesHead(t *testing.T) {
	o, gen := newTestOrchestrator(t)

	child := mkBlock(gen.BlockHash, 1, 2)
	if err := o.ProcessBlock(child); err != nil {
		t.Fatalf("ProcessBlock: %v", err)
	}

	head, ok := o.Head()
	if !ok {
		t.Fatalf("Head() ok=false")
	}
	if head != child.BlockHash {
		t.Fatalf("Head() = %s, want child", head)
	}
	if o.CurrentSlot() != 1 {
		t.Fatalf("CurrentSlot() = %d, want 1", o.CurrentSlot())
	}
}

func TestOrchestrator_ProcessBlockRejectsBrokenChain(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	orphan := mkBlock(common.Hash{0xaa}, 5, 2)
	err := o.ProcessBlock(orphan)
	if err != forkchoice.ErrChainDiscontinuity && err != ledger.ErrBrokenChain {
		t.Fatalf("ProcessBlock(orphan) = %v, want a broken-chain error", err)
	}
}

func TestOrchestrator_ProcessVoteRecordsForkWeight(t *testing.T) {
	restoreVerify := stubSignatureVerify()
	defer restoreVerify()

	store := ledger.NewMemStore()
	bus := eventbus.New()
	defer bus.Close()
	o := NewOrchestrator(store, bus)
	gen := mkBlock(common.Hash{}, 0, 1)
	_ = o.Initialize(gen)
	_ = o.Start()

	vote := &types.Vote{Slot: 0, BlockHash: gen.BlockHash, Validator: common.Address{5}}
	if err := o.ProcessVote(vote); err != nil {
		t.Fatalf("ProcessVote: %v", err)
	}
	if o.forkChoice.ForkWeight(gen.BlockHash) != 1 {
		t.Fatalf("vote weight not recorded")
	}
}
