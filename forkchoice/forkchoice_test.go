// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package forkchoice

import (
	"testing"

	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/types"
)

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

// TestForkChoice_TieBreakByWeight reproduces scenario S5: two sibling
// blocks at the same slot, the one with more vote weight wins the head.
func TestForkChoice_TieBreakByWeight(t *testing.T) {
	fc := NewForkChoice()

	gen := mkBlock(common.Hash{}, 0, 1)
	fc.AddBlock(gen)

	forkA := mkBlock(gen.BlockHash, 1, 2)
	forkB := mkBlock(gen.BlockHash, 1, 3)
	fc.AddBlock(forkA)
	fc.AddBlock(forkB)

	fc.AddVote(&types.Vote{Slot: 1, BlockHash: forkA.BlockHash, Validator: common.Address{10}})
	fc.AddVote(&types.Vote{Slot: 1, BlockHash: forkB.BlockHash, Validator: common.Address{11}})
	fc.AddVote(&types.Vote{Slot: 1, BlockHash: forkB.BlockHash, Validator: common.Address{12}})

	head, ok := fc.Head()
	if !ok {
		t.Fatalf("Head() returned ok=false")
	}
	if head != forkB.BlockHash {
		t.Fatalf("Head() = %s, want forkB (more votes)", head)
	}
	if fc.ForkWeight(forkB.BlockHash) != 2 {
		t.Fatalf("ForkWeight(forkB) = %d, want 2", fc.ForkWeight(forkB.BlockHash))
	}
}

// TestForkChoice_TieBreakBySlot checks that with equal weight, the higher
// slot wins.
func TestForkChoice_TieBreakBySlot(t *testing.T) {
	fc := NewForkChoice()
	gen := mkBlock(common.Hash{}, 0, 1)
	fc.AddBlock(gen)

	low := mkBlock(gen.BlockHash, 1, 2)
	high := mkBlock(gen.BlockHash, 2, 2)
	fc.AddBlock(low)
	fc.AddBlock(high)

	head, _ := fc.Head()
	if head != high.BlockHash {
		t.Fatalf("Head() = %s, want the higher-slot block with equal (zero) weight", head)
	}
}

// TestForkChoice_VoteChangeReweighs checks that a validator's earlier vote
// is removed from its old tip's weight when the validator votes again.
func TestForkChoice_VoteChangeReweighs(t *testing.T) {
	fc := NewForkChoice()
	gen := mkBlock(common.Hash{}, 0, 1)
	fc.AddBlock(gen)
	forkA := mkBlock(gen.BlockHash, 1, 2)
	forkB := mkBlock(gen.BlockHash, 1, 3)
	fc.AddBlock(forkA)
	fc.AddBlock(forkB)

	validator := common.Address{20}
	fc.AddVote(&types.Vote{Slot: 1, BlockHash: forkA.BlockHash, Validator: validator})
	if fc.ForkWeight(forkA.BlockHash) != 1 {
		t.Fatalf("ForkWeight(forkA) = %d, want 1", fc.ForkWeight(forkA.BlockHash))
	}

	fc.AddVote(&types.Vote{Slot: 1, BlockHash: forkB.BlockHash, Validator: validator})
	if fc.ForkWeight(forkA.BlockHash) != 0 {
		t.Fatalf("ForkWeight(forkA) after revote = %d, want 0", fc.ForkWeight(forkA.BlockHash))
	}
	if fc.ForkWeight(forkB.BlockHash) != 1 {
		t.Fatalf("ForkWeight(forkB) after revote = %d, want 1", fc.ForkWeight(forkB.BlockHash))
	}
}

// stubStakeView is a StakeView backed by a plain map, for tests.
type stubStakeView map[common.Address]uint64

func (s stubStakeView) Stake(validator common.Address) (uint64, bool) {
	w, ok := s[validator]
	return w, ok
}

// TestForkChoice_AddVoteWeighsByStake checks that a validator with known
// stake contributes that stake's weight instead of 1, and that a second
// vote from the same validator unwinds exactly the weight it applied
// rather than a hardcoded amount.
func TestForkChoice_AddVoteWeighsByStake(t *testing.T) {
	fc := NewForkChoice()
	heavy := common.Address{20}
	light := common.Address{21}
	fc.SetStakeView(stubStakeView{heavy: 100})

	gen := mkBlock(common.Hash{}, 0, 1)
	fc.AddBlock(gen)
	forkA := mkBlock(gen.BlockHash, 1, 2)
	forkB := mkBlock(gen.BlockHash, 1, 3)
	fc.AddBlock(forkA)
	fc.AddBlock(forkB)

	fc.AddVote(&types.Vote{Slot: 1, BlockHash: forkA.BlockHash, Validator: heavy})
	fc.AddVote(&types.Vote{Slot: 1, BlockHash: forkB.BlockHash, Validator: light})
	if fc.ForkWeight(forkA.BlockHash) != 100 {
		t.Fatalf("ForkWeight(forkA) = %d, want 100 (staked validator)", fc.ForkWeight(forkA.BlockHash))
	}
	if fc.ForkWeight(forkB.BlockHash) != 1 {
		t.Fatalf("ForkWeight(forkB) = %d, want 1 (unstaked validator falls back to weight 1)", fc.ForkWeight(forkB.BlockHash))
	}

	// revoting unwinds exactly the 100 weight the first vote applied, not 1.
	fc.AddVote(&types.Vote{Slot: 1, BlockHash: forkB.BlockHash, Validator: heavy})
	if fc.ForkWeight(forkA.BlockHash) != 0 {
		t.Fatalf("ForkWeight(forkA) after revote = %d, want 0", fc.ForkWeight(forkA.BlockHash))
	}
	if fc.ForkWeight(forkB.BlockHash) != 101 {
		t.Fatalf("ForkWeight(forkB) after revote = %d, want 101 (1 light + 100 heavy)", fc.ForkWeight(forkB.BlockHash))
	}
}

func TestForkChoice_Forks(t *testing.T) {
	fc := NewForkChoice()
	gen := mkBlock(common.Hash{}, 0, 1)
	fc.AddBlock(gen)
	forkA := mkBlock(gen.BlockHash, 1, 2)
	forkB := mkBlock(gen.BlockHash, 1, 3)
	fc.AddBlock(forkA)
	fc.AddBlock(forkB)

	forks := fc.Forks()
	if len(forks) != 2 {
		t.Fatalf("Forks() returned %d tips, want 2", len(forks))
	}
}
