// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package forkchoice

import (
	"bytes"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/types"
)

// ForkState is one candidate chain tip: the weight accumulated from every
// vote cast for it (directly or via a descendant), and the slot/hash used
// to break weight ties deterministically.
type ForkState struct {
	BlockHash common.Hash
	Slot      common.Slot
	Weight    uint64
}

// StakeView supplies a validator's staked weight for vote-weighting in fork
// choice. A validator the StakeView has no record of contributes the
// default weight of 1, matching how an undelegated validator's vote still
// counts during bootstrap.
type StakeView interface {
	Stake(validator common.Address) (weight uint64, ok bool)
}

// noopStakeView is the zero-value StakeView: every validator is unknown, so
// every vote falls back to weight 1.
type noopStakeView struct{}

func (noopStakeView) Stake(common.Address) (uint64, bool) { return 0, false }

// recordedVote remembers the weight a validator's latest vote contributed,
// so a later superseding vote can unwind exactly that amount rather than
// re-querying the StakeView (whose answer may have changed in the
// meantime) a second time.
type recordedVote struct {
	Hash   common.Hash
	Weight uint64
}

// ForkChoice tracks every block and vote the validator has observed and
// picks the canonical head by weight, then slot, then lexicographically
// greater hash, so any two validators replaying the same block/vote set
// converge on the same head.
type ForkChoice struct {
	mu sync.RWMutex

	blocks     map[common.Hash]*types.Block
	parentOf   map[common.Hash]common.Hash
	latestVote map[common.Address]recordedVote // validator -> last applied vote
	weights    map[common.Hash]uint64
	children   map[common.Hash]mapset.Set[common.Hash]
	stakes     StakeView
}

// NewForkChoice returns an empty fork choice tracker where every vote
// counts as weight 1. Use SetStakeView to weight votes by delegated stake.
func NewForkChoice() *ForkChoice {
	return &ForkChoice{
		blocks:     make(map[common.Hash]*types.Block),
		parentOf:   make(map[common.Hash]common.Hash),
		latestVote: make(map[common.Address]recordedVote),
		weights:    make(map[common.Hash]uint64),
		children:   make(map[common.Hash]mapset.Set[common.Hash]),
		stakes:     noopStakeView{},
	}
}

// SetStakeView installs the stake lookup AddVote weighs votes by. A nil
// view restores the weight-1 default.
func (f *ForkChoice) SetStakeView(view StakeView) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if view == nil {
		view = noopStakeView{}
	}
	f.stakes = view
}

// AddBlock registers block as a fork-choice candidate. It assumes the block
// has already passed BlockValidator.Validate.
func (f *ForkChoice) AddBlock(block *types.Block) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.blocks[block.BlockHash] = block
	if !block.IsGenesis() {
		f.parentOf[block.BlockHash] = block.ParentHash
		set, ok := f.children[block.ParentHash]
		if !ok {
			set = mapset.NewThreadUnsafeSet[common.Hash]()
			f.children[block.ParentHash] = set
		}
		set.Add(block.BlockHash)
	}
	if _, ok := f.weights[block.BlockHash]; !ok {
		f.weights[block.BlockHash] = 0
	}
}

// AddVote records validator's vote for BlockHash, replacing any earlier
// vote by the same validator (only the latest vote counts toward weight).
// The weight applied is the validator's stake per the installed StakeView,
// or 1 if the validator's stake is unknown.
func (f *ForkChoice) AddVote(vote *types.Vote) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if prev, ok := f.latestVote[vote.Validator]; ok {
		if prev.Hash == vote.BlockHash {
			return
		}
		f.reweighLocked(prev.Hash, -int64(prev.Weight))
	}

	weight, ok := f.stakes.Stake(vote.Validator)
	if !ok {
		weight = 1
	}
	f.latestVote[vote.Validator] = recordedVote{Hash: vote.BlockHash, Weight: weight}
	f.reweighLocked(vote.BlockHash, int64(weight))
}

// reweighLocked applies delta to hash's weight and every ancestor's weight,
// modeling vote weight propagating up the chain to every block the voted
// tip descends from.
func (f *ForkChoice) reweighLocked(hash common.Hash, delta int64) {
	cur := hash
	for {
		w := int64(f.weights[cur]) + delta
		if w < 0 {
			w = 0
		}
		f.weights[cur] = uint64(w)
		parent, ok := f.parentOf[cur]
		if !ok {
			return
		}
		cur = parent
	}
}

// Forks returns the hash of every block currently tracked that has no
// recorded child, i.e. every candidate chain tip.
func (f *ForkChoice) Forks() []common.Hash {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var tips []common.Hash
	for hash := range f.blocks {
		children, ok := f.children[hash]
		if !ok || children.Cardinality() == 0 {
			tips = append(tips, hash)
		}
	}
	return tips
}

// ForkWeight returns the accumulated vote weight for hash.
func (f *ForkChoice) ForkWeight(hash common.Hash) uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.weights[hash]
}

// Head returns the canonical chain tip: the fork with the greatest weight,
// ties broken by greatest slot, then lexicographically greatest hash.
func (f *ForkChoice) Head() (common.Hash, bool) {
	tips := f.Forks()
	if len(tips) == 0 {
		return common.Hash{}, false
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	best := tips[0]
	for _, candidate := range tips[1:] {
		if f.better(candidate, best) {
			best = candidate
		}
	}
	return best, true
}

// better reports whether a should be preferred over b under the
// weight > slot > hash tie-break.
func (f *ForkChoice) better(a, b common.Hash) bool {
	wa, wb := f.weights[a], f.weights[b]
	if wa != wb {
		return wa > wb
	}
	sa, sb := f.blocks[a].Slot, f.blocks[b].Slot
	if sa != sb {
		return sa > sb
	}
	return bytes.Compare(a.Bytes(), b.Bytes()) > 0
}
