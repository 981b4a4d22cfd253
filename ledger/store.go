// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

// Package ledger owns the canonical block/transaction record: every block
// the validator has accepted, indexed by hash and by slot, with at most one
// canonical hash per slot.
package ledger

import (
	"fmt"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/corelog"
	"github.com/cielu/go-solana/types"
)

// ErrNotFound is returned by lookups that find nothing under the given key.
var ErrNotFound = fmt.Errorf("ledger: not found")

// ErrSlotOccupied is returned by StoreBlock when a different, already
// canonical block already occupies the target slot.
var ErrSlotOccupied = fmt.Errorf("ledger: slot already has a canonical block")

// ErrBrokenChain is returned by StoreBlock when the incoming block's parent
// hash does not resolve to a block already present in the store.
var ErrBrokenChain = fmt.Errorf("ledger: parent block not found")

// Store is the ledger's persistence contract. A single orchestrator goroutine
// is the only writer; readers (RPC handlers) may call concurrently.
type Store interface {
	// StoreBlock appends block to the ledger. It fails with ErrBrokenChain if
	// the parent is unknown (unless block is the genesis block) and with
	// ErrSlotOccupied if a different block already claims block.Slot.
	StoreBlock(block *types.Block) error

	// GetBlock returns the block with the given hash.
	GetBlock(hash common.Hash) (*types.Block, error)

	// GetBlockBySlot returns the canonical block stored at slot.
	GetBlockBySlot(slot common.Slot) (*types.Block, error)

	// GetLatestBlockHash returns the hash of the highest-slot block stored.
	GetLatestBlockHash() (common.Hash, error)

	// GetLatestSlot returns the highest slot stored.
	GetLatestSlot() (common.Slot, error)

	// GetBlockChain walks backward from hash through parent links, returning
	// up to limit blocks in descending-slot order. limit == 0 returns an
	// empty, non-nil slice.
	GetBlockChain(hash common.Hash, limit int) ([]*types.Block, error)

	// GetTransaction locates a transaction by its hash across all stored
	// blocks, returning the owning block alongside it.
	GetTransaction(txHash common.Hash) (*types.Transaction, *types.Block, error)

	// GetTransactionsBySlot returns every transaction in the block at slot.
	GetTransactionsBySlot(slot common.Slot) ([]*types.Transaction, error)

	// IsChainConsistent walks every stored block and reports whether each
	// one's stored hash matches its recomputed hash and each parent link
	// resolves, save for the designated genesis block.
	IsChainConsistent() (bool, error)

	// CompactLedger drops blocks not reachable backward from keepHead,
	// returning the number of blocks removed.
	CompactLedger(keepHead common.Hash) (int, error)
}

// MemStore is the default in-memory Store: a hash-keyed block map plus a
// slot index, guarded by a single RWMutex. It never survives a process
// restart; DiskStore is the persistent alternative (see disk.go).
type MemStore struct {
	mu        sync.RWMutex
	blocks    map[common.Hash]*types.Block
	slotIndex map[common.Slot]common.Hash
	latest    common.Slot
	haveAny   bool
	log       *corelog.Logger
}

// NewMemStore returns an empty in-memory ledger store.
func NewMemStore() *MemStore {
	return &MemStore{
		blocks:    make(map[common.Hash]*types.Block),
		slotIndex: make(map[common.Slot]common.Hash),
		log:       corelog.New("ledger"),
	}
}

func (s *MemStore) StoreBlock(block *types.Block) error {
	if block == nil {
		return fmt.Errorf("ledger: nil block")
	}
	if !block.VerifyHash() {
		return fmt.Errorf("ledger: block hash mismatch at slot %d", block.Slot)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !block.IsGenesis() {
		if _, ok := s.blocks[block.ParentHash]; !ok {
			return ErrBrokenChain
		}
	}

	if existingHash, ok := s.slotIndex[block.Slot]; ok && existingHash != block.BlockHash {
		return ErrSlotOccupied
	}

	s.blocks[block.BlockHash] = block
	s.slotIndex[block.Slot] = block.BlockHash
	if !s.haveAny || block.Slot >= s.latest {
		s.latest = block.Slot
		s.haveAny = true
	}
	s.log.Debug("stored block slot=%d hash=%s", block.Slot, block.BlockHash.String())
	return nil
}

func (s *MemStore) GetBlock(hash common.Hash) (*types.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blocks[hash]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *MemStore) GetBlockBySlot(slot common.Slot) (*types.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hash, ok := s.slotIndex[slot]
	if !ok {
		return nil, ErrNotFound
	}
	return s.blocks[hash], nil
}

func (s *MemStore) GetLatestBlockHash() (common.Hash, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.haveAny {
		return common.Hash{}, ErrNotFound
	}
	return s.slotIndex[s.latest], nil
}

func (s *MemStore) GetLatestSlot() (common.Slot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.haveAny {
		return 0, ErrNotFound
	}
	return s.latest, nil
}

func (s *MemStore) GetBlockChain(hash common.Hash, limit int) ([]*types.Block, error) {
	out := make([]*types.Block, 0, limit)
	if limit == 0 {
		return out, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	cur := hash
	for len(out) < limit {
		b, ok := s.blocks[cur]
		if !ok {
			break
		}
		out = append(out, b)
		if b.IsGenesis() {
			break
		}
		cur = b.ParentHash
	}
	return out, nil
}

func (s *MemStore) GetTransaction(txHash common.Hash) (*types.Transaction, *types.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.blocks {
		for _, tx := range b.Transactions {
			if tx.Hash() == txHash {
				return tx, b, nil
			}
		}
	}
	return nil, nil, ErrNotFound
}

func (s *MemStore) GetTransactionsBySlot(slot common.Slot) ([]*types.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hash, ok := s.slotIndex[slot]
	if !ok {
		return nil, ErrNotFound
	}
	return s.blocks[hash].Transactions, nil
}

func (s *MemStore) IsChainConsistent() (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for hash, b := range s.blocks {
		if hash != b.BlockHash {
			return false, nil
		}
		if !b.VerifyHash() {
			return false, nil
		}
		if !b.IsGenesis() {
			if _, ok := s.blocks[b.ParentHash]; !ok {
				return false, nil
			}
		}
	}
	return true, nil
}

// CompactLedger computes the set of blocks reachable backward from
// keepHead and removes everything else, using a mapset.Set to track the
// reachable hash frontier without revisiting a hash twice.
func (s *MemStore) CompactLedger(keepHead common.Hash) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reachable := mapset.NewThreadUnsafeSet[common.Hash]()
	cur := keepHead
	for {
		b, ok := s.blocks[cur]
		if !ok {
			break
		}
		if reachable.Contains(cur) {
			break
		}
		reachable.Add(cur)
		if b.IsGenesis() {
			break
		}
		cur = b.ParentHash
	}

	removed := 0
	for hash, b := range s.blocks {
		if reachable.Contains(hash) {
			continue
		}
		delete(s.blocks, hash)
		if s.slotIndex[b.Slot] == hash {
			delete(s.slotIndex, b.Slot)
		}
		removed++
	}
	s.log.Info("compacted ledger, removed=%d kept=%d", removed, reachable.Cardinality())
	return removed, nil
}
