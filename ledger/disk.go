// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package ledger

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/corelog"
	"github.com/cielu/go-solana/pkg/encodbin"
	"github.com/cielu/go-solana/types"
)

// slotIndexRecordSize is the flat-file record layout for the slot index:
// an 8-byte little-endian slot followed by a 32-byte block hash.
const slotIndexRecordSize = 8 + common.HashLength

// DiskStore persists blocks as individual length-prefixed binary files under
// base/blocks/<hex hash>, with base/slot_index as an append-only flat file
// of fixed-size (slot, hash) records. It keeps the same in-memory indexes as
// MemStore for O(1) lookups, populated from disk by RebuildSlotIndex on
// startup.
type DiskStore struct {
	mem  *MemStore
	base string
	mu   sync.Mutex
	log  *corelog.Logger
}

// NewDiskStore opens (creating if absent) a ledger directory at base and
// rebuilds its in-memory indexes from whatever block files are present.
func NewDiskStore(base string) (*DiskStore, error) {
	if err := os.MkdirAll(filepath.Join(base, "blocks"), 0o755); err != nil {
		return nil, fmt.Errorf("ledger: create base dir: %w", err)
	}
	ds := &DiskStore{
		mem:  NewMemStore(),
		base: base,
		log:  corelog.New("ledger-disk"),
	}
	if err := ds.RebuildSlotIndex(); err != nil {
		return nil, err
	}
	return ds, nil
}

func (d *DiskStore) blockPath(hash common.Hash) string {
	return filepath.Join(d.base, "blocks", hex.EncodeToString(hash.Bytes()))
}

func (d *DiskStore) slotIndexPath() string {
	return filepath.Join(d.base, "slot_index")
}

// RebuildSlotIndex is the crash-recovery path: it rereads every block file
// under base/blocks, re-deriving the in-memory MemStore state from the block
// files alone (slot_index is not read, since a crash could have left it
// short an append), then rewrites slot_index from that state.
func (d *DiskStore) RebuildSlotIndex() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	blockDir := filepath.Join(d.base, "blocks")
	entries, err := os.ReadDir(blockDir)
	if err != nil {
		return fmt.Errorf("ledger: read blocks dir: %w", err)
	}

	fresh := NewMemStore()

	// Two passes: first load every genesis/parent-resolvable block in
	// slot order isn't guaranteed by directory listing, so retry until a
	// pass makes no progress (handles arbitrary parent-before-child gaps
	// introduced by filesystem ordering).
	pending := make(map[string]*types.Block, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(blockDir, e.Name()))
		if err != nil {
			return fmt.Errorf("ledger: read block file %s: %w", e.Name(), err)
		}
		block, err := decodeBlockRecord(raw)
		if err != nil {
			d.log.Warn("skipping corrupt block file %s: %v", e.Name(), err)
			continue
		}
		pending[e.Name()] = block
	}

	for len(pending) > 0 {
		progressed := false
		for name, block := range pending {
			if err := fresh.StoreBlock(block); err == nil {
				delete(pending, name)
				progressed = true
			}
		}
		if !progressed {
			d.log.Warn("rebuild stalled with %d unresolved block file(s)", len(pending))
			break
		}
	}

	d.mem = fresh
	return d.rewriteSlotIndexLocked()
}

func (d *DiskStore) rewriteSlotIndexLocked() error {
	buf := &bytes.Buffer{}
	slot, err := d.mem.GetLatestSlot()
	if err != nil {
		return os.WriteFile(d.slotIndexPath(), nil, 0o644)
	}
	for s := common.Slot(0); s <= slot; s++ {
		hash, ok := d.mem.slotIndex[s]
		if !ok {
			continue
		}
		var rec [slotIndexRecordSize]byte
		binary.LittleEndian.PutUint64(rec[:8], uint64(s))
		copy(rec[8:], hash.Bytes())
		buf.Write(rec[:])
	}
	return os.WriteFile(d.slotIndexPath(), buf.Bytes(), 0o644)
}

func encodeBlockRecord(b *types.Block) ([]byte, error) {
	enc := &bytes.Buffer{}
	e := encodbin.NewBinEncoder(enc)
	if err := e.WriteBytes(b.ParentHash.Bytes()); err != nil {
		return nil, err
	}
	if err := e.WriteBytes(b.BlockHash.Bytes()); err != nil {
		return nil, err
	}
	if err := e.WriteUint64(uint64(b.Slot), binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := e.WriteInt64(b.Timestamp, binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := e.WriteBytes(b.Producer.Bytes()); err != nil {
		return nil, err
	}
	if err := e.WriteBytes(b.Signature.Bytes()); err != nil {
		return nil, err
	}
	if err := e.WriteCompactU16(len(b.Transactions)); err != nil {
		return nil, err
	}
	for _, tx := range b.Transactions {
		txBytes, err := tx.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("ledger: marshal tx: %w", err)
		}
		if err := e.WriteUint32(uint32(len(txBytes)), binary.LittleEndian); err != nil {
			return nil, err
		}
		if err := e.WriteBytes(txBytes); err != nil {
			return nil, err
		}
	}
	return enc.Bytes(), nil
}

func decodeBlockRecord(raw []byte) (*types.Block, error) {
	dec := encodbin.NewBinDecoder(raw)
	b := &types.Block{}

	parentHash, err := dec.ReadNBytes(common.HashLength)
	if err != nil {
		return nil, err
	}
	b.ParentHash = common.BytesToHash(parentHash)

	blockHash, err := dec.ReadNBytes(common.HashLength)
	if err != nil {
		return nil, err
	}
	b.BlockHash = common.BytesToHash(blockHash)

	slot, err := dec.ReadUint64(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	b.Slot = common.Slot(slot)

	ts, err := dec.ReadInt64(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	b.Timestamp = ts

	producer, err := dec.ReadNBytes(common.AddressLength)
	if err != nil {
		return nil, err
	}
	b.Producer = common.BytesToAddress(producer)

	sig, err := dec.ReadNBytes(common.SignatureLength)
	if err != nil {
		return nil, err
	}
	b.Signature = common.BytesToSignature(sig)

	txCount, err := dec.ReadCompactU16Length()
	if err != nil {
		return nil, err
	}
	b.Transactions = make([]*types.Transaction, txCount)
	for i := 0; i < txCount; i++ {
		txLen, err := dec.ReadUint32(binary.LittleEndian)
		if err != nil {
			return nil, err
		}
		txBytes, err := dec.ReadNBytes(int(txLen))
		if err != nil {
			return nil, err
		}
		tx := &types.Transaction{}
		if err := tx.UnmarshalWithDecoder(encodbin.NewBinDecoder(txBytes)); err != nil {
			return nil, fmt.Errorf("ledger: unmarshal tx: %w", err)
		}
		b.Transactions[i] = tx
	}

	return b, nil
}

func (d *DiskStore) StoreBlock(block *types.Block) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.mem.StoreBlock(block); err != nil {
		return err
	}

	raw, err := encodeBlockRecord(block)
	if err != nil {
		return err
	}
	if err := os.WriteFile(d.blockPath(block.BlockHash), raw, 0o644); err != nil {
		return fmt.Errorf("ledger: write block file: %w", err)
	}

	f, err := os.OpenFile(d.slotIndexPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("ledger: open slot index: %w", err)
	}
	defer f.Close()
	var rec [slotIndexRecordSize]byte
	binary.LittleEndian.PutUint64(rec[:8], uint64(block.Slot))
	copy(rec[8:], block.BlockHash.Bytes())
	_, err = f.Write(rec[:])
	return err
}

func (d *DiskStore) GetBlock(hash common.Hash) (*types.Block, error) {
	return d.mem.GetBlock(hash)
}

func (d *DiskStore) GetBlockBySlot(slot common.Slot) (*types.Block, error) {
	return d.mem.GetBlockBySlot(slot)
}

func (d *DiskStore) GetLatestBlockHash() (common.Hash, error) {
	return d.mem.GetLatestBlockHash()
}

func (d *DiskStore) GetLatestSlot() (common.Slot, error) {
	return d.mem.GetLatestSlot()
}

func (d *DiskStore) GetBlockChain(hash common.Hash, limit int) ([]*types.Block, error) {
	return d.mem.GetBlockChain(hash, limit)
}

func (d *DiskStore) GetTransaction(txHash common.Hash) (*types.Transaction, *types.Block, error) {
	return d.mem.GetTransaction(txHash)
}

func (d *DiskStore) GetTransactionsBySlot(slot common.Slot) ([]*types.Transaction, error) {
	return d.mem.GetTransactionsBySlot(slot)
}

func (d *DiskStore) IsChainConsistent() (bool, error) {
	return d.mem.IsChainConsistent()
}

// CompactLedger removes unreachable blocks from both the in-memory index and
// their on-disk files, then rewrites slot_index to match.
func (d *DiskStore) CompactLedger(keepHead common.Hash) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.mem.mu.RLock()
	toRemove := make([]common.Hash, 0)
	reachable := make(map[common.Hash]bool)
	cur := keepHead
	for {
		b, ok := d.mem.blocks[cur]
		if !ok || reachable[cur] {
			break
		}
		reachable[cur] = true
		if b.IsGenesis() {
			break
		}
		cur = b.ParentHash
	}
	for hash := range d.mem.blocks {
		if !reachable[hash] {
			toRemove = append(toRemove, hash)
		}
	}
	d.mem.mu.RUnlock()

	removed, err := d.mem.CompactLedger(keepHead)
	if err != nil {
		return 0, err
	}
	for _, hash := range toRemove {
		_ = os.Remove(d.blockPath(hash))
	}
	return removed, d.rewriteSlotIndexLocked()
}
