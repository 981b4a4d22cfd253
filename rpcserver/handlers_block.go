// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package rpcserver

import (
	"encoding/json"

	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/types"
)

func registerBlockMethods(d *Dispatcher) {
	d.Register("getSlot", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		return d.currentSlot(), nil
	})

	d.Register("getBlock", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		var raw []json.RawMessage
		if err := json.Unmarshal(params, &raw); err != nil || len(raw) == 0 {
			return nil, invalidParams("expected [slot, config?] params")
		}
		var slot uint64
		if err := json.Unmarshal(raw[0], &slot); err != nil {
			return nil, invalidParams("expected [slot, config?] params")
		}
		var cfg types.RpcGetBlockContextCfg
		if len(raw) > 1 {
			_ = json.Unmarshal(raw[1], &cfg)
		}
		block, err := d.Ledger.GetBlockBySlot(common.Slot(slot))
		if err != nil {
			return nil, nil
		}
		// transactionDetails="none" and rewards are wire-level trimming
		// options the reference validator applies before serializing the
		// block; this core always returns the full block it stored.
		_ = cfg
		return block, nil
	})

	d.Register("getBlockHeight", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		slot, err := d.Ledger.GetLatestSlot()
		if err != nil {
			return uint64(0), nil
		}
		return uint64(slot), nil
	})

	d.Register("getBlocks", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		var args []uint64
		if err := json.Unmarshal(params, &args); err != nil || len(args) == 0 {
			return nil, invalidParams("expected [startSlot, endSlot?] params")
		}
		start := args[0]
		end, err := d.Ledger.GetLatestSlot()
		if err != nil {
			return []uint64{}, nil
		}
		if len(args) > 1 && args[1] < uint64(end) {
			end = common.Slot(args[1])
		}
		out := make([]uint64, 0)
		for s := start; s <= uint64(end); s++ {
			if _, err := d.Ledger.GetBlockBySlot(common.Slot(s)); err == nil {
				out = append(out, s)
			}
		}
		return out, nil
	})

	d.Register("getFirstAvailableBlock", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		// This core retains every block it has ever committed; there is no
		// separate ledger-cleanup horizon, so the first available slot is
		// always genesis (slot 0) once one exists.
		if _, err := d.Ledger.GetBlockBySlot(0); err != nil {
			return uint64(0), nil
		}
		return uint64(0), nil
	})

	d.Register("getGenesisHash", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		block, err := d.Ledger.GetBlockBySlot(0)
		if err != nil {
			return common.Hash{}.String(), nil
		}
		return block.BlockHash.String(), nil
	})

	d.Register("getSlotLeaders", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		var args []uint64
		if err := json.Unmarshal(params, &args); err != nil || len(args) < 2 {
			return nil, invalidParams("expected [startSlot, limit] params")
		}
		start, limit := args[0], args[1]
		out := make([]string, 0, limit)
		for i := uint64(0); i < limit; i++ {
			block, err := d.Ledger.GetBlockBySlot(common.Slot(start + i))
			if err != nil {
				break
			}
			out = append(out, block.Producer.String())
		}
		return out, nil
	})

	d.Register("getBlockProduction", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		latest, err := d.Ledger.GetLatestSlot()
		if err != nil {
			return withContext(d.currentSlot(), map[string]interface{}{"byIdentity": map[string]interface{}{}, "range": map[string]uint64{"firstSlot": 0, "lastSlot": 0}}), nil
		}
		byIdentity := make(map[string][2]uint64)
		for s := uint64(0); s <= uint64(latest); s++ {
			block, err := d.Ledger.GetBlockBySlot(common.Slot(s))
			if err != nil {
				continue
			}
			key := block.Producer.String()
			entry := byIdentity[key]
			entry[0]++
			entry[1]++
			byIdentity[key] = entry
		}
		return withContext(d.currentSlot(), map[string]interface{}{
			"byIdentity": byIdentity,
			"range":      map[string]uint64{"firstSlot": 0, "lastSlot": uint64(latest)},
		}), nil
	})
}
