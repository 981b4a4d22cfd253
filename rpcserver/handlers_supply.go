// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package rpcserver

import (
	"encoding/json"
	"fmt"

	"github.com/cielu/go-solana/common"
)

func registerSupplyMethods(d *Dispatcher) {
	d.Register("getSlotLeader", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		hash, err := d.Ledger.GetLatestBlockHash()
		if err != nil {
			return "", nil
		}
		block, err := d.Ledger.GetBlock(hash)
		if err != nil {
			return "", nil
		}
		return block.Producer.String(), nil
	})

	d.Register("minimumLedgerSlot", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		// This core never prunes below genesis (see getFirstAvailableBlock).
		return uint64(0), nil
	})

	d.Register("getHighestSnapshotSlot", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		slot := d.currentSlot()
		return map[string]uint64{"full": slot, "incremental": slot}, nil
	})

	d.Register("getRecentPerformanceSamples", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		return []interface{}{}, nil
	})

	d.Register("getRecentPrioritizationFees", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		return []interface{}{}, nil
	})

	d.Register("getSupply", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		var total, circulating uint64
		for _, acc := range d.Accounts.GetAllAccounts() {
			total += uint64(acc.Lamports)
			circulating += uint64(acc.Lamports)
		}
		return withContext(d.currentSlot(), map[string]interface{}{
			"total":          total,
			"circulating":    circulating,
			"nonCirculating": uint64(0),
		}), nil
	})

	d.Register("getTransactionCount", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		latest, err := d.Ledger.GetLatestSlot()
		if err != nil {
			return uint64(0), nil
		}
		var count uint64
		for s := uint64(0); s <= uint64(latest); s++ {
			txs, err := d.Ledger.GetTransactionsBySlot(common.Slot(s))
			if err != nil {
				continue
			}
			count += uint64(len(txs))
		}
		return count, nil
	})

	d.Register("requestAirdrop", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		// Airdrop is a devnet/testnet faucet concern, explicitly out of this
		// core's scope (staking reward distribution is named out of scope);
		// the method is registered so a client gets -32603 rather than
		// -32601, matching how the reference validator still registers it
		// on mainnet (where it always fails).
		return nil, fmt.Errorf("requestAirdrop is not available on this cluster")
	})

	d.Register("getMinimumDelegation", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		return uint64(1), nil
	})
}
