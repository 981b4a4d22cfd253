// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package rpcserver

import (
	"encoding/json"

	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/svm"
)

func registerConsensusMethods(d *Dispatcher) {
	d.Register("getVoteAccounts", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		// Stake-weighted vote account enumeration belongs to the
		// staking/inflation collaborator surface this core does not model;
		// it reports the shape with empty lists rather than omitting the
		// method.
		return map[string]interface{}{
			"current":    []interface{}{},
			"delinquent": []interface{}{},
		}, nil
	})

	d.Register("getLeaderSchedule", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		latest, err := d.Ledger.GetLatestSlot()
		if err != nil {
			return map[string][]uint64{}, nil
		}
		schedule := make(map[string][]uint64)
		for s := uint64(0); s <= uint64(latest); s++ {
			block, err := d.Ledger.GetBlockBySlot(common.Slot(s))
			if err != nil {
				continue
			}
			key := block.Producer.String()
			schedule[key] = append(schedule[key], s)
		}
		return schedule, nil
	})

	d.Register("getEpochInfo", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		slot := d.currentSlot()
		const slotsPerEpoch = svm.DefaultSlotsPerEpoch
		return map[string]interface{}{
			"absoluteSlot": slot,
			"blockHeight":  slot,
			"epoch":        slot / slotsPerEpoch,
			"slotIndex":    slot % slotsPerEpoch,
			"slotsInEpoch": uint64(slotsPerEpoch),
		}, nil
	})

	d.Register("getEpochSchedule", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		return map[string]interface{}{
			"slotsPerEpoch":            uint64(svm.DefaultSlotsPerEpoch),
			"leaderScheduleSlotOffset": uint64(svm.DefaultSlotsPerEpoch),
			"warmup":                  false,
		}, nil
	})
}
