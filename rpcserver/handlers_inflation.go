// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package rpcserver

import (
	"encoding/json"

	"github.com/cielu/go-solana/svm"
)

func registerInflationMethods(d *Dispatcher) {
	d.Register("getStakeActivation", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		if _, err := decodeSingleAddressParam(params); err != nil {
			return nil, err
		}
		return map[string]interface{}{"state": "active", "active": 0, "inactive": 0}, nil
	})

	d.Register("getInflationGovernor", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		return map[string]float64{
			"initial":        0.08,
			"terminal":       0.015,
			"taper":          0.15,
			"foundation":     0.05,
			"foundationTerm": 7,
		}, nil
	})

	d.Register("getInflationRate", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		return map[string]interface{}{
			"total":      0.08,
			"validator":  0.076,
			"foundation": 0.004,
			"epoch":      d.currentSlot() / uint64(svm.DefaultSlotsPerEpoch),
		}, nil
	})

	d.Register("getInflationReward", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		var addrs []string
		if err := json.Unmarshal(params, &addrs); err != nil {
			return nil, invalidParams("expected [pubkeys[]] params")
		}
		out := make([]interface{}, len(addrs))
		return out, nil
	})
}
