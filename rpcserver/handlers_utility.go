// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package rpcserver

import (
	"encoding/json"

	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/svm"
)

func registerUtilityMethods(d *Dispatcher) {
	d.Register("getLatestBlockhash", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		hash, err := d.Ledger.GetLatestBlockHash()
		if err != nil {
			return withContext(d.currentSlot(), map[string]interface{}{"blockhash": common.Hash{}.String(), "lastValidBlockHeight": 0}), nil
		}
		return withContext(d.currentSlot(), map[string]interface{}{
			"blockhash":            hash.String(),
			"lastValidBlockHeight": d.currentSlot() + 150,
		}), nil
	})

	// getRecentBlockhash is the pre-v1.9 alias for getLatestBlockhash, kept
	// for clients still targeting the older wire contract.
	d.Register("getRecentBlockhash", d.methods["getLatestBlockhash"])

	d.Register("getFeeForMessage", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		return withContext(d.currentSlot(), uint64(svm.DefaultLamportsPerSignature)), nil
	})

	d.Register("isBlockhashValid", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		var args []string
		if err := json.Unmarshal(params, &args); err != nil || len(args) == 0 {
			return nil, invalidParams("expected [blockhash] params")
		}
		hash, err := decodeSignature(args[0])
		if err != nil {
			return nil, err
		}
		_, lookupErr := d.Ledger.GetBlock(hash)
		return withContext(d.currentSlot(), lookupErr == nil), nil
	})
}
