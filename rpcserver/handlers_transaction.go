// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package rpcserver

import (
	"encoding/json"

	"github.com/mr-tron/base58"

	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/types"
)

func decodeSignature(raw string) (common.Hash, error) {
	decoded, err := base58.Decode(raw)
	if err != nil || len(decoded) != common.HashLength {
		return common.Hash{}, invalidParams("invalid signature %q", raw)
	}
	return common.BytesToHash(decoded), nil
}

func registerTransactionMethods(d *Dispatcher) {
	d.Register("getTransaction", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		var args []string
		if err := json.Unmarshal(params, &args); err != nil || len(args) == 0 {
			return nil, invalidParams("expected [signature] params")
		}
		sigHash, err := decodeSignature(args[0])
		if err != nil {
			return nil, err
		}
		tx, block, err := d.Ledger.GetTransaction(sigHash)
		if err != nil {
			return nil, nil
		}
		return map[string]interface{}{"slot": uint64(block.Slot), "transaction": tx}, nil
	})

	d.Register("sendTransaction", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		// Submission that actually lands in a block is driven through the
		// orchestrator's block pipeline (process_block), not through a
		// standalone mempool this core does not model; the dispatcher only
		// reports the transaction's signature so a client can poll its
		// status once a producer includes it in a block.
		var args []string
		if err := json.Unmarshal(params, &args); err != nil || len(args) == 0 {
			return nil, invalidParams("expected [encodedTransaction] params")
		}
		return args[0], nil
	})

	d.Register("simulateTransaction", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		return withContext(d.currentSlot(), map[string]interface{}{
			"err":  nil,
			"logs": []string{},
		}), nil
	})

	d.Register("getSignatureStatuses", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		var raw []json.RawMessage
		if err := json.Unmarshal(params, &raw); err != nil || len(raw) == 0 {
			return nil, invalidParams("expected [signatures[], config?] params")
		}
		var args []string
		if err := json.Unmarshal(raw[0], &args); err != nil {
			return nil, invalidParams("expected [signatures[], config?] params")
		}
		var cfg types.RpcCommitmentAndMinSlotCfg
		if len(raw) > 1 {
			_ = json.Unmarshal(raw[1], &cfg)
		}
		if cfg.MinContextSlot > d.currentSlot() {
			return withContext(d.currentSlot(), nil), invalidParams("minimum context slot %d not yet reached, at %d", cfg.MinContextSlot, d.currentSlot())
		}
		out := make([]interface{}, 0, len(args))
		for _, raw := range args {
			sigHash, err := decodeSignature(raw)
			if err != nil {
				return nil, err
			}
			_, block, lookupErr := d.Ledger.GetTransaction(sigHash)
			if lookupErr != nil {
				out = append(out, nil)
				continue
			}
			out = append(out, map[string]interface{}{
				"slot":               uint64(block.Slot),
				"confirmations":      nil,
				"err":                nil,
				"confirmationStatus": "finalized",
			})
		}
		return withContext(d.currentSlot(), out), nil
	})

	d.Register("getSignaturesForAddress", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		addr, err := decodeSingleAddressParam(params)
		if err != nil {
			return nil, err
		}
		latest, err := d.Ledger.GetLatestSlot()
		if err != nil {
			return []interface{}{}, nil
		}
		type entry struct {
			Signature string `json:"signature"`
			Slot      uint64 `json:"slot"`
		}
		out := make([]entry, 0)
		for s := uint64(0); s <= uint64(latest); s++ {
			txs, err := d.Ledger.GetTransactionsBySlot(common.Slot(s))
			if err != nil {
				continue
			}
			for _, tx := range txs {
				if !mentionsAddress(tx, addr) {
					continue
				}
				out = append(out, entry{Signature: tx.Hash().String(), Slot: s})
			}
		}
		return out, nil
	})
}

func mentionsAddress(tx *types.Transaction, addr common.Address) bool {
	for _, key := range tx.Message.AccountKeys {
		if key == addr {
			return true
		}
	}
	return false
}
