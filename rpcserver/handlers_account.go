// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package rpcserver

import (
	"encoding/json"
	"math/big"

	"github.com/mr-tron/base58"

	"github.com/cielu/go-solana/accounts"
	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/svm"
	"github.com/cielu/go-solana/types"
)

// decodeCommitmentCfg reads an optional trailing RpcCommitmentCfg element
// out of a [pubkey, config?] params tuple. This core has a single
// committed account-store snapshot per request (no separate
// processed/confirmed/finalized views), so a requested commitment level
// other than the default is accepted but has no effect (getAccountInfo logs
// it at debug level).
func decodeCommitmentCfg(params json.RawMessage) types.RpcCommitmentCfg {
	var raw []json.RawMessage
	if err := json.Unmarshal(params, &raw); err != nil || len(raw) < 2 {
		return types.RpcCommitmentCfg{}
	}
	var cfg types.RpcCommitmentCfg
	_ = json.Unmarshal(raw[1], &cfg)
	return cfg
}

// accountInfoView mirrors the teacher's types.AccountInfo wire shape.
type accountInfoView struct {
	Data       common.SolData `json:"data"`
	Owner      common.Address `json:"owner"`
	Lamports   *big.Int       `json:"lamports"`
	RentEpoch  *big.Int       `json:"rentEpoch"`
	Executable bool           `json:"executable"`
	Space      uint64         `json:"space,omitempty"`
}

func toAccountInfoView(acc *accounts.Account) accountInfoView {
	return accountInfoView{
		Data:       common.SolData{RawData: acc.Data, Encoding: "base58"},
		Owner:      acc.Owner,
		Lamports:   new(big.Int).SetUint64(uint64(acc.Lamports)),
		RentEpoch:  new(big.Int).SetUint64(uint64(acc.RentEpoch)),
		Executable: acc.Executable,
		Space:      uint64(len(acc.Data)),
	}
}

func parseAddress(raw string) (common.Address, error) {
	decoded, err := base58.Decode(raw)
	if err != nil || len(decoded) != common.AddressLength {
		return common.Address{}, invalidParams("invalid pubkey %q", raw)
	}
	return common.BytesToAddress(decoded), nil
}

func decodeSingleAddressParam(params json.RawMessage) (common.Address, error) {
	var args []string
	if err := json.Unmarshal(params, &args); err != nil || len(args) == 0 {
		return common.Address{}, invalidParams("expected [pubkey] params")
	}
	return parseAddress(args[0])
}

func registerAccountMethods(d *Dispatcher) {
	d.Register("getAccountInfo", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		addr, err := decodeSingleAddressParam(params)
		if err != nil {
			return nil, err
		}
		if cfg := decodeCommitmentCfg(params); cfg.Commitment != "" {
			d.log.Debug("getAccountInfo: requested commitment %q has no effect on this core's single snapshot", cfg.Commitment)
		}
		acc, err := d.Accounts.GetAccount(addr)
		if err != nil {
			return withContext(d.currentSlot(), nil), nil
		}
		return withContext(d.currentSlot(), toAccountInfoView(acc)), nil
	})

	d.Register("getBalance", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		addr, err := decodeSingleAddressParam(params)
		if err != nil {
			return nil, err
		}
		_ = decodeCommitmentCfg(params)
		acc, err := d.Accounts.GetAccount(addr)
		if err != nil {
			return withContext(d.currentSlot(), 0), nil
		}
		return withContext(d.currentSlot(), uint64(acc.Lamports)), nil
	})

	d.Register("getMultipleAccounts", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		var args []string
		if err := json.Unmarshal(params, &args); err != nil {
			return nil, invalidParams("expected [pubkeys[]] params")
		}
		out := make([]*accountInfoView, 0, len(args))
		for _, raw := range args {
			addr, err := parseAddress(raw)
			if err != nil {
				return nil, err
			}
			acc, err := d.Accounts.GetAccount(addr)
			if err != nil {
				out = append(out, nil)
				continue
			}
			view := toAccountInfoView(acc)
			out = append(out, &view)
		}
		return withContext(d.currentSlot(), out), nil
	})

	d.Register("getProgramAccounts", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		owner, err := decodeSingleAddressParam(params)
		if err != nil {
			return nil, err
		}
		accs, err := d.Accounts.GetAccountsByOwner(owner)
		if err != nil {
			return nil, err
		}
		type entry struct {
			Pubkey  common.Address  `json:"pubkey"`
			Account accountInfoView `json:"account"`
		}
		out := make([]entry, 0, len(accs))
		for _, acc := range accs {
			out = append(out, entry{Pubkey: acc.Address, Account: toAccountInfoView(acc)})
		}
		return out, nil
	})

	d.Register("getLargestAccounts", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		all := d.Accounts.GetAllAccounts()
		type entry struct {
			Address  common.Address `json:"address"`
			Lamports uint64         `json:"lamports"`
		}
		out := make([]entry, 0, len(all))
		for _, acc := range all {
			out = append(out, entry{Address: acc.Address, Lamports: uint64(acc.Lamports)})
		}
		// insertion-sort descending by lamports; account counts in this core
		// are small enough that an O(n^2) sort needs no justification.
		for i := 1; i < len(out); i++ {
			for j := i; j > 0 && out[j].Lamports > out[j-1].Lamports; j-- {
				out[j], out[j-1] = out[j-1], out[j]
			}
		}
		if len(out) > 20 {
			out = out[:20]
		}
		return withContext(d.currentSlot(), out), nil
	})

	d.Register("getMinimumBalanceForRentExemption", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		var args []uint64
		if err := json.Unmarshal(params, &args); err != nil || len(args) == 0 {
			return nil, invalidParams("expected [dataLength] params")
		}
		rent := svm.NewRentCalculator()
		return uint64(rent.MinimumBalance(args[0])), nil
	})
}
