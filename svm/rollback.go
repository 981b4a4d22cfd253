// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package svm

import (
	"github.com/cielu/go-solana/accounts"
	"github.com/cielu/go-solana/common"
)

// RollbackSet snapshots the pre-execution lamports/data of every account a
// transaction touches, so a failed transaction can be rolled back to
// exactly its fee-only effect: the fee payer's balance drop stands, every
// other mutation (and the fee payer's non-fee mutations) is undone.
type RollbackSet struct {
	snapshots map[common.Address]*accounts.Account
	feePayer  common.Address
	feeCharged common.Lamports
}

// NewRollbackSet snapshots accounts ahead of speculative execution.
func NewRollbackSet(loaded map[common.Address]*accounts.Account, feePayer common.Address) *RollbackSet {
	snap := make(map[common.Address]*accounts.Account, len(loaded))
	for addr, acc := range loaded {
		snap[addr] = acc.Clone()
	}
	return &RollbackSet{snapshots: snap, feePayer: feePayer}
}

// SetFeeCharged records the lamports deducted from the fee payer before
// invoking the execution engine, the one mutation Rollback preserves.
func (r *RollbackSet) SetFeeCharged(amount common.Lamports) {
	r.feeCharged = amount
}

// Rollback applies the fee-only rollback to store: every snapshotted
// account reverts to its pre-execution state except the fee payer, whose
// balance is restored to pre-execution minus feeCharged. A snapshotted
// address the store never actually held (a synthetic account created only
// in-memory during Load, then never committed) is skipped rather than
// written back, since there is nothing in the store to roll back.
func (r *RollbackSet) Rollback(store accounts.Store) error {
	for addr, snap := range r.snapshots {
		if !store.AccountExists(addr) {
			continue
		}
		restored := snap.Clone()
		if addr == r.feePayer {
			post, err := restored.Lamports.SafeSub(r.feeCharged)
			if err != nil {
				return err
			}
			restored.Lamports = post
		}
		if err := store.UpdateAccount(addr, restored); err != nil {
			return err
		}
	}
	return nil
}

// PreBalances returns the lamports of every snapshotted account, keyed by
// address, for use by the balance collector.
func (r *RollbackSet) PreBalances() map[common.Address]common.Lamports {
	out := make(map[common.Address]common.Lamports, len(r.snapshots))
	for addr, acc := range r.snapshots {
		out[addr] = acc.Lamports
	}
	return out
}
