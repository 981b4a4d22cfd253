// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

// Package accounts owns the validator's account state: lamport balances,
// program-owned data blobs, and the executable/rent-epoch bookkeeping the
// SVM pipeline needs to run a transaction against them.
package accounts

import "github.com/cielu/go-solana/common"

// Account is one entry in account state.
type Account struct {
	Address    common.Address
	Owner      common.Address
	Lamports   common.Lamports
	Data       []byte
	Executable bool
	RentEpoch  common.Epoch
}

// Clone returns a deep copy, so callers holding a *Account from a Store read
// can mutate it freely without corrupting the store's own state.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	cp := *a
	if a.Data != nil {
		cp.Data = make([]byte, len(a.Data))
		copy(cp.Data, a.Data)
	}
	return &cp
}

// Size is the account's data length, the quantity rent is charged against.
func (a *Account) Size() uint64 {
	return uint64(len(a.Data))
}
