// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package svm

import (
	"fmt"

	"github.com/cielu/go-solana/accounts"
	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/types"
)

// DefaultMaxLoadedAccountsDataSize mirrors the reference validator's default
// cap on the total account data a single transaction may pull into memory.
const DefaultMaxLoadedAccountsDataSize = 64_000_000

// perAccountDataSizeOverhead is added per account to its raw data size when
// checking against max_loaded_data_size, accounting for the account's fixed
// metadata (owner, lamports, flags) alongside its variable-length data.
const perAccountDataSizeOverhead = 128

// LoadedTransaction pairs a transaction with the account set it touches,
// already pulled out of the account store and ready for speculative
// mutation by an ExecutionEngine.
type LoadedTransaction struct {
	Tx       *types.Transaction
	Accounts map[common.Address]*accounts.Account
	FeePayer common.Address
	// Rent maps an address to the rent it owes (RentCalculator.RentOwed over
	// the slots since its RentEpoch), for every account that loaded with a
	// zero lamport balance (typically a
	// freshly synthesized writable account with no prior existence in the
	// store, e.g. a transfer's brand-new recipient).
	Rent map[common.Address]common.Lamports
}

// AccountLoader resolves a transaction's account keys against a Store,
// enforcing the duplicate-writable, data-size, and fee-payer constraints
// that must hold before the transaction is allowed to execute.
type AccountLoader struct {
	store accounts.Store
}

func NewAccountLoader(store accounts.Store) *AccountLoader {
	return &AccountLoader{store: store}
}

// Load fetches every account named in tx.Message.AccountKeys. A writable
// account that doesn't exist yet loads as a zero-value account, as does the
// System program's own key; any other missing read-only account fails the
// load with an ErrAccountNotFound-classified error. fee is
// the flat per-signature fee about to be deducted from the fee payer;
// maxLoadedDataSize bounds the total account data this transaction may pull
// in (0 means unbounded); rent and currentSlot drive the rent-owed
// bookkeeping recorded into the returned LoadedTransaction.Rent.
func (l *AccountLoader) Load(tx *types.Transaction, fee common.Lamports, maxLoadedDataSize uint64, rent *RentCalculator, currentSlot common.Slot) (*LoadedTransaction, error) {
	if len(tx.Message.AccountKeys) == 0 {
		return nil, fmt.Errorf("%s: transaction has no account keys", ErrSanitizeFailure)
	}

	if err := l.checkDuplicateWritable(tx); err != nil {
		return nil, err
	}

	out := make(map[common.Address]*accounts.Account, len(tx.Message.AccountKeys))
	var totalDataSize uint64
	for i, addr := range tx.Message.AccountKeys {
		if _, ok := out[addr]; ok {
			continue
		}
		acc, err := l.fetch(tx, i, addr)
		if err != nil {
			return nil, err
		}
		out[addr] = acc
		totalDataSize += acc.Size() + perAccountDataSizeOverhead
	}
	if maxLoadedDataSize > 0 && totalDataSize > maxLoadedDataSize {
		return nil, fmt.Errorf("%s: loaded %d bytes of account data, exceeds limit of %d",
			ErrMaxLoadedAccountsDataSizeExceeded, totalDataSize, maxLoadedDataSize)
	}

	feePayerAddr := tx.Message.AccountKeys[0]
	feePayer := out[feePayerAddr]
	rentReserve := rent.MinimumBalance(feePayer.Size())
	required, err := fee.SafeAdd(rentReserve)
	if err != nil {
		return nil, fmt.Errorf("%s: fee payer requirement overflowed: %v", ErrInsufficientFundsForFee, err)
	}
	if feePayer.Lamports < required {
		return nil, fmt.Errorf("%s: fee payer %s has %d lamports, needs %d (fee %d + rent reserve %d)",
			ErrInsufficientFundsForFee, feePayerAddr, feePayer.Lamports, required, fee, rentReserve)
	}

	rentDue := make(map[common.Address]common.Lamports)
	for addr, acc := range out {
		if acc.Lamports == 0 {
			rentDue[addr] = rent.RentOwed(acc.Size(), currentSlot, common.Slot(acc.RentEpoch))
		}
	}

	return &LoadedTransaction{
		Tx:       tx,
		Accounts: out,
		FeePayer: feePayerAddr,
		Rent:     rentDue,
	}, nil
}

// checkDuplicateWritable rejects a transaction that names the same writable
// address more than once: replaying the same mutable account twice through
// the engine would double-apply its effects.
func (l *AccountLoader) checkDuplicateWritable(tx *types.Transaction) error {
	seen := make(map[common.Address]struct{}, len(tx.Message.AccountKeys))
	for i, addr := range tx.Message.AccountKeys {
		if !l.isWritable(tx, i) {
			continue
		}
		if _, ok := seen[addr]; ok {
			return fmt.Errorf("%s: writable account %s referenced more than once", ErrDuplicateInstruction, addr)
		}
		seen[addr] = struct{}{}
	}
	return nil
}

// fetch loads a single account from the store, synthesizing a fresh
// zero-value account for a writable address with no prior existence or for
// the System program (a builtin the store holds no account for), and
// failing for any other missing read-only reference.
func (l *AccountLoader) fetch(tx *types.Transaction, i int, addr common.Address) (*accounts.Account, error) {
	acc, err := l.store.GetAccount(addr)
	if err == accounts.ErrNotFound {
		if l.isWritable(tx, i) || addr == common.SystemProgramID {
			return &accounts.Account{Address: addr}, nil
		}
		return nil, fmt.Errorf("%s: account %s not found", ErrAccountNotFound, addr)
	} else if err != nil {
		return nil, err
	}
	return acc, nil
}

// isWritable reports whether the account key at index i is writable per the
// message header's signer/readonly layout.
func (l *AccountLoader) isWritable(tx *types.Transaction, i int) bool {
	h := tx.Message.Header
	n := len(tx.Message.AccountKeys)
	if i < int(h.NumRequiredSignatures) {
		return i < int(h.NumRequiredSignatures)-int(h.NumReadonlySignedAccounts)
	}
	unsignedIdx := i - int(h.NumRequiredSignatures)
	numUnsigned := n - int(h.NumRequiredSignatures)
	return unsignedIdx < numUnsigned-int(h.NumReadonlyUnsignedAccounts)
}
