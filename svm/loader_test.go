// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package svm

import (
	"strings"
	"testing"

	"github.com/cielu/go-solana/accounts"
	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/types"
)

func newDuplicateWritableTx(t *testing.T, payer common.Address) *types.Transaction {
	t.Helper()
	instr := types.NewGenericInstruction(common.SystemProgramID, []*types.AccountMeta{
		types.NewAccountMeta(payer, true, true),
		types.NewAccountMeta(payer, true, false),
	}, transferData(1))
	tx, err := types.NewTransaction([]types.Instruction{instr}, common.Hash{7}, payer)
	if err != nil {
		t.Fatalf("NewTransaction: %v", err)
	}
	// NewTransaction merges repeated keys, so repeat the payer in the
	// compiled key list directly, as a writable unsigned key.
	keys := tx.Message.AccountKeys
	tx.Message.AccountKeys = append([]common.Address{keys[0], payer}, keys[1:]...)
	tx.Signatures = make([]common.Signature, tx.Message.Header.NumRequiredSignatures)
	return tx
}

func TestAccountLoader_RejectsDuplicateWritableAccount(t *testing.T) {
	payer := common.Address{1}
	store := accounts.NewOverlayStore()
	if err := store.CreateAccount(payer, &accounts.Account{Owner: common.SystemProgramID, Lamports: 1_000_000}); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if err := store.CommitChanges(); err != nil {
		t.Fatalf("CommitChanges: %v", err)
	}

	loader := NewAccountLoader(store)
	tx := newDuplicateWritableTx(t, payer)
	_, err := loader.Load(tx, DefaultLamportsPerSignature, DefaultMaxLoadedAccountsDataSize, NewRentCalculator(), 0)
	if err == nil || !strings.HasPrefix(err.Error(), string(ErrDuplicateInstruction)+":") {
		t.Fatalf("Load with a duplicate writable account = %v, want an %s error", err, ErrDuplicateInstruction)
	}
}

func TestAccountLoader_RejectsOverMaxLoadedDataSize(t *testing.T) {
	from := common.Address{1}
	to := common.Address{2}
	store := accounts.NewOverlayStore()
	if err := store.CreateAccount(from, &accounts.Account{Owner: common.SystemProgramID, Lamports: 1_000_000, Data: make([]byte, 1024)}); err != nil {
		t.Fatalf("CreateAccount(from): %v", err)
	}
	if err := store.CreateAccount(to, &accounts.Account{Owner: common.SystemProgramID}); err != nil {
		t.Fatalf("CreateAccount(to): %v", err)
	}
	if err := store.CommitChanges(); err != nil {
		t.Fatalf("CommitChanges: %v", err)
	}

	loader := NewAccountLoader(store)
	tx := newTransferTx(t, from, to, 10_000)
	_, err := loader.Load(tx, DefaultLamportsPerSignature, 512, NewRentCalculator(), 0)
	if err == nil || !strings.HasPrefix(err.Error(), string(ErrMaxLoadedAccountsDataSizeExceeded)+":") {
		t.Fatalf("Load over the data-size limit = %v, want an %s error", err, ErrMaxLoadedAccountsDataSizeExceeded)
	}
}

func TestAccountLoader_RejectsFeePayerBelowFeePlusRentReserve(t *testing.T) {
	from := common.Address{1}
	to := common.Address{2}
	store := accounts.NewOverlayStore()
	// from has enough to cover the fee alone, but not the rent reserve its
	// own (non-empty) data requires to stay exempt.
	rent := NewRentCalculator()
	size := uint64(256)
	reserve := rent.MinimumBalance(size)
	if err := store.CreateAccount(from, &accounts.Account{Owner: common.SystemProgramID, Lamports: DefaultLamportsPerSignature, Data: make([]byte, size)}); err != nil {
		t.Fatalf("CreateAccount(from): %v", err)
	}
	if err := store.CreateAccount(to, &accounts.Account{Owner: common.SystemProgramID}); err != nil {
		t.Fatalf("CreateAccount(to): %v", err)
	}
	if err := store.CommitChanges(); err != nil {
		t.Fatalf("CommitChanges: %v", err)
	}
	if reserve == 0 {
		t.Skip("rent reserve for this size rounds to zero, nothing to test")
	}

	loader := NewAccountLoader(store)
	tx := newTransferTx(t, from, to, 10_000)
	_, err := loader.Load(tx, DefaultLamportsPerSignature, DefaultMaxLoadedAccountsDataSize, rent, 0)
	if err == nil || !strings.HasPrefix(err.Error(), string(ErrInsufficientFundsForFee)+":") {
		t.Fatalf("Load with fee payer below fee+rent reserve = %v, want an %s error", err, ErrInsufficientFundsForFee)
	}
}

func TestAccountLoader_AccumulatesRentForZeroBalanceAccounts(t *testing.T) {
	from := common.Address{1}
	to := common.Address{2}
	store := accounts.NewOverlayStore()
	if err := store.CreateAccount(from, &accounts.Account{Owner: common.SystemProgramID, Lamports: 1_000_000}); err != nil {
		t.Fatalf("CreateAccount(from): %v", err)
	}
	if err := store.CommitChanges(); err != nil {
		t.Fatalf("CommitChanges: %v", err)
	}

	loader := NewAccountLoader(store)
	tx := newTransferTx(t, from, to, 10_000)
	loaded, err := loader.Load(tx, DefaultLamportsPerSignature, DefaultMaxLoadedAccountsDataSize, NewRentCalculator(), 100)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := loaded.Rent[to]; !ok {
		t.Fatalf("Load did not record rent bookkeeping for brand-new zero-balance account %s", to)
	}
}
