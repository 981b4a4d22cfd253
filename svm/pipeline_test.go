// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package svm

import (
	"encoding/binary"
	"testing"

	"github.com/cielu/go-solana/accounts"
	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/types"
)

func transferData(lamports uint64) []byte {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint32(buf[:4], systemProgramTransfer)
	binary.LittleEndian.PutUint64(buf[4:], lamports)
	return buf
}

func newTransferTx(t *testing.T, from, to common.Address, lamports uint64) *types.Transaction {
	t.Helper()
	instr := types.NewGenericInstruction(common.SystemProgramID, []*types.AccountMeta{
		types.NewAccountMeta(from, true, true),
		types.NewAccountMeta(to, true, false),
	}, transferData(lamports))

	tx, err := types.NewTransaction([]types.Instruction{instr}, common.Hash{7}, from)
	if err != nil {
		t.Fatalf("NewTransaction: %v", err)
	}
	tx.Signatures = make([]common.Signature, tx.Message.Header.NumRequiredSignatures)
	return tx
}

func setupStoreWithFunding(t *testing.T, from, to common.Address, fromBalance, toBalance common.Lamports) accounts.Store {
	t.Helper()
	store := accounts.NewOverlayStore()
	if err := store.CreateAccount(from, &accounts.Account{Owner: common.SystemProgramID, Lamports: fromBalance}); err != nil {
		t.Fatalf("CreateAccount(from): %v", err)
	}
	if err := store.CreateAccount(to, &accounts.Account{Owner: common.SystemProgramID, Lamports: toBalance}); err != nil {
		t.Fatalf("CreateAccount(to): %v", err)
	}
	if err := store.CommitChanges(); err != nil {
		t.Fatalf("CommitChanges: %v", err)
	}
	return store
}

// TestPipeline_SuccessfulTransfer reproduces scenario S3: a well-formed
// transfer moves lamports and the fee is deducted from the payer, with the
// books balancing exactly.
func TestPipeline_SuccessfulTransfer(t *testing.T) {
	from := common.Address{1}
	to := common.Address{2}
	store := setupStoreWithFunding(t, from, to, 1_000_000, 0)

	pipeline := NewPipeline(store, NewNoopEngine())
	tx := newTransferTx(t, from, to, 10_000)

	outcome := pipeline.ProcessTransaction(tx)
	if !outcome.Success {
		t.Fatalf("ProcessTransaction failed: %v (kind=%s)", outcome.Err, outcome.ErrKind)
	}

	fromAcc, err := store.GetAccount(from)
	if err != nil {
		t.Fatalf("GetAccount(from): %v", err)
	}
	toAcc, err := store.GetAccount(to)
	if err != nil {
		t.Fatalf("GetAccount(to): %v", err)
	}

	wantFrom := common.Lamports(1_000_000) - 10_000 - outcome.FeeCharged
	if fromAcc.Lamports != wantFrom {
		t.Fatalf("from.Lamports = %d, want %d", fromAcc.Lamports, wantFrom)
	}
	if toAcc.Lamports != 10_000 {
		t.Fatalf("to.Lamports = %d, want 10000", toAcc.Lamports)
	}
}

// TestPipeline_InsufficientFundsRollsBackButChargesFee reproduces scenario
// S2: when the transfer itself fails (insufficient funds for the transfer
// amount, as opposed to the fee), only the fee deduction survives rollback.
func TestPipeline_InsufficientFundsRollsBackButChargesFee(t *testing.T) {
	from := common.Address{1}
	to := common.Address{2}
	store := setupStoreWithFunding(t, from, to, DefaultLamportsPerSignature+100, 0)

	pipeline := NewPipeline(store, NewNoopEngine())
	tx := newTransferTx(t, from, to, 10_000) // more than the payer has after the fee

	outcome := pipeline.ProcessTransaction(tx)
	if outcome.Success {
		t.Fatalf("ProcessTransaction succeeded, want failure (insufficient funds for transfer)")
	}

	fromAcc, err := store.GetAccount(from)
	if err != nil {
		t.Fatalf("GetAccount(from): %v", err)
	}
	toAcc, err := store.GetAccount(to)
	if err != nil {
		t.Fatalf("GetAccount(to): %v", err)
	}

	wantFrom := common.Lamports(DefaultLamportsPerSignature+100) - outcome.FeeCharged
	if fromAcc.Lamports != wantFrom {
		t.Fatalf("from.Lamports after rollback = %d, want %d (fee-only effect)", fromAcc.Lamports, wantFrom)
	}
	if toAcc.Lamports != 0 {
		t.Fatalf("to.Lamports after rollback = %d, want 0 (transfer undone)", toAcc.Lamports)
	}
}

func TestPipeline_MetricsTrackErrors(t *testing.T) {
	from := common.Address{1}
	to := common.Address{2}
	store := setupStoreWithFunding(t, from, to, DefaultLamportsPerSignature, 0)

	pipeline := NewPipeline(store, NewNoopEngine())
	tx := newTransferTx(t, from, to, 50_000)
	pipeline.ProcessTransaction(tx)

	if pipeline.Metrics().Total() == 0 {
		t.Fatalf("expected at least one recorded error")
	}
}
