// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package accounts

import (
	"testing"

	"github.com/cielu/go-solana/common"
)

func TestOverlayStore_CreateGetCommit(t *testing.T) {
	s := NewOverlayStore()
	addr := common.Address{1}
	owner := common.SystemProgramID

	if s.AccountExists(addr) {
		t.Fatalf("AccountExists(addr) = true before creation")
	}

	if err := s.CreateAccount(addr, &Account{Owner: owner, Lamports: 1000}); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	if err := s.CreateAccount(addr, &Account{Owner: owner, Lamports: 1000}); err != ErrAlreadyExists {
		t.Fatalf("CreateAccount duplicate = %v, want ErrAlreadyExists", err)
	}

	acc, err := s.GetAccount(addr)
	if err != nil {
		t.Fatalf("GetAccount before commit: %v", err)
	}
	if acc.Lamports != 1000 {
		t.Fatalf("GetAccount().Lamports = %d, want 1000", acc.Lamports)
	}

	byOwner, err := s.GetAccountsByOwner(owner)
	if err != nil || len(byOwner) != 1 {
		t.Fatalf("GetAccountsByOwner = %v, %v; want 1 account", byOwner, err)
	}

	if err := s.CommitChanges(); err != nil {
		t.Fatalf("CommitChanges: %v", err)
	}

	acc2, err := s.GetAccount(addr)
	if err != nil || acc2.Lamports != 1000 {
		t.Fatalf("GetAccount after commit = %+v, %v", acc2, err)
	}
}

func TestOverlayStore_UpdateAccountMissingReturnsNotFound(t *testing.T) {
	s := NewOverlayStore()
	addr := common.Address{9}

	if err := s.UpdateAccount(addr, &Account{Lamports: 1}); err != ErrNotFound {
		t.Fatalf("UpdateAccount on a missing address = %v, want ErrNotFound", err)
	}

	if err := s.CreateAccount(addr, &Account{Lamports: 1}); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if err := s.UpdateAccount(addr, &Account{Lamports: 2}); err != nil {
		t.Fatalf("UpdateAccount after creation: %v", err)
	}
}

func TestOverlayStore_DiscardOverlay(t *testing.T) {
	s := NewOverlayStore()
	addr := common.Address{2}
	_ = s.CreateAccount(addr, &Account{Lamports: 500})
	_ = s.CommitChanges()

	_ = s.UpdateAccount(addr, &Account{Lamports: 9999})
	s.DiscardOverlay()

	acc, err := s.GetAccount(addr)
	if err != nil {
		t.Fatalf("GetAccount after discard: %v", err)
	}
	if acc.Lamports != 500 {
		t.Fatalf("GetAccount().Lamports = %d after discard, want 500 (unchanged)", acc.Lamports)
	}
}

func TestOverlayStore_CloneIsolation(t *testing.T) {
	s := NewOverlayStore()
	addr := common.Address{3}
	_ = s.CreateAccount(addr, &Account{Lamports: 1, Data: []byte{1, 2, 3}})
	_ = s.CommitChanges()

	acc, _ := s.GetAccount(addr)
	acc.Data[0] = 0xff

	acc2, _ := s.GetAccount(addr)
	if acc2.Data[0] != 1 {
		t.Fatalf("mutating a returned Account leaked into the store: got %v", acc2.Data)
	}
}

func TestOverlayStore_ProgramAccountsFilterExecutable(t *testing.T) {
	s := NewOverlayStore()
	owner := common.Address{9}
	_ = s.CreateAccount(common.Address{10}, &Account{Owner: owner, Executable: true})
	_ = s.CreateAccount(common.Address{11}, &Account{Owner: owner, Executable: false})
	_ = s.CommitChanges()

	progs, err := s.GetProgramAccounts(owner)
	if err != nil {
		t.Fatalf("GetProgramAccounts: %v", err)
	}
	if len(progs) != 1 {
		t.Fatalf("GetProgramAccounts returned %d accounts, want 1", len(progs))
	}
}

func TestOverlayStore_NotFound(t *testing.T) {
	s := NewOverlayStore()
	if _, err := s.GetAccount(common.Address{42}); err != ErrNotFound {
		t.Fatalf("GetAccount(missing) = %v, want ErrNotFound", err)
	}
}
