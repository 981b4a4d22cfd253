// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package svm

import (
	"testing"

	"github.com/cielu/go-solana/common"
)

// TestAdvanceNonce_NoopWhenSameHash reproduces scenario S6: advancing a
// nonce to the hash it already stores is a no-op, not an error.
func TestAdvanceNonce_NoopWhenSameHash(t *testing.T) {
	authority := common.Address{1}
	hash := common.Hash{2}
	data := InitializeNonce(authority, hash, 5000)

	newData, advanced, err := AdvanceNonce(data, authority, hash)
	if err != nil {
		t.Fatalf("AdvanceNonce same hash: %v", err)
	}
	if advanced {
		t.Fatalf("AdvanceNonce reported advanced=true for an identical hash")
	}
	if string(newData) != string(data) {
		t.Fatalf("AdvanceNonce mutated data on a no-op advance")
	}
}

func TestAdvanceNonce_AdvancesOnNewHash(t *testing.T) {
	authority := common.Address{1}
	hash := common.Hash{2}
	data := InitializeNonce(authority, hash, 5000)

	newHash := common.Hash{3}
	newData, advanced, err := AdvanceNonce(data, authority, newHash)
	if err != nil {
		t.Fatalf("AdvanceNonce: %v", err)
	}
	if !advanced {
		t.Fatalf("AdvanceNonce reported advanced=false for a new hash")
	}
	info, err := DecodeNonceInfo(newData)
	if err != nil {
		t.Fatalf("DecodeNonceInfo: %v", err)
	}
	if info.StoredHash != newHash {
		t.Fatalf("StoredHash = %v, want %v", info.StoredHash, newHash)
	}
}

func TestAdvanceNonce_WrongAuthority(t *testing.T) {
	authority := common.Address{1}
	other := common.Address{9}
	hash := common.Hash{2}
	data := InitializeNonce(authority, hash, 5000)

	_, _, err := AdvanceNonce(data, other, common.Hash{3})
	if err != ErrNonceUnauthorized {
		t.Fatalf("AdvanceNonce with wrong authority = %v, want ErrNonceUnauthorized", err)
	}
}

func TestIsNonceAccount(t *testing.T) {
	data := InitializeNonce(common.Address{1}, common.Hash{2}, 0)
	if !IsNonceAccount(common.SystemProgramID, data) {
		t.Fatalf("IsNonceAccount = false for a well-formed nonce account")
	}
	if IsNonceAccount(common.SystemProgramID, []byte{1, 2, 3}) {
		t.Fatalf("IsNonceAccount = true for undersized data")
	}
	if IsNonceAccount(common.Address{42}, data) {
		t.Fatalf("IsNonceAccount = true for a non-system-owned account, even with well-formed nonce layout data")
	}
}

func TestAuthorizeNonce(t *testing.T) {
	authority := common.Address{1}
	newAuthority := common.Address{2}
	data := InitializeNonce(authority, common.Hash{5}, 0)

	newData, err := AuthorizeNonce(data, authority, newAuthority)
	if err != nil {
		t.Fatalf("AuthorizeNonce: %v", err)
	}
	info, _ := DecodeNonceInfo(newData)
	if info.Authority != newAuthority {
		t.Fatalf("Authority = %v, want %v", info.Authority, newAuthority)
	}
}
