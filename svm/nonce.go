// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package svm

import (
	"encoding/binary"
	"fmt"

	"github.com/cielu/go-solana/common"
)

// NonceState is the discriminant stored in the first 4 bytes of a nonce
// account's data.
type NonceState uint32

const (
	NonceStateUninitialized NonceState = iota
	NonceStateInitialized
)

// nonceAccountSize is the fixed layout size: 4-byte LE state + 32-byte
// authority + 32-byte stored hash + 8-byte LE fee.
const nonceAccountSize = 4 + common.AddressLength + common.HashLength + 8

// NonceInfo is the decoded form of a durable-nonce account's data.
type NonceInfo struct {
	State      NonceState
	Authority  common.Address
	StoredHash common.Hash
	FeeLamports uint64
}

// IsNonceAccount reports whether an account owned by the System program with
// at least nonceAccountSize bytes of data is a durable nonce account: owner
// == SYSTEM_PROGRAM_ID && data.len() >= 80. DecodeNonceInfo only consumes the
// fixed-size layout prefix, so a longer data buffer (never produced by this
// core, but not disallowed by the layout) still decodes correctly.
func IsNonceAccount(owner common.Address, data []byte) bool {
	if owner != common.SystemProgramID {
		return false
	}
	return len(data) >= nonceAccountSize
}

// DecodeNonceInfo parses the 80-byte layout prefix of a nonce account's
// data; any bytes beyond nonceAccountSize are ignored (and preserved by
// Encode, via EncodeInto).
func DecodeNonceInfo(data []byte) (*NonceInfo, error) {
	if len(data) < nonceAccountSize {
		return nil, fmt.Errorf("svm: nonce account data must be at least %d bytes, got %d", nonceAccountSize, len(data))
	}
	info := &NonceInfo{
		State: NonceState(binary.LittleEndian.Uint32(data[0:4])),
	}
	info.Authority = common.BytesToAddress(data[4 : 4+common.AddressLength])
	offset := 4 + common.AddressLength
	info.StoredHash = common.BytesToHash(data[offset : offset+common.HashLength])
	offset += common.HashLength
	info.FeeLamports = binary.LittleEndian.Uint64(data[offset : offset+8])
	return info, nil
}

// Encode serializes NonceInfo into a fresh nonceAccountSize-byte buffer.
func (n *NonceInfo) Encode() []byte {
	return n.EncodeInto(nil)
}

// EncodeInto serializes NonceInfo over the 80-byte layout prefix of orig,
// preserving any trailing bytes beyond it; orig may be nil or shorter than
// nonceAccountSize.
func (n *NonceInfo) EncodeInto(orig []byte) []byte {
	out := make([]byte, nonceAccountSize)
	if len(orig) > nonceAccountSize {
		out = append(out, orig[nonceAccountSize:]...)
	}
	binary.LittleEndian.PutUint32(out[0:4], uint32(n.State))
	copy(out[4:4+common.AddressLength], n.Authority.Bytes())
	offset := 4 + common.AddressLength
	copy(out[offset:offset+common.HashLength], n.StoredHash.Bytes())
	offset += common.HashLength
	binary.LittleEndian.PutUint64(out[offset:offset+8], n.FeeLamports)
	return out
}

// InitializeNonce returns a freshly initialized nonce account's data, durable
// against recentHash and controlled by authority.
func InitializeNonce(authority common.Address, recentHash common.Hash, feeLamports uint64) []byte {
	info := &NonceInfo{
		State:       NonceStateInitialized,
		Authority:   authority,
		StoredHash:  recentHash,
		FeeLamports: feeLamports,
	}
	return info.Encode()
}

// ErrNonceUninitialized is returned by operations on an account that has
// never been initialized.
var ErrNonceUninitialized = fmt.Errorf("svm: nonce account not initialized")

// ErrNonceUnauthorized is returned when the signer does not match the
// nonce account's stored authority.
var ErrNonceUnauthorized = fmt.Errorf("svm: nonce authority mismatch")

// AdvanceNonce replaces the stored hash with newHash, signed by signer. It is
// a no-op (returns the same data, advanced=false) iff newHash already equals
// the stored hash, matching the reference semantics that advancing to the
// current hash does nothing rather than erroring.
func AdvanceNonce(data []byte, signer common.Address, newHash common.Hash) (newData []byte, advanced bool, err error) {
	info, err := DecodeNonceInfo(data)
	if err != nil {
		return nil, false, err
	}
	if info.State != NonceStateInitialized {
		return nil, false, ErrNonceUninitialized
	}
	if info.Authority != signer {
		return nil, false, ErrNonceUnauthorized
	}
	if info.StoredHash == newHash {
		return data, false, nil
	}
	info.StoredHash = newHash
	return info.EncodeInto(data), true, nil
}

// AuthorizeNonce reassigns the nonce account's authority, signed by the
// current authority.
func AuthorizeNonce(data []byte, signer, newAuthority common.Address) ([]byte, error) {
	info, err := DecodeNonceInfo(data)
	if err != nil {
		return nil, err
	}
	if info.State != NonceStateInitialized {
		return nil, ErrNonceUninitialized
	}
	if info.Authority != signer {
		return nil, ErrNonceUnauthorized
	}
	info.Authority = newAuthority
	return info.EncodeInto(data), nil
}

// WithdrawNonce validates a withdrawal is authorized and the account either
// empties completely or remains rent-exempt after withdrawAmount is
// deducted; it returns the post-withdrawal state but leaves moving lamports
// between accounts to the caller (the account store owns balances).
func WithdrawNonce(data []byte, signer common.Address, balance, withdrawAmount common.Lamports, rent *RentCalculator) (destroyAccount bool, err error) {
	info, err := DecodeNonceInfo(data)
	if err != nil {
		return false, err
	}
	if info.State == NonceStateInitialized && info.Authority != signer {
		return false, ErrNonceUnauthorized
	}
	remaining := balance - withdrawAmount
	if remaining == 0 {
		return true, nil
	}
	if !rent.IsRentExempt(remaining, nonceAccountSize) {
		return false, fmt.Errorf("svm: withdrawal would leave a non-exempt balance of %d", remaining)
	}
	return false, nil
}
