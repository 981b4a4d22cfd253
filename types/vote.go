// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package types

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/crypto"
)

// Vote is a validator's signed attestation that it observed BlockHash at
// Slot. The fork choice rule folds votes into block weight by validator
// identity, so a validator's most recent vote is what counts, not every
// vote it has ever cast.
type Vote struct {
	Slot      common.Slot
	BlockHash common.Hash
	Validator common.Address
	Signature common.Signature
	Timestamp int64
}

// SigningBytes returns the byte sequence the validator's signature is taken
// over: slot || block_hash || timestamp, little-endian.
func (v *Vote) SigningBytes() []byte {
	buf := make([]byte, 0, 8+common.HashLength+8)
	var slotBuf, tsBuf [8]byte
	binary.LittleEndian.PutUint64(slotBuf[:], uint64(v.Slot))
	binary.LittleEndian.PutUint64(tsBuf[:], uint64(v.Timestamp))
	buf = append(buf, slotBuf[:]...)
	buf = append(buf, v.BlockHash.Bytes()...)
	buf = append(buf, tsBuf[:]...)
	return buf
}

// voteSignatureVerify is declared as a var so tests can stub out ed25519
// verification against synthetic, unsigned votes.
var voteSignatureVerify = crypto.Verify

// Verify checks Signature against Validator over SigningBytes.
func (v *Vote) Verify() bool {
	return voteSignatureVerify(v.Validator, v.SigningBytes(), v.Signature.Bytes())
}

// StubVoteSignatureVerify overrides the signature check used by Vote.Verify
// and returns a restore func. Exported for packages that build synthetic
// votes in their own tests without real signing keys.
func StubVoteSignatureVerify(fn func(addr common.Address, message, sig []byte) bool) func() {
	prev := voteSignatureVerify
	voteSignatureVerify = fn
	return func() { voteSignatureVerify = prev }
}

// Hash returns a content-derived identifier for the vote, used for
// dedup/logging since votes carry no independent tx hash of their own.
func (v *Vote) Hash() common.Hash {
	h := sha256.Sum256(append(v.SigningBytes(), v.Validator.Bytes()...))
	return common.BytesToHash(h[:])
}
