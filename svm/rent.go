// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

// Package svm implements the transaction execution pipeline: account
// loading, rent and nonce handling, rollback bookkeeping, and the shim
// contract a pluggable execution engine runs behind.
package svm

import (
	"math/big"

	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/pkg/encodbin"
)

// Rent constants pinned to the reference validator's defaults.
const (
	DefaultLamportsPerByteYear = 3480
	DefaultExemptionThreshold  = 2.0
	DefaultSlotsPerEpoch       = 432000
	// SlotsPerYear assumes a 2-slots-per-second leader schedule over a
	// 365.25-day year; 365.25*24*3600*2 lands on an exact integer so it
	// carries no rounding error into the rent formulas below.
	SlotsPerYear = 365*24*3600*2 + 43200
)

// RentCalculator computes rent and rent-exemption thresholds for account
// data of a given size under a fixed schedule.
type RentCalculator struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  float64
	SlotsPerEpoch       uint64
}

// NewRentCalculator returns a calculator using the reference defaults.
func NewRentCalculator() *RentCalculator {
	return &RentCalculator{
		LamportsPerByteYear: DefaultLamportsPerByteYear,
		ExemptionThreshold:  DefaultExemptionThreshold,
		SlotsPerEpoch:       DefaultSlotsPerEpoch,
	}
}

// RentCalculatorFromConfig builds a calculator from a configuration
// record's rent fields, so a non-default cluster config actually drives
// pipeline rent behavior instead of the hardcoded defaults.
func RentCalculatorFromConfig(lamportsPerByteYear uint64, exemptionThreshold float64, slotsPerEpoch uint64) *RentCalculator {
	return &RentCalculator{
		LamportsPerByteYear: lamportsPerByteYear,
		ExemptionThreshold:  exemptionThreshold,
		SlotsPerEpoch:       slotsPerEpoch,
	}
}

// wideProduct multiplies a, b and c as an exact integer, routed through
// encodbin.Uint128 (the wire codec's 128-bit container) rather than
// float64, so a rent computation over a large account's size never loses
// precision the way float64 math would past 2^53.
func wideProduct(a, b, c uint64) *big.Int {
	product := new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
	product.Mul(product, new(big.Int).SetUint64(c))
	var packed encodbin.Uint128
	if err := packed.SetBigInt(product); err != nil {
		// a, b, c are validator-configured quantities (account size, lamports
		// per byte-year, slot counts); overflowing 128 bits means a
		// misconfigured cluster, not a recoverable per-transaction fault.
		return product
	}
	return packed.BigInt()
}

// CalculateRent returns the rent owed for size bytes of account data across
// one epoch: floor(size * lamports_per_byte_year * slots_per_epoch / SLOTS_PER_YEAR).
func (r *RentCalculator) CalculateRent(size uint64) common.Lamports {
	if size == 0 {
		return 0
	}
	product := wideProduct(size, r.LamportsPerByteYear, r.SlotsPerEpoch)
	rent := new(big.Int).Quo(product, big.NewInt(SlotsPerYear))
	return common.Lamports(rent.Uint64())
}

// MinimumBalance returns the lamport balance at or above which an account
// of size bytes is exempt from rent collection: floor(size *
// lamports_per_byte_year * exemption_threshold).
func (r *RentCalculator) MinimumBalance(size uint64) common.Lamports {
	if size == 0 {
		return 0
	}
	perByte := wideProduct(size, r.LamportsPerByteYear, 1)
	minBalance := new(big.Float).Mul(new(big.Float).SetInt(perByte), big.NewFloat(r.ExemptionThreshold))
	out, _ := minBalance.Int(nil)
	return common.Lamports(out.Uint64())
}

// IsRentExempt reports whether balance meets or exceeds MinimumBalance(size).
func (r *RentCalculator) IsRentExempt(balance common.Lamports, size uint64) bool {
	return balance >= r.MinimumBalance(size)
}

// RentOwed returns the rent due for size bytes of account data over the
// slots elapsed since lastRentSlot: floor(size * lamports_per_byte_year *
// (currentSlot - lastRentSlot) / SLOTS_PER_YEAR). An account with
// currentSlot <= lastRentSlot, or zero size, owes nothing yet.
func (r *RentCalculator) RentOwed(size uint64, currentSlot, lastRentSlot common.Slot) common.Lamports {
	if size == 0 || currentSlot <= lastRentSlot {
		return 0
	}
	elapsed := uint64(currentSlot - lastRentSlot)
	product := wideProduct(size, r.LamportsPerByteYear, elapsed)
	return common.Lamports(new(big.Int).Quo(product, big.NewInt(SlotsPerYear)).Uint64())
}

// CollectRent charges RentOwed against balance. It returns the post-rent
// balance and whether the account should be destroyed (the charge meets or
// exceeds balance). Rent-exempt accounts are untouched.
func (r *RentCalculator) CollectRent(balance common.Lamports, size uint64, currentSlot, lastRentSlot common.Slot) (newBalance common.Lamports, destroyed bool) {
	if r.IsRentExempt(balance, size) {
		return balance, false
	}
	owed := r.RentOwed(size, currentSlot, lastRentSlot)
	if owed >= balance {
		return 0, true
	}
	return balance - owed, false
}
