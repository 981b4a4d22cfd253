// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package svm

import "github.com/cielu/go-solana/common"

// SuspiciousChangeThreshold is the advisory lamports delta above which
// BalanceCollector flags a per-account change as worth a closer look, even
// though the transaction as a whole balances.
const SuspiciousChangeThreshold common.Lamports = 1_000_000_000

// BalanceCollector checks that a transaction's net lamport movement across
// every touched account plus the fee it paid sums to zero, and flags
// individual accounts whose change looks unusual.
type BalanceCollector struct {
	pre  map[common.Address]common.Lamports
	post map[common.Address]common.Lamports
}

// NewBalanceCollector starts a collection from a pre-execution balance
// snapshot.
func NewBalanceCollector(pre map[common.Address]common.Lamports) *BalanceCollector {
	return &BalanceCollector{
		pre:  pre,
		post: make(map[common.Address]common.Lamports, len(pre)),
	}
}

// RecordPost captures an account's post-execution balance.
func (b *BalanceCollector) RecordPost(addr common.Address, lamports common.Lamports) {
	b.post[addr] = lamports
}

// IsBalanced reports whether sum(post - pre) + fee == 0 across every
// account this collector has pre/post data for.
func (b *BalanceCollector) IsBalanced(fee common.Lamports) bool {
	var delta int64
	for addr, preVal := range b.pre {
		postVal, ok := b.post[addr]
		if !ok {
			postVal = preVal
		}
		delta += int64(postVal) - int64(preVal)
	}
	return delta+int64(fee) == 0
}

// SuspiciousAccount names one account flagged by Suspicious, and why.
type SuspiciousAccount struct {
	Address common.Address
	Delta   int64
	Drained bool
}

// Suspicious returns accounts whose balance moved by more than
// SuspiciousChangeThreshold, or that were drained to exactly zero from a
// nonzero pre-balance. This is advisory: it never blocks a transaction that
// otherwise balances.
func (b *BalanceCollector) Suspicious() []SuspiciousAccount {
	var out []SuspiciousAccount
	for addr, preVal := range b.pre {
		postVal, ok := b.post[addr]
		if !ok {
			continue
		}
		delta := int64(postVal) - int64(preVal)
		abs := delta
		if abs < 0 {
			abs = -abs
		}
		drained := preVal > 0 && postVal == 0
		if abs > int64(SuspiciousChangeThreshold) || drained {
			out = append(out, SuspiciousAccount{Address: addr, Delta: delta, Drained: drained})
		}
	}
	return out
}
