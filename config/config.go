// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

// Package config holds the configuration record every core component reads
// at startup. Process bootstrap, flag parsing and env resolution are the
// collaborator's job; this package only defines the shape and its defaults.
package config

import (
	"fmt"

	"github.com/cielu/go-solana/common"
)

// Cluster names the network a Record targets, mirroring the teacher's
// EnumRpcCommitment string-enum convention rather than an integer code.
type Cluster string

const (
	ClusterMainnetBeta Cluster = "mainnet-beta"
	ClusterTestnet     Cluster = "testnet"
	ClusterDevnet      Cluster = "devnet"
	ClusterLocalnet    Cluster = "localnet"
)

// Record is the configuration consumed by every component (C1-C9): rent
// parameters feed the svm package's RentCalculator, GenesisHash seeds the
// ledger/fork-choice bootstrap, and the remaining fields size the event bus
// and RPC dispatcher. Genesis-hash derivation for non-mainnet clusters is a
// placeholder in the reference implementation; here it is simply an input
// the collaborator supplies rather than something the core computes.
type Record struct {
	Cluster     Cluster
	GenesisHash common.Hash

	LamportsPerByteYear uint64
	ExemptionThreshold  float64
	SlotsPerEpoch       uint64

	LamportsPerSignature common.Lamports

	EventQueueCapacity int
	RPCListenAddr      string
}

// Default returns a Record with the same rent/epoch constants svm.rent.go
// pins for localnet-style development, and no RPC listener bound.
func Default() Record {
	return Record{
		Cluster:              ClusterLocalnet,
		LamportsPerByteYear:  3480,
		ExemptionThreshold:   2.0,
		SlotsPerEpoch:        432000,
		LamportsPerSignature: 5000,
		EventQueueCapacity:   256,
		RPCListenAddr:        "127.0.0.1:8899",
	}
}

// Validate checks the record's numeric fields are in sane ranges; it does
// not attempt to validate GenesisHash or RPCListenAddr, which are opaque to
// this package.
func (r Record) Validate() error {
	if r.ExemptionThreshold <= 0 {
		return fmt.Errorf("config: ExemptionThreshold must be positive, got %f", r.ExemptionThreshold)
	}
	if r.SlotsPerEpoch == 0 {
		return fmt.Errorf("config: SlotsPerEpoch must be non-zero")
	}
	if r.EventQueueCapacity <= 0 {
		return fmt.Errorf("config: EventQueueCapacity must be positive, got %d", r.EventQueueCapacity)
	}
	return nil
}
