// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package svm

import (
	"fmt"
	"strings"

	"github.com/cielu/go-solana/accounts"
	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/corelog"
	"github.com/cielu/go-solana/types"
)

// DefaultLamportsPerSignature is the flat per-signature fee charged against
// the fee payer before the execution engine runs.
const DefaultLamportsPerSignature common.Lamports = 5000

// Outcome is the pipeline's verdict on one transaction.
type Outcome struct {
	Success      bool
	Err          error
	ErrKind      TxErrorKind
	FeeCharged   common.Lamports
	Suspicious   []SuspiciousAccount
}

// Pipeline runs the 9-step execution contract: load accounts, snapshot
// their pre-balances, advance any nonce, snapshot for rollback, deduct the fee,
// invoke the engine, roll back on failure, check balance on success, and
// return the outcome.
type Pipeline struct {
	store               accounts.Store
	loader              *AccountLoader
	engine              ExecutionEngine
	metrics             *TransactionErrorMetrics
	log                 *corelog.Logger
	rent                *RentCalculator
	maxLoadedDataSize   uint64
	currentSlot         common.Slot
}

// NewPipeline wires a Pipeline against store and engine, with its own fresh
// metrics counter and the reference validator's default rent schedule and
// max-loaded-data-size limit.
func NewPipeline(store accounts.Store, engine ExecutionEngine) *Pipeline {
	return &Pipeline{
		store:             store,
		loader:            NewAccountLoader(store),
		engine:            engine,
		metrics:           NewTransactionErrorMetrics(),
		log:               corelog.New("svm"),
		rent:              NewRentCalculator(),
		maxLoadedDataSize: DefaultMaxLoadedAccountsDataSize,
	}
}

// Metrics returns the pipeline's running error counters.
func (p *Pipeline) Metrics() *TransactionErrorMetrics {
	return p.metrics
}

// SetCurrentSlot updates the slot the pipeline attributes to the next
// transactions it processes, driving rent-accrual bookkeeping during load.
func (p *Pipeline) SetCurrentSlot(slot common.Slot) {
	p.currentSlot = slot
}

// SetRentCalculator overrides the default rent schedule, e.g. to match a
// cluster configuration's non-default rent parameters.
func (p *Pipeline) SetRentCalculator(rent *RentCalculator) {
	p.rent = rent
}

// SetMaxLoadedAccountsDataSize overrides the default cap on total account
// data a transaction may load.
func (p *Pipeline) SetMaxLoadedAccountsDataSize(max uint64) {
	p.maxLoadedDataSize = max
}

// ProcessTransaction executes tx and commits or rolls back its effects on
// the account store accordingly.
func (p *Pipeline) ProcessTransaction(tx *types.Transaction) Outcome {
	p.metrics.RecordProcessed()

	// fee is computed up front: the account loader must validate the fee
	// payer can cover it (plus its rent reserve) before anything loads.
	fee := DefaultLamportsPerSignature * common.Lamports(len(tx.Signatures))
	if fee == 0 {
		fee = DefaultLamportsPerSignature
	}

	// 1. load accounts
	loaded, err := p.loader.Load(tx, fee, p.maxLoadedDataSize, p.rent, p.currentSlot)
	if err != nil {
		kind := classifyEngineError(err)
		p.recordAndDump("load accounts", err, kind, tx)
		return Outcome{Success: false, Err: err, ErrKind: kind}
	}

	// 2. pre-balances snapshot
	preBalances := make(map[common.Address]common.Lamports, len(loaded.Accounts))
	for addr, acc := range loaded.Accounts {
		preBalances[addr] = acc.Lamports
	}

	// 3. nonce advance, if the transaction names a durable nonce account as
	// its first instruction's first account and that account is a nonce
	// account; transactions with a normal recent blockhash skip this.
	if err := p.maybeAdvanceNonce(tx, loaded); err != nil {
		p.recordAndDump("advance nonce", err, ErrNonceBlockhashNotMatch, tx)
		return Outcome{Success: false, Err: err, ErrKind: ErrNonceBlockhashNotMatch}
	}

	// 4. rollback snapshot, taken after the nonce advance so a nonce
	// advance survives a later rollback (it is not refundable).
	rollback := NewRollbackSet(loaded.Accounts, loaded.FeePayer)

	// 5. fee deduction
	feePayer := loaded.Accounts[loaded.FeePayer]
	newBalance, err := feePayer.Lamports.SafeSub(fee)
	if err != nil {
		p.metrics.RecordError(ErrInsufficientFundsForFee)
		return Outcome{Success: false, Err: err, ErrKind: ErrInsufficientFundsForFee}
	}
	feePayer.Lamports = newBalance
	rollback.SetFeeCharged(fee)

	// 6. invoke engine
	execErr := p.engine.Execute(tx, loaded.Accounts)

	if execErr != nil {
		// 7. rollback on failure: fee stands, everything else reverts.
		if err := rollback.Rollback(p.store); err != nil {
			p.log.Error("rollback failed after execution error: %v (original: %v)", err, execErr)
		}
		kind := classifyEngineError(execErr)
		p.metrics.RecordError(kind)
		p.log.Dump("transaction rejected", map[string]interface{}{"tx": tx, "err": execErr.Error()})
		return Outcome{Success: false, Err: execErr, ErrKind: kind, FeeCharged: fee}
	}

	// 8. balance check on success
	collector := NewBalanceCollector(preBalances)
	for addr, acc := range loaded.Accounts {
		collector.RecordPost(addr, acc.Lamports)
	}
	if !collector.IsBalanced(fee) {
		if err := rollback.Rollback(p.store); err != nil {
			p.log.Error("rollback failed after unbalanced transaction: %v", err)
		}
		p.metrics.RecordError(ErrUnbalancedTransaction)
		return Outcome{Success: false, Err: fmt.Errorf("%s", ErrUnbalancedTransaction), ErrKind: ErrUnbalancedTransaction, FeeCharged: fee}
	}

	for addr, acc := range loaded.Accounts {
		var err error
		if p.store.AccountExists(addr) {
			err = p.store.UpdateAccount(addr, acc)
		} else {
			err = p.store.CreateAccount(addr, acc)
		}
		if err != nil {
			return Outcome{Success: false, Err: err, ErrKind: ErrInstructionError}
		}
	}
	if err := p.store.CommitChanges(); err != nil {
		return Outcome{Success: false, Err: err, ErrKind: ErrInstructionError}
	}

	// 9. return outcome
	return Outcome{Success: true, FeeCharged: fee, Suspicious: collector.Suspicious()}
}

func (p *Pipeline) maybeAdvanceNonce(tx *types.Transaction, loaded *LoadedTransaction) error {
	if len(tx.Message.Instructions) == 0 {
		return nil
	}
	first := tx.Message.Instructions[0]
	if int(first.ProgramIDIndex) >= len(tx.Message.AccountKeys) {
		return nil
	}
	if tx.Message.AccountKeys[first.ProgramIDIndex] != common.SystemProgramID {
		return nil
	}
	if len(first.Accounts) == 0 {
		return nil
	}
	nonceAddr := tx.Message.AccountKeys[first.Accounts[0]]
	acc, ok := loaded.Accounts[nonceAddr]
	if !ok || !IsNonceAccount(acc.Owner, acc.Data) {
		return nil
	}
	newData, _, err := AdvanceNonce(acc.Data, loaded.FeePayer, tx.Message.RecentBlockhash)
	if err != nil {
		return err
	}
	acc.Data = newData
	return nil
}

func (p *Pipeline) recordAndDump(step string, err error, kind TxErrorKind, tx *types.Transaction) {
	p.metrics.RecordError(kind)
	p.log.Dump(fmt.Sprintf("pipeline step %q failed: %v", step, err), tx)
}

// classifyEngineError maps an engine error to a TxErrorKind by checking
// whether its message is prefixed with one of the kinds recognized by
// Classify (engine.go and the System instruction handler format their
// errors as "<kind>: detail"), falling back to ErrInstructionError.
func classifyEngineError(err error) TxErrorKind {
	msg := err.Error()
	for kind := range knownKinds {
		if strings.HasPrefix(msg, string(kind)+":") {
			return kind
		}
	}
	return ErrInstructionError
}
