// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

// Package validatorcore is the single-writer orchestrator that owns the
// ledger and fork-choice state: every block and vote the validator accepts
// passes through here before anything else observes it.
package validatorcore

import (
	"fmt"
	"sync"

	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/corelog"
	"github.com/cielu/go-solana/eventbus"
	"github.com/cielu/go-solana/forkchoice"
	"github.com/cielu/go-solana/ledger"
	"github.com/cielu/go-solana/types"
)

// State is the orchestrator's lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ErrInvalidStateTransition is returned when a lifecycle method is called
// out of order (e.g. Start before Initialize).
var ErrInvalidStateTransition = fmt.Errorf("validatorcore: invalid state transition")

// Orchestrator is the single writer for ledger and fork-choice state. All
// block/vote ingestion funnels through ProcessBlock/ProcessVote; RPC
// handlers only ever read through Head/CurrentSlot and the stores directly.
type Orchestrator struct {
	mu    sync.Mutex
	state State

	ledger    ledger.Store
	forkChoice *forkchoice.ForkChoice
	validator *forkchoice.BlockValidator
	bus       *eventbus.Bus
	log       *corelog.Logger
}

// NewOrchestrator wires an orchestrator against a ledger store and its
// derived fork choice/validator, starting in StateUninitialized.
func NewOrchestrator(store ledger.Store, bus *eventbus.Bus) *Orchestrator {
	return &Orchestrator{
		state:      StateUninitialized,
		ledger:     store,
		forkChoice: forkchoice.NewForkChoice(),
		validator:  forkchoice.NewBlockValidator(store),
		bus:        bus,
		log:        corelog.New("validatorcore"),
	}
}

// State returns the orchestrator's current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Initialize transitions Uninitialized -> Initialized. A non-nil genesis is
// validated, stored and seeded into fork choice; a ledger that already holds
// a slot-0 block (recovery from a restart) does not make this fail.
func (o *Orchestrator) Initialize(genesis *types.Block) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateUninitialized {
		return fmt.Errorf("%w: Initialize from %s", ErrInvalidStateTransition, o.state)
	}

	if genesis != nil {
		if err := o.validator.Validate(genesis); err != nil {
			return fmt.Errorf("validatorcore: invalid genesis block: %w", err)
		}
		if err := o.ledger.StoreBlock(genesis); err != nil && err != ledger.ErrSlotOccupied {
			return fmt.Errorf("validatorcore: store genesis: %w", err)
		}
		o.forkChoice.AddBlock(genesis)
	}

	o.state = StateInitialized
	o.log.Info("initialized")
	return nil
}

// Start transitions Initialized -> Running.
func (o *Orchestrator) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateInitialized {
		return fmt.Errorf("%w: Start from %s", ErrInvalidStateTransition, o.state)
	}
	o.state = StateRunning
	o.log.Info("started")
	return nil
}

// Stop transitions Running -> Stopped. It is also the terminal state a
// StorageIOFailure forces the orchestrator into.
func (o *Orchestrator) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateRunning {
		return fmt.Errorf("%w: Stop from %s", ErrInvalidStateTransition, o.state)
	}
	o.state = StateStopped
	o.log.Info("stopped")
	return nil
}

// forceStop is the fatal-error path: a storage I/O failure transitions
// straight to Stopped regardless of current state, per the StorageIOFailure
// handling contract.
func (o *Orchestrator) forceStop(reason error) {
	o.state = StateStopped
	o.log.Error("fatal storage failure, stopping: %v", reason)
}

// ProcessBlock validates block, adds it to the ledger and fork choice, and
// emits a block_committed event. A BrokenChain failure is retried exactly
// once (the block's parent may have arrived out of order by a hair), after
// which it is dropped.
func (o *Orchestrator) ProcessBlock(block *types.Block) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateRunning {
		return fmt.Errorf("%w: ProcessBlock while %s", ErrInvalidStateTransition, o.state)
	}

	if err := o.validator.Validate(block); err != nil {
		return o.commitOrRetry(block, err)
	}
	return o.commit(block)
}

func (o *Orchestrator) commitOrRetry(block *types.Block, firstErr error) error {
	if firstErr != forkchoice.ErrChainDiscontinuity {
		return firstErr
	}
	// retry once
	if err := o.validator.Validate(block); err != nil {
		return err
	}
	return o.commit(block)
}

func (o *Orchestrator) commit(block *types.Block) error {
	if err := o.ledger.StoreBlock(block); err != nil {
		if err == ledger.ErrBrokenChain {
			return err
		}
		o.forceStop(err)
		return fmt.Errorf("validatorcore: fatal storage error storing block: %w", err)
	}
	o.forkChoice.AddBlock(block)
	if o.bus != nil {
		o.bus.Publish(eventbus.Event{Kind: eventbus.EventBlockCommitted, Block: block})
	}
	return nil
}

// ProcessVote verifies vote's signature, records it in fork choice, and
// emits a vote_observed event.
func (o *Orchestrator) ProcessVote(vote *types.Vote) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateRunning {
		return fmt.Errorf("%w: ProcessVote while %s", ErrInvalidStateTransition, o.state)
	}
	if !vote.Verify() {
		return fmt.Errorf("validatorcore: vote signature invalid")
	}
	o.forkChoice.AddVote(vote)
	if o.bus != nil {
		o.bus.Publish(eventbus.Event{Kind: eventbus.EventVoteObserved, Vote: vote})
	}
	return nil
}

// Head returns the current canonical chain tip hash, derived from fork
// choice rather than the ledger's insertion order.
func (o *Orchestrator) Head() (common.Hash, bool) {
	return o.forkChoice.Head()
}

// CurrentSlot returns the slot of the current head block, or 0 if nothing
// has been committed yet.
func (o *Orchestrator) CurrentSlot() common.Slot {
	head, ok := o.Head()
	if !ok {
		return 0
	}
	block, err := o.ledger.GetBlock(head)
	if err != nil {
		return 0
	}
	return block.Slot
}
