// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package svm

import (
	"encoding/binary"
	"fmt"

	"github.com/cielu/go-solana/accounts"
	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/types"
)

// systemProgramTransfer is the reference validator's System program
// instruction discriminant for a plain lamport transfer (CreateAccount=0,
// Assign=1, Transfer=2), encoded as a 4-byte little-endian prefix ahead of
// the instruction's own payload.
const systemProgramTransfer uint32 = 2

// ExecutionEngine is the pluggable capability the pipeline invokes once
// accounts are loaded and fees are deducted. An engine only mutates the
// accounts map it is given; it never touches the account store directly, so
// the pipeline can roll every mutation back on failure.
type ExecutionEngine interface {
	// Execute runs every instruction in tx against loaded, returning an
	// error classified as a TxErrorKind on failure. loaded is keyed by the
	// addresses tx.Message.AccountKeys names, already resolved from the
	// account store.
	Execute(tx *types.Transaction, loaded map[common.Address]*accounts.Account) error
}

// NoopEngine implements the System program's Transfer instruction directly
// (the one instruction simple enough to not need an embedded VM) and
// otherwise treats every instruction as a successful no-op, so a pipeline
// wired to it can exercise the full 9-step contract without a real runtime.
type NoopEngine struct{}

func NewNoopEngine() *NoopEngine { return &NoopEngine{} }

func (e *NoopEngine) Execute(tx *types.Transaction, loaded map[common.Address]*accounts.Account) error {
	msg := &tx.Message
	for _, ci := range msg.Instructions {
		if int(ci.ProgramIDIndex) >= len(msg.AccountKeys) {
			return fmt.Errorf("%s: program id index out of range", ErrInvalidAccountIndex)
		}
		programID := msg.AccountKeys[ci.ProgramIDIndex]
		if programID != common.SystemProgramID {
			continue
		}
		if err := e.executeSystemInstruction(ci, msg, loaded); err != nil {
			return err
		}
	}
	return nil
}

func (e *NoopEngine) executeSystemInstruction(ci types.CompiledInstruction, msg *types.Message, loaded map[common.Address]*accounts.Account) error {
	data := ci.Data.RawData
	if len(data) < 4 {
		return fmt.Errorf("%s: system instruction data too short", ErrInstructionError)
	}
	discriminant := binary.LittleEndian.Uint32(data[:4])
	if discriminant != systemProgramTransfer {
		// Only Transfer is implemented; every other System instruction is a
		// documented no-op under this engine.
		return nil
	}
	if len(data) < 12 {
		return fmt.Errorf("%s: transfer instruction missing lamports field", ErrInstructionError)
	}
	lamports := common.Lamports(binary.LittleEndian.Uint64(data[4:12]))

	if len(ci.Accounts) < 2 {
		return fmt.Errorf("%s: transfer instruction needs funding+recipient accounts", ErrInvalidAccountIndex)
	}
	fromAddr := msg.AccountKeys[ci.Accounts[0]]
	toAddr := msg.AccountKeys[ci.Accounts[1]]

	from, ok := loaded[fromAddr]
	if !ok {
		return fmt.Errorf("%s: funding account %s not loaded", ErrAccountNotFound, fromAddr)
	}
	to, ok := loaded[toAddr]
	if !ok {
		return fmt.Errorf("%s: recipient account %s not loaded", ErrAccountNotFound, toAddr)
	}

	newFrom, err := from.Lamports.SafeSub(lamports)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrInstructionError, err)
	}
	newTo, err := to.Lamports.SafeAdd(lamports)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrInstructionError, err)
	}
	from.Lamports = newFrom
	to.Lamports = newTo
	return nil
}
