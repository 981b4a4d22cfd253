// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package types

import "github.com/cielu/go-solana/common"

// Instruction is a single on-chain call: a target program, the accounts it
// touches, and opaque program-specific data. Concrete instruction builders
// (system transfer, token transfer-checked, ...) implement this directly;
// CompiledInstruction is the wire-compiled form stored inside a Message.
type Instruction interface {
	ProgramID() common.Address
	Accounts() []*AccountMeta
	Data() ([]byte, error)
}

// GenericInstruction is a ready-made Instruction for callers that already
// have program id / metas / data in hand and don't need a dedicated builder.
type GenericInstruction struct {
	ProgID  common.Address
	Metas   []*AccountMeta
	RawData []byte
}

func NewGenericInstruction(programID common.Address, metas []*AccountMeta, data []byte) *GenericInstruction {
	return &GenericInstruction{ProgID: programID, Metas: metas, RawData: data}
}

func (i *GenericInstruction) ProgramID() common.Address { return i.ProgID }

func (i *GenericInstruction) Accounts() []*AccountMeta { return i.Metas }

func (i *GenericInstruction) Data() ([]byte, error) { return i.RawData, nil }
