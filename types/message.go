// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package types

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/pkg/encodbin"
)

const (
	MessageVersionLegacy = "legacy"
	MessageVersionV0     = "v0"
)

type MessageVersion string

type MessageHeader struct {
	NumRequiredSignatures       uint8 `json:"numRequiredSignatures"`
	NumReadonlySignedAccounts   uint8 `json:"numReadonlySignedAccounts"`
	NumReadonlyUnsignedAccounts uint8 `json:"numReadonlyUnsignedAccounts"`
}

type CompiledAddressLookupTable struct {
	AccountKey      common.Address
	WritableIndexes []uint8
	ReadonlyIndexes []uint8
}

// Message is the content a Transaction's signatures are taken over: the
// account key table, the header describing its signer/writable layout, the
// blockhash that bounds the transaction's validity window, and the
// instructions to execute in order.
type Message struct {
	Version             MessageVersion
	Header              MessageHeader
	AccountKeys         []common.Address
	RecentBlockhash     common.Hash
	Instructions        []CompiledInstruction
	AddressLookupTables []CompiledAddressLookupTable
}

// signerKeys returns the account keys required to sign, in the order
// established by the message header (the first NumRequiredSignatures keys).
func (m *Message) signerKeys() []common.Address {
	if int(m.Header.NumRequiredSignatures) > len(m.AccountKeys) {
		return nil
	}
	return m.AccountKeys[:m.Header.NumRequiredSignatures]
}

// IsVersioned reports whether this message uses the v0 (address-lookup-table
// capable) wire format rather than the legacy format.
func (m *Message) IsVersioned() bool {
	return m.Version == MessageVersionV0
}

func (m *Message) MarshalBinary() ([]byte, error) {
	var buf []byte

	if m.IsVersioned() {
		buf = append(buf, 0x80)
	}

	buf = append(buf, m.Header.NumRequiredSignatures)
	buf = append(buf, m.Header.NumReadonlySignedAccounts)
	buf = append(buf, m.Header.NumReadonlyUnsignedAccounts)

	encodbin.EncodeCompactU16Length(&buf, len(m.AccountKeys))
	for _, key := range m.AccountKeys {
		buf = append(buf, key.Bytes()...)
	}

	buf = append(buf, m.RecentBlockhash.Bytes()...)

	encodbin.EncodeCompactU16Length(&buf, len(m.Instructions))
	for _, instruction := range m.Instructions {
		buf = append(buf, byte(instruction.ProgramIDIndex))
		encodbin.EncodeCompactU16Length(&buf, len(instruction.Accounts))
		for _, idx := range instruction.Accounts {
			buf = append(buf, byte(idx))
		}
		encodbin.EncodeCompactU16Length(&buf, len(instruction.Data.RawData))
		buf = append(buf, instruction.Data.RawData...)
	}

	if m.IsVersioned() {
		encodbin.EncodeCompactU16Length(&buf, len(m.AddressLookupTables))
		for _, table := range m.AddressLookupTables {
			buf = append(buf, table.AccountKey.Bytes()...)
			encodbin.EncodeCompactU16Length(&buf, len(table.WritableIndexes))
			buf = append(buf, table.WritableIndexes...)
			encodbin.EncodeCompactU16Length(&buf, len(table.ReadonlyIndexes))
			buf = append(buf, table.ReadonlyIndexes...)
		}
	}

	return buf, nil
}

func (m *Message) UnmarshalWithDecoder(decoder *encodbin.Decoder) error {
	firstByte, err := decoder.Peek(1)
	if err != nil {
		return fmt.Errorf("unable to peek message prefix: %w", err)
	}

	m.Version = MessageVersionLegacy
	if firstByte[0]&0x80 != 0 {
		if _, err := decoder.ReadByte(); err != nil {
			return fmt.Errorf("unable to consume version prefix: %w", err)
		}
		m.Version = MessageVersionV0
	}

	numRequired, err := decoder.ReadUint8()
	if err != nil {
		return fmt.Errorf("unable to read NumRequiredSignatures: %w", err)
	}
	numReadonlySigned, err := decoder.ReadUint8()
	if err != nil {
		return fmt.Errorf("unable to read NumReadonlySignedAccounts: %w", err)
	}
	numReadonlyUnsigned, err := decoder.ReadUint8()
	if err != nil {
		return fmt.Errorf("unable to read NumReadonlyUnsignedAccounts: %w", err)
	}
	m.Header = MessageHeader{
		NumRequiredSignatures:       numRequired,
		NumReadonlySignedAccounts:   numReadonlySigned,
		NumReadonlyUnsignedAccounts: numReadonlyUnsigned,
	}

	accountCount, err := decoder.ReadCompactU16Length()
	if err != nil {
		return fmt.Errorf("unable to read account key count: %w", err)
	}
	m.AccountKeys = make([]common.Address, accountCount)
	for i := 0; i < accountCount; i++ {
		if _, err := decoder.Read(m.AccountKeys[i][:]); err != nil {
			return fmt.Errorf("unable to read AccountKeys[%d]: %w", i, err)
		}
	}

	if _, err := decoder.Read(m.RecentBlockhash[:]); err != nil {
		return fmt.Errorf("unable to read RecentBlockhash: %w", err)
	}

	instructionCount, err := decoder.ReadCompactU16Length()
	if err != nil {
		return fmt.Errorf("unable to read instruction count: %w", err)
	}
	m.Instructions = make([]CompiledInstruction, instructionCount)
	for i := 0; i < instructionCount; i++ {
		programIDIndex, err := decoder.ReadUint8()
		if err != nil {
			return fmt.Errorf("unable to read instruction[%d].ProgramIDIndex: %w", i, err)
		}
		accountCount, err := decoder.ReadCompactU16Length()
		if err != nil {
			return fmt.Errorf("unable to read instruction[%d] account count: %w", i, err)
		}
		accounts := make([]uint16, accountCount)
		for j := 0; j < accountCount; j++ {
			idx, err := decoder.ReadUint8()
			if err != nil {
				return fmt.Errorf("unable to read instruction[%d].Accounts[%d]: %w", i, j, err)
			}
			accounts[j] = uint16(idx)
		}
		dataLen, err := decoder.ReadCompactU16Length()
		if err != nil {
			return fmt.Errorf("unable to read instruction[%d] data length: %w", i, err)
		}
		data, err := decoder.ReadNBytes(dataLen)
		if err != nil {
			return fmt.Errorf("unable to read instruction[%d] data: %w", i, err)
		}
		m.Instructions[i] = CompiledInstruction{
			ProgramIDIndex: uint16(programIDIndex),
			Accounts:       accounts,
			Data:           common.SolData{RawData: data, Encoding: "base58"},
		}
	}

	if m.IsVersioned() {
		tableCount, err := decoder.ReadCompactU16Length()
		if err != nil {
			return fmt.Errorf("unable to read address lookup table count: %w", err)
		}
		m.AddressLookupTables = make([]CompiledAddressLookupTable, tableCount)
		for i := 0; i < tableCount; i++ {
			var table CompiledAddressLookupTable
			if _, err := decoder.Read(table.AccountKey[:]); err != nil {
				return fmt.Errorf("unable to read lookup table[%d] key: %w", i, err)
			}
			writableCount, err := decoder.ReadCompactU16Length()
			if err != nil {
				return err
			}
			table.WritableIndexes, err = decoder.ReadNBytes(writableCount)
			if err != nil {
				return err
			}
			readonlyCount, err := decoder.ReadCompactU16Length()
			if err != nil {
				return err
			}
			table.ReadonlyIndexes, err = decoder.ReadNBytes(readonlyCount)
			if err != nil {
				return err
			}
			m.AddressLookupTables[i] = table
		}
	}

	return nil
}

// compiledKeyMeta tracks the signer/writable/invoked status accumulated for
// an account key while compiling a set of instructions into a Message.
type compiledKeyMeta struct {
	IsSigner   bool
	IsWritable bool
	IsInvoked  bool
}

// compileKeys merges every instruction's account metas (plus the fee payer
// and invoked program ids) into a single signer/writable-ordered key set.
func compileKeys(instructions []Instruction, payer common.Address) []common.Address {
	m := map[common.Address]*compiledKeyMeta{}

	ensure := func(addr common.Address) *compiledKeyMeta {
		meta, ok := m[addr]
		if !ok {
			meta = &compiledKeyMeta{}
			m[addr] = meta
		}
		return meta
	}

	for _, instruction := range instructions {
		ensure(instruction.ProgramID()).IsInvoked = true
		for _, acc := range instruction.Accounts() {
			meta := ensure(acc.PublicKey)
			meta.IsSigner = meta.IsSigner || acc.IsSigner
			meta.IsWritable = meta.IsWritable || acc.IsWritable
		}
	}

	if !payer.IsEmpty() {
		meta := ensure(payer)
		meta.IsSigner = true
		meta.IsWritable = true
	}

	var (
		writableSigned, readonlySigned     []common.Address
		writableUnsigned, readonlyUnsigned []common.Address
	)
	for addr, meta := range m {
		if addr == payer {
			continue
		}
		switch {
		case meta.IsSigner && meta.IsWritable:
			writableSigned = append(writableSigned, addr)
		case meta.IsSigner:
			readonlySigned = append(readonlySigned, addr)
		case meta.IsWritable:
			writableUnsigned = append(writableUnsigned, addr)
		default:
			readonlyUnsigned = append(readonlyUnsigned, addr)
		}
	}

	cmpAddr := func(s []common.Address) {
		sort.Slice(s, func(i, j int) bool { return bytes.Compare(s[i].Bytes(), s[j].Bytes()) < 0 })
	}
	cmpAddr(writableSigned)
	cmpAddr(readonlySigned)
	cmpAddr(writableUnsigned)
	cmpAddr(readonlyUnsigned)

	out := make([]common.Address, 0, len(m)+1)
	if !payer.IsEmpty() {
		out = append(out, payer)
	}
	out = append(out, writableSigned...)
	out = append(out, readonlySigned...)
	out = append(out, writableUnsigned...)
	out = append(out, readonlyUnsigned...)
	return out
}

// NewV0Message compiles instructions into a v0 Message. Unlike NewTransaction
// (which targets the legacy format), this skips address-lookup-table
// resolution and always inlines every account key; it exists so callers that
// already hold a v0-style Transaction can re-derive the Message independent
// of signing order, e.g. for fee estimation.
func NewV0Message(instructions []Instruction, recentBlockhash common.Hash, payer common.Address) (*Message, error) {
	if len(instructions) == 0 {
		return nil, fmt.Errorf("requires at-least one instruction to build a message")
	}

	keys := compileKeys(instructions, payer)

	keyIndex := make(map[common.Address]uint16, len(keys))
	for idx, key := range keys {
		keyIndex[key] = uint16(idx)
	}

	var numSigners, numReadonlySigned, numReadonlyUnsigned uint8
	metaByKey := map[common.Address]*AccountMeta{}
	for _, instruction := range instructions {
		for _, acc := range instruction.Accounts() {
			existing, ok := metaByKey[acc.PublicKey]
			if !ok {
				cp := *acc
				metaByKey[acc.PublicKey] = &cp
				continue
			}
			existing.IsSigner = existing.IsSigner || acc.IsSigner
			existing.IsWritable = existing.IsWritable || acc.IsWritable
		}
	}
	metaByKey[payer] = &AccountMeta{PublicKey: payer, IsSigner: true, IsWritable: true}
	for _, key := range keys {
		meta := metaByKey[key]
		if meta == nil || meta.IsSigner {
			numSigners++
			if meta == nil || !meta.IsWritable {
				numReadonlySigned++
			}
		} else if !meta.IsWritable {
			numReadonlyUnsigned++
		}
	}

	instructions2 := make([]CompiledInstruction, len(instructions))
	for i, instruction := range instructions {
		accs := instruction.Accounts()
		idxs := make([]uint16, len(accs))
		for j, acc := range accs {
			idxs[j] = keyIndex[acc.PublicKey]
		}
		data, err := instruction.Data()
		if err != nil {
			return nil, fmt.Errorf("unable to encode instruction[%d]: %w", i, err)
		}
		instructions2[i] = CompiledInstruction{
			ProgramIDIndex: keyIndex[instruction.ProgramID()],
			Accounts:       idxs,
			Data:           common.SolData{RawData: data, Encoding: "base58"},
		}
	}

	return &Message{
		Version:         MessageVersionV0,
		RecentBlockhash: recentBlockhash,
		AccountKeys:     keys,
		Instructions:    instructions2,
		Header: MessageHeader{
			NumRequiredSignatures:       numSigners,
			NumReadonlySignedAccounts:   numReadonlySigned,
			NumReadonlyUnsignedAccounts: numReadonlyUnsigned,
		},
	}, nil
}
