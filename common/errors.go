// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package common

import "errors"

var (
	ErrLamportsOverflow     = errors.New("lamports addition overflows uint64")
	ErrInsufficientLamports = errors.New("insufficient lamports")
)
