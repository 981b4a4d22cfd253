// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package svm

// TxErrorKind enumerates the transaction-rejection reasons the pipeline
// tracks for metrics, mirroring the reference validator's TransactionError
// variants closely enough to classify against without needing their exact
// wire encoding.
type TxErrorKind string

const (
	ErrAccountInUse                      TxErrorKind = "account_in_use"
	ErrAccountLoadedTwice                TxErrorKind = "account_loaded_twice"
	ErrAccountNotFound                    TxErrorKind = "account_not_found"
	ErrProgramAccountNotFound            TxErrorKind = "program_account_not_found"
	ErrInsufficientFundsForFee           TxErrorKind = "insufficient_funds_for_fee"
	ErrInvalidAccountForFee              TxErrorKind = "invalid_account_for_fee"
	ErrAlreadyProcessed                  TxErrorKind = "already_processed"
	ErrBlockhashNotFound                 TxErrorKind = "blockhash_not_found"
	ErrInstructionError                  TxErrorKind = "instruction_error"
	ErrCallChainTooDeep                  TxErrorKind = "call_chain_too_deep"
	ErrMissingSignatureForFee            TxErrorKind = "missing_signature_for_fee"
	ErrInvalidAccountIndex               TxErrorKind = "invalid_account_index"
	ErrSignatureFailure                  TxErrorKind = "signature_failure"
	ErrInvalidProgramForExecution        TxErrorKind = "invalid_program_for_execution"
	ErrSanitizeFailure                   TxErrorKind = "sanitize_failure"
	ErrClusterMaintenance                TxErrorKind = "cluster_maintenance"
	ErrAccountBorrowOutstanding          TxErrorKind = "account_borrow_outstanding"
	ErrWouldExceedMaxBlockCostLimit      TxErrorKind = "would_exceed_max_block_cost_limit"
	ErrUnsupportedVersion                TxErrorKind = "unsupported_version"
	ErrInvalidWritableAccount            TxErrorKind = "invalid_writable_account"
	ErrWouldExceedMaxAccountCostLimit    TxErrorKind = "would_exceed_max_account_cost_limit"
	ErrWouldExceedAccountDataBlockLimit  TxErrorKind = "would_exceed_account_data_block_limit"
	ErrTooManyAccountLocks               TxErrorKind = "too_many_account_locks"
	ErrAddressLookupTableNotFound        TxErrorKind = "address_lookup_table_not_found"
	ErrInvalidAddressLookupTableOwner    TxErrorKind = "invalid_address_lookup_table_owner"
	ErrInvalidAddressLookupTableData     TxErrorKind = "invalid_address_lookup_table_data"
	ErrInvalidAddressLookupTableIndex    TxErrorKind = "invalid_address_lookup_table_index"
	ErrInvalidRentPayingAccount          TxErrorKind = "invalid_rent_paying_account"
	ErrWouldExceedMaxVoteCostLimit       TxErrorKind = "would_exceed_max_vote_cost_limit"
	ErrWouldExceedAccountDataTotalLimit  TxErrorKind = "would_exceed_account_data_total_limit"
	ErrDuplicateInstruction              TxErrorKind = "duplicate_instruction"
	ErrInsufficientFundsForRent          TxErrorKind = "insufficient_funds_for_rent"
	ErrMaxLoadedAccountsDataSizeExceeded TxErrorKind = "max_loaded_accounts_data_size_exceeded"
	ErrInvalidLoadedAccountsDataSizeLimit TxErrorKind = "invalid_loaded_accounts_data_size_limit"
	ErrResanitizationNeeded              TxErrorKind = "resanitization_needed"
	ErrProgramExecutionTemporarilyRestricted TxErrorKind = "program_execution_temporarily_restricted"
	ErrUnbalancedTransaction             TxErrorKind = "unbalanced_transaction"
	ErrProgramCacheHitMaxLimit           TxErrorKind = "program_cache_hit_max_limit"
	ErrBrokenChain                       TxErrorKind = "broken_chain"
	ErrNonceNoRecentBlockhashes          TxErrorKind = "nonce_no_recent_blockhashes"
	ErrNonceBlockhashNotMatch            TxErrorKind = "nonce_blockhash_not_match"
	ErrResourceExhausted                 TxErrorKind = "resource_exhausted"
	ErrStorageIOFailure                  TxErrorKind = "storage_io_failure"
)

// TransactionErrorMetrics accumulates counts per TxErrorKind across the
// lifetime of the pipeline (or a reporting window), with Add folding in
// another snapshot for period-over-period aggregation.
type TransactionErrorMetrics struct {
	counts map[TxErrorKind]uint64
	processed uint64
}

// NewTransactionErrorMetrics returns an empty counter set.
func NewTransactionErrorMetrics() *TransactionErrorMetrics {
	return &TransactionErrorMetrics{counts: make(map[TxErrorKind]uint64)}
}

// RecordProcessed increments the total-transactions-seen counter, including
// successes, so ErrorRate has a denominator.
func (m *TransactionErrorMetrics) RecordProcessed() {
	m.processed++
}

// RecordError increments kind's counter by one, classifying an unrecognized
// kind as ErrInstructionError (the reference validator's catch-all).
func (m *TransactionErrorMetrics) RecordError(kind TxErrorKind) {
	m.counts[Classify(kind)]++
}

// Total sums every recorded error across all kinds.
func (m *TransactionErrorMetrics) Total() uint64 {
	var total uint64
	for _, c := range m.counts {
		total += c
	}
	return total
}

// Add folds other's counts into m, for merging per-worker shards.
func (m *TransactionErrorMetrics) Add(other *TransactionErrorMetrics) {
	for kind, c := range other.counts {
		m.counts[kind] += c
	}
	m.processed += other.processed
}

// ErrorRate returns Total() / processed, or 0 if nothing has been processed
// yet.
func (m *TransactionErrorMetrics) ErrorRate() float64 {
	if m.processed == 0 {
		return 0
	}
	return float64(m.Total()) / float64(m.processed)
}

// MostCommon returns the error kind with the highest count and its count,
// or ("", 0) if no errors have been recorded.
func (m *TransactionErrorMetrics) MostCommon() (TxErrorKind, uint64) {
	var (
		best      TxErrorKind
		bestCount uint64
	)
	for kind, c := range m.counts {
		if c > bestCount {
			best, bestCount = kind, c
		}
	}
	return best, bestCount
}

// Count returns the recorded count for a single kind.
func (m *TransactionErrorMetrics) Count(kind TxErrorKind) uint64 {
	return m.counts[kind]
}

// knownKinds is the full set of kinds Classify recognizes as distinct
// buckets; anything else falls through to ErrInstructionError.
var knownKinds = func() map[TxErrorKind]struct{} {
	all := []TxErrorKind{
		ErrAccountInUse, ErrAccountLoadedTwice, ErrAccountNotFound, ErrProgramAccountNotFound,
		ErrInsufficientFundsForFee, ErrInvalidAccountForFee, ErrAlreadyProcessed, ErrBlockhashNotFound,
		ErrInstructionError, ErrCallChainTooDeep, ErrMissingSignatureForFee, ErrInvalidAccountIndex,
		ErrSignatureFailure, ErrInvalidProgramForExecution, ErrSanitizeFailure, ErrClusterMaintenance,
		ErrAccountBorrowOutstanding, ErrWouldExceedMaxBlockCostLimit, ErrUnsupportedVersion,
		ErrInvalidWritableAccount, ErrWouldExceedMaxAccountCostLimit, ErrWouldExceedAccountDataBlockLimit,
		ErrTooManyAccountLocks, ErrAddressLookupTableNotFound, ErrInvalidAddressLookupTableOwner,
		ErrInvalidAddressLookupTableData, ErrInvalidAddressLookupTableIndex, ErrInvalidRentPayingAccount,
		ErrWouldExceedMaxVoteCostLimit, ErrWouldExceedAccountDataTotalLimit, ErrDuplicateInstruction,
		ErrInsufficientFundsForRent, ErrMaxLoadedAccountsDataSizeExceeded, ErrInvalidLoadedAccountsDataSizeLimit,
		ErrResanitizationNeeded, ErrProgramExecutionTemporarilyRestricted, ErrUnbalancedTransaction,
		ErrProgramCacheHitMaxLimit, ErrBrokenChain, ErrNonceNoRecentBlockhashes, ErrNonceBlockhashNotMatch,
		ErrResourceExhausted, ErrStorageIOFailure,
	}
	m := make(map[TxErrorKind]struct{}, len(all))
	for _, k := range all {
		m[k] = struct{}{}
	}
	return m
}()

// Classify maps kind to itself if recognized, otherwise to
// ErrInstructionError.
func Classify(kind TxErrorKind) TxErrorKind {
	if _, ok := knownKinds[kind]; ok {
		return kind
	}
	return ErrInstructionError
}
