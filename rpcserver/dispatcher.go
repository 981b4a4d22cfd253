// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package rpcserver

import (
	"encoding/json"
	"fmt"

	"github.com/cielu/go-solana/accounts"
	"github.com/cielu/go-solana/corelog"
	"github.com/cielu/go-solana/ledger"
	"github.com/cielu/go-solana/svm"
	"github.com/cielu/go-solana/validatorcore"
)

// HandlerFunc is a registered method implementation. It receives the
// request's raw params and must return either a JSON-marshalable result or
// an error (mapped to -32603 Internal error by the dispatcher, or to
// -32602 Invalid params if the error is an *InvalidParamsError).
type HandlerFunc func(d *Dispatcher, params json.RawMessage) (interface{}, error)

// InvalidParamsError marks a handler failure as a malformed-params error
// rather than an opaque internal one.
type InvalidParamsError struct{ msg string }

func (e *InvalidParamsError) Error() string { return e.msg }

func invalidParams(format string, args ...interface{}) error {
	return &InvalidParamsError{msg: fmt.Sprintf(format, args...)}
}

// Dispatcher is a method registry bound to the read-side state every
// handler consults: the ledger store, account store, and orchestrator
// (for Head/CurrentSlot, derived from fork choice rather than the ledger).
type Dispatcher struct {
	Ledger       ledger.Store
	Accounts     accounts.Store
	Orchestrator *validatorcore.Orchestrator
	Metrics      *svm.TransactionErrorMetrics
	Subs         *SubscriptionRegistry

	methods map[string]HandlerFunc
	log     *corelog.Logger
}

// New returns a Dispatcher with every built-in method family registered.
func New(ledgerStore ledger.Store, accountStore accounts.Store, orch *validatorcore.Orchestrator, metrics *svm.TransactionErrorMetrics) *Dispatcher {
	d := &Dispatcher{
		Ledger:       ledgerStore,
		Accounts:     accountStore,
		Orchestrator: orch,
		Metrics:      metrics,
		Subs:         NewSubscriptionRegistry(),
		methods:      make(map[string]HandlerFunc),
		log:          corelog.New("rpcserver"),
	}
	registerAccountMethods(d)
	registerBlockMethods(d)
	registerTransactionMethods(d)
	registerNetworkMethods(d)
	registerConsensusMethods(d)
	registerInflationMethods(d)
	registerUtilityMethods(d)
	registerSupplyMethods(d)
	registerTokenMethods(d)
	registerSubscriptionMethods(d)
	return d
}

// Register adds or overwrites a method in the registry.
func (d *Dispatcher) Register(method string, fn HandlerFunc) {
	d.methods[method] = fn
}

func (d *Dispatcher) currentSlot() uint64 {
	if d.Orchestrator == nil {
		slot, err := d.Ledger.GetLatestSlot()
		if err != nil {
			return 0
		}
		return uint64(slot)
	}
	return uint64(d.Orchestrator.CurrentSlot())
}

// HandleRequest implements the 5-step contract: parse, validate
// method/id, dispatch, catch handler failure, format.
func (d *Dispatcher) HandleRequest(raw []byte) []byte {
	resp := d.handle(raw)
	body, err := json.Marshal(resp)
	if err != nil {
		// Marshaling our own Response should never fail; fall back to a
		// minimal internal-error envelope rather than return malformed JSON.
		body, _ = json.Marshal(newError(json.RawMessage("null"), CodeInternalError, "internal error"))
	}
	return body
}

func (d *Dispatcher) handle(raw []byte) *Response {
	// 1-2. parse
	var req Request
	if len(raw) == 0 {
		return newError(nil, CodeParseError, "Parse error")
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return newError(nil, CodeParseError, "Parse error")
	}

	// 3. validate method/id
	if req.Method == "" || len(req.ID) == 0 {
		return newError(nil, CodeInvalidRequest, "Invalid Request")
	}

	// 4. dispatch
	fn, ok := d.methods[req.Method]
	if !ok {
		return newError(req.ID, CodeMethodNotFound, "Method not found")
	}

	// 5. invoke, catching both returned errors and panics
	result, err := d.invoke(fn, req.Params)
	if err != nil {
		if _, ok := err.(*InvalidParamsError); ok {
			return newError(req.ID, CodeInvalidParams, err.Error())
		}
		d.log.Warn("method %q failed: %v", req.Method, err)
		return newError(req.ID, CodeInternalError, "Internal error")
	}
	return newResult(req.ID, result)
}

func (d *Dispatcher) invoke(fn HandlerFunc, params json.RawMessage) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return fn(d, params)
}
