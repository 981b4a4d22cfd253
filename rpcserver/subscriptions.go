// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package rpcserver

import (
	"sync"

	"github.com/cielu/go-solana/eventbus"
)

// SubscriptionKind names the notification family a subscription id is
// registered under; actual push delivery over a live connection is the
// collaborator-owned websocket's job (eventbus.WebSocketSink) — this
// registry only owns the bookkeeping the dispatcher's subscribe/unsubscribe
// methods are responsible for.
type SubscriptionKind string

const (
	SubAccount      SubscriptionKind = "account"
	SubBlock        SubscriptionKind = "block"
	SubLogs         SubscriptionKind = "logs"
	SubProgram      SubscriptionKind = "program"
	SubRoot         SubscriptionKind = "root"
	SubSignature    SubscriptionKind = "signature"
	SubSlot         SubscriptionKind = "slot"
	SubSlotsUpdates SubscriptionKind = "slotsUpdates"
	SubVote         SubscriptionKind = "vote"
)

// SubscriptionRegistry tracks live subscription ids, reusing
// eventbus.NewSubscriptionID's process-wide counter so RPC subscription ids
// and websocket sink subscription ids are drawn from the same id space and
// never collide or repeat.
type SubscriptionRegistry struct {
	mu   sync.RWMutex
	subs map[uint64]SubscriptionKind
}

// NewSubscriptionRegistry returns an empty registry.
func NewSubscriptionRegistry() *SubscriptionRegistry {
	return &SubscriptionRegistry{subs: make(map[uint64]SubscriptionKind)}
}

// Subscribe registers a new subscription of the given kind and returns its
// id.
func (r *SubscriptionRegistry) Subscribe(kind SubscriptionKind) uint64 {
	id := eventbus.NewSubscriptionID()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[id] = kind
	return id
}

// Unsubscribe removes id if present. It is idempotent: a second call
// returns true and does nothing, matching the spec's unsubscribe contract.
func (r *SubscriptionRegistry) Unsubscribe(id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, id)
	return true
}

// Count reports the number of live subscriptions, for tests and diagnostics.
func (r *SubscriptionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}
