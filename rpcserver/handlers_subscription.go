// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package rpcserver

import "encoding/json"

func subscribeHandler(kind SubscriptionKind) HandlerFunc {
	return func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		return d.Subs.Subscribe(kind), nil
	}
}

func unsubscribeHandler() HandlerFunc {
	return func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		var args []uint64
		if err := json.Unmarshal(params, &args); err != nil || len(args) == 0 {
			return nil, invalidParams("expected [subscriptionId] params")
		}
		return d.Subs.Unsubscribe(args[0]), nil
	}
}

func registerSubscriptionMethods(d *Dispatcher) {
	families := []struct {
		name string
		kind SubscriptionKind
	}{
		{"account", SubAccount},
		{"block", SubBlock},
		{"logs", SubLogs},
		{"program", SubProgram},
		{"root", SubRoot},
		{"signature", SubSignature},
		{"slot", SubSlot},
		{"slotsUpdates", SubSlotsUpdates},
		{"vote", SubVote},
	}
	for _, f := range families {
		d.Register(f.name+"Subscribe", subscribeHandler(f.kind))
		d.Register(f.name+"Unsubscribe", unsubscribeHandler())
	}
}
