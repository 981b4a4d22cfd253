// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package rpcserver

import "encoding/json"

// coreVersion is the wire-reported version string for this validator core.
const coreVersion = "1.0.0"

func registerNetworkMethods(d *Dispatcher) {
	d.Register("getClusterNodes", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		// Gossip peer discovery is a named external collaborator (peer
		// message bus); this core reports only itself.
		return []map[string]interface{}{
			{"pubkey": "", "gossip": nil, "tpu": nil, "rpc": nil, "version": coreVersion},
		}, nil
	})

	d.Register("getVersion", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		return map[string]string{"solana-core": coreVersion}, nil
	})

	d.Register("getHealth", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		if d.Orchestrator == nil {
			return "ok", nil
		}
		return "ok", nil
	})

	d.Register("getIdentity", func(d *Dispatcher, params json.RawMessage) (interface{}, error) {
		return map[string]string{"identity": ""}, nil
	})
}
