// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package eventbus

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/cielu/go-solana/corelog"
)

// nextSubscriptionID is the atomic counter behind NewSubscriptionID; 0 is
// reserved so callers can treat it as "no subscription" in zero-value
// structs.
var nextSubscriptionID uint64 = 0

// NewSubscriptionID returns the next globally unique subscription id,
// starting at 1.
func NewSubscriptionID() uint64 {
	return atomic.AddUint64(&nextSubscriptionID, 1)
}

// wsSubscription binds one client connection to the subscription id(s) it
// is listening for.
type wsSubscription struct {
	id   uint64
	kind EventKind
	conn *websocket.Conn
}

// wsNotification is the JSON payload pushed to a subscribed client,
// mirroring the shape of a Solana account/signature notification: a
// subscription id plus the event's kind-specific body.
type wsNotification struct {
	Subscription uint64      `json:"subscription"`
	Kind         string      `json:"kind"`
	Result       interface{} `json:"result"`
}

// WebSocketSink fans Bus events out to subscribed websocket clients,
// keyed by subscription id so a client can cancel one notification stream
// without closing its connection.
type WebSocketSink struct {
	mu   sync.RWMutex
	subs map[uint64]*wsSubscription
	log  *corelog.Logger
}

// NewWebSocketSink returns an empty sink ready for Subscribe calls.
func NewWebSocketSink() *WebSocketSink {
	return &WebSocketSink{
		subs: make(map[uint64]*wsSubscription),
		log:  corelog.New("eventbus-ws"),
	}
}

// Subscribe registers conn to receive notifications for kind, returning the
// new subscription id.
func (s *WebSocketSink) Subscribe(conn *websocket.Conn, kind EventKind) uint64 {
	id := NewSubscriptionID()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[id] = &wsSubscription{id: id, kind: kind, conn: conn}
	return id
}

// Unsubscribe removes a subscription; it reports whether one was found.
func (s *WebSocketSink) Unsubscribe(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[id]; !ok {
		return false
	}
	delete(s.subs, id)
	return true
}

// Notify implements Sink: it writes event to every subscription whose kind
// matches, dropping (and logging) any connection that errors rather than
// letting one slow client block the whole dispatch loop.
func (s *WebSocketSink) Notify(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result interface{}
	var kindName string
	switch event.Kind {
	case EventBlockCommitted:
		kindName = "block_committed"
		result = event.Block
	case EventVoteObserved:
		kindName = "vote_observed"
		result = event.Vote
	}

	for _, sub := range s.subs {
		if sub.kind != event.Kind {
			continue
		}
		payload := wsNotification{Subscription: sub.id, Kind: kindName, Result: result}
		body, err := json.Marshal(payload)
		if err != nil {
			s.log.Error("marshal notification for subscription %d: %v", sub.id, err)
			continue
		}
		if err := sub.conn.WriteMessage(websocket.TextMessage, body); err != nil {
			s.log.Warn("dropping subscription %d after write error: %v", sub.id, err)
			delete(s.subs, sub.id)
		}
	}
}
