// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/types"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingSink) Notify(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestBus_PublishNotifiesSubscribers(t *testing.T) {
	bus := New()
	defer bus.Close()

	sink := &recordingSink{}
	bus.Subscribe(sink)

	block := &types.Block{Slot: 1}
	bus.Publish(Event{Kind: EventBlockCommitted, Block: block})

	deadline := time.After(time.Second)
	for sink.count() == 0 {
		select {
		case <-deadline:
			t.Fatalf("sink never received the published event")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestNewSubscriptionID_NonZeroAndIncrements(t *testing.T) {
	a := NewSubscriptionID()
	b := NewSubscriptionID()
	if a == 0 || b == 0 {
		t.Fatalf("subscription ids must never be 0, got %d and %d", a, b)
	}
	if b != a+1 {
		t.Fatalf("subscription ids should increment by 1: got %d then %d", a, b)
	}
}

func TestBus_MultipleSinksAllNotified(t *testing.T) {
	bus := New()
	defer bus.Close()

	s1, s2 := &recordingSink{}, &recordingSink{}
	bus.Subscribe(s1)
	bus.Subscribe(s2)

	bus.Publish(Event{Kind: EventVoteObserved, Vote: &types.Vote{Slot: 1, Validator: common.Address{1}}})

	deadline := time.After(time.Second)
	for s1.count() == 0 || s2.count() == 0 {
		select {
		case <-deadline:
			t.Fatalf("not all sinks notified: s1=%d s2=%d", s1.count(), s2.count())
		case <-time.After(time.Millisecond):
		}
	}
}
