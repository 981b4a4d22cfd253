// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

// Package eventbus fans out validator-core events (new blocks, observed
// votes) to subscribers through a bounded queue drained by a background
// dispatch loop.
package eventbus

import (
	"sync"
	"time"

	"github.com/cielu/go-solana/corelog"
	"github.com/cielu/go-solana/types"
)

// EventKind discriminates the payload carried by an Event.
type EventKind int

const (
	EventBlockCommitted EventKind = iota
	EventVoteObserved
)

// Event is one notification published onto the bus.
type Event struct {
	Kind  EventKind
	Block *types.Block
	Vote  *types.Vote
}

// Sink receives published events. Implementations must not block for long;
// the bus invokes sinks synchronously from the dispatch goroutine.
type Sink interface {
	Notify(Event)
}

// defaultQueueCapacity is the bound on the inbound event queue. Once full,
// Publish applies the drop policy described on Publish: vote events may be
// dropped, block events are not.
const defaultQueueCapacity = 256

// producerTimeout bounds how long Publish will wait for queue space before
// applying the drop policy.
const producerTimeout = 100 * time.Millisecond

// Bus is a bounded, single-consumer event queue: Publish is the producer
// side (called from the orchestrator's single writer goroutine), and a
// background dispatch loop drains the queue into every registered Sink.
type Bus struct {
	mu       sync.RWMutex
	sinks    []Sink
	queue    chan Event
	stopOnce sync.Once
	stopCh   chan struct{}
	log      *corelog.Logger
}

// New returns a Bus with the default queue capacity and starts its
// dispatch loop.
func New() *Bus {
	b := &Bus{
		queue:  make(chan Event, defaultQueueCapacity),
		stopCh: make(chan struct{}),
		log:    corelog.New("eventbus"),
	}
	go b.dispatchLoop()
	return b
}

// Subscribe registers sink to receive every future published event.
func (b *Bus) Subscribe(sink Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, sink)
}

// Publish enqueues event for dispatch. If the queue is full it waits up to
// producerTimeout for space; past that it applies the drop policy: a vote
// event is dropped, a block event is never dropped (Publish blocks until
// the block event is enqueued, since a missed block notification could
// desynchronize a subscriber's view of the canonical chain).
func (b *Bus) Publish(event Event) {
	select {
	case b.queue <- event:
		return
	default:
	}

	timer := time.NewTimer(producerTimeout)
	defer timer.Stop()
	select {
	case b.queue <- event:
		return
	case <-timer.C:
		if event.Kind == EventVoteObserved {
			b.log.Warn("dropping vote_observed event, queue full after %s", producerTimeout)
			return
		}
		// block_committed must never be dropped; block until there is room.
		b.queue <- event
	}
}

func (b *Bus) dispatchLoop() {
	for {
		select {
		case event := <-b.queue:
			b.mu.RLock()
			sinks := make([]Sink, len(b.sinks))
			copy(sinks, b.sinks)
			b.mu.RUnlock()
			for _, sink := range sinks {
				sink.Notify(event)
			}
		case <-b.stopCh:
			return
		}
	}
}

// Close stops the dispatch loop. Already-queued events are discarded.
func (b *Bus) Close() {
	b.stopOnce.Do(func() { close(b.stopCh) })
}
