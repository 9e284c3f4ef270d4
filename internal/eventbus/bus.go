// Package eventbus implements the in-process broadcaster feeding live
// subscriber connections. It is a pure mechanism: no persistence, no
// replay, at-most-once delivery per subscriber.
package eventbus

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/fleetline/logistics-platform/internal/core/domain"
)

const defaultBuffer = 64

// subscriber is one live listener on a channel. closed subscribers stay in
// the map slot as nil until compaction to preserve registration order.
type subscriber struct {
	id      uint64
	channel string
	ch      chan domain.RealtimeEvent
	closed  bool
}

// Bus is a process-wide broadcaster with channel-scoped subscriptions.
// The reserved channel "all" receives every broadcast. A subscriber whose
// buffer is full is dropped, never awaited: publishers must not block on
// slow consumers.
type Bus struct {
	mu     sync.Mutex
	subs   map[string][]*subscriber
	nextID uint64
	buffer int
	log    zerolog.Logger
}

// New creates a Bus. bufferSize <= 0 selects the default per-subscriber
// buffer.
func New(bufferSize int, log zerolog.Logger) *Bus {
	if bufferSize <= 0 {
		bufferSize = defaultBuffer
	}
	return &Bus{
		subs:   make(map[string][]*subscriber),
		buffer: bufferSize,
		log:    log,
	}
}

// Subscribe registers a listener on the given channel and returns the event
// stream plus an unsubscribe function. Unsubscribe is idempotent, closes the
// stream, and guarantees no further delivery.
func (b *Bus) Subscribe(channel string) (<-chan domain.RealtimeEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &subscriber{
		id:      b.nextID,
		channel: channel,
		ch:      make(chan domain.RealtimeEvent, b.buffer),
	}
	b.subs[channel] = append(b.subs[channel], sub)

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.drop(sub)
	}
	return sub.ch, unsubscribe
}

// Broadcast fans the event out to every listener on the named channels plus
// the "all" channel, synchronously, in registration order. A listener whose
// buffer is full is marked closed and removed; the failure never propagates
// to the publisher.
func (b *Bus) Broadcast(event domain.RealtimeEvent, channels ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delivered := make(map[uint64]struct{})
	targets := append([]string{}, channels...)
	targets = append(targets, domain.ChannelAll)

	for _, channel := range targets {
		// Snapshot the listener list: dropping a full subscriber compacts
		// b.subs[channel] in place, which would shift its neighbors into
		// already-visited slots and skip them.
		subs := append([]*subscriber(nil), b.subs[channel]...)
		for _, sub := range subs {
			if sub.closed {
				continue
			}
			if _, done := delivered[sub.id]; done {
				continue
			}
			delivered[sub.id] = struct{}{}

			select {
			case sub.ch <- event:
			default:
				// Slow consumer: drop it rather than block the publisher.
				b.log.Warn().
					Str("channel", sub.channel).
					Uint64("subscriber_id", sub.id).
					Str("event_type", string(event.Type)).
					Msg("subscriber buffer full, dropping connection")
				b.drop(sub)
			}
		}
	}
}

// SubscriberCount returns the number of live listeners on a channel.
func (b *Bus) SubscriberCount(channel string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, sub := range b.subs[channel] {
		if !sub.closed {
			n++
		}
	}
	return n
}

// Close drops every subscriber. Used at process shutdown.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, subs := range b.subs {
		for _, sub := range subs {
			if !sub.closed {
				sub.closed = true
				close(sub.ch)
			}
		}
	}
	b.subs = make(map[string][]*subscriber)
}

// drop removes a subscriber and closes its stream. Caller holds b.mu.
func (b *Bus) drop(sub *subscriber) {
	if sub.closed {
		return
	}
	sub.closed = true
	close(sub.ch)

	remaining := b.subs[sub.channel][:0]
	for _, s := range b.subs[sub.channel] {
		if s.id != sub.id {
			remaining = append(remaining, s)
		}
	}
	if len(remaining) == 0 {
		delete(b.subs, sub.channel)
	} else {
		b.subs[sub.channel] = remaining
	}
}
