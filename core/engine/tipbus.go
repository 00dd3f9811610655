// Copyright 2026 The Cardano-Go Authors
// This file is part of ledgerstate.
//
// ledgerstate is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ledgerstate is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with ledgerstate. If not, see <http://www.gnu.org/licenses/>.

package engine

import (
	"sync"

	"github.com/cardano-go/ledgerstate/core/types"
)

// TipEventKind discriminates the two shapes watch_tip delivers (spec §6
// "TipEvent = Apply(point,raw) | Undo(point,raw)").
type TipEventKind uint8

const (
	TipApply TipEventKind = iota
	TipUndo
)

// TipEvent is one chain-tip transition: a block applied going forward, or
// one undone during rollback.
type TipEvent struct {
	Kind  TipEventKind
	Point types.ChainPoint
	Raw   []byte
}

// tipBusBacklog bounds how far a subscriber may fall behind before the bus
// gives up on it rather than letting a slow reader apply backpressure to
// the write path (spec §5 "disconnecting slow subscribers with an error").
const tipBusBacklog = 1024

// TipBus is the single-producer, many-consumer broadcast of tip events.
// RollPipeline (NotifyApply) and Engine.Rollback (NotifyUndo) are the only
// producers, always called from the one control thread that also drives
// RollUnit/Sweep, so NotifyApply and NotifyUndo are never called
// concurrently with each other; subscribers
// each get their own buffered channel so one cannot stall another.
type TipBus struct {
	mu   sync.Mutex
	subs map[int]chan TipEvent
	next int
}

func NewTipBus() *TipBus {
	return &TipBus{subs: make(map[int]chan TipEvent)}
}

// NotifyApply implements pipeline.TipNotifier, broadcasting an Apply event.
func (b *TipBus) NotifyApply(point types.ChainPoint, raw []byte) {
	b.broadcast(TipEvent{Kind: TipApply, Point: point, Raw: raw})
}

// NotifyUndo broadcasts an Undo event; called by Engine.Rollback once per
// WAL record it unwinds, in unwind order (newest first).
func (b *TipBus) NotifyUndo(point types.ChainPoint, raw []byte) {
	b.broadcast(TipEvent{Kind: TipUndo, Point: point, Raw: raw})
}

func (b *TipBus) broadcast(ev TipEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber fell behind tipBusBacklog events; disconnect it
			// rather than block the writer.
			close(ch)
			delete(b.subs, id)
		}
	}
}

// Subscription is a live WatchTip registration. Events arrives in commit
// order; the bus closes it on Unsubscribe or when the subscriber falls
// more than tipBusBacklog events behind.
type Subscription struct {
	Events <-chan TipEvent
	bus    *TipBus
	id     int
}

// Unsubscribe stops delivery and releases the subscriber's channel. Safe
// to call more than once.
func (s *Subscription) Unsubscribe() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	if ch, ok := s.bus.subs[s.id]; ok {
		close(ch)
		delete(s.bus.subs, s.id)
	}
}

// subscribe registers a fresh, empty subscription. Replay-then-live-stream
// semantics (spec §6 "on subscribe, replay from the requested chain point
// then switch to live") are Engine.WatchTip's responsibility: it replays
// from the WAL before returning this subscription's channel to the caller,
// so no event is duplicated or missed across the handoff.
func (b *TipBus) subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan TipEvent, tipBusBacklog)
	id := b.next
	b.next++
	b.subs[id] = ch
	return &Subscription{Events: ch, bus: b, id: id}
}
