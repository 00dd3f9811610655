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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardano-go/ledgerstate/core/types"
)

func TestTipBusDeliversToMultipleSubscribers(t *testing.T) {
	bus := NewTipBus()
	s1 := bus.subscribe()
	s2 := bus.subscribe()
	defer s1.Unsubscribe()
	defer s2.Unsubscribe()

	point := types.SpecificPoint(42, txHash(1))
	bus.NotifyApply(point, []byte("raw"))

	ev1 := <-s1.Events
	ev2 := <-s2.Events
	require.Equal(t, TipApply, ev1.Kind)
	require.Equal(t, uint64(42), ev1.Point.Slot)
	require.Equal(t, ev1, ev2)
}

func TestTipBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewTipBus()
	s := bus.subscribe()
	s.Unsubscribe()

	_, ok := <-s.Events
	require.False(t, ok)
}

func TestTipBusDisconnectsSlowSubscriber(t *testing.T) {
	bus := NewTipBus()
	s := bus.subscribe()
	defer s.Unsubscribe()

	for i := 0; i < tipBusBacklog+10; i++ {
		bus.NotifyApply(types.SpecificPoint(uint64(i), txHash(byte(i))), nil)
	}

	// The channel was closed once the backlog overflowed; draining it
	// eventually yields a closed, not-ok read rather than blocking forever.
	drained := 0
	for range s.Events {
		drained++
	}
	require.LessOrEqual(t, drained, tipBusBacklog)
}

func TestTipBusNotifyUndoKind(t *testing.T) {
	bus := NewTipBus()
	s := bus.subscribe()
	defer s.Unsubscribe()

	point := types.SpecificPoint(7, txHash(9))
	bus.NotifyUndo(point, []byte("undo-raw"))

	ev := <-s.Events
	require.Equal(t, TipUndo, ev.Kind)
	require.Equal(t, point, ev.Point)
}
