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

package chainsummary

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardano-go/ledgerstate/core/types"
)

func twoEras() []types.EraSummary {
	return []types.EraSummary{
		{
			ProtocolMajor: 2,
			Start:         types.EraBound{Epoch: 0, Slot: 0, Timestamp: 1000},
			End:           &types.EraBound{Epoch: 10, Slot: 1000, Timestamp: 2000},
			EpochLength:   100,
			SlotLength:    1000,
		},
		{
			ProtocolMajor: 3,
			Start:       types.EraBound{Epoch: 10, Slot: 1000, Timestamp: 2000},
			End:         nil,
			EpochLength: 200,
			SlotLength:  2000,
		},
	}
}

func TestEraForSlotAndEpoch(t *testing.T) {
	s := New(twoEras())

	e, err := s.EraForSlot(500)
	require.NoError(t, err)
	require.Equal(t, uint16(2), e.ProtocolMajor)

	e, err = s.EraForSlot(1000)
	require.NoError(t, err)
	require.Equal(t, uint16(3), e.ProtocolMajor, "slot at the edge era's start belongs to the edge era")

	e, err = s.EraForEpoch(5)
	require.NoError(t, err)
	require.Equal(t, uint16(2), e.ProtocolMajor)

	e, err = s.EraForEpoch(10)
	require.NoError(t, err)
	require.Equal(t, uint16(3), e.ProtocolMajor)
}

func TestSlotEpochAndTime(t *testing.T) {
	s := New(twoEras())

	epoch, offset, err := s.SlotEpoch(250)
	require.NoError(t, err)
	require.Equal(t, uint64(2), epoch)
	require.Equal(t, uint64(50), offset)

	ts, err := s.SlotTime(250)
	require.NoError(t, err)
	require.Equal(t, int64(1000+250), ts)

	epoch, offset, err = s.SlotEpoch(1300)
	require.NoError(t, err)
	require.Equal(t, uint64(11), epoch)
	require.Equal(t, uint64(100), offset)
}

func TestEpochStartSlotRoundTrip(t *testing.T) {
	s := New(twoEras())
	slot, err := s.EpochStartSlot(3)
	require.NoError(t, err)
	require.Equal(t, uint64(300), slot)

	epoch, offset, err := s.SlotEpoch(slot)
	require.NoError(t, err)
	require.Equal(t, uint64(3), epoch)
	require.Equal(t, uint64(0), offset)
}

func TestEndSlotMatchesEpochBoundary(t *testing.T) {
	s := New(twoEras())

	end, err := s.EndSlot(50)
	require.NoError(t, err)
	require.Equal(t, uint64(99), end)

	end, err = s.EndSlot(1000)
	require.NoError(t, err)
	require.Equal(t, uint64(1199), end)
}

func TestUnknownSlotErrors(t *testing.T) {
	s := New(twoEras())
	_, err := s.SlotTime(999999999)
	require.NoError(t, err, "any slot at or past the edge era's start resolves against it")

	empty := New(nil)
	_, err = empty.EraForSlot(0)
	require.Error(t, err)
}
