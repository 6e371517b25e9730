// Copyright 2026 The intmap Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package intmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextSlot(t *testing.T) {
	const mask = 7
	require.EqualValues(t, 1, nextSlot(0, mask))
	require.EqualValues(t, 7, nextSlot(6, mask))
	require.EqualValues(t, 0, nextSlot(7, mask))
}

func TestWouldBreakChain(t *testing.T) {
	testCases := []struct {
		last, pos, slot uint64
		expected        bool
	}{
		// last < pos, no wraparound: the interval (last, pos] is contiguous.
		{2, 5, 3, true},
		{2, 5, 5, true},
		{2, 5, 2, false},
		{2, 5, 6, false},
		{2, 5, 0, false},
		// last > pos: the interval wraps the table boundary.
		{6, 1, 7, true},
		{6, 1, 0, true},
		{6, 1, 1, true},
		{6, 1, 3, false},
		{6, 1, 6, false},
		// Rotation where the natural start exceeds the candidate position
		// without wrapping the hole.
		{0, 3, 7, false},
		{0, 3, 1, true},
		{7, 2, 0, true},
		{7, 2, 5, false},
	}
	for _, c := range testCases {
		require.Equal(t, c.expected, wouldBreakChain(c.last, c.pos, c.slot),
			"last=%d pos=%d slot=%d", c.last, c.pos, c.slot)
	}
}

func TestWouldBreakChainExhaustive(t *testing.T) {
	// Cross-check every triple in an 8-slot table against the circular
	// distance formulation: the move is unsafe iff the natural start lies in
	// (last, pos], i.e. 0 < dist(last, slot) <= dist(last, pos).
	const mask = 7
	dist := func(from, to uint64) uint64 {
		return (to - from) & mask
	}
	for last := uint64(0); last <= mask; last++ {
		for pos := uint64(0); pos <= mask; pos++ {
			for slot := uint64(0); slot <= mask; slot++ {
				expected := dist(last, slot) > 0 && dist(last, slot) <= dist(last, pos)
				require.Equal(t, expected, wouldBreakChain(last, pos, slot),
					"last=%d pos=%d slot=%d", last, pos, slot)
			}
		}
	}
}
